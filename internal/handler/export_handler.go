package handler

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	"github.com/schoolops/timetable-api/pkg/response"
)

// ExportHandler serves downloadable timetable documents.
type ExportHandler struct {
	service *service.ExportService
}

// NewExportHandler constructs handler.
func NewExportHandler(svc *service.ExportService) *ExportHandler {
	return &ExportHandler{service: svc}
}

// SectionTimetable godoc
// @Summary Export a section's timetable
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param schoolId query string true "School ID"
// @Param classId query string true "Class ID"
// @Param sectionId query string true "Section ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/section-timetable [get]
func (h *ExportHandler) SectionTimetable(c *gin.Context) {
	result, err := h.service.ExportSectionTimetable(
		c.Request.Context(),
		c.Query("schoolId"),
		c.Query("classId"),
		c.Query("sectionId"),
		c.DefaultQuery("format", service.ExportFormatCSV),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

// TeacherSchedule godoc
// @Summary Export a teacher's aggregated schedule
// @Tags Exports
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Teacher ID"
// @Param format query string true "csv or pdf"
// @Success 200 {file} binary
// @Router /exports/teachers/{id}/schedule [get]
func (h *ExportHandler) TeacherSchedule(c *gin.Context) {
	result, err := h.service.ExportTeacherSchedule(
		c.Request.Context(),
		c.Param("id"),
		c.DefaultQuery("format", service.ExportFormatCSV),
	)
	if err != nil {
		response.Error(c, err)
		return
	}
	serveDownload(c, result)
}

func serveDownload(c *gin.Context, result *service.ExportResult) {
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", result.Filename))
	c.Data(http.StatusOK, result.ContentType, result.Content)
}
