package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/response"
)

// TeacherScheduleHandler serves aggregated teacher timetables and link
// management endpoints.
type TeacherScheduleHandler struct {
	service *service.TeacherScheduleService
}

// NewTeacherScheduleHandler constructs handler.
func NewTeacherScheduleHandler(svc *service.TeacherScheduleService) *TeacherScheduleHandler {
	return &TeacherScheduleHandler{service: svc}
}

type linkEntryRequest struct {
	TimetableEntryID string `json:"timetable_entry_id" binding:"required"`
}

// Get godoc
// @Summary Get a teacher's aggregated weekly schedule
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/schedule [get]
func (h *TeacherScheduleHandler) Get(c *gin.Context) {
	schedule, err := h.service.GetTeacherSchedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// ListLinks godoc
// @Summary List a teacher's timetable links
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /teachers/{id}/schedule/links [get]
func (h *TeacherScheduleHandler) ListLinks(c *gin.Context) {
	links, err := h.service.ListLinks(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, links, nil)
}

// Link godoc
// @Summary Link a teacher to an existing timetable entry
// @Tags Teachers
// @Accept json
// @Produce json
// @Param id path string true "Teacher ID"
// @Param payload body linkEntryRequest true "Link payload"
// @Success 201 {object} response.Envelope
// @Router /teachers/{id}/schedule/links [post]
func (h *TeacherScheduleHandler) Link(c *gin.Context) {
	var req linkEntryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	link, err := h.service.LinkEntry(c.Request.Context(), c.Param("id"), req.TimetableEntryID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, link)
}

// Unlink godoc
// @Summary Remove a teacher's timetable link
// @Tags Teachers
// @Produce json
// @Param id path string true "Teacher ID"
// @Param linkId path string true "Link ID"
// @Success 204
// @Router /teachers/{id}/schedule/links/{linkId} [delete]
func (h *TeacherScheduleHandler) Unlink(c *gin.Context) {
	if err := h.service.UnlinkEntry(c.Request.Context(), c.Param("id"), c.Param("linkId")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
