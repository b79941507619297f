package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/response"
)

// TimetableHandler manages period assignment endpoints.
type TimetableHandler struct {
	service *service.TimetableService
}

// NewTimetableHandler constructs handler.
func NewTimetableHandler(svc *service.TimetableService) *TimetableHandler {
	return &TimetableHandler{service: svc}
}

// Propose godoc
// @Summary Propose a period assignment
// @Tags Timetable
// @Accept json
// @Produce json
// @Param payload body service.ProposeAssignmentRequest true "Assignment payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable/entries [post]
func (h *TimetableHandler) Propose(c *gin.Context) {
	var req service.ProposeAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.ProposeAssignment(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, entry)
}

// Reassign godoc
// @Summary Reassign or edit a period assignment
// @Tags Timetable
// @Accept json
// @Produce json
// @Param id path string true "Entry ID"
// @Param payload body service.ReassignPeriodRequest true "Partial update payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /timetable/entries/{id} [patch]
func (h *TimetableHandler) Reassign(c *gin.Context) {
	var req service.ReassignPeriodRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	entry, err := h.service.ReassignPeriod(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entry, nil)
}

// Delete godoc
// @Summary Delete a period assignment
// @Tags Timetable
// @Produce json
// @Param id path string true "Entry ID"
// @Success 204
// @Router /timetable/entries/{id} [delete]
func (h *TimetableHandler) Delete(c *gin.Context) {
	if err := h.service.DeleteEntry(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// ListBySection godoc
// @Summary List a section's timetable
// @Tags Timetable
// @Produce json
// @Param schoolId query string true "School ID"
// @Param classId query string true "Class ID"
// @Param sectionId query string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /timetable/entries [get]
func (h *TimetableHandler) ListBySection(c *gin.Context) {
	entries, err := h.service.ListSectionAssignments(c.Request.Context(), c.Query("schoolId"), c.Query("classId"), c.Query("sectionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, entries, nil)
}
