package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/response"
)

// SessionHandler manages session and session plan endpoints.
type SessionHandler struct {
	service *service.SessionService
}

// NewSessionHandler constructs handler.
func NewSessionHandler(svc *service.SessionService) *SessionHandler {
	return &SessionHandler{service: svc}
}

// Create godoc
// @Summary Create a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param payload body service.CreateSessionRequest true "Session payload"
// @Success 201 {object} response.Envelope
// @Router /sessions [post]
func (h *SessionHandler) Create(c *gin.Context) {
	var req service.CreateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Get a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [get]
func (h *SessionHandler) Get(c *gin.Context) {
	session, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// ListBySection godoc
// @Summary List a section's sessions in priority order
// @Tags Sessions
// @Produce json
// @Param sectionId query string true "Section ID"
// @Success 200 {object} response.Envelope
// @Router /sessions [get]
func (h *SessionHandler) ListBySection(c *gin.Context) {
	sessions, err := h.service.ListBySection(c.Request.Context(), c.Query("sectionId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, sessions, nil)
}

// Update godoc
// @Summary Update a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.UpdateSessionRequest true "Partial update payload"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id} [patch]
func (h *SessionHandler) Update(c *gin.Context) {
	var req service.UpdateSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	session, err := h.service.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Delete godoc
// @Summary Delete a session and its plans
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 204
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddPlan godoc
// @Summary Add a plan to a session
// @Tags Sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body service.AddSessionPlanRequest true "Plan payload"
// @Success 201 {object} response.Envelope
// @Router /sessions/{id}/plans [post]
func (h *SessionHandler) AddPlan(c *gin.Context) {
	var req service.AddSessionPlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.AddPlan(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, plan)
}

// ListPlans godoc
// @Summary List a session's plans
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/plans [get]
func (h *SessionHandler) ListPlans(c *gin.Context) {
	plans, err := h.service.ListPlans(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plans, nil)
}

// UpdatePlanStatus godoc
// @Summary Update a session plan's progress
// @Tags Sessions
// @Accept json
// @Produce json
// @Param planId path string true "Plan ID"
// @Param payload body service.UpdateSessionPlanStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Router /session-plans/{planId} [patch]
func (h *SessionHandler) UpdatePlanStatus(c *gin.Context) {
	var req service.UpdateSessionPlanStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	plan, err := h.service.UpdatePlanStatus(c.Request.Context(), c.Param("planId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, plan, nil)
}

// DeletePlans godoc
// @Summary Delete all plans of a session
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /sessions/{id}/plans [delete]
func (h *SessionHandler) DeletePlans(c *gin.Context) {
	deleted, err := h.service.DeletePlans(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"deleted": deleted}, nil)
}

// Schedule godoc
// @Summary Project a session's plans onto the calendar
// @Tags Sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/{id}/schedule [get]
func (h *SessionHandler) Schedule(c *gin.Context) {
	items, err := h.service.Schedule(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// ProjectDate godoc
// @Summary Project one session occurrence onto the calendar
// @Tags Sessions
// @Produce json
// @Param subjectId query string true "Subject ID"
// @Param priority query int true "Priority number"
// @Param session query int true "Session number"
// @Success 200 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /sessions/project-date [get]
func (h *SessionHandler) ProjectDate(c *gin.Context) {
	priority, err := strconv.Atoi(c.Query("priority"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "priority must be a number"))
		return
	}
	sessionNumber, err := strconv.Atoi(c.Query("session"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "session must be a number"))
		return
	}
	date, err := h.service.ProjectDate(c.Request.Context(), c.Query("subjectId"), priority, sessionNumber)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"planned_date": date.Format("2006-01-02")}, nil)
}
