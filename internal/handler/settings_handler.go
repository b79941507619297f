package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/response"
)

// SettingsHandler manages timetable settings and grid endpoints.
type SettingsHandler struct {
	service *service.SettingsService
}

// NewSettingsHandler constructs handler.
func NewSettingsHandler(svc *service.SettingsService) *SettingsHandler {
	return &SettingsHandler{service: svc}
}

// Get godoc
// @Summary Get timetable settings
// @Tags Settings
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/timetable-settings [get]
func (h *SettingsHandler) Get(c *gin.Context) {
	settings, err := h.service.Get(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Upsert godoc
// @Summary Create or replace timetable settings
// @Tags Settings
// @Accept json
// @Produce json
// @Param schoolId path string true "School ID"
// @Param payload body service.UpsertTimetableSettingsRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/timetable-settings [put]
func (h *SettingsHandler) Upsert(c *gin.Context) {
	var req service.UpsertTimetableSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	settings, err := h.service.Upsert(c.Request.Context(), c.Param("schoolId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, settings, nil)
}

// Grid godoc
// @Summary Get derived period grid
// @Tags Settings
// @Produce json
// @Param schoolId path string true "School ID"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/period-grid [get]
func (h *SettingsHandler) Grid(c *gin.Context) {
	grid, err := h.service.Grid(c.Request.Context(), c.Param("schoolId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, grid, nil)
}

// CheckReservation godoc
// @Summary Check whether a slot is reserved
// @Tags Settings
// @Produce json
// @Param schoolId path string true "School ID"
// @Param day query string true "Weekday name"
// @Param period query int true "Period number"
// @Success 200 {object} response.Envelope
// @Router /schools/{schoolId}/reservations/check [get]
func (h *SettingsHandler) CheckReservation(c *gin.Context) {
	period, err := strconv.Atoi(c.Query("period"))
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "period must be a number"))
		return
	}
	result, err := h.service.CheckReservation(c.Request.Context(), c.Param("schoolId"), c.Query("day"), period)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result, nil)
}
