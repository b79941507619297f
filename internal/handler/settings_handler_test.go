package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/models"
	"github.com/schoolops/timetable-api/internal/service"
	"github.com/schoolops/timetable-api/pkg/response"
)

type settingsRepoStub struct {
	settings *models.TimetableSettings
}

func (s *settingsRepoStub) GetBySchool(ctx context.Context, schoolID string) (*models.TimetableSettings, error) {
	if s.settings == nil {
		return nil, sql.ErrNoRows
	}
	return s.settings, nil
}

func (s *settingsRepoStub) Upsert(ctx context.Context, settings *models.TimetableSettings) error {
	s.settings = settings
	return nil
}

func newSettingsHandler(settings *models.TimetableSettings) *SettingsHandler {
	svc := service.NewSettingsService(&settingsRepoStub{settings: settings}, nil, zap.NewNop(), "SUNDAY")
	return NewSettingsHandler(svc)
}

func TestSettingsHandlerGrid(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(&models.TimetableSettings{
		SchoolID:          "school-1",
		PeriodsPerDay:     8,
		DurationPerPeriod: 45,
		SchoolStartTime:   "08:00",
		SchoolEndTime:     "14:00",
		ReserveType:       models.ReserveTypeTime,
	})

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schools/school-1/period-grid", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.Grid(c)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	grid, ok := envelope.Data.(map[string]interface{})
	require.True(t, ok)
	periods, ok := grid["periods"].([]interface{})
	require.True(t, ok)
	assert.Len(t, periods, 8)
}

func TestSettingsHandlerGridMissingSettings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schools/missing/period-grid", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "missing"}}

	handler.Grid(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSettingsHandlerCheckReservationBadPeriod(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := newSettingsHandler(nil)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/schools/school-1/reservations/check?day=MONDAY&period=abc", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "schoolId", Value: "school-1"}}

	handler.CheckReservation(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
