package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

func timePolicySettings() *models.TimetableSettings {
	return &models.TimetableSettings{
		PeriodsPerDay:     8,
		DurationPerPeriod: 60,
		SchoolStartTime:   "08:00",
		ReserveType:       models.ReserveTypeTime,
		ReserveTimeStart:  "15:00",
		ReserveTimeEnd:    "15:30",
	}
}

func TestResolveReservationTimePolicyOverlap(t *testing.T) {
	settings := timePolicySettings()

	result, err := ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 8, Start: "15:00", End: "16:00"})
	require.NoError(t, err)
	assert.True(t, result.Reserved)
	assert.Equal(t, "15:00", result.Start)
	assert.Equal(t, "15:30", result.End)
}

func TestResolveReservationHalfOpenBoundary(t *testing.T) {
	settings := timePolicySettings()

	// A period ending exactly at the window start does not overlap.
	result, err := ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 7, Start: "14:00", End: "15:00"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)

	// A period starting exactly at the window end does not overlap either.
	result, err = ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 8, Start: "15:30", End: "16:30"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)
}

func TestResolveReservationDayOffExempt(t *testing.T) {
	settings := timePolicySettings()

	result, err := ResolveReservation(settings, models.Sunday, models.PeriodSpan{Index: 8, Start: "15:00", End: "16:00"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)

	settings.DayOff = models.Friday
	result, err = ResolveReservation(settings, models.Friday, models.PeriodSpan{Index: 8, Start: "15:00", End: "16:00"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)

	// With an explicit day off configured, Sunday is no longer exempt.
	result, err = ResolveReservation(settings, models.Sunday, models.PeriodSpan{Index: 8, Start: "15:00", End: "16:00"})
	require.NoError(t, err)
	assert.True(t, result.Reserved)
}

func TestResolveReservationDayPolicy(t *testing.T) {
	settings := &models.TimetableSettings{
		ReserveType: models.ReserveTypeDay,
		ReserveDay:  []byte(`{"FRIDAY":{"open":true,"start":"11:00","end":"12:00"},"MONDAY":{"open":false,"start":"11:00","end":"12:00"}}`),
	}

	result, err := ResolveReservation(settings, models.Friday, models.PeriodSpan{Index: 4, Start: "11:30", End: "12:15"})
	require.NoError(t, err)
	assert.True(t, result.Reserved)

	// A closed rule never blocks, even with a configured window.
	result, err = ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 4, Start: "11:30", End: "12:15"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)

	// Days absent from the map are unrestricted.
	result, err = ResolveReservation(settings, models.Tuesday, models.PeriodSpan{Index: 4, Start: "11:30", End: "12:15"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)
}

func TestResolveReservationUnknownPolicy(t *testing.T) {
	settings := &models.TimetableSettings{ReserveType: "weekly"}

	_, err := ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 1, Start: "08:00", End: "09:00"})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))
}

func TestResolveReservationEmptyWindow(t *testing.T) {
	settings := timePolicySettings()
	settings.ReserveTimeStart = ""
	settings.ReserveTimeEnd = ""

	result, err := ResolveReservation(settings, models.Monday, models.PeriodSpan{Index: 1, Start: "08:00", End: "09:00"})
	require.NoError(t, err)
	assert.False(t, result.Reserved)
}
