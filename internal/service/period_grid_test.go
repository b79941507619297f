package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

func TestBuildPeriodGridBackToBack(t *testing.T) {
	settings := &models.TimetableSettings{
		PeriodsPerDay:     8,
		DurationPerPeriod: 45,
		SchoolStartTime:   "08:00",
		SchoolEndTime:     "15:00",
		LunchStartTime:    "12:00",
		LunchEndTime:      "12:30",
		ReserveType:       models.ReserveTypeTime,
	}

	grid, err := BuildPeriodGrid(settings)
	require.NoError(t, err)
	require.Len(t, grid, 8)

	assert.Equal(t, 1, grid[0].Index)
	assert.Equal(t, "08:00", grid[0].Start)
	assert.Equal(t, "08:45", grid[0].End)

	// Breaks are reported separately and never shift the grid, so period 8
	// starts at 08:00 + 7*45min.
	assert.Equal(t, "13:15", grid[7].Start)
	assert.Equal(t, "14:00", grid[7].End)
}

func TestBuildPeriodGridPastMidnight(t *testing.T) {
	settings := &models.TimetableSettings{
		PeriodsPerDay:     10,
		DurationPerPeriod: 60,
		SchoolStartTime:   "20:00",
	}

	_, err := BuildPeriodGrid(settings)
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))
}

func TestBuildPeriodGridRejectsBadInputs(t *testing.T) {
	_, err := BuildPeriodGrid(nil)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))

	_, err = BuildPeriodGrid(&models.TimetableSettings{PeriodsPerDay: 0, DurationPerPeriod: 45, SchoolStartTime: "08:00"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))

	_, err = BuildPeriodGrid(&models.TimetableSettings{PeriodsPerDay: 8, DurationPerPeriod: 0, SchoolStartTime: "08:00"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))

	_, err = BuildPeriodGrid(&models.TimetableSettings{PeriodsPerDay: 8, DurationPerPeriod: 45, SchoolStartTime: "8am"})
	assert.True(t, appErrors.HasCode(err, appErrors.ErrConfig))
}

func TestBreakWindowsSkipsUnset(t *testing.T) {
	settings := &models.TimetableSettings{
		AssemblyStartTime: "07:45",
		AssemblyEndTime:   "08:00",
		LunchStartTime:    "12:00",
		LunchEndTime:      "12:00",
		ShortBreak1Start:  "",
		ShortBreak1End:    "10:15",
	}

	windows := BreakWindows(settings)
	require.Len(t, windows, 1)
	assert.Equal(t, "assembly", windows[0].Name)
	assert.Equal(t, "07:45", windows[0].Start)
	assert.Equal(t, "08:00", windows[0].End)
}

func TestParseClockAcceptsSeconds(t *testing.T) {
	minutes, err := parseClock("09:30:00")
	require.NoError(t, err)
	assert.Equal(t, 9*60+30, minutes)

	_, err = parseClock("25:00")
	assert.Error(t, err)
}
