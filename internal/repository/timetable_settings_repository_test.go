package repository

import (
	"context"
	"database/sql"
	"errors"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolops/timetable-api/internal/models"
)

func TestTimetableSettingsRepositoryGetBySchool(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableSettingsRepository(db)
	rows := sqlmock.NewRows([]string{"id", "school_id", "periods_per_day", "duration_per_period", "school_start_time", "school_end_time", "assembly_start_time", "assembly_end_time", "lunch_start_time", "lunch_end_time", "short_break1_start", "short_break1_end", "short_break2_start", "short_break2_end", "reserve_type", "reserve_time_start", "reserve_time_end", "reserve_day", "day_off", "created_at", "updated_at"}).
		AddRow("settings-1", "school-1", 8, 45, "08:00", "14:00", "", "", "12:00", "12:30", "", "", "", "", "time", "13:00", "13:30", []byte(`{}`), "SUNDAY", time.Now(), time.Now())

	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_settings WHERE school_id = $1")).
		WithArgs("school-1").
		WillReturnRows(rows)

	settings, err := repo.GetBySchool(context.Background(), "school-1")
	require.NoError(t, err)
	assert.Equal(t, 8, settings.PeriodsPerDay)
	assert.Equal(t, "time", settings.ReserveType)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSettingsRepositoryGetBySchoolMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableSettingsRepository(db)
	mock.ExpectQuery(regexp.QuoteMeta("FROM timetable_settings WHERE school_id = $1")).
		WithArgs("missing").
		WillReturnError(sql.ErrNoRows)

	_, err := repo.GetBySchool(context.Background(), "missing")
	require.Error(t, err)
	assert.True(t, errors.Is(err, sql.ErrNoRows))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestTimetableSettingsRepositoryUpsert(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewTimetableSettingsRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("ON CONFLICT (school_id) DO UPDATE SET")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	settings := &models.TimetableSettings{
		SchoolID:          "school-1",
		PeriodsPerDay:     8,
		DurationPerPeriod: 45,
		SchoolStartTime:   "08:00",
		SchoolEndTime:     "14:00",
		ReserveType:       models.ReserveTypeTime,
		ReserveTimeStart:  "13:00",
		ReserveTimeEnd:    "13:30",
		DayOff:            models.Sunday,
	}
	require.NoError(t, repo.Upsert(context.Background(), settings))
	assert.NotEmpty(t, settings.ID)
	assert.False(t, settings.UpdatedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
