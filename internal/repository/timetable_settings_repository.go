package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
)

const timetableSettingsColumns = "id, school_id, periods_per_day, duration_per_period, school_start_time, school_end_time, assembly_start_time, assembly_end_time, lunch_start_time, lunch_end_time, short_break1_start, short_break1_end, short_break2_start, short_break2_end, reserve_type, reserve_time_start, reserve_time_end, reserve_day, day_off, created_at, updated_at"

// TimetableSettingsRepository persists per-school time configuration.
type TimetableSettingsRepository struct {
	db *sqlx.DB
}

// NewTimetableSettingsRepository creates a new settings repository.
func NewTimetableSettingsRepository(db *sqlx.DB) *TimetableSettingsRepository {
	return &TimetableSettingsRepository{db: db}
}

// GetBySchool loads the settings row for a school.
func (r *TimetableSettingsRepository) GetBySchool(ctx context.Context, schoolID string) (*models.TimetableSettings, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_settings WHERE school_id = $1", timetableSettingsColumns)
	var settings models.TimetableSettings
	if err := r.db.GetContext(ctx, &settings, query, schoolID); err != nil {
		return nil, err
	}
	return &settings, nil
}

// Upsert writes the settings row for a school, replacing any existing one.
func (r *TimetableSettingsRepository) Upsert(ctx context.Context, settings *models.TimetableSettings) error {
	if settings.ID == "" {
		settings.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if settings.CreatedAt.IsZero() {
		settings.CreatedAt = now
	}
	settings.UpdatedAt = now

	const query = `INSERT INTO timetable_settings (id, school_id, periods_per_day, duration_per_period, school_start_time, school_end_time, assembly_start_time, assembly_end_time, lunch_start_time, lunch_end_time, short_break1_start, short_break1_end, short_break2_start, short_break2_end, reserve_type, reserve_time_start, reserve_time_end, reserve_day, day_off, created_at, updated_at)
		VALUES (:id, :school_id, :periods_per_day, :duration_per_period, :school_start_time, :school_end_time, :assembly_start_time, :assembly_end_time, :lunch_start_time, :lunch_end_time, :short_break1_start, :short_break1_end, :short_break2_start, :short_break2_end, :reserve_type, :reserve_time_start, :reserve_time_end, :reserve_day, :day_off, :created_at, :updated_at)
		ON CONFLICT (school_id) DO UPDATE SET
			periods_per_day = EXCLUDED.periods_per_day,
			duration_per_period = EXCLUDED.duration_per_period,
			school_start_time = EXCLUDED.school_start_time,
			school_end_time = EXCLUDED.school_end_time,
			assembly_start_time = EXCLUDED.assembly_start_time,
			assembly_end_time = EXCLUDED.assembly_end_time,
			lunch_start_time = EXCLUDED.lunch_start_time,
			lunch_end_time = EXCLUDED.lunch_end_time,
			short_break1_start = EXCLUDED.short_break1_start,
			short_break1_end = EXCLUDED.short_break1_end,
			short_break2_start = EXCLUDED.short_break2_start,
			short_break2_end = EXCLUDED.short_break2_end,
			reserve_type = EXCLUDED.reserve_type,
			reserve_time_start = EXCLUDED.reserve_time_start,
			reserve_time_end = EXCLUDED.reserve_time_end,
			reserve_day = EXCLUDED.reserve_day,
			day_off = EXCLUDED.day_off,
			updated_at = EXCLUDED.updated_at`
	if _, err := r.db.NamedExecContext(ctx, query, settings); err != nil {
		return fmt.Errorf("upsert timetable settings: %w", err)
	}
	return nil
}
