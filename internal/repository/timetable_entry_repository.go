package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

const timetableEntryColumns = "id, school_id, class_id, section_id, subject_id, teacher_id, day, period, start_time, end_time, created_at, updated_at"

// dayOrderSQL sorts weekday names in canonical Monday-first order.
const dayOrderSQL = "CASE day WHEN 'MONDAY' THEN 1 WHEN 'TUESDAY' THEN 2 WHEN 'WEDNESDAY' THEN 3 WHEN 'THURSDAY' THEN 4 WHEN 'FRIDAY' THEN 5 WHEN 'SATURDAY' THEN 6 WHEN 'SUNDAY' THEN 7 ELSE 8 END"

// TimetableEntryRepository provides persistence for period assignments.
type TimetableEntryRepository struct {
	db *sqlx.DB
}

// NewTimetableEntryRepository creates a new timetable entry repository.
func NewTimetableEntryRepository(db *sqlx.DB) *TimetableEntryRepository {
	return &TimetableEntryRepository{db: db}
}

// BeginTxx opens a transaction for check-then-insert sequences.
func (r *TimetableEntryRepository) BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error) {
	return r.db.BeginTxx(ctx, opts)
}

// FindByID loads an entry by id.
func (r *TimetableEntryRepository) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE id = $1", timetableEntryColumns)
	var entry models.TimetableEntry
	if err := r.db.GetContext(ctx, &entry, query, id); err != nil {
		return nil, err
	}
	return &entry, nil
}

// FindSlot returns the entry occupying the given slot, or nil when the slot
// is free. Pass a transaction as exec to read inside the proposal boundary.
func (r *TimetableEntryRepository) FindSlot(ctx context.Context, exec sqlx.ExtContext, schoolID, classID, sectionID, day string, period int) (*models.TimetableEntry, error) {
	if exec == nil {
		exec = r.db
	}
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE school_id = $1 AND class_id = $2 AND section_id = $3 AND day = $4 AND period = $5", timetableEntryColumns)
	var entry models.TimetableEntry
	err := sqlx.GetContext(ctx, exec, &entry, query, schoolID, classID, sectionID, day, period)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("find timetable slot: %w", err)
	}
	return &entry, nil
}

// CreateWithTx inserts a new entry inside the supplied transaction. A unique
// violation on the slot index maps to ErrSlotOccupied: the constraint is the
// authoritative guard against concurrent double-booking, the preceding read
// is only a fast-path rejection.
func (r *TimetableEntryRepository) CreateWithTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	if entry.ID == "" {
		entry.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now

	const query = `INSERT INTO timetable_entries (id, school_id, class_id, section_id, subject_id, teacher_id, day, period, start_time, end_time, created_at, updated_at) VALUES (:id, :school_id, :class_id, :section_id, :subject_id, :teacher_id, :day, :period, :start_time, :end_time, :created_at, :updated_at)`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "")
		}
		return fmt.Errorf("create timetable entry: %w", err)
	}
	return nil
}

// UpdateWithTx modifies an entry inside the supplied transaction, with the
// same unique-violation mapping as CreateWithTx.
func (r *TimetableEntryRepository) UpdateWithTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error {
	if tx == nil {
		return fmt.Errorf("nil transaction provided")
	}
	entry.UpdatedAt = time.Now().UTC()
	const query = `UPDATE timetable_entries SET subject_id = :subject_id, teacher_id = :teacher_id, day = :day, period = :period, start_time = :start_time, end_time = :end_time, updated_at = :updated_at WHERE id = :id`
	if _, err := tx.NamedExecContext(ctx, query, entry); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrSlotOccupied, "")
		}
		return fmt.Errorf("update timetable entry: %w", err)
	}
	return nil
}

// ListBySection returns a section's assignments in canonical weekday/period order.
func (r *TimetableEntryRepository) ListBySection(ctx context.Context, schoolID, classID, sectionID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE school_id = $1 AND class_id = $2 AND section_id = $3 ORDER BY %s, period ASC", timetableEntryColumns, dayOrderSQL)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, schoolID, classID, sectionID); err != nil {
		return nil, fmt.Errorf("list section timetable: %w", err)
	}
	return entries, nil
}

// ListByTeacher returns entries where the teacher is directly assigned.
func (r *TimetableEntryRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	query := fmt.Sprintf("SELECT %s FROM timetable_entries WHERE teacher_id = $1", timetableEntryColumns)
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher timetable: %w", err)
	}
	return entries, nil
}

// Delete removes an entry by id. Sessions and session plans are independent
// of the grid and are never cascaded.
func (r *TimetableEntryRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM timetable_entries WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete timetable entry: %w", err)
	}
	return nil
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}
