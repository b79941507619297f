package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
)

// TeacherTimetableRepository persists the secondary teacher-entry links used
// for substitution and co-teaching.
type TeacherTimetableRepository struct {
	db *sqlx.DB
}

// NewTeacherTimetableRepository creates a new link repository.
func NewTeacherTimetableRepository(db *sqlx.DB) *TeacherTimetableRepository {
	return &TeacherTimetableRepository{db: db}
}

// ListByTeacher returns all link rows for a teacher.
func (r *TeacherTimetableRepository) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherTimetable, error) {
	const query = `SELECT id, teacher_id, timetable_entry_id, created_at FROM teacher_timetables WHERE teacher_id = $1`
	var links []models.TeacherTimetable
	if err := r.db.SelectContext(ctx, &links, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher timetable links: %w", err)
	}
	return links, nil
}

// ListEntriesByTeacher resolves a teacher's link rows to their underlying
// timetable entries.
func (r *TeacherTimetableRepository) ListEntriesByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	const query = `SELECT e.id, e.school_id, e.class_id, e.section_id, e.subject_id, e.teacher_id, e.day, e.period, e.start_time, e.end_time, e.created_at, e.updated_at
		FROM teacher_timetables tt
		JOIN timetable_entries e ON e.id = tt.timetable_entry_id
		WHERE tt.teacher_id = $1`
	var entries []models.TimetableEntry
	if err := r.db.SelectContext(ctx, &entries, query, teacherID); err != nil {
		return nil, fmt.Errorf("resolve teacher timetable links: %w", err)
	}
	return entries, nil
}

// Create adds a link row.
func (r *TeacherTimetableRepository) Create(ctx context.Context, link *models.TeacherTimetable) error {
	if link.ID == "" {
		link.ID = uuid.NewString()
	}
	if link.CreatedAt.IsZero() {
		link.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_timetables (id, teacher_id, timetable_entry_id, created_at) VALUES (:id, :teacher_id, :timetable_entry_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, link); err != nil {
		return fmt.Errorf("create teacher timetable link: %w", err)
	}
	return nil
}

// Delete removes a link row by id.
func (r *TeacherTimetableRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_timetables WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher timetable link: %w", err)
	}
	return nil
}
