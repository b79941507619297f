package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
)

const sessionColumns = "id, subject_id, section_id, class_info_id, teacher_id, chapter_name, number_of_sessions, priority_number, created_at, updated_at"

// SessionRepository persists abstract instruction sessions.
type SessionRepository struct {
	db *sqlx.DB
}

// NewSessionRepository creates a new session repository.
func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// FindByID loads a session by id.
func (r *SessionRepository) FindByID(ctx context.Context, id string) (*models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE id = $1", sessionColumns)
	var session models.Session
	if err := r.db.GetContext(ctx, &session, query, id); err != nil {
		return nil, err
	}
	return &session, nil
}

// ListBySection returns a section's sessions ordered by priority.
func (r *SessionRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Session, error) {
	query := fmt.Sprintf("SELECT %s FROM sessions WHERE section_id = $1 ORDER BY priority_number ASC, created_at ASC", sessionColumns)
	var sessions []models.Session
	if err := r.db.SelectContext(ctx, &sessions, query, sectionID); err != nil {
		return nil, fmt.Errorf("list sessions by section: %w", err)
	}
	return sessions, nil
}

// Create stores a new session.
func (r *SessionRepository) Create(ctx context.Context, session *models.Session) error {
	if session.ID == "" {
		session.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if session.CreatedAt.IsZero() {
		session.CreatedAt = now
	}
	session.UpdatedAt = now

	const query = `INSERT INTO sessions (id, subject_id, section_id, class_info_id, teacher_id, chapter_name, number_of_sessions, priority_number, created_at, updated_at) VALUES (:id, :subject_id, :section_id, :class_info_id, :teacher_id, :chapter_name, :number_of_sessions, :priority_number, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("create session: %w", err)
	}
	return nil
}

// Update modifies a session's chapter, counts and priority.
func (r *SessionRepository) Update(ctx context.Context, session *models.Session) error {
	session.UpdatedAt = time.Now().UTC()
	const query = `UPDATE sessions SET chapter_name = :chapter_name, number_of_sessions = :number_of_sessions, priority_number = :priority_number, teacher_id = :teacher_id, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, session); err != nil {
		return fmt.Errorf("update session: %w", err)
	}
	return nil
}

// Delete removes a session by id.
func (r *SessionRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
