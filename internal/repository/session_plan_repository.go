package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
)

const sessionPlanColumns = "id, session_id, session_number, status, completed, created_at, updated_at"

// SessionPlanRepository persists the per-session teaching plans.
type SessionPlanRepository struct {
	db *sqlx.DB
}

// NewSessionPlanRepository creates a new session plan repository.
func NewSessionPlanRepository(db *sqlx.DB) *SessionPlanRepository {
	return &SessionPlanRepository{db: db}
}

// FindByID loads a plan by id.
func (r *SessionPlanRepository) FindByID(ctx context.Context, id string) (*models.SessionPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM session_plans WHERE id = $1", sessionPlanColumns)
	var plan models.SessionPlan
	if err := r.db.GetContext(ctx, &plan, query, id); err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListBySession returns a session's plans with pre-learning entries first.
func (r *SessionPlanRepository) ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlan, error) {
	query := fmt.Sprintf("SELECT %s FROM session_plans WHERE session_id = $1 ORDER BY session_number ASC", sessionPlanColumns)
	var plans []models.SessionPlan
	if err := r.db.SelectContext(ctx, &plans, query, sessionID); err != nil {
		return nil, fmt.Errorf("list session plans: %w", err)
	}
	return plans, nil
}

// Create stores a new plan.
func (r *SessionPlanRepository) Create(ctx context.Context, plan *models.SessionPlan) error {
	if plan.ID == "" {
		plan.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if plan.CreatedAt.IsZero() {
		plan.CreatedAt = now
	}
	plan.UpdatedAt = now

	const query = `INSERT INTO session_plans (id, session_id, session_number, status, completed, created_at, updated_at) VALUES (:id, :session_id, :session_number, :status, :completed, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, plan); err != nil {
		return fmt.Errorf("create session plan: %w", err)
	}
	return nil
}

// UpdateStatus mutates a plan's teaching progress.
func (r *SessionPlanRepository) UpdateStatus(ctx context.Context, id, status string, completed bool) error {
	const query = `UPDATE session_plans SET status = $2, completed = $3, updated_at = $4 WHERE id = $1`
	if _, err := r.db.ExecContext(ctx, query, id, status, completed, time.Now().UTC()); err != nil {
		return fmt.Errorf("update session plan status: %w", err)
	}
	return nil
}

// DeleteBySession removes every plan of a session. Plans are never deleted
// individually or automatically; this backs the explicit operator action.
func (r *SessionPlanRepository) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM session_plans WHERE session_id = $1`, sessionID)
	if err != nil {
		return 0, fmt.Errorf("delete session plans: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("count deleted session plans: %w", err)
	}
	return affected, nil
}
