package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

// MembershipRepository persists the explicit teacher↔school and
// manager↔school join entities.
type MembershipRepository struct {
	db *sqlx.DB
}

// NewMembershipRepository creates a new membership repository.
func NewMembershipRepository(db *sqlx.DB) *MembershipRepository {
	return &MembershipRepository{db: db}
}

// CreateTeacherSchool links a teacher to a school. Duplicate pairs map to a
// conflict via the unique index.
func (r *MembershipRepository) CreateTeacherSchool(ctx context.Context, m *models.TeacherSchoolMembership) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO teacher_schools (id, teacher_id, school_id, created_at) VALUES (:id, :teacher_id, :school_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "teacher is already a member of this school")
		}
		return fmt.Errorf("create teacher school membership: %w", err)
	}
	return nil
}

// ListTeacherSchools returns a teacher's school memberships.
func (r *MembershipRepository) ListTeacherSchools(ctx context.Context, teacherID string) ([]models.TeacherSchoolMembership, error) {
	const query = `SELECT id, teacher_id, school_id, created_at FROM teacher_schools WHERE teacher_id = $1 ORDER BY created_at ASC`
	var memberships []models.TeacherSchoolMembership
	if err := r.db.SelectContext(ctx, &memberships, query, teacherID); err != nil {
		return nil, fmt.Errorf("list teacher school memberships: %w", err)
	}
	return memberships, nil
}

// DeleteTeacherSchool removes a teacher↔school link by id.
func (r *MembershipRepository) DeleteTeacherSchool(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teacher_schools WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher school membership: %w", err)
	}
	return nil
}

// CreateManagerSchool links a manager to a school.
func (r *MembershipRepository) CreateManagerSchool(ctx context.Context, m *models.ManagerSchoolMembership) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO manager_schools (id, manager_id, school_id, created_at) VALUES (:id, :manager_id, :school_id, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, m); err != nil {
		if isUniqueViolation(err) {
			return appErrors.Clone(appErrors.ErrConflict, "manager is already a member of this school")
		}
		return fmt.Errorf("create manager school membership: %w", err)
	}
	return nil
}

// ListManagerSchools returns a manager's school memberships.
func (r *MembershipRepository) ListManagerSchools(ctx context.Context, managerID string) ([]models.ManagerSchoolMembership, error) {
	const query = `SELECT id, manager_id, school_id, created_at FROM manager_schools WHERE manager_id = $1 ORDER BY created_at ASC`
	var memberships []models.ManagerSchoolMembership
	if err := r.db.SelectContext(ctx, &memberships, query, managerID); err != nil {
		return nil, fmt.Errorf("list manager school memberships: %w", err)
	}
	return memberships, nil
}

// DeleteManagerSchool removes a manager↔school link by id.
func (r *MembershipRepository) DeleteManagerSchool(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM manager_schools WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete manager school membership: %w", err)
	}
	return nil
}
