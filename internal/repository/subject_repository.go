package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/schoolops/timetable-api/internal/models"
)

const subjectColumns = "id, section_id, name, academic_start_date, academic_end_date, revision_start_date, revision_end_date, created_at, updated_at"

// SubjectRepository reads the subject records that anchor session projection.
type SubjectRepository struct {
	db *sqlx.DB
}

// NewSubjectRepository creates a new subject repository.
func NewSubjectRepository(db *sqlx.DB) *SubjectRepository {
	return &SubjectRepository{db: db}
}

// FindByID loads a subject by id.
func (r *SubjectRepository) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE id = $1", subjectColumns)
	var subject models.Subject
	if err := r.db.GetContext(ctx, &subject, query, id); err != nil {
		return nil, err
	}
	return &subject, nil
}

// ListBySection returns a section's subjects.
func (r *SubjectRepository) ListBySection(ctx context.Context, sectionID string) ([]models.Subject, error) {
	query := fmt.Sprintf("SELECT %s FROM subjects WHERE section_id = $1 ORDER BY name ASC", subjectColumns)
	var subjects []models.Subject
	if err := r.db.SelectContext(ctx, &subjects, query, sectionID); err != nil {
		return nil, fmt.Errorf("list subjects by section: %w", err)
	}
	return subjects, nil
}
