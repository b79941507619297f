package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

// NameLookupRepository resolves display names for referenced entities. It is
// best-effort by contract: callers substitute sentinel labels when a lookup
// misses instead of failing the whole response.
type NameLookupRepository struct {
	db *sqlx.DB
}

// NewNameLookupRepository creates a new lookup repository.
func NewNameLookupRepository(db *sqlx.DB) *NameLookupRepository {
	return &NameLookupRepository{db: db}
}

func (r *NameLookupRepository) lookup(ctx context.Context, query, id string) (string, error) {
	var name string
	if err := r.db.GetContext(ctx, &name, query, id); err != nil {
		return "", err
	}
	return name, nil
}

// SchoolName resolves a school's display name.
func (r *NameLookupRepository) SchoolName(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, `SELECT name FROM schools WHERE id = $1`, id)
}

// ClassName resolves a class's display name.
func (r *NameLookupRepository) ClassName(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, `SELECT class_name FROM class_infos WHERE id = $1`, id)
}

// SectionName resolves a section's display name.
func (r *NameLookupRepository) SectionName(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, `SELECT section_name FROM sections WHERE id = $1`, id)
}

// SubjectName resolves a subject's display name.
func (r *NameLookupRepository) SubjectName(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, `SELECT name FROM subjects WHERE id = $1`, id)
}

// TeacherName resolves a teacher's display name.
func (r *NameLookupRepository) TeacherName(ctx context.Context, id string) (string, error) {
	return r.lookup(ctx, `SELECT full_name FROM teachers WHERE id = $1`, id)
}

// ClassExists reports whether a class record is present.
func (r *NameLookupRepository) ClassExists(ctx context.Context, id string) (bool, error) {
	var one int
	err := r.db.GetContext(ctx, &one, `SELECT 1 FROM class_infos WHERE id = $1 LIMIT 1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
