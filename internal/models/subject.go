package models

import "time"

// Subject carries the academic calendar anchors the session date projector
// depends on. AcademicStartDate may legitimately be unset; projection must
// refuse rather than default to "today".
type Subject struct {
	ID                string     `db:"id" json:"id"`
	SectionID         string     `db:"section_id" json:"section_id"`
	Name              string     `db:"name" json:"name"`
	AcademicStartDate *time.Time `db:"academic_start_date" json:"academic_start_date,omitempty"`
	AcademicEndDate   *time.Time `db:"academic_end_date" json:"academic_end_date,omitempty"`
	RevisionStartDate *time.Time `db:"revision_start_date" json:"revision_start_date,omitempty"`
	RevisionEndDate   *time.Time `db:"revision_end_date" json:"revision_end_date,omitempty"`
	CreatedAt         time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt         time.Time  `db:"updated_at" json:"updated_at"`
}
