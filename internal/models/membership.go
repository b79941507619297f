package models

import "time"

// TeacherSchoolMembership is an explicit join entity linking a teacher to a
// school. Created and deleted through its own operations rather than an
// implicit many-to-many association.
type TeacherSchoolMembership struct {
	ID        string    `db:"id" json:"id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}

// ManagerSchoolMembership links an operations manager to a school.
type ManagerSchoolMembership struct {
	ID        string    `db:"id" json:"id"`
	ManagerID string    `db:"manager_id" json:"manager_id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
}
