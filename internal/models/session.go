package models

import "time"

// Session plan statuses.
const (
	SessionPlanPending    = "pending"
	SessionPlanInProgress = "in-progress"
	SessionPlanCompleted  = "completed"
)

// Session is an abstract recurring unit of instruction, not yet anchored to
// the calendar. PriorityNumber orders chapters at one-per-week granularity.
type Session struct {
	ID               string    `db:"id" json:"id"`
	SubjectID        string    `db:"subject_id" json:"subject_id"`
	SectionID        string    `db:"section_id" json:"section_id"`
	ClassInfoID      string    `db:"class_info_id" json:"class_info_id"`
	TeacherID        string    `db:"teacher_id" json:"teacher_id"`
	ChapterName      string    `db:"chapter_name" json:"chapter_name"`
	NumberOfSessions int       `db:"number_of_sessions" json:"number_of_sessions"`
	PriorityNumber   int       `db:"priority_number" json:"priority_number"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// SessionPlan is one teachable slot of a session. SessionNumber is positive
// for regular sessions and negative (-1, -2, ...) for pre-learning sessions
// scheduled before the chapter's nominal week; zero is invalid.
type SessionPlan struct {
	ID            string    `db:"id" json:"id"`
	SessionID     string    `db:"session_id" json:"session_id"`
	SessionNumber int       `db:"session_number" json:"session_number"`
	Status        string    `db:"status" json:"status"`
	Completed     bool      `db:"completed" json:"completed"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
