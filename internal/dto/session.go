package dto

// SessionScheduleItem is one calendar-anchored session plan row produced by
// the date projector.
type SessionScheduleItem struct {
	PlanID        string `json:"plan_id"`
	SessionNumber int    `json:"session_number"`
	Status        string `json:"status"`
	Completed     bool   `json:"completed"`
	PlannedDate   string `json:"planned_date"`
	PreLearning   bool   `json:"pre_learning"`
}
