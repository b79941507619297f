package models

// Pagination contains pagination metadata returned in list responses.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

// Canonical weekday names used throughout timetable records. Days are stored
// uppercase; ordering is Monday-first.
const (
	Monday    = "MONDAY"
	Tuesday   = "TUESDAY"
	Wednesday = "WEDNESDAY"
	Thursday  = "THURSDAY"
	Friday    = "FRIDAY"
	Saturday  = "SATURDAY"
	Sunday    = "SUNDAY"
)

var weekdayOrder = map[string]int{
	Monday:    1,
	Tuesday:   2,
	Wednesday: 3,
	Thursday:  4,
	Friday:    5,
	Saturday:  6,
	Sunday:    7,
}

// WeekdayIndex returns the canonical sort position of a weekday name, or 0
// when the name is not a known weekday.
func WeekdayIndex(day string) int {
	return weekdayOrder[day]
}

// IsWeekday reports whether day is one of the canonical weekday names.
func IsWeekday(day string) bool {
	_, ok := weekdayOrder[day]
	return ok
}
