package dto

import "github.com/schoolops/timetable-api/internal/models"

// PeriodGridResponse carries the derived grid for rendering. Breaks are
// reported alongside periods, never subtracted from them.
type PeriodGridResponse struct {
	SchoolID string               `json:"school_id"`
	Periods  []models.PeriodSpan  `json:"periods"`
	Breaks   []models.BreakWindow `json:"breaks"`
}

// ReservationCheckResponse answers an isReserved query for one slot.
type ReservationCheckResponse struct {
	Day      string `json:"day"`
	Period   int    `json:"period"`
	Reserved bool   `json:"reserved"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// TeacherScheduleEntry is one row of an aggregated teacher timetable with
// display names resolved best-effort.
type TeacherScheduleEntry struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	Period      int    `json:"period"`
	Time        string `json:"time"`
	SchoolName  string `json:"school_name"`
	ClassName   string `json:"class_name"`
	SectionName string `json:"section_name"`
	SubjectName string `json:"subject_name"`
	StartTime   string `json:"start_time,omitempty"`
	EndTime     string `json:"end_time,omitempty"`
}

// SectionTimetableEntry is one assignment row in a section's timetable view.
type SectionTimetableEntry struct {
	ID          string `json:"id"`
	Day         string `json:"day"`
	Period      int    `json:"period"`
	StartTime   string `json:"start_time"`
	EndTime     string `json:"end_time"`
	SubjectID   string `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	TeacherID   string `json:"teacher_id"`
	TeacherName string `json:"teacher_name"`
}
