package models

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx/types"
)

// Reservation policy kinds.
const (
	ReserveTypeTime = "time"
	ReserveTypeDay  = "day"
)

// TimetableSettings is the per-school time configuration the period grid is
// derived from. Time fields hold wall-clock values in HH:MM form.
type TimetableSettings struct {
	ID                  string         `db:"id" json:"id"`
	SchoolID            string         `db:"school_id" json:"school_id"`
	PeriodsPerDay       int            `db:"periods_per_day" json:"periods_per_day"`
	DurationPerPeriod   int            `db:"duration_per_period" json:"duration_per_period"`
	SchoolStartTime     string         `db:"school_start_time" json:"school_start_time"`
	SchoolEndTime       string         `db:"school_end_time" json:"school_end_time"`
	AssemblyStartTime   string         `db:"assembly_start_time" json:"assembly_start_time"`
	AssemblyEndTime     string         `db:"assembly_end_time" json:"assembly_end_time"`
	LunchStartTime      string         `db:"lunch_start_time" json:"lunch_start_time"`
	LunchEndTime        string         `db:"lunch_end_time" json:"lunch_end_time"`
	ShortBreak1Start    string         `db:"short_break1_start" json:"short_break1_start"`
	ShortBreak1End      string         `db:"short_break1_end" json:"short_break1_end"`
	ShortBreak2Start    string         `db:"short_break2_start" json:"short_break2_start"`
	ShortBreak2End      string         `db:"short_break2_end" json:"short_break2_end"`
	ReserveType         string         `db:"reserve_type" json:"reserve_type"`
	ReserveTimeStart    string         `db:"reserve_time_start" json:"reserve_time_start"`
	ReserveTimeEnd      string         `db:"reserve_time_end" json:"reserve_time_end"`
	ReserveDay          types.JSONText `db:"reserve_day" json:"reserve_day"`
	DayOff              string         `db:"day_off" json:"day_off"`
	CreatedAt           time.Time      `db:"created_at" json:"created_at"`
	UpdatedAt           time.Time      `db:"updated_at" json:"updated_at"`
}

// ReserveDayRule is one weekday's entry in the per-day reservation map.
type ReserveDayRule struct {
	Open  bool   `json:"open"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReserveDayRules decodes the per-weekday reservation map. An empty column
// yields an empty map, not an error.
func (s *TimetableSettings) ReserveDayRules() (map[string]ReserveDayRule, error) {
	rules := map[string]ReserveDayRule{}
	if len(s.ReserveDay) == 0 {
		return rules, nil
	}
	if err := json.Unmarshal(s.ReserveDay, &rules); err != nil {
		return nil, fmt.Errorf("decode reserve day map: %w", err)
	}
	return rules, nil
}

// PeriodSpan is one period slot of the derived grid. It is a pure projection
// of TimetableSettings, recomputed on every read and never persisted.
type PeriodSpan struct {
	Index int    `json:"index"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// BreakWindow is a named non-teaching interval rendered alongside periods.
type BreakWindow struct {
	Name  string `json:"name"`
	Start string `json:"start"`
	End   string `json:"end"`
}

// ReservationResult reports whether a slot overlaps a reserved window and,
// when it does, the effective interval for display.
type ReservationResult struct {
	Reserved bool   `json:"reserved"`
	Start    string `json:"start,omitempty"`
	End      string `json:"end,omitempty"`
}

// TimetableEntry is a persisted period assignment. The tuple
// (school, class, section, day, period) is unique; at most one subject and
// teacher pair occupies a slot.
type TimetableEntry struct {
	ID        string    `db:"id" json:"id"`
	SchoolID  string    `db:"school_id" json:"school_id"`
	ClassID   string    `db:"class_id" json:"class_id"`
	SectionID string    `db:"section_id" json:"section_id"`
	SubjectID string    `db:"subject_id" json:"subject_id"`
	TeacherID string    `db:"teacher_id" json:"teacher_id"`
	Day       string    `db:"day" json:"day"`
	Period    int       `db:"period" json:"period"`
	StartTime string    `db:"start_time" json:"start_time"`
	EndTime   string    `db:"end_time" json:"end_time"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// TeacherTimetable links an additional teacher to an entry owned by another
// teacher's assignment (substitution or co-teaching). Read-only from the
// aggregator's perspective.
type TeacherTimetable struct {
	ID               string    `db:"id" json:"id"`
	TeacherID        string    `db:"teacher_id" json:"teacher_id"`
	TimetableEntryID string    `db:"timetable_entry_id" json:"timetable_entry_id"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}
