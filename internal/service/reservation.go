package service

import (
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

// ResolveReservation reports whether a period span is blocked by the school's
// reservation policy on the given weekday, along with the effective reserved
// interval for display. Intervals are treated as half-open [start, end).
func ResolveReservation(settings *models.TimetableSettings, day string, span models.PeriodSpan) (models.ReservationResult, error) {
	none := models.ReservationResult{}
	if settings == nil {
		return none, appErrors.Clone(appErrors.ErrConfig, "timetable settings missing")
	}

	switch settings.ReserveType {
	case models.ReserveTypeTime:
		// The day off is exempt from the global reserved window.
		if day == dayOff(settings) {
			return none, nil
		}
		return overlapResult(span, settings.ReserveTimeStart, settings.ReserveTimeEnd)

	case models.ReserveTypeDay:
		rules, err := settings.ReserveDayRules()
		if err != nil {
			return none, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid per-day reservation map")
		}
		rule, ok := rules[day]
		if !ok || !rule.Open {
			return none, nil
		}
		return overlapResult(span, rule.Start, rule.End)

	default:
		return none, appErrors.Clone(appErrors.ErrConfig, "unknown reserve type")
	}
}

func overlapResult(span models.PeriodSpan, start, end string) (models.ReservationResult, error) {
	none := models.ReservationResult{}
	if start == "" || end == "" || start == end {
		return none, nil
	}

	spanStart, err := parseClock(span.Start)
	if err != nil {
		return none, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid period span")
	}
	spanEnd, err := parseClock(span.End)
	if err != nil {
		return none, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid period span")
	}
	windowStart, err := parseClock(start)
	if err != nil {
		return none, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid reserved window")
	}
	windowEnd, err := parseClock(end)
	if err != nil {
		return none, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid reserved window")
	}

	if spanStart < windowEnd && windowStart < spanEnd {
		return models.ReservationResult{Reserved: true, Start: formatClock(windowStart), End: formatClock(windowEnd)}, nil
	}
	return none, nil
}

func dayOff(settings *models.TimetableSettings) string {
	if settings.DayOff != "" {
		return settings.DayOff
	}
	return models.Sunday
}
