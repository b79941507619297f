package service

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

const minutesPerDay = 24 * 60

// parseClock converts a wall-clock value ("HH:MM" or "HH:MM:SS") to minutes
// since midnight.
func parseClock(raw string) (int, error) {
	parts := strings.Split(raw, ":")
	if len(parts) < 2 {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	hours, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	minutes, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, fmt.Errorf("invalid clock value %q", raw)
	}
	if hours < 0 || hours > 23 || minutes < 0 || minutes > 59 {
		return 0, fmt.Errorf("clock value %q out of range", raw)
	}
	return hours*60 + minutes, nil
}

func formatClock(total int) string {
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// BuildPeriodGrid derives the ordered period spans for one school day.
// Periods are placed back-to-back from the school start time; break windows
// are not subtracted (BreakWindows reports them separately for rendering).
func BuildPeriodGrid(settings *models.TimetableSettings) ([]models.PeriodSpan, error) {
	if settings == nil {
		return nil, appErrors.Clone(appErrors.ErrConfig, "timetable settings missing")
	}
	if settings.PeriodsPerDay <= 0 {
		return nil, appErrors.Clone(appErrors.ErrConfig, "periods per day must be positive")
	}
	if settings.DurationPerPeriod <= 0 {
		return nil, appErrors.Clone(appErrors.ErrConfig, "period duration must be positive")
	}

	start, err := parseClock(settings.SchoolStartTime)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid school start time")
	}

	if start+settings.PeriodsPerDay*settings.DurationPerPeriod > minutesPerDay {
		return nil, appErrors.Clone(appErrors.ErrConfig, "period grid extends past midnight")
	}

	spans := make([]models.PeriodSpan, 0, settings.PeriodsPerDay)
	for i := 0; i < settings.PeriodsPerDay; i++ {
		from := start + i*settings.DurationPerPeriod
		spans = append(spans, models.PeriodSpan{
			Index: i + 1,
			Start: formatClock(from),
			End:   formatClock(from + settings.DurationPerPeriod),
		})
	}
	return spans, nil
}

// BreakWindows returns the named non-empty break intervals configured for the
// school day. Unset windows (equal or missing endpoints) are skipped.
func BreakWindows(settings *models.TimetableSettings) []models.BreakWindow {
	if settings == nil {
		return nil
	}
	candidates := []models.BreakWindow{
		{Name: "assembly", Start: settings.AssemblyStartTime, End: settings.AssemblyEndTime},
		{Name: "lunch", Start: settings.LunchStartTime, End: settings.LunchEndTime},
		{Name: "short_break_1", Start: settings.ShortBreak1Start, End: settings.ShortBreak1End},
		{Name: "short_break_2", Start: settings.ShortBreak2Start, End: settings.ShortBreak2End},
	}

	var windows []models.BreakWindow
	for _, w := range candidates {
		if w.Start == "" || w.End == "" || w.Start == w.End {
			continue
		}
		windows = append(windows, w)
	}
	return windows
}
