package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type timetableSettingsRepository interface {
	GetBySchool(ctx context.Context, schoolID string) (*models.TimetableSettings, error)
	Upsert(ctx context.Context, settings *models.TimetableSettings) error
}

// UpsertTimetableSettingsRequest describes the payload for writing a school's
// time configuration.
type UpsertTimetableSettingsRequest struct {
	PeriodsPerDay     int                              `json:"periods_per_day" validate:"required,gt=0"`
	DurationPerPeriod int                              `json:"duration_per_period" validate:"required,gt=0"`
	SchoolStartTime   string                           `json:"school_start_time" validate:"required"`
	SchoolEndTime     string                           `json:"school_end_time" validate:"required"`
	AssemblyStartTime string                           `json:"assembly_start_time"`
	AssemblyEndTime   string                           `json:"assembly_end_time"`
	LunchStartTime    string                           `json:"lunch_start_time"`
	LunchEndTime      string                           `json:"lunch_end_time"`
	ShortBreak1Start  string                           `json:"short_break1_start"`
	ShortBreak1End    string                           `json:"short_break1_end"`
	ShortBreak2Start  string                           `json:"short_break2_start"`
	ShortBreak2End    string                           `json:"short_break2_end"`
	ReserveType       string                           `json:"reserve_type" validate:"required,oneof=time day"`
	ReserveTimeStart  string                           `json:"reserve_time_start"`
	ReserveTimeEnd    string                           `json:"reserve_time_end"`
	ReserveDay        map[string]models.ReserveDayRule `json:"reserve_day"`
	DayOff            string                           `json:"day_off"`
}

// SettingsService manages per-school timetable settings and the derived
// period grid.
type SettingsService struct {
	repo          timetableSettingsRepository
	validator     *validator.Validate
	logger        *zap.Logger
	defaultDayOff string
}

// NewSettingsService instantiates SettingsService.
func NewSettingsService(repo timetableSettingsRepository, validate *validator.Validate, logger *zap.Logger, defaultDayOff string) *SettingsService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if defaultDayOff == "" {
		defaultDayOff = models.Sunday
	}
	return &SettingsService{repo: repo, validator: validate, logger: logger, defaultDayOff: defaultDayOff}
}

// Get returns a school's timetable settings.
func (s *SettingsService) Get(ctx context.Context, schoolID string) (*models.TimetableSettings, error) {
	settings, err := s.repo.GetBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable settings not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable settings")
	}
	return settings, nil
}

// Upsert validates and writes a school's timetable settings.
func (s *SettingsService) Upsert(ctx context.Context, schoolID string, req UpsertTimetableSettingsRequest) (*models.TimetableSettings, error) {
	if schoolID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school id is required")
	}
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid timetable settings payload")
	}

	settings := &models.TimetableSettings{
		SchoolID:          schoolID,
		PeriodsPerDay:     req.PeriodsPerDay,
		DurationPerPeriod: req.DurationPerPeriod,
		SchoolStartTime:   req.SchoolStartTime,
		SchoolEndTime:     req.SchoolEndTime,
		AssemblyStartTime: req.AssemblyStartTime,
		AssemblyEndTime:   req.AssemblyEndTime,
		LunchStartTime:    req.LunchStartTime,
		LunchEndTime:      req.LunchEndTime,
		ShortBreak1Start:  req.ShortBreak1Start,
		ShortBreak1End:    req.ShortBreak1End,
		ShortBreak2Start:  req.ShortBreak2Start,
		ShortBreak2End:    req.ShortBreak2End,
		ReserveType:       req.ReserveType,
		ReserveTimeStart:  req.ReserveTimeStart,
		ReserveTimeEnd:    req.ReserveTimeEnd,
		DayOff:            strings.ToUpper(req.DayOff),
	}
	if settings.DayOff == "" {
		settings.DayOff = s.defaultDayOff
	}

	if req.ReserveDay != nil {
		normalized := make(map[string]models.ReserveDayRule, len(req.ReserveDay))
		for day, rule := range req.ReserveDay {
			normalized[strings.ToUpper(day)] = rule
		}
		raw, err := json.Marshal(normalized)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid reserve day map")
		}
		settings.ReserveDay = raw
	}

	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	if err := s.repo.Upsert(ctx, settings); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to save timetable settings")
	}
	return settings, nil
}

// Grid derives the period grid and break windows for a school.
func (s *SettingsService) Grid(ctx context.Context, schoolID string) (*dto.PeriodGridResponse, error) {
	settings, err := s.Get(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	periods, err := BuildPeriodGrid(settings)
	if err != nil {
		return nil, err
	}
	return &dto.PeriodGridResponse{
		SchoolID: schoolID,
		Periods:  periods,
		Breaks:   BreakWindows(settings),
	}, nil
}

// CheckReservation answers whether a (day, period) slot is reserved.
func (s *SettingsService) CheckReservation(ctx context.Context, schoolID, day string, period int) (*dto.ReservationCheckResponse, error) {
	day = strings.ToUpper(day)
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
	}

	settings, err := s.Get(ctx, schoolID)
	if err != nil {
		return nil, err
	}
	if period < 1 || period > settings.PeriodsPerDay {
		return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("period must be between 1 and %d", settings.PeriodsPerDay))
	}

	periods, err := BuildPeriodGrid(settings)
	if err != nil {
		return nil, err
	}
	result, err := ResolveReservation(settings, day, periods[period-1])
	if err != nil {
		return nil, err
	}
	return &dto.ReservationCheckResponse{
		Day:      day,
		Period:   period,
		Reserved: result.Reserved,
		Start:    result.Start,
		End:      result.End,
	}, nil
}

// validateSettings enforces the settings invariants: well-ordered windows
// contained in the school day, a grid that fits before midnight, and a
// decodable reservation policy.
func validateSettings(settings *models.TimetableSettings) error {
	dayStart, err := parseClock(settings.SchoolStartTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid school start time")
	}
	dayEnd, err := parseClock(settings.SchoolEndTime)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid school end time")
	}
	if dayStart >= dayEnd {
		return appErrors.Clone(appErrors.ErrConfig, "school start time must precede end time")
	}

	if _, err := BuildPeriodGrid(settings); err != nil {
		return err
	}

	for _, w := range BreakWindows(settings) {
		from, err := parseClock(w.Start)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid %s window", w.Name))
		}
		to, err := parseClock(w.End)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid %s window", w.Name))
		}
		if from >= to {
			return appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("%s window is not well-ordered", w.Name))
		}
		if from < dayStart || to > dayEnd {
			return appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("%s window falls outside the school day", w.Name))
		}
	}

	if settings.DayOff != "" && !models.IsWeekday(settings.DayOff) {
		return appErrors.Clone(appErrors.ErrConfig, "day off is not a weekday")
	}

	switch settings.ReserveType {
	case models.ReserveTypeTime:
		if settings.ReserveTimeStart == "" || settings.ReserveTimeEnd == "" {
			return appErrors.Clone(appErrors.ErrConfig, "reserved window endpoints are required")
		}
		from, err := parseClock(settings.ReserveTimeStart)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid reserved window")
		}
		to, err := parseClock(settings.ReserveTimeEnd)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid reserved window")
		}
		if from >= to {
			return appErrors.Clone(appErrors.ErrConfig, "reserved window is not well-ordered")
		}
	case models.ReserveTypeDay:
		rules, err := settings.ReserveDayRules()
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, "invalid per-day reservation map")
		}
		for day, rule := range rules {
			if !models.IsWeekday(day) {
				return appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("unknown weekday %q in reservation map", day))
			}
			if !rule.Open {
				continue
			}
			from, err := parseClock(rule.Start)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid reserved window for %s", day))
			}
			to, err := parseClock(rule.End)
			if err != nil {
				return appErrors.Wrap(err, appErrors.ErrConfig.Code, appErrors.ErrConfig.Status, fmt.Sprintf("invalid reserved window for %s", day))
			}
			if from >= to {
				return appErrors.Clone(appErrors.ErrConfig, fmt.Sprintf("reserved window for %s is not well-ordered", day))
			}
		}
	default:
		return appErrors.Clone(appErrors.ErrConfig, "unknown reserve type")
	}

	return nil
}
