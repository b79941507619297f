package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

const teacherSchedulePattern = "teacher_schedule:*"

type timetableEntryRepository interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
	FindSlot(ctx context.Context, exec sqlx.ExtContext, schoolID, classID, sectionID, day string, period int) (*models.TimetableEntry, error)
	CreateWithTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error
	UpdateWithTx(ctx context.Context, tx *sqlx.Tx, entry *models.TimetableEntry) error
	ListBySection(ctx context.Context, schoolID, classID, sectionID string) ([]models.TimetableEntry, error)
	Delete(ctx context.Context, id string) error
}

type settingsReader interface {
	GetBySchool(ctx context.Context, schoolID string) (*models.TimetableSettings, error)
}

type classChecker interface {
	ClassExists(ctx context.Context, id string) (bool, error)
	SubjectName(ctx context.Context, id string) (string, error)
	TeacherName(ctx context.Context, id string) (string, error)
}

type scheduleCacheInvalidator interface {
	DeleteByPattern(ctx context.Context, pattern string) error
}

type conflictRecorder interface {
	RecordSchedulingConflict(reason string)
}

// ProposeAssignmentRequest describes a candidate period assignment.
type ProposeAssignmentRequest struct {
	SchoolID  string `json:"school_id" validate:"required"`
	ClassID   string `json:"class_id" validate:"required"`
	SectionID string `json:"section_id" validate:"required"`
	SubjectID string `json:"subject_id" validate:"required"`
	TeacherID string `json:"teacher_id" validate:"required"`
	Day       string `json:"day" validate:"required"`
	Period    int    `json:"period" validate:"required,gt=0"`
}

// ReassignPeriodRequest carries a partial update for an existing assignment.
// Nil fields keep the stored value.
type ReassignPeriodRequest struct {
	SubjectID *string `json:"subject_id"`
	TeacherID *string `json:"teacher_id"`
	Day       *string `json:"day"`
	Period    *int    `json:"period"`
}

// TimetableService owns the assignment conflict checks: reservation policy
// first, then slot occupancy inside a transaction.
type TimetableService struct {
	entries   timetableEntryRepository
	settings  settingsReader
	lookups   classChecker
	cache     scheduleCacheInvalidator
	metrics   conflictRecorder
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService instantiates TimetableService.
func NewTimetableService(
	entries timetableEntryRepository,
	settings settingsReader,
	lookups classChecker,
	cache scheduleCacheInvalidator,
	metrics conflictRecorder,
	validate *validator.Validate,
	logger *zap.Logger,
) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{
		entries:   entries,
		settings:  settings,
		lookups:   lookups,
		cache:     cache,
		metrics:   metrics,
		validator: validate,
		logger:    logger,
	}
}

// ProposeAssignment validates a candidate assignment against the reservation
// policy and slot occupancy, then persists it. The occupancy read and the
// insert share one transaction; the unique slot index remains the final word
// under concurrency.
func (s *TimetableService) ProposeAssignment(ctx context.Context, req ProposeAssignmentRequest) (*models.TimetableEntry, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload")
	}
	day := strings.ToUpper(req.Day)
	if !models.IsWeekday(day) {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
	}

	settings, span, err := s.resolveSlot(ctx, req.SchoolID, req.Period)
	if err != nil {
		return nil, err
	}

	reservation, err := ResolveReservation(settings, day, span)
	if err != nil {
		return nil, err
	}
	if reservation.Reserved {
		s.recordConflict("reserved")
		return nil, appErrors.Clone(appErrors.ErrReservedSlot,
			fmt.Sprintf("slot overlaps reserved window %s-%s", reservation.Start, reservation.End))
	}

	exists, err := s.lookups.ClassExists(ctx, req.ClassID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify class")
	}
	if !exists {
		return nil, appErrors.Clone(appErrors.ErrValidation, "class does not exist")
	}

	entry := &models.TimetableEntry{
		SchoolID:  req.SchoolID,
		ClassID:   req.ClassID,
		SectionID: req.SectionID,
		SubjectID: req.SubjectID,
		TeacherID: req.TeacherID,
		Day:       day,
		Period:    req.Period,
		StartTime: span.Start,
		EndTime:   span.End,
	}

	tx, err := s.entries.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	occupant, err := s.entries.FindSlot(ctx, tx, req.SchoolID, req.ClassID, req.SectionID, day, req.Period)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
	}
	if occupant != nil {
		s.recordConflict("occupied")
		return nil, appErrors.Clone(appErrors.ErrSlotOccupied, "")
	}

	if err := s.entries.CreateWithTx(ctx, tx, entry); err != nil {
		if appErrors.HasCode(err, appErrors.ErrSlotOccupied) {
			s.recordConflict("occupied")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit assignment")
	}

	s.invalidateSchedules(ctx)
	s.logger.Info("timetable entry created",
		zap.String("entry_id", entry.ID),
		zap.String("section_id", entry.SectionID),
		zap.String("day", entry.Day),
		zap.Int("period", entry.Period))
	return entry, nil
}

// ReassignPeriod applies a partial update to an assignment. Reservation and
// occupancy are re-checked only when the slot itself moves; swapping the
// subject or teacher in place needs neither.
func (s *TimetableService) ReassignPeriod(ctx context.Context, entryID string, req ReassignPeriodRequest) (*models.TimetableEntry, error) {
	if entryID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "entry id is required")
	}

	entry, err := s.entries.FindByID(ctx, entryID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}

	if req.SubjectID != nil {
		entry.SubjectID = *req.SubjectID
	}
	if req.TeacherID != nil {
		entry.TeacherID = *req.TeacherID
	}

	slotChanged := false
	if req.Day != nil {
		day := strings.ToUpper(*req.Day)
		if !models.IsWeekday(day) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unknown weekday")
		}
		if day != entry.Day {
			entry.Day = day
			slotChanged = true
		}
	}
	if req.Period != nil && *req.Period != entry.Period {
		if *req.Period < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "period must be positive")
		}
		entry.Period = *req.Period
		slotChanged = true
	}

	if slotChanged {
		settings, span, err := s.resolveSlot(ctx, entry.SchoolID, entry.Period)
		if err != nil {
			return nil, err
		}
		reservation, err := ResolveReservation(settings, entry.Day, span)
		if err != nil {
			return nil, err
		}
		if reservation.Reserved {
			s.recordConflict("reserved")
			return nil, appErrors.Clone(appErrors.ErrReservedSlot,
				fmt.Sprintf("slot overlaps reserved window %s-%s", reservation.Start, reservation.End))
		}
		entry.StartTime = span.Start
		entry.EndTime = span.End
	}

	tx, err := s.entries.BeginTxx(ctx, nil)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open transaction")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if slotChanged {
		occupant, err := s.entries.FindSlot(ctx, tx, entry.SchoolID, entry.ClassID, entry.SectionID, entry.Day, entry.Period)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check slot")
		}
		if occupant != nil && occupant.ID != entry.ID {
			s.recordConflict("occupied")
			return nil, appErrors.Clone(appErrors.ErrSlotOccupied, "")
		}
	}

	if err := s.entries.UpdateWithTx(ctx, tx, entry); err != nil {
		if appErrors.HasCode(err, appErrors.ErrSlotOccupied) {
			s.recordConflict("occupied")
		}
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to commit reassignment")
	}

	s.invalidateSchedules(ctx)
	return entry, nil
}

// DeleteEntry frees a slot. Session records are untouched.
func (s *TimetableService) DeleteEntry(ctx context.Context, entryID string) error {
	if entryID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "entry id is required")
	}
	if _, err := s.entries.FindByID(ctx, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}
	if err := s.entries.Delete(ctx, entryID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete timetable entry")
	}
	s.invalidateSchedules(ctx)
	return nil
}

// ListSectionAssignments returns a section's timetable in canonical order with
// display names resolved best-effort.
func (s *TimetableService) ListSectionAssignments(ctx context.Context, schoolID, classID, sectionID string) ([]dto.SectionTimetableEntry, error) {
	if schoolID == "" || classID == "" || sectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "school, class and section ids are required")
	}

	entries, err := s.entries.ListBySection(ctx, schoolID, classID, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list section timetable")
	}

	rows := make([]dto.SectionTimetableEntry, 0, len(entries))
	for _, entry := range entries {
		rows = append(rows, dto.SectionTimetableEntry{
			ID:          entry.ID,
			Day:         entry.Day,
			Period:      entry.Period,
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
			SubjectID:   entry.SubjectID,
			SubjectName: s.resolveName(ctx, s.lookups.SubjectName, entry.SubjectID, "Unknown Subject"),
			TeacherID:   entry.TeacherID,
			TeacherName: s.resolveName(ctx, s.lookups.TeacherName, entry.TeacherID, "Unknown Teacher"),
		})
	}
	return rows, nil
}

// resolveSlot loads settings and derives the period span, rejecting periods
// outside the configured grid.
func (s *TimetableService) resolveSlot(ctx context.Context, schoolID string, period int) (*models.TimetableSettings, models.PeriodSpan, error) {
	settings, err := s.settings.GetBySchool(ctx, schoolID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, models.PeriodSpan{}, appErrors.Clone(appErrors.ErrConfig, "timetable settings not configured for school")
		}
		return nil, models.PeriodSpan{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable settings")
	}
	if period < 1 || period > settings.PeriodsPerDay {
		return nil, models.PeriodSpan{}, appErrors.Clone(appErrors.ErrValidation,
			fmt.Sprintf("period must be between 1 and %d", settings.PeriodsPerDay))
	}
	grid, err := BuildPeriodGrid(settings)
	if err != nil {
		return nil, models.PeriodSpan{}, err
	}
	return settings, grid[period-1], nil
}

func (s *TimetableService) resolveName(ctx context.Context, fn func(context.Context, string) (string, error), id, fallback string) string {
	name, err := fn(ctx, id)
	if err != nil || name == "" {
		return fallback
	}
	return name
}

func (s *TimetableService) recordConflict(reason string) {
	if s.metrics != nil {
		s.metrics.RecordSchedulingConflict(reason)
	}
}

func (s *TimetableService) invalidateSchedules(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, teacherSchedulePattern); err != nil {
		s.logger.Warn("failed to invalidate teacher schedule cache", zap.Error(err))
	}
}
