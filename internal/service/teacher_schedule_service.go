package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type teacherEntryLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error)
}

type linkedEntryLister interface {
	ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherTimetable, error)
	ListEntriesByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error)
	Create(ctx context.Context, link *models.TeacherTimetable) error
	Delete(ctx context.Context, id string) error
}

type entryReader interface {
	FindByID(ctx context.Context, id string) (*models.TimetableEntry, error)
}

type nameResolver interface {
	SchoolName(ctx context.Context, id string) (string, error)
	ClassName(ctx context.Context, id string) (string, error)
	SectionName(ctx context.Context, id string) (string, error)
	SubjectName(ctx context.Context, id string) (string, error)
}

type scheduleCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	DeleteByPattern(ctx context.Context, pattern string) error
}

type cacheMetricsRecorder interface {
	RecordCacheOperation(hit bool)
}

// TeacherScheduleService aggregates a teacher's full weekly schedule from
// direct assignments and explicit timetable links.
type TeacherScheduleService struct {
	entries   teacherEntryLister
	entryByID entryReader
	links     linkedEntryLister
	lookups   nameResolver
	cache     scheduleCache
	cacheTTL  time.Duration
	metrics   cacheMetricsRecorder
	logger    *zap.Logger
}

// NewTeacherScheduleService instantiates TeacherScheduleService.
func NewTeacherScheduleService(
	entries teacherEntryLister,
	entryByID entryReader,
	links linkedEntryLister,
	lookups nameResolver,
	cache scheduleCache,
	cacheTTL time.Duration,
	metrics cacheMetricsRecorder,
	logger *zap.Logger,
) *TeacherScheduleService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &TeacherScheduleService{
		entries:   entries,
		entryByID: entryByID,
		links:     links,
		lookups:   lookups,
		cache:     cache,
		cacheTTL:  cacheTTL,
		metrics:   metrics,
		logger:    logger,
	}
}

// GetTeacherSchedule returns the union of direct and linked assignments in
// canonical Monday-first order. Display names resolve best-effort; a broken
// reference yields a sentinel label instead of an error.
func (s *TeacherScheduleService) GetTeacherSchedule(ctx context.Context, teacherID string) ([]dto.TeacherScheduleEntry, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}

	cacheKey := fmt.Sprintf("teacher_schedule:%s", teacherID)
	if s.cache != nil {
		var cached []dto.TeacherScheduleEntry
		if err := s.cache.Get(ctx, cacheKey, &cached); err == nil {
			s.recordCache(true)
			return cached, nil
		} else if !appErrors.HasCode(err, appErrors.ErrCacheMiss) {
			s.logger.Warn("teacher schedule cache read failed", zap.Error(err))
		}
		s.recordCache(false)
	}

	direct, err := s.entries.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list direct assignments")
	}
	linked, err := s.links.ListEntriesByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list linked assignments")
	}

	merged := make([]models.TimetableEntry, 0, len(direct)+len(linked))
	seen := make(map[string]struct{}, len(direct)+len(linked))
	for _, entry := range append(direct, linked...) {
		if _, ok := seen[entry.ID]; ok {
			continue
		}
		seen[entry.ID] = struct{}{}
		merged = append(merged, entry)
	}

	sort.SliceStable(merged, func(i, j int) bool {
		di, dj := models.WeekdayIndex(merged[i].Day), models.WeekdayIndex(merged[j].Day)
		if di != dj {
			return di < dj
		}
		return merged[i].Period < merged[j].Period
	})

	schedule := make([]dto.TeacherScheduleEntry, 0, len(merged))
	for _, entry := range merged {
		schedule = append(schedule, dto.TeacherScheduleEntry{
			ID:          entry.ID,
			Day:         entry.Day,
			Period:      entry.Period,
			Time:        fmt.Sprintf("Period %d", entry.Period),
			SchoolName:  s.resolve(ctx, s.lookups.SchoolName, entry.SchoolID, "Unknown School"),
			ClassName:   s.resolve(ctx, s.lookups.ClassName, entry.ClassID, "Unknown Class"),
			SectionName: s.resolve(ctx, s.lookups.SectionName, entry.SectionID, "Unknown Section"),
			SubjectName: s.resolve(ctx, s.lookups.SubjectName, entry.SubjectID, "Unknown Subject"),
			StartTime:   entry.StartTime,
			EndTime:     entry.EndTime,
		})
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, schedule, s.cacheTTL); err != nil {
			s.logger.Warn("teacher schedule cache write failed", zap.Error(err))
		}
	}
	return schedule, nil
}

// ListLinks returns a teacher's raw link rows for link management.
func (s *TeacherScheduleService) ListLinks(ctx context.Context, teacherID string) ([]models.TeacherTimetable, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	links, err := s.links.ListByTeacher(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher links")
	}
	return links, nil
}

// LinkEntry attaches a second teacher to an existing assignment.
func (s *TeacherScheduleService) LinkEntry(ctx context.Context, teacherID, entryID string) (*models.TeacherTimetable, error) {
	if teacherID == "" || entryID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id and entry id are required")
	}
	if _, err := s.entryByID.FindByID(ctx, entryID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable entry not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load timetable entry")
	}

	link := &models.TeacherTimetable{TeacherID: teacherID, TimetableEntryID: entryID}
	if err := s.links.Create(ctx, link); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to link teacher to entry")
	}
	s.invalidate(ctx, teacherID)
	return link, nil
}

// UnlinkEntry removes a teacher-entry link.
func (s *TeacherScheduleService) UnlinkEntry(ctx context.Context, teacherID, linkID string) error {
	if linkID == "" {
		return appErrors.Clone(appErrors.ErrValidation, "link id is required")
	}
	if err := s.links.Delete(ctx, linkID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to unlink teacher from entry")
	}
	s.invalidate(ctx, teacherID)
	return nil
}

func (s *TeacherScheduleService) recordCache(hit bool) {
	if s.metrics != nil {
		s.metrics.RecordCacheOperation(hit)
	}
}

func (s *TeacherScheduleService) invalidate(ctx context.Context, teacherID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.DeleteByPattern(ctx, fmt.Sprintf("teacher_schedule:%s", teacherID)); err != nil {
		s.logger.Warn("failed to invalidate teacher schedule cache", zap.Error(err))
	}
}

func (s *TeacherScheduleService) resolve(ctx context.Context, fn func(context.Context, string) (string, error), id, fallback string) string {
	name, err := fn(ctx, id)
	if err != nil || name == "" {
		return fallback
	}
	return name
}
