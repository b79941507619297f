package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type mockDirectLister struct {
	entries []models.TimetableEntry
}

func (m *mockDirectLister) ListByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	return m.entries, nil
}

type mockLinkRepo struct {
	links   []models.TeacherTimetable
	entries []models.TimetableEntry
	created *models.TeacherTimetable
	deleted []string
}

func (m *mockLinkRepo) ListByTeacher(ctx context.Context, teacherID string) ([]models.TeacherTimetable, error) {
	return m.links, nil
}

func (m *mockLinkRepo) ListEntriesByTeacher(ctx context.Context, teacherID string) ([]models.TimetableEntry, error) {
	return m.entries, nil
}

func (m *mockLinkRepo) Create(ctx context.Context, link *models.TeacherTimetable) error {
	link.ID = "link-1"
	m.created = link
	return nil
}

func (m *mockLinkRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	return nil
}

type mockEntryReader struct {
	entries map[string]*models.TimetableEntry
}

func (m *mockEntryReader) FindByID(ctx context.Context, id string) (*models.TimetableEntry, error) {
	if entry, ok := m.entries[id]; ok {
		return entry, nil
	}
	return nil, sql.ErrNoRows
}

type mockNames struct {
	schools  map[string]string
	classes  map[string]string
	sections map[string]string
	subjects map[string]string
}

func (m *mockNames) lookup(table map[string]string, id string) (string, error) {
	if name, ok := table[id]; ok {
		return name, nil
	}
	return "", sql.ErrNoRows
}

func (m *mockNames) SchoolName(ctx context.Context, id string) (string, error) {
	return m.lookup(m.schools, id)
}

func (m *mockNames) ClassName(ctx context.Context, id string) (string, error) {
	return m.lookup(m.classes, id)
}

func (m *mockNames) SectionName(ctx context.Context, id string) (string, error) {
	return m.lookup(m.sections, id)
}

func (m *mockNames) SubjectName(ctx context.Context, id string) (string, error) {
	return m.lookup(m.subjects, id)
}

type mockScheduleCache struct {
	store    map[string][]dto.TeacherScheduleEntry
	setCalls int
	patterns []string
}

func (m *mockScheduleCache) Get(ctx context.Context, key string, dest interface{}) error {
	if cached, ok := m.store[key]; ok {
		*dest.(*[]dto.TeacherScheduleEntry) = cached
		return nil
	}
	return appErrors.ErrCacheMiss
}

func (m *mockScheduleCache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	if m.store == nil {
		m.store = make(map[string][]dto.TeacherScheduleEntry)
	}
	m.store[key] = value.([]dto.TeacherScheduleEntry)
	m.setCalls++
	return nil
}

func (m *mockScheduleCache) DeleteByPattern(ctx context.Context, pattern string) error {
	m.patterns = append(m.patterns, pattern)
	return nil
}

func fullNames() *mockNames {
	return &mockNames{
		schools:  map[string]string{"school-1": "Hillcrest"},
		classes:  map[string]string{"class-1": "Grade 7"},
		sections: map[string]string{"section-1": "7A"},
		subjects: map[string]string{"subject-1": "Mathematics"},
	}
}

func TestGetTeacherScheduleMergesAndSorts(t *testing.T) {
	direct := &mockDirectLister{entries: []models.TimetableEntry{
		{ID: "e3", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "subject-1", Day: models.Wednesday, Period: 1},
		{ID: "e1", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "subject-1", Day: models.Monday, Period: 2},
	}}
	links := &mockLinkRepo{entries: []models.TimetableEntry{
		{ID: "e2", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "subject-1", Day: models.Monday, Period: 1},
		// Duplicate of a direct assignment, must be collapsed.
		{ID: "e1", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "subject-1", Day: models.Monday, Period: 2},
	}}
	svc := NewTeacherScheduleService(direct, &mockEntryReader{}, links, fullNames(), nil, time.Minute, nil, zap.NewNop())

	schedule, err := svc.GetTeacherSchedule(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, schedule, 3)
	assert.Equal(t, []string{"e2", "e1", "e3"}, []string{schedule[0].ID, schedule[1].ID, schedule[2].ID})
	assert.Equal(t, "Period 1", schedule[0].Time)
	assert.Equal(t, "Hillcrest", schedule[0].SchoolName)
	assert.Equal(t, "7A", schedule[0].SectionName)
}

func TestGetTeacherScheduleSentinelOnBrokenReference(t *testing.T) {
	direct := &mockDirectLister{entries: []models.TimetableEntry{
		{ID: "e1", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "deleted-subject", Day: models.Monday, Period: 1},
	}}
	svc := NewTeacherScheduleService(direct, &mockEntryReader{}, &mockLinkRepo{}, fullNames(), nil, time.Minute, nil, zap.NewNop())

	schedule, err := svc.GetTeacherSchedule(context.Background(), "teacher-1")
	require.NoError(t, err)
	require.Len(t, schedule, 1)
	assert.Equal(t, "Unknown Subject", schedule[0].SubjectName)
	assert.Equal(t, "Hillcrest", schedule[0].SchoolName)
}

func TestGetTeacherScheduleUsesCache(t *testing.T) {
	direct := &mockDirectLister{entries: []models.TimetableEntry{
		{ID: "e1", SchoolID: "school-1", ClassID: "class-1", SectionID: "section-1", SubjectID: "subject-1", Day: models.Monday, Period: 1},
	}}
	cache := &mockScheduleCache{}
	svc := NewTeacherScheduleService(direct, &mockEntryReader{}, &mockLinkRepo{}, fullNames(), cache, time.Minute, nil, zap.NewNop())

	first, err := svc.GetTeacherSchedule(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, 1, cache.setCalls)

	// Second read comes from the cache; the repositories could change
	// underneath without affecting the result until invalidation.
	direct.entries = nil
	second, err := svc.GetTeacherSchedule(context.Background(), "teacher-1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 1, cache.setCalls)
}

func TestLinkEntryInvalidatesCache(t *testing.T) {
	links := &mockLinkRepo{}
	cache := &mockScheduleCache{}
	reader := &mockEntryReader{entries: map[string]*models.TimetableEntry{"entry-1": {ID: "entry-1"}}}
	svc := NewTeacherScheduleService(&mockDirectLister{}, reader, links, fullNames(), cache, time.Minute, nil, zap.NewNop())

	link, err := svc.LinkEntry(context.Background(), "teacher-2", "entry-1")
	require.NoError(t, err)
	assert.Equal(t, "teacher-2", link.TeacherID)
	assert.Contains(t, cache.patterns, "teacher_schedule:teacher-2")
}

func TestListLinksReturnsRawRows(t *testing.T) {
	links := &mockLinkRepo{links: []models.TeacherTimetable{
		{ID: "link-1", TeacherID: "teacher-2", TimetableEntryID: "entry-1"},
		{ID: "link-2", TeacherID: "teacher-2", TimetableEntryID: "entry-2"},
	}}
	svc := NewTeacherScheduleService(&mockDirectLister{}, &mockEntryReader{}, links, fullNames(), nil, time.Minute, nil, zap.NewNop())

	rows, err := svc.ListLinks(context.Background(), "teacher-2")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "entry-1", rows[0].TimetableEntryID)

	_, err = svc.ListLinks(context.Background(), "")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestLinkEntryMissingEntry(t *testing.T) {
	svc := NewTeacherScheduleService(&mockDirectLister{}, &mockEntryReader{}, &mockLinkRepo{}, fullNames(), nil, time.Minute, nil, zap.NewNop())

	_, err := svc.LinkEntry(context.Background(), "teacher-2", "missing")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrNotFound))
}
