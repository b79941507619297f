package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type mockSessionRepo struct {
	sessions map[string]*models.Session
	deleted  []string
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*models.Session, error) {
	if session, ok := m.sessions[id]; ok {
		return session, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockSessionRepo) ListBySection(ctx context.Context, sectionID string) ([]models.Session, error) {
	var sessions []models.Session
	for _, s := range m.sessions {
		if s.SectionID == sectionID {
			sessions = append(sessions, *s)
		}
	}
	return sessions, nil
}

func (m *mockSessionRepo) Create(ctx context.Context, session *models.Session) error {
	if m.sessions == nil {
		m.sessions = make(map[string]*models.Session)
	}
	session.ID = "session-1"
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) Update(ctx context.Context, session *models.Session) error {
	m.sessions[session.ID] = session
	return nil
}

func (m *mockSessionRepo) Delete(ctx context.Context, id string) error {
	m.deleted = append(m.deleted, id)
	delete(m.sessions, id)
	return nil
}

type mockPlanRepo struct {
	plans       map[string]*models.SessionPlan
	bySession   map[string][]models.SessionPlan
	bulkDeleted map[string]int64
}

func (m *mockPlanRepo) FindByID(ctx context.Context, id string) (*models.SessionPlan, error) {
	if plan, ok := m.plans[id]; ok {
		return plan, nil
	}
	return nil, sql.ErrNoRows
}

func (m *mockPlanRepo) ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlan, error) {
	return m.bySession[sessionID], nil
}

func (m *mockPlanRepo) Create(ctx context.Context, plan *models.SessionPlan) error {
	if m.bySession == nil {
		m.bySession = make(map[string][]models.SessionPlan)
	}
	plan.ID = "plan-1"
	m.bySession[plan.SessionID] = append(m.bySession[plan.SessionID], *plan)
	return nil
}

func (m *mockPlanRepo) UpdateStatus(ctx context.Context, id, status string, completed bool) error {
	if plan, ok := m.plans[id]; ok {
		plan.Status = status
		plan.Completed = completed
	}
	return nil
}

func (m *mockPlanRepo) DeleteBySession(ctx context.Context, sessionID string) (int64, error) {
	if m.bulkDeleted == nil {
		m.bulkDeleted = make(map[string]int64)
	}
	count := int64(len(m.bySession[sessionID]))
	m.bulkDeleted[sessionID] = count
	delete(m.bySession, sessionID)
	return count, nil
}

type mockSubjectReader struct {
	subjects map[string]*models.Subject
}

func (m *mockSubjectReader) FindByID(ctx context.Context, id string) (*models.Subject, error) {
	if subject, ok := m.subjects[id]; ok {
		return subject, nil
	}
	return nil, sql.ErrNoRows
}

func anchoredSubject() *mockSubjectReader {
	anchor := time.Date(2025, 6, 2, 0, 0, 0, 0, time.UTC)
	return &mockSubjectReader{subjects: map[string]*models.Subject{
		"subject-1": {ID: "subject-1", Name: "Mathematics", AcademicStartDate: &anchor},
		"subject-2": {ID: "subject-2", Name: "History"},
	}}
}

func TestSessionServiceCreate(t *testing.T) {
	repo := &mockSessionRepo{}
	svc := NewSessionService(repo, &mockPlanRepo{}, anchoredSubject(), validator.New(), zap.NewNop())

	session, err := svc.Create(context.Background(), CreateSessionRequest{
		SubjectID: "subject-1", SectionID: "section-1", ClassInfoID: "class-1", TeacherID: "teacher-1",
		ChapterName: "Algebra", NumberOfSessions: 3, PriorityNumber: 2,
	})
	require.NoError(t, err)
	assert.Equal(t, "session-1", session.ID)
	assert.Equal(t, 2, session.PriorityNumber)
}

func TestSessionServiceCreateUnknownSubject(t *testing.T) {
	svc := NewSessionService(&mockSessionRepo{}, &mockPlanRepo{}, anchoredSubject(), validator.New(), zap.NewNop())

	_, err := svc.Create(context.Background(), CreateSessionRequest{
		SubjectID: "missing", SectionID: "section-1", ClassInfoID: "class-1", TeacherID: "teacher-1",
		ChapterName: "Algebra", NumberOfSessions: 3, PriorityNumber: 1,
	})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestSessionServiceAddPlanRejectsZero(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{"session-1": {ID: "session-1"}}}
	svc := NewSessionService(repo, &mockPlanRepo{}, anchoredSubject(), validator.New(), zap.NewNop())

	_, err := svc.AddPlan(context.Background(), "session-1", AddSessionPlanRequest{SessionNumber: 0})
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrValidation))
}

func TestSessionServiceAddPlanDefaultsStatus(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{"session-1": {ID: "session-1"}}}
	svc := NewSessionService(repo, &mockPlanRepo{}, anchoredSubject(), validator.New(), zap.NewNop())

	plan, err := svc.AddPlan(context.Background(), "session-1", AddSessionPlanRequest{SessionNumber: -1})
	require.NoError(t, err)
	assert.Equal(t, models.SessionPlanPending, plan.Status)
	assert.Equal(t, -1, plan.SessionNumber)
}

func TestSessionServiceSchedule(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{
		"session-1": {ID: "session-1", SubjectID: "subject-1", PriorityNumber: 2},
	}}
	plans := &mockPlanRepo{bySession: map[string][]models.SessionPlan{
		"session-1": {
			{ID: "plan-pre", SessionNumber: -1, Status: models.SessionPlanPending},
			{ID: "plan-1", SessionNumber: 1, Status: models.SessionPlanCompleted, Completed: true},
			{ID: "plan-2", SessionNumber: 2, Status: models.SessionPlanPending},
		},
	}}
	svc := NewSessionService(repo, plans, anchoredSubject(), validator.New(), zap.NewNop())

	items, err := svc.Schedule(context.Background(), "session-1")
	require.NoError(t, err)
	require.Len(t, items, 3)

	// Priority 2 anchors its week at 2025-06-09.
	assert.Equal(t, "2025-06-08", items[0].PlannedDate)
	assert.True(t, items[0].PreLearning)
	assert.Equal(t, "2025-06-09", items[1].PlannedDate)
	assert.Equal(t, "2025-06-10", items[2].PlannedDate)
	assert.False(t, items[2].PreLearning)
}

func TestSessionServiceScheduleMissingAnchor(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{
		"session-1": {ID: "session-1", SubjectID: "subject-2", PriorityNumber: 1},
	}}
	plans := &mockPlanRepo{bySession: map[string][]models.SessionPlan{
		"session-1": {{ID: "plan-1", SessionNumber: 1}},
	}}
	svc := NewSessionService(repo, plans, anchoredSubject(), validator.New(), zap.NewNop())

	_, err := svc.Schedule(context.Background(), "session-1")
	require.Error(t, err)
	assert.True(t, appErrors.HasCode(err, appErrors.ErrMissingAnchor))
}

func TestSessionServiceDeleteCascadesPlans(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{"session-1": {ID: "session-1"}}}
	plans := &mockPlanRepo{bySession: map[string][]models.SessionPlan{
		"session-1": {{ID: "plan-1", SessionNumber: 1}, {ID: "plan-2", SessionNumber: 2}},
	}}
	svc := NewSessionService(repo, plans, anchoredSubject(), validator.New(), zap.NewNop())

	require.NoError(t, svc.Delete(context.Background(), "session-1"))
	assert.Equal(t, int64(2), plans.bulkDeleted["session-1"])
	assert.Contains(t, repo.deleted, "session-1")
}

func TestSessionServiceDeletePlansReportsCount(t *testing.T) {
	repo := &mockSessionRepo{sessions: map[string]*models.Session{"session-1": {ID: "session-1"}}}
	plans := &mockPlanRepo{bySession: map[string][]models.SessionPlan{
		"session-1": {{ID: "plan-1", SessionNumber: 1}},
	}}
	svc := NewSessionService(repo, plans, anchoredSubject(), validator.New(), zap.NewNop())

	deleted, err := svc.DeletePlans(context.Background(), "session-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}

func TestSessionServiceUpdatePlanStatus(t *testing.T) {
	plans := &mockPlanRepo{plans: map[string]*models.SessionPlan{
		"plan-1": {ID: "plan-1", SessionNumber: 1, Status: models.SessionPlanPending},
	}}
	svc := NewSessionService(&mockSessionRepo{}, plans, anchoredSubject(), validator.New(), zap.NewNop())

	plan, err := svc.UpdatePlanStatus(context.Background(), "plan-1", UpdateSessionPlanStatusRequest{
		Status: models.SessionPlanCompleted, Completed: true,
	})
	require.NoError(t, err)
	assert.Equal(t, models.SessionPlanCompleted, plan.Status)
	assert.True(t, plan.Completed)
}
