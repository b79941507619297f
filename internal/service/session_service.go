package service

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/dto"
	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type sessionRepository interface {
	FindByID(ctx context.Context, id string) (*models.Session, error)
	ListBySection(ctx context.Context, sectionID string) ([]models.Session, error)
	Create(ctx context.Context, session *models.Session) error
	Update(ctx context.Context, session *models.Session) error
	Delete(ctx context.Context, id string) error
}

type sessionPlanRepository interface {
	FindByID(ctx context.Context, id string) (*models.SessionPlan, error)
	ListBySession(ctx context.Context, sessionID string) ([]models.SessionPlan, error)
	Create(ctx context.Context, plan *models.SessionPlan) error
	UpdateStatus(ctx context.Context, id, status string, completed bool) error
	DeleteBySession(ctx context.Context, sessionID string) (int64, error)
}

type subjectReader interface {
	FindByID(ctx context.Context, id string) (*models.Subject, error)
}

// CreateSessionRequest describes a new recurring instruction unit.
type CreateSessionRequest struct {
	SubjectID        string `json:"subject_id" validate:"required"`
	SectionID        string `json:"section_id" validate:"required"`
	ClassInfoID      string `json:"class_info_id" validate:"required"`
	TeacherID        string `json:"teacher_id" validate:"required"`
	ChapterName      string `json:"chapter_name" validate:"required"`
	NumberOfSessions int    `json:"number_of_sessions" validate:"required,gt=0"`
	PriorityNumber   int    `json:"priority_number" validate:"required,gt=0"`
}

// UpdateSessionRequest carries a partial session update. Nil fields keep the
// stored value.
type UpdateSessionRequest struct {
	ChapterName      *string `json:"chapter_name"`
	NumberOfSessions *int    `json:"number_of_sessions"`
	PriorityNumber   *int    `json:"priority_number"`
	TeacherID        *string `json:"teacher_id"`
}

// AddSessionPlanRequest describes one teachable slot within a session.
// Negative session numbers mark pre-learning slots; zero is rejected.
type AddSessionPlanRequest struct {
	SessionNumber int    `json:"session_number"`
	Status        string `json:"status" validate:"omitempty,oneof=pending in-progress completed"`
}

// UpdateSessionPlanStatusRequest mutates a plan's teaching progress.
type UpdateSessionPlanStatusRequest struct {
	Status    string `json:"status" validate:"required,oneof=pending in-progress completed"`
	Completed bool   `json:"completed"`
}

// SessionService manages sessions, their plans and the calendar projection
// that anchors plans to real dates.
type SessionService struct {
	sessions  sessionRepository
	plans     sessionPlanRepository
	subjects  subjectReader
	validator *validator.Validate
	logger    *zap.Logger
}

// NewSessionService instantiates SessionService.
func NewSessionService(sessions sessionRepository, plans sessionPlanRepository, subjects subjectReader, validate *validator.Validate, logger *zap.Logger) *SessionService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SessionService{sessions: sessions, plans: plans, subjects: subjects, validator: validate, logger: logger}
}

// Create stores a new session after verifying its subject exists.
func (s *SessionService) Create(ctx context.Context, req CreateSessionRequest) (*models.Session, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if _, err := s.subjects.FindByID(ctx, req.SubjectID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrValidation, "subject does not exist")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to verify subject")
	}

	session := &models.Session{
		SubjectID:        req.SubjectID,
		SectionID:        req.SectionID,
		ClassInfoID:      req.ClassInfoID,
		TeacherID:        req.TeacherID,
		ChapterName:      req.ChapterName,
		NumberOfSessions: req.NumberOfSessions,
		PriorityNumber:   req.PriorityNumber,
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session")
	}
	return session, nil
}

// Get loads a session by id.
func (s *SessionService) Get(ctx context.Context, id string) (*models.Session, error) {
	session, err := s.sessions.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session")
	}
	return session, nil
}

// ListBySection returns a section's sessions in priority order.
func (s *SessionService) ListBySection(ctx context.Context, sectionID string) ([]models.Session, error) {
	if sectionID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "section id is required")
	}
	sessions, err := s.sessions.ListBySection(ctx, sectionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list sessions")
	}
	return sessions, nil
}

// Update applies a partial session update.
func (s *SessionService) Update(ctx context.Context, id string, req UpdateSessionRequest) (*models.Session, error) {
	session, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ChapterName != nil {
		if *req.ChapterName == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "chapter name cannot be empty")
		}
		session.ChapterName = *req.ChapterName
	}
	if req.NumberOfSessions != nil {
		if *req.NumberOfSessions < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "number of sessions must be positive")
		}
		session.NumberOfSessions = *req.NumberOfSessions
	}
	if req.PriorityNumber != nil {
		if *req.PriorityNumber < 1 {
			return nil, appErrors.Clone(appErrors.ErrValidation, "priority number must be positive")
		}
		session.PriorityNumber = *req.PriorityNumber
	}
	if req.TeacherID != nil {
		session.TeacherID = *req.TeacherID
	}
	if err := s.sessions.Update(ctx, session); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session")
	}
	return session, nil
}

// Delete removes a session and its plans.
func (s *SessionService) Delete(ctx context.Context, id string) error {
	if _, err := s.Get(ctx, id); err != nil {
		return err
	}
	if _, err := s.plans.DeleteBySession(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session plans")
	}
	if err := s.sessions.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session")
	}
	return nil
}

// AddPlan stores one teachable slot for a session.
func (s *SessionService) AddPlan(ctx context.Context, sessionID string, req AddSessionPlanRequest) (*models.SessionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session plan payload")
	}
	if req.SessionNumber == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "session number cannot be zero")
	}
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = models.SessionPlanPending
	}
	plan := &models.SessionPlan{
		SessionID:     sessionID,
		SessionNumber: req.SessionNumber,
		Status:        status,
	}
	if err := s.plans.Create(ctx, plan); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create session plan")
	}
	return plan, nil
}

// ListPlans returns a session's plans, pre-learning slots first.
func (s *SessionService) ListPlans(ctx context.Context, sessionID string) ([]models.SessionPlan, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return nil, err
	}
	plans, err := s.plans.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session plans")
	}
	return plans, nil
}

// UpdatePlanStatus mutates one plan's teaching progress.
func (s *SessionService) UpdatePlanStatus(ctx context.Context, planID string, req UpdateSessionPlanStatusRequest) (*models.SessionPlan, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid status payload")
	}
	plan, err := s.plans.FindByID(ctx, planID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "session plan not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load session plan")
	}
	if err := s.plans.UpdateStatus(ctx, planID, req.Status, req.Completed); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update session plan")
	}
	plan.Status = req.Status
	plan.Completed = req.Completed
	return plan, nil
}

// DeletePlans removes every plan of a session and reports how many went.
func (s *SessionService) DeletePlans(ctx context.Context, sessionID string) (int64, error) {
	if _, err := s.Get(ctx, sessionID); err != nil {
		return 0, err
	}
	deleted, err := s.plans.DeleteBySession(ctx, sessionID)
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete session plans")
	}
	return deleted, nil
}

// Schedule projects every plan of a session onto the calendar using the
// subject's academic start date as anchor. A subject without an anchor
// refuses the projection rather than guessing a date.
func (s *SessionService) Schedule(ctx context.Context, sessionID string) ([]dto.SessionScheduleItem, error) {
	session, err := s.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	subject, err := s.subjects.FindByID(ctx, session.SubjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	plans, err := s.plans.ListBySession(ctx, sessionID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session plans")
	}

	items := make([]dto.SessionScheduleItem, 0, len(plans))
	for _, plan := range plans {
		date, err := ProjectSessionDate(subject.AcademicStartDate, session.PriorityNumber, plan.SessionNumber)
		if err != nil {
			return nil, err
		}
		items = append(items, dto.SessionScheduleItem{
			PlanID:        plan.ID,
			SessionNumber: plan.SessionNumber,
			Status:        plan.Status,
			Completed:     plan.Completed,
			PlannedDate:   date.Format("2006-01-02"),
			PreLearning:   plan.SessionNumber < 0,
		})
	}
	return items, nil
}

// ProjectDate exposes the raw projection for a subject's anchor.
func (s *SessionService) ProjectDate(ctx context.Context, subjectID string, priorityNumber, sessionNumber int) (time.Time, error) {
	subject, err := s.subjects.FindByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, appErrors.Clone(appErrors.ErrNotFound, "subject not found")
		}
		return time.Time{}, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load subject")
	}
	return ProjectSessionDate(subject.AcademicStartDate, priorityNumber, sessionNumber)
}
