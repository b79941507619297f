package service

import (
	"context"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/schoolops/timetable-api/internal/models"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
)

type membershipRepository interface {
	CreateTeacherSchool(ctx context.Context, m *models.TeacherSchoolMembership) error
	ListTeacherSchools(ctx context.Context, teacherID string) ([]models.TeacherSchoolMembership, error)
	DeleteTeacherSchool(ctx context.Context, id string) error
	CreateManagerSchool(ctx context.Context, m *models.ManagerSchoolMembership) error
	ListManagerSchools(ctx context.Context, managerID string) ([]models.ManagerSchoolMembership, error)
	DeleteManagerSchool(ctx context.Context, id string) error
}

// CreateMembershipRequest links a user to a school.
type CreateMembershipRequest struct {
	UserID   string `json:"user_id" validate:"required"`
	SchoolID string `json:"school_id" validate:"required"`
}

// MembershipService manages the explicit teacher↔school and manager↔school
// join entities.
type MembershipService struct {
	repo      membershipRepository
	validator *validator.Validate
	logger    *zap.Logger
}

// NewMembershipService instantiates MembershipService.
func NewMembershipService(repo membershipRepository, validate *validator.Validate, logger *zap.Logger) *MembershipService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &MembershipService{repo: repo, validator: validate, logger: logger}
}

// AddTeacherToSchool creates a teacher membership. Duplicate pairs conflict.
func (s *MembershipService) AddTeacherToSchool(ctx context.Context, req CreateMembershipRequest) (*models.TeacherSchoolMembership, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	m := &models.TeacherSchoolMembership{TeacherID: req.UserID, SchoolID: req.SchoolID}
	if err := s.repo.CreateTeacherSchool(ctx, m); err != nil {
		if appErrors.HasCode(err, appErrors.ErrConflict) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create teacher membership")
	}
	return m, nil
}

// ListTeacherSchools returns a teacher's school memberships.
func (s *MembershipService) ListTeacherSchools(ctx context.Context, teacherID string) ([]models.TeacherSchoolMembership, error) {
	if teacherID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id is required")
	}
	memberships, err := s.repo.ListTeacherSchools(ctx, teacherID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list teacher memberships")
	}
	return memberships, nil
}

// RemoveTeacherFromSchool deletes a teacher membership by id.
func (s *MembershipService) RemoveTeacherFromSchool(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "membership id is required")
	}
	if err := s.repo.DeleteTeacherSchool(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete teacher membership")
	}
	return nil
}

// AddManagerToSchool creates a manager membership. Duplicate pairs conflict.
func (s *MembershipService) AddManagerToSchool(ctx context.Context, req CreateMembershipRequest) (*models.ManagerSchoolMembership, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid membership payload")
	}
	m := &models.ManagerSchoolMembership{ManagerID: req.UserID, SchoolID: req.SchoolID}
	if err := s.repo.CreateManagerSchool(ctx, m); err != nil {
		if appErrors.HasCode(err, appErrors.ErrConflict) {
			return nil, err
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create manager membership")
	}
	return m, nil
}

// ListManagerSchools returns a manager's school memberships.
func (s *MembershipService) ListManagerSchools(ctx context.Context, managerID string) ([]models.ManagerSchoolMembership, error) {
	if managerID == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "manager id is required")
	}
	memberships, err := s.repo.ListManagerSchools(ctx, managerID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list manager memberships")
	}
	return memberships, nil
}

// RemoveManagerFromSchool deletes a manager membership by id.
func (s *MembershipService) RemoveManagerFromSchool(ctx context.Context, id string) error {
	if id == "" {
		return appErrors.Clone(appErrors.ErrValidation, "membership id is required")
	}
	if err := s.repo.DeleteManagerSchool(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete manager membership")
	}
	return nil
}
