package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/schoolops/timetable-api/internal/service"
	appErrors "github.com/schoolops/timetable-api/pkg/errors"
	"github.com/schoolops/timetable-api/pkg/response"
)

// MembershipHandler manages teacher and manager school membership endpoints.
type MembershipHandler struct {
	service *service.MembershipService
}

// NewMembershipHandler constructs handler.
func NewMembershipHandler(svc *service.MembershipService) *MembershipHandler {
	return &MembershipHandler{service: svc}
}

// AddTeacher godoc
// @Summary Link a teacher to a school
// @Tags Memberships
// @Accept json
// @Produce json
// @Param payload body service.CreateMembershipRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /memberships/teachers [post]
func (h *MembershipHandler) AddTeacher(c *gin.Context) {
	var req service.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.service.AddTeacherToSchool(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}

// ListTeacherSchools godoc
// @Summary List a teacher's school memberships
// @Tags Memberships
// @Produce json
// @Param id path string true "Teacher ID"
// @Success 200 {object} response.Envelope
// @Router /memberships/teachers/{id} [get]
func (h *MembershipHandler) ListTeacherSchools(c *gin.Context) {
	memberships, err := h.service.ListTeacherSchools(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memberships, nil)
}

// RemoveTeacher godoc
// @Summary Remove a teacher membership
// @Tags Memberships
// @Produce json
// @Param id path string true "Membership ID"
// @Success 204
// @Router /memberships/teachers/{id} [delete]
func (h *MembershipHandler) RemoveTeacher(c *gin.Context) {
	if err := h.service.RemoveTeacherFromSchool(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// AddManager godoc
// @Summary Link a manager to a school
// @Tags Memberships
// @Accept json
// @Produce json
// @Param payload body service.CreateMembershipRequest true "Membership payload"
// @Success 201 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /memberships/managers [post]
func (h *MembershipHandler) AddManager(c *gin.Context) {
	var req service.CreateMembershipRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	membership, err := h.service.AddManagerToSchool(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, membership)
}

// ListManagerSchools godoc
// @Summary List a manager's school memberships
// @Tags Memberships
// @Produce json
// @Param id path string true "Manager ID"
// @Success 200 {object} response.Envelope
// @Router /memberships/managers/{id} [get]
func (h *MembershipHandler) ListManagerSchools(c *gin.Context) {
	memberships, err := h.service.ListManagerSchools(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, memberships, nil)
}

// RemoveManager godoc
// @Summary Remove a manager membership
// @Tags Memberships
// @Produce json
// @Param id path string true "Membership ID"
// @Success 204
// @Router /memberships/managers/{id} [delete]
func (h *MembershipHandler) RemoveManager(c *gin.Context) {
	if err := h.service.RemoveManagerFromSchool(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
