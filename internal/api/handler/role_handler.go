package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// RoleHandler exposes the role store.
type RoleHandler struct {
	service ports.RoleService
}

func NewRoleHandler(service ports.RoleService) *RoleHandler {
	return &RoleHandler{service: service}
}

type setRoleRequest struct {
	Role string `json:"role"`
}

type roleResponse struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Me handles GET /v1/me/role.
//
// @Summary      Get the caller's role
// @Tags         roles
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  roleResponse
// @Failure      401  {object}  errorDoc
// @Router       /v1/me/role [get]
func (h *RoleHandler) Me(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	role, err := h.service.GetRole(c.Request().Context(), identity.UserID)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, roleResponse{UserID: identity.UserID, Role: role})
}

// Set handles PUT /v1/users/:id/role.
//
// @Summary      Assign a role (admin only)
// @Tags         roles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Target user id"
// @Param        body  body      setRoleRequest  true  "New role"
// @Success      200   {object}  domain.RoleAssignment
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Router       /v1/users/{id}/role [put]
func (h *RoleHandler) Set(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req setRoleRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	assignment, err := h.service.SetRole(c.Request().Context(), identity, c.Param("id"), req.Role)
	if err != nil {
		return err
	}

	metrics.RoleAssignmentsTotal.WithLabelValues(string(assignment.Role)).Inc()
	return respond(c, http.StatusOK, assignment)
}
