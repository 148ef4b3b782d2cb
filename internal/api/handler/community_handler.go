package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// CommunityHandler handles community administration and membership.
type CommunityHandler struct {
	communities ports.CommunityService
	memberships ports.MembershipService
}

func NewCommunityHandler(communities ports.CommunityService, memberships ports.MembershipService) *CommunityHandler {
	return &CommunityHandler{communities: communities, memberships: memberships}
}

type communityRequest struct {
	Name        string `json:"name" validate:"max=100"`
	Slug        string `json:"slug" validate:"max=100"`
	Description string `json:"description" validate:"max=2000"`
}

func (r communityRequest) input() ports.CommunityInput {
	return ports.CommunityInput{Name: r.Name, Slug: r.Slug, Description: r.Description}
}

type communityStatsResponse struct {
	Community *domain.Community     `json:"community"`
	Stats     domain.CommunityStats `json:"stats"`
}

// List handles GET /v1/communities.
//
// @Summary      List communities
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Community
// @Failure      401  {object}  errorDoc
// @Router       /v1/communities [get]
func (h *CommunityHandler) List(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	communities, err := h.communities.List(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, communities)
}

// Get handles GET /v1/communities/:id. The id may also be a slug.
//
// @Summary      Get a community by id or slug
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id or slug"
// @Success      200  {object}  domain.Community
// @Failure      404  {object}  errorDoc
// @Router       /v1/communities/{id} [get]
func (h *CommunityHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	community, err := h.communities.Get(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, community)
}

// Create handles POST /v1/communities.
//
// @Summary      Create a community (admin only)
// @Tags         communities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      communityRequest  true  "Community"
// @Success      201   {object}  domain.Community
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Router       /v1/communities [post]
func (h *CommunityHandler) Create(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req communityRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	community, err := h.communities.Create(c.Request().Context(), identity, req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, community)
}

// Update handles PUT /v1/communities/:id.
//
// @Summary      Update a community (admin only)
// @Tags         communities
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string            true  "Community id"
// @Param        body  body      communityRequest  true  "Fields to change"
// @Success      200   {object}  domain.Community
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Failure      404   {object}  errorDoc
// @Router       /v1/communities/{id} [put]
func (h *CommunityHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req communityRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	community, err := h.communities.Update(c.Request().Context(), identity, c.Param("id"), req.input())
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, community)
}

// Delete handles DELETE /v1/communities/:id.
//
// @Summary      Delete a community and its content (admin only)
// @Tags         communities
// @Security     BearerAuth
// @Param        id   path  string  true  "Community id"
// @Success      204
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/communities/{id} [delete]
func (h *CommunityHandler) Delete(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.communities.Delete(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// Stats handles GET /v1/communities/:id/stats.
//
// @Summary      Community counters (admin only)
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      200  {object}  communityStatsResponse
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/communities/{id}/stats [get]
func (h *CommunityHandler) Stats(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	result, err := h.communities.Stats(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, communityStatsResponse{Community: result.Community, Stats: result.Stats})
}

// Join handles POST /v1/communities/:id/join.
//
// @Summary      Join a community
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      201  {object}  domain.Membership
// @Failure      400  {object}  errorDoc  "already_member"
// @Failure      404  {object}  errorDoc
// @Router       /v1/communities/{id}/join [post]
func (h *CommunityHandler) Join(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	membership, err := h.memberships.Join(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}

	metrics.CommunityJoinsTotal.Inc()
	return respond(c, http.StatusCreated, membership)
}

// Members handles GET /v1/communities/:id/members.
//
// @Summary      List members (members only)
// @Tags         communities
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Community id"
// @Success      200  {array}   domain.Membership
// @Failure      403  {object}  errorDoc
// @Router       /v1/communities/{id}/members [get]
func (h *CommunityHandler) Members(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	members, err := h.memberships.ListMembers(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, members)
}
