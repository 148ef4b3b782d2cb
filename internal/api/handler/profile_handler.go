package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/core/domain"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// ProfileHandler handles profiles, skills, and the alumni directory.
type ProfileHandler struct {
	service ports.ProfileService
}

func NewProfileHandler(service ports.ProfileService) *ProfileHandler {
	return &ProfileHandler{service: service}
}

type profilePatchRequest struct {
	Name          *string `json:"name" validate:"omitempty,max=100"`
	Bio           *string `json:"bio" validate:"omitempty,max=2000"`
	Title         *string `json:"title" validate:"omitempty,max=200"`
	GithubURL     *string `json:"github_url" validate:"omitempty,url"`
	LinkedinURL   *string `json:"linkedin_url" validate:"omitempty,url"`
	ProfilePicURL *string `json:"profile_pic_url" validate:"omitempty,url"`
}

type skillRequest struct {
	SkillName string `json:"skill_name" validate:"max=50"`
}

type profileResponse struct {
	*domain.Profile
	Role   domain.Role     `json:"role"`
	Skills []*domain.Skill `json:"skills"`
}

type joinedCommunityResponse struct {
	*domain.Community
	JoinedAt time.Time `json:"joined_at"`
}

type fullProfileResponse struct {
	profileResponse
	Communities  []joinedCommunityResponse `json:"communities"`
	Referrals    []*domain.Referral        `json:"referrals,omitempty"`
	Applications []*domain.Application     `json:"applications,omitempty"`
}

type alumnusResponse struct {
	*domain.Profile
	Skills []string `json:"skills"`
}

func toProfileResponse(v *ports.ProfileView) profileResponse {
	skills := v.Skills
	if skills == nil {
		skills = []*domain.Skill{}
	}
	return profileResponse{Profile: v.Profile, Role: v.Role, Skills: skills}
}

// Get handles GET /v1/profiles/me and GET /v1/profiles/:id.
//
// @Summary      Public profile with role and skills
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id, or me"
// @Success      200  {object}  profileResponse
// @Failure      404  {object}  errorDoc
// @Router       /v1/profiles/{id} [get]
func (h *ProfileHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	view, err := h.service.GetProfile(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, toProfileResponse(view))
}

// Full handles GET /v1/profiles/:id/full.
//
// @Summary      Full profile (self or admin)
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id, or me"
// @Success      200  {object}  fullProfileResponse
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/profiles/{id}/full [get]
func (h *ProfileHandler) Full(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	full, err := h.service.GetFullProfile(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}

	communities := make([]joinedCommunityResponse, 0, len(full.Communities))
	for _, jc := range full.Communities {
		communities = append(communities, joinedCommunityResponse{Community: jc.Community, JoinedAt: jc.JoinedAt})
	}
	return respond(c, http.StatusOK, fullProfileResponse{
		profileResponse: toProfileResponse(&full.ProfileView),
		Communities:     communities,
		Referrals:       full.Referrals,
		Applications:    full.Applications,
	})
}

// Update handles PUT /v1/profiles/me.
//
// @Summary      Edit the caller's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      profilePatchRequest  true  "Fields to change"
// @Success      200   {object}  domain.Profile
// @Failure      400   {object}  errorDoc
// @Router       /v1/profiles/me [put]
func (h *ProfileHandler) Update(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req profilePatchRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	profile, err := h.service.UpdateProfile(c.Request().Context(), identity, domain.ProfilePatch{
		Name:          req.Name,
		Bio:           req.Bio,
		Title:         req.Title,
		GithubURL:     req.GithubURL,
		LinkedinURL:   req.LinkedinURL,
		ProfilePicURL: req.ProfilePicURL,
	})
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, profile)
}

// AddSkill handles POST /v1/profiles/me/skills.
//
// @Summary      Add a skill to the caller's profile
// @Tags         profiles
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      skillRequest  true  "Skill"
// @Success      201   {object}  domain.Skill
// @Failure      400   {object}  errorDoc
// @Router       /v1/profiles/me/skills [post]
func (h *ProfileHandler) AddSkill(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req skillRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	skill, err := h.service.AddSkill(c.Request().Context(), identity, req.SkillName)
	if err != nil {
		return err
	}
	return respond(c, http.StatusCreated, skill)
}

// RemoveSkill handles DELETE /v1/skills/:id.
//
// @Summary      Remove an own skill
// @Tags         profiles
// @Security     BearerAuth
// @Param        id   path  string  true  "Skill id"
// @Success      204
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/skills/{id} [delete]
func (h *ProfileHandler) RemoveSkill(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	if err := h.service.RemoveSkill(c.Request().Context(), identity, c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// SearchAlumni handles GET /v1/alumni?q=.
//
// @Summary      Search alumni by name, title, bio, or skill
// @Tags         profiles
// @Produce      json
// @Security     BearerAuth
// @Param        q    query     string  false  "Search text"
// @Success      200  {array}   alumnusResponse
// @Router       /v1/alumni [get]
func (h *ProfileHandler) SearchAlumni(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	results, err := h.service.SearchAlumni(c.Request().Context(), identity, c.QueryParam("q"))
	if err != nil {
		return err
	}

	out := make([]alumnusResponse, 0, len(results))
	for _, r := range results {
		out = append(out, alumnusResponse{Profile: r.Profile, Skills: r.Skills})
	}
	return respond(c, http.StatusOK, out)
}
