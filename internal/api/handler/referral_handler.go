package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/campuslink/campus-api/internal/api/metrics"
	"github.com/campuslink/campus-api/internal/core/ports"
)

// ReferralHandler exposes the referral workflow.
type ReferralHandler struct {
	service ports.ReferralService
}

func NewReferralHandler(service ports.ReferralService) *ReferralHandler {
	return &ReferralHandler{service: service}
}

type referralRequest struct {
	JobTitle     string `json:"job_title" validate:"max=200"`
	Company      string `json:"company" validate:"max=200"`
	Location     string `json:"location" validate:"max=200"`
	Description  string `json:"description" validate:"max=10000"`
	ReferralLink string `json:"referral_link" validate:"omitempty,url"`
}

type applyRequest struct {
	Message   string `json:"message" validate:"max=5000"`
	ResumeURL string `json:"resume_url" validate:"omitempty,url"`
}

type decisionRequest struct {
	Status string `json:"status"`
}

// ListOpen handles GET /v1/referrals.
//
// @Summary      List open referrals
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Referral
// @Failure      401  {object}  errorDoc
// @Router       /v1/referrals [get]
func (h *ReferralHandler) ListOpen(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	referrals, err := h.service.ListOpen(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, referrals)
}

// Post handles POST /v1/referrals.
//
// @Summary      Post a referral (alumni only)
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      referralRequest  true  "Referral"
// @Success      201   {object}  domain.Referral
// @Failure      400   {object}  errorDoc
// @Failure      403   {object}  errorDoc
// @Router       /v1/referrals [post]
func (h *ReferralHandler) Post(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req referralRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	referral, err := h.service.PostReferral(c.Request().Context(), identity, ports.ReferralInput{
		JobTitle:     req.JobTitle,
		Company:      req.Company,
		Location:     req.Location,
		Description:  req.Description,
		ReferralLink: req.ReferralLink,
	})
	if err != nil {
		return err
	}

	metrics.ReferralsPostedTotal.Inc()
	return respond(c, http.StatusCreated, referral)
}

// Mine handles GET /v1/referrals/mine.
//
// @Summary      Referrals posted by the caller
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Referral
// @Router       /v1/referrals/mine [get]
func (h *ReferralHandler) Mine(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	referrals, err := h.service.ListMine(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, referrals)
}

// Get handles GET /v1/referrals/:id.
//
// @Summary      Get a referral
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral id"
// @Success      200  {object}  domain.Referral
// @Failure      404  {object}  errorDoc
// @Router       /v1/referrals/{id} [get]
func (h *ReferralHandler) Get(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	referral, err := h.service.GetReferral(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, referral)
}

// Close handles POST /v1/referrals/:id/close.
//
// @Summary      Close an own referral
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral id"
// @Success      200  {object}  domain.Referral
// @Failure      400  {object}  errorDoc  "invalid_state_transition"
// @Failure      403  {object}  errorDoc
// @Router       /v1/referrals/{id}/close [post]
func (h *ReferralHandler) Close(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	referral, err := h.service.CloseReferral(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, referral)
}

// Apply handles POST /v1/referrals/:id/applications.
//
// @Summary      Apply for a referral (students only)
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string        true  "Referral id"
// @Param        body  body      applyRequest  true  "Application"
// @Success      201   {object}  domain.Application
// @Failure      400   {object}  errorDoc  "duplicate_application, referral_closed"
// @Failure      403   {object}  errorDoc
// @Failure      404   {object}  errorDoc
// @Router       /v1/referrals/{id}/applications [post]
func (h *ReferralHandler) Apply(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req applyRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.Apply(c.Request().Context(), identity, ports.ApplyInput{
		ReferralID: c.Param("id"),
		Message:    req.Message,
		ResumeURL:  req.ResumeURL,
	})
	if err != nil {
		return err
	}

	metrics.ApplicationsTotal.WithLabelValues(string(app.Status)).Inc()
	return respond(c, http.StatusCreated, app)
}

// Applications handles GET /v1/referrals/:id/applications.
//
// @Summary      Applications for an own referral
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Referral id"
// @Success      200  {array}   domain.Application
// @Failure      403  {object}  errorDoc
// @Failure      404  {object}  errorDoc
// @Router       /v1/referrals/{id}/applications [get]
func (h *ReferralHandler) Applications(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListApplications(c.Request().Context(), identity, c.Param("id"))
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, apps)
}

// MyApplications handles GET /v1/applications/mine.
//
// @Summary      Applications submitted by the caller
// @Tags         referrals
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Application
// @Router       /v1/applications/mine [get]
func (h *ReferralHandler) MyApplications(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	apps, err := h.service.ListMyApplications(c.Request().Context(), identity)
	if err != nil {
		return err
	}
	return respond(c, http.StatusOK, apps)
}

// Decide handles PUT /v1/applications/:id/status.
//
// @Summary      Accept or reject an application (referral owner only)
// @Tags         referrals
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string           true  "Application id"
// @Param        body  body      decisionRequest  true  "accepted or rejected"
// @Success      200   {object}  domain.Application
// @Failure      400   {object}  errorDoc  "invalid_status, invalid_state_transition"
// @Failure      403   {object}  errorDoc
// @Failure      404   {object}  errorDoc
// @Router       /v1/applications/{id}/status [put]
func (h *ReferralHandler) Decide(c echo.Context) error {
	identity, err := ctxIdentity(c)
	if err != nil {
		return err
	}
	var req decisionRequest
	if err := bind(c, &req); err != nil {
		return err
	}

	app, err := h.service.DecideApplication(c.Request().Context(), identity, c.Param("id"), req.Status)
	if err != nil {
		return err
	}

	metrics.ApplicationsTotal.WithLabelValues(string(app.Status)).Inc()
	return respond(c, http.StatusOK, app)
}
