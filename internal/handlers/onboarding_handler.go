package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	ucOnboarding "github.com/careops/careops-server/internal/usecase/onboarding"
)

type OnboardingHandler struct {
	steps    *ucOnboarding.Steps
	activate *ucOnboarding.ActivateWorkspace
	status   *ucOnboarding.GetStatus
}

func NewOnboardingHandler(
	steps *ucOnboarding.Steps,
	activate *ucOnboarding.ActivateWorkspace,
	status *ucOnboarding.GetStatus,
) *OnboardingHandler {
	return &OnboardingHandler{
		steps:    steps,
		activate: activate,
		status:   status,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ProfileStepRequest struct {
	BusinessName string `json:"business_name" binding:"required"`
	Address      string `json:"address"`
	Timezone     string `json:"timezone" binding:"required"`
	ContactEmail string `json:"contact_email" binding:"required"`
	ContactPhone string `json:"contact_phone"`
}

type EmailChannelRequest struct {
	Provider  string `json:"provider" binding:"required"`
	APIKey    string `json:"api_key"`
	FromEmail string `json:"from_email" binding:"required"`
}

type SMSChannelRequest struct {
	Provider   string `json:"provider" binding:"required"`
	AccountSID string `json:"account_sid"`
	AuthToken  string `json:"auth_token"`
	FromNumber string `json:"from_number" binding:"required"`
}

type IntegrationsStepRequest struct {
	Email *EmailChannelRequest `json:"email"`
	SMS   *SMSChannelRequest   `json:"sms"`
}

type ServiceStepRequest struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	DurationMin  int                   `json:"duration_min" binding:"required"`
	PriceCents   int                   `json:"price_cents"`
	LocationType string                `json:"location_type"`
	Availability models.WeeklyTemplate `json:"availability"`
}

type InventoryStepRequest struct {
	Name      string `json:"name" binding:"required"`
	Quantity  int    `json:"quantity"`
	Threshold int    `json:"threshold"`
	Unit      string `json:"unit"`
	SKU       string `json:"sku"`
}

type FormStepRequest struct {
	Name        string            `json:"name" binding:"required"`
	Description string            `json:"description"`
	FormType    string            `json:"form_type"`
	Fields      models.FormFields `json:"fields" binding:"required"`
}

type TeamStepRequest struct {
	Email    string `json:"email" binding:"required,email"`
	FullName string `json:"full_name" binding:"required"`
}

// ======================================================
// STEPS
// ======================================================

func (h *OnboardingHandler) Step1Profile(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req ProfileStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ws, err := h.steps.SetupProfile(c.Request.Context(), workspaceID, ucOnboarding.ProfileInput{
		BusinessName: req.BusinessName,
		Address:      req.Address,
		Timezone:     req.Timezone,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, ws)
}

func (h *OnboardingHandler) Step2Integrations(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req IntegrationsStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	in := ucOnboarding.IntegrationsInput{}
	if req.Email != nil {
		in.Email = &ucOnboarding.EmailChannelInput{
			Provider:  req.Email.Provider,
			APIKey:    req.Email.APIKey,
			FromEmail: req.Email.FromEmail,
		}
	}
	if req.SMS != nil {
		in.SMS = &ucOnboarding.SMSChannelInput{
			Provider:   req.SMS.Provider,
			AccountSID: req.SMS.AccountSID,
			AuthToken:  req.SMS.AuthToken,
			FromNumber: req.SMS.FromNumber,
		}
	}

	ws, err := h.steps.SetupIntegrations(c.Request.Context(), workspaceID, in)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, ws)
}

func (h *OnboardingHandler) Step3Service(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req ServiceStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	svc, err := h.steps.SetupService(c.Request.Context(), workspaceID, ucOnboarding.ServiceInput{
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		PriceCents:   req.PriceCents,
		LocationType: req.LocationType,
		Availability: req.Availability,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, svc)
}

func (h *OnboardingHandler) Step4Inventory(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req InventoryStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	item, err := h.steps.SetupInventory(c.Request.Context(), workspaceID, ucOnboarding.InventoryInput{
		Name:      req.Name,
		Quantity:  req.Quantity,
		Threshold: req.Threshold,
		Unit:      req.Unit,
		SKU:       req.SKU,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, item)
}

func (h *OnboardingHandler) Step5Form(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req FormStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	form, err := h.steps.SetupForm(c.Request.Context(), workspaceID, ucOnboarding.FormInput{
		Name:        req.Name,
		Description: req.Description,
		FormType:    req.FormType,
		Fields:      req.Fields,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, form)
}

func (h *OnboardingHandler) Step6Team(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req TeamStepRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	user, err := h.steps.InviteTeamMember(c.Request.Context(), workspaceID, ucOnboarding.TeamInput{
		Email:    req.Email,
		FullName: req.FullName,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.Created(c, user)
}

// ======================================================
// ACTIVATE / STATUS
// ======================================================

func (h *OnboardingHandler) Activate(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	ws, err := h.activate.Execute(c.Request.Context(), workspaceID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"status":    "success",
		"message":   "Workspace activated. Your platform is now live.",
		"workspace": ws,
	})
}

func (h *OnboardingHandler) Status(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	out, err := h.status.Execute(c.Request.Context(), workspaceID)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, out)
}
