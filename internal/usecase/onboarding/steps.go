package onboarding

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/careops/careops-server/internal/audit"
	booking "github.com/careops/careops-server/internal/domain/booking"
	domain "github.com/careops/careops-server/internal/domain/onboarding"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/timezone"
	"github.com/careops/careops-server/internal/validators"
)

// Steps is the setup sequence executor. Every completed step advances
// the workspace's high-water counter via domain.Advance; nothing ever
// lowers it.
type Steps struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewSteps(repo domain.Repository, auditD *audit.Dispatcher) *Steps {
	return &Steps{repo: repo, audit: auditD}
}

func (uc *Steps) advance(ctx context.Context, ws *models.Workspace, step int) error {
	ws.OnboardingStep = domain.Advance(ws.OnboardingStep, step)
	return uc.repo.UpdateWorkspace(ctx, ws)
}

// --------------------------------------------------
// Step 1: workspace profile
// --------------------------------------------------

type ProfileInput struct {
	BusinessName string
	Address      string
	Timezone     string
	ContactEmail string
	ContactPhone string
}

func (uc *Steps) SetupProfile(ctx context.Context, workspaceID uint, in ProfileInput) (*models.Workspace, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if in.BusinessName == "" {
		return nil, httperr.ErrValidation("business name is required")
	}
	if !validators.IsEmailValid(in.ContactEmail) {
		return nil, httperr.ErrValidation("invalid contact email")
	}
	if !timezone.IsValid(in.Timezone) {
		return nil, httperr.ErrValidation("invalid timezone")
	}

	ws.Name = in.BusinessName
	ws.Address = in.Address
	ws.Timezone = in.Timezone
	ws.ContactEmail = in.ContactEmail
	ws.ContactPhone = in.ContactPhone

	if err := uc.advance(ctx, ws, domain.StepProfile); err != nil {
		return nil, err
	}
	return ws, nil
}

// --------------------------------------------------
// Step 2: communication channels
// --------------------------------------------------

type EmailChannelInput struct {
	Provider  string
	APIKey    string
	FromEmail string
}

type SMSChannelInput struct {
	Provider   string
	AccountSID string
	AuthToken  string
	FromNumber string
}

type IntegrationsInput struct {
	Email *EmailChannelInput
	SMS   *SMSChannelInput
}

func (uc *Steps) SetupIntegrations(ctx context.Context, workspaceID uint, in IntegrationsInput) (*models.Workspace, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if in.Email == nil && in.SMS == nil {
		return nil, httperr.ErrValidation("at least one communication channel is required")
	}

	if in.Email != nil {
		if !validators.IsEmailValid(in.Email.FromEmail) {
			return nil, httperr.ErrValidation("invalid from email")
		}
		integ := &models.Integration{
			WorkspaceID: workspaceID,
			Type:        models.IntegrationTypeEmail,
			Provider:    in.Email.Provider,
			Name:        "Email - " + in.Email.Provider,
			Credentials: models.JSONMap{
				"api_key":    in.Email.APIKey,
				"from_email": in.Email.FromEmail,
			},
			IsActive: true,
		}
		if err := uc.repo.UpsertIntegration(ctx, integ); err != nil {
			return nil, err
		}
	}

	if in.SMS != nil {
		integ := &models.Integration{
			WorkspaceID: workspaceID,
			Type:        models.IntegrationTypeSMS,
			Provider:    in.SMS.Provider,
			Name:        "SMS - " + in.SMS.Provider,
			Credentials: models.JSONMap{
				"account_sid": in.SMS.AccountSID,
				"auth_token":  in.SMS.AuthToken,
				"from_number": in.SMS.FromNumber,
			},
			IsActive: true,
		}
		if err := uc.repo.UpsertIntegration(ctx, integ); err != nil {
			return nil, err
		}
	}

	if err := uc.advance(ctx, ws, domain.StepIntegrations); err != nil {
		return nil, err
	}
	return ws, nil
}

// --------------------------------------------------
// Step 3: first bookable service
// --------------------------------------------------

type ServiceInput struct {
	Name         string
	Description  string
	DurationMin  int
	PriceCents   int
	LocationType string
	Availability models.WeeklyTemplate
}

func (uc *Steps) SetupService(ctx context.Context, workspaceID uint, in ServiceInput) (*models.Service, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if in.DurationMin < 15 {
		return nil, httperr.ErrValidation("duration must be at least 15 minutes")
	}
	if in.DurationMin > 480 {
		return nil, httperr.ErrValidation("duration cannot exceed 8 hours")
	}
	if err := booking.ValidateTemplate(in.Availability); err != nil {
		return nil, err
	}

	availability := in.Availability
	if len(availability) == 0 {
		availability = models.DefaultAvailability()
	}

	svc := &models.Service{
		WorkspaceID:  workspaceID,
		Name:         in.Name,
		Description:  in.Description,
		DurationMin:  in.DurationMin,
		PriceCents:   in.PriceCents,
		LocationType: in.LocationType,
		Availability: availability,
		IsActive:     true,
	}
	if err := uc.repo.CreateService(ctx, svc); err != nil {
		return nil, err
	}

	if err := uc.advance(ctx, ws, domain.StepServices); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "service_created",
		Entity:      "service",
		EntityID:    &svc.ID,
	})
	return svc, nil
}

// --------------------------------------------------
// Step 4: inventory (optional)
// --------------------------------------------------

type InventoryInput struct {
	Name      string
	Quantity  int
	Threshold int
	Unit      string
	SKU       string
}

func (uc *Steps) SetupInventory(ctx context.Context, workspaceID uint, in InventoryInput) (*models.InventoryItem, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	sku := in.SKU
	if sku == "" {
		sku = fmt.Sprintf("INV-%s-%04d", time.Now().Format("20060102"), workspaceID)
	}

	item := &models.InventoryItem{
		WorkspaceID: workspaceID,
		Name:        in.Name,
		SKU:         sku,
		Quantity:    in.Quantity,
		Threshold:   in.Threshold,
		Unit:        in.Unit,
	}
	if err := uc.repo.CreateInventoryItem(ctx, item); err != nil {
		return nil, err
	}

	if err := uc.advance(ctx, ws, domain.StepInventory); err != nil {
		return nil, err
	}
	return item, nil
}

// --------------------------------------------------
// Step 5: forms (optional)
// --------------------------------------------------

type FormInput struct {
	Name        string
	Description string
	FormType    string
	Fields      models.FormFields
}

func (uc *Steps) SetupForm(ctx context.Context, workspaceID uint, in FormInput) (*models.Form, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	form := &models.Form{
		WorkspaceID: workspaceID,
		Name:        in.Name,
		Description: in.Description,
		FormType:    in.FormType,
		Fields:      in.Fields,
		IsActive:    true,
	}
	if err := uc.repo.CreateForm(ctx, form); err != nil {
		return nil, err
	}

	if err := uc.advance(ctx, ws, domain.StepForms); err != nil {
		return nil, err
	}
	return form, nil
}

// --------------------------------------------------
// Step 6: team invite (optional)
// --------------------------------------------------

type TeamInput struct {
	Email    string
	FullName string
}

func (uc *Steps) InviteTeamMember(ctx context.Context, workspaceID uint, in TeamInput) (*models.User, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !validators.IsEmailValid(in.Email) {
		return nil, httperr.ErrValidation("invalid email")
	}
	if existing, err := uc.repo.GetUserByEmail(ctx, strings.ToLower(in.Email)); err == nil && existing != nil {
		return nil, httperr.ErrValidation("user already exists")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(tempPassword()), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		WorkspaceID:  workspaceID,
		FullName:     in.FullName,
		Email:        strings.ToLower(in.Email),
		PasswordHash: string(hash),
		Role:         "staff",
		IsActive:     true,
	}
	if err := uc.repo.CreateUser(ctx, user); err != nil {
		return nil, err
	}

	if err := uc.advance(ctx, ws, domain.StepTeam); err != nil {
		return nil, err
	}
	return user, nil
}

func tempPassword() string {
	b := make([]byte, 12)
	_, _ = rand.Read(b)
	return hex.EncodeToString(b)
}
