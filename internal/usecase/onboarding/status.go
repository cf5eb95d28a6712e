package onboarding

import (
	"context"
	"time"

	domain "github.com/careops/careops-server/internal/domain/onboarding"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

// GetStatus recomputes the per-step completion flags from row counts on
// every call. The stored counter is reported as-is alongside them.
type GetStatus struct {
	repo domain.Repository
}

func NewGetStatus(repo domain.Repository) *GetStatus {
	return &GetStatus{repo: repo}
}

type StatusOutput struct {
	Progress  domain.Progress   `json:"progress"`
	Workspace *models.Workspace `json:"workspace"`
}

func (uc *GetStatus) Execute(ctx context.Context, workspaceID uint) (*StatusOutput, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	counts, err := uc.repo.CountsForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	var activatedAt *string
	if ws.ActivatedAt != nil {
		s := ws.ActivatedAt.Format(time.RFC3339)
		activatedAt = &s
	}

	progress := domain.Progress{
		CurrentStep: ws.OnboardingStep,
		IsActive:    ws.IsActive,
		ActivatedAt: activatedAt,
		Steps: map[int]domain.StepState{
			domain.StepProfile: {
				Completed: ws.Name != "" && ws.Address != "" && ws.ContactEmail != "",
				Required:  true,
			},
			domain.StepIntegrations: {Completed: counts.Integrations > 0, Required: true},
			domain.StepServices:     {Completed: counts.Services > 0, Required: true},
			domain.StepInventory:    {Completed: counts.InventoryItems > 0, Required: false},
			domain.StepForms:        {Completed: counts.Forms > 0, Required: false},
			domain.StepTeam:         {Completed: counts.Staff > 0, Required: false},
		},
	}

	return &StatusOutput{Progress: progress, Workspace: ws}, nil
}
