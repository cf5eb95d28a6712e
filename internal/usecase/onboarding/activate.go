package onboarding

import (
	"context"
	"time"

	"github.com/careops/careops-server/internal/audit"
	domain "github.com/careops/careops-server/internal/domain/onboarding"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

// ActivateWorkspace flips the one-way gate. Preconditions are checked
// against live rows, not the progress counter.
type ActivateWorkspace struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewActivateWorkspace(repo domain.Repository, auditD *audit.Dispatcher) *ActivateWorkspace {
	return &ActivateWorkspace{repo: repo, audit: auditD}
}

func (uc *ActivateWorkspace) Execute(ctx context.Context, workspaceID uint) (*models.Workspace, error) {
	ws, err := uc.repo.GetWorkspaceByID(ctx, workspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	counts, err := uc.repo.CountsForWorkspace(ctx, workspaceID)
	if err != nil {
		return nil, err
	}

	if counts.ActiveIntegrations == 0 {
		return nil, httperr.ErrValidation("no communication channels configured: at least one channel (email or SMS) is required")
	}
	if counts.ActiveServices == 0 {
		return nil, httperr.ErrValidation("at least one active service is required")
	}

	now := time.Now().UTC()
	ws.IsActive = true
	ws.OnboardingStep = domain.StepActivated
	ws.ActivatedAt = &now
	if err := uc.repo.UpdateWorkspace(ctx, ws); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "workspace_activated",
		Entity:      "workspace",
		EntityID:    &ws.ID,
	})
	return ws, nil
}
