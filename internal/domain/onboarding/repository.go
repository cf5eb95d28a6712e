package onboarding

import (
	"context"

	"github.com/careops/careops-server/internal/models"
)

// Counts is the snapshot feeding the live completion flags.
type Counts struct {
	Integrations       int64
	ActiveIntegrations int64
	Services           int64
	ActiveServices     int64
	InventoryItems     int64
	Forms              int64
	Staff              int64
}

type Repository interface {
	GetWorkspaceByID(
		ctx context.Context,
		id uint,
	) (*models.Workspace, error)

	UpdateWorkspace(
		ctx context.Context,
		ws *models.Workspace,
	) error

	CountsForWorkspace(
		ctx context.Context,
		workspaceID uint,
	) (Counts, error)

	UpsertIntegration(
		ctx context.Context,
		integ *models.Integration,
	) error

	CreateService(
		ctx context.Context,
		svc *models.Service,
	) error

	CreateInventoryItem(
		ctx context.Context,
		item *models.InventoryItem,
	) error

	CreateForm(
		ctx context.Context,
		form *models.Form,
	) error

	GetUserByEmail(
		ctx context.Context,
		email string,
	) (*models.User, error)

	CreateUser(
		ctx context.Context,
		user *models.User,
	) error
}
