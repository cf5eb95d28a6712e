package repository

import (
	"context"

	"gorm.io/gorm"

	domain "github.com/careops/careops-server/internal/domain/onboarding"
	"github.com/careops/careops-server/internal/models"
)

type OnboardingGormRepository struct {
	db *gorm.DB
}

func NewOnboardingGormRepository(db *gorm.DB) *OnboardingGormRepository {
	return &OnboardingGormRepository{db: db}
}

func (r *OnboardingGormRepository) GetWorkspaceByID(
	ctx context.Context,
	id uint,
) (*models.Workspace, error) {

	var ws models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

func (r *OnboardingGormRepository) UpdateWorkspace(
	ctx context.Context,
	ws *models.Workspace,
) error {
	return r.db.WithContext(ctx).Save(ws).Error
}

func (r *OnboardingGormRepository) CountsForWorkspace(
	ctx context.Context,
	workspaceID uint,
) (domain.Counts, error) {

	var c domain.Counts
	db := r.db.WithContext(ctx)

	type countSpec struct {
		model any
		where string
		args  []any
		dest  *int64
	}

	specs := []countSpec{
		{&models.Integration{}, "workspace_id = ?", []any{workspaceID}, &c.Integrations},
		{&models.Integration{}, "workspace_id = ? AND is_active = ?", []any{workspaceID, true}, &c.ActiveIntegrations},
		{&models.Service{}, "workspace_id = ?", []any{workspaceID}, &c.Services},
		{&models.Service{}, "workspace_id = ? AND is_active = ?", []any{workspaceID, true}, &c.ActiveServices},
		{&models.InventoryItem{}, "workspace_id = ?", []any{workspaceID}, &c.InventoryItems},
		{&models.Form{}, "workspace_id = ?", []any{workspaceID}, &c.Forms},
		{&models.User{}, "workspace_id = ? AND role = ?", []any{workspaceID, "staff"}, &c.Staff},
	}

	for _, s := range specs {
		if err := db.Model(s.model).Where(s.where, s.args...).Count(s.dest).Error; err != nil {
			return domain.Counts{}, err
		}
	}

	return c, nil
}

// UpsertIntegration replaces the workspace's integration of the same
// type; there is at most one email and one SMS channel per workspace.
func (r *OnboardingGormRepository) UpsertIntegration(
	ctx context.Context,
	integ *models.Integration,
) error {

	var existing models.Integration
	err := r.db.WithContext(ctx).
		Where("workspace_id = ? AND type = ?", integ.WorkspaceID, integ.Type).
		First(&existing).Error

	if err == nil {
		integ.ID = existing.ID
		integ.CreatedAt = existing.CreatedAt
		return r.db.WithContext(ctx).Save(integ).Error
	}

	return r.db.WithContext(ctx).Create(integ).Error
}

func (r *OnboardingGormRepository) CreateService(
	ctx context.Context,
	svc *models.Service,
) error {
	return r.db.WithContext(ctx).Create(svc).Error
}

func (r *OnboardingGormRepository) CreateInventoryItem(
	ctx context.Context,
	item *models.InventoryItem,
) error {
	return r.db.WithContext(ctx).Create(item).Error
}

func (r *OnboardingGormRepository) CreateForm(
	ctx context.Context,
	form *models.Form,
) error {
	return r.db.WithContext(ctx).Create(form).Error
}

func (r *OnboardingGormRepository) GetUserByEmail(
	ctx context.Context,
	email string,
) (*models.User, error) {

	var user models.User
	if err := r.db.WithContext(ctx).
		Where("email = ?", email).
		First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *OnboardingGormRepository) CreateUser(
	ctx context.Context,
	user *models.User,
) error {
	return r.db.WithContext(ctx).Create(user).Error
}

// Compile-time check
var _ domain.Repository = (*OnboardingGormRepository)(nil)
