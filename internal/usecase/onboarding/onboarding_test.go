package onboarding

import (
	"context"
	"testing"

	domain "github.com/careops/careops-server/internal/domain/onboarding"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type fakeRepo struct {
	workspace    *models.Workspace
	integrations []*models.Integration
	services     []*models.Service
	inventory    []*models.InventoryItem
	forms        []*models.Form
	users        []*models.User
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workspace: &models.Workspace{
			ID:       1,
			Name:     "New Workspace",
			Slug:     "new-workspace",
			Timezone: "UTC",
		},
	}
}

func (f *fakeRepo) GetWorkspaceByID(_ context.Context, id uint) (*models.Workspace, error) {
	if f.workspace == nil || f.workspace.ID != id {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return f.workspace, nil
}

func (f *fakeRepo) UpdateWorkspace(_ context.Context, ws *models.Workspace) error {
	f.workspace = ws
	return nil
}

func (f *fakeRepo) CountsForWorkspace(_ context.Context, _ uint) (domain.Counts, error) {
	c := domain.Counts{
		Integrations:   int64(len(f.integrations)),
		Services:       int64(len(f.services)),
		InventoryItems: int64(len(f.inventory)),
		Forms:          int64(len(f.forms)),
	}
	for _, i := range f.integrations {
		if i.IsActive {
			c.ActiveIntegrations++
		}
	}
	for _, s := range f.services {
		if s.IsActive {
			c.ActiveServices++
		}
	}
	for _, u := range f.users {
		if u.Role == "staff" {
			c.Staff++
		}
	}
	return c, nil
}

func (f *fakeRepo) UpsertIntegration(_ context.Context, integ *models.Integration) error {
	for i, existing := range f.integrations {
		if existing.Type == integ.Type {
			f.integrations[i] = integ
			return nil
		}
	}
	f.integrations = append(f.integrations, integ)
	return nil
}

func (f *fakeRepo) CreateService(_ context.Context, svc *models.Service) error {
	svc.ID = uint(len(f.services) + 1)
	f.services = append(f.services, svc)
	return nil
}

func (f *fakeRepo) CreateInventoryItem(_ context.Context, item *models.InventoryItem) error {
	f.inventory = append(f.inventory, item)
	return nil
}

func (f *fakeRepo) CreateForm(_ context.Context, form *models.Form) error {
	f.forms = append(f.forms, form)
	return nil
}

func (f *fakeRepo) GetUserByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) CreateUser(_ context.Context, user *models.User) error {
	f.users = append(f.users, user)
	return nil
}

var _ domain.Repository = (*fakeRepo)(nil) // Compile-time check

// --------------------------------------------------
// Progress counter
// --------------------------------------------------

func TestAdvanceNeverRegresses(t *testing.T) {
	if got := domain.Advance(0, 1); got != 1 {
		t.Errorf("Advance(0,1) = %d, want 1", got)
	}
	if got := domain.Advance(5, 2); got != 5 {
		t.Errorf("Advance(5,2) = %d, want 5: counter is a high-water mark", got)
	}
	if got := domain.Advance(3, 3); got != 3 {
		t.Errorf("Advance(3,3) = %d, want 3", got)
	}
}

func TestStepsAdvanceCounterMonotonically(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)
	ctx := context.Background()

	if _, err := uc.SetupService(ctx, 1, ServiceInput{
		Name:        "Consultation",
		DurationMin: 30,
	}); err != nil {
		t.Fatalf("service step failed: %v", err)
	}
	if repo.workspace.OnboardingStep != domain.StepServices {
		t.Fatalf("counter = %d, want %d", repo.workspace.OnboardingStep, domain.StepServices)
	}

	// Going back to an earlier step must not lower the counter.
	if _, err := uc.SetupProfile(ctx, 1, ProfileInput{
		BusinessName: "Harbor Physio",
		Address:      "12 Pier Rd",
		Timezone:     "UTC",
		ContactEmail: "hello@harborphysio.com",
	}); err != nil {
		t.Fatalf("profile step failed: %v", err)
	}
	if repo.workspace.OnboardingStep != domain.StepServices {
		t.Errorf("counter regressed to %d after redoing step 1", repo.workspace.OnboardingStep)
	}
}

// --------------------------------------------------
// Step validation
// --------------------------------------------------

func TestSetupProfileValidation(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		in   ProfileInput
	}{
		{"missing name", ProfileInput{ContactEmail: "a@b.com", Timezone: "UTC"}},
		{"bad email", ProfileInput{BusinessName: "X", ContactEmail: "nope", Timezone: "UTC"}},
		{"bad timezone", ProfileInput{BusinessName: "X", ContactEmail: "a@b.com", Timezone: "Mars/Olympus"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := uc.SetupProfile(ctx, 1, tc.in); !httperr.IsBusiness(err, httperr.CodeValidation) {
				t.Errorf("got %v, want validation error", err)
			}
		})
	}
}

func TestSetupIntegrationsRequiresChannel(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)

	_, err := uc.SetupIntegrations(context.Background(), 1, IntegrationsInput{})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error with no channels", err)
	}
}

func TestSetupIntegrationsUpsertsPerType(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)
	ctx := context.Background()

	email := func(provider string) IntegrationsInput {
		return IntegrationsInput{Email: &EmailChannelInput{
			Provider:  provider,
			APIKey:    "key",
			FromEmail: "noreply@harborphysio.com",
		}}
	}

	if _, err := uc.SetupIntegrations(ctx, 1, email("sendgrid")); err != nil {
		t.Fatalf("first integrations step failed: %v", err)
	}
	if _, err := uc.SetupIntegrations(ctx, 1, email("mailgun")); err != nil {
		t.Fatalf("second integrations step failed: %v", err)
	}

	// Re-running the step replaces the channel, it does not stack.
	if len(repo.integrations) != 1 {
		t.Fatalf("got %d email integrations, want 1", len(repo.integrations))
	}
	if repo.integrations[0].Provider != "mailgun" {
		t.Errorf("provider = %q, want mailgun", repo.integrations[0].Provider)
	}
}

func TestSetupServiceDurationBounds(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)
	ctx := context.Background()

	if _, err := uc.SetupService(ctx, 1, ServiceInput{Name: "Too Short", DurationMin: 10}); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Errorf("10 min service: got %v, want validation error", err)
	}
	if _, err := uc.SetupService(ctx, 1, ServiceInput{Name: "Too Long", DurationMin: 500}); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Errorf("500 min service: got %v, want validation error", err)
	}
}

func TestSetupServiceDefaultsAvailability(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)

	svc, err := uc.SetupService(context.Background(), 1, ServiceInput{
		Name:        "Consultation",
		DurationMin: 45,
	})
	if err != nil {
		t.Fatalf("service step failed: %v", err)
	}
	if len(svc.Availability) != 7 {
		t.Errorf("availability has %d entries, want the full default week", len(svc.Availability))
	}
	if !svc.IsActive {
		t.Error("new service should start active")
	}
}

func TestSetupServiceRejectsDuplicateWeekday(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)

	_, err := uc.SetupService(context.Background(), 1, ServiceInput{
		Name:        "Bad Template",
		DurationMin: 30,
		Availability: models.WeeklyTemplate{
			{Day: 1, Enabled: true, Slots: []string{"09:00"}},
			{Day: 1, Enabled: true, Slots: []string{"10:00"}},
		},
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error for duplicate weekday", err)
	}
}

func TestInviteTeamMemberRejectsExistingEmail(t *testing.T) {
	repo := newFakeRepo()
	uc := NewSteps(repo, nil)
	ctx := context.Background()

	if _, err := uc.InviteTeamMember(ctx, 1, TeamInput{
		Email:    "staff@harborphysio.com",
		FullName: "Kim Osei",
	}); err != nil {
		t.Fatalf("first invite failed: %v", err)
	}

	_, err := uc.InviteTeamMember(ctx, 1, TeamInput{
		Email:    "Staff@HarborPhysio.com", // same address, different case
		FullName: "Kim Osei",
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error for duplicate email", err)
	}
}

// --------------------------------------------------
// Activation
// --------------------------------------------------

func TestActivateRequiresChannelAndService(t *testing.T) {
	repo := newFakeRepo()
	steps := NewSteps(repo, nil)
	activate := NewActivateWorkspace(repo, nil)
	ctx := context.Background()

	if _, err := activate.Execute(ctx, 1); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error with no channels", err)
	}

	if _, err := steps.SetupIntegrations(ctx, 1, IntegrationsInput{
		Email: &EmailChannelInput{Provider: "sendgrid", APIKey: "key", FromEmail: "noreply@x.com"},
	}); err != nil {
		t.Fatalf("integrations step failed: %v", err)
	}

	if _, err := activate.Execute(ctx, 1); !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error with no services", err)
	}
}

func TestActivateFlipsWorkspaceLive(t *testing.T) {
	repo := newFakeRepo()
	steps := NewSteps(repo, nil)
	activate := NewActivateWorkspace(repo, nil)
	ctx := context.Background()

	if _, err := steps.SetupIntegrations(ctx, 1, IntegrationsInput{
		Email: &EmailChannelInput{Provider: "sendgrid", APIKey: "key", FromEmail: "noreply@x.com"},
	}); err != nil {
		t.Fatalf("integrations step failed: %v", err)
	}
	if _, err := steps.SetupService(ctx, 1, ServiceInput{Name: "Consultation", DurationMin: 30}); err != nil {
		t.Fatalf("service step failed: %v", err)
	}

	ws, err := activate.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("activate failed: %v", err)
	}
	if !ws.IsActive {
		t.Error("workspace should be active")
	}
	if ws.OnboardingStep != domain.StepActivated {
		t.Errorf("counter = %d, want %d", ws.OnboardingStep, domain.StepActivated)
	}
	if ws.ActivatedAt == nil {
		t.Error("activated at not stamped")
	}
}

// --------------------------------------------------
// Status
// --------------------------------------------------

func TestStatusRecomputesFlagsFromRows(t *testing.T) {
	repo := newFakeRepo()
	steps := NewSteps(repo, nil)
	status := NewGetStatus(repo)
	ctx := context.Background()

	out, err := status.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}
	// Name is set at registration, but address and contact email are
	// not, so the profile step reads incomplete.
	if out.Progress.Steps[domain.StepProfile].Completed {
		t.Error("profile step should be incomplete before setup")
	}

	if _, err := steps.SetupProfile(ctx, 1, ProfileInput{
		BusinessName: "Harbor Physio",
		Address:      "12 Pier Rd",
		Timezone:     "UTC",
		ContactEmail: "hello@harborphysio.com",
	}); err != nil {
		t.Fatalf("profile step failed: %v", err)
	}
	if _, err := steps.SetupService(ctx, 1, ServiceInput{Name: "Consultation", DurationMin: 30}); err != nil {
		t.Fatalf("service step failed: %v", err)
	}

	out, err = status.Execute(ctx, 1)
	if err != nil {
		t.Fatalf("status failed: %v", err)
	}

	if !out.Progress.Steps[domain.StepProfile].Completed {
		t.Error("profile step should read complete")
	}
	if !out.Progress.Steps[domain.StepServices].Completed {
		t.Error("services step should read complete")
	}
	if out.Progress.Steps[domain.StepIntegrations].Completed {
		t.Error("integrations step should read incomplete")
	}
	if out.Progress.Steps[domain.StepInventory].Required {
		t.Error("inventory step must be optional")
	}
	if out.Progress.CurrentStep != domain.StepServices {
		t.Errorf("current step = %d, want %d", out.Progress.CurrentStep, domain.StepServices)
	}
}
