package booking

import (
	"context"
	"testing"
	"time"

	"github.com/careops/careops-server/internal/automation"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

// sinkSpy records dispatched events in order.
type sinkSpy struct {
	events []automation.Event
}

func (s *sinkSpy) Dispatch(ev automation.Event) {
	s.events = append(s.events, ev)
}

func (s *sinkSpy) count(typ automation.EventType) int {
	n := 0
	for _, ev := range s.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

// fakeRepo is an in-memory domain.Repository. Conflict checks mirror
// the real query: active statuses only, half-open overlap, optional
// self-exclusion.
type fakeRepo struct {
	workspaces map[uint]*models.Workspace
	services   map[uint]*models.Service
	contacts   map[uint]*models.Contact
	bookings   []*models.Booking

	nextBookingID uint
	nextContactID uint
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{
		workspaces:    make(map[uint]*models.Workspace),
		services:      make(map[uint]*models.Service),
		contacts:      make(map[uint]*models.Contact),
		nextBookingID: 1,
		nextContactID: 100,
	}
}

func (f *fakeRepo) GetWorkspaceByID(_ context.Context, id uint) (*models.Workspace, error) {
	ws, ok := f.workspaces[id]
	if !ok {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return ws, nil
}

func (f *fakeRepo) GetService(_ context.Context, workspaceID, serviceID uint) (*models.Service, error) {
	svc, ok := f.services[serviceID]
	if !ok || svc.WorkspaceID != workspaceID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return svc, nil
}

func (f *fakeRepo) GetContact(_ context.Context, workspaceID, contactID uint) (*models.Contact, error) {
	ct, ok := f.contacts[contactID]
	if !ok || ct.WorkspaceID != workspaceID {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}
	return ct, nil
}

func (f *fakeRepo) GetOrCreateContact(_ context.Context, workspaceID uint, name, email, phone, source string) (*models.Contact, error) {
	if email == "" && phone == "" {
		return nil, httperr.ErrValidation("email or phone is required")
	}
	for _, ct := range f.contacts {
		if ct.WorkspaceID != workspaceID {
			continue
		}
		if (email != "" && ct.Email == email) || (email == "" && phone != "" && ct.Phone == phone) {
			return ct, nil
		}
	}
	ct := &models.Contact{
		ID:          f.nextContactID,
		WorkspaceID: workspaceID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		Source:      source,
	}
	f.nextContactID++
	f.contacts[ct.ID] = ct
	return ct, nil
}

func (f *fakeRepo) hasOverlap(workspaceID, serviceID uint, start, end time.Time, excludeID uint) bool {
	for _, b := range f.bookings {
		if b.WorkspaceID != workspaceID {
			continue
		}
		if b.ServiceID == nil || *b.ServiceID != serviceID {
			continue
		}
		if excludeID != 0 && b.ID == excludeID {
			continue
		}
		active := false
		for _, s := range domain.ActiveStatuses() {
			if b.Status == s {
				active = true
				break
			}
		}
		if !active {
			continue
		}
		if domain.Overlaps(start, end, b.StartTime, b.EndTime) {
			return true
		}
	}
	return false
}

func (f *fakeRepo) CreateConflictFree(_ context.Context, b *models.Booking) error {
	if b.ServiceID != nil &&
		f.hasOverlap(b.WorkspaceID, *b.ServiceID, b.StartTime, b.EndTime, 0) {
		return httperr.ErrBusiness(httperr.CodeTimeConflict)
	}
	b.ID = f.nextBookingID
	f.nextBookingID++
	f.bookings = append(f.bookings, b)
	return nil
}

func (f *fakeRepo) MoveConflictFree(_ context.Context, b *models.Booking, newStart, newEnd time.Time) error {
	if b.ServiceID == nil {
		return httperr.ErrValidation("booking has no service")
	}
	if f.hasOverlap(b.WorkspaceID, *b.ServiceID, newStart, newEnd, b.ID) {
		return httperr.ErrBusiness(httperr.CodeTimeConflict)
	}
	domain.Move(b, newStart, newEnd, time.Now())
	return nil
}

func (f *fakeRepo) HasConflict(_ context.Context, workspaceID, serviceID uint, start, end time.Time, excludeBookingID uint) (bool, error) {
	return f.hasOverlap(workspaceID, serviceID, start, end, excludeBookingID), nil
}

func (f *fakeRepo) GetBooking(_ context.Context, workspaceID, bookingID uint) (*models.Booking, error) {
	for _, b := range f.bookings {
		if b.ID == bookingID && b.WorkspaceID == workspaceID {
			return b, nil
		}
	}
	return nil, httperr.ErrBusiness(httperr.CodeNotFound)
}

func (f *fakeRepo) UpdateBooking(_ context.Context, b *models.Booking) error {
	return nil
}

func (f *fakeRepo) ListBookings(_ context.Context, workspaceID uint, filter domain.ListFilter) ([]models.Booking, int64, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.WorkspaceID == workspaceID {
			out = append(out, *b)
		}
	}
	return out, int64(len(out)), nil
}

func (f *fakeRepo) ListActiveBookingsForDay(_ context.Context, workspaceID, serviceID uint, dayStart, dayEnd time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range f.bookings {
		if b.WorkspaceID != workspaceID || b.ServiceID == nil || *b.ServiceID != serviceID {
			continue
		}
		if b.Status != string(domain.StatusPending) && b.Status != string(domain.StatusConfirmed) {
			continue
		}
		if domain.Overlaps(b.StartTime, b.EndTime, dayStart, dayEnd) {
			out = append(out, *b)
		}
	}
	return out, nil
}

var _ domain.Repository = (*fakeRepo)(nil) // Compile-time check

// --------------------------------------------------
// Fixtures
// --------------------------------------------------

func seedWorkspace(repo *fakeRepo) {
	repo.workspaces[1] = &models.Workspace{
		ID:       1,
		Name:     "Harbor Physio",
		Slug:     "harbor-physio",
		Timezone: "UTC",
		IsActive: true,
	}
	repo.services[10] = &models.Service{
		ID:          10,
		WorkspaceID: 1,
		Name:        "Initial Assessment",
		DurationMin: 60,
		IsActive:    true,
		Availability: models.WeeklyTemplate{
			{Day: 1, Enabled: true, Slots: []string{"09:00", "10:00", "11:00"}},
		},
	}
	repo.contacts[5] = &models.Contact{
		ID:          5,
		WorkspaceID: 1,
		Name:        "Dana Reyes",
		Email:       "dana@example.com",
	}
}

func futureAt(hour int) time.Time {
	day := time.Now().UTC().AddDate(0, 0, 7)
	return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
}

// --------------------------------------------------
// CreateBooking
// --------------------------------------------------

func TestCreateBookingStaffStartsPending(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	bk, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1,
		ServiceID:   10,
		ContactID:   5,
		StartTime:   futureAt(9),
		Origin:      OriginStaff,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bk.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, want pending for staff origin", bk.Status)
	}
	if !bk.EndTime.Equal(bk.StartTime.Add(time.Hour)) {
		t.Errorf("end time = %v, want start + service duration", bk.EndTime)
	}
}

func TestCreateBookingPublicAutoConfirms(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	bk, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID:  1,
		ServiceID:    10,
		ContactName:  "Sam Ito",
		ContactEmail: "sam@example.com",
		StartTime:    futureAt(10),
		Origin:       OriginPublic,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if bk.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want confirmed for public origin", bk.Status)
	}
	if bk.ContactID == 0 {
		t.Error("public booking should create a contact")
	}
}

func TestCreateBookingRejectsPastStart(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1,
		ServiceID:   10,
		ContactID:   5,
		StartTime:   time.Now().UTC().Add(-time.Hour),
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error for past start", err)
	}
}

func TestCreateBookingRejectsOverlap(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	start := futureAt(9)
	if _, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: start,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Overlaps the first booking halfway through.
	_, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5,
		StartTime: start.Add(30 * time.Minute),
	})
	if !httperr.IsBusiness(err, httperr.CodeTimeConflict) {
		t.Fatalf("got %v, want time conflict", err)
	}
}

func TestCreateBookingAllowsBackToBack(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	start := futureAt(9)
	if _, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: start,
	}); err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	// Starts exactly when the first one ends.
	if _, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5,
		StartTime: start.Add(time.Hour),
	}); err != nil {
		t.Fatalf("back-to-back booking rejected: %v", err)
	}
}

func TestCreateBookingIgnoresCancelledOverlap(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	cancelUC := NewCancelBooking(repo, nil)

	start := futureAt(9)
	first, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: start,
	})
	if err != nil {
		t.Fatalf("first booking failed: %v", err)
	}

	if _, err := cancelUC.Execute(context.Background(), 1, first.ID, "client request"); err != nil {
		t.Fatalf("cancel failed: %v", err)
	}

	// The cancelled booking no longer holds the slot.
	if _, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: start,
	}); err != nil {
		t.Fatalf("slot should be free after cancellation: %v", err)
	}
}

func TestCreateBookingRequiresEmailOrPhone(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1,
		ServiceID:   10,
		ContactName: "No Contact Info",
		StartTime:   futureAt(9),
	})
	if !httperr.IsBusiness(err, httperr.CodeValidation) {
		t.Fatalf("got %v, want validation error", err)
	}
}

func TestCreateBookingInactiveService(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	repo.services[10].IsActive = false
	uc := NewCreateBooking(repo, &sinkSpy{}, nil)

	_, err := uc.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("got %v, want not found for inactive service", err)
	}
}

// --------------------------------------------------
// Status changes
// --------------------------------------------------

func TestConfirmBooking(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	confirmUC := NewConfirmBooking(repo, &sinkSpy{}, nil)

	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := confirmUC.Execute(context.Background(), 1, bk.ID)
	if err != nil {
		t.Fatalf("confirm failed: %v", err)
	}
	if got.Status != string(domain.StatusConfirmed) {
		t.Errorf("status = %q, want confirmed", got.Status)
	}
}

func TestConfirmDispatchesConfirmationOnce(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)

	sink := &sinkSpy{}
	confirmUC := NewConfirmBooking(repo, sink, nil)

	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := confirmUC.Execute(context.Background(), 1, bk.ID)
	if err != nil {
		t.Fatalf("first confirm failed: %v", err)
	}
	if n := sink.count(automation.EventBookingConfirmed); n != 1 {
		t.Fatalf("dispatched %d confirmation events, want 1", n)
	}

	// The automation pipeline flips the flag after delivery.
	got.ConfirmationSent = true

	if _, err := confirmUC.Execute(context.Background(), 1, bk.ID); err != nil {
		t.Fatalf("second confirm failed: %v", err)
	}
	if n := sink.count(automation.EventBookingConfirmed); n != 1 {
		t.Errorf("dispatched %d confirmation events after re-confirm, want 1", n)
	}
}

func TestCancelBookingStampsReason(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	cancelUC := NewCancelBooking(repo, nil)

	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	got, err := cancelUC.Execute(context.Background(), 1, bk.ID, "client request")
	if err != nil {
		t.Fatalf("cancel failed: %v", err)
	}
	if got.Status != string(domain.StatusCancelled) {
		t.Errorf("status = %q, want cancelled", got.Status)
	}
	if got.CancellationReason != "client request" || got.CancelledAt == nil {
		t.Errorf("cancellation not stamped: reason=%q at=%v", got.CancellationReason, got.CancelledAt)
	}
}

func TestCompleteAndNoShow(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)

	first, _ := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	second, _ := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(11),
	})

	done, err := NewCompleteBooking(repo, nil).Execute(context.Background(), 1, first.ID)
	if err != nil {
		t.Fatalf("complete failed: %v", err)
	}
	if done.Status != string(domain.StatusCompleted) {
		t.Errorf("status = %q, want completed", done.Status)
	}

	missed, err := NewMarkNoShow(repo, nil).Execute(context.Background(), 1, second.ID)
	if err != nil {
		t.Fatalf("no-show failed: %v", err)
	}
	if missed.Status != string(domain.StatusNoShow) {
		t.Errorf("status = %q, want no_show", missed.Status)
	}
}

func TestBookingWorkspaceScoping(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)

	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// Another workspace must not see the booking.
	_, err = NewConfirmBooking(repo, &sinkSpy{}, nil).Execute(context.Background(), 2, bk.ID)
	if !httperr.IsBusiness(err, httperr.CodeNotFound) {
		t.Fatalf("got %v, want not found across workspaces", err)
	}
}

// --------------------------------------------------
// Reschedule
// --------------------------------------------------

func TestRescheduleMovesAndStamps(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	moveUC := NewRescheduleBooking(repo, nil)

	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	newStart := futureAt(14)
	got, err := moveUC.Execute(context.Background(), 1, bk.ID, newStart)
	if err != nil {
		t.Fatalf("reschedule failed: %v", err)
	}

	if !got.StartTime.Equal(newStart) {
		t.Errorf("start = %v, want %v", got.StartTime, newStart)
	}
	if !got.EndTime.Equal(newStart.Add(time.Hour)) {
		t.Errorf("end = %v, want start + duration", got.EndTime)
	}
	if got.LastModifiedReason != domain.ReasonRescheduled {
		t.Errorf("last modified reason = %q, want %q", got.LastModifiedReason, domain.ReasonRescheduled)
	}
	if got.RescheduledAt == nil {
		t.Error("rescheduled at not stamped")
	}
	if got.Status != string(domain.StatusPending) {
		t.Errorf("status = %q, moving must not change status", got.Status)
	}
}

func TestRescheduleToOwnSlotSucceeds(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	moveUC := NewRescheduleBooking(repo, nil)

	start := futureAt(9)
	bk, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: start,
	})
	if err != nil {
		t.Fatalf("create failed: %v", err)
	}

	// The booking's own row is excluded from the overlap check.
	if _, err := moveUC.Execute(context.Background(), 1, bk.ID, start); err != nil {
		t.Fatalf("rescheduling onto its own slot failed: %v", err)
	}
}

func TestRescheduleIntoOtherBookingConflicts(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	moveUC := NewRescheduleBooking(repo, nil)

	first, _ := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(9),
	})
	_ = first

	second, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: futureAt(11),
	})
	if err != nil {
		t.Fatalf("second booking failed: %v", err)
	}

	_, err = moveUC.Execute(context.Background(), 1, second.ID, futureAt(9).Add(30*time.Minute))
	if !httperr.IsBusiness(err, httperr.CodeTimeConflict) {
		t.Fatalf("got %v, want time conflict", err)
	}
}

// --------------------------------------------------
// Availability
// --------------------------------------------------

func TestGetAvailabilityExcludesBookedSlots(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	createUC := NewCreateBooking(repo, &sinkSpy{}, nil)
	availUC := NewGetAvailability(repo)

	// Next Monday from a week out, so the date lands on a template day.
	day := time.Now().UTC().AddDate(0, 0, 7)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	at := func(hour int) time.Time {
		return time.Date(day.Year(), day.Month(), day.Day(), hour, 0, 0, 0, time.UTC)
	}

	if _, err := createUC.Execute(context.Background(), CreateBookingInput{
		WorkspaceID: 1, ServiceID: 10, ContactID: 5, StartTime: at(10),
	}); err != nil {
		t.Fatalf("create failed: %v", err)
	}

	out, err := availUC.Execute(context.Background(), AvailabilityInput{
		WorkspaceID: 1,
		ServiceID:   10,
		Date:        day,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}

	if out.Unavailable {
		t.Fatal("Monday should be available")
	}
	want := []string{"09:00", "11:00"}
	if len(out.AvailableSlots) != len(want) {
		t.Fatalf("slots = %v, want %v", out.AvailableSlots, want)
	}
	for i := range want {
		if out.AvailableSlots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", out.AvailableSlots, want)
		}
	}
}

func TestGetAvailabilitySeesBookingSpanningMidnight(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	availUC := NewGetAvailability(repo)

	day := time.Now().UTC().AddDate(0, 0, 7)
	for day.Weekday() != time.Monday {
		day = day.AddDate(0, 0, 1)
	}
	monday := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)

	// Runs from Sunday evening into Monday morning. It starts outside
	// the requested day but still occupies the 09:00 slot.
	svcID := uint(10)
	repo.bookings = append(repo.bookings, &models.Booking{
		ID:          99,
		WorkspaceID: 1,
		ServiceID:   &svcID,
		ContactID:   5,
		Status:      string(domain.StatusConfirmed),
		StartTime:   monday.Add(-1 * time.Hour),
		EndTime:     monday.Add(9*time.Hour + 30*time.Minute),
	})

	out, err := availUC.Execute(context.Background(), AvailabilityInput{
		WorkspaceID: 1,
		ServiceID:   10,
		Date:        monday,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}

	want := []string{"10:00", "11:00"}
	if len(out.AvailableSlots) != len(want) {
		t.Fatalf("slots = %v, want %v", out.AvailableSlots, want)
	}
	for i := range want {
		if out.AvailableSlots[i] != want[i] {
			t.Fatalf("slots = %v, want %v", out.AvailableSlots, want)
		}
	}
}

func TestGetAvailabilityDisabledDay(t *testing.T) {
	repo := newFakeRepo()
	seedWorkspace(repo)
	availUC := NewGetAvailability(repo)

	day := time.Now().UTC().AddDate(0, 0, 7)
	for day.Weekday() != time.Sunday {
		day = day.AddDate(0, 0, 1)
	}

	out, err := availUC.Execute(context.Background(), AvailabilityInput{
		WorkspaceID: 1,
		ServiceID:   10,
		Date:        day,
	})
	if err != nil {
		t.Fatalf("availability failed: %v", err)
	}
	if !out.Unavailable {
		t.Fatal("Sunday has no template entry and should be unavailable")
	}
	if len(out.AvailableSlots) != 0 {
		t.Fatalf("slots = %v, want none", out.AvailableSlots)
	}
}
