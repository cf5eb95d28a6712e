package booking

import (
	"context"
	"time"

	"github.com/careops/careops-server/internal/audit"
	"github.com/careops/careops-server/internal/automation"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

// ======================================================
// INPUT
// ======================================================

// Origin decides the initial status: staff bookings start pending,
// the public self-service path auto-confirms.
const (
	OriginStaff  = "staff"
	OriginPublic = "public"
)

type CreateBookingInput struct {
	WorkspaceID uint
	ServiceID   uint

	// Staff path: an existing contact.
	ContactID uint

	// Public path: contact is found or created from these.
	ContactName  string
	ContactEmail string
	ContactPhone string

	StartTime time.Time
	Notes     string
	Origin    string
}

// ======================================================
// USE CASE
// ======================================================

// EventSink receives lifecycle events for the automation pipeline.
// *automation.Dispatcher satisfies it.
type EventSink interface {
	Dispatch(ev automation.Event)
}

type CreateBooking struct {
	repo   domain.Repository
	events EventSink
	audit  *audit.Dispatcher
}

func NewCreateBooking(
	repo domain.Repository,
	events EventSink,
	auditD *audit.Dispatcher,
) *CreateBooking {
	return &CreateBooking{
		repo:   repo,
		events: events,
		audit:  auditD,
	}
}

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*models.Booking, error) {

	workspace, err := uc.repo.GetWorkspaceByID(ctx, in.WorkspaceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if !in.StartTime.After(time.Now()) {
		return nil, httperr.ErrValidation("start time must be in the future")
	}

	service, err := uc.repo.GetService(ctx, in.WorkspaceID, in.ServiceID)
	if err != nil || !service.IsActive {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	var contact *models.Contact
	if in.ContactID != 0 {
		contact, err = uc.repo.GetContact(ctx, in.WorkspaceID, in.ContactID)
		if err != nil {
			return nil, httperr.ErrBusiness(httperr.CodeNotFound)
		}
	} else {
		if in.ContactEmail == "" && in.ContactPhone == "" {
			return nil, httperr.ErrValidation("either email or phone is required")
		}
		contact, err = uc.repo.GetOrCreateContact(
			ctx,
			in.WorkspaceID,
			in.ContactName,
			in.ContactEmail,
			in.ContactPhone,
			"booking",
		)
		if err != nil {
			return nil, err
		}
	}

	end := in.StartTime.Add(time.Duration(service.DurationMin) * time.Minute)

	status := domain.StatusPending
	if in.Origin == OriginPublic {
		status = domain.StatusConfirmed
	}

	bk := &models.Booking{
		WorkspaceID: in.WorkspaceID,
		ServiceID:   &service.ID,
		ContactID:   contact.ID,
		StartTime:   in.StartTime,
		EndTime:     end,
		Timezone:    workspace.Timezone,
		Status:      string(status),
		Notes:       in.Notes,
	}

	// Conflict check and insert run in one locked transaction.
	if err := uc.repo.CreateConflictFree(ctx, bk); err != nil {
		return nil, err
	}

	// Fire-and-forget; a failed confirmation never unwinds the booking.
	uc.events.Dispatch(automation.Event{
		Type:        automation.EventBookingCreated,
		WorkspaceID: in.WorkspaceID,
		BookingID:   bk.ID,
	})

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: in.WorkspaceID,
		Action:      "booking_created",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}
