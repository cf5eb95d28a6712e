package booking

import (
	"context"

	"github.com/careops/careops-server/internal/audit"
	"github.com/careops/careops-server/internal/automation"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type ConfirmBooking struct {
	repo   domain.Repository
	events EventSink
	audit  *audit.Dispatcher
}

func NewConfirmBooking(
	repo domain.Repository,
	events EventSink,
	auditD *audit.Dispatcher,
) *ConfirmBooking {
	return &ConfirmBooking{
		repo:   repo,
		events: events,
		audit:  auditD,
	}
}

func (uc *ConfirmBooking) Execute(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	domain.Confirm(bk)
	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return nil, err
	}

	// Idempotent: the confirmation goes out at most once.
	if !bk.ConfirmationSent {
		uc.events.Dispatch(automation.Event{
			Type:        automation.EventBookingConfirmed,
			WorkspaceID: workspaceID,
			BookingID:   bk.ID,
		})
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "booking_confirmed",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}
