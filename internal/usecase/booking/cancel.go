package booking

import (
	"context"
	"time"

	"github.com/careops/careops-server/internal/audit"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type CancelBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCancelBooking(
	repo domain.Repository,
	auditD *audit.Dispatcher,
) *CancelBooking {
	return &CancelBooking{
		repo:  repo,
		audit: auditD,
	}
}

// Execute cancels from any prior status, completed included. The slot
// is released: cancelled bookings are invisible to conflict checks.
func (uc *CancelBooking) Execute(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
	reason string,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	domain.Cancel(bk, reason, time.Now())
	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "booking_cancelled",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}
