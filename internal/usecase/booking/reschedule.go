package booking

import (
	"context"
	"time"

	"github.com/careops/careops-server/internal/audit"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type RescheduleBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewRescheduleBooking(
	repo domain.Repository,
	auditD *audit.Dispatcher,
) *RescheduleBooking {
	return &RescheduleBooking{
		repo:  repo,
		audit: auditD,
	}
}

// Execute moves the booking in place. The conflict check excludes the
// booking's own row, so moving to its current time succeeds.
func (uc *RescheduleBooking) Execute(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
	newStart time.Time,
) (*models.Booking, error) {

	if !newStart.After(time.Now()) {
		return nil, httperr.ErrValidation("start time must be in the future")
	}

	bk, err := uc.repo.GetBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	if bk.ServiceID == nil {
		return nil, httperr.ErrValidation("booking has no associated service")
	}

	service, err := uc.repo.GetService(ctx, workspaceID, *bk.ServiceID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	newEnd := newStart.Add(time.Duration(service.DurationMin) * time.Minute)

	if err := uc.repo.MoveConflictFree(ctx, bk, newStart, newEnd); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "booking_rescheduled",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}
