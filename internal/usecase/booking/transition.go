package booking

import (
	"context"

	"github.com/careops/careops-server/internal/audit"
	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

// CompleteBooking and MarkNoShow are plain status flips with no
// further side effects.

type CompleteBooking struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCompleteBooking(repo domain.Repository, auditD *audit.Dispatcher) *CompleteBooking {
	return &CompleteBooking{repo: repo, audit: auditD}
}

func (uc *CompleteBooking) Execute(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	domain.Complete(bk)
	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "booking_completed",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}

type MarkNoShow struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewMarkNoShow(repo domain.Repository, auditD *audit.Dispatcher) *MarkNoShow {
	return &MarkNoShow{repo: repo, audit: auditD}
}

func (uc *MarkNoShow) Execute(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
) (*models.Booking, error) {

	bk, err := uc.repo.GetBooking(ctx, workspaceID, bookingID)
	if err != nil {
		return nil, httperr.ErrBusiness(httperr.CodeNotFound)
	}

	domain.MarkNoShow(bk)
	if err := uc.repo.UpdateBooking(ctx, bk); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		WorkspaceID: workspaceID,
		Action:      "booking_no_show",
		Entity:      "booking",
		EntityID:    &bk.ID,
	})

	return bk, nil
}
