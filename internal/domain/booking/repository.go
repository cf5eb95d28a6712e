package booking

import (
	"context"
	"time"

	"github.com/careops/careops-server/internal/models"
)

type ListFilter struct {
	Status    string
	ContactID uint
	ServiceID uint
	From      *time.Time
	To        *time.Time
	Limit     int
	Offset    int
}

type Repository interface {
	// -------- Workspace / Service / Contact --------
	GetWorkspaceByID(
		ctx context.Context,
		id uint,
	) (*models.Workspace, error)

	GetService(
		ctx context.Context,
		workspaceID uint,
		serviceID uint,
	) (*models.Service, error)

	GetContact(
		ctx context.Context,
		workspaceID uint,
		contactID uint,
	) (*models.Contact, error)

	GetOrCreateContact(
		ctx context.Context,
		workspaceID uint,
		name string,
		email string,
		phone string,
		source string,
	) (*models.Contact, error)

	// -------- Booking (create / conflict) --------

	// CreateConflictFree runs the overlap check and the insert inside
	// one transaction with the candidate rows locked, closing the
	// check-then-act race between concurrent requests.
	CreateConflictFree(
		ctx context.Context,
		b *models.Booking,
	) error

	// MoveConflictFree is the reschedule counterpart; the booking's
	// own row is excluded from the overlap check.
	MoveConflictFree(
		ctx context.Context,
		b *models.Booking,
		newStart time.Time,
		newEnd time.Time,
	) error

	HasConflict(
		ctx context.Context,
		workspaceID uint,
		serviceID uint,
		start time.Time,
		end time.Time,
		excludeBookingID uint,
	) (bool, error)

	// -------- Booking (state change / read) --------
	GetBooking(
		ctx context.Context,
		workspaceID uint,
		bookingID uint,
	) (*models.Booking, error)

	UpdateBooking(
		ctx context.Context,
		b *models.Booking,
	) error

	ListBookings(
		ctx context.Context,
		workspaceID uint,
		filter ListFilter,
	) ([]models.Booking, int64, error)

	ListActiveBookingsForDay(
		ctx context.Context,
		workspaceID uint,
		serviceID uint,
		dayStart time.Time,
		dayEnd time.Time,
	) ([]models.Booking, error)
}
