package repository

import (
	"context"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/models"
)

type BookingGormRepository struct {
	db *gorm.DB
}

func NewBookingGormRepository(db *gorm.DB) *BookingGormRepository {
	return &BookingGormRepository{db: db}
}

// --------------------------------------------------
// Workspace
// --------------------------------------------------

func (r *BookingGormRepository) GetWorkspaceByID(
	ctx context.Context,
	id uint,
) (*models.Workspace, error) {

	var ws models.Workspace
	if err := r.db.WithContext(ctx).First(&ws, id).Error; err != nil {
		return nil, err
	}
	return &ws, nil
}

// --------------------------------------------------
// Service
// --------------------------------------------------

func (r *BookingGormRepository) GetService(
	ctx context.Context,
	workspaceID uint,
	serviceID uint,
) (*models.Service, error) {

	var svc models.Service
	if err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", serviceID, workspaceID).
		First(&svc).Error; err != nil {
		return nil, err
	}
	return &svc, nil
}

// --------------------------------------------------
// Contact
// --------------------------------------------------

func (r *BookingGormRepository) GetContact(
	ctx context.Context,
	workspaceID uint,
	contactID uint,
) (*models.Contact, error) {

	var contact models.Contact
	if err := r.db.WithContext(ctx).
		Where("id = ? AND workspace_id = ?", contactID, workspaceID).
		First(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

func (r *BookingGormRepository) GetOrCreateContact(
	ctx context.Context,
	workspaceID uint,
	name string,
	email string,
	phone string,
	source string,
) (*models.Contact, error) {

	email = strings.ToLower(strings.TrimSpace(email))
	phone = strings.TrimSpace(phone)

	var contact models.Contact
	q := r.db.WithContext(ctx).Where("workspace_id = ?", workspaceID)
	switch {
	case email != "":
		q = q.Where("email = ?", email)
	case phone != "":
		q = q.Where("phone = ?", phone)
	default:
		return nil, httperr.ErrValidation("email or phone is required")
	}

	if err := q.First(&contact).Error; err == nil {
		return &contact, nil
	}

	contact = models.Contact{
		WorkspaceID: workspaceID,
		Name:        name,
		Email:       email,
		Phone:       phone,
		Source:      source,
	}
	if err := r.db.WithContext(ctx).Create(&contact).Error; err != nil {
		return nil, err
	}
	return &contact, nil
}

// --------------------------------------------------
// Booking (create / conflict)
// --------------------------------------------------

// overlapQuery matches bookings in a blocking status whose half-open
// window [start_time, end_time) intersects [start, end).
func overlapQuery(tx *gorm.DB, workspaceID, serviceID uint, start, end time.Time, excludeID uint) *gorm.DB {
	q := tx.
		Model(&models.Booking{}).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where(
			"workspace_id = ? AND service_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			workspaceID,
			serviceID,
			domain.ActiveStatuses(),
			end,
			start,
		)
	if excludeID != 0 {
		q = q.Where("id <> ?", excludeID)
	}
	return q
}

func (r *BookingGormRepository) CreateConflictFree(
	ctx context.Context,
	b *models.Booking,
) error {

	if b.ServiceID == nil {
		// No service window to collide with; plain insert.
		return r.db.WithContext(ctx).Create(b).Error
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := overlapQuery(tx, b.WorkspaceID, *b.ServiceID, b.StartTime, b.EndTime, 0).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeTimeConflict)
		}
		return tx.Create(b).Error
	})
}

func (r *BookingGormRepository) MoveConflictFree(
	ctx context.Context,
	b *models.Booking,
	newStart time.Time,
	newEnd time.Time,
) error {

	if b.ServiceID == nil {
		return httperr.ErrValidation("booking has no service")
	}

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := overlapQuery(tx, b.WorkspaceID, *b.ServiceID, newStart, newEnd, b.ID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return httperr.ErrBusiness(httperr.CodeTimeConflict)
		}

		domain.Move(b, newStart, newEnd, time.Now())
		return tx.Save(b).Error
	})
}

func (r *BookingGormRepository) HasConflict(
	ctx context.Context,
	workspaceID uint,
	serviceID uint,
	start time.Time,
	end time.Time,
	excludeBookingID uint,
) (bool, error) {

	var count int64
	if err := overlapQuery(r.db.WithContext(ctx), workspaceID, serviceID, start, end, excludeBookingID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// --------------------------------------------------
// Booking (state change / read)
// --------------------------------------------------

func (r *BookingGormRepository) GetBooking(
	ctx context.Context,
	workspaceID uint,
	bookingID uint,
) (*models.Booking, error) {

	var bk models.Booking
	if err := r.db.WithContext(ctx).
		Preload("Contact").
		Preload("Service").
		Where("id = ? AND workspace_id = ?", bookingID, workspaceID).
		First(&bk).Error; err != nil {
		return nil, err
	}
	return &bk, nil
}

func (r *BookingGormRepository) UpdateBooking(
	ctx context.Context,
	b *models.Booking,
) error {
	return r.db.WithContext(ctx).Save(b).Error
}

func (r *BookingGormRepository) ListBookings(
	ctx context.Context,
	workspaceID uint,
	filter domain.ListFilter,
) ([]models.Booking, int64, error) {

	q := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("workspace_id = ?", workspaceID)

	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.ContactID != 0 {
		q = q.Where("contact_id = ?", filter.ContactID)
	}
	if filter.ServiceID != 0 {
		q = q.Where("service_id = ?", filter.ServiceID)
	}
	if filter.From != nil {
		q = q.Where("start_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("start_time < ?", *filter.To)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var bookings []models.Booking
	if err := q.
		Preload("Contact").
		Preload("Service").
		Order("start_time ASC").
		Limit(filter.Limit).
		Offset(filter.Offset).
		Find(&bookings).Error; err != nil {
		return nil, 0, err
	}

	return bookings, total, nil
}

func (r *BookingGormRepository) ListActiveBookingsForDay(
	ctx context.Context,
	workspaceID uint,
	serviceID uint,
	dayStart time.Time,
	dayEnd time.Time,
) ([]models.Booking, error) {

	var bookings []models.Booking
	if err := r.db.WithContext(ctx).
		Select("start_time", "end_time").
		Where(
			"workspace_id = ? AND service_id = ? AND status IN ? AND start_time < ? AND end_time > ?",
			workspaceID, serviceID, domain.ActiveStatuses(), dayEnd, dayStart,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		return nil, err
	}

	return bookings, nil
}

// Compile-time check
var _ domain.Repository = (*BookingGormRepository)(nil)
