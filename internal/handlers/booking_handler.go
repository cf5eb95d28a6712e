package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	ucBooking "github.com/careops/careops-server/internal/usecase/booking"
)

// ======================================================
// HANDLER
// ======================================================

type BookingHandler struct {
	db *gorm.DB

	createUC       *ucBooking.CreateBooking
	confirmUC      *ucBooking.ConfirmBooking
	cancelUC       *ucBooking.CancelBooking
	rescheduleUC   *ucBooking.RescheduleBooking
	completeUC     *ucBooking.CompleteBooking
	noShowUC       *ucBooking.MarkNoShow
	listUC         *ucBooking.ListBookings
	availabilityUC *ucBooking.GetAvailability
}

func NewBookingHandler(
	db *gorm.DB,
	createUC *ucBooking.CreateBooking,
	confirmUC *ucBooking.ConfirmBooking,
	cancelUC *ucBooking.CancelBooking,
	rescheduleUC *ucBooking.RescheduleBooking,
	completeUC *ucBooking.CompleteBooking,
	noShowUC *ucBooking.MarkNoShow,
	listUC *ucBooking.ListBookings,
	availabilityUC *ucBooking.GetAvailability,
) *BookingHandler {
	return &BookingHandler{
		db:             db,
		createUC:       createUC,
		confirmUC:      confirmUC,
		cancelUC:       cancelUC,
		rescheduleUC:   rescheduleUC,
		completeUC:     completeUC,
		noShowUC:       noShowUC,
		listUC:         listUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateBookingRequest struct {
	ServiceID uint `json:"service_id" binding:"required"`

	ContactID    uint   `json:"contact_id"`
	ContactName  string `json:"contact_name"`
	ContactEmail string `json:"contact_email"`
	ContactPhone string `json:"contact_phone"`

	Date  string `json:"date" binding:"required"`
	Time  string `json:"time" binding:"required"`
	Notes string `json:"notes"`
}

type CancelBookingRequest struct {
	Reason string `json:"reason"`
}

type RescheduleBookingRequest struct {
	Date string `json:"date" binding:"required"`
	Time string `json:"time" binding:"required"`
}

// ======================================================
// HELPERS
// ======================================================

// writeBusinessError maps use-case errors onto the HTTP surface.
// Shared by every handler that calls into a use case.
func writeBusinessError(c *gin.Context, err error) {
	switch {
	case httperr.IsBusiness(err, httperr.CodeNotFound):
		httperr.NotFound(c, "not_found", "Resource not found.")
	case httperr.IsBusiness(err, httperr.CodeTimeConflict):
		httperr.Conflict(c, "time_conflict", "The requested time overlaps an existing booking.")
	case httperr.IsBusiness(err, httperr.CodeValidation):
		httperr.BadRequest(c, "validation_error", httperr.Reason(err))
	default:
		httperr.Internal(c, "internal_error", "Operation failed.")
	}
}

func bookingID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		httperr.BadRequest(c, "invalid_booking_id", "Invalid booking id.")
		return 0, false
	}
	return uint(id), true
}

func (h *BookingHandler) workspaceFor(c *gin.Context) (*models.Workspace, bool) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var ws models.Workspace
	if err := h.db.First(&ws, workspaceID).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return nil, false
	}
	return &ws, true
}

// ======================================================
// CREATE
// ======================================================

func (h *BookingHandler) Create(c *gin.Context) {
	ws, ok := h.workspaceFor(c)
	if !ok {
		return
	}

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	start, err := parseDateTimeInWorkspace(ws, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	bk, err := h.createUC.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		WorkspaceID:  ws.ID,
		ServiceID:    req.ServiceID,
		ContactID:    req.ContactID,
		ContactName:  req.ContactName,
		ContactEmail: req.ContactEmail,
		ContactPhone: req.ContactPhone,
		StartTime:    start,
		Notes:        req.Notes,
		Origin:       ucBooking.OriginStaff,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, bk)
}

// ======================================================
// LIST / GET
// ======================================================

func (h *BookingHandler) List(c *gin.Context) {
	ws, ok := h.workspaceFor(c)
	if !ok {
		return
	}

	filter := domain.ListFilter{
		Status: c.Query("status"),
	}

	if v := c.Query("contact_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		filter.ContactID = uint(id)
	}
	if v := c.Query("service_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		filter.ServiceID = uint(id)
	}
	if v := c.Query("from"); v != "" {
		if t, err := parseDateInWorkspace(ws, v); err == nil {
			filter.From = &t
		}
	}
	if v := c.Query("to"); v != "" {
		if t, err := parseDateInWorkspace(ws, v); err == nil {
			end := t.AddDate(0, 0, 1)
			filter.To = &end
		}
	}
	if v := c.Query("limit"); v != "" {
		filter.Limit, _ = strconv.Atoi(v)
	}
	if v := c.Query("offset"); v != "" {
		filter.Offset, _ = strconv.Atoi(v)
	}

	bookings, total, err := h.listUC.Execute(c.Request.Context(), ws.ID, filter)
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.ListTotal(c, bookings, int(total))
}

func (h *BookingHandler) Get(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	var bk models.Booking
	if err := h.db.
		Preload("Contact").
		Preload("Service").
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&bk).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	httpresp.OK(c, bk)
}

// ======================================================
// STATE CHANGES
// ======================================================

func (h *BookingHandler) Confirm(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	bk, err := h.confirmUC.Execute(c.Request.Context(), workspaceID, id)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, bk)
}

func (h *BookingHandler) Cancel(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req CancelBookingRequest
	_ = c.ShouldBindJSON(&req)

	bk, err := h.cancelUC.Execute(c.Request.Context(), workspaceID, id, req.Reason)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, bk)
}

func (h *BookingHandler) Reschedule(c *gin.Context) {
	ws, ok := h.workspaceFor(c)
	if !ok {
		return
	}

	id, ok := bookingID(c)
	if !ok {
		return
	}

	var req RescheduleBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	start, err := parseDateTimeInWorkspace(ws, req.Date, req.Time)
	if err != nil {
		httperr.BadRequest(c, "invalid_date_or_time", "Invalid date or time.")
		return
	}

	bk, err := h.rescheduleUC.Execute(c.Request.Context(), ws.ID, id, start)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, bk)
}

func (h *BookingHandler) Complete(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	bk, err := h.completeUC.Execute(c.Request.Context(), workspaceID, id)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, bk)
}

func (h *BookingHandler) NoShow(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, ok := bookingID(c)
	if !ok {
		return
	}

	bk, err := h.noShowUC.Execute(c.Request.Context(), workspaceID, id)
	if err != nil {
		writeBusinessError(c, err)
		return
	}
	httpresp.OK(c, bk)
}

// ======================================================
// AVAILABILITY
// ======================================================

func (h *BookingHandler) Availability(c *gin.Context) {
	ws, ok := h.workspaceFor(c)
	if !ok {
		return
	}

	dateStr := c.Query("date")
	serviceStr := c.Query("service_id")
	if dateStr == "" || serviceStr == "" {
		httperr.BadRequest(c, "missing_params", "date and service_id are required.")
		return
	}

	serviceID, err := strconv.ParseUint(serviceStr, 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	date, err := parseDateInWorkspace(ws, dateStr)
	if err != nil {
		httperr.BadRequest(c, "invalid_date", "Invalid date.")
		return
	}

	out, err := h.availabilityUC.Execute(c.Request.Context(), ucBooking.AvailabilityInput{
		WorkspaceID: ws.ID,
		ServiceID:   uint(serviceID),
		Date:        date,
	})
	if err != nil {
		writeBusinessError(c, err)
		return
	}

	httpresp.OK(c, out)
}

// Calendar returns bookings grouped per day for a month view.
func (h *BookingHandler) Calendar(c *gin.Context) {
	ws, ok := h.workspaceFor(c)
	if !ok {
		return
	}

	monthStr := c.Query("month") // YYYY-MM
	loc := locationFromWorkspace(ws)

	start, err := time.ParseInLocation("2006-01", monthStr, loc)
	if err != nil {
		httperr.BadRequest(c, "invalid_month", "month must be YYYY-MM.")
		return
	}
	end := start.AddDate(0, 1, 0)

	var bookings []models.Booking
	if err := h.db.
		Preload("Contact").
		Preload("Service").
		Where(
			"workspace_id = ? AND start_time >= ? AND start_time < ?",
			ws.ID, start, end,
		).
		Order("start_time ASC").
		Find(&bookings).Error; err != nil {
		httperr.Internal(c, "failed_to_list_bookings", "Could not load calendar.")
		return
	}

	byDay := map[string][]models.Booking{}
	for _, bk := range bookings {
		day := bk.StartTime.In(loc).Format("2006-01-02")
		byDay[day] = append(byDay[day], bk)
	}

	httpresp.OK(c, gin.H{
		"month": start.Format("2006-01"),
		"days":  byDay,
	})
}
