package handlers

import (
	"encoding/json"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/automation"
	"github.com/careops/careops-server/internal/cache"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/models"
	ucBooking "github.com/careops/careops-server/internal/usecase/booking"
	"github.com/careops/careops-server/internal/validators"
)

// ======================================================
// HANDLER
// ======================================================

// PublicHandler serves the unauthenticated surface: the booking page,
// the contact form, and form completion links. Only active workspaces
// are visible here.
type PublicHandler struct {
	db     *gorm.DB
	cache  *cache.Cache
	events *automation.Dispatcher

	createUC       *ucBooking.CreateBooking
	availabilityUC *ucBooking.GetAvailability
}

func NewPublicHandler(
	db *gorm.DB,
	cacheC *cache.Cache,
	events *automation.Dispatcher,
	createUC *ucBooking.CreateBooking,
	availabilityUC *ucBooking.GetAvailability,
) *PublicHandler {
	return &PublicHandler{
		db:             db,
		cache:          cacheC,
		events:         events,
		createUC:       createUC,
		availabilityUC: availabilityUC,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type ContactFormRequest struct {
	Name    string `json:"name" binding:"required"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Message string `json:"message"`
}

type PublicBookingRequest struct {
	ServiceID uint   `json:"service_id" binding:"required"`
	Name      string `json:"name" binding:"required"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Notes     string `json:"notes"`
}

type PublicFormSubmitRequest struct {
	Data models.JSONMap `json:"data" binding:"required"`
}

// ======================================================
// WORKSPACE / BOOKING PAGE
// ======================================================

func (h *PublicHandler) activeWorkspaceBySlug(c *gin.Context) (*models.Workspace, bool) {
	slug := c.Param("slug")

	var ws models.Workspace
	if err := h.db.
		Where("slug = ? AND is_active = ?", slug, true).
		First(&ws).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return nil, false
	}
	return &ws, true
}

// GetWorkspace serves the public profile, cached by slug.
func (h *PublicHandler) GetWorkspace(c *gin.Context) {
	slug := c.Param("slug")
	key := cache.PublicWorkspaceKey(slug)

	if cached, ok := h.cache.Get(c.Request.Context(), key); ok {
		c.Data(200, "application/json", []byte(cached))
		return
	}

	ws, ok := h.activeWorkspaceBySlug(c)
	if !ok {
		return
	}

	payload := gin.H{
		"id":            ws.ID,
		"name":          ws.Name,
		"slug":          ws.Slug,
		"contact_email": ws.ContactEmail,
		"contact_phone": ws.ContactPhone,
		"logo_url":      ws.LogoURL,
		"timezone":      ws.Timezone,
	}

	if raw, err := json.Marshal(payload); err == nil {
		h.cache.Set(c.Request.Context(), key, string(raw), 5*time.Minute)
	}

	httpresp.OK(c, payload)
}

// BookingPage bundles the workspace with its bookable services.
func (h *PublicHandler) BookingPage(c *gin.Context) {
	ws, ok := h.activeWorkspaceBySlug(c)
	if !ok {
		return
	}

	var services []models.Service
	if err := h.db.
		Where("workspace_id = ? AND is_active = ?", ws.ID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not load the booking page.")
		return
	}

	httpresp.OK(c, gin.H{
		"workspace": gin.H{
			"id":            ws.ID,
			"name":          ws.Name,
			"slug":          ws.Slug,
			"timezone":      ws.Timezone,
			"contact_email": ws.ContactEmail,
			"contact_phone": ws.ContactPhone,
			"logo_url":      ws.LogoURL,
		},
		"services": services,
	})
}

func (h *PublicHandler) Availability(c *gin.Context) {
	ws, ok := h.activeWorkspaceBySlug(c)
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

// CreateBooking is the self-service path: the booking comes out
// confirmed and the confirmation goes out via automation.
func (h *PublicHandler) CreateBooking(c *gin.Context) {
	ws, ok := h.activeWorkspaceBySlug(c)
	if !ok {
		return
	}

	var req PublicBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Email != "" && !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
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
		ContactName:  req.Name,
		ContactEmail: req.Email,
		ContactPhone: req.Phone,
		StartTime:    start,
		Notes:        req.Notes,
		Origin:       ucBooking.OriginPublic,
	})
	if err != nil {
		if httperr.IsBusiness(err, httperr.CodeTimeConflict) {
			httperr.Conflict(c, "slot_unavailable",
				"This time slot is not available. Please select another time.")
			return
		}
		writeBusinessError(c, err)
		return
	}

	httpresp.Created(c, gin.H{
		"status":  "success",
		"message": "Booking confirmed! Check your email for details.",
		"booking": gin.H{
			"id":         bk.ID,
			"start_time": bk.StartTime.Format(time.RFC3339),
			"end_time":   bk.EndTime.Format(time.RFC3339),
			"status":     bk.Status,
		},
	})
}

// ======================================================
// CONTACT FORM
// ======================================================

// ContactForm creates the contact, opens an inbox conversation and
// triggers the welcome automation.
func (h *PublicHandler) ContactForm(c *gin.Context) {
	ws, ok := h.activeWorkspaceBySlug(c)
	if !ok {
		return
	}

	var req ContactFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.Email == "" && req.Phone == "" {
		httperr.BadRequest(c, "missing_channel", "Either email or phone is required.")
		return
	}
	if req.Email != "" && !validators.IsEmailValid(req.Email) {
		httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
		return
	}

	contact := models.Contact{
		WorkspaceID: ws.ID,
		Name:        req.Name,
		Email:       req.Email,
		Phone:       req.Phone,
		Source:      "contact_form",
		IsActive:    true,
	}

	conv := models.Conversation{
		WorkspaceID:          ws.ID,
		Subject:              "Inquiry from " + req.Name,
		Status:               "active",
		AwaitingReply:        true,
		LastMessageDirection: "inbound",
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&contact).Error; err != nil {
			return err
		}

		conv.ContactID = contact.ID
		if req.Message != "" {
			now := time.Now()
			conv.MessageCount = 1
			conv.LastMessageAt = &now
		}
		if err := tx.Create(&conv).Error; err != nil {
			return err
		}

		if req.Message != "" {
			msg := models.Message{
				ConversationID: conv.ID,
				Content:        req.Message,
				Channel:        "form",
				Direction:      "inbound",
				Status:         "received",
			}
			if err := tx.Create(&msg).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_submit", "Could not submit the contact form.")
		return
	}

	h.events.Dispatch(automation.Event{
		Type:        automation.EventContactCreated,
		WorkspaceID: ws.ID,
		ContactID:   contact.ID,
	})

	httpresp.Created(c, gin.H{
		"status":          "success",
		"message":         "Thank you for reaching out! We'll get back to you soon.",
		"contact_id":      contact.ID,
		"conversation_id": conv.ID,
	})
}

// ======================================================
// FORMS BY TOKEN
// ======================================================

func (h *PublicHandler) pendingSubmission(c *gin.Context) (*models.FormSubmission, bool) {
	token := c.Param("token")

	var sub models.FormSubmission
	if err := h.db.
		Preload("Form").
		Where("token = ? AND completed_at IS NULL", token).
		First(&sub).Error; err != nil {
		httperr.NotFound(c, "form_not_found", "Form not found or already completed.")
		return nil, false
	}
	return &sub, true
}

func (h *PublicHandler) GetForm(c *gin.Context) {
	sub, ok := h.pendingSubmission(c)
	if !ok {
		return
	}

	var booking *models.Booking
	if sub.BookingID != nil {
		var bk models.Booking
		if err := h.db.First(&bk, *sub.BookingID).Error; err == nil {
			booking = &bk
		}
	}

	var contact models.Contact
	h.db.First(&contact, sub.ContactID)

	httpresp.OK(c, gin.H{
		"token":   sub.Token,
		"form":    sub.Form,
		"booking": booking,
		"contact": gin.H{"id": contact.ID, "name": contact.Name},
	})
}

func (h *PublicHandler) SubmitForm(c *gin.Context) {
	sub, ok := h.pendingSubmission(c)
	if !ok {
		return
	}

	var req PublicFormSubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// Required fields must be present in the answers.
	for _, field := range sub.Form.Fields {
		if !field.Required {
			continue
		}
		if v, present := req.Data[field.ID]; !present || v == "" {
			httperr.BadRequest(c, "missing_required_field", "Missing required field: "+field.Label)
			return
		}
	}

	now := time.Now()
	sub.Data = req.Data
	sub.CompletedAt = &now
	if err := h.db.Save(sub).Error; err != nil {
		httperr.Internal(c, "failed_to_submit", "Could not submit the form.")
		return
	}

	httpresp.OK(c, gin.H{
		"status":        "success",
		"message":       "Form submitted successfully",
		"submission_id": sub.ID,
	})
}
