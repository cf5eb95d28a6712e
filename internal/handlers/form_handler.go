package handlers

import (
	"fmt"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/config"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/notify"
)

type FormHandler struct {
	db       *gorm.DB
	config   *config.Config
	notifier *notify.Notifier
}

func NewFormHandler(db *gorm.DB, cfg *config.Config, notifier *notify.Notifier) *FormHandler {
	return &FormHandler{db: db, config: cfg, notifier: notifier}
}

type CreateFormRequest struct {
	Name                 string            `json:"name" binding:"required"`
	Description          string            `json:"description"`
	FormType             string            `json:"form_type"`
	ServiceID            *uint             `json:"service_id"`
	Fields               models.FormFields `json:"fields" binding:"required"`
	RequireBeforeBooking bool              `json:"require_before_booking"`
}

type UpdateFormRequest struct {
	Name                 *string            `json:"name"`
	Description          *string            `json:"description"`
	Fields               *models.FormFields `json:"fields"`
	IsActive             *bool              `json:"is_active"`
	RequireBeforeBooking *bool              `json:"require_before_booking"`
}

type SendFormRequest struct {
	BookingID uint `json:"booking_id" binding:"required"`
	ContactID uint `json:"contact_id" binding:"required"`
}

// ======================================================
// CRUD
// ======================================================

func (h *FormHandler) List(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	q := h.db.Where("workspace_id = ?", workspaceID)
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var forms []models.Form
	if err := q.Order("created_at DESC").Find(&forms).Error; err != nil {
		httperr.Internal(c, "failed_to_list_forms", "Could not list forms.")
		return
	}

	httpresp.List(c, forms)
}

func (h *FormHandler) Get(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	form, ok := h.formFor(c, workspaceID)
	if !ok {
		return
	}
	httpresp.OK(c, form)
}

func (h *FormHandler) Create(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req CreateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if len(req.Fields) == 0 {
		httperr.BadRequest(c, "missing_fields", "A form needs at least one field.")
		return
	}

	formType := req.FormType
	if formType == "" {
		formType = "custom"
	}

	form := models.Form{
		WorkspaceID:          workspaceID,
		ServiceID:            req.ServiceID,
		Name:                 req.Name,
		Description:          req.Description,
		FormType:             formType,
		Fields:               req.Fields,
		RequireBeforeBooking: req.RequireBeforeBooking,
		IsActive:             true,
	}
	if err := h.db.Create(&form).Error; err != nil {
		httperr.Internal(c, "failed_to_create_form", "Could not create the form.")
		return
	}

	httpresp.Created(c, form)
}

func (h *FormHandler) Update(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	form, ok := h.formFor(c, workspaceID)
	if !ok {
		return
	}

	var req UpdateFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		form.Name = *req.Name
	}
	if req.Description != nil {
		form.Description = *req.Description
	}
	if req.Fields != nil {
		form.Fields = *req.Fields
	}
	if req.IsActive != nil {
		form.IsActive = *req.IsActive
	}
	if req.RequireBeforeBooking != nil {
		form.RequireBeforeBooking = *req.RequireBeforeBooking
	}

	if err := h.db.Save(form).Error; err != nil {
		httperr.Internal(c, "failed_to_update_form", "Could not update the form.")
		return
	}

	httpresp.OK(c, form)
}

// Delete deactivates; submissions keep pointing at the form row.
func (h *FormHandler) Delete(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	form, ok := h.formFor(c, workspaceID)
	if !ok {
		return
	}

	if err := h.db.Model(form).Update("is_active", false).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_form", "Could not deactivate the form.")
		return
	}

	httpresp.OK(c, gin.H{"status": "deactivated"})
}

// ======================================================
// SEND / SUBMISSIONS
// ======================================================

// Send emails the contact a single-use completion link tied to a
// booking.
func (h *FormHandler) Send(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	form, ok := h.formFor(c, workspaceID)
	if !ok {
		return
	}
	if !form.IsActive {
		httperr.BadRequest(c, "form_inactive", "The form is inactive.")
		return
	}

	var req SendFormRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var booking models.Booking
	if err := h.db.
		Where("id = ? AND workspace_id = ?", req.BookingID, workspaceID).
		First(&booking).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	var contact models.Contact
	if err := h.db.
		Where("id = ? AND workspace_id = ?", req.ContactID, workspaceID).
		First(&contact).Error; err != nil {
		httperr.NotFound(c, "contact_not_found", "Contact not found.")
		return
	}
	if contact.Email == "" {
		httperr.BadRequest(c, "contact_has_no_email", "Contact has no email address.")
		return
	}

	var ws models.Workspace
	h.db.First(&ws, workspaceID)

	sub := models.FormSubmission{
		FormID:    form.ID,
		BookingID: &booking.ID,
		ContactID: contact.ID,
		Token:     uuid.NewString(),
		SentAt:    time.Now(),
	}
	if err := h.db.Create(&sub).Error; err != nil {
		httperr.Internal(c, "failed_to_create_submission", "Could not create the submission.")
		return
	}

	link := fmt.Sprintf("%s/public/form/%s", h.config.PublicURL, sub.Token)
	body := fmt.Sprintf(
		"Hello %s,\n\nPlease complete the following form for your upcoming appointment:\n\nForm: %s\n%s\n\nLink: %s\n\nThank you,\n%s",
		contact.Name, form.Name, form.Description, link, ws.Name,
	)
	h.notifier.SendEmail(c.Request.Context(), workspaceID, contact.Email, "Please complete: "+form.Name, body)

	httpresp.Created(c, gin.H{
		"status":        "success",
		"submission_id": sub.ID,
		"token":         sub.Token,
		"form_link":     link,
	})
}

func (h *FormHandler) ListSubmissions(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	q := h.db.Model(&models.FormSubmission{}).
		Joins("JOIN forms ON forms.id = form_submissions.form_id").
		Where("forms.workspace_id = ?", workspaceID)

	if v := c.Query("form_id"); v != "" {
		id, _ := strconv.ParseUint(v, 10, 64)
		q = q.Where("form_submissions.form_id = ?", id)
	}
	switch c.Query("status") {
	case "pending":
		q = q.Where("form_submissions.completed_at IS NULL")
	case "completed":
		q = q.Where("form_submissions.completed_at IS NOT NULL")
	}

	var subs []models.FormSubmission
	if err := q.
		Preload("Form").
		Order("form_submissions.sent_at DESC").
		Limit(200).
		Find(&subs).Error; err != nil {
		httperr.Internal(c, "failed_to_list_submissions", "Could not list submissions.")
		return
	}

	httpresp.List(c, subs)
}

func (h *FormHandler) GetSubmission(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_submission_id", "Invalid submission id.")
		return
	}

	var sub models.FormSubmission
	if err := h.db.
		Preload("Form").
		Joins("JOIN forms ON forms.id = form_submissions.form_id").
		Where("form_submissions.id = ? AND forms.workspace_id = ?", id, workspaceID).
		First(&sub).Error; err != nil {
		httperr.NotFound(c, "submission_not_found", "Submission not found.")
		return
	}

	httpresp.OK(c, sub)
}

// --------------------------------------------------

func (h *FormHandler) formFor(c *gin.Context, workspaceID uint) (*models.Form, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_form_id", "Invalid form id.")
		return nil, false
	}

	var form models.Form
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&form).Error; err != nil {
		httperr.NotFound(c, "form_not_found", "Form not found.")
		return nil, false
	}
	return &form, true
}
