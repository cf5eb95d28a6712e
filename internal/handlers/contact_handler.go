package handlers

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/automation"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/validators"
)

type ContactHandler struct {
	db     *gorm.DB
	events *automation.Dispatcher
}

func NewContactHandler(db *gorm.DB, events *automation.Dispatcher) *ContactHandler {
	return &ContactHandler{db: db, events: events}
}

type CreateContactRequest struct {
	Name  string            `json:"name" binding:"required"`
	Email string            `json:"email"`
	Phone string            `json:"phone"`
	Tags  models.StringList `json:"tags"`
}

type UpdateContactRequest struct {
	Name         *string            `json:"name"`
	Email        *string            `json:"email"`
	Phone        *string            `json:"phone"`
	Tags         *models.StringList `json:"tags"`
	CustomFields *models.JSONMap    `json:"custom_fields"`
	Unsubscribed *bool              `json:"unsubscribed"`
}

func (h *ContactHandler) List(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	q := h.db.Model(&models.Contact{}).Where("workspace_id = ?", workspaceID)

	if search := c.Query("search"); search != "" {
		like := "%" + strings.ToLower(search) + "%"
		q = q.Where(
			"LOWER(name) LIKE ? OR LOWER(email) LIKE ? OR phone LIKE ?",
			like, like, like,
		)
	}
	if source := c.Query("source"); source != "" {
		q = q.Where("source = ?", source)
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	var total int64
	if err := q.Count(&total).Error; err != nil {
		httperr.Internal(c, "failed_to_list_contacts", "Could not list contacts.")
		return
	}

	var contacts []models.Contact
	if err := q.Order("created_at DESC").Limit(limit).Offset(offset).Find(&contacts).Error; err != nil {
		httperr.Internal(c, "failed_to_list_contacts", "Could not list contacts.")
		return
	}

	httpresp.ListTotal(c, contacts, int(total))
}

func (h *ContactHandler) Get(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_contact_id", "Invalid contact id.")
		return
	}

	var contact models.Contact
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&contact).Error; err != nil {
		httperr.NotFound(c, "contact_not_found", "Contact not found.")
		return
	}

	// Recent bookings round out the contact profile.
	var bookings []models.Booking
	h.db.Preload("Service").
		Where("workspace_id = ? AND contact_id = ?", workspaceID, contact.ID).
		Order("start_time DESC").
		Limit(10).
		Find(&bookings)

	httpresp.OK(c, gin.H{
		"contact":  contact,
		"bookings": bookings,
	})
}

func (h *ContactHandler) Create(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req CreateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if email == "" && req.Phone == "" {
		httperr.BadRequest(c, "missing_channel", "Either email or phone is required.")
		return
	}
	if email != "" && !validators.IsEmailValid(email) {
		httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
		return
	}

	contact := models.Contact{
		WorkspaceID: workspaceID,
		Name:        req.Name,
		Email:       email,
		Phone:       strings.TrimSpace(req.Phone),
		Source:      "manual",
		Tags:        req.Tags,
		IsActive:    true,
	}

	if err := h.db.Create(&contact).Error; err != nil {
		httperr.Internal(c, "failed_to_create_contact", "Could not create the contact.")
		return
	}

	h.events.Dispatch(automation.Event{
		Type:        automation.EventContactCreated,
		WorkspaceID: workspaceID,
		ContactID:   contact.ID,
	})

	httpresp.Created(c, contact)
}

func (h *ContactHandler) Update(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_contact_id", "Invalid contact id.")
		return
	}

	var contact models.Contact
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&contact).Error; err != nil {
		httperr.NotFound(c, "contact_not_found", "Contact not found.")
		return
	}

	var req UpdateContactRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		contact.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(strings.TrimSpace(*req.Email))
		if email != "" && !validators.IsEmailValid(email) {
			httperr.BadRequest(c, "invalid_email", "Email address is not valid.")
			return
		}
		contact.Email = email
	}
	if req.Phone != nil {
		contact.Phone = strings.TrimSpace(*req.Phone)
	}
	if req.Tags != nil {
		contact.Tags = *req.Tags
	}
	if req.CustomFields != nil {
		contact.CustomFields = *req.CustomFields
	}
	if req.Unsubscribed != nil {
		contact.Unsubscribed = *req.Unsubscribed
	}

	if err := h.db.Save(&contact).Error; err != nil {
		httperr.Internal(c, "failed_to_update_contact", "Could not update the contact.")
		return
	}

	httpresp.OK(c, contact)
}
