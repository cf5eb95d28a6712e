package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	domain "github.com/careops/careops-server/internal/domain/booking"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
)

type ServiceHandler struct {
	db *gorm.DB
}

func NewServiceHandler(db *gorm.DB) *ServiceHandler {
	return &ServiceHandler{db: db}
}

type CreateServiceRequest struct {
	Name         string                `json:"name" binding:"required"`
	Description  string                `json:"description"`
	DurationMin  int                   `json:"duration_min" binding:"required"`
	PriceCents   int                   `json:"price_cents"`
	LocationType string                `json:"location_type"`
	Availability models.WeeklyTemplate `json:"availability"`
	BufferBefore int                   `json:"buffer_before"`
	BufferAfter  int                   `json:"buffer_after"`
}

type UpdateServiceRequest struct {
	Name         *string                `json:"name"`
	Description  *string                `json:"description"`
	DurationMin  *int                   `json:"duration_min"`
	PriceCents   *int                   `json:"price_cents"`
	LocationType *string                `json:"location_type"`
	Availability *models.WeeklyTemplate `json:"availability"`
	BufferBefore *int                   `json:"buffer_before"`
	BufferAfter  *int                   `json:"buffer_after"`
	IsActive     *bool                  `json:"is_active"`
}

func (h *ServiceHandler) List(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	q := h.db.Where("workspace_id = ?", workspaceID)
	if c.Query("active") == "true" {
		q = q.Where("is_active = ?", true)
	}

	var services []models.Service
	if err := q.Order("name ASC").Find(&services).Error; err != nil {
		httperr.Internal(c, "failed_to_list_services", "Could not list services.")
		return
	}

	httpresp.List(c, services)
}

func (h *ServiceHandler) Create(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req CreateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.DurationMin < 15 || req.DurationMin > 480 {
		httperr.BadRequest(c, "invalid_duration", "Duration must be between 15 minutes and 8 hours.")
		return
	}

	if err := domain.ValidateTemplate(req.Availability); err != nil {
		writeBusinessError(c, err)
		return
	}

	availability := req.Availability
	if len(availability) == 0 {
		availability = models.DefaultAvailability()
	}

	svc := models.Service{
		WorkspaceID:  workspaceID,
		Name:         req.Name,
		Description:  req.Description,
		DurationMin:  req.DurationMin,
		PriceCents:   req.PriceCents,
		LocationType: req.LocationType,
		Availability: availability,
		BufferBefore: req.BufferBefore,
		BufferAfter:  req.BufferAfter,
		IsActive:     true,
	}

	if err := h.db.Create(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_create_service", "Could not create the service.")
		return
	}

	httpresp.Created(c, svc)
}

func (h *ServiceHandler) Update(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	var svc models.Service
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&svc).Error; err != nil {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	var req UpdateServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.DurationMin != nil && (*req.DurationMin < 15 || *req.DurationMin > 480) {
		httperr.BadRequest(c, "invalid_duration", "Duration must be between 15 minutes and 8 hours.")
		return
	}

	if req.Name != nil {
		svc.Name = *req.Name
	}
	if req.Description != nil {
		svc.Description = *req.Description
	}
	if req.DurationMin != nil {
		svc.DurationMin = *req.DurationMin
	}
	if req.PriceCents != nil {
		svc.PriceCents = *req.PriceCents
	}
	if req.LocationType != nil {
		svc.LocationType = *req.LocationType
	}
	if req.Availability != nil {
		if err := domain.ValidateTemplate(*req.Availability); err != nil {
			writeBusinessError(c, err)
			return
		}
		svc.Availability = *req.Availability
	}
	if req.BufferBefore != nil {
		svc.BufferBefore = *req.BufferBefore
	}
	if req.BufferAfter != nil {
		svc.BufferAfter = *req.BufferAfter
	}
	if req.IsActive != nil {
		svc.IsActive = *req.IsActive
	}

	if err := h.db.Save(&svc).Error; err != nil {
		httperr.Internal(c, "failed_to_update_service", "Could not update the service.")
		return
	}

	httpresp.OK(c, svc)
}

// Delete deactivates. Bookings keep their history via the nullable
// service reference, so rows are never removed.
func (h *ServiceHandler) Delete(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_service_id", "Invalid service id.")
		return
	}

	res := h.db.Model(&models.Service{}).
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		Update("is_active", false)
	if res.Error != nil {
		httperr.Internal(c, "failed_to_delete_service", "Could not deactivate the service.")
		return
	}
	if res.RowsAffected == 0 {
		httperr.NotFound(c, "service_not_found", "Service not found.")
		return
	}

	httpresp.OK(c, gin.H{"status": "deactivated"})
}
