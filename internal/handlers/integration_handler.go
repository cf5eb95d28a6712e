package handlers

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/notify"
)

type IntegrationHandler struct {
	db       *gorm.DB
	notifier *notify.Notifier
}

func NewIntegrationHandler(db *gorm.DB, notifier *notify.Notifier) *IntegrationHandler {
	return &IntegrationHandler{db: db, notifier: notifier}
}

type UpdateIntegrationRequest struct {
	Name        *string         `json:"name"`
	IsActive    *bool           `json:"is_active"`
	Config      *models.JSONMap `json:"config"`
	Credentials *models.JSONMap `json:"credentials"`
}

type TestIntegrationRequest struct {
	To string `json:"to" binding:"required"`
}

func (h *IntegrationHandler) List(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var integrations []models.Integration
	if err := h.db.
		Where("workspace_id = ?", workspaceID).
		Order("type ASC").
		Find(&integrations).Error; err != nil {
		httperr.Internal(c, "failed_to_list_integrations", "Could not list integrations.")
		return
	}

	httpresp.List(c, integrations)
}

func (h *IntegrationHandler) Update(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	integ, ok := h.integrationFor(c, workspaceID)
	if !ok {
		return
	}

	var req UpdateIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		integ.Name = *req.Name
	}
	if req.IsActive != nil {
		integ.IsActive = *req.IsActive
	}
	if req.Config != nil {
		integ.Config = *req.Config
	}
	if req.Credentials != nil {
		integ.Credentials = *req.Credentials
	}

	if err := h.db.Save(integ).Error; err != nil {
		httperr.Internal(c, "failed_to_update_integration", "Could not update the integration.")
		return
	}

	httpresp.OK(c, integ)
}

// Test fires a probe message through the channel so misconfigured
// credentials show up before a customer is on the receiving end.
func (h *IntegrationHandler) Test(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	integ, ok := h.integrationFor(c, workspaceID)
	if !ok {
		return
	}
	if !integ.IsActive {
		httperr.BadRequest(c, "integration_inactive", "The integration is inactive.")
		return
	}

	var req TestIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	switch integ.Type {
	case models.IntegrationTypeEmail:
		h.notifier.SendEmail(c.Request.Context(), workspaceID, req.To,
			"Test message", "This is a test message confirming your email channel works.")
	case models.IntegrationTypeSMS:
		h.notifier.SendSMS(c.Request.Context(), workspaceID, req.To,
			"Test message: your SMS channel works.")
	default:
		httperr.BadRequest(c, "unknown_integration_type", "Unknown integration type.")
		return
	}

	httpresp.OK(c, gin.H{"status": "sent"})
}

func (h *IntegrationHandler) integrationFor(c *gin.Context, workspaceID uint) (*models.Integration, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_integration_id", "Invalid integration id.")
		return nil, false
	}

	var integ models.Integration
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&integ).Error; err != nil {
		httperr.NotFound(c, "integration_not_found", "Integration not found.")
		return nil, false
	}
	return &integ, true
}
