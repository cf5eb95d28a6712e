package handlers

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/cache"
	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/media"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
	"github.com/careops/careops-server/internal/timezone"
)

type WorkspaceHandler struct {
	db       *gorm.DB
	cache    *cache.Cache
	uploader *media.Uploader
}

func NewWorkspaceHandler(db *gorm.DB, cacheC *cache.Cache, uploader *media.Uploader) *WorkspaceHandler {
	return &WorkspaceHandler{db: db, cache: cacheC, uploader: uploader}
}

type UpdateWorkspaceRequest struct {
	Name         *string         `json:"name"`
	Address      *string         `json:"address"`
	Timezone     *string         `json:"timezone"`
	ContactEmail *string         `json:"contact_email"`
	ContactPhone *string         `json:"contact_phone"`
	Settings     *models.JSONMap `json:"settings"`
}

func (h *WorkspaceHandler) GetMeWorkspace(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var ws models.Workspace
	if err := h.db.First(&ws, workspaceID).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return
	}

	httpresp.OK(c, ws)
}

func (h *WorkspaceHandler) UpdateMeWorkspace(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var ws models.Workspace
	if err := h.db.First(&ws, workspaceID).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return
	}

	var req UpdateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Invalid payload.")
		return
	}

	if req.Timezone != nil && !timezone.IsValid(*req.Timezone) {
		httperr.BadRequest(c, "invalid_timezone", "Unknown timezone.")
		return
	}

	if req.Name != nil {
		ws.Name = *req.Name
	}
	if req.Address != nil {
		ws.Address = *req.Address
	}
	if req.Timezone != nil {
		ws.Timezone = *req.Timezone
	}
	if req.ContactEmail != nil {
		ws.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		ws.ContactPhone = *req.ContactPhone
	}
	if req.Settings != nil {
		ws.Settings = *req.Settings
	}

	if err := h.db.Save(&ws).Error; err != nil {
		httperr.Internal(c, "failed_to_update_workspace", "Update failed.")
		return
	}

	// The public booking page caches the workspace payload by slug.
	h.cache.Invalidate(c.Request.Context(), cache.PublicWorkspaceKey(ws.Slug))

	httpresp.OK(c, ws)
}

func (h *WorkspaceHandler) UploadLogo(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	if !h.uploader.Enabled() {
		httperr.BadRequest(c, "uploads_disabled", "Media uploads are not configured.")
		return
	}

	file, err := c.FormFile("logo")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "A logo file is required.")
		return
	}
	if file.Size > 5<<20 {
		httperr.BadRequest(c, "file_too_large", "Logo must be under 5 MB.")
		return
	}

	url, err := h.uploader.UploadLogo(c.Request.Context(), workspaceID, file)
	if err != nil {
		httperr.Internal(c, "upload_failed", "Could not upload the logo.")
		return
	}

	var ws models.Workspace
	if err := h.db.First(&ws, workspaceID).Error; err != nil {
		httperr.NotFound(c, "workspace_not_found", "Workspace not found.")
		return
	}

	ws.LogoURL = url
	if err := h.db.Save(&ws).Error; err != nil {
		httperr.Internal(c, "failed_to_update_workspace", "Update failed.")
		return
	}

	h.cache.Invalidate(c.Request.Context(), cache.PublicWorkspaceKey(ws.Slug))

	httpresp.OK(c, gin.H{"logo_url": url})
}
