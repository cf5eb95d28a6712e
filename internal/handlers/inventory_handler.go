package handlers

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/careops/careops-server/internal/httperr"
	"github.com/careops/careops-server/internal/httpresp"
	"github.com/careops/careops-server/internal/middleware"
	"github.com/careops/careops-server/internal/models"
)

type InventoryHandler struct {
	db *gorm.DB
}

func NewInventoryHandler(db *gorm.DB) *InventoryHandler {
	return &InventoryHandler{db: db}
}

type CreateInventoryItemRequest struct {
	Name         string `json:"name" binding:"required"`
	SKU          string `json:"sku"`
	Description  string `json:"description"`
	Quantity     int    `json:"quantity"`
	Threshold    int    `json:"threshold"`
	Unit         string `json:"unit"`
	SupplierInfo string `json:"supplier_info"`
}

type UpdateInventoryItemRequest struct {
	Name         *string `json:"name"`
	Description  *string `json:"description"`
	Threshold    *int    `json:"threshold"`
	Unit         *string `json:"unit"`
	ReorderPoint *int    `json:"reorder_point"`
	SupplierInfo *string `json:"supplier_info"`
}

type AdjustInventoryRequest struct {
	Adjustment int    `json:"adjustment" binding:"required"`
	Reason     string `json:"reason"`
}

type RecordUsageRequest struct {
	BookingID    uint   `json:"booking_id" binding:"required"`
	QuantityUsed int    `json:"quantity_used" binding:"required"`
	Notes        string `json:"notes"`
}

// ======================================================
// CRUD
// ======================================================

func (h *InventoryHandler) List(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var items []models.InventoryItem
	if err := h.db.
		Where("workspace_id = ?", workspaceID).
		Order("name ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Could not list inventory.")
		return
	}

	httpresp.List(c, items)
}

func (h *InventoryHandler) Get(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	item, ok := h.itemFor(c, workspaceID)
	if !ok {
		return
	}

	var usage []models.InventoryUsage
	h.db.Where("inventory_item_id = ?", item.ID).
		Order("created_at DESC").
		Limit(20).
		Find(&usage)

	httpresp.OK(c, gin.H{
		"item":         item,
		"is_low_stock": item.IsLowStock(),
		"recent_usage": usage,
	})
}

func (h *InventoryHandler) Create(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var req CreateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	unit := req.Unit
	if unit == "" {
		unit = "pieces"
	}

	item := models.InventoryItem{
		WorkspaceID:  workspaceID,
		Name:         req.Name,
		SKU:          req.SKU,
		Description:  req.Description,
		Quantity:     req.Quantity,
		Threshold:    req.Threshold,
		Unit:         unit,
		SupplierInfo: req.SupplierInfo,
	}
	if err := h.db.Create(&item).Error; err != nil {
		httperr.Internal(c, "failed_to_create_item", "Could not create the item.")
		return
	}

	httpresp.Created(c, item)
}

func (h *InventoryHandler) Update(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	item, ok := h.itemFor(c, workspaceID)
	if !ok {
		return
	}

	var req UpdateInventoryItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.Name != nil {
		item.Name = *req.Name
	}
	if req.Description != nil {
		item.Description = *req.Description
	}
	if req.Threshold != nil {
		item.Threshold = *req.Threshold
	}
	if req.Unit != nil {
		item.Unit = *req.Unit
	}
	if req.ReorderPoint != nil {
		item.ReorderPoint = req.ReorderPoint
	}
	if req.SupplierInfo != nil {
		item.SupplierInfo = *req.SupplierInfo
	}

	if err := h.db.Save(item).Error; err != nil {
		httperr.Internal(c, "failed_to_update_item", "Could not update the item.")
		return
	}

	httpresp.OK(c, item)
}

func (h *InventoryHandler) Delete(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	item, ok := h.itemFor(c, workspaceID)
	if !ok {
		return
	}

	if err := h.db.Delete(item).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_item", "Could not delete the item.")
		return
	}

	httpresp.OK(c, gin.H{"status": "deleted"})
}

// ======================================================
// STOCK MOVEMENT
// ======================================================

func (h *InventoryHandler) Adjust(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	item, ok := h.itemFor(c, workspaceID)
	if !ok {
		return
	}

	var req AdjustInventoryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	oldQuantity := item.Quantity
	item.Quantity += req.Adjustment
	if item.Quantity < 0 {
		httperr.BadRequest(c, "negative_quantity", "Quantity cannot go below zero.")
		return
	}

	// Restocking above the threshold re-arms the low-stock alert.
	if item.Quantity > item.Threshold {
		item.LowStockAlertSent = false
	}

	if err := h.db.Save(item).Error; err != nil {
		httperr.Internal(c, "failed_to_adjust_item", "Could not adjust the quantity.")
		return
	}

	httpresp.OK(c, gin.H{
		"status":       "success",
		"item_id":      item.ID,
		"old_quantity": oldQuantity,
		"new_quantity": item.Quantity,
		"adjustment":   req.Adjustment,
		"is_low_stock": item.IsLowStock(),
	})
}

func (h *InventoryHandler) RecordUsage(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	item, ok := h.itemFor(c, workspaceID)
	if !ok {
		return
	}

	var req RecordUsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}
	if req.QuantityUsed <= 0 {
		httperr.BadRequest(c, "invalid_quantity", "quantity_used must be positive.")
		return
	}

	var booking models.Booking
	if err := h.db.
		Where("id = ? AND workspace_id = ?", req.BookingID, workspaceID).
		First(&booking).Error; err != nil {
		httperr.NotFound(c, "booking_not_found", "Booking not found.")
		return
	}

	if item.Quantity < req.QuantityUsed {
		httperr.BadRequest(c, "insufficient_inventory",
			fmt.Sprintf("Insufficient inventory. Available: %d %s", item.Quantity, item.Unit))
		return
	}

	usage := models.InventoryUsage{
		InventoryItemID: item.ID,
		BookingID:       &booking.ID,
		QuantityUsed:    req.QuantityUsed,
		Notes:           req.Notes,
	}

	err := h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&usage).Error; err != nil {
			return err
		}
		item.Quantity -= req.QuantityUsed
		return tx.Save(item).Error
	})
	if err != nil {
		httperr.Internal(c, "failed_to_record_usage", "Could not record usage.")
		return
	}

	httpresp.Created(c, gin.H{
		"status":             "success",
		"usage":              usage,
		"remaining_quantity": item.Quantity,
		"is_low_stock":       item.IsLowStock(),
	})
}

func (h *InventoryHandler) LowStock(c *gin.Context) {
	workspaceID := c.MustGet(middleware.ContextWorkspaceID).(uint)

	var items []models.InventoryItem
	if err := h.db.
		Where("workspace_id = ? AND quantity <= threshold", workspaceID).
		Order("quantity ASC").
		Find(&items).Error; err != nil {
		httperr.Internal(c, "failed_to_list_inventory", "Could not list low-stock items.")
		return
	}

	httpresp.List(c, items)
}

// --------------------------------------------------

func (h *InventoryHandler) itemFor(c *gin.Context, workspaceID uint) (*models.InventoryItem, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		httperr.BadRequest(c, "invalid_item_id", "Invalid item id.")
		return nil, false
	}

	var item models.InventoryItem
	if err := h.db.
		Where("id = ? AND workspace_id = ?", id, workspaceID).
		First(&item).Error; err != nil {
		httperr.NotFound(c, "item_not_found", "Inventory item not found.")
		return nil, false
	}
	return &item, true
}
