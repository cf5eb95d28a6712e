package models

import "time"

type InventoryItem struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkspaceID uint `gorm:"index;not null" json:"workspace_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	SKU         string `gorm:"size:50;uniqueIndex" json:"sku"`
	Description string `gorm:"size:255" json:"description"`

	Quantity  int    `gorm:"default:0" json:"quantity"`
	Threshold int    `gorm:"default:5" json:"threshold"`
	Unit      string `gorm:"size:20;default:'pieces'" json:"unit"`

	LowStockAlertSent bool   `gorm:"default:false" json:"low_stock_alert_sent"`
	ReorderPoint      *int   `json:"reorder_point"`
	SupplierInfo      string `gorm:"size:500" json:"supplier_info"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *InventoryItem) IsLowStock() bool {
	return i.Quantity <= i.Threshold
}

type InventoryUsage struct {
	ID              uint  `gorm:"primaryKey" json:"id"`
	InventoryItemID uint  `gorm:"index;not null" json:"inventory_item_id"`
	BookingID       *uint `gorm:"index" json:"booking_id"`

	QuantityUsed int    `gorm:"not null" json:"quantity_used"`
	Notes        string `gorm:"size:255" json:"notes"`

	CreatedAt time.Time `json:"created_at"`
}
