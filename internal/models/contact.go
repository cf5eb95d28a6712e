package models

import "time"

type Contact struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkspaceID uint `gorm:"index;not null" json:"workspace_id"`

	Name  string `gorm:"size:100;not null" json:"name"`
	Email string `gorm:"size:100;index" json:"email"`
	Phone string `gorm:"size:20;index" json:"phone"`

	// contact_form, booking, manual, import
	Source       string     `gorm:"size:30" json:"source"`
	Tags         StringList `gorm:"type:jsonb" json:"tags"`
	CustomFields JSONMap    `gorm:"type:jsonb" json:"custom_fields"`

	IsActive     bool `gorm:"default:true" json:"is_active"`
	Unsubscribed bool `gorm:"default:false" json:"unsubscribed"`

	LastContacted *time.Time `json:"last_contacted"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
