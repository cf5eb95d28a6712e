package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

type FormField struct {
	ID          string   `json:"id"`
	Type        string   `json:"type"`
	Label       string   `json:"label"`
	Required    bool     `json:"required"`
	Placeholder string   `json:"placeholder,omitempty"`
	Options     []string `json:"options,omitempty"`
}

type FormFields []FormField

func (f FormFields) Value() (driver.Value, error) {
	if f == nil {
		return "[]", nil
	}
	b, err := json.Marshal(f)
	return string(b), err
}

func (f *FormFields) Scan(src any) error {
	return scanJSON(src, f)
}

type Form struct {
	ID          uint  `gorm:"primaryKey" json:"id"`
	WorkspaceID uint  `gorm:"index;not null" json:"workspace_id"`
	ServiceID   *uint `gorm:"index" json:"service_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	FormType    string `gorm:"size:30;default:'custom'" json:"form_type"`

	Fields   FormFields `gorm:"type:jsonb" json:"fields"`
	Settings JSONMap    `gorm:"type:jsonb" json:"settings"`

	IsActive             bool `gorm:"default:true" json:"is_active"`
	RequireBeforeBooking bool `gorm:"default:false" json:"require_before_booking"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type FormSubmission struct {
	ID     uint `gorm:"primaryKey" json:"id"`
	FormID uint `gorm:"index;not null" json:"form_id"`
	Form   Form `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"form"`

	BookingID *uint `gorm:"index" json:"booking_id"`
	ContactID uint  `gorm:"index;not null" json:"contact_id"`

	// Public completion link token.
	Token string  `gorm:"size:64;uniqueIndex;not null" json:"token"`
	Data  JSONMap `gorm:"type:jsonb" json:"data"`

	SentAt      time.Time  `json:"sent_at"`
	CompletedAt *time.Time `json:"completed_at"`

	CreatedAt time.Time `json:"created_at"`
}
