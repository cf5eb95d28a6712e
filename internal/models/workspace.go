package models

import "time"

type Workspace struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"size:100;not null" json:"name"`
	Slug string `gorm:"size:100;uniqueIndex;not null" json:"slug"`

	Address      string `gorm:"size:255" json:"address"`
	Timezone     string `gorm:"size:64;default:'America/New_York'" json:"timezone"`
	ContactEmail string `gorm:"size:100" json:"contact_email"`
	ContactPhone string `gorm:"size:20" json:"contact_phone"`
	LogoURL      string `gorm:"size:255" json:"logo_url"`

	// Onboarding high-water mark (1-7). Never regresses.
	OnboardingStep int        `gorm:"default:1" json:"onboarding_step"`
	IsActive       bool       `gorm:"default:false" json:"is_active"`
	ActivatedAt    *time.Time `json:"activated_at"`

	Settings JSONMap `gorm:"type:jsonb" json:"settings"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultSettings is applied at registration.
func DefaultSettings() JSONMap {
	return JSONMap{
		"booking_buffer":            15,
		"reminder_hours":            24,
		"default_form_reminder_days": 2,
	}
}
