package models

import "time"

const (
	IntegrationTypeEmail = "email"
	IntegrationTypeSMS   = "sms"

	ProviderSendgrid = "sendgrid"
	ProviderSMTP     = "smtp"
	ProviderTwilio   = "twilio"
	ProviderLog      = "log"
)

type Integration struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkspaceID uint `gorm:"index;not null" json:"workspace_id"`

	Type     string `gorm:"size:20;not null" json:"type"`
	Provider string `gorm:"size:20;not null" json:"provider"`
	Name     string `gorm:"size:100;not null" json:"name"`

	Config      JSONMap `gorm:"type:jsonb" json:"config"`
	Credentials JSONMap `gorm:"type:jsonb" json:"-"`

	IsActive   bool       `gorm:"default:true" json:"is_active"`
	LastUsed   *time.Time `json:"last_used"`
	ErrorCount int        `gorm:"default:0" json:"error_count"`
	LastError  string     `gorm:"size:255" json:"last_error"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
