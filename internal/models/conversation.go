package models

import "time"

type Conversation struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkspaceID uint `gorm:"index;not null" json:"workspace_id"`

	ContactID uint    `gorm:"index;not null" json:"contact_id"`
	Contact   Contact `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"contact"`

	Subject string `gorm:"size:150" json:"subject"`
	Status  string `gorm:"size:20;default:'active'" json:"status"` // active, resolved, archived

	MessageCount         int        `gorm:"default:0" json:"message_count"`
	LastMessageAt        *time.Time `json:"last_message_at"`
	LastMessageDirection string     `gorm:"size:10" json:"last_message_direction"`
	AwaitingReply        bool       `gorm:"default:false" json:"awaiting_reply"`

	AssignedToID *uint `json:"assigned_to_id"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Message struct {
	ID             uint `gorm:"primaryKey" json:"id"`
	ConversationID uint `gorm:"index;not null" json:"conversation_id"`

	Content   string `gorm:"type:text;not null" json:"content"`
	Channel   string `gorm:"size:10" json:"channel"`   // email, sms, form, api
	Direction string `gorm:"size:10" json:"direction"` // inbound, outbound
	Status    string `gorm:"size:15;default:'sent'" json:"status"`

	Automated bool    `gorm:"default:false" json:"automated"`
	Metadata  JSONMap `gorm:"type:jsonb" json:"metadata"`

	CreatedAt time.Time `json:"created_at"`
}
