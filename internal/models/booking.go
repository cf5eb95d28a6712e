package models

import "time"

type Booking struct {
	ID uint `gorm:"primaryKey" json:"id"`

	WorkspaceID uint      `gorm:"index;not null" json:"workspace_id"`
	Workspace   Workspace `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"-"`

	// Nullable: deleting a service keeps its history.
	ServiceID *uint    `gorm:"index" json:"service_id"`
	Service   *Service `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;" json:"service,omitempty"`

	ContactID uint    `gorm:"index;not null" json:"contact_id"`
	Contact   Contact `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;" json:"contact"`

	StartTime time.Time `gorm:"index" json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Timezone  string    `gorm:"size:64;default:'UTC'" json:"timezone"`

	Status string `gorm:"size:20;default:'pending'" json:"status"`

	Notes              string     `gorm:"size:1000" json:"notes"`
	CancelledAt        *time.Time `json:"cancelled_at"`
	CancellationReason string     `gorm:"size:255" json:"cancellation_reason"`

	// Set to "rescheduled" when the time was moved at least once.
	// Orthogonal to Status: a moved booking stays pending/confirmed.
	LastModifiedReason string     `gorm:"size:30" json:"last_modified_reason"`
	RescheduledAt      *time.Time `json:"rescheduled_at"`

	ConfirmationSent bool `gorm:"default:false" json:"confirmation_sent"`
	ReminderSent     bool `gorm:"default:false" json:"reminder_sent"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
