package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"
)

// DayTemplate is one weekly availability entry. Day is ISO weekday
// (1=Monday .. 7=Sunday); Slots keeps template order.
type DayTemplate struct {
	Day     int      `json:"day"`
	Enabled bool     `json:"enabled"`
	Slots   []string `json:"slots"`
}

type WeeklyTemplate []DayTemplate

func (t WeeklyTemplate) Value() (driver.Value, error) {
	if t == nil {
		return "[]", nil
	}
	b, err := json.Marshal(t)
	return string(b), err
}

func (t *WeeklyTemplate) Scan(src any) error {
	return scanJSON(src, t)
}

// ForDay returns the first entry matching the ISO weekday, or nil.
func (t WeeklyTemplate) ForDay(isoWeekday int) *DayTemplate {
	for i := range t {
		if t[i].Day == isoWeekday {
			return &t[i]
		}
	}
	return nil
}

type Service struct {
	ID          uint `gorm:"primaryKey" json:"id"`
	WorkspaceID uint `gorm:"index;not null" json:"workspace_id"`

	Name        string `gorm:"size:100;not null" json:"name"`
	Description string `gorm:"size:255" json:"description"`
	DurationMin int    `gorm:"not null" json:"duration_min"`
	PriceCents  int    `gorm:"default:0" json:"price_cents"`

	LocationType    string  `gorm:"size:20;default:'physical'" json:"location_type"`
	LocationDetails JSONMap `gorm:"type:jsonb" json:"location_details"`

	IsActive bool `gorm:"default:true" json:"is_active"`

	Availability WeeklyTemplate `gorm:"type:jsonb" json:"availability"`
	BufferBefore int            `gorm:"default:0" json:"buffer_before"`
	BufferAfter  int            `gorm:"default:0" json:"buffer_after"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// DefaultAvailability: weekdays enabled 09:00-16:00, weekend off.
func DefaultAvailability() WeeklyTemplate {
	weekday := []string{"09:00", "10:00", "11:00", "13:00", "14:00", "15:00", "16:00"}
	t := make(WeeklyTemplate, 0, 7)
	for day := 1; day <= 5; day++ {
		t = append(t, DayTemplate{Day: day, Enabled: true, Slots: weekday})
	}
	t = append(t,
		DayTemplate{Day: 6, Enabled: false, Slots: []string{}},
		DayTemplate{Day: 7, Enabled: false, Slots: []string{}},
	)
	return t
}
