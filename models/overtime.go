package models

import (
	"fmt"
	"time"
)

// Overtime is one reported work session. Records are owned by exactly one
// user and are immutable after creation.
type Overtime struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	UserID      uint      `gorm:"not null;index" json:"user_id"`
	User        *User     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	Date        time.Time `gorm:"not null;type:date" json:"date"`
	Minutes     int       `gorm:"not null;check:minutes > 0" json:"minutes"`
	Description string    `gorm:"type:text;not null" json:"description"`
	CreatedAt   time.Time `gorm:"not null" json:"created_at"`
}

func (Overtime) TableName() string {
	return "overtime"
}

func (o *Overtime) HoursFormatted() string {
	return FormatMinutes(o.Minutes)
}

// FormatMinutes renders a duration as "3h 45m".
func FormatMinutes(minutes int) string {
	return fmt.Sprintf("%dh %dm", minutes/60, minutes%60)
}

// TotalMinutes sums the duration of the given records. Totals are always
// derived, never stored.
func TotalMinutes(records []Overtime) int {
	total := 0
	for _, r := range records {
		total += r.Minutes
	}
	return total
}
