package models

import (
	"time"
)

// AdminGroup maps which groups an admin user may view and manage.
// A given (admin, group) pair is unique.
type AdminGroup struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	AdminID   uint      `gorm:"not null;uniqueIndex:idx_admin_group" json:"admin_id"`
	Admin     *User     `gorm:"foreignKey:AdminID" json:"admin,omitempty"`
	GroupID   uint      `gorm:"not null;uniqueIndex:idx_admin_group" json:"group_id"`
	Group     *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`
}
