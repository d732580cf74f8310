package models

import (
	"time"
)

type UserType string

const (
	UserTypeAdmin  UserType = "admin"
	UserTypeCommon UserType = "common"
)

type User struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Username     string    `gorm:"uniqueIndex;not null;size:80" json:"username"`
	PasswordHash string    `gorm:"not null;size:255" json:"-"`
	UserType     UserType  `gorm:"not null;size:20;default:common" json:"user_type"`
	GroupID      uint      `gorm:"not null;index" json:"group_id"`
	Group        *Group    `gorm:"foreignKey:GroupID" json:"group,omitempty"`

	OvertimeRecords []Overtime   `gorm:"foreignKey:UserID" json:"overtime_records,omitempty"`
	ManagedGroups   []AdminGroup `gorm:"foreignKey:AdminID" json:"-"`
}

func (u *User) IsAdmin() bool {
	return u.UserType == UserTypeAdmin
}
