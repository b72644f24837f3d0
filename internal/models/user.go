package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type UserRole string

const (
	RoleAdmin   UserRole = "admin"
	RoleTeacher UserRole = "teacher"
	RoleStudent UserRole = "student"
)

type User struct {
	ID       uint     `json:"id" gorm:"primaryKey"`
	Username string   `json:"username" gorm:"uniqueIndex;not null;size:100" validate:"required,min=3,max=100"`
	Email    string   `json:"email" gorm:"uniqueIndex;not null;size:255" validate:"required,email"`
	Password string   `json:"-" gorm:"not null;size:255"`
	FullName string   `json:"full_name" gorm:"not null;size:100" validate:"required,max=100"`
	Role     UserRole `json:"role" gorm:"default:student;index" validate:"omitempty,user_role"`

	// Profile info
	Avatar      *string `json:"avatar" gorm:"size:500"`
	PhoneNumber *string `json:"phone_number" gorm:"size:20"`

	// Status
	IsActive    bool       `json:"is_active" gorm:"default:true"`
	LastLoginAt *time.Time `json:"last_login_at"`

	AdditionalInfo datatypes.JSON `json:"additional_info,omitempty" gorm:"type:jsonb"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-" gorm:"index"`
}

func (User) TableName() string {
	return "users"
}
