package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin roles.
const (
	RoleAdmin      = "admin"
	RoleSuperadmin = "superadmin"
)

// SettingRegistrationEnabled gates self-service admin registration.
const SettingRegistrationEnabled = "registration_enabled"

// Admin is a dashboard account.
type Admin struct {
	ID             string    `gorm:"primaryKey;size:36" json:"id"`
	Username       string    `gorm:"size:128;not null;uniqueIndex" json:"username"`
	HashedPassword string    `gorm:"size:255;not null" json:"-"`
	Role           string    `gorm:"size:32;not null;default:admin" json:"role"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"-"`
}

// BeforeCreate assigns a UUID when none was provided.
func (a *Admin) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Role == "" {
		a.Role = RoleAdmin
	}
	return nil
}

// SystemSetting is a key/value runtime flag managed by superadmins.
type SystemSetting struct {
	Key       string     `gorm:"primaryKey;size:128" json:"key"`
	Value     string     `gorm:"type:text;not null" json:"value"`
	UpdatedAt *time.Time `json:"updated_at"`
	UpdatedBy *string    `gorm:"size:128" json:"updated_by"`
}
