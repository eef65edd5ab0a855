package models

import (
	"time"

	"gorm.io/datatypes"
)

// AuditLog captures an auditable mutation performed by an administrator.
type AuditLog struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	AdminUsername string            `gorm:"size:128;not null;index" json:"admin_username"`
	Action        string            `gorm:"size:32;not null" json:"action"`
	EntityType    string            `gorm:"size:64;not null" json:"entity_type"`
	EntityID      *string           `gorm:"size:64" json:"entity_id"`
	Details       datatypes.JSONMap `gorm:"type:json" json:"details"`
	CreatedAt     time.Time         `gorm:"index" json:"created_at"`
}
