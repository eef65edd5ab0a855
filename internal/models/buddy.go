package models

import (
	"time"

	"gorm.io/gorm"
)

// Buddy moderation states.
const (
	BuddyStatusPending  = "pending"
	BuddyStatusApproved = "approved"
)

// BioBuddy is a student's research-partner listing in the Bio-Buddy directory.
type BioBuddy struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	FullName        string    `gorm:"size:255;not null" json:"full_name"`
	StudentID       *string   `gorm:"size:64" json:"student_id"`
	Course          string    `gorm:"size:32;not null;index" json:"course"`
	Email           string    `gorm:"size:255;not null" json:"email"`
	Phone           *string   `gorm:"size:64" json:"phone"`
	ResearchTopic   string    `gorm:"size:255;not null" json:"research_topic"`
	ResearchField   *string   `gorm:"size:255" json:"research_field"`
	ResearchSubject *string   `gorm:"size:255" json:"research_subject"`
	Description     string    `gorm:"type:text;not null" json:"description"`
	Status          string    `gorm:"size:16;not null;index" json:"status"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
}

// BeforeCreate defaults new listings to the moderation queue.
func (b *BioBuddy) BeforeCreate(tx *gorm.DB) error {
	if b.Status == "" {
		b.Status = BuddyStatusPending
	}
	return nil
}
