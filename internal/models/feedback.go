package models

import "time"

// Feedback is a message sent through the public contact form.
type Feedback struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderName string    `gorm:"size:255;not null" json:"sender_name"`
	Email      string    `gorm:"size:255;not null" json:"email"`
	StudentID  *string   `gorm:"size:64" json:"student_id"`
	Subject    string    `gorm:"size:255;not null" json:"subject"`
	Message    string    `gorm:"type:text;not null" json:"message"`
	IsRead     int       `gorm:"not null;default:0" json:"is_read"`
	Checksum   string    `gorm:"size:128;index" json:"-"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`
}
