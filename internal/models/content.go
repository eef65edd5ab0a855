package models

import (
	"strings"
	"time"
)

// Article categories accepted by the content repository.
const (
	CategoryNews          = "news"
	CategoryAchievement   = "achievement"
	CategoryMagazine      = "magazine"
	CategoryScienceCorner = "science_corner"
	CategoryResource      = "resource"
	CategoryBioInfo       = "bio_info"
)

// ArticleCategories lists every valid article category.
var ArticleCategories = []string{
	CategoryNews,
	CategoryAchievement,
	CategoryMagazine,
	CategoryScienceCorner,
	CategoryResource,
	CategoryBioInfo,
}

// IsArticleCategory reports whether the value names a known category.
func IsArticleCategory(value string) bool {
	value = strings.TrimSpace(value)
	for _, category := range ArticleCategories {
		if category == value {
			return true
		}
	}
	return false
}

// Article is a news item, achievement, magazine issue or resource published by admins.
type Article struct {
	ID              uint      `gorm:"primaryKey" json:"id"`
	Category        string    `gorm:"size:32;not null;index" json:"category"`
	Title           string    `gorm:"size:255;not null" json:"title"`
	Content         *string   `gorm:"type:text" json:"content"`
	Author          *string   `gorm:"size:255" json:"author"`
	ExternalLink    *string   `gorm:"size:512" json:"external_link"`
	FileURL         *string   `gorm:"size:512" json:"file_url"`
	PublicationDate *string   `gorm:"size:64" json:"publication_date"`
	CreatedAt       time.Time `gorm:"index" json:"created_at"`
	UpdatedAt       time.Time `json:"-"`
}

// Lab describes a research laboratory of the department.
type Lab struct {
	ID            uint    `gorm:"primaryKey" json:"id"`
	Name          string  `gorm:"size:255;not null;uniqueIndex" json:"name"`
	LeadName      *string `gorm:"size:255" json:"lead_name"`
	Email         *string `gorm:"size:255" json:"email"`
	Phone         *string `gorm:"size:64" json:"phone"`
	ResearchAreas *string `gorm:"type:text" json:"research_areas"`
}

// UploadRecord stores metadata about uploaded files.
type UploadRecord struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	UploadedBy string    `gorm:"size:128;index" json:"uploaded_by"`
	FileName   string    `gorm:"size:255;not null" json:"file_name"`
	URL        string    `gorm:"size:512;not null" json:"url"`
	MimeType   string    `gorm:"size:128;not null" json:"mime_type"`
	SizeBytes  int64     `gorm:"not null" json:"size_bytes"`
	Checksum   string    `gorm:"size:128;index" json:"checksum"`
	CreatedAt  time.Time `json:"created_at"`
}
