package dto

import (
	"strings"
	"time"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// MessageResponse is the acknowledgement body returned by mutations without a resource payload.
type MessageResponse struct {
	Message string `json:"message"`
}

// BuddySubmitRequest is the public Bio-Buddy listing form.
type BuddySubmitRequest struct {
	FullName        string  `json:"full_name" validate:"required,max=255"`
	StudentID       *string `json:"student_id" validate:"omitempty,max=64"`
	Course          string  `json:"course" validate:"required,max=32"`
	Email           string  `json:"email" validate:"required,email,max=255"`
	Phone           *string `json:"phone" validate:"omitempty,max=64"`
	ResearchTopic   string  `json:"research_topic" validate:"required,max=255"`
	ResearchField   *string `json:"research_field" validate:"omitempty,max=255"`
	ResearchSubject *string `json:"research_subject" validate:"omitempty,max=255"`
	Description     string  `json:"description" validate:"required,max=5000"`
}

// BuddyResponse represents a Bio-Buddy listing.
type BuddyResponse struct {
	ID              uint      `json:"id"`
	FullName        string    `json:"full_name"`
	StudentID       *string   `json:"student_id"`
	Course          string    `json:"course"`
	Email           string    `json:"email"`
	Phone           *string   `json:"phone"`
	ResearchTopic   string    `json:"research_topic"`
	ResearchField   *string   `json:"research_field"`
	ResearchSubject *string   `json:"research_subject"`
	Description     string    `json:"description"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewBuddyResponse converts the persisted listing.
func NewBuddyResponse(buddy models.BioBuddy) BuddyResponse {
	return BuddyResponse{
		ID:              buddy.ID,
		FullName:        buddy.FullName,
		StudentID:       buddy.StudentID,
		Course:          buddy.Course,
		Email:           buddy.Email,
		Phone:           buddy.Phone,
		ResearchTopic:   buddy.ResearchTopic,
		ResearchField:   buddy.ResearchField,
		ResearchSubject: buddy.ResearchSubject,
		Description:     buddy.Description,
		Status:          buddy.Status,
		CreatedAt:       buddy.CreatedAt,
	}
}

// NewBuddyResponses converts a slice of listings, never returning nil.
func NewBuddyResponses(items []models.BioBuddy) []BuddyResponse {
	responses := make([]BuddyResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewBuddyResponse(item))
	}
	return responses
}

// ArticleResponse represents an article payload.
type ArticleResponse struct {
	ID              uint      `json:"id"`
	Category        string    `json:"category"`
	Title           string    `json:"title"`
	Content         *string   `json:"content"`
	Author          *string   `json:"author"`
	ExternalLink    *string   `json:"external_link"`
	FileURL         *string   `json:"file_url"`
	PublicationDate *string   `json:"publication_date"`
	CreatedAt       time.Time `json:"created_at"`
}

// NewArticleResponse converts the persisted article.
func NewArticleResponse(article models.Article) ArticleResponse {
	return ArticleResponse{
		ID:              article.ID,
		Category:        article.Category,
		Title:           article.Title,
		Content:         article.Content,
		Author:          article.Author,
		ExternalLink:    article.ExternalLink,
		FileURL:         article.FileURL,
		PublicationDate: article.PublicationDate,
		CreatedAt:       article.CreatedAt,
	}
}

// NewArticleResponses converts a slice of articles, never returning nil.
func NewArticleResponses(items []models.Article) []ArticleResponse {
	responses := make([]ArticleResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, NewArticleResponse(item))
	}
	return responses
}

// LabResponse represents a research lab.
type LabResponse struct {
	ID            uint    `json:"id"`
	Name          string  `json:"name"`
	LeadName      *string `json:"lead_name"`
	Email         *string `json:"email"`
	Phone         *string `json:"phone"`
	ResearchAreas *string `json:"research_areas"`
}

// NewLabResponses converts persisted labs.
func NewLabResponses(items []models.Lab) []LabResponse {
	responses := make([]LabResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, LabResponse{
			ID:            item.ID,
			Name:          item.Name,
			LeadName:      item.LeadName,
			Email:         item.Email,
			Phone:         item.Phone,
			ResearchAreas: item.ResearchAreas,
		})
	}
	return responses
}

// SearchResponse groups global search hits.
type SearchResponse struct {
	Buddies  []BuddyResponse   `json:"buddies"`
	Articles []ArticleResponse `json:"articles"`
}

// FeedbackRequest is the public contact form payload.
type FeedbackRequest struct {
	SenderName string  `json:"sender_name" validate:"required,max=255"`
	Email      string  `json:"email" validate:"required,email,max=255"`
	StudentID  *string `json:"student_id" validate:"omitempty,max=64"`
	Subject    string  `json:"subject" validate:"required,max=255"`
	Message    string  `json:"message" validate:"required,max=5000"`
	Honeypot   string  `json:"_note"`
}

// FeedbackResponse represents a stored feedback message.
type FeedbackResponse struct {
	ID         uint      `json:"id"`
	SenderName string    `json:"sender_name"`
	Email      string    `json:"email"`
	StudentID  *string   `json:"student_id"`
	Subject    string    `json:"subject"`
	Message    string    `json:"message"`
	IsRead     int       `json:"is_read"`
	CreatedAt  time.Time `json:"created_at"`
}

// Read reports whether an admin has marked the message as read.
func (f FeedbackResponse) Read() bool {
	return f.IsRead != 0
}

// NewFeedbackResponses converts stored feedback.
func NewFeedbackResponses(items []models.Feedback) []FeedbackResponse {
	responses := make([]FeedbackResponse, 0, len(items))
	for _, item := range items {
		responses = append(responses, FeedbackResponse{
			ID:         item.ID,
			SenderName: item.SenderName,
			Email:      item.Email,
			StudentID:  item.StudentID,
			Subject:    item.Subject,
			Message:    item.Message,
			IsRead:     item.IsRead,
			CreatedAt:  item.CreatedAt,
		})
	}
	return responses
}

// TrimOptional trims the referenced string and drops it when empty.
func TrimOptional(value *string) *string {
	if value == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}
