package dto

import (
	"time"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// LoginRequest carries form-encoded dashboard credentials.
type LoginRequest struct {
	Username string `form:"username" json:"username" validate:"required"`
	Password string `form:"password" json:"password" validate:"required"`
}

// TokenResponse is the bearer token issued on login.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// MeResponse describes the authenticated admin.
type MeResponse struct {
	Username string `json:"username"`
	Role     string `json:"role"`
}

// RegistrationStatusResponse reports whether self-registration is open.
type RegistrationStatusResponse struct {
	Enabled bool `json:"enabled"`
}

// RegisterRequest is the self-service registration query.
type RegisterRequest struct {
	Username string `query:"username" validate:"required,min=3,max=128"`
	Password string `query:"password" validate:"required,min=6,max=72"`
	Role     string `query:"role" validate:"omitempty,oneof=admin superadmin"`
}

// ArticleCreateRequest is the admin payload for publishing an article.
type ArticleCreateRequest struct {
	Category        string  `json:"category" validate:"required,oneof=news achievement magazine science_corner resource bio_info"`
	Title           string  `json:"title" validate:"required,max=255"`
	Content         *string `json:"content"`
	Author          *string `json:"author" validate:"omitempty,max=255"`
	ExternalLink    *string `json:"external_link" validate:"omitempty,max=512"`
	FileURL         *string `json:"file_url" validate:"omitempty,max=512"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,max=64"`
}

// ArticleUpdateRequest is a partial article update; nil fields are left untouched.
type ArticleUpdateRequest struct {
	Category        *string `json:"category" validate:"omitempty,oneof=news achievement magazine science_corner resource bio_info"`
	Title           *string `json:"title" validate:"omitempty,min=1,max=255"`
	Content         *string `json:"content"`
	Author          *string `json:"author" validate:"omitempty,max=255"`
	ExternalLink    *string `json:"external_link" validate:"omitempty,max=512"`
	FileURL         *string `json:"file_url" validate:"omitempty,max=512"`
	PublicationDate *string `json:"publication_date" validate:"omitempty,max=64"`
}

// IsEmpty reports whether the update carries no changes.
func (r ArticleUpdateRequest) IsEmpty() bool {
	return r.Category == nil && r.Title == nil && r.Content == nil && r.Author == nil &&
		r.ExternalLink == nil && r.FileURL == nil && r.PublicationDate == nil
}

// AdminCreateRequest creates a dashboard account.
type AdminCreateRequest struct {
	Username string `json:"username" validate:"required,min=3,max=128"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

// AdminUpdateRequest is a partial account update.
type AdminUpdateRequest struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=128"`
	Password *string `json:"password" validate:"omitempty,min=6,max=72"`
	Role     *string `json:"role" validate:"omitempty,oneof=admin superadmin"`
}

// AdminResponse serialises an account without its credentials.
type AdminResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// NewAdminResponse converts a persisted account.
func NewAdminResponse(admin models.Admin) AdminResponse {
	return AdminResponse{ID: admin.ID, Username: admin.Username, Role: admin.Role}
}

// SettingUpdateRequest sets a system setting value.
type SettingUpdateRequest struct {
	Value string `json:"value" validate:"max=1024"`
}

// SettingResponse represents a system setting.
type SettingResponse struct {
	Key       string     `json:"key"`
	Value     string     `json:"value"`
	UpdatedAt *time.Time `json:"updated_at"`
	UpdatedBy *string    `json:"updated_by"`
}

// NewSettingResponse converts a persisted setting.
func NewSettingResponse(setting models.SystemSetting) SettingResponse {
	return SettingResponse{
		Key:       setting.Key,
		Value:     setting.Value,
		UpdatedAt: setting.UpdatedAt,
		UpdatedBy: setting.UpdatedBy,
	}
}

// AuditLogResponse represents an audit trail entry.
type AuditLogResponse struct {
	ID            uint                   `json:"id"`
	AdminUsername string                 `json:"admin_username"`
	Action        string                 `json:"action"`
	EntityType    string                 `json:"entity_type"`
	EntityID      *string                `json:"entity_id"`
	Details       map[string]interface{} `json:"details"`
	CreatedAt     time.Time              `json:"created_at"`
}

// NewAuditLogResponse converts a persisted audit entry.
func NewAuditLogResponse(entry models.AuditLog) AuditLogResponse {
	var details map[string]interface{}
	if len(entry.Details) > 0 {
		details = make(map[string]interface{}, len(entry.Details))
		for key, value := range entry.Details {
			details[key] = value
		}
	}
	return AuditLogResponse{
		ID:            entry.ID,
		AdminUsername: entry.AdminUsername,
		Action:        entry.Action,
		EntityType:    entry.EntityType,
		EntityID:      entry.EntityID,
		Details:       details,
		CreatedAt:     entry.CreatedAt,
	}
}

// UploadResponse summarises a stored upload.
type UploadResponse struct {
	URL       string `json:"url"`
	SizeBytes int64  `json:"size_bytes"`
	MimeType  string `json:"mime_type"`
	Checksum  string `json:"checksum"`
	FileName  string `json:"file_name"`
}
