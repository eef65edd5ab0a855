package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// BuddyRepository manages Bio-Buddy listings.
type BuddyRepository interface {
	Create(ctx context.Context, buddy *models.BioBuddy) error
	GetByID(ctx context.Context, id uint) (models.BioBuddy, error)
	ListByStatus(ctx context.Context, status, course string) ([]models.BioBuddy, error)
	UpdateStatus(ctx context.Context, id uint, status string) error
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, keyword string) ([]models.BioBuddy, error)
}

type buddyRepository struct {
	db *gorm.DB
}

// NewBuddyRepository constructs a Bio-Buddy repository backed by GORM.
func NewBuddyRepository(db *gorm.DB) BuddyRepository {
	return &buddyRepository{db: db}
}

func (r *buddyRepository) Create(ctx context.Context, buddy *models.BioBuddy) error {
	return r.db.WithContext(ctx).Create(buddy).Error
}

func (r *buddyRepository) GetByID(ctx context.Context, id uint) (models.BioBuddy, error) {
	var buddy models.BioBuddy
	err := r.db.WithContext(ctx).First(&buddy, id).Error
	return buddy, err
}

// ListByStatus returns listings in the given state, newest first. An empty
// course matches every course.
func (r *buddyRepository) ListByStatus(ctx context.Context, status, course string) ([]models.BioBuddy, error) {
	query := r.db.WithContext(ctx).Model(&models.BioBuddy{}).Where("status = ?", status)
	if course = strings.TrimSpace(course); course != "" {
		query = query.Where("course = ?", course)
	}

	var items []models.BioBuddy
	if err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *buddyRepository) UpdateStatus(ctx context.Context, id uint, status string) error {
	result := r.db.WithContext(ctx).
		Model(&models.BioBuddy{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *buddyRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.BioBuddy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search matches approved listings by name, topic or description.
func (r *buddyRepository) Search(ctx context.Context, keyword string) ([]models.BioBuddy, error) {
	pattern := likePattern(keyword)
	var items []models.BioBuddy
	err := r.db.WithContext(ctx).
		Where("status = ?", models.BuddyStatusApproved).
		Where("LOWER(full_name) LIKE ? OR LOWER(research_topic) LIKE ? OR LOWER(description) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

func likePattern(keyword string) string {
	return "%" + strings.ToLower(strings.TrimSpace(keyword)) + "%"
}
