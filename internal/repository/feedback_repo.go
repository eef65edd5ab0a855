package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// FeedbackRepository persists contact form messages.
type FeedbackRepository interface {
	Create(ctx context.Context, feedback *models.Feedback) error
	List(ctx context.Context) ([]models.Feedback, error)
	MarkRead(ctx context.Context, id uint) error
	Delete(ctx context.Context, id uint) error
}

type feedbackRepository struct {
	db *gorm.DB
}

// NewFeedbackRepository constructs a repository backed by GORM.
func NewFeedbackRepository(db *gorm.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(ctx context.Context, feedback *models.Feedback) error {
	return r.db.WithContext(ctx).Create(feedback).Error
}

func (r *feedbackRepository) List(ctx context.Context) ([]models.Feedback, error) {
	var items []models.Feedback
	if err := r.db.WithContext(ctx).Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// MarkRead flags the message as read. Marking an already-read message succeeds.
func (r *feedbackRepository) MarkRead(ctx context.Context, id uint) error {
	var feedback models.Feedback
	if err := r.db.WithContext(ctx).Select("id", "is_read").First(&feedback, id).Error; err != nil {
		return err
	}
	if feedback.IsRead == 1 {
		return nil
	}
	return r.db.WithContext(ctx).
		Model(&models.Feedback{}).
		Where("id = ?", id).
		Update("is_read", 1).
		Error
}

func (r *feedbackRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Feedback{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
