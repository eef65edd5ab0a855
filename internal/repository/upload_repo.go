package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// UploadRepository persists metadata about uploaded files.
type UploadRepository interface {
	Create(ctx context.Context, record *models.UploadRecord) error
	FindByChecksum(ctx context.Context, checksum string) (*models.UploadRecord, error)
}

type uploadRepository struct {
	db *gorm.DB
}

// NewUploadRepository constructs a repository for upload records.
func NewUploadRepository(db *gorm.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(ctx context.Context, record *models.UploadRecord) error {
	return r.db.WithContext(ctx).Create(record).Error
}

// FindByChecksum returns a previous upload with identical content, or nil.
func (r *uploadRepository) FindByChecksum(ctx context.Context, checksum string) (*models.UploadRecord, error) {
	var record models.UploadRecord
	err := r.db.WithContext(ctx).Where("checksum = ?", checksum).Order("id ASC").First(&record).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}
