package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// SettingRepository stores key/value system settings.
type SettingRepository interface {
	List(ctx context.Context) ([]models.SystemSetting, error)
	Get(ctx context.Context, key string) (models.SystemSetting, error)
	Upsert(ctx context.Context, key, value, updatedBy string) (models.SystemSetting, error)
}

type settingRepository struct {
	db *gorm.DB
}

// NewSettingRepository constructs a setting repository.
func NewSettingRepository(db *gorm.DB) SettingRepository {
	return &settingRepository{db: db}
}

func (r *settingRepository) List(ctx context.Context) ([]models.SystemSetting, error) {
	var items []models.SystemSetting
	if err := r.db.WithContext(ctx).Order(clause.OrderByColumn{Column: clause.Column{Name: "key"}}).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *settingRepository) Get(ctx context.Context, key string) (models.SystemSetting, error) {
	var setting models.SystemSetting
	err := r.db.WithContext(ctx).Where(&models.SystemSetting{Key: key}).First(&setting).Error
	return setting, err
}

func (r *settingRepository) Upsert(ctx context.Context, key, value, updatedBy string) (models.SystemSetting, error) {
	now := time.Now().UTC()
	setting := models.SystemSetting{Key: key, Value: value, UpdatedAt: &now}
	if updatedBy != "" {
		setting.UpdatedBy = &updatedBy
	}

	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at", "updated_by"}),
	}).Create(&setting).Error
	if err != nil {
		return models.SystemSetting{}, err
	}
	return setting, nil
}
