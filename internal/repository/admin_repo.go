package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// AdminRepository manages dashboard accounts.
type AdminRepository interface {
	Count(ctx context.Context) (int64, error)
	List(ctx context.Context) ([]models.Admin, error)
	GetByID(ctx context.Context, id string) (models.Admin, error)
	GetByUsername(ctx context.Context, username string) (models.Admin, error)
	UsernameTaken(ctx context.Context, username, excludeID string) (bool, error)
	Create(ctx context.Context, admin *models.Admin) error
	Update(ctx context.Context, id string, changes map[string]interface{}) error
	Delete(ctx context.Context, id string) error
}

type adminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an account repository backed by GORM.
func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(&models.Admin{}).Count(&total).Error
	return total, err
}

func (r *adminRepository) List(ctx context.Context) ([]models.Admin, error) {
	var items []models.Admin
	if err := r.db.WithContext(ctx).Order("username ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *adminRepository) GetByID(ctx context.Context, id string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&admin).Error
	return admin, err
}

func (r *adminRepository) GetByUsername(ctx context.Context, username string) (models.Admin, error) {
	var admin models.Admin
	err := r.db.WithContext(ctx).Where("username = ?", strings.TrimSpace(username)).First(&admin).Error
	return admin, err
}

// UsernameTaken reports whether another account already uses the username.
func (r *adminRepository) UsernameTaken(ctx context.Context, username, excludeID string) (bool, error) {
	query := r.db.WithContext(ctx).Model(&models.Admin{}).Where("username = ?", strings.TrimSpace(username))
	if excludeID != "" {
		query = query.Where("id <> ?", excludeID)
	}
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return false, err
	}
	return total > 0, nil
}

func (r *adminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

func (r *adminRepository) Update(ctx context.Context, id string, changes map[string]interface{}) error {
	if len(changes) == 0 {
		return nil
	}
	result := r.db.WithContext(ctx).Model(&models.Admin{}).Where("id = ?", id).Updates(changes)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *adminRepository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Admin{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
