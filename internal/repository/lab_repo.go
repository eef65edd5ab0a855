package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// LabRepository reads and seeds research labs.
type LabRepository interface {
	List(ctx context.Context) ([]models.Lab, error)
	UpsertBatch(ctx context.Context, items []models.Lab) (int64, error)
}

type labRepository struct {
	db *gorm.DB
}

// NewLabRepository constructs a lab repository.
func NewLabRepository(db *gorm.DB) LabRepository {
	return &labRepository{db: db}
}

func (r *labRepository) List(ctx context.Context) ([]models.Lab, error) {
	var items []models.Lab
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *labRepository) UpsertBatch(ctx context.Context, items []models.Lab) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"lead_name", "email", "phone", "research_areas"}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
