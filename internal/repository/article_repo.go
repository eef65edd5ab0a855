package repository

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/noah-isme/bioscizone-api/internal/models"
)

// ArticleRepository manages article persistence operations.
type ArticleRepository interface {
	List(ctx context.Context, category string) ([]models.Article, error)
	GetByID(ctx context.Context, id uint) (models.Article, error)
	Create(ctx context.Context, article *models.Article) error
	Update(ctx context.Context, id uint, changes map[string]interface{}) (models.Article, error)
	Delete(ctx context.Context, id uint) error
	Search(ctx context.Context, keyword string) ([]models.Article, error)
	UpsertBatch(ctx context.Context, items []models.Article) (int64, error)
}

type articleRepository struct {
	db *gorm.DB
}

// NewArticleRepository constructs an article repository implementation.
func NewArticleRepository(db *gorm.DB) ArticleRepository {
	return &articleRepository{db: db}
}

func (r *articleRepository) List(ctx context.Context, category string) ([]models.Article, error) {
	query := r.db.WithContext(ctx).Model(&models.Article{})
	if category = strings.TrimSpace(category); category != "" {
		query = query.Where("category = ?", category)
	}

	var items []models.Article
	if err := query.Order("created_at DESC").Order("id DESC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *articleRepository) GetByID(ctx context.Context, id uint) (models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).First(&article, id).Error
	return article, err
}

func (r *articleRepository) Create(ctx context.Context, article *models.Article) error {
	return r.db.WithContext(ctx).Create(article).Error
}

// Update applies the column changes and returns the stored row.
func (r *articleRepository) Update(ctx context.Context, id uint, changes map[string]interface{}) (models.Article, error) {
	var article models.Article
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&article, id).Error; err != nil {
			return err
		}
		if len(changes) == 0 {
			return nil
		}
		if err := tx.Model(&article).Updates(changes).Error; err != nil {
			return err
		}
		return tx.First(&article, id).Error
	})
	return article, err
}

func (r *articleRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.Article{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// Search matches articles by title, content or author.
func (r *articleRepository) Search(ctx context.Context, keyword string) ([]models.Article, error) {
	pattern := likePattern(keyword)
	var items []models.Article
	err := r.db.WithContext(ctx).
		Where("LOWER(title) LIKE ? OR LOWER(content) LIKE ? OR LOWER(author) LIKE ?", pattern, pattern, pattern).
		Order("created_at DESC").
		Order("id DESC").
		Find(&items).Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// UpsertBatch inserts seed articles, overwriting rows whose id already exists.
func (r *articleRepository) UpsertBatch(ctx context.Context, items []models.Article) (int64, error) {
	if len(items) == 0 {
		return 0, nil
	}

	tx := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"category", "title", "content", "author", "external_link", "file_url", "publication_date", "updated_at"}),
	})

	result := tx.Create(&items)
	return result.RowsAffected, result.Error
}
