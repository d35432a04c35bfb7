package repository

import (
	"context"
	"errors"

	"unimarket/internal/models"

	"gorm.io/gorm"
)

// CommentRepository defines persistence operations for product comments.
type CommentRepository interface {
	Create(ctx context.Context, comment *models.ProductComment) error
	GetByID(ctx context.Context, id uint) (*models.ProductComment, error)
	ListByProduct(ctx context.Context, productID uint) ([]models.ProductComment, error)
	Delete(ctx context.Context, id uint) error
}

type commentRepository struct {
	db *gorm.DB
}

// NewCommentRepository returns a new CommentRepository implementation.
func NewCommentRepository(db *gorm.DB) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *models.ProductComment) error {
	if err := r.db.WithContext(ctx).Create(comment).Error; err != nil {
		return models.NewInternalError(err)
	}
	if err := r.db.WithContext(ctx).Preload("Author").First(comment, comment.ID).Error; err != nil {
		return models.NewInternalError(err)
	}
	return nil
}

func (r *commentRepository) GetByID(ctx context.Context, id uint) (*models.ProductComment, error) {
	var comment models.ProductComment
	if err := readDB(r.db).WithContext(ctx).Preload("Author").First(&comment, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Comment", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &comment, nil
}

func (r *commentRepository) ListByProduct(ctx context.Context, productID uint) ([]models.ProductComment, error) {
	var comments []models.ProductComment
	err := readDB(r.db).WithContext(ctx).
		Where("product_id = ?", productID).
		Preload("Author").
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return comments, nil
}

func (r *commentRepository) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).Delete(&models.ProductComment{}, id)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	if result.RowsAffected == 0 {
		return models.NewNotFoundError("Comment", id)
	}
	return nil
}
