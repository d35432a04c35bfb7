package repository

import (
	"context"

	"unimarket/internal/cache"
	"unimarket/internal/models"

	"gorm.io/gorm"
)

// SavedItemRepository defines persistence operations for saved products.
type SavedItemRepository interface {
	IsSaved(ctx context.Context, userID, productID uint) (bool, error)
	Save(ctx context.Context, userID, productID uint) error
	Unsave(ctx context.Context, userID, productID uint) error
	ListByUser(ctx context.Context, userID uint) ([]models.SavedItem, error)
	GetSavedProductIDs(ctx context.Context, userID uint, productIDs []uint) ([]uint, error)
}

type savedItemRepository struct {
	db *gorm.DB
}

// NewSavedItemRepository returns a new SavedItemRepository implementation.
func NewSavedItemRepository(db *gorm.DB) SavedItemRepository {
	return &savedItemRepository{db: db}
}

func (r *savedItemRepository) IsSaved(ctx context.Context, userID, productID uint) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&models.SavedItem{}).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Count(&count).Error; err != nil {
		return false, models.NewInternalError(err)
	}
	return count > 0, nil
}

// Save inserts the (user, product) pair. ON CONFLICT DO NOTHING makes the
// concurrent duplicate-create race collapse into a single row: the losing
// insert affects zero rows and is not an error.
func (r *savedItemRepository) Save(ctx context.Context, userID, productID uint) error {
	result := r.db.WithContext(ctx).Exec(
		`INSERT INTO saved_items (user_id, product_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	)
	if result.Error != nil {
		return models.NewInternalError(result.Error)
	}
	// save_count is embedded in cached product payloads, not just featured
	cache.InvalidateProduct(ctx, productID)
	return nil
}

func (r *savedItemRepository) Unsave(ctx context.Context, userID, productID uint) error {
	err := r.db.WithContext(ctx).
		Where("user_id = ? AND product_id = ?", userID, productID).
		Delete(&models.SavedItem{}).Error
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, productID)
	return nil
}

func (r *savedItemRepository) ListByUser(ctx context.Context, userID uint) ([]models.SavedItem, error) {
	var items []models.SavedItem
	err := readDB(r.db).WithContext(ctx).
		Preload("Product").
		Preload("Product.Seller").
		Preload("Product.Category").
		Preload("Product.Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&items).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return items, nil
}

func (r *savedItemRepository) GetSavedProductIDs(ctx context.Context, userID uint, productIDs []uint) ([]uint, error) {
	if len(productIDs) == 0 {
		return nil, nil
	}
	var savedIDs []uint
	err := r.db.WithContext(ctx).
		Model(&models.SavedItem{}).
		Where("user_id = ? AND product_id IN ?", userID, productIDs).
		Pluck("product_id", &savedIDs).Error
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	return savedIDs, nil
}
