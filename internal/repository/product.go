package repository

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"

	"unimarket/internal/cache"
	"unimarket/internal/models"
	"unimarket/internal/observability"

	"gorm.io/gorm"
)

// Sort orders accepted by ProductFilter.
const (
	SortNewest    = "newest"
	SortPriceAsc  = "price-asc"
	SortPriceDesc = "price-desc"
)

// ProductFilter describes one listing query. All predicate fields are optional;
// zero values mean "no constraint". Page and Limit must already be normalized
// by the caller (page >= 1, 1 <= limit <= 100).
type ProductFilter struct {
	Category      string
	MinPrice      *float64
	MaxPrice      *float64
	Condition     string
	Sizes         []string
	Colors        []string
	SubCategories []string
	Search        string
	SellerID      uint
	Status        string
	Sort          string
	Page          int
	Limit         int
}

// Fingerprint returns a short stable digest of the filter, used as a cache key
// component for listing pages.
func (f ProductFilter) Fingerprint() string {
	var b strings.Builder
	fmt.Fprintf(&b, "c=%s|cond=%s|s=%s|seller=%d|st=%s|sort=%s|p=%d|l=%d",
		f.Category, f.Condition, f.Search, f.SellerID, f.Status, f.Sort, f.Page, f.Limit)
	if f.MinPrice != nil {
		fmt.Fprintf(&b, "|min=%g", *f.MinPrice)
	}
	if f.MaxPrice != nil {
		fmt.Fprintf(&b, "|max=%g", *f.MaxPrice)
	}
	fmt.Fprintf(&b, "|sz=%s|col=%s|sub=%s",
		strings.Join(f.Sizes, ","), strings.Join(f.Colors, ","), strings.Join(f.SubCategories, ","))

	h := fnv.New64a()
	_, _ = h.Write([]byte(b.String()))
	return fmt.Sprintf("%x", h.Sum64())
}

// ProductRepository defines the interface for product data operations
type ProductRepository interface {
	Create(ctx context.Context, product *models.Product) error
	GetByID(ctx context.Context, id uint) (*models.Product, error)
	List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error)
	Featured(ctx context.Context, limit int) ([]*models.Product, error)
	Update(ctx context.Context, product *models.Product) error
	ReplaceImages(ctx context.Context, productID uint, images []models.ProductImage) error
	Delete(ctx context.Context, id uint) error
}

// productRepository implements ProductRepository
type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProductLists(ctx)
	cache.InvalidateFeatured(ctx)
	return nil
}

// GetByID reads Unscoped so soft-deleted products stay addressable by ID.
// Callers that must not see deleted rows check DeletedAt themselves.
func (r *productRepository) GetByID(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	err := r.applySaveCount(readDB(r.db).WithContext(ctx)).
		Unscoped().
		Preload("Seller").
		Preload("Category").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("position ASC")
		}).
		First(&product, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.NewNotFoundError("Product", id)
		}
		return nil, models.NewInternalError(err)
	}
	return &product, nil
}

// productPage is the cached shape of one listing page.
type productPage struct {
	Products []*models.Product `json:"products"`
	Total    int64             `json:"total"`
}

// List composes all filter predicates into a single WHERE, counts the matching
// rows before pagination, then fetches one page. Ordering always carries an
// id ASC tiebreak so pages are stable across requests. Pages are cached by the
// filter fingerprint; every product write invalidates them.
func (r *productRepository) List(ctx context.Context, filter ProductFilter) ([]*models.Product, int64, error) {
	ctx, span := observability.GetTraceLayer().TraceRepositoryMethod(ctx, "List", "products")
	defer span.End()

	var page productPage
	err := cache.Aside(ctx, cache.ProductListKey(filter.Fingerprint()), &page, cache.ProductListTTL, func() error {
		query := readDB(r.db).WithContext(ctx).Model(&models.Product{})
		query = r.applyFilter(query, filter)
		if err := query.Count(&page.Total).Error; err != nil {
			return models.NewInternalError(err)
		}

		return r.applySaveCount(r.applyFilter(readDB(r.db).WithContext(ctx), filter)).
			Preload("Seller").
			Preload("Category").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Order(orderClause(filter.Sort)).
			Limit(filter.Limit).
			Offset((filter.Page - 1) * filter.Limit).
			Find(&page.Products).Error
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) {
			return nil, 0, err
		}
		return nil, 0, models.NewInternalError(err)
	}
	if page.Products == nil {
		page.Products = []*models.Product{}
	}
	return page.Products, page.Total, nil
}

func orderClause(sort string) string {
	switch sort {
	case SortPriceAsc:
		return "price ASC, id ASC"
	case SortPriceDesc:
		return "price DESC, id ASC"
	default: // newest and anything unrecognized
		return "created_at DESC, id ASC"
	}
}

// applyFilter appends every predicate of the filter to the query. Soft-deleted
// rows are excluded implicitly by GORM's DeletedAt handling.
func (r *productRepository) applyFilter(db *gorm.DB, filter ProductFilter) *gorm.DB {
	if filter.SellerID != 0 {
		// Seller view ("my listings") includes sold items
		db = db.Where("seller_id = ?", filter.SellerID)
		if filter.Status != "" {
			db = db.Where("status = ?", filter.Status)
		}
	} else if filter.Status != "" {
		db = db.Where("status = ?", filter.Status)
	} else {
		db = db.Where("status = ?", models.ProductStatusAvailable)
	}

	if filter.Category != "" {
		db = db.Where("category_id IN (?)",
			r.db.Model(&models.Category{}).Select("id").Where("name = ?", filter.Category))
	}
	if filter.MinPrice != nil {
		db = db.Where("price >= ?", *filter.MinPrice)
	}
	if filter.MaxPrice != nil {
		db = db.Where("price <= ?", *filter.MaxPrice)
	}
	if filter.Condition != "" {
		db = db.Where("condition = ?", filter.Condition)
	}
	// Clothing attribute sets: OR within a set, AND across sets
	if len(filter.Sizes) > 0 {
		db = db.Where("size IN ?", filter.Sizes)
	}
	if len(filter.Colors) > 0 {
		db = db.Where("color IN ?", filter.Colors)
	}
	if len(filter.SubCategories) > 0 {
		db = db.Where("sub_category IN ?", filter.SubCategories)
	}
	if filter.Search != "" {
		db = db.Where("LOWER(name) LIKE LOWER(?)", "%"+filter.Search+"%")
	}
	return db
}

// applySaveCount selects the bookmark count alongside product columns.
func (r *productRepository) applySaveCount(db *gorm.DB) *gorm.DB {
	return db.Select("products.*, (SELECT COUNT(*) FROM saved_items WHERE saved_items.product_id = products.id) as save_count")
}

// Featured returns the most-saved available products. The list is cached per
// limit; product and saved-item writes invalidate it.
func (r *productRepository) Featured(ctx context.Context, limit int) ([]*models.Product, error) {
	if limit <= 0 {
		limit = 4
	}
	var products []*models.Product
	err := cache.Aside(ctx, cache.FeaturedListKey(limit), &products, cache.FeaturedTTL, func() error {
		return r.applySaveCount(readDB(r.db).WithContext(ctx)).
			Preload("Seller").
			Preload("Category").
			Preload("Images", func(db *gorm.DB) *gorm.DB {
				return db.Order("position ASC")
			}).
			Where("status = ?", models.ProductStatusAvailable).
			Order("save_count DESC, created_at DESC, id ASC").
			Limit(limit).
			Find(&products).Error
	})
	if err != nil {
		return nil, models.NewInternalError(err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

func (r *productRepository) Update(ctx context.Context, product *models.Product) error {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, product.ID)
	return nil
}

// ReplaceImages swaps the product's image set atomically.
func (r *productRepository) ReplaceImages(ctx context.Context, productID uint, images []models.ProductImage) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("product_id = ?", productID).Delete(&models.ProductImage{}).Error; err != nil {
			return err
		}
		for i := range images {
			images[i].ID = 0
			images[i].ProductID = productID
			images[i].Position = i
		}
		if len(images) == 0 {
			return nil
		}
		return tx.Create(&images).Error
	})
	if err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, productID)
	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uint) error {
	if err := r.db.WithContext(ctx).Delete(&models.Product{}, id).Error; err != nil {
		return models.NewInternalError(err)
	}
	cache.InvalidateProduct(ctx, id)
	return nil
}
