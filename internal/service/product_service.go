package service

import (
	"context"
	"fmt"
	"strings"

	"unimarket/internal/models"
	"unimarket/internal/repository"
)

// ProductPolicy carries the listing validation bounds from configuration.
type ProductPolicy struct {
	MaxListingPrice  float64
	MinProductImages int
	MaxProductImages int
}

type ProductService struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	policy       ProductPolicy
}

type CreateProductInput struct {
	SellerID    uint
	Name        string
	Description string
	Price       float64
	Condition   string
	Location    string
	Size        string
	Color       string
	SubCategory string
	CategoryID  uint
	ImageURLs   []string
}

// UpdateProductInput uses pointers so callers can distinguish "leave alone"
// from "set to the zero value".
type UpdateProductInput struct {
	UserID      uint
	ProductID   uint
	Name        *string
	Description *string
	Price       *float64
	Condition   *string
	Status      *string
	Location    *string
	Size        *string
	Color       *string
	SubCategory *string
	CategoryID  *uint
	ImageURLs   []string
}

func NewProductService(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	policy ProductPolicy,
) *ProductService {
	return &ProductService{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		policy:       policy,
	}
}

func (s *ProductService) validateListing(name string, price float64, condition string) error {
	if strings.TrimSpace(name) == "" {
		return models.NewValidationError("Product name is required")
	}
	if len(name) > 200 {
		return models.NewValidationError("Product name too long (max 200 characters)")
	}
	if price < 0 {
		return models.NewValidationError("Price cannot be negative")
	}
	if s.policy.MaxListingPrice > 0 && price > s.policy.MaxListingPrice {
		return models.NewValidationError(fmt.Sprintf("Price cannot exceed %.0f", s.policy.MaxListingPrice))
	}
	if !models.ValidCondition(condition) {
		return models.NewValidationError("Condition must be one of: " + strings.Join(models.ProductConditions, ", "))
	}
	return nil
}

func (s *ProductService) validateImageCount(n int) error {
	if n < s.policy.MinProductImages {
		return models.NewValidationError(fmt.Sprintf("At least %d product image(s) required", s.policy.MinProductImages))
	}
	if n > s.policy.MaxProductImages {
		return models.NewValidationError(fmt.Sprintf("At most %d product images allowed", s.policy.MaxProductImages))
	}
	return nil
}

func (s *ProductService) CreateProduct(ctx context.Context, in CreateProductInput) (*models.Product, error) {
	if err := s.validateListing(in.Name, in.Price, in.Condition); err != nil {
		return nil, err
	}
	if err := s.validateImageCount(len(in.ImageURLs)); err != nil {
		return nil, err
	}

	category, err := s.categoryRepo.GetByID(ctx, in.CategoryID)
	if err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:        strings.TrimSpace(in.Name),
		Description: in.Description,
		Price:       in.Price,
		Condition:   in.Condition,
		Status:      models.ProductStatusAvailable,
		Location:    in.Location,
		SellerID:    in.SellerID,
		CategoryID:  category.ID,
	}
	// Clothing attributes only carry meaning inside the Clothing category
	if category.Name == models.ClothingCategory {
		product.Size = in.Size
		product.Color = in.Color
		product.SubCategory = in.SubCategory
	}
	for i, url := range in.ImageURLs {
		product.Images = append(product.Images, models.ProductImage{URL: url, Position: i})
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, product.ID)
}

func (s *ProductService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.productRepo.GetByID(ctx, id)
}

// ListProducts normalizes pagination and rejects inverted price windows
// before delegating to the repository.
func (s *ProductService) ListProducts(ctx context.Context, filter repository.ProductFilter) ([]*models.Product, int64, error) {
	if filter.MinPrice != nil && filter.MaxPrice != nil && *filter.MinPrice > *filter.MaxPrice {
		return nil, 0, models.NewValidationError("minPrice cannot exceed maxPrice")
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	return s.productRepo.List(ctx, filter)
}

func (s *ProductService) FeaturedProducts(ctx context.Context, limit int) ([]*models.Product, error) {
	return s.productRepo.Featured(ctx, limit)
}

func (s *ProductService) UpdateProduct(ctx context.Context, in UpdateProductInput) (*models.Product, error) {
	product, err := s.productRepo.GetByID(ctx, in.ProductID)
	if err != nil {
		return nil, err
	}
	if product.DeletedAt.Valid {
		return nil, models.NewNotFoundError("Product", in.ProductID)
	}
	if product.SellerID != in.UserID {
		return nil, models.NewForbiddenError("You can only update your own listings")
	}

	if in.Name != nil {
		product.Name = strings.TrimSpace(*in.Name)
	}
	if in.Description != nil {
		product.Description = *in.Description
	}
	if in.Price != nil {
		product.Price = *in.Price
	}
	if in.Condition != nil {
		product.Condition = *in.Condition
	}
	if in.Status != nil {
		if !models.ValidStatus(*in.Status) {
			return nil, models.NewValidationError("Status must be 'available' or 'sold'")
		}
		product.Status = *in.Status
	}
	if in.Location != nil {
		product.Location = *in.Location
	}
	categoryName := ""
	if product.Category != nil {
		categoryName = product.Category.Name
	}
	if in.CategoryID != nil {
		category, err := s.categoryRepo.GetByID(ctx, *in.CategoryID)
		if err != nil {
			return nil, err
		}
		product.CategoryID = category.ID
		categoryName = category.Name
	}
	// Clothing attributes only carry meaning inside the Clothing category,
	// on update as on create. Leaving Clothing drops them.
	if categoryName == models.ClothingCategory {
		if in.Size != nil {
			product.Size = *in.Size
		}
		if in.Color != nil {
			product.Color = *in.Color
		}
		if in.SubCategory != nil {
			product.SubCategory = *in.SubCategory
		}
	} else {
		product.Size = ""
		product.Color = ""
		product.SubCategory = ""
	}

	if err := s.validateListing(product.Name, product.Price, product.Condition); err != nil {
		return nil, err
	}

	if in.ImageURLs != nil {
		if err := s.validateImageCount(len(in.ImageURLs)); err != nil {
			return nil, err
		}
		images := make([]models.ProductImage, len(in.ImageURLs))
		for i, url := range in.ImageURLs {
			images[i] = models.ProductImage{URL: url}
		}
		if err := s.productRepo.ReplaceImages(ctx, in.ProductID, images); err != nil {
			return nil, err
		}
	}

	// Strip preloaded associations so Save only touches the product row
	product.Seller = nil
	product.Category = nil
	product.Images = nil
	product.SaveCount = 0
	if err := s.productRepo.Update(ctx, product); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, in.ProductID)
}

func (s *ProductService) DeleteProduct(ctx context.Context, userID, productID uint) error {
	product, err := s.productRepo.GetByID(ctx, productID)
	if err != nil {
		return err
	}
	if product.DeletedAt.Valid {
		return models.NewNotFoundError("Product", productID)
	}
	if product.SellerID != userID {
		return models.NewForbiddenError("You can only delete your own listings")
	}
	return s.productRepo.Delete(ctx, productID)
}
