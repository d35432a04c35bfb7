package server

import (
	"strconv"
	"strings"

	"unimarket/internal/models"
	"unimarket/internal/repository"
	"unimarket/internal/service"

	"github.com/gofiber/fiber/v2"
)

// ProductListResponse is the paginated envelope for product listings.
type ProductListResponse struct {
	Products     []*models.Product `json:"products"`
	Page         int               `json:"page"`
	Limit        int               `json:"limit"`
	TotalPages   int               `json:"totalPages"`
	TotalResults int64             `json:"totalResults"`
}

// GetProducts handles GET /api/products
// @Summary Browse products
// @Description List products with optional filters (category, price range, condition, clothing attributes, search, seller, sort)
// @Tags products
// @Produce json
// @Param category query string false "Category name"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param condition query string false "Product condition"
// @Param sizes query string false "Clothing sizes (comma-separated)"
// @Param colors query string false "Clothing colors (comma-separated)"
// @Param subCategories query string false "Clothing sub-categories (comma-separated)"
// @Param search query string false "Case-insensitive name search"
// @Param sellerId query integer false "Filter by seller"
// @Param sortBy query string false "newest | price-asc | price-desc"
// @Param page query integer false "Page number (1-based)"
// @Param limit query integer false "Page size (max 100)"
// @Success 200 {object} ProductListResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /products [get]
func (s *Server) GetProducts(c *fiber.Ctx) error {
	filter, err := s.parseProductFilter(c)
	if err != nil {
		return nil
	}

	// Normalize here too so the response envelope echoes the effective page
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit <= 0 {
		filter.Limit = 20
	}
	if filter.Limit > maxPaginationLimit {
		filter.Limit = maxPaginationLimit
	}

	products, total, err := s.productService.ListProducts(c.Context(), filter)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(buildProductListResponse(products, total, filter.Page, filter.Limit))
}

// GetFeaturedProducts handles GET /api/products/featured
func (s *Server) GetFeaturedProducts(c *fiber.Ctx) error {
	limit, err := s.parseOptionalPositiveInt(c, "limit")
	if err != nil {
		return nil
	}

	products, err := s.productService.FeaturedProducts(c.Context(), limit)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{"products": products})
}

// GetProduct handles GET /api/products/:id
func (s *Server) GetProduct(c *fiber.Ctx) error {
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	product, err := s.productService.GetProduct(c.Context(), id)
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(product)
}

// CreateProduct handles POST /api/products
// @Summary Create a product listing
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body object{name=string,description=string,price=number,condition=string,location=string,categoryId=integer,images=[]string} true "New listing"
// @Success 201 {object} models.Product
// @Failure 400 {object} models.ErrorResponse
// @Router /products [post]
func (s *Server) CreateProduct(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)

	var req struct {
		Name        string   `json:"name"`
		Description string   `json:"description"`
		Price       float64  `json:"price"`
		Condition   string   `json:"condition"`
		Location    string   `json:"location"`
		Size        string   `json:"size"`
		Color       string   `json:"color"`
		SubCategory string   `json:"subCategory"`
		CategoryID  uint     `json:"categoryId"`
		Images      []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.CreateProduct(c.Context(), service.CreateProductInput{
		SellerID:    userID,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		Location:    req.Location,
		Size:        req.Size,
		Color:       req.Color,
		SubCategory: req.SubCategory,
		CategoryID:  req.CategoryID,
		ImageURLs:   req.Images,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.Status(fiber.StatusCreated).JSON(product)
}

// UpdateProduct handles PUT /api/products/:id (owner only).
// Absent fields are left untouched; "images" replaces the full set when sent.
func (s *Server) UpdateProduct(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	var req struct {
		Name        *string  `json:"name"`
		Description *string  `json:"description"`
		Price       *float64 `json:"price"`
		Condition   *string  `json:"condition"`
		Status      *string  `json:"status"`
		Location    *string  `json:"location"`
		Size        *string  `json:"size"`
		Color       *string  `json:"color"`
		SubCategory *string  `json:"subCategory"`
		CategoryID  *uint    `json:"categoryId"`
		Images      []string `json:"images"`
	}
	if err := c.BodyParser(&req); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	product, err := s.productService.UpdateProduct(c.Context(), service.UpdateProductInput{
		UserID:      userID,
		ProductID:   id,
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Condition:   req.Condition,
		Status:      req.Status,
		Location:    req.Location,
		Size:        req.Size,
		Color:       req.Color,
		SubCategory: req.SubCategory,
		CategoryID:  req.CategoryID,
		ImageURLs:   req.Images,
	})
	if err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(product)
}

// DeleteProduct handles DELETE /api/products/:id (owner only, soft delete)
func (s *Server) DeleteProduct(c *fiber.Ctx) error {
	userID := c.Locals("userID").(uint)
	id, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}

	if err := s.productService.DeleteProduct(c.Context(), userID, id); err != nil {
		return models.RespondWithError(c, models.StatusForError(err), err)
	}

	return c.JSON(fiber.Map{
		"message": "Product deleted",
	})
}

// parseProductFilter builds a repository.ProductFilter from query parameters.
// Malformed numeric values are a 400; unrecognized enum values (condition,
// status, sort) degrade to "no constraint" so stale frontend links keep
// working. On failure the response is already written and errResponseWritten
// is returned.
func (s *Server) parseProductFilter(c *fiber.Ctx) (repository.ProductFilter, error) {
	filter := repository.ProductFilter{
		Category: strings.TrimSpace(c.Query("category")),
		Search:   strings.TrimSpace(c.Query("search")),
	}
	// "all" is the frontend's explicit no-filter value
	if filter.Category == "all" {
		filter.Category = ""
	}

	minPrice, err := s.parseOptionalFloat(c, "minPrice")
	if err != nil {
		return filter, err
	}
	filter.MinPrice = minPrice

	maxPrice, err := s.parseOptionalFloat(c, "maxPrice")
	if err != nil {
		return filter, err
	}
	filter.MaxPrice = maxPrice

	if cond := c.Query("condition"); models.ValidCondition(cond) {
		filter.Condition = cond
	}
	if status := c.Query("status"); models.ValidStatus(status) {
		filter.Status = status
	}
	// "sort" is accepted as a legacy alias for "sortBy"
	switch sort := c.Query("sortBy", c.Query("sort")); sort {
	case repository.SortNewest, repository.SortPriceAsc, repository.SortPriceDesc:
		filter.Sort = sort
	}

	sellerID, err := s.parseOptionalPositiveInt(c, "sellerId")
	if err != nil {
		return filter, err
	}
	filter.SellerID = uint(sellerID)

	// Clothing attribute filters only mean anything on the Clothing category.
	// Singular forms are accepted as legacy aliases.
	if filter.Category == models.ClothingCategory {
		filter.Sizes = splitCSV(c.Query("sizes", c.Query("size")))
		filter.Colors = splitCSV(c.Query("colors", c.Query("color")))
		filter.SubCategories = splitCSV(c.Query("subCategories", c.Query("subCategory")))
	}

	page, err := s.parseOptionalPositiveInt(c, "page")
	if err != nil {
		return filter, err
	}
	filter.Page = page

	limit, err := s.parseOptionalPositiveInt(c, "limit")
	if err != nil {
		return filter, err
	}
	filter.Limit = limit

	return filter, nil
}

// parseOptionalFloat reads a float query parameter. Missing -> nil.
// Malformed or negative -> 400 written, errResponseWritten returned.
func (s *Server) parseOptionalFloat(c *fiber.Ctx, name string) (*float64, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+name))
		return nil, errResponseWritten
	}
	return &v, nil
}

// parseOptionalPositiveInt reads an integer query parameter. Missing -> 0.
// Malformed or non-positive -> 400 written, errResponseWritten returned.
func (s *Server) parseOptionalPositiveInt(c *fiber.Ctx, name string) (int, error) {
	raw := c.Query(name)
	if raw == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		_ = models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid "+name))
		return 0, errResponseWritten
	}
	return v, nil
}

func splitCSV(raw string) []string {
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func buildProductListResponse(products []*models.Product, total int64, page, limit int) ProductListResponse {
	totalPages := 0
	if limit > 0 {
		totalPages = int((total + int64(limit) - 1) / int64(limit))
	}
	if products == nil {
		products = []*models.Product{}
	}
	return ProductListResponse{
		Products:     products,
		Page:         page,
		Limit:        limit,
		TotalPages:   totalPages,
		TotalResults: total,
	}
}
