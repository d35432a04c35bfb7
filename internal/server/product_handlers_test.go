package server

import (
	"net/http"
	"testing"

	"unimarket/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetProducts_Filters(t *testing.T) {
	s, app := newTestServer(t)
	seller := seedTestUser(t, s, "seller", "Password123")
	electronics := seedTestCategory(t, s, "Electronics")
	textbooks := seedTestCategory(t, s, "Textbooks")

	seedTestProduct(t, s, seller.ID, electronics.ID, "Calculator", 5000)
	seedTestProduct(t, s, seller.ID, electronics.ID, "Laptop", 250000)
	seedTestProduct(t, s, seller.ID, textbooks.ID, "Algebra Textbook", 8000)

	t.Run("category and price window", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet,
			"/api/products?category=Electronics&minPrice=1000&maxPrice=10000", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Calculator", body.Products[0].Name)
		assert.Equal(t, int64(1), body.TotalResults)
		assert.Equal(t, 1, body.Page)
		assert.Equal(t, 20, body.Limit)
	})

	t.Run("category all means no filter", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?category=all", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, int64(3), body.TotalResults)
	})

	t.Run("sortBy orders cheapest first", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?sortBy=price-asc", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Products, 3)
		assert.Equal(t, float64(5000), body.Products[0].Price)
		assert.Equal(t, float64(250000), body.Products[2].Price)
	})

	t.Run("malformed price is a 400", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?minPrice=cheap", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("inverted price window is a 400", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet,
			"/api/products?minPrice=100&maxPrice=50", nil))
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("unknown condition degrades to no filter", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?condition=Mint", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		assert.Equal(t, int64(3), body.TotalResults)
	})

	t.Run("search is case-insensitive", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?search=laptop", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Products, 1)
		assert.Equal(t, "Laptop", body.Products[0].Name)
	})

	t.Run("pagination envelope", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products?limit=2&sort=price-asc", nil))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body ProductListResponse
		decodeBody(t, resp, &body)
		require.Len(t, body.Products, 2)
		assert.Equal(t, int64(3), body.TotalResults)
		assert.Equal(t, 2, body.TotalPages)
		assert.Equal(t, float64(5000), body.Products[0].Price)
	})
}

func TestGetProducts_ClothingSets(t *testing.T) {
	s, app := newTestServer(t)
	seller := seedTestUser(t, s, "clothier", "Password123")
	clothing := seedTestCategory(t, s, models.ClothingCategory)

	items := []models.Product{
		{Name: "Red Hoodie M", Size: "M", Color: "Red", SubCategory: "Hoodies"},
		{Name: "Blue Tee L", Size: "L", Color: "Blue", SubCategory: "T-Shirts"},
	}
	for i := range items {
		items[i].Price = 4000
		items[i].Condition = "New"
		items[i].Status = models.ProductStatusAvailable
		items[i].SellerID = seller.ID
		items[i].CategoryID = clothing.ID
		require.NoError(t, s.db.Create(&items[i]).Error)
	}

	resp, err := app.Test(jsonRequest(t, http.MethodGet,
		"/api/products?category=Clothing&sizes=M,S&colors=Red", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body ProductListResponse
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 1)
	assert.Equal(t, "Red Hoodie M", body.Products[0].Name)
}

func TestCreateProduct(t *testing.T) {
	s, app := newTestServer(t)
	seller := seedTestUser(t, s, "lister", "Password123")
	category := seedTestCategory(t, s, "Furniture")

	t.Run("requires auth", func(t *testing.T) {
		resp, err := app.Test(jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
			"name": "Desk",
		}))
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("success", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
			"name":       "Study Desk",
			"price":      15000,
			"condition":  "Good",
			"categoryId": category.ID,
			"images":     []string{"/uploads/desk.jpg"},
		})
		req.Header.Set("Authorization", bearerFor(t, s, seller))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusCreated, resp.StatusCode)

		var body models.Product
		decodeBody(t, resp, &body)
		assert.Equal(t, "Study Desk", body.Name)
		assert.Equal(t, seller.ID, body.SellerID)
		assert.Equal(t, models.ProductStatusAvailable, body.Status)
		require.Len(t, body.Images, 1)
	})

	t.Run("missing images rejected", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPost, "/api/products", map[string]any{
			"name":       "Bookshelf",
			"price":      9000,
			"condition":  "Good",
			"categoryId": category.ID,
		})
		req.Header.Set("Authorization", bearerFor(t, s, seller))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})
}

func TestUpdateProduct_Ownership(t *testing.T) {
	s, app := newTestServer(t)
	owner := seedTestUser(t, s, "owner", "Password123")
	stranger := seedTestUser(t, s, "stranger", "Password123")
	category := seedTestCategory(t, s, "Electronics")
	product := seedTestProduct(t, s, owner.ID, category.ID, "Monitor", 40000)

	t.Run("non-owner forbidden", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, "/api/products/1", map[string]any{
			"price": 1,
		})
		req.Header.Set("Authorization", bearerFor(t, s, stranger))

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
	})

	t.Run("owner can mark sold", func(t *testing.T) {
		req := jsonRequest(t, http.MethodPut, "/api/products/1", map[string]any{
			"status": "sold",
		})
		req.Header.Set("Authorization", bearerFor(t, s, owner))

		resp, err := app.Test(req)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var body models.Product
		decodeBody(t, resp, &body)
		assert.Equal(t, models.ProductStatusSold, body.Status)
		assert.Equal(t, product.ID, body.ID)
	})
}

func TestDeleteProduct(t *testing.T) {
	s, app := newTestServer(t)
	owner := seedTestUser(t, s, "deleter", "Password123")
	category := seedTestCategory(t, s, "Other")
	product := seedTestProduct(t, s, owner.ID, category.ID, "Lamp", 3000)

	req := jsonRequest(t, http.MethodDelete, "/api/products/1", nil)
	req.Header.Set("Authorization", bearerFor(t, s, owner))

	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// Soft-deleted listings vanish from browse results
	resp, err = app.Test(jsonRequest(t, http.MethodGet, "/api/products", nil))
	require.NoError(t, err)
	var body ProductListResponse
	decodeBody(t, resp, &body)
	assert.Equal(t, int64(0), body.TotalResults)

	// The row itself survives with its deletion stamp
	var raw models.Product
	require.NoError(t, s.db.Unscoped().First(&raw, product.ID).Error)
	assert.True(t, raw.DeletedAt.Valid)
}

func TestGetFeaturedProducts(t *testing.T) {
	s, app := newTestServer(t)
	seller := seedTestUser(t, s, "featured", "Password123")
	fan := seedTestUser(t, s, "fan", "Password123")
	category := seedTestCategory(t, s, "Electronics")

	hot := seedTestProduct(t, s, seller.ID, category.ID, "Hot Item", 12000)
	seedTestProduct(t, s, seller.ID, category.ID, "Quiet Item", 11000)
	require.NoError(t, s.db.Create(&models.SavedItem{UserID: fan.ID, ProductID: hot.ID}).Error)

	resp, err := app.Test(jsonRequest(t, http.MethodGet, "/api/products/featured?limit=2", nil))
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body struct {
		Products []models.Product `json:"products"`
	}
	decodeBody(t, resp, &body)
	require.Len(t, body.Products, 2)
	assert.Equal(t, "Hot Item", body.Products[0].Name)
	assert.Equal(t, 1, body.Products[0].SaveCount)
}
