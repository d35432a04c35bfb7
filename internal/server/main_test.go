package server

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"unimarket/internal/config"
	"unimarket/internal/database"
	"unimarket/internal/featureflags"
	"unimarket/internal/models"
	"unimarket/internal/repository"
	"unimarket/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

const testJWTSecret = "test-secret-key-12345678901234567890123456789012"

// newTestServer builds a Server over an in-memory database with routes
// mounted on a bare Fiber app. Redis stays nil, so realtime and caches are
// off and every handler exercises its degraded path.
func newTestServer(t *testing.T) (*Server, *fiber.App) {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(database.PersistentModels()...))

	cfg := &config.Config{
		JWTSecret:        testJWTSecret,
		Port:             "8460",
		UploadDir:        t.TempDir(),
		MaxListingPrice:  1000000,
		MinProductImages: 1,
		MaxProductImages: 5,
		FeatureFlags:     "realtime=on",
	}

	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	universityRepo := repository.NewUniversityRepository(db)
	savedItemRepo := repository.NewSavedItemRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	commentRepo := repository.NewCommentRepository(db)

	s := &Server{
		config:         cfg,
		db:             db,
		userRepo:       userRepo,
		productRepo:    productRepo,
		categoryRepo:   categoryRepo,
		universityRepo: universityRepo,
		savedItemRepo:  savedItemRepo,
		messageRepo:    messageRepo,
		commentRepo:    commentRepo,
		featureFlags:   featureflags.NewManager(cfg.FeatureFlags),
	}
	s.productService = service.NewProductService(productRepo, categoryRepo, service.ProductPolicy{
		MaxListingPrice:  cfg.MaxListingPrice,
		MinProductImages: cfg.MinProductImages,
		MaxProductImages: cfg.MaxProductImages,
	})
	s.userService = service.NewUserService(userRepo)
	s.messageService = service.NewMessageService(messageRepo, userRepo, nil, nil)
	s.savedItemService = service.NewSavedItemService(savedItemRepo, productRepo)
	s.commentService = service.NewCommentService(commentRepo, productRepo)

	app := fiber.New()
	s.SetupRoutes(app)

	return s, app
}

func seedTestUniversity(t *testing.T, s *Server, name, domain string) *models.University {
	t.Helper()
	uni := models.University{Name: name, Domain: domain}
	require.NoError(t, s.db.Create(&uni).Error)
	return &uni
}

func seedTestUser(t *testing.T, s *Server, username, password string) *models.User {
	t.Helper()
	uni := models.University{Name: "University of " + username, Domain: username + ".edu"}
	require.NoError(t, s.db.Where(models.University{Name: uni.Name}).FirstOrCreate(&uni).Error)

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		FullName:     "Test " + username,
		Username:     username,
		Email:        username + "@" + uni.Domain,
		Password:     string(hashed),
		UniversityID: uni.ID,
	}
	require.NoError(t, s.db.Create(&user).Error)
	return &user
}

func seedTestCategory(t *testing.T, s *Server, name string) *models.Category {
	t.Helper()
	cat := models.Category{Name: name}
	require.NoError(t, s.db.Where(models.Category{Name: name}).FirstOrCreate(&cat).Error)
	return &cat
}

func seedTestProduct(t *testing.T, s *Server, sellerID, categoryID uint, name string, price float64) *models.Product {
	t.Helper()
	product := models.Product{
		Name:       name,
		Price:      price,
		Condition:  "Good",
		Status:     models.ProductStatusAvailable,
		SellerID:   sellerID,
		CategoryID: categoryID,
	}
	require.NoError(t, s.db.Create(&product).Error)
	return &product
}

// bearerFor mints a real token for the user, exactly as Login would.
func bearerFor(t *testing.T, s *Server, user *models.User) string {
	t.Helper()
	token, err := s.generateToken(user.ID, user.Username)
	require.NoError(t, err)
	return "Bearer " + token
}

func jsonRequest(t *testing.T, method, path string, payload any) *http.Request {
	t.Helper()
	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		require.NoError(t, err)
		body = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, body)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return req
}

func decodeBody(t *testing.T, resp *http.Response, dest any) {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(dest))
}
