package seed

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"unimarket/internal/models"

	"github.com/brianvoe/gofakeit/v6"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// Factory builds domain entities and persists them to the database.
// It is a thin helper used by seed presets and tests.
type Factory struct {
	db   *gorm.DB
	rand *rand.Rand
}

// NewFactory creates a new Factory bound to the provided Gorm DB.
func NewFactory(db *gorm.DB) *Factory {
	gofakeit.Seed(time.Now().UnixNano())
	return &Factory{
		db:   db,
		rand: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

// DemoPassword is the password every factory-created user gets, so demo
// accounts can be logged into by hand.
const DemoPassword = "Password123"

var productTemplates = map[string][]string{
	"Textbooks":   {"Calculus Early Transcendentals", "Intro to Microeconomics", "Organic Chemistry", "Data Structures in Java", "Constitutional Law Notes"},
	"Electronics": {"HP Laptop 15", "iPhone 12", "JBL Bluetooth Speaker", "Scientific Calculator", "32-inch Monitor", "Gaming Headset"},
	"Clothing":    {"Varsity Hoodie", "Denim Jacket", "Graduation Gown", "Campus Tee", "Running Shoes"},
	"Furniture":   {"Study Desk", "Office Chair", "Mini Fridge", "Bookshelf", "Bedside Lamp"},
	"Other":       {"Electric Kettle", "Foldable Bicycle", "Guitar", "Rice Cooker", "Backpack"},
}

var clothingSizes = []string{"S", "M", "L", "XL"}
var clothingColors = []string{"Black", "White", "Red", "Blue", "Green"}
var clothingSubCategories = []string{"Hoodies", "T-Shirts", "Jackets", "Shoes"}

// CreateUser persists a user at the given university with a fake identity.
func (f *Factory) CreateUser(university *models.University) (*models.User, error) {
	first := gofakeit.FirstName()
	last := gofakeit.LastName()
	username := strings.ToLower(fmt.Sprintf("%s%s%d", first, last, f.rand.Intn(1000)))

	hashed, err := bcrypt.GenerateFromPassword([]byte(DemoPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		FullName:     first + " " + last,
		Username:     username,
		Email:        fmt.Sprintf("%s@%s", username, university.Domain),
		Password:     string(hashed),
		Bio:          gofakeit.Sentence(8),
		Phone:        gofakeit.Phone(),
		UniversityID: university.ID,
	}
	if err := f.db.Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

// CreateProduct persists a listing for the seller in the given category,
// with a realistic created_at spread over the past 60 days.
func (f *Factory) CreateProduct(seller *models.User, category *models.Category) (*models.Product, error) {
	names := productTemplates[category.Name]
	if len(names) == 0 {
		names = productTemplates["Other"]
	}

	product := &models.Product{
		Name:        names[f.rand.Intn(len(names))],
		Description: gofakeit.Paragraph(1, 2, 8, " "),
		Price:       float64(f.rand.Intn(200)+1) * 500,
		Condition:   models.ProductConditions[f.rand.Intn(len(models.ProductConditions))],
		Status:      models.ProductStatusAvailable,
		Location:    gofakeit.StreetName(),
		SellerID:    seller.ID,
		CategoryID:  category.ID,
		CreatedAt:   time.Now().Add(-time.Duration(f.rand.Intn(60*24)) * time.Hour),
	}
	if f.rand.Intn(10) == 0 {
		product.Status = models.ProductStatusSold
	}
	if category.Name == models.ClothingCategory {
		product.Size = clothingSizes[f.rand.Intn(len(clothingSizes))]
		product.Color = clothingColors[f.rand.Intn(len(clothingColors))]
		product.SubCategory = clothingSubCategories[f.rand.Intn(len(clothingSubCategories))]
	}

	imageCount := f.rand.Intn(3) + 1
	for i := 0; i < imageCount; i++ {
		product.Images = append(product.Images, models.ProductImage{
			URL:      fmt.Sprintf("https://picsum.photos/seed/%s/800/800", gofakeit.UUID()),
			Position: i,
		})
	}

	if err := f.db.Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// CreateSave bookmarks the product for the user, ignoring duplicates.
func (f *Factory) CreateSave(userID, productID uint) error {
	return f.db.Exec(
		`INSERT INTO saved_items (user_id, product_id, created_at)
		 VALUES (?, ?, CURRENT_TIMESTAMP)
		 ON CONFLICT (user_id, product_id) DO NOTHING`,
		userID, productID,
	).Error
}

// CreateMessage persists a direct message between two users.
func (f *Factory) CreateMessage(senderID, receiverID uint, createdAt time.Time) (*models.Message, error) {
	message := &models.Message{
		SenderID:   senderID,
		ReceiverID: receiverID,
		Content:    gofakeit.Question(),
		IsRead:     f.rand.Intn(2) == 0,
		CreatedAt:  createdAt,
	}
	if message.IsRead {
		readAt := createdAt.Add(time.Duration(f.rand.Intn(120)) * time.Minute)
		message.ReadAt = &readAt
	}
	if err := f.db.Create(message).Error; err != nil {
		return nil, err
	}
	return message, nil
}

// CreateComment leaves a comment by the author on the product.
func (f *Factory) CreateComment(authorID, productID uint) (*models.ProductComment, error) {
	comment := &models.ProductComment{
		Content:   gofakeit.Sentence(10),
		ProductID: productID,
		AuthorID:  authorID,
	}
	if err := f.db.Create(comment).Error; err != nil {
		return nil, err
	}
	return comment, nil
}
