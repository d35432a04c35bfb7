package seed

import (
	"fmt"
	"log"
	"time"

	"unimarket/internal/models"

	"gorm.io/gorm"
)

// Options configuration for the seeder
type Options struct {
	NumUsers           int
	ProductsPerUser    int
	SavesPerUser       int
	ConversationsCount int
	ShouldClean        bool
}

// DefaultOptions returns a demo-sized seed configuration.
func DefaultOptions() Options {
	return Options{
		NumUsers:           25,
		ProductsPerUser:    4,
		SavesPerUser:       6,
		ConversationsCount: 40,
	}
}

// Run populates the database with demo marketplace data. Built-in
// universities and categories are ensured first.
func Run(db *gorm.DB, opts Options) error {
	if opts.ShouldClean {
		if err := ClearAll(db); err != nil {
			return fmt.Errorf("clean database: %w", err)
		}
	}

	if err := EnsureBuiltins(db); err != nil {
		return err
	}

	var universities []models.University
	if err := db.Find(&universities).Error; err != nil {
		return err
	}
	var categories []models.Category
	if err := db.Find(&categories).Error; err != nil {
		return err
	}

	factory := NewFactory(db)

	users := make([]*models.User, 0, opts.NumUsers)
	for i := 0; i < opts.NumUsers; i++ {
		university := &universities[factory.rand.Intn(len(universities))]
		user, err := factory.CreateUser(university)
		if err != nil {
			return fmt.Errorf("create user: %w", err)
		}
		users = append(users, user)
	}
	log.Printf("seeded %d users (password %q)", len(users), DemoPassword)

	products := make([]*models.Product, 0, opts.NumUsers*opts.ProductsPerUser)
	for _, user := range users {
		for i := 0; i < opts.ProductsPerUser; i++ {
			category := &categories[factory.rand.Intn(len(categories))]
			product, err := factory.CreateProduct(user, category)
			if err != nil {
				return fmt.Errorf("create product: %w", err)
			}
			products = append(products, product)
		}
	}
	log.Printf("seeded %d products", len(products))

	if len(products) > 0 {
		for _, user := range users {
			for i := 0; i < opts.SavesPerUser; i++ {
				product := products[factory.rand.Intn(len(products))]
				if product.SellerID == user.ID {
					continue
				}
				if err := factory.CreateSave(user.ID, product.ID); err != nil {
					return fmt.Errorf("create save: %w", err)
				}
			}
		}
	}

	if len(users) > 1 {
		for i := 0; i < opts.ConversationsCount; i++ {
			a := users[factory.rand.Intn(len(users))]
			b := users[factory.rand.Intn(len(users))]
			if a.ID == b.ID {
				continue
			}
			start := time.Now().Add(-time.Duration(factory.rand.Intn(30*24)) * time.Hour)
			turns := factory.rand.Intn(6) + 1
			for j := 0; j < turns; j++ {
				sender, receiver := a, b
				if j%2 == 1 {
					sender, receiver = b, a
				}
				if _, err := factory.CreateMessage(sender.ID, receiver.ID, start.Add(time.Duration(j)*time.Minute)); err != nil {
					return fmt.Errorf("create message: %w", err)
				}
			}
		}
	}

	for _, product := range products {
		if factory.rand.Intn(3) != 0 {
			continue
		}
		author := users[factory.rand.Intn(len(users))]
		if _, err := factory.CreateComment(author.ID, product.ID); err != nil {
			return fmt.Errorf("create comment: %w", err)
		}
	}

	log.Printf("demo seed complete")
	return nil
}

// ClearAll removes all marketplace rows. Dependent tables go first so
// foreign keys never block the wipe.
func ClearAll(db *gorm.DB) error {
	tables := []string{
		"product_comments",
		"messages",
		"saved_items",
		"product_images",
		"products",
		"users",
		"categories",
		"universities",
	}
	for _, table := range tables {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("clear %s: %w", table, err)
		}
	}
	return nil
}
