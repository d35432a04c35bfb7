// Command main runs the database seeder for UniMarket.
package main

import (
	"flag"
	"log"

	"unimarket/internal/config"
	"unimarket/internal/database"
	"unimarket/internal/seed"
)

func main() {
	numUsers := flag.Int("users", 25, "Number of users to create")
	productsPerUser := flag.Int("products", 4, "Products per user")
	savesPerUser := flag.Int("saves", 6, "Saved items per user")
	conversations := flag.Int("conversations", 40, "Number of message threads")
	shouldClean := flag.Bool("clean", true, "Clean database before seeding")
	flag.Parse()

	log.Println("🌱 Database Seeder")
	log.Println("==================")
	log.Printf("Target: %d users, %d products each, clean=%v\n", *numUsers, *productsPerUser, *shouldClean)

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	opts := seed.Options{
		NumUsers:           *numUsers,
		ProductsPerUser:    *productsPerUser,
		SavesPerUser:       *savesPerUser,
		ConversationsCount: *conversations,
		ShouldClean:        *shouldClean,
	}
	if err := seed.Run(db, opts); err != nil {
		log.Fatalf("❌ Seeding failed: %v", err)
	}

	log.Println("✨ All done! Your database is now populated with test data.")
	log.Printf("📧 All test users have the password: %s", seed.DemoPassword)
}
