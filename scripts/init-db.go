package main

import (
	"context"
	"fmt"
	"log"
	"restaurant_ordering/internal/config"
	"restaurant_ordering/internal/database"
	"restaurant_ordering/internal/migrations"
)

func main() {
	fmt.Println("Initializing database...")

	// Load configuration
	cfg := config.Load()

	// Initialize database
	db, err := database.Initialize(cfg.DatabaseURL, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	// Standalone runs always rebuild the schema
	if err := migrations.RunMigrations(context.Background(), db, true); err != nil {
		log.Fatal("Failed to migrate database:", err)
	}

	fmt.Println("Default accounts:")
	fmt.Println("  admin / admin123")
	fmt.Println("  chef1, waiter1, manager1 / staff123")
	fmt.Println("Database initialization completed successfully!")
}
