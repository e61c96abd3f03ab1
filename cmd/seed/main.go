package main

import (
	"ecommerce_api/internal/config" // Custom import path (Config)
	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"
	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
	"gorm.io/gorm/clause"  // Conflict clause for idempotent seeding
)

// Starter catalog so a fresh install has something to browse.
var products = []domain.Product{
	{Name: "Classic Tee", Description: "Plain cotton t-shirt", Price: 100, Category: "clothing", Subcategory: "tops", InStock: true, Rating: 4.2, Tags: "cotton,tee,basics", IsActive: true},
	{Name: "Denim Jacket", Description: "Mid-weight denim jacket", Price: 450, Category: "clothing", Subcategory: "outerwear", InStock: true, Discount: 10, Rating: 4.6, Tags: "denim,jacket", IsActive: true},
	{Name: "Canvas Sneakers", Description: "Low-top canvas sneakers", Price: 250, Category: "footwear", Subcategory: "sneakers", InStock: true, Rating: 4.0, Tags: "canvas,shoes", IsActive: true},
	{Name: "Leather Belt", Description: "Full-grain leather belt", Price: 120, Category: "accessories", Subcategory: "belts", InStock: true, Rating: 4.4, Tags: "leather,belt", IsActive: true},
	{Name: "Wool Scarf", Description: "Soft merino wool scarf", Price: 180, Category: "accessories", Subcategory: "scarves", InStock: false, Rating: 4.8, Tags: "wool,winter", IsActive: true},
}

// Main entry point for catalog seeding
func main() {
	cfg := config.LoadConfig() // Load configuration

	dsn := cfg.DBUser + ":" + cfg.DBPassword + "@tcp(" + cfg.DBHost + ":" + cfg.DBPort + ")/" + cfg.DBName + "?parseTime=true"
	conn, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err)
	}
	// Re-running the seeder must not duplicate rows
	if err := conn.Clauses(clause.OnConflict{DoNothing: true}).Create(&products).Error; err != nil {
		logrus.Fatalf("seeding failed: %v", err)
	}
	logrus.Infof("Seeded %d products.", len(products))
}
