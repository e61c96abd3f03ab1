package db

import (
	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/sirupsen/logrus"

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Conflict clause for counter seeding
)

// Migrate performs automatic migration for the database schema and seeds the
// order-number counter row.
func Migrate(db *gorm.DB) {
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err := db.AutoMigrate(
		&domain.User{},
		&domain.Product{},
		&domain.Cart{},
		&domain.CartItem{},
		&domain.Order{},
		&domain.OrderItem{},
		&domain.PasswordReset{},
		&domain.Counter{},
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// The orders counter must exist before the first checkout; ignore the
	// insert when a previous migration already created it.
	counter := domain.Counter{Name: domain.OrderCounterName, Value: 0}
	if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&counter).Error; err != nil {
		logrus.Fatalf("counter seed failed: %v", err)
	}
	logrus.Info("Migration completed.") // Log successful migration
}
