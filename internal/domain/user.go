package domain

import "time"

// User Model
type User struct {
	ID           uint       `gorm:"primaryKey" json:"id"`                 // Primary key
	Username     string     `gorm:"uniqueIndex;not null" json:"username"` // Unique username, stored lowercase
	Email        string     `gorm:"uniqueIndex;not null" json:"email"`    // Unique email, stored lowercase
	PasswordHash string     `gorm:"not null" json:"-"`                    // Bcrypt hash, never serialized
	FirstName    string     `json:"first_name"`
	LastName     string     `json:"last_name"`
	Phone        string     `json:"phone"`
	Address      Address    `gorm:"embedded;embeddedPrefix:addr_" json:"address"` // Default delivery address
	LastLoginAt  *time.Time `json:"last_login_at"`                                // Updated on every successful login
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// Address is embedded in User and snapshotted onto Order at checkout.
type Address struct {
	Street     string `json:"street"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
}
