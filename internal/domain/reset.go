package domain

import "time"

// PasswordReset Model — at most one outstanding ticket per email; a new
// request overwrites the previous ticket, consumption deletes it.
type PasswordReset struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"uniqueIndex;not null"` // One ticket per email
	TokenID   string    `gorm:"not null"`             // JTI of the signed reset token
	ExpiresAt time.Time `gorm:"not null"`
	CreatedAt time.Time
}
