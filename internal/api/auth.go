package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"time"     // Timestamps

	"ecommerce_api/internal/config"  // Injected configuration
	"ecommerce_api/internal/domain"  // Importing domain models
	"ecommerce_api/internal/service" // Mailer collaborator
	"ecommerce_api/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging library
	"golang.org/x/crypto/bcrypt" // Password hashing
	"gorm.io/gorm"               // GORM ORM library
	"gorm.io/gorm/clause"        // Upsert clause for reset tickets
)

// bcryptCost is deliberately above the library default to slow offline
// brute-force attempts.
const bcryptCost = 12

// RegisterRequest is the registration payload
type RegisterRequest struct {
	Username  string         `json:"username" binding:"required"` // Username must be provided
	Email     string         `json:"email" binding:"required"`    // Email must be provided
	Password  string         `json:"password" binding:"required"` // Password must be provided
	FirstName string         `json:"first_name"`
	LastName  string         `json:"last_name"`
	Phone     string         `json:"phone"`
	Address   domain.Address `json:"address"`
}

// LoginRequest is the login payload
type LoginRequest struct {
	Username string `json:"username" binding:"required"` // Username must be provided
	Password string `json:"password" binding:"required"` // Password must be provided
}

// AuthResponse carries the issued bearer token
type AuthResponse struct {
	Token string `json:"token"` // JWT token
}

// RegisterHandler creates a new user account
func RegisterHandler(db *gorm.DB, mailer service.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req RegisterRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Normalize before validation so casing never affects uniqueness
		username := NormalizeIdentity(req.Username)
		email := NormalizeIdentity(req.Email)
		if errs := ValidateRegistration(username, email, req.Password); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}
		// Duplicate check on the normalized identity
		var existing domain.User
		if err := db.Where("username = ? OR email = ?", username, email).First(&existing).Error; err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		// Hash the password and create the user
		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Registration failed"})
			return
		}
		user := domain.User{
			Username:     username,
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    req.FirstName,
			LastName:     req.LastName,
			Phone:        req.Phone,
			Address:      req.Address,
		}
		if err := db.Create(&user).Error; err != nil {
			// The unique index is the backstop for concurrent registrations
			c.JSON(http.StatusBadRequest, gin.H{"error": "Username or email already exists"})
			return
		}
		// Welcome mail is best-effort; failure never fails registration
		go func(u domain.User) {
			if err := mailer.Send(u.Email, "Welcome!", service.WelcomeBody(&u)); err != nil {
				logrus.WithFields(logrus.Fields{
					"user_id": u.ID,
					"error":   err.Error(),
				}).Warn("welcome mail failed")
			}
		}(user)
		logrus.WithField("user_id", user.ID).Info("User registered")
		c.JSON(http.StatusCreated, gin.H{"message": "User registered successfully"})
	}
}

// LoginHandler authenticates a user and returns a JWT token. The error
// payload is identical for a missing user and a wrong password.
func LoginHandler(db *gorm.DB, jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req LoginRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var user domain.User // Fetch user by normalized username
		if err := db.Where("username = ?", NormalizeIdentity(req.Username)).First(&user).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Compare provided password with stored hash
		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
			return
		}
		// Record the login time; not worth failing the login over
		now := time.Now()
		if err := db.Model(&user).Update("last_login_at", &now).Error; err != nil {
			logrus.WithField("user_id", user.ID).Warn("failed to record last login")
		}
		// Generate JWT token
		token, err := utils.GenerateJWT(user.ID, user.Username, jwtSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to generate token"})
			return
		}
		c.JSON(http.StatusOK, AuthResponse{Token: token})
	}
}

// ForgotPasswordRequest asks for a reset link
type ForgotPasswordRequest struct {
	Email string `json:"email" binding:"required"`
}

// ResetPasswordRequest consumes a reset ticket
type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required"`
}

// ForgotPasswordHandler issues a reset ticket and mails the link. The
// response is the same whether or not the account exists, so the endpoint
// cannot be used to enumerate accounts. Repeated requests supersede the
// previous ticket rather than accumulating.
func ForgotPasswordHandler(db *gorm.DB, cfg *config.Config, mailer service.Mailer) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ForgotPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		email := NormalizeIdentity(req.Email)
		accepted := gin.H{"message": "If that account exists, a reset link has been sent"}
		var user domain.User
		if err := db.Where("email = ?", email).First(&user).Error; err != nil {
			c.JSON(http.StatusOK, accepted) // Do not reveal whether the account exists
			return
		}
		token, jti, expires, err := utils.GenerateResetToken(email, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset token"})
			return
		}
		// One outstanding ticket per email: overwrite any previous one
		ticket := domain.PasswordReset{Email: email, TokenID: jti, ExpiresAt: expires}
		err = db.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "email"}},
			DoUpdates: clause.AssignmentColumns([]string{"token_id", "expires_at", "created_at"}),
		}).Create(&ticket).Error
		if err != nil {
			logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Error("reset ticket upsert failed")
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to issue reset token"})
			return
		}
		// Reset mail is best-effort, like every other notification
		go func() {
			if err := mailer.Send(email, "Password reset", service.ResetBody(cfg.PublicBaseURL, token)); err != nil {
				logrus.WithFields(logrus.Fields{"email": email, "error": err.Error()}).Warn("reset mail failed")
			}
		}()
		c.JSON(http.StatusOK, accepted)
	}
}

// ResetPasswordHandler replaces the password when a live, matching ticket
// exists for the token, then deletes the ticket so it is single use.
func ResetPasswordHandler(db *gorm.DB, cfg *config.Config) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ResetPasswordRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		if errs := validatePassword(req.NewPassword); len(errs) > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"errors": errs})
			return
		}
		claims, err := utils.ParseResetToken(req.Token, cfg.JWTSecret)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		// The ticket must still exist and match this exact token
		var ticket domain.PasswordReset
		if err := db.Where("email = ?", claims.Email).First(&ticket).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		if ticket.TokenID != claims.ID || time.Now().After(ticket.ExpiresAt) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired reset token"})
			return
		}
		hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcryptCost)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}
		if err := db.Model(&domain.User{}).Where("email = ?", claims.Email).
			Update("password_hash", string(hash)).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset password"})
			return
		}
		// Single use: the ticket is gone once consumed
		if err := db.Delete(&ticket).Error; err != nil {
			logrus.WithFields(logrus.Fields{"email": claims.Email, "error": err.Error()}).Warn("reset ticket cleanup failed")
		}
		logrus.WithField("email", claims.Email).Info("Password reset")
		c.JSON(http.StatusOK, gin.H{"message": "Password updated"})
	}
}
