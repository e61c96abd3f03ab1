package api

import (
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion
	"time"     // Timestamps

	"ecommerce_api/internal/domain" // Importing domain models

	"github.com/gin-gonic/gin" // Gin web framework
	"gorm.io/gorm"             // GORM ORM library
)

// CartItemRequest adds or updates one cart line
type CartItemRequest struct {
	ProductID uint `json:"product_id" binding:"required"` // Product must be provided
	Quantity  int  `json:"quantity" binding:"required"`   // Quantity must be provided
}

// CartLineResponse is one cart line with its resolved product
type CartLineResponse struct {
	Product  domain.Product `json:"product"`
	Quantity int            `json:"quantity"`
	AddedAt  time.Time      `json:"added_at"`
}

// callerID pulls the authenticated user ID set by the JWT middleware
func callerID(c *gin.Context) (uint, bool) {
	userID, exists := c.Get("userID")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return 0, false
	}
	return userID.(uint), true
}

// fetchOrCreateCart returns the user's cart, creating it lazily on first use
func fetchOrCreateCart(db *gorm.DB, userID uint) (*domain.Cart, error) {
	var cart domain.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		cart = domain.Cart{UserID: userID}
		return &cart, db.Create(&cart).Error
	}
	return &cart, err
}

// AddToCartHandler adds a product to the caller's cart. Adding a product
// already in the cart increments its quantity instead of appending a second
// line.
func AddToCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req CartItemRequest
		if err := c.ShouldBindJSON(&req); err != nil || req.Quantity < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// Only live products may be carted
		var product domain.Product
		if err := db.Where("id = ? AND is_active = ?", req.ProductID, true).First(&product).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Product not found"})
			return
		}
		cart, err := fetchOrCreateCart(db, userID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		}
		var item domain.CartItem
		err = db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// New line appends
			item = domain.CartItem{
				CartID:    cart.ID,
				ProductID: req.ProductID,
				Quantity:  req.Quantity,
				AddedAt:   time.Now(),
			}
			if err := db.Create(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to add to cart"})
				return
			}
		} else if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to load cart"})
			return
		} else {
			// Existing line merges by quantity
			item.Quantity += req.Quantity
			if err := db.Save(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
		}
		_ = db.Model(cart).Update("updated_at", time.Now()).Error // Bump mutation timestamp
		c.JSON(http.StatusOK, gin.H{"message": "Added to cart", "item": item})
	}
}

// GetCartHandler returns the caller's cart lines with resolved product data
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var cart domain.Cart
		if err := db.Preload("Items").Where("user_id = ?", userID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				// No cart yet reads as empty, not as an error
				c.JSON(http.StatusOK, gin.H{"items": []CartLineResponse{}})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
			return
		}
		// Resolve all products in one query
		ids := make([]uint, 0, len(cart.Items))
		for _, item := range cart.Items {
			ids = append(ids, item.ProductID)
		}
		var products []domain.Product
		if len(ids) > 0 {
			if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch cart"})
				return
			}
		}
		byID := make(map[uint]domain.Product, len(products))
		for _, p := range products {
			byID[p.ID] = p
		}
		lines := make([]CartLineResponse, 0, len(cart.Items))
		for _, item := range cart.Items {
			lines = append(lines, CartLineResponse{
				Product:  byID[item.ProductID],
				Quantity: item.Quantity,
				AddedAt:  item.AddedAt,
			})
		}
		c.JSON(http.StatusOK, gin.H{"items": lines, "updated_at": cart.UpdatedAt})
	}
}

// UpdateCartHandler sets a line's quantity; zero or below removes the line
func UpdateCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		// Quantity is bound without "required" here so zero is accepted
		var req struct {
			ProductID uint `json:"product_id" binding:"required"`
			Quantity  int  `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		var cart domain.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		var item domain.CartItem
		if err := db.Where("cart_id = ? AND product_id = ?", cart.ID, req.ProductID).First(&item).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		if req.Quantity <= 0 {
			// Dropping to zero removes the line, never stores a zero quantity
			if err := db.Delete(&item).Error; err != nil {
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
				return
			}
			_ = db.Model(&cart).Update("updated_at", time.Now()).Error
			c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
			return
		}
		item.Quantity = req.Quantity
		if err := db.Save(&item).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update cart"})
			return
		}
		_ = db.Model(&cart).Update("updated_at", time.Now()).Error
		c.JSON(http.StatusOK, gin.H{"message": "Cart updated", "item": item})
	}
}

// RemoveFromCartHandler deletes one line by product reference
func RemoveFromCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		productID, err := strconv.ParseUint(c.Param("productId"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product id"})
			return
		}
		var cart domain.Cart
		if err := db.Where("user_id = ?", userID).First(&cart).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart not found"})
			return
		}
		res := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).Delete(&domain.CartItem{})
		if res.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to remove item"})
			return
		}
		if res.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "Cart item not found"})
			return
		}
		_ = db.Model(&cart).Update("updated_at", time.Now()).Error
		c.JSON(http.StatusOK, gin.H{"message": "Cart item removed"})
	}
}
