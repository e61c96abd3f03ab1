package api

import (
	"context"  // Context for Redis operations
	"errors"   // Error inspection
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"ecommerce_api/internal/domain"  // Importing domain models
	"ecommerce_api/internal/service" // Order workflow
	"ecommerce_api/internal/utils"   // Utility functions

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"github.com/sirupsen/logrus"   // Logging library
	"gorm.io/gorm"                 // GORM ORM library
)

// orderHistoryPrefix builds the cache key prefix for a user's order pages
func orderHistoryPrefix(userID uint) string {
	return "orders:user:" + strconv.Itoa(int(userID))
}

// PlaceOrderHandler runs the checkout workflow for the caller
func PlaceOrderHandler(db *gorm.DB, rdb *redis.Client, orders *service.OrderService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		var req service.PlaceOrderInput
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		// The workflow needs the full user for the confirmation mail
		var user domain.User
		if err := db.First(&user, userID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
			return
		}
		order, err := orders.PlaceOrder(c.Request.Context(), &user, req)
		if err != nil {
			switch {
			case errors.Is(err, service.ErrProductUnavailable):
				c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
			case errors.Is(err, service.ErrEmptyOrder),
				errors.Is(err, service.ErrInvalidQuantity),
				errors.Is(err, service.ErrInvalidPayment):
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			default:
				logrus.WithFields(logrus.Fields{
					"user_id": userID,
					"error":   err.Error(),
				}).Error("Checkout failed")
				c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to place order"})
			}
			return
		}
		// Stale history pages would miss the new order
		utils.InvalidatePages(context.Background(), rdb, orderHistoryPrefix(userID))
		c.JSON(http.StatusCreated, gin.H{
			"order_id":     order.ID,
			"order_number": order.OrderNumber,
			"order":        order,
		})
	}
}

// ListOrdersHandler returns the caller's paginated order history, newest
// first, served from cache when possible.
func ListOrdersHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		page, pageSize := parsePagination(c)
		offset := (page - 1) * pageSize
		cacheKey := orderHistoryPrefix(userID) + ":page:" + strconv.Itoa(page) + ":size:" + strconv.Itoa(pageSize)
		ctx := context.Background()
		var cached struct {
			Orders     []domain.Order `json:"orders"`
			Page       int            `json:"page"`
			PageSize   int            `json:"page_size"`
			Total      int64          `json:"total"`
			TotalPages int            `json:"total_pages"`
		}
		found, err := utils.GetCache(ctx, rdb, cacheKey, &cached)
		if err == nil && found {
			c.JSON(http.StatusOK, gin.H{
				"orders":      cached.Orders,
				"page":        cached.Page,
				"page_size":   cached.PageSize,
				"total":       cached.Total,
				"total_pages": cached.TotalPages,
				"cached":      true,
			})
			return
		}
		var total int64
		if err := db.Model(&domain.Order{}).Where("user_id = ?", userID).Count(&total).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count orders"})
			return
		}
		var orders []domain.Order
		if err := db.Preload("Items").Where("user_id = ?", userID).
			Order("created_at desc").
			Offset(offset).
			Limit(pageSize).
			Find(&orders).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch orders"})
			return
		}
		totalPages := (int(total) + pageSize - 1) / pageSize
		resp := gin.H{
			"orders":      orders,
			"page":        page,
			"page_size":   pageSize,
			"total":       total,
			"total_pages": totalPages,
			"cached":      false,
		}
		_ = utils.SetCache(ctx, rdb, cacheKey, resp, utils.CacheTTL)
		c.JSON(http.StatusOK, resp)
	}
}

// GetOrderHandler returns one order; it must belong to the caller
func GetOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := callerID(c)
		if !ok {
			return
		}
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid order id"})
			return
		}
		var order domain.Order
		// Scoping by user_id keeps other users' orders indistinguishable
		// from nonexistent ones.
		if err := db.Preload("Items").Where("id = ? AND user_id = ?", id, userID).First(&order).Error; err != nil {
			c.JSON(http.StatusNotFound, gin.H{"error": "Order not found"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"order": order})
	}
}
