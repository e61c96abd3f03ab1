package api

import (
	"context"  // Context for pings
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"     // Gin web framework
	"github.com/redis/go-redis/v9" // Redis client
	"gorm.io/gorm"                 // GORM ORM library
)

// HealthHandler is the liveness probe. It reports per-dependency state and
// returns 503 when the database is unreachable; a cold cache alone does not
// fail the probe.
func HealthHandler(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := context.Background()
		dbState := "up"
		sqlDB, err := db.DB()
		if err != nil || sqlDB.PingContext(ctx) != nil {
			dbState = "down"
		}
		redisState := "up"
		if err := rdb.Ping(ctx).Err(); err != nil {
			redisState = "down"
		}
		status := http.StatusOK
		overall := "ok"
		if dbState == "down" {
			status = http.StatusServiceUnavailable
			overall = "unavailable"
		}
		c.JSON(status, gin.H{"status": overall, "db": dbState, "redis": redisState})
	}
}
