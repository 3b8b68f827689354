package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Ping checks one backing store.
type Ping func(ctx context.Context) error

// Probes share one short deadline so a hung store cannot stall the endpoint.
const probeTimeout = 3 * time.Second

// Health builds the readiness probe over the two live stores: postgres holds
// the identity accounts, redis holds the item documents and revoked tokens.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return HealthProbe(
		func(ctx context.Context) error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.PingContext(ctx)
		},
		func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		},
	)
}

// HealthProbe reports each store by name so a failing probe points at the
// culprit rather than answering a bare 503. Split from Health so the probe
// logic is exercisable without live connections.
func HealthProbe(database, cache Ping) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), probeTimeout)
		defer cancel()

		resp := gin.H{"status": "ok", "database": "up", "redis": "up"}
		if database(ctx) != nil {
			resp["database"] = "down"
		}
		if cache(ctx) != nil {
			resp["redis"] = "down"
		}

		code := http.StatusOK
		if resp["database"] == "down" || resp["redis"] == "down" {
			resp["status"] = "degraded"
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, resp)
	}
}
