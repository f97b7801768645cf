package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// Health reports liveness of the backend and its postgres/redis
// dependencies. Used as the deploy's readiness probe.
func Health(db *gorm.DB, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
		defer cancel()

		postgres := "ok"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			postgres = "sin conexion"
		}

		cola := "ok"
		if rdb.Ping(ctx).Err() != nil {
			cola = "sin conexion"
		}

		status := http.StatusOK
		if postgres != "ok" || cola != "ok" {
			status = http.StatusServiceUnavailable
		}

		c.JSON(status, gin.H{
			"servicio": "hilos-y-coo",
			"ok":       status == http.StatusOK,
			"postgres": postgres,
			"redis":    cola,
		})
	}
}
