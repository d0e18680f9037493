package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
)

// HealthHandler reports process and dependency status. db and rdb may be nil
// when the corresponding backend is not configured.
type HealthHandler struct {
	db  *sqlx.DB
	rdb *redis.Client
}

func NewHealthHandler(db *sqlx.DB, rdb *redis.Client) *HealthHandler {
	return &HealthHandler{
		db:  db,
		rdb: rdb,
	}
}

// HealthCheck handles the health check endpoint
func (h *HealthHandler) HealthCheck(c *gin.Context) {
	isHealthy := true
	statusCode := http.StatusOK
	deps := gin.H{}

	if h.db != nil {
		dbStatus := "up"
		if err := h.db.PingContext(c.Request.Context()); err != nil {
			isHealthy = false
			dbStatus = "down"
		}
		deps["database"] = dbStatus
	} else {
		deps["database"] = "in-memory"
	}

	if h.rdb != nil {
		redisStatus := "up"
		if err := h.rdb.Ping(c.Request.Context()).Err(); err != nil {
			// leaderboard degrades to store reads; not fatal
			redisStatus = "down"
		}
		deps["redis"] = redisStatus
	}

	if !isHealthy {
		statusCode = http.StatusServiceUnavailable
	}

	c.JSON(statusCode, gin.H{
		"status":       map[bool]string{true: "healthy", false: "unhealthy"}[isHealthy],
		"timestamp":    time.Now().UTC().Format(time.RFC3339),
		"dependencies": deps,
	})
}
