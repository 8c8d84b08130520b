package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	appRedis "github.com/AnndyBrock/real-estate-app/internal/infra/redis"
)

// HealthHandler exposes liveness and readiness information.
type HealthHandler struct {
	startedAt time.Time
	pool      *pgxpool.Pool
	redis     *appRedis.Client
}

// NewHealthHandler builds a new health handler instance. Either dependency may
// be nil; readiness then skips that check.
func NewHealthHandler(pool *pgxpool.Pool, redis *appRedis.Client) *HealthHandler {
	return &HealthHandler{
		startedAt: time.Now().UTC(),
		pool:      pool,
		redis:     redis,
	}
}

// Status reports liveness.
func (h *HealthHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{
		Status:    "ok",
		StartedAt: h.startedAt,
		Timestamp: time.Now().UTC(),
	})
}

// Ready reports readiness with per-dependency results.
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx := c.Request.Context()
	checks := map[string]string{}
	healthy := true

	if h.pool != nil {
		if err := h.pool.Ping(ctx); err != nil {
			checks["postgres"] = err.Error()
			healthy = false
		} else {
			checks["postgres"] = "ok"
		}
	}

	if h.redis != nil {
		if err := h.redis.HealthCheck(ctx); err != nil {
			checks["redis"] = err.Error()
			healthy = false
		} else {
			checks["redis"] = "ok"
		}
	}

	status := "ready"
	code := http.StatusOK
	if !healthy {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, ReadyResponse{
		Status:    status,
		Checks:    checks,
		Timestamp: time.Now().UTC(),
	})
}
