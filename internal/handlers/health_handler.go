package handlers

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/redis/go-redis/v9"
)

const (
	Version     = "1.0.0"
	pingTimeout = 2 * time.Second
)

// ConnectionCounter reports live websocket connections.
type ConnectionCounter interface {
	Connections() int
}

type HealthHandler struct {
	store   store.Store
	redis   *redis.Client
	started time.Time
}

// NewHealthHandler builds the liveness probe. rdb may be nil when the
// realtime layer runs without Redis.
func NewHealthHandler(st store.Store, rdb *redis.Client, started time.Time) *HealthHandler {
	return &HealthHandler{store: st, redis: rdb, started: started}
}

func (h *HealthHandler) Check(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), pingTimeout)
	defer cancel()

	status := "ok"
	storeStatus := "ok"
	if err := h.store.Ping(ctx); err != nil {
		storeStatus = "unhealthy: " + err.Error()
		status = "degraded"
	}

	realtimeStatus := "local"
	if h.redis != nil {
		realtimeStatus = "ok"
		if err := h.redis.Ping(ctx).Err(); err != nil {
			realtimeStatus = "unhealthy: " + err.Error()
			status = "degraded"
		}
	}

	code := fiber.StatusOK
	if storeStatus != "ok" {
		code = fiber.StatusServiceUnavailable
	}

	return c.Status(code).JSON(dto.HealthResponse{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(h.started).Seconds(),
		Store:     storeStatus,
		Realtime:  realtimeStatus,
		Version:   Version,
	})
}
