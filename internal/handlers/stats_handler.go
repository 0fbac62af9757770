package handlers

import (
	"fmt"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

// StatsHandler serves aggregate counts. It is unauthenticated and meant for
// debugging only.
type StatsHandler struct {
	store   store.Store
	conns   ConnectionCounter
	started time.Time
}

func NewStatsHandler(st store.Store, conns ConnectionCounter, started time.Time) *StatsHandler {
	return &StatsHandler{store: st, conns: conns, started: started}
}

func (h *StatsHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.store.Stats(c.UserContext())
	if err != nil {
		return fmt.Errorf("failed to collect stats: %w", err)
	}

	connections := 0
	if h.conns != nil {
		connections = h.conns.Connections()
	}

	return c.JSON(dto.StatsResponse{
		Users:       stats.Users,
		Songs:       stats.Songs,
		Playlists:   stats.Playlists,
		Rooms:       stats.Rooms,
		Connections: connections,
		Uptime:      time.Since(h.started).Seconds(),
		Timestamp:   time.Now().UTC().Format(time.RFC3339),
	})
}
