package handlers

import (
	"fmt"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
)

type AdminHandler struct {
	store store.Store
	seeds *seed.Registry
}

func NewAdminHandler(st store.Store, seeds *seed.Registry) *AdminHandler {
	return &AdminHandler{store: st, seeds: seeds}
}

// Reset wipes every record and re-applies the seeds.
func (h *AdminHandler) Reset(c *fiber.Ctx) error {
	ctx := c.UserContext()
	if err := h.store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset store: %w", err)
	}
	if err := seed.Apply(ctx, h.store, h.seeds); err != nil {
		return fmt.Errorf("failed to reseed: %w", err)
	}

	slog.Warn("database reset", "ip", c.IP())
	return c.JSON(dto.MessageResponse{Success: true, Message: "database reset"})
}
