package middleware

import (
	"errors"
	"log/slog"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/gofiber/fiber/v2"
)

var kindStatus = []struct {
	kind   error
	status int
}{
	{services.ErrValidation, fiber.StatusBadRequest},
	{services.ErrUnauthorized, fiber.StatusUnauthorized},
	{services.ErrForbidden, fiber.StatusForbidden},
	{services.ErrNotFound, fiber.StatusNotFound},
	{services.ErrConflict, fiber.StatusConflict},
	{services.ErrPayloadTooLarge, fiber.StatusRequestEntityTooLarge},
}

// ErrorHandler renders every error as {"error": "..."}. Server errors get a
// generic message; development mode adds the detail under "message".
func ErrorHandler(cfg *config.Config) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := classify(err)

		resp := dto.ErrorResponse{Error: message}
		if code >= fiber.StatusInternalServerError {
			slog.Error("unhandled server error",
				"method", c.Method(),
				"path", c.Path(),
				"request_id", requestID(c),
				"error", err.Error(),
			)
			resp.Error = "Internal server error"
			if cfg.IsDevelopment() {
				resp.Message = err.Error()
			}
		}

		return c.Status(code).JSON(resp)
	}
}

func classify(err error) (int, string) {
	var svcErr *services.Error
	if errors.As(err, &svcErr) {
		for _, ks := range kindStatus {
			if errors.Is(svcErr.Kind, ks.kind) {
				return ks.status, svcErr.Message
			}
		}
	}

	var fe *fiber.Error
	if errors.As(err, &fe) {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, err.Error()
}

func requestID(c *fiber.Ctx) string {
	if id, ok := c.Locals("requestid").(string); ok {
		return id
	}
	return ""
}
