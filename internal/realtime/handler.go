package realtime

import (
	"context"
	"strings"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

const userIDLocal = "realtime_user_id"

// TokenValidator resolves a session credential to a user id.
type TokenValidator interface {
	ValidateCredential(token string) (uuid.UUID, error)
}

// Upgrade authenticates the request before the websocket handshake. The
// token comes from ?token= or an Authorization bearer header.
func Upgrade(validator TokenValidator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return fiber.ErrUpgradeRequired
		}

		token := c.Query("token")
		if token == "" {
			token = strings.TrimPrefix(c.Get(fiber.HeaderAuthorization), "Bearer ")
		}
		userID, err := validator.ValidateCredential(token)
		if err != nil {
			return err
		}

		c.Locals(userIDLocal, userID)
		return c.Next()
	}
}

// Handler serves upgraded connections until they close or ctx is done.
func Handler(ctx context.Context, hub *Hub) fiber.Handler {
	return websocket.New(func(conn *websocket.Conn) {
		userID, _ := conn.Locals(userIDLocal).(uuid.UUID)
		NewClient(hub, conn, userID).Serve(ctx)
	})
}
