package rooms

import (
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type RoomsPlugin struct {
	handler *RoomHandler
}

func New(svc *RoomService) *RoomsPlugin {
	return &RoomsPlugin{handler: NewRoomHandler(svc)}
}

func (p *RoomsPlugin) ID() string { return "rooms" }

func (p *RoomsPlugin) Routes() []apps.Route {
	h := p.handler
	return []apps.Route{
		{Method: fiber.MethodPost, Path: "/rooms", Access: apps.Authenticated, Handler: h.Create},
		{Method: fiber.MethodPost, Path: "/rooms/join", Access: apps.Authenticated, Handler: h.Join},
		{Method: fiber.MethodGet, Path: "/rooms/:code", Access: apps.Authenticated, Handler: h.Get},
	}
}
