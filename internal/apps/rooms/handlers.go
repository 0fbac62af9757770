package rooms

import (
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type RoomHandler struct {
	service *RoomService
}

func NewRoomHandler(service *RoomService) *RoomHandler {
	return &RoomHandler{service: service}
}

func (h *RoomHandler) Create(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	var req CreateRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	room, err := h.service.CreateRoom(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(room)
}

func (h *RoomHandler) Join(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	var req JoinRoomRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	room, err := h.service.JoinRoom(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.JSON(room)
}

func (h *RoomHandler) Get(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	room, err := h.service.GetRoomDetail(c.UserContext(), c.Params("code"), userID)
	if err != nil {
		return err
	}
	return c.JSON(room)
}
