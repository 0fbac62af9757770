package handlers

import (
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	"github.com/gofiber/fiber/v2"
)

type AuthHandler struct {
	identity *services.IdentityService
}

func NewAuthHandler(identity *services.IdentityService) *AuthHandler {
	return &AuthHandler{identity: identity}
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req dto.LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	resp, err := h.identity.Authenticate(c.UserContext(), req.SecretCode)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req dto.RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	resp, err := h.identity.Register(c.UserContext(), &req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

func (h *AuthHandler) Profile(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	user, err := h.identity.GetProfile(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(dto.NewUserResponse(user))
}

func (h *AuthHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	var req dto.UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	resp, err := h.identity.UpdateProfile(c.UserContext(), userID, &req)
	if err != nil {
		return err
	}
	return c.JSON(resp)
}
