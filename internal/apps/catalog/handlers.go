package catalog

import (
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/session"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type CatalogHandler struct {
	service *CatalogService
}

func NewCatalogHandler(service *CatalogService) *CatalogHandler {
	return &CatalogHandler{service: service}
}

func (h *CatalogHandler) DemoSongs(c *fiber.Ctx) error {
	songs, err := h.service.ListDemoSongs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(songs)
}

func (h *CatalogHandler) Songs(c *fiber.Ctx) error {
	songs, err := h.service.ListSongs(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(songs)
}

func (h *CatalogHandler) MySongs(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}
	songs, err := h.service.ListOwnSongs(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(songs)
}

func (h *CatalogHandler) Upload(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	var req UploadSongRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	song, err := h.service.UploadSong(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

func (h *CatalogHandler) Play(c *fiber.Ctx) error {
	songID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return services.NotFound("song not found")
	}
	song, err := h.service.RecordPlay(c.UserContext(), songID)
	if err != nil {
		return err
	}
	return c.JSON(song)
}

func (h *CatalogHandler) ListPlaylists(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}
	playlists, err := h.service.ListPlaylists(c.UserContext(), userID)
	if err != nil {
		return err
	}
	return c.JSON(playlists)
}

func (h *CatalogHandler) CreatePlaylist(c *fiber.Ctx) error {
	userID, err := session.GetUserID(c)
	if err != nil {
		return services.ErrCredentialMissing
	}

	var req CreatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	playlist, err := h.service.CreatePlaylist(c.UserContext(), userID, req)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(playlist)
}

func (h *CatalogHandler) GetPlaylist(c *fiber.Ctx) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return err
	}
	playlist, err := h.service.GetPlaylist(c.UserContext(), userID, playlistID)
	if err != nil {
		return err
	}
	return c.JSON(playlist)
}

func (h *CatalogHandler) UpdatePlaylist(c *fiber.Ctx) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return err
	}

	var req UpdatePlaylistRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}

	playlist, err := h.service.UpdatePlaylist(c.UserContext(), userID, playlistID, req)
	if err != nil {
		return err
	}
	return c.JSON(playlist)
}

func (h *CatalogHandler) DeletePlaylist(c *fiber.Ctx) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return err
	}
	if err := h.service.DeletePlaylist(c.UserContext(), userID, playlistID); err != nil {
		return err
	}
	return c.JSON(fiber.Map{"success": true, "message": "playlist deleted"})
}

func (h *CatalogHandler) AddSong(c *fiber.Ctx) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return err
	}

	var req AddSongRequest
	if err := c.BodyParser(&req); err != nil {
		return services.Validation("invalid request body")
	}
	if req.SongID == "" {
		return services.Validation("songId is required")
	}
	songID, err := uuid.Parse(req.SongID)
	if err != nil {
		return services.NotFound("song not found")
	}

	playlist, err := h.service.AddSong(c.UserContext(), userID, playlistID, songID)
	if err != nil {
		return err
	}
	return c.JSON(playlist)
}

func (h *CatalogHandler) RemoveSong(c *fiber.Ctx) error {
	userID, playlistID, err := playlistParams(c)
	if err != nil {
		return err
	}
	songID, err := uuid.Parse(c.Params("songId"))
	if err != nil {
		return services.NotFound("song is not in the playlist")
	}

	playlist, err := h.service.RemoveSong(c.UserContext(), userID, playlistID, songID)
	if err != nil {
		return err
	}
	return c.JSON(playlist)
}

func playlistParams(c *fiber.Ctx) (uuid.UUID, uuid.UUID, error) {
	userID, err := session.GetUserID(c)
	if err != nil {
		return uuid.Nil, uuid.Nil, services.ErrCredentialMissing
	}
	playlistID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return uuid.Nil, uuid.Nil, services.NotFound("playlist not found")
	}
	return userID, playlistID, nil
}
