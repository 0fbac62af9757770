package catalog

import (
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps"
	"github.com/gofiber/fiber/v2"
)

type CatalogPlugin struct {
	handler *CatalogHandler
}

func New(st Store) *CatalogPlugin {
	return &CatalogPlugin{handler: NewCatalogHandler(NewCatalogService(st))}
}

func (p *CatalogPlugin) ID() string { return "catalog" }

func (p *CatalogPlugin) Routes() []apps.Route {
	h := p.handler
	return []apps.Route{
		// Songs
		{Method: fiber.MethodGet, Path: "/demo-songs", Access: apps.Public, Handler: h.DemoSongs},
		{Method: fiber.MethodGet, Path: "/songs", Access: apps.Public, Handler: h.Songs},
		{Method: fiber.MethodGet, Path: "/songs/mine", Access: apps.Authenticated, Handler: h.MySongs},
		{Method: fiber.MethodPost, Path: "/songs", Access: apps.Authenticated, Handler: h.Upload},
		{Method: fiber.MethodPost, Path: "/songs/upload", Access: apps.Authenticated, Handler: h.Upload},
		{Method: fiber.MethodPost, Path: "/songs/:id/play", Access: apps.Authenticated, Handler: h.Play},

		// Playlists (owner scoped)
		{Method: fiber.MethodGet, Path: "/playlists", Access: apps.Authenticated, Handler: h.ListPlaylists},
		{Method: fiber.MethodPost, Path: "/playlists", Access: apps.Authenticated, Handler: h.CreatePlaylist},
		{Method: fiber.MethodGet, Path: "/playlists/:id", Access: apps.Authenticated, Handler: h.GetPlaylist},
		{Method: fiber.MethodPut, Path: "/playlists/:id", Access: apps.Authenticated, Handler: h.UpdatePlaylist},
		{Method: fiber.MethodDelete, Path: "/playlists/:id", Access: apps.Authenticated, Handler: h.DeletePlaylist},
		{Method: fiber.MethodPost, Path: "/playlists/:id/songs", Access: apps.Authenticated, Handler: h.AddSong},
		{Method: fiber.MethodDelete, Path: "/playlists/:id/songs/:songId", Access: apps.Authenticated, Handler: h.RemoveSong},
	}
}
