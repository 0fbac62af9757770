package routes

import (
	"log/slog"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/limiter"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Health *handlers.HealthHandler
	Stats  *handlers.StatsHandler
	Admin  *handlers.AdminHandler
}

// Setup mounts every route and returns the /api route table as mounted.
// ws is the websocket handler chain served at /ws.
func Setup(
	app *fiber.App,
	cfg *config.Config,
	st store.Store,
	h Handlers,
	ws []fiber.Handler,
	plugins []apps.Plugin,
) []apps.Route {
	app.Get("/health", h.Health.Check)
	if len(ws) > 0 {
		app.Get("/ws", ws...)
	}

	api := app.Group("/api")

	// General API rate limiter per IP
	api.Use(limiter.New(limiter.Config{
		Max:               cfg.RateLimitMax,
		Expiration:        cfg.RateLimitWindow,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached:      tooManyRequests,
	}))

	// Credential endpoints get a stricter per-minute limit
	credentialLimit := limiter.New(limiter.Config{
		Max:               cfg.AuthRateLimitMax,
		Expiration:        1 * time.Minute,
		LimiterMiddleware: limiter.SlidingWindow{},
		KeyGenerator:      func(c *fiber.Ctx) string { return c.IP() },
		LimitReached:      tooManyRequests,
	})

	table := []apps.Route{
		{Method: fiber.MethodGet, Path: "/health", Access: apps.Public, Handler: h.Health.Check},
		{Method: fiber.MethodGet, Path: "/stats", Access: apps.Public, Handler: h.Stats.Stats},
		{Method: fiber.MethodPost, Path: "/login", Access: apps.Public, Middleware: []fiber.Handler{credentialLimit}, Handler: h.Auth.Login},
		{Method: fiber.MethodPost, Path: "/register", Access: apps.Public, Middleware: []fiber.Handler{credentialLimit}, Handler: h.Auth.Register},
		{Method: fiber.MethodGet, Path: "/profile", Access: apps.Authenticated, Handler: h.Auth.Profile},
		{Method: fiber.MethodPut, Path: "/profile", Access: apps.Authenticated, Handler: h.Auth.UpdateProfile},
		{Method: fiber.MethodPost, Path: "/admin/reset", Access: apps.Admin, Handler: h.Admin.Reset},
	}
	for _, p := range plugins {
		table = append(table, p.Routes()...)
		slog.Info("plugin mounted", "plugin", p.ID())
	}

	gates := map[apps.Access][]fiber.Handler{
		apps.Public:        nil,
		apps.Authenticated: {middleware.JWTProtected(cfg)},
		apps.Admin:         {middleware.OptionalJWT(cfg), middleware.AdminRequired(st, cfg)},
	}
	for _, r := range table {
		chain := make([]fiber.Handler, 0, len(gates[r.Access])+len(r.Middleware)+1)
		chain = append(chain, gates[r.Access]...)
		chain = append(chain, r.Middleware...)
		chain = append(chain, r.Handler)
		api.Add(r.Method, r.Path, chain...)
	}

	// Anything else is a 404 in the usual envelope
	app.Use(func(c *fiber.Ctx) error {
		return fiber.NewError(fiber.StatusNotFound, "route not found")
	})

	return table
}

func tooManyRequests(c *fiber.Ctx) error {
	return fiber.NewError(fiber.StatusTooManyRequests, "too many requests, slow down")
}
