// Package server assembles the HTTP and websocket surface from its parts.
package server

import (
	"context"
	"time"

	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps/catalog"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/apps/rooms"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/handlers"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/middleware"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/realtime"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/routes"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/seed"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/harmony-backend/internal/store"
	sentryfiber "github.com/getsentry/sentry-go/fiber"
	"github.com/gofiber/fiber/v2"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

type Options struct {
	Config *config.Config
	Store  store.Store
	Seeds  *seed.Registry
	// Redis enables cross-instance fan-out and shared sequence numbers.
	Redis *redis.Client
	// Sentry mounts the error tracking middleware; sentry.Init is the
	// caller's job.
	Sentry    bool
	AccessLog bool
}

type Server struct {
	App      *fiber.App
	Hub      *realtime.Hub
	Relay    realtime.Relay
	Identity *services.IdentityService
	Routes   []apps.Route
}

// New wires every component. ctx bounds the lifetime of websocket sessions;
// call Background to run the hub.
func New(ctx context.Context, opts Options) *Server {
	cfg := opts.Config
	started := time.Now()

	identity := services.NewIdentityService(opts.Store, opts.Seeds, cfg)
	roomService := rooms.NewRoomService(opts.Store, cfg)

	hubOpts := []realtime.HubOption{realtime.WithRecorder(roomService)}
	var relay realtime.Relay
	if opts.Redis != nil {
		relay = realtime.NewRedisRelay(opts.Redis, realtime.DefaultChannel)
		hubOpts = append(hubOpts,
			realtime.WithRelay(relay),
			realtime.WithSequencer(realtime.NewRedisSequencer(opts.Redis)),
		)
	}
	hub := realtime.NewHub(hubOpts...)

	app := fiber.New(fiber.Config{
		AppName:      "harmony",
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: middleware.ErrorHandler(cfg),
	})

	if opts.Sentry {
		app.Use(sentryfiber.New(sentryfiber.Options{
			Repanic:         true,
			WaitForDelivery: false,
		}))
	}

	// Global middleware
	app.Use(recover.New())
	app.Use(requestid.New())
	if opts.AccessLog {
		app.Use(fiberlogger.New(fiberlogger.Config{
			Format: "${time} | ${status} | ${latency} | ${ip} | ${method} | ${path}\n",
		}))
	}
	app.Use(middleware.CORS(cfg))
	app.Use(middleware.SecurityHeaders())

	plugins := []apps.Plugin{
		catalog.New(opts.Store),
		rooms.New(roomService),
	}

	table := routes.Setup(app, cfg, opts.Store, routes.Handlers{
		Auth:   handlers.NewAuthHandler(identity),
		Health: handlers.NewHealthHandler(opts.Store, opts.Redis, started),
		Stats:  handlers.NewStatsHandler(opts.Store, hub, started),
		Admin:  handlers.NewAdminHandler(opts.Store, opts.Seeds),
	}, []fiber.Handler{
		realtime.Upgrade(identity),
		realtime.Handler(ctx, hub),
	}, plugins)

	return &Server{
		App:      app,
		Hub:      hub,
		Relay:    relay,
		Identity: identity,
		Routes:   table,
	}
}

// Background runs the hub, and the relay subscription when Redis is
// configured, until ctx is done.
func (s *Server) Background(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		s.Hub.Run(ctx)
		return nil
	})
	if s.Relay != nil {
		g.Go(func() error {
			return s.Relay.Subscribe(ctx, s.Hub.Deliver)
		})
	}
	return g.Wait()
}
