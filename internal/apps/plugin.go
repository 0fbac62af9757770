package apps

import (
	"github.com/gofiber/fiber/v2"
)

// Access is the declared capability a route requires. The route table applies
// the matching gate; handlers never infer it from the call site.
type Access int

const (
	Public Access = iota
	Authenticated
	Admin
)

func (a Access) String() string {
	switch a {
	case Public:
		return "public"
	case Authenticated:
		return "authenticated"
	case Admin:
		return "admin"
	default:
		return "unknown"
	}
}

// Route is one entry of the HTTP route table, relative to /api.
type Route struct {
	Method string
	Path   string
	Access Access
	// Middleware runs after the access gate and before Handler.
	Middleware []fiber.Handler
	Handler    fiber.Handler
}

// Plugin defines the interface every feature module must implement.
type Plugin interface {
	// ID returns the unique feature identifier.
	ID() string

	// Routes returns the feature's routes. Order matters for overlapping
	// paths: static segments must come before parameters.
	Routes() []Route
}
