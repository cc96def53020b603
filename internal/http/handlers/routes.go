package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/helmet"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"github.com/jmoiron/sqlx"

	"travelhub/internal/config"
	applog "travelhub/internal/log"
	"travelhub/internal/metrics"
	"travelhub/internal/notify"
)

// NewApp builds the fiber app with the full middleware chain and every route.
func NewApp(cfg config.Config, db *sqlx.DB, events notify.Sink) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      "travelhub",
		ErrorHandler: ErrorHandler,
		BodyLimit:    cfg.BodyLimit,
	})

	// ---------- Middlewares ----------
	app.Use(requestid.New())
	app.Use(metrics.Middleware())
	app.Use(recover.New())
	app.Use(helmet.New())
	app.Use(limiter.New(limiter.Config{
		Max:        cfg.RateLimit,
		Expiration: time.Minute,
		Next: func(c *fiber.Ctx) bool {
			p := c.Path()
			return p == "/metrics" || p == "/healthz"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.global.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "Request was throttled."})
		},
	}))

	deps := NewDeps(db, cfg, events)
	app.Use(Authenticate(deps.Auth))
	Mount(app, deps, cfg)
	return app
}

// Mount registers every route. Fixed paths go before their :id siblings.
func Mount(app *fiber.App, deps *Deps, cfg config.Config) {
	app.Get("/healthz", deps.HealthHandler.Check)
	app.Get("/metrics", metrics.Handler())

	// Auth (login throttled)
	loginLimiter := limiter.New(limiter.Config{
		Max:        cfg.LoginRateLimit,
		Expiration: 10 * time.Minute,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP() + "|login"
		},
		LimitReached: func(c *fiber.Ctx) error {
			applog.Security(c, "rate.login.hit", nil)
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{"detail": "Too many attempts. Please try again later."})
		},
	})
	app.Post("/auth/register", deps.AuthHandler.Register)
	app.Post("/auth/login", loginLimiter, deps.AuthHandler.Login)
	app.Get("/auth/me", RequireUser(), deps.AuthHandler.Me)

	// Listings
	lh := deps.ListingHandler
	app.Get("/listings", lh.List)
	app.Post("/listings", RequireUser(), lh.Create)
	app.Get("/listings/my_listings", RequireUser(), lh.Mine)
	app.Get("/listings/:id", lh.Get)
	app.Put("/listings/:id", RequireUser(), lh.Update)
	app.Patch("/listings/:id", RequireUser(), lh.Patch)
	app.Delete("/listings/:id", RequireUser(), lh.Delete)
	app.Get("/listings/:id/reviews", lh.Reviews)

	// Reviews
	rh := deps.ReviewHandler
	app.Get("/reviews", rh.List)
	app.Post("/reviews", RequireUser(), rh.Create)
	app.Get("/reviews/my_reviews", RequireUser(), rh.Mine)
	app.Get("/reviews/:id", rh.Get)
	app.Put("/reviews/:id", RequireUser(), rh.Update)
	app.Patch("/reviews/:id", RequireUser(), rh.Patch)
	app.Delete("/reviews/:id", RequireUser(), rh.Delete)

	// Bookings: every route needs an identity
	bh := deps.BookingHandler
	app.Get("/bookings", RequireUser(), bh.List)
	app.Post("/bookings", RequireUser(), bh.Create)
	app.Get("/bookings/:id", RequireUser(), bh.Get)
	app.Put("/bookings/:id", RequireUser(), bh.Update)
	app.Patch("/bookings/:id", RequireUser(), bh.Patch)
	app.Delete("/bookings/:id", RequireUser(), bh.Delete)
	app.Post("/bookings/:id/confirm", RequireUser(), bh.Confirm)
	app.Post("/bookings/:id/cancel", RequireUser(), bh.Cancel)
}
