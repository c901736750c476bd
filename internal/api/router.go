package api

import (
	"path/filepath"
	"time"

	"contacts-service/internal/config"
	"contacts-service/internal/jwt"

	"github.com/gofiber/contrib/otelfiber/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// isoMillis matches the timestamp layout browsers produce with toISOString.
const isoMillis = "2006-01-02T15:04:05.000Z07:00"

func NewApp(cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:      cfg.ServiceName,
		BodyLimit:    cfg.BodyLimit,
		ErrorHandler: ErrorHandler,
	})

	app.Use(recover.New())
	app.Use(otelfiber.Middleware())
	app.Use(PrometheusMiddleware())
	app.Use(RequestLogger())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.AllowedOrigins(),
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization",
		AllowCredentials: true,
	}))

	return app
}

func Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "ok",
		"timestamp": time.Now().UTC().Format(isoMillis),
	})
}

func SetupRoutes(app *fiber.App, cfg *config.Config, verifier *jwt.Verifier, contactHandler *ContactHandler, uploadHandler *UploadHandler) {
	app.Get("/health", Health)
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	api := app.Group("/api", limiter.New(limiter.Config{
		Max:        cfg.RateLimitMax,
		Expiration: cfg.RateLimitExpiration,
		KeyGenerator: func(c *fiber.Ctx) string {
			return c.IP()
		},
		LimitReached: func(c *fiber.Ctx) error {
			return c.Status(fiber.StatusTooManyRequests).JSON(fiber.Map{
				"error": "Too many requests, please try again later.",
			})
		},
	}))

	contacts := api.Group("/contacts", AuthMiddleware(verifier))
	contacts.Get("/", contactHandler.ListContacts)
	contacts.Get("/:id", contactHandler.GetContact)
	contacts.Post("/", contactHandler.CreateContact)
	contacts.Put("/:id", contactHandler.UpdateContact)
	contacts.Delete("/:id", contactHandler.DeleteContact)

	api.Post("/upload", AuthMiddleware(verifier), UploadFilter(config.MaxUploadBytes), uploadHandler.UploadFile)

	if cfg.IsProduction() {
		app.Static("/", cfg.FrontendDist)

		indexFile := filepath.Join(cfg.FrontendDist, "index.html")
		app.Get("*", func(c *fiber.Ctx) error {
			return c.SendFile(indexFile)
		})
	}

	app.Use(NotFound)
}
