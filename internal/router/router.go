package router

import (
	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/soltixdb/eda/internal/compression"
	"github.com/soltixdb/eda/internal/config"
	"github.com/soltixdb/eda/internal/handlers"
	"github.com/soltixdb/eda/internal/logging"
	"github.com/soltixdb/eda/internal/middleware"
	"github.com/soltixdb/eda/internal/queue"
)

// Setup configures all routes and middlewares
func Setup(app *fiber.App, logger *logging.Logger, cfg *config.Config, queuePublisher queue.Publisher, codec *compression.Codec, results handlers.ResultReader) *handlers.Handler {
	h := handlers.New(logger, cfg, queuePublisher, codec, results)

	// Global middlewares
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowMethods: "GET,POST,OPTIONS",
		AllowHeaders: "Origin,Content-Type,Accept,Authorization,X-API-Key,X-Request-ID",
	}))
	app.Use(logging.FiberMiddleware(logger))

	// Health check (no auth required)
	app.Get("/health", h.Health)

	authMiddleware := middleware.APIKeyAuth(logger, cfg.Auth.APIKeys, cfg.Auth.Enabled)
	v1 := app.Group("/v1", authMiddleware)

	// Sample statistics
	v1.Post("/summary", h.Summarize)
	v1.Post("/percentiles", h.Percentiles)
	v1.Post("/outliers", h.Outliers)
	v1.Post("/subsample", h.Subsample)
	v1.Post("/ttest", h.TTest)
	v1.Post("/exceedance", h.Exceedance)
	v1.Post("/generate", h.Generate)

	// Reports
	v1.Post("/reports/height", h.HeightReport)
	v1.Post("/reports/heart", h.HeartReport)
	v1.Get("/reports/heart", h.HeartReportDataset)

	// Worker jobs
	v1.Post("/jobs", h.SubmitJob)
	v1.Get("/jobs/:id", h.GetJobResult)

	// 404 handler
	app.Use(h.NotFound)

	return h
}

// New creates a new Fiber app with configuration.
// queuePublisher and results may be nil.
func New(logger *logging.Logger, cfg *config.Config, queuePublisher queue.Publisher,
	codec *compression.Codec, results handlers.ResultReader,
) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "EDA API",
		DisableStartupMessage: true,
		ErrorHandler:          middleware.ErrorHandler(logger),
		JSONEncoder:           json.Marshal,
		JSONDecoder:           json.Unmarshal,
		BodyLimit:             cfg.Server.BodyLimit,
		ReadTimeout:           cfg.Server.ReadTimeout,
		WriteTimeout:          cfg.Server.WriteTimeout,
	})

	Setup(app, logger, cfg, queuePublisher, codec, results)

	return app
}
