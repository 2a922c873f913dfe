package main

import (
	"strings"

	"bakeshop-backend/internal/catalog"
	"bakeshop-backend/internal/config"
	"bakeshop-backend/internal/dashboard"
	"bakeshop-backend/internal/database"
	"bakeshop-backend/internal/delivery"
	"bakeshop-backend/internal/event"
	"bakeshop-backend/internal/reconcile"
	"bakeshop-backend/internal/report"
	"bakeshop-backend/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()
	log := logger.Must(logger.New())
	defer log.Sync()

	database.Init(cfg)

	app := fiber.New(fiber.Config{
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			if e, ok := err.(*fiber.Error); ok {
				return c.Status(e.Code).JSON(fiber.Map{
					"error": e.Message,
				})
			}
			log.Error("unexpected error", zap.Error(err))
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Unexpected server error",
			})
		},
	})

	corsOrigins := strings.Split(cfg.CORSOrigins, ",")
	for i := range corsOrigins {
		corsOrigins[i] = strings.TrimSpace(corsOrigins[i])
	}
	app.Use(cors.New(cors.Config{
		AllowOrigins: strings.Join(corsOrigins, ","),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET,POST,PUT,DELETE,OPTIONS",
	}))

	api := app.Group("/api")

	// Flavor catalog
	api.Get("/flavors", catalog.ListFlavorsHandler())
	api.Post("/flavors", catalog.CreateFlavorHandler())
	api.Put("/flavors/:id", catalog.UpdateFlavorHandler())
	api.Delete("/flavors/:id", catalog.DeleteFlavorHandler())

	// Events
	api.Get("/events", event.ListEventsHandler())
	api.Post("/events", event.CreateEventHandler())
	api.Get("/events/:id", event.GetEventHandler())
	api.Put("/events/:id", event.UpdateEventHandler())
	api.Delete("/events/:id", event.DeleteEventHandler())
	api.Post("/events/:id/restore", event.RestoreEventHandler())
	api.Post("/events/:id/recalculate", event.RecalculateEventHandler())

	// Event line items
	api.Get("/event-items", event.ListEventItemsHandler())
	api.Post("/event-items", event.CreateEventItemHandler(cfg))
	api.Put("/event-items/:id", event.UpdateEventItemHandler(cfg))
	api.Delete("/event-items/:id", event.DeleteEventItemHandler())
	api.Post("/event-items/:id/use-base-cost", event.UseBaseCostHandler(cfg))

	// Deliveries
	api.Get("/deliveries", delivery.ListDeliveriesHandler())
	api.Post("/deliveries", delivery.CreateDeliveryHandler())
	api.Get("/deliveries/:id", delivery.GetDeliveryHandler())
	api.Put("/deliveries/:id", delivery.UpdateDeliveryHandler())
	api.Delete("/deliveries/:id", delivery.DeleteDeliveryHandler())
	api.Post("/deliveries/:id/restore", delivery.RestoreDeliveryHandler())
	api.Post("/deliveries/:id/recalculate", delivery.RecalculateDeliveryHandler())

	// Delivery line items
	api.Get("/delivery-items", delivery.ListDeliveryItemsHandler())
	api.Post("/delivery-items", delivery.CreateDeliveryItemHandler(cfg))
	api.Put("/delivery-items/:id", delivery.UpdateDeliveryItemHandler(cfg))
	api.Delete("/delivery-items/:id", delivery.DeleteDeliveryItemHandler())
	api.Post("/delivery-items/:id/use-base-cost", delivery.UseBaseCostHandler(cfg))

	// Dashboard, reports, recovery
	api.Get("/dashboard/summary", dashboard.SummaryHandler())
	api.Get("/reports/export", report.ExportHandler())
	api.Post("/reconcile", reconcile.RunHandler(logger.Named(log, "reconcile")))

	if cfg.ReconcileCron != "" {
		runner := cron.New()
		if err := reconcile.Schedule(runner, cfg.ReconcileCron, logger.Named(log, "reconcile")); err != nil {
			log.Fatal("invalid RECONCILE_CRON", zap.String("spec", cfg.ReconcileCron), zap.Error(err))
		}
		runner.Start()
		defer runner.Stop()
	}

	log.Info("server listening", zap.String("port", cfg.HTTPPort))
	if err := app.Listen(":" + cfg.HTTPPort); err != nil {
		log.Fatal("server stopped", zap.Error(err))
	}
}
