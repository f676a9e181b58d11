package main

import (
	"context"
	"fmt"
	"inventory-platform/app/domain"
	"inventory-platform/app/middleware"
	"inventory-platform/app/repository/broker"
	"inventory-platform/config"
	"inventory-platform/pkg/logger"
	"inventory-platform/pkg/metrics"
	"log/slog"
	"os"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/healthcheck"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	slogfiber "github.com/samber/slog-fiber"
)

// newApp builds a fiber app with the middleware stack every service shares.
func newApp(name string, cfg *config.Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               name,
		DisableStartupMessage: true,
	})
	app.Use(healthcheck.New(healthcheck.Config{
		LivenessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		LivenessEndpoint: "/live",
		ReadinessProbe: func(c *fiber.Ctx) bool {
			return true
		},
		ReadinessEndpoint: "/ready",
	}))
	webLogger := slog.New(&logger.RequestIDHandler{Handler: slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	})})
	app.Use(slogfiber.New(webLogger.With("service", name)))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
	}))
	app.Use(middleware.RequestIDMiddleware())

	if cfg.MetricsEnabled {
		app.Get("/metrics", metrics.Handler())
	}
	return app
}

type eventFabric interface {
	domain.MessageBroker
	domain.MessageConsumer
	Close() error
}

type natsFabric struct {
	*broker.JetStreamFabric
	nc *nats.Conn
}

func (f natsFabric) Close() error {
	f.JetStreamFabric.Close()
	return f.nc.Drain()
}

// newEventFabric declares the inventory topology on the configured broker.
// The memory driver only connects services running in this process.
func newEventFabric(ctx context.Context, cfg *config.Config) (eventFabric, error) {
	topology := domain.InventoryTopology()

	if cfg.Broker.Driver == "memory" {
		if cfg.Service != config.ServiceAll {
			slog.WarnContext(ctx, "[newEventFabric] memory broker only delivers within one process", "service", cfg.Service)
		}
		return broker.NewMemoryFabric(topology, broker.WithMaxDeliver(cfg.Broker.ConsumerMaxDeliver))
	}

	// Connect to NATS server
	nc, err := nats.Connect(cfg.Broker.NatsURL, nats.Name("inventory-platform"))
	if err != nil {
		return nil, fmt.Errorf("connect nats: %w", err)
	}

	js, err := jetstream.New(nc)
	if err != nil {
		nc.Close()
		return nil, fmt.Errorf("create jetstream context: %w", err)
	}

	fabric, err := broker.NewJetStreamFabric(ctx, js, topology, cfg.Broker.ConsumerMaxDeliver, cfg.Broker.ConsumerAckWait)
	if err != nil {
		nc.Close()
		return nil, err
	}
	return natsFabric{JetStreamFabric: fabric, nc: nc}, nil
}
