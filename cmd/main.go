package main

import (
	"context"
	"inventory-platform/config"
	"inventory-platform/pkg/logger"
	"inventory-platform/pkg/metrics"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type server struct {
	name string
	port string
	app  *fiber.App
}

func main() {
	// init logger
	logger.InitLogger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// init config
	cfg, err := config.InitConfig(ctx)
	if err != nil {
		slog.Error("failed to init config", "error", err)
		return
	}

	if cfg.MetricsEnabled {
		provider, err := metrics.Setup()
		if err != nil {
			slog.Error("failed to init metrics", "error", err)
			return
		}
		defer provider.Shutdown(context.Background())
	}

	var (
		servers  []server
		cleanups []func()
	)
	defer func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}()

	needsFabric := cfg.Runs(config.ServiceInventory) || cfg.Runs(config.ServiceNotification)
	var fabric eventFabric
	if needsFabric {
		fabric, err = newEventFabric(ctx, cfg)
		if err != nil {
			slog.Error("failed to init event fabric", "driver", cfg.Broker.Driver, "error", err)
			return
		}
		cleanups = append(cleanups, func() {
			if err := fabric.Close(); err != nil {
				slog.Warn("event fabric close", "error", err)
			}
		})
	}

	reqValidator := validator.New()

	if cfg.Runs(config.ServiceNotification) {
		app, err := setupNotification(ctx, cfg, reqValidator, fabric)
		if err != nil {
			slog.Error("failed to init notification service", "error", err)
			return
		}
		servers = append(servers, server{config.ServiceNotification, cfg.Port.Notification, app})
	}

	if cfg.Runs(config.ServiceInventory) {
		app, cleanup, err := setupInventory(ctx, cfg, reqValidator, fabric)
		if err != nil {
			slog.Error("failed to init inventory service", "error", err)
			return
		}
		cleanups = append(cleanups, cleanup)
		servers = append(servers, server{config.ServiceInventory, cfg.Port.Inventory, app})
	}

	if cfg.Runs(config.ServiceRestocking) {
		servers = append(servers, server{config.ServiceRestocking, cfg.Port.Restocking, setupRestocking(cfg)})
	}

	if cfg.Runs(config.ServiceGateway) {
		servers = append(servers, server{config.ServiceGateway, cfg.Port.Gateway, setupGateway(cfg)})
	}

	for _, s := range servers {
		go func() {
			slog.Info("Starting service", "service", s.name, "port", s.port)
			if err := s.app.Listen(":" + s.port); err != nil {
				slog.Error("Failed to listen", "service", s.name, "port", s.port, "error", err)
			}
		}()
	}

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	slog.Info("Gracefully shutdown")

	for _, s := range servers {
		if err := s.app.ShutdownWithTimeout(10 * time.Second); err != nil {
			slog.Warn("Unfortunately the shutdown wasn't smooth", "service", s.name, "err", err)
		}
	}
	cancel()
}
