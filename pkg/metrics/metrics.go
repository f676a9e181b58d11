// Package metrics exposes the service counters through OpenTelemetry with a
// Prometheus exporter.
package metrics

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/prometheus"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
)

const meterName = "inventory-platform"

const (
	OutcomeOK      = "ok"
	OutcomeFailed  = "failed"
	OutcomeDropped = "dropped"
)

// Instruments are resolved through the global provider, so they start
// reporting as soon as Setup installs one.
var (
	EventsPublished = counter("inventory_events_published",
		"Inventory events handed to the exchange, by routing key and outcome.")
	DeliveriesHandled = counter("inventory_deliveries_handled",
		"Queue deliveries processed by consumers, by queue and outcome.")
	NotificationsDispatched = counter("notifications_dispatched",
		"Observer invocations, by channel and outcome.")
	RestockRecommendations = counter("restock_recommendations",
		"Restock recommendations computed, by strategy and urgency.")
)

func counter(name, description string) metric.Int64Counter {
	c, err := otel.Meter(meterName).Int64Counter(name, metric.WithDescription(description))
	if err != nil {
		slog.Warn("[metrics] counter", "name", name, "error", err)
		return noop.Int64Counter{}
	}
	return c
}

// Setup installs a Prometheus-backed meter provider as the global provider.
func Setup() (*sdkmetric.MeterProvider, error) {
	exporter, err := prometheus.New()
	if err != nil {
		return nil, fmt.Errorf("failed to create prometheus exporter: %w", err)
	}

	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(exporter))
	otel.SetMeterProvider(provider)
	return provider, nil
}

// Handler serves the Prometheus scrape endpoint on a fiber route.
func Handler() fiber.Handler {
	return adaptor.HTTPHandler(promhttp.Handler())
}

func Inc(ctx context.Context, c metric.Int64Counter, attrs ...attribute.KeyValue) {
	c.Add(ctx, 1, metric.WithAttributes(attrs...))
}
