package config

import (
	"context"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

const (
	ServiceInventory    = "inventory"
	ServiceNotification = "notification"
	ServiceRestocking   = "restocking"
	ServiceGateway      = "gateway"
	ServiceAll          = "all"
)

type Config struct {
	Service            string          `mapstructure:"SERVICE" validate:"required,oneof=inventory notification restocking gateway all"`
	InternalAuthHeader string          `mapstructure:"INTERNAL_AUTH_HEADER"`
	MetricsEnabled     bool            `mapstructure:"METRICS_ENABLED"`
	Port               PortConfig      `mapstructure:",squash"`
	Db                 DbConfig        `mapstructure:",squash"`
	Broker             BrokerConfig    `mapstructure:",squash"`
	Redis              RedisConfig     `mapstructure:",squash"`
	Upstream           UpstreamConfig  `mapstructure:",squash"`
	Threshold          ThresholdConfig `mapstructure:",squash"`
	Notifier           NotifierConfig  `mapstructure:",squash"`
	Jwt                JwtConfig       `mapstructure:",squash"`
}

type PortConfig struct {
	Inventory    string `mapstructure:"INVENTORY_PORT" validate:"required"`
	Notification string `mapstructure:"NOTIFICATION_PORT" validate:"required"`
	Restocking   string `mapstructure:"RESTOCKING_PORT" validate:"required"`
	Gateway      string `mapstructure:"GATEWAY_PORT" validate:"required"`
}

type DbConfig struct {
	Driver     string `mapstructure:"DB_DRIVER" validate:"required,oneof=postgres sqlite"`
	Host       string `mapstructure:"DB_HOST" validate:"required_if=Driver postgres"`
	Port       string `mapstructure:"DB_PORT" validate:"required_if=Driver postgres"`
	Username   string `mapstructure:"DB_USERNAME" validate:"required_if=Driver postgres"`
	Password   string `mapstructure:"DB_PASSWORD"`
	DbName     string `mapstructure:"DB_DBNAME" validate:"required_if=Driver postgres"`
	SSLMode    string `mapstructure:"DB_SSLMODE"`
	SQLitePath string `mapstructure:"DB_SQLITE_PATH" validate:"required_if=Driver sqlite"`
}

type BrokerConfig struct {
	Driver              string        `mapstructure:"BROKER_DRIVER" validate:"required,oneof=nats memory"`
	NatsURL             string        `mapstructure:"NATS_URL" validate:"required_if=Driver nats"`
	ConsumerMaxDeliver  int           `mapstructure:"CONSUMER_MAX_DELIVER" validate:"gte=1"`
	ConsumerAckWait     time.Duration `mapstructure:"CONSUMER_ACK_WAIT" validate:"gt=0"`
	PublisherBufferSize int           `mapstructure:"PUBLISHER_BUFFER_SIZE" validate:"gte=1"`
	PublisherRetries    int           `mapstructure:"PUBLISHER_RETRY_ATTEMPTS" validate:"gte=0"`
	PublisherRetryDelay time.Duration `mapstructure:"PUBLISHER_RETRY_DELAY" validate:"gte=0"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"REDIS_ADDR"`
	Password string        `mapstructure:"REDIS_PASSWORD"`
	DB       int           `mapstructure:"REDIS_DB" validate:"gte=0"`
	CacheTTL time.Duration `mapstructure:"CACHE_TTL" validate:"gt=0"`
}

type UpstreamConfig struct {
	InventoryURL    string        `mapstructure:"INVENTORY_SERVICE_URL" validate:"required,url"`
	NotificationURL string        `mapstructure:"NOTIFICATION_SERVICE_URL" validate:"required,url"`
	RestockingURL   string        `mapstructure:"RESTOCKING_SERVICE_URL" validate:"required,url"`
	Timeout         time.Duration `mapstructure:"HTTP_CLIENT_TIMEOUT" validate:"gt=0"`
}

type ThresholdConfig struct {
	InventoryLowStock int64 `mapstructure:"INVENTORY_LOW_STOCK_THRESHOLD" validate:"gte=0"`
	RestockLowStock   int64 `mapstructure:"RESTOCK_LOW_STOCK_THRESHOLD" validate:"gtefield=RestockCritical"`
	RestockCritical   int64 `mapstructure:"RESTOCK_CRITICAL_STOCK_THRESHOLD" validate:"gte=0"`
}

type NotifierConfig struct {
	EmailRecipient string `mapstructure:"EMAIL_RECIPIENT" validate:"required,email"`
}

type JwtConfig struct {
	SecretKey string `mapstructure:"JWT_SECRETKEY"`
}

var defaults = map[string]any{
	"SERVICE":                          ServiceAll,
	"INVENTORY_PORT":                   "8081",
	"NOTIFICATION_PORT":                "8082",
	"RESTOCKING_PORT":                  "8083",
	"GATEWAY_PORT":                     "8080",
	"DB_DRIVER":                        "postgres",
	"DB_SSLMODE":                       "disable",
	"BROKER_DRIVER":                    "nats",
	"NATS_URL":                         "nats://localhost:4222",
	"CONSUMER_MAX_DELIVER":             3,
	"CONSUMER_ACK_WAIT":                "30s",
	"PUBLISHER_BUFFER_SIZE":            256,
	"PUBLISHER_RETRY_ATTEMPTS":         0,
	"PUBLISHER_RETRY_DELAY":            "200ms",
	"REDIS_DB":                         0,
	"CACHE_TTL":                        "5m",
	"INVENTORY_SERVICE_URL":            "http://localhost:8081",
	"NOTIFICATION_SERVICE_URL":         "http://localhost:8082",
	"RESTOCKING_SERVICE_URL":           "http://localhost:8083",
	"HTTP_CLIENT_TIMEOUT":              "5s",
	"INVENTORY_LOW_STOCK_THRESHOLD":    10,
	"RESTOCK_LOW_STOCK_THRESHOLD":      10,
	"RESTOCK_CRITICAL_STOCK_THRESHOLD": 5,
	"EMAIL_RECIPIENT":                  "inventory-alerts@example.com",
	"METRICS_ENABLED":                  true,
}

// Keys with no default, bound so AutomaticEnv picks them up on Unmarshal.
var envOnly = []string{
	"INTERNAL_AUTH_HEADER",
	"DB_HOST",
	"DB_PORT",
	"DB_USERNAME",
	"DB_PASSWORD",
	"DB_DBNAME",
	"DB_SQLITE_PATH",
	"REDIS_ADDR",
	"REDIS_PASSWORD",
	"JWT_SECRETKEY",
}

func InitConfig(ctx context.Context) (*Config, error) {
	var cfg Config

	viper.Reset()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.SetConfigType("env")

	envFile := os.Getenv("ENV_FILE")
	if envFile == "" {
		envFile = ".env"
	}

	_, err := os.Stat(envFile)
	if !os.IsNotExist(err) {
		viper.SetConfigFile(envFile)

		if err := viper.ReadInConfig(); err != nil {
			slog.WarnContext(ctx, "[InitConfig] ReadInConfig warning, continuing with env vars only", "error", err)
		} else {
			slog.InfoContext(ctx, "[InitConfig] Successfully loaded config file", "file", envFile)
		}
	} else {
		slog.InfoContext(ctx, "[InitConfig] No config file found, using environment variables")
	}

	viper.AutomaticEnv()

	for key, value := range defaults {
		viper.SetDefault(key, value)
		viper.BindEnv(key)
	}
	for _, key := range envOnly {
		viper.BindEnv(key)
	}

	if err := viper.Unmarshal(&cfg); err != nil {
		slog.ErrorContext(ctx, "[InitConfig] Unmarshal", "failed bind config", err)
		return nil, err
	}

	slog.InfoContext(ctx, "[InitConfig] Configuration after binding",
		"SERVICE", cfg.Service,
		"DB_DRIVER", cfg.Db.Driver,
		"DB_HOST", cfg.Db.Host,
		"DB_DBNAME", cfg.Db.DbName,
		"BROKER_DRIVER", cfg.Broker.Driver,
		"NATS_URL", cfg.Broker.NatsURL,
		"REDIS_ADDR", cfg.Redis.Addr,
		"INVENTORY_SERVICE_URL", cfg.Upstream.InventoryURL,
		"NOTIFICATION_SERVICE_URL", cfg.Upstream.NotificationURL,
		"RESTOCKING_SERVICE_URL", cfg.Upstream.RestockingURL)

	validate := validator.New()
	if err := validate.Struct(cfg); err != nil {
		validationErrs, ok := err.(validator.ValidationErrors)
		if ok {
			for _, validationErr := range validationErrs {
				slog.ErrorContext(ctx, "[InitConfig] Validation error",
					"field", validationErr.Field(),
					"namespace", validationErr.Namespace(),
					"tag", validationErr.Tag(),
					"value", validationErr.Value())
			}
		} else {
			slog.ErrorContext(ctx, "[InitConfig] Validation", "error", err)
		}
		return nil, err
	}

	slog.InfoContext(ctx, "[InitConfig] Config loaded successfully")
	return &cfg, nil
}

// Runs reports whether the configured SERVICE includes service.
func (c *Config) Runs(service string) bool {
	return c.Service == ServiceAll || c.Service == service
}
