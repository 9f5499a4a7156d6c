package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string `mapstructure:"APP_PORT"`
	DatabaseURL       string `mapstructure:"DATABASE_URL"`
	DatabaseName      string `mapstructure:"DATABASE_NAME"`
	Env               string `mapstructure:"ENV"`
	JWTSecret         string `mapstructure:"JWT_SECRET"`
	LogLevel          string `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int    `mapstructure:"MAX_REQUESTS_PER_MIN"`

	// Collections owned by the booking platform.
	TransactionsCollection   string `mapstructure:"TRANSACTIONS_COLLECTION"`
	CabinBookingsCollection  string `mapstructure:"CABIN_BOOKINGS_COLLECTION"`
	HostelBookingsCollection string `mapstructure:"HOSTEL_BOOKINGS_COLLECTION"`
	SettingsCollection       string `mapstructure:"SETTINGS_COLLECTION"`

	// Payment gateway.
	PaymentProvider        string `mapstructure:"PAYMENT_PROVIDER"`
	WebhookSignatureHeader string `mapstructure:"WEBHOOK_SIGNATURE_HEADER"`
	WebhookTimeoutSeconds  int    `mapstructure:"WEBHOOK_TIMEOUT_SECONDS"`
	BookingLockTTLSeconds  int    `mapstructure:"BOOKING_LOCK_TTL_SECONDS"`
	BookingLockWaitMillis  int    `mapstructure:"BOOKING_LOCK_WAIT_MILLIS"`

	// Redis configuration.
	RedisEnabled     bool   `mapstructure:"REDIS_ENABLED"`
	RedisAddr        string `mapstructure:"REDIS_ADDR"`
	RedisPassword    string `mapstructure:"REDIS_PASSWORD"`
	RedisLockDB      int    `mapstructure:"REDIS_LOCK_DB"`
	RedisTaskQueueDB int    `mapstructure:"REDIS_TASK_QUEUE_DB"`

	// Background reconciliation notifications.
	ReconcileTasksEnabled bool `mapstructure:"RECONCILE_TASKS_ENABLED"`

	// Observability.
	OTLPEndpoint      string `mapstructure:"OTLP_ENDPOINT"`
	ServiceName       string `mapstructure:"SERVICE_NAME"`
	HealthCheckPeriod int    `mapstructure:"HEALTH_CHECK_PERIOD_SECONDS"`
}

var AppConfig Config

func LoadConfig() {
	// A local .env is optional; real environment variables win over it.
	_ = godotenv.Load()

	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	// Automatically use environment variables where available.
	viper.AutomaticEnv()

	// Set default values.
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "studyspace")
	viper.SetDefault("TRANSACTIONS_COLLECTION", "transactions")
	viper.SetDefault("CABIN_BOOKINGS_COLLECTION", "bookings")
	viper.SetDefault("HOSTEL_BOOKINGS_COLLECTION", "hostelbookings")
	viper.SetDefault("SETTINGS_COLLECTION", "settings")
	viper.SetDefault("PAYMENT_PROVIDER", "razorpay")
	viper.SetDefault("WEBHOOK_SIGNATURE_HEADER", "X-Razorpay-Signature")
	viper.SetDefault("WEBHOOK_TIMEOUT_SECONDS", 15)
	viper.SetDefault("BOOKING_LOCK_TTL_SECONDS", 30)
	viper.SetDefault("BOOKING_LOCK_WAIT_MILLIS", 3000)
	viper.SetDefault("REDIS_ENABLED", true)
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_LOCK_DB", 0)
	viper.SetDefault("REDIS_TASK_QUEUE_DB", 1)
	viper.SetDefault("RECONCILE_TASKS_ENABLED", false)
	viper.SetDefault("OTLP_ENDPOINT", "")
	viper.SetDefault("SERVICE_NAME", "studyspace-payments")
	viper.SetDefault("HEALTH_CHECK_PERIOD_SECONDS", 60)

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}
