// Package config provides application configuration loading and management.
package config

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config holds application configuration values loaded from file or environment variables.
type Config struct {
	JWTSecret      string `mapstructure:"JWT_SECRET"`
	JWTIssuer      string `mapstructure:"JWT_ISSUER"`
	JWTAudience    string `mapstructure:"JWT_AUDIENCE"`
	JWTTTLHours    int    `mapstructure:"JWT_TTL_HOURS"`
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"APP_ENV"`
	AllowedOrigins string `mapstructure:"ALLOWED_ORIGINS"`

	DBHost                   string `mapstructure:"DB_HOST"`
	DBPort                   string `mapstructure:"DB_PORT"`
	DBUser                   string `mapstructure:"DB_USER"`
	DBPassword               string `mapstructure:"DB_PASSWORD"`
	DBName                   string `mapstructure:"DB_NAME"`
	DBSSLMode                string `mapstructure:"DB_SSLMODE"`
	DBSchemaMode             string `mapstructure:"DB_SCHEMA_MODE"`
	DBMaxOpenConns           int    `mapstructure:"DB_MAX_OPEN_CONNS"`
	DBMaxIdleConns           int    `mapstructure:"DB_MAX_IDLE_CONNS"`
	DBConnMaxLifetimeMinutes int    `mapstructure:"DB_CONN_MAX_LIFETIME_MINUTES"`

	RedisURL string `mapstructure:"REDIS_URL"`

	AssetBackend           string `mapstructure:"ASSET_BACKEND"`
	AssetBucket            string `mapstructure:"ASSET_BUCKET"`
	AssetPublicBaseURL     string `mapstructure:"ASSET_PUBLIC_BASE_URL"`
	AssetUploadTimeoutSecs int    `mapstructure:"ASSET_UPLOAD_TIMEOUT_SECONDS"`
	AssetMaxUploadSizeMB   int    `mapstructure:"ASSET_MAX_UPLOAD_MB"`
	AssetMaxDimension      int    `mapstructure:"ASSET_MAX_DIMENSION"`
	MinioEndpoint          string `mapstructure:"MINIO_ENDPOINT"`
	MinioAccessKey         string `mapstructure:"MINIO_ACCESS_KEY"`
	MinioSecretKey         string `mapstructure:"MINIO_SECRET_KEY"`
	MinioUseSSL            bool   `mapstructure:"MINIO_USE_SSL"`
	GCSCredentialsFile     string `mapstructure:"GCS_CREDENTIALS_FILE"`

	EventsBackend         string `mapstructure:"EVENTS_BACKEND"`
	EventsTopic           string `mapstructure:"EVENTS_TOPIC"`
	RabbitMQURL           string `mapstructure:"RABBITMQ_URL"`
	PubSubProjectID       string `mapstructure:"PUBSUB_PROJECT_ID"`
	PubSubCredentialsFile string `mapstructure:"PUBSUB_CREDENTIALS_FILE"`

	TracingEnabled      bool    `mapstructure:"TRACING_ENABLED"`
	TracingExporter     string  `mapstructure:"TRACING_EXPORTER"`
	OTLPEndpoint        string  `mapstructure:"OTLP_ENDPOINT"`
	TracingSamplerRatio float64 `mapstructure:"TRACING_SAMPLER_RATIO"`

	LeaderboardDefaultLimit int `mapstructure:"LEADERBOARD_DEFAULT_LIMIT"`
	InteractionMaxRetries   int `mapstructure:"INTERACTION_MAX_RETRIES"`
}

// LoadConfig loads application configuration from file and environment variables.
func LoadConfig() (*Config, error) {
	// A local .env is only a convenience for development; missing is fine.
	_ = godotenv.Load()

	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.SetConfigName("config")
	viper.SetConfigType("yml")
	viper.AutomaticEnv()

	_ = viper.ReadInConfig()

	env := strings.ToLower(strings.TrimSpace(viper.GetString("APP_ENV")))
	if env == "" {
		env = "development"
	}

	if env != "development" && env != "test" {
		viper.SetConfigName("config." + env)
		if err := viper.MergeInConfig(); err != nil {
			return nil, fmt.Errorf("required profile-specific config 'config.%s.yml' not found: %w", env, err)
		}
		log.Printf("Loaded profile-specific configuration: config.%s.yml", env)
	}

	setDefaults()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	config.normalize()

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

func setDefaults() {
	viper.SetDefault("PORT", "8375")
	viper.SetDefault("APP_ENV", "development")
	viper.SetDefault("JWT_SECRET", defaultJWTSecret)
	viper.SetDefault("JWT_ISSUER", "promptly-api")
	viper.SetDefault("JWT_AUDIENCE", "promptly-client")
	viper.SetDefault("JWT_TTL_HOURS", 168)
	viper.SetDefault("ALLOWED_ORIGINS", "http://localhost:5173,http://localhost:3000")

	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_USER", "user")
	viper.SetDefault("DB_PASSWORD", "password")
	viper.SetDefault("DB_NAME", "promptly")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("DB_SCHEMA_MODE", "hybrid")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME_MINUTES", 5)

	viper.SetDefault("REDIS_URL", "localhost:6379")

	viper.SetDefault("ASSET_BACKEND", "none")
	viper.SetDefault("ASSET_BUCKET", "promptly-assets")
	viper.SetDefault("ASSET_PUBLIC_BASE_URL", "")
	viper.SetDefault("ASSET_UPLOAD_TIMEOUT_SECONDS", 15)
	viper.SetDefault("ASSET_MAX_UPLOAD_MB", 10)
	viper.SetDefault("ASSET_MAX_DIMENSION", 1600)
	viper.SetDefault("MINIO_ENDPOINT", "localhost:9000")
	viper.SetDefault("MINIO_USE_SSL", false)

	viper.SetDefault("EVENTS_BACKEND", "none")
	viper.SetDefault("EVENTS_TOPIC", "promptly.events")

	viper.SetDefault("TRACING_ENABLED", false)
	viper.SetDefault("TRACING_EXPORTER", "stdout")
	viper.SetDefault("TRACING_SAMPLER_RATIO", 1.0)

	viper.SetDefault("LEADERBOARD_DEFAULT_LIMIT", 3)
	viper.SetDefault("INTERACTION_MAX_RETRIES", 3)
}

func (c *Config) normalize() {
	c.Env = strings.ToLower(strings.TrimSpace(c.Env))
	c.DBSSLMode = strings.ToLower(strings.TrimSpace(c.DBSSLMode))
	c.DBSchemaMode = strings.ToLower(strings.TrimSpace(c.DBSchemaMode))
	c.AssetBackend = strings.ToLower(strings.TrimSpace(c.AssetBackend))
	c.EventsBackend = strings.ToLower(strings.TrimSpace(c.EventsBackend))
}

// IsProduction reports whether the configured environment is production.
func (c *Config) IsProduction() bool {
	return c.Env == "production" || c.Env == "prod"
}

// AssetUploadTimeout is the bound on a single asset host call.
func (c *Config) AssetUploadTimeout() time.Duration {
	if c.AssetUploadTimeoutSecs <= 0 {
		return 15 * time.Second
	}
	return time.Duration(c.AssetUploadTimeoutSecs) * time.Second
}

// Validate ensures that required configuration values are present and meet security standards.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT is required")
	}
	if c.JWTSecret == "" {
		return errors.New("JWT_SECRET is required")
	}
	if c.AssetMaxUploadSizeMB <= 0 {
		return errors.New("ASSET_MAX_UPLOAD_MB must be positive")
	}
	if c.DBConnMaxLifetimeMinutes <= 0 {
		return errors.New("DB_CONN_MAX_LIFETIME_MINUTES must be positive")
	}
	if c.LeaderboardDefaultLimit < 0 {
		return errors.New("LEADERBOARD_DEFAULT_LIMIT must not be negative")
	}

	switch c.AssetBackend {
	case "", "none":
	case "minio":
		if c.MinioEndpoint == "" {
			return errors.New("MINIO_ENDPOINT is required when ASSET_BACKEND=minio")
		}
	case "gcs":
		if c.AssetBucket == "" {
			return errors.New("ASSET_BUCKET is required when ASSET_BACKEND=gcs")
		}
	default:
		return fmt.Errorf("unsupported ASSET_BACKEND %q", c.AssetBackend)
	}

	switch c.EventsBackend {
	case "", "none", "redis":
	case "rabbitmq":
		if c.RabbitMQURL == "" {
			return errors.New("RABBITMQ_URL is required when EVENTS_BACKEND=rabbitmq")
		}
	case "pubsub":
		if c.PubSubProjectID == "" {
			return errors.New("PUBSUB_PROJECT_ID is required when EVENTS_BACKEND=pubsub")
		}
	default:
		return fmt.Errorf("unsupported EVENTS_BACKEND %q", c.EventsBackend)
	}

	if c.IsProduction() {
		if c.JWTSecret == defaultJWTSecret {
			return errors.New("JWT_SECRET must be changed from the default value in production")
		}
		if len(c.JWTSecret) < 32 {
			return errors.New("JWT_SECRET must be at least 32 characters in production")
		}
		if c.DBPassword == "password" || c.DBPassword == "" {
			return errors.New("a strong DB_PASSWORD is required in production")
		}
		if c.DBSSLMode == "disable" || c.DBSSLMode == "" {
			return errors.New("DB_SSLMODE must enable TLS in production")
		}
		if c.AllowedOrigins == "*" {
			log.Println("WARNING: ALLOWED_ORIGINS is set to '*' in production. This is insecure.")
		}
	} else if len(c.JWTSecret) < 32 {
		log.Println("WARNING: JWT_SECRET is shorter than 32 characters. Consider using a stronger secret for production.")
	}

	return nil
}
