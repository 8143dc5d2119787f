package config

import (
	"errors"
	"fmt"
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	Server     ServerConfig     `envPrefix:"SERVER_"`
	Database   DatabaseConfig   `envPrefix:"DATABASE_"`
	Cloudinary CloudinaryConfig `envPrefix:"CLOUDINARY_"`
	Upload     UploadConfig     `envPrefix:"UPLOAD_"`
	Kafka      KafkaConfig      `envPrefix:"KAFKA_"`
}

type ServerConfig struct {
	Addr              string `env:"ADDR" envDefault:":8000"`
	BasePath          string `env:"BASE_PATH" envDefault:"/api/v2/product"`
	CORSOriginPattern string `env:"CORS_ORIGIN_PATTERN" envDefault:"^https?://localhost(:[0-9]+)?$"`
	BodyLimit         string `env:"BODY_LIMIT" envDefault:"50M"`
	MetricsNamespace  string `env:"METRICS_NAMESPACE" envDefault:"marketplace"`
	// LegacyStatusCodes answers reads and deletes with 201 like the first
	// version of the API did.
	LegacyStatusCodes bool `env:"LEGACY_STATUS_CODES" envDefault:"false"`
}

type DatabaseConfig struct {
	URI             string        `env:"URI" envDefault:"mongodb://localhost:27017"`
	Database        string        `env:"DATABASE" envDefault:"marketplace"`
	Username        string        `env:"USERNAME"`
	Password        string        `env:"PASSWORD"`
	AuthDB          string        `env:"AUTH_DB" envDefault:"admin"`
	MaxPoolSize     uint64        `env:"MAX_POOL_SIZE" envDefault:"20"`
	MaxConnIdleTime time.Duration `env:"MAX_CONN_IDLE_TIME" envDefault:"30s"`
	Timeout         time.Duration `env:"TIMEOUT" envDefault:"10s"`
}

type CloudinaryConfig struct {
	// URL has the form cloudinary://<api_key>:<api_secret>@<cloud_name> and
	// takes precedence over the separate credentials.
	URL       string        `env:"URL"`
	CloudName string        `env:"NAME"`
	APIKey    string        `env:"API_KEY"`
	APISecret string        `env:"API_SECRET"`
	Folder    string        `env:"FOLDER" envDefault:"products"`
	Timeout   time.Duration `env:"TIMEOUT" envDefault:"30s"`
}

type UploadConfig struct {
	MaxFiles int `env:"MAX_FILES" envDefault:"10"`
}

type KafkaConfig struct {
	Enabled  bool     `env:"ENABLED" envDefault:"false"`
	Brokers  []string `env:"BROKERS" envSeparator:"," envDefault:"localhost:9092"`
	Topic    string   `env:"TOPIC" envDefault:"marketplace.products"`
	ClientID string   `env:"CLIENT_ID" envDefault:"marketplace"`
}

func (c CloudinaryConfig) Validate() error {
	if c.URL != "" {
		return nil
	}
	if c.CloudName == "" || c.APIKey == "" || c.APISecret == "" {
		return errors.New("cloudinary: either CLOUDINARY_URL or CLOUDINARY_NAME, CLOUDINARY_API_KEY and CLOUDINARY_API_SECRET are required")
	}
	return nil
}

func Load() (*Config, error) {
	// a missing .env is fine, the environment may be set by the deployment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	if err := cfg.Cloudinary.Validate(); err != nil {
		return nil, err
	}
	if cfg.Upload.MaxFiles <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_FILES must be positive, got %d", cfg.Upload.MaxFiles)
	}
	return cfg, nil
}

func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Errorf("load config: %w", err))
	}
	return cfg
}
