package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	RabbitMQ RabbitMQConfig
	MinIO    MinIOConfig
	Auth     AuthConfig
	YouTube  YouTubeConfig
	Search   SearchConfig
	Worker   WorkerConfig
}

type WorkerConfig struct {
	ShutdownTimeout time.Duration `envconfig:"WORKER_SHUTDOWN_TIMEOUT" default:"30s"`
}

type ServerConfig struct {
	Port            int           `envconfig:"API_PORT" default:"8080"`
	ReadTimeout     time.Duration `envconfig:"API_READ_TIMEOUT" default:"10s"`
	WriteTimeout    time.Duration `envconfig:"API_WRITE_TIMEOUT" default:"30s"`
	ShutdownTimeout time.Duration `envconfig:"API_SHUTDOWN_TIMEOUT" default:"10s"`
}

type DatabaseConfig struct {
	Host     string `envconfig:"POSTGRES_HOST" default:"localhost"`
	Port     int    `envconfig:"POSTGRES_PORT" default:"5432"`
	User     string `envconfig:"POSTGRES_USER" default:"capsearch"`
	Password string `envconfig:"POSTGRES_PASSWORD" default:"capsearch"`
	DBName   string `envconfig:"POSTGRES_DB" default:"capsearch"`
	SSLMode  string `envconfig:"POSTGRES_SSLMODE" default:"disable"`
}

func (c DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

type RedisConfig struct {
	Host     string `envconfig:"REDIS_HOST" default:"localhost"`
	Port     int    `envconfig:"REDIS_PORT" default:"6379"`
	Password string `envconfig:"REDIS_PASSWORD" default:""`
	DB       int    `envconfig:"REDIS_DB" default:"0"`
}

func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

type RabbitMQConfig struct {
	Host     string `envconfig:"RABBITMQ_HOST" default:"localhost"`
	Port     int    `envconfig:"RABBITMQ_PORT" default:"5672"`
	User     string `envconfig:"RABBITMQ_USER" default:"capsearch"`
	Password string `envconfig:"RABBITMQ_PASSWORD" default:"capsearch"`
	VHost    string `envconfig:"RABBITMQ_VHOST" default:"/"`
}

func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf(
		"amqp://%s:%s@%s:%d%s",
		c.User, c.Password, c.Host, c.Port, c.VHost,
	)
}

type MinIOConfig struct {
	Endpoint  string `envconfig:"MINIO_ENDPOINT" default:"localhost:9000"`
	AccessKey string `envconfig:"MINIO_ACCESS_KEY" default:"minioadmin"`
	SecretKey string `envconfig:"MINIO_SECRET_KEY" default:"minioadmin"`
	Bucket    string `envconfig:"MINIO_BUCKET" default:"transcripts"`
	UseSSL    bool   `envconfig:"MINIO_USE_SSL" default:"false"`
}

type AuthConfig struct {
	JWKSURL         string        `envconfig:"AUTH_JWKS_URL" required:"true"`
	Issuer          string        `envconfig:"AUTH_ISSUER" default:""`
	RefreshInterval time.Duration `envconfig:"AUTH_JWKS_REFRESH_INTERVAL" default:"15m"`
	Leeway          time.Duration `envconfig:"AUTH_JWT_LEEWAY" default:"30s"`
}

type YouTubeConfig struct {
	APIKey  string        `envconfig:"YOUTUBE_API_KEY" required:"true"`
	BaseURL string        `envconfig:"YOUTUBE_BASE_URL" default:"https://www.googleapis.com/youtube/v3"`
	Timeout time.Duration `envconfig:"YOUTUBE_TIMEOUT" default:"10s"`
}

type SearchConfig struct {
	// DailyLimit is the maximum number of successful searches per user per
	// calendar day.
	DailyLimit int `envconfig:"SEARCH_DAILY_LIMIT" default:"3"`
	// CacheTTL bounds how long a fetched caption document is served from
	// cache before the next request refetches it.
	CacheTTL time.Duration `envconfig:"SEARCH_CACHE_TTL" default:"24h"`
	// ParseCacheSize is the entry bound of the in-process parsed-blocks memo.
	ParseCacheSize int `envconfig:"SEARCH_PARSE_CACHE_SIZE" default:"256"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return &cfg, nil
}
