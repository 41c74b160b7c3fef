package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends understood by kv.Open
const (
	BackendMemory   = "memory"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
	BackendDynamoDB = "dynamodb"
)

const minJWTSecretLength = 32

var (
	ErrUnknownBackend  = errors.New("unknown storage backend")
	ErrJWTSecretLength = fmt.Errorf("jwt secret must be at least %d characters long", minJWTSecretLength)
	ErrMissingDSN      = errors.New("storage backend requires a connection string")
)

type Config struct {
	HTTPAddr    string   `yaml:"http_addr"`
	LogLevel    string   `yaml:"log_level"`
	Development bool     `yaml:"development"`
	CORSOrigins []string `yaml:"cors_origins"`

	Storage  StorageConfig  `yaml:"storage"`
	Fixtures FixturesConfig `yaml:"fixtures"`
	Auth     AuthConfig     `yaml:"auth"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	SMTP     SMTPConfig     `yaml:"smtp"`
	Catalog  CatalogConfig  `yaml:"catalog"`
}

type StorageConfig struct {
	Backend     string `yaml:"backend"`
	SQLitePath  string `yaml:"sqlite_path"`
	PostgresDSN string `yaml:"postgres_dsn"`
	RedisAddr   string `yaml:"redis_addr"`
	RedisPrefix string `yaml:"redis_prefix"`
	DynamoTable string `yaml:"dynamo_table"`
}

type FixturesConfig struct {
	Dir   string `yaml:"dir"`
	Watch bool   `yaml:"watch"`
}

type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl"`
}

type KafkaConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
	GroupID string   `yaml:"group_id"`
}

// Enabled reports whether mutation events are forwarded to Kafka
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type SMTPConfig struct {
	Host string `yaml:"host"`
	Port string `yaml:"port"`
	From string `yaml:"from"`
}

type CatalogConfig struct {
	PageSize int `yaml:"page_size"`
}

// Default returns the configuration used when nothing else is supplied
func Default() Config {
	return Config{
		HTTPAddr:    ":8080",
		LogLevel:    "info",
		CORSOrigins: []string{"*"},
		Storage: StorageConfig{
			Backend:     BackendSQLite,
			SQLitePath:  "litebay.db",
			RedisPrefix: "litebay:",
			DynamoTable: "litebay-kv",
		},
		Fixtures: FixturesConfig{Dir: "data"},
		Auth:     AuthConfig{AccessTokenTTL: 24 * time.Hour},
		Kafka:    KafkaConfig{Topic: "litebay-events", GroupID: "litebay-notifier"},
		SMTP:     SMTPConfig{Host: "localhost", Port: "1025", From: "noreply@litebay.vn"},
		Catalog:  CatalogConfig{PageSize: 12},
	}
}

// Load builds the configuration from defaults, the YAML file named by
// LITEBAY_CONFIG (if any) and environment variables, in that order.
func Load() (Config, error) {
	cfg := Default()

	if path := os.Getenv("LITEBAY_CONFIG"); path != "" {
		if err := cfg.mergeFile(path); err != nil {
			return Config{}, err
		}
	}

	cfg.applyEnv()
	return cfg, cfg.Validate()
}

func (c *Config) mergeFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	return nil
}

func (c *Config) applyEnv() {
	c.HTTPAddr = getEnv("HTTP_ADDR", c.HTTPAddr)
	c.LogLevel = getEnv("LOG_LEVEL", c.LogLevel)
	c.Development = getEnvBool("DEVELOPMENT", c.Development)
	c.CORSOrigins = getEnvList("CORS_ORIGINS", c.CORSOrigins)

	c.Storage.Backend = getEnv("STORAGE_BACKEND", c.Storage.Backend)
	c.Storage.SQLitePath = getEnv("SQLITE_PATH", c.Storage.SQLitePath)
	c.Storage.PostgresDSN = getEnv("DATABASE_URL", c.Storage.PostgresDSN)
	c.Storage.RedisAddr = getEnv("REDIS_ADDR", c.Storage.RedisAddr)
	c.Storage.RedisPrefix = getEnv("REDIS_PREFIX", c.Storage.RedisPrefix)
	c.Storage.DynamoTable = getEnv("DYNAMO_TABLE", c.Storage.DynamoTable)

	c.Fixtures.Dir = getEnv("FIXTURES_DIR", c.Fixtures.Dir)
	c.Fixtures.Watch = getEnvBool("FIXTURES_WATCH", c.Fixtures.Watch)

	c.Auth.JWTSecret = getEnv("JWT_SECRET", c.Auth.JWTSecret)
	if v := os.Getenv("ACCESS_TOKEN_TTL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			c.Auth.AccessTokenTTL = d
		}
	}

	c.Kafka.Brokers = getEnvList("KAFKA_BROKERS", c.Kafka.Brokers)
	c.Kafka.Topic = getEnv("KAFKA_TOPIC", c.Kafka.Topic)
	c.Kafka.GroupID = getEnv("KAFKA_GROUP_ID", c.Kafka.GroupID)

	c.SMTP.Host = getEnv("SMTP_HOST", c.SMTP.Host)
	c.SMTP.Port = getEnv("SMTP_PORT", c.SMTP.Port)
	c.SMTP.From = getEnv("SMTP_FROM", c.SMTP.From)

	if v := os.Getenv("PAGE_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Catalog.PageSize = n
		}
	}
}

// Validate reports configuration that cannot be used to start the storefront
func (c Config) Validate() error {
	switch c.Storage.Backend {
	case BackendMemory:
	case BackendSQLite:
		if c.Storage.SQLitePath == "" {
			return fmt.Errorf("%w: %s", ErrMissingDSN, c.Storage.Backend)
		}
	case BackendPostgres:
		if c.Storage.PostgresDSN == "" {
			return fmt.Errorf("%w: %s", ErrMissingDSN, c.Storage.Backend)
		}
	case BackendRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("%w: %s", ErrMissingDSN, c.Storage.Backend)
		}
	case BackendDynamoDB:
		if c.Storage.DynamoTable == "" {
			return fmt.Errorf("%w: %s", ErrMissingDSN, c.Storage.Backend)
		}
	default:
		return fmt.Errorf("%w: %q", ErrUnknownBackend, c.Storage.Backend)
	}

	if c.Auth.JWTSecret != "" && len(c.Auth.JWTSecret) < minJWTSecretLength {
		return ErrJWTSecretLength
	}
	if c.Catalog.PageSize <= 0 {
		return errors.New("catalog page size must be positive")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvList(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
