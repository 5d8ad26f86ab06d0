package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

type Config struct {
	ServerPort   int            `yaml:"server_port"`
	SecretKey    string         `yaml:"secret_key"`
	SessionTTL   time.Duration  `yaml:"session_ttl"`
	CookieSecure bool           `yaml:"cookie_secure"`
	Database     DatabaseConfig `yaml:"database"`
	Storage      StorageConfig  `yaml:"storage"`
	MQ           MQConfig       `yaml:"mq"`
	Log          LogConfig      `yaml:"log"`
}

type DatabaseConfig struct {
	Driver   string `yaml:"driver"`
	URL      string `yaml:"url"`
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"name"`
	UseSSL   bool   `yaml:"use_ssl"`
	Path     string `yaml:"path"`
	// AutoMigrate applies embedded migrations when the server starts.
	AutoMigrate bool `yaml:"auto_migrate"`
}

// StorageConfig selects the object store used for uploaded post images.
// An empty Backend disables uploads; posts then rely on img_url only.
type StorageConfig struct {
	Backend string      `yaml:"backend"`
	Minio   MinioConfig `yaml:"minio"`
	GCS     GCSConfig   `yaml:"gcs"`
	// PublicBaseURL is prefixed to object keys to build image URLs.
	PublicBaseURL string `yaml:"public_base_url"`
}

type MinioConfig struct {
	Endpoint  string `yaml:"endpoint"`
	AccessKey string `yaml:"access_key"`
	SecretKey string `yaml:"secret_key"`
	Bucket    string `yaml:"bucket"`
	UseSSL    bool   `yaml:"use_ssl"`
}

type GCSConfig struct {
	Bucket          string `yaml:"bucket"`
	ProjectID       string `yaml:"project_id"`
	CredentialsFile string `yaml:"credentials_file"`
}

// MQConfig selects the broker that receives domain events.
// An empty Backend disables publishing.
type MQConfig struct {
	Backend  string         `yaml:"backend"`
	Channel  string         `yaml:"channel"`
	RabbitMQ RabbitMQConfig `yaml:"rabbitmq"`
	PubSub   PubSubConfig   `yaml:"pubsub"`
}

type RabbitMQConfig struct {
	URL             string `yaml:"url"`
	QueueDurable    bool   `yaml:"queue_durable"`
	QueueAutoDelete bool   `yaml:"queue_auto_delete"`
	PrefetchCount   int    `yaml:"prefetch_count"`
}

type PubSubConfig struct {
	ProjectID          string `yaml:"project_id"`
	CredentialsFile    string `yaml:"credentials_file"`
	SubscriptionSuffix string `yaml:"subscription_suffix"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// LoadConfig builds the configuration from defaults, the optional YAML file
// named by CONFIG_FILE, and finally the environment.
func LoadConfig() (Config, error) {
	if os.Getenv("ENV") == "dev" {
		godotenv.Load()
	}

	cfg := defaults()

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)
	return cfg, nil
}

func defaults() Config {
	return Config{
		ServerPort: 8080,
		SessionTTL: 30 * 24 * time.Hour,
		Database: DatabaseConfig{
			Driver:      DriverPostgres,
			Host:        "localhost",
			Port:        5432,
			User:        "quill",
			Password:    "password",
			DBName:      "quill_db",
			Path:        "./data/blog.db",
			AutoMigrate: true,
		},
		MQ: MQConfig{
			Channel: "blog-events",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
	}
}

func applyEnv(cfg *Config) {
	cfg.ServerPort = getEnvInt("SERVER_PORT", cfg.ServerPort)
	cfg.SecretKey = getEnv("SECRET_KEY", cfg.SecretKey)
	cfg.SessionTTL = getEnvDuration("SESSION_TTL", cfg.SessionTTL)
	cfg.CookieSecure = getEnvBool("COOKIE_SECURE", cfg.CookieSecure)

	db := &cfg.Database
	db.Driver = strings.ToLower(getEnv("DB_DRIVER", db.Driver))
	db.URL = getEnv("DATABASE_URL", db.URL)
	db.Host = getEnv("DB_HOST", db.Host)
	db.Port = getEnvInt("DB_PORT", db.Port)
	db.User = getEnv("DB_USER", db.User)
	db.Password = getEnv("DB_PASSWORD", db.Password)
	db.DBName = getEnv("DB_NAME", db.DBName)
	db.UseSSL = getEnvBool("DB_USE_SSL", db.UseSSL)
	db.Path = getEnv("DB_PATH", db.Path)
	db.AutoMigrate = getEnvBool("DB_AUTO_MIGRATE", db.AutoMigrate)

	st := &cfg.Storage
	st.Backend = strings.ToLower(getEnv("STORAGE_BACKEND", st.Backend))
	st.PublicBaseURL = getEnv("STORAGE_PUBLIC_BASE_URL", st.PublicBaseURL)
	st.Minio.Endpoint = getEnv("MINIO_ENDPOINT", st.Minio.Endpoint)
	st.Minio.AccessKey = getEnv("MINIO_ACCESS_KEY", st.Minio.AccessKey)
	st.Minio.SecretKey = getEnv("MINIO_SECRET_KEY", st.Minio.SecretKey)
	st.Minio.Bucket = getEnv("MINIO_BUCKET", st.Minio.Bucket)
	st.Minio.UseSSL = getEnvBool("MINIO_USE_SSL", st.Minio.UseSSL)
	st.GCS.Bucket = getEnv("GCS_BUCKET", st.GCS.Bucket)
	st.GCS.ProjectID = getEnv("GCS_PROJECT_ID", st.GCS.ProjectID)
	st.GCS.CredentialsFile = getEnv("GCS_CREDENTIALS_FILE", st.GCS.CredentialsFile)

	mq := &cfg.MQ
	mq.Backend = strings.ToLower(getEnv("MQ_BACKEND", mq.Backend))
	mq.Channel = getEnv("MQ_CHANNEL", mq.Channel)
	mq.RabbitMQ.URL = getEnv("RABBITMQ_URL", mq.RabbitMQ.URL)
	mq.RabbitMQ.QueueDurable = getEnvBool("RABBITMQ_QUEUE_DURABLE", mq.RabbitMQ.QueueDurable)
	mq.RabbitMQ.QueueAutoDelete = getEnvBool("RABBITMQ_QUEUE_AUTO_DELETE", mq.RabbitMQ.QueueAutoDelete)
	mq.RabbitMQ.PrefetchCount = getEnvInt("RABBITMQ_PREFETCH_COUNT", mq.RabbitMQ.PrefetchCount)
	mq.PubSub.ProjectID = getEnv("PUBSUB_PROJECT_ID", mq.PubSub.ProjectID)
	mq.PubSub.CredentialsFile = getEnv("PUBSUB_CREDENTIALS_FILE", mq.PubSub.CredentialsFile)
	mq.PubSub.SubscriptionSuffix = getEnv("PUBSUB_SUBSCRIPTION_SUFFIX", mq.PubSub.SubscriptionSuffix)

	cfg.Log.Level = getEnv("LOG_LEVEL", cfg.Log.Level)
	cfg.Log.Format = getEnv("LOG_FORMAT", cfg.Log.Format)
}

// DSN returns the driver-specific data source name.
// DATABASE_URL wins over the split host/port fields for postgres.
func (c DatabaseConfig) DSN() string {
	if c.Driver == DriverSQLite {
		if c.URL != "" {
			return c.URL
		}
		return c.Path
	}
	if c.URL != "" {
		return c.URL
	}

	sslmode := "disable"
	if c.UseSSL {
		sslmode = "require"
	}

	u := &url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", c.Host, c.Port),
		User:   url.UserPassword(c.User, c.Password),
		Path:   c.DBName,
	}
	q := u.Query()
	q.Set("sslmode", sslmode)
	u.RawQuery = q.Encode()
	return u.String()
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.Atoi(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := strconv.ParseBool(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if valueStr, exists := os.LookupEnv(key); exists {
		value, err := time.ParseDuration(strings.TrimSpace(valueStr))
		if err != nil {
			return defaultValue
		}
		return value
	}
	return defaultValue
}
