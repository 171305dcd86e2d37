package configuration

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"streamhub/infrastructure/logger"

	"github.com/spf13/viper"
)

type Config struct {
	App         App         `json:"app"`
	Auth        Auth        `json:"auth"`
	Database    Database    `json:"database"`
	RedisClient RedisClient `json:"redisClient"`
	ObjectStore ObjectStore `json:"objectStore"`
	Events      Events      `json:"events"`
	RateLimit   RateLimit   `json:"rateLimit"`
	Logger      Logger      `json:"logger"`
}

type App struct {
	Port        int      `json:"port"`
	TLSEnabled  bool     `json:"tlsEnabled"`
	TLSCertFile string   `json:"tlsCertFile"`
	TLSKeyFile  string   `json:"tlsKeyFile"`
	CorsOrigins []string `json:"corsOrigins"`
	UploadDir   string   `json:"uploadDir"`
}

type Auth struct {
	AccessTokenSecret  string        `json:"accessTokenSecret"`
	AccessTokenExpiry  time.Duration `json:"accessTokenExpiry"`
	RefreshTokenSecret string        `json:"refreshTokenSecret"`
	RefreshTokenExpiry time.Duration `json:"refreshTokenExpiry"`
	CookieSecure       bool          `json:"cookieSecure"`
}

type Database struct {
	Vendor string `json:"vendor"`
	Psql   Db     `json:"psql"`
	Mongo  Db     `json:"mongo"`
}

type Db struct {
	Name     string `json:"name"`
	Host     string `json:"host"`
	Port     string `json:"port"`
	User     string `json:"user"`
	Password string `json:"password"`
	SSLMode  string `json:"sslMode"`
}

type RedisClient struct {
	Host     string        `json:"host"`
	Port     string        `json:"port"`
	Password string        `json:"password"`
	Username string        `json:"username"`
	TTL      time.Duration `json:"ttl"`
}

type ObjectStore struct {
	Region        string `json:"region"`
	Bucket        string `json:"bucket"`
	Endpoint      string `json:"endpoint"`
	PublicBaseURL string `json:"publicBaseURL"`
}

type Events struct {
	Provider  string `json:"provider"`
	Topic     string `json:"topic"`
	ProjectID string `json:"projectID"`
	Namespace string `json:"namespace"`
	QueueName string `json:"queueName"`
}

type RateLimit struct {
	Requests int           `json:"requests"`
	Window   time.Duration `json:"window"`
	Burst    int           `json:"burst"`
}

type Logger struct {
	Format string `json:"format"`
	Level  string `json:"level"`
}

const (
	VendorMongo    = "mongo"
	VendorPostgres = "postgres"
	VendorMemory   = "memory"
)

// envBindings maps config keys to the environment variables that override them, first set name wins.
var envBindings = map[string][]string{
	"app.port":        {"APP_PORT", "PORT"},
	"app.tlsEnabled":  {"TLS_ENABLED"},
	"app.tlsCertFile": {"TLS_CERT_FILE"},
	"app.tlsKeyFile":  {"TLS_KEY_FILE"},
	"app.corsOrigins": {"CORS_ORIGIN"},
	"app.uploadDir":   {"UPLOAD_DIR"},

	"auth.accessTokenSecret":  {"ACCESS_TOKEN_SECRET"},
	"auth.refreshTokenSecret": {"REFRESH_TOKEN_SECRET"},
	"auth.accessTokenExpiry":  {"ACCESS_TOKEN_EXPIRY"},
	"auth.refreshTokenExpiry": {"REFRESH_TOKEN_EXPIRY"},
	"auth.cookieSecure":       {"COOKIE_SECURE"},

	"database.vendor":         {"DB_VENDOR"},
	"database.mongo.host":     {"MONGO_HOST"},
	"database.mongo.port":     {"MONGO_PORT"},
	"database.mongo.user":     {"MONGO_USER"},
	"database.mongo.password": {"MONGO_PASSWORD"},
	"database.mongo.name":     {"MONGO_DB_NAME"},
	"database.psql.host":      {"DB_HOST"},
	"database.psql.port":      {"DB_PORT"},
	"database.psql.user":      {"DB_USER"},
	"database.psql.password":  {"DB_PASSWORD"},
	"database.psql.name":      {"DB_NAME"},
	"database.psql.sslMode":   {"DB_SSLMODE"},

	"redisClient.host":     {"REDIS_HOST"},
	"redisClient.port":     {"REDIS_PORT"},
	"redisClient.username": {"REDIS_USERNAME"},
	"redisClient.password": {"REDIS_PASSWORD"},

	"objectStore.bucket":        {"S3_BUCKET"},
	"objectStore.region":        {"AWS_REGION"},
	"objectStore.endpoint":      {"S3_ENDPOINT"},
	"objectStore.publicBaseURL": {"S3_PUBLIC_BASE_URL"},

	"events.provider":  {"EVENTS_PROVIDER"},
	"events.topic":     {"EVENTS_TOPIC"},
	"events.projectID": {"PUBSUB_PROJECT_ID"},
	"events.namespace": {"SERVICEBUS_NAMESPACE"},
	"events.queueName": {"SERVICEBUS_QUEUE"},

	"logger.format": {"LOG_FORMAT"},
	"logger.level":  {"LOG_LEVEL"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.port", 8000)
	v.SetDefault("app.uploadDir", os.TempDir())

	v.SetDefault("auth.accessTokenExpiry", 15*time.Minute)
	v.SetDefault("auth.refreshTokenExpiry", 10*24*time.Hour)
	v.SetDefault("auth.cookieSecure", true)

	v.SetDefault("database.vendor", VendorMongo)
	v.SetDefault("database.mongo.host", "localhost")
	v.SetDefault("database.mongo.port", "27017")
	v.SetDefault("database.mongo.name", "streamhub")
	v.SetDefault("database.psql.host", "localhost")
	v.SetDefault("database.psql.port", "5432")
	v.SetDefault("database.psql.user", "postgres")
	v.SetDefault("database.psql.name", "streamhub")
	v.SetDefault("database.psql.sslMode", "disable")

	v.SetDefault("redisClient.port", "6379")
	v.SetDefault("redisClient.ttl", time.Minute)

	v.SetDefault("objectStore.region", "us-east-1")

	v.SetDefault("events.provider", "none")
	v.SetDefault("events.topic", "streamhub-events")

	v.SetDefault("rateLimit.requests", 10)
	v.SetDefault("rateLimit.window", time.Minute)
	v.SetDefault("rateLimit.burst", 5)

	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.level", "info")
}

// Load reads config[-ENV].json, applies environment overrides and defaults, and validates the result.
func Load() (*Config, error) {
	v := viper.New()
	name := getConfig()
	v.SetConfigName(name)
	v.SetConfigType("json")
	v.AddConfigPath(".")
	v.AddConfigPath("../")
	v.AddConfigPath("../../")
	setDefaults(v)
	for key, envs := range envBindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if errors.As(err, &notFound) {
			logger.GetLogger().WithField("config", name).Warn("Config file not found, using environment and defaults")
		} else {
			return nil, fmt.Errorf("read config %s: %w", name, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	normalize(&c)

	if err := c.Validate(); err != nil {
		return nil, err
	}
	logger.GetLogger().WithField("config", name).Info("Config set up successfully")
	return &c, nil
}

func getConfig() string {
	name := "config"
	env := os.Getenv("ENV")
	if env != "" {
		name = fmt.Sprintf("%s-%s", name, env)
	}
	return name
}

// Validate checks settings without which the service must not start.
func (c *Config) Validate() error {
	if c.Auth.AccessTokenSecret == "" || c.Auth.RefreshTokenSecret == "" {
		return errors.New("auth: ACCESS_TOKEN_SECRET and REFRESH_TOKEN_SECRET are required")
	}
	if c.Auth.AccessTokenSecret == c.Auth.RefreshTokenSecret {
		return errors.New("auth: access and refresh token secrets must differ")
	}
	switch c.Database.Vendor {
	case VendorMongo, VendorPostgres, VendorMemory:
	default:
		return fmt.Errorf("database: unknown vendor %q", c.Database.Vendor)
	}
	return nil
}

// normalize fixes values a config file may set to zero or in a different case.
func normalize(c *Config) {
	c.Database.Vendor = strings.ToLower(strings.TrimSpace(c.Database.Vendor))
	if c.Events.QueueName == "" {
		c.Events.QueueName = c.Events.Topic
	}
	if c.Auth.AccessTokenExpiry <= 0 {
		c.Auth.AccessTokenExpiry = 15 * time.Minute
	}
	if c.Auth.RefreshTokenExpiry <= 0 {
		c.Auth.RefreshTokenExpiry = 10 * 24 * time.Hour
	}
	if c.RedisClient.TTL <= 0 {
		c.RedisClient.TTL = time.Minute
	}
	if c.RateLimit.Requests <= 0 {
		c.RateLimit.Requests = 10
	}
	if c.RateLimit.Window <= 0 {
		c.RateLimit.Window = time.Minute
	}
	if c.RateLimit.Burst <= 0 {
		c.RateLimit.Burst = 5
	}
}
