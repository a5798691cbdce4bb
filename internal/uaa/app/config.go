package app

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	httpapi "github.com/aussiebroadwan/uaa/internal/uaa/http"
	"github.com/aussiebroadwan/uaa/internal/uaa/service"
	"github.com/aussiebroadwan/uaa/pkg/httpx"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Issuer    string // Issuer claim for tokens (default: uaa)
	Algorithm string // JWT signing algorithm (RS256, ES256, EdDSA) (default: EdDSA)
	RSABits   int    // RSA key size for RS256 (default: 3072)
	NumKeys   int    // Ephemeral signing keys to generate (default: 2, max: 10)
	KeysDir   string // Optional: directory of PEM signing keys, kid = file name

	DatabaseFile string // Path to SQLite database file (default: ./uaa.db)
	PepperFile   string // Path to the password hashing pepper (default: ./pepper)

	WebClient     service.InitialClient
	ServiceClient service.InitialClient
	Admin         service.AdminUser

	// AllowedBaseURLs restricts base_url in account requests. Empty allows
	// any absolute http(s) URL.
	AllowedBaseURLs []string

	Mail MailConfig

	Env                  string        // Environment (dev, staging, prod) (default: dev)
	LogLevel             string        // Log level (debug, info, warn, error) (default: info)
	LogFormat            string        // Log format (json, text) (default: json)
	Port                 int           // HTTP server port (default: 8080)
	ShutdownGracePeriod  time.Duration // Graceful shutdown timeout (default: 10s)
	HousekeepingInterval time.Duration // Housekeeping interval (default: 1h)
	MetricsEnabled       bool          // Serve /metrics (default: true)

	RateLimits httpapi.RateLimits
}

type MailConfig struct {
	From           string `yaml:"from"`
	FallbackSender string `yaml:"fallback_sender"`

	SendGridAPIKey string `yaml:"sendgrid_api_key"` // Empty logs mail instead of sending it
	SendGridHost   string `yaml:"sendgrid_host"`

	QueueBackend string `yaml:"queue_backend"` // memory or redis (default: memory)
	QueueSize    int    `yaml:"queue_size"`    // default: 1000
	Workers      int    `yaml:"workers"`       // default: 2

	RedisAddr     string `yaml:"redis_addr"`
	RedisPassword string `yaml:"redis_password"`
	RedisDB       int    `yaml:"redis_db"`
	RedisKey      string `yaml:"redis_key"`
}

// fileConfig is the part of Config a UAA_CONFIG_FILE may set.
type fileConfig struct {
	WebClient       service.InitialClient `yaml:"web_client"`
	ServiceClient   service.InitialClient `yaml:"service_client"`
	Admin           service.AdminUser     `yaml:"admin"`
	AllowedBaseURLs []string              `yaml:"allowed_base_urls"`
	Mail            MailConfig            `yaml:"mail"`
}

// LoadConfig reads the environment, then overlays the YAML file named by
// UAA_CONFIG_FILE when set. Keys present in the file win.
func LoadConfig() (Config, error) {
	cfg := Config{
		Issuer:       getEnvOrDefault("UAA_ISSUER", "uaa"),
		Algorithm:    getEnvOrDefault("UAA_ALGORITHM", "EdDSA"),
		RSABits:      getEnvIntOrDefault("UAA_RSA_BITS", 0),
		NumKeys:      getEnvIntOrDefault("UAA_NUM_KEYS", 0),
		KeysDir:      os.Getenv("UAA_KEYS_DIR"),
		DatabaseFile: getEnvOrDefault("UAA_DATABASE_FILE", "uaa.db"),
		PepperFile:   getEnvOrDefault("UAA_PEPPER_FILE", "pepper"),

		WebClient: service.InitialClient{
			ClientID:             getEnvOrDefault("UAA_WEB_CLIENT_ID", "web_app"),
			Secret:               os.Getenv("UAA_WEB_CLIENT_SECRET"),
			AccessTokenValidity:  getEnvIntOrDefault("UAA_WEB_CLIENT_ACCESS_TOKEN_VALIDITY", 300),
			RefreshTokenValidity: getEnvIntOrDefault("UAA_WEB_CLIENT_REFRESH_TOKEN_VALIDITY", 7*24*3600),
		},
		ServiceClient: service.InitialClient{
			ClientID:             getEnvOrDefault("UAA_SERVICE_CLIENT_ID", "internal"),
			Secret:               os.Getenv("UAA_SERVICE_CLIENT_SECRET"),
			AccessTokenValidity:  getEnvIntOrDefault("UAA_SERVICE_CLIENT_ACCESS_TOKEN_VALIDITY", 300),
			RefreshTokenValidity: getEnvIntOrDefault("UAA_SERVICE_CLIENT_REFRESH_TOKEN_VALIDITY", 0),
		},
		Admin: service.AdminUser{
			Login:    getEnvOrDefault("UAA_ADMIN_LOGIN", "admin"),
			Password: os.Getenv("UAA_ADMIN_PASSWORD"),
			Email:    os.Getenv("UAA_ADMIN_EMAIL"),
		},
		AllowedBaseURLs: getEnvListOrDefault("UAA_ALLOWED_BASE_URLS", nil),

		Mail: MailConfig{
			From:           os.Getenv("MAIL_FROM"),
			FallbackSender: getEnvOrDefault("MAIL_FALLBACK_SENDER", "noreply@localhost"),
			SendGridAPIKey: os.Getenv("SENDGRID_API_KEY"),
			SendGridHost:   os.Getenv("SENDGRID_HOST"),
			QueueBackend:   getEnvOrDefault("MAIL_QUEUE_BACKEND", "memory"),
			QueueSize:      getEnvIntOrDefault("MAIL_QUEUE_SIZE", 1000),
			Workers:        getEnvIntOrDefault("MAIL_WORKERS", 2),
			RedisAddr:      getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
			RedisPassword:  os.Getenv("REDIS_PASSWORD"),
			RedisDB:        getEnvIntOrDefault("REDIS_DB", 0),
			RedisKey:       os.Getenv("MAIL_REDIS_KEY"),
		},

		Env:                  getEnvOrDefault("ENV", "dev"),
		LogLevel:             getEnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:            getEnvOrDefault("LOG_FORMAT", "json"),
		Port:                 getEnvIntOrDefault("PORT", 8080),
		ShutdownGracePeriod:  getEnvDurationOrDefault("SHUTDOWN_GRACE_PERIOD", 10*time.Second),
		HousekeepingInterval: getEnvDurationOrDefault("HOUSEKEEPING_INTERVAL", 1*time.Hour),
		MetricsEnabled:       getEnvBoolOrDefault("METRICS_ENABLED", true),

		RateLimits: httpapi.RateLimits{
			Strict:   httpx.RateLimitFromEnv(os.Getenv, "strict", httpx.StrictLimit),
			Moderate: httpx.RateLimitFromEnv(os.Getenv, "moderate", httpx.ModerateLimit),
			Lenient:  httpx.RateLimitFromEnv(os.Getenv, "lenient", httpx.LenientLimit),
		},
	}

	if path := os.Getenv("UAA_CONFIG_FILE"); path != "" {
		if err := cfg.overlayFile(path); err != nil {
			return Config{}, err
		}
	}

	return cfg, nil
}

func (c *Config) overlayFile(path string) error {
	b, err := os.ReadFile(path) // #nosec G304 -- operator supplied path
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	fc := fileConfig{
		WebClient:       c.WebClient,
		ServiceClient:   c.ServiceClient,
		Admin:           c.Admin,
		AllowedBaseURLs: c.AllowedBaseURLs,
		Mail:            c.Mail,
	}
	if err := yaml.Unmarshal(b, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	c.WebClient = fc.WebClient
	c.ServiceClient = fc.ServiceClient
	c.Admin = fc.Admin
	c.AllowedBaseURLs = fc.AllowedBaseURLs
	c.Mail = fc.Mail
	return nil
}

// Validate reports settings the service cannot start without.
func (c Config) Validate() error {
	var errs []error
	if strings.TrimSpace(c.WebClient.Secret) == "" {
		errs = append(errs, errors.New("UAA_WEB_CLIENT_SECRET is required"))
	}
	if strings.TrimSpace(c.ServiceClient.Secret) == "" {
		errs = append(errs, errors.New("UAA_SERVICE_CLIENT_SECRET is required"))
	}
	switch c.Mail.QueueBackend {
	case "memory", "redis":
	default:
		errs = append(errs, fmt.Errorf("MAIL_QUEUE_BACKEND %q must be memory or redis", c.Mail.QueueBackend))
	}
	return errors.Join(errs...)
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	if intValue, err := strconv.Atoi(value); err == nil {
		return intValue
	}

	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(os.Getenv(key)); err == nil {
		return b
	}
	return defaultValue
}

// getEnvListOrDefault splits a comma separated value, dropping blanks and
// trailing slashes.
func getEnvListOrDefault(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	var out []string
	for _, v := range strings.Split(value, ",") {
		if v = strings.TrimSuffix(strings.TrimSpace(v), "/"); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getEnvDurationOrDefault(key string, defaultValue time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}

	// Try parsing as duration (e.g., "1h", "30m", "90s")
	if duration, err := time.ParseDuration(value); err == nil {
		return duration
	}

	// Bare integers are minutes
	if minutes, err := strconv.Atoi(value); err == nil {
		return time.Duration(minutes) * time.Minute
	}

	return defaultValue
}
