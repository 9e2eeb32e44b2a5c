package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Auth     AuthConfig     `yaml:"auth"`
	Send     SendConfig     `yaml:"send"`
	Storage  StorageConfig  `yaml:"storage"`
	Redis    RedisConfig    `yaml:"redis"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
}

// GetHost returns the server host, with container detection
func (c ServerConfig) GetHost() string {
	// On ECS/container, listen on all interfaces
	if os.Getenv("ECS_CONTAINER_METADATA_URI") != "" || os.Getenv("DYNO") != "" {
		return "0.0.0.0"
	}
	if host := os.Getenv("SERVER_HOST"); host != "" {
		return host
	}
	return c.Host
}

// DatabaseConfig holds the PostgreSQL connection. An empty URL selects the
// in-memory repositories.
type DatabaseConfig struct {
	URL string `yaml:"url"`
}

// AuthConfig holds token, Basic-Auth and Google OAuth settings.
type AuthConfig struct {
	TokenSecret        string `yaml:"token_secret"`
	TokenTTLMinutes    int    `yaml:"token_ttl_minutes"`
	BasicUser          string `yaml:"basic_user"`
	BasicPassword      string `yaml:"basic_password"`
	GoogleClientID     string `yaml:"google_client_id"`
	GoogleClientSecret string `yaml:"google_client_secret"`
	AllowedDomain      string `yaml:"allowed_domain"`
	TokenURL           string `yaml:"token_url"`
	UserInfoURL        string `yaml:"userinfo_url"`
}

// TokenTTL returns the token validity window as a duration
func (c AuthConfig) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLMinutes) * time.Minute
}

// SendConfig selects and configures the outbound test-send provider.
type SendConfig struct {
	Driver         string `yaml:"driver"` // "http" or "ses"
	Endpoint       string `yaml:"endpoint"`
	Key            string `yaml:"key"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	SESRegion      string `yaml:"ses_region"`
}

// Timeout returns the configured timeout as a duration
func (c SendConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// StorageConfig holds the template source root and the image bucket.
type StorageConfig struct {
	TemplatesRoot string `yaml:"templates_root"`
	S3Bucket      string `yaml:"s3_bucket"`
	AWSRegion     string `yaml:"aws_region"`
	AWSAccessKey  string `yaml:"aws_access_key"`
	AWSSecretKey  string `yaml:"aws_secret_key"`
	PublicBaseURL string `yaml:"public_base_url"`
}

// RedisConfig holds the template source cache connection.
type RedisConfig struct {
	URL                     string `yaml:"url"`
	TemplateCacheTTLSeconds int    `yaml:"template_cache_ttl_seconds"`
}

// TemplateCacheTTL returns the cache lifetime as a duration
func (c RedisConfig) TemplateCacheTTL() time.Duration {
	return time.Duration(c.TemplateCacheTTLSeconds) * time.Second
}

// CORSConfig lists the admin front-end origins.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level string `yaml:"level"`
	// RedactPII masks email addresses in log fields. Defaults to true.
	RedactPII *bool `yaml:"redact_pii"`
}

// Redact reports whether log fields should have addresses masked.
func (l LogConfig) Redact() bool {
	return l.RedactPII == nil || *l.RedactPII
}

// Load reads and parses the configuration file
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	cfg.applyDefaults()
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 1337
	}
	if cfg.Server.Host == "" {
		cfg.Server.Host = "localhost"
	}
	if cfg.Auth.TokenTTLMinutes == 0 {
		cfg.Auth.TokenTTLMinutes = 120
	}
	if cfg.Send.Driver == "" {
		cfg.Send.Driver = "http"
	}
	if cfg.Send.TimeoutSeconds == 0 {
		cfg.Send.TimeoutSeconds = 30
	}
	if cfg.Send.SESRegion == "" {
		cfg.Send.SESRegion = "us-east-1"
	}
	if cfg.Storage.TemplatesRoot == "" {
		cfg.Storage.TemplatesRoot = "templates"
	}
	if cfg.Storage.AWSRegion == "" {
		cfg.Storage.AWSRegion = "us-east-1"
	}
	if cfg.Redis.TemplateCacheTTLSeconds == 0 {
		cfg.Redis.TemplateCacheTTLSeconds = 300
	}
	if len(cfg.CORS.AllowedOrigins) == 0 {
		cfg.CORS.AllowedOrigins = []string{"http://localhost:3000", "http://localhost:8080"}
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
}

// LoadFromEnv loads configuration with environment variable overrides.
// It automatically loads a .env file (if present) before reading env vars,
// so secrets can live in .env locally and in real env vars in production.
// A missing config file is not an error; defaults and env vars still apply.
func LoadFromEnv(path string) (*Config, error) {
	// Load .env file if it exists (no error if missing)
	_ = godotenv.Load()

	cfg, err := Load(path)
	if os.IsNotExist(err) {
		cfg = &Config{}
		cfg.applyDefaults()
	} else if err != nil {
		return nil, err
	}

	if v := os.Getenv("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Server.Port = port
		}
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}

	// Auth overrides
	if v := os.Getenv("TOKEN_SECRET"); v != "" {
		cfg.Auth.TokenSecret = v
	}
	if v := os.Getenv("TOKEN_TTL_MINUTES"); v != "" {
		if ttl, err := strconv.Atoi(v); err == nil && ttl > 0 {
			cfg.Auth.TokenTTLMinutes = ttl
		}
	}
	if v := os.Getenv("BASIC_AUTH_USER"); v != "" {
		cfg.Auth.BasicUser = v
	}
	if v := os.Getenv("BASIC_AUTH_PASSWORD"); v != "" {
		cfg.Auth.BasicPassword = v
	}
	if v := os.Getenv("GOOGLE_CLIENT_ID"); v != "" {
		cfg.Auth.GoogleClientID = v
	}
	if v := os.Getenv("GOOGLE_SECRET"); v != "" {
		cfg.Auth.GoogleClientSecret = v
	}
	if v := os.Getenv("AUTH_ALLOWED_DOMAIN"); v != "" {
		cfg.Auth.AllowedDomain = v
	}

	// Send overrides
	if v := os.Getenv("SEND_DRIVER"); v != "" {
		cfg.Send.Driver = strings.ToLower(v)
	}
	if v := os.Getenv("SIMPLE_EMAIL_ENDPOINT"); v != "" {
		cfg.Send.Endpoint = v
	}
	if v := os.Getenv("SIMPLE_EMAIL_KEY"); v != "" {
		cfg.Send.Key = v
	}

	// Storage overrides
	if v := os.Getenv("TEMPLATES_ROOT"); v != "" {
		cfg.Storage.TemplatesRoot = v
	}
	if v := os.Getenv("AWS_BUCKET"); v != "" {
		cfg.Storage.S3Bucket = v
	}
	if v := os.Getenv("AWS_REGION"); v != "" {
		cfg.Storage.AWSRegion = v
		cfg.Send.SESRegion = v
	}
	if v := os.Getenv("AWS_ACCESS_KEY"); v != "" {
		cfg.Storage.AWSAccessKey = v
	}
	if v := os.Getenv("AWS_SECRET_KEY"); v != "" {
		cfg.Storage.AWSSecretKey = v
	}

	if v := os.Getenv("REDIS_URL"); v != "" {
		cfg.Redis.URL = v
	}
	if v := os.Getenv("LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	if v := os.Getenv("LOG_REDACT_PII"); v != "" {
		if redact, err := strconv.ParseBool(v); err == nil {
			cfg.Log.RedactPII = &redact
		}
	}

	return cfg, nil
}
