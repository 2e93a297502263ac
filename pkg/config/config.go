package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

// Defaults for the upstream chat-completion API
const (
	DefaultUpstreamBaseURL = "https://api.groq.com/openai/v1/"
	DefaultUpstreamModel   = "llama3-8b-8192"
	DefaultImageBaseURL    = "https://image.pollinations.ai/prompt/"
	DefaultFrontendOrigin  = "http://localhost:5173"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Server struct {
		Port    string
		Env     string
		Version string
	}

	// Upstream LLM configuration
	Upstream struct {
		APIKey       string
		BaseURL      string
		Model        string
		Timeout      time.Duration
		HistoryLimit int
	}

	// Image URL generation
	Image struct {
		BaseURL string
	}

	// PromptsFile optionally overrides the built-in prompt templates
	PromptsFile string

	// Security configuration
	Security struct {
		RateLimit      float64
		RateLimitBurst int
		AllowedOrigins []string
		MaxBodySize    int64
	}

	// Logging configuration
	Logging struct {
		Level  string
		Format string
		File   string
	}

	// Observability configuration
	Observability struct {
		MetricsEnabled bool
		TracingEnabled bool
		ServiceName    string
	}

	// OpenAPISchemaPath enables request validation when set
	OpenAPISchemaPath string
}

var (
	instance *Config
	once     sync.Once
)

// New creates a new Config instance with values from environment variables.
// Values are read once; later environment changes are not observed.
func New() *Config {
	once.Do(func() {
		// Load .env file if exists
		godotenv.Load()

		instance = Load()
	})

	return instance
}

// Get returns the singleton Config instance
func Get() *Config {
	return New()
}

// Load builds a Config from the current environment without touching the singleton.
func Load() *Config {
	cfg := &Config{}

	// Server config
	cfg.Server.Port = getEnvString("PORT", "5000")
	cfg.Server.Env = getEnvString("APP_ENV", "development")
	cfg.Server.Version = getEnvString("APP_VERSION", "dev")

	// Upstream config. OPENAI_* names are accepted as aliases so existing
	// .env files keep working.
	cfg.Upstream.APIKey = firstEnv("GROQ_API_KEY", "OPENAI_API_KEY")
	cfg.Upstream.BaseURL = getEnvString("UPSTREAM_BASE_URL", DefaultUpstreamBaseURL)
	cfg.Upstream.Model = firstEnv("UPSTREAM_MODEL", "OPENAI_MODEL")
	if cfg.Upstream.Model == "" {
		cfg.Upstream.Model = DefaultUpstreamModel
	}
	cfg.Upstream.Timeout = getEnvDuration("UPSTREAM_TIMEOUT", 60*time.Second)
	cfg.Upstream.HistoryLimit = getEnvInt("CHAT_HISTORY_LIMIT", 8)

	cfg.Image.BaseURL = getEnvString("IMAGE_BASE_URL", DefaultImageBaseURL)
	cfg.PromptsFile = getEnvString("PROMPTS_FILE", "")

	// Security config
	cfg.Security.RateLimit = getEnvFloat("RATE_LIMIT", 0)
	cfg.Security.RateLimitBurst = getEnvInt("RATE_LIMIT_BURST", 10)
	cfg.Security.AllowedOrigins = getEnvStringSlice("FRONTEND_ORIGIN", []string{DefaultFrontendOrigin})
	cfg.Security.MaxBodySize = getEnvInt64("MAX_BODY_SIZE", 1<<20) // 1MB

	// Logging config
	cfg.Logging.Level = getEnvString("LOG_LEVEL", "info")
	cfg.Logging.Format = getEnvString("LOG_FORMAT", "json")
	cfg.Logging.File = getEnvString("LOG_FILE", "")

	cfg.Observability.MetricsEnabled = getEnvBool("METRICS_ENABLED", true)
	cfg.Observability.TracingEnabled = getEnvBool("TRACING_ENABLED", false)
	cfg.Observability.ServiceName = getEnvString("SERVICE_NAME", "world-relay")

	cfg.OpenAPISchemaPath = getEnvString("OPENAPI_SCHEMA_PATH", "")

	return cfg
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production"
}

// Helper functions to read environment variables with default values

func getEnvString(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func firstEnv(keys ...string) string {
	for _, key := range keys {
		if value := strings.TrimSpace(os.Getenv(key)); value != "" {
			return value
		}
	}
	return ""
}

func getEnvInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) int64 {
	if value, exists := os.LookupEnv(key); exists {
		if intVal, err := strconv.ParseInt(value, 10, 64); err == nil {
			return intVal
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value, exists := os.LookupEnv(key); exists {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value, exists := os.LookupEnv(key); exists {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		parts := strings.Split(value, ",")
		out := make([]string, 0, len(parts))
		for _, part := range parts {
			if trimmed := strings.TrimSpace(part); trimmed != "" {
				out = append(out, trimmed)
			}
		}
		if len(out) > 0 {
			return out
		}
	}
	return defaultValue
}
