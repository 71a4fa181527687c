package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	defaultPort         = "7860"
	defaultWorkers      = 4
	defaultOpenAIModel  = "gpt-4-turbo-preview"
	defaultOpenAIURL    = "https://api.openai.com/v1"
	defaultGeminiModel  = "gemini-1.5-flash"
	defaultLLMTimeout   = 120 * time.Second
	defaultPerHourLimit = 100
	defaultPerDayLimit  = 200
)

// Config holds application configuration.
type Config struct {
	Port            string
	Workers         int
	Env             string
	CORSAllowOrigin []string
	TrustedProxies  []string

	LLMProvider    string
	LLMModel       string
	LLMTimeout     time.Duration
	LLMMaxRetries  int
	LLMStripFences bool
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	GeminiAPIKey   string
	GeminiModel    string

	EvaluationSchemaCheck bool
	RateLimitPerHour      int
	RateLimitPerDay       int

	CatalogPath string
	AWSRegion   string
	DatabaseURL string
	SQLitePath  string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	provider := normalizeProvider(getEnv("LLM_PROVIDER", "openai"))

	cfg := Config{
		Port:                  getEnv("PORT", defaultPort),
		Workers:               getEnvInt("WORKERS", defaultWorkers),
		Env:                   env,
		CORSAllowOrigin:       splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "*")),
		TrustedProxies:        splitAndTrim(os.Getenv("TRUSTED_PROXIES")),
		LLMProvider:           provider,
		LLMModel:              getEnv("OPENAI_MODEL", getEnv("LLM_MODEL", defaultOpenAIModel)),
		LLMTimeout:            getEnvSeconds("OPENAI_TIMEOUT_SECONDS", defaultLLMTimeout),
		LLMMaxRetries:         getEnvInt("LLM_MAX_RETRIES", 0),
		LLMStripFences:        getEnvBool("LLM_STRIP_FENCES", false),
		OpenAIAPIKey:          strings.TrimSpace(os.Getenv("OPENAI_API_KEY")),
		OpenAIBaseURL:         strings.TrimRight(getEnv("OPENAI_BASE_URL", defaultOpenAIURL), "/"),
		GeminiAPIKey:          strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:           getEnv("GEMINI_MODEL", defaultGeminiModel),
		EvaluationSchemaCheck: getEnvBool("EVALUATION_SCHEMA_CHECK", true),
		RateLimitPerHour:      getEnvInt("RATE_LIMIT_PER_HOUR", defaultPerHourLimit),
		RateLimitPerDay:       getEnvInt("RATE_LIMIT_PER_DAY", defaultPerDayLimit),
		CatalogPath:           strings.TrimSpace(os.Getenv("CATALOG_PATH")),
		AWSRegion:             strings.TrimSpace(os.Getenv("AWS_REGION")),
		DatabaseURL:           strings.TrimSpace(os.Getenv("DATABASE_URL")),
		SQLitePath:            strings.TrimSpace(os.Getenv("SQLITE_PATH")),
	}

	if cfg.Workers < 0 {
		cfg.Workers = 0
	}
	if cfg.LLMMaxRetries < 0 {
		cfg.LLMMaxRetries = 0
	}
	if cfg.APIKey() == "" {
		log.Printf("WARNING: no API key configured for LLM provider %q; evaluate and generate calls will fail", cfg.LLMProvider)
	}
	return cfg
}

// APIKey returns the key for the selected LLM provider.
func (c Config) APIKey() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiAPIKey
	}
	return c.OpenAIAPIKey
}

// Model returns the model name for the selected LLM provider.
func (c Config) Model() string {
	if c.LLMProvider == "gemini" {
		return c.GeminiModel
	}
	return c.LLMModel
}

func getEnv(key, def string) string {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		log.Printf("config: %s invalid int %q, using %d", key, raw, def)
		return def
	}
	return val
}

func getEnvBool(key string, def bool) bool {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	val, err := strconv.ParseBool(raw)
	if err != nil {
		log.Printf("config: %s invalid bool %q, using %t", key, raw, def)
		return def
	}
	return val
}

func getEnvSeconds(key string, def time.Duration) time.Duration {
	secs := getEnvInt(key, 0)
	if secs <= 0 {
		return def
	}
	return time.Duration(secs) * time.Second
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	default:
		return "dev"
	}
}

func normalizeProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "gemini", "google":
		return "gemini"
	default:
		return "openai"
	}
}
