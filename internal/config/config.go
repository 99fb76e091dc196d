package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Mode string

const (
	ModeLocal Mode = "local"
	ModeGCP   Mode = "gcp"
)

type Config struct {
	Mode Mode

	Port     string
	LogLevel string

	// Responder
	Responder        string // "mock", "vertex", "openai" or "anthropic"
	ModelName        string
	ResponderTimeout time.Duration
	GCPProjectID     string
	GCPLocation      string
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	AnthropicAPIKey  string

	// Persistence
	StorageBackend string // "file", "memory", "firestore", "sqlite" or "postgres"
	OrdersDir      string
	SQLDSN         string
	AMQPURL        string // empty disables order events
	AMQPExchange   string

	// Menu
	MenuPath  string // empty uses the built-in catalog
	MenuWatch bool

	// Dialogue
	StageStrategy string // "keyword" or "count"
	EndMarker     string
	HistoryWindow int
	DigestCap     int

	// Session bounds
	SweepEvery int
	MaxTurns   int
	SessionTTL time.Duration
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getBoolEnv(key string, def bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	if v == "1" || v == "true" || v == "TRUE" {
		return true
	}
	return false
}

func getIntEnv(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be an integer: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %d", key, n)
	}
	return n, nil
}

func getDurationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("%s must be positive, got %s", key, d)
	}
	return d, nil
}

// Load reads all env vars and builds the config
func Load() (*Config, error) {
	modeStr := getEnv("CALLORDER_MODE", "local")
	var mode Mode
	switch modeStr {
	case "gcp":
		mode = ModeGCP
	default:
		mode = ModeLocal
	}

	defaultResponder := "mock"
	if mode == ModeGCP {
		defaultResponder = "vertex"
	}

	cfg := &Config{
		Mode: mode,

		Port:     getEnv("CALLORDER_PORT", "8080"),
		LogLevel: getEnv("CALLORDER_LOG_LEVEL", "info"),

		Responder:       strings.ToLower(getEnv("CALLORDER_RESPONDER", defaultResponder)),
		ModelName:       getEnv("CALLORDER_MODEL", ""),
		GCPProjectID:    getEnv("CALLORDER_GCP_PROJECT", ""),
		GCPLocation:     getEnv("CALLORDER_GCP_LOCATION", "europe-west1"),
		OpenAIAPIKey:    getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:   getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey: getEnv("ANTHROPIC_API_KEY", ""),

		StorageBackend: strings.ToLower(getEnv("CALLORDER_STORAGE", "file")),
		OrdersDir:      getEnv("CALLORDER_ORDERS_DIR", "orders"),
		SQLDSN:         getEnv("CALLORDER_SQL_DSN", ""),
		AMQPURL:        getEnv("CALLORDER_AMQP_URL", ""),
		AMQPExchange:   getEnv("CALLORDER_AMQP_EXCHANGE", "orders"),

		MenuPath:  getEnv("CALLORDER_MENU_PATH", ""),
		MenuWatch: getBoolEnv("CALLORDER_MENU_WATCH", false),

		StageStrategy: strings.ToLower(getEnv("CALLORDER_STAGE_STRATEGY", "keyword")),
		EndMarker:     getEnv("CALLORDER_END_MARKER", "END_CALL"),
	}

	var err error
	if cfg.ResponderTimeout, err = getDurationEnv("CALLORDER_RESPONDER_TIMEOUT", 3*time.Second); err != nil {
		return nil, err
	}
	if cfg.SessionTTL, err = getDurationEnv("CALLORDER_SESSION_TTL", 30*time.Minute); err != nil {
		return nil, err
	}
	if cfg.HistoryWindow, err = getIntEnv("CALLORDER_HISTORY_WINDOW", 6); err != nil {
		return nil, err
	}
	if cfg.DigestCap, err = getIntEnv("CALLORDER_DIGEST_CAP", 400); err != nil {
		return nil, err
	}
	if cfg.SweepEvery, err = getIntEnv("CALLORDER_SWEEP_EVERY", 20); err != nil {
		return nil, err
	}
	if cfg.MaxTurns, err = getIntEnv("CALLORDER_MAX_TURNS", 200); err != nil {
		return nil, err
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Responder {
	case "mock", "openai", "anthropic":
	case "vertex":
		if c.GCPProjectID == "" {
			return fmt.Errorf("CALLORDER_GCP_PROJECT must be set for the vertex responder")
		}
	default:
		return fmt.Errorf("unknown responder %q", c.Responder)
	}

	switch c.StorageBackend {
	case "file", "memory":
	case "firestore":
		if c.GCPProjectID == "" {
			return fmt.Errorf("CALLORDER_GCP_PROJECT must be set for firestore storage")
		}
	case "sqlite", "postgres":
		if c.SQLDSN == "" {
			return fmt.Errorf("CALLORDER_SQL_DSN must be set for %s storage", c.StorageBackend)
		}
	default:
		return fmt.Errorf("unknown storage backend %q", c.StorageBackend)
	}

	switch c.StageStrategy {
	case "keyword", "count":
	default:
		return fmt.Errorf("unknown stage strategy %q", c.StageStrategy)
	}

	if strings.TrimSpace(c.EndMarker) == "" {
		return fmt.Errorf("CALLORDER_END_MARKER must not be blank")
	}

	// A sweep must never cut a realistic call short.
	if c.MaxTurns < 40 {
		return fmt.Errorf("CALLORDER_MAX_TURNS must be at least 40, got %d", c.MaxTurns)
	}

	return nil
}
