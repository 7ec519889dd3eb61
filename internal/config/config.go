package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds configuration for the dashboard service.
type Config struct {
	// HTTP listener
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// Storage
	DataDir        string
	ExportDir      string
	AnalysisLogDir string

	// Analysis endpoint
	AnalyzeURL       string
	CSRFToken        string
	AnalyzeTimeoutMS int

	// Charts
	ResizeDebounceMS int
	ChartWidth       int
	ChartHeight      int
	CDPURL           string
	// ChromeLocal launches a headless browser when no CDP URL is set.
	ChromeLocal      bool

	NtfyEndpoint string

	LogLevel string
	LogFile  string
}

// Load reads configuration from environment variables and optional .env file.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	cfg := &Config{
		BindAddr:         getEnvOrDefault("HH_BIND_ADDR", "127.0.0.1:8190"),
		PortCandidates:   getEnvListOrDefault("HH_PORT_CANDIDATES", []string{"127.0.0.1:8191", "127.0.0.1:8192", "127.0.0.1:8193"}),
		PortAutoFallback: getEnvBoolOrDefault("HH_PORT_AUTO_FALLBACK", true),
		DataDir:          getEnvOrDefault("HH_DATA_DIR", "./healing_data"),
		ExportDir:        getEnvOrDefault("HH_EXPORT_DIR", "./exports"),
		AnalysisLogDir:   getEnvOrDefault("HH_ANALYSIS_LOG_DIR", "./healing_data/audit"),
		AnalyzeURL:       getEnvOrDefault("HH_ANALYZE_URL", "http://127.0.0.1:8000"),
		CSRFToken:        getEnvOrDefault("HH_CSRF_TOKEN", ""),
		AnalyzeTimeoutMS: getEnvIntOrDefault("HH_ANALYZE_TIMEOUT_MS", 15000),
		ResizeDebounceMS: getEnvIntOrDefault("HH_RESIZE_DEBOUNCE_MS", 250),
		ChartWidth:       getEnvIntOrDefault("HH_CHART_WIDTH", 800),
		ChartHeight:      getEnvIntOrDefault("HH_CHART_HEIGHT", 400),
		CDPURL:           getEnvOrDefault("HH_CDP_URL", ""),
		ChromeLocal:      getEnvBoolOrDefault("HH_CHROME_LOCAL", false),
		NtfyEndpoint:     getEnvOrDefault("HH_NTFY_ENDPOINT", ""),
		LogLevel:         strings.ToLower(getEnvOrDefault("HH_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("HH_LOG_FILE", "logs/hh_dashboard.log"),
	}
	if cfg.ResizeDebounceMS < 0 {
		cfg.ResizeDebounceMS = 0
	}
	if cfg.AnalyzeTimeoutMS < 1000 {
		cfg.AnalyzeTimeoutMS = 1000
	}
	return cfg, nil
}

// ResizeDebounce returns the resize quiet period.
func (c *Config) ResizeDebounce() time.Duration {
	return time.Duration(c.ResizeDebounceMS) * time.Millisecond
}

// AnalyzeTimeout returns the HTTP timeout for analysis requests.
func (c *Config) AnalyzeTimeout() time.Duration {
	return time.Duration(c.AnalyzeTimeoutMS) * time.Millisecond
}

// Rasterize reports whether PNG and JPEG charts go through a browser.
func (c *Config) Rasterize() bool {
	return c.CDPURL != "" || c.ChromeLocal
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	if len(out) == 0 {
		return defaultVal
	}
	return out
}
