package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type envConfig struct {
	APP_PORT            string
	LOG_FILE_PATH       string
	LOG_LEVEL           string
	SAMPLE_FILE_PATH    string
	SEED_SAMPLE_FILE    bool
	SESSION_TTL         time.Duration
	MAX_SESSIONS        int
	GRID_ROWS           int
	GRID_COLS           int
	GRID_MAX_ROWS       int
	GRID_MAX_COLS       int
	TOOLBAR_CONFIG_PATH string
}

// DefaultEnvConfig is populated by LoadEnvConfig.
var DefaultEnvConfig = defaultEnvConfig()

func defaultEnvConfig() envConfig {
	return envConfig{
		APP_PORT:         "8080",
		LOG_LEVEL:        "info",
		SAMPLE_FILE_PATH: "Simple Invoice.xlsx",
		SESSION_TTL:      30 * time.Minute,
		MAX_SESSIONS:     1000,
		GRID_ROWS:        30,
		GRID_COLS:        12,
		GRID_MAX_ROWS:    500,
		GRID_MAX_COLS:    52,
	}
}

// LoadEnvConfig reads a .env file when one exists, then overlays the process
// environment onto the defaults.
func LoadEnvConfig(files ...string) error {
	if len(files) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			files = []string{".env"}
		}
	}
	if len(files) > 0 {
		if err := godotenv.Load(files...); err != nil {
			return fmt.Errorf("load env files %v: %w", files, err)
		}
	}

	cfg := defaultEnvConfig()
	cfg.APP_PORT = getString("APP_PORT", cfg.APP_PORT)
	cfg.LOG_FILE_PATH = getString("LOG_FILE_PATH", cfg.LOG_FILE_PATH)
	cfg.LOG_LEVEL = getString("LOG_LEVEL", cfg.LOG_LEVEL)
	cfg.SAMPLE_FILE_PATH = getString("SAMPLE_FILE_PATH", cfg.SAMPLE_FILE_PATH)
	cfg.TOOLBAR_CONFIG_PATH = getString("TOOLBAR_CONFIG_PATH", cfg.TOOLBAR_CONFIG_PATH)

	var err error
	if cfg.SEED_SAMPLE_FILE, err = getBool("SEED_SAMPLE_FILE", cfg.SEED_SAMPLE_FILE); err != nil {
		return err
	}
	if cfg.SESSION_TTL, err = getDuration("SESSION_TTL", cfg.SESSION_TTL); err != nil {
		return err
	}
	if cfg.MAX_SESSIONS, err = getPositiveInt("MAX_SESSIONS", cfg.MAX_SESSIONS); err != nil {
		return err
	}
	if cfg.GRID_ROWS, err = getPositiveInt("GRID_ROWS", cfg.GRID_ROWS); err != nil {
		return err
	}
	if cfg.GRID_COLS, err = getPositiveInt("GRID_COLS", cfg.GRID_COLS); err != nil {
		return err
	}
	if cfg.GRID_MAX_ROWS, err = getPositiveInt("GRID_MAX_ROWS", cfg.GRID_MAX_ROWS); err != nil {
		return err
	}
	if cfg.GRID_MAX_COLS, err = getPositiveInt("GRID_MAX_COLS", cfg.GRID_MAX_COLS); err != nil {
		return err
	}
	if cfg.GRID_ROWS > cfg.GRID_MAX_ROWS || cfg.GRID_COLS > cfg.GRID_MAX_COLS {
		return fmt.Errorf("grid size %dx%d exceeds maximum %dx%d", cfg.GRID_ROWS, cfg.GRID_COLS, cfg.GRID_MAX_ROWS, cfg.GRID_MAX_COLS)
	}

	DefaultEnvConfig = cfg
	return nil
}

func getString(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getBool(key string, fallback bool) (bool, error) {
	v := getString(key, "")
	if v == "" {
		return fallback, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	return b, nil
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := getString(key, "")
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if d <= 0 {
		return fallback, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return d, nil
}

func getPositiveInt(key string, fallback int) (int, error) {
	v := getString(key, "")
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback, fmt.Errorf("invalid %s %q: %w", key, v, err)
	}
	if n <= 0 {
		return fallback, fmt.Errorf("invalid %s %q: must be positive", key, v)
	}
	return n, nil
}
