// Package config carries the two configuration layers: the app-level
// Config read from config.yaml plus environment, and the user-facing
// gameplay settings persisted in bot_settings.json behind a Store.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"gopkg.in/yaml.v3"
)

// Config holds app-level knobs that do not change mid-run.
type Config struct {
	Display        int    `yaml:"display" json:"display"`
	LogLevel       string `yaml:"log_level" json:"log_level"`
	LogFile        string `yaml:"log_file" json:"log_file"`
	StatusAddr     string `yaml:"status_addr" json:"status_addr"`
	OCRLanguage    string `yaml:"ocr_language" json:"ocr_language"`
	UseRandomClick bool   `yaml:"use_random_click" json:"use_random_click"`
	DebugDump      bool   `yaml:"debug_dump" json:"debug_dump"`
	SettingsFile   string `yaml:"settings_file" json:"settings_file"`
	RegionsFile    string `yaml:"regions_file" json:"regions_file"`
}

// DefaultConfig returns the built-in configuration.
func DefaultConfig() Config {
	return Config{
		Display:        0,
		LogLevel:       "info",
		LogFile:        "logs/uma-auto.log",
		StatusAddr:     "",
		OCRLanguage:    "eng",
		UseRandomClick: true,
		DebugDump:      false,
		SettingsFile:   "bot_settings.json",
		RegionsFile:    "region_settings.json",
	}
}

// Load builds the configuration from defaults, an optional yaml file
// and UMA_* environment variables, in that order. Configuration never
// blocks startup; anything unreadable is logged and skipped.
func Load(path string) Config {
	cfg := DefaultConfig()

	// .env is optional and only feeds the environment overrides below.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Debug().Err(err).Msg("[Config] no .env loaded")
	}

	if data, err := os.ReadFile(path); err == nil {
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			log.Warn().Err(err).Str("path", path).Msg("[Config] config file corrupt, using defaults")
			cfg = DefaultConfig()
		}
	} else if !os.IsNotExist(err) {
		log.Warn().Err(err).Str("path", path).Msg("[Config] config file unreadable")
	}

	cfg.Display = getEnvInt("UMA_DISPLAY", cfg.Display)
	cfg.LogLevel = getEnv("UMA_LOG_LEVEL", cfg.LogLevel)
	cfg.LogFile = getEnv("UMA_LOG_FILE", cfg.LogFile)
	cfg.StatusAddr = getEnv("UMA_STATUS_ADDR", cfg.StatusAddr)
	cfg.OCRLanguage = getEnv("UMA_OCR_LANGUAGE", cfg.OCRLanguage)
	cfg.UseRandomClick = getEnvBool("UMA_RANDOM_CLICK", cfg.UseRandomClick)
	cfg.DebugDump = getEnvBool("UMA_DEBUG_DUMP", cfg.DebugDump)
	cfg.SettingsFile = getEnv("UMA_SETTINGS_FILE", cfg.SettingsFile)
	cfg.RegionsFile = getEnv("UMA_REGIONS_FILE", cfg.RegionsFile)

	return cfg
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[Config] bad boolean, ignored")
		return fallback
	}
	return b
}

func getEnvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		log.Warn().Str("key", key).Str("value", v).Msg("[Config] bad integer, ignored")
		return fallback
	}
	return n
}
