// Package config provides configuration management for the finsight engines.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration.
type Config struct {
	Predict     PredictConfig `mapstructure:"predict"`
	News        NewsConfig    `mapstructure:"news"`
	HTTP        HTTPConfig    `mapstructure:"http"`
	Store       StoreConfig   `mapstructure:"store"`
	Log         LogConfig     `mapstructure:"log"`
	Credentials Credentials   `mapstructure:"-" json:"-"` // Loaded separately, never serialized
}

// PredictConfig holds return-predictor configuration.
type PredictConfig struct {
	CacheTTL        time.Duration `mapstructure:"cache_ttl"`
	HistoryDays     int           `mapstructure:"history_days"`
	MinClosePoints  int           `mapstructure:"min_close_points"`
	MinTrainingRows int           `mapstructure:"min_training_rows"`
	RidgeAlpha      float64       `mapstructure:"ridge_alpha"`
}

// NewsConfig holds news-engine configuration.
type NewsConfig struct {
	DefaultLimit int           `mapstructure:"default_limit"`
	MaxPerQuery  int           `mapstructure:"max_per_query"`
	DecayDays    float64       `mapstructure:"decay_days"`
	FetchTimeout time.Duration `mapstructure:"fetch_timeout"`
}

// HTTPConfig holds outbound HTTP client configuration.
type HTTPConfig struct {
	Timeout     time.Duration `mapstructure:"timeout"`
	MaxAttempts int           `mapstructure:"max_attempts"`
}

// StoreConfig holds persistence configuration.
type StoreConfig struct {
	DBPath string `mapstructure:"db_path"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level   string `mapstructure:"level"`
	Console bool   `mapstructure:"console"`
	File    bool   `mapstructure:"file"`
}

// Credentials holds API credentials.
type Credentials struct {
	KIS KISCredentials `mapstructure:"kis"`
}

// KISCredentials holds Korea Investment & Securities API credentials.
type KISCredentials struct {
	AppKey    string `mapstructure:"app_key"`
	AppSecret string `mapstructure:"app_secret"`
	Paper     bool   `mapstructure:"paper"`
}

// DefaultConfigDir returns the default configuration directory.
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".config/finsight"
	}
	return filepath.Join(home, ".config", "finsight")
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Predict: PredictConfig{
			CacheTTL:        15 * time.Minute,
			HistoryDays:     730,
			MinClosePoints:  20,
			MinTrainingRows: 60,
			RidgeAlpha:      1.0,
		},
		News: NewsConfig{
			DefaultLimit: 40,
			MaxPerQuery:  20,
			DecayDays:    7.0,
			FetchTimeout: 10 * time.Second,
		},
		HTTP: HTTPConfig{
			Timeout:     10 * time.Second,
			MaxAttempts: 3,
		},
		Store: StoreConfig{
			DBPath: filepath.Join(DefaultConfigDir(), "finsight.db"),
		},
		Log: LogConfig{
			Level:   "info",
			Console: true,
			File:    true,
		},
	}
}

// Load loads configuration from the specified directory.
// If configDir is empty, uses the default config directory. A missing config
// file is not an error; defaults apply.
func Load(configDir string) (*Config, error) {
	if configDir == "" {
		configDir = DefaultConfigDir()
	}

	cfg := Default()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	setDefaults(v, cfg)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("reading config.yaml: %w", err)
		}
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("predict.cache_ttl", cfg.Predict.CacheTTL)
	v.SetDefault("predict.history_days", cfg.Predict.HistoryDays)
	v.SetDefault("predict.min_close_points", cfg.Predict.MinClosePoints)
	v.SetDefault("predict.min_training_rows", cfg.Predict.MinTrainingRows)
	v.SetDefault("predict.ridge_alpha", cfg.Predict.RidgeAlpha)
	v.SetDefault("news.default_limit", cfg.News.DefaultLimit)
	v.SetDefault("news.max_per_query", cfg.News.MaxPerQuery)
	v.SetDefault("news.decay_days", cfg.News.DecayDays)
	v.SetDefault("news.fetch_timeout", cfg.News.FetchTimeout)
	v.SetDefault("http.timeout", cfg.HTTP.Timeout)
	v.SetDefault("http.max_attempts", cfg.HTTP.MaxAttempts)
	v.SetDefault("store.db_path", cfg.Store.DBPath)
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.console", cfg.Log.Console)
	v.SetDefault("log.file", cfg.Log.File)
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("KIS_APP_KEY"); v != "" {
		cfg.Credentials.KIS.AppKey = v
	}
	if v := os.Getenv("KIS_APP_SECRET"); v != "" {
		cfg.Credentials.KIS.AppSecret = v
	}
	if v := os.Getenv("KIS_IS_PAPER"); v != "" {
		cfg.Credentials.KIS.Paper = v == "1" || v == "true"
	}
	if v := os.Getenv("FINSIGHT_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	if c.Predict.CacheTTL <= 0 {
		return fmt.Errorf("predict.cache_ttl must be positive")
	}
	if c.Predict.MinClosePoints < 2 {
		return fmt.Errorf("predict.min_close_points must be at least 2")
	}
	if c.Predict.MinTrainingRows <= c.Predict.MinClosePoints {
		return fmt.Errorf("predict.min_training_rows must exceed predict.min_close_points")
	}
	if c.Predict.RidgeAlpha < 0 {
		return fmt.Errorf("predict.ridge_alpha must be non-negative")
	}
	if c.News.DecayDays <= 0 {
		return fmt.Errorf("news.decay_days must be positive")
	}
	if c.News.DefaultLimit <= 0 {
		return fmt.Errorf("news.default_limit must be positive")
	}
	if c.HTTP.Timeout <= 0 {
		return fmt.Errorf("http.timeout must be positive")
	}
	return nil
}
