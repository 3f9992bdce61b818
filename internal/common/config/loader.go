// internal/common/config/loader.go
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	"connection-finder/internal/common/validation"
)

func Load() (*Config, error) {
	loadEnvFile()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./configs")
	v.AddConfigPath("../../configs")
	v.AddConfigPath(".")

	// Enable ENV override like PIPELINE_TIME_BUDGET
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading base config: %w", err)
		}
	}

	env := os.Getenv("APP_ENVIRONMENT")
	if env == "" {
		env = "development"
	}
	v.SetConfigName(fmt.Sprintf("config.%s", env))
	_ = v.MergeInConfig() // ignore error if not found

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	applyDefaults(&cfg)

	heuristics, err := loadHeuristics()
	if err != nil {
		return nil, err
	}
	cfg.Heuristics = heuristics

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// loadHeuristics reads the external keyword/weight tables, validates the
// document shape, and merges it over the shipped defaults. A missing
// file just means defaults.
func loadHeuristics() (Heuristics, error) {
	heuristics := DefaultHeuristics()

	hv := viper.New()
	hv.SetConfigName("heuristics")
	hv.SetConfigType("yaml")
	hv.AddConfigPath("./configs")
	hv.AddConfigPath("../../configs")
	hv.AddConfigPath(".")

	if err := hv.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return heuristics, nil
		}
		return heuristics, fmt.Errorf("error reading heuristics config: %w", err)
	}

	if result := validation.ValidateHeuristics(hv.AllSettings()); !result.Valid {
		return heuristics, fmt.Errorf("invalid heuristics config: %s", result.Summary())
	}

	if err := hv.Unmarshal(&heuristics); err != nil {
		return heuristics, fmt.Errorf("failed to unmarshal heuristics: %w", err)
	}

	return heuristics, nil
}

func loadEnvFile() {
	possiblePaths := []string{
		".env",
		"../.env",
		"../../.env",
	}

	if rootDir := findProjectRoot(); rootDir != "" {
		possiblePaths = append(possiblePaths, filepath.Join(rootDir, ".env"))
	}

	for _, path := range possiblePaths {
		if _, err := os.Stat(path); err == nil {
			if err := godotenv.Load(path); err == nil {
				return
			}
		}
	}
}

// findProjectRoot walks up looking for go.mod so tests can run from
// nested package directories.
func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return ""
}

func applyDefaults(cfg *Config) {
	if cfg.App.Name == "" {
		cfg.App.Name = "connection-finder"
	}
	if cfg.App.Environment == "" {
		cfg.App.Environment = "development"
	}
	if cfg.App.MetricsAddr == "" {
		cfg.App.MetricsAddr = ":9102"
	}
	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "console"
	}
	if cfg.Database.Redis.Address == "" {
		cfg.Database.Redis.Address = "localhost:6379"
	}

	p := &cfg.Pipeline
	if p.TimeBudget == 0 {
		p.TimeBudget = 25 * time.Second
	}
	if p.PrimarySourceCount == 0 {
		p.PrimarySourceCount = 3
	}
	if p.EarlyStopCount == 0 {
		p.EarlyStopCount = 10
	}
	if p.MaxWorkers == 0 {
		p.MaxWorkers = 4
	}
	if p.SourceTimeout == 0 {
		p.SourceTimeout = 10 * time.Second
	}
	if p.CacheTTL == 0 {
		p.CacheTTL = 168 * time.Hour
	}
	if p.MinConfidence == 0 {
		p.MinConfidence = 0.3
	}
	if p.ShortCircuitConfidence == 0 {
		p.ShortCircuitConfidence = 0.2
	}
	if p.LowQualityConfidence == 0 {
		p.LowQualityConfidence = 0.4
	}
	if p.CompletenessGate == 0 {
		p.CompletenessGate = 0.7
	}
	if p.ConfidenceGate == 0 {
		p.ConfidenceGate = 0.8
	}
	if p.RelevanceGate == 0 {
		p.RelevanceGate = 0.6
	}
	if p.MaxPerCategory == 0 {
		p.MaxPerCategory = 5
	}
	if p.TargetCount == 0 {
		p.TargetCount = 15
	}
}

func validateConfig(cfg *Config) error {
	for name, src := range cfg.Sources {
		if src.Quality < 0 || src.Quality > 1 {
			return fmt.Errorf("source %q: quality must be in [0,1], got %v", name, src.Quality)
		}
		if src.RateLimit < 0 {
			return fmt.Errorf("source %q: rate_limit must be >= 0", name)
		}
		if src.MaxPerHour < 0 {
			return fmt.Errorf("source %q: max_per_hour must be >= 0", name)
		}
	}
	if cfg.Pipeline.TimeBudget <= 0 {
		return fmt.Errorf("pipeline.time_budget must be positive")
	}
	return nil
}
