// internal/common/config/config.go
package config

import "time"

// Config is the main application configuration struct.
type Config struct {
	App        AppConfig               `mapstructure:"app"`
	Logging    LoggingConfig           `mapstructure:"logging"`
	Database   DatabaseConfig          `mapstructure:"database"`
	Pipeline   PipelineConfig          `mapstructure:"pipeline"`
	Sources    map[string]SourceConfig `mapstructure:"sources"`
	Heuristics Heuristics              `mapstructure:"-"` // loaded from its own document
}

// --- Core App/Infrastructure Config ---
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
	MetricsAddr string `mapstructure:"metrics_addr"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

type DatabaseConfig struct {
	Redis RedisConfig `mapstructure:"redis"`
}

type RedisConfig struct {
	Address  string `mapstructure:"address"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// PipelineConfig holds the phased-execution knobs and quality thresholds.
// The numeric values are empirically chosen; they are configuration, not
// invariants, and tests calibrate against them rather than hard-coding.
type PipelineConfig struct {
	TimeBudget         time.Duration `mapstructure:"time_budget"`          // soft wall-clock ceiling for optional phases
	PrimarySourceCount int           `mapstructure:"primary_source_count"` // sources run in phase 1
	EarlyStopCount     int           `mapstructure:"early_stop_count"`     // phase 2 stops at this many non-low-quality people
	MaxWorkers         int           `mapstructure:"max_workers"`          // bounded pool for source calls within a phase
	SourceTimeout      time.Duration `mapstructure:"source_timeout"`       // per-source call deadline
	CacheTTL           time.Duration `mapstructure:"cache_ttl"`

	MinConfidence          float64 `mapstructure:"min_confidence"`           // validator validity cutoff
	ShortCircuitConfidence float64 `mapstructure:"short_circuit_confidence"` // validator abandons below this
	LowQualityConfidence   float64 `mapstructure:"low_quality_confidence"`   // early-stop counting threshold

	CompletenessGate float64 `mapstructure:"completeness_gate"`
	ConfidenceGate   float64 `mapstructure:"confidence_gate"`
	RelevanceGate    float64 `mapstructure:"relevance_gate"`
	MaxPerCategory   int     `mapstructure:"max_per_category"`
	TargetCount      int     `mapstructure:"target_count"`

	EnhanceEnabled bool `mapstructure:"enhance_enabled"`
}

// SourceConfig holds the externally configurable settings for one data source.
type SourceConfig struct {
	Enabled        bool     `mapstructure:"enabled"`
	Quality        float64  `mapstructure:"quality"`    // static trust weight in [0,1]
	RateLimit      float64  `mapstructure:"rate_limit"` // requests per second
	MaxPerHour     int      `mapstructure:"max_per_hour"`
	CostPerRequest float64  `mapstructure:"cost_per_request"`
	Priority       int      `mapstructure:"priority"` // 1 = highest
	Tags           []string `mapstructure:"tags"`     // e.g. contact_db, free_aggregate, code_hosting
}
