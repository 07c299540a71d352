// Package config provides configuration loading and validation for the
// couplint analyzer.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// Sentinel validation errors.
var (
	ErrInvalidWorkers        = errors.New("workers must not be negative")
	ErrInvalidThreshold      = errors.New("duplication threshold must be in (0,1]")
	ErrInvalidPoolSize       = errors.New("detector pool max must be at least the warm count")
	ErrInvalidMaxParams      = errors.New("max positional params must be positive")
	ErrInvalidFunctionLines  = errors.New("max function lines must be positive")
	ErrInvalidLogLevel       = errors.New("unknown log level")
	ErrInvalidLogFormat      = errors.New("unknown log format")
	ErrInvalidContentCacheMB = errors.New("content cache size must be positive")
)

// Default configuration values.
const (
	defaultContentCacheMB  = 64
	defaultASTCacheEntries = 4096
	defaultPoolWarm        = 2
	defaultPoolMax         = 16
	defaultAcquireTimeout  = "2s"
	defaultDupThreshold    = 0.7
	defaultMinBlockTokens  = 20
	defaultMaxParams       = 4
	defaultValueRepeats    = 3
	defaultFunctionLines   = 500
	defaultNestingDepth    = 5
	defaultScopeVars       = 15
)

// Config holds all configuration for a couplint run.
type Config struct {
	Analysis    AnalysisConfig    `mapstructure:"analysis"`
	Cache       CacheConfig       `mapstructure:"cache"`
	Detectors   DetectorConfig    `mapstructure:"detectors"`
	Duplication DuplicationConfig `mapstructure:"duplication"`
	Rules       RulesConfig       `mapstructure:"rules"`
	Logging     LoggingConfig     `mapstructure:"logging"`
}

// AnalysisConfig holds discovery and scheduling settings.
type AnalysisConfig struct {
	Include []string `mapstructure:"include"`
	Exclude []string `mapstructure:"exclude"`
	Workers int      `mapstructure:"workers"`
}

// CacheConfig holds cache sizing and persistence settings.
type CacheConfig struct {
	Directory      string `mapstructure:"directory"`
	ContentMB      int    `mapstructure:"content_mb"`
	ASTEntries     int    `mapstructure:"ast_entries"`
	PoolWarm       int    `mapstructure:"pool_warm"`
	PoolMax        int    `mapstructure:"pool_max"`
	AcquireTimeout string `mapstructure:"acquire_timeout"`
}

// DetectorConfig holds the connascence detector thresholds.
type DetectorConfig struct {
	MaxPositionalParams  int `mapstructure:"max_positional_params"`
	ValueRepeatThreshold int `mapstructure:"value_repeat_threshold"`
	SharedIdentityRefs   int `mapstructure:"shared_identity_refs"`
	MinAlgorithmTokens   int `mapstructure:"min_algorithm_tokens"`
}

// DuplicationConfig holds the clone clustering thresholds.
type DuplicationConfig struct {
	Threshold      float64 `mapstructure:"threshold"`
	MinBlockTokens int     `mapstructure:"min_block_tokens"`
}

// RulesConfig holds the compliance rule limits.
type RulesConfig struct {
	MaxFunctionLines int `mapstructure:"max_function_lines"`
	MaxNestingDepth  int `mapstructure:"max_nesting_depth"`
	MaxScopeVars     int `mapstructure:"max_scope_vars"`
	AssertFreeLines  int `mapstructure:"assert_free_lines"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads configuration from an optional file and COUPLINT_* environment
// variables, falling back to defaults for everything unset.
func Load(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName(".couplint")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
	}

	viperCfg.SetEnvPrefix("COUPLINT")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validate(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// setDefaults sets default configuration values.
func setDefaults(viperCfg *viper.Viper) {
	viperCfg.SetDefault("analysis.workers", 0)

	viperCfg.SetDefault("cache.directory", "")
	viperCfg.SetDefault("cache.content_mb", defaultContentCacheMB)
	viperCfg.SetDefault("cache.ast_entries", defaultASTCacheEntries)
	viperCfg.SetDefault("cache.pool_warm", defaultPoolWarm)
	viperCfg.SetDefault("cache.pool_max", defaultPoolMax)
	viperCfg.SetDefault("cache.acquire_timeout", defaultAcquireTimeout)

	viperCfg.SetDefault("detectors.max_positional_params", defaultMaxParams)
	viperCfg.SetDefault("detectors.value_repeat_threshold", defaultValueRepeats)
	viperCfg.SetDefault("detectors.shared_identity_refs", 4)
	viperCfg.SetDefault("detectors.min_algorithm_tokens", 20)

	viperCfg.SetDefault("duplication.threshold", defaultDupThreshold)
	viperCfg.SetDefault("duplication.min_block_tokens", defaultMinBlockTokens)

	viperCfg.SetDefault("rules.max_function_lines", defaultFunctionLines)
	viperCfg.SetDefault("rules.max_nesting_depth", defaultNestingDepth)
	viperCfg.SetDefault("rules.max_scope_vars", defaultScopeVars)
	viperCfg.SetDefault("rules.assert_free_lines", 60)

	viperCfg.SetDefault("logging.level", "info")
	viperCfg.SetDefault("logging.format", "text")
}

// validate checks the configuration for values the pipeline cannot run with.
func validate(config *Config) error {
	if config.Analysis.Workers < 0 {
		return fmt.Errorf("%w: %d", ErrInvalidWorkers, config.Analysis.Workers)
	}

	if config.Cache.ContentMB <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidContentCacheMB, config.Cache.ContentMB)
	}

	if config.Cache.PoolMax < config.Cache.PoolWarm {
		return fmt.Errorf("%w: warm %d, max %d", ErrInvalidPoolSize, config.Cache.PoolWarm, config.Cache.PoolMax)
	}

	if config.Duplication.Threshold <= 0 || config.Duplication.Threshold > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidThreshold, config.Duplication.Threshold)
	}

	if config.Detectors.MaxPositionalParams <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidMaxParams, config.Detectors.MaxPositionalParams)
	}

	if config.Rules.MaxFunctionLines <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidFunctionLines, config.Rules.MaxFunctionLines)
	}

	switch strings.ToLower(config.Logging.Level) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogLevel, config.Logging.Level)
	}

	switch strings.ToLower(config.Logging.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("%w: %s", ErrInvalidLogFormat, config.Logging.Format)
	}

	return nil
}
