package config

import (
	"log/slog"
	"time"

	"github.com/Sumatoshi-tech/couplint/internal/analysis"
	"github.com/Sumatoshi-tech/couplint/internal/detect"
	"github.com/Sumatoshi-tech/couplint/internal/dupe"
	"github.com/Sumatoshi-tech/couplint/internal/rules"
)

const bytesPerMB = 1 << 20

// AnalyzerConfig translates the loaded configuration into the analyzer's
// own configuration for the given root.
func (c *Config) AnalyzerConfig(root string, logger *slog.Logger) analysis.Config {
	acquireTimeout, err := time.ParseDuration(c.Cache.AcquireTimeout)
	if err != nil {
		acquireTimeout = 0 // The pool applies its default.
	}

	return analysis.Config{
		Root:              root,
		Include:           c.Analysis.Include,
		Exclude:           c.Analysis.Exclude,
		Workers:           c.Analysis.Workers,
		CacheDir:          c.Cache.Directory,
		ContentCacheBytes: int64(c.Cache.ContentMB) * bytesPerMB,
		ASTCacheEntries:   c.Cache.ASTEntries,
		Pool: detect.PoolConfig{
			Warm:           c.Cache.PoolWarm,
			Max:            c.Cache.PoolMax,
			AcquireTimeout: acquireTimeout,
			Detector: detect.Config{
				MaxPositionalParams:  c.Detectors.MaxPositionalParams,
				ValueRepeatThreshold: c.Detectors.ValueRepeatThreshold,
				SharedIdentityRefs:   c.Detectors.SharedIdentityRefs,
				MinAlgorithmTokens:   c.Detectors.MinAlgorithmTokens,
			},
		},
		Dupe: dupe.Config{
			Threshold:      c.Duplication.Threshold,
			MinBlockTokens: c.Duplication.MinBlockTokens,
		},
		Rules: rules.Config{
			MaxFunctionLines: c.Rules.MaxFunctionLines,
			MaxNestingDepth:  c.Rules.MaxNestingDepth,
			MaxScopeVars:     c.Rules.MaxScopeVars,
			AssertFreeLines:  c.Rules.AssertFreeLines,
		},
		Logger: logger,
	}
}
