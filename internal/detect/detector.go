// Package detect implements the nine connascence detector categories and the
// bounded per-category pools their instances are reused through.
package detect

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// Category names one coupling concern a detector scans for.
type Category string

// The nine connascence categories.
const (
	CategoryName       Category = "name"
	CategoryPosition   Category = "position"
	CategoryAlgorithm  Category = "algorithm"
	CategoryTiming     Category = "timing"
	CategoryValue      Category = "value"
	CategoryExecution  Category = "execution"
	CategoryIdentity   Category = "identity"
	CategoryConvention Category = "convention"
	CategoryMeaning    Category = "meaning"
)

// Categories lists all detector categories in stable order.
func Categories() []Category {
	return []Category{
		CategoryName,
		CategoryPosition,
		CategoryAlgorithm,
		CategoryTiming,
		CategoryValue,
		CategoryExecution,
		CategoryIdentity,
		CategoryConvention,
		CategoryMeaning,
	}
}

// maxWalkDepth bounds every detector traversal so detection terminates even
// against malformed or unexpectedly cyclic tree data.
const maxWalkDepth = 500

// Detector scans a parsed unit for one category of coupling violation.
// Implementations keep reusable scratch state; Reset clears it between
// checkouts from the pool.
type Detector interface {
	Category() Category
	Detect(unit *syntax.Unit) ([]report.Violation, error)
	Reset()
}

// Config tunes detector thresholds. Zero values fall back to defaults.
type Config struct {
	// MaxPositionalParams is the parameter count above which positional
	// coupling is flagged.
	MaxPositionalParams int

	// ValueRepeatThreshold is how many times a literal may repeat in one
	// file before it is flagged as shared-value coupling.
	ValueRepeatThreshold int

	// SharedIdentityRefs is how many functions may reference one mutable
	// package-level object before identity coupling is flagged.
	SharedIdentityRefs int

	// MinAlgorithmTokens is the minimum normalized token count for a
	// function body to participate in duplicate-algorithm matching.
	MinAlgorithmTokens int
}

// Detector threshold defaults.
const (
	defaultMaxPositionalParams  = 4
	defaultValueRepeatThreshold = 3
	defaultSharedIdentityRefs   = 4
	defaultMinAlgorithmTokens   = 20
)

// withDefaults fills unset thresholds.
func (c Config) withDefaults() Config {
	if c.MaxPositionalParams <= 0 {
		c.MaxPositionalParams = defaultMaxPositionalParams
	}

	if c.ValueRepeatThreshold <= 0 {
		c.ValueRepeatThreshold = defaultValueRepeatThreshold
	}

	if c.SharedIdentityRefs <= 0 {
		c.SharedIdentityRefs = defaultSharedIdentityRefs
	}

	if c.MinAlgorithmTokens <= 0 {
		c.MinAlgorithmTokens = defaultMinAlgorithmTokens
	}

	return c
}

// NewDetector constructs a detector for one category with the given
// thresholds. The pool uses it as its default factory; custom pool
// factories wrap it to decorate or replace individual categories.
func NewDetector(cat Category, cfg Config) (Detector, error) {
	return newDetector(cat, cfg.withDefaults())
}

// newDetector constructs a fresh detector instance for a category.
func newDetector(cat Category, cfg Config) (Detector, error) {
	switch cat {
	case CategoryName:
		return newNameDetector(), nil
	case CategoryPosition:
		return newPositionDetector(cfg.MaxPositionalParams), nil
	case CategoryAlgorithm:
		return newAlgorithmDetector(cfg.MinAlgorithmTokens), nil
	case CategoryTiming:
		return newTimingDetector(), nil
	case CategoryValue:
		return newValueDetector(cfg.ValueRepeatThreshold), nil
	case CategoryExecution:
		return newExecutionDetector(), nil
	case CategoryIdentity:
		return newIdentityDetector(cfg.SharedIdentityRefs), nil
	case CategoryConvention:
		return newConventionDetector(), nil
	case CategoryMeaning:
		return newMeaningDetector(), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownCategory, cat)
	}
}

// violationKind builds the stable violation kind string for a category.
func violationKind(cat Category) string {
	return "connascence/" + string(cat)
}
