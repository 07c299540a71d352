// Package rules evaluates a fixed, ordered set of compliance rules against
// parsed units and folds the outcomes into a compliance score.
package rules

import (
	"github.com/Sumatoshi-tech/couplint/internal/report"
	"github.com/Sumatoshi-tech/couplint/internal/syntax"
)

// maxWalkDepth bounds every rule traversal.
const maxWalkDepth = 500

// Rule limit defaults.
const (
	// DefaultMaxFunctionLines caps function length.
	DefaultMaxFunctionLines = 500

	// DefaultMaxNestingDepth caps block/loop/conditional nesting inside a
	// function.
	DefaultMaxNestingDepth = 5

	// DefaultMaxScopeVars caps distinct variable declarations per function.
	DefaultMaxScopeVars = 15

	// DefaultAssertFreeLines is the function length past which having no
	// assertion-style call becomes a finding.
	DefaultAssertFreeLines = 60
)

// Config carries the tunable rule limits.
type Config struct {
	MaxFunctionLines int
	MaxNestingDepth  int
	MaxScopeVars     int
	AssertFreeLines  int
}

// withDefaults fills unset limits.
func (c Config) withDefaults() Config {
	if c.MaxFunctionLines <= 0 {
		c.MaxFunctionLines = DefaultMaxFunctionLines
	}

	if c.MaxNestingDepth <= 0 {
		c.MaxNestingDepth = DefaultMaxNestingDepth
	}

	if c.MaxScopeVars <= 0 {
		c.MaxScopeVars = DefaultMaxScopeVars
	}

	if c.AssertFreeLines <= 0 {
		c.AssertFreeLines = DefaultAssertFreeLines
	}

	return c
}

// Rule is one pure compliance predicate. Check returns how many subjects it
// examined and the violations it found; the ratio drives the rule's score.
type Rule interface {
	ID() string
	Check(unit *syntax.Unit) (checks int, violations []report.Violation)
}

// Engine runs the rule set in a fixed order.
type Engine struct {
	rules []Rule
}

// NewEngine builds the standard rule set with the given limits.
func NewEngine(cfg Config) *Engine {
	cfg = cfg.withDefaults()

	return &Engine{
		rules: []Rule{
			&funcSizeRule{maxLines: cfg.MaxFunctionLines},
			&nestingDepthRule{maxDepth: cfg.MaxNestingDepth},
			&directRecursionRule{},
			&allocInLoopRule{},
			&assertDensityRule{minLines: cfg.AssertFreeLines},
			&scopeVarsRule{maxVars: cfg.MaxScopeVars},
			&uncheckedCallRule{},
		},
	}
}

// Evaluate runs every rule over every unit. It returns the compliance
// summary plus the individual rule violations for the report's violation
// list.
func (e *Engine) Evaluate(units []*syntax.Unit) (report.Compliance, []report.Violation) {
	results := make([]report.RuleResult, 0, len(e.rules))

	var all []report.Violation

	totalChecks, totalViolations := 0, 0

	for _, rule := range e.rules {
		checks, count := 0, 0

		for _, unit := range units {
			c, violations := rule.Check(unit)
			checks += c
			count += len(violations)
			all = append(all, violations...)
		}

		results = append(results, report.RuleResult{
			RuleID:         rule.ID(),
			Checks:         checks,
			ViolationCount: count,
			Score:          complianceScore(count, checks),
		})

		totalChecks += checks
		totalViolations += count
	}

	compliance := report.Compliance{
		Score:       complianceScore(totalViolations, totalChecks),
		RuleResults: results,
	}

	return compliance, all
}

// complianceScore is 1 minus the violation ratio, clamped to [0,1]. A rule
// that checked nothing is fully compliant.
func complianceScore(violations, checks int) float64 {
	if checks == 0 {
		return 1.0
	}

	score := 1.0 - float64(violations)/float64(checks)
	if score < 0 {
		return 0
	}

	if score > 1 {
		return 1
	}

	return score
}

// ruleKind names a rule violation for the report.
func ruleKind(id string) string {
	return "rule/" + id
}
