// Package report defines the data model every analysis stage feeds and the
// final aggregate the orchestrator returns. The core produces this structure;
// rendering it is the caller's concern.
package report

import "fmt"

// Severity grades a violation.
type Severity uint8

// Violation severities, ordered.
const (
	SeverityInfo Severity = iota
	SeverityWarning
	SeverityCritical
)

// severityNames maps severities to their wire names.
var severityNames = map[Severity]string{
	SeverityInfo:     "info",
	SeverityWarning:  "warning",
	SeverityCritical: "critical",
}

// String returns the severity's wire name.
func (s Severity) String() string {
	name, ok := severityNames[s]
	if !ok {
		return "info"
	}

	return name
}

// MarshalText implements encoding.TextMarshaler so severities render as
// names in JSON and YAML output.
func (s Severity) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *Severity) UnmarshalText(text []byte) error {
	for sev, name := range severityNames {
		if name == string(text) {
			*s = sev

			return nil
		}
	}

	return fmt.Errorf("unknown severity %q", text)
}

// Violation is one finding. Immutable once created; aggregation merges
// duplicates by (kind, file, line) and unions their detectors.
type Violation struct {
	Kind      string   `json:"kind"      yaml:"kind"`
	Severity  Severity `json:"severity"  yaml:"severity"`
	File      string   `json:"file"      yaml:"file"`
	Line      uint32   `json:"line"      yaml:"line"`
	Message   string   `json:"message"   yaml:"message"`
	Detectors []string `json:"detectors" yaml:"detectors"`
}

// BlockRef locates one code block inside a duplicate cluster.
type BlockRef struct {
	File      string `json:"file"       yaml:"file"`
	Function  string `json:"function"   yaml:"function"`
	StartLine uint32 `json:"start_line" yaml:"start_line"`
	EndLine   uint32 `json:"end_line"   yaml:"end_line"`
}

// Cluster is one group of near-duplicate blocks. Clusters partition the
// block set: no block belongs to two clusters.
type Cluster struct {
	Members    []BlockRef `json:"members"    yaml:"members"`
	Similarity float64    `json:"similarity" yaml:"similarity"`
}

// Duplication summarizes clone clustering.
type Duplication struct {
	MECEScore float64   `json:"mece_score" yaml:"mece_score"`
	Clusters  []Cluster `json:"clusters"   yaml:"clusters"`
}

// RuleResult is one compliance rule's outcome.
type RuleResult struct {
	RuleID         string  `json:"rule_id"         yaml:"rule_id"`
	Checks         int     `json:"checks"          yaml:"checks"`
	ViolationCount int     `json:"violation_count" yaml:"violation_count"`
	Score          float64 `json:"score"           yaml:"score"`
}

// Compliance summarizes the rule engine's pass.
type Compliance struct {
	Score       float64      `json:"score"        yaml:"score"`
	RuleResults []RuleResult `json:"rule_results" yaml:"rule_results"`
}

// Metrics holds run-level measurements.
type Metrics struct {
	FilesAnalyzed int     `json:"files_analyzed" yaml:"files_analyzed"`
	DurationMS    int64   `json:"duration_ms"    yaml:"duration_ms"`
	CacheHitRate  float64 `json:"cache_hit_rate" yaml:"cache_hit_rate"`
}

// Phase names the orchestrator phase an error entry originated from.
type Phase string

// Orchestrator phases, in execution order.
const (
	PhaseDiscover    Phase = "discover"
	PhaseParse       Phase = "parse"
	PhaseDetect      Phase = "detect"
	PhaseAggregate   Phase = "aggregate"
	PhaseDuplication Phase = "duplication"
	PhaseCompliance  Phase = "compliance"
	PhaseReport      Phase = "report"
)

// Entry is one recoverable error captured into the report instead of
// aborting the run.
type Entry struct {
	Phase    Phase  `json:"phase"              yaml:"phase"`
	File     string `json:"file,omitempty"     yaml:"file,omitempty"`
	Detector string `json:"detector,omitempty" yaml:"detector,omitempty"`
	Rule     string `json:"rule,omitempty"     yaml:"rule,omitempty"`
	Cause    string `json:"cause"              yaml:"cause"`
}

// Report is the aggregate analysis result.
type Report struct {
	Violations  []Violation `json:"violations"  yaml:"violations"`
	Duplication Duplication `json:"duplication" yaml:"duplication"`
	Compliance  Compliance  `json:"compliance"  yaml:"compliance"`
	Metrics     Metrics     `json:"metrics"     yaml:"metrics"`
	Errors      []Entry     `json:"errors"      yaml:"errors"`
}
