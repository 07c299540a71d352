package analysis

import (
	"fmt"

	"github.com/Sumatoshi-tech/couplint/internal/report"
)

// AnalysisError is the only error Analyze returns: a fatal condition tagged
// with the phase it arose in. Every recoverable failure lands in the
// report's error list instead.
type AnalysisError struct {
	Phase report.Phase
	Err   error
}

func (e *AnalysisError) Error() string {
	return fmt.Sprintf("analysis failed in %s: %v", e.Phase, e.Err)
}

func (e *AnalysisError) Unwrap() error {
	return e.Err
}

// fatal wraps an error with its originating phase.
func fatal(phase report.Phase, err error) *AnalysisError {
	return &AnalysisError{Phase: phase, Err: err}
}
