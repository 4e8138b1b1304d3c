package sim

import (
	"errors"
	"fmt"
)

var (
	// ErrConfiguration matches every *ConfigurationError.
	ErrConfiguration = errors.New("invalid simulation config")

	// ErrInfeasible matches every *InfeasibleOptimizationError.
	ErrInfeasible = errors.New("no feasible risk amount")
)

// ConfigurationError reports an invalid or under-specified SimulationConfig
// (or run parameter). It is returned before any simulation work starts.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrConfiguration, e.Reason)
	}
	return fmt.Sprintf("%s: %s %s", ErrConfiguration, e.Field, e.Reason)
}

func (e *ConfigurationError) Is(target error) bool { return target == ErrConfiguration }

func configErr(field, format string, args ...any) error {
	return &ConfigurationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// InfeasibleOptimizationError is returned by OptimizeRisk when no candidate
// reached the growth goal in any session.
type InfeasibleOptimizationError struct {
	Candidates int
}

func (e *InfeasibleOptimizationError) Error() string {
	return fmt.Sprintf("%s: none of %d candidates reached the growth goal", ErrInfeasible, e.Candidates)
}

func (e *InfeasibleOptimizationError) Is(target error) bool { return target == ErrInfeasible }
