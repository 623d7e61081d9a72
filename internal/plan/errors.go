package plan

import (
	"fmt"

	"github.com/ellis-guo/fitweek/internal/errors"
)

// ErrCatalogUnavailable indicates that the exercise catalog could not be
// loaded. The engine never proceeds with a partial catalog.
var ErrCatalogUnavailable = errors.NewSentinel("exercise catalog unavailable")

// ErrNotFound indicates that a requested exercise does not exist.
var ErrNotFound = errors.NewSentinel("exercise not found")

// InsufficientCandidatesError reports a day whose filtered candidate pool is
// smaller than the number of slots. The whole run is aborted; no partial plan
// is emitted.
type InsufficientCandidatesError struct {
	Day       int
	Archetype string
	Available int
	Required  int
}

func (e *InsufficientCandidatesError) Error() string {
	return fmt.Sprintf("day %d (%s): %d candidates available, %d required",
		e.Day, e.Archetype, e.Available, e.Required)
}

// InvalidConfigurationError reports a request rejected before any selection
// work begins.
type InvalidConfigurationError struct {
	Field  string
	Reason string
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("invalid configuration: %s: %s", e.Field, e.Reason)
}
