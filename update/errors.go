package update

import (
	"fmt"
	"sort"
	"strings"
)

// ErrorMap collects per-path failures from one mutation run, keyed by the
// full dotted attribute path. It only ever grows during a run; the
// interpreter decides afterwards whether the accumulated errors fail the
// caller-visible operation.
type ErrorMap map[string][]string

// Add appends a message under the given path.
func (m ErrorMap) Add(path, message string) {
	m[path] = append(m[path], message)
}

// Empty returns true if no errors were recorded.
func (m ErrorMap) Empty() bool {
	return len(m) == 0
}

// Paths returns the recorded paths in sorted order.
func (m ErrorMap) Paths() []string {
	paths := make([]string, 0, len(m))
	for path := range m {
		paths = append(paths, path)
	}

	sort.Strings(paths)

	return paths
}

// Error carries every aggregated failure from one mutation run. Callers
// surface it as a structured per-field error response.
type Error struct {
	Errors ErrorMap
}

// Error implements the error interface.
func (e *Error) Error() string {
	var parts []string

	for _, path := range e.Errors.Paths() {
		for _, msg := range e.Errors[path] {
			parts = append(parts, path+": "+msg)
		}
	}

	return "update failed: " + strings.Join(parts, "; ")
}

// ComplexityError reports an update payload whose structural complexity
// exceeded the caller-supplied stack size limit. It aborts the run
// immediately and is never aggregated; callers needing atomicity run inside
// a rollback-capable transaction.
type ComplexityError struct {
	Limit int
}

// Error implements the error interface.
func (e *ComplexityError) Error() string {
	return fmt.Sprintf("update is too complex: work stack exceeded limit of %d", e.Limit)
}
