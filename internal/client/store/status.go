// Package store holds the in-memory, observable caches of entity
// collections. Each collection carries a fetch status and an error message;
// collections change only through defined transitions driven by repository
// results. Stores are plain dependency-injected values, so tests and
// independent screens can hold isolated instances.
package store

// Status is the fetch state of one collection.
type Status int

const (
	// StatusIdle means no fetch has been requested yet.
	StatusIdle Status = iota
	// StatusLoading means a fetch is in flight.
	StatusLoading
	// StatusSucceeded means the last fetch replaced the collection.
	StatusSucceeded
	// StatusFailed means the last fetch failed; the collection was left
	// untouched and the error message recorded.
	StatusFailed
)

// String implements fmt.Stringer.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSucceeded:
		return "succeeded"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}
