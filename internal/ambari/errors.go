package ambari

import (
	"errors"
	"fmt"

	"go.uber.org/multierr"
)

// ErrNoCluster is returned when the API lists no clusters.
var ErrNoCluster = errors.New("ambari API returned no clusters")

// HTTPError is a request that completed with a non-success status.
type HTTPError struct {
	Path   string
	Status int
	Body   string
}

func (e *HTTPError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("ambari API returned %d for %s", e.Status, e.Path)
	}
	return fmt.Sprintf("ambari API returned %d for %s: %s", e.Status, e.Path, e.Body)
}

// NetworkError is a request that could not complete at all.
type NetworkError struct {
	Path string
	Err  error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %v", e.Path, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// Result is a best-effort value together with the sub-queries that failed
// while producing it.
type Result[T any] struct {
	Value    T
	Failures []*HTTPError
}

// Partial reports whether any branch is missing from Value.
func (r Result[T]) Partial() bool {
	return len(r.Failures) > 0
}

// Err combines all failures into one error, or nil.
func (r Result[T]) Err() error {
	var err error
	for _, f := range r.Failures {
		err = multierr.Append(err, f)
	}
	return err
}
