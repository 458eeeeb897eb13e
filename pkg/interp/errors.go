package interp

import "fmt"

// InvalidInputError reports a request the engine refuses to guess
// around: too few points, coincident slice positions, a target outside
// the gap, or a non-positive sample count.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}
