package predicate

import (
	"errors"
	"fmt"
)

// InternalError marks an invariant violation inside the constraint algebra
// or the translator: a planner bug, not bad user input. It is a distinct
// type so callers can separate it from malformed-input failures.
type InternalError struct {
	Message string
}

func (e *InternalError) Error() string {
	return "internal error: " + e.Message
}

// Internalf builds an InternalError with a formatted message.
func Internalf(format string, args ...any) error {
	return &InternalError{Message: fmt.Sprintf(format, args...)}
}

// IsInternal reports whether err is (or wraps) an InternalError.
func IsInternal(err error) bool {
	var ie *InternalError
	return errors.As(err, &ie)
}
