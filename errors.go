package arena

import (
	"fmt"

	"github.com/pkg/errors"
)

// ErrOutOfMemory is reported by a Source that cannot supply a buffer.
var ErrOutOfMemory = errors.New("out of memory")

// AllocationError reports that the arena could not obtain storage for a new
// block. It is the only error an arena returns; the arena is left exactly as
// it was before the failing call.
type AllocationError struct {
	// Size is the number of bytes the arena tried to reserve.
	Size  int
	cause error
}

func newAllocationError(size int, cause error) *AllocationError {
	return &AllocationError{
		Size:  size,
		cause: errors.Wrapf(cause, "could not allocate %d bytes", size),
	}
}

func (e *AllocationError) Error() string {
	return "arena: " + e.cause.Error()
}

// Unwrap returns the wrapped Source error.
func (e *AllocationError) Unwrap() error { return e.cause }

// Cause returns the root Source error, for github.com/pkg/errors.Cause.
func (e *AllocationError) Cause() error { return errors.Cause(e.cause) }

// UsageError reports a broken caller contract: Clear without a Mark, an
// invalid size or alignment, or use after Destroy. Arenas panic with a
// *UsageError instead of returning it, since continuing would corrupt the
// checkpoint stack.
type UsageError struct {
	Op  string
	Msg string
}

func (e *UsageError) Error() string {
	return fmt.Sprintf("arena: %s: %s", e.Op, e.Msg)
}

func usagePanic(op, format string, args ...any) {
	panic(&UsageError{Op: op, Msg: fmt.Sprintf(format, args...)})
}
