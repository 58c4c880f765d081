package tour

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound         = errors.New("tour file not found")
	ErrParse            = errors.New("invalid tour JSON")
	ErrIndexOutOfRange  = errors.New("step index out of range")
	ErrAlreadyExists    = errors.New("tour already exists")
	ErrUnknownOperation = errors.New("unknown tool")
	ErrInvalidInput     = errors.New("invalid input")
)

// IndexOutOfRangeError reports an index outside [0, Len-1].
// For an empty sequence the reported upper bound is -1.
type IndexOutOfRangeError struct {
	Index int
	Len   int
}

func (e *IndexOutOfRangeError) Error() string {
	return fmt.Sprintf("step index %d out of range (0-%d)", e.Index, e.Len-1)
}

func (e *IndexOutOfRangeError) Is(target error) bool {
	return target == ErrIndexOutOfRange
}

// CheckIndex returns an *IndexOutOfRangeError unless 0 <= i < n.
func CheckIndex(i, n int) error {
	if i < 0 || i >= n {
		return &IndexOutOfRangeError{Index: i, Len: n}
	}
	return nil
}
