package deques

import "fmt"

var (
	// ErrIndexOutOfBounds is returned when a logical index is outside the
	// valid range of the operation: [0, Size()) for access and removal,
	// [0, Size()] for insertion and cursor positions.
	ErrIndexOutOfBounds = fmt.Errorf("index out of bounds")

	// ErrEmpty is returned by Front, Back, PopFront and PopBack on an empty
	// container.
	ErrEmpty = fmt.Errorf("container is empty")

	// ErrInvalidCursor is returned by cursor operations whose cursor is
	// zero-valued or belongs to a different container, and by RemoveAt on a
	// cursor parked at the end position.
	ErrInvalidCursor = fmt.Errorf("invalid cursor")
)
