package input

import (
	"errors"
	"fmt"
)

// ErrNotObject is reported for rows whose top-level value is not a JSON
// object.
var ErrNotObject = errors.New("top-level value is not an object")

// ErrRowOutOfRange is returned by the indexed reader for row indexes past the
// end of the source.
var ErrRowOutOfRange = errors.New("row index out of range")

// RowError tags a row-level failure with its position in the source. Line is
// 1-based and zero when the source has no line structure (JSON arrays); Row
// is the 0-based row index.
type RowError struct {
	Line int
	Row  int
	Err  error
}

func (e *RowError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("line %d: %v", e.Line, e.Err)
	}
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }
