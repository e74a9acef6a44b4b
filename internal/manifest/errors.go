package manifest

import "fmt"

// UnrecoverableError reports a byte stream that could not be structurally
// parsed even after the sanitize-and-retry cycle. The pipeline produces no
// output when this is returned.
type UnrecoverableError struct {
	// Stage names the pipeline stage that gave up ("parse").
	Stage string
	// Offset is the byte offset of the parser's best-known failure
	// position, or -1 when unavailable.
	Offset int64
	// Err is the underlying parser diagnostic.
	Err error
}

func (e *UnrecoverableError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("manifest unrecoverable at %s (offset %d): %v", e.Stage, e.Offset, e.Err)
	}
	return fmt.Sprintf("manifest unrecoverable at %s: %v", e.Stage, e.Err)
}

func (e *UnrecoverableError) Unwrap() error { return e.Err }

// ShapeError reports a structurally valid document whose root value is not
// an object. The pipeline produces no output when this is returned.
type ShapeError struct {
	// Got describes the root value that was found.
	Got string
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("manifest root must be an object, got %s", e.Got)
}
