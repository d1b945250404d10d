package domain

import (
	"errors"
	"fmt"
)

// Stage names the extraction step that produced a Diagnostic.
type Stage string

const (
	// StageText is the dedicated text-extraction pass.
	StageText Stage = "text"

	// StageContent is content-stream decompression and operator scanning.
	StageContent Stage = "content"

	// StageImage is image stream enumeration and decoding.
	StageImage Stage = "image"
)

// Diagnostic records a failure that was absorbed rather than returned.
type Diagnostic struct {
	// Stage is the step that failed.
	Stage Stage

	// Page is the 1-based page index, or 0 when not page specific.
	Page int

	// Object names the failing object (XObject name, content stream ref).
	Object string

	// Err is the underlying cause. It always matches ErrDecodeSkipped.
	Err error
}

// NewDiagnostic builds a Diagnostic whose error matches ErrDecodeSkipped.
func NewDiagnostic(stage Stage, page int, object string, cause error) Diagnostic {
	err := ErrDecodeSkipped
	if cause != nil && !errors.Is(cause, ErrDecodeSkipped) {
		err = fmt.Errorf("%w: %w", ErrDecodeSkipped, cause)
	} else if cause != nil {
		err = cause
	}
	return Diagnostic{Stage: stage, Page: page, Object: object, Err: err}
}

// Error implements error.
func (d Diagnostic) Error() string {
	loc := string(d.Stage)
	if d.Page > 0 {
		loc += fmt.Sprintf(" page %d", d.Page)
	}
	if d.Object != "" {
		loc += " " + d.Object
	}
	return fmt.Sprintf("%s: %v", loc, d.Err)
}

// Unwrap returns the underlying cause.
func (d Diagnostic) Unwrap() error {
	return d.Err
}
