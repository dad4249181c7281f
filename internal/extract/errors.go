package extract

import (
	"errors"
	"fmt"
)

// Code identifies a class of extraction failure.
type Code string

const (
	// CodeExtractionFailed means OCR/PDF decoding could not produce any
	// text from the uploaded file. Fatal to the request; no fallback.
	CodeExtractionFailed Code = "EXTRACTION_FAILED"

	// CodeModelUnavailable means the generative model could not be reached
	// or is not configured. Fatal for single receipts; statements fall
	// through to the heuristic scanner.
	CodeModelUnavailable Code = "MODEL_UNAVAILABLE"

	// CodeMalformedResponse means the model replied but its text could not
	// be parsed into the expected shape. Fatal in both task kinds: a
	// malformed reply suggests a prompt/schema mismatch worth surfacing,
	// not masking with the fallback.
	CodeMalformedResponse Code = "MALFORMED_RESPONSE"
)

// Error is a structured extraction failure carried across the pipeline.
type Error struct {
	Code    Code
	Message string
	Cause   error
}

func (e *Error) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// IsCode reports whether err (or anything it wraps) is an extraction Error
// with the given code.
func IsCode(err error, code Code) bool {
	var ee *Error
	return errors.As(err, &ee) && ee.Code == code
}
