package analysis

import (
	"errors"
	"fmt"
)

// Code is a stable identifier for a class of analysis failure.
type Code string

const (
	// InvalidSnapshot indicates a nil or otherwise unusable snapshot
	InvalidSnapshot Code = "INVALID_SNAPSHOT"
	// SlotIndexOutOfRange indicates a timeline or constraint names a missing slot
	SlotIndexOutOfRange Code = "SLOT_INDEX_OUT_OF_RANGE"
	// BoneIndexOutOfRange indicates a bone, slot or constraint names a missing bone
	BoneIndexOutOfRange Code = "BONE_INDEX_OUT_OF_RANGE"
	// InvalidHierarchy indicates the bones do not form a forest
	InvalidHierarchy Code = "INVALID_HIERARCHY"
	// UnknownVariant indicates an attachment, timeline, constraint or blend mode this analyzer does not know
	UnknownVariant Code = "UNKNOWN_VARIANT"
)

// Error is returned when a snapshot violates the loader contract. Scores
// are never produced for such a snapshot.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func newError(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *Error) WithDetails(details any) *Error {
	e.Details = details
	return e
}

// CodeOf returns the code of the first *Error in err's chain, or "".
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return ""
}

func wrap(analyzer string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("analysis: %s: %w", analyzer, err)
}
