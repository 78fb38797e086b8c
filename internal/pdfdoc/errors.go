package pdfdoc

import (
	"errors"
	"fmt"
)

// ErrorKind categorizes document-level failures. Failures at this level are
// fatal to the call: a document that cannot be opened produces no partial
// result.
type ErrorKind string

const (
	// ErrorKindInput marks input that is not a readable PDF payload at all.
	ErrorKindInput ErrorKind = "input"
	// ErrorKindEncrypted marks a document that opened but is access
	// restricted.
	ErrorKindEncrypted ErrorKind = "encrypted"
	// ErrorKindCorrupt marks a document the parser could not read.
	ErrorKindCorrupt ErrorKind = "corrupt"
)

// ParseError is the structured error returned for document-level failures.
type ParseError struct {
	Kind    ErrorKind `json:"kind"`
	Message string    `json:"message"`
	Path    string    `json:"path,omitempty"`
	Err     error     `json:"-"`
}

// Error implements the error interface.
func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Unwrap returns the underlying error.
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewInputError creates a ParseError for invalid input payloads.
func NewInputError(message string, err error) *ParseError {
	return &ParseError{Kind: ErrorKindInput, Message: message, Err: err}
}

// NewEncryptedError creates a ParseError for access-restricted documents.
func NewEncryptedError(path string) *ParseError {
	return &ParseError{Kind: ErrorKindEncrypted, Message: "document is encrypted", Path: path}
}

// NewCorruptError creates a ParseError for unreadable documents.
func NewCorruptError(message string, err error) *ParseError {
	return &ParseError{Kind: ErrorKindCorrupt, Message: message, Err: err}
}

// KindOf returns the ErrorKind of err if it is a ParseError, or empty.
func KindOf(err error) ErrorKind {
	var pe *ParseError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}
