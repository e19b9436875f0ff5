// Package errs defines the failure taxonomy shared by the harvest pipeline.
package errs

import (
	"errors"
	"fmt"
)

// Common pipeline errors
var (
	ErrStatus        = errors.New("unexpected status")
	ErrEmptyTaxonomy = errors.New("no taxonomy found in navigation menu")
	ErrPageCeiling   = errors.New("listing page ceiling reached")
)

// Kind classifies where a failure happened and how the pipeline reacts to it
type Kind string

const (
	KindTransport   Kind = "TRANSPORT"
	KindExtraction  Kind = "EXTRACTION"
	KindPersistence Kind = "PERSISTENCE"
	KindTaxonomy    Kind = "TAXONOMY"
)

// Error wraps a failure with the unit of work it belongs to
type Error struct {
	Kind       Kind
	Op         string
	URL        string
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *Error) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Kind, e.Op)
	if e.URL != "" {
		msg += " " + e.URL
	}
	if e.StatusCode != 0 {
		msg += fmt.Sprintf(" (status %d)", e.StatusCode)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches another *Error of the same kind, or the underlying error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Kind == t.Kind
	}
	return errors.Is(e.Err, target)
}

// Transport builds a network or status failure
func Transport(op, url string, status int, err error) *Error {
	return &Error{Kind: KindTransport, Op: op, URL: url, StatusCode: status, Err: err}
}

// Persistence builds a filesystem write failure
func Persistence(op, path string, err error) *Error {
	return &Error{Kind: KindPersistence, Op: op, URL: path, Err: err}
}

// Extraction builds a markup extraction failure
func Extraction(op, url string, err error) *Error {
	return &Error{Kind: KindExtraction, Op: op, URL: url, Err: err}
}

// Taxonomy builds a discovery failure, which is fatal to a run
func Taxonomy(op, url string, err error) *Error {
	return &Error{Kind: KindTaxonomy, Op: op, URL: url, Err: err}
}

// IsKind reports whether err carries an *Error of the given kind
func IsKind(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// StatusCode extracts the HTTP status from err, or 0
func StatusCode(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.StatusCode
	}
	return 0
}
