// Package deperr defines the error taxonomy shared by the reconcilers.
//
// Per-module failures (KindConfiguration on a snippet, KindMissingResource)
// are isolated by the caller; KindIO and configuration errors raised while
// reading the settings snapshot stop the build.
package deperr

import (
	"errors"
	"fmt"
)

// Kind identifies the category of an error.
type Kind int

const (
	KindUnknown Kind = iota
	// KindConfiguration indicates malformed settings or a malformed snippet.
	KindConfiguration
	// KindMissingResource indicates an absent template or plugin file.
	KindMissingResource
	// KindDuplicateResource indicates several candidates where exactly one is required.
	KindDuplicateResource
	// KindIO indicates a file system failure on a shared directory or the symbol list.
	KindIO
)

func (k Kind) String() string {
	switch k {
	case KindConfiguration:
		return "configuration"
	case KindMissingResource:
		return "missing resource"
	case KindDuplicateResource:
		return "duplicate resource"
	case KindIO:
		return "io"
	default:
		return "unknown"
	}
}

// Sentinel values usable with errors.Is.
var (
	ErrConfiguration     = &Error{Kind: KindConfiguration}
	ErrMissingResource   = &Error{Kind: KindMissingResource}
	ErrDuplicateResource = &Error{Kind: KindDuplicateResource}
	ErrIO                = &Error{Kind: KindIO}
)

// Error is a categorized reconciliation error.
type Error struct {
	// Op is the operation that failed (e.g. "android.Stage").
	Op string
	// Kind categorizes the error.
	Kind Kind
	// Resource names the module, template or path involved.
	Resource string
	// Err is the underlying error.
	Err error
}

// New returns an *Error of the given kind.
func New(kind Kind, op, resource string, err error) *Error {
	return &Error{Op: op, Kind: kind, Resource: resource, Err: err}
}

// Errorf is like New but formats the underlying error.
func Errorf(kind Kind, op, resource, format string, args ...any) *Error {
	return New(kind, op, resource, fmt.Errorf(format, args...))
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("%s [%s]", e.Op, e.Kind)
	if e.Resource != "" {
		msg += " " + e.Resource
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is reports whether target is an *Error of the same kind.
// Sentinels carry only a kind, so errors.Is(err, ErrIO) matches any IO error.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Op == "" || t.Op == e.Op)
}

// KindOf returns the kind of the first *Error in err's chain.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsFatal reports whether err must stop the build.
// Missing and duplicate resources only disable the affected feature.
func IsFatal(err error) bool {
	if err == nil {
		return false
	}
	switch KindOf(err) {
	case KindMissingResource, KindDuplicateResource:
		return false
	}
	return true
}
