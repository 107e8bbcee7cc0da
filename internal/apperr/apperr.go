// Package apperr defines the error kinds every collaborator failure is
// translated into before it crosses a package boundary. Handlers map kinds to
// HTTP status codes; callers discriminate with KindOf instead of matching
// message strings.
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	// Unauthenticated covers a missing credential or a verification service
	// failure that prevents establishing identity.
	Unauthenticated Kind = iota
	// InvalidCredential is a token the identity service rejected.
	InvalidCredential
	// MalformedCredential is a token rejected by shape alone, before any
	// network call.
	MalformedCredential
	// InvalidRequest is a request body that fails shape validation.
	InvalidRequest
	// InvalidReference is a video URL no id could be extracted from.
	InvalidReference
	// UnsupportedFormat is an upload with an unrecognized filename suffix.
	UnsupportedFormat
	// EmptyContent is an extraction that yielded nothing after trimming.
	EmptyContent
	// ExtractionError is any upstream or parse failure during extraction.
	ExtractionError
	// GenerationError is a transport or service failure of the model call.
	GenerationError
	// NotFound is an absent chat or share record.
	NotFound
	// Conflict is a share token already bound to a different chat.
	Conflict
	// Downstream is any other collaborator failure.
	Downstream
)

func (k Kind) String() string {
	switch k {
	case Unauthenticated:
		return "unauthenticated"
	case InvalidCredential:
		return "invalid_credential"
	case MalformedCredential:
		return "malformed_credential"
	case InvalidRequest:
		return "invalid_request"
	case InvalidReference:
		return "invalid_reference"
	case UnsupportedFormat:
		return "unsupported_format"
	case EmptyContent:
		return "empty_content"
	case ExtractionError:
		return "extraction_error"
	case GenerationError:
		return "generation_error"
	case NotFound:
		return "not_found"
	case Conflict:
		return "conflict"
	default:
		return "downstream"
	}
}

// HTTPStatus returns the response status code for the kind.
func (k Kind) HTTPStatus() int {
	switch k {
	case Unauthenticated, InvalidCredential, MalformedCredential:
		return http.StatusUnauthorized
	case InvalidRequest, InvalidReference, UnsupportedFormat, EmptyContent:
		return http.StatusBadRequest
	case NotFound:
		return http.StatusNotFound
	case Conflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return e.Message + ": " + e.Err.Error()
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

func Newf(kind Kind, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

// Wrap attaches a kind to a collaborator failure, preserving the cause.
func Wrap(kind Kind, msg string, err error) *Error {
	return &Error{Kind: kind, Message: msg, Err: err}
}

// KindOf reports the kind of err. Errors that never went through this package
// are classified as Downstream.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Downstream
}
