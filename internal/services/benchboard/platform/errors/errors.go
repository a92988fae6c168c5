// Package errors defines typed failures for the benchboard HTTP surface.
package errors

import (
	stderrors "errors"
	"net/http"
	"strings"
)

// Kind classifies request failures for consistent HTTP mapping.
type Kind string

const (
	KindUnknown          Kind = "unknown"
	KindInvalidInput     Kind = "invalid_input"
	KindNotFound         Kind = "not_found"
	KindMethodNotAllowed Kind = "method_not_allowed"
	KindUnavailable      Kind = "unavailable"
	KindRender           Kind = "render"
)

// Error is a typed request failure.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

// Error renders the human-readable message.
func (e Error) Error() string {
	if e.Message == "" {
		return string(e.Kind)
	}
	return e.Message
}

// Unwrap returns the underlying cause.
func (e Error) Unwrap() error {
	return e.Err
}

// E builds a typed Error.
func E(kind Kind, message string) error {
	return Error{Kind: kind, Message: strings.TrimSpace(message)}
}

// Wrap builds a typed Error around err. A nil err yields nil.
func Wrap(kind Kind, message string, err error) error {
	if err == nil {
		return nil
	}
	return Error{Kind: kind, Message: strings.TrimSpace(message), Err: err}
}

// KindOf returns the Kind of err, or KindUnknown for untyped errors.
func KindOf(err error) Kind {
	var appErr Error
	if !stderrors.As(err, &appErr) {
		return KindUnknown
	}
	return appErr.Kind
}

// HTTPStatus maps an error to an HTTP status code.
func HTTPStatus(err error) int {
	if err == nil {
		return http.StatusOK
	}
	switch KindOf(err) {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindNotFound:
		return http.StatusNotFound
	case KindMethodNotAllowed:
		return http.StatusMethodNotAllowed
	case KindUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage returns the text safe to show to a visitor. Render and
// unknown failures collapse to the status text so internals stay in logs.
func PublicMessage(err error) string {
	status := HTTPStatus(err)
	if err == nil || status >= http.StatusInternalServerError {
		return http.StatusText(status)
	}
	return err.Error()
}
