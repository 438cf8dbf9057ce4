// Package apierr classifies errors returned to API callers and maps them to
// HTTP status codes.
//
// Handlers write errors with Write. Anything that was not classified by the
// service layer is treated as an internal failure and its message is
// replaced with a generic one.
package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"
)

// Kind is the class of an API error.
type Kind int

const (
	KindInternal Kind = iota
	KindInvalidInput
	KindUnauthorized
	KindNotFound
	KindStoreFailure
)

func (k Kind) String() string {
	switch k {
	case KindInvalidInput:
		return "invalid_input"
	case KindUnauthorized:
		return "unauthorized"
	case KindNotFound:
		return "not_found"
	case KindStoreFailure:
		return "store_failure"
	}
	return "internal"
}

// Status returns the HTTP status code for the kind.
func (k Kind) Status() int {
	switch k {
	case KindInvalidInput:
		return http.StatusBadRequest
	case KindUnauthorized:
		return http.StatusUnauthorized
	case KindNotFound:
		return http.StatusNotFound
	}
	return http.StatusInternalServerError
}

// Error is a classified error. Message is safe to show to callers; Err, if
// set, is the underlying cause and is only logged.
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

// InvalidInput reports a request the caller must fix.
func InvalidInput(msg string) *Error { return &Error{Kind: KindInvalidInput, Message: msg} }

// Unauthorized reports a missing or unknown identity.
func Unauthorized(msg string) *Error { return &Error{Kind: KindUnauthorized, Message: msg} }

// NotFound reports a missing resource.
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Message: msg} }

// StoreFailure wraps an unexpected storage error behind a generic message.
func StoreFailure(msg string, err error) *Error {
	return &Error{Kind: KindStoreFailure, Message: msg, Err: err}
}

// As returns the classified error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf returns the kind of err, or KindInternal when err is unclassified.
func KindOf(err error) Kind {
	if e, ok := As(err); ok {
		return e.Kind
	}
	return KindInternal
}

// Status returns the HTTP status code for err.
func Status(err error) int {
	return KindOf(err).Status()
}

// body is the JSON error envelope.
type body struct {
	Detail string `json:"detail"`
}

// Write sends err as a JSON error response. Unclassified errors are logged
// and reported as a generic internal error.
func Write(w http.ResponseWriter, r *http.Request, log *zap.Logger, err error) {
	msg := "Internal Server Error"
	status := http.StatusInternalServerError

	if e, ok := As(err); ok {
		msg = e.Message
		status = e.Kind.Status()
	} else if log != nil {
		log.Error("unhandled error", zap.Error(err), zap.String("path", r.URL.Path))
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body{Detail: msg})
}
