package apperrors

import (
	"errors"
	"fmt"
)

// Kind classifies an error so the HTTP layer can map it to a status code
// without inspecting message text.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindNotFound
	KindDependency
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindDependency:
		return "dependency"
	default:
		return "unknown"
	}
}

// Error is a tagged error returned by everything below the HTTP layer.
// Components never write HTTP responses themselves; the handlers translate
// the kind at the boundary.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return e.Message
	}
	if e.Message == "" {
		return e.Err.Error()
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Validation reports input the caller should have supplied differently.
func Validation(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Message: fmt.Sprintf(format, args...)}
}

// NotFound reports state the caller must create before this call can succeed.
func NotFound(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

// Dependency reports a failure of an external collaborator such as the model
// API or index storage. err may be nil when there is no underlying cause.
func Dependency(err error, format string, args ...any) *Error {
	return &Error{Kind: KindDependency, Message: fmt.Sprintf(format, args...), Err: err}
}

// KindOf returns the kind carried by err, unwrapping as needed, or
// KindUnknown for untagged errors.
func KindOf(err error) Kind {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindUnknown
}
