package books

import (
	"context"
	"errors"

	errorslib "github.com/goliatone/go-errors"
)

// ErrorKind defines desk error kinds.
type ErrorKind string

const (
	KindValidation     ErrorKind = "validation"
	KindNotFound       ErrorKind = "not_found"
	KindRemote         ErrorKind = "remote"
	KindTransport      ErrorKind = "transport"
	KindFixtureMissing ErrorKind = "fixture_missing"
	KindRender         ErrorKind = "render"
	KindTimeout        ErrorKind = "timeout"
	KindCanceled       ErrorKind = "canceled"
	KindInternal       ErrorKind = "internal"
	KindNotImpl        ErrorKind = "not_implemented"
)

// DeskError wraps errors with a kind.
type DeskError struct {
	Kind ErrorKind
	Msg  string
	// Status carries the HTTP status for remote errors.
	Status int
	Err    error
}

func (e *DeskError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return e.Msg + ": " + e.Err.Error()
}

func (e *DeskError) Unwrap() error {
	return e.Err
}

// NewError creates a new desk error.
func NewError(kind ErrorKind, msg string, err error) *DeskError {
	return &DeskError{Kind: kind, Msg: msg, Err: err}
}

// NewRemoteError creates an error for a non-success backend response.
func NewRemoteError(status int, msg string) *DeskError {
	return &DeskError{Kind: KindRemote, Msg: msg, Status: status}
}

// AsGoError maps an error into a go-errors error.
func AsGoError(err error) *errorslib.Error {
	if err == nil {
		return nil
	}

	var ge *errorslib.Error
	if errors.As(err, &ge) {
		return ge
	}

	kind := KindInternal
	msg := err.Error()

	var deskErr *DeskError
	if errors.As(err, &deskErr) {
		kind = deskErr.Kind
		if deskErr.Msg != "" {
			msg = deskErr.Msg
		}
	}

	if errors.Is(err, context.DeadlineExceeded) {
		kind = KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		kind = KindCanceled
	}

	switch kind {
	case KindValidation:
		return errorslib.New(msg, errorslib.CategoryValidation).WithTextCode("validation")
	case KindNotFound:
		return errorslib.New(msg, errorslib.CategoryNotFound).WithTextCode("not_found")
	case KindRemote:
		return errorslib.New(msg, errorslib.CategoryExternal).WithTextCode("remote")
	case KindTransport:
		return errorslib.New(msg, errorslib.CategoryExternal).WithTextCode("transport")
	case KindFixtureMissing:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("fixture_missing")
	case KindRender:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("render")
	case KindTimeout:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("timeout")
	case KindCanceled:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("canceled")
	case KindNotImpl:
		return errorslib.New(msg, errorslib.CategoryOperation).WithTextCode("not_implemented")
	default:
		return errorslib.New(msg, errorslib.CategoryInternal).WithTextCode("internal")
	}
}

// KindFromError maps an error to its desk error kind.
func KindFromError(err error) ErrorKind {
	if err == nil {
		return ""
	}

	var deskErr *DeskError
	if errors.As(err, &deskErr) {
		return deskErr.Kind
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}

	return KindInternal
}

// UserMessage returns the message to surface for validation failures and
// backend rejections, or fallback for everything else.
func UserMessage(err error, fallback string) string {
	var deskErr *DeskError
	if !errors.As(err, &deskErr) || deskErr.Msg == "" {
		var ge *errorslib.Error
		if errors.As(err, &ge) && ge.Category == errorslib.CategoryValidation && ge.Message != "" {
			return ge.Message
		}
		return fallback
	}
	switch deskErr.Kind {
	case KindValidation, KindRemote:
		return deskErr.Msg
	default:
		return fallback
	}
}
