package apperr

import (
	"errors"
	"fmt"
)

// Kind classifies a domain failure so the HTTP layer can pick a status code
// and a stable user-facing message without inspecting error strings.
type Kind int

const (
	KindNotFound Kind = iota + 1
	KindValidation
	KindSubmission
	KindInvalidTransition
	KindConnectivity
)

type Error struct {
	Kind Kind
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

func NotFound(msg string) error {
	return &Error{Kind: KindNotFound, Msg: msg}
}

func Validation(msg string) error {
	return &Error{Kind: KindValidation, Msg: msg}
}

func Submission(msg string, err error) error {
	return &Error{Kind: KindSubmission, Msg: msg, Err: err}
}

func InvalidTransition(msg string) error {
	return &Error{Kind: KindInvalidTransition, Msg: msg}
}

func Connectivity(msg string, err error) error {
	return &Error{Kind: KindConnectivity, Msg: msg, Err: err}
}

// KindOf returns the kind of err, or 0 when err is not an *Error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}

func Is(err error, kind Kind) bool {
	return KindOf(err) == kind
}
