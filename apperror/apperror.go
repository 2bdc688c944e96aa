// Package apperror defines the user-facing failures of the application.
package apperror

import (
	"errors"
	"net/http"
)

// Kind classifies a user-facing failure.
type Kind int

const (
	Internal Kind = iota
	MissingField
	InvalidInput
	InvalidSymbol
	InsufficientFunds
	InsufficientShares
	UsernameTaken
	PasswordMismatch
	InvalidCredentials
	Unauthenticated
)

var kindNames = map[Kind]string{
	Internal:           "internal",
	MissingField:       "missing field",
	InvalidInput:       "invalid input",
	InvalidSymbol:      "invalid symbol",
	InsufficientFunds:  "insufficient funds",
	InsufficientShares: "insufficient shares",
	UsernameTaken:      "username taken",
	PasswordMismatch:   "password mismatch",
	InvalidCredentials: "invalid credentials",
	Unauthenticated:    "unauthenticated",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// Error is a categorized failure whose Message is safe to show to the user.
type Error struct {
	Kind    Kind
	Message string
}

func (e *Error) Error() string {
	if e.Message == "" {
		return e.Kind.String()
	}
	return e.Message
}

// Is matches any *Error of the same Kind, so errors.Is(err, ErrInvalidInput)
// holds for every message variant.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New returns an error of the given kind with a user-facing message.
func New(kind Kind, msg string) *Error {
	return &Error{Kind: kind, Message: msg}
}

var (
	ErrMissingField       = New(MissingField, "missing field")
	ErrInvalidInput       = New(InvalidInput, "invalid input")
	ErrInvalidSymbol      = New(InvalidSymbol, "invalid symbol")
	ErrInsufficientFunds  = New(InsufficientFunds, "insufficient funds")
	ErrInsufficientShares = New(InsufficientShares, "not enough shares owned to sell")
	ErrUsernameTaken      = New(UsernameTaken, "username already exists")
	ErrPasswordMismatch   = New(PasswordMismatch, "passwords do not match")
	ErrInvalidCredentials = New(InvalidCredentials, "invalid username and/or password")
	ErrUnauthenticated    = New(Unauthenticated, "login required")
)

// KindOf reports the kind of err, Internal when it carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return Internal
}

// Status maps err to the HTTP status of the error page.
func Status(err error) int {
	switch KindOf(err) {
	case Internal:
		return http.StatusInternalServerError
	case InvalidCredentials, Unauthenticated:
		return http.StatusForbidden
	default:
		return http.StatusBadRequest
	}
}

// Message returns the text shown to the user. Internal details never leave here.
func Message(err error) string {
	var e *Error
	if errors.As(err, &e) && e.Kind != Internal {
		return e.Error()
	}
	return "internal server error"
}
