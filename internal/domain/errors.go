package domain

import (
	"errors"
	"fmt"
)

// ErrorKind classifies failures so the HTTP layer can pick a status and message
type ErrorKind int

const (
	KindUnknown ErrorKind = iota
	KindValidation
	KindNotFound
	KindRemoteCall
	KindConfiguration
	KindNoMatch
)

func (k ErrorKind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindNotFound:
		return "not_found"
	case KindRemoteCall:
		return "remote_call"
	case KindConfiguration:
		return "configuration"
	case KindNoMatch:
		return "no_match"
	default:
		return "unknown"
	}
}

var (
	ErrAlreadyExists = errors.New("already exists")
	ErrNotFound      = errors.New("not found")
	ErrMissingAPIKey = errors.New("fitment API key is not configured")
	ErrNoSuchVehicle = errors.New("no such vehicle")
	ErrNoParts       = errors.New("no parts found")
)

// Error is the typed error returned by every component: a kind plus a human readable message
type Error struct {
	Kind    ErrorKind
	Op      string // Operation that failed, e.g. "category.create"
	Message string // User facing text
	Err     error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op + ": " + e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func NewValidationError(op, message string, err error) *Error {
	return &Error{Kind: KindValidation, Op: op, Message: message, Err: err}
}

// NewDuplicateError reports a unique-name violation within a scope
func NewDuplicateError(op, entity string) *Error {
	return &Error{
		Kind:    KindValidation,
		Op:      op,
		Message: fmt.Sprintf("%s with this name already exists", entity),
		Err:     ErrAlreadyExists,
	}
}

func NewNotFoundError(op, entity string, id int64) *Error {
	return &Error{
		Kind:    KindNotFound,
		Op:      op,
		Message: fmt.Sprintf("%s %d not found", entity, id),
		Err:     ErrNotFound,
	}
}

func NewRemoteCallError(op, message string, err error) *Error {
	return &Error{Kind: KindRemoteCall, Op: op, Message: message, Err: err}
}

func NewConfigurationError(op, message string, err error) *Error {
	return &Error{Kind: KindConfiguration, Op: op, Message: message, Err: err}
}

func NewNoMatchError(op, message string, err error) *Error {
	return &Error{Kind: KindNoMatch, Op: op, Message: message, Err: err}
}

// FetchFailure ends a paginated fetch. Status is 0 for transport errors.
type FetchFailure struct {
	Page   int
	Status int
	Err    error
}

func (f *FetchFailure) Error() string {
	if f.Status != 0 {
		return fmt.Sprintf("failed to fetch page %d: HTTP %d", f.Page, f.Status)
	}
	return fmt.Sprintf("failed to fetch page %d: %v", f.Page, f.Err)
}

func (f *FetchFailure) Unwrap() error {
	return f.Err
}

// KindOf returns the kind of the first typed error in err's chain
func KindOf(err error) ErrorKind {
	if err == nil {
		return KindUnknown
	}

	var typed *Error
	if errors.As(err, &typed) {
		return typed.Kind
	}

	var failure *FetchFailure
	if errors.As(err, &failure) {
		return KindRemoteCall
	}

	return KindUnknown
}

// MessageOf returns the user facing message of a typed error, or fallback for anything else
func MessageOf(err error, fallback string) string {
	var typed *Error
	if errors.As(err, &typed) && typed.Message != "" {
		return typed.Message
	}

	var failure *FetchFailure
	if errors.As(err, &failure) {
		return failure.Error()
	}

	return fallback
}

func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || KindOf(err) == KindNotFound
}

func IsDuplicate(err error) bool {
	return errors.Is(err, ErrAlreadyExists)
}
