package domain

import (
	"errors"
	"strings"
)

var (
	// ErrNotFound indicates the requested entity was not found.
	ErrNotFound = errors.New("not found")
	// ErrMalformedResponse marks upstream payloads that could not be decoded.
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// ErrorKind classifies signup failures.
type ErrorKind string

const (
	KindValidation ErrorKind = "ValidationError"
	KindUpstream   ErrorKind = "UpstreamError"
	KindUnexpected ErrorKind = "UnexpectedError"
)

// Step names a stage of the signup sequence.
type Step string

const (
	StepValidating          Step = "Validating"
	StepResolvingCustomer   Step = "ResolvingCustomer"
	StepRegisteringBilling  Step = "RegisteringBilling"
	StepRegisteringShipping Step = "RegisteringShipping"
	StepCreatingMembership  Step = "CreatingMembership"
	StepDone                Step = "Done"
)

// Error is a classified signup failure. Message is safe to show to the
// caller; Err keeps the full cause for logs.
type Error struct {
	Kind          ErrorKind
	Step          Step
	Message       string
	MissingFields []string
	InvalidFields []string
	Err           error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Step != "" {
		b.WriteString(" at ")
		b.WriteString(string(e.Step))
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error { return e.Err }

// WithStep returns a copy of e tagged with step.
func (e *Error) WithStep(step Step) *Error {
	clone := *e
	clone.Step = step
	return &clone
}

// NewValidationError builds a ValidationError listing the offending fields.
func NewValidationError(missing, invalid []string) *Error {
	var parts []string
	if len(missing) > 0 {
		parts = append(parts, "missing required fields: "+strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		parts = append(parts, "invalid fields: "+strings.Join(invalid, ", "))
	}
	msg := strings.Join(parts, "; ")
	if msg == "" {
		msg = "invalid request"
	}
	return &Error{
		Kind:          KindValidation,
		Message:       msg,
		MissingFields: missing,
		InvalidFields: invalid,
	}
}

// publicMessager is implemented by upstream errors that carry a message
// fit for the caller.
type publicMessager interface {
	PublicMessage() string
}

// UpstreamFailure classifies err from an upstream call. Undecodable
// payloads are UnexpectedError; everything else is UpstreamError.
func UpstreamFailure(message string, err error) *Error {
	kind := KindUpstream
	if errors.Is(err, ErrMalformedResponse) {
		kind = KindUnexpected
	}
	var pm publicMessager
	if errors.As(err, &pm) && pm.PublicMessage() != "" {
		message += ": " + pm.PublicMessage()
	}
	return &Error{Kind: kind, Message: message, Err: err}
}

// AsError unwraps err into a *Error.
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf reports the kind of err; unclassified errors are UnexpectedError.
func KindOf(err error) ErrorKind {
	if e, ok := AsError(err); ok {
		return e.Kind
	}
	return KindUnexpected
}
