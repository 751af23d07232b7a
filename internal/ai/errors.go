package ai

import (
	"errors"
	"fmt"
	"strings"
)

// Kind classifies an analysis failure.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindService
	KindResponseFormat
)

// User-facing messages shown for each failure kind.
const (
	MsgValidation     = "Please provide both a resume and a job description."
	MsgService        = "Failed to analyze. Please try again."
	MsgResponseFormat = "The analysis service returned an unexpected format."
	MsgUnknown        = "An unknown error occurred."
)

var (
	ErrMalformed    = errors.New("payload is not a json object")
	ErrMissingField = errors.New("required field is missing")
	ErrWrongType    = errors.New("field has unexpected type")
	ErrScoreRange   = errors.New("match score is out of range")
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindService:
		return "service"
	case KindResponseFormat:
		return "response_format"
	default:
		return "unknown"
	}
}

// Error is a classified analysis failure. Message is safe to show to the user,
// Err keeps the underlying cause for logs.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	}
	return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// NewValidationError reports a local precondition violation.
func NewValidationError(message string) *Error {
	if strings.TrimSpace(message) == "" {
		message = MsgValidation
	}
	return &Error{Kind: KindValidation, Message: message}
}

// NewServiceError reports a failed call to the analysis service. The detail
// returned by the service is used as the message when available.
func NewServiceError(detail string, err error) *Error {
	detail = strings.TrimSpace(detail)
	if detail == "" {
		detail = MsgService
	}
	return &Error{Kind: KindService, Message: detail, Err: err}
}

// NewResponseFormatError reports a payload that failed schema validation.
func NewResponseFormatError(err error) *Error {
	return &Error{Kind: KindResponseFormat, Message: MsgResponseFormat, Err: err}
}

// KindOf returns the failure kind of err. Errors that were never classified
// are reported as KindUnknown.
func KindOf(err error) Kind {
	var aiErr *Error
	if errors.As(err, &aiErr) {
		return aiErr.Kind
	}
	return KindUnknown
}

// Message returns the user-facing text for err.
func Message(err error) string {
	if err == nil {
		return ""
	}

	var aiErr *Error
	if !errors.As(err, &aiErr) {
		return MsgUnknown
	}

	if msg := strings.TrimSpace(aiErr.Message); msg != "" {
		return msg
	}

	switch aiErr.Kind {
	case KindValidation:
		return MsgValidation
	case KindService:
		return MsgService
	case KindResponseFormat:
		return MsgResponseFormat
	default:
		return MsgUnknown
	}
}
