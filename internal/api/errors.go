package api

import (
	"errors"
	"fmt"

	"github.com/jonathan/careers-portal/internal/types"
)

// FallbackMessage is shown when a failed call carries no usable message.
const FallbackMessage = "Something went wrong!"

// businessFallback is used when the API answers status:false without a message.
const businessFallback = "Something went wrong"

// Kind classifies a failed API call.
type Kind int

const (
	// KindTransport covers network failures and non-2xx responses.
	KindTransport Kind = iota + 1
	// KindBusiness is a well-formed response with status:false.
	KindBusiness
	// KindDecode is a response that does not match its envelope.
	KindDecode
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindBusiness:
		return "business"
	case KindDecode:
		return "decode"
	default:
		return "unknown"
	}
}

// Error is the typed result of a failed API call.
type Error struct {
	Kind    Kind
	Op      string
	Status  int
	Message string
	Cause   error
}

func (e *Error) Error() string {
	msg := fmt.Sprintf("api %s: %s error", e.Op, e.Kind)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Message != "" {
		msg += ": " + e.Message
	}
	if e.Cause != nil {
		msg += ": " + e.Cause.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Cause
}

// UserMessage returns the text to show the visitor.
func (e *Error) UserMessage() string {
	if e.Message != "" {
		return e.Message
	}
	return FallbackMessage
}

// MessageOf extracts the visitor-facing message from any error.
func MessageOf(err error) string {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.UserMessage()
	}
	return FallbackMessage
}

// IsKind reports whether err is an *Error of the given kind.
func IsKind(err error, kind Kind) bool {
	var apiErr *Error
	return errors.As(err, &apiErr) && apiErr.Kind == kind
}

// errorMessage reads message, then error, from a response body.
func errorMessage(body []byte) string {
	var env types.StatusResponse
	if err := decodeJSON(body, &env); err != nil {
		return ""
	}
	if env.Message != "" {
		return env.Message
	}
	return env.ErrorText()
}

func businessError(op string, env types.StatusResponse) *Error {
	msg := env.Message
	if msg == "" {
		msg = env.ErrorText()
	}
	if msg == "" {
		msg = businessFallback
	}
	return &Error{Kind: KindBusiness, Op: op, Message: msg}
}
