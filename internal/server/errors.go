// Package server provides the careers portal HTTP surface.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/careers-portal/internal/api"
	"github.com/jonathan/careers-portal/internal/apply"
	"github.com/jonathan/careers-portal/internal/types"
)

// ErrLoginRequired indicates the route needs a logged-in session
type ErrLoginRequired struct{}

func (e *ErrLoginRequired) Error() string {
	return "login required"
}

// ErrJobNotFound indicates the job is not in the current collection
type ErrJobNotFound struct {
	JobID string
}

func (e *ErrJobNotFound) Error() string {
	return fmt.Sprintf("job not found: %s", e.JobID)
}

// ErrBadRequest indicates a malformed request body or form
type ErrBadRequest struct {
	Message string
}

func (e *ErrBadRequest) Error() string {
	return e.Message
}

// HTTPStatus returns the appropriate HTTP status code for an error
func HTTPStatus(err error) int {
	var (
		loginErr  *ErrLoginRequired
		notFound  *ErrJobNotFound
		badReq    *ErrBadRequest
		fieldErrs types.FieldErrors
		apiErr    *api.Error
	)

	switch {
	case errors.As(err, &loginErr):
		return http.StatusUnauthorized
	case errors.As(err, &notFound):
		return http.StatusNotFound
	case errors.As(err, &badReq), errors.As(err, &fieldErrs):
		return http.StatusBadRequest
	case errors.Is(err, apply.ErrDialogClosed), errors.Is(err, apply.ErrProfileLoading):
		return http.StatusConflict
	case errors.As(err, &apiErr):
		switch apiErr.Kind {
		case api.KindBusiness:
			return http.StatusUnprocessableEntity
		case api.KindTransport:
			if apiErr.Status == http.StatusUnauthorized || apiErr.Status == http.StatusForbidden {
				return apiErr.Status
			}
			return http.StatusBadGateway
		default:
			return http.StatusBadGateway
		}
	default:
		return http.StatusInternalServerError
	}
}

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error  string            `json:"error"`
	Errors types.FieldErrors `json:"errors,omitempty"`
}

// publicMessage is the text of err that is safe to show a visitor.
func publicMessage(err error) string {
	var (
		apiErr    *api.Error
		fieldErrs types.FieldErrors
		loginErr  *ErrLoginRequired
		notFound  *ErrJobNotFound
		badReq    *ErrBadRequest
	)
	switch {
	case errors.As(err, &fieldErrs):
		return "validation failed"
	case errors.As(err, &apiErr):
		return apiErr.UserMessage()
	case errors.As(err, &loginErr), errors.As(err, &notFound), errors.As(err, &badReq),
		errors.Is(err, apply.ErrDialogClosed), errors.Is(err, apply.ErrProfileLoading):
		return err.Error()
	default:
		return "internal server error"
	}
}
