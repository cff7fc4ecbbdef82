package util

import (
	"errors"
	"fmt"
	"runtime/debug"

	"github.com/fadilmartias/resume-profiler/internal/config"
	"github.com/fadilmartias/resume-profiler/internal/response"
	"github.com/gofiber/fiber/v2"
)

// Envelope is the body of every JSON response. Success responses fill the
// upper block, error responses the lower one.
type Envelope struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Warnings   []string             `json:"warnings,omitempty"`
	Data       any                  `json:"data,omitempty"`

	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
	// Warnings carry problems that did not fail the request, such as an
	// upload whose profile could not be extracted.
	Warnings []string
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
}

// Detailer is implemented by errors that carry client-facing details, for
// example the field problems of a rejected profile patch.
type Detailer interface {
	Details() any
}

type FormError struct {
	Errors  map[string]string
	Message string
}

func (e *FormError) Error() string {
	return fmt.Sprintf("invalid form: %s", e.Message)
}

func (e *FormError) Details() any {
	return e.Errors
}

func NewFormError(message string, errors map[string]string) *FormError {
	return &FormError{
		Message: message,
		Errors:  errors,
	}
}

func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(Envelope{
		Success:    true,
		Message:    params.Message,
		Meta:       params.Meta,
		Pagination: params.Pagination,
		Warnings:   params.Warnings,
		Data:       params.Data,
	})
}

// ErrorResponse writes the error envelope. Details come from params or else
// from the first Detailer in err's chain. Outside production err is exposed
// as dev_message, and server errors also get a stack trace.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, err error) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}

	body := Envelope{Message: params.Message, Details: params.Details}
	var d Detailer
	if body.Details == nil && errors.As(err, &d) {
		body.Details = d.Details()
	}

	if !config.LoadAppConfig().IsProduction() {
		body.DevMessage = params.DevMessage
		if body.DevMessage == "" && err != nil {
			body.DevMessage = err.Error()
		}
		if code >= fiber.StatusInternalServerError {
			body.Trace = string(debug.Stack())
		}
	}
	return c.Status(code).JSON(body)
}
