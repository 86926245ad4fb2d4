// Package response defines the JSON envelope shared by every non-redirect
// response: {"status": ..., "message": ..., "data": ...}.
package response

import (
	"errors"

	"github.com/go-playground/validator/v10"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

var EmptyRequestBodyResponse = Error("Request body is empty.")

var InvalidRequestBodyResponse = Error("Request body is not valid JSON.")

var ServerErrorResponse = Error("An internal server error occurred.")

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Data    any    `json:"data"`
}

func Success(msg string, data any) Response {
	return Response{
		Status:  StatusSuccess,
		Message: msg,
		Data:    data,
	}
}

// Error builds an error envelope. Its data is always null.
func Error(msg string) Response {
	return Response{
		Status:  StatusError,
		Message: msg,
	}
}

type validationError struct {
	Field string `json:"field"`
	Value any    `json:"value"`
	Issue string `json:"issue"`
}

// ValidationError builds an error envelope listing the failed fields of err,
// which is expected to come from validator.Validate.Struct.
func ValidationError(err error) Response {
	return Response{
		Status:  StatusError,
		Message: "Validation error.",
		Data: map[string]any{
			"errors": getValidationErrors(err),
		},
	}
}

func getValidationErrors(err error) []validationError {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return nil
	}

	validationErrs := make([]validationError, 0, len(errs))
	for _, e := range errs {
		validationErrs = append(validationErrs, validationError{
			Field: e.Field(),
			Value: e.Value(),
			Issue: issueForTag(e.Tag()),
		})
	}

	return validationErrs
}

func issueForTag(tag string) string {
	switch tag {
	case "required":
		return "This field is required."
	case "url", "http_url":
		return "Invalid url."
	case "max":
		return "Value is too long."
	default:
		return "Invalid value."
	}
}
