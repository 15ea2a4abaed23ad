package apperror

import (
	"errors"
	"net/http"
)

// Issue points at a single offending input field.
type Issue struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

type AppError struct {
	Code    int     `json:"code"`
	Message string  `json:"message"`
	Issues  []Issue `json:"issues,omitempty"`
	Err     error   `json:"-"`
}

func (e *AppError) Error() string {
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func New(code int, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

func BadRequest(message string) *AppError {
	return New(http.StatusBadRequest, message, nil)
}

// Validation reports every issue found in a payload at once.
func Validation(issues []Issue) *AppError {
	e := New(http.StatusBadRequest, "Validation failed", nil)
	e.Issues = issues
	return e
}

func NotFound(message string) *AppError {
	return New(http.StatusNotFound, message, nil)
}

func Conflict(message string) *AppError {
	return New(http.StatusConflict, message, nil)
}

func TooManyRequests(message string) *AppError {
	return New(http.StatusTooManyRequests, message, nil)
}

func Internal(err error) *AppError {
	return New(http.StatusInternalServerError, "Internal Server Error", err)
}

// CodeOf returns the HTTP code carried by err, or 500 when err is not an AppError.
func CodeOf(err error) int {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return http.StatusInternalServerError
}

func IsValidation(err error) bool { return CodeOf(err) == http.StatusBadRequest }

func IsNotFound(err error) bool { return CodeOf(err) == http.StatusNotFound }

func IsConflict(err error) bool { return CodeOf(err) == http.StatusConflict }
