package errors

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/tidwall/gjson"
)

// Error codes returned to clients
const (
	CodeInvalidRequest     = "INVALID_REQUEST"
	CodeUpstreamError      = "UPSTREAM_ERROR"
	CodeInvalidModelOutput = "INVALID_MODEL_OUTPUT"
	CodeServiceError       = "SERVICE_ERROR"
	CodeRateLimited        = "RATE_LIMIT_EXCEEDED"
	CodeNotFound           = "NOT_FOUND"
	CodeServerPanic        = "SERVER_PANIC"
)

// AppError represents an application error with HTTP status code and error code
type AppError struct {
	StatusCode int    `json:"-"`
	Code       string `json:"code"`
	Message    string `json:"message"`
	// Upstream holds an error payload received from a third-party API. When
	// set it is returned to the client in place of Message.
	Upstream json.RawMessage `json:"-"`
	// Cause is the underlying error, logged but never sent to clients.
	Cause error `json:"-"`
	// Details are extra body fields, e.g. the unmatched path of a 404
	Details map[string]any `json:"-"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap exposes the underlying cause
func (e *AppError) Unwrap() error {
	return e.Cause
}

// WithCause attaches the underlying error
func (e *AppError) WithCause(err error) *AppError {
	e.Cause = err
	return e
}

// WithDetail adds a field to the response body. "error" and "code" cannot be overridden.
func (e *AppError) WithDetail(key string, value any) *AppError {
	if e.Details == nil {
		e.Details = make(map[string]any)
	}
	e.Details[key] = value
	return e
}

// Body returns the JSON body sent to the client
func (e *AppError) Body() map[string]any {
	body := make(map[string]any, len(e.Details)+2)
	for key, value := range e.Details {
		body[key] = value
	}

	var errValue any = e.Message
	if len(e.Upstream) > 0 {
		errValue = e.Upstream
	}
	body["error"] = errValue
	body["code"] = e.Code
	return body
}

// NewError creates a new application error
func NewError(statusCode int, code string, message string) *AppError {
	return &AppError{
		StatusCode: statusCode,
		Code:       code,
		Message:    message,
	}
}

// NewBadRequestError creates a 400 Bad Request error
func NewBadRequestError(code string, message string) *AppError {
	return NewError(http.StatusBadRequest, code, message)
}

// NewNotFoundError creates a 404 Not Found error
func NewNotFoundError(code string, message string) *AppError {
	return NewError(http.StatusNotFound, code, message)
}

// NewTooManyRequestsError creates a 429 Too Many Requests error
func NewTooManyRequestsError(code string, message string) *AppError {
	return NewError(http.StatusTooManyRequests, code, message)
}

// NewInternalServerError creates a 500 Internal Server Error
func NewInternalServerError(code string, message string) *AppError {
	return NewError(http.StatusInternalServerError, code, message)
}

// NewUpstreamError mirrors a third-party rejection: same status, same payload.
// fallback is used when the payload is missing, invalid, null, false, zero or "".
func NewUpstreamError(statusCode int, payload json.RawMessage, fallback string) *AppError {
	appErr := NewError(statusCode, CodeUpstreamError, fallback)
	if len(payload) > 0 && gjson.ValidBytes(payload) && !emptyPayload(gjson.ParseBytes(payload)) {
		appErr.Upstream = payload
	}
	return appErr
}

func emptyPayload(v gjson.Result) bool {
	switch v.Type {
	case gjson.Null, gjson.False:
		return true
	case gjson.Number:
		return v.Num == 0
	case gjson.String:
		return v.Str == ""
	}
	return false
}
