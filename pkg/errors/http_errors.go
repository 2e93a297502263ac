package errors

import (
	stderrors "errors"
)

// FromError converts a standard error to an AppError.
// If the error is, or wraps, an AppError it is returned as-is;
// otherwise it becomes a generic internal server error.
func FromError(err error) *AppError {
	if err == nil {
		return nil
	}

	var appErr *AppError
	if stderrors.As(err, &appErr) {
		return appErr
	}

	return NewInternalServerError(CodeServiceError, "An unexpected error occurred").WithCause(err)
}
