package domain

import (
	"fmt"
)

type AppError struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	StatusCode int    `json:"-"`
	Err        error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

func (e *AppError) WithError(err error) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    e.Message,
		StatusCode: e.StatusCode,
		Err:        err,
	}
}

func (e *AppError) WithMessage(msg string) *AppError {
	return &AppError{
		Code:       e.Code,
		Message:    msg,
		StatusCode: e.StatusCode,
		Err:        e.Err,
	}
}

// Pre-defined errors
var (
	ErrInternal = &AppError{
		Code:       "INTERNAL_ERROR",
		Message:    "An unexpected error occurred",
		StatusCode: 500,
	}

	ErrBadRequest = &AppError{
		Code:       "BAD_REQUEST",
		Message:    "Invalid request",
		StatusCode: 400,
	}

	ErrMissingParameter = &AppError{
		Code:       "MISSING_PARAMETER",
		Message:    "Missing required parameter",
		StatusCode: 400,
	}

	ErrInvalidAction = &AppError{
		Code:       "INVALID_ACTION",
		Message:    "Invalid action. Must be start_kyc, process_document, complete_liveness, final_verification or get_status",
		StatusCode: 400,
	}

	ErrSessionNotFound = &AppError{
		Code:       "SESSION_NOT_FOUND",
		Message:    "KYC session not found",
		StatusCode: 404,
	}

	ErrSessionExists = &AppError{
		Code:       "SESSION_ALREADY_EXISTS",
		Message:    "A KYC session with this id already exists",
		StatusCode: 409,
	}

	ErrSessionConflict = &AppError{
		Code:       "SESSION_CONFLICT",
		Message:    "Session was modified concurrently, retry the request",
		StatusCode: 409,
	}

	ErrSessionTerminal = &AppError{
		Code:       "SESSION_TERMINAL",
		Message:    "Session has reached a terminal state and accepts no further actions",
		StatusCode: 422,
	}

	ErrInvalidSessionState = &AppError{
		Code:       "INVALID_SESSION_STATE",
		Message:    "Action invoked before its prerequisite step completed",
		StatusCode: 422,
	}

	ErrMissingFaceReference = &AppError{
		Code:       "MISSING_FACE_REFERENCE",
		Message:    "Both the document face and the liveness reference are required for verification",
		StatusCode: 422,
	}

	ErrInvalidDocumentType = &AppError{
		Code:       "INVALID_DOCUMENT_TYPE",
		Message:    "Document type must be passport, drivers-license or national-id",
		StatusCode: 422,
	}

	ErrInvalidImage = &AppError{
		Code:       "INVALID_IMAGE",
		Message:    "Invalid image format or corrupted file",
		StatusCode: 422,
	}

	ErrUpstreamFailed = &AppError{
		Code:       "UPSTREAM_FAILED",
		Message:    "An external capability call failed",
		StatusCode: 502,
	}
)
