package errors_test

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

func TestNewAppError(t *testing.T) {
	tests := []struct {
		name           string
		code           errors.ErrorCode
		message        string
		err            error
		expectedStatus int
	}{
		{
			name:           "object not found",
			code:           errors.ErrCodeObjectNotFound,
			message:        "no Grid object at wnd[0]/usr/grid",
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "validation error",
			code:           errors.ErrCodeValidationError,
			message:        "objectPath is required",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "internal error",
			code:           errors.ErrCodeInternalError,
			message:        "internal error",
			err:            stderrors.New("underlying error"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := errors.NewAppError(tt.code, tt.message, tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.message, appErr.Message)
			assert.Equal(t, tt.expectedStatus, appErr.Status)
			if tt.err != nil {
				assert.Equal(t, tt.err, appErr.Unwrap())
			}
		})
	}
}

func TestAppError_Error(t *testing.T) {
	withCause := &errors.AppError{
		Code:    errors.ErrCodeExecutionFailed,
		Message: "reading grid failed",
		Err:     stderrors.New("rpc disconnected"),
	}
	assert.Equal(t, "EXECUTION_FAILED: reading grid failed (rpc disconnected)", withCause.Error())

	plain := &errors.AppError{Code: errors.ErrCodeValidationError, Message: "validation failed"}
	assert.Equal(t, "VALIDATION_ERROR: validation failed", plain.Error())
}

func TestStatusFor(t *testing.T) {
	tests := []struct {
		code           errors.ErrorCode
		expectedStatus int
	}{
		{errors.ErrCodeObjectNotFound, http.StatusNotFound},
		{errors.ErrCodeSessionNotFound, http.StatusNotFound},
		{errors.ErrCodeInvalidInput, http.StatusBadRequest},
		{errors.ErrCodeValidationError, http.StatusBadRequest},
		{errors.ErrCodeUnsupportedQuery, http.StatusUnprocessableEntity},
		{errors.ErrCodeExecutionFailed, http.StatusInternalServerError},
		{errors.ErrCodeAdapterNotFound, http.StatusInternalServerError},
		{errors.ErrCodeInternalError, http.StatusInternalServerError},
		{errors.ErrorCode("UNKNOWN"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.expectedStatus, errors.StatusFor(tt.code))
		})
	}
}

func TestCodeOf(t *testing.T) {
	appErr := errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", "ses9")
	assert.Equal(t, errors.ErrCodeSessionNotFound, errors.CodeOf(appErr))
	assert.Equal(t, errors.ErrCodeSessionNotFound, errors.CodeOf(fmt.Errorf("lookup: %w", appErr)))
	assert.Equal(t, errors.ErrCodeExecutionFailed, errors.CodeOf(stderrors.New("plain")))
}

func TestMessageOf(t *testing.T) {
	assert.Equal(t, "session ses9 not found", errors.MessageOf(errors.Newf(errors.ErrCodeSessionNotFound, "session %s not found", "ses9")))
	assert.Equal(t, "reading grid failed: rpc disconnected",
		errors.MessageOf(errors.WrapError(errors.ErrCodeExecutionFailed, "reading grid failed", stderrors.New("rpc disconnected"))))
	assert.Equal(t, "plain", errors.MessageOf(stderrors.New("plain")))
}

func TestIsNotFound(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"object not found", errors.Newf(errors.ErrCodeObjectNotFound, "missing"), true},
		{"session not found", errors.Newf(errors.ErrCodeSessionNotFound, "missing"), true},
		{"adapter not found", errors.Newf(errors.ErrCodeAdapterNotFound, "missing"), false},
		{"other error", errors.Newf(errors.ErrCodeInternalError, "boom"), false},
		{"non-app error", stderrors.New("regular error"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsNotFound(tt.err))
		})
	}
}

func TestIsValidationError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"validation error", errors.Newf(errors.ErrCodeValidationError, "validation failed"), true},
		{"invalid input", errors.Newf(errors.ErrCodeInvalidInput, "invalid input"), true},
		{"object not found", errors.Newf(errors.ErrCodeObjectNotFound, "not found"), false},
		{"nil error", nil, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, errors.IsValidationError(tt.err))
		})
	}
}
