package handlers

import (
	"encoding/json"
	stderrors "errors"
	"net/http"

	"github.com/scriptbridge/scriptbridge/core/infrastructure/logging"
	"github.com/scriptbridge/scriptbridge/core/infrastructure/transport/http/dto"
	"github.com/scriptbridge/scriptbridge/core/shared/errors"
)

// maxBodyBytes caps the size of a decoded request body
const maxBodyBytes = 1 << 20

// BaseHandler provides common functionality for all handlers
type BaseHandler struct {
	logger logging.Logger
}

// NewBaseHandler creates a new base handler
func NewBaseHandler(tag string) *BaseHandler {
	return &BaseHandler{
		logger: logging.New(tag),
	}
}

// DecodeJSON reads the request body into v. Malformed or oversized bodies
// are reported as INVALID_INPUT.
func (h *BaseHandler) DecodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if stderrors.As(err, &maxErr) {
			return errors.Newf(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", maxErr.Limit)
		}
		return errors.Newf(errors.ErrCodeInvalidInput, "invalid JSON body: %v", err)
	}
	return nil
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.logger.Errorf("Failed to encode JSON response: %v", err)
	}
}

// WriteError writes an error response
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	var appErr *errors.AppError
	if !stderrors.As(err, &appErr) {
		appErr = errors.NewAppError(errors.ErrCodeInternalError, err.Error(), err)
	}

	h.WriteJSON(w, appErr.Status, dto.ErrorResponse{
		Success:   false,
		Error:     appErr.Message,
		ErrorCode: string(appErr.Code),
	})
}

// WriteSuccess writes a success response
func (h *BaseHandler) WriteSuccess(w http.ResponseWriter, data any) {
	h.WriteJSON(w, http.StatusOK, data)
}
