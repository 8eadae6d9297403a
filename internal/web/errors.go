package web

// errors.go provides unified error response handling for the web layer.
//
// Every handler error goes through respondError, which:
//  1. Picks the HTTP status from the error type (statusFor)
//  2. Maps the error via core.MapError to a user-facing message and code
//  3. Logs the technical error with the request ID for correlation
//  4. Writes the user message as JSON

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/JonMunkholm/materials/internal/core"
	"github.com/JonMunkholm/materials/internal/logging"
)

var (
	errRateLimited = errors.New("rate limit exceeded")
	errNoFile      = errors.New("no file provided")
	errBadBody     = errors.New("invalid request body")
)

// ErrorResponse represents the JSON structure for API error responses.
// Includes both machine-readable (Code) and human-readable (Message, Action) fields.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
}

// statusFor maps a service error to an HTTP status code.
func statusFor(err error) int {
	var mbe *http.MaxBytesError
	switch {
	case core.IsValidation(err), errors.Is(err, core.ErrInvalidFile),
		errors.Is(err, errNoFile), errors.Is(err, errBadBody):
		return http.StatusBadRequest
	case core.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, core.ErrFileTooLarge), errors.As(err, &mbe):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, core.ErrTooManyImports), errors.Is(err, errRateLimited):
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs the technical error server-side and returns a
// user-friendly JSON error.
func respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	userMsg := core.MapError(err)

	attrs := []any{
		"path", r.URL.Path,
		"method", r.Method,
		"status", status,
		"error", err.Error(),
		"code", userMsg.Code,
	}
	logger := logging.FromContext(r.Context())
	if status >= http.StatusInternalServerError {
		logger.Error("request error", attrs...)
	} else {
		logger.Warn("request rejected", attrs...)
	}

	resp := errorResponse(userMsg)
	var ve *core.ValidationError
	if errors.As(err, &ve) {
		resp.Field = ve.Field
	}
	// Input errors are echoed verbatim.
	if status == http.StatusBadRequest {
		resp.Error = err.Error()
	}
	writeJSON(w, status, resp)
}

// respondErrorJSON writes a JSON error response.
func respondErrorJSON(w http.ResponseWriter, msg core.UserMessage, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(errorResponse(msg))
}

func errorResponse(msg core.UserMessage) ErrorResponse {
	return ErrorResponse{
		Error:   msg.Message,
		Message: msg.Message,
		Action:  msg.Action,
		Code:    msg.Code,
	}
}
