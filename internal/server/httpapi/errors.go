package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/osp/internal/common"
)

var (
	errBadRequest = errors.New("malformed request body")
	errForbidden  = errors.New("forbidden")
)

// ErrorResponse is the body of every non-2xx answer. Detail is what the
// client shows; Message is a short stable code.
type ErrorResponse struct {
	Detail    string `json:"detail"`
	Message   string `json:"message"`
	RequestID string `json:"request_id,omitempty"`
}

// toHTTP maps a service error to a status and a body. Anything not
// recognised becomes 500 without leaking err.
func toHTTP(err error) (int, ErrorResponse) {
	switch {
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, ErrorResponse{Detail: "Not found.", Message: "not_found"}
	case errors.Is(err, common.ErrTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Detail: "Token expired.", Message: "token_expired"}
	case errors.Is(err, common.ErrRefreshTokenExpired):
		return http.StatusUnauthorized, ErrorResponse{Detail: "Refresh token expired.", Message: "refresh_token_expired"}
	case errors.Is(err, common.ErrorUnauthorized), errors.Is(err, common.ErrInvalidToken):
		return http.StatusUnauthorized, ErrorResponse{Detail: "Authentication required.", Message: "unauthenticated"}
	case errors.Is(err, errForbidden):
		return http.StatusForbidden, ErrorResponse{Detail: "You can only manage your own account.", Message: "permission_denied"}
	case errors.Is(err, common.ErrDeletionInProgress):
		return http.StatusConflict, ErrorResponse{Detail: "Account deletion is already in progress.", Message: "deletion_in_progress"}
	case errors.Is(err, common.ErrorAlreadyExists):
		return http.StatusConflict, ErrorResponse{Detail: "Already exists.", Message: "already_exists"}
	case errors.Is(err, common.ErrUnsupportedProvider):
		return http.StatusBadRequest, ErrorResponse{Detail: "Unsupported provider.", Message: "unsupported_provider"}
	case errors.Is(err, common.ErrorValidation), errors.Is(err, errBadRequest):
		return http.StatusBadRequest, ErrorResponse{Detail: "Invalid request.", Message: "invalid_argument"}
	default:
		return http.StatusInternalServerError, ErrorResponse{Detail: "Something went wrong. Please try again.", Message: "internal"}
	}
}

// WriteError writes err as a JSON error body and copies the request id in.
func WriteError(w http.ResponseWriter, r *http.Request, err error) {
	status, resp := toHTTP(err)
	resp.RequestID = RequestIDFrom(r.Context())

	if status >= http.StatusInternalServerError {
		loggerFrom(r.Context()).Error(r.Context(), "request failed", "err", err)
	}

	writeJSON(w, status, resp)
}

func writeJSON(w http.ResponseWriter, status int, value any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(value)
}
