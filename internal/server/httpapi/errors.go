package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophblog/internal/common"
	"github.com/dmitrijs2005/gophblog/internal/server/services"
	"github.com/go-chi/chi/v5/middleware"
)

// Error codes carried in the "error" field of every error body.
const (
	CodeUsernameTaken       = "UsernameTaken"
	CodeEmailTaken          = "EmailTaken"
	CodeValidationFailed    = "ValidationFailed"
	CodeInvalidCredentials  = "InvalidCredentials"
	CodeUnauthenticated     = "Unauthenticated"
	CodeForbidden           = "Forbidden"
	CodeNotFound            = "NotFound"
	CodeAttachmentsDisabled = "AttachmentsDisabled"
	CodeInternal            = "InternalError"
)

// classify maps a service error onto its HTTP status and error body.
// Unrecognised errors become a 500 whose message hides the cause.
func classify(err error) (int, errorResponse) {
	switch {
	case errors.Is(err, common.ErrUsernameTaken):
		return http.StatusBadRequest, errorResponse{Error: CodeUsernameTaken, Message: "Username is already taken"}
	case errors.Is(err, common.ErrEmailTaken):
		return http.StatusBadRequest, errorResponse{Error: CodeEmailTaken, Message: "Email is already in use"}
	case errors.Is(err, common.ErrorValidation):
		return http.StatusBadRequest, errorResponse{Error: CodeValidationFailed, Message: err.Error()}
	case errors.Is(err, common.ErrInvalidCredentials):
		return http.StatusUnauthorized, errorResponse{Error: CodeInvalidCredentials, Message: "Invalid username or password"}
	case errors.Is(err, common.ErrUnauthenticated):
		return http.StatusUnauthorized, errorResponse{
			Error:   CodeUnauthenticated,
			Message: "Authentication required",
			Reason:  common.UnauthenticatedReason(err),
		}
	case errors.Is(err, common.ErrForbidden):
		return http.StatusForbidden, errorResponse{Error: CodeForbidden, Message: "You may not modify this resource"}
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, errorResponse{Error: CodeNotFound, Message: "Resource not found"}
	case errors.Is(err, services.ErrAttachmentsDisabled):
		return http.StatusNotImplemented, errorResponse{Error: CodeAttachmentsDisabled, Message: err.Error()}
	default:
		return http.StatusInternalServerError, errorResponse{Error: CodeInternal, Message: "Internal server error"}
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, body := classify(err)

	switch {
	case status >= http.StatusInternalServerError:
		h.logger.Error(r.Context(), "request failed",
			"error", err, "path", r.URL.Path, "request_id", middleware.GetReqID(r.Context()))
	case status == http.StatusUnauthorized:
		h.logger.Debug(r.Context(), "request rejected",
			"code", body.Error, "reason", body.Reason, "path", r.URL.Path)
	}

	if status == http.StatusUnauthorized && body.Error == CodeUnauthenticated {
		w.Header().Set("WWW-Authenticate", common.BearerScheme)
	}
	writeJSON(w, status, body)
}
