package security

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/authly/authly/pkg/binder"
	"github.com/authly/authly/pkg/logger"
	"github.com/authly/authly/pkg/validator"
	"github.com/authly/authly/svc/credential"
)

type messageResponse struct {
	Message string `json:"message"`
}

type totpSetupResponse struct {
	Secret string `json:"secret"`
	URI    string `json:"uri"`
	QRCode string `json:"qr_code"`
}

type enabledResponse struct {
	Message     string   `json:"message"`
	BackupCodes []string `json:"backup_codes"`
}

type securityOverview struct {
	MFAEnabled  bool               `json:"mfa_enabled"`
	MFAMethod   string             `json:"mfa_method"`
	PendingTOTP *totpSetupResponse `json:"pending_totp,omitempty"`
}

func overviewResponse(o *credential.Overview) securityOverview {
	resp := securityOverview{
		MFAEnabled: o.Enabled,
		MFAMethod:  string(o.Method),
	}
	if o.PendingTOTP != nil {
		resp.PendingTOTP = &totpSetupResponse{
			Secret: o.PendingTOTP.Secret,
			URI:    o.PendingTOTP.URI,
			QRCode: o.PendingTOTP.QRCode,
		}
	}
	return resp
}

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// writeError maps service errors to HTTP responses. Validation errors keep
// their field messages; credential failures collapse to a generic message
// so responses never reveal which check failed. An unreadable stored secret
// is presented exactly like a missing one.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		fields := make(map[string]string, len(validationErrs))
		for _, ve := range validationErrs {
			if _, ok := fields[ve.Field]; !ok {
				fields[ve.Field] = ve.Message
			}
		}
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:  "Validation failed.",
			Fields: fields,
		})
		return
	}

	switch {
	case errors.Is(err, binder.ErrMissingContentType),
		errors.Is(err, binder.ErrUnsupportedMediaType),
		errors.Is(err, binder.ErrInvalidForm):
		h.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "Malformed request."})
	case errors.Is(err, ErrUnauthenticated):
		h.writeJSON(w, http.StatusUnauthorized, errorResponse{Error: "Authentication required."})
	case errors.Is(err, credential.ErrAuthFailed):
		h.writeJSON(w, http.StatusForbidden, errorResponse{Error: "Verification failed. Check your input and try again."})
	case errors.Is(err, credential.ErrMFAStillEnabled):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "Disable two-factor authentication before switching methods."})
	case errors.Is(err, credential.ErrUnsupportedMethod):
		h.writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: "Unsupported verification method."})
	case errors.Is(err, credential.ErrNoPendingSecret), errors.Is(err, credential.ErrSecretUnreadable):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "No authenticator setup in progress. Start the setup again."})
	case errors.Is(err, credential.ErrNoPendingEmailOTP):
		h.writeJSON(w, http.StatusConflict, errorResponse{Error: "No email verification in progress. Start the setup again."})
	case errors.Is(err, credential.ErrUserNotFound):
		h.writeJSON(w, http.StatusNotFound, errorResponse{Error: "Account not found."})
	default:
		h.logger.ErrorContext(r.Context(), "security module request failed",
			logger.Error(err),
			logger.Component("security"),
		)
		h.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "Something went wrong. Please try again."})
	}
}
