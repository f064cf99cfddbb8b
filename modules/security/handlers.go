package security

import (
	"net/http"

	"github.com/authly/authly/pkg/binder"
	"github.com/authly/authly/svc/credential"
)

type changePasswordRequest struct {
	CurrentPassword string `form:"current_password"`
	NewPassword     string `form:"new_password"`
	ConfirmPassword string `form:"confirm_password"`
}

type setMethodRequest struct {
	Method string `form:"method"`
}

type codeRequest struct {
	Code string `form:"code"`
}

type disableRequest struct {
	Password string `form:"password"`
}

func (h *Handler) overview(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	overview, err := h.svc.Overview(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, overviewResponse(overview))
}

func (h *Handler) changePassword(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	var req changePasswordRequest
	if err := binder.Form()(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.ChangePassword(r.Context(), userID, req.CurrentPassword, req.NewPassword, req.ConfirmPassword); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Password updated."})
}

func (h *Handler) setMethod(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	var req setMethodRequest
	if err := binder.Form()(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.SetMethod(r.Context(), userID, credential.Method(req.Method)); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Verification method updated."})
}

func (h *Handler) beginTOTP(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	setup, err := h.svc.BeginTOTP(r.Context(), userID)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, totpSetupResponse{
		Secret: setup.Secret,
		URI:    setup.URI,
		QRCode: setup.QRCode,
	})
}

func (h *Handler) confirmTOTP(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	var req codeRequest
	if err := binder.Form()(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	codes, err := h.svc.ConfirmTOTP(r.Context(), userID, req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, enabledResponse{
		Message:     "Two-factor authentication enabled.",
		BackupCodes: codes,
	})
}

func (h *Handler) beginEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	if err := h.svc.BeginEmail(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Verification code sent."})
}

func (h *Handler) confirmEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	var req codeRequest
	if err := binder.Form()(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	codes, err := h.svc.ConfirmEmail(r.Context(), userID, req.Code)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, enabledResponse{
		Message:     "Two-factor authentication enabled.",
		BackupCodes: codes,
	})
}

func (h *Handler) resendEmail(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	if err := h.svc.ResendEmail(r.Context(), userID); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Verification code sent."})
}

func (h *Handler) disable(w http.ResponseWriter, r *http.Request) {
	userID, err := h.resolve(r)
	if err != nil {
		h.writeError(w, r, ErrUnauthenticated)
		return
	}

	var req disableRequest
	if err := binder.Form()(r, &req); err != nil {
		h.writeError(w, r, err)
		return
	}

	if err := h.svc.Disable(r.Context(), userID, req.Password); err != nil {
		h.writeError(w, r, err)
		return
	}

	h.writeJSON(w, http.StatusOK, messageResponse{Message: "Two-factor authentication disabled."})
}
