package authhandler

import (
	"errors"
	"net/http"
	"strings"

	"empdash/internal/domain/auth"
	"empdash/internal/platform/metrics"
	"empdash/internal/platform/requestctx"
	"empdash/internal/platform/seclog"
	"empdash/internal/transport/http/api"
	"empdash/internal/transport/http/middleware"
	"empdash/internal/transport/http/shared"
)

type Handler struct {
	Auth    *auth.Service
	Sec     *seclog.Logger
	Metrics *metrics.Collector
}

func NewHandler(service *auth.Service, sec *seclog.Logger, collector *metrics.Collector) *Handler {
	return &Handler{Auth: service, Sec: sec, Metrics: collector}
}

type adminLoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
	MFACode  string `json:"mfaCode"`
}

type employeeLoginRequest struct {
	EmployeeID string `json:"employeeId" validate:"required"`
	Password   string `json:"password" validate:"required"`
}

type changePasswordRequest struct {
	CurrentPassword string `json:"currentPassword" validate:"required"`
	NewPassword     string `json:"newPassword" validate:"required"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

type mfaCodeRequest struct {
	Code string `json:"code" validate:"required"`
}

func (h *Handler) HandleAdminLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	ip := requestctx.GetClientIP(r.Context())

	var payload adminLoginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	result, err := h.Auth.LoginAdmin(r.Context(), strings.TrimSpace(payload.Email), payload.Password, payload.MFACode)
	if err != nil {
		h.Sec.AuthAttempt("admin_login", payload.Email, "denied", authFailureReason(err), ip, requestID)
		h.Metrics.LoginFailure()
		failLogin(w, err, requestID)
		return
	}

	h.Sec.AuthAttempt("admin_login", payload.Email, "success", "", ip, requestID)
	api.Success(w, map[string]any{
		"token":        result.Token,
		"isFirstLogin": result.IsFirstLogin,
		"message":      result.Message,
	}, requestID)
}

func (h *Handler) HandleEmployeeLogin(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	ip := requestctx.GetClientIP(r.Context())

	var payload employeeLoginRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	token, err := h.Auth.LoginEmployee(r.Context(), strings.TrimSpace(payload.EmployeeID), payload.Password)
	if err != nil {
		h.Sec.AuthAttempt("employee_login", payload.EmployeeID, "denied", authFailureReason(err), ip, requestID)
		h.Metrics.LoginFailure()
		failLogin(w, err, requestID)
		return
	}

	h.Sec.AuthAttempt("employee_login", payload.EmployeeID, "success", "", ip, requestID)
	api.Success(w, map[string]any{
		"token":   token,
		"message": "Login successful!",
	}, requestID)
}

func (h *Handler) HandleChangePassword(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload changePasswordRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if payload.NewPassword != payload.ConfirmPassword {
		v.Add("confirmPassword", "must match newPassword")
	}
	if v.Reject(w, requestID) {
		return
	}

	err := h.Auth.ChangeAdminPassword(r.Context(), user.UserID, payload.CurrentPassword, payload.NewPassword)
	switch {
	case err == nil:
		api.SuccessMessage(w, "Password changed successfully.", requestID)
	case errors.Is(err, auth.ErrWeakPassword):
		shared.FailValidation(w, requestID, []shared.ValidationIssue{{
			Field:  "newPassword",
			Reason: "must be at least 8 characters with upper and lower case letters, a digit and a special character",
		}})
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "current password is incorrect", requestID)
	case errors.Is(err, auth.ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.TypeNotFound, "account not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "failed to change password", requestID)
	}
}

func (h *Handler) HandleMFASetup(w http.ResponseWriter, r *http.Request) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	secret, otpauthURL, err := h.Auth.SetupMFA(r.Context(), user.UserID)
	if err != nil {
		failMFA(w, err, requestID)
		return
	}
	api.Success(w, map[string]string{
		"secret":     secret,
		"otpauthUrl": otpauthURL,
	}, requestID)
}

func (h *Handler) HandleMFAEnable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, true)
}

func (h *Handler) HandleMFADisable(w http.ResponseWriter, r *http.Request) {
	h.toggleMFA(w, r, false)
}

func (h *Handler) toggleMFA(w http.ResponseWriter, r *http.Request, enable bool) {
	requestID := requestctx.GetRequestID(r.Context())
	user, _ := middleware.GetUser(r.Context())

	var payload mfaCodeRequest
	if !shared.DecodeJSON(w, r, &payload) {
		return
	}
	v := shared.NewValidator()
	v.Struct(payload)
	if v.Reject(w, requestID) {
		return
	}

	var err error
	if enable {
		err = h.Auth.EnableMFA(r.Context(), user.UserID, payload.Code)
	} else {
		err = h.Auth.DisableMFA(r.Context(), user.UserID, payload.Code)
	}
	if err != nil {
		failMFA(w, err, requestID)
		return
	}
	if enable {
		api.SuccessMessage(w, "MFA enabled.", requestID)
		return
	}
	api.SuccessMessage(w, "MFA disabled.", requestID)
}

func failLogin(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, auth.ErrMFARequired):
		api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "mfa code required", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "invalid mfa code", requestID)
	case errors.Is(err, auth.ErrInvalidCredentials):
		api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "invalid credentials", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "login failed", requestID)
	}
}

func failMFA(w http.ResponseWriter, err error, requestID string) {
	switch {
	case errors.Is(err, auth.ErrMFAUnavailable):
		api.Fail(w, http.StatusConflict, api.TypeValidation, "mfa is not available on this deployment", requestID)
	case errors.Is(err, auth.ErrMFAInvalid):
		api.Fail(w, http.StatusUnauthorized, api.TypeAuthentication, "invalid mfa code", requestID)
	case errors.Is(err, auth.ErrNotFound):
		api.Fail(w, http.StatusNotFound, api.TypeNotFound, "account not found", requestID)
	default:
		api.Fail(w, http.StatusInternalServerError, api.TypeInternal, "mfa operation failed", requestID)
	}
}

func authFailureReason(err error) string {
	switch {
	case errors.Is(err, auth.ErrMFARequired):
		return "mfa_required"
	case errors.Is(err, auth.ErrMFAInvalid):
		return "mfa_invalid"
	case errors.Is(err, auth.ErrInvalidCredentials):
		return "invalid_credentials"
	default:
		return "error"
	}
}
