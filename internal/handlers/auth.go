package handlers

import "net/http"

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login handles POST /api/v1/login. A correct password opens a pending
// session; the caller must verify the emailed OTP before the token grants
// access to anything.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	result, err := h.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{
		"token":  result.Token,
		"status": "otp_required",
	})
}

type verifyOTPRequest struct {
	Token string `json:"token"`
	Code  string `json:"code"`
}

// VerifyOTP handles POST /api/v1/login/verify-otp.
func (h *Handler) VerifyOTP(w http.ResponseWriter, r *http.Request) {
	var req verifyOTPRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	accountID, err := h.auth.VerifyOTP(req.Token, req.Code)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"token":      req.Token,
		"status":     "authenticated",
		"account_id": accountID,
	})
}

// Logout handles POST /api/v1/logout.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	h.auth.Logout(bearerToken(r))
	h.respondJSON(w, http.StatusOK, map[string]string{"status": "logged_out"})
}

type forgotPasswordRequest struct {
	Email string `json:"email"`
}

// ForgotPassword handles POST /api/v1/password/forgot.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.accounts.IssueResetToken(r.Context(), req.Email); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "reset_token_sent"})
}

type resetPasswordRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"confirm"`
}

// ResetPassword handles POST /api/v1/password/reset.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetPasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.accounts.ResetPassword(r.Context(), req.Token, req.NewPassword, req.Confirm); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "password_reset"})
}
