package handlers

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"

	"github.com/sofiamancini/bancore/internal/service"
)

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Register handles POST /api/v1/register.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	account, card, err := h.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, map[string]any{
		"account": newAccountResponse(account),
		"card":    newCardResponse(card, false),
	})
}

// GetAccount handles GET /api/v1/account.
func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetAccount(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newAccountResponse(account))
}

type setPINRequest struct {
	PIN string `json:"pin"`
}

// SetPIN handles PUT /api/v1/account/pin.
func (h *Handler) SetPIN(w http.ResponseWriter, r *http.Request) {
	var req setPINRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	if err := h.accounts.SetPIN(r.Context(), accountIDFrom(r.Context()), req.PIN); err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "pin_set"})
}

type changePasswordRequest struct {
	OldPassword string `json:"old_password"`
	NewPassword string `json:"new_password"`
	Confirm     string `json:"confirm"`
}

// ChangePassword handles PUT /api/v1/account/password.
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req changePasswordRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	err := h.accounts.ChangePassword(r.Context(), accountIDFrom(r.Context()), req.OldPassword, req.NewPassword, req.Confirm)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]string{"status": "password_changed"})
}

// GetCard handles GET /api/v1/card. The number is masked and the CVV omitted.
func (h *Handler) GetCard(w http.ResponseWriter, r *http.Request) {
	card, err := h.accounts.GetCard(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newCardResponse(card, false))
}

type revealCardRequest struct {
	PIN string `json:"pin"`
}

// RevealCard handles POST /api/v1/card/reveal, returning the full card
// details after a PIN check.
func (h *Handler) RevealCard(w http.ResponseWriter, r *http.Request) {
	var req revealCardRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	card, err := h.accounts.RevealCard(r.Context(), accountIDFrom(r.Context()), req.PIN)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newCardResponse(card, true))
}

// BlockCard handles POST /api/v1/cards/{cardID}/block.
func (h *Handler) BlockCard(w http.ResponseWriter, r *http.Request) {
	h.setCardBlocked(w, r, true)
}

// UnblockCard handles POST /api/v1/cards/{cardID}/unblock.
func (h *Handler) UnblockCard(w http.ResponseWriter, r *http.Request) {
	h.setCardBlocked(w, r, false)
}

func (h *Handler) setCardBlocked(w http.ResponseWriter, r *http.Request, blocked bool) {
	cardID, err := uuid.Parse(mux.Vars(r)["cardID"])
	if err != nil {
		h.respondError(w, &service.ServiceError{
			Code:    service.ErrCodeCardNotFound,
			Message: "card not found",
		})
		return
	}

	accountID := accountIDFrom(r.Context())
	if blocked {
		err = h.accounts.BlockCard(r.Context(), accountID, cardID)
	} else {
		err = h.accounts.UnblockCard(r.Context(), accountID, cardID)
	}
	if err != nil {
		h.respondError(w, err)
		return
	}

	status := "unblocked"
	if blocked {
		status = "blocked"
	}
	h.respondJSON(w, http.StatusOK, map[string]string{"status": status})
}
