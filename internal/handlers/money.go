package handlers

import "net/http"

type moneyRequest struct {
	AmountCents int64  `json:"amount_cents"`
	PIN         string `json:"pin"`
}

// Deposit handles POST /api/v1/deposit.
func (h *Handler) Deposit(w http.ResponseWriter, r *http.Request) {
	var req moneyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	txn, err := h.transfers.Deposit(r.Context(), accountIDFrom(r.Context()), req.AmountCents, req.PIN)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newTransactionResponse(txn))
}

// Withdraw handles POST /api/v1/withdraw.
func (h *Handler) Withdraw(w http.ResponseWriter, r *http.Request) {
	var req moneyRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	txn, err := h.transfers.Withdraw(r.Context(), accountIDFrom(r.Context()), req.AmountCents, req.PIN)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, newTransactionResponse(txn))
}

type transferRequest struct {
	RecipientIBAN string `json:"recipient_iban"`
	AmountCents   int64  `json:"amount_cents"`
	PIN           string `json:"pin"`
}

// Transfer handles POST /api/v1/transfer.
func (h *Handler) Transfer(w http.ResponseWriter, r *http.Request) {
	var req transferRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	outTxn, inTxn, err := h.transfers.Transfer(r.Context(), accountIDFrom(r.Context()), req.RecipientIBAN, req.AmountCents, req.PIN)
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := map[string]any{
		"transaction": newTransactionResponse(outTxn),
		"external":    inTxn == nil,
	}
	h.respondJSON(w, http.StatusOK, resp)
}
