package handlers

import (
	"net/http"

	"github.com/sofiamancini/bancore/internal/service"
)

// ListTransactions handles GET /api/v1/transactions.
func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	txns, err := h.ledger.ListTransactions(r.Context(), accountIDFrom(r.Context()))
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := make([]transactionResponse, 0, len(txns))
	for _, txn := range txns {
		resp = append(resp, newTransactionResponse(txn))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Statement handles GET /api/v1/statement?format=pdf|xlsx, streaming the
// rendered document.
func (h *Handler) Statement(w http.ResponseWriter, r *http.Request) {
	accountID := accountIDFrom(r.Context())

	account, err := h.accounts.GetAccount(r.Context(), accountID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	txns, err := h.ledger.ListTransactions(r.Context(), accountID)
	if err != nil {
		h.respondError(w, err)
		return
	}

	switch r.URL.Query().Get("format") {
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", `attachment; filename="statement.xlsx"`)
		err = h.statements.RenderXLSX(account, txns, w)
	case "pdf", "":
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="statement.pdf"`)
		err = h.statements.RenderPDF(account, txns, w)
	default:
		h.respondError(w, &service.ServiceError{
			Code:    service.ErrCodeInvalidInput,
			Message: "format must be pdf or xlsx",
		})
		return
	}

	if err != nil {
		// Headers are already written; all that is left is logging.
		h.logger.Error("failed to render statement", "account_id", accountID, "error", err)
	}
}
