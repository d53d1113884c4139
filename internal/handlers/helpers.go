package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/sofiamancini/bancore/internal/models"
	"github.com/sofiamancini/bancore/internal/service"
)

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

func (h *Handler) respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		h.logger.Error("failed to encode response", "error", err)
	}
}

func (h *Handler) respondError(w http.ResponseWriter, err error) {
	var svcErr *service.ServiceError
	if !errors.As(err, &svcErr) {
		h.logger.Error("unexpected error", "error", err)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   service.ErrCodeInternalError,
			Message: "internal error",
		})
		return
	}

	if svcErr.Code == service.ErrCodeInternalError {
		h.logger.Error("internal error", "error", svcErr.Err, "message", svcErr.Message)
		h.respondJSON(w, http.StatusInternalServerError, errorResponse{
			Error:   service.ErrCodeInternalError,
			Message: "internal error",
		})
		return
	}

	h.respondJSON(w, statusForCode(svcErr.Code), errorResponse{
		Error:   svcErr.Code,
		Message: svcErr.Message,
	})
}

// statusForCode maps business error codes to HTTP statuses.
func statusForCode(code string) int {
	switch code {
	case service.ErrCodeInvalidInput, service.ErrCodeInvalidAmount, service.ErrCodeSelfTransfer:
		return http.StatusBadRequest
	case service.ErrCodeInvalidCredentials, service.ErrCodeInvalidPIN,
		service.ErrCodeOTPInvalid, service.ErrCodeOTPExpired,
		service.ErrCodeSessionInvalid, service.ErrCodeResetTokenInvalid:
		return http.StatusUnauthorized
	case service.ErrCodeInsufficientFunds:
		return http.StatusPaymentRequired
	case service.ErrCodePINNotSet, service.ErrCodeCardBlocked:
		return http.StatusForbidden
	case service.ErrCodeAccountNotFound, service.ErrCodeCardNotFound:
		return http.StatusNotFound
	case service.ErrCodeEmailTaken:
		return http.StatusConflict
	case service.ErrCodeAccountLocked:
		return http.StatusLocked
	case service.ErrCodePriceUnavailable:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return &service.ServiceError{
			Code:    service.ErrCodeInvalidInput,
			Message: "invalid JSON body",
		}
	}
	return nil
}

type accountResponse struct {
	ID           uuid.UUID `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	IBAN         string    `json:"iban"`
	BalanceCents int64     `json:"balance_cents"`
	PINSet       bool      `json:"pin_set"`
	CreatedAt    time.Time `json:"created_at"`
}

func newAccountResponse(account *models.Account) accountResponse {
	return accountResponse{
		ID:           account.ID,
		Name:         account.Name,
		Email:        account.Email,
		IBAN:         account.IBAN,
		BalanceCents: account.BalanceCents,
		PINSet:       account.HasPIN(),
		CreatedAt:    account.CreatedAt,
	}
}

// cardResponse carries the masked card view. The CVV and the full number are
// only exposed through the PIN-gated reveal endpoint.
type cardResponse struct {
	ID          uuid.UUID `json:"id"`
	Number      string    `json:"number"`
	ExpiryMonth int       `json:"expiry_month"`
	ExpiryYear  int       `json:"expiry_year"`
	Blocked     bool      `json:"blocked"`
	CVV         string    `json:"cvv,omitempty"`
}

func newCardResponse(card *models.Card, revealed bool) cardResponse {
	resp := cardResponse{
		ID:          card.ID,
		Number:      maskCardNumber(card.Number),
		ExpiryMonth: card.ExpiryMonth,
		ExpiryYear:  card.ExpiryYear,
		Blocked:     card.Blocked,
	}
	if revealed {
		resp.Number = card.Number
		resp.CVV = card.CVV
	}
	return resp
}

func maskCardNumber(number string) string {
	if len(number) < 4 {
		return "****"
	}
	return "**** **** **** " + number[len(number)-4:]
}

type transactionResponse struct {
	ID                uuid.UUID `json:"id"`
	Kind              string    `json:"kind"`
	Category          *string   `json:"category,omitempty"`
	Detail            *string   `json:"detail,omitempty"`
	AmountCents       int64     `json:"amount_cents"`
	BalanceAfterCents int64     `json:"balance_after_cents"`
	CreatedAt         time.Time `json:"created_at"`
}

func newTransactionResponse(txn *models.Transaction) transactionResponse {
	return transactionResponse{
		ID:                txn.ID,
		Kind:              string(txn.Kind),
		Category:          txn.Category,
		Detail:            txn.Detail,
		AmountCents:       txn.AmountCents,
		BalanceAfterCents: txn.BalanceAfterCents,
		CreatedAt:         txn.CreatedAt,
	}
}

type tradeResponse struct {
	ID          uuid.UUID `json:"id"`
	Symbol      string    `json:"symbol"`
	Side        string    `json:"side"`
	AmountCents int64     `json:"amount_cents"`
	Price       float64   `json:"price"`
	CreatedAt   time.Time `json:"created_at"`
}

func newTradeResponse(trade *models.Trade) tradeResponse {
	return tradeResponse{
		ID:          trade.ID,
		Symbol:      trade.Symbol,
		Side:        string(trade.Side),
		AmountCents: trade.AmountCents,
		Price:       trade.Price,
		CreatedAt:   trade.CreatedAt,
	}
}
