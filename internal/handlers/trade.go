package handlers

import (
	"net/http"

	"github.com/sofiamancini/bancore/internal/models"
)

type placeTradeRequest struct {
	Symbol      string `json:"symbol"`
	Side        string `json:"side"`
	AmountCents int64  `json:"amount_cents"`
}

// PlaceTrade handles POST /api/v1/trades.
func (h *Handler) PlaceTrade(w http.ResponseWriter, r *http.Request) {
	var req placeTradeRequest
	if err := decodeJSON(r, &req); err != nil {
		h.respondError(w, err)
		return
	}

	trade, err := h.trades.Place(r.Context(), accountIDFrom(r.Context()), req.Symbol, models.TradeSide(req.Side), req.AmountCents)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusCreated, newTradeResponse(trade))
}

// ListTrades handles GET /api/v1/trades?symbol=bitcoin.
func (h *Handler) ListTrades(w http.ResponseWriter, r *http.Request) {
	trades, err := h.trades.ListTrades(r.Context(), accountIDFrom(r.Context()), r.URL.Query().Get("symbol"))
	if err != nil {
		h.respondError(w, err)
		return
	}

	resp := make([]tradeResponse, 0, len(trades))
	for _, trade := range trades {
		resp = append(resp, newTradeResponse(trade))
	}
	h.respondJSON(w, http.StatusOK, resp)
}

// Quote handles GET /api/v1/quote?symbol=bitcoin&vs=usd.
func (h *Handler) Quote(w http.ResponseWriter, r *http.Request) {
	symbol := r.URL.Query().Get("symbol")
	vs := r.URL.Query().Get("vs")
	if vs == "" {
		vs = "usd"
	}

	price, err := h.trades.Quote(r.Context(), symbol, vs)
	if err != nil {
		h.respondError(w, err)
		return
	}

	h.respondJSON(w, http.StatusOK, map[string]any{
		"symbol": symbol,
		"vs":     vs,
		"price":  price,
	})
}
