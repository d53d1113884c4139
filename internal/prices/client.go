// Package prices implements the price oracle over CoinGecko (crypto) and
// Frankfurter (fiat FX).
package prices

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/sofiamancini/bancore/internal/config"
)

// PriceError wraps any failure to obtain a quote. Callers surface it to the
// invoking user only; it never aborts ledger operations.
type PriceError struct {
	Err error
}

func (e *PriceError) Error() string {
	return fmt.Sprintf("price unavailable: %v", e.Err)
}

func (e *PriceError) Unwrap() error {
	return e.Err
}

// Client fetches spot quotes with a bounded per-call timeout.
type Client struct {
	httpClient    *http.Client
	cryptoBaseURL string
	fxBaseURL     string
}

// NewClient creates a price client from configuration.
func NewClient(cfg *config.PricesConfig) *Client {
	return &Client{
		httpClient:    &http.Client{Timeout: cfg.Timeout},
		cryptoBaseURL: strings.TrimRight(cfg.CryptoBaseURL, "/"),
		fxBaseURL:     strings.TrimRight(cfg.FXBaseURL, "/"),
	}
}

// CryptoPrice returns the current price of coinID (for example "bitcoin")
// in the vs currency (for example "usd" or "eur").
func (c *Client) CryptoPrice(ctx context.Context, coinID, vs string) (float64, error) {
	coinID = strings.ToLower(strings.TrimSpace(coinID))
	vs = strings.ToLower(strings.TrimSpace(vs))

	endpoint := c.cryptoBaseURL + "/simple/price?" + url.Values{
		"ids":           {coinID},
		"vs_currencies": {vs},
	}.Encode()

	var payload map[string]map[string]float64
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, err
	}

	price, ok := payload[coinID][vs]
	if !ok {
		return 0, &PriceError{Err: fmt.Errorf("no %s/%s price in response", coinID, vs)}
	}

	return price, nil
}

// FXRate returns the base→quote exchange rate and the reference date it was
// published for.
func (c *Client) FXRate(ctx context.Context, base, quote string) (float64, string, error) {
	base = strings.ToUpper(strings.TrimSpace(base))
	quote = strings.ToUpper(strings.TrimSpace(quote))

	endpoint := c.fxBaseURL + "/latest?" + url.Values{
		"from": {base},
		"to":   {quote},
	}.Encode()

	var payload struct {
		Rates map[string]float64 `json:"rates"`
		Date  string             `json:"date"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, "", err
	}

	rate, ok := payload.Rates[quote]
	if !ok {
		return 0, "", &PriceError{Err: fmt.Errorf("no %s->%s rate in response", base, quote)}
	}

	return rate, payload.Date, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return &PriceError{Err: err}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &PriceError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return &PriceError{Err: fmt.Errorf("unexpected status %d from %s", resp.StatusCode, endpoint)}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &PriceError{Err: fmt.Errorf("malformed response from %s: %w", endpoint, err)}
	}

	return nil
}
