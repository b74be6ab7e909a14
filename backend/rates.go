package backend

import (
	"context"
	"strings"
)

// TokenRate is one entry of the backend's price feed, keyed by symbol.
type TokenRate struct {
	Symbol      string  `json:"symbol"`
	Name        string  `json:"name"`
	PriceIDR    float64 `json:"price_idr"`
	PriceUSD    float64 `json:"price_usd"`
	Change24h   float64 `json:"change_24h"`
	Icon        string  `json:"icon"`
	LastUpdated int64   `json:"last_updated"`
}

type ratesRequest struct {
	Symbols []string `json:"symbols"`
}

type ratesEnvelope struct {
	Status  string      `json:"status"`
	Message string      `json:"message"`
	Data    []TokenRate `json:"data"`
}

// Rates fetches current prices for the given symbols, returned as a map
// keyed by upper-cased symbol.
func (c *Client) Rates(ctx context.Context, symbols []string) (map[string]TokenRate, error) {
	var envelope ratesEnvelope
	if err := c.post(ctx, "/api/tokens/rates", ratesRequest{Symbols: symbols}, &envelope); err != nil {
		return nil, err
	}
	if envelope.Status != statusSuccess {
		return nil, &Error{StatusCode: 200, Message: envelope.Message}
	}
	rates := make(map[string]TokenRate, len(envelope.Data))
	for _, rate := range envelope.Data {
		rates[strings.ToUpper(rate.Symbol)] = rate
	}
	return rates, nil
}
