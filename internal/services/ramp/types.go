package ramp

// CreateTransactionRequest carries the fields of a new ramp transaction.
// Chain is optional and defaults to the configured default chain.
type CreateTransactionRequest struct {
	Type          string  `json:"type"`
	PaymentMethod string  `json:"payment_method"`
	FiatCurrency  string  `json:"fiat_currency"`
	FiatAmount    float64 `json:"fiat_amount"`
	CryptoToken   string  `json:"crypto_token"`
	Chain         string  `json:"chain,omitempty"`
}
