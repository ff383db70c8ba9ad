package models

// StripeCardDetails represents credit card information
type StripeCardDetails struct {
	Number   string `json:"number" binding:"required"`
	ExpMonth string `json:"exp_month" binding:"required"`
	ExpYear  string `json:"exp_year" binding:"required"`
	CVC      string `json:"cvc" binding:"required"`
	Name     string `json:"name"`
}

// StripeChargeResult is what the card service hands back to the order
// payment flow.
type StripeChargeResult struct {
	TransactionID string  `json:"transaction_id"`
	Amount        float64 `json:"amount"`
	Currency      string  `json:"currency"`
	ReceiptURL    string  `json:"receipt_url,omitempty"`
}
