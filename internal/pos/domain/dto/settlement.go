package dto

import (
	"fmt"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// SettlementRequest is the caller-supplied input to one settlement attempt.
// Totals declared by the caller are never trusted; only the discount, tip and
// method-specific fields are read.
type SettlementRequest struct {
	TableID       int64   `json:"table_id"`
	CashierID     string  `json:"cashier_id"`
	PaymentMethod string  `json:"payment_method"` // cash | debit | credit | qr
	Discount      float64 `json:"discount"`
	DiscountType  string  `json:"discount_type"` // percentage | fixed
	Tip           float64 `json:"tip"`

	// method-specific fields
	Tendered      float64 `json:"tendered,omitempty"`
	TransactionID string  `json:"transaction_id,omitempty"`
	Reference     string  `json:"reference,omitempty"`
}

// Method maps the wire payment_method onto the tagged variant.
func (r SettlementRequest) Method() (models.PaymentMethod, error) {
	switch r.PaymentMethod {
	case "cash":
		return models.Cash{Tendered: r.Tendered}, nil
	case "debit", "credit":
		return models.Terminal{TransactionID: r.TransactionID, Card: r.PaymentMethod}, nil
	case "qr":
		return models.QR{Reference: r.Reference}, nil
	default:
		return nil, fmt.Errorf("unknown payment method: %q", r.PaymentMethod)
	}
}

// SettlementResult is returned to the caller and cached under the request
// fingerprint for idempotent replays.
type SettlementResult struct {
	Payment   models.PaymentRecord  `json:"payment"`
	Invoice   models.InvoiceRecord  `json:"invoice"`
	Breakdown models.PriceBreakdown `json:"breakdown"`

	// ExecutionID is the collaborator's trace id for the externalized event.
	// Informational only, never trusted for amounts.
	ExecutionID string `json:"execution_id,omitempty"`

	// Degraded is set when the external collaborator call failed and the
	// settlement still committed locally.
	Degraded bool   `json:"degraded,omitempty"`
	Warning  string `json:"warning,omitempty"`

	// Replayed marks a response served from the idempotency cache.
	Replayed bool `json:"replayed,omitempty"`
}
