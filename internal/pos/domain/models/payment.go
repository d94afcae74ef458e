package models

import "time"

// PaymentMethod is the tagged variant of the ways a table can be settled.
// The validator switches exhaustively over the concrete types, so adding a
// method is a compile-time-checked change.
type PaymentMethod interface {
	Kind() string
	isPaymentMethod()
}

// Cash settles with physical money handed to the cashier.
type Cash struct {
	Tendered float64
}

// Terminal settles through a card terminal. Only the terminal's transaction
// id is carried; card numbers are never accepted or stored.
type Terminal struct {
	TransactionID string
	Card          string // "debit" or "credit"
}

// QR settles through a bank QR transfer identified by a reference code.
type QR struct {
	Reference string
}

func (Cash) Kind() string { return "cash" }
func (t Terminal) Kind() string {
	if t.Card != "" {
		return t.Card
	}
	return "card"
}
func (QR) Kind() string { return "qr" }

func (Cash) isPaymentMethod()     {}
func (Terminal) isPaymentMethod() {}
func (QR) isPaymentMethod()       {}

type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// PriceBreakdown is the reconciled monetary result of pricing one
// settlement. It is always recomputed server-side and never persisted as-is.
type PriceBreakdown struct {
	Subtotal       float64 `json:"subtotal"`
	DiscountAmount float64 `json:"discount_amount"`
	TaxableBase    float64 `json:"taxable_base"`
	Tax            float64 `json:"tax"`
	Tip            float64 `json:"tip"`
	FinalTotal     float64 `json:"final_total"`
	Change         float64 `json:"change,omitempty"`
}

const (
	PaymentCompleted = "completed"

	InvoicePendingExternal = "pending"
	InvoiceDelivered       = "delivered"
)

// PaymentRecord is the persisted outcome of a successful settlement.
// Immutable once completed.
type PaymentRecord struct {
	ID            string    `json:"id"`
	TableID       int64     `json:"table_id"`
	Method        string    `json:"method"`
	Amount        float64   `json:"amount"`
	Subtotal      float64   `json:"subtotal"`
	Tax           float64   `json:"tax"`
	Tip           float64   `json:"tip"`
	Discount      float64   `json:"discount"`
	Tendered      float64   `json:"tendered,omitempty"`
	Change        float64   `json:"change,omitempty"`
	TransactionID string    `json:"transaction_id,omitempty"`
	Reference     string    `json:"reference,omitempty"`
	CashierID     string    `json:"cashier_id"`
	Status        string    `json:"status"`
	CompletedAt   time.Time `json:"completed_at"`
}

// InvoiceRecord is the tax-compliant stub created one-to-one with a payment.
// It stays pending until the invoice collaborator confirms delivery.
type InvoiceRecord struct {
	ID             string    `json:"id"`
	PaymentID      string    `json:"payment_id"`
	InvoiceNumber  string    `json:"invoice_number"`
	TaxID          string    `json:"tax_id"`
	Subtotal       float64   `json:"subtotal"`
	Tax            float64   `json:"tax"`
	Total          float64   `json:"total"`
	ExternalStatus string    `json:"external_status"`
	CreatedAt      time.Time `json:"created_at"`
}
