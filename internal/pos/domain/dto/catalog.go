package dto

// CatalogSnapshot is the read-only menu content supplied by the catalog
// provider. The core never mutates it; it only prices order lines against it.
type CatalogSnapshot struct {
	Categories []Category `json:"categories"`
	Products   []Product  `json:"products"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
	CategoryID int64   `json:"category_id"`
}

// SettlementEvent is the payload externalized to the payment/invoice
// collaborator after pricing and validation succeed.
type SettlementEvent struct {
	TableID       int64   `json:"table_id"`
	PaymentID     string  `json:"payment_id"`
	InvoiceNumber string  `json:"invoice_number"`
	Method        string  `json:"method"`
	Subtotal      float64 `json:"subtotal"`
	Discount      float64 `json:"discount"`
	Tax           float64 `json:"tax"`
	Tip           float64 `json:"tip"`
	Total         float64 `json:"total"`
	Currency      string  `json:"currency"`
	CashierID     string  `json:"cashier_id"`
}
