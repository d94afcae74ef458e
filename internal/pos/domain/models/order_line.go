package models

// OrderLine is one product-and-quantity entry in a table's current unbilled
// order. A line belongs to exactly one table; every mutation must name the
// owning table and a mismatch is treated as not found.
type OrderLine struct {
	ID        int64 `json:"id"`
	TableID   int64 `json:"table_id"`
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}
