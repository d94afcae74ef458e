package dto

// KitchenTicket is the normalized payload forwarded to the kitchen-ticket
// collaborator.
type KitchenTicket struct {
	TicketID  string       `json:"ticket_id"`
	TableID   int64        `json:"table_id"`
	WaiterID  string       `json:"waiter_id"`
	PartySize int          `json:"party_size,omitempty"`
	Lines     []TicketLine `json:"lines"`
}

type TicketLine struct {
	ProductID int64 `json:"product_id"`
	Quantity  int   `json:"quantity"`
}

// DispatchResult reports a successfully forwarded ticket.
type DispatchResult struct {
	TicketID  string `json:"ticket_id"`
	TableID   int64  `json:"table_id"`
	LineCount int    `json:"line_count"`
	Status    string `json:"status"`
}
