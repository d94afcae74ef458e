package models

type TableStatus string

const (
	TableAvailable TableStatus = "available"
	TableOccupied  TableStatus = "occupied"
	TableReserved  TableStatus = "reserved"
)

// Valid reports whether s is one of the three known statuses.
func (s TableStatus) Valid() bool {
	switch s {
	case TableAvailable, TableOccupied, TableReserved:
		return true
	}
	return false
}

// Table is a physical seating unit. The fixed set of tables is provisioned
// up front; only the status changes during normal operation.
type Table struct {
	ID       int64       `json:"id"`
	Number   int         `json:"number"`
	Capacity int         `json:"capacity"`
	Status   TableStatus `json:"status"`
}
