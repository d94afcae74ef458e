package core

import (
	"context"
	"time"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// ILedgerRepo stores the live order lines, keyed by table. Every mutating
// operation names the owning table; a line/table mismatch returns ErrNotFound
// and must not touch the line.
type ILedgerRepo interface {
	ListByTable(ctx context.Context, tableID int64) ([]models.OrderLine, error)
	Insert(ctx context.Context, line models.OrderLine) (models.OrderLine, error)
	FindByProduct(ctx context.Context, tableID, productID int64) (models.OrderLine, error)
	UpdateQuantity(ctx context.Context, lineID, tableID int64, quantity int) (models.OrderLine, error)
	Delete(ctx context.Context, lineID, tableID int64) error
	Clear(ctx context.Context, tableID int64) error
}

// ITableRepo stores table metadata and status. SetStatus on an unknown id
// returns ErrNotFound; tables are never created implicitly.
type ITableRepo interface {
	Get(ctx context.Context, id int64) (models.Table, error)
	List(ctx context.Context) ([]models.Table, error)
	SetStatus(ctx context.Context, id int64, status models.TableStatus) error
}

// ISettlementStore persists the commit point of one settlement atomically:
// payment + invoice insert, ledger clear and table release all succeed or the
// whole commit is rolled back.
type ISettlementStore interface {
	CommitSettlement(ctx context.Context, payment models.PaymentRecord, invoice models.InvoiceRecord) (models.PaymentRecord, models.InvoiceRecord, error)
	ListPaymentsByDay(ctx context.Context, day time.Time) ([]models.PaymentRecord, error)
}

// IResultCache backs the idempotency fingerprint window. Get returns "" for
// a missing key.
type IResultCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
}

// ITicketPublisher forwards kitchen tickets to the kitchen collaborator.
type ITicketPublisher interface {
	PublishTicket(ctx context.Context, ticket dto.KitchenTicket) error
	IsAlive() error
	Close() error
}

// ISettlementNotifier externalizes a completed settlement to the
// payment/invoice workflow collaborator. The returned execution id is used
// only for traceability.
type ISettlementNotifier interface {
	NotifySettlement(ctx context.Context, event dto.SettlementEvent) (string, error)
}

// ICatalogProvider supplies menu content. The core tolerates it being down
// by falling back to a cached snapshot.
type ICatalogProvider interface {
	Fetch(ctx context.Context) (dto.CatalogSnapshot, error)
}

// IPriceLookup resolves the authoritative server-side unit price of a
// product. Client-declared prices are never used.
type IPriceLookup interface {
	PriceFor(ctx context.Context, productID int64) (float64, error)
}

// ICardGateway re-verifies a terminal charge by its transaction id before
// the amount is trusted. The core never sees card numbers.
type ICardGateway interface {
	VerifyCharge(ctx context.Context, transactionID string, amount float64, currency string) error
}
