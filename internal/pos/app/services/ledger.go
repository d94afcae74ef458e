package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// LedgerService owns the per-table order lines. Servers and cashiers operate
// on one table at a time, so every operation is scoped by the owning table id
// and cross-table access reports not found instead of leaking.
type LedgerService struct {
	ledger core.ILedgerRepo
	tables core.ITableRepo
	locks  *TableLocks
	log    *slog.Logger
}

func NewLedgerService(ledger core.ILedgerRepo, tables core.ITableRepo, locks *TableLocks, log *slog.Logger) *LedgerService {
	return &LedgerService{
		ledger: ledger,
		tables: tables,
		locks:  locks,
		log:    log,
	}
}

func (s *LedgerService) List(ctx context.Context, tableID int64) ([]models.OrderLine, error) {
	if _, err := s.tables.Get(ctx, tableID); err != nil {
		return nil, err
	}
	return s.ledger.ListByTable(ctx, tableID)
}

// Add inserts a new line for the table. Adding the first line to an
// available table flips it to occupied server-side, so a client that forgot
// to mark occupancy cannot leave the table billable-but-free.
func (s *LedgerService) Add(ctx context.Context, tableID, productID int64, quantity int) (models.OrderLine, error) {
	if quantity < 1 {
		verrs := &core.ValidationErrors{}
		verrs.Add("quantity must be at least 1, got %d", quantity)
		return models.OrderLine{}, verrs
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	return s.addLocked(ctx, tableID, productID, quantity)
}

// addLocked performs the insert plus the occupancy safeguard. The caller
// must hold the table's lock.
func (s *LedgerService) addLocked(ctx context.Context, tableID, productID int64, quantity int) (models.OrderLine, error) {
	table, err := s.tables.Get(ctx, tableID)
	if err != nil {
		return models.OrderLine{}, err
	}

	existing, err := s.ledger.ListByTable(ctx, tableID)
	if err != nil {
		return models.OrderLine{}, err
	}

	line, err := s.ledger.Insert(ctx, models.OrderLine{
		TableID:   tableID,
		ProductID: productID,
		Quantity:  quantity,
	})
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("cannot save order line: %w", err)
	}

	if len(existing) == 0 && table.Status == models.TableAvailable {
		if err := s.tables.SetStatus(ctx, tableID, models.TableOccupied); err != nil {
			s.log.Error("occupancy_transition_failed", "table_id", tableID, "error", err)
		} else {
			s.log.Info("table_occupied", "table_id", tableID)
		}
	}

	return line, nil
}

// AddOrIncrement merges a re-added product into the existing line's quantity
// instead of inserting a duplicate line. Merge-on-add is caller policy, not
// ledger policy, which is why both entry points exist.
func (s *LedgerService) AddOrIncrement(ctx context.Context, tableID, productID int64, quantity int) (models.OrderLine, error) {
	if quantity < 1 {
		verrs := &core.ValidationErrors{}
		verrs.Add("quantity must be at least 1, got %d", quantity)
		return models.OrderLine{}, verrs
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	if _, err := s.tables.Get(ctx, tableID); err != nil {
		return models.OrderLine{}, err
	}

	existing, err := s.ledger.FindByProduct(ctx, tableID, productID)
	if err == nil {
		return s.ledger.UpdateQuantity(ctx, existing.ID, tableID, existing.Quantity+quantity)
	}
	if !errors.Is(err, core.ErrNotFound) {
		return models.OrderLine{}, err
	}

	// no existing line for this product: plain add with the occupancy safeguard
	return s.addLocked(ctx, tableID, productID, quantity)
}

// SetQuantity updates a line only when it belongs to the given table.
func (s *LedgerService) SetQuantity(ctx context.Context, lineID, tableID int64, quantity int) (models.OrderLine, error) {
	if quantity < 1 {
		verrs := &core.ValidationErrors{}
		verrs.Add("quantity must be at least 1, got %d", quantity)
		return models.OrderLine{}, verrs
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	return s.ledger.UpdateQuantity(ctx, lineID, tableID, quantity)
}

// Remove deletes a line only when it belongs to the given table.
func (s *LedgerService) Remove(ctx context.Context, lineID, tableID int64) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	return s.ledger.Delete(ctx, lineID, tableID)
}

// Clear drops every line for the table. Normal settlement clears the ledger
// inside the commit transaction; this is the manual override path.
func (s *LedgerService) Clear(ctx context.Context, tableID int64) error {
	unlock := s.locks.Lock(tableID)
	defer unlock()

	if _, err := s.tables.Get(ctx, tableID); err != nil {
		return err
	}
	return s.ledger.Clear(ctx, tableID)
}
