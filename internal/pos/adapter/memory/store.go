// Package memory implements the ledger, table and settlement stores on
// in-process maps. It backs the test suite and cache-less deployments; the
// pgx store in adapter/db is the durable production backing.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type Store struct {
	mu sync.RWMutex

	tables map[int64]models.Table
	lines  map[int64]models.OrderLine
	nextID int64

	payments map[string]models.PaymentRecord
	invoices map[string]models.InvoiceRecord

	// invoiceSeq counts invoices per day for INV_YYYYMMDD_NNN numbering.
	invoiceSeq map[string]int

	failCommit error
}

func NewStore(tables ...models.Table) *Store {
	s := &Store{
		tables:     make(map[int64]models.Table),
		lines:      make(map[int64]models.OrderLine),
		payments:   make(map[string]models.PaymentRecord),
		invoices:   make(map[string]models.InvoiceRecord),
		invoiceSeq: make(map[string]int),
		nextID:     1,
	}
	for _, t := range tables {
		s.tables[t.ID] = t
	}
	return s
}

// FailNextCommit makes the next CommitSettlement fail with err without
// mutating anything, for exercising rollback behavior in tests.
func (s *Store) FailNextCommit(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failCommit = err
}

// --- ILedgerRepo ---

func (s *Store) ListByTable(_ context.Context, tableID int64) ([]models.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []models.OrderLine
	for _, line := range s.lines {
		if line.TableID == tableID {
			out = append(out, line)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) Insert(_ context.Context, line models.OrderLine) (models.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line.ID = s.nextID
	s.nextID++
	s.lines[line.ID] = line
	return line, nil
}

func (s *Store) FindByProduct(_ context.Context, tableID, productID int64) (models.OrderLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, line := range s.lines {
		if line.TableID == tableID && line.ProductID == productID {
			return line, nil
		}
	}
	return models.OrderLine{}, core.ErrNotFound
}

func (s *Store) UpdateQuantity(_ context.Context, lineID, tableID int64, quantity int) (models.OrderLine, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[lineID]
	if !ok || line.TableID != tableID {
		return models.OrderLine{}, core.ErrNotFound
	}
	line.Quantity = quantity
	s.lines[lineID] = line
	return line, nil
}

func (s *Store) Delete(_ context.Context, lineID, tableID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	line, ok := s.lines[lineID]
	if !ok || line.TableID != tableID {
		return core.ErrNotFound
	}
	delete(s.lines, lineID)
	return nil
}

func (s *Store) Clear(_ context.Context, tableID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.clearLocked(tableID)
	return nil
}

func (s *Store) clearLocked(tableID int64) {
	for id, line := range s.lines {
		if line.TableID == tableID {
			delete(s.lines, id)
		}
	}
}

// --- ITableRepo ---

func (s *Store) Get(_ context.Context, id int64) (models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	table, ok := s.tables[id]
	if !ok {
		return models.Table{}, fmt.Errorf("table %d: %w", id, core.ErrNotFound)
	}
	return table, nil
}

func (s *Store) List(_ context.Context) ([]models.Table, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]models.Table, 0, len(s.tables))
	for _, t := range s.tables {
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (s *Store) SetStatus(_ context.Context, id int64, status models.TableStatus) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	table, ok := s.tables[id]
	if !ok {
		return fmt.Errorf("table %d: %w", id, core.ErrNotFound)
	}
	table.Status = status
	s.tables[id] = table
	return nil
}

// --- ISettlementStore ---

// CommitSettlement applies the commit point under one critical section:
// payment and invoice recorded, ledger cleared, table freed. The fail hook
// fires before any mutation, so a failed commit leaves the store untouched.
func (s *Store) CommitSettlement(_ context.Context, payment models.PaymentRecord, invoice models.InvoiceRecord) (models.PaymentRecord, models.InvoiceRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.failCommit != nil {
		err := s.failCommit
		s.failCommit = nil
		return models.PaymentRecord{}, models.InvoiceRecord{}, err
	}

	if _, ok := s.tables[payment.TableID]; !ok {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("table %d: %w", payment.TableID, core.ErrNotFound)
	}

	day := payment.CompletedAt.UTC().Format("20060102")
	s.invoiceSeq[day]++
	invoice.InvoiceNumber = fmt.Sprintf("INV_%s_%03d", day, s.invoiceSeq[day])
	invoice.CreatedAt = payment.CompletedAt

	s.payments[payment.ID] = payment
	s.invoices[invoice.ID] = invoice
	s.clearLocked(payment.TableID)

	table := s.tables[payment.TableID]
	table.Status = models.TableAvailable
	s.tables[payment.TableID] = table

	return payment, invoice, nil
}

func (s *Store) ListPaymentsByDay(_ context.Context, day time.Time) ([]models.PaymentRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	want := day.UTC().Format("20060102")
	var out []models.PaymentRecord
	for _, p := range s.payments {
		if p.CompletedAt.UTC().Format("20060102") == want {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CompletedAt.Before(out[j].CompletedAt) })
	return out, nil
}

// PaymentCount reports how many payments have been recorded, for tests.
func (s *Store) PaymentCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.payments)
}
