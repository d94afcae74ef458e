package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/TechWithMary/restaurant-pos/internal/pos/adapter/cache"
	"github.com/TechWithMary/restaurant-pos/internal/pos/adapter/memory"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type stubPrices map[int64]float64

func (s stubPrices) PriceFor(_ context.Context, productID int64) (float64, error) {
	price, ok := s[productID]
	if !ok {
		return 0, fmt.Errorf("product %d: %w", productID, core.ErrNotFound)
	}
	return price, nil
}

type stubNotifier struct {
	calls int
	err   error
}

func (s *stubNotifier) NotifySettlement(context.Context, dto.SettlementEvent) (string, error) {
	s.calls++
	if s.err != nil {
		return "", s.err
	}
	return "exec-42", nil
}

type settlementFixture struct {
	coordinator *SettlementCoordinator
	store       *memory.Store
	notifier    *stubNotifier
}

func newSettlementFixture(t *testing.T, prices stubPrices) *settlementFixture {
	t.Helper()

	store := memory.NewStore(
		models.Table{ID: 1, Number: 1, Capacity: 4, Status: models.TableOccupied},
		models.Table{ID: 2, Number: 2, Capacity: 2, Status: models.TableOccupied},
	)
	notifier := &stubNotifier{}
	coordinator := NewSettlementCoordinator(
		store, store, store, cache.NewMemory(), prices, notifier, nil, NewTableLocks(),
		SettlementConfig{TaxRate: 0.08, Currency: "USD", TaxID: "900123456-1"},
		discardLogger(),
	)
	return &settlementFixture{coordinator: coordinator, store: store, notifier: notifier}
}

func seedLines(t *testing.T, store *memory.Store, tableID int64, lines ...models.OrderLine) {
	t.Helper()
	for _, line := range lines {
		line.TableID = tableID
		if _, err := store.Insert(context.Background(), line); err != nil {
			t.Fatalf("seed line: %v", err)
		}
	}
}

func terminalRequest(tableID int64) dto.SettlementRequest {
	return dto.SettlementRequest{
		TableID:       tableID,
		CashierID:     "emp-7",
		PaymentMethod: "debit",
		Discount:      10,
		DiscountType:  "fixed",
		Tip:           5.00,
		TransactionID: "TXN-0001234",
	}
}

func TestSettleTerminalSuccess(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 100.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	ctx := context.Background()

	result, err := f.coordinator.Settle(ctx, terminalRequest(1))
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	if !almostEqual(result.Payment.Amount, 102.20) {
		t.Errorf("payment amount = %.2f, want 102.20", result.Payment.Amount)
	}
	if !almostEqual(result.Breakdown.TaxableBase, 90.00) || !almostEqual(result.Breakdown.Tax, 7.20) {
		t.Errorf("breakdown = %+v, want base 90.00 tax 7.20", result.Breakdown)
	}
	if result.Payment.Status != models.PaymentCompleted {
		t.Errorf("payment status = %s, want completed", result.Payment.Status)
	}
	if result.Invoice.PaymentID != result.Payment.ID {
		t.Errorf("invoice not linked to payment: %+v", result.Invoice)
	}
	if result.Invoice.ExternalStatus != models.InvoicePendingExternal {
		t.Errorf("invoice external status = %s, want pending", result.Invoice.ExternalStatus)
	}
	if result.ExecutionID != "exec-42" {
		t.Errorf("execution id = %q, want exec-42", result.ExecutionID)
	}

	// settlement invariant: ledger empty, table available
	lines, _ := f.store.ListByTable(ctx, 1)
	if len(lines) != 0 {
		t.Errorf("ledger not cleared: %d lines remain", len(lines))
	}
	table, _ := f.store.Get(ctx, 1)
	if table.Status != models.TableAvailable {
		t.Errorf("table status = %s, want available", table.Status)
	}
	if f.store.PaymentCount() != 1 {
		t.Errorf("payment count = %d, want 1", f.store.PaymentCount())
	}
}

func TestSettleIdempotentReplay(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 100.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	ctx := context.Background()
	req := terminalRequest(1)

	first, err := f.coordinator.Settle(ctx, req)
	if err != nil {
		t.Fatalf("first Settle() error = %v", err)
	}
	second, err := f.coordinator.Settle(ctx, req)
	if err != nil {
		t.Fatalf("second Settle() error = %v", err)
	}

	if !second.Replayed {
		t.Error("second settle must be marked as a replay")
	}
	if second.Payment.ID != first.Payment.ID {
		t.Errorf("replay returned a different payment: %s != %s", second.Payment.ID, first.Payment.ID)
	}
	if f.store.PaymentCount() != 1 {
		t.Errorf("payment count = %d, want exactly 1", f.store.PaymentCount())
	}
	if f.notifier.calls != 1 {
		t.Errorf("notifier called %d times, want 1 (replay must have no side effects)", f.notifier.calls)
	}
}

func TestSettleCashShortfall(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 25.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 2})
	ctx := context.Background()

	// subtotal 50.00, 8% tax -> total 54.00, tendered only 50.00
	req := dto.SettlementRequest{
		TableID:       1,
		CashierID:     "emp-7",
		PaymentMethod: "cash",
		DiscountType:  "percentage",
		Tendered:      50.00,
	}

	_, err := f.coordinator.Settle(ctx, req)
	var verrs *core.ValidationErrors
	if !errors.As(err, &verrs) {
		t.Fatalf("Settle() error = %v, want validation errors", err)
	}
	if len(verrs.Reasons) != 1 {
		t.Fatalf("got reasons %v, want exactly the shortfall", verrs.Reasons)
	}

	// no side effects on validation failure
	if f.store.PaymentCount() != 0 {
		t.Errorf("payment created despite shortfall")
	}
	lines, _ := f.store.ListByTable(ctx, 1)
	if len(lines) != 1 {
		t.Errorf("ledger touched on validation failure")
	}
	table, _ := f.store.Get(ctx, 1)
	if table.Status != models.TableOccupied {
		t.Errorf("table status changed on validation failure: %s", table.Status)
	}
	if f.notifier.calls != 0 {
		t.Errorf("notifier called despite validation failure")
	}
}

func TestSettleCashChange(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 25.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 2})

	req := dto.SettlementRequest{
		TableID:       1,
		CashierID:     "emp-7",
		PaymentMethod: "cash",
		DiscountType:  "percentage",
		Tendered:      60.00,
	}

	result, err := f.coordinator.Settle(context.Background(), req)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}
	if !almostEqual(result.Breakdown.Change, 6.00) {
		t.Errorf("change = %.2f, want 6.00", result.Breakdown.Change)
	}
	if !almostEqual(result.Payment.Tendered, 60.00) || !almostEqual(result.Payment.Change, 6.00) {
		t.Errorf("payment cash fields = %+v", result.Payment)
	}
}

func TestSettleEmptyTable(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{})

	_, err := f.coordinator.Settle(context.Background(), terminalRequest(1))
	if !errors.Is(err, core.ErrNoItems) {
		t.Errorf("Settle(empty table) error = %v, want ErrNoItems", err)
	}
}

func TestSettleUnknownTable(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{})

	_, err := f.coordinator.Settle(context.Background(), terminalRequest(99))
	if !errors.Is(err, core.ErrNotFound) {
		t.Errorf("Settle(unknown table) error = %v, want ErrNotFound", err)
	}
}

func TestSettleDegradedWhenCollaboratorDown(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 100.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	f.notifier.err = errors.New("workflow engine unreachable")

	result, err := f.coordinator.Settle(context.Background(), terminalRequest(1))
	if err != nil {
		t.Fatalf("Settle() error = %v, collaborator outage must not block commit", err)
	}
	if !result.Degraded || result.Warning == "" {
		t.Errorf("expected degraded success, got %+v", result)
	}
	if f.store.PaymentCount() != 1 {
		t.Errorf("payment count = %d, want 1", f.store.PaymentCount())
	}
}

func TestSettleCommitFailureRollsBack(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 100.00})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	f.store.FailNextCommit(errors.New("disk full"))
	ctx := context.Background()

	_, err := f.coordinator.Settle(ctx, terminalRequest(1))
	var cerr *core.CommitError
	if !errors.As(err, &cerr) {
		t.Fatalf("Settle() error = %v, want *core.CommitError", err)
	}

	// not yet settled: ledger intact, table still occupied, no payment
	lines, _ := f.store.ListByTable(ctx, 1)
	if len(lines) != 1 {
		t.Errorf("ledger lost lines on failed commit")
	}
	table, _ := f.store.Get(ctx, 1)
	if table.Status != models.TableOccupied {
		t.Errorf("table freed despite failed commit: %s", table.Status)
	}
	if f.store.PaymentCount() != 0 {
		t.Errorf("payment persisted despite failed commit")
	}

	// a retry after the fault clears must succeed
	result, err := f.coordinator.Settle(ctx, terminalRequest(1))
	if err != nil {
		t.Fatalf("retry Settle() error = %v", err)
	}
	if result.Replayed {
		t.Error("failed attempt must not be cached as a prior result")
	}
}

func TestSettleTableIsolation(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 10.00, 20: 7.50})
	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	seedLines(t, f.store, 2, models.OrderLine{ProductID: 20, Quantity: 2})
	ctx := context.Background()

	req := terminalRequest(1)
	req.Discount = 0
	if _, err := f.coordinator.Settle(ctx, req); err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	// table 2's ledger must be untouched by table 1's settlement
	lines, _ := f.store.ListByTable(ctx, 2)
	if len(lines) != 1 {
		t.Errorf("settling table 1 leaked into table 2's ledger")
	}
	table, _ := f.store.Get(ctx, 2)
	if table.Status != models.TableOccupied {
		t.Errorf("settling table 1 changed table 2's status: %s", table.Status)
	}
}

func TestInvoiceNumberSequence(t *testing.T) {
	f := newSettlementFixture(t, stubPrices{10: 10.00})
	ctx := context.Background()

	seedLines(t, f.store, 1, models.OrderLine{ProductID: 10, Quantity: 1})
	first, err := f.coordinator.Settle(ctx, terminalRequest(1))
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	seedLines(t, f.store, 2, models.OrderLine{ProductID: 10, Quantity: 2})
	req := terminalRequest(2)
	req.TransactionID = "TXN-0005678"
	second, err := f.coordinator.Settle(ctx, req)
	if err != nil {
		t.Fatalf("Settle() error = %v", err)
	}

	if first.Invoice.InvoiceNumber == second.Invoice.InvoiceNumber {
		t.Errorf("invoice numbers must be unique, both %q", first.Invoice.InvoiceNumber)
	}
	for _, inv := range []dto.SettlementResult{first, second} {
		if len(inv.Invoice.InvoiceNumber) == 0 || inv.Invoice.InvoiceNumber[:4] != "INV_" {
			t.Errorf("unexpected invoice number format: %q", inv.Invoice.InvoiceNumber)
		}
	}
}
