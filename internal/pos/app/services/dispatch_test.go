package services

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/TechWithMary/restaurant-pos/internal/pos/adapter/memory"
	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

type stubPublisher struct {
	mu      sync.Mutex
	tickets []dto.KitchenTicket
	err     error
}

func (s *stubPublisher) PublishTicket(_ context.Context, ticket dto.KitchenTicket) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return s.err
	}
	s.tickets = append(s.tickets, ticket)
	return nil
}

func (s *stubPublisher) IsAlive() error { return nil }
func (s *stubPublisher) Close() error   { return nil }

func newDispatchFixture() (*DispatchService, *memory.Store, *stubPublisher) {
	store := memory.NewStore(
		models.Table{ID: 1, Number: 1, Capacity: 4, Status: models.TableAvailable},
	)
	publisher := &stubPublisher{}
	dispatch := NewDispatchService(store, store, publisher, NewTableLocks(), discardLogger())
	return dispatch, store, publisher
}

func TestSendToKitchen(t *testing.T) {
	dispatch, store, publisher := newDispatchFixture()
	ctx := context.Background()

	store.Insert(ctx, models.OrderLine{TableID: 1, ProductID: 10, Quantity: 2})
	store.Insert(ctx, models.OrderLine{TableID: 1, ProductID: 11, Quantity: 1})

	result, err := dispatch.SendToKitchen(ctx, 1, "waiter-3", 4)
	if err != nil {
		t.Fatalf("SendToKitchen() error = %v", err)
	}
	if result.LineCount != 2 {
		t.Errorf("line count = %d, want 2", result.LineCount)
	}

	if len(publisher.tickets) != 1 {
		t.Fatalf("published %d tickets, want 1", len(publisher.tickets))
	}
	ticket := publisher.tickets[0]
	if ticket.WaiterID != "waiter-3" || ticket.PartySize != 4 || len(ticket.Lines) != 2 {
		t.Errorf("unexpected ticket payload: %+v", ticket)
	}

	// the ledger is retained for settlement, the table flips to occupied
	lines, _ := store.ListByTable(ctx, 1)
	if len(lines) != 2 {
		t.Errorf("dispatch consumed the ledger: %d lines remain", len(lines))
	}
	table, _ := store.Get(ctx, 1)
	if table.Status != models.TableOccupied {
		t.Errorf("table status = %s, want occupied", table.Status)
	}
}

func TestSendToKitchenEmptyTable(t *testing.T) {
	dispatch, _, _ := newDispatchFixture()

	_, err := dispatch.SendToKitchen(context.Background(), 1, "waiter-3", 0)
	if !errors.Is(err, core.ErrNoItems) {
		t.Errorf("SendToKitchen(empty) error = %v, want ErrNoItems", err)
	}
}

func TestSendToKitchenPublishFailure(t *testing.T) {
	dispatch, store, publisher := newDispatchFixture()
	ctx := context.Background()
	publisher.err = errors.New("broker gone")

	store.Insert(ctx, models.OrderLine{TableID: 1, ProductID: 10, Quantity: 1})

	_, err := dispatch.SendToKitchen(ctx, 1, "waiter-3", 0)
	if !errors.Is(err, core.ErrCollaborator) {
		t.Fatalf("SendToKitchen() error = %v, want ErrCollaborator for a retry prompt", err)
	}

	// the failed dispatch must not flip the table
	table, _ := store.Get(ctx, 1)
	if table.Status != models.TableAvailable {
		t.Errorf("table status = %s, want available after failed dispatch", table.Status)
	}
}

func TestConcurrentDispatchKeepsLedgerIntact(t *testing.T) {
	dispatch, store, publisher := newDispatchFixture()
	ctx := context.Background()

	store.Insert(ctx, models.OrderLine{TableID: 1, ProductID: 10, Quantity: 2})
	store.Insert(ctx, models.OrderLine{TableID: 1, ProductID: 11, Quantity: 1})

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = dispatch.SendToKitchen(ctx, 1, "waiter-3", 0)
		}(i)
	}
	wg.Wait()

	for i, err := range errs {
		if err != nil {
			t.Fatalf("dispatch %d failed: %v", i, err)
		}
	}

	// neither call may lose the other's snapshot: both tickets carry the
	// full line set and the ledger still equals the pre-dispatch union
	if len(publisher.tickets) != 2 {
		t.Fatalf("published %d tickets, want 2", len(publisher.tickets))
	}
	for _, ticket := range publisher.tickets {
		if len(ticket.Lines) != 2 {
			t.Errorf("ticket %s lost lines: %+v", ticket.TicketID, ticket.Lines)
		}
	}

	lines, _ := store.ListByTable(ctx, 1)
	if len(lines) != 2 {
		t.Errorf("ledger changed by concurrent dispatch: %d lines", len(lines))
	}
	table, _ := store.Get(ctx, 1)
	if table.Status != models.TableOccupied {
		t.Errorf("table status = %s, want occupied", table.Status)
	}
}
