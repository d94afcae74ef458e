package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// DispatchService snapshots a table's order and forwards it to the kitchen.
// The ledger is retained after dispatch: settlement prices the lines later,
// so dispatch must not consume them.
type DispatchService struct {
	ledger    core.ILedgerRepo
	tables    core.ITableRepo
	publisher core.ITicketPublisher
	locks     *TableLocks
	log       *slog.Logger
}

func NewDispatchService(ledger core.ILedgerRepo, tables core.ITableRepo, publisher core.ITicketPublisher, locks *TableLocks, log *slog.Logger) *DispatchService {
	return &DispatchService{
		ledger:    ledger,
		tables:    tables,
		publisher: publisher,
		locks:     locks,
		log:       log,
	}
}

// SendToKitchen forwards the current lines as one ticket and marks the table
// occupied. A publish failure surfaces to the caller for a retry prompt; the
// ticket is never silently dropped.
func (s *DispatchService) SendToKitchen(ctx context.Context, tableID int64, waiterID string, partySize int) (dto.DispatchResult, error) {
	if waiterID == "" {
		verrs := &core.ValidationErrors{}
		verrs.Add("waiter id is required")
		return dto.DispatchResult{}, verrs
	}

	unlock := s.locks.Lock(tableID)
	defer unlock()

	if _, err := s.tables.Get(ctx, tableID); err != nil {
		return dto.DispatchResult{}, err
	}

	lines, err := s.ledger.ListByTable(ctx, tableID)
	if err != nil {
		return dto.DispatchResult{}, err
	}
	if len(lines) == 0 {
		return dto.DispatchResult{}, core.ErrNoItems
	}

	ticket := dto.KitchenTicket{
		TicketID:  uuid.NewString(),
		TableID:   tableID,
		WaiterID:  waiterID,
		PartySize: partySize,
		Lines:     normalize(lines),
	}

	publishCtx, cancel := context.WithTimeout(ctx, core.DispatchTimeout)
	defer cancel()

	if err := s.publisher.PublishTicket(publishCtx, ticket); err != nil {
		s.log.Error("dispatch_failed", "table_id", tableID, "ticket_id", ticket.TicketID, "error", err)
		return dto.DispatchResult{}, fmt.Errorf("%w: kitchen ticket not delivered: %v", core.ErrCollaborator, err)
	}

	if err := s.tables.SetStatus(ctx, tableID, models.TableOccupied); err != nil {
		// the ticket is already in the kitchen; the occupancy flip failing is
		// recoverable through the manual override, so log and keep going
		s.log.Error("occupancy_after_dispatch_failed", "table_id", tableID, "error", err)
	}

	s.log.Info("ticket_dispatched", "table_id", tableID, "ticket_id", ticket.TicketID, "lines", len(lines))
	return dto.DispatchResult{
		TicketID:  ticket.TicketID,
		TableID:   tableID,
		LineCount: len(lines),
		Status:    "sent",
	}, nil
}

func normalize(lines []models.OrderLine) []dto.TicketLine {
	out := make([]dto.TicketLine, len(lines))
	for i, line := range lines {
		out[i] = dto.TicketLine{ProductID: line.ProductID, Quantity: line.Quantity}
	}
	return out
}
