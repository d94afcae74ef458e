package services

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/dto"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// SettlementConfig carries the jurisdiction- and deployment-specific knobs.
type SettlementConfig struct {
	TaxRate        float64
	TaxID          string
	Currency       string
	IdempotencyTTL time.Duration
}

// SettlementCoordinator runs one end-to-end payment: idempotency check,
// authoritative pricing, validation, best-effort externalization, then the
// atomic local commit that frees the table and clears the ledger.
type SettlementCoordinator struct {
	ledger   core.ILedgerRepo
	tables   core.ITableRepo
	store    core.ISettlementStore
	cache    core.IResultCache
	prices   core.IPriceLookup
	notifier core.ISettlementNotifier // nil disables externalization
	gateway  core.ICardGateway        // nil skips terminal re-verification
	locks    *TableLocks
	cfg      SettlementConfig
	log      *slog.Logger
}

func NewSettlementCoordinator(
	ledger core.ILedgerRepo,
	tables core.ITableRepo,
	store core.ISettlementStore,
	cache core.IResultCache,
	prices core.IPriceLookup,
	notifier core.ISettlementNotifier,
	gateway core.ICardGateway,
	locks *TableLocks,
	cfg SettlementConfig,
	log *slog.Logger,
) *SettlementCoordinator {
	if cfg.IdempotencyTTL <= 0 {
		cfg.IdempotencyTTL = core.DefaultIdempotencyTTL
	}
	return &SettlementCoordinator{
		ledger:   ledger,
		tables:   tables,
		store:    store,
		cache:    cache,
		prices:   prices,
		notifier: notifier,
		gateway:  gateway,
		locks:    locks,
		cfg:      cfg,
		log:      log,
	}
}

// Settle is the central state machine of the system. Steps 1-4 are read-only
// and safe to retry; step 5 (externalize) degrades instead of blocking; step
// 6 (commit) is atomic and final.
func (c *SettlementCoordinator) Settle(ctx context.Context, req dto.SettlementRequest) (dto.SettlementResult, error) {
	method, err := req.Method()
	if err != nil {
		verrs := &core.ValidationErrors{}
		verrs.Add("%v", err)
		return dto.SettlementResult{}, verrs
	}

	// Everything from the idempotency check through the commit runs inside
	// the table's lock. Checking the fingerprint outside it would be a race:
	// two retries could both read "no prior result" before either commits.
	unlock := c.locks.Lock(req.TableID)
	defer unlock()

	// step 1: idempotency
	fingerprint := Fingerprint(req)
	if cached, err := c.cache.Get(ctx, fingerprint); err != nil {
		c.log.Warn("idempotency_cache_unavailable", "error", err)
	} else if cached != "" {
		var prior dto.SettlementResult
		if err := json.Unmarshal([]byte(cached), &prior); err == nil {
			prior.Replayed = true
			c.log.Info("settlement_replayed", "table_id", req.TableID, "payment_id", prior.Payment.ID)
			return prior, nil
		}
		c.log.Warn("idempotency_cache_corrupt_entry", "fingerprint", fingerprint)
	}

	if _, err := c.tables.Get(ctx, req.TableID); err != nil {
		return dto.SettlementResult{}, err
	}

	// step 2: load ledger
	lines, err := c.ledger.ListByTable(ctx, req.TableID)
	if err != nil {
		return dto.SettlementResult{}, err
	}
	if len(lines) == 0 {
		return dto.SettlementResult{}, core.ErrNoItems
	}

	// step 3: authoritative pricing from server-side product prices
	subtotal, err := c.subtotalOf(ctx, lines)
	if err != nil {
		return dto.SettlementResult{}, err
	}
	breakdown, err := Price(subtotal, req.Discount, models.DiscountType(req.DiscountType), req.Tip, c.cfg.TaxRate)
	if err != nil {
		verrs := &core.ValidationErrors{}
		verrs.Add("%v", err)
		return dto.SettlementResult{}, verrs
	}

	// step 4: validate against the recomputed breakdown
	if err := ValidateSettlement(req, method, breakdown); err != nil {
		return dto.SettlementResult{}, err
	}

	if m, ok := method.(models.Terminal); ok && c.gateway != nil {
		if err := c.verifyCharge(ctx, m, breakdown.FinalTotal); err != nil {
			verrs := &core.ValidationErrors{}
			verrs.Add("terminal transaction %s could not be verified: %v", m.TransactionID, err)
			return dto.SettlementResult{}, verrs
		}
	}

	if m, ok := method.(models.Cash); ok {
		breakdown.Change = ChangeDue(breakdown, m.Tendered)
	}

	payment := c.buildPayment(req, method, breakdown)
	invoice := models.InvoiceRecord{
		ID:             uuid.NewString(),
		PaymentID:      payment.ID,
		TaxID:          c.cfg.TaxID,
		Subtotal:       breakdown.TaxableBase,
		Tax:            breakdown.Tax,
		Total:          breakdown.FinalTotal,
		ExternalStatus: models.InvoicePendingExternal,
	}

	// step 5: externalize, best effort. A collaborator outage must not block
	// the business once the money has been validated as sufficient.
	result := dto.SettlementResult{Breakdown: breakdown}
	if c.notifier != nil {
		execID, err := c.externalize(ctx, req, payment, breakdown)
		if err != nil {
			result.Degraded = true
			result.Warning = "settlement recorded locally; invoice workflow unreachable"
			c.log.Warn("externalize_failed", "table_id", req.TableID, "error", err)
		} else {
			result.ExecutionID = execID
		}
	}

	// step 6: commit. Detached from the caller's context so a client
	// disconnect cannot leave the table half-committed.
	commitCtx := context.WithoutCancel(ctx)
	payment, invoice, err = c.store.CommitSettlement(commitCtx, payment, invoice)
	if err != nil {
		c.log.Error("settlement_commit_failed", "table_id", req.TableID, "error", err)
		return dto.SettlementResult{}, &core.CommitError{Err: err}
	}
	result.Payment = payment
	result.Invoice = invoice

	// step 7: cache the result under the fingerprint
	if encoded, err := json.Marshal(result); err == nil {
		if err := c.cache.Set(commitCtx, fingerprint, string(encoded), c.cfg.IdempotencyTTL); err != nil {
			c.log.Warn("idempotency_cache_store_failed", "error", err)
		}
	}

	c.log.Info("settlement_committed",
		"table_id", req.TableID,
		"payment_id", payment.ID,
		"invoice_number", invoice.InvoiceNumber,
		"amount", payment.Amount,
		"method", payment.Method,
		"degraded", result.Degraded,
	)
	return result, nil
}

func (c *SettlementCoordinator) subtotalOf(ctx context.Context, lines []models.OrderLine) (float64, error) {
	var subtotal float64
	for _, line := range lines {
		price, err := c.prices.PriceFor(ctx, line.ProductID)
		if err != nil {
			return 0, err
		}
		subtotal = round2(subtotal + round2(float64(line.Quantity)*price))
	}
	return subtotal, nil
}

func (c *SettlementCoordinator) buildPayment(req dto.SettlementRequest, method models.PaymentMethod, b models.PriceBreakdown) models.PaymentRecord {
	payment := models.PaymentRecord{
		ID:          uuid.NewString(),
		TableID:     req.TableID,
		Method:      method.Kind(),
		Amount:      b.FinalTotal,
		Subtotal:    b.Subtotal,
		Tax:         b.Tax,
		Tip:         b.Tip,
		Discount:    b.DiscountAmount,
		CashierID:   req.CashierID,
		Status:      models.PaymentCompleted,
		CompletedAt: time.Now().UTC(),
	}
	switch m := method.(type) {
	case models.Cash:
		payment.Tendered = round2(m.Tendered)
		payment.Change = b.Change
	case models.Terminal:
		payment.TransactionID = m.TransactionID
	case models.QR:
		payment.Reference = m.Reference
	}
	return payment
}

func (c *SettlementCoordinator) externalize(ctx context.Context, req dto.SettlementRequest, payment models.PaymentRecord, b models.PriceBreakdown) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, core.ExternalCallTimeout)
	defer cancel()

	return c.notifier.NotifySettlement(callCtx, dto.SettlementEvent{
		TableID:   req.TableID,
		PaymentID: payment.ID,
		Method:    payment.Method,
		Subtotal:  b.Subtotal,
		Discount:  b.DiscountAmount,
		Tax:       b.Tax,
		Tip:       b.Tip,
		Total:     b.FinalTotal,
		Currency:  c.cfg.Currency,
		CashierID: req.CashierID,
	})
}

func (c *SettlementCoordinator) verifyCharge(ctx context.Context, m models.Terminal, amount float64) error {
	callCtx, cancel := context.WithTimeout(ctx, core.GatewayTimeout)
	defer cancel()

	if err := c.gateway.VerifyCharge(callCtx, m.TransactionID, amount, c.cfg.Currency); err != nil {
		return fmt.Errorf("gateway verification: %w", err)
	}
	return nil
}
