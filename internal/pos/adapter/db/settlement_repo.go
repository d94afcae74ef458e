package db

import (
	"context"
	"fmt"
	"time"

	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// CommitSettlement is the commit point of one settlement: payment and
// invoice inserted, ledger cleared and table freed inside a single
// transaction. Any failure rolls the whole step back so a table can never be
// marked available while its payment did not persist.
func (s *Store) CommitSettlement(ctx context.Context, payment models.PaymentRecord, invoice models.InvoiceRecord) (models.PaymentRecord, models.InvoiceRecord, error) {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	// Invoice numbers are a per-day sequence; counting inside the
	// transaction keeps the number gapless under concurrent settlements.
	day := payment.CompletedAt.UTC().Format("20060102")
	var invoiceCount int
	err = tx.QueryRow(ctx, `
		SELECT COUNT(*) FROM invoices WHERE created_at::DATE = $1::DATE
	`, payment.CompletedAt.UTC()).Scan(&invoiceCount)
	if err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to count today's invoices: %w", err)
	}
	invoice.InvoiceNumber = fmt.Sprintf("INV_%s_%03d", day, invoiceCount+1)
	invoice.CreatedAt = payment.CompletedAt

	_, err = tx.Exec(ctx, `
		INSERT INTO payments (
			id, table_id, method, amount, subtotal, tax, tip, discount,
			tendered, change, transaction_id, reference, cashier_id, status, completed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`,
		payment.ID,
		payment.TableID,
		payment.Method,
		payment.Amount,
		payment.Subtotal,
		payment.Tax,
		payment.Tip,
		payment.Discount,
		payment.Tendered,
		payment.Change,
		payment.TransactionID,
		payment.Reference,
		payment.CashierID,
		payment.Status,
		payment.CompletedAt,
	)
	if err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to insert payment: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO invoices (
			id, payment_id, invoice_number, tax_id, subtotal, tax, total, external_status, created_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		invoice.ID,
		invoice.PaymentID,
		invoice.InvoiceNumber,
		invoice.TaxID,
		invoice.Subtotal,
		invoice.Tax,
		invoice.Total,
		invoice.ExternalStatus,
		invoice.CreatedAt,
	)
	if err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to insert invoice: %w", err)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM order_lines WHERE table_id = $1`, payment.TableID); err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to clear order lines: %w", err)
	}

	tag, err := tx.Exec(ctx, `
		UPDATE tables SET status = $1 WHERE id = $2
	`, string(models.TableAvailable), payment.TableID)
	if err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to free table: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("table %d vanished during commit", payment.TableID)
	}

	if err := tx.Commit(ctx); err != nil {
		return models.PaymentRecord{}, models.InvoiceRecord{}, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return payment, invoice, nil
}

func (s *Store) ListPaymentsByDay(ctx context.Context, day time.Time) ([]models.PaymentRecord, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, method, amount, subtotal, tax, tip, discount,
		       tendered, change, transaction_id, reference, cashier_id, status, completed_at
		FROM payments
		WHERE completed_at::DATE = $1::DATE
		ORDER BY completed_at
	`, day.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []models.PaymentRecord
	for rows.Next() {
		var p models.PaymentRecord
		err := rows.Scan(
			&p.ID, &p.TableID, &p.Method, &p.Amount, &p.Subtotal, &p.Tax, &p.Tip, &p.Discount,
			&p.Tendered, &p.Change, &p.TransactionID, &p.Reference, &p.CashierID, &p.Status, &p.CompletedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}
	return payments, rows.Err()
}
