// Package db implements the durable stores on PostgreSQL through pgx.
package db

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

type Store struct {
	pool *pgxpool.Pool
}

func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

func (s *Store) IsAlive(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// EnsureSchema creates the core tables when they do not exist yet. The fixed
// table set is provisioned separately; rows in "tables" are never created by
// the application itself.
func (s *Store) EnsureSchema(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS tables (
			id        BIGINT PRIMARY KEY,
			number    INT NOT NULL,
			capacity  INT NOT NULL,
			status    TEXT NOT NULL DEFAULT 'available'
		)`,
		`CREATE TABLE IF NOT EXISTS order_lines (
			id         BIGSERIAL PRIMARY KEY,
			table_id   BIGINT NOT NULL REFERENCES tables(id),
			product_id BIGINT NOT NULL,
			quantity   INT NOT NULL CHECK (quantity >= 1),
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE INDEX IF NOT EXISTS idx_order_lines_table ON order_lines(table_id)`,
		`CREATE TABLE IF NOT EXISTS payments (
			id             TEXT PRIMARY KEY,
			table_id       BIGINT NOT NULL REFERENCES tables(id),
			method         TEXT NOT NULL,
			amount         NUMERIC(12,2) NOT NULL,
			subtotal       NUMERIC(12,2) NOT NULL,
			tax            NUMERIC(12,2) NOT NULL,
			tip            NUMERIC(12,2) NOT NULL,
			discount       NUMERIC(12,2) NOT NULL,
			tendered       NUMERIC(12,2),
			change         NUMERIC(12,2),
			transaction_id TEXT,
			reference      TEXT,
			cashier_id     TEXT NOT NULL,
			status         TEXT NOT NULL,
			completed_at   TIMESTAMPTZ NOT NULL
		)`,
		`CREATE TABLE IF NOT EXISTS invoices (
			id              TEXT PRIMARY KEY,
			payment_id      TEXT NOT NULL UNIQUE REFERENCES payments(id),
			invoice_number  TEXT NOT NULL UNIQUE,
			tax_id          TEXT,
			subtotal        NUMERIC(12,2) NOT NULL,
			tax             NUMERIC(12,2) NOT NULL,
			total           NUMERIC(12,2) NOT NULL,
			external_status TEXT NOT NULL,
			created_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
	}

	for _, stmt := range statements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to ensure schema: %w", err)
		}
	}
	return nil
}
