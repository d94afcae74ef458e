package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

func (s *Store) ListByTable(ctx context.Context, tableID int64) ([]models.OrderLine, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, table_id, product_id, quantity
		FROM order_lines
		WHERE table_id = $1
		ORDER BY id
	`, tableID)
	if err != nil {
		return nil, fmt.Errorf("failed to list order lines: %w", err)
	}
	defer rows.Close()

	var lines []models.OrderLine
	for rows.Next() {
		var line models.OrderLine
		if err := rows.Scan(&line.ID, &line.TableID, &line.ProductID, &line.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan order line: %w", err)
		}
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (s *Store) Insert(ctx context.Context, line models.OrderLine) (models.OrderLine, error) {
	err := s.pool.QueryRow(ctx, `
		INSERT INTO order_lines (table_id, product_id, quantity)
		VALUES ($1, $2, $3)
		RETURNING id
	`, line.TableID, line.ProductID, line.Quantity).Scan(&line.ID)
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("failed to insert order line: %w", err)
	}
	return line, nil
}

func (s *Store) FindByProduct(ctx context.Context, tableID, productID int64) (models.OrderLine, error) {
	var line models.OrderLine
	err := s.pool.QueryRow(ctx, `
		SELECT id, table_id, product_id, quantity
		FROM order_lines
		WHERE table_id = $1 AND product_id = $2
		ORDER BY id
		LIMIT 1
	`, tableID, productID).Scan(&line.ID, &line.TableID, &line.ProductID, &line.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderLine{}, core.ErrNotFound
	}
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("failed to find order line: %w", err)
	}
	return line, nil
}

// UpdateQuantity mutates a line only when the owning table matches; the
// WHERE clause is the cross-table leak guard.
func (s *Store) UpdateQuantity(ctx context.Context, lineID, tableID int64, quantity int) (models.OrderLine, error) {
	var line models.OrderLine
	err := s.pool.QueryRow(ctx, `
		UPDATE order_lines
		SET quantity = $1
		WHERE id = $2 AND table_id = $3
		RETURNING id, table_id, product_id, quantity
	`, quantity, lineID, tableID).Scan(&line.ID, &line.TableID, &line.ProductID, &line.Quantity)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.OrderLine{}, core.ErrNotFound
	}
	if err != nil {
		return models.OrderLine{}, fmt.Errorf("failed to update order line: %w", err)
	}
	return line, nil
}

func (s *Store) Delete(ctx context.Context, lineID, tableID int64) error {
	tag, err := s.pool.Exec(ctx, `
		DELETE FROM order_lines WHERE id = $1 AND table_id = $2
	`, lineID, tableID)
	if err != nil {
		return fmt.Errorf("failed to delete order line: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *Store) Clear(ctx context.Context, tableID int64) error {
	if _, err := s.pool.Exec(ctx, `DELETE FROM order_lines WHERE table_id = $1`, tableID); err != nil {
		return fmt.Errorf("failed to clear order lines: %w", err)
	}
	return nil
}
