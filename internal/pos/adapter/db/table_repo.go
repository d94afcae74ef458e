package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

func (s *Store) Get(ctx context.Context, id int64) (models.Table, error) {
	var table models.Table
	err := s.pool.QueryRow(ctx, `
		SELECT id, number, capacity, status FROM tables WHERE id = $1
	`, id).Scan(&table.ID, &table.Number, &table.Capacity, &table.Status)
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Table{}, fmt.Errorf("table %d: %w", id, core.ErrNotFound)
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("failed to get table: %w", err)
	}
	return table, nil
}

func (s *Store) List(ctx context.Context) ([]models.Table, error) {
	rows, err := s.pool.Query(ctx, `
		SELECT id, number, capacity, status FROM tables ORDER BY number
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}
	defer rows.Close()

	var tables []models.Table
	for rows.Next() {
		var table models.Table
		if err := rows.Scan(&table.ID, &table.Number, &table.Capacity, &table.Status); err != nil {
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		tables = append(tables, table)
	}
	return tables, rows.Err()
}

func (s *Store) SetStatus(ctx context.Context, id int64, status models.TableStatus) error {
	tag, err := s.pool.Exec(ctx, `
		UPDATE tables SET status = $1 WHERE id = $2
	`, string(status), id)
	if err != nil {
		return fmt.Errorf("failed to set table status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("table %d: %w", id, core.ErrNotFound)
	}
	return nil
}
