package services

import (
	"context"
	"log/slog"

	"github.com/TechWithMary/restaurant-pos/internal/pos/app/core"
	"github.com/TechWithMary/restaurant-pos/internal/pos/domain/models"
)

// TableService exposes the table registry. The state machine is deliberately
// permissive: staff must be able to force any status to correct mistakes, so
// no transition is blocked by the current state.
type TableService struct {
	tables core.ITableRepo
	log    *slog.Logger
}

func NewTableService(tables core.ITableRepo, log *slog.Logger) *TableService {
	return &TableService{tables: tables, log: log}
}

func (s *TableService) Get(ctx context.Context, id int64) (models.Table, error) {
	return s.tables.Get(ctx, id)
}

func (s *TableService) List(ctx context.Context) ([]models.Table, error) {
	return s.tables.List(ctx)
}

// SetStatus transitions a table. Unknown ids report not found; a table is
// never created implicitly.
func (s *TableService) SetStatus(ctx context.Context, id int64, status models.TableStatus) error {
	if !status.Valid() {
		verrs := &core.ValidationErrors{}
		verrs.Add("unknown table status: %q", status)
		return verrs
	}

	if err := s.tables.SetStatus(ctx, id, status); err != nil {
		return err
	}
	s.log.Info("table_status_changed", "table_id", id, "status", string(status))
	return nil
}
