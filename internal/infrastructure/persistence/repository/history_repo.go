package repository

import (
	"context"
	"database/sql"
	"fmt"

	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// HistoryRepository implements port.HistoryRepository
type HistoryRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewHistoryRepository creates a new status history repository
func NewHistoryRepository(db *sql.DB, logger *zap.Logger) port.HistoryRepository {
	return &HistoryRepository{
		db:     db,
		logger: logger,
	}
}

// Append records a status transition
func (r *HistoryRepository) Append(ctx context.Context, h *entity.StatusHistory) error {
	query := `
		INSERT INTO deal_status_history (deal_id, from_status, to_status, source, actor, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		h.DealID, h.FromStatus, h.ToStatus, h.Source, h.Actor, h.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to append status history", zap.Int64("deal_id", h.DealID), zap.Error(err))
		return fmt.Errorf("failed to append status history: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	h.ID = id
	return nil
}

// ListByDealID retrieves a deal's transitions, oldest first
func (r *HistoryRepository) ListByDealID(ctx context.Context, dealID int64) ([]*entity.StatusHistory, error) {
	query := `
		SELECT id, deal_id, from_status, to_status, source, actor, created_at
		FROM deal_status_history WHERE deal_id = ? ORDER BY created_at ASC, id ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, dealID)
	if err != nil {
		r.logger.Error("Failed to list status history", zap.Int64("deal_id", dealID), zap.Error(err))
		return nil, fmt.Errorf("failed to list status history: %w", err)
	}
	defer rows.Close()

	var entries []*entity.StatusHistory
	for rows.Next() {
		var h entity.StatusHistory
		if err := rows.Scan(&h.ID, &h.DealID, &h.FromStatus, &h.ToStatus, &h.Source, &h.Actor, &h.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan status history: %w", err)
		}
		entries = append(entries, &h)
	}

	return entries, rows.Err()
}

// Verify interface compliance
var _ port.HistoryRepository = (*HistoryRepository)(nil)
