package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// CommissionRepository implements port.CommissionRepository
type CommissionRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCommissionRepository creates a new commission repository
func NewCommissionRepository(db *sql.DB, logger *zap.Logger) port.CommissionRepository {
	return &CommissionRepository{
		db:     db,
		logger: logger,
	}
}

// Create inserts a commission record
func (r *CommissionRepository) Create(ctx context.Context, c *entity.Commission) error {
	query := `
		INSERT INTO commissions (deal_id, rep_id, contract_total, material_cost, labor_cost, rate_percent, payout, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		c.DealID, c.RepID, c.ContractTotal, c.MaterialCost, c.LaborCost, c.RatePercent, c.Payout, c.CreatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create commission", zap.Int64("deal_id", c.DealID), zap.Error(err))
		return fmt.Errorf("failed to create commission: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	c.ID = id
	return nil
}

// GetByDealID retrieves the commission for a deal, nil when absent
func (r *CommissionRepository) GetByDealID(ctx context.Context, dealID int64) (*entity.Commission, error) {
	query := `
		SELECT id, deal_id, rep_id, contract_total, material_cost, labor_cost, rate_percent, payout, created_at
		FROM commissions WHERE deal_id = ?
	`

	var c entity.Commission
	err := getExecutor(ctx, r.db).QueryRowContext(ctx, query, dealID).Scan(
		&c.ID, &c.DealID, &c.RepID, &c.ContractTotal, &c.MaterialCost, &c.LaborCost, &c.RatePercent, &c.Payout, &c.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		r.logger.Error("Failed to get commission", zap.Int64("deal_id", dealID), zap.Error(err))
		return nil, fmt.Errorf("failed to get commission: %w", err)
	}

	return &c, nil
}

// ListBetween retrieves commissions recorded in a time window
func (r *CommissionRepository) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Commission, error) {
	query := `
		SELECT id, deal_id, rep_id, contract_total, material_cost, labor_cost, rate_percent, payout, created_at
		FROM commissions WHERE created_at >= ? AND created_at < ? ORDER BY created_at ASC
	`

	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, from, to)
	if err != nil {
		r.logger.Error("Failed to list commissions", zap.Error(err))
		return nil, fmt.Errorf("failed to list commissions: %w", err)
	}
	defer rows.Close()

	var commissions []*entity.Commission
	for rows.Next() {
		var c entity.Commission
		if err := rows.Scan(&c.ID, &c.DealID, &c.RepID, &c.ContractTotal, &c.MaterialCost, &c.LaborCost, &c.RatePercent, &c.Payout, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan commission: %w", err)
		}
		commissions = append(commissions, &c)
	}

	return commissions, rows.Err()
}

// Verify interface compliance
var _ port.CommissionRepository = (*CommissionRepository)(nil)
