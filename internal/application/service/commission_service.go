package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/deal"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

var (
	// ErrDealNotComplete is returned when paying commission on an open deal
	ErrDealNotComplete = errors.New("deal is not complete")

	// ErrCommissionExists is returned when a deal already has a payout record
	ErrCommissionExists = errors.New("commission already recorded for deal")
)

// RecordCommissionInput carries the job cost figures for a payout
type RecordCommissionInput struct {
	MaterialCost float64 `json:"material_cost"`
	LaborCost    float64 `json:"labor_cost"`
	RatePercent  float64 `json:"rate_percent"`
}

// CommissionService computes and records rep payouts for completed deals
type CommissionService interface {
	Record(ctx context.Context, dealID int64, in RecordCommissionInput) (*entity.Commission, error)
	GetForDeal(ctx context.Context, dealID int64) (*entity.Commission, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Commission, error)
	Export(ctx context.Context, from, to time.Time, outputPath string) (int, error)
}

type commissionServiceImpl struct {
	deals          DealService
	commissionRepo port.CommissionRepository
	exporter       port.CommissionExporter
	defaultRate    float64
	logger         Logger
}

// NewCommissionService creates a new CommissionService. defaultRate is the
// payout percentage used when a request omits one.
func NewCommissionService(
	deals DealService,
	commissionRepo port.CommissionRepository,
	exporter port.CommissionExporter,
	defaultRate float64,
	logger Logger,
) CommissionService {
	return &commissionServiceImpl{
		deals:          deals,
		commissionRepo: commissionRepo,
		exporter:       exporter,
		defaultRate:    defaultRate,
		logger:         logger,
	}
}

// Record computes and persists the rep payout for a completed deal. The
// derived status is what gates the payout, not the stored column.
func (s *commissionServiceImpl) Record(ctx context.Context, dealID int64, in RecordCommissionInput) (*entity.Commission, error) {
	d, err := s.deals.Get(ctx, dealID)
	if err != nil {
		return nil, err
	}

	if deal.DeriveStatus(d.Snapshot()) != deal.StatusComplete {
		return nil, ErrDealNotComplete
	}

	existing, err := s.commissionRepo.GetByDealID(ctx, dealID)
	if err != nil {
		return nil, fmt.Errorf("lookup commission: %w", err)
	}
	if existing != nil {
		return nil, ErrCommissionExists
	}

	rate := in.RatePercent
	if rate == 0 {
		rate = s.defaultRate
	}

	input := deal.CommissionInput{
		ContractTotal: d.RCV,
		MaterialCost:  in.MaterialCost,
		LaborCost:     in.LaborCost,
		RatePercent:   rate,
	}
	payout, err := input.Payout()
	if err != nil {
		return nil, err
	}

	c := &entity.Commission{
		DealID:        dealID,
		RepID:         d.RepID,
		ContractTotal: input.ContractTotal,
		MaterialCost:  input.MaterialCost,
		LaborCost:     input.LaborCost,
		RatePercent:   input.RatePercent,
		Payout:        payout,
		CreatedAt:     time.Now(),
	}
	if err := s.commissionRepo.Create(ctx, c); err != nil {
		s.logger.Error("Failed to record commission", "error", err, "deal_id", dealID)
		return nil, fmt.Errorf("record commission: %w", err)
	}

	s.logger.Info("Commission recorded", "deal_id", dealID, "rep_id", c.RepID, "payout", payout)
	return c, nil
}

// GetForDeal returns a deal's payout record, nil when none exists
func (s *commissionServiceImpl) GetForDeal(ctx context.Context, dealID int64) (*entity.Commission, error) {
	if _, err := s.deals.Get(ctx, dealID); err != nil {
		return nil, err
	}
	return s.commissionRepo.GetByDealID(ctx, dealID)
}

// ListBetween returns payouts recorded inside a date range
func (s *commissionServiceImpl) ListBetween(ctx context.Context, from, to time.Time) ([]*entity.Commission, error) {
	return s.commissionRepo.ListBetween(ctx, from, to)
}

// Export writes the payout report for a date range and returns the row count
func (s *commissionServiceImpl) Export(ctx context.Context, from, to time.Time, outputPath string) (int, error) {
	rows, err := s.commissionRepo.ListBetween(ctx, from, to)
	if err != nil {
		return 0, fmt.Errorf("list commissions: %w", err)
	}

	if err := s.exporter.Export(rows, outputPath); err != nil {
		s.logger.Error("Failed to export commissions", "error", err, "path", outputPath)
		return 0, fmt.Errorf("export commissions: %w", err)
	}

	s.logger.Info("Commission report exported", "path", outputPath, "rows", len(rows))
	return len(rows), nil
}
