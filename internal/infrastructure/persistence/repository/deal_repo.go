package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// DealRepository implements port.DealRepository
type DealRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDealRepository creates a new deal repository
func NewDealRepository(db *sql.DB, logger *zap.Logger) port.DealRepository {
	return &DealRepository{
		db:     db,
		logger: logger,
	}
}

const dealColumns = `
	id, public_id, customer_id, rep_id, status, status_source,
	insurance_company, policy_number, claim_number,
	rcv, acv, depreciation, deductible,
	approval_type, approved_at, contract_signed,
	agreement_url, signature_url, lost_statement_url,
	acv_receipt_url, acv_collected,
	deductible_receipt_url, deductible_collected_at,
	inspection_images, install_date, install_images,
	invoice_url, invoice_sent_at,
	depreciation_receipt_url, depreciation_check_collected,
	created_at, updated_at
`

// Create inserts a new deal
func (r *DealRepository) Create(ctx context.Context, d *entity.Deal) error {
	query := `
		INSERT INTO deals (
			public_id, customer_id, rep_id, status, status_source,
			insurance_company, policy_number, claim_number,
			rcv, acv, depreciation, deductible,
			approval_type, approved_at, contract_signed,
			agreement_url, signature_url, lost_statement_url,
			acv_receipt_url, acv_collected,
			deductible_receipt_url, deductible_collected_at,
			inspection_images, install_date, install_images,
			invoice_url, invoice_sent_at,
			depreciation_receipt_url, depreciation_check_collected,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		d.PublicID, d.CustomerID, d.RepID, d.Status, d.StatusSource,
		d.InsuranceCompany, d.PolicyNumber, d.ClaimNumber,
		d.RCV, d.ACV, d.Depreciation, d.Deductible,
		d.ApprovalType, d.ApprovedAt, d.ContractSigned,
		d.AgreementURL, d.SignatureURL, d.LostStatementURL,
		d.ACVReceiptURL, d.ACVCollected,
		d.DeductibleReceiptURL, d.DeductibleCollectedAt,
		marshalImages(d.InspectionImages), d.InstallDate, marshalImages(d.InstallImages),
		d.InvoiceURL, d.InvoiceSentAt,
		d.DepreciationReceiptURL, d.DepreciationCheckCollected,
		d.CreatedAt, d.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create deal", zap.Error(err))
		return fmt.Errorf("failed to create deal: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	d.ID = id
	return nil
}

// GetByID retrieves a deal by ID, nil when absent
func (r *DealRepository) GetByID(ctx context.Context, id int64) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE id = ?`
	d, err := r.scanDeal(getExecutor(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		r.logger.Error("Failed to get deal by ID", zap.Int64("id", id), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// GetByPublicID retrieves a deal by its public UUID, nil when absent
func (r *DealRepository) GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE public_id = ?`
	d, err := r.scanDeal(getExecutor(ctx, r.db).QueryRowContext(ctx, query, publicID))
	if err != nil {
		r.logger.Error("Failed to get deal by public ID", zap.String("public_id", publicID), zap.Error(err))
		return nil, err
	}
	return d, nil
}

// Update persists every mutable column of a deal
func (r *DealRepository) Update(ctx context.Context, d *entity.Deal) error {
	query := `
		UPDATE deals SET
			status = ?, status_source = ?,
			insurance_company = ?, policy_number = ?, claim_number = ?,
			rcv = ?, acv = ?, depreciation = ?, deductible = ?,
			approval_type = ?, approved_at = ?, contract_signed = ?,
			agreement_url = ?, signature_url = ?, lost_statement_url = ?,
			acv_receipt_url = ?, acv_collected = ?,
			deductible_receipt_url = ?, deductible_collected_at = ?,
			inspection_images = ?, install_date = ?, install_images = ?,
			invoice_url = ?, invoice_sent_at = ?,
			depreciation_receipt_url = ?, depreciation_check_collected = ?,
			updated_at = ?
		WHERE id = ?
	`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query,
		d.Status, d.StatusSource,
		d.InsuranceCompany, d.PolicyNumber, d.ClaimNumber,
		d.RCV, d.ACV, d.Depreciation, d.Deductible,
		d.ApprovalType, d.ApprovedAt, d.ContractSigned,
		d.AgreementURL, d.SignatureURL, d.LostStatementURL,
		d.ACVReceiptURL, d.ACVCollected,
		d.DeductibleReceiptURL, d.DeductibleCollectedAt,
		marshalImages(d.InspectionImages), d.InstallDate, marshalImages(d.InstallImages),
		d.InvoiceURL, d.InvoiceSentAt,
		d.DepreciationReceiptURL, d.DepreciationCheckCollected,
		d.UpdatedAt,
		d.ID,
	)
	if err != nil {
		r.logger.Error("Failed to update deal", zap.Int64("id", d.ID), zap.Error(err))
		return fmt.Errorf("failed to update deal: %w", err)
	}

	return nil
}

// UpdateStatus updates only the status columns
func (r *DealRepository) UpdateStatus(ctx context.Context, id int64, status, source string) error {
	query := `UPDATE deals SET status = ?, status_source = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`

	_, err := getExecutor(ctx, r.db).ExecContext(ctx, query, status, source, id)
	if err != nil {
		r.logger.Error("Failed to update deal status", zap.Int64("id", id), zap.String("status", status), zap.Error(err))
		return fmt.Errorf("failed to update deal status: %w", err)
	}

	return nil
}

// List retrieves deals with pagination, newest first
func (r *DealRepository) List(ctx context.Context, limit, offset int) ([]*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryDeals(ctx, query, limit, offset)
}

// ListByStatus retrieves deals in one status with pagination
func (r *DealRepository) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error) {
	query := `SELECT ` + dealColumns + ` FROM deals WHERE status = ? ORDER BY created_at DESC LIMIT ? OFFSET ?`
	return r.queryDeals(ctx, query, status, limit, offset)
}

func (r *DealRepository) queryDeals(ctx context.Context, query string, args ...interface{}) ([]*entity.Deal, error) {
	rows, err := getExecutor(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to list deals", zap.Error(err))
		return nil, fmt.Errorf("failed to list deals: %w", err)
	}
	defer rows.Close()

	var deals []*entity.Deal
	for rows.Next() {
		d, err := scanDealRow(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan deal: %w", err)
		}
		deals = append(deals, d)
	}

	return deals, rows.Err()
}

// rowScanner covers *sql.Row and *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

func (r *DealRepository) scanDeal(row *sql.Row) (*entity.Deal, error) {
	d, err := scanDealRow(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan deal: %w", err)
	}
	return d, nil
}

func scanDealRow(row rowScanner) (*entity.Deal, error) {
	var d entity.Deal
	var approvedAt, deductibleCollectedAt, installDate, invoiceSentAt sql.NullTime
	var inspectionImages, installImages string

	err := row.Scan(
		&d.ID, &d.PublicID, &d.CustomerID, &d.RepID, &d.Status, &d.StatusSource,
		&d.InsuranceCompany, &d.PolicyNumber, &d.ClaimNumber,
		&d.RCV, &d.ACV, &d.Depreciation, &d.Deductible,
		&d.ApprovalType, &approvedAt, &d.ContractSigned,
		&d.AgreementURL, &d.SignatureURL, &d.LostStatementURL,
		&d.ACVReceiptURL, &d.ACVCollected,
		&d.DeductibleReceiptURL, &deductibleCollectedAt,
		&inspectionImages, &installDate, &installImages,
		&d.InvoiceURL, &invoiceSentAt,
		&d.DepreciationReceiptURL, &d.DepreciationCheckCollected,
		&d.CreatedAt, &d.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if approvedAt.Valid {
		d.ApprovedAt = &approvedAt.Time
	}
	if deductibleCollectedAt.Valid {
		d.DeductibleCollectedAt = &deductibleCollectedAt.Time
	}
	if installDate.Valid {
		d.InstallDate = &installDate.Time
	}
	if invoiceSentAt.Valid {
		d.InvoiceSentAt = &invoiceSentAt.Time
	}

	d.InspectionImages = unmarshalImages(inspectionImages)
	d.InstallImages = unmarshalImages(installImages)

	return &d, nil
}

// Image lists are stored as JSON arrays in a TEXT column
func marshalImages(images []string) string {
	if len(images) == 0 {
		return "[]"
	}
	data, err := json.Marshal(images)
	if err != nil {
		return "[]"
	}
	return string(data)
}

func unmarshalImages(raw string) []string {
	if raw == "" || raw == "[]" {
		return nil
	}
	var images []string
	if err := json.Unmarshal([]byte(raw), &images); err != nil {
		return nil
	}
	return images
}

// Verify interface compliance
var _ port.DealRepository = (*DealRepository)(nil)
