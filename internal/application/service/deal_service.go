package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/stormline/roofcrm/internal/application/port"
	"github.com/stormline/roofcrm/internal/domain/deal"
	"github.com/stormline/roofcrm/internal/domain/entity"
)

// Logger interface for minimal logging dependency
type Logger interface {
	Info(msg string, keysAndValues ...interface{})
	Error(msg string, keysAndValues ...interface{})
}

var (
	// ErrDealNotFound is returned when a deal lookup misses
	ErrDealNotFound = errors.New("deal not found")

	// ErrCustomerNotFound is returned when a deal references a missing customer
	ErrCustomerNotFound = errors.New("customer not found")

	// ErrEndOfWorkflow is returned when advancing or reverting past the table
	ErrEndOfWorkflow = errors.New("no adjacent status in workflow")

	// ErrTerminalStatus is returned when moving a deal out of a terminal status
	ErrTerminalStatus = errors.New("deal is in a terminal status")

	// ErrRequirementsNotMet is returned when advancing with required fields absent
	ErrRequirementsNotMet = errors.New("progression requirements not met")

	// ErrInvalidStatus is returned for status values outside the canonical table
	ErrInvalidStatus = errors.New("invalid status")

	// ErrInvalidApprovalType is returned for approval types outside the closed set
	ErrInvalidApprovalType = errors.New("invalid approval type")
)

// RequirementsError carries the field names blocking an advance
type RequirementsError struct {
	Missing []string
}

func (e *RequirementsError) Error() string {
	return fmt.Sprintf("progression requirements not met: missing %s", strings.Join(e.Missing, ", "))
}

func (e *RequirementsError) Unwrap() error { return ErrRequirementsNotMet }

// CreateDealInput carries the fields a rep enters when logging a new lead
type CreateDealInput struct {
	CustomerID int64  `json:"customer_id"`
	RepID      string `json:"rep_id"`
}

// DealPatch holds optional field updates; nil pointers leave fields untouched
type DealPatch struct {
	InsuranceCompany *string `json:"insurance_company,omitempty"`
	PolicyNumber     *string `json:"policy_number,omitempty"`
	ClaimNumber      *string `json:"claim_number,omitempty"`

	RCV                 *float64 `json:"rcv,omitempty"`
	DepreciationPercent *float64 `json:"depreciation_percent,omitempty"`
	Deductible          *float64 `json:"deductible,omitempty"`

	ApprovalType     *string    `json:"approval_type,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ContractSigned   *bool      `json:"contract_signed,omitempty"`
	AgreementURL     *string    `json:"agreement_url,omitempty"`
	SignatureURL     *string    `json:"signature_url,omitempty"`
	LostStatementURL *string    `json:"lost_statement_url,omitempty"`

	ACVReceiptURL         *string    `json:"acv_receipt_url,omitempty"`
	ACVCollected          *bool      `json:"acv_collected,omitempty"`
	DeductibleReceiptURL  *string    `json:"deductible_receipt_url,omitempty"`
	DeductibleCollectedAt *time.Time `json:"deductible_collected_at,omitempty"`

	InspectionImages *[]string  `json:"inspection_images,omitempty"`
	InstallDate      *time.Time `json:"install_date,omitempty"`
	InstallImages    *[]string  `json:"install_images,omitempty"`

	InvoiceURL    *string    `json:"invoice_url,omitempty"`
	InvoiceSentAt *time.Time `json:"invoice_sent_at,omitempty"`

	DepreciationReceiptURL     *string `json:"depreciation_receipt_url,omitempty"`
	DepreciationCheckCollected *bool   `json:"depreciation_check_collected,omitempty"`
}

// StatusReport is the workflow view of one deal
type StatusReport struct {
	Stored          deal.Status `json:"stored"`
	Derived         deal.Status `json:"derived"`
	Drifted         bool        `json:"drifted"`
	Phase           deal.Phase  `json:"phase"`
	ProgressPercent int         `json:"progress_percent"`
	Requirements    []string    `json:"requirements"`
	MissingFields   []string    `json:"missing_fields,omitempty"`
}

// DealService manages deals and keeps their stored status in line with the
// derived one
type DealService interface {
	Create(ctx context.Context, in CreateDealInput) (*entity.Deal, error)
	Get(ctx context.Context, id int64) (*entity.Deal, error)
	GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error)
	List(ctx context.Context, limit, offset int) ([]*entity.Deal, error)
	ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error)
	UpdateFields(ctx context.Context, id int64, patch DealPatch, actor string) (*entity.Deal, error)
	Advance(ctx context.Context, id int64, actor string) (*entity.Deal, error)
	Revert(ctx context.Context, id int64, actor string) (*entity.Deal, error)
	OverrideStatus(ctx context.Context, id int64, status deal.Status, actor string) (*entity.Deal, error)
	StatusOf(ctx context.Context, id int64) (*StatusReport, error)
	History(ctx context.Context, id int64) ([]*entity.StatusHistory, error)
}

type dealServiceImpl struct {
	dealRepo     port.DealRepository
	customerRepo port.CustomerRepository
	historyRepo  port.HistoryRepository
	txManager    port.TransactionManager
	logger       Logger
}

// NewDealService creates a new DealService
func NewDealService(
	dealRepo port.DealRepository,
	customerRepo port.CustomerRepository,
	historyRepo port.HistoryRepository,
	txManager port.TransactionManager,
	logger Logger,
) DealService {
	return &dealServiceImpl{
		dealRepo:     dealRepo,
		customerRepo: customerRepo,
		historyRepo:  historyRepo,
		txManager:    txManager,
		logger:       logger,
	}
}

// Create logs a new homeowner lead as a deal
func (s *dealServiceImpl) Create(ctx context.Context, in CreateDealInput) (*entity.Deal, error) {
	customer, err := s.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, fmt.Errorf("lookup customer: %w", err)
	}
	if customer == nil {
		return nil, ErrCustomerNotFound
	}

	now := time.Now()
	d := &entity.Deal{
		PublicID:     uuid.NewString(),
		CustomerID:   in.CustomerID,
		RepID:        in.RepID,
		Status:       deal.StatusLead.String(),
		StatusSource: entity.StatusSourceDerived,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.dealRepo.Create(txCtx, d); err != nil {
			return fmt.Errorf("create deal: %w", err)
		}
		return s.historyRepo.Append(txCtx, &entity.StatusHistory{
			DealID:    d.ID,
			ToStatus:  d.Status,
			Source:    entity.StatusSourceDerived,
			Actor:     in.RepID,
			CreatedAt: now,
		})
	})
	if err != nil {
		s.logger.Error("Failed to create deal", "error", err, "customer_id", in.CustomerID)
		return nil, err
	}

	s.logger.Info("Deal created", "id", d.ID, "public_id", d.PublicID, "rep_id", in.RepID)
	return d, nil
}

// Get retrieves a deal by ID
func (s *dealServiceImpl) Get(ctx context.Context, id int64) (*entity.Deal, error) {
	d, err := s.dealRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDealNotFound
	}
	return d, nil
}

// GetByPublicID retrieves a deal by its public UUID
func (s *dealServiceImpl) GetByPublicID(ctx context.Context, publicID string) (*entity.Deal, error) {
	d, err := s.dealRepo.GetByPublicID(ctx, publicID)
	if err != nil {
		return nil, err
	}
	if d == nil {
		return nil, ErrDealNotFound
	}
	return d, nil
}

// List retrieves deals with pagination
func (s *dealServiceImpl) List(ctx context.Context, limit, offset int) ([]*entity.Deal, error) {
	return s.dealRepo.List(ctx, limit, offset)
}

// ListByStatus retrieves deals in one workflow status. Legacy status values
// are accepted and queried as their canonical equivalent.
func (s *dealServiceImpl) ListByStatus(ctx context.Context, status string, limit, offset int) ([]*entity.Deal, error) {
	normalized := deal.NormalizeStatus(status)
	if normalized == deal.StatusLead && status != deal.StatusLead.String() {
		return nil, ErrInvalidStatus
	}
	return s.dealRepo.ListByStatus(ctx, normalized.String(), limit, offset)
}

// UpdateFields applies a patch and re-derives the status. Derived status is
// authoritative on every field write: a manual override survives only until
// the next patch.
func (s *dealServiceImpl) UpdateFields(ctx context.Context, id int64, patch DealPatch, actor string) (*entity.Deal, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := applyPatch(d, patch); err != nil {
		return nil, err
	}

	previous := d.Status
	derived := deal.DeriveStatus(d.Snapshot())
	d.Status = derived.String()
	d.StatusSource = entity.StatusSourceDerived
	d.UpdatedAt = time.Now()

	err = s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.dealRepo.Update(txCtx, d); err != nil {
			return fmt.Errorf("update deal: %w", err)
		}
		if d.Status == previous {
			return nil
		}
		return s.historyRepo.Append(txCtx, &entity.StatusHistory{
			DealID:     d.ID,
			FromStatus: previous,
			ToStatus:   d.Status,
			Source:     entity.StatusSourceDerived,
			Actor:      actor,
			CreatedAt:  d.UpdatedAt,
		})
	})
	if err != nil {
		s.logger.Error("Failed to update deal", "error", err, "id", id)
		return nil, err
	}

	if d.Status != previous {
		s.logger.Info("Deal status derived", "id", d.ID, "from", previous, "to", d.Status)
	}
	return d, nil
}

// Advance moves a deal one step forward along the workflow, refusing when
// the current step's required fields are absent
func (s *dealServiceImpl) Advance(ctx context.Context, id int64, actor string) (*entity.Deal, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := deal.NormalizeStatus(d.Status)
	if current.IsTerminal() {
		return nil, ErrTerminalStatus
	}
	cfg, _ := deal.Config(current)
	if cfg.Next == "" {
		return nil, ErrEndOfWorkflow
	}

	if missing := deal.MissingFields(d.Snapshot(), current); len(missing) > 0 {
		return nil, &RequirementsError{Missing: missing}
	}

	return s.moveTo(ctx, d, cfg.Next, actor)
}

// Revert moves a deal one step backward along the workflow
func (s *dealServiceImpl) Revert(ctx context.Context, id int64, actor string) (*entity.Deal, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	current := deal.NormalizeStatus(d.Status)
	cfg, ok := deal.Config(current)
	if !ok || cfg.Prev == "" {
		return nil, ErrEndOfWorkflow
	}

	return s.moveTo(ctx, d, cfg.Prev, actor)
}

// OverrideStatus pins a deal to an arbitrary valid status. The override is
// recorded as manual so drift from the derived value stays visible.
func (s *dealServiceImpl) OverrideStatus(ctx context.Context, id int64, status deal.Status, actor string) (*entity.Deal, error) {
	if !status.IsValid() {
		return nil, ErrInvalidStatus
	}

	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.moveTo(ctx, d, status, actor)
}

func (s *dealServiceImpl) moveTo(ctx context.Context, d *entity.Deal, to deal.Status, actor string) (*entity.Deal, error) {
	previous := d.Status
	d.Status = to.String()
	d.StatusSource = entity.StatusSourceManual
	d.UpdatedAt = time.Now()

	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		if err := s.dealRepo.UpdateStatus(txCtx, d.ID, d.Status, d.StatusSource); err != nil {
			return fmt.Errorf("update status: %w", err)
		}
		return s.historyRepo.Append(txCtx, &entity.StatusHistory{
			DealID:     d.ID,
			FromStatus: previous,
			ToStatus:   d.Status,
			Source:     entity.StatusSourceManual,
			Actor:      actor,
			CreatedAt:  d.UpdatedAt,
		})
	})
	if err != nil {
		s.logger.Error("Failed to move deal", "error", err, "id", d.ID, "to", to)
		return nil, err
	}

	s.logger.Info("Deal status set", "id", d.ID, "from", previous, "to", d.Status, "actor", actor)
	return d, nil
}

// StatusOf reports the stored and derived status side by side, with what is
// needed to progress
func (s *dealServiceImpl) StatusOf(ctx context.Context, id int64) (*StatusReport, error) {
	d, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	stored := deal.NormalizeStatus(d.Status)
	snapshot := d.Snapshot()
	derived := deal.DeriveStatus(snapshot)

	return &StatusReport{
		Stored:          stored,
		Derived:         derived,
		Drifted:         stored != derived,
		Phase:           stored.Phase(),
		ProgressPercent: deal.ProgressPercent(stored),
		Requirements:    deal.ProgressionRequirements(stored),
		MissingFields:   deal.MissingFields(snapshot, stored),
	}, nil
}

// History lists the status audit trail for a deal
func (s *dealServiceImpl) History(ctx context.Context, id int64) ([]*entity.StatusHistory, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	return s.historyRepo.ListByDealID(ctx, id)
}

// applyPatch copies set patch fields onto the deal, recomputing the
// insurance split when the claim figures change
func applyPatch(d *entity.Deal, p DealPatch) error {
	if p.InsuranceCompany != nil {
		d.InsuranceCompany = *p.InsuranceCompany
	}
	if p.PolicyNumber != nil {
		d.PolicyNumber = *p.PolicyNumber
	}
	if p.ClaimNumber != nil {
		d.ClaimNumber = *p.ClaimNumber
	}

	if p.RCV != nil || p.DepreciationPercent != nil || p.Deductible != nil {
		rcv := d.RCV
		if p.RCV != nil {
			rcv = *p.RCV
		}
		deductible := d.Deductible
		if p.Deductible != nil {
			deductible = *p.Deductible
		}
		// The percentage comes from the policy, so it survives an RCV
		// revision; the absolute amounts are recomputed from it.
		pct := 0.0
		if d.RCV > 0 && d.Depreciation > 0 {
			pct = d.Depreciation / d.RCV * 100
		}
		if p.DepreciationPercent != nil {
			pct = *p.DepreciationPercent
		}
		split, err := deal.SplitInsurance(rcv, pct, deductible)
		if err != nil {
			return err
		}
		d.RCV = split.RCV
		d.ACV = split.ACV
		d.Depreciation = split.Depreciation
		d.Deductible = split.Deductible
	}

	if p.ApprovalType != nil {
		if *p.ApprovalType != "" && !deal.ApprovalType(*p.ApprovalType).IsValid() {
			return ErrInvalidApprovalType
		}
		d.ApprovalType = *p.ApprovalType
	}
	if p.ApprovedAt != nil {
		d.ApprovedAt = p.ApprovedAt
	}
	if p.ContractSigned != nil {
		d.ContractSigned = *p.ContractSigned
	}
	if p.AgreementURL != nil {
		d.AgreementURL = *p.AgreementURL
	}
	if p.SignatureURL != nil {
		d.SignatureURL = *p.SignatureURL
	}
	if p.LostStatementURL != nil {
		d.LostStatementURL = *p.LostStatementURL
	}

	if p.ACVReceiptURL != nil {
		d.ACVReceiptURL = *p.ACVReceiptURL
	}
	if p.ACVCollected != nil {
		d.ACVCollected = *p.ACVCollected
	}
	if p.DeductibleReceiptURL != nil {
		d.DeductibleReceiptURL = *p.DeductibleReceiptURL
	}
	if p.DeductibleCollectedAt != nil {
		d.DeductibleCollectedAt = p.DeductibleCollectedAt
	}

	if p.InspectionImages != nil {
		d.InspectionImages = *p.InspectionImages
	}
	if p.InstallDate != nil {
		d.InstallDate = p.InstallDate
	}
	if p.InstallImages != nil {
		d.InstallImages = *p.InstallImages
	}

	if p.InvoiceURL != nil {
		d.InvoiceURL = *p.InvoiceURL
	}
	if p.InvoiceSentAt != nil {
		d.InvoiceSentAt = p.InvoiceSentAt
	}

	if p.DepreciationReceiptURL != nil {
		d.DepreciationReceiptURL = *p.DepreciationReceiptURL
	}
	if p.DepreciationCheckCollected != nil {
		d.DepreciationCheckCollected = *p.DepreciationCheckCollected
	}

	return nil
}
