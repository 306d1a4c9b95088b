package entity

import (
	"time"

	"github.com/stormline/roofcrm/internal/domain/deal"
)

// Deal represents one roofing job from first contact through payout
type Deal struct {
	ID         int64  `json:"id"`
	PublicID   string `json:"public_id"`
	CustomerID int64  `json:"customer_id"`
	RepID      string `json:"rep_id"`
	Status     string `json:"status"`
	// StatusSource records whether the stored status came from derivation
	// or a manual override
	StatusSource string `json:"status_source"`

	// Insurance
	InsuranceCompany string `json:"insurance_company,omitempty"`
	PolicyNumber     string `json:"policy_number,omitempty"`
	ClaimNumber      string `json:"claim_number,omitempty"`

	// Financials
	RCV          float64 `json:"rcv"`
	ACV          float64 `json:"acv"`
	Depreciation float64 `json:"depreciation"`
	Deductible   float64 `json:"deductible"`

	// Approval and paperwork
	ApprovalType     string     `json:"approval_type,omitempty"`
	ApprovedAt       *time.Time `json:"approved_at,omitempty"`
	ContractSigned   bool       `json:"contract_signed"`
	AgreementURL     string     `json:"agreement_url,omitempty"`
	SignatureURL     string     `json:"signature_url,omitempty"`
	LostStatementURL string     `json:"lost_statement_url,omitempty"`

	// Check collection
	ACVReceiptURL         string     `json:"acv_receipt_url,omitempty"`
	ACVCollected          bool       `json:"acv_collected"`
	DeductibleReceiptURL  string     `json:"deductible_receipt_url,omitempty"`
	DeductibleCollectedAt *time.Time `json:"deductible_collected_at,omitempty"`

	// Inspection and install
	InspectionImages []string   `json:"inspection_images,omitempty"`
	InstallDate      *time.Time `json:"install_date,omitempty"`
	InstallImages    []string   `json:"install_images,omitempty"`

	// Invoicing and payout
	InvoiceURL                 string     `json:"invoice_url,omitempty"`
	InvoiceSentAt              *time.Time `json:"invoice_sent_at,omitempty"`
	DepreciationReceiptURL     string     `json:"depreciation_receipt_url,omitempty"`
	DepreciationCheckCollected bool       `json:"depreciation_check_collected"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// StatusSource values
const (
	StatusSourceDerived = "derived"
	StatusSourceManual  = "manual"
)

// Snapshot projects the deal onto the fields the workflow derivation reads
func (d *Deal) Snapshot() deal.Snapshot {
	return deal.Snapshot{
		InsuranceCompany:           d.InsuranceCompany,
		PolicyNumber:               d.PolicyNumber,
		ClaimNumber:                d.ClaimNumber,
		ApprovalType:               deal.ApprovalType(d.ApprovalType),
		ApprovedAt:                 d.ApprovedAt,
		ContractSigned:             d.ContractSigned,
		AgreementURL:               d.AgreementURL,
		SignatureURL:               d.SignatureURL,
		LostStatementURL:           d.LostStatementURL,
		ACVReceiptURL:              d.ACVReceiptURL,
		ACVCollected:               d.ACVCollected,
		DeductibleReceiptURL:       d.DeductibleReceiptURL,
		DeductibleCollectedAt:      d.DeductibleCollectedAt,
		InspectionImages:           d.InspectionImages,
		InstallDate:                d.InstallDate,
		InstallImages:              d.InstallImages,
		InvoiceURL:                 d.InvoiceURL,
		InvoiceSentAt:              d.InvoiceSentAt,
		DepreciationReceiptURL:     d.DepreciationReceiptURL,
		DepreciationCheckCollected: d.DepreciationCheckCollected,
	}
}

// StatusHistory is one row of the append-only status audit trail
type StatusHistory struct {
	ID         int64     `json:"id"`
	DealID     int64     `json:"deal_id"`
	FromStatus string    `json:"from_status"`
	ToStatus   string    `json:"to_status"`
	Source     string    `json:"source"`
	Actor      string    `json:"actor,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
