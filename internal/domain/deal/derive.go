package deal

import "time"

// ApprovalType classifies the insurer's approval decision
type ApprovalType string

const (
	ApprovalFull    ApprovalType = "full"
	ApprovalPartial ApprovalType = "partial"
	ApprovalSale    ApprovalType = "sale"
)

var validApprovalTypes = map[ApprovalType]bool{
	ApprovalFull:    true,
	ApprovalPartial: true,
	ApprovalSale:    true,
}

// IsValid returns true for the closed set of approval types
func (a ApprovalType) IsValid() bool {
	return validApprovalTypes[a]
}

// Snapshot carries the deal fields the workflow derivation reads. It is a
// plain value; derivation never mutates it.
type Snapshot struct {
	InsuranceCompany string
	PolicyNumber     string
	ClaimNumber      string

	ApprovalType ApprovalType
	// ApprovedAt is the legacy approval marker kept for deals recorded
	// before approval types existed
	ApprovedAt *time.Time

	ContractSigned   bool
	AgreementURL     string
	SignatureURL     string
	LostStatementURL string

	ACVReceiptURL         string
	ACVCollected          bool
	DeductibleReceiptURL  string
	DeductibleCollectedAt *time.Time

	InspectionImages []string
	InstallDate      *time.Time
	InstallImages    []string

	InvoiceURL    string
	InvoiceSentAt *time.Time

	DepreciationReceiptURL     string
	DepreciationCheckCollected bool
}

func (s Snapshot) hasAgreement() bool {
	return s.ContractSigned || s.AgreementURL != "" || s.SignatureURL != ""
}

func (s Snapshot) approvalKnown() bool {
	return s.ApprovalType.IsValid()
}

func (s Snapshot) invoiced() bool {
	return s.InvoiceURL != "" || s.InvoiceSentAt != nil
}

// fullApprovalHeld is the lost-statement gate: a full approval cannot move
// past approved until the lost statement is on file
func (s Snapshot) fullApprovalHeld() bool {
	return s.ApprovalType == ApprovalFull && s.LostStatementURL == ""
}

// derivationRule pairs a predicate with the status it resolves to
type derivationRule struct {
	Name   string
	Status Status
	Match  func(Snapshot) bool
}

// derivationRules is the load-bearing ordering: a strict backward scan from
// the most complete state toward the least, first match wins. Multiple
// predicates can hold at once; position resolves the tie. Reordering these
// changes derived statuses, which is why derive_test asserts the sequence.
var derivationRules = []derivationRule{
	{
		Name:   "depreciation check deposited",
		Status: StatusComplete,
		Match: func(s Snapshot) bool {
			return s.DepreciationReceiptURL != "" && s.DepreciationCheckCollected
		},
	},
	{
		Name:   "invoiced with depreciation receipt",
		Status: StatusDepreciationCollected,
		Match: func(s Snapshot) bool {
			return s.invoiced() && s.DepreciationReceiptURL != ""
		},
	},
	{
		Name:   "invoiced",
		Status: StatusInvoiceSent,
		Match:  func(s Snapshot) bool { return s.invoiced() },
	},
	{
		Name:   "install photographed",
		Status: StatusInstalled,
		Match:  func(s Snapshot) bool { return len(s.InstallImages) > 0 },
	},
	{
		Name:   "install on calendar",
		Status: StatusInstallScheduled,
		Match:  func(s Snapshot) bool { return s.InstallDate != nil },
	},
	{
		Name:   "deductible received",
		Status: StatusCollectDeductible,
		Match: func(s Snapshot) bool {
			return s.DeductibleReceiptURL != "" || s.DeductibleCollectedAt != nil
		},
	},
	{
		Name:   "acv received",
		Status: StatusCollectACV,
		Match: func(s Snapshot) bool {
			return s.ACVReceiptURL != "" || s.ACVCollected
		},
	},
	{
		Name:   "full approval held for lost statement",
		Status: StatusApproved,
		Match: func(s Snapshot) bool {
			return s.hasAgreement() && s.approvalKnown() && s.fullApprovalHeld()
		},
	},
	{
		Name:   "agreement signed and approved",
		Status: StatusSigned,
		Match: func(s Snapshot) bool {
			return s.hasAgreement() && s.approvalKnown()
		},
	},
	{
		Name:   "approved awaiting agreement",
		Status: StatusApproved,
		Match:  func(s Snapshot) bool { return s.approvalKnown() },
	},
	{
		Name:   "agreement with legacy approval date",
		Status: StatusSigned,
		Match: func(s Snapshot) bool {
			return s.hasAgreement() && s.ApprovedAt != nil
		},
	},
	{
		Name:   "agreement awaiting approval",
		Status: StatusAdjusterMet,
		Match:  func(s Snapshot) bool { return s.hasAgreement() },
	},
	{
		Name:   "claim filed",
		Status: StatusClaimFiled,
		Match: func(s Snapshot) bool {
			return s.InsuranceCompany != "" && s.ClaimNumber != ""
		},
	},
	{
		Name:   "inspection documented",
		Status: StatusInspectionScheduled,
		Match:  func(s Snapshot) bool { return len(s.InspectionImages) > 0 },
	},
}

// DeriveStatus infers the workflow status a deal belongs in from its
// populated fields. It is total: every snapshot, including an empty one,
// maps to a valid status, with lead as the fallback.
func DeriveStatus(s Snapshot) Status {
	for _, rule := range derivationRules {
		if rule.Match(s) {
			return rule.Status
		}
	}
	return StatusLead
}

// fieldChecks maps StatusConfig required-field names to presence predicates
var fieldChecks = map[string]func(Snapshot) bool{
	"inspection_images":            func(s Snapshot) bool { return len(s.InspectionImages) > 0 },
	"insurance_company":            func(s Snapshot) bool { return s.InsuranceCompany != "" },
	"claim_number":                 func(s Snapshot) bool { return s.ClaimNumber != "" },
	"agreement_url":                func(s Snapshot) bool { return s.hasAgreement() },
	"approval_type":                func(s Snapshot) bool { return s.approvalKnown() },
	"signature_url":                func(s Snapshot) bool { return s.SignatureURL != "" },
	"acv_receipt_url":              func(s Snapshot) bool { return s.ACVReceiptURL != "" || s.ACVCollected },
	"deductible_receipt_url":       func(s Snapshot) bool { return s.DeductibleReceiptURL != "" || s.DeductibleCollectedAt != nil },
	"install_date":                 func(s Snapshot) bool { return s.InstallDate != nil },
	"install_images":               func(s Snapshot) bool { return len(s.InstallImages) > 0 },
	"invoice_url":                  func(s Snapshot) bool { return s.invoiced() },
	"depreciation_receipt_url":     func(s Snapshot) bool { return s.DepreciationReceiptURL != "" },
	"depreciation_check_collected": func(s Snapshot) bool { return s.DepreciationCheckCollected },
}

// MissingFields reports which of a status's required fields are absent from
// the snapshot. An empty result means the deal is ready to advance.
func MissingFields(s Snapshot, status Status) []string {
	cfg, ok := statusConfigs[status]
	if !ok {
		return nil
	}
	var missing []string
	for _, field := range cfg.RequiredFields {
		check, known := fieldChecks[field]
		if !known || !check(s) {
			missing = append(missing, field)
		}
	}
	// The lost-statement gate only binds full approvals
	if status == StatusApproved && s.approvalKnown() && s.fullApprovalHeld() {
		missing = append(missing, "lost_statement_url")
	}
	return missing
}
