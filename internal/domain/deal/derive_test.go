package deal

import (
	"testing"
	"time"
)

func ptrTime(t time.Time) *time.Time { return &t }

func TestDeriveStatus_EmptyDealIsLead(t *testing.T) {
	if got := DeriveStatus(Snapshot{}); got != StatusLead {
		t.Errorf("DeriveStatus(empty) = %v, want %v", got, StatusLead)
	}
}

func TestDeriveStatus_ForwardProgression(t *testing.T) {
	// Build a snapshot up field by field and watch the derived status walk
	// the workflow forward.
	now := time.Now()
	s := Snapshot{}

	steps := []struct {
		name     string
		mutate   func(*Snapshot)
		expected Status
	}{
		{
			name:     "inspection photos taken",
			mutate:   func(s *Snapshot) { s.InspectionImages = []string{"roof1.jpg"} },
			expected: StatusInspectionScheduled,
		},
		{
			name: "claim filed with insurer",
			mutate: func(s *Snapshot) {
				s.InsuranceCompany = "State Farm"
				s.ClaimNumber = "CLM-1042"
			},
			expected: StatusClaimFiled,
		},
		{
			name:     "agreement captured, no approval yet",
			mutate:   func(s *Snapshot) { s.AgreementURL = "https://files/agreement.pdf" },
			expected: StatusAdjusterMet,
		},
		{
			name:     "partial approval recorded",
			mutate:   func(s *Snapshot) { s.ApprovalType = ApprovalPartial },
			expected: StatusSigned,
		},
		{
			name:     "acv check received",
			mutate:   func(s *Snapshot) { s.ACVReceiptURL = "https://files/acv.jpg" },
			expected: StatusCollectACV,
		},
		{
			name:     "deductible collected",
			mutate:   func(s *Snapshot) { s.DeductibleCollectedAt = ptrTime(now) },
			expected: StatusCollectDeductible,
		},
		{
			name:     "install scheduled",
			mutate:   func(s *Snapshot) { s.InstallDate = ptrTime(now.Add(72 * time.Hour)) },
			expected: StatusInstallScheduled,
		},
		{
			name:     "install photographed",
			mutate:   func(s *Snapshot) { s.InstallImages = []string{"done1.jpg", "done2.jpg"} },
			expected: StatusInstalled,
		},
		{
			name:     "invoice sent",
			mutate:   func(s *Snapshot) { s.InvoiceSentAt = ptrTime(now) },
			expected: StatusInvoiceSent,
		},
		{
			name:     "depreciation receipt uploaded",
			mutate:   func(s *Snapshot) { s.DepreciationReceiptURL = "https://files/dep.jpg" },
			expected: StatusDepreciationCollected,
		},
		{
			name:     "depreciation check deposited",
			mutate:   func(s *Snapshot) { s.DepreciationCheckCollected = true },
			expected: StatusComplete,
		},
	}

	for _, step := range steps {
		step.mutate(&s)
		if got := DeriveStatus(s); got != step.expected {
			t.Errorf("after %q: DeriveStatus() = %v, want %v", step.name, got, step.expected)
		}
	}
}

func TestDeriveStatus_CompleteDominatesEverything(t *testing.T) {
	// The top rule wins no matter what else is or is not populated.
	s := Snapshot{
		DepreciationReceiptURL:     "https://files/dep.jpg",
		DepreciationCheckCollected: true,
	}
	if got := DeriveStatus(s); got != StatusComplete {
		t.Errorf("DeriveStatus() = %v, want %v", got, StatusComplete)
	}
}

func TestDeriveStatus_InstallPhotosBeatScheduledDate(t *testing.T) {
	// Photos without a date still mean installed; the photo signal outranks
	// the calendar signal.
	s := Snapshot{
		InstallImages: []string{"done.jpg"},
	}
	if got := DeriveStatus(s); got != StatusInstalled {
		t.Errorf("DeriveStatus() = %v, want %v", got, StatusInstalled)
	}

	s.InstallDate = ptrTime(time.Now())
	if got := DeriveStatus(s); got != StatusInstalled {
		t.Errorf("DeriveStatus() with both signals = %v, want %v", got, StatusInstalled)
	}
}

func TestDeriveStatus_LostStatementGate(t *testing.T) {
	// A full approval is held at approved until the lost statement arrives,
	// even with a signature on file.
	s := Snapshot{
		SignatureURL: "https://files/sig.png",
		ApprovalType: ApprovalFull,
	}
	if got := DeriveStatus(s); got != StatusApproved {
		t.Errorf("full approval without lost statement = %v, want %v", got, StatusApproved)
	}

	s.LostStatementURL = "https://files/lost.pdf"
	if got := DeriveStatus(s); got != StatusSigned {
		t.Errorf("full approval with lost statement = %v, want %v", got, StatusSigned)
	}

	// Partial and sale approvals never hit the gate.
	for _, at := range []ApprovalType{ApprovalPartial, ApprovalSale} {
		s := Snapshot{ContractSigned: true, ApprovalType: at}
		if got := DeriveStatus(s); got != StatusSigned {
			t.Errorf("%s approval = %v, want %v", at, got, StatusSigned)
		}
	}
}

func TestDeriveStatus_ApprovalWithoutAgreement(t *testing.T) {
	s := Snapshot{ApprovalType: ApprovalSale}
	if got := DeriveStatus(s); got != StatusApproved {
		t.Errorf("approval without agreement = %v, want %v", got, StatusApproved)
	}
}

func TestDeriveStatus_LegacyApprovedDate(t *testing.T) {
	// Deals recorded before approval types: an agreement plus the old
	// approved_date still counts as signed.
	s := Snapshot{
		ContractSigned: true,
		ApprovedAt:     ptrTime(time.Now()),
	}
	if got := DeriveStatus(s); got != StatusSigned {
		t.Errorf("legacy approved date = %v, want %v", got, StatusSigned)
	}
}

func TestDeriveStatus_Idempotent(t *testing.T) {
	s := Snapshot{
		InsuranceCompany: "Allstate",
		ClaimNumber:      "CLM-7",
		InspectionImages: []string{"a.jpg"},
	}
	first := DeriveStatus(s)
	second := DeriveStatus(s)
	if first != second {
		t.Errorf("DeriveStatus not idempotent: %v then %v", first, second)
	}
}

func TestDerivationRules_Order(t *testing.T) {
	// The scan order is the design: most complete state first. Catch
	// accidental reordering in future edits.
	expected := []Status{
		StatusComplete,
		StatusDepreciationCollected,
		StatusInvoiceSent,
		StatusInstalled,
		StatusInstallScheduled,
		StatusCollectDeductible,
		StatusCollectACV,
		StatusApproved,
		StatusSigned,
		StatusApproved,
		StatusSigned,
		StatusAdjusterMet,
		StatusClaimFiled,
		StatusInspectionScheduled,
	}

	if len(derivationRules) != len(expected) {
		t.Fatalf("rule count = %d, want %d", len(derivationRules), len(expected))
	}
	for i, rule := range derivationRules {
		if rule.Status != expected[i] {
			t.Errorf("rule %d (%s) resolves to %v, want %v", i, rule.Name, rule.Status, expected[i])
		}
	}
}

func TestMissingFields(t *testing.T) {
	tests := []struct {
		name     string
		snapshot Snapshot
		status   Status
		expected []string
	}{
		{
			name:     "lead missing inspection photos",
			snapshot: Snapshot{},
			status:   StatusLead,
			expected: []string{"inspection_images"},
		},
		{
			name:     "lead ready to advance",
			snapshot: Snapshot{InspectionImages: []string{"a.jpg"}},
			status:   StatusLead,
			expected: nil,
		},
		{
			name:     "inspection missing claim data",
			snapshot: Snapshot{InsuranceCompany: "Allstate"},
			status:   StatusInspectionScheduled,
			expected: []string{"claim_number"},
		},
		{
			name:     "full approval needs lost statement",
			snapshot: Snapshot{ApprovalType: ApprovalFull, SignatureURL: "https://files/sig.png"},
			status:   StatusApproved,
			expected: []string{"lost_statement_url"},
		},
		{
			name:     "terminal status has no requirements",
			snapshot: Snapshot{},
			status:   StatusComplete,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MissingFields(tt.snapshot, tt.status)
			if len(got) != len(tt.expected) {
				t.Fatalf("MissingFields() = %v, want %v", got, tt.expected)
			}
			for i := range got {
				if got[i] != tt.expected[i] {
					t.Errorf("MissingFields()[%d] = %s, want %s", i, got[i], tt.expected[i])
				}
			}
		})
	}
}
