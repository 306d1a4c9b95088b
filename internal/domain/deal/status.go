package deal

// Status represents a deal's position in the roofing workflow
type Status string

const (
	StatusLead                  Status = "lead"
	StatusInspectionScheduled   Status = "inspection_scheduled"
	StatusClaimFiled            Status = "claim_filed"
	StatusAdjusterMet           Status = "adjuster_met"
	StatusApproved              Status = "approved"
	StatusSigned                Status = "signed"
	StatusCollectACV            Status = "collect_acv"
	StatusCollectDeductible     Status = "collect_deductible"
	StatusInstallScheduled      Status = "install_scheduled"
	StatusInstalled             Status = "installed"
	StatusInvoiceSent           Status = "invoice_sent"
	StatusDepreciationCollected Status = "depreciation_collected"
	StatusComplete              Status = "complete"
	StatusCancelled             Status = "cancelled"
	StatusOnHold                Status = "on_hold"
)

// Phase is a coarse grouping of statuses for progress display
type Phase string

const (
	PhaseSign       Phase = "sign"
	PhaseBuild      Phase = "build"
	PhaseFinalizing Phase = "finalizing"
	PhaseComplete   Phase = "complete"
	PhaseOther      Phase = "other"
)

// totalSteps is the number of on-track steps (lead through complete)
const totalSteps = 13

// StatusConfig holds static metadata for one status
type StatusConfig struct {
	Label       string
	Phase       Phase
	Color       string
	Description string
	Next        Status
	Prev        Status
	Step        int
	// RequiredFields must be present on the deal before advancing to Next
	RequiredFields []string
	// NextActions are the human-readable steps to progress the deal
	NextActions []string
}

var statusConfigs = map[Status]StatusConfig{
	StatusLead: {
		Label:          "Lead",
		Phase:          PhaseSign,
		Color:          "slate",
		Description:    "New homeowner contact, no inspection yet",
		Next:           StatusInspectionScheduled,
		Step:           1,
		RequiredFields: []string{"inspection_images"},
		NextActions:    []string{"Schedule and photograph the roof inspection"},
	},
	StatusInspectionScheduled: {
		Label:          "Inspection",
		Phase:          PhaseSign,
		Color:          "sky",
		Description:    "Roof inspected and documented",
		Next:           StatusClaimFiled,
		Prev:           StatusLead,
		Step:           2,
		RequiredFields: []string{"insurance_company", "claim_number"},
		NextActions:    []string{"File the insurance claim"},
	},
	StatusClaimFiled: {
		Label:          "Claim Filed",
		Phase:          PhaseSign,
		Color:          "blue",
		Description:    "Insurance claim filed, awaiting adjuster",
		Next:           StatusAdjusterMet,
		Prev:           StatusInspectionScheduled,
		Step:           3,
		RequiredFields: []string{"agreement_url"},
		NextActions:    []string{"Meet the adjuster and capture the signed agreement"},
	},
	StatusAdjusterMet: {
		Label:          "Adjuster Met",
		Phase:          PhaseSign,
		Color:          "indigo",
		Description:    "Agreement on file, awaiting insurance approval",
		Next:           StatusApproved,
		Prev:           StatusClaimFiled,
		Step:           4,
		RequiredFields: []string{"approval_type"},
		NextActions:    []string{"Record the insurance approval decision"},
	},
	StatusApproved: {
		Label:          "Approved",
		Phase:          PhaseSign,
		Color:          "violet",
		Description:    "Claim approved by the insurer",
		Next:           StatusSigned,
		Prev:           StatusAdjusterMet,
		Step:           5,
		RequiredFields: []string{"signature_url"},
		NextActions: []string{
			"Collect the homeowner signature",
			"Upload the lost statement for full approvals",
		},
	},
	StatusSigned: {
		Label:          "Signed",
		Phase:          PhaseSign,
		Color:          "purple",
		Description:    "Homeowner signed, job is sold",
		Next:           StatusCollectACV,
		Prev:           StatusApproved,
		Step:           6,
		RequiredFields: []string{"acv_receipt_url"},
		NextActions:    []string{"Collect the ACV check"},
	},
	StatusCollectACV: {
		Label:          "ACV Collected",
		Phase:          PhaseBuild,
		Color:          "amber",
		Description:    "First insurance check received",
		Next:           StatusCollectDeductible,
		Prev:           StatusSigned,
		Step:           7,
		RequiredFields: []string{"deductible_receipt_url"},
		NextActions:    []string{"Collect the homeowner deductible"},
	},
	StatusCollectDeductible: {
		Label:          "Deductible Collected",
		Phase:          PhaseBuild,
		Color:          "orange",
		Description:    "Homeowner deductible received",
		Next:           StatusInstallScheduled,
		Prev:           StatusCollectACV,
		Step:           8,
		RequiredFields: []string{"install_date"},
		NextActions:    []string{"Put the install on the calendar"},
	},
	StatusInstallScheduled: {
		Label:          "Install Scheduled",
		Phase:          PhaseBuild,
		Color:          "yellow",
		Description:    "Crew scheduled for the install",
		Next:           StatusInstalled,
		Prev:           StatusCollectDeductible,
		Step:           9,
		RequiredFields: []string{"install_images"},
		NextActions:    []string{"Photograph the completed install"},
	},
	StatusInstalled: {
		Label:          "Installed",
		Phase:          PhaseBuild,
		Color:          "lime",
		Description:    "Roof installed and documented",
		Next:           StatusInvoiceSent,
		Prev:           StatusInstallScheduled,
		Step:           10,
		RequiredFields: []string{"invoice_url"},
		NextActions:    []string{"Generate and send invoice"},
	},
	StatusInvoiceSent: {
		Label:          "Invoice Sent",
		Phase:          PhaseFinalizing,
		Color:          "teal",
		Description:    "Final invoice sent to the insurer",
		Next:           StatusDepreciationCollected,
		Prev:           StatusInstalled,
		Step:           11,
		RequiredFields: []string{"depreciation_receipt_url"},
		NextActions:    []string{"Collect the depreciation check"},
	},
	StatusDepreciationCollected: {
		Label:          "Depreciation Collected",
		Phase:          PhaseFinalizing,
		Color:          "cyan",
		Description:    "Depreciation check received",
		Next:           StatusComplete,
		Prev:           StatusInvoiceSent,
		Step:           12,
		RequiredFields: []string{"depreciation_check_collected"},
		NextActions:    []string{"Mark the depreciation check deposited"},
	},
	StatusComplete: {
		Label:       "Complete",
		Phase:       PhaseComplete,
		Color:       "green",
		Description: "Job closed out, ready for commission payout",
		Prev:        StatusDepreciationCollected,
		Step:        13,
	},
	StatusCancelled: {
		Label:       "Cancelled",
		Phase:       PhaseOther,
		Color:       "red",
		Description: "Deal cancelled",
		Step:        0,
	},
	StatusOnHold: {
		Label:       "On Hold",
		Phase:       PhaseOther,
		Color:       "gray",
		Description: "Deal paused",
		Step:        0,
	},
}

var terminalStatuses = map[Status]bool{
	StatusComplete:  true,
	StatusCancelled: true,
}

// Config returns the metadata for a status. The second return is false
// for unknown statuses.
func Config(s Status) (StatusConfig, bool) {
	cfg, ok := statusConfigs[s]
	return cfg, ok
}

// String returns the string representation of the status
func (s Status) String() string {
	return string(s)
}

// IsValid returns true if the status is part of the canonical table
func (s Status) IsValid() bool {
	_, ok := statusConfigs[s]
	return ok
}

// IsTerminal returns true for statuses a deal never leaves
func (s Status) IsTerminal() bool {
	return terminalStatuses[s]
}

// Phase returns the coarse phase grouping, PhaseOther for unknown statuses
func (s Status) Phase() Phase {
	cfg, ok := statusConfigs[s]
	if !ok {
		return PhaseOther
	}
	return cfg.Phase
}

// ProgressionRequirements returns the next actions a user must take to move
// the deal forward. Unknown statuses return an empty list.
func ProgressionRequirements(s Status) []string {
	cfg, ok := statusConfigs[s]
	if !ok {
		return []string{}
	}
	if cfg.NextActions == nil {
		return []string{}
	}
	out := make([]string, len(cfg.NextActions))
	copy(out, cfg.NextActions)
	return out
}

// ProgressPercent reports how far along the workflow a status is, 0-100.
// Off-track statuses (cancelled, on hold) report 0.
func ProgressPercent(s Status) int {
	cfg, ok := statusConfigs[s]
	if !ok || cfg.Step == 0 {
		return 0
	}
	return int(float64(cfg.Step)/float64(totalSteps)*100 + 0.5)
}

// Legacy status values from the first revision of the workflow table.
// The materials steps were collapsed into the check-collection steps; stored
// rows may still carry them.
const (
	legacyMaterialsOrdered   = "materials_ordered"
	legacyMaterialsDelivered = "materials_delivered"
)

var legacyStatuses = map[string]Status{
	legacyMaterialsOrdered:   StatusCollectACV,
	legacyMaterialsDelivered: StatusCollectDeductible,
}

// NormalizeStatus maps a stored status string onto the canonical table,
// translating legacy values. Unknown strings fall back to lead.
func NormalizeStatus(raw string) Status {
	if mapped, ok := legacyStatuses[raw]; ok {
		return mapped
	}
	s := Status(raw)
	if s.IsValid() {
		return s
	}
	return StatusLead
}
