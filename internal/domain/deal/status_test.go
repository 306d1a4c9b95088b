package deal

import "testing"

func TestStatus_IsTerminal(t *testing.T) {
	tests := []struct {
		status   Status
		expected bool
	}{
		{StatusLead, false},
		{StatusInspectionScheduled, false},
		{StatusClaimFiled, false},
		{StatusAdjusterMet, false},
		{StatusApproved, false},
		{StatusSigned, false},
		{StatusCollectACV, false},
		{StatusCollectDeductible, false},
		{StatusInstallScheduled, false},
		{StatusInstalled, false},
		{StatusInvoiceSent, false},
		{StatusDepreciationCollected, false},
		{StatusOnHold, false},
		{StatusComplete, true},
		{StatusCancelled, true},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.IsTerminal(); got != tt.expected {
				t.Errorf("Status.IsTerminal() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_IsValid(t *testing.T) {
	tests := []struct {
		name     string
		status   Status
		expected bool
	}{
		{"valid status", StatusLead, true},
		{"valid status", StatusComplete, true},
		{"legacy status is not canonical", Status("materials_ordered"), false},
		{"invalid status", Status("INVALID"), false},
		{"empty status", Status(""), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.status.IsValid(); got != tt.expected {
				t.Errorf("Status.IsValid() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestStatus_NextPrevChain(t *testing.T) {
	// Walking Next from lead must visit every on-track step exactly once
	// and land on complete.
	current := StatusLead
	visited := map[Status]bool{current: true}
	steps := 1

	for {
		cfg, ok := Config(current)
		if !ok {
			t.Fatalf("no config for %s", current)
		}
		if cfg.Next == "" {
			break
		}
		next, ok := Config(cfg.Next)
		if !ok {
			t.Fatalf("next of %s is unknown status %s", current, cfg.Next)
		}
		if next.Prev != current {
			t.Errorf("prev of %s = %s, want %s", cfg.Next, next.Prev, current)
		}
		if visited[cfg.Next] {
			t.Fatalf("status %s visited twice", cfg.Next)
		}
		visited[cfg.Next] = true
		current = cfg.Next
		steps++
	}

	if current != StatusComplete {
		t.Errorf("chain ends at %s, want %s", current, StatusComplete)
	}
	if steps != totalSteps {
		t.Errorf("chain length = %d, want %d", steps, totalSteps)
	}
}

func TestStatus_Phase(t *testing.T) {
	tests := []struct {
		status   Status
		expected Phase
	}{
		{StatusLead, PhaseSign},
		{StatusSigned, PhaseSign},
		{StatusCollectACV, PhaseBuild},
		{StatusInstalled, PhaseBuild},
		{StatusInvoiceSent, PhaseFinalizing},
		{StatusDepreciationCollected, PhaseFinalizing},
		{StatusComplete, PhaseComplete},
		{StatusCancelled, PhaseOther},
		{Status("INVALID"), PhaseOther},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := tt.status.Phase(); got != tt.expected {
				t.Errorf("Status.Phase() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestProgressPercent(t *testing.T) {
	tests := []struct {
		status   Status
		expected int
	}{
		{StatusLead, 8},
		{StatusSigned, 46},
		{StatusInstalled, 77},
		{StatusComplete, 100},
		{StatusCancelled, 0},
		{StatusOnHold, 0},
		{Status("INVALID"), 0},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := ProgressPercent(tt.status); got != tt.expected {
				t.Errorf("ProgressPercent(%s) = %d, want %d", tt.status, got, tt.expected)
			}
		})
	}
}

func TestProgressionRequirements(t *testing.T) {
	reqs := ProgressionRequirements(StatusInstalled)
	if len(reqs) != 1 || reqs[0] != "Generate and send invoice" {
		t.Errorf("ProgressionRequirements(installed) = %v", reqs)
	}

	if got := ProgressionRequirements(Status("INVALID")); len(got) != 0 {
		t.Errorf("ProgressionRequirements(unknown) = %v, want empty", got)
	}

	if got := ProgressionRequirements(StatusComplete); len(got) != 0 {
		t.Errorf("ProgressionRequirements(complete) = %v, want empty", got)
	}
}

func TestNormalizeStatus(t *testing.T) {
	tests := []struct {
		raw      string
		expected Status
	}{
		{"materials_ordered", StatusCollectACV},
		{"materials_delivered", StatusCollectDeductible},
		{"signed", StatusSigned},
		{"complete", StatusComplete},
		{"", StatusLead},
		{"garbage", StatusLead},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			if got := NormalizeStatus(tt.raw); got != tt.expected {
				t.Errorf("NormalizeStatus(%q) = %v, want %v", tt.raw, got, tt.expected)
			}
		})
	}
}
