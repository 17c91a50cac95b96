package schedule

import (
	"errors"
	"testing"
)

func TestClassify_Themes(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		name  string
		title string
		want  int
	}{
		// Sprint 1: infrastructure and onboarding.
		{"repository structure", "Finalize repository structure", 1},
		{"environment", "Set up conda environment", 1},
		{"docker", "Build Docker image for notebooks", 1},
		{"onboarding", "Write onboarding notes", 1},
		{"project board", "Configure project board", 1},

		// Sprint 2: savings definition and data access.
		{"data dictionary", "Draft data dictionary", 2},
		{"opportunity", "Define opportunity for savings", 2},
		{"opportunity reversed", "Quantify savings opportunity per zone", 2},
		{"data access", "Request data access for HVAC logs", 2},
		{"collection", "Collect TOU pricing data", 2},
		{"wifi", "Explore Wi-Fi occupancy sources", 2},

		// Sprint 3: pipeline and design.
		{"pipeline", "Build preprocessing pipeline", 3},
		{"merge", "Merge occupancy and HVAC data", 3},
		{"feature", "Feature engineering for zones", 3},
		{"schema", "Design merged dataset schema", 3},

		// Sprint 4: forecasting baselines.
		{"prophet", "Prophet baseline for occupancy", 4},
		{"forecast", "Forecast occupancy per zone", 4},
		{"train", "Train per-zone models", 4},

		// Sprint 6: simulation and control.
		{"simulation", "Simulate control policy on history", 6},
		{"setpoint", "Compute optimal setpoints", 6},
		{"savings estimate", "Estimate savings from setback control", 6},

		// Sprint 7: evaluation and writeup.
		{"evaluation", "Evaluate model accuracy", 7},
		{"metrics", "Define success metrics", 7},
		{"report", "Write interim report", 7},

		// Sprint 8: presentation and handoff.
		{"slides", "Prepare final slides", 8},
		{"demo", "Demo day rehearsal", 8},
		{"handoff", "Plan project handoff", 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Classify(tt.title); got != tt.want {
				t.Errorf("Classify(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassify_ResearchOverride(t *testing.T) {
	rs := DefaultRuleSet()

	// Research and model-architecture titles land in sprint 3 even when
	// forecasting keywords also match: rule order pulls research earlier.
	tests := []struct {
		name  string
		title string
	}{
		{"research plus forecast", "Research forecasting approaches"},
		{"transformer plus occupancy", "Transformer model for occupancy prediction"},
		{"lstm plus train", "Train LSTM baseline"},
		{"literature", "Literature review on occupancy models"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Classify(tt.title); got != 3 {
				t.Errorf("Classify(%q) = %d, want 3 (research override)", tt.title, got)
			}
		})
	}
}

func TestClassify_VisualizationOverride(t *testing.T) {
	rs := DefaultRuleSet()

	// Visualization titles land in sprint 5 even when presentation
	// keywords also match.
	tests := []struct {
		name  string
		title string
	}{
		{"dashboard", "Build occupancy dashboard"},
		{"dashboard plus present", "Present savings dashboard"},
		{"plot plus final", "Final plots for savings analysis"},
		{"visualize", "Visualize zone setback schedules"},
		{"british spelling", "Visualise zone heatmaps"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Classify(tt.title); got != 5 {
				t.Errorf("Classify(%q) = %d, want 5 (visualization override)", tt.title, got)
			}
		})
	}
}

func TestClassify_FirstMatchWins(t *testing.T) {
	rs := DefaultRuleSet()

	// Titles matching several groups resolve to the earliest group in the
	// table, never the most specific.
	tests := []struct {
		name  string
		title string
		want  int
	}{
		{"finalize hits repository before final", "Finalize repository structure", 1},
		{"cleanup hits repository before clean", "Repository cleanup", 1},
		{"merge before occupancy", "Merge occupancy and HVAC data", 3},
		{"dashboard before occupancy", "Occupancy dashboard prototype", 5},
		{"collect before pricing bucket order", "Collect pricing data", 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Classify(tt.title); got != tt.want {
				t.Errorf("Classify(%q) = %d, want %d", tt.title, got, tt.want)
			}
		})
	}
}

func TestClassify_Ambiguous(t *testing.T) {
	rs := DefaultRuleSet()

	tests := []struct {
		name  string
		title string
	}{
		{"empty", ""},
		{"no keywords", "Misc task"},
		{"draft item placeholder", "Draft Item"},
		{"tou inside another word", "Retouch the readme"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rs.Classify(tt.title); got != Ambiguous {
				t.Errorf("Classify(%q) = %d, want %d (ambiguous)", tt.title, got, Ambiguous)
			}
		})
	}
}

func TestClassify_CaseInsensitive(t *testing.T) {
	rs := DefaultRuleSet()

	if got := rs.Classify("FINALIZE REPOSITORY STRUCTURE"); got != 1 {
		t.Errorf("Classify(upper) = %d, want 1", got)
	}
	if got := rs.Classify("dRaFt DaTa DiCtIoNaRy"); got != 2 {
		t.Errorf("Classify(mixed) = %d, want 2", got)
	}
}

func TestNewRuleSet_Validation(t *testing.T) {
	tests := []struct {
		name    string
		specs   []RuleSpec
		wantErr bool
	}{
		{"valid", []RuleSpec{{Pattern: "docs", Sprint: 1}}, false},
		{"empty set", nil, true},
		{"empty pattern", []RuleSpec{{Pattern: "  ", Sprint: 1}}, true},
		{"sprint zero", []RuleSpec{{Pattern: "docs", Sprint: 0}}, true},
		{"sprint too high", []RuleSpec{{Pattern: "docs", Sprint: 9}}, true},
		{"bad regexp", []RuleSpec{{Pattern: "([unclosed", Sprint: 1}}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewRuleSet(tt.specs)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewRuleSet() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrInvalidRule) {
				t.Errorf("expected ErrInvalidRule, got %v", err)
			}
		})
	}
}

func TestRuleSet_OrderPreserved(t *testing.T) {
	rs := MustRuleSet([]RuleSpec{
		{Pattern: "alpha", Sprint: 4},
		{Pattern: "alpha", Sprint: 2},
	})

	// Both rules match; the first one in the sequence decides.
	if got := rs.Classify("alpha release"); got != 4 {
		t.Errorf("Classify() = %d, want 4 (first rule in order)", got)
	}

	rules := rs.Rules()
	if len(rules) != 2 || rules[0].Sprint != 4 || rules[1].Sprint != 2 {
		t.Errorf("Rules() order not preserved: %+v", rules)
	}
}
