package projections

import (
	"math"
	"testing"
)

func TestProjectInvariantHolds(t *testing.T) {
	tests := []struct {
		name             string
		principal        float64
		rate             float64
		annualInvestment float64
		years            int
		monthlySIP       float64
		stepUp           float64
	}{
		{"lumpsum only", 100000, 12, 50000, 10, 0, 0},
		{"sip only", 0, 10, 0, 5, 5000, 0},
		{"sip with step-up", 200000, 8, 10000, 15, 2000, 10},
		{"negative growth", 100000, -5, 0, 8, 1000, 0},
		{"zero everything", 0, 0, 0, 3, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			results, err := Project(tt.principal, tt.rate, tt.annualInvestment, tt.years, tt.monthlySIP, tt.stepUp)
			if err != nil {
				t.Fatalf("Project failed: %v", err)
			}
			if len(results) != tt.years {
				t.Fatalf("got %d years, want %d", len(results), tt.years)
			}

			prev := tt.principal
			for _, r := range results {
				expected := prev + r.SIPContribution + r.LumpsumContribution + r.Growth
				if math.Abs(r.TotalValue-expected) > 1e-6 {
					t.Errorf("year %d: total %f != prev %f + sip %f + lumpsum %f + growth %f",
						r.Year, r.TotalValue, prev, r.SIPContribution, r.LumpsumContribution, r.Growth)
				}
				prev = r.TotalValue
			}
		})
	}
}

func TestProjectStepUpCompoundsYearly(t *testing.T) {
	// 1000/month at 20% step-up: 12,000 then 14,400 then 17,280.
	results, err := Project(0, 12, 0, 3, 1000, 20)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	want := []float64{12000, 14400, 17280}
	for i, r := range results {
		if math.Abs(r.SIPContribution-want[i]) > 1e-6 {
			t.Errorf("year %d sip contribution = %f, want %f", r.Year, r.SIPContribution, want[i])
		}
	}
}

func TestProjectMonthlyCompounding(t *testing.T) {
	// Pure principal at 12% compounds monthly at 1%: 100000 * 1.01^12.
	results, err := Project(100000, 12, 0, 1, 0, 0)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}

	want := 100000 * math.Pow(1.01, 12)
	if math.Abs(results[0].TotalValue-want) > 1e-6 {
		t.Errorf("total = %f, want %f", results[0].TotalValue, want)
	}
	if math.Abs(results[0].Growth-(want-100000)) > 1e-6 {
		t.Errorf("growth = %f, want %f", results[0].Growth, want-100000)
	}
}

func TestProjectLumpsumNotCompoundedWithinYear(t *testing.T) {
	// With zero growth, one year of 50k lump-sum just adds 50k.
	results, err := Project(0, 0, 50000, 1, 0, 0)
	if err != nil {
		t.Fatalf("Project failed: %v", err)
	}
	if results[0].TotalValue != 50000 {
		t.Errorf("total = %f, want 50000", results[0].TotalValue)
	}
	if results[0].Growth != 0 {
		t.Errorf("growth = %f, want 0", results[0].Growth)
	}
}

func TestProjectRejectsInvalidInput(t *testing.T) {
	tests := []struct {
		name             string
		principal        float64
		years            int
		annualInvestment float64
		monthlySIP       float64
		stepUp           float64
	}{
		{"zero years", 1000, 0, 0, 0, 0},
		{"negative years", 1000, -5, 0, 0, 0},
		{"negative principal", -1, 10, 0, 0, 0},
		{"negative investment", 0, 10, -100, 0, 0},
		{"negative sip", 0, 10, 0, -50, 0},
		{"negative step-up", 0, 10, 0, 100, -5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Project(tt.principal, 10, tt.annualInvestment, tt.years, tt.monthlySIP, tt.stepUp); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
