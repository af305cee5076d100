package formulas

import (
	"math"
	"testing"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name     string
		data     []float64
		expected float64
	}{
		{"empty", nil, 0},
		{"single", []float64{5}, 5},
		{"multiple", []float64{1, 2, 3, 4}, 2.5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Mean(tt.data)
			if math.Abs(got-tt.expected) > 1e-9 {
				t.Errorf("Mean(%v) = %f, want %f", tt.data, got, tt.expected)
			}
		})
	}
}

func TestPercentile(t *testing.T) {
	data := []float64{10, 20, 30, 40, 50, 60, 70, 80, 90, 100}

	p50 := Percentile(data, 0.50)
	if p50 < 10 || p50 > 100 {
		t.Errorf("p50 = %f, out of data range", p50)
	}

	p10 := Percentile(data, 0.10)
	p90 := Percentile(data, 0.90)
	if p10 > p50 || p50 > p90 {
		t.Errorf("percentiles not monotonic: p10=%f p50=%f p90=%f", p10, p50, p90)
	}
}

func TestPercentileUnsortedInput(t *testing.T) {
	data := []float64{50, 10, 90, 30, 70}
	p90 := Percentile(data, 0.90)
	p10 := Percentile(data, 0.10)
	if p10 > p90 {
		t.Errorf("p10=%f > p90=%f for unsorted input", p10, p90)
	}
	// Input must be untouched
	if data[0] != 50 {
		t.Error("Percentile modified its input slice")
	}
}

func TestSafeDiv(t *testing.T) {
	if got := SafeDiv(10, 0); got != 0 {
		t.Errorf("SafeDiv(10, 0) = %f, want 0", got)
	}
	if got := SafeDiv(10, 4); got != 2.5 {
		t.Errorf("SafeDiv(10, 4) = %f, want 2.5", got)
	}
}

func TestRound(t *testing.T) {
	if got := Round(3.14159, 2); got != 3.14 {
		t.Errorf("Round(3.14159, 2) = %f, want 3.14", got)
	}
	if got := Round(2.675, 0); got != 3 {
		t.Errorf("Round(2.675, 0) = %f, want 3", got)
	}
}

func TestSMA(t *testing.T) {
	values := []float64{1, 2, 3, 4, 5, 6, 7}

	sma := SMA(values, 7)
	if sma == nil {
		t.Fatal("SMA returned nil for sufficient data")
	}
	if math.Abs(*sma-4.0) > 1e-9 {
		t.Errorf("SMA = %f, want 4.0", *sma)
	}

	if SMA(values, 8) != nil {
		t.Error("SMA should return nil with fewer points than window")
	}
}

func TestROC(t *testing.T) {
	values := []float64{100, 100, 100, 100, 100, 100, 110}

	roc := ROC(values, 6)
	if roc == nil {
		t.Fatal("ROC returned nil for sufficient data")
	}
	if math.Abs(*roc-10.0) > 1e-6 {
		t.Errorf("ROC = %f, want 10.0", *roc)
	}

	if ROC(values[:3], 6) != nil {
		t.Error("ROC should return nil with insufficient data")
	}
}
