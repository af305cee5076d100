package formulas

import (
	"github.com/markcheno/go-talib"
)

// SMA calculates the simple moving average of the series over the given
// window. Returns nil when there are fewer points than the window; otherwise
// the last value of the talib output (the current moving average).
func SMA(values []float64, window int) *float64 {
	if window <= 0 || len(values) < window {
		return nil
	}

	sma := talib.Sma(values, window)
	if len(sma) == 0 {
		return nil
	}

	last := sma[len(sma)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

// SMASeries returns the full simple-moving-average series. Positions before
// the window is filled carry NaN, matching talib semantics.
func SMASeries(values []float64, window int) []float64 {
	if window <= 0 || len(values) < window {
		return nil
	}
	return talib.Sma(values, window)
}

// ROC calculates the rate of change over the given period as a percentage.
// Returns nil when there is insufficient data.
func ROC(values []float64, period int) *float64 {
	if period <= 0 || len(values) < period+1 {
		return nil
	}

	roc := talib.Roc(values, period)
	if len(roc) == 0 {
		return nil
	}

	last := roc[len(roc)-1]
	if isNaN(last) {
		return nil
	}
	return &last
}

func isNaN(f float64) bool {
	return f != f
}
