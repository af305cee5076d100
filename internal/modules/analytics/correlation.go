package analytics

import (
	"math/rand"
	"sort"

	"github.com/codingisforpros/wealthtrack/internal/modules/assets"
)

// CorrelationProvider supplies the pairwise correlation matrix between the
// asset classes present in a portfolio. The keys of the returned maps are
// display names, symmetric with ones on the diagonal.
type CorrelationProvider interface {
	Correlations(types []assets.Type) map[string]map[string]float64
}

// PlaceholderCorrelationProvider emits synthetic pairwise values drawn
// uniformly from [0.1, 0.8). It exists so the attribution payload has a
// stable shape until a provider backed by real return series replaces it;
// the values carry no predictive meaning.
type PlaceholderCorrelationProvider struct {
	Seed int64
}

// Correlations builds a symmetric matrix over the distinct types, seeded so
// repeated calls over the same portfolio produce the same matrix.
func (p *PlaceholderCorrelationProvider) Correlations(types []assets.Type) map[string]map[string]float64 {
	distinct := make([]assets.Type, 0, len(types))
	seen := make(map[assets.Type]bool, len(types))
	for _, t := range types {
		if !seen[t] {
			seen[t] = true
			distinct = append(distinct, t)
		}
	}
	sort.Slice(distinct, func(i, j int) bool { return distinct[i] < distinct[j] })

	rng := rand.New(rand.NewSource(p.Seed))
	matrix := make(map[string]map[string]float64, len(distinct))
	for _, t := range distinct {
		matrix[t.DisplayName()] = make(map[string]float64, len(distinct))
	}
	for i, a := range distinct {
		matrix[a.DisplayName()][a.DisplayName()] = 1.0
		for _, b := range distinct[i+1:] {
			value := 0.1 + rng.Float64()*0.7
			matrix[a.DisplayName()][b.DisplayName()] = value
			matrix[b.DisplayName()][a.DisplayName()] = value
		}
	}
	return matrix
}
