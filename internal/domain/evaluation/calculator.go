package evaluation

import (
	"sort"

	"github.com/directaula/classroom-engine/internal/domain/group"
	"github.com/directaula/classroom-engine/internal/domain/ledger"
)

// ══════════════════════════════════════════════════════════════════════════════
// WEIGHTED AVERAGE CALCULATOR
// ══════════════════════════════════════════════════════════════════════════════

// WeightedAverageCalculator computes one student's final average from raw
// grade entries and the active category set.
//
// Policy, per category with at least one grade: sort the values descending,
// keep the best MaxItems of them, and average those. Categories with no
// grades contribute nothing AND their weight is excluded from the
// denominator - absence of evidence neither penalizes the student nor
// counts as a perfect score. The final average is therefore normalized over
// the weight actually earned, not over 100.
type WeightedAverageCalculator struct{}

// NewWeightedAverageCalculator creates a calculator.
func NewWeightedAverageCalculator() *WeightedAverageCalculator {
	return &WeightedAverageCalculator{}
}

// Breakdown carries the intermediate results of one computation.
type Breakdown struct {
	// CategoryAverages - best-of-N average per category that had grades.
	CategoryAverages map[string]float64

	// EarnedWeight - sum of the weights of categories that had grades.
	EarnedWeight float64

	// FinalAverage - full-precision normalized average. 0.0 when no
	// category had grades.
	FinalAverage float64
}

// Calculate computes the final average of one student. The order of the
// supplied grade entries does not affect the result; entries whose category
// is not in the rubric (orphans from an earlier rubric) are ignored.
func (c *WeightedAverageCalculator) Calculate(grades []*ledger.GradeEntry, rubric *group.CategorySet) Breakdown {
	byCategory := partitionByCategory(grades)

	bd := Breakdown{
		CategoryAverages: make(map[string]float64, len(rubric.Categories)),
	}

	weightedSum := 0.0
	for _, cat := range rubric.Categories {
		values, ok := byCategory[cat.Name]
		if !ok || len(values) == 0 {
			// No evidence for this category: excluded from the
			// denominator, not treated as zero.
			continue
		}

		avg := bestOfN(values, cat.MaxItems)
		bd.CategoryAverages[cat.Name] = avg

		weightedSum += avg * cat.WeightPercent
		bd.EarnedWeight += cat.WeightPercent
	}

	if bd.EarnedWeight > 0 {
		bd.FinalAverage = weightedSum / bd.EarnedWeight
	}

	return bd
}

// partitionByCategory groups raw grade values by category name.
func partitionByCategory(grades []*ledger.GradeEntry) map[string][]float64 {
	out := make(map[string][]float64)
	for _, g := range grades {
		out[g.CategoryName] = append(out[g.CategoryName], g.Value)
	}
	return out
}

// bestOfN averages the highest maxItems values. With fewer values than
// maxItems all of them count; with more, the lowest excess values are
// discarded. This is the best-of-N policy, deliberately not an
// average-of-all: it rewards the strongest submissions and tolerates
// missed or weak ones beyond the counted limit.
func bestOfN(values []float64, maxItems int) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Sort(sort.Reverse(sort.Float64Slice(sorted)))

	n := maxItems
	if n > len(sorted) {
		n = len(sorted)
	}

	sum := 0.0
	for _, v := range sorted[:n] {
		sum += v
	}
	return sum / float64(n)
}
