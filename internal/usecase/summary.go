package usecase

import (
	"github.com/montanaflynn/stats"

	"github.com/naka-gawa/github-contrib-badges/internal/domain"
)

// Summarize computes the totals and descriptive statistics of counts.
func Summarize(counts *domain.RepoCounts, kind domain.Kind) domain.Summary {
	summary := domain.Summary{
		Kind:         kind.Label(),
		Repositories: counts.Len(),
		Total:        counts.Total(),
	}
	if counts.Len() == 0 {
		return summary
	}

	data := make(stats.Float64Data, 0, counts.Len())
	for _, e := range counts.Entries() {
		data = append(data, float64(e.Count))
	}
	// Errors only occur on empty input, which is excluded above.
	mean, _ := stats.Mean(data)
	summary.Mean, _ = stats.Round(mean, 2)
	summary.Median, _ = stats.Median(data)
	highest, _ := stats.Max(data)
	summary.Max = int(highest)
	return summary
}
