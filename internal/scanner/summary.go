package scanner

import (
	"github.com/montanaflynn/stats"

	"github.com/openquant/bwb-scanner/internal/models"
	"github.com/openquant/bwb-scanner/internal/util"
)

// Summary aggregates a scan result set for response envelopes.
type Summary struct {
	TotalFound int     `json:"total_found"`
	AvgScore   float64 `json:"avg_score"`
	BestScore  float64 `json:"best_score"`
	AvgCredit  float64 `json:"avg_credit"`
}

// Summarize reduces positions to summary statistics. Empty input yields a
// zeroed summary.
func Summarize(positions []models.BWBPosition) Summary {
	if len(positions) == 0 {
		return Summary{}
	}

	scores := make([]float64, len(positions))
	credits := make([]float64, len(positions))
	for i, p := range positions {
		scores[i] = p.Score
		credits[i] = p.Credit
	}

	avgScore, _ := stats.Mean(scores)
	bestScore, _ := stats.Max(scores)
	avgCredit, _ := stats.Mean(credits)

	return Summary{
		TotalFound: len(positions),
		AvgScore:   util.Round4(avgScore),
		BestScore:  util.Round4(bestScore),
		AvgCredit:  util.Round2(avgCredit),
	}
}
