package core

import (
	"math"

	"github.com/plugcheck/plugcheck/schema"
)

// ComputeOverallScore converts pass counts into a 0-100 score.
// Categories whose required artifact was absent still count toward the
// total; they simply score low. An empty run scores zero.
func ComputeOverallScore(passedChecks, totalChecks int) float64 {
	if totalChecks == 0 {
		return 0
	}
	score := 100.0 * float64(passedChecks) / float64(totalChecks)
	return math.Round(score*10) / 10
}

// ComputeOverallHealth derives the audit health tier from whatever subset
// of signals produced usable numbers. Unusable signals are nil and
// contribute nothing; zero usable signals default to POOR rather than
// erroring.
func ComputeOverallHealth(validationScore, testPassRate, coveragePct *float64) schema.HealthTier {
	var sum float64
	var count int
	for _, signal := range []*float64{validationScore, testPassRate, coveragePct} {
		if signal != nil {
			sum += *signal
			count++
		}
	}
	if count == 0 {
		return schema.PoorHealth
	}

	// Round down so borderline composites land in the lower tier.
	combined := math.Floor(sum/float64(count)*10) / 10
	return schema.HealthForScore(combined)
}
