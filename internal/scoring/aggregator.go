// Package scoring computes the weighted overall interview score and the
// performance tier from the three sub-scores.
package scoring

import "math"

// Sub-score weights. Technical knowledge carries the largest share.
const (
	WeightTechnical      = 0.4
	WeightCommunication  = 0.3
	WeightProblemSolving = 0.3
)

// Tier labels a candidate's overall performance band.
type Tier string

// Performance tiers.
const (
	TierExcellent        Tier = "Excellent"
	TierGood             Tier = "Good"
	TierAverage          Tier = "Average"
	TierNeedsImprovement Tier = "Needs Improvement"
)

// Tier thresholds. A score at the boundary belongs to the higher band.
const (
	thresholdExcellent = 8.0
	thresholdGood      = 6.0
	thresholdAverage   = 4.0
)

// Overall computes the weighted overall score from the three sub-scores,
// rounded to one decimal place. Sub-scores are clamped to [0, 10] so the
// result is always in [0, 10].
func Overall(technical, communication, problemSolving float64) float64 {
	weighted := WeightTechnical*clamp(technical) +
		WeightCommunication*clamp(communication) +
		WeightProblemSolving*clamp(problemSolving)
	return math.Round(weighted*10) / 10
}

// ScoreTier maps an overall score to its performance tier.
func ScoreTier(score float64) Tier {
	switch {
	case score >= thresholdExcellent:
		return TierExcellent
	case score >= thresholdGood:
		return TierGood
	case score >= thresholdAverage:
		return TierAverage
	default:
		return TierNeedsImprovement
	}
}

// HiringRecommendation maps a tier to the recommendation label shown to a
// reviewing manager.
func HiringRecommendation(tier Tier) string {
	switch tier {
	case TierExcellent:
		return "Strong Recommend"
	case TierGood:
		return "Recommend"
	case TierAverage:
		return "Consider"
	default:
		return "Not Recommend"
	}
}

func clamp(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 10 {
		return 10
	}
	return v
}
