package scoring

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestOverall(t *testing.T) {
	// 8*0.4 + 7*0.3 + 9*0.3 = 8.0
	assert.Equal(t, 8.0, Overall(8, 7, 9))
}

func TestOverall_Boundaries(t *testing.T) {
	assert.Equal(t, 10.0, Overall(10, 10, 10))
	assert.Equal(t, 0.0, Overall(0, 0, 0))
}

func TestOverall_RoundsToOneDecimal(t *testing.T) {
	// 7*0.4 + 6.5*0.3 + 8.2*0.3 = 7.21 -> 7.2
	assert.Equal(t, 7.2, Overall(7, 6.5, 8.2))
	// 9.9*0.4 + 9.9*0.3 + 9.8*0.3 = 9.87 -> 9.9
	assert.Equal(t, 9.9, Overall(9.9, 9.9, 9.8))
}

func TestOverall_ClampsOutOfRangeInputs(t *testing.T) {
	assert.Equal(t, 10.0, Overall(15, 12, 11))
	assert.Equal(t, 0.0, Overall(-3, -1, 0))
}

func TestScoreTier_ExactBoundaries(t *testing.T) {
	assert.Equal(t, TierExcellent, ScoreTier(8.0))
	assert.Equal(t, TierGood, ScoreTier(6.0))
	assert.Equal(t, TierAverage, ScoreTier(4.0))
	assert.Equal(t, TierNeedsImprovement, ScoreTier(3.9))
}

func TestScoreTier_Bands(t *testing.T) {
	assert.Equal(t, TierExcellent, ScoreTier(10.0))
	assert.Equal(t, TierGood, ScoreTier(7.9))
	assert.Equal(t, TierAverage, ScoreTier(5.9))
	assert.Equal(t, TierNeedsImprovement, ScoreTier(0.0))
}

func TestHiringRecommendation(t *testing.T) {
	assert.Equal(t, "Strong Recommend", HiringRecommendation(TierExcellent))
	assert.Equal(t, "Recommend", HiringRecommendation(TierGood))
	assert.Equal(t, "Consider", HiringRecommendation(TierAverage))
	assert.Equal(t, "Not Recommend", HiringRecommendation(TierNeedsImprovement))
}
