package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStarScale(t *testing.T) {
	t.Run("Happy path - click at 0.65 over five stars of ten points", func(t *testing.T) {
		s, err := NewStarScale(5, 10)
		require.NoError(t, err)

		assert.Equal(t, 3, s.IndexAt(0.65))
		assert.Equal(t, 8, s.ScoreAt(0.65))
	})

	t.Run("Edge case - fractions outside the control are clamped", func(t *testing.T) {
		s := StarScale{Stars: 5, MaxScore: 10}
		assert.Equal(t, 0, s.IndexAt(-0.2))
		assert.Equal(t, 4, s.IndexAt(1.0))
		assert.Equal(t, 4, s.IndexAt(3))
		assert.Equal(t, 10, s.ScoreAt(1.0))
	})

	t.Run("Property - forward mapping is monotonic", func(t *testing.T) {
		for stars := 1; stars <= 10; stars++ {
			for maxScore := 1; maxScore <= 20; maxScore++ {
				s := StarScale{Stars: stars, MaxScore: maxScore}
				prev := s.ScoreAt(0)
				for step := 1; step <= 200; step++ {
					score := s.ScoreAt(float64(step) / 200)
					require.GreaterOrEqual(t, score, prev, "stars=%d max=%d step=%d", stars, maxScore, step)
					require.LessOrEqual(t, score, maxScore)
					prev = score
				}
			}
		}
	})

	t.Run("Property - round trip stays within one star of the score", func(t *testing.T) {
		for stars := 1; stars <= 10; stars++ {
			for maxScore := 1; maxScore <= 20; maxScore++ {
				s := StarScale{Stars: stars, MaxScore: maxScore}
				bound := float64(maxScore) / float64(stars)
				for score := 1; score <= maxScore; score++ {
					back := s.ScoreForIndex(s.IndexFor(score))
					diff := float64(back - score)
					if diff < 0 {
						diff = -diff
					}
					require.LessOrEqual(t, diff, bound, "stars=%d max=%d score=%d", stars, maxScore, score)
				}
			}
		}
	})

	t.Run("Edge case - ties go to the lower index", func(t *testing.T) {
		// implied scores are 2, 4, 6, 8, 10; 5 is equally close to 4 and 6
		s := StarScale{Stars: 5, MaxScore: 10}
		assert.Equal(t, 1, s.IndexFor(5))
		assert.Equal(t, 0, s.IndexFor(0))
	})

	t.Run("Edge case - lowest stars on a small criterion still score one", func(t *testing.T) {
		s, err := NewStarScale(DefaultStars, 2)
		require.NoError(t, err)
		cr := CriteriaView{ID: 1, Name: "Pitch", MaxScore: 2, JudgeType: JudgeDay2Round1}
		for _, f := range []float64{0, 0.1, 0.19} {
			score := s.ScoreAt(f)
			assert.Equal(t, 1, score)
			assert.NoError(t, ValidateScore(cr, JudgeDay2Round1, score))
		}
		assert.Equal(t, 2, s.ScoreAt(1))
	})

	t.Run("Property - every click on a small criterion is a valid score", func(t *testing.T) {
		for maxScore := 1; maxScore <= 4; maxScore++ {
			s := StarScale{Stars: DefaultStars, MaxScore: maxScore}
			cr := CriteriaView{ID: 1, Name: "Pitch", MaxScore: maxScore, JudgeType: JudgeDay2Round1}
			prev := 1
			for step := 0; step <= 100; step++ {
				score := s.ScoreAt(float64(step) / 100)
				require.GreaterOrEqual(t, score, prev, "max=%d step=%d", maxScore, step)
				require.NoError(t, ValidateScore(cr, JudgeDay2Round1, score), "max=%d step=%d", maxScore, step)
				prev = score
			}
			assert.Equal(t, maxScore, prev)
		}
	})

	t.Run("Unhappy path - invalid scale", func(t *testing.T) {
		_, err := NewStarScale(0, 10)
		assert.Error(t, err)
		_, err = NewStarScale(5, 0)
		assert.Error(t, err)
	})
}

func TestValidatorStars(t *testing.T) {
	for stars := 1; stars <= 5; stars++ {
		score, err := ValidatorScoreForStars(stars)
		require.NoError(t, err)
		assert.Equal(t, stars*2, score)
		assert.Equal(t, stars, ValidatorStarsForScore(score))
	}

	_, err := ValidatorScoreForStars(0)
	assert.Error(t, err)
	_, err = ValidatorScoreForStars(6)
	assert.Error(t, err)

	assert.Equal(t, 1, ValidatorStarsForScore(1))
	assert.Equal(t, 3, ValidatorStarsForScore(5))
	assert.Equal(t, 5, ValidatorStarsForScore(9))
}
