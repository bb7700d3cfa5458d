package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoresOf(judgeID, maxScore int, values ...int) []ScoreInput {
	out := make([]ScoreInput, 0, len(values))
	for i, v := range values {
		out = append(out, ScoreInput{JudgeID: judgeID, CriteriaID: i + 1, Value: v, MaxScore: maxScore})
	}
	return out
}

func TestSummarizeJudge(t *testing.T) {
	t.Run("Happy path - min max normalization", func(t *testing.T) {
		total := SummarizeJudge(7, scoresOf(7, 10, 6, 8, 10))

		assert.Equal(t, 24, total.RawTotal)
		assert.Equal(t, 6, total.MinScore)
		assert.Equal(t, 10, total.MaxScore)
		assert.Equal(t, 3, total.Criteria)
		assert.Equal(t, 30, total.MaxPossible)
		assert.Equal(t, 50, total.Normalized)
	})

	t.Run("Edge case - uniform positive scores normalize to 100", func(t *testing.T) {
		for _, v := range []int{1, 5, 10} {
			total := SummarizeJudge(1, scoresOf(1, 10, v, v, v, v))
			assert.Equal(t, 100, total.Normalized, "uniform score %d", v)
		}
	})

	t.Run("Edge case - uniform zero scores normalize to 0", func(t *testing.T) {
		total := SummarizeJudge(1, scoresOf(1, 10, 0, 0))
		assert.Equal(t, 0, total.Normalized)
	})

	t.Run("Edge case - single criterion takes the degenerate branch", func(t *testing.T) {
		total := SummarizeJudge(1, scoresOf(1, 10, 4))
		assert.Equal(t, 100, total.Normalized)
	})

	t.Run("Edge case - no scores", func(t *testing.T) {
		total := SummarizeJudge(1, nil)
		assert.Equal(t, 0, total.Normalized)
		assert.Equal(t, 0, total.Criteria)
	})
}

func TestSummarizeTeam(t *testing.T) {
	scores := append(scoresOf(1, 10, 6, 8, 10), scoresOf(2, 10, 2, 2, 8)...)
	summary := SummarizeTeam(42, scores)

	require.Len(t, summary.Judges, 2)
	assert.Equal(t, 1, summary.Judges[0].JudgeID)
	assert.Equal(t, 2, summary.Judges[1].JudgeID)

	// judge 2: raw 12, min 2, max 8 -> (12-6)/(6*3) = 33.3 -> 33
	assert.Equal(t, 33, summary.Judges[1].Normalized)
	assert.InDelta(t, 41.5, summary.Normalized, 0.0001)
	assert.Equal(t, 36, summary.RawTotal)
	assert.Equal(t, 60, summary.MaxPossible)
	assert.InDelta(t, 60.0, summary.RawPercentage, 0.0001)

	empty := SummarizeTeam(1, nil)
	assert.Zero(t, empty.Normalized)
	assert.Zero(t, empty.RawPercentage)
}

func TestValidateScore(t *testing.T) {
	criteria := CriteriaView{ID: 1, Name: "Innovation", MaxScore: 10, JudgeType: JudgeDay2Round1}

	assert.NoError(t, ValidateScore(criteria, JudgeDay2Round1, 1))
	assert.NoError(t, ValidateScore(criteria, JudgeDay2Round1, 10))
	assert.Equal(t, CodeValidation, CodeOf(ValidateScore(criteria, JudgeDay2Round1, 0)))
	assert.Equal(t, CodeValidation, CodeOf(ValidateScore(criteria, JudgeDay2Round1, 11)))
	assert.Equal(t, CodeForbidden, CodeOf(ValidateScore(criteria, JudgeDay2Round2, 5)))
	assert.Equal(t, CodeForbidden, CodeOf(ValidateScore(criteria, JudgeRemark, 5)))
}
