package domain

import "math"

const DefaultStars = 5

// StarScale maps a pointer position over a row of stars to a criteria score.
type StarScale struct {
	Stars    int
	MaxScore int
}

func NewStarScale(stars, maxScore int) (StarScale, error) {
	if stars < 1 {
		return StarScale{}, Validationf("star count must be positive, got %d", stars)
	}
	if maxScore < 1 {
		return StarScale{}, Validationf("max score must be positive, got %d", maxScore)
	}
	return StarScale{Stars: stars, MaxScore: maxScore}, nil
}

// IndexAt returns the zero based star under horizontal fraction f of the control.
func (s StarScale) IndexAt(f float64) int {
	if math.IsNaN(f) {
		return 0
	}
	i := int(math.Floor(f * float64(s.Stars)))
	if i < 0 {
		return 0
	}
	if i > s.Stars-1 {
		return s.Stars - 1
	}
	return i
}

// ScoreForIndex is the score implied by selecting star i, kept within [1, MaxScore].
func (s StarScale) ScoreForIndex(i int) int {
	score := int(math.Round(float64((i+1)*s.MaxScore) / float64(s.Stars)))
	if score < 1 {
		return 1
	}
	if score > s.MaxScore {
		return s.MaxScore
	}
	return score
}

// ScoreAt maps a click at fraction f straight to a score.
func (s StarScale) ScoreAt(f float64) int {
	return s.ScoreForIndex(s.IndexAt(f))
}

// IndexFor picks the star whose implied score is nearest to score, lower index on ties.
func (s StarScale) IndexFor(score int) int {
	best := 0
	bestDiff := math.MaxInt
	for i := 0; i < s.Stars; i++ {
		diff := s.ScoreForIndex(i) - score
		if diff < 0 {
			diff = -diff
		}
		if diff < bestDiff {
			best, bestDiff = i, diff
		}
	}
	return best
}

// ValidatorScoreForStars is the fixed validator control: one to five stars worth two points each.
func ValidatorScoreForStars(stars int) (int, error) {
	if stars < 1 || stars > 5 {
		return 0, Validationf("validator star count must be between 1 and 5, got %d", stars)
	}
	return stars * 2, nil
}

// ValidatorStarsForScore buckets a stored validator score back into a star count.
func ValidatorStarsForScore(score int) int {
	switch {
	case score <= 2:
		return 1
	case score <= 4:
		return 2
	case score <= 6:
		return 3
	case score <= 8:
		return 4
	default:
		return 5
	}
}
