package domain

import (
	"math"
	"sort"
)

// CriteriaView is the part of a criterion the scoring rules need.
type CriteriaView struct {
	ID        int
	Name      string
	MaxScore  int
	JudgeType JudgeType
}

// ValidateScore checks that a judge of judgeType may give value on criteria.
func ValidateScore(criteria CriteriaView, judgeType JudgeType, value int) error {
	if !judgeType.CanScore() {
		return Forbiddenf("judges of type %s cannot submit scores", judgeType)
	}
	if criteria.JudgeType != judgeType {
		return Forbiddenf("criteria %q belongs to %s judges", criteria.Name, criteria.JudgeType)
	}
	if value < 1 || value > criteria.MaxScore {
		return Validationf("score %d for %q must be between 1 and %d", value, criteria.Name, criteria.MaxScore)
	}
	return nil
}

// ScoreInput is one stored (team, criteria, judge) score together with the criteria max.
type ScoreInput struct {
	JudgeID    int
	CriteriaID int
	Value      int
	MaxScore   int
}

// JudgeTotal is one judge's contribution to a team, rescaled to 0..100 against the
// lowest and highest single score that judge gave.
type JudgeTotal struct {
	JudgeID     int `json:"judgeId"`
	Criteria    int `json:"criteria"`
	RawTotal    int `json:"rawTotal"`
	MaxPossible int `json:"maxPossible"`
	MinScore    int `json:"minScore"`
	MaxScore    int `json:"maxScore"`
	Normalized  int `json:"normalized"`
}

// SummarizeJudge folds the scores one judge gave a team.
func SummarizeJudge(judgeID int, scores []ScoreInput) JudgeTotal {
	total := JudgeTotal{JudgeID: judgeID}
	for i, s := range scores {
		total.Criteria++
		total.RawTotal += s.Value
		total.MaxPossible += s.MaxScore
		if i == 0 || s.Value < total.MinScore {
			total.MinScore = s.Value
		}
		if i == 0 || s.Value > total.MaxScore {
			total.MaxScore = s.Value
		}
	}
	total.Normalized = normalize(total)
	return total
}

func normalize(t JudgeTotal) int {
	spread := t.MaxScore - t.MinScore
	switch {
	case t.Criteria == 0:
		return 0
	case spread > 0:
		n := t.Criteria
		return int(math.Round(float64(t.RawTotal-t.MinScore*n) / float64(spread*n) * 100))
	case t.MaxScore > 0:
		return 100
	default:
		return 0
	}
}

// TeamSummary aggregates every judge that scored a team.
type TeamSummary struct {
	TeamID        int          `json:"teamId"`
	Judges        []JudgeTotal `json:"judges"`
	RawTotal      int          `json:"rawTotal"`
	MaxPossible   int          `json:"maxPossible"`
	RawPercentage float64      `json:"rawPercentage"`
	Normalized    float64      `json:"normalized"`
}

// SummarizeTeam groups scores per judge and averages the normalized totals.
func SummarizeTeam(teamID int, scores []ScoreInput) TeamSummary {
	byJudge := make(map[int][]ScoreInput)
	for _, s := range scores {
		byJudge[s.JudgeID] = append(byJudge[s.JudgeID], s)
	}

	judgeIDs := make([]int, 0, len(byJudge))
	for id := range byJudge {
		judgeIDs = append(judgeIDs, id)
	}
	sort.Ints(judgeIDs)

	summary := TeamSummary{TeamID: teamID, Judges: make([]JudgeTotal, 0, len(judgeIDs))}
	normalizedSum := 0
	for _, id := range judgeIDs {
		jt := SummarizeJudge(id, byJudge[id])
		summary.Judges = append(summary.Judges, jt)
		summary.RawTotal += jt.RawTotal
		summary.MaxPossible += jt.MaxPossible
		normalizedSum += jt.Normalized
	}

	if len(summary.Judges) > 0 {
		summary.Normalized = float64(normalizedSum) / float64(len(summary.Judges))
	}
	if summary.MaxPossible > 0 {
		summary.RawPercentage = float64(summary.RawTotal) / float64(summary.MaxPossible) * 100
	}
	return summary
}
