package models

import (
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
)

// ScoreSubmitRequest carries exactly one of Score, Fraction or Stars.
// Fraction is where the star control was clicked (0..1); Stars is the validator star count.
type ScoreSubmitRequest struct {
	TeamID     int      `json:"teamId" validate:"required,gt=0"`
	CriteriaID int      `json:"criteriaId" validate:"required,gt=0"`
	Score      *int     `json:"score,omitempty" validate:"omitempty,gt=0"`
	Fraction   *float64 `json:"fraction,omitempty" validate:"omitempty,gte=0,lte=1"`
	Stars      *int     `json:"stars,omitempty" validate:"omitempty,gte=1,lte=5"`
}

type ScoreResponse struct {
	TeamID     int       `json:"teamId"`
	CriteriaID int       `json:"criteriaId"`
	JudgeID    int       `json:"judgeId"`
	Score      int       `json:"score"`
	StarIndex  int       `json:"starIndex"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

type CriteriaScore struct {
	CriteriaID int    `json:"criteriaId"`
	Name       string `json:"name"`
	MaxScore   int    `json:"maxScore"`
	Score      int    `json:"score"`
	StarIndex  int    `json:"starIndex"`
}

// JudgeTeamScoresResponse is one judge's own scores for a team.
type JudgeTeamScoresResponse struct {
	TeamID int             `json:"teamId"`
	Scores []CriteriaScore `json:"scores"`
}

type TeamScoresResponse struct {
	Team    TeamResponse       `json:"team"`
	Summary domain.TeamSummary `json:"summary"`
}

// JudgePoolResponse is what a judge sees on the scoring page.
type JudgePoolResponse struct {
	JudgeType string             `json:"judgeType"`
	Criteria  []CriteriaResponse `json:"criteria"`
	Teams     []TeamResponse     `json:"teams"`
}
