package models

import "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"

type ProgressChangeRequest struct {
	Progress string `json:"progress" validate:"required"`
}

type ProgressChangeResponse struct {
	TeamID   int    `json:"teamId"`
	From     string `json:"from"`
	Progress string `json:"progress"`
	Changed  bool   `json:"changed"`
}

type RankingRow struct {
	Rank          int                 `json:"rank"`
	Team          TeamResponse        `json:"team"`
	Normalized    float64             `json:"normalized"`
	RawTotal      int                 `json:"rawTotal"`
	MaxPossible   int                 `json:"maxPossible"`
	RawPercentage float64             `json:"rawPercentage"`
	Judges        []domain.JudgeTotal `json:"judges"`
}

type RankingsResponse struct {
	JudgeType string       `json:"judgeType"`
	Sort      string       `json:"sort"`
	Teams     []RankingRow `json:"teams"`
}

type AwardHolderResponse struct {
	Award    string `json:"award"`
	Track    string `json:"track,omitempty"`
	TeamID   int    `json:"teamId"`
	TeamName string `json:"teamName"`
}
