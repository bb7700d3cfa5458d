package models

import (
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
)

type RemarkRequest struct {
	Points []string `json:"points" validate:"required,min=1"`
}

type RemarkResponse struct {
	TeamID    int       `json:"teamId"`
	JudgeID   int       `json:"judgeId"`
	Points    []string  `json:"points"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func TransformRemarkFromStorage(r *storage.Remark) RemarkResponse {
	points := r.Points
	if len(points) == 0 && r.Legacy != "" {
		points = domain.DecodeLegacyRemark(r.Legacy)
	}
	if points == nil {
		points = []string{}
	}
	return RemarkResponse{
		TeamID:    r.TeamID,
		JudgeID:   r.JudgeID,
		Points:    points,
		UpdatedAt: r.UpdatedAt,
	}
}
