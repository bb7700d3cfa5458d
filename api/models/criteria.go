package models

import (
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
)

type CriteriaCreateRequest struct {
	ID        int    `json:"id" validate:"required,gt=0"`
	Name      string `json:"name" validate:"required,max=100"`
	MaxScore  int    `json:"maxScore" validate:"required,gt=0,lte=100"`
	JudgeType string `json:"judgeType" validate:"required"`
}

type CriteriaUpdateRequest struct {
	Name      string `json:"name" validate:"required,max=100"`
	MaxScore  int    `json:"maxScore" validate:"required,gt=0,lte=100"`
	JudgeType string `json:"judgeType" validate:"required"`
}

type CriteriaResponse struct {
	ID        int    `json:"id"`
	Name      string `json:"name"`
	MaxScore  int    `json:"maxScore"`
	JudgeType string `json:"judgeType"`
}

func TransformCriteriaFromStorage(c *storage.Criteria) CriteriaResponse {
	return CriteriaResponse{
		ID:        c.ID,
		Name:      c.Name,
		MaxScore:  c.MaxScore,
		JudgeType: c.JudgeType,
	}
}

func CriteriaViewFromStorage(c *storage.Criteria) domain.CriteriaView {
	return domain.CriteriaView{
		ID:        c.ID,
		Name:      c.Name,
		MaxScore:  c.MaxScore,
		JudgeType: domain.JudgeType(c.JudgeType),
	}
}
