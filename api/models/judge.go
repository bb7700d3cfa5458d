package models

import "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"

type JudgeCreateRequest struct {
	ID   int    `json:"id" validate:"required,gt=0"`
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required"`
}

type JudgeUpdateRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	Type string `json:"type" validate:"required"`
}

type JudgeResponse struct {
	ID            int    `json:"id"`
	Name          string `json:"name"`
	Type          string `json:"type"`
	TutorialShown bool   `json:"tutorialShown"`
}

func TransformJudgeFromStorage(j *storage.Judge) JudgeResponse {
	return JudgeResponse{
		ID:            j.ID,
		Name:          j.Name,
		Type:          j.Type,
		TutorialShown: j.TutorialShown,
	}
}
