package models

import (
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
)

type ParticipantRegisterRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Email          string `json:"email" validate:"required,email"`
	Phone          string `json:"phone" validate:"required,min=10,max=15"`
	College        string `json:"college" validate:"required,max=200"`
	GithubUsername string `json:"githubUsername" validate:"omitempty,max=39"`
}

type ParticipantUpdateRequest struct {
	Name           string `json:"name" validate:"required,min=2,max=100"`
	Phone          string `json:"phone" validate:"required,min=10,max=15"`
	College        string `json:"college" validate:"required,max=200"`
	GithubUsername string `json:"githubUsername" validate:"omitempty,max=39"`
}

type ParticipantResponse struct {
	ID             int        `json:"id"`
	Name           string     `json:"name"`
	Email          string     `json:"email"`
	Phone          string     `json:"phone"`
	College        string     `json:"college"`
	GithubUsername string     `json:"githubUsername,omitempty"`
	TeamID         int        `json:"teamId,omitempty"`
	QRCode         string     `json:"qrCode,omitempty"`
	Attended       bool       `json:"attended"`
	AttendedAt     *time.Time `json:"attendedAt,omitempty"`
}

func TransformParticipantFromStorage(p *storage.Participant) ParticipantResponse {
	return ParticipantResponse{
		ID:             p.ID,
		Name:           p.Name,
		Email:          p.Email,
		Phone:          p.Phone,
		College:        p.College,
		GithubUsername: p.GithubUsername,
		TeamID:         p.TeamID,
		QRCode:         p.QRCode,
		Attended:       p.Attended,
		AttendedAt:     p.AttendedAt,
	}
}
