package models

import (
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
)

type TeamCreateRequest struct {
	Name string `json:"name" validate:"required,min=2,max=50"`
}

type IdeaSubmitRequest struct {
	Track  string `json:"track" validate:"required"`
	PptURL string `json:"pptUrl" validate:"required,url"`
}

type VideoSubmitRequest struct {
	VideoURL string `json:"videoUrl" validate:"required,url"`
}

type PaymentUpdateRequest struct {
	Status string `json:"status" validate:"required,oneof=PENDING PAID"`
}

type IdeaResponse struct {
	Track       string    `json:"track"`
	PptURL      string    `json:"pptUrl"`
	SubmittedAt time.Time `json:"submittedAt"`
}

type TeamResponse struct {
	ID            int           `json:"id"`
	Number        int           `json:"number"`
	Name          string        `json:"name"`
	LeaderID      int           `json:"leaderId"`
	Members       []int         `json:"members"`
	Complete      bool          `json:"complete"`
	Progress      string        `json:"progress"`
	PaymentStatus string        `json:"paymentStatus"`
	Idea          *IdeaResponse `json:"idea,omitempty"`
	VideoURL      string        `json:"videoUrl,omitempty"`
	Arena         string        `json:"arena,omitempty"`
	GithubTeam    string        `json:"githubTeam,omitempty"`
	Repos         []string      `json:"repos,omitempty"`
}

func TransformTeamFromStorage(t *storage.Team) TeamResponse {
	r := TeamResponse{
		ID:            t.ID,
		Number:        t.Number,
		Name:          t.Name,
		LeaderID:      t.LeaderID,
		Members:       t.Members,
		Complete:      domain.IsComplete(len(t.Members)),
		Progress:      t.Progress,
		PaymentStatus: t.PaymentStatus,
		VideoURL:      t.VideoURL,
		Arena:         t.Arena,
		GithubTeam:    t.GithubTeamSlug,
		Repos:         t.Repos,
	}
	if r.Members == nil {
		r.Members = []int{}
	}
	if t.Idea != nil {
		r.Idea = &IdeaResponse{Track: t.Idea.Track, PptURL: t.Idea.PptURL, SubmittedAt: t.Idea.SubmittedAt}
	}
	return r
}

// TeamViewFromStorage projects a stored team for the dashboard rules.
func TeamViewFromStorage(t *storage.Team) domain.TeamView {
	return domain.TeamView{
		ID:            t.ID,
		Number:        t.Number,
		Name:          t.Name,
		Progress:      domain.TeamProgress(t.Progress),
		Track:         t.Track(),
		Payment:       domain.PaymentStatus(t.PaymentStatus),
		MemberCount:   len(t.Members),
		IdeaSubmitted: t.Idea != nil,
	}
}

func TeamViewsFromStorage(teams []*storage.Team) []domain.TeamView {
	views := make([]domain.TeamView, 0, len(teams))
	for _, t := range teams {
		views = append(views, TeamViewFromStorage(t))
	}
	return views
}
