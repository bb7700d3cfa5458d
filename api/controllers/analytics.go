package controllers

import (
	"net/http"
	"strings"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type AnalyticsController struct {
	participants storage.ParticipantStorage
	teams        storage.TeamStorage
}

func NewAnalyticsController(participants storage.ParticipantStorage, teams storage.TeamStorage) *AnalyticsController {
	return &AnalyticsController{participants: participants, teams: teams}
}

func (c *AnalyticsController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	engine.GET("/api/analytics", auth, transport.RequireRoles(domain.RoleOrganiser), c.summary)
}

// @Security BearerToken
// summary godoc
// @Summary Registration, team and attendance counts
// @Tags analytics
// @Produce json
// @Success 200 {object} models.AnalyticsResponse
// @Router /api/analytics [get]
func (c *AnalyticsController) summary(g *gin.Context) {
	ctx := g.Request.Context()
	participants, err := c.participants.GetAll(ctx)
	if err != nil {
		respondError(g, "ANALYTICS", err)
		return
	}
	teams, err := c.teams.GetAll(ctx)
	if err != nil {
		respondError(g, "ANALYTICS", err)
		return
	}

	resp := &models.AnalyticsResponse{
		Participants: len(participants),
		Teams:        len(teams),
		ByProgress:   make(map[string]int),
		ByTrack:      make(map[string]int),
		ByPayment:    make(map[string]int),
		ByCollege:    make(map[string]int),
	}
	for _, p := range participants {
		if p.Attended {
			resp.Attended++
		}
		college := strings.TrimSpace(p.College)
		if college == "" {
			college = "UNKNOWN"
		}
		resp.ByCollege[college]++
	}
	for _, t := range teams {
		if domain.IsComplete(len(t.Members)) {
			resp.CompleteTeams++
		}
		if t.Idea != nil {
			resp.IdeasSubmitted++
			resp.ByTrack[t.Idea.Track]++
		}
		resp.ByProgress[t.Progress]++
		resp.ByPayment[t.PaymentStatus]++
	}
	g.JSON(http.StatusOK, resp)
}
