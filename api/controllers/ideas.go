package controllers

import (
	"net/http"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type IdeaController struct {
	teams    storage.TeamStorage
	settings storage.SettingsStorage
}

func NewIdeaController(teams storage.TeamStorage, settings storage.SettingsStorage) *IdeaController {
	return &IdeaController{teams: teams, settings: settings}
}

func (c *IdeaController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/teams/:id", auth, transport.RequireRoles(domain.RoleParticipant))

	group.POST("/idea", c.submitIdea)
	group.PUT("/video", c.submitVideo)
}

// @Security BearerToken
// submitIdea godoc
// @Summary Submit the team's idea
// @Description Leader only, once, and only when the team has 3 or 4 members
// @Tags ideas
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.IdeaSubmitRequest true "Idea"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Idea already submitted"
// @Router /api/teams/{id}/idea [post]
func (c *IdeaController) submitIdea(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.IdeaSubmitRequest
	if !bindRequest(g, &req) {
		return
	}
	if !domain.ValidTrack(req.Track) {
		respondError(g, "IDEA", domain.Validationf("unknown track %q", req.Track))
		return
	}

	ctx := g.Request.Context()
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "IDEA", err)
		return
	}
	if team.LeaderID != actorOf(g).UserID {
		respondError(g, "IDEA", domain.Forbiddenf("only the team leader can submit the idea"))
		return
	}
	if team.Idea != nil {
		respondError(g, "IDEA", domain.Conflictf("team %q already submitted an idea", team.Name))
		return
	}
	if !domain.IsComplete(len(team.Members)) {
		respondError(g, "IDEA", domain.Validationf("team needs %d to %d members to submit, it has %d",
			domain.MinTeamSize, domain.MaxTeamSize, len(team.Members)))
		return
	}

	team.Idea = &storage.IdeaSubmission{Track: req.Track, PptURL: req.PptURL, SubmittedAt: time.Now().UTC()}
	if err := c.teams.Update(ctx, team); err != nil {
		respondError(g, "IDEA", err)
		return
	}
	logging.Log.Infof("IDEA: team %d submitted an idea for %s", id, req.Track)
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security BearerToken
// submitVideo godoc
// @Summary Submit or replace the team's video URL
// @Tags ideas
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.VideoSubmitRequest true "Video"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/{id}/video [put]
func (c *IdeaController) submitVideo(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.VideoSubmitRequest
	if !bindRequest(g, &req) {
		return
	}

	ctx := g.Request.Context()
	settings, err := c.settings.Get(ctx)
	if err != nil {
		respondError(g, "IDEA", err)
		return
	}
	if !settings.IsVideoSubmissionOpen {
		respondError(g, "IDEA", domain.Forbiddenf("video submission is closed"))
		return
	}

	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "IDEA", err)
		return
	}
	if team.LeaderID != actorOf(g).UserID {
		respondError(g, "IDEA", domain.Forbiddenf("only the team leader can submit the video"))
		return
	}
	team.VideoURL = req.VideoURL
	if err := c.teams.Update(ctx, team); err != nil {
		respondError(g, "IDEA", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}
