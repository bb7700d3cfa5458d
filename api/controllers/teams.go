package controllers

import (
	"net/http"
	"strings"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type TeamController struct {
	teams        storage.TeamStorage
	participants storage.ParticipantStorage
	settings     storage.SettingsStorage
	maxTeamSize  int
}

func NewTeamController(teams storage.TeamStorage, participants storage.ParticipantStorage, settings storage.SettingsStorage, maxTeamSize int) *TeamController {
	if maxTeamSize <= 0 {
		maxTeamSize = domain.MaxTeamSize
	}
	return &TeamController{teams: teams, participants: participants, settings: settings, maxTeamSize: maxTeamSize}
}

func (c *TeamController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/teams", auth)
	participant := transport.RequireRoles(domain.RoleParticipant)

	group.GET("", transport.RequireRoles(domain.RoleOrganiser), c.list)
	group.POST("", participant, c.create)
	group.GET("/me", participant, c.mine)
	group.GET("/:id", c.get)
	group.POST("/:id/join", participant, c.join)
	group.POST("/:id/leave", participant, c.leave)
	group.DELETE("/:id", participant, c.delete)
	group.PUT("/:id/payment", transport.RequireRoles(domain.RoleOrganiser), c.setPayment)
}

func isMember(team *storage.Team, userID int) bool {
	for _, id := range team.Members {
		if id == userID {
			return true
		}
	}
	return false
}

func (c *TeamController) registrationOpen(g *gin.Context) bool {
	settings, err := c.settings.Get(g.Request.Context())
	if err != nil {
		respondError(g, "TEAM", err)
		return false
	}
	if !settings.IsRegistrationOpen {
		respondError(g, "TEAM", domain.Forbiddenf("registration is closed"))
		return false
	}
	return true
}

// @Security BearerToken
// create godoc
// @Summary Create a team led by the caller
// @Tags teams
// @Accept json
// @Produce json
// @Param request body models.TeamCreateRequest true "Team"
// @Success 201 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse "Caller is not registered"
// @Failure 409 {object} models.ErrorResponse "Caller already in a team"
// @Router /api/teams [post]
func (c *TeamController) create(g *gin.Context) {
	var req models.TeamCreateRequest
	if !bindRequest(g, &req) || !c.registrationOpen(g) {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	p, err := c.participants.Get(ctx, actor.UserID)
	if err != nil {
		if err == storage.ErrNotFound {
			respondError(g, "TEAM", domain.NotFoundf("register as a participant before creating a team"))
			return
		}
		respondError(g, "TEAM", err)
		return
	}
	if p.TeamID != 0 {
		respondError(g, "TEAM", domain.Conflictf("you are already in team %d", p.TeamID))
		return
	}

	team := &storage.Team{
		Name:          strings.TrimSpace(req.Name),
		LeaderID:      actor.UserID,
		Progress:      string(domain.ProgressNotSelected),
		PaymentStatus: string(domain.PaymentPending),
		CreatedAt:     time.Now().UTC(),
	}
	if err := c.teams.Create(ctx, team); err != nil {
		respondError(g, "TEAM", err)
		return
	}
	g.JSON(http.StatusCreated, models.TransformTeamFromStorage(team))
}

// @Security BearerToken
// mine godoc
// @Summary Get the caller's team
// @Tags teams
// @Produce json
// @Success 200 {object} models.TeamResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/me [get]
func (c *TeamController) mine(g *gin.Context) {
	ctx := g.Request.Context()
	p, err := c.participants.Get(ctx, actorOf(g).UserID)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	if p.TeamID == 0 {
		respondError(g, "TEAM", domain.NotFoundf("you are not in a team"))
		return
	}
	team, err := c.teams.Get(ctx, p.TeamID)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security BearerToken
// get godoc
// @Summary Get a team by ID
// @Description Members and staff only
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.TeamResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/{id} [get]
func (c *TeamController) get(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	team, err := c.teams.Get(g.Request.Context(), id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	actor := actorOf(g)
	if actor.Role == domain.RoleParticipant && !isMember(team, actor.UserID) {
		respondError(g, "TEAM", domain.Forbiddenf("you are not a member of team %d", id))
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security BearerToken
// list godoc
// @Summary List teams with filters
// @Tags teams
// @Produce json
// @Param progress query string false "Comma separated progress states"
// @Param track query string false "Idea track"
// @Param payment query string false "PENDING or PAID"
// @Param complete query bool false "Only teams with a complete roster"
// @Param search query string false "Team name contains"
// @Success 200 {array} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/teams [get]
func (c *TeamController) list(g *gin.Context) {
	filter, err := teamFilterFromQuery(g)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	teams, err := c.teams.GetAll(g.Request.Context())
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}

	responses := make([]models.TeamResponse, 0, len(teams))
	for _, t := range teams {
		if filter.Match(models.TeamViewFromStorage(t)) {
			responses = append(responses, models.TransformTeamFromStorage(t))
		}
	}
	sortTeamResponses(responses)
	logging.Log.Infof("TEAM: listed %d of %d teams", len(responses), len(teams))
	g.JSON(http.StatusOK, responses)
}

// @Security BearerToken
// join godoc
// @Summary Join a team
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse "Team full or roster locked"
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Already in a team"
// @Router /api/teams/{id}/join [post]
func (c *TeamController) join(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok || !c.registrationOpen(g) {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	if team.Idea != nil {
		respondError(g, "TEAM", domain.Validationf("team %q has submitted its idea, the roster is locked", team.Name))
		return
	}
	if _, err := c.participants.Get(ctx, actor.UserID); err != nil {
		respondError(g, "TEAM", err)
		return
	}

	if err := c.teams.AddMember(ctx, id, actor.UserID, c.maxTeamSize); err != nil {
		if err == storage.ErrTeamFull {
			respondError(g, "TEAM", domain.Validationf("team %q already has %d members", team.Name, c.maxTeamSize))
			return
		}
		respondError(g, "TEAM", err)
		return
	}

	team, err = c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// @Security BearerToken
// leave godoc
// @Summary Leave a team
// @Description The leader cannot leave; they delete the team instead
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/{id}/leave [post]
func (c *TeamController) leave(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	if !isMember(team, actor.UserID) {
		respondError(g, "TEAM", domain.NotFoundf("you are not a member of team %d", id))
		return
	}
	if team.LeaderID == actor.UserID {
		respondError(g, "TEAM", domain.Validationf("the team leader cannot leave, delete the team instead"))
		return
	}
	if team.Idea != nil {
		respondError(g, "TEAM", domain.Validationf("team %q has submitted its idea, the roster is locked", team.Name))
		return
	}
	if err := c.teams.RemoveMember(ctx, id, actor.UserID); err != nil {
		respondError(g, "TEAM", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "left team"})
}

// @Security BearerToken
// delete godoc
// @Summary Delete a team
// @Description Leader only, before the idea is submitted. Admins may always delete.
// @Tags teams
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.MessageResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/{id} [delete]
func (c *TeamController) delete(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	if actor.Role != domain.RoleAdmin {
		if team.LeaderID != actor.UserID {
			respondError(g, "TEAM", domain.Forbiddenf("only the team leader can delete the team"))
			return
		}
		if team.Idea != nil {
			respondError(g, "TEAM", domain.Validationf("team %q has submitted its idea and can no longer be deleted", team.Name))
			return
		}
	}
	if err := c.teams.Delete(ctx, id); err != nil {
		respondError(g, "TEAM", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "team deleted"})
}

// @Security BearerToken
// setPayment godoc
// @Summary Record a team's payment status
// @Tags teams
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.PaymentUpdateRequest true "Status"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/teams/{id}/payment [put]
func (c *TeamController) setPayment(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.PaymentUpdateRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "TEAM", err)
		return
	}
	team.PaymentStatus = req.Status
	if err := c.teams.Update(ctx, team); err != nil {
		respondError(g, "TEAM", err)
		return
	}
	logging.Log.Infof("TEAM: payment of team %d set to %s", id, req.Status)
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}
