package controllers

import (
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/metrics"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

// ProgressController moves teams through selection and serves the ranking dashboards.
type ProgressController struct {
	teams    storage.TeamStorage
	criteria storage.CriteriaStorage
	scores   storage.ScoreStorage
	settings storage.SettingsStorage
	audit    audit.Log
}

func NewProgressController(teams storage.TeamStorage, criteria storage.CriteriaStorage, scores storage.ScoreStorage,
	settings storage.SettingsStorage, log audit.Log) *ProgressController {
	return &ProgressController{teams: teams, criteria: criteria, scores: scores, settings: settings, audit: log}
}

func (c *ProgressController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	engine.PUT("/api/teams/:id/progress", auth, transport.RequireRoles(domain.RoleJudge), c.changeProgress)

	dashboard := engine.Group("/api/dashboard", auth, transport.RequireRoles(domain.RoleOrganiser, domain.RoleJudge))
	dashboard.GET("/rankings", c.rankings)
	dashboard.GET("/awards", c.awards)
	dashboard.GET("/teams/:id/scores", c.teamScores)

	engine.GET("/api/results", c.results)
}

// @Security BearerToken
// changeProgress godoc
// @Summary Change a team's selection progress
// @Description Admins may set any state. Day 3 finals judges may only toggle between SELECTED and TOP15.
// @Description Award states (WINNER, RUNNER, SECOND_RUNNER, TRACK per track) are held by one team at a time.
// @Tags progress
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.ProgressChangeRequest true "Target progress"
// @Success 200 {object} models.ProgressChangeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Award already held or team changed concurrently"
// @Router /api/teams/{id}/progress [put]
func (c *ProgressController) changeProgress(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.ProgressChangeRequest
	if !bindRequest(g, &req) {
		return
	}
	target, err := domain.ParseProgress(req.Progress)
	if err != nil {
		respondError(g, "PROGRESS", err)
		return
	}

	ctx := g.Request.Context()
	actor := actorOf(g)
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "PROGRESS", err)
		return
	}
	current := domain.TeamProgress(team.Progress)

	if err := domain.AuthorizeTransition(actor, current, target); err != nil {
		respondError(g, "PROGRESS", err)
		return
	}
	resp := &models.ProgressChangeResponse{TeamID: id, From: string(current), Progress: string(target)}
	if current == target {
		g.JSON(http.StatusOK, resp)
		return
	}

	if target.IsAward() {
		if target == domain.ProgressTrack && team.Track() == "" {
			respondError(g, "PROGRESS", domain.Validationf("team %q has no idea track for a track award", team.Name))
			return
		}
		all, err := c.teams.GetAll(ctx)
		if err != nil {
			respondError(g, "PROGRESS", err)
			return
		}
		if err := domain.CheckAwardAvailable(models.TeamViewsFromStorage(all), id, target, team.Track()); err != nil {
			respondError(g, "PROGRESS", err)
			return
		}
	}

	err = c.teams.SetProgress(ctx, storage.ProgressChange{
		TeamID: id,
		From:   string(current),
		To:     string(target),
		Track:  team.Track(),
	})
	switch err {
	case nil:
	case storage.ErrSlotTaken:
		respondError(g, "PROGRESS", domain.Conflictf("%s is already held by another team", target))
		return
	case storage.ErrConditionFailed:
		respondError(g, "PROGRESS", domain.Conflictf("team %q was changed concurrently, reload and retry", team.Name))
		return
	default:
		respondError(g, "PROGRESS", err)
		return
	}

	metrics.ProgressTransitions.WithLabelValues(string(current), string(target)).Inc()
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionProgressChanged,
		EntityType: "team",
		EntityID:   strconv.Itoa(id),
		OldValue:   string(current),
		NewValue:   string(target),
	})
	logging.Log.Infof("PROGRESS: team %d %s -> %s by %s %d", id, current, target, actor.Role, actor.UserID)

	resp.Changed = true
	g.JSON(http.StatusOK, resp)
}

// dashboardJudgeType is the caller's own type for judges, the judgeType query otherwise.
func dashboardJudgeType(g *gin.Context) (domain.JudgeType, error) {
	actor := actorOf(g)
	if actor.Role == domain.RoleJudge {
		return actor.JudgeType, nil
	}
	raw := g.Query("judgeType")
	if raw == "" {
		return "", domain.Validationf("judgeType is required")
	}
	return parseJudgeType(raw)
}

// scoreInputs groups the scores given on criteria by team, keeping only the criteria listed.
func scoreInputs(scores []*storage.Score, criteria []*storage.Criteria) map[int][]domain.ScoreInput {
	maxByCriteria := make(map[int]int, len(criteria))
	for _, cr := range criteria {
		maxByCriteria[cr.ID] = cr.MaxScore
	}
	byTeam := make(map[int][]domain.ScoreInput)
	for _, s := range scores {
		maxScore, ok := maxByCriteria[s.CriteriaID]
		if !ok {
			continue
		}
		byTeam[s.TeamID] = append(byTeam[s.TeamID], domain.ScoreInput{
			JudgeID:    s.JudgeID,
			CriteriaID: s.CriteriaID,
			Value:      s.Score,
			MaxScore:   maxScore,
		})
	}
	return byTeam
}

// @Security BearerToken
// rankings godoc
// @Summary Rank teams by normalized or raw score for one judge type
// @Description Judges always see their own type. Progress defaults to the judge type's pool.
// @Tags dashboard
// @Produce json
// @Param judgeType query string false "Judge type (organisers and admins)"
// @Param sort query string false "normalized (default), raw or number"
// @Param progress query string false "Comma separated progress states"
// @Param track query string false "Idea track"
// @Param payment query string false "PENDING or PAID"
// @Param complete query bool false "Only complete teams"
// @Param search query string false "Team name contains"
// @Success 200 {object} models.RankingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/dashboard/rankings [get]
func (c *ProgressController) rankings(g *gin.Context) {
	judgeType, err := dashboardJudgeType(g)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	key, err := domain.ParseSortKey(g.Query("sort"))
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	filter, err := teamFilterFromQuery(g)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	if len(filter.Progress) == 0 {
		filter.Progress = domain.JudgePool(judgeType)
	}

	ctx := g.Request.Context()
	teams, err := c.teams.GetAll(ctx)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	criteria, err := c.criteria.GetByJudgeType(ctx, string(judgeType))
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	scores, err := c.scores.GetAll(ctx)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}

	byID := make(map[int]*storage.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	inputs := scoreInputs(scores, criteria)
	summaries := make(map[int]domain.TeamSummary, len(inputs))
	for teamID, in := range inputs {
		summaries[teamID] = domain.SummarizeTeam(teamID, in)
	}

	views := domain.FilterTeams(models.TeamViewsFromStorage(teams), filter)
	ranked := domain.RankTeams(views, summaries, key)

	resp := &models.RankingsResponse{JudgeType: string(judgeType), Sort: string(key), Teams: make([]models.RankingRow, 0, len(ranked))}
	for _, r := range ranked {
		resp.Teams = append(resp.Teams, models.RankingRow{
			Rank:          r.Rank,
			Team:          models.TransformTeamFromStorage(byID[r.Team.ID]),
			Normalized:    r.Summary.Normalized,
			RawTotal:      r.Summary.RawTotal,
			MaxPossible:   r.Summary.MaxPossible,
			RawPercentage: r.Summary.RawPercentage,
			Judges:        r.Summary.Judges,
		})
	}
	g.JSON(http.StatusOK, resp)
}

func (c *ProgressController) awardHolders(g *gin.Context) ([]models.AwardHolderResponse, bool) {
	teams, err := c.teams.GetAll(g.Request.Context())
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return nil, false
	}
	holders := domain.AwardHolders(models.TeamViewsFromStorage(teams))
	out := make([]models.AwardHolderResponse, 0, len(holders))
	for _, h := range holders {
		out = append(out, models.AwardHolderResponse{Award: string(h.Award), Track: h.Track, TeamID: h.TeamID, TeamName: h.TeamName})
	}
	return out, true
}

// @Security BearerToken
// awards godoc
// @Summary List the teams currently holding an award
// @Tags dashboard
// @Produce json
// @Success 200 {array} models.AwardHolderResponse
// @Router /api/dashboard/awards [get]
func (c *ProgressController) awards(g *gin.Context) {
	holders, ok := c.awardHolders(g)
	if !ok {
		return
	}
	g.JSON(http.StatusOK, holders)
}

// results godoc
// @Summary Public list of award winners once results are published
// @Tags dashboard
// @Produce json
// @Success 200 {array} models.AwardHolderResponse
// @Failure 403 {object} models.ErrorResponse "Results not published"
// @Router /api/results [get]
func (c *ProgressController) results(g *gin.Context) {
	settings, err := c.settings.Get(g.Request.Context())
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	if !settings.IsResultOpen {
		respondError(g, "DASHBOARD", domain.Forbiddenf("results are not published yet"))
		return
	}
	holders, ok := c.awardHolders(g)
	if !ok {
		return
	}
	g.JSON(http.StatusOK, holders)
}

// @Security BearerToken
// teamScores godoc
// @Summary Score breakdown of a team for one judge type
// @Tags dashboard
// @Produce json
// @Param id path int true "Team ID"
// @Param judgeType query string false "Judge type (organisers and admins)"
// @Success 200 {object} models.TeamScoresResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/dashboard/teams/{id}/scores [get]
func (c *ProgressController) teamScores(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	judgeType, err := dashboardJudgeType(g)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}

	ctx := g.Request.Context()
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	criteria, err := c.criteria.GetByJudgeType(ctx, string(judgeType))
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}
	scores, err := c.scores.GetByTeam(ctx, id)
	if err != nil {
		respondError(g, "DASHBOARD", err)
		return
	}

	g.JSON(http.StatusOK, &models.TeamScoresResponse{
		Team:    models.TransformTeamFromStorage(team),
		Summary: domain.SummarizeTeam(id, scoreInputs(scores, criteria)[id]),
	})
}
