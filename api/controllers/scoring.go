package controllers

import (
	"net/http"
	"sort"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/metrics"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type ScoringController struct {
	scores   storage.ScoreStorage
	criteria storage.CriteriaStorage
	teams    storage.TeamStorage
}

func NewScoringController(scores storage.ScoreStorage, criteria storage.CriteriaStorage, teams storage.TeamStorage) *ScoringController {
	return &ScoringController{scores: scores, criteria: criteria, teams: teams}
}

func (c *ScoringController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/scores", auth, transport.RequireRoles(domain.RoleJudge))

	group.POST("", c.submit)
	group.GET("/pool", c.pool)
	group.GET("/teams/:id", c.teamScores)
}

// starIndex is the zero based star a stored score is displayed at.
func starIndex(judgeType domain.JudgeType, maxScore, score int) int {
	if judgeType.UsesValidatorStars() {
		return domain.ValidatorStarsForScore(score) - 1
	}
	scale, err := domain.NewStarScale(domain.DefaultStars, maxScore)
	if err != nil {
		return 0
	}
	return scale.IndexFor(score)
}

// resolveScore turns whichever input the judge used into a score value.
func resolveScore(req *models.ScoreSubmitRequest, judgeType domain.JudgeType, maxScore int) (int, error) {
	given := 0
	for _, set := range []bool{req.Score != nil, req.Fraction != nil, req.Stars != nil} {
		if set {
			given++
		}
	}
	if given != 1 {
		return 0, domain.Validationf("exactly one of score, fraction or stars is required")
	}

	switch {
	case req.Score != nil:
		return *req.Score, nil
	case req.Stars != nil:
		if !judgeType.UsesValidatorStars() {
			return 0, domain.Validationf("star counts are only accepted from validators, send fraction instead")
		}
		return domain.ValidatorScoreForStars(*req.Stars)
	default:
		scale, err := domain.NewStarScale(domain.DefaultStars, maxScore)
		if err != nil {
			return 0, err
		}
		return scale.ScoreAt(*req.Fraction), nil
	}
}

// @Security BearerToken
// submit godoc
// @Summary Submit or replace a score
// @Description One of score, fraction (star control click position) or stars (validators only)
// @Tags scores
// @Accept json
// @Produce json
// @Param request body models.ScoreSubmitRequest true "Score"
// @Success 200 {object} models.ScoreResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse "Wrong judge type or team not in the judge's pool"
// @Failure 404 {object} models.ErrorResponse
// @Router /api/scores [post]
func (c *ScoringController) submit(g *gin.Context) {
	var req models.ScoreSubmitRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	cr, err := c.criteria.Get(ctx, req.CriteriaID)
	if err != nil {
		if err == storage.ErrNotFound {
			respondError(g, "SCORE", domain.NotFoundf("criteria %d not found", req.CriteriaID))
			return
		}
		respondError(g, "SCORE", err)
		return
	}
	team, err := c.teams.Get(ctx, req.TeamID)
	if err != nil {
		if err == storage.ErrNotFound {
			respondError(g, "SCORE", domain.NotFoundf("team %d not found", req.TeamID))
			return
		}
		respondError(g, "SCORE", err)
		return
	}
	if !domain.InJudgePool(actor.JudgeType, domain.TeamProgress(team.Progress)) {
		respondError(g, "SCORE", domain.Forbiddenf("team %d is %s and not in the %s pool", team.ID, team.Progress, actor.JudgeType))
		return
	}

	value, err := resolveScore(&req, actor.JudgeType, cr.MaxScore)
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}
	if err := domain.ValidateScore(models.CriteriaViewFromStorage(cr), actor.JudgeType, value); err != nil {
		respondError(g, "SCORE", err)
		return
	}

	score := &storage.Score{TeamID: team.ID, CriteriaID: cr.ID, JudgeID: actor.UserID, Score: value}
	if err := c.scores.Upsert(ctx, score); err != nil {
		respondError(g, "SCORE", err)
		return
	}
	metrics.ScoresSubmitted.WithLabelValues(string(actor.JudgeType)).Inc()
	logging.Log.Debugf("SCORE: judge %d gave team %d %d/%d on %q", actor.UserID, team.ID, value, cr.MaxScore, cr.Name)

	g.JSON(http.StatusOK, &models.ScoreResponse{
		TeamID:     score.TeamID,
		CriteriaID: score.CriteriaID,
		JudgeID:    score.JudgeID,
		Score:      score.Score,
		StarIndex:  starIndex(actor.JudgeType, cr.MaxScore, score.Score),
		UpdatedAt:  score.UpdatedAt,
	})
}

// @Security BearerToken
// pool godoc
// @Summary List the caller's criteria and the teams they may score
// @Tags scores
// @Produce json
// @Success 200 {object} models.JudgePoolResponse
// @Router /api/scores/pool [get]
func (c *ScoringController) pool(g *gin.Context) {
	ctx := g.Request.Context()
	actor := actorOf(g)

	criteria, err := c.criteria.GetByJudgeType(ctx, string(actor.JudgeType))
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}
	teams, err := c.teams.GetAll(ctx)
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}

	sort.SliceStable(criteria, func(i, j int) bool { return criteria[i].ID < criteria[j].ID })
	resp := &models.JudgePoolResponse{
		JudgeType: string(actor.JudgeType),
		Criteria:  make([]models.CriteriaResponse, 0, len(criteria)),
		Teams:     make([]models.TeamResponse, 0),
	}
	for _, cr := range criteria {
		resp.Criteria = append(resp.Criteria, models.TransformCriteriaFromStorage(cr))
	}
	for _, t := range teams {
		if domain.InJudgePool(actor.JudgeType, domain.TeamProgress(t.Progress)) {
			resp.Teams = append(resp.Teams, models.TransformTeamFromStorage(t))
		}
	}
	sortTeamResponses(resp.Teams)
	g.JSON(http.StatusOK, resp)
}

// @Security BearerToken
// teamScores godoc
// @Summary Get the caller's scores for a team, one row per criteria of their type
// @Tags scores
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {object} models.JudgeTeamScoresResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/scores/teams/{id} [get]
func (c *ScoringController) teamScores(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	ctx := g.Request.Context()
	actor := actorOf(g)

	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}
	if !domain.InJudgePool(actor.JudgeType, domain.TeamProgress(team.Progress)) {
		respondError(g, "SCORE", domain.Forbiddenf("team %d is not in the %s pool", id, actor.JudgeType))
		return
	}

	criteria, err := c.criteria.GetByJudgeType(ctx, string(actor.JudgeType))
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}
	scores, err := c.scores.GetByTeam(ctx, id)
	if err != nil {
		respondError(g, "SCORE", err)
		return
	}
	mine := make(map[int]int)
	for _, s := range scores {
		if s.JudgeID == actor.UserID {
			mine[s.CriteriaID] = s.Score
		}
	}

	sort.SliceStable(criteria, func(i, j int) bool { return criteria[i].ID < criteria[j].ID })
	resp := &models.JudgeTeamScoresResponse{TeamID: id, Scores: make([]models.CriteriaScore, 0, len(criteria))}
	for _, cr := range criteria {
		row := models.CriteriaScore{CriteriaID: cr.ID, Name: cr.Name, MaxScore: cr.MaxScore, StarIndex: -1}
		if v, ok := mine[cr.ID]; ok {
			row.Score = v
			row.StarIndex = starIndex(actor.JudgeType, cr.MaxScore, v)
		}
		resp.Scores = append(resp.Scores, row)
	}
	g.JSON(http.StatusOK, resp)
}
