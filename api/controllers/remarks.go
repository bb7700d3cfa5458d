package controllers

import (
	"net/http"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type RemarkController struct {
	remarks storage.RemarkStorage
	teams   storage.TeamStorage
}

func NewRemarkController(remarks storage.RemarkStorage, teams storage.TeamStorage) *RemarkController {
	return &RemarkController{remarks: remarks, teams: teams}
}

func (c *RemarkController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/remarks/teams/:id", auth)

	group.GET("", transport.RequireRoles(domain.RoleJudge, domain.RoleOrganiser), c.list)
	group.PUT("", transport.RequireRoles(domain.RoleJudge), c.put)
}

// @Security BearerToken
// put godoc
// @Summary Replace the caller's remark points for a team
// @Tags remarks
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.RemarkRequest true "Points in display order"
// @Success 200 {object} models.RemarkResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 403 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/remarks/teams/{id} [put]
func (c *RemarkController) put(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.RemarkRequest
	if !bindRequest(g, &req) {
		return
	}
	points, err := domain.CleanRemarkPoints(req.Points)
	if err != nil {
		respondError(g, "REMARK", err)
		return
	}

	ctx := g.Request.Context()
	actor := actorOf(g)
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "REMARK", err)
		return
	}
	if !domain.InJudgePool(actor.JudgeType, domain.TeamProgress(team.Progress)) {
		respondError(g, "REMARK", domain.Forbiddenf("team %d is not in the %s pool", id, actor.JudgeType))
		return
	}

	remark := &storage.Remark{TeamID: id, JudgeID: actor.UserID, Points: points}
	if err := c.remarks.Put(ctx, remark); err != nil {
		respondError(g, "REMARK", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformRemarkFromStorage(remark))
}

// @Security BearerToken
// list godoc
// @Summary List every judge's remarks for a team
// @Tags remarks
// @Produce json
// @Param id path int true "Team ID"
// @Success 200 {array} models.RemarkResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/remarks/teams/{id} [get]
func (c *RemarkController) list(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	ctx := g.Request.Context()
	if _, err := c.teams.Get(ctx, id); err != nil {
		respondError(g, "REMARK", err)
		return
	}
	remarks, err := c.remarks.GetByTeam(ctx, id)
	if err != nil {
		respondError(g, "REMARK", err)
		return
	}
	out := make([]models.RemarkResponse, 0, len(remarks))
	for _, r := range remarks {
		out = append(out, models.TransformRemarkFromStorage(r))
	}
	g.JSON(http.StatusOK, out)
}
