package controllers

import (
	"net/http"
	"sort"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type CriteriaMetaController struct {
	criteria storage.CriteriaStorage
	scores   storage.ScoreStorage
	audit    audit.Log
}

func NewCriteriaMetaController(criteria storage.CriteriaStorage, scores storage.ScoreStorage, log audit.Log) *CriteriaMetaController {
	return &CriteriaMetaController{criteria: criteria, scores: scores, audit: log}
}

func (c *CriteriaMetaController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/meta/criteria", auth, transport.RequireRoles(domain.RoleAdmin))

	group.GET("", c.getAll)
	group.GET("/:id", c.get)
	group.POST("", c.create)
	group.PUT("/:id", c.update)
	group.DELETE("/:id", c.delete)
}

func parseJudgeType(s string) (domain.JudgeType, error) {
	jt := domain.JudgeType(s)
	if !jt.Valid() {
		return "", domain.Validationf("unknown judge type %q", s)
	}
	return jt, nil
}

// @Security BearerToken
// @Summary Get all criteria
// @Tags Meta/Criteria
// @Produce json
// @Param judgeType query string false "Only criteria of this judge type"
// @Success 200 {array} models.CriteriaResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/meta/criteria [get]
func (c *CriteriaMetaController) getAll(g *gin.Context) {
	ctx := g.Request.Context()
	var (
		criteria []*storage.Criteria
		err      error
	)
	if raw := g.Query("judgeType"); raw != "" {
		jt, perr := parseJudgeType(raw)
		if perr != nil {
			respondError(g, "META", perr)
			return
		}
		criteria, err = c.criteria.GetByJudgeType(ctx, string(jt))
	} else {
		criteria, err = c.criteria.GetAll(ctx)
	}
	if err != nil {
		respondError(g, "META", err)
		return
	}

	sort.SliceStable(criteria, func(i, j int) bool {
		return criteria[i].ID < criteria[j].ID
	})
	responses := make([]models.CriteriaResponse, 0, len(criteria))
	for _, cr := range criteria {
		responses = append(responses, models.TransformCriteriaFromStorage(cr))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security BearerToken
// @Summary Get a criterion by ID
// @Tags Meta/Criteria
// @Produce json
// @Param id path int true "Criteria ID"
// @Success 200 {object} models.CriteriaResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/meta/criteria/{id} [get]
func (c *CriteriaMetaController) get(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	cr, err := c.criteria.Get(g.Request.Context(), id)
	if err != nil {
		respondError(g, "META", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformCriteriaFromStorage(cr))
}

// @Security BearerToken
// @Summary Create a criterion
// @Tags Meta/Criteria
// @Accept json
// @Produce json
// @Param criteria body models.CriteriaCreateRequest true "Criteria"
// @Success 201 {object} models.CriteriaResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/meta/criteria [post]
func (c *CriteriaMetaController) create(g *gin.Context) {
	var req models.CriteriaCreateRequest
	if !bindRequest(g, &req) {
		return
	}
	if _, err := parseJudgeType(req.JudgeType); err != nil {
		respondError(g, "META", err)
		return
	}

	cr := &storage.Criteria{ID: req.ID, Name: req.Name, MaxScore: req.MaxScore, JudgeType: req.JudgeType}
	if err := c.criteria.Create(g.Request.Context(), cr); err != nil {
		if err == storage.ErrItemWithIDAlreadyExists {
			respondError(g, "META", domain.Conflictf("criteria with id %d already exists", req.ID))
			return
		}
		respondError(g, "META", err)
		return
	}
	logging.Log.Infof("META: created criteria %d %q for %s", cr.ID, cr.Name, cr.JudgeType)
	g.JSON(http.StatusCreated, models.TransformCriteriaFromStorage(cr))
}

// @Security BearerToken
// @Summary Update a criterion
// @Tags Meta/Criteria
// @Accept json
// @Produce json
// @Param id path int true "Criteria ID"
// @Param criteria body models.CriteriaUpdateRequest true "Criteria"
// @Description Once scored, a criterion keeps its judge type and its max score can only grow
// @Success 200 {object} models.CriteriaResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/meta/criteria/{id} [put]
func (c *CriteriaMetaController) update(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.CriteriaUpdateRequest
	if !bindRequest(g, &req) {
		return
	}
	if _, err := parseJudgeType(req.JudgeType); err != nil {
		respondError(g, "META", err)
		return
	}

	ctx := g.Request.Context()
	current, err := c.criteria.Get(ctx, id)
	if err != nil {
		respondError(g, "META", err)
		return
	}
	if req.MaxScore < current.MaxScore || req.JudgeType != current.JudgeType {
		n, err := c.scores.CountByCriteria(ctx, id)
		if err != nil {
			respondError(g, "META", err)
			return
		}
		if n > 0 {
			respondError(g, "META", domain.Conflictf("criteria %q has %d scores; its judge type cannot change and its max score cannot drop below %d",
				current.Name, n, current.MaxScore))
			return
		}
	}

	cr := &storage.Criteria{ID: id, Name: req.Name, MaxScore: req.MaxScore, JudgeType: req.JudgeType}
	if err := c.criteria.Update(ctx, cr); err != nil {
		respondError(g, "META", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformCriteriaFromStorage(cr))
}

// @Security BearerToken
// @Summary Delete a criterion
// @Description Fails with a conflict while any score references the criterion
// @Tags Meta/Criteria
// @Produce json
// @Param id path int true "Criteria ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/meta/criteria/{id} [delete]
func (c *CriteriaMetaController) delete(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	ctx := g.Request.Context()
	cr, err := c.criteria.Get(ctx, id)
	if err != nil {
		respondError(g, "META", err)
		return
	}

	n, err := c.scores.CountByCriteria(ctx, id)
	if err != nil {
		respondError(g, "META", err)
		return
	}
	if n > 0 {
		respondError(g, "META", domain.Conflictf("criteria %q has %d scores and cannot be deleted", cr.Name, n))
		return
	}

	if err := c.criteria.Delete(ctx, id); err != nil {
		respondError(g, "META", err)
		return
	}

	actor := actorOf(g)
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionCriteriaDeleted,
		EntityType: "criteria",
		EntityID:   strconv.Itoa(id),
		OldValue:   cr.Name,
	})
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "criteria deleted"})
}
