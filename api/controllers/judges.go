package controllers

import (
	"net/http"
	"sort"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

type JudgeController struct {
	judges storage.JudgeStorage
}

func NewJudgeController(judges storage.JudgeStorage) *JudgeController {
	return &JudgeController{judges: judges}
}

func (c *JudgeController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	meta := engine.Group("/api/meta/judges", auth, transport.RequireRoles(domain.RoleAdmin))
	meta.GET("", c.getAll)
	meta.GET("/:id", c.get)
	meta.POST("", c.create)
	meta.PUT("/:id", c.update)
	meta.DELETE("/:id", c.delete)

	self := engine.Group("/api/judges/me", auth, transport.RequireRoles(domain.RoleJudge))
	self.GET("", c.me)
	self.PUT("/tutorial", c.tutorialShown)
}

// @Security BearerToken
// @Summary Get all judges
// @Tags Meta/Judges
// @Produce json
// @Success 200 {array} models.JudgeResponse
// @Router /api/meta/judges [get]
func (c *JudgeController) getAll(g *gin.Context) {
	judges, err := c.judges.GetAll(g.Request.Context())
	if err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	sort.SliceStable(judges, func(i, j int) bool {
		return judges[i].ID < judges[j].ID
	})
	responses := make([]models.JudgeResponse, 0, len(judges))
	for _, j := range judges {
		responses = append(responses, models.TransformJudgeFromStorage(j))
	}
	g.JSON(http.StatusOK, responses)
}

// @Security BearerToken
// @Summary Get a judge by user ID
// @Tags Meta/Judges
// @Produce json
// @Param id path int true "Judge user ID"
// @Success 200 {object} models.JudgeResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [get]
func (c *JudgeController) get(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	j, err := c.judges.Get(g.Request.Context(), id)
	if err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(j))
}

// @Security BearerToken
// @Summary Register a user as a judge
// @Tags Meta/Judges
// @Accept json
// @Produce json
// @Param judge body models.JudgeCreateRequest true "Judge"
// @Success 201 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Router /api/meta/judges [post]
func (c *JudgeController) create(g *gin.Context) {
	var req models.JudgeCreateRequest
	if !bindRequest(g, &req) {
		return
	}
	if _, err := parseJudgeType(req.Type); err != nil {
		respondError(g, "JUDGE", err)
		return
	}

	ctx := g.Request.Context()
	if existing, err := c.judges.Get(ctx, req.ID); err == nil {
		respondError(g, "JUDGE", domain.Conflictf("user %d is already judge %q", req.ID, existing.Name))
		return
	} else if err != storage.ErrNotFound {
		respondError(g, "JUDGE", err)
		return
	}

	j := &storage.Judge{ID: req.ID, Name: req.Name, Type: req.Type}
	if err := c.judges.Put(ctx, j); err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	logging.Log.Infof("JUDGE: registered %d as %s", j.ID, j.Type)
	g.JSON(http.StatusCreated, models.TransformJudgeFromStorage(j))
}

// @Security BearerToken
// @Summary Update a judge
// @Description Changing the type takes effect on the judge's next request
// @Tags Meta/Judges
// @Accept json
// @Produce json
// @Param id path int true "Judge user ID"
// @Param judge body models.JudgeUpdateRequest true "Judge"
// @Success 200 {object} models.JudgeResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [put]
func (c *JudgeController) update(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.JudgeUpdateRequest
	if !bindRequest(g, &req) {
		return
	}
	if _, err := parseJudgeType(req.Type); err != nil {
		respondError(g, "JUDGE", err)
		return
	}

	ctx := g.Request.Context()
	j, err := c.judges.Get(ctx, id)
	if err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	j.Name = req.Name
	j.Type = req.Type
	if err := c.judges.Put(ctx, j); err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(j))
}

// @Security BearerToken
// @Summary Remove a judge
// @Tags Meta/Judges
// @Produce json
// @Param id path int true "Judge user ID"
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/meta/judges/{id} [delete]
func (c *JudgeController) delete(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	if err := c.judges.Delete(g.Request.Context(), id); err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "judge removed"})
}

// @Security BearerToken
// @Summary Get the caller's judge record
// @Tags judges
// @Produce json
// @Success 200 {object} models.JudgeResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/judges/me [get]
func (c *JudgeController) me(g *gin.Context) {
	j, err := c.judges.Get(g.Request.Context(), actorOf(g).UserID)
	if err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformJudgeFromStorage(j))
}

// @Security BearerToken
// @Summary Mark the scoring tutorial as shown
// @Tags judges
// @Produce json
// @Success 200 {object} models.MessageResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/judges/me/tutorial [put]
func (c *JudgeController) tutorialShown(g *gin.Context) {
	if err := c.judges.MarkTutorialShown(g.Request.Context(), actorOf(g).UserID); err != nil {
		respondError(g, "JUDGE", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "tutorial marked as shown"})
}
