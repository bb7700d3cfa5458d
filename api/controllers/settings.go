package controllers

import (
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/views"
	"github.com/gin-gonic/gin"
)

// SettingsController serves the event switches and the per-user dashboard view.
type SettingsController struct {
	settings storage.SettingsStorage
	views    *views.Store
	audit    audit.Log
}

func NewSettingsController(settings storage.SettingsStorage, store *views.Store, log audit.Log) *SettingsController {
	return &SettingsController{settings: settings, views: store, audit: log}
}

func (c *SettingsController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	engine.GET("/api/settings", c.get)
	engine.PUT("/api/settings", auth, transport.RequireRoles(domain.RoleAdmin), c.put)

	group := engine.Group("/api/views", auth)
	group.GET("", c.viewList)
	group.PUT("/active", c.setActiveView)
}

// get godoc
// @Summary Get the event switches
// @Tags settings
// @Produce json
// @Success 200 {object} models.SettingsResponse
// @Router /api/settings [get]
func (c *SettingsController) get(g *gin.Context) {
	s, err := c.settings.Get(g.Request.Context())
	if err != nil {
		respondError(g, "SETTINGS", err)
		return
	}
	g.JSON(http.StatusOK, models.TransformSettingsFromStorage(s))
}

// @Security BearerToken
// put godoc
// @Summary Replace the event switches
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.SettingsRequest true "Settings"
// @Success 200 {object} models.SettingsResponse
// @Failure 400 {object} models.ErrorResponse
// @Router /api/settings [put]
func (c *SettingsController) put(g *gin.Context) {
	var req models.SettingsRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	s := &storage.AppSettings{
		IsRegistrationOpen:    req.IsRegistrationOpen,
		IsPaymentOpen:         req.IsPaymentOpen,
		IsVideoSubmissionOpen: req.IsVideoSubmissionOpen,
		IsProfileEditOpen:     req.IsProfileEditOpen,
		IsResultOpen:          req.IsResultOpen,
	}
	if err := c.settings.Put(ctx, s); err != nil {
		respondError(g, "SETTINGS", err)
		return
	}

	actor := actorOf(g)
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionSettingsUpdated,
		EntityType: "settings",
		EntityID:   "global",
		Details: map[string]string{
			"registration": strconv.FormatBool(s.IsRegistrationOpen),
			"payment":      strconv.FormatBool(s.IsPaymentOpen),
			"video":        strconv.FormatBool(s.IsVideoSubmissionOpen),
			"profileEdit":  strconv.FormatBool(s.IsProfileEditOpen),
			"results":      strconv.FormatBool(s.IsResultOpen),
		},
	})
	logging.Log.Infof("SETTINGS: updated by %d", actor.UserID)
	g.JSON(http.StatusOK, models.TransformSettingsFromStorage(s))
}

// @Security BearerToken
// viewList godoc
// @Summary Dashboard views open to the caller and the one they had active
// @Tags settings
// @Produce json
// @Success 200 {object} models.ViewsResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/views [get]
func (c *SettingsController) viewList(g *gin.Context) {
	actor := actorOf(g)
	active, err := c.views.Active(g.Request.Context(), actor)
	if err != nil {
		respondError(g, "VIEWS", err)
		return
	}
	allowed := domain.ViewsFor(actor.Role, actor.JudgeType)
	resp := &models.ViewsResponse{Views: make([]string, 0, len(allowed)), Active: string(active)}
	for _, v := range allowed {
		resp.Views = append(resp.Views, string(v))
	}
	g.JSON(http.StatusOK, resp)
}

// @Security BearerToken
// setActiveView godoc
// @Summary Remember the caller's active dashboard view
// @Tags settings
// @Accept json
// @Produce json
// @Param request body models.ActiveViewRequest true "View"
// @Success 200 {object} models.MessageResponse
// @Failure 403 {object} models.ErrorResponse
// @Router /api/views/active [put]
func (c *SettingsController) setActiveView(g *gin.Context) {
	var req models.ActiveViewRequest
	if !bindRequest(g, &req) {
		return
	}
	if err := c.views.SetActive(g.Request.Context(), actorOf(g), domain.View(req.View)); err != nil {
		respondError(g, "VIEWS", err)
		return
	}
	g.JSON(http.StatusOK, &models.MessageResponse{Message: "active view saved"})
}
