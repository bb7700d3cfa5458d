package controllers

import (
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/gin-gonic/gin"
)

type AuditController struct {
	log audit.Log
}

func NewAuditController(log audit.Log) *AuditController {
	return &AuditController{log: log}
}

func (c *AuditController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	engine.GET("/api/audit", auth, transport.RequireRoles(domain.RoleAdmin), c.list)
}

// @Security BearerToken
// list godoc
// @Summary Latest audit entries, newest first
// @Tags audit
// @Produce json
// @Param limit query int false "At most 500, default 100"
// @Success 200 {array} audit.Entry
// @Failure 400 {object} models.ErrorResponse
// @Router /api/audit [get]
func (c *AuditController) list(g *gin.Context) {
	limit := 0
	if raw := g.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			respondError(g, "AUDIT", domain.Validationf("limit must be a positive number"))
			return
		}
		limit = n
	}
	entries, err := c.log.List(g.Request.Context(), limit)
	if err != nil {
		respondError(g, "AUDIT", err)
		return
	}
	g.JSON(http.StatusOK, entries)
}
