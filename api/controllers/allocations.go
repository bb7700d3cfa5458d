package controllers

import (
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

// AllocationController assigns teams to arenas. An arena seats one team.
type AllocationController struct {
	teams  storage.TeamStorage
	arenas []string
	audit  audit.Log
}

func NewAllocationController(teams storage.TeamStorage, arenas []string, log audit.Log) *AllocationController {
	return &AllocationController{teams: teams, arenas: arenas, audit: log}
}

func (c *AllocationController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/organiser", auth, transport.RequireRoles(domain.RoleOrganiser))

	group.GET("/arenas", c.arenaList)
	group.PUT("/teams/:id/arena", c.allocate)
}

func (c *AllocationController) knownArena(arena string) bool {
	for _, a := range c.arenas {
		if a == arena {
			return true
		}
	}
	return false
}

// ArenaResponse is an arena and the team seated in it, if any.
type ArenaResponse struct {
	Arena    string `json:"arena"`
	TeamID   int    `json:"teamId,omitempty"`
	TeamName string `json:"teamName,omitempty"`
}

// @Security BearerToken
// arenaList godoc
// @Summary List arenas and their teams
// @Tags allocations
// @Produce json
// @Success 200 {array} controllers.ArenaResponse
// @Router /api/organiser/arenas [get]
func (c *AllocationController) arenaList(g *gin.Context) {
	teams, err := c.teams.GetAll(g.Request.Context())
	if err != nil {
		respondError(g, "ALLOCATION", err)
		return
	}
	seated := make(map[string]*storage.Team)
	for _, t := range teams {
		if t.Arena != "" {
			seated[t.Arena] = t
		}
	}
	out := make([]ArenaResponse, 0, len(c.arenas))
	for _, a := range c.arenas {
		row := ArenaResponse{Arena: a}
		if t, ok := seated[a]; ok {
			row.TeamID, row.TeamName = t.ID, t.Name
		}
		out = append(out, row)
	}
	g.JSON(http.StatusOK, out)
}

// @Security BearerToken
// allocate godoc
// @Summary Seat a team in an arena
// @Tags allocations
// @Accept json
// @Produce json
// @Param id path int true "Team ID"
// @Param request body models.ArenaAllocationRequest true "Arena"
// @Success 200 {object} models.TeamResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 404 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse "Arena already allocated"
// @Router /api/organiser/teams/{id}/arena [put]
func (c *AllocationController) allocate(g *gin.Context) {
	id, ok := pathID(g, "id")
	if !ok {
		return
	}
	var req models.ArenaAllocationRequest
	if !bindRequest(g, &req) {
		return
	}
	if !c.knownArena(req.Arena) {
		respondError(g, "ALLOCATION", domain.Validationf("unknown arena %q", req.Arena))
		return
	}

	ctx := g.Request.Context()
	team, err := c.teams.Get(ctx, id)
	if err != nil {
		respondError(g, "ALLOCATION", err)
		return
	}
	previous := team.Arena

	if err := c.teams.AllocateArena(ctx, id, req.Arena); err != nil {
		if err == storage.ErrSlotTaken {
			respondError(g, "ALLOCATION", c.holderConflict(g, req.Arena))
			return
		}
		respondError(g, "ALLOCATION", err)
		return
	}
	team.Arena = req.Arena

	actor := actorOf(g)
	audit.Record(ctx, c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionArenaAllocated,
		EntityType: "team",
		EntityID:   strconv.Itoa(id),
		OldValue:   previous,
		NewValue:   req.Arena,
	})
	g.JSON(http.StatusOK, models.TransformTeamFromStorage(team))
}

// holderConflict names the team occupying arena when it can be found.
func (c *AllocationController) holderConflict(g *gin.Context, arena string) error {
	teams, err := c.teams.GetAll(g.Request.Context())
	if err == nil {
		for _, t := range teams {
			if t.Arena == arena {
				return domain.Conflictf("arena %s is already allocated to team %q", arena, t.Name)
			}
		}
	}
	return domain.Conflictf("arena %s is already allocated", arena)
}
