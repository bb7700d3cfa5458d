package controllers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/transport"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/provisioning"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
)

// GithubController runs the source control batches for selected teams.
type GithubController struct {
	provisioner  *provisioning.Provisioner
	teams        storage.TeamStorage
	participants storage.ParticipantStorage
	audit        audit.Log
}

func NewGithubController(p *provisioning.Provisioner, teams storage.TeamStorage, participants storage.ParticipantStorage, log audit.Log) *GithubController {
	return &GithubController{provisioner: p, teams: teams, participants: participants, audit: log}
}

func (c *GithubController) RegisterRoutes(engine *gin.Engine, auth gin.HandlerFunc) {
	group := engine.Group("/api/github", auth, transport.RequireRoles(domain.RoleAdmin))

	group.POST("/teams", c.provision)
	group.PUT("/visibility", c.visibility)
	group.PUT("/commit-access", c.commitAccess)
	group.POST("/invite", c.invite)
}

// eligible reports whether a team takes part in the hackathon proper.
func eligible(t *storage.Team) bool {
	p := domain.TeamProgress(t.Progress)
	return p == domain.ProgressSelected || p == domain.ProgressTop15 || p.IsAward()
}

// targets resolves the requested teams, or every eligible team when ids is empty.
func (c *GithubController) targets(ctx context.Context, ids []int) ([]*storage.Team, []provisioning.Target, error) {
	var teams []*storage.Team
	if len(ids) == 0 {
		all, err := c.teams.GetAll(ctx)
		if err != nil {
			return nil, nil, err
		}
		for _, t := range all {
			if eligible(t) {
				teams = append(teams, t)
			}
		}
	} else {
		for _, id := range ids {
			t, err := c.teams.Get(ctx, id)
			if err != nil {
				if err == storage.ErrNotFound {
					return nil, nil, domain.NotFoundf("team %d not found", id)
				}
				return nil, nil, err
			}
			teams = append(teams, t)
		}
	}

	targets := make([]provisioning.Target, 0, len(teams))
	for _, t := range teams {
		target := provisioning.Target{TeamID: t.ID, Number: t.Number, Name: t.Name, Slug: t.GithubTeamSlug, Repos: t.Repos}
		for _, memberID := range t.Members {
			p, err := c.participants.Get(ctx, memberID)
			if err != nil {
				logging.Log.Warnf("GITHUB: member %d of team %d not loaded: %v", memberID, t.ID, err)
				continue
			}
			if p.GithubUsername != "" {
				target.Usernames = append(target.Usernames, p.GithubUsername)
			}
		}
		targets = append(targets, target)
	}
	return teams, targets, nil
}

func (c *GithubController) recordBatch(g *gin.Context, operation string, report provisioning.Report) {
	actor := actorOf(g)
	audit.Record(g.Request.Context(), c.audit, &audit.Entry{
		ActorID:    actor.UserID,
		ActorRole:  string(actor.Role),
		Action:     audit.ActionGithubBatch,
		EntityType: "github",
		EntityID:   operation,
		Details: map[string]string{
			"succeeded": strconv.Itoa(report.Succeeded),
			"failed":    strconv.Itoa(len(report.Failed)),
		},
	})
}

// @Security BearerToken
// provision godoc
// @Summary Create GitHub teams and repositories
// @Description Teams that already have a GitHub team are skipped. Failures are reported per team.
// @Tags github
// @Accept json
// @Produce json
// @Param request body models.GithubTeamsRequest true "Teams, empty for every selected team"
// @Success 200 {object} models.GithubBatchResponse
// @Failure 404 {object} models.ErrorResponse
// @Router /api/github/teams [post]
func (c *GithubController) provision(g *gin.Context) {
	var req models.GithubTeamsRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	teams, targets, err := c.targets(ctx, req.TeamIDs)
	if err != nil {
		respondError(g, "GITHUB", err)
		return
	}

	report, results := c.provisioner.ProvisionTeams(ctx, targets)

	byID := make(map[int]*storage.Team, len(teams))
	for _, t := range teams {
		byID[t.ID] = t
	}
	for _, r := range results {
		t := byID[r.TeamID]
		t.GithubTeamSlug, t.Repos = r.Slug, r.Repos
		if err := c.teams.Update(ctx, t); err != nil {
			logging.Log.Errorf("GITHUB: team %d provisioned as %s but not saved: %v", t.ID, r.Slug, err)
			report.Failed = append(report.Failed, provisioning.Failure{Name: t.Name, Error: "provisioned but not saved"})
		}
	}

	c.recordBatch(g, "provision", report)
	g.JSON(http.StatusOK, &models.GithubBatchResponse{Report: report, Results: results})
}

// @Security BearerToken
// visibility godoc
// @Summary Make team repositories private or public
// @Tags github
// @Accept json
// @Produce json
// @Param request body models.GithubVisibilityRequest true "Teams and visibility"
// @Success 200 {object} models.GithubBatchResponse
// @Router /api/github/visibility [put]
func (c *GithubController) visibility(g *gin.Context) {
	var req models.GithubVisibilityRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	_, targets, err := c.targets(ctx, req.TeamIDs)
	if err != nil {
		respondError(g, "GITHUB", err)
		return
	}
	report := c.provisioner.SetVisibility(ctx, targets, req.Private)
	c.recordBatch(g, "visibility", report)
	g.JSON(http.StatusOK, &models.GithubBatchResponse{Report: report})
}

// @Security BearerToken
// commitAccess godoc
// @Summary Allow or freeze pushes to team repositories
// @Tags github
// @Accept json
// @Produce json
// @Param request body models.GithubCommitAccessRequest true "Teams and access"
// @Success 200 {object} models.GithubBatchResponse
// @Router /api/github/commit-access [put]
func (c *GithubController) commitAccess(g *gin.Context) {
	var req models.GithubCommitAccessRequest
	if !bindRequest(g, &req) {
		return
	}
	ctx := g.Request.Context()
	_, targets, err := c.targets(ctx, req.TeamIDs)
	if err != nil {
		respondError(g, "GITHUB", err)
		return
	}
	report := c.provisioner.SetCommitAccess(ctx, targets, req.Allow)
	c.recordBatch(g, "commit-access", report)
	g.JSON(http.StatusOK, &models.GithubBatchResponse{Report: report})
}

// @Security BearerToken
// invite godoc
// @Summary Invite a GitHub user to the organisation
// @Tags github
// @Accept json
// @Produce json
// @Param request body models.GithubInviteRequest true "Username"
// @Success 200 {object} provisioning.Invitation
// @Failure 400 {object} models.ErrorResponse
// @Failure 500 {object} models.ErrorResponse
// @Router /api/github/invite [post]
func (c *GithubController) invite(g *gin.Context) {
	var req models.GithubInviteRequest
	if !bindRequest(g, &req) {
		return
	}
	inv, err := c.provisioner.Invite(g.Request.Context(), req.Username)
	if err != nil {
		respondError(g, "GITHUB", err)
		return
	}
	g.JSON(http.StatusOK, inv)
}
