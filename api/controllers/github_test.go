package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	testutils "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/controllers/testing"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/audit"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/provisioning"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGithubProvisioning(t *testing.T) {
	f := setupFixture(t, openEvent())
	f.seedParticipants(t, 1, 6)
	f.seedTeam(t, 1, "Selected", domain.ProgressSelected, "FINTECH", 1, 2, 3)
	f.seedTeam(t, 2, "Broken", domain.ProgressTop15, "FINTECH", 4)
	f.seedTeam(t, 3, "Rejected", domain.ProgressNotSelected, "FINTECH", 5, 6)
	f.github.failTeams["hf-team-002"] = true
	admin := testutils.AuthHeader(100, domain.RoleAdmin)

	t.Run("Happy path - provision eligible teams", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/github/teams", models.GithubTeamsRequest{}, admin)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		var resp models.GithubBatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))

		assert.Equal(t, 1, resp.Report.Succeeded)
		require.Len(t, resp.Report.Failed, 1)
		assert.Equal(t, "Broken", resp.Report.Failed[0].Name)

		team, err := f.teams.Get(context.TODO(), 1)
		require.NoError(t, err)
		assert.Equal(t, "hf-team-001", team.GithubTeamSlug)
		assert.Equal(t, []string{"hf-001"}, team.Repos)
		assert.ElementsMatch(t, []string{"user1", "user2", "user3"}, f.github.teams["hf-team-001"])
		assert.Equal(t, provisioning.PermissionPush, f.github.permissions["hf-team-001/hf-001"])
		assert.NotContains(t, f.github.repos, "hf-003")

		require.Len(t, f.audit.Entries, 1)
		assert.Equal(t, audit.ActionGithubBatch, f.audit.Entries[0].Action)
		assert.Equal(t, "1", f.audit.Entries[0].Details["failed"])
	})

	t.Run("Happy path - provisioned teams are skipped", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/github/teams", models.GithubTeamsRequest{TeamIDs: []int{1}}, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.GithubBatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 0, resp.Report.Succeeded)
		assert.Empty(t, resp.Results)
	})

	t.Run("Happy path - freeze commits", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/github/commit-access", models.GithubCommitAccessRequest{GithubTeamsRequest: models.GithubTeamsRequest{TeamIDs: []int{1}}, Allow: false}, admin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, provisioning.PermissionPull, f.github.permissions["hf-team-001/hf-001"])
	})

	t.Run("Happy path - visibility reports teams without repos", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/github/visibility", models.GithubVisibilityRequest{GithubTeamsRequest: models.GithubTeamsRequest{TeamIDs: []int{1, 2}}, Private: false}, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.GithubBatchResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 1, resp.Report.Succeeded)
		require.Len(t, resp.Report.Failed, 1)
		assert.False(t, f.github.repos["hf-001"])
	})

	t.Run("Unhappy path - unknown team", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/github/visibility", models.GithubVisibilityRequest{GithubTeamsRequest: models.GithubTeamsRequest{TeamIDs: []int{42}}}, admin)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Happy path - invite", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/github/invite", models.GithubInviteRequest{Username: "octocat"}, admin)
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, []string{"octocat"}, f.github.invited)
	})

	t.Run("Unhappy path - organisers cannot provision", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/github/teams", models.GithubTeamsRequest{}, testutils.AuthHeader(50, domain.RoleOrganiser))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
