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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArenaAllocation(t *testing.T) {
	f := setupFixture(t, openEvent())
	f.seedParticipants(t, 1, 2)
	f.seedTeam(t, 1, "First", domain.ProgressSelected, "FINTECH", 1)
	f.seedTeam(t, 2, "Second", domain.ProgressSelected, "FINTECH", 2)
	organiser := testutils.AuthHeader(50, domain.RoleOrganiser)

	t.Run("Happy path - seat a team", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/organiser/teams/1/arena", models.ArenaAllocationRequest{Arena: "ADA"}, organiser)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		team, err := f.teams.Get(context.TODO(), 1)
		require.NoError(t, err)
		assert.Equal(t, "ADA", team.Arena)
		assert.Equal(t, []string{audit.ActionArenaAllocated}, f.audit.Actions())
	})

	t.Run("Unhappy path - arena already taken", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/organiser/teams/2/arena", models.ArenaAllocationRequest{Arena: "ADA"}, organiser)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, decodeError(t, w.Body.Bytes()).Error, `"First"`)
	})

	t.Run("Unhappy path - unknown arena", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/organiser/teams/2/arena", models.ArenaAllocationRequest{Arena: "HOPPER"}, organiser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Happy path - moving frees the old arena", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/organiser/teams/1/arena", models.ArenaAllocationRequest{Arena: "TURING"}, organiser)
		require.Equal(t, http.StatusOK, w.Code)
		w = testutils.PerformRequest(f.router, http.MethodPut, "/api/organiser/teams/2/arena", models.ArenaAllocationRequest{Arena: "ADA"}, organiser)
		require.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(f.router, http.MethodGet, "/api/organiser/arenas", nil, organiser)
		require.Equal(t, http.StatusOK, w.Code)
		var arenas []ArenaResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &arenas))
		assert.Equal(t, []ArenaResponse{
			{Arena: "ADA", TeamID: 2, TeamName: "Second"},
			{Arena: "TURING", TeamID: 1, TeamName: "First"},
		}, arenas)
	})
}
