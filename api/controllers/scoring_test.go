package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	testutils "github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/controllers/testing"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/api/models"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }

func setupScoring(t *testing.T) *fixture {
	f := setupFixture(t, openEvent())
	ctx := context.TODO()
	f.seedParticipants(t, 1, 6)
	f.seedTeam(t, 1, "Selected", domain.ProgressSelected, "FINTECH", 1, 2, 3)
	f.seedTeam(t, 2, "Fresh", domain.ProgressNotSelected, "HEALTHCARE", 4, 5, 6)
	require.NoError(t, f.criteria.Create(ctx, &storage.Criteria{ID: 1, Name: "Innovation", MaxScore: 10, JudgeType: string(domain.JudgeDay2Round1)}))
	require.NoError(t, f.criteria.Create(ctx, &storage.Criteria{ID: 2, Name: "Impact", MaxScore: 10, JudgeType: string(domain.JudgeDay2Round1)}))
	require.NoError(t, f.criteria.Create(ctx, &storage.Criteria{ID: 3, Name: "Feasibility", MaxScore: 10, JudgeType: string(domain.JudgeValidator)}))
	f.seedJudge(t, 10, domain.JudgeDay2Round1)
	f.seedJudge(t, 11, domain.JudgeValidator)
	f.seedJudge(t, 12, domain.JudgeRemark)
	return f
}

func TestSubmitScore(t *testing.T) {
	f := setupScoring(t)
	judge := testutils.AuthHeader(10, domain.RoleJudge)

	t.Run("Happy path - resubmitting replaces the score", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 1, Score: intPtr(4)}, judge)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		w = testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 1, Score: intPtr(9)}, judge)
		require.Equal(t, http.StatusOK, w.Code)

		scores, err := f.scores.GetByTeam(context.TODO(), 1)
		require.NoError(t, err)
		require.Len(t, scores, 1)
		assert.Equal(t, 9, scores[0].Score)
		assert.Equal(t, 10, scores[0].JudgeID)
	})

	t.Run("Happy path - click fraction maps through the star scale", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 2, Fraction: floatPtr(0.65)}, judge)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var resp models.ScoreResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 8, resp.Score)
		assert.Equal(t, 3, resp.StarIndex)
	})

	t.Run("Unhappy path - star counts are validator only", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 2, Stars: intPtr(3)}, judge)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unhappy path - more than one input", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 2, Score: intPtr(3), Fraction: floatPtr(0.2)}, judge)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unhappy path - above the criteria max", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 2, Score: intPtr(11)}, judge)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Unhappy path - criteria of another judge type", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 3, Score: intPtr(4)}, judge)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unhappy path - team outside the pool", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 2, CriteriaID: 1, Score: intPtr(4)}, judge)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unhappy path - remark judges cannot score", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 1, Score: intPtr(4)}, testutils.AuthHeader(12, domain.RoleJudge))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Unhappy path - unknown criteria", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 99, Score: intPtr(4)}, judge)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Unhappy path - participants cannot score", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 1, CriteriaID: 1, Score: intPtr(4)}, testutils.AuthHeader(1, domain.RoleParticipant))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestValidatorStars(t *testing.T) {
	f := setupScoring(t)
	validator := testutils.AuthHeader(11, domain.RoleJudge)

	w := testutils.PerformRequest(f.router, http.MethodPost, "/api/scores", models.ScoreSubmitRequest{TeamID: 2, CriteriaID: 3, Stars: intPtr(4)}, validator)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp models.ScoreResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, 8, resp.Score)
	assert.Equal(t, 3, resp.StarIndex)

	w = testutils.PerformRequest(f.router, http.MethodGet, "/api/scores/teams/2", nil, validator)
	require.Equal(t, http.StatusOK, w.Code)
	var scores models.JudgeTeamScoresResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
	require.Len(t, scores.Scores, 1)
	assert.Equal(t, 8, scores.Scores[0].Score)
	assert.Equal(t, 3, scores.Scores[0].StarIndex)
}

func TestJudgePool(t *testing.T) {
	f := setupScoring(t)
	judge := testutils.AuthHeader(10, domain.RoleJudge)

	w := testutils.PerformRequest(f.router, http.MethodGet, "/api/scores/pool", nil, judge)
	require.Equal(t, http.StatusOK, w.Code)
	var pool models.JudgePoolResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	assert.Equal(t, string(domain.JudgeDay2Round1), pool.JudgeType)
	require.Len(t, pool.Criteria, 2)
	require.Len(t, pool.Teams, 1)
	assert.Equal(t, "Selected", pool.Teams[0].Name)

	t.Run("Happy path - unscored criteria have no star", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/scores/teams/1", nil, judge)
		require.Equal(t, http.StatusOK, w.Code)
		var scores models.JudgeTeamScoresResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &scores))
		require.Len(t, scores.Scores, 2)
		assert.Equal(t, -1, scores.Scores[0].StarIndex)
	})

	t.Run("Unhappy path - team outside the pool", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/scores/teams/2", nil, judge)
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
