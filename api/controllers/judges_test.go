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

func TestJudgeMeta(t *testing.T) {
	f := setupFixture(t, openEvent())
	admin := testutils.AuthHeader(100, domain.RoleAdmin)

	t.Run("Happy path - register a judge", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/meta/judges", models.JudgeCreateRequest{ID: 10, Name: "Dr. Shetty", Type: "DAY2_ROUND1"}, admin)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	})

	t.Run("Unhappy path - already a judge", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/meta/judges", models.JudgeCreateRequest{ID: 10, Name: "Someone", Type: "VALIDATOR"}, admin)
		require.Equal(t, http.StatusConflict, w.Code)
		assert.Contains(t, decodeError(t, w.Body.Bytes()).Error, "Dr. Shetty")
	})

	t.Run("Unhappy path - unknown type", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/meta/judges", models.JudgeCreateRequest{ID: 11, Name: "Someone", Type: "AUDIENCE"}, admin)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Happy path - type change applies on the next request", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/meta/judges/10", models.JudgeUpdateRequest{Name: "Dr. Shetty", Type: "DAY3_FINALS"}, admin)
		require.Equal(t, http.StatusOK, w.Code)

		w = testutils.PerformRequest(f.router, http.MethodGet, "/api/judges/me", nil, testutils.AuthHeader(10, domain.RoleJudge))
		require.Equal(t, http.StatusOK, w.Code)
		var me models.JudgeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &me))
		assert.Equal(t, "DAY3_FINALS", me.Type)
		assert.False(t, me.TutorialShown)
	})

	t.Run("Happy path - list", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/meta/judges", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var judges []models.JudgeResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &judges))
		require.Len(t, judges, 1)
	})

	t.Run("Happy path - remove", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodDelete, "/api/meta/judges/10", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		_, err := f.judges.Get(context.TODO(), 10)
		assert.ErrorIs(t, err, storage.ErrNotFound)
	})

	t.Run("Unhappy path - removed judge loses access", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/judges/me", nil, testutils.AuthHeader(10, domain.RoleJudge))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestJudgeTutorial(t *testing.T) {
	f := setupFixture(t, openEvent())
	f.seedJudge(t, 10, domain.JudgeValidator)
	judge := testutils.AuthHeader(10, domain.RoleJudge)

	w := testutils.PerformRequest(f.router, http.MethodPut, "/api/judges/me/tutorial", nil, judge)
	require.Equal(t, http.StatusOK, w.Code)

	j, err := f.judges.Get(context.TODO(), 10)
	require.NoError(t, err)
	assert.True(t, j.TutorialShown)
}
