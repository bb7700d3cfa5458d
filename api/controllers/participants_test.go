package controllers

import (
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

func TestParticipantRegistration(t *testing.T) {
	f := setupFixture(t, openEvent())
	me := testutils.AuthHeader(7, domain.RoleParticipant)
	req := models.ParticipantRegisterRequest{
		Name:           "Asha Rao",
		Email:          "asha@example.com",
		Phone:          "9876543210",
		College:        "NMAMIT",
		GithubUsername: "asharao",
	}

	t.Run("Happy path - register and read back", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/participants", req, me)
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
		var created models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
		assert.Equal(t, 7, created.ID)
		assert.Len(t, created.QRCode, qrCodeLength)

		w = testutils.PerformRequest(f.router, http.MethodGet, "/api/participants/me", nil, me)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, created.QRCode, got.QRCode)
	})

	t.Run("Unhappy path - registering twice", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/participants", req, me)
		assert.Equal(t, http.StatusConflict, w.Code)
	})

	t.Run("Unhappy path - invalid email", func(t *testing.T) {
		bad := req
		bad.Email = "not-an-email"
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/participants", bad, testutils.AuthHeader(8, domain.RoleParticipant))
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Happy path - edit profile", func(t *testing.T) {
		upd := models.ParticipantUpdateRequest{Name: "Asha R", Phone: "9876543210", College: "NMAM Institute"}
		w := testutils.PerformRequest(f.router, http.MethodPut, "/api/participants/me", upd, me)
		require.Equal(t, http.StatusOK, w.Code)
		var got models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
		assert.Equal(t, "NMAM Institute", got.College)
		assert.Equal(t, "asha@example.com", got.Email)
	})

	t.Run("Unhappy path - unregistered profile", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/participants/me", nil, testutils.AuthHeader(9, domain.RoleParticipant))
		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestParticipantWindowsClosed(t *testing.T) {
	f := setupFixture(t, storage.AppSettings{})
	f.seedParticipants(t, 1, 1)
	me := testutils.AuthHeader(1, domain.RoleParticipant)

	w := testutils.PerformRequest(f.router, http.MethodPost, "/api/participants", models.ParticipantRegisterRequest{
		Name: "Late Comer", Email: "late@example.com", Phone: "9876543210", College: "NMAMIT",
	}, testutils.AuthHeader(2, domain.RoleParticipant))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = testutils.PerformRequest(f.router, http.MethodPut, "/api/participants/me", models.ParticipantUpdateRequest{
		Name: "Participant 1", Phone: "9876543210", College: "NMAMIT",
	}, me)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
