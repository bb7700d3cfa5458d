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

func scan(f *fixture, code string) (int, models.AttendanceScanResponse) {
	w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/scan", models.AttendanceScanRequest{Code: code}, testutils.AuthHeader(60, domain.RoleVolunteer))
	var resp models.AttendanceScanResponse
	_ = json.Unmarshal(w.Body.Bytes(), &resp)
	return w.Code, resp
}

func TestAttendanceScan(t *testing.T) {
	f := setupFixture(t, openEvent())
	f.seedParticipants(t, 1, 3)

	t.Run("Happy path - first scan marks the participant", func(t *testing.T) {
		code, resp := scan(f, " code1")
		require.Equal(t, http.StatusOK, code)
		assert.False(t, resp.AlreadyIn)
		assert.True(t, resp.Participant.Attended)
		assert.Equal(t, 1, resp.Participant.ID)

		p, err := f.participants.Get(context.TODO(), 1)
		require.NoError(t, err)
		assert.True(t, p.Attended)
		require.NotNil(t, p.AttendedAt)
	})

	t.Run("Happy path - repeat scan changes nothing", func(t *testing.T) {
		before, err := f.participants.Get(context.TODO(), 1)
		require.NoError(t, err)

		code, resp := scan(f, "CODE1")
		require.Equal(t, http.StatusOK, code)
		assert.True(t, resp.AlreadyIn)

		after, err := f.participants.Get(context.TODO(), 1)
		require.NoError(t, err)
		assert.Equal(t, before.AttendedAt, after.AttendedAt)
		assert.Equal(t, []string{audit.ActionAttendanceMarked}, f.audit.Actions())
	})

	t.Run("Unhappy path - unknown code", func(t *testing.T) {
		code, _ := scan(f, "NOPE")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Unhappy path - participants cannot scan", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/scan", models.AttendanceScanRequest{Code: "CODE2"}, testutils.AuthHeader(2, domain.RoleParticipant))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})

	t.Run("Happy path - list present and absent", func(t *testing.T) {
		organiser := testutils.AuthHeader(50, domain.RoleOrganiser)
		w := testutils.PerformRequest(f.router, http.MethodGet, "/api/attendance?attended=true", nil, organiser)
		require.Equal(t, http.StatusOK, w.Code)
		var present []models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &present))
		require.Len(t, present, 1)

		w = testutils.PerformRequest(f.router, http.MethodGet, "/api/attendance?attended=false", nil, organiser)
		require.Equal(t, http.StatusOK, w.Code)
		var absent []models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &absent))
		assert.Len(t, absent, 2)

		w = testutils.PerformRequest(f.router, http.MethodGet, "/api/attendance?attended=maybe", nil, organiser)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAttendanceAdmin(t *testing.T) {
	f := setupFixture(t, openEvent())
	f.seedParticipants(t, 1, 2)
	admin := testutils.AuthHeader(100, domain.RoleAdmin)
	scan(f, "CODE1")
	scan(f, "CODE2")

	t.Run("Happy path - regenerate code", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/participants/2/code", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.ParticipantResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.NotEqual(t, "CODE2", resp.QRCode)

		code, _ := scan(f, "CODE2")
		assert.Equal(t, http.StatusNotFound, code)
	})

	t.Run("Unhappy path - unknown participant", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/participants/99/code", nil, admin)
		assert.Equal(t, http.StatusNotFound, w.Code)
	})

	t.Run("Happy path - reset clears everyone", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/reset", nil, admin)
		require.Equal(t, http.StatusOK, w.Code)
		var resp models.AttendanceResetResponse
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Reset)
		assert.Contains(t, f.audit.Actions(), audit.ActionAttendanceReset)

		code, again := scan(f, "CODE1")
		require.Equal(t, http.StatusOK, code)
		assert.False(t, again.AlreadyIn)
	})

	t.Run("Unhappy path - volunteers cannot reset", func(t *testing.T) {
		w := testutils.PerformRequest(f.router, http.MethodPost, "/api/attendance/reset", nil, testutils.AuthHeader(60, domain.RoleVolunteer))
		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}
