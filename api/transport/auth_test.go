package transport

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const secret = "test-secret"

func setupAuthRouter() *gin.Engine {
	logging.Log = logrus.New()
	gin.SetMode(gin.TestMode)
	lookup := func(_ context.Context, userID int) (domain.JudgeType, error) {
		switch userID {
		case 50:
			return domain.JudgeDay3Finals, nil
		case 52:
			return "", errors.New("dynamodb: connection reset")
		}
		return "", storage.ErrNotFound
	}

	r := gin.New()
	r.Use(AuthMiddleware(secret, lookup))
	r.GET("/whoami", func(c *gin.Context) {
		actor, _ := ActorFrom(c)
		c.JSON(http.StatusOK, gin.H{"role": actor.Role, "judgeType": actor.JudgeType, "id": actor.UserID})
	})
	r.GET("/organisers", RequireRoles(domain.RoleOrganiser), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func request(t *testing.T, r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	res := httptest.NewRecorder()
	r.ServeHTTP(res, req)
	return res
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthRouter()

	t.Run("Happy path - judge type resolved", func(t *testing.T) {
		token, err := SignToken(secret, 50, domain.RoleJudge, time.Hour)
		require.NoError(t, err)
		res := request(t, r, "/whoami", token)
		assert.Equal(t, http.StatusOK, res.Code)
		assert.Contains(t, res.Body.String(), "DAY3_FINALS")
	})

	t.Run("Happy path - token in query", func(t *testing.T) {
		token, err := SignToken(secret, 3, domain.RoleParticipant, time.Hour)
		require.NoError(t, err)
		res := request(t, r, "/whoami?token="+token, "")
		assert.Equal(t, http.StatusOK, res.Code)
	})

	t.Run("Unhappy path - missing token", func(t *testing.T) {
		assert.Equal(t, http.StatusUnauthorized, request(t, r, "/whoami", "").Code)
	})

	t.Run("Unhappy path - wrong secret", func(t *testing.T) {
		token, err := SignToken("other", 3, domain.RoleParticipant, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, request(t, r, "/whoami", token).Code)
	})

	t.Run("Unhappy path - expired", func(t *testing.T) {
		token, err := SignToken(secret, 3, domain.RoleParticipant, -time.Minute)
		require.NoError(t, err)
		assert.Equal(t, http.StatusUnauthorized, request(t, r, "/whoami", token).Code)
	})

	t.Run("Unhappy path - unregistered judge", func(t *testing.T) {
		token, err := SignToken(secret, 51, domain.RoleJudge, time.Hour)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, request(t, r, "/whoami", token).Code)
	})

	t.Run("Unhappy path - judge lookup failure is not a forbidden", func(t *testing.T) {
		token, err := SignToken(secret, 52, domain.RoleJudge, time.Hour)
		require.NoError(t, err)
		res := request(t, r, "/whoami", token)
		assert.Equal(t, http.StatusInternalServerError, res.Code)
		assert.Contains(t, res.Body.String(), "INTERNAL")
	})
}

func TestRequireRoles(t *testing.T) {
	r := setupAuthRouter()

	organiser, _ := SignToken(secret, 2, domain.RoleOrganiser, time.Hour)
	admin, _ := SignToken(secret, 1, domain.RoleAdmin, time.Hour)
	participant, _ := SignToken(secret, 3, domain.RoleParticipant, time.Hour)

	assert.Equal(t, http.StatusOK, request(t, r, "/organisers", organiser).Code)
	assert.Equal(t, http.StatusOK, request(t, r, "/organisers", admin).Code)
	assert.Equal(t, http.StatusForbidden, request(t, r, "/organisers", participant).Code)
}
