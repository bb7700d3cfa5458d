package transport

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/domain"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/logging"
	"github.com/Finite-Loop-Club-NMAMIT/hackfest-api/storage"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const actorKey = "actor"

// Claims is the token payload issued by the login service.
type Claims struct {
	UserID int    `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// JudgeTypeLookup resolves the judge type of a judge account.
type JudgeTypeLookup func(ctx context.Context, userID int) (domain.JudgeType, error)

// SignToken issues an HS256 token; the login service uses the same format.
func SignToken(secret string, userID int, role domain.Role, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   string(role),
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

func parseToken(secret, tokenStr string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("unexpected signing method")
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, err
	}
	if !token.Valid {
		return nil, errors.New("invalid token")
	}
	return claims, nil
}

// AuthMiddleware verifies the bearer token (or the token query parameter, which
// browsers need for websockets) and stores the caller as a domain.Actor.
func AuthMiddleware(secret string, judges JudgeTypeLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenStr := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if tokenStr == "" {
			tokenStr = c.Query("token")
		}
		if tokenStr == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "missing auth token"})
			return
		}

		claims, err := parseToken(secret, tokenStr)
		if err != nil {
			logging.Log.Warnf("AUTH: rejected token on %s: %v", c.Request.URL.Path, err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "invalid token"})
			return
		}
		role := domain.Role(claims.Role)
		if !role.Valid() || claims.UserID <= 0 {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "invalid token claims"})
			return
		}

		actor := domain.Actor{UserID: claims.UserID, Role: role}
		if role == domain.RoleJudge && judges != nil {
			judgeType, err := judges(c.Request.Context(), claims.UserID)
			if errors.Is(err, storage.ErrNotFound) {
				logging.Log.Warnf("AUTH: judge %d has no judge record", claims.UserID)
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": string(domain.CodeForbidden), "error": "judge is not registered"})
				return
			}
			if err != nil {
				logging.Log.Errorf("AUTH: judge lookup for %d failed: %v", claims.UserID, err)
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"code": string(domain.CodeInternal), "error": "internal server error"})
				return
			}
			actor.JudgeType = judgeType
		}

		c.Set(actorKey, actor)
		c.Next()
	}
}

// RequireRoles lets admins through and otherwise only the listed roles.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		actor, ok := ActorFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"code": "UNAUTHORIZED", "error": "unauthenticated"})
			return
		}
		if actor.Role == domain.RoleAdmin {
			c.Next()
			return
		}
		for _, r := range roles {
			if actor.Role == r {
				c.Next()
				return
			}
		}
		logging.Log.Warnf("ADMIN: %s %d denied access to %s", actor.Role, actor.UserID, c.Request.URL.Path)
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"code": string(domain.CodeForbidden), "error": "insufficient role"})
	}
}

func ActorFrom(c *gin.Context) (domain.Actor, bool) {
	v, ok := c.Get(actorKey)
	if !ok {
		return domain.Actor{}, false
	}
	actor, ok := v.(domain.Actor)
	return actor, ok
}
