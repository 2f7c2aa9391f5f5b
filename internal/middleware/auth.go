package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/quocanhngo/hifcm/internal/model"
	"github.com/quocanhngo/hifcm/pkg/auth"
	"github.com/redis/go-redis/v9"
)

const userIDKey = "user_id"

// RevocationList reports whether a token has been revoked
type RevocationList interface {
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// RedisRevocationList checks the "blacklist:<token>" keys
type RedisRevocationList struct {
	rdb *redis.Client
}

func NewRedisRevocationList(rdb *redis.Client) *RedisRevocationList {
	return &RedisRevocationList{rdb: rdb}
}

func (l *RedisRevocationList) IsRevoked(ctx context.Context, token string) (bool, error) {
	exists, err := l.rdb.Exists(ctx, "blacklist:"+token).Result()
	if err != nil {
		return false, err
	}
	return exists > 0, nil
}

// AuthMiddleware validates JWT tokens and injects the caller's user id into context
func AuthMiddleware(jwtManager *auth.JWTManager, revoked RevocationList) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			forbidden(c, "Authorization header required")
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
			forbidden(c, "Invalid authorization format. Use: Bearer <token>")
			return
		}

		tokenString := parts[1]

		// Fail closed when the revocation list can't be read
		isRevoked, err := revoked.IsRevoked(c.Request.Context(), tokenString)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError,
				model.NewAPIResponse("rest_auth_unavailable", "Auth server error", http.StatusInternalServerError))
			return
		}
		if isRevoked {
			forbidden(c, "Token has been revoked")
			return
		}

		claims, err := jwtManager.ValidateToken(tokenString)
		if err != nil {
			forbidden(c, "Invalid or expired token")
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Set("email", claims.Email)

		c.Next()
	}
}

// UserID returns the authenticated caller set by AuthMiddleware
func UserID(c *gin.Context) (uint, bool) {
	v, ok := c.Get(userIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

func forbidden(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized,
		model.NewAPIResponse("rest_forbidden", message, http.StatusUnauthorized))
}
