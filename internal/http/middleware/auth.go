package middleware

import (
	"errors"
	"net/http"
	"strings"

	"bikeflow/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

const authKey = "auth"

// RequireAdmin accepts an HS256 bearer token signed with secret and
// carrying role=admin. With an empty secret every request is rejected.
func RequireAdmin(secret []byte) gin.HandlerFunc {
	return func(c *gin.Context) {
		if len(secret) == 0 {
			abortAuth(c, http.StatusServiceUnavailable, "admin access disabled")
			return
		}

		raw := strings.TrimSpace(c.GetHeader("Authorization"))
		if !strings.HasPrefix(raw, "Bearer ") {
			abortAuth(c, http.StatusUnauthorized, "missing bearer token")
			return
		}
		tokenString := strings.TrimSpace(strings.TrimPrefix(raw, "Bearer "))

		claims := jwt.MapClaims{}
		_, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
			return secret, nil
		}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithExpirationRequired())
		if err != nil {
			abortAuth(c, http.StatusUnauthorized, "invalid token")
			return
		}

		role, _ := claims["role"].(string)
		if role != "admin" {
			abortAuth(c, http.StatusForbidden, "admin role required")
			return
		}
		sub, _ := claims.GetSubject()
		c.Set(authKey, domain.RequestContext{Subject: sub, Role: role})
		c.Next()
	}
}

// GetAuth returns the authenticated caller set by RequireAdmin.
func GetAuth(c *gin.Context) (domain.RequestContext, error) {
	if v, ok := c.Get(authKey); ok {
		if rc, ok := v.(domain.RequestContext); ok {
			return rc, nil
		}
	}
	return domain.RequestContext{}, errors.New("no authenticated caller")
}

func abortAuth(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, gin.H{
		"error":      message,
		"request_id": GetRequestID(c),
	})
}
