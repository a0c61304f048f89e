package handlers

import (
	"net/http"
	"time"

	"bikeflow/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const defaultTokenTTL = 12 * time.Hour

// AuthHandler exchanges the admin password for a short-lived token.
type AuthHandler struct {
	Secret       []byte
	Username     string
	PasswordHash string
	TTL          time.Duration
	Now          func() time.Time
}

type tokenRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// POST /api/auth/token
func (h AuthHandler) IssueToken(c *gin.Context) {
	if len(h.Secret) == 0 || h.PasswordHash == "" {
		RespondDomainError(c, domain.UnavailableError{Resource: "admin access"})
		return
	}

	var req tokenRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	if err := h.checkCredentials(req); err != nil {
		RespondDomainError(c, err)
		return
	}

	now := time.Now()
	if h.Now != nil {
		now = h.Now()
	}
	ttl := h.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	exp := now.Add(ttl)

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":  req.Username,
		"role": "admin",
		"iat":  now.Unix(),
		"exp":  exp.Unix(),
	})
	tokenString, err := token.SignedString(h.Secret)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "token_failed", "failed to sign token", nil)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token":      tokenString,
		"expires_at": exp.Unix(),
	})
}

func (h AuthHandler) checkCredentials(req tokenRequest) error {
	if h.Username != "" && req.Username != h.Username {
		return domain.UnauthorizedError{Msg: "invalid username or password"}
	}
	if err := bcrypt.CompareHashAndPassword([]byte(h.PasswordHash), []byte(req.Password)); err != nil {
		return domain.UnauthorizedError{Msg: "invalid username or password", Err: err}
	}
	return nil
}
