package authentication

import (
	"context"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"craftmyprep-backend/logger"
)

const userIDKey = "userID"

// UserChecker reports whether a token's subject still has an account.
type UserChecker interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

type Middleware struct {
	tokens     *TokenIssuer
	cookieName string
	users      UserChecker
	log        *logger.Logger
}

func NewMiddleware(tokens *TokenIssuer, cookieName string, users UserChecker, log *logger.Logger) *Middleware {
	return &Middleware{tokens: tokens, cookieName: cookieName, users: users, log: log.With("middleware", "AuthMiddleware")}
}

// RequireAuth accepts a Bearer token or the session cookie and stores the
// user id on the context. Tokens of deleted accounts are rejected.
func (m *Middleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := m.extractToken(c)
		if tokenString == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "authentication required"})
			return
		}
		claims, err := m.tokens.Parse(tokenString)
		if err != nil {
			m.log.Debug("Rejected token", "error", err)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		exists, err := m.users.Exists(c.Request.Context(), claims.UserID)
		if err != nil {
			m.log.Error("Checking token user failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
			return
		}
		if !exists {
			m.log.Debug("Rejected token of deleted user", "user_id", claims.UserID)
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}
		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func (m *Middleware) extractToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if len(authHeader) > 7 && strings.EqualFold(authHeader[:7], "Bearer ") {
		return strings.TrimSpace(authHeader[7:])
	}
	if cookie, err := c.Cookie(m.cookieName); err == nil {
		return cookie
	}
	return ""
}

// UserID returns the authenticated user's id. It is zero outside RequireAuth.
func UserID(c *gin.Context) uint {
	return c.GetUint(userIDKey)
}
