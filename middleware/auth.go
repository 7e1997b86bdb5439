package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/amerihn/conference-event-planner/config"
	"github.com/amerihn/conference-event-planner/planner"
	"github.com/gin-gonic/gin"
)

const SessionKey = "planner_session"

// SessionLookup resolves a live planning session by id.
type SessionLookup interface {
	Get(ctx context.Context, id string) (*planner.Session, error)
}

var (
	ErrMissingToken = errors.New("missing token")
	ErrInvalidToken = errors.New("invalid token")
)

// Authenticate validates tokenStr and returns the session it was issued for.
// Unknown or expired sessions yield planner.ErrSessionNotFound.
func Authenticate(ctx context.Context, sec config.SecurityConfig, sessions SessionLookup, tokenStr string) (*planner.Session, error) {
	if tokenStr == "" {
		return nil, ErrMissingToken
	}
	claims, err := ParseToken(tokenStr, sec.JWTSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}
	lookupCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return sessions.Get(lookupCtx, claims.SessionID)
}

// Auth validates the Bearer JWT and attaches the planning session to the request.
func Auth(sec config.SecurityConfig, sessions SessionLookup) gin.HandlerFunc {
	return func(ctx *gin.Context) {
		header := ctx.GetHeader("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			ctx.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		s, err := Authenticate(ctx.Request.Context(), sec, sessions, strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			status, msg := AuthError(err)
			ctx.AbortWithStatusJSON(status, gin.H{"error": msg})
			return
		}
		ctx.Set(SessionKey, s)
		ctx.Next()
	}
}

// AuthError maps an Authenticate error to an HTTP status and message.
func AuthError(err error) (int, string) {
	switch {
	case errors.Is(err, ErrMissingToken):
		return http.StatusUnauthorized, "missing token"
	case errors.Is(err, ErrInvalidToken):
		return http.StatusUnauthorized, "invalid token"
	case errors.Is(err, planner.ErrSessionNotFound):
		return http.StatusUnauthorized, "session expired"
	default:
		return http.StatusServiceUnavailable, "session store unavailable"
	}
}

// GetSession retrieves the authenticated planning session from the Gin context.
func GetSession(c *gin.Context) *planner.Session {
	if v, exists := c.Get(SessionKey); exists {
		return v.(*planner.Session)
	}
	return nil
}
