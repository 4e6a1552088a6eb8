package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/devhub-platform/portal/internal/constants"
	"github.com/devhub-platform/portal/internal/model"
	ctxutil "github.com/devhub-platform/portal/pkg/context"
	"github.com/devhub-platform/portal/pkg/logger"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// TokenVerifier validates access tokens without touching storage
type TokenVerifier interface {
	VerifyAccessToken(tokenString string) (uint, bool)
}

// UserLoader re-reads the account record on every authenticated request
type UserLoader interface {
	GetByID(ctx context.Context, id uint) (*model.User, error)
}

// AuthenticationGate authenticates requests. A valid token alone is not
// enough: the account is re-read so a deleted or deactivated user is
// rejected before the token expires on its own.
type AuthenticationGate struct {
	verifier TokenVerifier
	users    UserLoader
}

func NewAuthenticationGate(verifier TokenVerifier, users UserLoader) *AuthenticationGate {
	return &AuthenticationGate{
		verifier: verifier,
		users:    users,
	}
}

func extractBearerToken(c *gin.Context) (string, bool) {
	authHeader := c.GetHeader(constants.HeaderAuthorization)
	if authHeader == "" {
		return "", false
	}

	parts := strings.Split(authHeader, " ")
	if len(parts) != 2 || parts[0] != "Bearer" || parts[1] == "" {
		return "", false
	}

	return parts[1], true
}

func abortUnauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, constants.BuildErrorResponse(message, nil))
	c.Abort()
}

// RequireAuth rejects requests without a valid token and live account
func (g *AuthenticationGate) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := c.Request.Context()

		tokenString, ok := extractBearerToken(c)
		if !ok {
			logger.WarnWithContext(ctx, "Missing or malformed Authorization header").
				String("path", c.Request.URL.Path).
				String("method", c.Request.Method).
				Log()
			abortUnauthorized(c, constants.MsgUnauthorized)
			return
		}

		userID, ok := g.verifier.VerifyAccessToken(tokenString)
		if !ok {
			logger.WarnWithContext(ctx, "Invalid or expired access token").
				String("path", c.Request.URL.Path).
				Log()
			abortUnauthorized(c, constants.MsgUnauthorized)
			return
		}

		user, err := g.users.GetByID(ctx, userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				logger.WarnWithContext(ctx, "Token references missing user").
					Uint("token_user_id", userID).
					Log()
				abortUnauthorized(c, constants.MsgUnauthorized)
				return
			}
			c.JSON(http.StatusInternalServerError, constants.BuildErrorResponse(constants.MsgInternalError, nil))
			c.Abort()
			return
		}

		if !user.IsActive {
			logger.WarnWithContext(ctx, "Request rejected: account inactive").
				Uint("token_user_id", userID).
				Log()
			c.JSON(http.StatusForbidden, constants.BuildErrorResponse(constants.MsgAccountInactive, nil))
			c.Abort()
			return
		}

		// Expose identity to handlers and the context log fields
		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUsername, user.Username)
		c.Set(constants.GinKeyEmail, user.Email)
		c.Set(constants.GinKeyRole, user.Role)

		ctx = ctxutil.WithUserID(ctx, user.ID)
		ctx = ctxutil.WithUserRole(ctx, user.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// OptionalAuth attaches identity when a valid token is present but lets
// anonymous requests through untouched
func (g *AuthenticationGate) OptionalAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString, ok := extractBearerToken(c)
		if !ok {
			c.Next()
			return
		}

		userID, ok := g.verifier.VerifyAccessToken(tokenString)
		if !ok {
			c.Next()
			return
		}

		user, err := g.users.GetByID(c.Request.Context(), userID)
		if err != nil || !user.IsActive {
			c.Next()
			return
		}

		c.Set(constants.GinKeyUserID, user.ID)
		c.Set(constants.GinKeyUsername, user.Username)
		c.Set(constants.GinKeyEmail, user.Email)
		c.Set(constants.GinKeyRole, user.Role)

		ctx := ctxutil.WithUserID(c.Request.Context(), user.ID)
		ctx = ctxutil.WithUserRole(ctx, user.Role)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}
