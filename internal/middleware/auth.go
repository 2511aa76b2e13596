package middleware

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/models"
)

const (
	UserIDKey = "user_id"

	// SessionCookie carries the access token set by the login form.
	SessionCookie = "sb-access-token"
)

// Authenticate resolves the caller from a Bearer header or the session cookie.
// It never rejects a request: missing or invalid tokens leave the request
// anonymous and RequireUser decides what needs a user.
func Authenticate(verifier auth.Verifier, logger zerolog.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := bearerToken(c)
		if tokenString == "" {
			if cookie, err := c.Cookie(SessionCookie); err == nil {
				tokenString = cookie
			}
		}
		if tokenString == "" {
			c.Next()
			return
		}

		// Try URL decoding in case the token was URL-encoded
		if decoded, err := url.QueryUnescape(tokenString); err == nil {
			tokenString = decoded
		}

		user, err := verifier.Verify(c.Request.Context(), tokenString)
		if err != nil {
			logger.Debug().Err(err).Str("path", c.Request.URL.Path).Msg("ignoring unverifiable token")
			c.Next()
			return
		}

		c.Set(UserIDKey, user.ID)
		c.Request = c.Request.WithContext(auth.WithUser(c.Request.Context(), user, tokenString))
		c.Next()
	}
}

// RequireUser aborts with 401 unless Authenticate found a user.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := auth.UserFromContext(c.Request.Context()); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, models.ErrorResponse{
				Error:   "unauthorized",
				Message: "Unauthorized",
			})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
