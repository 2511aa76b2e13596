package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"portfolio-backend/internal/auth"
	"portfolio-backend/internal/middleware"
	"portfolio-backend/internal/models"
	"portfolio-backend/internal/revalidate"
)

var errMissingCredentials = errors.New("email and password are required")

type AuthService interface {
	SignIn(ctx context.Context, email, password string) (*auth.Session, error)
	SignOut(ctx context.Context, token string) error
	SignUp(ctx context.Context, email, password, callbackURL string) error
}

type Notifier interface {
	Invalidate(ctx context.Context, paths ...string)
}

// AuthHandler serves the login, logout and signup forms. Browser form posts
// are answered with redirects; JSON requests get JSON.
type AuthHandler struct {
	auth     AuthService
	notifier Notifier
	siteURL  string
	secure   bool
	logger   zerolog.Logger
}

func NewAuthHandler(service AuthService, notifier Notifier, siteURL string, secure bool, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		auth:     service,
		notifier: notifier,
		siteURL:  strings.TrimRight(siteURL, "/"),
		secure:   secure,
		logger:   logger,
	}
}

// Login godoc
// @Summary     Sign in with email and password
// @Tags        auth
// @Accept      x-www-form-urlencoded
// @Accept      json
// @Produce     json
// @Param       email    formData string true "Email"
// @Param       password formData string true "Password"
// @Success     200 {object} models.SessionResponse
// @Success     303
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBind(&req); err != nil || req.Email == "" || req.Password == "" {
		h.loginFailed(c)
		return
	}

	session, err := h.auth.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.logger.Info().Err(err).Str("email", req.Email).Msg("login failed")
		h.loginFailed(c)
		return
	}

	h.setSessionCookie(c, session.AccessToken, session.ExpiresIn)
	h.notifier.Invalidate(c.Request.Context(), revalidate.PathHome)

	if wantsJSON(c) {
		c.JSON(http.StatusOK, models.SessionResponse{
			AccessToken:  session.AccessToken,
			RefreshToken: session.RefreshToken,
			ExpiresIn:    session.ExpiresIn,
			User:         userResponse(&session.User),
		})
		return
	}
	c.Redirect(http.StatusSeeOther, h.siteURL+revalidate.PathAdmin)
}

func (h *AuthHandler) loginFailed(c *gin.Context) {
	if wantsJSON(c) {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "invalid_credentials"})
		return
	}
	c.Redirect(http.StatusSeeOther, h.siteURL+"/login?error=invalid_credentials")
}

// Logout godoc
// @Summary     Sign out
// @Tags        auth
// @Success     303
// @Router      /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	ctx := c.Request.Context()
	if token, ok := auth.TokenFromContext(ctx); ok {
		if err := h.auth.SignOut(ctx, token); err != nil {
			h.logger.Warn().Err(err).Msg("sign out failed")
		}
	}

	h.setSessionCookie(c, "", -1)
	h.notifier.Invalidate(ctx, revalidate.PathHome)

	if wantsJSON(c) {
		c.Status(http.StatusNoContent)
		return
	}
	c.Redirect(http.StatusSeeOther, h.siteURL+revalidate.PathHome)
}

// Signup godoc
// @Summary     Register an account
// @Description The account must be confirmed from the emailed link before it can sign in.
// @Tags        auth
// @Accept      x-www-form-urlencoded
// @Accept      json
// @Param       email    formData string true "Email"
// @Param       password formData string true "Password"
// @Success     202
// @Success     303
// @Failure     400 {object} models.ErrorResponse
// @Router      /auth/signup [post]
func (h *AuthHandler) Signup(c *gin.Context) {
	var req models.LoginRequest
	err := c.ShouldBind(&req)
	if err == nil && (req.Email == "" || req.Password == "") {
		err = errMissingCredentials
	}
	if err == nil {
		err = h.auth.SignUp(c.Request.Context(), req.Email, req.Password, h.siteURL+"/auth/callback")
	}

	if err != nil {
		h.logger.Info().Err(err).Str("email", req.Email).Msg("signup failed")
		if wantsJSON(c) {
			c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "signup_failed", Message: err.Error()})
			return
		}
		c.Redirect(http.StatusSeeOther, h.siteURL+"/signup?error=signup_failed")
		return
	}

	if wantsJSON(c) {
		c.JSON(http.StatusAccepted, gin.H{"message": "check_email"})
		return
	}
	c.Redirect(http.StatusSeeOther, h.siteURL+"/login?message=check_email")
}

// CurrentUser godoc
// @Summary     The signed-in user
// @Tags        auth
// @Produce     json
// @Security    Bearer
// @Success     200 {object} models.UserResponse
// @Failure     401 {object} models.ErrorResponse
// @Router      /auth/user [get]
func (h *AuthHandler) CurrentUser(c *gin.Context) {
	user, ok := auth.UserFromContext(c.Request.Context())
	if !ok {
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "unauthorized", Message: "Unauthorized"})
		return
	}
	c.JSON(http.StatusOK, userResponse(user))
}

func (h *AuthHandler) setSessionCookie(c *gin.Context, token string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(middleware.SessionCookie, token, maxAge, "/", "", h.secure, true)
}

func userResponse(u *auth.User) models.UserResponse {
	return models.UserResponse{ID: u.ID, Email: u.Email}
}

func wantsJSON(c *gin.Context) bool {
	return c.ContentType() == gin.MIMEJSON || c.NegotiateFormat(gin.MIMEHTML, gin.MIMEJSON) == gin.MIMEJSON
}
