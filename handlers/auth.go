package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
	"github.com/akmalqodirov005/e-commerse/pkg/logger"
	"github.com/akmalqodirov005/e-commerse/pkg/middleware"
)

// LoginRequest is the credential pair forwarded to the shop API.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthHandler exposes the storefront session over HTTP.
type AuthHandler struct {
	session *sessions.Manager
	api     *shopapi.Client
}

func NewAuthHandler(s *sessions.Manager, api *shopapi.Client) *AuthHandler {
	return &AuthHandler{session: s, api: api}
}

// Register routes under /auth
func (h *AuthHandler) Register(rg *gin.RouterGroup) {
	a := rg.Group("/auth")
	a.POST("/login", h.Login)
	a.POST("/logout", h.Logout)
	a.GET("/session", h.Session)
	a.GET("/profile", middleware.RequireSession(h.session), h.Profile)
}

// Login authenticates against the shop API and replaces the session. When the
// login response carries no user, the profile is fetched with the new token.
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ctx := c.Request.Context()
	res, err := h.api.Login(ctx, req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}
	if err := h.session.Login(ctx, res); err != nil {
		logger.Warnf("login: %v", err)
	}
	if res.User == nil && h.session.Authenticated() {
		profile, err := h.api.Profile(ctx)
		if err != nil {
			logger.Warnf("login: fetch profile: %v", err)
		} else {
			res.User = profile
			if err := h.session.Login(ctx, res); err != nil {
				logger.Warnf("login: %v", err)
			}
		}
	}
	h.Session(c)
}

// Logout always succeeds from the caller's point of view.
func (h *AuthHandler) Logout(c *gin.Context) {
	if err := h.session.Logout(c.Request.Context()); err != nil {
		logger.Warnf("logout: %v", err)
	}
	c.JSON(http.StatusOK, gin.H{"message": "logged out"})
}

// Session reports the current session without exposing its tokens.
func (h *AuthHandler) Session(c *gin.Context) {
	s := h.session.Snapshot()
	out := gin.H{"authenticated": s.Authenticated(), "user": json.RawMessage("null")}
	if s.User != nil {
		out["user"] = s.User
	}
	if exp, ok := h.session.AccessTokenExpiry(); ok {
		out["accessTokenExpiresAt"] = exp.UTC()
	}
	c.JSON(http.StatusOK, out)
}

func (h *AuthHandler) Profile(c *gin.Context) {
	raw, err := h.api.Profile(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json; charset=utf-8", raw)
}
