package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
	"github.com/akmalqodirov005/e-commerse/pkg/middleware"
)

// Deps are the collaborators the gateway routes need. Uploader may be nil.
type Deps struct {
	Session  *sessions.Manager
	API      *shopapi.Client
	Cart     *cart.Service
	Uploader Uploader
}

// RegisterRoutes mounts the auth, cart, catalog, admin and upload routes.
func RegisterRoutes(r *gin.Engine, d Deps) {
	root := r.Group("/")
	NewAuthHandler(d.Session, d.API).Register(root)
	NewCartHandler(d.Cart, d.API).Register(root)
	NewCatalogHandler(d.API, d.Session).Register(root)
	r.POST("/api/admin/uploads", middleware.RequireSession(d.Session), Upload(d.Uploader))
	RegisterSwagger(r)
}
