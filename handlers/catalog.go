package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
	"github.com/akmalqodirov005/e-commerse/pkg/middleware"
)

// CatalogHandler proxies the shop API collections: read-only for the
// storefront, full CRUD for the admin panel.
type CatalogHandler struct {
	api     *shopapi.Client
	session middleware.SessionChecker
}

func NewCatalogHandler(api *shopapi.Client, session middleware.SessionChecker) *CatalogHandler {
	return &CatalogHandler{api: api, session: session}
}

func (h *CatalogHandler) Register(rg *gin.RouterGroup) {
	pub := rg.Group("/api")
	pub.GET("/products", h.listProducts)
	pub.GET("/products/:id", getOne(h.api.Products))
	pub.GET("/categories", listAll(h.api.Categories))

	admin := rg.Group("/api/admin", middleware.RequireSession(h.session))
	admin.GET("/products", h.listProducts)
	registerCRUD(admin, "/products", h.api.Products, false)
	registerCRUD(admin, "/categories", h.api.Categories, true)
	registerCRUD(admin, "/locations", h.api.Locations, true)
	registerCRUD(admin, "/users", h.api.Users, true)
}

func (h *CatalogHandler) listProducts(c *gin.Context) {
	var f shopapi.ProductFilter
	if err := c.ShouldBindQuery(&f); err != nil {
		respondBindError(c, err)
		return
	}
	list, err := h.api.Products.List(c.Request.Context(), f.Values())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

// registerCRUD mounts get/create/update/delete for one collection, plus the
// plain listing when withList is set.
func registerCRUD[T any, In any](g *gin.RouterGroup, path string, res *shopapi.Resource[T, In], withList bool) {
	if withList {
		g.GET(path, listAll(res))
	}
	g.GET(path+"/:id", getOne(res))
	g.POST(path, func(c *gin.Context) {
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBindError(c, err)
			return
		}
		out, err := res.Create(c.Request.Context(), in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusCreated, out)
	})
	g.PUT(path+"/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		var in In
		if err := c.ShouldBindJSON(&in); err != nil {
			respondBindError(c, err)
			return
		}
		out, err := res.Update(c.Request.Context(), id, in)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	})
	g.DELETE(path+"/:id", func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		if err := res.Delete(c.Request.Context(), id); err != nil {
			respondError(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	})
}

func listAll[T any, In any](res *shopapi.Resource[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		list, err := res.List(c.Request.Context(), nil)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	}
}

func getOne[T any, In any](res *shopapi.Resource[T, In]) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, ok := pathID(c)
		if !ok {
			return
		}
		out, err := res.Get(c.Request.Context(), id)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, out)
	}
}
