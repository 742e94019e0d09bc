package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/shopapi"
)

// AddItemRequest adds a product to the cart. Either the product itself or
// its id is given; an id alone is resolved through the catalog.
type AddItemRequest struct {
	Product   *cart.Product `json:"product"`
	ProductID int           `json:"productId" binding:"omitempty,gt=0"`
	Qty       int           `json:"qty"`
}

type CartHandler struct {
	svc *cart.Service
	api *shopapi.Client
}

func NewCartHandler(svc *cart.Service, api *shopapi.Client) *CartHandler {
	return &CartHandler{svc: svc, api: api}
}

func (h *CartHandler) Register(rg *gin.RouterGroup) {
	g := rg.Group("/api/cart")
	g.GET("", h.Get)
	g.DELETE("", h.Clear)
	g.POST("/items", h.Add)
	g.POST("/items/:id/increase", h.Increase)
	g.POST("/items/:id/decrease", h.Decrease)
	g.DELETE("/items/:id", h.Remove)
}

func (h *CartHandler) Get(c *gin.Context) {
	c.JSON(http.StatusOK, h.svc.View())
}

func (h *CartHandler) Add(c *gin.Context) {
	var req AddItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	var p cart.Product
	switch {
	case req.Product != nil:
		p = *req.Product
	case req.ProductID > 0:
		remote, err := h.api.Products.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			respondError(c, err)
			return
		}
		p = cart.Product{ID: remote.ID, Title: remote.Title, Price: remote.Price, Images: remote.Images}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "product or productId is required"})
		return
	}
	h.write(c)(h.svc.Add(c.Request.Context(), p, req.Qty))
}

func (h *CartHandler) Increase(c *gin.Context) {
	if id, ok := pathID(c); ok {
		h.write(c)(h.svc.Increase(c.Request.Context(), id))
	}
}

func (h *CartHandler) Decrease(c *gin.Context) {
	if id, ok := pathID(c); ok {
		h.write(c)(h.svc.Decrease(c.Request.Context(), id))
	}
}

func (h *CartHandler) Remove(c *gin.Context) {
	if id, ok := pathID(c); ok {
		h.write(c)(h.svc.Remove(c.Request.Context(), id))
	}
}

func (h *CartHandler) Clear(c *gin.Context) {
	h.write(c)(h.svc.Clear(c.Request.Context()))
}

// write responds with the cart view. A failed save is logged by the service
// and does not undo the change, so only invalid input is reported.
func (h *CartHandler) write(c *gin.Context) func(cart.View, error) {
	return func(v cart.View, err error) {
		if errors.Is(err, cart.ErrInvalidProduct) {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, v)
	}
}

func pathID(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid id"})
		return 0, false
	}
	return id, true
}
