package cart

import (
	"context"
	"errors"
	"sync"

	"github.com/akmalqodirov005/e-commerse/pkg/logger"
	"github.com/akmalqodirov005/e-commerse/pkg/metrics"
)

// ErrInvalidProduct is returned by Add for a product without an id or with a negative price.
var ErrInvalidProduct = errors.New("invalid product")

// View is the read model of the cart returned to the storefront.
type View struct {
	Items      []Line  `json:"items"`
	Count      int     `json:"count"`
	Units      int     `json:"units"`
	TotalPrice float64 `json:"totalPrice"`
}

// Service serializes cart mutations and writes every change through to a Repository.
type Service struct {
	mu   sync.Mutex
	cart *Cart
	repo Repository
}

// NewService restores the cart from repo. An unreadable stored cart is
// discarded and the service starts empty.
func NewService(ctx context.Context, repo Repository) *Service {
	lines, err := repo.Load(ctx)
	if err != nil {
		logger.Warnf("cart: discarding stored cart: %v", err)
		lines = nil
	}
	return &Service{cart: New(lines...), repo: repo}
}

func (s *Service) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Service) viewLocked() View {
	return View{
		Items:      s.cart.Lines(),
		Count:      s.cart.Count(),
		Units:      s.cart.Units(),
		TotalPrice: s.cart.TotalPrice(),
	}
}

// mutate applies fn and persists the result. A persistence failure is
// returned but the in-memory cart keeps the change.
func (s *Service) mutate(ctx context.Context, op string, fn func(c *Cart)) (View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fn(s.cart)
	metrics.CartMutations.WithLabelValues(op).Inc()
	if err := s.repo.Save(ctx, s.cart.Lines()); err != nil {
		logger.Errorf("cart: save after %s: %v", op, err)
		return s.viewLocked(), err
	}
	return s.viewLocked(), nil
}

func (s *Service) Add(ctx context.Context, p Product, qty int) (View, error) {
	if p.ID <= 0 || p.Price < 0 {
		return s.View(), ErrInvalidProduct
	}
	return s.mutate(ctx, "add", func(c *Cart) { c.AddToCart(p, qty) })
}

func (s *Service) Increase(ctx context.Context, productID int) (View, error) {
	return s.mutate(ctx, "increase", func(c *Cart) { c.Increase(productID) })
}

func (s *Service) Decrease(ctx context.Context, productID int) (View, error) {
	return s.mutate(ctx, "decrease", func(c *Cart) { c.Decrease(productID) })
}

func (s *Service) Remove(ctx context.Context, productID int) (View, error) {
	return s.mutate(ctx, "remove", func(c *Cart) { c.RemoveItem(productID) })
}

func (s *Service) Clear(ctx context.Context) (View, error) {
	return s.mutate(ctx, "clear", func(c *Cart) { c.Clear() })
}
