package cart

import (
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	shirt = Product{ID: 1, Title: "Shirt", Price: 10, Images: []string{"https://img/1.png"}}
	shoes = Product{ID: 2, Title: "Shoes", Price: 45.5}
	hat   = Product{ID: 3, Title: "Hat", Price: 7}
)

func TestAddToCart_SumsQuantities(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 2)
	c.AddToCart(shirt, 3)
	c.AddToCart(shirt, 0)

	lines := c.Lines()
	require.Len(t, lines, 1)
	require.Equal(t, 6, lines[0].Qty)
	require.Equal(t, 60.0, c.TotalPrice())
}

func TestAddToCart_NonPositiveQtyCountsAsOne(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 0)
	c.AddToCart(shoes, -4)
	require.Equal(t, 1, c.Lines()[0].Qty)
	require.Equal(t, 1, c.Lines()[1].Qty)
}

func TestAddToCart_KeepsInsertionOrder(t *testing.T) {
	c := New()
	c.AddToCart(hat, 1)
	c.AddToCart(shirt, 1)
	c.AddToCart(shoes, 1)
	c.AddToCart(hat, 1)

	var ids []int
	for _, l := range c.Lines() {
		ids = append(ids, l.ProductID)
	}
	require.Equal(t, []int{3, 1, 2}, ids)
	require.Equal(t, 3, c.Count())
	require.Equal(t, 4, c.Units())
}

func TestDecrease_StopsAtOne(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 2)
	c.Decrease(1)
	c.Decrease(1)
	c.Decrease(1)
	require.Equal(t, 1, c.Lines()[0].Qty)
}

func TestIncrease(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 1)
	c.Increase(1)
	c.Increase(1)
	require.Equal(t, 3, c.Lines()[0].Qty)
	require.Equal(t, 30.0, c.TotalPrice())
}

func TestUnknownProductIsNoop(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 2)
	before := c.Lines()

	c.Increase(99)
	c.Decrease(99)
	c.RemoveItem(99)
	require.Equal(t, before, c.Lines())
}

func TestRemoveThenAddStartsFresh(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 5)
	c.AddToCart(shoes, 1)
	c.RemoveItem(1)
	c.AddToCart(shirt, 1)

	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, 2, lines[0].ProductID)
	require.Equal(t, 1, lines[1].ProductID)
	require.Equal(t, 1, lines[1].Qty)
}

func TestScenario_DecreaseTwiceThenRemove(t *testing.T) {
	c := New(Line{ProductID: 1, Title: "Shirt", Price: 10, Qty: 2})
	require.Equal(t, 20.0, c.TotalPrice())

	c.Decrease(1)
	require.Equal(t, 1, c.Lines()[0].Qty)
	require.Equal(t, 10.0, c.TotalPrice())

	c.Decrease(1)
	require.Equal(t, 1, c.Lines()[0].Qty)

	c.RemoveItem(1)
	require.Empty(t, c.Lines())
	require.Zero(t, c.TotalPrice())
}

func TestNew_MergesAndClampsStoredLines(t *testing.T) {
	c := New(
		Line{ProductID: 1, Price: 10, Qty: 2},
		Line{ProductID: 2, Price: 5, Qty: 0},
		Line{ProductID: 1, Price: 10, Qty: 1},
	)
	lines := c.Lines()
	require.Len(t, lines, 2)
	require.Equal(t, 3, lines[0].Qty)
	require.Equal(t, 1, lines[1].Qty)
}

func TestLines_ReturnsCopy(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 1)
	lines := c.Lines()
	lines[0].Qty = 50
	lines[0].Images[0] = "changed"

	got := c.Lines()[0]
	require.Equal(t, 1, got.Qty)
	require.Equal(t, "https://img/1.png", got.Images[0])
}

func TestClear(t *testing.T) {
	c := New()
	c.AddToCart(shirt, 1)
	c.AddToCart(shoes, 1)
	c.Clear()
	require.Zero(t, c.Count())
	require.Zero(t, c.TotalPrice())
}
