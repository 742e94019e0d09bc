package cart

// Product is the part of a catalog product the cart keeps.
type Product struct {
	ID     int      `json:"id"`
	Title  string   `json:"title"`
	Price  float64  `json:"price"`
	Images []string `json:"images"`
}

// Line is one product-quantity pair. Qty is never below 1 while the line exists.
type Line struct {
	ProductID int      `json:"productId" bson:"productId"`
	Title     string   `json:"title" bson:"title"`
	Price     float64  `json:"price" bson:"price"`
	Images    []string `json:"images" bson:"images"`
	Qty       int      `json:"qty" bson:"qty"`
}

// Subtotal is price times quantity.
func (l Line) Subtotal() float64 {
	return l.Price * float64(l.Qty)
}

// Cart is an ordered list of lines, at most one per product. The zero value is
// an empty cart. Every mutation is total: unknown product ids are ignored.
type Cart struct {
	lines []Line
}

// New rebuilds a cart from stored lines. Duplicate products are merged and
// quantities below 1 are raised to 1.
func New(lines ...Line) *Cart {
	c := &Cart{}
	for _, l := range lines {
		c.AddToCart(Product{ID: l.ProductID, Title: l.Title, Price: l.Price, Images: l.Images}, l.Qty)
	}
	return c
}

func (c *Cart) find(productID int) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

// AddToCart adds qty units of p. A qty below 1 counts as 1. An existing line
// is incremented in place; otherwise a new line is appended.
func (c *Cart) AddToCart(p Product, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.find(p.ID); i >= 0 {
		c.lines[i].Qty += qty
		return
	}
	c.lines = append(c.lines, Line{
		ProductID: p.ID,
		Title:     p.Title,
		Price:     p.Price,
		Images:    append([]string(nil), p.Images...),
		Qty:       qty,
	})
}

// Increase adds one unit to the line for productID.
func (c *Cart) Increase(productID int) {
	if i := c.find(productID); i >= 0 {
		c.lines[i].Qty++
	}
}

// Decrease removes one unit from the line for productID, stopping at 1.
func (c *Cart) Decrease(productID int) {
	if i := c.find(productID); i >= 0 && c.lines[i].Qty > 1 {
		c.lines[i].Qty--
	}
}

// RemoveItem deletes the line for productID.
func (c *Cart) RemoveItem(productID int) {
	if i := c.find(productID); i >= 0 {
		c.lines = append(c.lines[:i], c.lines[i+1:]...)
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.lines = nil
}

// Lines returns a copy of the lines in insertion order.
func (c *Cart) Lines() []Line {
	out := make([]Line, len(c.lines))
	for i, l := range c.lines {
		l.Images = append([]string(nil), l.Images...)
		out[i] = l
	}
	return out
}

// TotalPrice is the sum of price*qty over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, l := range c.lines {
		total += l.Subtotal()
	}
	return total
}

// Count is the number of distinct lines.
func (c *Cart) Count() int { return len(c.lines) }

// Units is the total quantity across lines.
func (c *Cart) Units() int {
	n := 0
	for _, l := range c.lines {
		n += l.Qty
	}
	return n
}
