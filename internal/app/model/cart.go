package model

import "fmt"

// CartPayloadVersion tags serialized carts so the persisted shape can be
// migrated when a field is added or renamed. Carts persisted before
// versioning (version 0) are upgraded on load.
const CartPayloadVersion = 1

// CartLine is one (product, size) pairing in a cart. Product display
// fields are copied in at add time so the cart renders without a catalog
// round trip.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Image     string  `json:"image"`
	Category  string  `json:"category"`
	Size      string  `json:"size,omitempty"`
	Quantity  int     `json:"quantity"`
}

// Key returns the composite identity of the line. Two lines with the same
// product but different sizes are distinct entries.
func (l CartLine) Key() string {
	return CartLineKey(l.ProductID, l.Size)
}

// CartLineKey builds the composite key for a (product, size) pairing.
func CartLineKey(productID uint, size string) string {
	return fmt.Sprintf("%d-%s", productID, size)
}

// Cart is an ordered collection of lines keyed by (product, size).
// Invariants:
//   - at most one line per composite key; repeated adds merge quantities
//   - every line has quantity >= 1; a quantity set to 0 or below removes
//     the line instead of persisting it
//   - insertion order is preserved for display
//
// Cart is owned by a single browsing session and is not safe for
// concurrent use.
type Cart struct {
	Version int        `json:"version"`
	Lines   []CartLine `json:"lines"`
}

// NewCart returns an empty cart at the current payload version.
func NewCart() *Cart {
	return &Cart{Version: CartPayloadVersion}
}

// Find returns the line with the given key, or nil.
func (c *Cart) Find(key string) *CartLine {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			return &c.Lines[i]
		}
	}
	return nil
}

// AddLine merges the line into the cart. An existing line with the same
// composite key has the quantity added; otherwise the line is appended.
// A non-positive quantity on the incoming line is treated as 1.
func (c *Cart) AddLine(line CartLine) {
	if line.Quantity <= 0 {
		line.Quantity = 1
	}
	if existing := c.Find(line.Key()); existing != nil {
		existing.Quantity += line.Quantity
		return
	}
	c.Lines = append(c.Lines, line)
}

// SetQuantity replaces the quantity of the line with the given key.
// A quantity of 0 or below removes the line; an absent key is a no-op.
func (c *Cart) SetQuantity(key string, quantity int) {
	if quantity <= 0 {
		c.RemoveLine(key)
		return
	}
	if line := c.Find(key); line != nil {
		line.Quantity = quantity
	}
}

// RemoveLine deletes the line with the given key. Absent keys are a no-op.
func (c *Cart) RemoveLine(key string) {
	for i := range c.Lines {
		if c.Lines[i].Key() == key {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Lines = nil
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// TotalPrice returns the sum of unit price times quantity over all lines.
func (c *Cart) TotalPrice() float64 {
	var total float64
	for _, line := range c.Lines {
		total += line.Price * float64(line.Quantity)
	}
	return total
}

// ItemCount returns the total quantity across all lines, for badge display.
func (c *Cart) ItemCount() int {
	var count int
	for _, line := range c.Lines {
		count += line.Quantity
	}
	return count
}
