package domain

import (
	"math"
	"slices"

	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
)

// MaxQuantity is the largest quantity a single line may hold.
const MaxQuantity = math.MaxInt32

// ErrItemNotFound is returned when removing a product the cart does not hold.
var ErrItemNotFound = apperrors.New(apperrors.CodeNotFound, "Item not found in cart")

// ErrQuantityTooLarge is returned when a line would exceed MaxQuantity.
var ErrQuantityTooLarge = apperrors.Newf(apperrors.CodeInvalidArgument, "Quantity cannot exceed %d", MaxQuantity)

// Product is the snapshot of a catalog item stored on a cart line.
type Product struct {
	ProductID string
	Name      string
	Price     Money
}

// Validate checks the product id, name and price.
func (p Product) Validate() error {
	if p.ProductID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "productId is empty")
	}
	if p.Name == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "product name is empty")
	}
	return p.Price.validate()
}

// CartItem is one cart line.
type CartItem struct {
	Product  Product
	Quantity int
}

// Subtotal is the unit price times the quantity.
func (i CartItem) Subtotal() (Money, error) {
	return i.Product.Price.Multiply(i.Quantity)
}

// Cart is the session-scoped aggregate. Items are unique by ProductID, keep
// insertion order and always have a positive quantity.
type Cart struct {
	sessionID string
	items     []CartItem
}

// NewCart returns an empty cart for sessionID.
func NewCart(sessionID string) (*Cart, error) {
	if sessionID == "" {
		return nil, apperrors.New(apperrors.CodeInvalidArgument, "sessionId is empty")
	}

	return &Cart{sessionID: sessionID}, nil
}

// RestoreCart rebuilds a cart from stored items, in the given order.
func RestoreCart(sessionID string, items []CartItem) (*Cart, error) {
	cart, err := NewCart(sessionID)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(items))
	for _, item := range items {
		if item.Quantity <= 0 {
			return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "item[%s] quantity must be positive", item.Product.ProductID)
		}
		if item.Quantity > MaxQuantity {
			return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "item[%s] quantity exceeds %d", item.Product.ProductID, MaxQuantity)
		}
		if err := item.Product.Validate(); err != nil {
			return nil, err
		}
		if _, ok := seen[item.Product.ProductID]; ok {
			return nil, apperrors.Newf(apperrors.CodeInvalidArgument, "item[%s] is duplicated", item.Product.ProductID)
		}
		seen[item.Product.ProductID] = struct{}{}

		cart.items = append(cart.items, item)
	}

	return cart, nil
}

// SessionID returns the session the cart belongs to.
func (c *Cart) SessionID() string {
	return c.sessionID
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []CartItem {
	return slices.Clone(c.items)
}

// Len returns the number of lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// IsEmpty reports whether the cart has no lines.
func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0
}

// AddItem merges quantity into the existing line for product.ProductID or
// appends a new line. A merge keeps the name and price stored on the line.
// A line never holds more than MaxQuantity; an add that would exceed it
// fails and leaves the cart unchanged.
func (c *Cart) AddItem(product Product, quantity int) error {
	if quantity <= 0 {
		return apperrors.New(apperrors.CodeInvalidArgument, "Quantity must be positive")
	}
	if quantity > MaxQuantity {
		return ErrQuantityTooLarge
	}
	if err := product.Validate(); err != nil {
		return err
	}

	if i := c.indexOf(product.ProductID); i >= 0 {
		if c.items[i].Quantity > MaxQuantity-quantity {
			return ErrQuantityTooLarge
		}
		c.items[i].Quantity += quantity
		return nil
	}

	c.items = append(c.items, CartItem{Product: product, Quantity: quantity})
	return nil
}

// RemoveItem drops the line for productID.
func (c *Cart) RemoveItem(productID string) error {
	i := c.indexOf(productID)
	if i < 0 {
		return ErrItemNotFound
	}

	c.items = slices.Delete(c.items, i, i+1)
	return nil
}

// Total sums all line subtotals in the currency of the first line
// (DefaultCurrency for an empty cart). Lines in any other currency fail
// with ErrCurrencyMismatch.
func (c *Cart) Total() (Money, error) {
	total := Zero(DefaultCurrency)
	if len(c.items) > 0 {
		total = Zero(c.items[0].Product.Price.Currency)
	}

	for _, item := range c.items {
		subtotal, err := item.Subtotal()
		if err != nil {
			return Money{}, err
		}

		total, err = total.Add(subtotal)
		if err != nil {
			return Money{}, err
		}
	}

	return total, nil
}

// Clear removes all lines. The session is kept.
func (c *Cart) Clear() {
	c.items = nil
}

// Clone returns a copy that shares no line storage with c.
func (c *Cart) Clone() *Cart {
	return &Cart{
		sessionID: c.sessionID,
		items:     slices.Clone(c.items),
	}
}

func (c *Cart) indexOf(productID string) int {
	return slices.IndexFunc(c.items, func(item CartItem) bool {
		return item.Product.ProductID == productID
	})
}
