package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderIDPrefix starts every order id.
const OrderIDPrefix = "ORDER-"

// CheckoutResult describes a completed checkout. Total is the pre-clear total.
type CheckoutResult struct {
	OrderID      string
	Total        Money
	CheckedOutAt time.Time
}

// NewOrderID returns "ORDER-" followed by a UUIDv7, which is time-ordered
// and unique across calls.
func NewOrderID() (string, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return "", fmt.Errorf("uuid.NewV7: %w", err)
	}

	return OrderIDPrefix + id.String(), nil
}
