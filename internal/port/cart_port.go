package port

import (
	"context"

	"github.com/nikolayk812/sessioncart/internal/domain"
)

// CartRepository holds the canonical copy of each session's cart.
// FindBySessionID returns a nil cart and a nil error when the session has none.
type CartRepository interface {
	FindBySessionID(ctx context.Context, sessionID string) (*domain.Cart, error)
	Save(ctx context.Context, cart *domain.Cart) error
}

type CheckoutPublisher interface {
	PublishCartCheckedOut(ctx context.Context, cart *domain.Cart, result domain.CheckoutResult) error
}
