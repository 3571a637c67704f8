package repository

import (
	"context"
	"fmt"
	"sync"

	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/nikolayk812/sessioncart/internal/port"
)

type memoryCartRepository struct {
	mu    sync.RWMutex
	carts map[string]*domain.Cart
}

// NewMemoryCart keeps carts in process memory. Saved and returned carts are
// clones, so callers never share state with the stored copy.
func NewMemoryCart() port.CartRepository {
	return &memoryCartRepository{
		carts: make(map[string]*domain.Cart),
	}
}

func (r *memoryCartRepository) FindBySessionID(_ context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	cart, ok := r.carts[sessionID]
	if !ok {
		return nil, nil
	}

	return cart.Clone(), nil
}

func (r *memoryCartRepository) Save(_ context.Context, cart *domain.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is nil")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	r.carts[cart.SessionID()] = cart.Clone()

	return nil
}
