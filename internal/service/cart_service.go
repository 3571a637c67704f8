package service

import (
	"context"
	"fmt"
	"time"

	"github.com/nikolayk812/sessioncart/internal/domain"
	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
	"github.com/nikolayk812/sessioncart/internal/logger"
	"github.com/nikolayk812/sessioncart/internal/metrics"
	"github.com/nikolayk812/sessioncart/internal/port"
)

var (
	ErrCartNotFound = apperrors.New(apperrors.CodeNotFound, "Cart not found")
	ErrEmptyCart    = apperrors.New(apperrors.CodeInvalidState, "Cannot checkout empty cart")
)

const (
	opAddItem    = "add_item"
	opGetCart    = "get_cart"
	opRemoveItem = "remove_item"
	opCheckout   = "checkout"
)

// Params wires a CartService. Repo is required, everything else is optional.
type Params struct {
	Repo      port.CartRepository
	Publisher port.CheckoutPublisher
	Metrics   *metrics.CartMetrics
	Logger    *logger.Logger
	Now       func() time.Time
}

// CartService sequences cart mutations with persistence. Calls for the same
// session are serialized within the process.
type CartService struct {
	repo      port.CartRepository
	publisher port.CheckoutPublisher
	metrics   *metrics.CartMetrics
	logg      *logger.Logger
	now       func() time.Time
	locks     *sessionLocks
}

func New(p Params) (*CartService, error) {
	if p.Repo == nil {
		return nil, fmt.Errorf("repo is nil")
	}

	logg := p.Logger
	if logg == nil {
		logg = logger.Nop()
	}

	now := p.Now
	if now == nil {
		now = time.Now
	}

	return &CartService{
		repo:      p.Repo,
		publisher: p.Publisher,
		metrics:   p.Metrics,
		logg:      logg,
		now:       now,
		locks:     newSessionLocks(),
	}, nil
}

// AddItem adds quantity of product to the session's cart, creating the cart
// on first use.
func (s *CartService) AddItem(ctx context.Context, sessionID string, product domain.Product, quantity int) (_ *domain.Cart, err error) {
	defer s.observe(opAddItem, time.Now(), &err)

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindBySessionID: %w", err)
	}

	if cart == nil {
		cart, err = domain.NewCart(sessionID)
		if err != nil {
			return nil, err
		}
	}

	if err := cart.AddItem(product, quantity); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("repo.Save: %w", err)
	}

	return cart, nil
}

// GetCart returns the session's cart, or nil when the session has none.
func (s *CartService) GetCart(ctx context.Context, sessionID string) (_ *domain.Cart, err error) {
	defer s.observe(opGetCart, time.Now(), &err)

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindBySessionID: %w", err)
	}

	return cart, nil
}

func (s *CartService) RemoveItem(ctx context.Context, sessionID, productID string) (_ *domain.Cart, err error) {
	defer s.observe(opRemoveItem, time.Now(), &err)

	if err := validateSessionID(sessionID); err != nil {
		return nil, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("repo.FindBySessionID: %w", err)
	}
	if cart == nil {
		return nil, ErrCartNotFound
	}

	if err := cart.RemoveItem(productID); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, cart); err != nil {
		return nil, fmt.Errorf("repo.Save: %w", err)
	}

	return cart, nil
}

// Checkout totals the cart, announces the order and resets the cart to empty
// under the same session. The returned total is the pre-clear total.
func (s *CartService) Checkout(ctx context.Context, sessionID string) (_ domain.CheckoutResult, err error) {
	defer s.observe(opCheckout, time.Now(), &err)

	if err := validateSessionID(sessionID); err != nil {
		return domain.CheckoutResult{}, err
	}

	unlock := s.locks.lock(sessionID)
	defer unlock()

	cart, err := s.repo.FindBySessionID(ctx, sessionID)
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("repo.FindBySessionID: %w", err)
	}
	if cart == nil || cart.IsEmpty() {
		return domain.CheckoutResult{}, ErrEmptyCart
	}

	total, err := cart.Total()
	if err != nil {
		return domain.CheckoutResult{}, err
	}

	orderID, err := domain.NewOrderID()
	if err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("domain.NewOrderID: %w", err)
	}

	result := domain.CheckoutResult{
		OrderID:      orderID,
		Total:        total,
		CheckedOutAt: s.now().UTC(),
	}

	if s.publisher != nil {
		if err := s.publisher.PublishCartCheckedOut(ctx, cart, result); err != nil {
			return domain.CheckoutResult{}, fmt.Errorf("publisher.PublishCartCheckedOut: %w", err)
		}
	}

	cart.Clear()

	if err := s.repo.Save(ctx, cart); err != nil {
		return domain.CheckoutResult{}, fmt.Errorf("repo.Save: %w", err)
	}

	s.metrics.ObserveCheckout(total.Currency.String(), total.Amount)

	logCtx := s.logg.WithFields(ctx, map[string]any{
		"session_id": sessionID,
		"order_id":   orderID,
		"total":      total.String(),
	})
	s.logg.Info(logCtx, "cart.checkout")

	return result, nil
}

func (s *CartService) observe(operation string, start time.Time, err *error) {
	s.metrics.ObserveOperation(operation, time.Since(start), *err)
}

func validateSessionID(sessionID string) error {
	if sessionID == "" {
		return apperrors.New(apperrors.CodeInvalidArgument, "sessionId is empty")
	}
	return nil
}
