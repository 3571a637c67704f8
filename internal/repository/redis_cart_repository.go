package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/nikolayk812/sessioncart/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

const redisKeyPrefix = "cart:session:"

type redisCmdable interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value any, expiration time.Duration) *redis.StatusCmd
}

type redisCartRepository struct {
	client redisCmdable
	ttl    time.Duration
}

// NewRedisCart stores each cart as one JSON document keyed by session.
// A zero ttl keeps carts until they are overwritten.
func NewRedisCart(client redisCmdable, ttl time.Duration) (port.CartRepository, error) {
	if client == nil {
		return nil, fmt.Errorf("redis client is nil")
	}
	if ttl < 0 {
		return nil, fmt.Errorf("ttl[%s] is negative", ttl)
	}

	return &redisCartRepository{client: client, ttl: ttl}, nil
}

type cartSnapshot struct {
	SessionID string         `json:"sessionId"`
	Items     []itemSnapshot `json:"items"`
	SavedAt   time.Time      `json:"savedAt"`
}

type itemSnapshot struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Amount    decimal.Decimal `json:"amount"`
	Currency  string          `json:"currency"`
	Quantity  int             `json:"quantity"`
}

func (r *redisCartRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	raw, err := r.client.Get(ctx, redisKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("client.Get: %w", err)
	}

	var snapshot cartSnapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("json.Unmarshal: %w", err)
	}

	cart, err := mapSnapshotToDomain(snapshot)
	if err != nil {
		return nil, fmt.Errorf("mapSnapshotToDomain: %w", err)
	}

	return cart, nil
}

func (r *redisCartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is nil")
	}

	raw, err := json.Marshal(mapDomainToSnapshot(cart))
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := r.client.Set(ctx, redisKey(cart.SessionID()), raw, r.ttl).Err(); err != nil {
		return fmt.Errorf("client.Set: %w", err)
	}

	return nil
}

func redisKey(sessionID string) string {
	return redisKeyPrefix + sessionID
}

func mapDomainToSnapshot(cart *domain.Cart) cartSnapshot {
	snapshot := cartSnapshot{
		SessionID: cart.SessionID(),
		Items:     []itemSnapshot{},
		SavedAt:   time.Now().UTC(),
	}

	for _, item := range cart.Items() {
		snapshot.Items = append(snapshot.Items, itemSnapshot{
			ProductID: item.Product.ProductID,
			Name:      item.Product.Name,
			Amount:    item.Product.Price.Amount,
			Currency:  item.Product.Price.Currency.String(),
			Quantity:  item.Quantity,
		})
	}

	return snapshot
}

func mapSnapshotToDomain(snapshot cartSnapshot) (*domain.Cart, error) {
	items := make([]domain.CartItem, 0, len(snapshot.Items))

	for _, s := range snapshot.Items {
		parsedCurrency, err := currency.ParseISO(s.Currency)
		if err != nil {
			return nil, fmt.Errorf("currency[%s] is not valid: %w", s.Currency, err)
		}

		items = append(items, domain.CartItem{
			Product: domain.Product{
				ProductID: s.ProductID,
				Name:      s.Name,
				Price:     domain.Money{Amount: s.Amount, Currency: parsedCurrency},
			},
			Quantity: s.Quantity,
		})
	}

	return domain.RestoreCart(snapshot.SessionID, items)
}
