package repository

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sessioncart/internal/db"
	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/nikolayk812/sessioncart/internal/port"
	"golang.org/x/text/currency"
)

type cartRepository struct {
	q    *db.Queries
	pool *pgxpool.Pool
}

func NewPostgresCart(pool *pgxpool.Pool) (port.CartRepository, error) {
	if pool == nil {
		return nil, fmt.Errorf("pool is nil")
	}

	return &cartRepository{
		q:    db.New(pool),
		pool: pool,
	}, nil
}

func NewPostgresCartWithTx(tx pgx.Tx) port.CartRepository {
	return &cartRepository{
		q:    db.New(tx),
		pool: nil, // use provided transaction instead
	}
}

func (r *cartRepository) FindBySessionID(ctx context.Context, sessionID string) (*domain.Cart, error) {
	if sessionID == "" {
		return nil, fmt.Errorf("sessionID is empty")
	}

	_, err := r.q.GetCart(ctx, sessionID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("q.GetCart: %w", err)
	}

	rows, err := r.q.GetCartItems(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("q.GetCartItems: %w", err)
	}

	items, err := mapGetCartItemsRowsToDomain(rows)
	if err != nil {
		return nil, fmt.Errorf("mapGetCartItemsRowsToDomain: %w", err)
	}

	cart, err := domain.RestoreCart(sessionID, items)
	if err != nil {
		return nil, fmt.Errorf("domain.RestoreCart: %w", err)
	}

	return cart, nil
}

// Save replaces the stored lines of the cart in one transaction.
func (r *cartRepository) Save(ctx context.Context, cart *domain.Cart) error {
	if cart == nil {
		return fmt.Errorf("cart is nil")
	}

	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		if err := q.UpsertCart(ctx, cart.SessionID()); err != nil {
			return struct{}{}, fmt.Errorf("q.UpsertCart: %w", err)
		}

		if _, err := q.DeleteCartItems(ctx, cart.SessionID()); err != nil {
			return struct{}{}, fmt.Errorf("q.DeleteCartItems: %w", err)
		}

		for i, item := range cart.Items() {
			params, err := mapCartItemToParams(cart.SessionID(), i, item)
			if err != nil {
				return struct{}{}, fmt.Errorf("mapCartItemToParams: %w", err)
			}

			if err := q.InsertCartItem(ctx, params); err != nil {
				return struct{}{}, fmt.Errorf("q.InsertCartItem[%s]: %w", item.Product.ProductID, err)
			}
		}

		return struct{}{}, nil
	})

	return err
}

func mapCartItemToParams(sessionID string, position int, item domain.CartItem) (db.InsertCartItemParams, error) {
	if item.Quantity <= 0 || item.Quantity > math.MaxInt32 {
		return db.InsertCartItemParams{}, fmt.Errorf("item[%s] quantity[%d] is out of range", item.Product.ProductID, item.Quantity)
	}
	if position > math.MaxInt32 {
		return db.InsertCartItemParams{}, fmt.Errorf("item[%s] position[%d] is out of range", item.Product.ProductID, position)
	}

	return db.InsertCartItemParams{
		SessionID:     sessionID,
		ProductID:     item.Product.ProductID,
		ProductName:   item.Product.Name,
		PriceAmount:   item.Product.Price.Amount,
		PriceCurrency: item.Product.Price.Currency.String(),
		Quantity:      int32(item.Quantity),
		Position:      int32(position),
	}, nil
}

func mapGetCartItemsRowToDomain(row db.GetCartItemsRow) (domain.CartItem, error) {
	parsedCurrency, err := currency.ParseISO(row.PriceCurrency)
	if err != nil {
		return domain.CartItem{}, fmt.Errorf("currency[%s] is not valid: %w", row.PriceCurrency, err)
	}

	return domain.CartItem{
		Product: domain.Product{
			ProductID: row.ProductID,
			Name:      row.ProductName,
			Price:     domain.Money{Amount: row.PriceAmount, Currency: parsedCurrency},
		},
		Quantity: int(row.Quantity),
	}, nil
}

func mapGetCartItemsRowsToDomain(rows []db.GetCartItemsRow) ([]domain.CartItem, error) {
	var items []domain.CartItem

	for _, row := range rows {
		item, err := mapGetCartItemsRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapGetCartItemsRowToDomain: %w", err)
		}

		items = append(items, item)
	}

	return items, nil
}
