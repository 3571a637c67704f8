package repository_test

import (
	"context"
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/nikolayk812/sessioncart/internal/port"
	"github.com/nikolayk812/sessioncart/internal/repository"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/text/currency"
)

type cartRepositorySuite struct {
	suite.Suite

	repo port.CartRepository
	pool *pgxpool.Pool
}

// entry point to run the tests in the suite
func TestCartRepositorySuite(t *testing.T) {
	if testing.Short() {
		t.Skip("postgres container tests are skipped in short mode")
	}

	suite.Run(t, new(cartRepositorySuite))
}

// before all tests in the suite
func (suite *cartRepositorySuite) SetupSuite() {
	ctx := suite.T().Context()

	_, connStr, err := startPostgres(ctx)
	suite.Require().NoError(err)

	suite.pool, err = pgxpool.New(ctx, connStr)
	suite.Require().NoError(err)

	suite.repo, err = repository.NewPostgresCart(suite.pool)
	suite.Require().NoError(err)
}

// after all tests in the suite
func (suite *cartRepositorySuite) TearDownSuite() {
	if suite.pool != nil {
		suite.pool.Close()
	}
}

func (suite *cartRepositorySuite) TestFindBySessionID() {
	defer suite.deleteAll()
	runFindBySessionIDCases(suite.T(), suite.repo)
}

func (suite *cartRepositorySuite) TestSave() {
	defer suite.deleteAll()
	runSaveCases(suite.T(), suite.repo)
}

func (suite *cartRepositorySuite) TestSaveClearedCart() {
	defer suite.deleteAll()
	runSaveClearedCartCase(suite.T(), suite.repo)
}

func (suite *cartRepositorySuite) TestSaveWithTxRollback() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	cart := randomCart(2)

	tx, err := suite.pool.Begin(ctx)
	require.NoError(t, err)

	txRepo := repository.NewPostgresCartWithTx(tx)
	require.NoError(t, txRepo.Save(ctx, cart))

	found, err := txRepo.FindBySessionID(ctx, cart.SessionID())
	require.NoError(t, err)
	require.NotNil(t, found)

	require.NoError(t, tx.Rollback(ctx))

	found, err = suite.repo.FindBySessionID(ctx, cart.SessionID())
	require.NoError(t, err)
	assert.Nil(t, found)
}

func (suite *cartRepositorySuite) TestSaveFailureKeepsPreviousCart() {
	defer suite.deleteAll()

	t := suite.T()
	ctx := t.Context()

	_, err := suite.pool.Exec(ctx, `ALTER TABLE cart_items ADD CONSTRAINT cart_items_name_not_rejected CHECK (product_name <> 'rejected')`)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, err := suite.pool.Exec(context.Background(), `ALTER TABLE cart_items DROP CONSTRAINT cart_items_name_not_rejected`)
		assert.NoError(t, err)
	})

	cart := randomCart(2)
	require.NoError(t, suite.repo.Save(ctx, cart))
	stored := cart.Clone()

	require.NoError(t, cart.AddItem(randomProduct(), 1))
	require.NoError(t, cart.AddItem(domain.Product{ProductID: gofakeit.UUID(), Name: "rejected", Price: randomMoney()}, 1))

	err = suite.repo.Save(ctx, cart)
	require.ErrorContains(t, err, "q.InsertCartItem")

	got, err := suite.repo.FindBySessionID(ctx, cart.SessionID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assertCart(t, stored, got)
}

func (suite *cartRepositorySuite) deleteAll() {
	_, err := suite.pool.Exec(suite.T().Context(), "TRUNCATE TABLE carts CASCADE")
	suite.NoError(err)
}

// The cases below are shared by every CartRepository implementation.

func runFindBySessionIDCases(t *testing.T, repo port.CartRepository) {
	t.Helper()

	stored := randomCart(3)
	require.NoError(t, repo.Save(t.Context(), stored))

	tests := []struct {
		name      string
		sessionID string
		want      *domain.Cart
		wantError string
	}{
		{
			name:      "existing cart: ok",
			sessionID: stored.SessionID(),
			want:      stored,
		},
		{
			name:      "absent cart: nil",
			sessionID: gofakeit.UUID(),
		},
		{
			name:      "empty session ID: error",
			sessionID: "",
			wantError: "sessionID is empty",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := repo.FindBySessionID(t.Context(), tt.sessionID)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			if tt.want == nil {
				assert.Nil(t, got)
				return
			}
			require.NotNil(t, got)
			assertCart(t, tt.want, got)
		})
	}
}

func runSaveCases(t *testing.T, repo port.CartRepository) {
	t.Helper()

	tests := []struct {
		name      string
		cart      func() *domain.Cart
		wantError string
	}{
		{
			name: "cart with items: ok",
			cart: func() *domain.Cart { return randomCart(3) },
		},
		{
			name: "empty cart: ok",
			cart: func() *domain.Cart { return randomCart(0) },
		},
		{
			name: "zero price item: ok",
			cart: func() *domain.Cart {
				cart := randomCart(0)
				require.NoError(t, cart.AddItem(domain.Product{
					ProductID: gofakeit.UUID(),
					Name:      gofakeit.ProductName(),
					Price:     domain.Money{Amount: decimal.Zero, Currency: randomCurrency()},
				}, 1))
				return cart
			},
		},
		{
			name: "price scale above four decimals kept exactly: ok",
			cart: func() *domain.Cart {
				cart := randomCart(0)
				require.NoError(t, cart.AddItem(domain.Product{
					ProductID: gofakeit.UUID(),
					Name:      gofakeit.ProductName(),
					Price:     domain.Money{Amount: decimal.RequireFromString("0.00005"), Currency: currency.USD},
				}, 3))
				require.NoError(t, cart.AddItem(domain.Product{
					ProductID: gofakeit.UUID(),
					Name:      gofakeit.ProductName(),
					Price:     domain.Money{Amount: decimal.RequireFromString("1234567890123456789.123456789"), Currency: currency.USD},
				}, 1))
				return cart
			},
		},
		{
			name: "max quantity: ok",
			cart: func() *domain.Cart {
				cart := randomCart(0)
				require.NoError(t, cart.AddItem(randomProduct(), domain.MaxQuantity))
				return cart
			},
		},
		{
			name: "overwrite keeps insertion order: ok",
			cart: func() *domain.Cart {
				cart := randomCart(2)
				require.NoError(t, repo.Save(t.Context(), cart))

				require.NoError(t, cart.RemoveItem(cart.Items()[0].Product.ProductID))
				require.NoError(t, cart.AddItem(randomProduct(), 4))
				require.NoError(t, cart.AddItem(cart.Items()[0].Product, 1))
				return cart
			},
		},
		{
			name:      "nil cart: error",
			cart:      func() *domain.Cart { return nil },
			wantError: "cart is nil",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := t.Context()
			cart := tt.cart()

			err := repo.Save(ctx, cart)
			if tt.wantError != "" {
				require.EqualError(t, err, tt.wantError)
				return
			}
			require.NoError(t, err)

			got, err := repo.FindBySessionID(ctx, cart.SessionID())
			require.NoError(t, err)
			require.NotNil(t, got)
			assertCart(t, cart, got)

			wantTotal, err := cart.Total()
			require.NoError(t, err)
			gotTotal, err := got.Total()
			require.NoError(t, err)
			assert.True(t, wantTotal.Equal(gotTotal), "total %s, want %s", gotTotal, wantTotal)
		})
	}
}

func runSaveClearedCartCase(t *testing.T, repo port.CartRepository) {
	t.Helper()
	ctx := t.Context()

	cart := randomCart(2)
	require.NoError(t, repo.Save(ctx, cart))

	cart.Clear()
	require.NoError(t, repo.Save(ctx, cart))

	got, err := repo.FindBySessionID(ctx, cart.SessionID())
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, cart.SessionID(), got.SessionID())
	assert.True(t, got.IsEmpty())
}

func randomCart(items int) *domain.Cart {
	cart, err := domain.NewCart(gofakeit.UUID())
	if err != nil {
		panic(err)
	}

	for range items {
		if err := cart.AddItem(randomProduct(), gofakeit.IntRange(1, 10)); err != nil {
			panic(err)
		}
	}

	return cart
}

func randomProduct() domain.Product {
	return domain.Product{
		ProductID: gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		Price:     randomMoney(),
	}
}

func randomMoney() domain.Money {
	return domain.Money{
		Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
		Currency: randomCurrency(),
	}
}

func randomCurrency() currency.Unit {
	var (
		result currency.Unit
		err    error
	)

	for {
		// tag is not a recognized currency
		result, err = currency.ParseISO(gofakeit.CurrencyShort())
		if err == nil {
			break
		}
	}

	return result
}

func assertCart(t *testing.T, expected, actual *domain.Cart) {
	t.Helper()

	opts := cmp.Options{
		cmp.Comparer(func(x, y currency.Unit) bool {
			return x.String() == y.String()
		}),
		cmp.Comparer(func(x, y decimal.Decimal) bool {
			return x.Equal(y)
		}),
	}

	assert.Equal(t, expected.SessionID(), actual.SessionID())

	diff := cmp.Diff(expected.Items(), actual.Items(), opts)
	assert.Empty(t, diff)
}
