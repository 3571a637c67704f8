package domain_test

import (
	"testing"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/go-cmp/cmp"
	"github.com/nikolayk812/sessioncart/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"golang.org/x/text/currency"
)

var moneyComparers = cmp.Options{
	cmp.Comparer(func(x, y currency.Unit) bool {
		return x.String() == y.String()
	}),
	cmp.Comparer(func(x, y decimal.Decimal) bool {
		return x.Equal(y)
	}),
}

func money(amount string, cur currency.Unit) domain.Money {
	return domain.Money{Amount: decimal.RequireFromString(amount), Currency: cur}
}

func usd(amount string) domain.Money {
	return money(amount, currency.USD)
}

func product(id string, price domain.Money) domain.Product {
	return domain.Product{ProductID: id, Name: gofakeit.ProductName(), Price: price}
}

func randomProduct() domain.Product {
	return domain.Product{
		ProductID: gofakeit.UUID(),
		Name:      gofakeit.ProductName(),
		Price: domain.Money{
			Amount:   decimal.NewFromFloat(gofakeit.Price(1, 100)).Round(2),
			Currency: currency.USD,
		},
	}
}

func assertMoney(t *testing.T, expected, actual domain.Money) {
	t.Helper()

	diff := cmp.Diff(expected, actual, moneyComparers)
	assert.Empty(t, diff)
}

func assertItems(t *testing.T, expected, actual []domain.CartItem) {
	t.Helper()

	diff := cmp.Diff(expected, actual, moneyComparers)
	assert.Empty(t, diff)
}
