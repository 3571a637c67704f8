package domain

import (
	"fmt"

	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DefaultCurrency prices products that name no currency.
var DefaultCurrency = currency.USD

// ErrCurrencyMismatch is returned when amounts in different currencies meet.
var ErrCurrencyMismatch = apperrors.New(apperrors.CodeCurrencyMismatch, "Currency mismatch")

// Money is an immutable non-negative amount in a single currency.
// Build it with NewMoney; methods never mutate the receiver.
type Money struct {
	Amount   decimal.Decimal
	Currency currency.Unit
}

// NewMoney rejects negative amounts. The amount is kept exactly as given.
func NewMoney(amount decimal.Decimal, cur currency.Unit) (Money, error) {
	if amount.IsNegative() {
		return Money{}, apperrors.New(apperrors.CodeInvalidArgument, "Money amount cannot be negative")
	}

	return Money{Amount: amount, Currency: cur}, nil
}

// Zero returns a zero amount in cur.
func Zero(cur currency.Unit) Money {
	return Money{Amount: decimal.Zero, Currency: cur}
}

// Add sums two amounts of the same currency, ErrCurrencyMismatch otherwise.
func (m Money) Add(other Money) (Money, error) {
	if !m.SameCurrency(other) {
		return Money{}, ErrCurrencyMismatch
	}

	return Money{Amount: m.Amount.Add(other.Amount), Currency: m.Currency}, nil
}

// Multiply scales m by quantity. Zero and negative quantities are rejected.
func (m Money) Multiply(quantity int) (Money, error) {
	if quantity <= 0 {
		return Money{}, apperrors.New(apperrors.CodeInvalidArgument, "Quantity must be positive")
	}

	return Money{Amount: m.Amount.Mul(decimal.NewFromInt(int64(quantity))), Currency: m.Currency}, nil
}

// SameCurrency compares ISO codes only.
func (m Money) SameCurrency(other Money) bool {
	return m.Currency.String() == other.Currency.String()
}

// IsZero reports a zero amount in any currency.
func (m Money) IsZero() bool {
	return m.Amount.IsZero()
}

// Equal compares currency and numeric value, so 1.0 equals 1.
func (m Money) Equal(other Money) bool {
	return m.SameCurrency(other) && m.Amount.Equal(other.Amount)
}

// String formats m as "<amount> <ISO code>", for example "0.3 USD".
func (m Money) String() string {
	return fmt.Sprintf("%s %s", m.Amount.String(), m.Currency.String())
}

func (m Money) validate() error {
	if m.Amount.IsNegative() {
		return apperrors.New(apperrors.CodeInvalidArgument, "Money amount cannot be negative")
	}
	return nil
}
