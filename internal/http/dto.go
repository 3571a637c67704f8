package http

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/nikolayk812/sessioncart/internal/domain"
	apperrors "github.com/nikolayk812/sessioncart/internal/errors"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// AddItemRequest is the body of POST /api/cart/{sessionId}/items.
// Price accepts a JSON number or a decimal string.
type AddItemRequest struct {
	ProductID string           `json:"productId" validate:"required"`
	Name      string           `json:"name" validate:"required"`
	Price     *decimal.Decimal `json:"price" validate:"required"`
	Currency  string           `json:"currency" validate:"omitempty,len=3"`
	Quantity  *int             `json:"quantity" validate:"required,min=1,max=2147483647"`
}

func (r AddItemRequest) toDomain() (domain.Product, int, error) {
	cur := domain.DefaultCurrency
	if r.Currency != "" {
		parsed, err := currency.ParseISO(strings.ToUpper(r.Currency))
		if err != nil {
			return domain.Product{}, 0, apperrors.Newf(apperrors.CodeInvalidArgument, "unsupported currency %q", r.Currency)
		}
		cur = parsed
	}

	price, err := domain.NewMoney(*r.Price, cur)
	if err != nil {
		return domain.Product{}, 0, err
	}

	return domain.Product{
		ProductID: r.ProductID,
		Name:      r.Name,
		Price:     price,
	}, *r.Quantity, nil
}

type MoneyResponse struct {
	Amount   json.Number `json:"amount"`
	Currency string      `json:"currency"`
}

type ProductResponse struct {
	ProductID string        `json:"productId"`
	Name      string        `json:"name"`
	Price     MoneyResponse `json:"price"`
}

type ItemResponse struct {
	Product  ProductResponse `json:"product"`
	Quantity int             `json:"quantity"`
}

// CartResponse omits Total when the cart mixes currencies.
type CartResponse struct {
	SessionID string         `json:"sessionId"`
	Items     []ItemResponse `json:"items"`
	Total     *MoneyResponse `json:"total,omitempty"`
}

type CheckoutResponse struct {
	OrderID      string        `json:"orderId"`
	Total        MoneyResponse `json:"total"`
	CheckedOutAt string        `json:"checkedOutAt"`
}

type HealthResponse struct {
	Status string `json:"status"`
}

type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

func toMoneyResponse(m domain.Money) MoneyResponse {
	return MoneyResponse{
		Amount:   json.Number(m.Amount.String()),
		Currency: m.Currency.String(),
	}
}

func toCartResponse(cart *domain.Cart) CartResponse {
	items := cart.Items()

	resp := CartResponse{
		SessionID: cart.SessionID(),
		Items:     make([]ItemResponse, 0, len(items)),
	}

	for _, item := range items {
		resp.Items = append(resp.Items, ItemResponse{
			Product: ProductResponse{
				ProductID: item.Product.ProductID,
				Name:      item.Product.Name,
				Price:     toMoneyResponse(item.Product.Price),
			},
			Quantity: item.Quantity,
		})
	}

	if total, err := cart.Total(); err == nil {
		money := toMoneyResponse(total)
		resp.Total = &money
	}

	return resp
}

func toCheckoutResponse(result domain.CheckoutResult) CheckoutResponse {
	return CheckoutResponse{
		OrderID:      result.OrderID,
		Total:        toMoneyResponse(result.Total),
		CheckedOutAt: result.CheckedOutAt.UTC().Format(time.RFC3339Nano),
	}
}
