package events

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/sessioncart/internal/domain"
)

const (
	CartCheckedOutEventName    = "CartCheckedOut"
	CartCheckedOutEventVersion = 1
	CartCheckedOutRoutingKey   = "cart.checkedout.v1"
	CartServiceProducer        = "cart-service"
)

// EventEnvelope is the common wrapper of every published event.
type EventEnvelope[T any] struct {
	EventName    string    `json:"eventName"`
	EventVersion int       `json:"eventVersion"`
	EventID      string    `json:"eventId"`
	Producer     string    `json:"producer"`
	PartitionKey string    `json:"partitionKey"`
	OccurredAt   time.Time `json:"occurredAt"`
	Payload      T         `json:"payload"`
}

type CartCheckedOutPayload struct {
	OrderID      string               `json:"orderId"`
	SessionID    string               `json:"sessionId"`
	Items        []CartCheckedOutItem `json:"items"`
	Total        MoneyPayload         `json:"total"`
	CheckedOutAt time.Time            `json:"checkedOutAt"`
}

type CartCheckedOutItem struct {
	ProductID string       `json:"productId"`
	Name      string       `json:"name"`
	Quantity  int          `json:"quantity"`
	UnitPrice MoneyPayload `json:"unitPrice"`
}

// MoneyPayload keeps the amount as a decimal string so consumers do not lose
// precision.
type MoneyPayload struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func BuildCartCheckedOutEvent(cart *domain.Cart, result domain.CheckoutResult) EventEnvelope[CartCheckedOutPayload] {
	payload := CartCheckedOutPayload{
		OrderID:      result.OrderID,
		SessionID:    cart.SessionID(),
		Items:        []CartCheckedOutItem{},
		Total:        moneyPayload(result.Total),
		CheckedOutAt: result.CheckedOutAt,
	}

	for _, item := range cart.Items() {
		payload.Items = append(payload.Items, CartCheckedOutItem{
			ProductID: item.Product.ProductID,
			Name:      item.Product.Name,
			Quantity:  item.Quantity,
			UnitPrice: moneyPayload(item.Product.Price),
		})
	}

	return EventEnvelope[CartCheckedOutPayload]{
		EventName:    CartCheckedOutEventName,
		EventVersion: CartCheckedOutEventVersion,
		EventID:      uuid.NewString(),
		Producer:     CartServiceProducer,
		PartitionKey: cart.SessionID(),
		OccurredAt:   result.CheckedOutAt,
		Payload:      payload,
	}
}

func moneyPayload(m domain.Money) MoneyPayload {
	return MoneyPayload{
		Amount:   m.Amount.String(),
		Currency: m.Currency.String(),
	}
}
