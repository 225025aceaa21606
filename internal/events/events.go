// internal/events/events.go
package events

import (
	"time"

	"github.com/google/uuid"
)

const (
	EventOrderCreated       = "OrderCreated"
	EventOrderStatusChanged = "OrderStatusChanged"
	EventOrderCancelled     = "OrderCancelled"
)

// Envelope wraps every event published to the order topic.
type Envelope struct {
	EventID      string      `json:"event_id"`
	EventType    string      `json:"event_type"`
	EventVersion int         `json:"event_version"`
	OccurredAt   time.Time   `json:"occurred_at"`
	Producer     string      `json:"producer"`
	Payload      interface{} `json:"payload"`
}

func NewEnvelope(eventType string, payload interface{}) Envelope {
	return Envelope{
		EventID:      uuid.NewString(),
		EventType:    eventType,
		EventVersion: 1,
		OccurredAt:   time.Now().UTC(),
		Producer:     "marketplace-api",
		Payload:      payload,
	}
}

type OrderItemPayload struct {
	ProductID string  `json:"product_id"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unit_price"`
}

type OrderCreatedPayload struct {
	OrderID    string             `json:"order_id"`
	ClientID   string             `json:"client_id"`
	SellerID   string             `json:"seller_id"`
	TotalPrice float64            `json:"total_price"`
	Discount   float64            `json:"discount"`
	CouponCode string             `json:"coupon_code,omitempty"`
	Items      []OrderItemPayload `json:"items"`
}

type OrderStatusChangedPayload struct {
	OrderID   string `json:"order_id"`
	From      string `json:"from"`
	To        string `json:"to"`
	CourierID string `json:"courier_id,omitempty"`
}
