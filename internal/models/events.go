package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Event types
const (
	EventTypeOrderCreated       = "ORDER_CREATED"
	EventTypeOrderLineAdded     = "ORDER_LINE_ADDED"
	EventTypeOrderStatusChanged = "ORDER_STATUS_CHANGED"
	EventTypeOrderDeleted       = "ORDER_DELETED"
)

// BaseEvent contains common fields for all events
type BaseEvent struct {
	EventID   string    `json:"event_id"`
	EventType string    `json:"event_type"`
	Timestamp time.Time `json:"timestamp"`
	OrderID   int64     `json:"order_id"`
}

// OrderCreatedEvent published when an order is created
type OrderCreatedEvent struct {
	BaseEvent
	CustomerID    int64  `json:"customer_id"`
	EmployeeID    *int64 `json:"employee_id,omitempty"`
	Status        string `json:"status"`
	PaymentMethod string `json:"payment_method"`
}

// OrderLineAddedEvent published after a line and the order total commit together
type OrderLineAddedEvent struct {
	BaseEvent
	ProductID   int64           `json:"product_id"`
	Quantity    int             `json:"quantity"`
	LinePrice   decimal.Decimal `json:"line_price"`
	TotalAmount decimal.Decimal `json:"total_amount"`
}

// OrderStatusChangedEvent published when the status is overwritten
type OrderStatusChangedEvent struct {
	BaseEvent
	Status string `json:"status"`
}

// OrderDeletedEvent published after an order and its lines are removed
type OrderDeletedEvent struct {
	BaseEvent
}
