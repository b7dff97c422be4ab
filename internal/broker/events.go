package broker

import (
	"context"
	"encoding/json"
	"fmt"

	"shop-admin/internal/models"
	"shop-admin/internal/util"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing order events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

func orderKey(orderID int64) string {
	return fmt.Sprintf("order-%d", orderID)
}

// PublishOrderCreated publishes OrderCreated event
func (ep *EventPublisher) PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderLineAdded publishes OrderLineAdded event
func (ep *EventPublisher) PublishOrderLineAdded(ctx context.Context, event *models.OrderLineAddedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderStatusChanged publishes OrderStatusChanged event
func (ep *EventPublisher) PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// PublishOrderDeleted publishes OrderDeleted event
func (ep *EventPublisher) PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error {
	return ep.producer.PublishEvent(ctx, orderKey(event.OrderID), event)
}

// EventHandler routes incoming order events to registered callbacks
type EventHandler struct {
	onLineAdded    func(context.Context, *models.OrderLineAddedEvent) error
	onOrderChanged func(context.Context, models.BaseEvent) error
	onOrderDeleted func(context.Context, models.BaseEvent) error
	logger         *zap.Logger
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{logger: util.GetLogger()}
}

// OnOrderLineAdded registers a handler for OrderLineAdded events
func (eh *EventHandler) OnOrderLineAdded(handler func(context.Context, *models.OrderLineAddedEvent) error) {
	eh.onLineAdded = handler
}

// OnOrderChanged registers a handler for OrderCreated and OrderStatusChanged events
func (eh *EventHandler) OnOrderChanged(handler func(context.Context, models.BaseEvent) error) {
	eh.onOrderChanged = handler
}

// OnOrderDeleted registers a handler for OrderDeleted events
func (eh *EventHandler) OnOrderDeleted(handler func(context.Context, models.BaseEvent) error) {
	eh.onOrderDeleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	eh.logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID),
		zap.Int64("order_id", baseEvent.OrderID))

	switch baseEvent.EventType {
	case models.EventTypeOrderLineAdded:
		if eh.onLineAdded != nil {
			var event models.OrderLineAddedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal OrderLineAdded event: %w", err)
			}
			return eh.onLineAdded(ctx, &event)
		}

	case models.EventTypeOrderCreated, models.EventTypeOrderStatusChanged:
		if eh.onOrderChanged != nil {
			return eh.onOrderChanged(ctx, baseEvent)
		}

	case models.EventTypeOrderDeleted:
		if eh.onOrderDeleted != nil {
			return eh.onOrderDeleted(ctx, baseEvent)
		}

	default:
		eh.logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
