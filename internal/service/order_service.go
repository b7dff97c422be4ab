package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"shop-admin/internal/clock"
	"shop-admin/internal/models"
	"shop-admin/internal/store"
	"shop-admin/internal/util"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// OrderStore is the persistence OrderService needs
type OrderStore interface {
	ListOrders(ctx context.Context) ([]models.OrderSummary, error)
	GetOrder(ctx context.Context, id int64) (*models.OrderSummary, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	UpdateOrderStatus(ctx context.Context, orderID int64, status string) error
	DeleteOrder(ctx context.Context, orderID int64) error
	ListOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error)
	AddOrderLine(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderLine, decimal.Decimal, error)
	ProductCatalog(ctx context.Context) ([]models.Product, error)
	CustomerOptions(ctx context.Context) ([]models.Option, error)
	EmployeeOptions(ctx context.Context) ([]models.Option, error)
}

// EventPublisher receives order events after each committed mutation
type EventPublisher interface {
	PublishOrderCreated(ctx context.Context, event *models.OrderCreatedEvent) error
	PublishOrderLineAdded(ctx context.Context, event *models.OrderLineAddedEvent) error
	PublishOrderStatusChanged(ctx context.Context, event *models.OrderStatusChangedEvent) error
	PublishOrderDeleted(ctx context.Context, event *models.OrderDeletedEvent) error
}

// OrderService handles orders and their lines
type OrderService struct {
	store  OrderStore
	events EventPublisher
	clock  clock.Clock
	logger *zap.Logger
}

// NewOrderService creates a new order service. events may be nil, in which
// case nothing is published.
func NewOrderService(store OrderStore, events EventPublisher, clk clock.Clock) *OrderService {
	return &OrderService{
		store:  store,
		events: events,
		clock:  clk,
		logger: util.GetLogger(),
	}
}

// OrderForm is the order add form
type OrderForm struct {
	OrderDate     string `form:"order_date"`
	CustomerID    string `form:"customer_id"`
	EmployeeID    string `form:"employee_id"`
	PaymentMethod string `form:"payment_method"`
	Status        string `form:"status"`
}

// OrderLineForm is the add-line form on the order detail page
type OrderLineForm struct {
	ProductID string `form:"product_id"`
	Quantity  string `form:"quantity"`
}

// StatusForm is the status form on the order detail page
type StatusForm struct {
	Status string `form:"status"`
}

// OrdersPage is the order list with the selectors for the add form
type OrdersPage struct {
	Orders    []models.OrderSummary
	Customers []models.Option
	Employees []models.Option
}

// OrderDetailPage is one order with its lines and the add-line catalog
type OrderDetailPage struct {
	Order      *models.OrderSummary
	Lines      []models.OrderLine
	Products   []models.Product
	LinesTotal decimal.Decimal
	Drifted    bool
	Statuses   []string
}

// Orders lists all orders with customer and employee selectors
func (s *OrderService) Orders(ctx context.Context) (*OrdersPage, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Orders")
	defer span.End()

	orders, err := s.store.ListOrders(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	customers, err := s.store.CustomerOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	employees, err := s.store.EmployeeOptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return &OrdersPage{Orders: orders, Customers: customers, Employees: employees}, nil
}

func (s *OrderService) today() time.Time {
	y, m, d := s.clock.Now().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func (s *OrderService) order(f OrderForm) (*models.Order, error) {
	trim(&f.OrderDate, &f.CustomerID, &f.EmployeeID, &f.PaymentMethod, &f.Status)

	if f.CustomerID == "" {
		return nil, fieldError("Customer is required to create an order.")
	}
	customerID, err := parseRequiredInt(f.CustomerID, "Customer must be a valid id.")
	if err != nil {
		return nil, err
	}

	o := &models.Order{
		OrderDate:     s.today(),
		Status:        f.Status,
		PaymentMethod: f.PaymentMethod,
		TotalAmount:   decimal.Zero,
		CustomerID:    customerID,
	}
	if o.Status == "" {
		o.Status = models.DefaultOrderStatus
	}
	if o.PaymentMethod == "" {
		o.PaymentMethod = models.DefaultPaymentMethod
	}
	if f.OrderDate != "" {
		if o.OrderDate, err = parseDate(f.OrderDate, "Order date must be a date (YYYY-MM-DD)."); err != nil {
			return nil, err
		}
	}
	if o.EmployeeID, err = parseOptionalInt(f.EmployeeID, "Employee must be a valid id."); err != nil {
		return nil, err
	}
	return o, nil
}

// Create validates the form, inserts an order with a zero total and
// redirects to its detail page
func (s *OrderService) Create(ctx context.Context, form OrderForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Create")
	defer span.End()
	defer func() { record("order", "add", out, err) }()

	order, err := s.order(form)
	if err != nil {
		out, _ = asRejection(OrdersPath, err)
		return out, nil
	}

	if err := s.store.CreateOrder(ctx, order); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(OrdersPath, "Selected customer or employee does not exist."), nil
		}
		return Outcome{}, fmt.Errorf("failed to create order: %w", err)
	}

	s.logger.Info("Order created",
		zap.Int64("order_id", order.ID),
		zap.Int64("customer_id", order.CustomerID))

	s.publish(models.EventTypeOrderCreated, func(base models.BaseEvent) error {
		return s.events.PublishOrderCreated(ctx, &models.OrderCreatedEvent{
			BaseEvent:     base,
			CustomerID:    order.CustomerID,
			EmployeeID:    order.EmployeeID,
			Status:        order.Status,
			PaymentMethod: order.PaymentMethod,
		})
	}, order.ID)

	return succeeded(OrderPath(order.ID), "Order %d created.", order.ID), nil
}

// Detail loads one order with its lines. A missing order yields a nil page
// and a rejection pointing back at the order list.
func (s *OrderService) Detail(ctx context.Context, id int64) (*OrderDetailPage, Outcome, error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Detail")
	defer span.End()

	order, err := s.store.GetOrder(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		return nil, rejected(OrdersPath, "Order %d not found.", id), nil
	}
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("failed to get order %d: %w", id, err)
	}

	lines, err := s.store.ListOrderLines(ctx, id)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("failed to list lines of order %d: %w", id, err)
	}
	products, err := s.store.ProductCatalog(ctx)
	if err != nil {
		return nil, Outcome{}, fmt.Errorf("failed to list products: %w", err)
	}

	sum := decimal.Zero
	for _, line := range lines {
		sum = sum.Add(line.LinePrice)
	}

	return &OrderDetailPage{
		Order:      order,
		Lines:      lines,
		Products:   products,
		LinesTotal: sum,
		Drifted:    !sum.Equal(order.TotalAmount),
		Statuses:   models.SuggestedStatuses,
	}, Outcome{}, nil
}

// AddLine prices a product at its current cost and adds it to the order,
// raising the order total by the line price
func (s *OrderService) AddLine(ctx context.Context, orderID int64, form OrderLineForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "OrderService.AddLine")
	defer span.End()
	defer func() { record("order_line", "add", out, err) }()

	back := OrderPath(orderID)

	trim(&form.ProductID, &form.Quantity)
	if form.ProductID == "" || form.Quantity == "" {
		return rejected(back, "Product and quantity are required."), nil
	}
	productID, perr := parseRequiredInt(form.ProductID, "Invalid product.")
	if perr != nil {
		out, _ = asRejection(back, perr)
		return out, nil
	}
	quantity, qerr := parseRequiredInt(form.Quantity, "Quantity must be a positive integer.")
	if qerr == nil && quantity <= 0 {
		qerr = fieldError("Quantity must be a positive integer.")
	}
	if qerr != nil {
		out, _ = asRejection(back, qerr)
		return out, nil
	}

	line, total, err := s.store.AddOrderLine(ctx, orderID, productID, int(quantity))
	switch {
	case errors.Is(err, store.ErrProductNotFound):
		return rejected(back, "Invalid product."), nil
	case errors.Is(err, store.ErrOrderNotFound):
		return rejected(OrdersPath, "Order %d not found.", orderID), nil
	case errors.Is(err, store.ErrDuplicate):
		return rejected(back, "Product %d is already on this order.", productID), nil
	case err != nil:
		return Outcome{}, fmt.Errorf("failed to add line to order %d: %w", orderID, err)
	}

	util.OrderLinesAddedTotal.Inc()
	util.OrderLineValue.Observe(line.LinePrice.InexactFloat64())
	s.logger.Info("Order line added",
		zap.Int64("order_id", orderID),
		zap.Int64("product_id", productID),
		zap.Int("quantity", line.Quantity),
		zap.String("line_price", line.LinePrice.StringFixed(2)),
		zap.String("total_amount", total.StringFixed(2)))

	s.publish(models.EventTypeOrderLineAdded, func(base models.BaseEvent) error {
		return s.events.PublishOrderLineAdded(ctx, &models.OrderLineAddedEvent{
			BaseEvent:   base,
			ProductID:   productID,
			Quantity:    line.Quantity,
			LinePrice:   line.LinePrice,
			TotalAmount: total,
		})
	}, orderID)

	return succeeded(back, "Line item added."), nil
}

// UpdateStatus overwrites the order's status with any non-empty value
func (s *OrderService) UpdateStatus(ctx context.Context, orderID int64, form StatusForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "OrderService.UpdateStatus")
	defer span.End()
	defer func() { record("order", "update_status", out, err) }()

	back := OrderPath(orderID)

	trim(&form.Status)
	if form.Status == "" {
		return rejected(back, "Status is required."), nil
	}

	if err := s.store.UpdateOrderStatus(ctx, orderID, form.Status); err != nil {
		return Outcome{}, fmt.Errorf("failed to update status of order %d: %w", orderID, err)
	}

	s.logger.Info("Order status updated",
		zap.Int64("order_id", orderID),
		zap.String("status", form.Status))

	s.publish(models.EventTypeOrderStatusChanged, func(base models.BaseEvent) error {
		return s.events.PublishOrderStatusChanged(ctx, &models.OrderStatusChangedEvent{
			BaseEvent: base,
			Status:    form.Status,
		})
	}, orderID)

	return succeeded(back, "Order status updated."), nil
}

// Delete removes the order together with its lines
func (s *OrderService) Delete(ctx context.Context, orderID int64) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "OrderService.Delete")
	defer span.End()
	defer func() { record("order", "delete", out, err) }()

	if err := s.store.DeleteOrder(ctx, orderID); err != nil {
		return Outcome{}, fmt.Errorf("failed to delete order %d: %w", orderID, err)
	}

	s.logger.Info("Order deleted", zap.Int64("order_id", orderID))

	s.publish(models.EventTypeOrderDeleted, func(base models.BaseEvent) error {
		return s.events.PublishOrderDeleted(ctx, &models.OrderDeletedEvent{BaseEvent: base})
	}, orderID)

	return succeeded(OrdersPath, "Order %d deleted.", orderID), nil
}

// publish stamps a new event and hands it to send. Failures are logged and
// counted but never reach the caller: the database write already committed.
func (s *OrderService) publish(eventType string, send func(models.BaseEvent) error, orderID int64) {
	if s.events == nil {
		return
	}

	base := models.BaseEvent{
		EventID:   uuid.New().String(),
		EventType: eventType,
		Timestamp: s.clock.Now(),
		OrderID:   orderID,
	}

	if err := send(base); err != nil {
		util.EventsPublishedTotal.WithLabelValues(eventType, util.OutcomeError).Inc()
		s.logger.Error("Failed to publish order event",
			zap.String("type", eventType),
			zap.Int64("order_id", orderID),
			zap.Error(err))
		return
	}
	util.EventsPublishedTotal.WithLabelValues(eventType, util.OutcomeSuccess).Inc()
}
