package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"shop-admin/internal/clock"
	"shop-admin/internal/models"
	"shop-admin/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingPublisher struct {
	mu     sync.Mutex
	events []interface{}
	err    error
}

func (p *recordingPublisher) add(event interface{}) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) PublishOrderCreated(_ context.Context, e *models.OrderCreatedEvent) error {
	return p.add(e)
}

func (p *recordingPublisher) PublishOrderLineAdded(_ context.Context, e *models.OrderLineAddedEvent) error {
	return p.add(e)
}

func (p *recordingPublisher) PublishOrderStatusChanged(_ context.Context, e *models.OrderStatusChangedEvent) error {
	return p.add(e)
}

func (p *recordingPublisher) PublishOrderDeleted(_ context.Context, e *models.OrderDeletedEvent) error {
	return p.add(e)
}

var testNow = time.Date(2025, 10, 24, 15, 30, 0, 0, time.UTC)

type orderFixture struct {
	mem      *storetest.Memory
	events   *recordingPublisher
	svc      *OrderService
	customer *models.Customer
	widget   *models.Product
	gadget   *models.Product
}

func newOrderFixture(t *testing.T) *orderFixture {
	t.Helper()
	ctx := context.Background()

	f := &orderFixture{
		mem:    storetest.NewMemory(),
		events: &recordingPublisher{},
	}
	f.svc = NewOrderService(f.mem, f.events, clock.Fixed(testNow))

	f.customer = &models.Customer{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, f.mem.CreateCustomer(ctx, f.customer))
	f.widget = &models.Product{Name: "Widget", Cost: decimal.RequireFromString("9.99")}
	require.NoError(t, f.mem.CreateProduct(ctx, f.widget))
	f.gadget = &models.Product{Name: "Gadget", Cost: decimal.RequireFromString("5.00")}
	require.NoError(t, f.mem.CreateProduct(ctx, f.gadget))
	return f
}

func (f *orderFixture) createOrder(t *testing.T) int64 {
	t.Helper()
	order := &models.Order{
		OrderDate:     testNow,
		Status:        models.DefaultOrderStatus,
		PaymentMethod: models.DefaultPaymentMethod,
		TotalAmount:   decimal.Zero,
		CustomerID:    f.customer.ID,
	}
	require.NoError(t, f.mem.CreateOrder(context.Background(), order))
	return order.ID
}

func TestCreateOrderDefaults(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	out, err := f.svc.Create(ctx, OrderForm{CustomerID: "1"})
	require.NoError(t, err)
	require.False(t, out.Rejected())

	page, err := f.svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	order := page.Orders[0]
	assert.Equal(t, OrderPath(order.ID), out.Redirect)
	assert.Equal(t, "Order 4 created.", out.Notice.Message)
	assert.Equal(t, "NEW", order.Status)
	assert.Equal(t, "CASH", order.PaymentMethod)
	assert.True(t, order.TotalAmount.IsZero())
	assert.Nil(t, order.EmployeeID)
	assert.Equal(t, "2025-10-24", order.OrderDate.Format(models.DateLayout))
	assert.Equal(t, "Ada Lovelace", order.CustomerName)
	assert.Equal(t, []models.Option{{ID: 1, Name: "Ada Lovelace"}}, page.Customers)

	require.Len(t, f.events.events, 1)
	created, ok := f.events.events[0].(*models.OrderCreatedEvent)
	require.True(t, ok)
	assert.Equal(t, models.EventTypeOrderCreated, created.EventType)
	assert.Equal(t, order.ID, created.OrderID)
	assert.NotEmpty(t, created.EventID)
	assert.Equal(t, testNow, created.Timestamp)
}

func TestCreateOrderRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		form    OrderForm
		message string
	}{
		{"missing customer", OrderForm{}, "Customer is required to create an order."},
		{"non-integer customer", OrderForm{CustomerID: "ada"}, "Customer must be a valid id."},
		{"non-integer employee", OrderForm{CustomerID: "1", EmployeeID: "x"}, "Employee must be a valid id."},
		{"malformed date", OrderForm{CustomerID: "1", OrderDate: "yesterday"}, "Order date must be a date (YYYY-MM-DD)."},
		{"unknown customer", OrderForm{CustomerID: "77"}, "Selected customer or employee does not exist."},
		{"unknown employee", OrderForm{CustomerID: "1", EmployeeID: "77"}, "Selected customer or employee does not exist."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)

			out, err := f.svc.Create(ctx, tt.form)
			require.NoError(t, err)
			assert.True(t, out.Rejected())
			assert.Equal(t, OrdersPath, out.Redirect)
			assert.Equal(t, tt.message, out.Notice.Message)

			orders, err := f.mem.ListOrders(ctx)
			require.NoError(t, err)
			assert.Empty(t, orders)
			assert.Empty(t, f.events.events)
		})
	}
}

func TestCreateOrderWithFields(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)

	clerk := &models.Employee{FirstName: "Alan", LastName: "Turing"}
	require.NoError(t, f.mem.CreateEmployee(ctx, clerk))

	out, err := f.svc.Create(ctx, OrderForm{
		OrderDate:     "2025-01-31",
		CustomerID:    "1",
		EmployeeID:    "4",
		PaymentMethod: "CARD",
		Status:        "PROCESSING",
	})
	require.NoError(t, err)
	require.False(t, out.Rejected())

	page, err := f.svc.Orders(ctx)
	require.NoError(t, err)
	require.Len(t, page.Orders, 1)
	order := page.Orders[0]
	assert.Equal(t, "2025-01-31", order.OrderDate.Format(models.DateLayout))
	assert.Equal(t, "CARD", order.PaymentMethod)
	assert.Equal(t, "PROCESSING", order.Status)
	require.NotNil(t, order.EmployeeID)
	assert.Equal(t, clerk.ID, *order.EmployeeID)
}

func TestOrderDetail(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)

	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "3", Quantity: "2"})
	require.NoError(t, err)
	_, err = f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	require.NoError(t, err)

	page, out, err := f.svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, out.Redirect)
	require.NotNil(t, page)
	assert.Equal(t, "Ada Lovelace", page.Order.CustomerName)
	require.Len(t, page.Lines, 2)
	assert.Equal(t, "Widget", page.Lines[0].ProductName)
	assert.Equal(t, "Gadget", page.Lines[1].ProductName)
	assert.Len(t, page.Products, 2)
	assert.Equal(t, "19.99", page.LinesTotal.StringFixed(2))
	assert.False(t, page.Drifted)
	assert.Equal(t, models.SuggestedStatuses, page.Statuses)
}

func TestOrderDetailFlagsDrift(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)

	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	require.NoError(t, err)
	f.mem.SetOrderTotal(id, decimal.RequireFromString("100"))

	page, _, err := f.svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.True(t, page.Drifted)
	assert.Equal(t, "9.99", page.LinesTotal.StringFixed(2))
}

func TestOrderDetailNotFound(t *testing.T) {
	f := newOrderFixture(t)

	page, out, err := f.svc.Detail(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, page)
	assert.Equal(t, OrdersPath, out.Redirect)
	assert.Equal(t, "Order 42 not found.", out.Notice.Message)
	assert.True(t, out.Rejected())
}

func TestAddLineRunningTotal(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)

	out, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "3"})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Redirect: OrderPath(id), Notice: Notice{Level: LevelSuccess, Message: "Line item added."}}, out)

	order, err := f.mem.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "29.97", order.TotalAmount.StringFixed(2))

	_, err = f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "3", Quantity: "2"})
	require.NoError(t, err)

	order, err = f.mem.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "39.97", order.TotalAmount.StringFixed(2))

	require.Len(t, f.events.events, 2)
	added, ok := f.events.events[1].(*models.OrderLineAddedEvent)
	require.True(t, ok)
	assert.Equal(t, f.gadget.ID, added.ProductID)
	assert.Equal(t, 2, added.Quantity)
	assert.Equal(t, "10.00", added.LinePrice.StringFixed(2))
	assert.Equal(t, "39.97", added.TotalAmount.StringFixed(2))
}

func TestAddLineRejections(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		orderID  int64
		form     OrderLineForm
		redirect string
		message  string
	}{
		{"missing product", 4, OrderLineForm{Quantity: "1"}, "/orders/4", "Product and quantity are required."},
		{"missing quantity", 4, OrderLineForm{ProductID: "2"}, "/orders/4", "Product and quantity are required."},
		{"non-integer product", 4, OrderLineForm{ProductID: "w", Quantity: "1"}, "/orders/4", "Invalid product."},
		{"unknown product", 4, OrderLineForm{ProductID: "99", Quantity: "1"}, "/orders/4", "Invalid product."},
		{"zero quantity", 4, OrderLineForm{ProductID: "2", Quantity: "0"}, "/orders/4", "Quantity must be a positive integer."},
		{"fractional quantity", 4, OrderLineForm{ProductID: "2", Quantity: "1.5"}, "/orders/4", "Quantity must be a positive integer."},
		{"unknown order", 99, OrderLineForm{ProductID: "2", Quantity: "1"}, "/orders", "Order 99 not found."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newOrderFixture(t)
			id := f.createOrder(t)
			require.Equal(t, int64(4), id)

			out, err := f.svc.AddLine(ctx, tt.orderID, tt.form)
			require.NoError(t, err)
			assert.True(t, out.Rejected())
			assert.Equal(t, tt.redirect, out.Redirect)
			assert.Equal(t, tt.message, out.Notice.Message)

			order, err := f.mem.GetOrder(ctx, id)
			require.NoError(t, err)
			assert.True(t, order.TotalAmount.IsZero())
			assert.Empty(t, f.events.events)
		})
	}
}

func TestAddLineDuplicateProduct(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)

	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	require.NoError(t, err)

	out, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "5"})
	require.NoError(t, err)
	assert.True(t, out.Rejected())
	assert.Equal(t, "Product 2 is already on this order.", out.Notice.Message)

	order, err := f.mem.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "9.99", order.TotalAmount.StringFixed(2))
}

func TestUpdateStatus(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)
	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	require.NoError(t, err)

	out, err := f.svc.UpdateStatus(ctx, id, StatusForm{Status: "  "})
	require.NoError(t, err)
	assert.True(t, out.Rejected())
	assert.Equal(t, "Status is required.", out.Notice.Message)

	out, err = f.svc.UpdateStatus(ctx, id, StatusForm{Status: " SHIPPED "})
	require.NoError(t, err)
	assert.Equal(t, Outcome{Redirect: OrderPath(id), Notice: Notice{Level: LevelSuccess, Message: "Order status updated."}}, out)

	page, _, err := f.svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "SHIPPED", page.Order.Status)
	assert.Equal(t, "9.99", page.Order.TotalAmount.StringFixed(2))
	assert.Len(t, page.Lines, 1)

	// Free text is accepted
	_, err = f.svc.UpdateStatus(ctx, id, StatusForm{Status: "on hold"})
	require.NoError(t, err)
	order, err := f.mem.GetOrder(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "on hold", order.Status)
}

func TestDeleteOrder(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)
	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	require.NoError(t, err)

	out, err := f.svc.Delete(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Redirect: OrdersPath, Notice: Notice{Level: LevelSuccess, Message: "Order 4 deleted."}}, out)

	lines, err := f.mem.ListOrderLines(ctx, id)
	require.NoError(t, err)
	assert.Empty(t, lines)

	_, out, err = f.svc.Detail(ctx, id)
	require.NoError(t, err)
	assert.True(t, out.Rejected())

	deleted, ok := f.events.events[len(f.events.events)-1].(*models.OrderDeletedEvent)
	require.True(t, ok)
	assert.Equal(t, id, deleted.OrderID)
}

func TestPublishFailureDoesNotFailRequest(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	f.events.err = errors.New("broker down")

	out, err := f.svc.Create(ctx, OrderForm{CustomerID: "1"})
	require.NoError(t, err)
	assert.False(t, out.Rejected())
}

func TestOrdersWithoutPublisher(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	svc := NewOrderService(mem, nil, clock.Fixed(testNow))

	customer := &models.Customer{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, mem.CreateCustomer(ctx, customer))

	out, err := svc.Create(ctx, OrderForm{CustomerID: "1"})
	require.NoError(t, err)
	assert.Equal(t, "/orders/2", out.Redirect)
}

func TestOrderStoreFailure(t *testing.T) {
	ctx := context.Background()
	f := newOrderFixture(t)
	id := f.createOrder(t)
	f.mem.Err = errors.New("connection reset")

	_, err := f.svc.AddLine(ctx, id, OrderLineForm{ProductID: "2", Quantity: "1"})
	assert.ErrorIs(t, err, f.mem.Err)

	_, _, err = f.svc.Detail(ctx, id)
	assert.ErrorIs(t, err, f.mem.Err)

	_, err = f.svc.Delete(ctx, id)
	assert.ErrorIs(t, err, f.mem.Err)
}
