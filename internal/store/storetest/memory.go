// Package storetest provides an in-memory stand-in for store.Store that
// enforces the same keys and references as the shop schema.
package storetest

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"shop-admin/internal/models"
	"shop-admin/internal/store"

	"github.com/shopspring/decimal"
)

type lineKey struct {
	orderID   int64
	productID int64
}

// Memory keeps every table in maps guarded by one mutex
type Memory struct {
	mu sync.Mutex

	products  map[int64]models.Product
	customers map[int64]models.Customer
	employees map[int64]models.Employee
	suppliers map[int64]models.Supplier
	orders    map[int64]models.Order
	lines     map[lineKey]models.OrderLine

	nextID int64

	// Err, when set, is returned by every call
	Err error
}

// NewMemory creates an empty store
func NewMemory() *Memory {
	return &Memory{
		products:  map[int64]models.Product{},
		customers: map[int64]models.Customer{},
		employees: map[int64]models.Employee{},
		suppliers: map[int64]models.Supplier{},
		orders:    map[int64]models.Order{},
		lines:     map[lineKey]models.OrderLine{},
	}
}

func (m *Memory) id() int64 {
	m.nextID++
	return m.nextID
}

func sortedKeys[V any](rows map[int64]V) []int64 {
	keys := make([]int64, 0, len(rows))
	for k := range rows {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

func listOf[V any](rows map[int64]V) []V {
	out := make([]V, 0, len(rows))
	for _, k := range sortedKeys(rows) {
		out = append(out, rows[k])
	}
	return out
}

func refError(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", store.ErrInvalidReference, fmt.Sprintf(format, args...))
}

// ListProducts returns products ordered by id
func (m *Memory) ListProducts(ctx context.Context) ([]models.Product, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return listOf(m.products), nil
}

// CreateProduct inserts a product and sets its id
func (m *Memory) CreateProduct(ctx context.Context, p *models.Product) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if p.SupplierID != nil {
		if _, ok := m.suppliers[*p.SupplierID]; !ok {
			return refError("supplier %d", *p.SupplierID)
		}
	}
	p.ID = m.id()
	m.products[p.ID] = *p
	return nil
}

// DeleteProduct removes a product unless an order line references it
func (m *Memory) DeleteProduct(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k := range m.lines {
		if k.productID == id {
			return refError("product %d is on order %d", id, k.orderID)
		}
	}
	delete(m.products, id)
	return nil
}

// ProductCatalog returns products ordered by id
func (m *Memory) ProductCatalog(ctx context.Context) ([]models.Product, error) {
	return m.ListProducts(ctx)
}

// ListSuppliers returns suppliers ordered by id
func (m *Memory) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return listOf(m.suppliers), nil
}

// CreateSupplier inserts a supplier and sets its id
func (m *Memory) CreateSupplier(ctx context.Context, s *models.Supplier) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	s.ID = m.id()
	m.suppliers[s.ID] = *s
	return nil
}

// DeleteSupplier removes a supplier and clears it from its products
func (m *Memory) DeleteSupplier(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for pid, p := range m.products {
		if p.SupplierID != nil && *p.SupplierID == id {
			p.SupplierID = nil
			m.products[pid] = p
		}
	}
	delete(m.suppliers, id)
	return nil
}

// ListCustomers returns customers ordered by id
func (m *Memory) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return listOf(m.customers), nil
}

// CreateCustomer inserts a customer and sets its id
func (m *Memory) CreateCustomer(ctx context.Context, c *models.Customer) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	c.ID = m.id()
	m.customers[c.ID] = *c
	return nil
}

// DeleteCustomer removes a customer unless an order references it
func (m *Memory) DeleteCustomer(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for _, o := range m.orders {
		if o.CustomerID == id {
			return refError("customer %d has order %d", id, o.ID)
		}
	}
	delete(m.customers, id)
	return nil
}

// CustomerOptions returns id and full name of every customer
func (m *Memory) CustomerOptions(ctx context.Context) ([]models.Option, error) {
	customers, err := m.ListCustomers(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]models.Option, 0, len(customers))
	for _, c := range customers {
		options = append(options, models.Option{ID: c.ID, Name: c.FirstName + " " + c.LastName})
	}
	return options, nil
}

// ListEmployees returns employees ordered by id
func (m *Memory) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	return listOf(m.employees), nil
}

// CreateEmployee inserts an employee and sets its id
func (m *Memory) CreateEmployee(ctx context.Context, e *models.Employee) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	e.ID = m.id()
	m.employees[e.ID] = *e
	return nil
}

// DeleteEmployee removes an employee and clears it from its orders
func (m *Memory) DeleteEmployee(ctx context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for oid, o := range m.orders {
		if o.EmployeeID != nil && *o.EmployeeID == id {
			o.EmployeeID = nil
			m.orders[oid] = o
		}
	}
	delete(m.employees, id)
	return nil
}

// EmployeeOptions returns id and full name of every employee
func (m *Memory) EmployeeOptions(ctx context.Context) ([]models.Option, error) {
	employees, err := m.ListEmployees(ctx)
	if err != nil {
		return nil, err
	}
	options := make([]models.Option, 0, len(employees))
	for _, e := range employees {
		options = append(options, models.Option{ID: e.ID, Name: e.FirstName + " " + e.LastName})
	}
	return options, nil
}

func (m *Memory) summary(o models.Order) models.OrderSummary {
	c := m.customers[o.CustomerID]
	return models.OrderSummary{Order: o, CustomerName: c.FirstName + " " + c.LastName}
}

// ListOrders returns orders with customer names ordered by id
func (m *Memory) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	orders := make([]models.OrderSummary, 0, len(m.orders))
	for _, id := range sortedKeys(m.orders) {
		orders = append(orders, m.summary(m.orders[id]))
	}
	return orders, nil
}

// GetOrder returns one order or store.ErrOrderNotFound
func (m *Memory) GetOrder(ctx context.Context, id int64) (*models.OrderSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[id]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	summary := m.summary(o)
	return &summary, nil
}

// CreateOrder inserts an order and sets its id
func (m *Memory) CreateOrder(ctx context.Context, order *models.Order) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if _, ok := m.customers[order.CustomerID]; !ok {
		return refError("customer %d", order.CustomerID)
	}
	if order.EmployeeID != nil {
		if _, ok := m.employees[*order.EmployeeID]; !ok {
			return refError("employee %d", *order.EmployeeID)
		}
	}
	order.ID = m.id()
	m.orders[order.ID] = *order
	return nil
}

// UpdateOrderStatus overwrites an order's status; missing ids are ignored
func (m *Memory) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	if o, ok := m.orders[orderID]; ok {
		o.Status = status
		m.orders[orderID] = o
	}
	return nil
}

// DeleteOrder removes an order and its lines
func (m *Memory) DeleteOrder(ctx context.Context, orderID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return m.Err
	}
	for k := range m.lines {
		if k.orderID == orderID {
			delete(m.lines, k)
		}
	}
	delete(m.orders, orderID)
	return nil
}

// ListOrderLines returns an order's lines ordered by product id
func (m *Memory) ListOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	lines := []models.OrderLine{}
	for k, line := range m.lines {
		if k.orderID == orderID {
			line.ProductName = m.products[k.productID].Name
			lines = append(lines, line)
		}
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].ProductID < lines[j].ProductID })
	return lines, nil
}

// AddOrderLine mirrors the transactional add-line path: either the line is
// stored and the total raised, or nothing changes.
func (m *Memory) AddOrderLine(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderLine, decimal.Decimal, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, decimal.Zero, m.Err
	}

	p, ok := m.products[productID]
	if !ok {
		return nil, decimal.Zero, store.ErrProductNotFound
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, decimal.Zero, store.ErrOrderNotFound
	}
	key := lineKey{orderID: orderID, productID: productID}
	if _, dup := m.lines[key]; dup {
		return nil, decimal.Zero, fmt.Errorf("%w: order line (%d, %d)", store.ErrDuplicate, orderID, productID)
	}

	line := models.OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
		LinePrice: models.LinePrice(p.Cost, quantity),
	}
	m.lines[key] = line
	o.TotalAmount = o.TotalAmount.Add(line.LinePrice)
	m.orders[orderID] = o

	line.ProductName = p.Name
	return &line, o.TotalAmount, nil
}

func (m *Memory) totals(o models.Order) models.OrderTotals {
	t := models.OrderTotals{OrderID: o.ID, Stored: o.TotalAmount, LinesTotal: decimal.Zero}
	for k, line := range m.lines {
		if k.orderID == o.ID {
			t.LinesTotal = t.LinesTotal.Add(line.LinePrice)
			t.LineCount++
		}
	}
	return t
}

// OrderTotals compares one order's stored total with its lines
func (m *Memory) OrderTotals(ctx context.Context, orderID int64) (*models.OrderTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	o, ok := m.orders[orderID]
	if !ok {
		return nil, store.ErrOrderNotFound
	}
	t := m.totals(o)
	return &t, nil
}

// ListOrderTotals compares stored and computed totals for every order
func (m *Memory) ListOrderTotals(ctx context.Context) ([]models.OrderTotals, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	out := make([]models.OrderTotals, 0, len(m.orders))
	for _, id := range sortedKeys(m.orders) {
		out = append(out, m.totals(m.orders[id]))
	}
	return out, nil
}

// SetOrderTotal overwrites the stored total, simulating an out-of-band edit
func (m *Memory) SetOrderTotal(orderID int64, total decimal.Decimal) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if o, ok := m.orders[orderID]; ok {
		o.TotalAmount = total
		m.orders[orderID] = o
	}
}
