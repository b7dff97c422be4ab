package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog
type Product struct {
	ID            int64           `db:"product_id" json:"product_id"`
	Name          string          `db:"product_name" json:"product_name"`
	Category      string          `db:"category" json:"category"`
	StockQuantity int             `db:"stock_quantity" json:"stock_quantity"`
	Cost          decimal.Decimal `db:"cost" json:"cost"`
	SupplierID    *int64          `db:"supplier_id" json:"supplier_id,omitempty"`
}

// Customer represents a shop customer
type Customer struct {
	ID          int64  `db:"customer_id" json:"customer_id"`
	FirstName   string `db:"first_name" json:"first_name"`
	LastName    string `db:"last_name" json:"last_name"`
	Email       string `db:"email" json:"email"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
	Street      string `db:"street" json:"street"`
	City        string `db:"city" json:"city"`
	State       string `db:"state" json:"state"`
	Zip         string `db:"zip" json:"zip"`
}

// Employee represents a member of staff
type Employee struct {
	ID        int64     `db:"employee_id" json:"employee_id"`
	FirstName string    `db:"first_name" json:"first_name"`
	LastName  string    `db:"last_name" json:"last_name"`
	Position  string    `db:"position" json:"position"`
	HireDate  time.Time `db:"hire_date" json:"hire_date"`
}

// Supplier represents a product supplier
type Supplier struct {
	ID          int64  `db:"supplier_id" json:"supplier_id"`
	Name        string `db:"supplier_name" json:"supplier_name"`
	PhoneNumber string `db:"phone_number" json:"phone_number"`
}

// Order represents a customer order. TotalAmount is a running sum kept in
// step with the order's lines by the add-line path.
type Order struct {
	ID            int64           `db:"order_id" json:"order_id"`
	OrderDate     time.Time       `db:"order_date" json:"order_date"`
	Status        string          `db:"status" json:"status"`
	PaymentMethod string          `db:"payment_method" json:"payment_method"`
	TotalAmount   decimal.Decimal `db:"total_amount" json:"total_amount"`
	CustomerID    int64           `db:"customer_id" json:"customer_id"`
	EmployeeID    *int64          `db:"employee_id" json:"employee_id,omitempty"`
}

// OrderSummary is an order joined with its customer's name
type OrderSummary struct {
	Order
	CustomerName string `db:"customer_name" json:"customer_name"`
}

// OrderLine represents one product on an order
type OrderLine struct {
	OrderID     int64           `db:"order_id" json:"order_id"`
	ProductID   int64           `db:"product_id" json:"product_id"`
	ProductName string          `db:"product_name" json:"product_name,omitempty"`
	Quantity    int             `db:"quantity" json:"quantity"`
	LinePrice   decimal.Decimal `db:"line_price" json:"line_price"`
}

// Option is an id/label pair used to fill selection controls
type Option struct {
	ID   int64  `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// OrderTotals compares the stored running total with the sum of line prices
type OrderTotals struct {
	OrderID    int64           `db:"order_id" json:"order_id"`
	Stored     decimal.Decimal `db:"total_amount" json:"stored"`
	LinesTotal decimal.Decimal `db:"lines_total" json:"lines_total"`
	LineCount  int             `db:"line_count" json:"line_count"`
}

// Drift returns stored minus computed; zero when the two agree.
func (t OrderTotals) Drift() decimal.Decimal {
	return t.Stored.Sub(t.LinesTotal)
}

// Drifted reports whether the stored total disagrees with its lines.
func (t OrderTotals) Drifted() bool {
	return !t.Stored.Equal(t.LinesTotal)
}

// LinePrice is the price of quantity units at unitCost, fixed at insertion.
func LinePrice(unitCost decimal.Decimal, quantity int) decimal.Decimal {
	return unitCost.Mul(decimal.NewFromInt(int64(quantity)))
}

// Order defaults
const (
	DefaultOrderStatus   = "NEW"
	DefaultPaymentMethod = "CASH"
)

// SuggestedStatuses are offered in the status form. Any other value is accepted.
var SuggestedStatuses = []string{"NEW", "PROCESSING", "SHIPPED", "DELIVERED", "CANCELLED"}

// DateLayout is the form and display format for order and hire dates
const DateLayout = "2006-01-02"
