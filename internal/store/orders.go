package store

import (
	"context"
	"errors"
	"fmt"

	"shop-admin/internal/models"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var (
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrProductNotFound = fmt.Errorf("product %w", ErrNotFound)
)

const orderSummaryColumns = `
	o.order_id, o.order_date, o.status, o.payment_method, o.total_amount,
	o.customer_id, o.employee_id,
	c.first_name || ' ' || c.last_name AS customer_name`

// ListOrders retrieves all orders with their customer's name
func (s *Store) ListOrders(ctx context.Context) ([]models.OrderSummary, error) {
	orders := []models.OrderSummary{}
	err := s.db.SelectContext(ctx, &orders, `
		SELECT `+orderSummaryColumns+`
		FROM "order" o
		JOIN customer c ON o.customer_id = c.customer_id
		ORDER BY o.order_id`)
	return orders, err
}

// GetOrder retrieves one order header with its customer's name
func (s *Store) GetOrder(ctx context.Context, id int64) (*models.OrderSummary, error) {
	var order models.OrderSummary
	err := s.db.GetContext(ctx, &order, `
		SELECT `+orderSummaryColumns+`
		FROM "order" o
		JOIN customer c ON o.customer_id = c.customer_id
		WHERE o.order_id = $1`, id)
	if err = mapError(err); errors.Is(err, ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &order, nil
}

// CreateOrder inserts an order and sets its id
func (s *Store) CreateOrder(ctx context.Context, order *models.Order) error {
	query := `
		INSERT INTO "order" (order_date, status, payment_method, total_amount, customer_id, employee_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING order_id`

	err := s.db.GetContext(ctx, &order.ID, query,
		order.OrderDate, order.Status, order.PaymentMethod, order.TotalAmount,
		order.CustomerID, nullInt64(order.EmployeeID))
	return mapError(err)
}

// UpdateOrderStatus overwrites an order's status
func (s *Store) UpdateOrderStatus(ctx context.Context, orderID int64, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE "order" SET status = $1 WHERE order_id = $2`, status, orderID)
	return mapError(err)
}

// DeleteOrder removes an order's lines and then the order in one transaction
func (s *Store) DeleteOrder(ctx context.Context, orderID int64) error {
	return s.inTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, "DELETE FROM order_line WHERE order_id = $1", orderID); err != nil {
			return fmt.Errorf("failed to delete order lines: %w", mapError(err))
		}
		if _, err := tx.ExecContext(ctx, `DELETE FROM "order" WHERE order_id = $1`, orderID); err != nil {
			return fmt.Errorf("failed to delete order: %w", mapError(err))
		}
		return nil
	})
}

// ListOrderLines retrieves an order's lines with product names
func (s *Store) ListOrderLines(ctx context.Context, orderID int64) ([]models.OrderLine, error) {
	lines := []models.OrderLine{}
	err := s.db.SelectContext(ctx, &lines, `
		SELECT ol.order_id, ol.product_id, p.product_name, ol.quantity, ol.line_price
		FROM order_line ol
		JOIN product p ON ol.product_id = p.product_id
		WHERE ol.order_id = $1
		ORDER BY ol.product_id`, orderID)
	return lines, err
}

// AddOrderLine prices a line at the product's current cost, inserts it and
// adds its price to the order total. Both writes commit together or not at
// all. It returns the inserted line and the order's new total.
func (s *Store) AddOrderLine(ctx context.Context, orderID, productID int64, quantity int) (*models.OrderLine, decimal.Decimal, error) {
	line := &models.OrderLine{
		OrderID:   orderID,
		ProductID: productID,
		Quantity:  quantity,
	}
	var total decimal.Decimal

	err := s.inTx(ctx, func(tx *sqlx.Tx) error {
		var cost decimal.Decimal
		err := tx.GetContext(ctx, &cost, "SELECT cost FROM product WHERE product_id = $1", productID)
		if err = mapError(err); errors.Is(err, ErrNotFound) {
			return ErrProductNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to get product cost: %w", err)
		}

		// Row lock so concurrent lines on the same order apply one at a time.
		var exists bool
		err = tx.GetContext(ctx, &exists,
			`SELECT true FROM "order" WHERE order_id = $1 FOR UPDATE`, orderID)
		if err = mapError(err); errors.Is(err, ErrNotFound) {
			return ErrOrderNotFound
		}
		if err != nil {
			return fmt.Errorf("failed to lock order: %w", err)
		}

		line.LinePrice = models.LinePrice(cost, quantity)

		_, err = tx.ExecContext(ctx, `
			INSERT INTO order_line (order_id, product_id, quantity, line_price)
			VALUES ($1, $2, $3, $4)`,
			orderID, productID, quantity, line.LinePrice)
		if err != nil {
			return fmt.Errorf("failed to insert order line: %w", mapError(err))
		}

		err = tx.GetContext(ctx, &total, `
			UPDATE "order"
			SET total_amount = total_amount + $1
			WHERE order_id = $2
			RETURNING total_amount`,
			line.LinePrice, orderID)
		if err != nil {
			return fmt.Errorf("failed to update order total: %w", mapError(err))
		}
		return nil
	})
	if err != nil {
		return nil, decimal.Zero, err
	}
	return line, total, nil
}

const orderTotalsQuery = `
	SELECT o.order_id, o.total_amount,
	       COALESCE(SUM(ol.line_price), 0) AS lines_total,
	       COUNT(ol.product_id) AS line_count
	FROM "order" o
	LEFT JOIN order_line ol ON ol.order_id = o.order_id`

// OrderTotals compares one order's stored total with the sum of its lines
func (s *Store) OrderTotals(ctx context.Context, orderID int64) (*models.OrderTotals, error) {
	var totals models.OrderTotals
	err := s.db.GetContext(ctx, &totals, orderTotalsQuery+`
		WHERE o.order_id = $1
		GROUP BY o.order_id, o.total_amount`, orderID)
	if err = mapError(err); errors.Is(err, ErrNotFound) {
		return nil, ErrOrderNotFound
	}
	if err != nil {
		return nil, err
	}
	return &totals, nil
}

// ListOrderTotals compares stored and computed totals for every order
func (s *Store) ListOrderTotals(ctx context.Context) ([]models.OrderTotals, error) {
	totals := []models.OrderTotals{}
	err := s.db.SelectContext(ctx, &totals, orderTotalsQuery+`
		GROUP BY o.order_id, o.total_amount
		ORDER BY o.order_id`)
	return totals, err
}
