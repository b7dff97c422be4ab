package store

import (
	"context"

	"shop-admin/internal/models"
)

// ListProducts retrieves all products ordered by id
func (s *Store) ListProducts(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products, `
		SELECT product_id, product_name, COALESCE(category, '') AS category,
		       stock_quantity, cost, supplier_id
		FROM product
		ORDER BY product_id`)
	return products, err
}

// CreateProduct inserts a product and sets its id
func (s *Store) CreateProduct(ctx context.Context, p *models.Product) error {
	query := `
		INSERT INTO product (product_name, category, stock_quantity, cost, supplier_id)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING product_id`

	err := s.db.GetContext(ctx, &p.ID, query,
		p.Name, nullString(p.Category), p.StockQuantity, p.Cost, nullInt64(p.SupplierID))
	return mapError(err)
}

// DeleteProduct removes a product. Deleting a missing id is not an error.
func (s *Store) DeleteProduct(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM product WHERE product_id = $1", id)
	return mapError(err)
}

// ProductCatalog returns products with their cost for the add-line selector
func (s *Store) ProductCatalog(ctx context.Context) ([]models.Product, error) {
	products := []models.Product{}
	err := s.db.SelectContext(ctx, &products,
		"SELECT product_id, product_name, cost FROM product ORDER BY product_id")
	return products, err
}

// ListSuppliers retrieves all suppliers ordered by id
func (s *Store) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	suppliers := []models.Supplier{}
	err := s.db.SelectContext(ctx, &suppliers, `
		SELECT supplier_id, supplier_name, COALESCE(phone_number, '') AS phone_number
		FROM supplier
		ORDER BY supplier_id`)
	return suppliers, err
}

// CreateSupplier inserts a supplier and sets its id
func (s *Store) CreateSupplier(ctx context.Context, sup *models.Supplier) error {
	err := s.db.GetContext(ctx, &sup.ID,
		"INSERT INTO supplier (supplier_name, phone_number) VALUES ($1, $2) RETURNING supplier_id",
		sup.Name, nullString(sup.PhoneNumber))
	return mapError(err)
}

// DeleteSupplier removes a supplier. Deleting a missing id is not an error.
func (s *Store) DeleteSupplier(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM supplier WHERE supplier_id = $1", id)
	return mapError(err)
}
