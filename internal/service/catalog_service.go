package service

import (
	"context"
	"errors"
	"fmt"

	"shop-admin/internal/models"
	"shop-admin/internal/store"
	"shop-admin/internal/util"

	"go.uber.org/zap"
)

// CatalogStore is the persistence CatalogService needs
type CatalogStore interface {
	ListProducts(ctx context.Context) ([]models.Product, error)
	CreateProduct(ctx context.Context, p *models.Product) error
	DeleteProduct(ctx context.Context, id int64) error
	ListSuppliers(ctx context.Context) ([]models.Supplier, error)
	CreateSupplier(ctx context.Context, s *models.Supplier) error
	DeleteSupplier(ctx context.Context, id int64) error
}

// CatalogService handles products and suppliers
type CatalogService struct {
	store  CatalogStore
	logger *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(store CatalogStore) *CatalogService {
	return &CatalogService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// ProductForm is the product add form
type ProductForm struct {
	Name          string `form:"product_name"`
	Category      string `form:"category"`
	StockQuantity string `form:"stock_quantity"`
	Cost          string `form:"cost"`
	SupplierID    string `form:"supplier_id"`
}

func (f ProductForm) product() (*models.Product, error) {
	trim(&f.Name, &f.Category, &f.StockQuantity, &f.Cost, &f.SupplierID)

	if f.Name == "" {
		return nil, fieldError("Product name is required.")
	}

	p := &models.Product{Name: f.Name, Category: f.Category}

	if f.StockQuantity != "" {
		qty, err := parseRequiredInt(f.StockQuantity, "Stock quantity must be an integer.")
		if err != nil {
			return nil, err
		}
		if qty < 0 {
			return nil, fieldError("Stock quantity cannot be negative.")
		}
		p.StockQuantity = int(qty)
	}

	cost, err := parseDecimal(f.Cost, "Cost must be a number.")
	if err != nil {
		return nil, err
	}
	if cost.IsNegative() {
		return nil, fieldError("Cost cannot be negative.")
	}
	p.Cost = cost

	if p.SupplierID, err = parseOptionalInt(f.SupplierID, "Supplier must be a valid id."); err != nil {
		return nil, err
	}
	return p, nil
}

// ProductsPage is the product list with the suppliers for the add form
type ProductsPage struct {
	Products  []models.Product
	Suppliers []models.Supplier
}

// Products lists all products and suppliers
func (s *CatalogService) Products(ctx context.Context) (*ProductsPage, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Products")
	defer span.End()

	products, err := s.store.ListProducts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return &ProductsPage{Products: products, Suppliers: suppliers}, nil
}

// AddProduct validates the form and inserts a product
func (s *CatalogService) AddProduct(ctx context.Context, form ProductForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddProduct")
	defer span.End()
	defer func() { record("product", "add", out, err) }()

	p, err := form.product()
	if err != nil {
		out, _ = asRejection(ProductsPath, err)
		return out, nil
	}

	if err := s.store.CreateProduct(ctx, p); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(ProductsPath, "Selected supplier does not exist."), nil
		}
		return Outcome{}, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info("Product created", zap.Int64("product_id", p.ID), zap.String("name", p.Name))
	return succeeded(ProductsPath, "Product added successfully."), nil
}

// DeleteProduct removes a product
func (s *CatalogService) DeleteProduct(ctx context.Context, id int64) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteProduct")
	defer span.End()
	defer func() { record("product", "delete", out, err) }()

	if err := s.store.DeleteProduct(ctx, id); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(ProductsPath, "Product %d is on existing orders and cannot be deleted.", id), nil
		}
		return Outcome{}, fmt.Errorf("failed to delete product %d: %w", id, err)
	}

	s.logger.Info("Product deleted", zap.Int64("product_id", id))
	return succeeded(ProductsPath, "Product %d deleted.", id), nil
}

// SupplierForm is the supplier add form
type SupplierForm struct {
	Name        string `form:"supplier_name"`
	PhoneNumber string `form:"phone_number"`
}

// Suppliers lists all suppliers
func (s *CatalogService) Suppliers(ctx context.Context) ([]models.Supplier, error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.Suppliers")
	defer span.End()

	suppliers, err := s.store.ListSuppliers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list suppliers: %w", err)
	}
	return suppliers, nil
}

// AddSupplier validates the form and inserts a supplier
func (s *CatalogService) AddSupplier(ctx context.Context, form SupplierForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.AddSupplier")
	defer span.End()
	defer func() { record("supplier", "add", out, err) }()

	trim(&form.Name, &form.PhoneNumber)
	if form.Name == "" {
		return rejected(SuppliersPath, "Supplier name is required."), nil
	}

	sup := &models.Supplier{Name: form.Name, PhoneNumber: form.PhoneNumber}
	if err := s.store.CreateSupplier(ctx, sup); err != nil {
		return Outcome{}, fmt.Errorf("failed to create supplier: %w", err)
	}

	s.logger.Info("Supplier created", zap.Int64("supplier_id", sup.ID))
	return succeeded(SuppliersPath, "Supplier added successfully."), nil
}

// DeleteSupplier removes a supplier
func (s *CatalogService) DeleteSupplier(ctx context.Context, id int64) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "CatalogService.DeleteSupplier")
	defer span.End()
	defer func() { record("supplier", "delete", out, err) }()

	if err := s.store.DeleteSupplier(ctx, id); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(SuppliersPath, "Supplier %d still has products and cannot be deleted.", id), nil
		}
		return Outcome{}, fmt.Errorf("failed to delete supplier %d: %w", id, err)
	}

	s.logger.Info("Supplier deleted", zap.Int64("supplier_id", id))
	return succeeded(SuppliersPath, "Supplier %d deleted.", id), nil
}
