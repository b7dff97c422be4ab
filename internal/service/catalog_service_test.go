package service

import (
	"context"
	"errors"
	"testing"

	"shop-admin/internal/models"
	"shop-admin/internal/store/storetest"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddProduct(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name    string
		form    ProductForm
		message string
		added   bool
	}{
		{
			name:    "valid with defaults",
			form:    ProductForm{Name: "Widget"},
			message: "Product added successfully.",
			added:   true,
		},
		{
			name:    "missing name",
			form:    ProductForm{Name: "  ", Cost: "1.00"},
			message: "Product name is required.",
		},
		{
			name:    "non-integer stock",
			form:    ProductForm{Name: "Widget", StockQuantity: "lots"},
			message: "Stock quantity must be an integer.",
		},
		{
			name:    "negative stock",
			form:    ProductForm{Name: "Widget", StockQuantity: "-1"},
			message: "Stock quantity cannot be negative.",
		},
		{
			name:    "non-numeric cost",
			form:    ProductForm{Name: "Widget", Cost: "cheap"},
			message: "Cost must be a number.",
		},
		{
			name:    "unknown supplier",
			form:    ProductForm{Name: "Widget", SupplierID: "42"},
			message: "Selected supplier does not exist.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mem := storetest.NewMemory()
			svc := NewCatalogService(mem)

			out, err := svc.AddProduct(ctx, tt.form)
			require.NoError(t, err)
			assert.Equal(t, ProductsPath, out.Redirect)
			assert.Equal(t, tt.message, out.Notice.Message)
			assert.Equal(t, !tt.added, out.Rejected())

			products, err := mem.ListProducts(ctx)
			require.NoError(t, err)
			if tt.added {
				assert.Len(t, products, 1)
			} else {
				assert.Empty(t, products)
			}
		})
	}
}

func TestAddProductStoresFields(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem)

	_, err := svc.AddSupplier(ctx, SupplierForm{Name: "Acme"})
	require.NoError(t, err)
	suppliers, err := mem.ListSuppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)

	out, err := svc.AddProduct(ctx, ProductForm{
		Name:          " Widget ",
		Category:      "tools",
		StockQuantity: "7",
		Cost:          "9.99",
		SupplierID:    "1",
	})
	require.NoError(t, err)
	assert.False(t, out.Rejected())

	page, err := svc.Products(ctx)
	require.NoError(t, err)
	require.Len(t, page.Products, 1)
	p := page.Products[0]
	assert.Equal(t, "Widget", p.Name)
	assert.Equal(t, "tools", p.Category)
	assert.Equal(t, 7, p.StockQuantity)
	assert.True(t, p.Cost.Equal(decimal.RequireFromString("9.99")))
	require.NotNil(t, p.SupplierID)
	assert.Equal(t, suppliers[0].ID, *p.SupplierID)
	assert.Len(t, page.Suppliers, 1)
}

func TestDeleteProduct(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem)

	keep := &models.Product{Name: "Keep"}
	drop := &models.Product{Name: "Drop"}
	require.NoError(t, mem.CreateProduct(ctx, keep))
	require.NoError(t, mem.CreateProduct(ctx, drop))

	out, err := svc.DeleteProduct(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, Outcome{Redirect: ProductsPath, Notice: Notice{Level: LevelSuccess, Message: "Product 2 deleted."}}, out)

	products, err := mem.ListProducts(ctx)
	require.NoError(t, err)
	require.Len(t, products, 1)
	assert.Equal(t, keep.ID, products[0].ID)

	// Deleting a missing id looks the same as success
	out, err = svc.DeleteProduct(ctx, 999)
	require.NoError(t, err)
	assert.False(t, out.Rejected())
	assert.Equal(t, "Product 999 deleted.", out.Notice.Message)
}

func TestDeleteProductOnOrder(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem)

	customer := &models.Customer{FirstName: "Ada", LastName: "Lovelace"}
	require.NoError(t, mem.CreateCustomer(ctx, customer))
	product := &models.Product{Name: "Widget", Cost: decimal.NewFromInt(1)}
	require.NoError(t, mem.CreateProduct(ctx, product))
	order := &models.Order{CustomerID: customer.ID}
	require.NoError(t, mem.CreateOrder(ctx, order))
	_, _, err := mem.AddOrderLine(ctx, order.ID, product.ID, 1)
	require.NoError(t, err)

	out, err := svc.DeleteProduct(ctx, product.ID)
	require.NoError(t, err)
	assert.True(t, out.Rejected())
	assert.Contains(t, out.Notice.Message, "is on existing orders")
}

func TestSuppliers(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	svc := NewCatalogService(mem)

	out, err := svc.AddSupplier(ctx, SupplierForm{})
	require.NoError(t, err)
	assert.Equal(t, "Supplier name is required.", out.Notice.Message)
	assert.True(t, out.Rejected())

	out, err = svc.AddSupplier(ctx, SupplierForm{Name: "Acme", PhoneNumber: "555-0100"})
	require.NoError(t, err)
	assert.Equal(t, "Supplier added successfully.", out.Notice.Message)

	suppliers, err := svc.Suppliers(ctx)
	require.NoError(t, err)
	require.Len(t, suppliers, 1)
	assert.Equal(t, "555-0100", suppliers[0].PhoneNumber)

	out, err = svc.DeleteSupplier(ctx, suppliers[0].ID)
	require.NoError(t, err)
	assert.Equal(t, SuppliersPath, out.Redirect)

	suppliers, err = svc.Suppliers(ctx)
	require.NoError(t, err)
	assert.Empty(t, suppliers)
}

func TestCatalogStoreFailure(t *testing.T) {
	ctx := context.Background()
	mem := storetest.NewMemory()
	mem.Err = errors.New("connection refused")
	svc := NewCatalogService(mem)

	_, err := svc.Products(ctx)
	assert.ErrorIs(t, err, mem.Err)

	_, err = svc.AddProduct(ctx, ProductForm{Name: "Widget"})
	assert.ErrorIs(t, err, mem.Err)

	_, err = svc.DeleteSupplier(ctx, 1)
	assert.ErrorIs(t, err, mem.Err)
}
