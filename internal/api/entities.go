package api

import (
	"shop-admin/internal/service"

	"github.com/gin-gonic/gin"
)

func (h *Handler) listProducts(c *gin.Context) {
	page, err := h.catalog.Products(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "products", "Products", page)
}

func (h *Handler) addProduct(c *gin.Context) {
	var form service.ProductForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.catalog.AddProduct(c.Request.Context(), form)
	h.finish(c, out, err)
}

func (h *Handler) deleteProduct(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.catalog.DeleteProduct(c.Request.Context(), id)
	h.finish(c, out, err)
}

func (h *Handler) listSuppliers(c *gin.Context) {
	suppliers, err := h.catalog.Suppliers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "suppliers", "Suppliers", suppliers)
}

func (h *Handler) addSupplier(c *gin.Context) {
	var form service.SupplierForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.catalog.AddSupplier(c.Request.Context(), form)
	h.finish(c, out, err)
}

func (h *Handler) deleteSupplier(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.catalog.DeleteSupplier(c.Request.Context(), id)
	h.finish(c, out, err)
}

func (h *Handler) listCustomers(c *gin.Context) {
	customers, err := h.people.Customers(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "customers", "Customers", customers)
}

func (h *Handler) addCustomer(c *gin.Context) {
	var form service.CustomerForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.people.AddCustomer(c.Request.Context(), form)
	h.finish(c, out, err)
}

func (h *Handler) deleteCustomer(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.people.DeleteCustomer(c.Request.Context(), id)
	h.finish(c, out, err)
}

func (h *Handler) listEmployees(c *gin.Context) {
	employees, err := h.people.Employees(c.Request.Context())
	if err != nil {
		h.fail(c, err)
		return
	}
	h.render(c, "employees", "Employees", employees)
}

func (h *Handler) addEmployee(c *gin.Context) {
	var form service.EmployeeForm
	if !h.bind(c, &form) {
		return
	}
	out, err := h.people.AddEmployee(c.Request.Context(), form)
	h.finish(c, out, err)
}

func (h *Handler) deleteEmployee(c *gin.Context) {
	id, ok := h.pathID(c)
	if !ok {
		return
	}
	out, err := h.people.DeleteEmployee(c.Request.Context(), id)
	h.finish(c, out, err)
}
