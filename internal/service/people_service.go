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

// PeopleStore is the persistence PeopleService needs
type PeopleStore interface {
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	CreateCustomer(ctx context.Context, c *models.Customer) error
	DeleteCustomer(ctx context.Context, id int64) error
	ListEmployees(ctx context.Context) ([]models.Employee, error)
	CreateEmployee(ctx context.Context, e *models.Employee) error
	DeleteEmployee(ctx context.Context, id int64) error
}

// PeopleService handles customers and employees
type PeopleService struct {
	store  PeopleStore
	logger *zap.Logger
}

// NewPeopleService creates a new people service
func NewPeopleService(store PeopleStore) *PeopleService {
	return &PeopleService{
		store:  store,
		logger: util.GetLogger(),
	}
}

// CustomerForm is the customer add form
type CustomerForm struct {
	FirstName   string `form:"first_name"`
	LastName    string `form:"last_name"`
	Email       string `form:"email"`
	PhoneNumber string `form:"phone_number"`
	Street      string `form:"street"`
	City        string `form:"city"`
	State       string `form:"state"`
	Zip         string `form:"zip"`
}

// Customers lists all customers
func (s *PeopleService) Customers(ctx context.Context) ([]models.Customer, error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.Customers")
	defer span.End()

	customers, err := s.store.ListCustomers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	return customers, nil
}

// AddCustomer validates the form and inserts a customer
func (s *PeopleService) AddCustomer(ctx context.Context, form CustomerForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.AddCustomer")
	defer span.End()
	defer func() { record("customer", "add", out, err) }()

	trim(&form.FirstName, &form.LastName, &form.Email, &form.PhoneNumber,
		&form.Street, &form.City, &form.State, &form.Zip)
	if form.FirstName == "" || form.LastName == "" {
		return rejected(CustomersPath, "First name and last name are required."), nil
	}

	c := &models.Customer{
		FirstName:   form.FirstName,
		LastName:    form.LastName,
		Email:       form.Email,
		PhoneNumber: form.PhoneNumber,
		Street:      form.Street,
		City:        form.City,
		State:       form.State,
		Zip:         form.Zip,
	}
	if err := s.store.CreateCustomer(ctx, c); err != nil {
		return Outcome{}, fmt.Errorf("failed to create customer: %w", err)
	}

	s.logger.Info("Customer created", zap.Int64("customer_id", c.ID))
	return succeeded(CustomersPath, "Customer added successfully."), nil
}

// DeleteCustomer removes a customer. Customers with orders are kept.
func (s *PeopleService) DeleteCustomer(ctx context.Context, id int64) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.DeleteCustomer")
	defer span.End()
	defer func() { record("customer", "delete", out, err) }()

	if err := s.store.DeleteCustomer(ctx, id); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(CustomersPath, "Customer %d has orders and cannot be deleted.", id), nil
		}
		return Outcome{}, fmt.Errorf("failed to delete customer %d: %w", id, err)
	}

	s.logger.Info("Customer deleted", zap.Int64("customer_id", id))
	return succeeded(CustomersPath, "Customer %d deleted.", id), nil
}

// EmployeeForm is the employee add form
type EmployeeForm struct {
	FirstName string `form:"first_name"`
	LastName  string `form:"last_name"`
	Position  string `form:"position"`
	HireDate  string `form:"hire_date"`
}

// Employees lists all employees
func (s *PeopleService) Employees(ctx context.Context) ([]models.Employee, error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.Employees")
	defer span.End()

	employees, err := s.store.ListEmployees(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list employees: %w", err)
	}
	return employees, nil
}

// AddEmployee validates the form and inserts an employee
func (s *PeopleService) AddEmployee(ctx context.Context, form EmployeeForm) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.AddEmployee")
	defer span.End()
	defer func() { record("employee", "add", out, err) }()

	trim(&form.FirstName, &form.LastName, &form.Position, &form.HireDate)
	if form.FirstName == "" || form.LastName == "" || form.HireDate == "" {
		return rejected(EmployeesPath, "First name, last name, and hire date are required."), nil
	}

	hired, err := parseDate(form.HireDate, "Hire date must be a date (YYYY-MM-DD).")
	if err != nil {
		out, _ = asRejection(EmployeesPath, err)
		return out, nil
	}

	e := &models.Employee{
		FirstName: form.FirstName,
		LastName:  form.LastName,
		Position:  form.Position,
		HireDate:  hired,
	}
	if err := s.store.CreateEmployee(ctx, e); err != nil {
		return Outcome{}, fmt.Errorf("failed to create employee: %w", err)
	}

	s.logger.Info("Employee created", zap.Int64("employee_id", e.ID))
	return succeeded(EmployeesPath, "Employee added successfully."), nil
}

// DeleteEmployee removes an employee
func (s *PeopleService) DeleteEmployee(ctx context.Context, id int64) (out Outcome, err error) {
	ctx, span := util.StartSpan(ctx, "PeopleService.DeleteEmployee")
	defer span.End()
	defer func() { record("employee", "delete", out, err) }()

	if err := s.store.DeleteEmployee(ctx, id); err != nil {
		if errors.Is(err, store.ErrInvalidReference) {
			return rejected(EmployeesPath, "Employee %d is still referenced and cannot be deleted.", id), nil
		}
		return Outcome{}, fmt.Errorf("failed to delete employee %d: %w", id, err)
	}

	s.logger.Info("Employee deleted", zap.Int64("employee_id", id))
	return succeeded(EmployeesPath, "Employee %d deleted.", id), nil
}
