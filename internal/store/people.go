package store

import (
	"context"

	"shop-admin/internal/models"
)

// ListCustomers retrieves all customers ordered by id
func (s *Store) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	customers := []models.Customer{}
	err := s.db.SelectContext(ctx, &customers, `
		SELECT customer_id, first_name, last_name,
		       COALESCE(email, '') AS email,
		       COALESCE(phone_number, '') AS phone_number,
		       COALESCE(street, '') AS street,
		       COALESCE(city, '') AS city,
		       COALESCE(state, '') AS state,
		       COALESCE(zip, '') AS zip
		FROM customer
		ORDER BY customer_id`)
	return customers, err
}

// CreateCustomer inserts a customer and sets its id
func (s *Store) CreateCustomer(ctx context.Context, c *models.Customer) error {
	query := `
		INSERT INTO customer (first_name, last_name, email, phone_number, street, city, state, zip)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING customer_id`

	err := s.db.GetContext(ctx, &c.ID, query,
		c.FirstName, c.LastName,
		nullString(c.Email), nullString(c.PhoneNumber),
		nullString(c.Street), nullString(c.City), nullString(c.State), nullString(c.Zip))
	return mapError(err)
}

// DeleteCustomer removes a customer. A customer with orders cannot be
// deleted and yields ErrInvalidReference.
func (s *Store) DeleteCustomer(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM customer WHERE customer_id = $1", id)
	return mapError(err)
}

// CustomerOptions returns id and full name of every customer
func (s *Store) CustomerOptions(ctx context.Context) ([]models.Option, error) {
	options := []models.Option{}
	err := s.db.SelectContext(ctx, &options, `
		SELECT customer_id AS id, first_name || ' ' || last_name AS name
		FROM customer
		ORDER BY customer_id`)
	return options, err
}

// ListEmployees retrieves all employees ordered by id
func (s *Store) ListEmployees(ctx context.Context) ([]models.Employee, error) {
	employees := []models.Employee{}
	err := s.db.SelectContext(ctx, &employees, `
		SELECT employee_id, first_name, last_name, COALESCE(position, '') AS position, hire_date
		FROM employee
		ORDER BY employee_id`)
	return employees, err
}

// CreateEmployee inserts an employee and sets its id
func (s *Store) CreateEmployee(ctx context.Context, e *models.Employee) error {
	query := `
		INSERT INTO employee (first_name, last_name, position, hire_date)
		VALUES ($1, $2, $3, $4)
		RETURNING employee_id`

	err := s.db.GetContext(ctx, &e.ID, query,
		e.FirstName, e.LastName, nullString(e.Position), e.HireDate)
	return mapError(err)
}

// DeleteEmployee removes an employee. Deleting a missing id is not an error.
func (s *Store) DeleteEmployee(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM employee WHERE employee_id = $1", id)
	return mapError(err)
}

// EmployeeOptions returns id and full name of every employee
func (s *Store) EmployeeOptions(ctx context.Context) ([]models.Option, error) {
	options := []models.Option{}
	err := s.db.SelectContext(ctx, &options, `
		SELECT employee_id AS id, first_name || ' ' || last_name AS name
		FROM employee
		ORDER BY employee_id`)
	return options, err
}
