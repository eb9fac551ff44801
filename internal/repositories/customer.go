package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

const customerSelect = `
	SELECT c.id, c.name, c.phone,
		(SELECT COUNT(*) FROM rentals r WHERE r.customer_id = c.id AND r.returned_at IS NULL)
	FROM customers c
`

// CustomerRepository persists customers.
type CustomerRepository struct {
	db *sql.DB
}

// NewCustomerRepository creates a new CustomerRepository with the given database connection
func NewCustomerRepository(db *sql.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts customer and sets its ID.
func (r *CustomerRepository) Create(customer *models.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return fmt.Errorf("%w: customer name is required", shared.ErrInvalidInput)
	}

	result, err := r.db.Exec(`INSERT INTO customers (name, phone) VALUES (?, ?)`, customer.Name, customer.Phone)
	if err != nil {
		return fmt.Errorf("failed to insert customer: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get customer id: %w", err)
	}
	customer.ID = toID(id)
	return nil
}

// Get retrieves a customer by ID.
func (r *CustomerRepository) Get(id models.ID) (*models.Customer, error) {
	n, ok := rowID(id)
	if !ok {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}

	c, err := scanCustomer(r.db.QueryRow(customerSelect+` WHERE c.id = ?`, n))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: customer %s", shared.ErrNotFound, id)
	}
	return c, err
}

// List retrieves every customer in insertion order.
func (r *CustomerRepository) List() ([]models.Customer, error) {
	rows, err := r.db.Query(customerSelect + ` ORDER BY c.id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query customers: %w", err)
	}
	defer rows.Close()

	customers := []models.Customer{}
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			return nil, err
		}
		customers = append(customers, *c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return customers, nil
}

// Count returns the number of customers.
func (r *CustomerRepository) Count() (int, error) {
	var n int
	if err := r.db.QueryRow(`SELECT COUNT(*) FROM customers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count customers: %w", err)
	}
	return n, nil
}

func scanCustomer(s scanner) (*models.Customer, error) {
	var (
		id int64
		c  models.Customer
	)
	err := s.Scan(&id, &c.Name, &c.Phone, &c.MoviesCheckedOutCount)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan customer: %w", err)
	}
	c.ID = toID(id)
	return &c, nil
}
