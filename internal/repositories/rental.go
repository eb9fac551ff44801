package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

// RentalRepository records check-outs and returns.
type RentalRepository struct {
	db *sql.DB
}

// NewRentalRepository creates a new RentalRepository with the given database connection
func NewRentalRepository(db *sql.DB) *RentalRepository {
	return &RentalRepository{db: db}
}

// CheckOut opens a rental of movieID for customerID.
//
// Returns [shared.ErrConflict] when the customer already has that movie checked out.
func (r *RentalRepository) CheckOut(movieID, customerID models.ID, checkout, due time.Time) (*models.Rental, error) {
	movie, okMovie := rowID(movieID)
	customer, okCustomer := rowID(customerID)
	if !okMovie || !okCustomer {
		return nil, fmt.Errorf("%w: movie %s or customer %s", shared.ErrNotFound, movieID, customerID)
	}

	tx, err := r.db.Begin()
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var open int
	err = tx.QueryRow(
		`SELECT COUNT(*) FROM rentals WHERE movie_id = ? AND customer_id = ? AND returned_at IS NULL`,
		movie, customer,
	).Scan(&open)
	if err != nil {
		return nil, fmt.Errorf("failed to check open rentals: %w", err)
	}
	if open > 0 {
		return nil, fmt.Errorf("%w: customer %s already has movie %s checked out", shared.ErrConflict, customerID, movieID)
	}

	id := shared.GenerateID()
	_, err = tx.Exec(
		`INSERT INTO rentals (id, movie_id, customer_id, checkout_date, due_date) VALUES (?, ?, ?, ?, ?)`,
		id, movie, customer, checkout.UTC(), due.UTC(),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert rental: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit rental: %w", err)
	}

	return &models.Rental{
		ID:           models.ID(id),
		MovieID:      movieID,
		CustomerID:   customerID,
		CheckoutDate: models.Timestamp{Time: checkout.UTC()},
		DueDate:      models.Timestamp{Time: due.UTC()},
	}, nil
}

// Return closes the open rental of movieID held by customerID.
//
// Returns [shared.ErrNotFound] when no such rental is open.
func (r *RentalRepository) Return(movieID, customerID models.ID, at time.Time) error {
	movie, okMovie := rowID(movieID)
	customer, okCustomer := rowID(customerID)
	if !okMovie || !okCustomer {
		return fmt.Errorf("%w: no open rental of movie %s for customer %s", shared.ErrNotFound, movieID, customerID)
	}

	query := `
		UPDATE rentals
		SET returned_at = ?
		WHERE movie_id = ? AND customer_id = ? AND returned_at IS NULL
	`

	result, err := r.db.Exec(query, at.UTC(), movie, customer)
	if err != nil {
		return fmt.Errorf("failed to return rental: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("%w: no open rental of movie %s for customer %s", shared.ErrNotFound, movieID, customerID)
	}
	return nil
}

// List retrieves every rental with its movie title and customer name, oldest first.
func (r *RentalRepository) List() ([]models.Rental, error) {
	query := `
		SELECT r.id, r.movie_id, r.customer_id, m.title, c.name, r.checkout_date, r.due_date, r.returned_at
		FROM rentals r
		JOIN movies m ON m.id = r.movie_id
		JOIN customers c ON c.id = r.customer_id
		ORDER BY r.checkout_date ASC, r.id ASC
	`

	rows, err := r.db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to query rentals: %w", err)
	}
	defer rows.Close()

	rentals := []models.Rental{}
	for rows.Next() {
		var (
			id         string
			movieID    int64
			customerID int64
			rental     models.Rental
			checkout   time.Time
			due        time.Time
			returnedAt sql.NullTime
		)
		if err := rows.Scan(&id, &movieID, &customerID, &rental.Title, &rental.Name, &checkout, &due, &returnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan rental: %w", err)
		}

		rental.ID = models.ID(id)
		rental.MovieID = toID(movieID)
		rental.CustomerID = toID(customerID)
		rental.CheckoutDate = models.Timestamp{Time: checkout}
		rental.DueDate = models.Timestamp{Time: due}
		rental.Returned = returnedAt.Valid
		rentals = append(rentals, rental)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return rentals, nil
}
