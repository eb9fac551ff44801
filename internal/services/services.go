// package services defines interface Catalog for interacting with the rental catalog HTTP API
package services

import (
	"context"

	"github.com/desertthunder/rentx/internal/models"
)

// Resource names a collection exposed by the catalog.
type Resource string

const (
	Movies    Resource = "movies"
	Customers Resource = "customers"
	Rentals   Resource = "rentals"
)

// Path returns the collection path, e.g. "/movies".
func (r Resource) Path() string {
	return "/" + string(r)
}

// Catalog is the remote rental catalog. It is authoritative for movies, customers, and rentals.
type Catalog interface {
	// ListMovies retrieves the movies in the rental library.
	ListMovies(ctx context.Context) ([]models.Movie, error)

	// SearchMovies queries the catalog's external movie search. Results are not yet in the library.
	SearchMovies(ctx context.Context, query string) ([]models.Movie, error)

	// ListCustomers retrieves all customers.
	ListCustomers(ctx context.Context) ([]models.Customer, error)

	// ListRentals retrieves all rentals.
	ListRentals(ctx context.Context) ([]models.Rental, error)

	// AddMovie adds a movie to the rental library.
	AddMovie(ctx context.Context, movie models.Movie) error

	// CheckOut creates a rental for the movie with the given title.
	CheckOut(ctx context.Context, title string, req models.CheckOutRequest) error

	// Return closes the rental for the movie with the given title.
	Return(ctx context.Context, title string, req models.ReturnRequest) error
}
