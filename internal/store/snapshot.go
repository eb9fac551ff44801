package store

import (
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/services"
)

// Snapshot is an immutable copy of the store state.
type Snapshot struct {
	Movies        []models.Movie
	Customers     []models.Customer
	Rentals       []models.Rental
	SearchResults []models.Movie

	SelectedMovie    *models.Movie
	SelectedCustomer *models.Customer
	DetailsMovie     *models.Movie
	Notification     *Notification

	// LastError is the most recent catalog failure message, cleared by the next successful call.
	LastError string
	// LoadErrors holds the failure message of each collection whose last load failed.
	LoadErrors map[services.Resource]string
}

// HasSelection reports whether a movie or a customer is selected.
func (s Snapshot) HasSelection() bool {
	return s.SelectedMovie != nil || s.SelectedCustomer != nil
}

// CanCreateRental reports whether both a movie and a customer are selected.
func (s Snapshot) CanCreateRental() bool {
	return s.SelectedMovie != nil && s.SelectedCustomer != nil
}

// Movie looks up a cached movie by external identifier.
func (s Snapshot) Movie(externalID string) (models.Movie, bool) {
	for _, m := range s.Movies {
		if m.ExternalID == externalID {
			return m, true
		}
	}
	return models.Movie{}, false
}

// OpenRentals returns the rentals that have not been returned.
func (s Snapshot) OpenRentals() []models.Rental {
	open := make([]models.Rental, 0, len(s.Rentals))
	for _, r := range s.Rentals {
		if !r.Returned {
			open = append(open, r)
		}
	}
	return open
}

func clonePtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

func cloneSlice[T any](v []T) []T {
	if v == nil {
		return nil
	}
	return append(make([]T, 0, len(v)), v...)
}
