package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/rentx/internal/formatter"
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/desertthunder/rentx/internal/store"
	"github.com/urfave/cli/v3"
)

// Movies lists library movies, optionally fuzzy-filtered, or searches the external catalog with --search.
func (r *Runner) Movies(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	st := r.newStore()
	var movies []models.Movie

	if query := cmd.String("search"); query != "" {
		if movies, err = st.SearchMovies(ctx, query); err != nil {
			return err
		}
	} else {
		if err := st.Refresh(ctx, services.Movies); err != nil {
			return err
		}
		movies = st.FilterMovies(cmd.String("filter"))
	}

	data, err := formatter.FormatMovies(movies, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// MoviesAdd adds a movie to the library unless it is already there.
func (r *Runner) MoviesAdd(ctx context.Context, cmd *cli.Command) error {
	movie := models.Movie{
		ExternalID:  cmd.String("external-id"),
		Title:       cmd.String("title"),
		Overview:    cmd.String("overview"),
		ReleaseDate: cmd.String("release-date"),
		ImageURL:    cmd.String("image-url"),
	}

	st := r.newStore()
	if err := st.Refresh(ctx, services.Movies); err != nil {
		return err
	}

	err := st.AddMovieToLibrary(ctx, movie)
	r.report(st.Snapshot())
	return err
}

// Customers lists customers.
func (r *Runner) Customers(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	st := r.newStore()
	if err := st.Refresh(ctx, services.Customers); err != nil {
		return err
	}

	data, err := formatter.FormatCustomers(st.Snapshot().Customers, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Rentals lists rentals; --overdue keeps only checked-out rentals past due.
func (r *Runner) Rentals(ctx context.Context, cmd *cli.Command) error {
	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	st := r.newStore()
	if err := st.Refresh(ctx, services.Rentals); err != nil {
		return err
	}

	now := r.clock()
	rentals := st.Snapshot().Rentals
	if cmd.Bool("overdue") {
		overdue := make([]models.Rental, 0, len(rentals))
		for _, rental := range rentals {
			if rental.Overdue(now) {
				overdue = append(overdue, rental)
			}
		}
		rentals = overdue
	}

	data, err := formatter.FormatRentals(rentals, now, format)
	if err != nil {
		return err
	}
	return r.emit(cmd, data)
}

// Checkout selects the movie and customer and creates a rental due tomorrow.
func (r *Runner) Checkout(ctx context.Context, cmd *cli.Command) error {
	st, err := r.loadSelectable(ctx)
	if err != nil {
		return err
	}

	movieID, customerID := cmd.String("movie"), models.ID(cmd.String("customer"))
	if !st.SelectMovie(movieID) {
		return fmt.Errorf("%w: movie %q is not in the library", shared.ErrNotFound, movieID)
	}
	if !st.SelectCustomer(customerID) {
		return fmt.Errorf("%w: customer %q", shared.ErrNotFound, customerID)
	}

	err = st.CreateRental(ctx)
	r.report(st.Snapshot())
	return err
}

// Return returns the movie on behalf of the customer.
func (r *Runner) Return(ctx context.Context, cmd *cli.Command) error {
	st, err := r.loadSelectable(ctx)
	if err != nil {
		return err
	}

	snap := st.Snapshot()
	movieID, customerID := cmd.String("movie"), models.ID(cmd.String("customer"))

	movie, ok := snap.Movie(movieID)
	if !ok {
		return fmt.Errorf("%w: movie %q is not in the library", shared.ErrNotFound, movieID)
	}

	var customer *models.Customer
	for _, c := range snap.Customers {
		if c.ID == customerID {
			customer = &c
			break
		}
	}
	if customer == nil {
		return fmt.Errorf("%w: customer %q", shared.ErrNotFound, customerID)
	}

	err = st.ReturnRental(ctx, movie, *customer)
	r.report(st.Snapshot())
	return err
}

// loadSelectable creates a store with movies and customers loaded, the two collections a selection draws from.
func (r *Runner) loadSelectable(ctx context.Context) (*store.Store, error) {
	st := r.newStore()
	for _, res := range []services.Resource{services.Movies, services.Customers} {
		if err := st.Refresh(ctx, res); err != nil {
			return nil, err
		}
	}
	return st, nil
}
