package store

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"golang.org/x/sync/errgroup"
)

// subscriberBuffer is how many snapshots a subscriber may lag behind before intermediate ones are dropped.
const subscriberBuffer = 16

// Store is the selection state machine. The zero value is not usable; create one with [New].
type Store struct {
	catalog services.Catalog
	logger  *log.Logger
	now     func() time.Time

	mu               sync.Mutex
	movies           []models.Movie
	customers        []models.Customer
	rentals          []models.Rental
	searchResults    []models.Movie
	selectedMovie    *models.Movie
	selectedCustomer *models.Customer
	detailsMovie     *models.Movie
	notification     *Notification
	lastError        string
	loadErrors       map[services.Resource]string

	subs    map[int]chan Snapshot
	nextSub int
}

// Options contains the dependencies of a [Store].
type Options struct {
	Catalog services.Catalog
	Logger  *log.Logger
	// Clock returns the current time; defaults to [time.Now].
	Clock func() time.Time
}

// New creates an empty store backed by the given catalog.
func New(opts Options) *Store {
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Clock == nil {
		opts.Clock = time.Now
	}

	return &Store{
		catalog:    opts.Catalog,
		logger:     shared.WithLogger(opts.Logger, "component", "store"),
		now:        opts.Clock,
		loadErrors: map[services.Resource]string{},
		subs:       map[int]chan Snapshot{},
	}
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() Snapshot {
	return Snapshot{
		Movies:           cloneSlice(s.movies),
		Customers:        cloneSlice(s.customers),
		Rentals:          cloneSlice(s.rentals),
		SearchResults:    cloneSlice(s.searchResults),
		SelectedMovie:    clonePtr(s.selectedMovie),
		SelectedCustomer: clonePtr(s.selectedCustomer),
		DetailsMovie:     clonePtr(s.detailsMovie),
		Notification:     clonePtr(s.notification),
		LastError:        s.lastError,
		LoadErrors:       maps.Clone(s.loadErrors),
	}
}

// Subscribe returns a channel that receives a snapshot after every state change, and a func that
// unsubscribes and closes the channel.
//
// Delivery never blocks the store: a subscriber that falls behind misses intermediate snapshots.
func (s *Store) Subscribe() (<-chan Snapshot, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++
	ch := make(chan Snapshot, subscriberBuffer)
	s.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs, id)
			close(ch)
		})
	}
	return ch, cancel
}

// update applies fn under the lock and publishes the resulting snapshot.
func (s *Store) update(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()

	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, ch := range s.subs {
		select {
		case ch <- snap:
		default:
		}
	}
}

// Initialize loads movies, customers, and rentals concurrently.
//
// Each load is applied independently as it completes. A failed load is recorded in
// [Snapshot.LoadErrors] and does not set a notification. The returned error joins all load failures.
func (s *Store) Initialize(ctx context.Context) error {
	resources := []services.Resource{services.Movies, services.Customers, services.Rentals}
	errs := make([]error, len(resources))

	var g errgroup.Group
	for i, r := range resources {
		g.Go(func() error {
			errs[i] = s.Refresh(ctx, r)
			return nil
		})
	}
	g.Wait()

	return errors.Join(errs...)
}

// Refresh reloads a single collection from the catalog, replacing the cached copy on success.
func (s *Store) Refresh(ctx context.Context, r services.Resource) error {
	var (
		movies    []models.Movie
		customers []models.Customer
		rentals   []models.Rental
		err       error
	)

	switch r {
	case services.Movies:
		movies, err = s.catalog.ListMovies(ctx)
	case services.Customers:
		customers, err = s.catalog.ListCustomers(ctx)
	case services.Rentals:
		rentals, err = s.catalog.ListRentals(ctx)
	default:
		return fmt.Errorf("%w: unknown resource %q", shared.ErrInvalidArgument, r)
	}

	if err != nil {
		s.logger.Warn("load failed", "resource", r, "err", err)
		s.update(func() {
			s.lastError = err.Error()
			s.loadErrors[r] = err.Error()
		})
		return fmt.Errorf("load %s: %w", r, err)
	}

	s.update(func() {
		switch r {
		case services.Movies:
			s.movies = movies
		case services.Customers:
			s.customers = customers
		case services.Rentals:
			s.rentals = rentals
		}
		s.lastError = ""
		delete(s.loadErrors, r)
	})
	s.logger.Debug("loaded", "resource", r, "count", len(movies)+len(customers)+len(rentals))
	return nil
}

// AddMovieToLibrary adds movie to the catalog unless a movie with the same external identifier is already cached.
//
// The duplicate check only sees this session's cache; the backend remains the authority.
func (s *Store) AddMovieToLibrary(ctx context.Context, movie models.Movie) error {
	if err := movie.Validate(); err != nil {
		s.update(func() { s.notification = failure(msgMovieInvalid + err.Error()) })
		return err
	}

	var duplicate bool
	s.update(func() {
		if duplicate = s.hasMovieLocked(movie.ExternalID); duplicate {
			s.notification = failure(msgMovieDuplicate)
		}
	})
	if duplicate {
		s.logger.Info("duplicate movie rejected", "external_id", movie.ExternalID)
		return fmt.Errorf("%w: %s", shared.ErrDuplicateMovie, movie.ExternalID)
	}

	if err := s.catalog.AddMovie(ctx, movie); err != nil {
		s.logger.Warn("add movie failed", "external_id", movie.ExternalID, "err", err)
		s.update(func() {
			s.lastError = err.Error()
			s.notification = failure(err.Error())
		})
		return err
	}

	s.update(func() {
		if !s.hasMovieLocked(movie.ExternalID) {
			s.movies = append(s.movies, movie)
		}
		s.notification = success(msgMovieAdded)
	})
	s.logger.Info("movie added", "external_id", movie.ExternalID, "title", movie.Title)
	return nil
}

func (s *Store) hasMovieLocked(externalID string) bool {
	for _, m := range s.movies {
		if m.ExternalID == externalID {
			return true
		}
	}
	return false
}

// SelectMovie selects the cached movie with the given external identifier.
//
// Reports whether it was found; a miss leaves the current selection unchanged.
func (s *Store) SelectMovie(externalID string) bool {
	var found bool
	s.update(func() {
		for _, m := range s.movies {
			if m.ExternalID == externalID {
				s.selectedMovie = &m
				found = true
				return
			}
		}
	})
	return found
}

// SelectCustomer selects the cached customer with the given identifier.
//
// Reports whether it was found; a miss leaves the current selection unchanged.
func (s *Store) SelectCustomer(id models.ID) bool {
	var found bool
	s.update(func() {
		for _, c := range s.customers {
			if c.ID == id {
				s.selectedCustomer = &c
				found = true
				return
			}
		}
	})
	return found
}

// ClearSelection deselects both the movie and the customer.
func (s *Store) ClearSelection() {
	s.update(func() {
		s.selectedMovie = nil
		s.selectedCustomer = nil
	})
}

// CreateRental checks out the selected movie to the selected customer, due one day from now.
//
// Both selections are required; otherwise no request is made. On success both selections are cleared;
// on failure they are left untouched.
func (s *Store) CreateRental(ctx context.Context) error {
	var (
		movie    *models.Movie
		customer *models.Customer
		due      time.Time
	)
	s.update(func() {
		movie, customer = clonePtr(s.selectedMovie), clonePtr(s.selectedCustomer)
		if movie == nil || customer == nil {
			s.notification = failure(msgSelectionMissing)
			return
		}
		due = s.now().AddDate(0, 0, 1)
	})
	if movie == nil || customer == nil {
		return shared.ErrSelectionIncomplete
	}

	req := models.CheckOutRequest{CustomerID: customer.ID, DueDate: models.FormatDueDate(due)}
	if err := s.catalog.CheckOut(ctx, movie.Title, req); err != nil {
		s.logger.Warn("check-out failed", "title", movie.Title, "customer", customer.ID, "err", err)
		s.update(func() {
			s.lastError = err.Error()
			s.notification = failure(msgErrorPrefix + err.Error())
		})
		return err
	}

	s.update(func() {
		s.selectedMovie = nil
		s.selectedCustomer = nil
		s.lastError = ""
		s.notification = success(msgRentalCreated)
	})
	s.logger.Info("rental created", "title", movie.Title, "customer", customer.ID, "due", req.DueDate)
	return nil
}

// ReturnRental returns movie on behalf of customer.
//
// No local check is made that the pair has an open rental. On success both selections are cleared.
func (s *Store) ReturnRental(ctx context.Context, movie models.Movie, customer models.Customer) error {
	req := models.ReturnRequest{CustomerID: customer.ID, MovieID: movie.ID}
	if err := s.catalog.Return(ctx, movie.Title, req); err != nil {
		s.logger.Warn("return failed", "title", movie.Title, "customer", customer.ID, "err", err)
		s.update(func() {
			s.lastError = err.Error()
			s.notification = failure(msgErrorPrefix + err.Error())
		})
		return err
	}

	s.update(func() {
		s.selectedMovie = nil
		s.selectedCustomer = nil
		s.lastError = ""
		s.notification = success(msgRentalReturned)
	})
	s.logger.Info("rental returned", "title", movie.Title, "customer", customer.ID)
	return nil
}

// SearchMovies runs an external catalog search and keeps the results for display.
//
// Results are candidates for [Store.AddMovieToLibrary]; they do not join the cached library.
func (s *Store) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	results, err := s.catalog.SearchMovies(ctx, query)
	if err != nil {
		s.logger.Warn("search failed", "query", query, "err", err)
		s.update(func() {
			s.lastError = err.Error()
			s.notification = failure(msgErrorPrefix + err.Error())
		})
		return nil, err
	}

	s.update(func() {
		s.searchResults = results
		s.lastError = ""
	})
	return cloneSlice(results), nil
}

// ToggleDetails closes the detail slot if it already shows externalID, otherwise opens it for that movie.
//
// Opening an unknown identifier leaves the slot empty.
func (s *Store) ToggleDetails(externalID string) {
	s.update(func() {
		if s.detailsMovie != nil && s.detailsMovie.ExternalID == externalID {
			s.detailsMovie = nil
			return
		}
		s.detailsMovie = nil
		for _, m := range append(cloneSlice(s.movies), s.searchResults...) {
			if m.ExternalID == externalID {
				s.detailsMovie = &m
				return
			}
		}
	})
}

// DismissNotification clears the active notification.
func (s *Store) DismissNotification() {
	s.update(func() { s.notification = nil })
}
