// package testing contains shared testing utilities
package testing

import (
	"context"
	"errors"
	"io"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/rentx/internal/models"
)

// Call records one request made against a [FakeCatalog].
type Call struct {
	Op    string
	Title string
	Body  any
}

// FakeCatalog is an in-memory test double for services.Catalog.
//
// Each error field, when set, is returned by the matching operation. Mutations are recorded in Calls.
type FakeCatalog struct {
	mu sync.Mutex

	Movies    []models.Movie
	Customers []models.Customer
	Rentals   []models.Rental
	Search    []models.Movie

	MoviesErr    error
	CustomersErr error
	RentalsErr   error
	SearchErr    error
	AddErr       error
	CheckOutErr  error
	ReturnErr    error

	// Gate, when non-nil, blocks every operation until it is closed.
	Gate chan struct{}

	calls []Call
}

func (f *FakeCatalog) wait(ctx context.Context) error {
	if f.Gate == nil {
		return nil
	}
	select {
	case <-f.Gate:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *FakeCatalog) record(c Call) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, c)
}

// Calls returns a copy of the recorded calls.
func (f *FakeCatalog) Calls() []Call {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Call(nil), f.calls...)
}

// CallCount returns how many calls named op were recorded.
func (f *FakeCatalog) CallCount(op string) int {
	n := 0
	for _, c := range f.Calls() {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (f *FakeCatalog) ListMovies(ctx context.Context) ([]models.Movie, error) {
	f.record(Call{Op: "ListMovies"})
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.MoviesErr != nil {
		return nil, f.MoviesErr
	}
	return append([]models.Movie(nil), f.Movies...), nil
}

func (f *FakeCatalog) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	f.record(Call{Op: "SearchMovies", Body: query})
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.SearchErr != nil {
		return nil, f.SearchErr
	}
	return append([]models.Movie(nil), f.Search...), nil
}

func (f *FakeCatalog) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	f.record(Call{Op: "ListCustomers"})
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.CustomersErr != nil {
		return nil, f.CustomersErr
	}
	return append([]models.Customer(nil), f.Customers...), nil
}

func (f *FakeCatalog) ListRentals(ctx context.Context) ([]models.Rental, error) {
	f.record(Call{Op: "ListRentals"})
	if err := f.wait(ctx); err != nil {
		return nil, err
	}
	if f.RentalsErr != nil {
		return nil, f.RentalsErr
	}
	return append([]models.Rental(nil), f.Rentals...), nil
}

func (f *FakeCatalog) AddMovie(ctx context.Context, movie models.Movie) error {
	f.record(Call{Op: "AddMovie", Title: movie.Title, Body: movie})
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.AddErr
}

func (f *FakeCatalog) CheckOut(ctx context.Context, title string, req models.CheckOutRequest) error {
	f.record(Call{Op: "CheckOut", Title: title, Body: req})
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.CheckOutErr
}

func (f *FakeCatalog) Return(ctx context.Context, title string, req models.ReturnRequest) error {
	f.record(Call{Op: "Return", Title: title, Body: req})
	if err := f.wait(ctx); err != nil {
		return err
	}
	return f.ReturnErr
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

var _ io.ReadCloser = (*FCloser)(nil)

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}
