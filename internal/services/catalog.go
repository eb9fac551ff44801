// Rental catalog implementation of [Catalog]
package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/desertthunder/rentx/internal/models"
)

// CatalogService implements [Catalog] over the REST API described by the backend:
//
//	GET  /movies                       list (or ?query= search)
//	POST /movies                       add
//	GET  /customers                    list
//	GET  /rentals                      list
//	POST /rentals/{title}/check-out    check out
//	POST /rentals/{title}/return       return
type CatalogService struct {
	api *APIService
}

var _ Catalog = (*CatalogService)(nil)

// NewCatalogService creates a catalog client for baseURL.
//
// A positive timeout bounds each request; zero leaves requests bounded only by their context.
func NewCatalogService(baseURL string, timeout time.Duration) *CatalogService {
	client := http.DefaultClient
	if timeout > 0 {
		client = &http.Client{Timeout: timeout}
	}
	return &CatalogService{api: NewAPIService(baseURL, client)}
}

// NewCatalogServiceWithAPI wraps an existing [APIService].
func NewCatalogServiceWithAPI(api *APIService) *CatalogService {
	return &CatalogService{api: api}
}

// BaseURL returns the catalog endpoint.
func (c *CatalogService) BaseURL() string {
	return c.api.BaseURL()
}

// ListMovies calls GET /movies.
func (c *CatalogService) ListMovies(ctx context.Context) ([]models.Movie, error) {
	body, err := c.get(ctx, Movies.Path())
	if err != nil {
		return nil, err
	}
	return models.DecodeMovies(body)
}

// SearchMovies calls GET /movies?query=...
func (c *CatalogService) SearchMovies(ctx context.Context, query string) ([]models.Movie, error) {
	body, err := c.get(ctx, Movies.Path()+"?query="+url.QueryEscape(query))
	if err != nil {
		return nil, err
	}
	return models.DecodeMovies(body)
}

// ListCustomers calls GET /customers.
func (c *CatalogService) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	body, err := c.get(ctx, Customers.Path())
	if err != nil {
		return nil, err
	}
	return models.DecodeCustomers(body)
}

// ListRentals calls GET /rentals.
func (c *CatalogService) ListRentals(ctx context.Context) ([]models.Rental, error) {
	body, err := c.get(ctx, Rentals.Path())
	if err != nil {
		return nil, err
	}
	return models.DecodeRentals(body)
}

// AddMovie calls POST /movies with the movie as the body.
func (c *CatalogService) AddMovie(ctx context.Context, movie models.Movie) error {
	return c.post(ctx, Movies.Path(), movie)
}

// CheckOut calls POST /rentals/{title}/check-out.
func (c *CatalogService) CheckOut(ctx context.Context, title string, req models.CheckOutRequest) error {
	return c.post(ctx, RentalPath(title, "check-out"), req)
}

// Return calls POST /rentals/{title}/return.
func (c *CatalogService) Return(ctx context.Context, title string, req models.ReturnRequest) error {
	return c.post(ctx, RentalPath(title, "return"), req)
}

// RentalPath builds the rental action path for a movie title, escaping the title as a single path segment.
func RentalPath(title, action string) string {
	return fmt.Sprintf("%s/%s/%s", Rentals.Path(), url.PathEscape(title), action)
}

func (c *CatalogService) get(ctx context.Context, path string) ([]byte, error) {
	resp, err := c.api.Get(ctx, path)
	if err != nil {
		return nil, wrapTransport(err)
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return resp.Body, nil
}

func (c *CatalogService) post(ctx context.Context, path string, payload any) error {
	resp, err := c.api.PostJSON(ctx, path, payload)
	if err != nil {
		return wrapTransport(err)
	}
	return resp.Err()
}
