package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/repositories"
	"github.com/desertthunder/rentx/internal/shared"
)

// maxBodyBytes caps request bodies accepted by [CatalogHandler].
const maxBodyBytes = 1 << 20

// CatalogHandler serves the rental catalog REST API over the sqlite repositories.
type CatalogHandler struct {
	movies     *repositories.MovieRepository
	candidates *repositories.CandidateRepository
	customers  *repositories.CustomerRepository
	rentals    *repositories.RentalRepository
	logger     *log.Logger
	now        func() time.Time
	mux        *http.ServeMux
}

// NewCatalogHandler creates a handler backed by db. A nil now defaults to [time.Now].
func NewCatalogHandler(db *sql.DB, logger *log.Logger, now func() time.Time) *CatalogHandler {
	if now == nil {
		now = time.Now
	}

	h := &CatalogHandler{
		movies:     repositories.NewMovieRepository(db),
		candidates: repositories.NewCandidateRepository(db),
		customers:  repositories.NewCustomerRepository(db),
		rentals:    repositories.NewRentalRepository(db),
		logger:     logger,
		now:        now,
		mux:        http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /movies", h.listMovies)
	h.mux.HandleFunc("POST /movies", h.createMovie)
	h.mux.HandleFunc("GET /customers", h.listCustomers)
	h.mux.HandleFunc("GET /rentals", h.listRentals)
	h.mux.HandleFunc("POST /rentals/{title}/check-out", h.checkOut)
	h.mux.HandleFunc("POST /rentals/{title}/return", h.returnRental)
	return h
}

// Routes implements [Handler].
func (h *CatalogHandler) Routes() []string {
	return []string{
		"GET /movies",
		"POST /movies",
		"GET /customers",
		"GET /rentals",
		"POST /rentals/{title}/check-out",
		"POST /rentals/{title}/return",
	}
}

// ServeHTTP implements [http.Handler].
func (h *CatalogHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

// listMovies serves the library, or the candidate index when a query is given.
func (h *CatalogHandler) listMovies(w http.ResponseWriter, r *http.Request) {
	var (
		movies []models.Movie
		err    error
	)
	if q := strings.TrimSpace(r.URL.Query().Get("query")); q != "" {
		movies, err = h.candidates.Search(q)
	} else {
		movies, err = h.movies.List()
	}
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, movies)
}

func (h *CatalogHandler) createMovie(w http.ResponseWriter, r *http.Request) {
	var movie models.Movie
	if err := decodeBody(w, r, &movie); err != nil {
		h.fail(w, r, err)
		return
	}
	if err := h.movies.Create(&movie); err != nil {
		h.fail(w, r, err)
		return
	}
	h.logger.Info("movie created", "external_id", movie.ExternalID, "id", movie.ID)
	writeJSON(w, http.StatusCreated, movie)
}

func (h *CatalogHandler) listCustomers(w http.ResponseWriter, r *http.Request) {
	customers, err := h.customers.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, customers)
}

func (h *CatalogHandler) listRentals(w http.ResponseWriter, r *http.Request) {
	rentals, err := h.rentals.List()
	if err != nil {
		h.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rentals)
}

func (h *CatalogHandler) checkOut(w http.ResponseWriter, r *http.Request) {
	var req models.CheckOutRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	due, err := time.Parse(time.RFC3339Nano, req.DueDate)
	if err != nil {
		h.fail(w, r, fmt.Errorf("%w: due_date must be an ISO-8601 timestamp", shared.ErrInvalidInput))
		return
	}

	movie, err := h.movies.GetByTitle(r.PathValue("title"))
	if err != nil {
		h.fail(w, r, err)
		return
	}
	customer, err := h.customers.Get(req.CustomerID)
	if err != nil {
		h.fail(w, r, err)
		return
	}

	rental, err := h.rentals.CheckOut(movie.ID, customer.ID, h.now(), due)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	rental.Title, rental.Name = movie.Title, customer.Name

	h.logger.Info("checked out", "title", movie.Title, "customer", customer.ID, "due", due)
	writeJSON(w, http.StatusOK, rental)
}

func (h *CatalogHandler) returnRental(w http.ResponseWriter, r *http.Request) {
	var req models.ReturnRequest
	if err := decodeBody(w, r, &req); err != nil {
		h.fail(w, r, err)
		return
	}

	movie, err := h.movies.GetByTitle(r.PathValue("title"))
	if err != nil {
		h.fail(w, r, err)
		return
	}

	if err := h.rentals.Return(movie.ID, req.CustomerID, h.now()); err != nil {
		h.fail(w, r, err)
		return
	}

	h.logger.Info("returned", "title", movie.Title, "customer", req.CustomerID)
	writeJSON(w, http.StatusOK, map[string]string{"message": "returned"})
}

// fail maps err onto a status code and writes it as {"errors": "..."}.
func (h *CatalogHandler) fail(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	if status >= 500 {
		h.logger.Error("request failed", "path", r.URL.Path, "err", err, "request_id", RequestIDFrom(r.Context()))
	}
	writeError(w, status, err.Error())
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, shared.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, shared.ErrConflict):
		return http.StatusConflict
	case errors.Is(err, shared.ErrInvalidPayload), errors.Is(err, shared.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("%w: %w", shared.ErrInvalidPayload, err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"errors": msg})
}
