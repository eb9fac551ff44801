package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/repositories"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/shared"
	"github.com/desertthunder/rentx/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestServer(t *testing.T, rateLimit float64) (*httptest.Server, *services.CatalogService) {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, shared.RunMigrations(db))
	_, err = repositories.Seed(db)
	require.NoError(t, err)

	router := NewCatalogRouter(db, Options{
		Logger:    shared.NewLogger(nil),
		RateLimit: rateLimit,
		Clock:     func() time.Time { return fixedNow },
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return srv, services.NewCatalogService(srv.URL, 5*time.Second)
}

func TestCatalogHandler(t *testing.T) {
	ctx := context.Background()

	t.Run("Lists", func(t *testing.T) {
		_, catalog := newTestServer(t, 0)

		movies, err := catalog.ListMovies(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 5)

		customers, err := catalog.ListCustomers(ctx)
		require.NoError(t, err)
		assert.Len(t, customers, 3)

		rentals, err := catalog.ListRentals(ctx)
		require.NoError(t, err)
		assert.Empty(t, rentals)

		found, err := catalog.SearchMovies(ctx, "alien")
		require.NoError(t, err)
		require.Len(t, found, 2)
	})

	t.Run("Add Movie", func(t *testing.T) {
		_, catalog := newTestServer(t, 0)

		require.NoError(t, catalog.AddMovie(ctx, models.Movie{ExternalID: "tt0133093", Title: "The Matrix"}))

		err := catalog.AddMovie(ctx, models.Movie{ExternalID: "tt0133093", Title: "The Matrix"})
		require.ErrorIs(t, err, shared.ErrAPIRequest)
		assert.Contains(t, err.Error(), "409")

		err = catalog.AddMovie(ctx, models.Movie{ExternalID: "", Title: "Untitled"})
		assert.Contains(t, err.Error(), "422")
	})

	t.Run("Search And Add", func(t *testing.T) {
		srv, catalog := newTestServer(t, 0)
		st := store.New(store.Options{Catalog: catalog, Clock: func() time.Time { return fixedNow }})
		require.NoError(t, st.Refresh(ctx, services.Movies))

		results, err := st.SearchMovies(ctx, "Blade")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "Blade Runner 2049", results[0].Title)
		_, inLibrary := st.Snapshot().Movie(results[0].ExternalID)
		assert.False(t, inLibrary)

		require.NoError(t, st.AddMovieToLibrary(ctx, results[0]))
		note := st.Snapshot().Notification
		require.NotNil(t, note)
		assert.False(t, note.IsError())
		assert.Equal(t, "Movie added to your rental library", note.Message)

		_, inLibrary = st.Snapshot().Movie(results[0].ExternalID)
		assert.True(t, inLibrary)

		movies, err := catalog.ListMovies(ctx)
		require.NoError(t, err)
		assert.Len(t, movies, 6)

		found, err := catalog.SearchMovies(ctx, "terminator")
		require.NoError(t, err)
		require.Len(t, found, 1)
		body, err := json.Marshal(found[0])
		require.NoError(t, err)

		resp, err := http.Post(srv.URL+"/movies", "application/json", bytes.NewReader(body))
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusCreated, resp.StatusCode)
	})

	t.Run("Check Out And Return", func(t *testing.T) {
		_, catalog := newTestServer(t, 0)
		due := models.FormatDueDate(fixedNow.AddDate(0, 0, 1))

		require.NoError(t, catalog.CheckOut(ctx, "Dune", models.CheckOutRequest{CustomerID: "1", DueDate: due}))

		rentals, err := catalog.ListRentals(ctx)
		require.NoError(t, err)
		require.Len(t, rentals, 1)
		assert.Equal(t, "Dune", rentals[0].Title)
		assert.Equal(t, "Ada Lovelace", rentals[0].Name)
		assert.False(t, rentals[0].Returned)
		assert.True(t, rentals[0].DueDate.Equal(fixedNow.AddDate(0, 0, 1)))

		customers, _ := catalog.ListCustomers(ctx)
		assert.Equal(t, 1, customers[0].MoviesCheckedOutCount)

		err = catalog.CheckOut(ctx, "Dune", models.CheckOutRequest{CustomerID: "1", DueDate: due})
		assert.Contains(t, err.Error(), "409")

		require.NoError(t, catalog.Return(ctx, "Dune", models.ReturnRequest{CustomerID: rentals[0].CustomerID, MovieID: rentals[0].MovieID}))

		rentals, _ = catalog.ListRentals(ctx)
		assert.True(t, rentals[0].Returned)

		err = catalog.Return(ctx, "Dune", models.ReturnRequest{CustomerID: "1", MovieID: rentals[0].MovieID})
		assert.Contains(t, err.Error(), "404")
	})

	t.Run("Check Out Failures", func(t *testing.T) {
		_, catalog := newTestServer(t, 0)
		due := models.FormatDueDate(fixedNow)

		tests := []struct {
			name  string
			title string
			req   models.CheckOutRequest
			want  string
		}{
			{"Unknown Title", "Nope", models.CheckOutRequest{CustomerID: "1", DueDate: due}, "404"},
			{"Unknown Customer", "Dune", models.CheckOutRequest{CustomerID: "99", DueDate: due}, "404"},
			{"Bad Due Date", "Dune", models.CheckOutRequest{CustomerID: "1", DueDate: "tomorrow"}, "422"},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				err := catalog.CheckOut(ctx, tt.title, tt.req)
				require.ErrorIs(t, err, shared.ErrAPIRequest)
				assert.Contains(t, err.Error(), tt.want)
			})
		}
	})

	t.Run("Escaped Title", func(t *testing.T) {
		srv, catalog := newTestServer(t, 0)
		require.NoError(t, catalog.AddMovie(ctx, models.Movie{ExternalID: "x1", Title: "AC/DC: Live"}))

		due := models.FormatDueDate(fixedNow)
		require.NoError(t, catalog.CheckOut(ctx, "AC/DC: Live", models.CheckOutRequest{CustomerID: "2", DueDate: due}))

		resp, err := http.Get(srv.URL + "/rentals")
		require.NoError(t, err)
		defer resp.Body.Close()
		assert.NotEmpty(t, resp.Header.Get(RequestIDHeader))
	})
}

func TestMiddleware(t *testing.T) {
	t.Run("Method Not Allowed", func(t *testing.T) {
		srv, _ := newTestServer(t, 0)

		req, _ := http.NewRequest(http.MethodDelete, srv.URL+"/movies", nil)
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})

	t.Run("Request ID Is Echoed", func(t *testing.T) {
		srv, _ := newTestServer(t, 0)

		req, _ := http.NewRequest(http.MethodGet, srv.URL+"/customers", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, "abc-123", resp.Header.Get(RequestIDHeader))
	})

	t.Run("Rate Limit", func(t *testing.T) {
		srv, _ := newTestServer(t, 1)

		var limited bool
		for range 5 {
			resp, err := http.Get(srv.URL + "/movies")
			require.NoError(t, err)
			resp.Body.Close()
			if resp.StatusCode == http.StatusTooManyRequests {
				limited = true
			}
		}
		assert.True(t, limited)
	})

	t.Run("Recover", func(t *testing.T) {
		router := NewBasicRouter()
		router.Use(Recover(shared.NewLogger(nil)))
		router.Handle(http.MethodGet, "/boom", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
		assert.True(t, strings.Contains(rec.Body.String(), "internal server error"))
	})

	t.Run("Order", func(t *testing.T) {
		var order []string
		mark := func(name string) Middleware {
			return func(next http.Handler) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
					order = append(order, name)
					next.ServeHTTP(w, r)
				})
			}
		}

		router := NewBasicRouter()
		router.Use(mark("first"), mark("second"))
		router.Handle(http.MethodGet, "/", http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		assert.Equal(t, []string{"first", "second"}, order)
	})
}

func TestServer(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	srv := New(ln.Addr().String(), http.NotFoundHandler(), shared.NewLogger(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	require.Eventually(t, func() bool {
		resp, err := http.Get("http://" + ln.Addr().String())
		if err != nil {
			return false
		}
		resp.Body.Close()
		return resp.StatusCode == http.StatusNotFound
	}, time.Second, 10*time.Millisecond)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(shutdownTimeout + time.Second):
		t.Fatal("server did not stop")
	}
}
