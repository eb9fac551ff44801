package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

const movieColumns = `id, external_id, title, overview, release_date, image_url`

// MovieRepository persists the rental library.
type MovieRepository struct {
	db *sql.DB
}

// NewMovieRepository creates a new MovieRepository with the given database connection
func NewMovieRepository(db *sql.DB) *MovieRepository {
	return &MovieRepository{db: db}
}

// Create inserts movie and sets its ID. A duplicate external_id returns [shared.ErrConflict].
func (r *MovieRepository) Create(movie *models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO movies (external_id, title, overview, release_date, image_url)
		VALUES (?, ?, ?, ?, ?)
	`

	result, err := r.db.Exec(query, movie.ExternalID, movie.Title, movie.Overview, movie.ReleaseDate, movie.ImageURL)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: movie %s already exists", shared.ErrConflict, movie.ExternalID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert movie: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get movie id: %w", err)
	}
	movie.ID = toID(id)
	return nil
}

// GetByTitle retrieves the first movie with the exact title.
//
// Titles are not unique; the oldest entry wins.
func (r *MovieRepository) GetByTitle(title string) (*models.Movie, error) {
	query := `SELECT ` + movieColumns + ` FROM movies WHERE title = ? ORDER BY id ASC LIMIT 1`
	return r.scanOne(r.db.QueryRow(query, title), title)
}

// List retrieves every movie in insertion order.
func (r *MovieRepository) List() ([]models.Movie, error) {
	rows, err := r.db.Query(`SELECT ` + movieColumns + ` FROM movies ORDER BY id ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query movies: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		m, err := scanMovie(rows)
		if err != nil {
			return nil, err
		}
		movies = append(movies, *m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return movies, nil
}

func (r *MovieRepository) scanOne(row *sql.Row, key string) (*models.Movie, error) {
	m, err := scanMovie(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: movie %q", shared.ErrNotFound, key)
	}
	return m, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMovie(s scanner) (*models.Movie, error) {
	var (
		id int64
		m  models.Movie
	)
	err := s.Scan(&id, &m.ExternalID, &m.Title, &m.Overview, &m.ReleaseDate, &m.ImageURL)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan movie: %w", err)
	}
	m.ID = toID(id)
	return &m, nil
}
