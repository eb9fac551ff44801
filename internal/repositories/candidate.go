package repositories

import (
	"database/sql"
	"fmt"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

// CandidateRepository persists the searchable movie index that stands in for an external provider.
//
// Candidates carry no library ID; adding one to the library goes through [MovieRepository.Create].
type CandidateRepository struct {
	db *sql.DB
}

// NewCandidateRepository creates a new CandidateRepository with the given database connection
func NewCandidateRepository(db *sql.DB) *CandidateRepository {
	return &CandidateRepository{db: db}
}

// Create inserts a search candidate. A duplicate external_id returns [shared.ErrConflict].
func (r *CandidateRepository) Create(movie models.Movie) error {
	if err := movie.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	query := `
		INSERT INTO movie_candidates (external_id, title, overview, release_date, image_url)
		VALUES (?, ?, ?, ?, ?)
	`

	_, err := r.db.Exec(query, movie.ExternalID, movie.Title, movie.Overview, movie.ReleaseDate, movie.ImageURL)
	if isUniqueViolation(err) {
		return fmt.Errorf("%w: candidate %s already exists", shared.ErrConflict, movie.ExternalID)
	}
	if err != nil {
		return fmt.Errorf("failed to insert candidate: %w", err)
	}
	return nil
}

// Search retrieves candidates whose title or overview contains query, case-insensitively.
func (r *CandidateRepository) Search(query string) ([]models.Movie, error) {
	pattern := "%" + query + "%"
	rows, err := r.db.Query(`
		SELECT external_id, title, overview, release_date, image_url
		FROM movie_candidates
		WHERE title LIKE ? OR overview LIKE ?
		ORDER BY title ASC
	`, pattern, pattern)
	if err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}
	defer rows.Close()

	movies := []models.Movie{}
	for rows.Next() {
		var m models.Movie
		if err := rows.Scan(&m.ExternalID, &m.Title, &m.Overview, &m.ReleaseDate, &m.ImageURL); err != nil {
			return nil, fmt.Errorf("failed to scan candidate: %w", err)
		}
		movies = append(movies, m)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}
	return movies, nil
}
