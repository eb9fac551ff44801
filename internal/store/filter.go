package store

import (
	"sort"
	"strings"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// FilterMovies returns the cached movies whose titles fuzzy-match query, closest first.
//
// An empty query returns every cached movie in catalog order.
func (s *Store) FilterMovies(query string) []models.Movie {
	s.mu.Lock()
	movies := cloneSlice(s.movies)
	s.mu.Unlock()

	return filterMovies(movies, query)
}

func filterMovies(movies []models.Movie, query string) []models.Movie {
	query = strings.TrimSpace(query)
	if query == "" {
		return movies
	}

	titles := make([]string, len(movies))
	for i, m := range movies {
		titles[i] = m.Title
	}

	ranks := fuzzy.RankFindNormalizedFold(query, titles)
	sort.Stable(ranks)

	matched := make([]models.Movie, 0, len(ranks))
	for _, r := range ranks {
		matched = append(matched, movies[r.OriginalIndex])
	}
	if len(matched) > 0 {
		return matched
	}

	// fall back to external identifiers, which fuzzy title ranking never sees
	lower := strings.ToLower(query)
	for _, m := range movies {
		if strings.Contains(strings.ToLower(m.ExternalID), lower) {
			matched = append(matched, m)
		}
	}
	return matched
}
