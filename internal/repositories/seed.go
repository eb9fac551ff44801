package repositories

import (
	"database/sql"
	"errors"
	"fmt"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

var seedMovies = []models.Movie{
	{ExternalID: "tt0083658", Title: "Blade Runner", ReleaseDate: "1982-06-25",
		Overview: "A blade runner must pursue and terminate four replicants who stole a ship in space."},
	{ExternalID: "tt0078748", Title: "Alien", ReleaseDate: "1979-05-25",
		Overview: "The crew of a commercial spacecraft encounters a deadly lifeform after investigating a distress call."},
	{ExternalID: "tt1160419", Title: "Dune", ReleaseDate: "2021-10-22",
		Overview: "A noble family becomes embroiled in a war for control over the galaxy's most valuable asset."},
	{ExternalID: "tt0084787", Title: "The Thing", ReleaseDate: "1982-06-25",
		Overview: "A research team in Antarctica is hunted by a shape-shifting alien."},
	{ExternalID: "tt0113277", Title: "Heat", ReleaseDate: "1995-12-15",
		Overview: "A group of high-end professional thieves start to feel the heat from the LAPD."},
}

// seedCandidates are searchable titles that start outside the library.
var seedCandidates = []models.Movie{
	{ExternalID: "tt0090605", Title: "Aliens", ReleaseDate: "1986-07-18",
		Overview: "Ripley returns to the moon where her crew met the alien, this time with a unit of colonial marines."},
	{ExternalID: "tt1856101", Title: "Blade Runner 2049", ReleaseDate: "2017-10-06",
		Overview: "A young blade runner unearths a long-buried secret that leads him to track down a former blade runner."},
	{ExternalID: "tt15239678", Title: "Dune: Part Two", ReleaseDate: "2024-03-01",
		Overview: "Paul Atreides unites with the Fremen while on a path of revenge against the conspirators who destroyed his family."},
	{ExternalID: "tt0088247", Title: "The Terminator", ReleaseDate: "1984-10-26",
		Overview: "A cyborg assassin is sent back in time to kill the mother of humanity's future savior."},
	{ExternalID: "tt2543164", Title: "Arrival", ReleaseDate: "2016-11-11",
		Overview: "A linguist works with the military to communicate with alien lifeforms after twelve spacecraft appear."},
	{ExternalID: "tt0133093", Title: "The Matrix", ReleaseDate: "1999-03-31",
		Overview: "A computer hacker learns the true nature of his reality and his role in the war against its controllers."},
}

var seedCustomers = []models.Customer{
	{Name: "Ada Lovelace", Phone: "(555) 010-1815"},
	{Name: "Grace Hopper", Phone: "(555) 010-1906"},
	{Name: "Alan Turing", Phone: "(555) 010-1912"},
}

// SeedResult reports how many demo records [Seed] inserted.
type SeedResult struct {
	Movies     int
	Candidates int
	Customers  int
}

// Seed inserts demo movies, search candidates and customers.
//
// Movies and candidates already present by external_id are skipped; customers are only added to an empty table.
func Seed(db *sql.DB) (*SeedResult, error) {
	movies := NewMovieRepository(db)
	candidates := NewCandidateRepository(db)
	customers := NewCustomerRepository(db)
	result := &SeedResult{}

	for _, m := range seedMovies {
		err := movies.Create(&m)
		if errors.Is(err, shared.ErrConflict) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to seed movie %s: %w", m.ExternalID, err)
		}
		result.Movies++
	}

	for _, m := range seedCandidates {
		err := candidates.Create(m)
		if errors.Is(err, shared.ErrConflict) {
			continue
		}
		if err != nil {
			return result, fmt.Errorf("failed to seed candidate %s: %w", m.ExternalID, err)
		}
		result.Candidates++
	}

	n, err := customers.Count()
	if err != nil {
		return result, err
	}
	if n > 0 {
		return result, nil
	}

	for _, c := range seedCustomers {
		if err := customers.Create(&c); err != nil {
			return result, fmt.Errorf("failed to seed customer %s: %w", c.Name, err)
		}
		result.Customers++
	}
	return result, nil
}
