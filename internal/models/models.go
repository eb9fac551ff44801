// package models defines the data model for the rental catalog client
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/desertthunder/rentx/internal/shared"
)

// ID is an opaque identifier assigned by the catalog backend.
//
// Backends emit either numeric or string identifiers, so both decode into the same value.
type ID string

// String returns the identifier text.
func (id ID) String() string { return string(id) }

// IsZero reports whether the identifier is unset.
func (id ID) IsZero() bool { return id == "" }

// UnmarshalJSON accepts a JSON string, a JSON number, or null.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("%w: bad id: %v", shared.ErrInvalidPayload, err)
		}
		*id = ID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("%w: id must be a string or number, got %s", shared.ErrInvalidPayload, string(data))
	}
	*id = ID(n.String())
	return nil
}

// MarshalJSON writes all-digit identifiers as JSON numbers and anything else as a JSON string.
func (id ID) MarshalJSON() ([]byte, error) {
	if id.numeric() {
		return []byte(id), nil
	}
	return json.Marshal(string(id))
}

func (id ID) numeric() bool {
	if id == "" || (len(id) > 1 && id[0] == '0') {
		return false
	}
	for _, r := range id {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// Timestamp is a [time.Time] that also accepts bare dates ("2006-01-02") when decoding.
//
// The zero value encodes as null.
type Timestamp struct {
	time.Time
}

var timestampLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04:05", "2006-01-02"}

// UnmarshalJSON implements [json.Unmarshaler].
func (ts *Timestamp) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		ts.Time = time.Time{}
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("%w: timestamp must be a string, got %s", shared.ErrInvalidPayload, string(data))
	}
	if s == "" {
		ts.Time = time.Time{}
		return nil
	}

	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			ts.Time = t
			return nil
		}
	}
	return fmt.Errorf("%w: unrecognised timestamp %q", shared.ErrInvalidPayload, s)
}

// MarshalJSON implements [json.Marshaler].
func (ts Timestamp) MarshalJSON() ([]byte, error) {
	if ts.IsZero() {
		return []byte("null"), nil
	}
	return json.Marshal(ts.Time.Format(time.RFC3339Nano))
}

// Movie is a catalog entry. ExternalID is the provider key used for duplicate detection and selection.
type Movie struct {
	ID          ID     `json:"id,omitempty"`
	ExternalID  string `json:"external_id"`
	Title       string `json:"title"`
	Overview    string `json:"overview,omitempty"`
	ReleaseDate string `json:"release_date,omitempty"`
	ImageURL    string `json:"image_url,omitempty"`
}

// Validate checks the fields every movie must carry.
func (m Movie) Validate() error {
	if strings.TrimSpace(m.ExternalID) == "" {
		return fmt.Errorf("%w: movie missing external_id", shared.ErrInvalidPayload)
	}
	if strings.TrimSpace(m.Title) == "" {
		return fmt.Errorf("%w: movie %s missing title", shared.ErrInvalidPayload, m.ExternalID)
	}
	return nil
}

// Customer is a backend-owned customer record.
type Customer struct {
	ID                    ID     `json:"id"`
	Name                  string `json:"name"`
	Phone                 string `json:"phone,omitempty"`
	MoviesCheckedOutCount int    `json:"movies_checked_out_count,omitempty"`
}

// Validate checks the fields every customer must carry.
func (c Customer) Validate() error {
	if c.ID.IsZero() {
		return fmt.Errorf("%w: customer missing id", shared.ErrInvalidPayload)
	}
	if strings.TrimSpace(c.Name) == "" {
		return fmt.Errorf("%w: customer %s missing name", shared.ErrInvalidPayload, c.ID)
	}
	return nil
}

// Rental associates a movie and a customer with a due date.
//
// A rental is checked out until Returned is set.
type Rental struct {
	ID           ID        `json:"id,omitempty"`
	MovieID      ID        `json:"movie_id"`
	CustomerID   ID        `json:"customer_id"`
	Title        string    `json:"title"`
	Name         string    `json:"name,omitempty"`
	CheckoutDate Timestamp `json:"checkout_date"`
	DueDate      Timestamp `json:"due_date"`
	Returned     bool      `json:"returned"`
}

// Validate checks the fields every rental must carry.
func (r Rental) Validate() error {
	switch {
	case r.MovieID.IsZero():
		return fmt.Errorf("%w: rental missing movie_id", shared.ErrInvalidPayload)
	case r.CustomerID.IsZero():
		return fmt.Errorf("%w: rental missing customer_id", shared.ErrInvalidPayload)
	case strings.TrimSpace(r.Title) == "":
		return fmt.Errorf("%w: rental for movie %s missing title", shared.ErrInvalidPayload, r.MovieID)
	case r.DueDate.IsZero():
		return fmt.Errorf("%w: rental for %q missing due_date", shared.ErrInvalidPayload, r.Title)
	}
	return nil
}

// MovieRef projects the rental onto the movie fields a return request needs.
func (r Rental) MovieRef() Movie {
	return Movie{ID: r.MovieID, Title: r.Title}
}

// CustomerRef projects the rental onto the customer fields a return request needs.
func (r Rental) CustomerRef() Customer {
	return Customer{ID: r.CustomerID, Name: r.Name}
}

// Overdue reports whether a checked-out rental is past its due date at now.
func (r Rental) Overdue(now time.Time) bool {
	return !r.Returned && now.After(r.DueDate.Time)
}

// CheckOutRequest is the body of a check-out call.
type CheckOutRequest struct {
	CustomerID ID     `json:"customer_id"`
	DueDate    string `json:"due_date"`
}

// ReturnRequest is the body of a return call.
type ReturnRequest struct {
	CustomerID ID `json:"customer_id"`
	MovieID    ID `json:"movie_id"`
}

// FormatDueDate renders t the way check-out requests carry it: UTC ISO-8601 with millisecond precision.
func FormatDueDate(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z07:00")
}

// DecodeMovies parses and validates a movie collection.
func DecodeMovies(data []byte) ([]Movie, error) {
	return decodeAll[Movie](data, "movies")
}

// DecodeCustomers parses and validates a customer collection.
func DecodeCustomers(data []byte) ([]Customer, error) {
	return decodeAll[Customer](data, "customers")
}

// DecodeRentals parses and validates a rental collection.
func DecodeRentals(data []byte) ([]Rental, error) {
	return decodeAll[Rental](data, "rentals")
}

type validator interface {
	Validate() error
}

func decodeAll[T validator](data []byte, resource string) ([]T, error) {
	var records []T
	if err := json.Unmarshal(data, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to decode %s: %v", shared.ErrInvalidPayload, resource, err)
	}

	for i, rec := range records {
		if err := rec.Validate(); err != nil {
			return nil, fmt.Errorf("%s[%d]: %w", resource, i, err)
		}
	}

	if records == nil {
		records = []T{}
	}
	return records, nil
}
