package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rentx/internal/models"
)

var (
	_ list.Item = movieItem{}
	_ list.Item = customerItem{}
	_ list.Item = rentalItem{}
)

// movieItem wraps [models.Movie] to implement [list.Item].
type movieItem struct {
	movie    models.Movie
	selected bool
}

func (i movieItem) FilterValue() string { return i.movie.Title }
func (i movieItem) Title() string       { return marker(i.selected) + i.movie.Title }
func (i movieItem) Description() string {
	parts := []string{i.movie.ExternalID}
	if i.movie.ReleaseDate != "" {
		parts = append(parts, i.movie.ReleaseDate)
	}
	return strings.Join(parts, " • ")
}

// customerItem wraps [models.Customer] to implement [list.Item].
type customerItem struct {
	customer models.Customer
	selected bool
}

func (i customerItem) FilterValue() string { return i.customer.Name }
func (i customerItem) Title() string       { return marker(i.selected) + i.customer.Name }
func (i customerItem) Description() string {
	desc := fmt.Sprintf("#%s • %d checked out", i.customer.ID, i.customer.MoviesCheckedOutCount)
	if i.customer.Phone != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.customer.Phone)
	}
	return desc
}

// rentalItem wraps [models.Rental] to implement [list.Item].
type rentalItem struct {
	rental  models.Rental
	overdue bool
}

func (i rentalItem) FilterValue() string { return i.rental.Title }
func (i rentalItem) Title() string       { return i.rental.Title }
func (i rentalItem) Description() string {
	who := i.rental.Name
	if who == "" {
		who = "customer #" + i.rental.CustomerID.String()
	}
	desc := fmt.Sprintf("%s • due %s", who, i.rental.DueDate.Format(time.DateOnly))
	switch {
	case i.rental.Returned:
		desc += " • returned"
	case i.overdue:
		desc += " • OVERDUE"
	}
	return desc
}

func marker(selected bool) string {
	if selected {
		return "● "
	}
	return ""
}
