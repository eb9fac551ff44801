// package formatter renders catalog collections for CLI output (plain table, CSV, JSON, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/shared"
)

// Format selects an output encoding.
type Format string

const (
	Text     Format = "text"
	CSV      Format = "csv"
	JSON     Format = "json"
	Markdown Format = "markdown"
)

// ParseFormat maps a flag value to a [Format]. The empty string selects [Text].
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return Text, nil
	case Text, CSV, JSON, Markdown:
		return f, nil
	case "md":
		return Markdown, nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (text, csv, json, markdown)", shared.ErrInvalidArgument, s)
	}
}

// Extension returns the file extension used when writing f to disk.
func (f Format) Extension() string {
	switch f {
	case CSV:
		return "csv"
	case JSON:
		return "json"
	case Markdown:
		return "md"
	default:
		return "txt"
	}
}

// table is the column layout shared by every non-JSON format.
type table struct {
	title   string
	headers []string
	rows    [][]string
}

// FormatMovies renders movies with columns: ID, External ID, Title, Release Date
func FormatMovies(movies []models.Movie, f Format) ([]byte, error) {
	t := table{title: "Movies", headers: []string{"ID", "External ID", "Title", "Release Date"}}
	for _, m := range movies {
		t.rows = append(t.rows, []string{m.ID.String(), m.ExternalID, m.Title, m.ReleaseDate})
	}
	return render(t, movies, f)
}

// FormatCustomers renders customers with columns: ID, Name, Phone, Checked Out
func FormatCustomers(customers []models.Customer, f Format) ([]byte, error) {
	t := table{title: "Customers", headers: []string{"ID", "Name", "Phone", "Checked Out"}}
	for _, c := range customers {
		t.rows = append(t.rows, []string{c.ID.String(), c.Name, c.Phone, strconv.Itoa(c.MoviesCheckedOutCount)})
	}
	return render(t, customers, f)
}

// FormatRentals renders rentals with columns: Title, Customer, Checked Out, Due, Status.
//
// Status is computed at now: returned, overdue, or out.
func FormatRentals(rentals []models.Rental, now time.Time, f Format) ([]byte, error) {
	t := table{title: "Rentals", headers: []string{"Title", "Customer", "Checked Out", "Due", "Status"}}
	for _, r := range rentals {
		customer := r.Name
		if customer == "" {
			customer = "#" + r.CustomerID.String()
		}
		t.rows = append(t.rows, []string{r.Title, customer, formatDate(r.CheckoutDate), formatDate(r.DueDate), rentalStatus(r, now)})
	}
	return render(t, rentals, f)
}

func rentalStatus(r models.Rental, now time.Time) string {
	switch {
	case r.Returned:
		return "returned"
	case r.Overdue(now):
		return "overdue"
	default:
		return "out"
	}
}

func formatDate(ts models.Timestamp) string {
	if ts.IsZero() {
		return ""
	}
	return ts.Format(time.DateOnly)
}

func render(t table, v any, f Format) ([]byte, error) {
	switch f {
	case JSON:
		data, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("failed to encode JSON: %w", err)
		}
		return append(data, '\n'), nil
	case CSV:
		return t.csv()
	case Markdown:
		return t.markdown(), nil
	case Text, "":
		return t.text()
	default:
		return nil, fmt.Errorf("%w: unknown format %q", shared.ErrInvalidArgument, f)
	}
}

func (t table) csv() ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write(t.headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}
	for _, row := range t.rows {
		if err := writer.Write(row); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}
	return buf.Bytes(), nil
}

func (t table) text() ([]byte, error) {
	if len(t.rows) == 0 {
		return []byte(fmt.Sprintf("No %s found\n", strings.ToLower(t.title))), nil
	}

	var buf bytes.Buffer
	w := tabwriter.NewWriter(&buf, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, strings.ToUpper(strings.Join(t.headers, "\t")))
	for _, row := range t.rows {
		fmt.Fprintln(w, strings.Join(row, "\t"))
	}
	if err := w.Flush(); err != nil {
		return nil, fmt.Errorf("failed to write table: %w", err)
	}
	return buf.Bytes(), nil
}

func (t table) markdown() []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", t.title))
	buf.WriteString(fmt.Sprintf("**Total**: %d\n\n", len(t.rows)))

	buf.WriteString("| " + strings.Join(t.headers, " | ") + " |\n")
	buf.WriteString("|" + strings.Repeat(" --- |", len(t.headers)) + "\n")
	for _, row := range t.rows {
		cells := make([]string, len(row))
		for i, c := range row {
			cells[i] = strings.ReplaceAll(c, "|", `\|`)
		}
		buf.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}
	return buf.Bytes()
}

// WriteFile writes rendered output to path, creating parent directories as needed.
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
