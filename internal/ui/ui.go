package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rentx/internal/models"
	"github.com/desertthunder/rentx/internal/services"
	"github.com/desertthunder/rentx/internal/store"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	LibraryView ViewState = iota
	CustomersView
	RentalsView
	SearchView
	viewCount
)

var viewNames = [viewCount]string{"Library", "Customers", "Rentals", "Search"}

func (v ViewState) String() string {
	if v < 0 || v >= viewCount {
		return ""
	}
	return viewNames[v]
}

// rows taken by the tabs, selection header, notification, status and help lines
const chrome = 10

// Model represents the TUI application state.
type Model struct {
	ctx         context.Context
	store       *store.Store
	now         func() time.Time
	view        ViewState
	width       int
	height      int
	lists       [viewCount]list.Model
	input       textinput.Model
	typing      bool
	filter      string
	snap        store.Snapshot
	loading     bool
	changes     <-chan store.Snapshot
	unsubscribe func()
	help        help.Model
	keys        keyMap
}

// NewModel creates a new TUI model driving the provided store.
//
// The model subscribes to the store immediately; call [Model.Close] once the program exits.
func NewModel(ctx context.Context, s *store.Store) *Model {
	changes, unsubscribe := s.Subscribe()

	m := &Model{
		ctx:         ctx,
		store:       s,
		now:         time.Now,
		view:        LibraryView,
		width:       80,
		height:      24,
		input:       textinput.New(),
		loading:     true,
		changes:     changes,
		unsubscribe: unsubscribe,
		help:        help.New(),
		keys:        newKeyMap(),
	}
	for v := range viewCount {
		l := list.New(nil, list.NewDefaultDelegate(), m.width-4, m.height-chrome)
		l.Title = v.String()
		l.SetShowHelp(false)
		l.SetFilteringEnabled(false)
		m.lists[v] = l
	}
	m.input.Prompt = "/ "
	m.snap = s.Snapshot()
	return m
}

// Close stops listening for store changes.
func (m *Model) Close() {
	m.unsubscribe()
}

// Init loads the catalog and starts listening for store changes.
func (m *Model) Init() tea.Cmd {
	return tea.Batch(m.initialize(), m.waitForChange())
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for v := range m.lists {
			m.lists[v].SetSize(msg.Width-4, max(msg.Height-chrome, 3))
		}
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if m.typing {
			return m.handleInputKeys(msg)
		}
		return m.handleKeys(msg)

	case Msg:
		res, _ := msg.data.(result)
		m.apply(res.snapshot)

		switch msg.kind {
		case MsgLoaded:
			m.loading = false
		case MsgActionComplete:
			if res.op == "search" && res.err == nil {
				m.view = SearchView
			}
		case MsgStoreChanged:
			return m, m.waitForChange()
		}
		return m, nil
	}

	return m.updateList(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.loading {
		return styles.title.Render("rentx") + "\nLoading catalog..."
	}

	var b strings.Builder
	b.WriteString(m.renderTabs())
	b.WriteString("\n\n")
	b.WriteString(m.renderSelection())
	b.WriteString("\n")

	if n := m.snap.Notification; n != nil {
		b.WriteString(styles.notice(n.Severity).Render(n.Message))
		b.WriteString(styles.help.Render("  (x to dismiss)"))
		b.WriteString("\n")
	}
	if status := m.renderLoadErrors(); status != "" {
		b.WriteString(status)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(m.lists[m.view].View())
	b.WriteString("\n")

	switch {
	case m.typing:
		b.WriteString(m.input.View())
		b.WriteString("\n")
	case m.view == LibraryView && m.filter != "":
		b.WriteString(styles.help.Render(fmt.Sprintf("filter: %q (/ to edit, esc in filter to clear)", m.filter)))
		b.WriteString("\n")
	}

	if d := m.snap.DetailsMovie; d != nil && (m.view == LibraryView || m.view == SearchView) {
		b.WriteString(renderDetails(*d))
		b.WriteString("\n")
	}

	b.WriteString(m.help.ShortHelpView(m.viewKeys()))
	return b.String()
}

func (m *Model) handleKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.tab):
		m.view = (m.view + 1) % viewCount
		return m, nil

	case key.Matches(msg, m.keys.dismiss):
		m.store.DismissNotification()
		m.apply(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.back):
		m.store.ClearSelection()
		m.apply(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.filter):
		if m.view != LibraryView && m.view != SearchView {
			return m, nil
		}
		m.typing = true
		if m.view == LibraryView {
			m.input.Placeholder = "filter library"
			m.input.SetValue(m.filter)
		} else {
			m.input.Placeholder = "search movies"
			m.input.SetValue("")
		}
		return m, m.input.Focus()

	case key.Matches(msg, m.keys.create):
		return m, m.createRental()

	case key.Matches(msg, m.keys.enter):
		switch m.view {
		case LibraryView:
			if mv, ok := m.highlightedMovie(); ok {
				m.store.SelectMovie(mv.ExternalID)
			}
		case CustomersView:
			if it, ok := m.lists[CustomersView].SelectedItem().(customerItem); ok {
				m.store.SelectCustomer(it.customer.ID)
			}
		}
		m.apply(m.store.Snapshot())
		return m, nil

	case key.Matches(msg, m.keys.details):
		if mv, ok := m.highlightedMovie(); ok {
			m.store.ToggleDetails(mv.ExternalID)
			m.apply(m.store.Snapshot())
		}
		return m, nil

	case key.Matches(msg, m.keys.add):
		if m.view != SearchView {
			return m, nil
		}
		if mv, ok := m.highlightedMovie(); ok {
			return m, m.addMovie(mv)
		}
		return m, nil

	case key.Matches(msg, m.keys.ret):
		if m.view != RentalsView {
			return m, nil
		}
		if r, ok := m.highlightedOpenRental(); ok {
			return m, m.returnRental(r)
		}
		return m, nil
	}

	return m.updateList(msg)
}

func (m *Model) handleInputKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.typing = false
		m.input.Blur()
		if m.view == LibraryView {
			m.filter = ""
			m.refreshItems()
		}
		return m, nil

	case tea.KeyEnter:
		m.typing = false
		m.input.Blur()
		value := strings.TrimSpace(m.input.Value())
		if m.view == SearchView {
			if value == "" {
				return m, nil
			}
			return m, m.search(value)
		}
		m.filter = value
		m.refreshItems()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.view == LibraryView {
		m.filter = m.input.Value()
		m.refreshItems()
	}
	return m, cmd
}

func (m *Model) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.lists[m.view], cmd = m.lists[m.view].Update(msg)
	return m, cmd
}

func (m *Model) highlightedMovie() (models.Movie, bool) {
	if m.view != LibraryView && m.view != SearchView {
		return models.Movie{}, false
	}
	it, ok := m.lists[m.view].SelectedItem().(movieItem)
	return it.movie, ok
}

// apply replaces the rendered snapshot and rebuilds every list from it.
func (m *Model) apply(snap store.Snapshot) {
	m.snap = snap
	m.refreshItems()
}

func (m *Model) refreshItems() {
	var selMovie string
	var selCustomer models.ID
	if m.snap.SelectedMovie != nil {
		selMovie = m.snap.SelectedMovie.ExternalID
	}
	if m.snap.SelectedCustomer != nil {
		selCustomer = m.snap.SelectedCustomer.ID
	}

	movies := m.store.FilterMovies(m.filter)
	library := make([]list.Item, len(movies))
	for i, mv := range movies {
		library[i] = movieItem{movie: mv, selected: mv.ExternalID == selMovie}
	}
	m.lists[LibraryView].SetItems(library)

	customers := make([]list.Item, len(m.snap.Customers))
	for i, c := range m.snap.Customers {
		customers[i] = customerItem{customer: c, selected: c.ID == selCustomer}
	}
	m.lists[CustomersView].SetItems(customers)

	now := m.now()
	rentals := make([]list.Item, len(m.snap.Rentals))
	for i, r := range m.snap.Rentals {
		rentals[i] = rentalItem{rental: r, overdue: r.Overdue(now)}
	}
	m.lists[RentalsView].SetItems(rentals)

	results := make([]list.Item, len(m.snap.SearchResults))
	for i, mv := range m.snap.SearchResults {
		results[i] = movieItem{movie: mv}
	}
	m.lists[SearchView].SetItems(results)
}

func (m *Model) initialize() tea.Cmd {
	return func() tea.Msg {
		err := m.store.Initialize(m.ctx)
		return loadedMsg(m.store.Snapshot(), err)
	}
}

func (m *Model) waitForChange() tea.Cmd {
	changes := m.changes
	return func() tea.Msg {
		snap, ok := <-changes
		if !ok {
			return nil
		}
		return storeChangedMsg(snap)
	}
}

func (m *Model) createRental() tea.Cmd {
	return func() tea.Msg {
		err := m.store.CreateRental(m.ctx)
		if err == nil {
			err = m.refreshAfterRental()
		}
		return actionCompleteMsg("create rental", m.store.Snapshot(), err)
	}
}

func (m *Model) returnRental(r models.Rental) tea.Cmd {
	return func() tea.Msg {
		err := m.store.ReturnRental(m.ctx, r.MovieRef(), r.CustomerRef())
		if err == nil {
			err = m.refreshAfterRental()
		}
		return actionCompleteMsg("return rental", m.store.Snapshot(), err)
	}
}

// refreshAfterRental reloads the collections a check-out or return changes on the backend.
//
// Both reloads run even if the first fails; the store records each failure in its load errors.
func (m *Model) refreshAfterRental() error {
	return errors.Join(
		m.store.Refresh(m.ctx, services.Rentals),
		m.store.Refresh(m.ctx, services.Customers),
	)
}

// highlightedOpenRental returns the highlighted rental if it is still checked out.
func (m *Model) highlightedOpenRental() (models.Rental, bool) {
	it, ok := m.lists[RentalsView].SelectedItem().(rentalItem)
	if !ok {
		return models.Rental{}, false
	}
	for _, r := range m.snap.OpenRentals() {
		if r.MovieID == it.rental.MovieID && r.CustomerID == it.rental.CustomerID &&
			r.CheckoutDate.Equal(it.rental.CheckoutDate.Time) {
			return r, true
		}
	}
	return models.Rental{}, false
}

func (m *Model) addMovie(mv models.Movie) tea.Cmd {
	return func() tea.Msg {
		err := m.store.AddMovieToLibrary(m.ctx, mv)
		return actionCompleteMsg("add movie", m.store.Snapshot(), err)
	}
}

func (m *Model) search(query string) tea.Cmd {
	return func() tea.Msg {
		_, err := m.store.SearchMovies(m.ctx, query)
		return actionCompleteMsg("search", m.store.Snapshot(), err)
	}
}

func (m *Model) viewKeys() []key.Binding {
	switch m.view {
	case LibraryView:
		return []key.Binding{m.keys.enter, m.keys.details, m.keys.filter, m.keys.create, m.keys.back, m.keys.tab, m.keys.quit}
	case CustomersView:
		return []key.Binding{m.keys.enter, m.keys.create, m.keys.back, m.keys.tab, m.keys.quit}
	case RentalsView:
		if _, ok := m.highlightedOpenRental(); ok {
			return []key.Binding{m.keys.ret, m.keys.tab, m.keys.quit}
		}
		return []key.Binding{m.keys.tab, m.keys.quit}
	case SearchView:
		searchKey := key.NewBinding(key.WithKeys("/"), key.WithHelp("/", "search"))
		return []key.Binding{searchKey, m.keys.add, m.keys.details, m.keys.tab, m.keys.quit}
	}
	return m.keys.ShortHelp()
}

func (m *Model) renderTabs() string {
	tabs := make([]string, 0, viewCount)
	for v := range viewCount {
		if v == m.view {
			tabs = append(tabs, styles.active.Render(v.String()))
		} else {
			tabs = append(tabs, styles.help.Render(v.String()))
		}
	}
	return strings.Join(tabs, "  ")
}

func (m *Model) renderSelection() string {
	movie, customer := "none", "none"
	if m.snap.SelectedMovie != nil {
		movie = m.snap.SelectedMovie.Title
	}
	if m.snap.SelectedCustomer != nil {
		customer = m.snap.SelectedCustomer.Name
	}

	line := fmt.Sprintf("%s %s   %s %s",
		styles.label.Render("Selected Movie:"), movie,
		styles.label.Render("Selected Customer:"), customer)
	if m.snap.CanCreateRental() {
		line += styles.ok.Render("   (c to create rental)")
	}
	return line
}

func (m *Model) renderLoadErrors() string {
	var lines []string
	for _, r := range []services.Resource{services.Movies, services.Customers, services.Rentals} {
		if msg, ok := m.snap.LoadErrors[r]; ok {
			lines = append(lines, styles.warn.Render(fmt.Sprintf("could not load %s: %s", r, msg)))
		}
	}
	return strings.Join(lines, "\n")
}

func renderDetails(mv models.Movie) string {
	var b strings.Builder
	b.WriteString(styles.label.Render(mv.Title))
	fmt.Fprintf(&b, "\nExternal ID: %s", mv.ExternalID)
	if mv.ReleaseDate != "" {
		fmt.Fprintf(&b, "\nReleased: %s", mv.ReleaseDate)
	}
	if mv.Overview != "" {
		fmt.Fprintf(&b, "\n\n%s", mv.Overview)
	}
	if mv.ImageURL != "" {
		fmt.Fprintf(&b, "\n%s", styles.help.Render(mv.ImageURL))
	}
	return styles.pane.Render(b.String())
}
