// Package ui implements the interactive rental desk using bubbletea's Elm architecture.
//
// The TUI cycles between four list views with tab:
//  1. [LibraryView] : Movies in the rental library, filterable with /
//  2. [CustomersView] : Customers who can rent a movie
//  3. [RentalsView] : Current and past rentals, with overdue ones flagged
//  4. [SearchView] : External movie search results that can be added to the library
//
// A details pane for the highlighted movie is toggled with d from the library and search views.
//
// The (view) [Model] never owns rental state. It reads [store.Snapshot] values and dispatches intents to
// [store.Store]; network operations run as tea.Cmds whose completions arrive as a Msg carrying a fresh snapshot.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, q) with contextual help displayed via
// charmbracelet/bubbles/help.
package ui
