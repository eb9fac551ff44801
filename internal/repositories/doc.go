// Package repositories implements SQLite persistence for the development catalog backend.
//
// Key Implementations:
//   - [MovieRepository] : Rental library with external_id uniqueness and title lookups
//   - [CustomerRepository] : Customers with a derived count of open rentals
//   - [RentalRepository] : Check-out and return bookkeeping; a rental is open until returned_at is set
//
// Backend identifiers are SQLite integer keys exposed as [models.ID] strings. Rental identifiers are UUIDs.
// Constraint violations surface as [shared.ErrConflict] and missing rows as [shared.ErrNotFound].
package repositories
