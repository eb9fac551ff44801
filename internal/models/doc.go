// Package models defines the rental catalog records exchanged with the catalog backend.
//
// The package contains:
//   - [ID] : Opaque identifier accepting either JSON strings or JSON numbers
//   - [Movie] : Catalog entry keyed by its external (provider) identifier
//   - [Customer] : Read-only customer record owned by the backend
//   - [Rental] : Movie/customer pair with a due date and returned flag
//
// Records are validated at the boundary: [DecodeMovies], [DecodeCustomers], and [DecodeRentals]
// reject a collection containing any malformed record with [shared.ErrInvalidPayload]
// rather than passing through zero-valued fields.
package models
