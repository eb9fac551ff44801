// Package services defines the [Catalog] interface for the remote rental catalog and implements it over HTTP.
//
// # Catalog Interface
//
// [Catalog] is the only collaborator the selection store talks to. It is authoritative for movies,
// customers, and rentals; the store only caches what it returns.
//
// # HTTP Implementation
//
// [CatalogService] maps each operation to one request against the configured base endpoint.
// Rental actions are keyed by movie title, which is escaped as a single path segment by [RentalPath].
//
// [APIService] is the raw transport underneath: it issues the request, reads the body, and detects JSON.
// The CLI's api subcommands use it directly for ad-hoc calls.
//
// # Error Handling
//
// Every failure wraps [shared.ErrAPIRequest]:
//   - transport errors keep the underlying message (e.g. "connection refused")
//   - non-2xx responses carry the backend's errors/error/message text when present, else "status <code>"
//
// Malformed collections wrap [shared.ErrInvalidPayload] and are never partially applied.
package services
