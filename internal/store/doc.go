// Package store implements the selection state machine for the rental client.
//
// A [Store] owns the session's view of the catalog: the cached movie, customer, and rental
// collections, the selected movie and customer, the single open movie detail slot, and the
// single active [Notification]. All mutation goes through Store methods; readers receive
// deep-copied [Snapshot] values, either on demand via [Store.Snapshot] or pushed through
// [Store.Subscribe].
//
// # Network Calls
//
// Methods that talk to the [services.Catalog] never hold the store lock across the call.
// The completion is applied as one atomic update, so concurrent operations never block each
// other and their completions may land in any order. [Store.Initialize] issues the three list
// calls concurrently and joins them independently: one failing does not cancel the others.
//
// # Failures
//
// Local validation failures (duplicate movie, incomplete selection) set an error notification
// without a network call. Catalog failures set an error notification carrying the message and
// are recorded as the last error. Bootstrap load failures are recorded per resource but do not
// notify. Lookup misses are silent. Nothing is retried.
package store
