// Package server provides the HTTP routing, middleware and handlers of the development catalog backend.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] method patterns ("POST /rentals/{title}/check-out").
//
// # Catalog API
//
// [CatalogHandler] serves the REST contract the rentx client speaks:
//
//	GET  /movies[?query=q]
//	POST /movies
//	GET  /customers
//	GET  /rentals
//	POST /rentals/{title}/check-out   {"customer_id", "due_date"}
//	POST /rentals/{title}/return      {"customer_id", "movie_id"}
//
// Failures are written as {"errors": "..."} with 404 for unknown titles or customers, 409 for a movie the customer
// already has checked out, and 422 for malformed bodies.
//
// # Middleware
//
// [NewCatalogRouter] installs [RequestID], [Recover], [Logging] and [RateLimit] in that order.
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
