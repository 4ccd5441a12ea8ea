// Package server provides HTTP routing, middleware, and the todo JSON handlers.
//
// # Router Infrastructure
//
// The [Router] interface defines HTTP routing with middleware support.
//
// [Middleware] wraps handlers in reverse order (last added executes first), following the standard Go pattern.
//
// The [BasicRouter] implementation uses [http.ServeMux] internally with method filtering.
//
// # Todo Routes
//
// [TodoHandler] maps the four store procedures onto JSON routes:
//
//	POST /add     {item}            -> {result: true}
//	GET  /list                      -> {result: [Todo]}
//	POST /update  {id, item, done}  -> {result: true}
//	POST /remove  {id}              -> {result: true}
//
// Failures use {result: false, error}. The handler logs the error with the
// request id and stops; errors are never re-raised after a response has been
// written.
//
// # Middleware
//
//   - [RequestID] : assigns X-Request-ID and a request-scoped logger
//   - [Logging] : one structured log line per request
//   - [Recover] : converts panics into a 500 failure envelope
//   - [RateLimit] : token bucket, 429 once the burst is spent
//   - [Metrics.Middleware] : Prometheus request counters and latencies
//
// # Handler Interface
//
// Custom handlers implement the [Handler] interface, which wraps the stdlib handler interface and adds routes,
// allowing handlers to register multiple routes to encapsulate route definitions within the implementation.
package server
