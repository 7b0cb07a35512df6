// Package server exposes the movie catalog over a JSON HTTP API built on [chi].
//
// # Routes
//
//	GET    /health                         database health
//	GET    /users                          list users
//	POST   /users                          create a user {"name": "..."}
//	GET    /users/{name}/movies            list a user's movies (?q=, ?sort=, ?min_rating=, ?start_year=, ?end_year=)
//	POST   /users/{name}/movies            fetch metadata and add {"title": "..."}
//	PATCH  /users/{name}/movies/{title}    set {"year": 1999, "rating": 8.5}
//	DELETE /users/{name}/movies/{title}    remove a movie
//	GET    /users/{name}/stats             rating summary and histogram
//	GET    /users/{name}/site              the rendered HTML catalog page
//
// # Middleware
//
// [Middleware] wraps handlers in the order it is added. [RequestID] tags each request with a uuid that is echoed in
// the X-Request-ID header and attached to log lines by [RequestLogger].
//
// # Errors
//
// Handlers map catalog errors to status codes with [StatusFor]: invalid input is 400, unknown users and titles are
// 404, duplicates are 409, metadata lookup failures are 502 and everything else is 500. Error bodies are
// {"error": "..."}.
package server
