// Package middleware groups the HTTP middlewares of the application.
//
//   - rayid: assigns a correlation id to every request, readable by the
//     logger's WithRayID helper.
//   - auth: shared API key gate for the whole API surface.
package middleware
