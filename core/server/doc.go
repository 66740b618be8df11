// Package server holds the HTTP server configuration.
//
// It is intentionally small: the Fiber app itself is assembled in the
// start command, and this package only carries the settings (port,
// API key) that the command and the auth middleware need.
package server
