// Package models defines the count ledger schema: sessions, their scope,
// the per-product quantity projection, and the append-only movement log,
// plus the pure replay fold that ties the projection to the log.
package models
