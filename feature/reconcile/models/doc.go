// Package models defines the reconciliation schema: sheets, the external
// system snapshot records, and the per-product variance lines.
package models
