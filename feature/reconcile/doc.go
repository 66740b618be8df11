// Package reconcile owns reconciliation sheets: the three-way comparison of
// two external-system snapshots against the physical count aggregate.
//
// The physical column is derived, never entered by hand. RecomputePhysical
// sums finalized sessions per product, except where a finalized recount
// session spawned from the sheet covers the product: there the recount total
// replaces the normal aggregate outright. Diffs are recomputed from the
// stored columns on every run, so the invariant diff = physical - system
// holds for every line at rest.
//
// # HTTP Endpoints
//
//   - POST /reconcile/sheets : Create a sheet.
//   - GET  /reconcile/sheets : List sheets.
//   - GET  /reconcile/sheets/:id : Sheet detail with variance lines.
//   - POST /reconcile/sheets/:id/snapshots/:slot : Ingest a system snapshot.
//   - POST /reconcile/sheets/:id/recompute : Re-aggregate physical and diffs.
//   - POST /reconcile/sheets/:id/recount : Spawn or extend a recount session.
package reconcile
