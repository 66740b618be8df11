// Package counting owns count sessions and the movement ledger.
//
// Every quantity change goes through one of three mutations (Increment for
// barcode-scan accumulation, SetAbsolute for administrative overwrites,
// Remove), each of which appends an immutable Movement and updates the
// CountItem projection inside a single transaction. The projection is a
// cache: replaying a pair's movements must always reproduce it, and
// VerifyLedger checks exactly that.
//
// Concurrency: the unit of exclusivity is the (session, product) pair.
// Same-key mutations serialize through a keyed mutex plus a row lock on
// MySQL; different keys proceed independently.
//
// # HTTP Endpoints
//
//   - POST   /counting/sessions : Create a session.
//   - GET    /counting/sessions : List sessions.
//   - GET    /counting/sessions/:id : Session detail with items and stats.
//   - POST   /counting/sessions/:id/finalize : Finalize (irreversible).
//   - POST   /counting/sessions/:id/cancel : Cancel (excluded from totals).
//   - POST   /counting/sessions/:id/items : Count a product.
//   - PUT    /counting/sessions/:id/items/:productID : Absolute correction.
//   - DELETE /counting/sessions/:id/items/:productID : Remove an item.
//   - GET    /counting/sessions/:id/movements : Ledger listing.
//   - GET    /counting/sessions/:id/movements/summary : Ledger summary.
//   - GET    /counting/sessions/:id/verify : Replay verification.
//   - GET    /counting/products/:id/stock : Latest finalized quantity.
package counting
