// Package catalog provides read access to the product catalog.
//
// The catalog is owned by an external system; this feature only reads it.
// It resolves free-text terms from the counting screen to a single product
// (barcode scans, codes, names) and enumerates product ids for the
// reconciliation aggregator. The Active flag is deliberately not filtered
// anywhere: inactive products still get counted and reconciled.
//
// # HTTP Endpoints
//
//   - GET /catalog/products : List products (paginated).
//   - GET /catalog/products/search?q= : Search products.
//   - GET /catalog/products/:id : Get a single product.
package catalog
