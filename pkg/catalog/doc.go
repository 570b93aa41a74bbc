// Package catalog implements the product catalog and digital-asset
// lifecycle for the storefront: creating products with a bound cover
// image, listing and retrieving them, and minting time-boxed upload and
// download links for purchasable assets.
//
// The package is built around two capability interfaces, BlobStore for
// the object store and Repository for the catalog store, so callers can
// substitute in-memory implementations in tests. Service orchestrates
// them with a strict ordering on writes: input is validated before any
// external call, asset bytes are persisted before the catalog record
// that references them, and a record is only ever inserted fully
// populated.
package catalog
