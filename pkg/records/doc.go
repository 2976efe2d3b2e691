// Package records provides the data model shared by the inventory client, the
// spreadsheet client, and the reconciler.
//
// A Product is what the inventory API returns for one identifier. A Row is the
// flattened, display-ready form of a Product restricted to the configured
// attribute keys. A Table is a header-labeled view of a worksheet or an
// uploaded file, with case-insensitive column lookups.
package records
