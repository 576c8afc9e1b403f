// Package sqlite stores research namespaces as collections in a single
// SQLite file, <VECTORSTORE_DIR>/vectors.db, through the pure Go
// modernc.org/sqlite driver.
//
// Each collection records its distance space and vector size. Records keep
// the chunk text, its metadata as JSON and the embedding packed as
// little-endian float32. The ingest_runs table keeps one row per ingest,
// including the indexed sources as JSON.
//
// Queries score every record in the collection with cosine distance; there
// is no approximate index.
//
// The schema is created by the numbered migrations embedded from
// migrations/. The database runs in WAL mode and the store is safe for
// concurrent use.
package sqlite
