package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"github.com/custodia-labs/scout/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/custodia-labs/scout/internal/adapters/driven/storage/similarity"
	"github.com/custodia-labs/scout/internal/core/domain"
	"github.com/custodia-labs/scout/internal/core/ports/driven"
)

// Ensure Store implements the interfaces.
var (
	_ driven.VectorStore = (*Store)(nil)
	_ driven.RunStore    = (*Store)(nil)
)

// dbFile is the database file name inside the store directory.
const dbFile = "vectors.db"

// Store is a SQLite-backed vector and run store.
type Store struct {
	db   *sql.DB
	path string
}

// NewStore creates a new SQLite store in dataDir, creating the directory
// if needed.
func NewStore(dataDir string) (*Store, error) {
	if dataDir == "" {
		return nil, fmt.Errorf("%w: vector store directory is empty", domain.ErrInvalidConfig)
	}

	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, fmt.Errorf("%w: creating data directory: %w", domain.ErrStorage, err)
	}

	dbPath := filepath.Join(dataDir, dbFile)

	// WAL for concurrent readers; foreign keys per connection for cascade deletes.
	dsn := dbPath + "?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: opening database: %w", domain.ErrStorage, err)
	}

	s := &Store{
		db:   db,
		path: dbPath,
	}

	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: running migrations: %w", domain.ErrStorage, err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

// migrate runs all pending migrations, recording each applied version.
func (s *Store) migrate(fsys embed.FS) error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	var upFiles []string
	for _, entry := range entries {
		if name := entry.Name(); strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// "001_initial.up.sql" -> 1
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue
		}
		if version <= currentVersion {
			continue
		}

		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		tx, err := s.db.Begin()
		if err != nil {
			return fmt.Errorf("starting migration %s: %w", name, err)
		}
		if _, err := tx.Exec(string(content)); err != nil {
			tx.Rollback()
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
		if _, err := tx.Exec("INSERT INTO schema_migrations (version) VALUES (?)", version); err != nil {
			tx.Rollback()
			return fmt.Errorf("recording migration %s: %w", name, err)
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing migration %s: %w", name, err)
		}
	}

	return nil
}

// storageErr marks err as a vector store failure.
func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", domain.ErrStorage, op, err)
}

// ==================== Collections ====================

// CollectionExists reports whether the named collection has been created.
func (s *Store) CollectionExists(ctx context.Context, name string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM collections WHERE name = ?", name).Scan(&one)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, storageErr("checking collection", err)
	}
	return true, nil
}

// EnsureCollection creates the collection if absent.
func (s *Store) EnsureCollection(ctx context.Context, name, space string) error {
	if name == "" {
		return fmt.Errorf("%w: collection name is empty", domain.ErrInvalidInput)
	}
	if space == "" {
		space = driven.DistanceCosine
	}
	if space != driven.DistanceCosine {
		return fmt.Errorf("%w: unsupported distance space %q", domain.ErrInvalidInput, space)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO collections (name, space, dimensions, created_at)
		VALUES (?, ?, 0, ?)
		ON CONFLICT(name) DO NOTHING
	`, name, space, time.Now().UTC())
	if err != nil {
		return storageErr("creating collection", err)
	}
	return nil
}

// ListCollections returns all collections whose name starts with prefix.
func (s *Store) ListCollections(ctx context.Context, prefix string) ([]driven.CollectionInfo, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.name, c.space, c.dimensions, c.created_at, COUNT(r.id)
		FROM collections c
		LEFT JOIN records r ON r.collection = c.name
		WHERE substr(c.name, 1, ?) = ?
		GROUP BY c.name
		ORDER BY c.name
	`, len(prefix), prefix)
	if err != nil {
		return nil, storageErr("listing collections", err)
	}
	defer rows.Close()

	var out []driven.CollectionInfo
	for rows.Next() {
		var info driven.CollectionInfo
		if err := rows.Scan(&info.Name, &info.Space, &info.Dimensions, &info.CreatedAt, &info.Count); err != nil {
			return nil, storageErr("scanning collection", err)
		}
		out = append(out, info)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("listing collections", err)
	}
	return out, nil
}

// DeleteCollection drops a collection and, by cascade, its records.
func (s *Store) DeleteCollection(ctx context.Context, name string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM collections WHERE name = ?", name)
	if err != nil {
		return storageErr("deleting collection", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return storageErr("deleting collection", err)
	}
	if n == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ==================== Records ====================

// Upsert inserts or overwrites records by ID. The first record written fixes
// the collection's dimensions; later records must match.
func (s *Store) Upsert(ctx context.Context, name string, records []domain.EmbeddingRecord) error {
	if len(records) == 0 {
		return nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr("starting upsert", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after commit

	var dims int
	err = tx.QueryRowContext(ctx, "SELECT dimensions FROM collections WHERE name = ?", name).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return storageErr("reading collection", err)
	}

	if dims == 0 {
		dims = len(records[0].Vector)
		if _, err := tx.ExecContext(ctx, "UPDATE collections SET dimensions = ? WHERE name = ?", dims, name); err != nil {
			return storageErr("setting dimensions", err)
		}
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO records (collection, id, document, metadata, embedding)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(collection, id) DO UPDATE SET
			document = excluded.document,
			metadata = excluded.metadata,
			embedding = excluded.embedding
	`)
	if err != nil {
		return storageErr("preparing upsert", err)
	}
	defer stmt.Close()

	for _, rec := range records {
		if len(rec.Vector) != dims {
			return fmt.Errorf("%w: record %s has %d dimensions, collection %q has %d: %w",
				domain.ErrStorage, rec.ID, len(rec.Vector), name, dims, domain.ErrDimensionMismatch)
		}
		meta, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("marshalling metadata: %w", err)
		}
		if _, err := stmt.ExecContext(ctx, name, rec.ID, rec.Document, string(meta), float32SliceToBytes(rec.Vector)); err != nil {
			return storageErr("writing record", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return storageErr("committing upsert", err)
	}
	return nil
}

// Query returns the k records nearest to vector by cosine distance.
func (s *Store) Query(ctx context.Context, name string, vector []float32, k int) ([]domain.VectorMatch, error) {
	var dims int
	err := s.db.QueryRowContext(ctx, "SELECT dimensions FROM collections WHERE name = ?", name).Scan(&dims)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}
	if err != nil {
		return nil, storageErr("reading collection", err)
	}
	if dims == 0 || k <= 0 {
		return nil, nil
	}
	if len(vector) != dims {
		return nil, fmt.Errorf("%w: query has %d dimensions, collection %q has %d: %w",
			domain.ErrStorage, len(vector), name, dims, domain.ErrDimensionMismatch)
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, document, metadata, embedding FROM records WHERE collection = ?", name)
	if err != nil {
		return nil, storageErr("querying records", err)
	}
	defer rows.Close()

	var matches []domain.VectorMatch
	for rows.Next() {
		var (
			m        domain.VectorMatch
			metaJSON string
			blob     []byte
		)
		if err := rows.Scan(&m.ID, &m.Document, &metaJSON, &blob); err != nil {
			return nil, storageErr("scanning record", err)
		}
		if err := json.Unmarshal([]byte(metaJSON), &m.Metadata); err != nil {
			return nil, storageErr("decoding metadata", err)
		}
		m.Distance = similarity.CosineDistance(vector, bytesToFloat32Slice(blob))
		matches = append(matches, m)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("querying records", err)
	}

	return similarity.TopK(matches, k), nil
}

// Count returns the number of records in the collection.
func (s *Store) Count(ctx context.Context, name string) (int, error) {
	exists, err := s.CollectionExists(ctx, name)
	if err != nil {
		return 0, err
	}
	if !exists {
		return 0, fmt.Errorf("collection %q: %w", name, domain.ErrNotFound)
	}

	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM records WHERE collection = ?", name).Scan(&n); err != nil {
		return 0, storageErr("counting records", err)
	}
	return n, nil
}

// ==================== Runs ====================

// SaveRun records a finished ingestion run.
func (s *Store) SaveRun(ctx context.Context, summary domain.IngestSummary) error {
	sources, err := json.Marshal(summary.Sources)
	if err != nil {
		return storageErr("encoding run sources", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO ingest_runs (id, topic, namespace, indexed_pages, indexed_chunks, skipped_pages, started_at, duration_ms, sources)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, summary.RunID, summary.Topic, summary.Namespace, summary.IndexedPages, summary.IndexedChunks,
		summary.SkippedPages, summary.StartedAt.UTC(), summary.Duration.Milliseconds(), string(sources))
	if err != nil {
		return storageErr("saving run", err)
	}
	return nil
}

// ListRuns returns the most recent runs, newest first.
func (s *Store) ListRuns(ctx context.Context, namespace string, limit int) ([]domain.IngestSummary, error) {
	if limit <= 0 {
		limit = 20
	}

	query := `
		SELECT id, topic, namespace, indexed_pages, indexed_chunks, skipped_pages, started_at, duration_ms, sources
		FROM ingest_runs`
	args := []any{}
	if namespace != "" {
		query += " WHERE namespace = ?"
		args = append(args, namespace)
	}
	query += " ORDER BY started_at DESC, id LIMIT ?"
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr("listing runs", err)
	}
	defer rows.Close()

	var runs []domain.IngestSummary
	for rows.Next() {
		var (
			run        domain.IngestSummary
			durationMS int64
			sources    string
		)
		if err := rows.Scan(&run.RunID, &run.Topic, &run.Namespace, &run.IndexedPages,
			&run.IndexedChunks, &run.SkippedPages, &run.StartedAt, &durationMS, &sources); err != nil {
			return nil, storageErr("scanning run", err)
		}
		if err := json.Unmarshal([]byte(sources), &run.Sources); err != nil {
			return nil, storageErr("decoding run sources", err)
		}
		run.Duration = time.Duration(durationMS) * time.Millisecond
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr("listing runs", err)
	}
	return runs, nil
}

// ==================== Helpers ====================

// float32SliceToBytes converts a float32 slice to little-endian bytes.
func float32SliceToBytes(floats []float32) []byte {
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts little-endian bytes back to a float32 slice.
func bytesToFloat32Slice(data []byte) []float32 {
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}
