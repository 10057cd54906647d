package sqlite

import (
	"context"
	"database/sql"
	"embed"
	"encoding/binary"
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

	"github.com/khanhduydev/portfolio-rag/internal/adapters/driven/storage/sqlite/migrations"
	"github.com/khanhduydev/portfolio-rag/internal/core/domain"
	"github.com/khanhduydev/portfolio-rag/internal/core/ports/driven"
	"github.com/khanhduydev/portfolio-rag/internal/logger"
)

// Ensure Store implements the interface.
var _ driven.DocumentStore = (*Store)(nil)

// Store is the SQLite-backed document store. It owns embedding computation
// for chunks and queries via the injected embedding service.
type Store struct {
	db       *sql.DB
	path     string
	embedder driven.EmbeddingService
}

// NewStore opens (or creates) the knowledge base at the specified data
// directory. If dataDir is empty, defaults to ~/.portfolio-rag/data.
func NewStore(dataDir string, embedder driven.EmbeddingService) (*Store, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".portfolio-rag", "data")
	}

	// Ensure directory exists
	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	dbPath := filepath.Join(dataDir, "knowledge.db")

	// Open database with WAL mode for better concurrency
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	s := &Store{
		db:       db,
		path:     dbPath,
		embedder: embedder,
	}

	// Run migrations
	if err := s.migrate(migrations.FS); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
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

// migrate runs all pending migrations.
func (s *Store) migrate(fsys embed.FS) error {
	// Ensure schema_migrations table exists
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schema_migrations (
			version INTEGER PRIMARY KEY,
			applied_at DATETIME DEFAULT CURRENT_TIMESTAMP
		)
	`)
	if err != nil {
		return fmt.Errorf("creating schema_migrations table: %w", err)
	}

	// Get current version
	var currentVersion int
	row := s.db.QueryRow("SELECT COALESCE(MAX(version), 0) FROM schema_migrations")
	if err := row.Scan(&currentVersion); err != nil {
		return fmt.Errorf("getting current version: %w", err)
	}

	// Find all up migrations
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return fmt.Errorf("reading migrations directory: %w", err)
	}

	// Sort and run migrations
	var upFiles []string
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasSuffix(name, ".up.sql") {
			upFiles = append(upFiles, name)
		}
	}
	sort.Strings(upFiles)

	for _, name := range upFiles {
		// Extract version number (e.g., "001_initial.up.sql" -> 1)
		var version int
		if _, err := fmt.Sscanf(name, "%d_", &version); err != nil {
			continue // Skip files that don't match pattern
		}

		if version <= currentVersion {
			continue // Already applied
		}

		// Read and execute migration
		content, err := fs.ReadFile(fsys, name)
		if err != nil {
			return fmt.Errorf("reading migration %s: %w", name, err)
		}

		if _, err := s.db.Exec(string(content)); err != nil {
			return fmt.Errorf("executing migration %s: %w", name, err)
		}
	}

	return nil
}

// AddDocument upserts a single chunk, embedding its content first when
// the embedding is absent.
func (s *Store) AddDocument(ctx context.Context, chunk *domain.Chunk) error {
	if chunk == nil || chunk.Content == "" {
		return fmt.Errorf("empty chunk: %w", domain.ErrInvalidInput)
	}

	if chunk.Embedding == nil {
		embedding, err := s.embedder.Embed(ctx, chunk.Content)
		if err != nil {
			return fmt.Errorf("embed chunk %s: %w", chunk.ID, errors.Join(domain.ErrEmbeddingFailed, err))
		}
		chunk.Embedding = embedding
	}

	if chunk.CreatedAt.IsZero() {
		chunk.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO documents (id, content, source, title, page, chunk_index, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			title = excluded.title,
			page = excluded.page,
			chunk_index = excluded.chunk_index,
			embedding = excluded.embedding
	`, chunk.ID, chunk.Content, chunk.Source, nullString(chunk.Title),
		nullInt(chunk.Page), chunk.ChunkIndex,
		float32SliceToBytes(chunk.Embedding), chunk.CreatedAt)

	if err != nil {
		return fmt.Errorf("saving chunk %s: %w", chunk.ID, errors.Join(domain.ErrStorageFailed, err))
	}
	return nil
}

// AddDocuments upserts a batch of chunks as one transaction. Missing
// embeddings are computed up front so an embedding failure never leaves a
// half-written batch, and a write failure rolls the batch back entirely.
func (s *Store) AddDocuments(ctx context.Context, chunks []domain.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}

	if err := s.embedMissing(ctx, chunks); err != nil {
		return err
	}

	now := time.Now().UTC()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	defer tx.Rollback() //nolint:errcheck

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO documents (id, content, source, title, page, chunk_index, embedding, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			content = excluded.content,
			source = excluded.source,
			title = excluded.title,
			page = excluded.page,
			chunk_index = excluded.chunk_index,
			embedding = excluded.embedding
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	defer stmt.Close()

	for i := range chunks {
		chunk := &chunks[i]
		if chunk.CreatedAt.IsZero() {
			chunk.CreatedAt = now
		}

		if _, err := stmt.ExecContext(ctx, chunk.ID, chunk.Content, chunk.Source,
			nullString(chunk.Title), nullInt(chunk.Page), chunk.ChunkIndex,
			float32SliceToBytes(chunk.Embedding), chunk.CreatedAt); err != nil {
			return fmt.Errorf("saving chunk %s: %w", chunk.ID, errors.Join(domain.ErrStorageFailed, err))
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	return nil
}

// embedMissing fills in embeddings for chunks that lack one, in input order.
func (s *Store) embedMissing(ctx context.Context, chunks []domain.Chunk) error {
	var missing []int
	var texts []string
	for i := range chunks {
		if chunks[i].Content == "" {
			return fmt.Errorf("empty chunk %s: %w", chunks[i].ID, domain.ErrInvalidInput)
		}
		if chunks[i].Embedding == nil {
			missing = append(missing, i)
			texts = append(texts, chunks[i].Content)
		}
	}
	if len(missing) == 0 {
		return nil
	}

	logger.Debug("embedding %d of %d chunks", len(missing), len(chunks))
	embeddings, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("embed batch: %w", errors.Join(domain.ErrEmbeddingFailed, err))
	}
	if len(embeddings) != len(missing) {
		return fmt.Errorf("embed batch returned %d vectors for %d texts: %w",
			len(embeddings), len(missing), domain.ErrEmbeddingFailed)
	}

	for j, i := range missing {
		chunks[i].Embedding = embeddings[j]
	}
	return nil
}

// SearchSimilar embeds the query and scans every stored chunk, keeping the
// best limit matches. Rows are visited in rowid (insertion) order, and a
// candidate replaces a kept result only when strictly more similar, so ties
// resolve deterministically to the earlier insertion.
func (s *Store) SearchSimilar(ctx context.Context, query string, limit int) ([]domain.SearchResult, error) {
	if limit <= 0 {
		limit = domain.DefaultTopK
	}

	queryEmbedding, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", errors.Join(domain.ErrEmbeddingFailed, err))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, title, page, chunk_index, embedding, created_at
		FROM documents ORDER BY rowid
	`)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	defer rows.Close()

	var top []domain.SearchResult
	scanned := 0
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		scanned++

		if len(chunk.Embedding) != len(queryEmbedding) {
			return nil, fmt.Errorf("chunk %s has %d dimensions, query has %d: %w",
				chunk.ID, len(chunk.Embedding), len(queryEmbedding), domain.ErrDimensionMismatch)
		}

		similarity := domain.CosineSimilarity(queryEmbedding, chunk.Embedding)
		top = insertTopK(top, domain.SearchResult{Chunk: *chunk, Similarity: similarity}, limit)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", errors.Join(domain.ErrStorageFailed, err))
	}

	logger.Debug("scanned %d chunks, returning %d", scanned, len(top))
	return top, nil
}

// insertTopK inserts r into the descending-similarity slice, keeping at
// most limit entries. Equal similarities go after existing entries.
func insertTopK(results []domain.SearchResult, r domain.SearchResult, limit int) []domain.SearchResult {
	pos := len(results)
	for i := range results {
		if r.Similarity > results[i].Similarity {
			pos = i
			break
		}
	}
	if pos == len(results) {
		if len(results) < limit {
			return append(results, r)
		}
		return results
	}

	results = append(results, domain.SearchResult{})
	copy(results[pos+1:], results[pos:])
	results[pos] = r
	if len(results) > limit {
		results = results[:limit]
	}
	return results
}

// GetBySource returns all chunks for one source, chunk_index ascending.
func (s *Store) GetBySource(ctx context.Context, source string) ([]domain.Chunk, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, source, title, page, chunk_index, embedding, created_at
		FROM documents WHERE source = ?
		ORDER BY chunk_index
	`, source)
	if err != nil {
		return nil, fmt.Errorf("querying chunks: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	defer rows.Close()

	var chunks []domain.Chunk //nolint:prealloc // size unknown from query
	for rows.Next() {
		chunk, err := scanChunk(rows)
		if err != nil {
			return nil, err
		}
		chunks = append(chunks, *chunk)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating chunks: %w", errors.Join(domain.ErrStorageFailed, err))
	}

	return chunks, nil
}

// DeleteBySource removes all chunks for the source.
func (s *Store) DeleteBySource(ctx context.Context, source string) error {
	_, err := s.db.ExecContext(ctx, "DELETE FROM documents WHERE source = ?", source)
	if err != nil {
		return fmt.Errorf("deleting source %s: %w", source, errors.Join(domain.ErrStorageFailed, err))
	}
	return nil
}

// Count returns the total number of stored chunks.
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM documents").Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("counting chunks: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	return count, nil
}

// Sources returns the distinct sources present in the store.
func (s *Store) Sources(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT DISTINCT source FROM documents ORDER BY source")
	if err != nil {
		return nil, fmt.Errorf("querying sources: %w", errors.Join(domain.ErrStorageFailed, err))
	}
	defer rows.Close()

	var sources []string //nolint:prealloc // size unknown from query
	for rows.Next() {
		var source string
		if err := rows.Scan(&source); err != nil {
			return nil, fmt.Errorf("scanning source: %w", errors.Join(domain.ErrStorageFailed, err))
		}
		sources = append(sources, source)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating sources: %w", errors.Join(domain.ErrStorageFailed, err))
	}

	return sources, nil
}

// ==================== Helper Functions ====================

// scanChunk scans a chunk from *sql.Rows.
func scanChunk(rows *sql.Rows) (*domain.Chunk, error) {
	var chunk domain.Chunk
	var title sql.NullString
	var page sql.NullInt64
	var embeddingBlob []byte
	var createdAt sql.NullTime

	if err := rows.Scan(&chunk.ID, &chunk.Content, &chunk.Source, &title,
		&page, &chunk.ChunkIndex, &embeddingBlob, &createdAt); err != nil {
		return nil, fmt.Errorf("scanning chunk: %w", errors.Join(domain.ErrStorageFailed, err))
	}

	chunk.Title = title.String
	chunk.Page = int(page.Int64)
	chunk.Embedding = bytesToFloat32Slice(embeddingBlob)
	if createdAt.Valid {
		chunk.CreatedAt = createdAt.Time
	}

	return &chunk, nil
}

// float32SliceToBytes converts a []float32 to a byte slice for storage.
func float32SliceToBytes(floats []float32) []byte {
	if len(floats) == 0 {
		return nil
	}
	buf := make([]byte, len(floats)*4)
	for i, f := range floats {
		binary.LittleEndian.PutUint32(buf[i*4:], math.Float32bits(f))
	}
	return buf
}

// bytesToFloat32Slice converts a byte slice back to []float32.
func bytesToFloat32Slice(data []byte) []float32 {
	if len(data) == 0 {
		return nil
	}
	floats := make([]float32, len(data)/4)
	for i := range floats {
		floats[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4:]))
	}
	return floats
}

// nullString converts an empty string to a NULL column value.
func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullInt converts a zero int to a NULL column value.
func nullInt(n int) sql.NullInt64 {
	return sql.NullInt64{Int64: int64(n), Valid: n != 0}
}
