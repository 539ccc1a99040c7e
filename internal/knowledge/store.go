package knowledge

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"

	"github.com/sakshikumar19/mentor/internal/embedding"
	"github.com/sakshikumar19/mentor/internal/patterns"
)

const (
	patternsFile = "patterns.json"
	indexFile    = "index.db"
	// embedBatchSize bounds how many chunks are embedded per backend call.
	embedBatchSize = 32
)

// SimilarChunk is a retrieval result: one indexed chunk with provenance and
// its similarity to the query snippet.
type SimilarChunk struct {
	Content    string  `json:"content"`
	File       string  `json:"file"`
	Chunk      int     `json:"chunk"`
	Similarity float64 `json:"similarity"`
}

// LearnResult reports what a Learn call persisted.
type LearnResult struct {
	Chunks int
	// Indexed is false when no embedding backend is configured or the
	// backend failed; patterns are persisted regardless.
	Indexed bool
}

// LoadResult reports what a Load call restored. Success of the composite
// operation tracks patterns only; a missing index degrades retrieval but
// not pattern-based detection.
type LoadResult struct {
	PatternsLoaded bool
	IndexLoaded    bool
}

// Store owns the persisted knowledge for one storage path: the extracted
// pattern families and the similarity index over code chunks. Reads are
// safe for concurrent use; Learn must not run concurrently with itself.
type Store struct {
	path         string
	engine       embedding.Engine
	chunkSize    int
	chunkOverlap int
	logger       *zap.Logger

	mu       sync.RWMutex
	patterns *patterns.Set
	db       *sql.DB
}

// NewStore creates a Store rooted at path. engine may be nil, in which case
// the store persists patterns only and retrieval returns no results.
func NewStore(path string, engine embedding.Engine, chunkSize, chunkOverlap int, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 {
		chunkOverlap = 0
	}
	return &Store{
		path:         path,
		engine:       engine,
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		logger:       logger,
	}
}

// Path returns the storage root.
func (s *Store) Path() string { return s.path }

// Patterns returns the loaded pattern set, or nil if knowledge has not been
// learned or loaded yet.
func (s *Store) Patterns() *patterns.Set {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patterns
}

// Learn persists the pattern set and rebuilds the similarity index from the
// file mapping. Pattern persistence is atomic (write-then-rename); the
// index is built at a temporary path and renamed into place only once
// complete, so an interrupted learn never corrupts prior state.
func (s *Store) Learn(ctx context.Context, files map[string]string, set *patterns.Set) (LearnResult, error) {
	if err := os.MkdirAll(s.path, 0o755); err != nil {
		return LearnResult{}, fmt.Errorf("creating store directory: %w", err)
	}

	if err := s.writePatterns(set); err != nil {
		return LearnResult{}, err
	}
	s.mu.Lock()
	s.patterns = set
	s.mu.Unlock()

	if s.engine == nil {
		s.logger.Warn("no embedding backend configured, skipping similarity index")
		return LearnResult{Indexed: false}, nil
	}

	paths := make([]string, 0, len(files))
	for p := range files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	chunks := ChunkFiles(paths, files, s.chunkSize, s.chunkOverlap)

	if err := s.buildIndex(ctx, chunks); err != nil {
		// Degraded, not fatal: patterns are already persisted.
		s.logger.Warn("building similarity index failed", zap.Error(err))
		return LearnResult{Chunks: len(chunks), Indexed: false}, nil
	}

	s.logger.Info("knowledge learned",
		zap.String("path", s.path),
		zap.Int("files", len(files)),
		zap.Int("chunks", len(chunks)))
	return LearnResult{Chunks: len(chunks), Indexed: true}, nil
}

// Load restores patterns and the similarity index from disk for cold-start
// use by a fresh process.
func (s *Store) Load() LoadResult {
	var result LoadResult

	data, err := os.ReadFile(filepath.Join(s.path, patternsFile))
	if err == nil {
		var set patterns.Set
		if jsonErr := json.Unmarshal(data, &set); jsonErr == nil {
			s.mu.Lock()
			s.patterns = &set
			s.mu.Unlock()
			result.PatternsLoaded = true
		} else {
			s.logger.Warn("pattern document is corrupt", zap.Error(jsonErr))
		}
	} else if !os.IsNotExist(err) {
		s.logger.Warn("reading pattern document", zap.Error(err))
	}

	if err := s.openIndex(); err != nil {
		s.logger.Warn("similarity index unavailable", zap.Error(err))
	} else if s.dbLoaded() {
		result.IndexLoaded = true
	}

	return result
}

// Loaded reports whether patterns are available in memory.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.patterns != nil
}

// RetrieveSimilar returns up to k chunks most similar to the snippet.
// Missing index or embedding backend yields an empty result, never an
// error; backend failures degrade the same way with a warning.
func (s *Store) RetrieveSimilar(ctx context.Context, snippet string, k int) []SimilarChunk {
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()

	if db == nil || s.engine == nil {
		return nil
	}
	if k <= 0 {
		k = 5
	}

	queryVec, err := s.engine.Embed(ctx, snippet)
	if err != nil {
		s.logger.Warn("embedding query snippet failed", zap.Error(err))
		return nil
	}

	// Prefer the sqlite-vec table when the index carries one and the
	// extension is loaded; otherwise scan every stored embedding.
	results, vecErr := s.retrieveVec(ctx, db, queryVec, k)
	if vecErr == nil {
		return results
	}
	s.logger.Debug("vector table unavailable, scanning all chunks", zap.Error(vecErr))

	rows, err := db.QueryContext(ctx, "SELECT file, chunk_index, content, embedding FROM chunks")
	if err != nil {
		s.logger.Warn("querying similarity index failed", zap.Error(err))
		return nil
	}
	defer rows.Close()

	results = nil
	for rows.Next() {
		var chunk SimilarChunk
		var embJSON string
		if err := rows.Scan(&chunk.File, &chunk.Chunk, &chunk.Content, &embJSON); err != nil {
			continue
		}
		var vec []float32
		if err := json.Unmarshal([]byte(embJSON), &vec); err != nil {
			continue
		}
		sim, err := embedding.CosineSimilarity(queryVec, vec)
		if err != nil {
			continue
		}
		chunk.Similarity = sim
		results = append(results, chunk)
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Similarity > results[j].Similarity
	})
	if len(results) > k {
		results = results[:k]
	}
	return results
}

// retrieveVec answers the query through the vec_chunks virtual table. It
// fails when the index was built without sqlite-vec or the extension is not
// compiled into this binary, and the caller falls back to an exhaustive scan.
func (s *Store) retrieveVec(ctx context.Context, db *sql.DB, queryVec []float32, k int) ([]SimilarChunk, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT c.content, c.file, c.chunk_index,
			vec_distance_cosine(v.embedding, ?) AS distance
		FROM vec_chunks v
		JOIN chunks c ON c.id = v.rowid
		ORDER BY distance ASC
		LIMIT ?`,
		encodeVector(queryVec), k)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var results []SimilarChunk
	for rows.Next() {
		var chunk SimilarChunk
		var distance float64
		if err := rows.Scan(&chunk.Content, &chunk.File, &chunk.Chunk, &distance); err != nil {
			return nil, fmt.Errorf("scanning vector match: %w", err)
		}
		chunk.Similarity = 1 - distance
		results = append(results, chunk)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	return results, nil
}

// encodeVector serializes a float32 slice into the little-endian blob format
// sqlite-vec expects.
func encodeVector(vec []float32) []byte {
	buf := &bytes.Buffer{}
	if err := binary.Write(buf, binary.LittleEndian, vec); err != nil {
		return nil
	}
	return buf.Bytes()
}

// Stats describes the persisted knowledge for inspection commands.
type Stats struct {
	Path        string `json:"path"`
	HasPatterns bool   `json:"hasPatterns"`
	HasIndex    bool   `json:"hasIndex"`
	Chunks      int    `json:"chunks"`
	Files       int    `json:"files"`
}

// GetStats reports what is persisted at the storage path.
func (s *Store) GetStats() (Stats, error) {
	stats := Stats{Path: s.path}

	if _, err := os.Stat(filepath.Join(s.path, patternsFile)); err == nil {
		stats.HasPatterns = true
	}

	if err := s.openIndex(); err != nil {
		return stats, nil
	}
	s.mu.RLock()
	db := s.db
	s.mu.RUnlock()
	if db == nil {
		return stats, nil
	}
	stats.HasIndex = true
	if err := db.QueryRow("SELECT COUNT(*), COUNT(DISTINCT file) FROM chunks").Scan(&stats.Chunks, &stats.Files); err != nil {
		return stats, fmt.Errorf("counting chunks: %w", err)
	}
	return stats, nil
}

// Close releases the index database handle.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		err := s.db.Close()
		s.db = nil
		return err
	}
	return nil
}

// writePatterns persists the pattern document with canonical key ordering
// (struct field order plus sorted map keys from encoding/json).
func (s *Store) writePatterns(set *patterns.Set) error {
	data, err := json.MarshalIndent(set, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling patterns: %w", err)
	}
	target := filepath.Join(s.path, patternsFile)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing patterns: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("installing patterns: %w", err)
	}
	return nil
}

func (s *Store) buildIndex(ctx context.Context, chunks []Chunk) error {
	target := filepath.Join(s.path, indexFile)
	tmp := target + ".tmp"
	os.Remove(tmp)

	db, err := sql.Open("sqlite3", tmp)
	if err != nil {
		return fmt.Errorf("creating index database: %w", err)
	}

	if err := s.populateIndex(ctx, db, chunks); err != nil {
		db.Close()
		os.Remove(tmp)
		return err
	}
	if err := db.Close(); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing index database: %w", err)
	}

	// Swap the finished index into place, then reopen for reads.
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		s.db.Close()
		s.db = nil
	}
	if err := os.Rename(tmp, target); err != nil {
		return fmt.Errorf("installing index: %w", err)
	}
	opened, err := sql.Open("sqlite3", target)
	if err != nil {
		return fmt.Errorf("reopening index: %w", err)
	}
	s.db = opened
	return nil
}

func (s *Store) populateIndex(ctx context.Context, db *sql.DB, chunks []Chunk) error {
	const schema = `CREATE TABLE chunks (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		file TEXT NOT NULL,
		chunk_index INTEGER NOT NULL,
		content TEXT NOT NULL,
		embedding TEXT NOT NULL
	)`
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("creating schema: %w", err)
	}

	// The vec0 table accelerates retrieval when the sqlite-vec extension is
	// compiled in. Its absence is not a failure: retrieval falls back to
	// scanning the chunks table.
	vecSchema := fmt.Sprintf("CREATE VIRTUAL TABLE vec_chunks USING vec0(embedding float[%d])",
		s.engine.Dimensions())
	hasVec := true
	if _, err := db.ExecContext(ctx, vecSchema); err != nil {
		s.logger.Debug("sqlite-vec unavailable, index will use exhaustive scan", zap.Error(err))
		hasVec = false
	}

	for start := 0; start < len(chunks); start += embedBatchSize {
		end := start + embedBatchSize
		if end > len(chunks) {
			end = len(chunks)
		}
		batch := chunks[start:end]

		texts := make([]string, len(batch))
		for i, c := range batch {
			texts[i] = c.Content
		}
		vecs, err := s.engine.EmbedBatch(ctx, texts)
		if err != nil {
			return fmt.Errorf("embedding batch: %w", err)
		}

		tx, err := db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("starting transaction: %w", err)
		}
		for i, c := range batch {
			embJSON, err := json.Marshal(vecs[i])
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("serializing embedding: %w", err)
			}
			res, err := tx.ExecContext(ctx,
				"INSERT INTO chunks (file, chunk_index, content, embedding) VALUES (?, ?, ?, ?)",
				c.File, c.Index, c.Content, string(embJSON))
			if err != nil {
				tx.Rollback()
				return fmt.Errorf("inserting chunk: %w", err)
			}
			if hasVec {
				rowID, err := res.LastInsertId()
				if err != nil {
					tx.Rollback()
					return fmt.Errorf("resolving chunk id: %w", err)
				}
				if _, err := tx.ExecContext(ctx,
					"INSERT INTO vec_chunks (rowid, embedding) VALUES (?, ?)",
					rowID, encodeVector(vecs[i])); err != nil {
					tx.Rollback()
					return fmt.Errorf("inserting vector: %w", err)
				}
			}
		}
		if err := tx.Commit(); err != nil {
			return fmt.Errorf("committing batch: %w", err)
		}
	}
	return nil
}

func (s *Store) openIndex() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.db != nil {
		return nil
	}
	path := filepath.Join(s.path, indexFile)
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return fmt.Errorf("opening index: %w", err)
	}
	s.db = db
	return nil
}

func (s *Store) dbLoaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.db != nil
}
