package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/searchai/searchai/internal/models"
)

// VectorStore is the semantic leg of hybrid search: a pgvector-backed
// document index on Postgres. The pool is safe for concurrent use.
type VectorStore struct {
	pool *pgxpool.Pool
	dims int
}

// NewVectorStore connects to Postgres and ensures the documents table and
// the pgvector extension exist.
func NewVectorStore(ctx context.Context, databaseURL string, dims int) (*VectorStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("pgxpool.New: %w", err)
	}

	s := &VectorStore{pool: pool, dims: dims}
	if err := s.migrate(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("vectorstore migrate: %w", err)
	}
	return s, nil
}

func (s *VectorStore) migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS documents (
			id         TEXT PRIMARY KEY,
			content    TEXT NOT NULL,
			embedding  vector(%d) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT now()
		)`, s.dims))
	return err
}

// TestConnection pings the database.
func (s *VectorStore) TestConnection(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Close releases the connection pool.
func (s *VectorStore) Close() {
	s.pool.Close()
}

// Upsert stores a document and its embedding, replacing any previous version.
func (s *VectorStore) Upsert(ctx context.Context, doc models.Document, embedding []float32) error {
	if len(embedding) != s.dims {
		return fmt.Errorf("embedding has %d dimensions, want %d", len(embedding), s.dims)
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO documents (id, content, embedding)
		VALUES ($1, $2, $3::vector)
		ON CONFLICT (id) DO UPDATE SET content = EXCLUDED.content, embedding = EXCLUDED.embedding`,
		doc.ID, doc.Content, vectorLiteral(embedding))
	if err != nil {
		return fmt.Errorf("upsert document: %w", err)
	}
	return nil
}

// Search returns the topK documents nearest to the query embedding by cosine
// distance, with scores in [0, 1] (1 = identical direction).
func (s *VectorStore) Search(ctx context.Context, embedding []float32, topK int) ([]models.SearchHit, error) {
	if topK <= 0 {
		topK = 10
	}

	rows, err := s.pool.Query(ctx, `
		SELECT id, content, 1 - (embedding <=> $1::vector) AS score
		FROM documents
		ORDER BY embedding <=> $1::vector
		LIMIT $2`,
		vectorLiteral(embedding), topK)
	if err != nil {
		return nil, fmt.Errorf("vector search: %w", err)
	}
	defer rows.Close()

	var out []models.SearchHit
	for rows.Next() {
		var hit models.SearchHit
		if err := rows.Scan(&hit.ID, &hit.Content, &hit.Score); err != nil {
			return nil, fmt.Errorf("scan hit: %w", err)
		}
		out = append(out, hit)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// vectorLiteral renders an embedding as a pgvector input literal, e.g.
// "[0.1,0.2,0.3]".
func vectorLiteral(embedding []float32) string {
	var b strings.Builder
	b.WriteByte('[')
	for i, v := range embedding {
		if i > 0 {
			b.WriteByte(',')
		}
		b.WriteString(strconv.FormatFloat(float64(v), 'f', -1, 32))
	}
	b.WriteByte(']')
	return b.String()
}
