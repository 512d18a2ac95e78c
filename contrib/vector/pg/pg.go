package pg

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/lib/pq"

	"legalassist/vector"
)

// Store implements vector.Indexer on PostgreSQL with the pgvector extension.
// Passages are embedded at ingestion time; search embeds the query and ranks
// by cosine distance in the database.
type Store struct {
	db        *sql.DB
	embedder  vector.Embedder
	dimension int
	tableName string
}

// Config holds pgvector configuration
type Config struct {
	Host      string
	Port      int
	User      string
	Password  string
	DBName    string
	SSLMode   string
	Dimension int    // Embedding dimension (default: 1536 for OpenAI)
	TableName string // Table name (default: passages)
}

// DefaultConfig returns default pgvector configuration
func DefaultConfig() *Config {
	return &Config{
		Host:      "127.0.0.1",
		Port:      5432,
		User:      "postgres",
		Password:  "",
		DBName:    "legalassist",
		SSLMode:   "disable",
		Dimension: 1536,
		TableName: "passages",
	}
}

// New creates a new pgvector-backed store
func New(config *Config, embedder vector.Embedder) (*Store, error) {
	if config == nil {
		config = DefaultConfig()
	}
	if embedder == nil {
		return nil, fmt.Errorf("embedder cannot be nil")
	}

	dsn := fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		config.Host, config.Port, config.User, config.Password, config.DBName, config.SSLMode)

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to PostgreSQL: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping PostgreSQL: %w", err)
	}

	store := &Store{
		db:        db,
		embedder:  embedder,
		dimension: config.Dimension,
		tableName: config.TableName,
	}

	if err := store.setup(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to setup pgvector: %w", err)
	}

	return store, nil
}

// setup initializes pgvector and creates the passage table
func (s *Store) setup(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "CREATE EXTENSION IF NOT EXISTS vector"); err != nil {
		return fmt.Errorf("failed to create vector extension: %w", err)
	}

	createTableSQL := fmt.Sprintf(`
	CREATE TABLE IF NOT EXISTS %s (
		id SERIAL PRIMARY KEY,
		content TEXT NOT NULL,
		source VARCHAR(512) NOT NULL,
		page INT NOT NULL DEFAULT 0,
		embedding vector(%d) NOT NULL,
		created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`, s.tableName, s.dimension)

	if _, err := s.db.ExecContext(ctx, createTableSQL); err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	return nil
}

// Add embeds and stores passages
func (s *Store) Add(ctx context.Context, matches ...vector.Match) error {
	if len(matches) == 0 {
		return nil
	}

	texts := make([]string, len(matches))
	for i, m := range matches {
		if m.Content == "" {
			return fmt.Errorf("passage content cannot be empty")
		}
		texts[i] = m.Content
	}

	vecs, err := s.embedder.EmbedBatch(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed passages: %w", err)
	}
	if len(vecs) != len(matches) {
		return fmt.Errorf("embedder returned %d vectors for %d passages", len(vecs), len(matches))
	}

	query := fmt.Sprintf(`
	INSERT INTO %s (content, source, page, embedding)
	VALUES ($1, $2, $3, $4::vector)
	`, s.tableName)

	for i, m := range matches {
		if len(vecs[i]) != s.dimension {
			return fmt.Errorf("embedding dimension mismatch: expected %d, got %d", s.dimension, len(vecs[i]))
		}
		if _, err := s.db.ExecContext(ctx, query, m.Content, m.Source, m.Page, vectorToString(vecs[i])); err != nil {
			return fmt.Errorf("failed to add passage: %w", err)
		}
	}

	return nil
}

// Search finds the passages most similar to the query
func (s *Store) Search(ctx context.Context, query string, topK int) ([]vector.Match, error) {
	if query == "" {
		return nil, fmt.Errorf("query cannot be empty")
	}
	if topK <= 0 {
		topK = 10
	}

	queryVec, err := s.embedder.Embed(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to embed query: %w", err)
	}
	if len(queryVec) != s.dimension {
		return nil, fmt.Errorf("query vector dimension mismatch: expected %d, got %d", s.dimension, len(queryVec))
	}

	// <=> is pgvector cosine distance; score is its similarity complement
	searchSQL := fmt.Sprintf(`
	SELECT content, source, page, 1 - (embedding <=> $1::vector) AS score
	FROM %s
	ORDER BY embedding <=> $1::vector
	LIMIT $2
	`, s.tableName)

	rows, err := s.db.QueryContext(ctx, searchSQL, vectorToString(queryVec), topK)
	if err != nil {
		return nil, fmt.Errorf("failed to search passages: %w", err)
	}
	defer rows.Close()

	matches := make([]vector.Match, 0, topK)
	for rows.Next() {
		var m vector.Match
		if err := rows.Scan(&m.Content, &m.Source, &m.Page, &m.Score); err != nil {
			return nil, fmt.Errorf("failed to scan passage: %w", err)
		}
		matches = append(matches, m)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating passages: %w", err)
	}

	return matches, nil
}

// Clear removes all passages
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, fmt.Sprintf("TRUNCATE TABLE %s", s.tableName)); err != nil {
		return fmt.Errorf("failed to clear passages: %w", err)
	}
	return nil
}

// Count returns the number of stored passages
func (s *Store) Count(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, fmt.Sprintf("SELECT COUNT(*) FROM %s", s.tableName)).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count passages: %w", err)
	}
	return count, nil
}

// Close closes the database connection
func (s *Store) Close() error {
	return s.db.Close()
}

func vectorToString(vec []float32) string {
	parts := make([]string, len(vec))
	for i, v := range vec {
		parts[i] = fmt.Sprintf("%f", v)
	}
	return "[" + strings.Join(parts, ",") + "]"
}
