package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"
	openaisdk "github.com/openai/openai-go/v3"

	"legalassist/config"
	openaiembedder "legalassist/contrib/embedder/openai"
	"legalassist/contrib/vector/pg"
	"legalassist/ingest"
	"legalassist/pkg/logging"
	"legalassist/vector"
)

func main() {
	dir := flag.String("dir", "./documents", "directory of PDF documents to ingest")
	maxTokens := flag.Int("chunk-tokens", 256, "maximum tokens per stored chunk")
	overlap := flag.Int("chunk-overlap", 32, "tokens shared between consecutive chunks")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		logging.Logger().Warn("no .env file found, using environment variables")
	}

	logger := logging.WithComponent("ingest-cli")
	cfg := config.Load()

	// Ingestion only makes sense against the persistent backend.
	if cfg.VectorBackend != "postgres" {
		logger.Error("ingestion requires VECTOR_BACKEND=postgres; the in-memory index does not outlive the server process")
		os.Exit(1)
	}

	index, err := buildIndex(cfg)
	if err != nil {
		logger.Error("vector backend init failed", "error", err)
		os.Exit(1)
	}

	chunker := ingest.NewChunker(
		ingest.WithMaxTokens(*maxTokens),
		ingest.WithOverlapTokens(*overlap),
	)

	total, err := ingest.New(index, chunker).Dir(context.Background(), *dir)
	if err != nil {
		logger.Error("ingestion failed", "error", err)
		os.Exit(1)
	}
	logger.Info("ingestion complete", "dir", *dir, "chunks", total)
}

func buildIndex(cfg *config.Config) (vector.Indexer, error) {
	embedder := openaiembedder.New(cfg.OpenAIAPIKey, "",
		openaisdk.EmbeddingModel(cfg.EmbeddingModel), cfg.EmbeddingDimension)

	return pg.New(&pg.Config{
		Host:      cfg.Postgres.Host,
		Port:      cfg.Postgres.Port,
		User:      cfg.Postgres.User,
		Password:  cfg.Postgres.Password,
		DBName:    cfg.Postgres.DBName,
		SSLMode:   cfg.Postgres.SSLMode,
		Dimension: cfg.Postgres.Dimension,
		TableName: cfg.Postgres.TableName,
	}, embedder)
}
