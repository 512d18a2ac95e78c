package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	openaisdk "github.com/openai/openai-go/v3"

	"legalassist/assistant"
	"legalassist/config"
	openaiembedder "legalassist/contrib/embedder/openai"
	"legalassist/contrib/ocr/remote"
	"legalassist/contrib/provider/claude"
	"legalassist/contrib/provider/gemini"
	"legalassist/contrib/provider/groq"
	openaiprovider "legalassist/contrib/provider/openai"
	"legalassist/contrib/search/tavily"
	"legalassist/contrib/tokenizer/tiktoken"
	"legalassist/contrib/vector/inmemory"
	"legalassist/contrib/vector/pg"
	"legalassist/extract"
	"legalassist/llm"
	"legalassist/pkg/logging"
	"legalassist/pkg/telemetry"
	"legalassist/server"
	"legalassist/vector"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logging.Logger().Warn("no .env file found, using environment variables")
	}

	logger := logging.WithComponent("main")

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTelemetry, err := telemetry.Init(ctx, telemetry.Config{
		ServiceName: "legalassist",
		Environment: os.Getenv("ENVIRONMENT"),
	})
	if err != nil {
		logger.Error("telemetry init failed", "error", err)
		os.Exit(1)
	}
	defer shutdownTelemetry(context.Background())

	client, err := buildProvider(ctx, cfg)
	if err != nil {
		logger.Error("provider init failed", "provider", cfg.Provider, "error", err)
		os.Exit(1)
	}

	index, err := buildIndex(cfg)
	if err != nil {
		logger.Error("vector backend init failed", "backend", cfg.VectorBackend, "error", err)
		os.Exit(1)
	}

	web := tavily.New(tavily.DefaultConfig(cfg.TavilyAPIKey))

	var ocr extract.OCR
	if cfg.OCREndpoint != "" {
		ocr, err = remote.New(&remote.Config{Endpoint: cfg.OCREndpoint})
		if err != nil {
			logger.Error("ocr init failed", "error", err)
			os.Exit(1)
		}
	}

	opts := []assistant.Option{}
	if tok, err := tiktoken.New("gpt-4o-mini"); err != nil {
		logger.Warn("tokenizer unavailable, context budget disabled", "error", err)
	} else {
		opts = append(opts, assistant.WithTokenizer(tok), assistant.WithTokenBudget(6000))
	}

	a, err := assistant.New(assistant.Collaborators{
		LLM:   client,
		Index: index,
		Web:   web,
		OCR:   ocr,
	}, opts...)
	if err != nil {
		logger.Error("assistant init failed", "error", err)
		os.Exit(1)
	}

	store := buildTaskStore(ctx, cfg)
	srv := server.New(a, store)

	httpSrv := &http.Server{
		Addr:    cfg.ServerAddr,
		Handler: srv.Router(),
	}

	go func() {
		logger.Info("server listening", "addr", cfg.ServerAddr, "provider", cfg.Provider, "vector_backend", cfg.VectorBackend)
		if err := httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}

func buildProvider(ctx context.Context, cfg *config.Config) (llm.Client, error) {
	switch cfg.Provider {
	case "groq":
		return groq.New(&groq.Config{
			APIKey:      cfg.GroqAPIKey,
			Model:       cfg.Model,
			MaxTokens:   cfg.MaxTokens,
			Temperature: cfg.Temperature,
		}), nil
	case "openai":
		return openaiprovider.New(&openaiprovider.Config{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.Model,
			MaxTokens:   int64(cfg.MaxTokens),
			Temperature: cfg.Temperature,
		}), nil
	case "claude":
		c := claude.DefaultConfig(cfg.AnthropicAPIKey, "")
		if cfg.Model != "" {
			c.Model = cfg.Model
		}
		c.MaxTokens = int64(cfg.MaxTokens)
		c.Temperature = cfg.Temperature
		return claude.New(c), nil
	case "gemini":
		return gemini.New(ctx, &gemini.Config{
			APIKey:      cfg.GeminiAPIKey,
			Model:       cfg.Model,
			MaxTokens:   int32(cfg.MaxTokens),
			Temperature: float32(cfg.Temperature),
		})
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

func buildIndex(cfg *config.Config) (vector.Index, error) {
	embedder := openaiembedder.New(cfg.OpenAIAPIKey, "",
		openaisdk.EmbeddingModel(cfg.EmbeddingModel), cfg.EmbeddingDimension)

	switch cfg.VectorBackend {
	case "postgres":
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
	default:
		return inmemory.New(embedder), nil
	}
}

func buildTaskStore(ctx context.Context, cfg *config.Config) server.TaskStore {
	if cfg.TaskStore == "redis" {
		return server.NewRedisTaskStore(&server.RedisConfig{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
			Prefix:   cfg.Redis.Prefix,
			TTL:      cfg.TaskRetention,
		})
	}

	store := server.NewMemoryTaskStore(cfg.TaskRetention)
	store.StartSweeper(ctx, cfg.TaskSweepInterval)
	return store
}
