package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"golang.org/x/oauth2"

	"docqa/config"
	"docqa/internal/adapter/cache"
	"docqa/internal/adapter/chunker"
	"docqa/internal/adapter/embedding"
	"docqa/internal/adapter/llm"
	"docqa/internal/adapter/repository/drive"
	"docqa/internal/adapter/repository/fsrepo"
	"docqa/internal/adapter/store"
	"docqa/internal/port"
	"docqa/internal/usecase"
)

// driveTokenEnv holds an OAuth2 access token with drive.readonly scope.
const driveTokenEnv = "GOOGLE_OAUTH_TOKEN"

const defaultCacheSize = 256

func newEmbedder(cfg *config.Config) (port.Embedder, error) {
	switch cfg.Embedding.Provider {
	case "gemini":
		return embedding.NewGeminiEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "openai":
		return embedding.NewOpenAIEmbedder(cfg.Embedding.APIKeyEnv, cfg.Embedding.Model)
	case "ollama":
		return embedding.NewOllamaEmbedder(cfg.Embedding.Model, cfg.Embedding.BaseURL)
	case "mock":
		return embedding.NewMockEmbedder(cfg.Embedding.Dimension), nil
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Embedding.Provider)
	}
}

func newGenerator(cfg *config.Config) (port.Generator, error) {
	switch cfg.Generation.Provider {
	case "gemini":
		return llm.NewGeminiGenerator(cfg.Generation.APIKeyEnv, cfg.Generation.Model)
	case "openai":
		return llm.NewOpenAIGenerator(cfg.Generation.APIKeyEnv, cfg.Generation.Model)
	case "ollama":
		return llm.NewOllamaGenerator(cfg.Generation.Model, cfg.Generation.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported generation provider: %s", cfg.Generation.Provider)
	}
}

func newRepository(ctx context.Context, cfg *config.Config) (port.Repository, error) {
	switch cfg.Repository.Provider {
	case "filesystem":
		return fsrepo.NewRepository(cfg.Repository.Includes, cfg.Repository.Excludes), nil
	case "drive":
		token := os.Getenv(driveTokenEnv)
		if token == "" {
			return nil, fmt.Errorf("%s is not set", driveTokenEnv)
		}
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token})
		svc, err := drive.NewService(ctx, ts)
		if err != nil {
			return nil, fmt.Errorf("failed to create drive service: %w", err)
		}
		return drive.NewRepository(svc), nil
	default:
		return nil, fmt.Errorf("unsupported repository provider: %s", cfg.Repository.Provider)
	}
}

// newContentCache picks the on-disk cache when a path is configured and
// an in-memory one otherwise. Drive corpora default to the on-disk cache
// so repeated runs skip re-downloading. The returned closer is a no-op
// for the in-memory cache.
func newContentCache(cfg *config.Config) (port.ContentCache, func() error, error) {
	ttl := cfg.Cache.TTL.Std()

	path := cfg.Cache.Path
	if path == "" && cfg.Repository.Provider == "drive" {
		if err := config.EnsureConfigDir(GetRootDir()); err != nil {
			return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		path = config.CachePath(GetRootDir())
	}

	if path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, nil, fmt.Errorf("failed to create cache directory: %w", err)
		}
		bc, err := store.NewBoltContentCache(path, ttl)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to open content cache: %w", err)
		}
		return bc, bc.Close, nil
	}
	return cache.NewContentCache(defaultCacheSize, ttl), func() error { return nil }, nil
}

// newSession wires the full pipeline from config. The returned closer
// releases the content cache.
func newSession(ctx context.Context, cfg *config.Config) (*usecase.Session, func() error, error) {
	repo, err := newRepository(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	embedder, err := newEmbedder(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create embedder: %w", err)
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create generator: %w", err)
	}

	contentCache, closeCache, err := newContentCache(cfg)
	if err != nil {
		return nil, nil, err
	}

	splitter := chunker.NewSplitter(cfg.Chunk.MaxLen, cfg.Chunk.Overlap)

	builder := usecase.NewBuilder(repo, splitter, embedder,
		usecase.WithCache(contentCache),
		usecase.WithBatchSize(cfg.Embedding.BatchSize),
		usecase.WithBatchPause(cfg.Embedding.BatchPause.Std()),
	)
	retriever := usecase.NewRetriever(embedder, cfg.Retrieve.TopK, cfg.Retrieve.MinScore)
	synthesizer := usecase.NewSynthesizer(generator, cfg.Generation.MaxContextChars)

	return usecase.NewSession(builder, retriever, synthesizer), closeCache, nil
}
