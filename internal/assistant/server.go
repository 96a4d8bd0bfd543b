// Package assistant provides the clinical notes assistant server.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/kart-io/logger"

	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/biz"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/handler"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/router"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/internal/assistant/store"
	redisclient "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/component/redis"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/component/storage"
	"github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm"
	cacheopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/cache"
	llmopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/llm"
	logopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/logger"
	redisopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/redis"
	retrievalopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/retrieval"
	httpopts "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/options/server/http"

	// Register LLM providers.
	_ "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm/ollama"
	_ "github.com/WaliBandawu/Clinical-Notes-Assistant/pkg/llm/openai"
)

// Name is the name of the application.
const Name = "clinical-notes-assistant"

// defaultShutdownTimeout bounds graceful shutdown.
const defaultShutdownTimeout = 10 * time.Second

// Config contains everything needed to assemble the assistant server.
type Config struct {
	HTTPOptions      *httpopts.Options
	LogOptions       *logopts.Options
	RedisOptions     *redisopts.Options
	EmbeddingOptions *llmopts.ProviderOptions
	ChatOptions      *llmopts.ProviderOptions
	RetrievalOptions *retrievalopts.Options
	CacheOptions     *cacheopts.Options
	ShutdownTimeout  time.Duration
}

// Server is the assembled assistant server.
type Server struct {
	httpSrv         *http.Server
	storageMgr      *storage.Manager
	service         biz.Service
	corpusPath      string
	shutdownTimeout time.Duration
}

// NewServer builds the server from the configuration: Redis client,
// vector store, LLM providers, retrieval service, and HTTP router.
func (cfg *Config) NewServer(ctx context.Context) (*Server, error) {
	cfg.LogOptions.AddInitialField("service.name", Name)
	if err := cfg.LogOptions.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}
	logger.Info("Starting clinical notes assistant...")

	redisClient, err := redisclient.NewWithContext(ctx, cfg.RedisOptions)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize redis: %w", err)
	}
	logger.Infow("Redis client initialized", "addr", cfg.RedisOptions.Addr())

	storageMgr := storage.NewManager()
	storageMgr.MustRegister(redisClient.Name(), redisClient)

	vectorStore := store.NewRedisStore(redisClient.Client())
	logger.Info("Vector store initialized")

	embedder, err := llm.NewEmbeddingProvider(cfg.EmbeddingOptions.Provider, cfg.EmbeddingOptions.ToConfigMap())
	if err != nil {
		_ = storageMgr.CloseAll()
		return nil, fmt.Errorf("failed to initialize embedding provider: %w", err)
	}
	logger.Infow("Embedding provider initialized",
		"provider", cfg.EmbeddingOptions.Provider,
		"model", cfg.EmbeddingOptions.Model,
	)

	if cfg.CacheOptions != nil && cfg.CacheOptions.Enabled {
		embedder = llm.NewCachedEmbeddingProvider(embedder, redisClient.Client(), &llm.EmbeddingCacheConfig{
			Enabled:   true,
			TTL:       cfg.CacheOptions.TTL,
			KeyPrefix: cfg.CacheOptions.KeyPrefix,
		})
		logger.Infow("Embedding cache enabled", "ttl", cfg.CacheOptions.TTL)
	}

	chatProvider, err := llm.NewChatProvider(cfg.ChatOptions.Provider, cfg.ChatOptions.ToConfigMap())
	if err != nil {
		_ = storageMgr.CloseAll()
		return nil, fmt.Errorf("failed to initialize chat provider: %w", err)
	}
	logger.Infow("Chat provider initialized",
		"provider", cfg.ChatOptions.Provider,
		"model", cfg.ChatOptions.Model,
	)

	service := biz.NewService(vectorStore, embedder, chatProvider, cfg.RetrievalOptions)

	h := handler.NewHandler(service, storageMgr, cfg.RetrievalOptions.CorpusPath)
	gin.SetMode(gin.ReleaseMode)
	engine := router.New(h)

	shutdownTimeout := cfg.ShutdownTimeout
	if shutdownTimeout <= 0 {
		shutdownTimeout = defaultShutdownTimeout
	}

	return &Server{
		httpSrv: &http.Server{
			Addr:         cfg.HTTPOptions.Addr,
			Handler:      engine,
			ReadTimeout:  cfg.HTTPOptions.ReadTimeout,
			WriteTimeout: cfg.HTTPOptions.WriteTimeout,
			IdleTimeout:  cfg.HTTPOptions.IdleTimeout,
		},
		storageMgr:      storageMgr,
		service:         service,
		corpusPath:      cfg.RetrievalOptions.CorpusPath,
		shutdownTimeout: shutdownTimeout,
	}, nil
}

// Run loads the corpus, starts the HTTP server, and blocks until the
// context is cancelled or the server fails.
func (s *Server) Run(ctx context.Context) error {
	defer func() {
		if err := s.storageMgr.CloseAll(); err != nil {
			logger.Warnw("Failed to close storage clients", "error", err.Error())
		}
	}()

	s.loadCorpus(ctx)

	errCh := make(chan error, 1)
	go func() {
		logger.Infow("HTTP server listening", "addr", s.httpSrv.Addr)
		if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
			return
		}
		errCh <- nil
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	if err := s.httpSrv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return <-errCh
}

// loadCorpus indexes the configured clinical notes file at startup. A
// missing or empty file is logged and skipped; the API can still serve
// uploads and reloads, so startup never fails here.
func (s *Server) loadCorpus(ctx context.Context) {
	if s.corpusPath == "" {
		return
	}

	stored, err := s.service.LoadCorpus(ctx, s.corpusPath, false, nil)
	if err != nil {
		logger.Warnw("Corpus not loaded at startup",
			"path", s.corpusPath,
			"error", err.Error(),
		)
		return
	}
	logger.Infow("Corpus loaded", "path", s.corpusPath, "chunks", stored)
}
