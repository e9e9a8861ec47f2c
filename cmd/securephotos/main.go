package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/kailas-cloud/securephotos/internal/config"
	dbMySQL "github.com/kailas-cloud/securephotos/internal/db/mysql"
	dbQdrant "github.com/kailas-cloud/securephotos/internal/db/qdrant"
	dbRedis "github.com/kailas-cloud/securephotos/internal/db/redis"
	dbWeaviate "github.com/kailas-cloud/securephotos/internal/db/weaviate"
	"github.com/kailas-cloud/securephotos/internal/domain"
	logpkg "github.com/kailas-cloud/securephotos/internal/logger"
	"github.com/kailas-cloud/securephotos/internal/metrics"
	"github.com/kailas-cloud/securephotos/internal/repository/embcache"
	photorepo "github.com/kailas-cloud/securephotos/internal/repository/photo"
	recordrepo "github.com/kailas-cloud/securephotos/internal/repository/record"
	semanticrepo "github.com/kailas-cloud/securephotos/internal/repository/semantic"
	chiTransport "github.com/kailas-cloud/securephotos/internal/transport/chi"
	"github.com/kailas-cloud/securephotos/internal/transport/httpfetch"
	openaiTransport "github.com/kailas-cloud/securephotos/internal/transport/openai"
	embeddinguc "github.com/kailas-cloud/securephotos/internal/usecase/embedding"
	extractuc "github.com/kailas-cloud/securephotos/internal/usecase/extract"
	healthuc "github.com/kailas-cloud/securephotos/internal/usecase/health"
	ingestuc "github.com/kailas-cloud/securephotos/internal/usecase/ingest"
	metadatauc "github.com/kailas-cloud/securephotos/internal/usecase/metadata"
	semanticuc "github.com/kailas-cloud/securephotos/internal/usecase/semantic"
	"github.com/kailas-cloud/securephotos/internal/version"
)

func main() {
	// Load configuration based on ENV
	env := config.GetEnv()

	cfg, err := config.Load(env)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	logger, err := logpkg.NewLogger(env, cfg.Logging.Level)
	if err != nil {
		panic("failed to create logger: " + err.Error())
	}
	defer func() { _ = logger.Sync() }()

	logger.Info("Starting securephotos API server",
		zap.String("version", version.String()),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.String("llm_provider", cfg.LLM.Provider),
		zap.String("qdrant_url", cfg.Qdrant.URL),
		zap.String("collection", cfg.Qdrant.Collection),
		zap.Bool("semantic", cfg.Semantic.Enabled),
		zap.Bool("mysql", cfg.MySQL.Enabled),
	)

	metrics.Register()

	ctx := context.Background()

	// Vector store
	qdrantStore, err := dbQdrant.NewStore(dbQdrant.Config{URL: cfg.Qdrant.URL, APIKey: cfg.Qdrant.APIKey})
	if err != nil {
		logger.Fatal("Failed to create qdrant store", zap.Error(err))
	}
	defer qdrantStore.Close()

	if err := qdrantStore.WaitForReady(ctx, time.Duration(cfg.Qdrant.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Qdrant not ready", zap.Error(err))
	}
	logger.Info("Connected to qdrant")

	// LLM provider
	llmClient, err := openaiTransport.NewClient(&openaiTransport.Config{
		Provider:            cfg.LLM.Provider,
		APIKey:              cfg.LLM.APIKey,
		Endpoint:            cfg.LLM.Endpoint,
		APIVersion:          cfg.LLM.APIVersion,
		ChatDeployment:      cfg.LLM.ChatDeployment,
		EmbeddingDeployment: cfg.LLM.EmbeddingDeployment,
		Temperature:         *cfg.LLM.Temperature,
		MaxTokens:           cfg.LLM.MaxTokens,
		Logger:              logger,
	})
	if err != nil {
		logger.Fatal("Failed to create llm client", zap.Error(err))
	}

	healthSvc := healthuc.New(healthuc.DefaultTimeout).
		Register("qdrant", qdrantStore).
		Register("llm", healthuc.CheckerFunc(llmClient.HealthCheck))

	// Metadata search
	extractor := extractuc.New(openaiTransport.NewCompleter(llmClient))
	metadataSvc := metadatauc.New(
		extractor,
		photorepo.New(qdrantStore, cfg.Qdrant.Collection),
		cfg.Search.MetadataLimit,
	)

	// Optional embedding cache. Pass a nil interface, not a typed nil pointer.
	var cacheStore *dbRedis.Store
	if len(cfg.Cache.Addrs) > 0 {
		cacheStore, err = dbRedis.NewStore(dbRedis.Config{Addrs: cfg.Cache.Addrs, Password: cfg.Cache.Password})
		if err != nil {
			logger.Fatal("Failed to create cache store", zap.Error(err))
		}
		defer cacheStore.Close()
		if err := cacheStore.WaitForReady(ctx, 5*time.Second); err != nil {
			logger.Warn("Cache not ready, embeddings will bypass it until it recovers", zap.Error(err))
		}
		healthSvc.Register("cache", cacheStore)
	}

	// Optional semantic search
	var semanticSvc chiTransport.SemanticSearcher
	if cfg.Semantic.Enabled {
		repo := buildSemanticRepo(cfg, qdrantStore, healthSvc, logger)

		embedder := buildEmbedder(cfg, llmClient, repo.Backend(), cacheStore, logger)
		semanticSvc = semanticuc.New(embedder, repo, cfg.Search.SemanticLimit)
		logger.Info("Semantic search enabled",
			zap.String("backend", repo.Backend()),
			zap.String("embedding_deployment", cfg.LLM.EmbeddingDeployment),
		)
	}

	// Optional record store
	var recordRepo ingestuc.RecordRepository
	if cfg.MySQL.Enabled {
		sqlStore, err := dbMySQL.NewStore(dbMySQL.Config{
			Host:     cfg.MySQL.Host,
			Port:     cfg.MySQL.Port,
			User:     cfg.MySQL.User,
			Password: cfg.MySQL.Password,
			DB:       cfg.MySQL.DB,
		})
		if err != nil {
			logger.Fatal("Failed to create mysql store", zap.Error(err))
		}
		defer sqlStore.Close()
		healthSvc.Register("mysql", sqlStore)
		recordRepo = recordrepo.New(sqlStore, cfg.MySQL.Table)
		logger.Info("Record store enabled", zap.String("table", cfg.MySQL.Table))
	}

	fetcher := httpfetch.New(httpfetch.Config{
		Timeout:  time.Duration(cfg.Ingest.FetchTimeoutSec) * time.Second,
		MaxBytes: cfg.Ingest.MaxBytes,
	})
	ingestSvc := ingestuc.New(fetcher, recordRepo, cfg.Ingest.AllowedHosts)

	// Create chi server
	server := chiTransport.NewServer(metadataSvc, semanticSvc, ingestSvc, healthSvc, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys, chiTransport.PublicPaths...))
	r.Use(metrics.Middleware())
	server.Routes(r)

	addr := fmt.Sprintf(":%d", cfg.HTTP.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.HTTP.ReadTimeoutSec) * time.Second,
		WriteTimeout: time.Duration(cfg.HTTP.WriteTimeoutSec) * time.Second,
	}

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)

	go func() {
		logger.Info("Starting HTTP server", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	<-quit
	logger.Info("Received shutdown signal")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.HTTP.ShutdownSec)*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Error during shutdown", zap.Error(err))
	}

	logger.Info("Server stopped gracefully")
}

// buildSemanticRepo picks the nearest-neighbour backend and registers its health check.
func buildSemanticRepo(
	cfg config.Config,
	qdrantStore *dbQdrant.Store,
	healthSvc *healthuc.Service,
	logger *zap.Logger,
) semanticuc.Repository {
	if cfg.Semantic.Backend == config.BackendQdrant {
		return semanticrepo.NewQdrant(qdrantStore, cfg.Qdrant.Collection, cfg.Qdrant.VectorName)
	}

	store, err := dbWeaviate.NewStore(dbWeaviate.Config{URL: cfg.Weaviate.URL, APIKey: cfg.Weaviate.APIKey})
	if err != nil {
		logger.Fatal("Failed to create weaviate store", zap.Error(err))
	}
	healthSvc.Register("weaviate", store)
	return semanticrepo.NewWeaviate(store, cfg.Weaviate.Class)
}

// buildEmbedder assembles the decorator chain: OpenAI -> Instrumented -> Cached.
// The cache is outermost so hits skip the provider entirely.
func buildEmbedder(
	cfg config.Config,
	client *openaiTransport.Client,
	backend string,
	cacheStore *dbRedis.Store,
	logger *zap.Logger,
) domain.Embedder {
	// The qdrant collection has a fixed vector size; weaviate classes are schemaless here.
	dimensions := 0
	if backend == config.BackendQdrant {
		dimensions = cfg.Qdrant.VectorSize
	}

	var embedder domain.Embedder = embeddinguc.NewInstrumentedEmbedder(
		openaiTransport.NewEmbedder(client),
		cfg.LLM.Provider, cfg.LLM.EmbeddingDeployment, dimensions, logger,
	)

	if cacheStore != nil {
		embedder = embcache.New(embedder, cacheStore, embcache.Config{
			Model: cfg.LLM.EmbeddingDeployment,
			TTL:   time.Duration(cfg.Cache.TTLSec) * time.Second,
		}, metrics.EmbeddingCacheTotal, logger)
	}
	return embedder
}

// jsonRecoverer is a recovery middleware that returns JSON instead of a plain text stacktrace.
func jsonRecoverer(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rvr := recover(); rvr != nil {
					logger.Error("panic recovered",
						zap.Any("panic", rvr),
						zap.Stack("stacktrace"),
					)
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_ = json.NewEncoder(w).Encode(chiTransport.ErrorResponse{
						Code:    chiTransport.ErrorResponseCodeInternalError,
						Message: "internal error",
					})
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// wideEventMiddleware emits a canonical log line per request and propagates X-Request-ID.
func wideEventMiddleware(logger *zap.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			// chi.middleware.RequestID already placed request_id in context
			requestID := chiMiddleware.GetReqID(r.Context())
			if requestID != "" {
				w.Header().Set("X-Request-ID", requestID)
			}

			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("llm_tokens", ww.Header().Get("X-LLM-Tokens")),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
