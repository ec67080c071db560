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

	"github.com/pandect-io/pandect/internal/config"
	dbRedis "github.com/pandect-io/pandect/internal/db/redis"
	"github.com/pandect-io/pandect/internal/domain"
	logpkg "github.com/pandect-io/pandect/internal/logger"
	"github.com/pandect-io/pandect/internal/metrics"
	chiTransport "github.com/pandect-io/pandect/internal/transport/chi"
	openaiGen "github.com/pandect-io/pandect/internal/transport/openai"
	"github.com/pandect-io/pandect/internal/transport/searchapi"
	analyticsuc "github.com/pandect-io/pandect/internal/usecase/analytics"
	cacheuc "github.com/pandect-io/pandect/internal/usecase/answercache"
	augmentuc "github.com/pandect-io/pandect/internal/usecase/augment"
	classifyuc "github.com/pandect-io/pandect/internal/usecase/classify"
	generateuc "github.com/pandect-io/pandect/internal/usecase/generate"
	memoryuc "github.com/pandect-io/pandect/internal/usecase/memory"
	raguc "github.com/pandect-io/pandect/internal/usecase/rag"
	rerankuc "github.com/pandect-io/pandect/internal/usecase/rerank"
	retrieveuc "github.com/pandect-io/pandect/internal/usecase/retrieve"
	"github.com/pandect-io/pandect/internal/version"
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

	logger.Info("Starting pandect API server",
		zap.String("version", version.Version),
		zap.String("commit", version.Commit),
		zap.String("env", env),
		zap.Int("http_port", cfg.HTTP.Port),
		zap.Strings("db_addrs", cfg.Database.Addrs),
		zap.String("llm_model", cfg.LLM.Model),
	)

	store, err := dbRedis.NewStore(dbRedis.Config{
		Addrs:    cfg.Database.Addrs,
		Username: cfg.Database.Username,
		Password: cfg.Database.Password,
	})
	if err != nil {
		logger.Fatal("Failed to create database store", zap.Error(err))
	}
	defer store.Close()

	ctx := context.Background()
	if err := store.WaitForReady(ctx, time.Duration(cfg.Database.ReadinessTimeout)*time.Second); err != nil {
		logger.Fatal("Database not ready", zap.Error(err))
	}
	logger.Info("Connected to database")

	// Register pipeline metrics explicitly (no init())
	metrics.RegisterRAGMetrics()

	searchClient := searchapi.New(searchapi.Config{
		BaseURL: cfg.Search.BaseURL,
		APIKey:  cfg.Search.APIKey,
		Timeout: time.Duration(cfg.Search.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	llmProvider := openaiGen.NewGenerator(&openaiGen.Config{
		APIKey:  cfg.LLM.APIKey,
		BaseURL: cfg.LLM.BaseURL,
		Timeout: time.Duration(cfg.LLM.TimeoutSec) * time.Second,
		Logger:  logger,
	})

	classifier := classifyuc.New()
	retriever := retrieveuc.New(searchClient, retrieveuc.Options{
		OverfetchLimit: cfg.Retrieval.OverfetchLimit,
		FusionConstant: cfg.Retrieval.FusionConstant,
		LexicalWeight:  cfg.Retrieval.LexicalWeight,
		SemanticWeight: cfg.Retrieval.SemanticWeight,
	}, logger)
	reranker := rerankuc.New(rerankuc.Options{
		TopK:                cfg.Rerank.TopK,
		MinScore:            cfg.Rerank.MinScore,
		KeywordWeight:       cfg.Rerank.KeywordWeight,
		RecencyWeight:       cfg.Rerank.RecencyWeight,
		RecencyHorizonYears: cfg.Rerank.RecencyHorizonYears,
	})
	augmenter := augmentuc.New(promptOverrides(cfg.Prompts))
	generator := generateuc.New(llmProvider, generateuc.Options{
		Model:       cfg.LLM.Model,
		MaxTokens:   cfg.LLM.MaxTokens,
		Temperature: cfg.LLM.Temperature,
	})
	answerCache := cacheuc.New(store, cacheuc.Options{
		KeyPrefix:     cfg.Storage.KeyPrefix,
		MinConfidence: cfg.Cache.MinConfidence,
		TTL:           time.Duration(cfg.Cache.TTLSec) * time.Second,
	}, logger)
	sessions := memoryuc.New(store, memoryuc.Options{
		KeyPrefix:    cfg.Storage.KeyPrefix,
		TTL:          time.Duration(cfg.Session.TTLSec) * time.Second,
		HistoryLimit: cfg.Session.HistoryLimit,
	}, logger)
	usage := analyticsuc.New(store, cfg.Analytics.Enabled, analyticsuc.Options{
		KeyPrefix: cfg.Storage.KeyPrefix,
		Retention: time.Duration(cfg.Analytics.RetentionHours) * time.Hour,
	}, logger)
	defer usage.Close()

	ragSvc := raguc.New(
		classifier, retriever, reranker, augmenter, generator,
		answerCache, sessions, usage,
		raguc.Options{CacheEnabled: cfg.Cache.Enabled},
		logger,
	)

	server := chiTransport.NewServer(ragSvc, usage, sessions, store, logger)

	r := chi.NewRouter()
	r.Use(jsonRecoverer(logger))
	r.Use(chiMiddleware.RequestID)
	r.Use(wideEventMiddleware(logger))
	r.Use(chiTransport.BearerAuthMiddleware(cfg.Auth.APIKeys))
	r.Use(metrics.Middleware())
	r.Mount("/", server.Routes())

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

// promptOverrides maps the config prompt templates onto languages, skipping
// empty entries so the built-in templates apply.
func promptOverrides(p config.PromptsConfig) map[domain.Language]string {
	overrides := make(map[domain.Language]string, 3)
	if p.FR != "" {
		overrides[domain.LangFR] = p.FR
	}
	if p.DE != "" {
		overrides[domain.LangDE] = p.DE
	}
	if p.EN != "" {
		overrides[domain.LangEN] = p.EN
	}
	return overrides
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
					_ = json.NewEncoder(w).Encode(map[string]string{
						"code":    "internal_error",
						"message": "internal error",
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

			// Per-request logger with request_id
			reqLogger := logger.With(zap.String("request_id", requestID))
			ctx := logpkg.ContextWithLogger(r.Context(), reqLogger)

			ww := chiMiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r.WithContext(ctx))

			// Canonical log line — one line per request
			reqLogger.Info("http_request",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", ww.Status()),
				zap.Duration("latency", time.Since(start)),
				zap.String("ip", r.RemoteAddr),
				zap.Int64("content_length", r.ContentLength),
				zap.String("user_agent", r.UserAgent()),
				zap.Int("response_bytes", ww.BytesWritten()),
			)
		})
	}
}
