package server

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog/log"

	"github.com/searchai/searchai/internal/handler"
	"github.com/searchai/searchai/internal/middleware"
	"github.com/searchai/searchai/internal/security"
	"github.com/searchai/searchai/internal/service"
	"github.com/searchai/searchai/internal/tools"
)

// setupRoutes builds the downstream services (each gated on its credential),
// registers the fixed tool catalog, and wires the chi router. Returns the
// vector store so it can be closed on shutdown.
func (s *Server) setupRoutes() (http.Handler, *service.VectorStore, error) {
	cfg := s.cfg
	ctx := context.Background()

	// ─── Services ───────────────────────────────────────────────────────────────
	var esSvc *service.ElasticsearchService
	if cfg.ElasticsearchEnabled {
		var esErr error
		esSvc, esErr = service.NewElasticsearchService(
			cfg.ElasticsearchScheme,
			cfg.ElasticsearchHost,
			cfg.ElasticsearchPort,
			cfg.ElasticsearchUser,
			cfg.ElasticsearchPassword,
			cfg.ElasticsearchVerifyCerts,
			cfg.ElasticsearchMaxRetries,
			cfg.ElasticsearchIndex,
		)
		if esErr != nil {
			log.Warn().Err(esErr).Msg("Elasticsearch service unavailable")
		}
	} else {
		log.Warn().Msg("ELASTICSEARCH_ENABLED not set - keyword search leg disabled")
	}

	var vectors *service.VectorStore
	if cfg.DatabaseURL != "" {
		var vsErr error
		vectors, vsErr = service.NewVectorStore(ctx, cfg.DatabaseURL, service.EmbeddingDims)
		if vsErr != nil {
			log.Warn().Err(vsErr).Msg("vector store unavailable")
			vectors = nil
		}
	} else {
		log.Warn().Msg("DATABASE_URL not set - vector search leg disabled")
	}

	var embedder *service.Embedder
	if cfg.OpenAIAPIKey != "" {
		embedder = service.NewEmbedder(cfg.OpenAIAPIKey)
	} else {
		log.Warn().Msg("OPENAI_API_KEY not set - embedding tools disabled")
	}
	if cfg.TavilyAPIKey == "" {
		log.Warn().Msg("TAVILY_API_KEY not set - web search tools disabled")
	}

	finance := service.NewFinanceService()
	crawler := service.NewCrawler(cfg.CrawlMaxLen)

	var vectorLeg service.VectorSearcher
	if vectors != nil {
		vectorLeg = vectors
	}
	var keywordLeg service.KeywordSearcher
	if esSvc != nil {
		keywordLeg = esSvc
	}
	var queryEmbedder service.TextEmbedder
	if embedder != nil {
		queryEmbedder = embedder
	}
	hybrid := service.NewHybridSearcher(keywordLeg, vectorLeg, queryEmbedder, cfg.HybridKeywordFallback)

	log.Info().
		Bool("web_search_enabled", cfg.TavilyAPIKey != "").
		Bool("embedding_enabled", embedder != nil).
		Bool("keyword_leg_enabled", esSvc != nil).
		Bool("vector_leg_enabled", vectors != nil).
		Bool("hybrid_keyword_fallback", cfg.HybridKeywordFallback).
		Bool("auth_enabled", cfg.EnableAuth && len(cfg.APIKeys) > 0).
		Msg("service configuration")
	if cfg.EnableAuth && len(cfg.APIKeys) == 0 {
		log.Warn().Msg("WARNING: auth enabled but no API keys configured - all API requests will be rejected")
	}

	// ─── Tool registry ───────────────────────────────────────────────────────────
	registry := tools.NewRegistry(time.Duration(cfg.ToolTimeoutSeconds) * time.Second)
	searchCfg := tools.WebSearchConfig{APIKey: cfg.TavilyAPIKey}

	catalog := []tools.Tool{
		tools.WebSearchTool(searchCfg),
		tools.WebCrawlTool(searchCfg, crawler),
		tools.FinanceQuoteTool(finance),
		tools.EmbedTextTool(embedder, vectors, esSvc),
		tools.HybridSearchTool(hybrid, embedder != nil),
		tools.HelloTool(),
		tools.DateTool(),
	}
	for _, t := range catalog {
		if err := registry.Register(t); err != nil {
			return nil, nil, err
		}
	}

	// ─── Handlers ────────────────────────────────────────────────────────────────
	healthH := handler.NewHealthHandler()
	if esSvc != nil {
		healthH.AddCheck("elasticsearch", esSvc)
	} else {
		healthH.AddCheck("elasticsearch", nil)
	}
	if vectors != nil {
		healthH.AddCheck("postgres", vectors)
	} else {
		healthH.AddCheck("postgres", nil)
	}

	audit := security.NewAuditLogger(cfg.EnableAuditLogging)
	invokeH := handler.NewInvokeHandler(registry, audit)
	catalogH := handler.NewCatalogHandler(registry)

	// ─── Router ──────────────────────────────────────────────────────────────────
	r := chi.NewRouter()

	// Core middleware
	r.Use(middleware.Recovery)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logging)
	r.Use(middleware.SecurityHeaders)
	r.Use(middleware.CORS(middleware.DefaultCORSConfig(cfg.CORSOrigins)))
	r.Use(chiMiddleware.RealIP)

	// Public routes
	r.Get("/health", healthH.Health)
	r.Get("/", healthH.Health)

	// Auth + rate limiting for API routes
	apiMiddleware := []func(http.Handler) http.Handler{
		middleware.RateLimit(cfg.RateLimitPerMinute),
	}
	if cfg.EnableAuth && len(cfg.APIKeys) > 0 {
		apiMiddleware = append(apiMiddleware, middleware.Auth(cfg.APIKeys, cfg.APIKeyHeader))
	}

	r.Group(func(r chi.Router) {
		for _, m := range apiMiddleware {
			r.Use(m)
		}

		r.Route(cfg.APIPrefix, func(r chi.Router) {
			r.Get("/tools", catalogH.List)
			r.Post("/invoke", invokeH.Invoke)
		})
	})

	return r, vectors, nil
}
