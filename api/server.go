// Package api provides the HTTP REST API server for the forex assistant.
//
// It exposes the natural-language query endpoint, forex news, the known
// currency list, and a health check.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/forexbot-ai/forexbot/internal/assistant"
	"github.com/forexbot-ai/forexbot/internal/config"
	"github.com/forexbot-ai/forexbot/internal/history"
	"github.com/forexbot-ai/forexbot/internal/lexicon"
	"github.com/forexbot-ai/forexbot/internal/llm"
	"github.com/forexbot-ai/forexbot/internal/news"
	"github.com/forexbot-ai/forexbot/internal/nlu"
	"github.com/forexbot-ai/forexbot/internal/quote"
	"github.com/forexbot-ai/forexbot/internal/store"
	"github.com/forexbot-ai/forexbot/pkg/models"
)

// Version is stamped at build time.
var Version = "dev"

// Responder answers one natural-language forex query.
type Responder interface {
	Respond(ctx context.Context, text string) (models.Result, error)
}

// NewsProvider serves recent forex headlines.
type NewsProvider interface {
	ForexNews(ctx context.Context, limit int) ([]models.NewsArticle, error)
}

// Server is the HTTP API server.
type Server struct {
	router chi.Router
	cfg    *config.Config
	bot    Responder
	news   NewsProvider
	store  store.Store
}

// NewServer creates a configured API server with all routes and middleware.
func NewServer(cfg *config.Config) (*Server, error) {
	quotes, err := quote.NewClient(cfg.Provider.APIKey, quote.WithBaseURL(cfg.Provider.BaseURL))
	if err != nil {
		return nil, fmt.Errorf("quote provider setup failed: %w", err)
	}

	var extractorLLM nlu.EntityExtractor
	if cfg.LLM.OpenAIKey != "" {
		client, err := llm.NewClient(cfg.LLM.OpenAIKey, llm.WithModel(cfg.LLM.Model))
		if err != nil {
			return nil, fmt.Errorf("LLM setup failed: %w", err)
		}
		extractorLLM = client
	} else {
		log.Println("api: no LLM key configured, entity extraction runs rules-only")
	}

	st, err := store.NewSQLiteStore(cfg.Store.Path)
	if err != nil {
		return nil, fmt.Errorf("history store setup failed: %w", err)
	}

	bot := assistant.New(
		nlu.NewExtractor(extractorLLM),
		quotes,
		st,
		history.NewResolver(st, quotes),
	)

	srv := &Server{
		cfg:   cfg,
		bot:   bot,
		news:  news.NewAggregatorWithSources(newsSources(cfg)),
		store: st,
	}
	srv.router = srv.buildRouter()
	return srv, nil
}

// newsSources maps configured feeds, falling back to the defaults.
func newsSources(cfg *config.Config) []news.Source {
	if len(cfg.News.Sources) == 0 {
		return news.DefaultSources
	}
	sources := make([]news.Source, 0, len(cfg.News.Sources))
	for _, s := range cfg.News.Sources {
		sources = append(sources, news.Source{Name: s.Name, RSSURL: s.URL})
	}
	return sources
}

// Router returns the chi router for testing.
func (s *Server) Router() chi.Router {
	return s.router
}

// ListenAndServe starts the HTTP server with graceful shutdown.
func (s *Server) ListenAndServe(addr string) error {
	httpSrv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("HTTP server error: %v", err)
		}
	}()

	<-done
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	err := httpSrv.Shutdown(ctx)
	if s.store != nil {
		if cerr := s.store.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}

// buildRouter configures all routes and middleware.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS
	origins := []string{"*"}
	if len(s.cfg.API.CORSOrigins) > 0 {
		origins = s.cfg.API.CORSOrigins
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-ID"},
		ExposedHeaders:   []string{"X-Request-ID"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/get_forex_data", s.handleForexData)
	r.Get("/get_forex_news", s.handleForexNews)
	r.Get("/currencies", s.handleCurrencies)

	return r
}

// ============================================================
// Request / Response types
// ============================================================

// APIResponse is the standard JSON envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ForexDataRequest is the body for POST /get_forex_data.
type ForexDataRequest struct {
	UserInput string `json:"user_input"`
}

// ============================================================
// Handlers
// ============================================================

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data: map[string]interface{}{
			"status":  "ok",
			"version": Version,
		},
	})
}

func (s *Server) handleForexData(w http.ResponseWriter, r *http.Request) {
	var req ForexDataRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "No se recibieron datos en la solicitud.")
		return
	}
	if req.UserInput == "" {
		writeError(w, http.StatusBadRequest, "Falta el campo 'user_input' en la solicitud.")
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	result, err := s.bot.Respond(ctx, req.UserInput)
	if err != nil {
		writeError(w, statusFor(err), err.Error())
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    result,
	})
}

func (s *Server) handleForexNews(w http.ResponseWriter, r *http.Request) {
	limit := 20
	if q := r.URL.Query().Get("limit"); q != "" {
		if n, err := strconv.Atoi(q); err == nil && n > 0 {
			limit = n
		}
	}

	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()

	articles, err := s.news.ForexNews(ctx, limit)
	if err != nil {
		writeError(w, http.StatusBadGateway, "No se pudieron obtener noticias de divisas.")
		return
	}

	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"news": articles},
	})
}

func (s *Server) handleCurrencies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Data:    map[string]interface{}{"currencies": lexicon.Codes()},
	})
}

// statusFor maps pipeline failures to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, assistant.ErrEmptyInput):
		return http.StatusBadRequest
	case errors.Is(err, history.ErrNoData), errors.Is(err, store.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, quote.ErrProviderDown), errors.Is(err, quote.ErrNoAPIKey):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// ============================================================
// Helpers
// ============================================================

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("failed to write JSON response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, APIResponse{
		Success: false,
		Error:   msg,
	})
}
