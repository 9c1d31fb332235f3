// Package server exposes the portfolio over HTTP as JSON.
//
// Every request replays the ledger from scratch and fetches fresh quotes:
// nothing is cached between requests.
package server

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/etnz/folio"
	"github.com/etnz/folio/metrics"
	"github.com/etnz/folio/quote"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
)

// Config holds the dependencies of the server.
type Config struct {
	Addr   string
	Log    zerolog.Logger
	Ledger func() (*folio.Ledger, error) // loads the current ledger
	Quotes quote.Service
}

// Server is the HTTP server.
type Server struct {
	router *chi.Mux
	server *http.Server
	log    zerolog.Logger
	ledger func() (*folio.Ledger, error)
	quotes quote.Service
}

// New creates a server listening on cfg.Addr.
func New(cfg Config) *Server {
	s := &Server{
		router: chi.NewRouter(),
		log:    cfg.Log.With().Str("component", "server").Logger(),
		ledger: cfg.Ledger,
		quotes: cfg.Quotes,
	}

	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RequestID)
	s.router.Use(s.loggingMiddleware)
	s.router.Use(middleware.Timeout(30 * time.Second))
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 45 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handleHealth)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Route("/api", func(r chi.Router) {
		r.Get("/holdings", s.handleHoldings)
		r.Get("/holdings/{ticker}", s.handleHolding)
		r.Get("/summary", s.handleSummary)
	})
}

// Handler returns the router, for tests and embedding.
func (s *Server) Handler() http.Handler { return s.router }

// Start serves until Shutdown is called.
func (s *Server) Start() error {
	s.log.Info().Str("addr", s.server.Addr).Msg("Starting HTTP server")
	if err := s.server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.log.Info().Msg("Shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		s.log.Debug().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", ww.Status()).
			Int("bytes", ww.BytesWritten()).
			Dur("duration_ms", time.Since(start)).
			Str("request_id", middleware.GetReqID(r.Context())).
			Msg("HTTP request")
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// positions replays the ledger and records its anomalies.
func (s *Server) positions() ([]folio.Position, error) {
	ledger, err := s.ledger()
	if err != nil {
		return nil, err
	}
	positions := ledger.Positions()
	for _, p := range positions {
		metrics.RecordReplay(p.Market.String(), p.Stats.Anomalies)
	}
	return positions, nil
}

// quotesOf fetches the quotes of positions. A failing service leaves every
// position unavailable rather than failing the request.
func (s *Server) quotesOf(ctx context.Context, positions []folio.Position) map[string]quote.Quote {
	tickers := make([]string, 0, len(positions))
	for _, p := range positions {
		tickers = append(tickers, p.Ticker)
	}
	quotes, err := s.quotes.Quotes(ctx, tickers)
	if err != nil {
		s.log.Warn().Err(err).Msg("quotes unavailable")
		return map[string]quote.Quote{}
	}
	return quotes
}

func (s *Server) handleHoldings(w http.ResponseWriter, r *http.Request) {
	positions, err := s.positions()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	if positions == nil {
		positions = []folio.Position{}
	}
	s.writeJSON(w, http.StatusOK, positions)
}

func (s *Server) handleHolding(w http.ResponseWriter, r *http.Request) {
	ledger, err := s.ledger()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	ticker := chi.URLParam(r, "ticker")
	pos, ok := ledger.Position(ticker)
	if !ok {
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "unknown ticker " + ticker})
		return
	}
	metrics.RecordReplay(pos.Market.String(), pos.Stats.Anomalies)

	p := folio.Appraise([]folio.Position{pos}, s.quotesOf(r.Context(), []folio.Position{pos}))
	s.writeJSON(w, http.StatusOK, p.Appraisals[0])
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	positions, err := s.positions()
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, err)
		return
	}
	s.writeJSON(w, http.StatusOK, folio.Appraise(positions, s.quotesOf(r.Context(), positions)))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		s.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.log.Error().Err(err).Msg("request failed")
	s.writeJSON(w, status, map[string]string{"error": err.Error()})
}
