// Copyright (c) Microsoft Corporation. All rights reserved.
// Licensed under the MIT License.

package testapp

import (
	"context"
	_ "embed"
	"encoding/json"
	"net"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"sync/atomic"
	"syscall"
	"time"

	"github.com/rs/zerolog"
)

//go:embed resources/home.html
var homePage []byte

// regressionQueries is the canned sweep issued by POST /api/test.
var regressionQueries = []string{
	"How do I install HardiePlank siding?",
	"What tools do I need for HardiePlank?",
	"Tell me about HardieTrim boards",
	"What is the recommended clearance from grade?",
}

// queryMaxTokens bounds replies to forwarded questions.
const queryMaxTokens = 1500

// Server is the stateless HTTP test application fronting a provisioned
// Azure OpenAI deployment.
type Server struct {
	addr   string
	mux    *http.ServeMux
	logger zerolog.Logger
	chat   ChatClient

	requestCount atomic.Int64
	errorCount   atomic.Int64
	startedAt    time.Time
}

// NewServer creates a test application server with all routes registered.
func NewServer(addr string, chat ChatClient, logger zerolog.Logger) *Server {
	s := &Server{
		addr:      addr,
		mux:       http.NewServeMux(),
		logger:    logger,
		chat:      chat,
		startedAt: time.Now(),
	}
	s.registerRoutes()
	return s
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("GET /{$}", s.handleHome)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /api/metrics", s.handleMetrics)
	s.mux.HandleFunc("POST /api/query", s.handleQuery)
	s.mux.HandleFunc("POST /api/test", s.handleRegressionSweep)
}

// ListenAndServe starts the HTTP server with graceful shutdown on SIGINT and
// SIGTERM.
func (s *Server) ListenAndServe() error {
	srv := &http.Server{
		Addr:         s.addr,
		Handler:      s.loggingMiddleware(s.mux),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
		sig := <-sigCh
		s.logger.Info().Str("signal", sig.String()).Msg("shutting down")
		srv.Close()
	}()

	host, port, _ := net.SplitHostPort(s.addr)
	if host == "" {
		host = "localhost"
	}
	s.logger.Info().Msgf("test application listening on http://%s:%s", host, port)

	err := srv.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

func (s *Server) loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Info().
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Dur("duration", time.Since(start)).
			Msg("request")
	})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(homePage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "healthy"
	modelAvailable := true

	// Live probe: a minimal one-token call against the deployment.
	ctx, cancel := context.WithTimeout(r.Context(), 30*time.Second)
	defer cancel()
	if err := s.chat.Probe(ctx); err != nil {
		s.logger.Warn().Err(err).Msg("health probe failed")
		status = "degraded"
		modelAvailable = false
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status":             status,
		"timestamp":          time.Now().UTC().Format(time.RFC3339),
		"model_available":    modelAvailable,
		"requests_processed": s.requestCount.Load(),
		"error_count":        s.errorCount.Load(),
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	requests := s.requestCount.Load()
	errors := s.errorCount.Load()

	errorRate := 0.0
	if requests > 0 {
		errorRate = float64(errors) / float64(requests)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"requests_processed": requests,
		"error_count":        errors,
		"error_rate":         errorRate,
		"uptime_seconds":     time.Since(s.startedAt).Seconds(),
	})
}

type queryRequest struct {
	Query string `json:"query"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "no query provided")
		return
	}

	query := strings.TrimSpace(req.Query)
	if query == "" {
		writeError(w, http.StatusBadRequest, "empty query")
		return
	}

	reply, err := s.answer(r.Context(), query)
	if err != nil {
		s.logger.Error().Err(err).Msg("query processing error")
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, reply)
}

func (s *Server) handleRegressionSweep(w http.ResponseWriter, r *http.Request) {
	type sweepEntry struct {
		Query  string `json:"query"`
		Status string `json:"status"`
		Reply  *Reply `json:"reply,omitempty"`
		Error  string `json:"error,omitempty"`
	}

	entries := make([]sweepEntry, 0, len(regressionQueries))
	passed := 0

	for _, query := range regressionQueries {
		entry := sweepEntry{Query: query, Status: "passed"}

		reply, err := s.answer(r.Context(), query)
		if err != nil {
			entry.Status = "failed"
			entry.Error = err.Error()
		} else {
			entry.Reply = reply
			passed++
		}

		entries = append(entries, entry)
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"total":   len(entries),
		"passed":  passed,
		"failed":  len(entries) - passed,
		"results": entries,
	})
}

// answer resolves a query from the knowledge base when possible, otherwise
// forwards it to the model.
func (s *Server) answer(ctx context.Context, query string) (*Reply, error) {
	s.requestCount.Add(1)

	if quick := QuickAnswer(query); quick != "" {
		return &Reply{
			Content:      quick,
			Provider:     "knowledge_base",
			ResponseTime: 0.01,
		}, nil
	}

	reply, err := s.chat.Generate(ctx, query, queryMaxTokens)
	if err != nil {
		s.errorCount.Add(1)
		return nil, err
	}

	return reply, nil
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
