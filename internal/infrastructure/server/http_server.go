package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	app_service "wallet-profiler/internal/application/service"
	"wallet-profiler/internal/domain/entity"
	"wallet-profiler/internal/infrastructure/config"
	"wallet-profiler/internal/infrastructure/logger"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const requestIDHeader = "X-Request-Id"

// HTTPServer exposes the analysis pipeline over HTTP: one analyze endpoint
// consuming a materialized WalletData body, plus a liveness probe.
type HTTPServer struct {
	server   *http.Server
	analysis *app_service.AnalysisService
	logger   *logger.Logger
}

// errorResponse is the JSON error envelope.
type errorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// NewHTTPServer creates the HTTP API server.
func NewHTTPServer(cfg *config.ServerConfig, analysis *app_service.AnalysisService, log *logger.Logger) *HTTPServer {
	s := &HTTPServer{
		analysis: analysis,
		logger:   log.WithComponent("http-server"),
	}

	r := chi.NewRouter()
	r.Use(s.requestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.CORSAllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders:   []string{requestIDHeader},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	r.Get("/health", s.handleHealth)
	r.Post("/api/v1/wallets/analyze", s.handleAnalyze)

	s.server = &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return s
}

// Start begins serving in the background.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.logger.Info("Starting HTTP server", zap.String("addr", s.server.Addr))

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("HTTP server error", zap.Error(err))
		}
	}()

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	s.logger.Info("Stopping HTTP server")
	return s.server.Shutdown(ctx)
}

// requestID assigns a request ID when the caller did not supply one and
// echoes it back on the response.
func (s *HTTPServer) requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, id)
		next.ServeHTTP(w, r)
	})
}

func (s *HTTPServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleAnalyze runs one wallet analysis. The request body is a WalletData
// document as produced by the fetch layer; the response is the full
// WalletReport.
func (s *HTTPServer) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	requestID := w.Header().Get(requestIDHeader)
	start := time.Now()

	var data entity.WalletData
	if err := json.NewDecoder(r.Body).Decode(&data); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err), requestID)
		return
	}

	chain, err := entity.ParseChain(string(data.Chain))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}
	data.Chain = chain

	report, err := s.analysis.Analyze(r.Context(), &data)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error(), requestID)
		return
	}

	s.logger.Info("Analyze request served",
		zap.String("request_id", requestID),
		zap.String("address", data.Address),
		zap.String("chain", string(chain)),
		zap.String("type", string(report.Classification.Type)),
		zap.Duration("took", time.Since(start)))

	s.writeJSON(w, http.StatusOK, report)
}

func (s *HTTPServer) writeError(w http.ResponseWriter, status int, message, requestID string) {
	s.writeJSON(w, status, errorResponse{Error: message, RequestID: requestID})
}

func (s *HTTPServer) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("Failed to encode response", zap.Error(err))
	}
}
