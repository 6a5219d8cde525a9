// Package server exposes the HTTP intake surface. Input validation lives
// here; the processor below it never sees empty messages from these
// handlers.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/upaylabs/fraudwatch/internal/common"
	"github.com/upaylabs/fraudwatch/internal/intake"
	"github.com/upaylabs/fraudwatch/internal/model"
	"github.com/upaylabs/fraudwatch/internal/service"
)

// Server handles the HTTP intake endpoints.
type Server struct {
	processor  *intake.Processor
	store      service.Store
	logger     *slog.Logger
	httpServer *http.Server
}

// New creates the HTTP server over the given processor and store.
func New(processor *intake.Processor, store service.Store, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		processor: processor,
		store:     store,
		logger:    logger,
	}
}

// Router builds the chi router with all endpoints registered.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Post("/api/message", s.handleMessage)
	r.Post("/api/app/message", s.handleAppMessage)
	r.Get("/api/app/process", s.handleAppProcess)
	r.Get("/api/result/{id}", s.handleResult)
	r.Get("/api/app/result/{id}", s.handleResult)
	r.Get("/health", s.handleHealth)

	return r
}

// Start runs the server until Shutdown is called.
func (s *Server) Start(addr string) error {
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	s.logger.Info("HTTP server listening", "addr", addr)
	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops the server gracefully.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}

type messageRequest struct {
	Message string `json:"message"`
	Source  string `json:"source"`
}

// handleMessage accepts a JSON message with an optional source, defaulting
// to website.
func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var req messageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is required")
		return
	}

	source := model.SourceWebsite
	if req.Source != "" {
		parsed, err := model.ParseSource(req.Source)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		source = parsed
	}

	s.process(w, r, source, req.Message)
}

// handleAppMessage accepts app traffic with text in JSON, form, query, or
// the raw body.
func (s *Server) handleAppMessage(w http.ResponseWriter, r *http.Request) {
	text := extractText(r)
	if text == "" {
		writeError(w, http.StatusBadRequest, "text or message is required")
		return
	}
	s.process(w, r, model.SourceApp, text)
}

// handleAppProcess is the GET variant for app clients.
func (s *Server) handleAppProcess(w http.ResponseWriter, r *http.Request) {
	text := strings.TrimSpace(firstNonEmpty(r.URL.Query().Get("text"), r.URL.Query().Get("message")))
	if text == "" {
		writeError(w, http.StatusBadRequest, "text query param is required")
		return
	}
	s.process(w, r, model.SourceApp, text)
}

func (s *Server) process(w http.ResponseWriter, r *http.Request, source model.Source, text string) {
	payload, err := s.processor.Process(r.Context(), source, text)
	if err != nil {
		if errors.Is(err, common.ErrEmptyInput) {
			writeError(w, http.StatusBadRequest, "message is required")
			return
		}
		s.logger.Error("intake processing failed", "source", source, "error", err)
		writeError(w, http.StatusInternalServerError, "processing failed")
		return
	}
	writeJSON(w, http.StatusOK, payload)
}

// handleResult fetches a stored record by id.
func (s *Server) handleResult(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return
	}

	record, err := s.store.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not found")
			return
		}
		s.logger.Error("failed to fetch record", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "lookup failed")
		return
	}
	writeJSON(w, http.StatusOK, record)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().Unix(),
	})
}

// extractText pulls the message text from JSON, form values, query params,
// or the raw body, in that order.
func extractText(r *http.Request) string {
	if strings.Contains(r.Header.Get("Content-Type"), "application/json") {
		var req struct {
			Text    string `json:"text"`
			Message string `json:"message"`
		}
		body, err := io.ReadAll(r.Body)
		if err == nil && json.Unmarshal(body, &req) == nil {
			if text := firstNonEmpty(req.Text, req.Message); text != "" {
				return strings.TrimSpace(text)
			}
		}
		return ""
	}

	if err := r.ParseForm(); err == nil {
		if text := firstNonEmpty(r.PostForm.Get("text"), r.PostForm.Get("message")); text != "" {
			return strings.TrimSpace(text)
		}
		if text := firstNonEmpty(r.URL.Query().Get("text"), r.URL.Query().Get("message")); text != "" {
			return strings.TrimSpace(text)
		}
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		return ""
	}
	return strings.TrimSpace(string(body))
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
