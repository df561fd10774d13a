// Package httpapi exposes the compile, generate and validate pipeline
// over HTTP. Generated workflows can be saved to and served from a
// store, so a shared instance doubles as a small workflow registry.
package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/aretw0/graft"
	"github.com/aretw0/graft/internal/logging"
	"github.com/aretw0/graft/pkg/contract"
	"github.com/aretw0/graft/pkg/observability"
	"github.com/aretw0/graft/pkg/rules"
	"github.com/aretw0/graft/pkg/store"
	"github.com/aretw0/graft/pkg/workflow"
)

// Server wires the pipeline to HTTP routes.
type Server struct {
	engine  *graft.Engine
	store   store.Store
	metrics *observability.Metrics
	logger  *slog.Logger
}

// Option configures the server.
type Option func(*Server)

// WithStore enables the /workflows routes on the given backend.
func WithStore(s store.Store) Option {
	return func(srv *Server) { srv.store = s }
}

// WithMetrics exposes /metrics and instruments the pipeline.
func WithMetrics(m *observability.Metrics) Option {
	return func(srv *Server) { srv.metrics = m }
}

// WithLogger sets the request logger.
func WithLogger(l *slog.Logger) Option {
	return func(srv *Server) { srv.logger = l }
}

// NewHandler creates the HTTP handler for an engine.
func NewHandler(engine *graft.Engine, opts ...Option) http.Handler {
	srv := &Server{
		engine: engine,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(srv)
	}

	r := chi.NewRouter()
	r.Post("/compile", srv.Compile)
	r.Post("/generate", srv.Generate)
	r.Post("/validate", srv.Validate)
	r.Get("/health", srv.GetHealth)
	r.Get("/info", srv.GetInfo)

	if srv.store != nil {
		r.Get("/workflows", srv.ListWorkflows)
		r.Get("/workflows/{id}", srv.GetWorkflow)
		r.Delete("/workflows/{id}", srv.DeleteWorkflow)
	}
	if srv.metrics != nil {
		r.Method(http.MethodGet, "/metrics", srv.metrics.Handler())
	}

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Custom-Header")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// CompileRequest is the body of POST /compile and POST /generate.
type CompileRequest struct {
	Source string `json:"source"`

	// SaveAs stores the generated workflow under this id. Generate only.
	SaveAs string `json:"save_as,omitempty"`

	// Name overrides the generated workflow name. Generate only.
	Name string `json:"name,omitempty"`
}

// CompileResponse carries the contract and its diagnostics.
type CompileResponse struct {
	Success   bool               `json:"success"`
	Contract  *contract.Contract `json:"contract,omitempty"`
	Canonical string             `json:"canonical,omitempty"`
	Errors    []contract.Issue   `json:"errors,omitempty"`
	Warnings  []contract.Issue   `json:"warnings,omitempty"`
}

// GenerateResponse carries the full pipeline output.
type GenerateResponse struct {
	Success  bool               `json:"success"`
	Workflow *workflow.Workflow `json:"workflow,omitempty"`
	Report   *rules.Report      `json:"report,omitempty"`
	Stats    workflow.Stats     `json:"stats"`
	Errors   []contract.Issue   `json:"errors,omitempty"`
	Warnings []contract.Issue   `json:"warnings,omitempty"`
	SavedAs  string             `json:"saved_as,omitempty"`
}

// ValidateRequest is the body of POST /validate: a workflow document in
// its wire format.
type ValidateRequest struct {
	Workflow json.RawMessage `json:"workflow"`
}

// Compile handles the POST /compile request.
func (s *Server) Compile(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Compile: invalid request body", "err", err)
		return
	}

	res := s.engine.Compile(body.Source)
	if s.metrics != nil {
		s.metrics.RecordCompile(res.Success())
	}

	writeJSON(w, s.logger, CompileResponse{
		Success:   res.Success(),
		Contract:  res.Contract,
		Canonical: res.Canonical,
		Errors:    res.Errors,
		Warnings:  res.Warnings,
	})
}

// Generate handles the POST /generate request.
func (s *Server) Generate(w http.ResponseWriter, r *http.Request) {
	var body CompileRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Generate: invalid request body", "err", err)
		return
	}

	res := s.engine.Generate(body.Source)
	if s.metrics != nil {
		s.metrics.RecordCompile(res.Compile.Success())
		if res.Workflow != nil {
			s.metrics.RecordGeneration(res.Stats)
		}
		if res.Report != nil {
			s.metrics.RecordReport(res.Report)
		}
	}

	resp := GenerateResponse{
		Success:  res.Success(),
		Workflow: res.Workflow,
		Report:   res.Report,
		Stats:    res.Stats,
		Errors:   res.Compile.Errors,
		Warnings: append(res.Compile.Warnings, res.Warnings...),
	}
	if body.Name != "" && res.Workflow != nil {
		res.Workflow.Name = body.Name
	}

	if body.SaveAs != "" && res.Workflow != nil {
		if s.store == nil {
			http.Error(w, "No store configured", http.StatusNotImplemented)
			return
		}
		rec := &store.Record{
			Name:     res.Workflow.Name,
			Source:   body.Source,
			Contract: res.Compile.Contract,
			Workflow: res.Workflow,
			SavedAt:  time.Now().UTC(),
		}
		if err := s.store.Save(r.Context(), body.SaveAs, rec); err != nil {
			http.Error(w, fmt.Sprintf("Save error: %v", err), http.StatusInternalServerError)
			s.logger.Error("Generate: save failed", "id", body.SaveAs, "err", err)
			return
		}
		resp.SavedAs = body.SaveAs
	}

	writeJSON(w, s.logger, resp)
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var body ValidateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("Validate: invalid request body", "err", err)
		return
	}

	wf, err := workflow.DecodeJSON(body.Workflow)
	if err != nil {
		http.Error(w, fmt.Sprintf("Invalid workflow document: %v", err), http.StatusBadRequest)
		return
	}

	report := s.engine.Validate(wf, nil)
	if s.metrics != nil {
		s.metrics.RecordReport(report)
	}
	writeJSON(w, s.logger, report)
}

// ListWorkflows handles the GET /workflows request.
func (s *Server) ListWorkflows(w http.ResponseWriter, r *http.Request) {
	ids, err := s.store.List(r.Context())
	if err != nil {
		http.Error(w, fmt.Sprintf("List error: %v", err), http.StatusInternalServerError)
		s.logger.Error("ListWorkflows failed", "err", err)
		return
	}
	writeJSON(w, s.logger, map[string][]string{"workflows": ids})
}

// GetWorkflow handles the GET /workflows/{id} request.
func (s *Server) GetWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	rec, err := s.store.Load(r.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "Workflow not found", http.StatusNotFound)
			return
		}
		http.Error(w, fmt.Sprintf("Load error: %v", err), http.StatusInternalServerError)
		s.logger.Error("GetWorkflow failed", "id", id, "err", err)
		return
	}
	writeJSON(w, s.logger, rec)
}

// DeleteWorkflow handles the DELETE /workflows/{id} request.
func (s *Server) DeleteWorkflow(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		http.Error(w, fmt.Sprintf("Delete error: %v", err), http.StatusInternalServerError)
		s.logger.Error("DeleteWorkflow failed", "id", id, "err", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{
		"app":     "graft-http",
		"version": graft.Version,
	})
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("response encode failed", "err", err)
	}
}
