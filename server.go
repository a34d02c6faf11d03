package schedsim

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// ------------------------------------------------------------------------------------------------
// HTTP API
// ------------------------------------------------------------------------------------------------

// Server is the HTTP backend the visualizer front end talks to. It holds
// no state between requests; every simulation runs on its own clone.
type Server struct {
	router chi.Router
	logger *slog.Logger
}

// BuildLogger returns the process-wide JSON logger.
func BuildLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
}

func NewServer(logger *slog.Logger) *Server {
	s := &Server{
		router: chi.NewRouter(),
		logger: logger.With("component", "server"),
	}
	s.router.Use(middleware.Recoverer)
	s.router.Get("/healthz", s.handleHealth)
	s.router.Route("/api", func(r chi.Router) {
		r.Get("/algorithms", s.handleAlgorithms)
		r.Get("/presets", s.handlePresets)
		r.Get("/presets/{name}", s.handlePreset)
		r.Post("/simulate", s.handleSimulate)
		r.Post("/compare", s.handleCompare)
	})
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// requestID tags one API call in responses and logs.
func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

type apiResponse struct {
	RequestID string   `json:"requestId"`
	Status    string   `json:"status"`
	Data      any      `json:"data,omitempty"`
	Errors    []string `json:"errors,omitempty"`
}

func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, apiResponse{RequestID: reqID, Status: "ok", Data: data})
}

func respondError(w http.ResponseWriter, reqID string, status int, msgs ...string) {
	respondJSON(w, status, apiResponse{RequestID: reqID, Status: "error", Errors: msgs})
}

func respondJSON(w http.ResponseWriter, status int, body apiResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// respondRunError maps the orchestrator's typed errors onto statuses.
func (s *Server) respondRunError(w http.ResponseWriter, reqID string, err error) {
	var invalid *InvalidWorkloadError
	var unknown *UnknownDisciplineError
	var capped *IterationCapError
	switch {
	case errors.As(err, &invalid):
		respondError(w, reqID, http.StatusBadRequest, invalid.Messages...)
	case errors.As(err, &unknown):
		respondError(w, reqID, http.StatusBadRequest, unknown.Error())
	case errors.As(err, &capped):
		respondError(w, reqID, http.StatusUnprocessableEntity, capped.Error())
	default:
		respondError(w, reqID, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	respondOK(w, requestID(), map[string]string{"status": "up"})
}

func (s *Server) handleAlgorithms(w http.ResponseWriter, r *http.Request) {
	names := make([]string, 0)
	for _, d := range AllDisciplines() {
		names = append(names, d.String())
	}
	respondOK(w, requestID(), names)
}

func (s *Server) handlePresets(w http.ResponseWriter, r *http.Request) {
	respondOK(w, requestID(), Presets())
}

func (s *Server) handlePreset(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	workload, err := Preset(chi.URLParam(r, "name"))
	if err != nil {
		respondError(w, reqID, http.StatusNotFound, err.Error())
		return
	}
	respondOK(w, reqID, workload)
}

type simulateRequest struct {
	Processes []ProcessSpec `json:"processes"`
	Algorithm string        `json:"algorithm"`
	Config    Config        `json:"config"`
}

func (s *Server) handleSimulate(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	var req simulateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	discipline, err := ParseDiscipline(req.Algorithm)
	if err != nil {
		respondError(w, reqID, http.StatusBadRequest, err.Error())
		return
	}
	res, err := RunOnce(req.Processes, discipline, req.Config)
	if err != nil {
		s.logger.Warn("simulate failed", "requestId", reqID, "algorithm", req.Algorithm, "error", err)
		s.respondRunError(w, reqID, err)
		return
	}
	s.logger.Info("simulate", "requestId", reqID, "algorithm", req.Algorithm,
		"procs", len(req.Processes), "totalTime", res.Metrics.TotalTime)
	respondOK(w, reqID, res)
}

type compareRequest struct {
	Processes  []ProcessSpec `json:"processes"`
	Algorithms []string      `json:"algorithms"`
	Config     Config        `json:"config"`
}

func (s *Server) handleCompare(w http.ResponseWriter, r *http.Request) {
	reqID := requestID()
	var req compareRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, reqID, http.StatusBadRequest, "malformed request body: "+err.Error())
		return
	}
	disciplines := make([]Discipline, 0, len(req.Algorithms))
	for _, name := range req.Algorithms {
		d, err := ParseDiscipline(name)
		if err != nil {
			respondError(w, reqID, http.StatusBadRequest, err.Error())
			return
		}
		disciplines = append(disciplines, d)
	}
	results, err := CompareMany(req.Processes, disciplines, req.Config)
	if err != nil {
		s.logger.Warn("compare failed", "requestId", reqID, "error", err)
		s.respondRunError(w, reqID, err)
		return
	}
	s.logger.Info("compare", "requestId", reqID, "algorithms", req.Algorithms, "procs", len(req.Processes))
	respondOK(w, reqID, results)
}
