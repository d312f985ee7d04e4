// Package httpapi exposes plan generation and plan editing over JSON HTTP.
package httpapi

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/alexanderramin/braindump/internal/app"
	"github.com/alexanderramin/braindump/internal/domain"
	"github.com/alexanderramin/braindump/internal/service"
	"github.com/rs/cors"
)

// maxBodyBytes bounds request bodies; brain dumps are free text.
const maxBodyBytes = 1 << 20

type Config struct {
	Plans          service.PlanService
	Tasks          app.TaskUseCase
	Secret         []byte
	AllowedOrigins []string
	Logger         *slog.Logger
}

type server struct {
	plans  service.PlanService
	tasks  app.TaskUseCase
	logger *slog.Logger
}

// NewHandler builds the routed, authenticated, CORS-enabled API handler.
func NewHandler(cfg Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &server{plans: cfg.Plans, tasks: cfg.Tasks, logger: logger}
	auth := NewAuthenticator(cfg.Secret)

	api := http.NewServeMux()
	api.HandleFunc("POST /v1/plans", s.generatePlan)
	api.HandleFunc("GET /v1/plans", s.listPlans)
	api.HandleFunc("GET /v1/plans/latest", s.latestPlan)
	api.HandleFunc("GET /v1/plans/{id}", s.getPlan)
	api.HandleFunc("DELETE /v1/plans/{id}", s.deletePlan)
	api.HandleFunc("POST /v1/tasks/{id}/complete", s.completeTask)
	api.HandleFunc("POST /v1/tasks/{id}/reopen", s.reopenTask)
	api.HandleFunc("PATCH /v1/tasks/{id}", s.patchTask)
	api.HandleFunc("DELETE /v1/tasks/{id}", s.deleteTask)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	mux.Handle("/v1/", auth.Wrap(api))

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	c := cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", "Authorization"},
	})
	return logRequests(logger, c.Handler(mux))
}

func (s *server) generatePlan(w http.ResponseWriter, r *http.Request) {
	var body generateRequestJSON
	if !decodeBody(w, r, &body) {
		return
	}
	req, err := toRequest(mustOwner(r), body)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}

	resp, err := s.plans.Generate(r.Context(), req)
	if err != nil {
		s.logFailure(r, err)
		writeUseCaseError(w, err)
		return
	}
	status := http.StatusCreated
	if !resp.Persisted {
		status = http.StatusOK
	}
	writeJSON(w, status, app.NewGeneratePlanView(resp))
}

func (s *server) listPlans(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, string(app.PlanErrInvalidRequest), "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	plans, err := s.plans.List(r.Context(), mustOwner(r), limit)
	if err != nil {
		s.logFailure(r, err)
		writeUseCaseError(w, err)
		return
	}
	out := planListJSON{Plans: make([]app.PlanSummary, 0, len(plans))}
	for _, p := range plans {
		out.Plans = append(out.Plans, app.NewPlanSummary(p))
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *server) latestPlan(w http.ResponseWriter, r *http.Request) {
	s.writePlan(w, r)(s.plans.Latest(r.Context(), mustOwner(r)))
}

func (s *server) getPlan(w http.ResponseWriter, r *http.Request) {
	s.writePlan(w, r)(s.plans.Get(r.Context(), mustOwner(r), r.PathValue("id")))
}

func (s *server) deletePlan(w http.ResponseWriter, r *http.Request) {
	if err := s.plans.Delete(r.Context(), mustOwner(r), r.PathValue("id")); err != nil {
		s.logFailure(r, err)
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) completeTask(w http.ResponseWriter, r *http.Request) {
	s.writeTask(w, r)(s.tasks.Complete(r.Context(), mustOwner(r), r.PathValue("id")))
}

func (s *server) reopenTask(w http.ResponseWriter, r *http.Request) {
	s.writeTask(w, r)(s.tasks.Reopen(r.Context(), mustOwner(r), r.PathValue("id")))
}

func (s *server) patchTask(w http.ResponseWriter, r *http.Request) {
	var body taskPatchJSON
	if !decodeBody(w, r, &body) {
		return
	}
	upd, err := toTaskUpdate(body)
	if err != nil {
		writeUseCaseError(w, err)
		return
	}
	s.writeTask(w, r)(s.tasks.Update(r.Context(), mustOwner(r), r.PathValue("id"), upd))
}

func (s *server) deleteTask(w http.ResponseWriter, r *http.Request) {
	if err := s.tasks.Delete(r.Context(), mustOwner(r), r.PathValue("id")); err != nil {
		s.logFailure(r, err)
		writeUseCaseError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) writePlan(w http.ResponseWriter, r *http.Request) func(*domain.Plan, error) {
	return func(p *domain.Plan, err error) {
		if err != nil {
			s.logFailure(r, err)
			writeUseCaseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app.NewPlanView(p))
	}
}

func (s *server) writeTask(w http.ResponseWriter, r *http.Request) func(*domain.PlanTask, error) {
	return func(t *domain.PlanTask, err error) {
		if err != nil {
			s.logFailure(r, err)
			writeUseCaseError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, app.NewPlanTaskView(*t))
	}
}

// logFailure records errors that map to a 5xx; client errors are already
// visible in the request log.
func (s *server) logFailure(r *http.Request, err error) {
	if status, _, _ := statusFor(err); status >= http.StatusInternalServerError {
		s.logger.ErrorContext(r.Context(), "request_failed", "path", r.URL.Path, "error", err.Error())
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		msg := "invalid json: " + err.Error()
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		writeError(w, http.StatusBadRequest, string(app.PlanErrInvalidRequest), msg)
		return false
	}
	return true
}

// mustOwner reads the owner set by the authenticator. Routes under /v1/
// are never reached without one.
func mustOwner(r *http.Request) string {
	owner, _ := OwnerFromContext(r.Context())
	return owner
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func logRequests(logger *slog.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		level := slog.LevelInfo
		if rec.status >= http.StatusInternalServerError {
			level = slog.LevelError
		}
		logger.Log(r.Context(), level, "http_request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration_ms", time.Since(start).Milliseconds(),
		)
	})
}
