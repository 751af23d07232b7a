package web

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	"github.com/spigell/resume-analyzer/internal/ai"
	"github.com/spigell/resume-analyzer/internal/logger"
	"github.com/spigell/resume-analyzer/internal/view"
)

const maxFormBytes = 1 << 20

//go:embed templates/index.html
var templatesFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templatesFS, "templates/index.html"))

// Router serves the page. Each request runs its own display cycle on a fresh
// view.Controller, so visitors never see each other's inputs or reports.
type Router struct {
	analyzer ai.Analyzer
	logger   *zap.Logger
}

type pageData struct {
	State      view.State
	Display    string
	CanTrigger bool
}

type analyzeRequest struct {
	Resume         string `json:"resume"`
	JobDescription string `json:"jobDescription"`
}

type stateResponse struct {
	Display    string     `json:"display"`
	Loading    bool       `json:"loading"`
	CanTrigger bool       `json:"canTrigger"`
	Error      string     `json:"error,omitempty"`
	ErrorKind  string     `json:"errorKind,omitempty"`
	Result     *ai.Result `json:"result,omitempty"`
}

// NewRouter builds the HTTP surface over the analyzer.
func NewRouter(analyzer ai.Analyzer, log *zap.Logger, corsOrigins []string) http.Handler {
	log = logger.WithFields(log)
	r := &Router{analyzer: analyzer, logger: log}

	if len(corsOrigins) == 0 {
		corsOrigins = []string{"*"}
	}

	mux := chi.NewRouter()
	mux.Use(requestID)
	mux.Use(accessLog(log))
	mux.Use(middleware.Recoverer)
	mux.Use(cors.Handler(cors.Options{
		AllowedOrigins: corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", requestIDHeader},
		ExposedHeaders: []string{requestIDHeader},
		MaxAge:         300,
	}))

	mux.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte("ok"))
	})

	mux.Get("/", r.wrap(r.handleIndex))
	mux.Post("/analyze", r.wrap(r.handleAnalyzeForm))

	mux.Route("/api", func(rt chi.Router) {
		rt.Post("/analyze", r.wrap(r.handleAnalyzeJSON))
	})

	return mux
}

type handlerFunc func(http.ResponseWriter, *http.Request) error

func (r *Router) wrap(h handlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		if err := h(w, req); err != nil {
			var badRequest *badRequestError
			if errors.As(err, &badRequest) {
				http.Error(w, badRequest.Error(), http.StatusBadRequest)
				return
			}

			logger.WithRequestID(r.logger, RequestIDFromContext(req.Context())).
				Error("handling request", zap.Error(err), zap.String("path", req.URL.Path))
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		}
	}
}

type badRequestError struct {
	err error
}

func (e *badRequestError) Error() string { return e.err.Error() }

func (r *Router) newController(req *http.Request) *view.Controller {
	return view.NewController(r.analyzer, logger.WithRequestID(r.logger, RequestIDFromContext(req.Context())))
}

// GET /
func (r *Router) handleIndex(w http.ResponseWriter, _ *http.Request) error {
	return r.renderPage(w, http.StatusOK, view.State{})
}

// POST /analyze
// Form fields: resume, job_description.
func (r *Router) handleAnalyzeForm(w http.ResponseWriter, req *http.Request) error {
	req.Body = http.MaxBytesReader(w, req.Body, maxFormBytes)
	if err := req.ParseForm(); err != nil {
		return &badRequestError{err: fmt.Errorf("parse form: %w", err)}
	}

	ctrl := r.newController(req)
	if err := ctrl.Submit(analysisContext(req), req.PostForm.Get("resume"), req.PostForm.Get("job_description")); err != nil {
		return err
	}

	return r.renderPage(w, http.StatusOK, ctrl.Snapshot())
}

// POST /api/analyze
// Body: {"resume": "...", "jobDescription": "..."}
func (r *Router) handleAnalyzeJSON(w http.ResponseWriter, req *http.Request) error {
	var body analyzeRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, req.Body, maxFormBytes)).Decode(&body); err != nil {
		return &badRequestError{err: fmt.Errorf("decode body: %w", err)}
	}

	ctrl := r.newController(req)
	if err := ctrl.Submit(analysisContext(req), body.Resume, body.JobDescription); err != nil {
		return err
	}

	state := ctrl.Snapshot()
	return writeJSON(w, statusFor(state), newStateResponse(state))
}

// analysisContext detaches the analysis from the client connection: once
// started, an analysis runs to completion.
func analysisContext(req *http.Request) context.Context {
	return context.WithoutCancel(req.Context())
}

func statusFor(state view.State) int {
	if view.Display(state) != view.DisplayError {
		return http.StatusOK
	}

	switch state.ErrorKind {
	case ai.KindValidation:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusBadGateway
	}
}

func newStateResponse(state view.State) stateResponse {
	resp := stateResponse{
		Display:    view.Display(state).String(),
		Loading:    state.Loading,
		CanTrigger: state.CanTrigger(),
		Error:      state.Error,
		Result:     state.Result,
	}
	if state.Error != "" {
		resp.ErrorKind = state.ErrorKind.String()
	}
	return resp
}

func (r *Router) renderPage(w http.ResponseWriter, status int, state view.State) error {
	data := pageData{
		State:      state,
		Display:    view.Display(state).String(),
		CanTrigger: state.CanTrigger(),
	}

	var buf bytes.Buffer
	if err := pageTemplate.Execute(&buf, data); err != nil {
		return fmt.Errorf("render page: %w", err)
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, err := buf.WriteTo(w)
	return err
}

func writeJSON(w http.ResponseWriter, status int, v any) error {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	return json.NewEncoder(w).Encode(v)
}
