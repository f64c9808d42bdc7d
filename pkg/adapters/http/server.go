package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/aretw0/layerdisplay/internal/logging"
	"github.com/aretw0/layerdisplay/pkg/domain"
	"github.com/aretw0/layerdisplay/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StateReader exposes the layer currently shown on the peripheral.
type StateReader interface {
	Get() domain.Layer
}

// InvokeRequest is the body of a pressed/released call.
type InvokeRequest struct {
	Param1 uint32              `json:"param1"`
	Param2 uint32              `json:"param2"`
	Event  domain.BindingEvent `json:"event"`
}

// LayerResponse is returned by GET /layer.
type LayerResponse struct {
	Layer domain.Layer `json:"layer"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// Server exposes a node's behaviors over HTTP.
type Server struct {
	Dispatcher ports.Dispatcher
	State      StateReader
	Gatherer   prometheus.Gatherer
	Logger     *slog.Logger
}

// HandlerOption configures the Server.
type HandlerOption func(*Server)

// WithState enables GET /layer.
func WithState(state StateReader) HandlerOption {
	return func(s *Server) {
		s.State = state
	}
}

// WithGatherer enables GET /metrics.
func WithGatherer(g prometheus.Gatherer) HandlerOption {
	return func(s *Server) {
		s.Gatherer = g
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) HandlerOption {
	return func(s *Server) {
		s.Logger = logger
	}
}

// NewHandler creates the HTTP handler for the receiving half of the link.
func NewHandler(d ports.Dispatcher, opts ...HandlerOption) http.Handler {
	s := &Server{
		Dispatcher: d,
		Logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Get("/health", s.GetHealth)
	r.Get("/layer", s.GetLayer)
	r.Route("/behaviors/{name}", func(r chi.Router) {
		r.Get("/", s.GetBehavior)
		r.Post("/pressed", s.invoke(true))
		r.Post("/released", s.invoke(false))
	})
	if s.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.Gatherer, promhttp.HandlerOpts{}))
	}
	return r
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetLayer handles the GET /layer request.
func (s *Server) GetLayer(w http.ResponseWriter, r *http.Request) {
	if s.State == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no display on this node"})
		return
	}
	writeJSON(w, http.StatusOK, LayerResponse{Layer: s.State.Get()})
}

// GetBehavior handles the GET /behaviors/{name} request, used to resolve a target.
func (s *Server) GetBehavior(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !s.Dispatcher.Has(name) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: domain.ErrBehaviorNotFound.Error()})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *Server) invoke(pressed bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		name := chi.URLParam(r, "name")

		var body InvokeRequest
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
			s.Logger.Warn("Invoke: Invalid request body", "error", err)
			return
		}

		inv := domain.Invocation{
			Binding: domain.Binding{
				Behavior: name,
				Param1:   body.Param1,
				Param2:   body.Param2,
			},
			Event:      body.Event,
			Pressed:    pressed,
			WaitForAck: true,
		}
		if err := s.Dispatcher.Dispatch(r.Context(), inv); err != nil {
			status := http.StatusInternalServerError
			if errors.Is(err, domain.ErrBehaviorNotFound) {
				status = http.StatusNotFound
			}
			writeJSON(w, status, errorResponse{Error: err.Error()})
			s.Logger.Error("Invoke failed", "behavior", name, "error", err)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
