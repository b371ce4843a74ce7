package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/aretw0/lama/pkg/domain"
	"github.com/aretw0/lama/pkg/material"
	"github.com/aretw0/lama/pkg/ports"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBody bounds request bodies; a full 6x6 matrix record is a few hundred bytes.
const maxBody = 1 << 20

// Workbench is the material core served by the API.
type Workbench interface {
	Decode(ctx context.Context, record material.Fields) (domain.Material, error)
	Tensor(ctx context.Context, m domain.Material) (domain.StiffnessTensor, error)
}

// Server holds the handler dependencies.
type Server struct {
	Workbench Workbench
	Store     ports.MaterialStore
	Logger    *slog.Logger
	metrics   http.Handler
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request error logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.Logger = logger
	}
}

// WithMetricsHandler mounts h at GET /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// NewHandler creates the HTTP handler for the material API.
func NewHandler(wb Workbench, store ports.MaterialStore, opts ...Option) http.Handler {
	s := &Server{
		Workbench: wb,
		Store:     store,
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Post("/validate", s.Validate)
	r.Route("/materials", func(r chi.Router) {
		r.Get("/", s.ListMaterials)
		r.Post("/", s.CreateMaterial)
		r.Get("/{name}", s.GetMaterial)
		r.Delete("/{name}", s.DeleteMaterial)
		r.Get("/{name}/tensor", s.GetTensor)
	})
	return r
}

// MaterialResponse describes a validated material.
type MaterialResponse struct {
	Record  material.Fields `json:"record"`
	Summary string          `json:"summary"`
	Flags   []string        `json:"flags,omitempty"`
	Tensor  [][]float64     `json:"tensor,omitempty"`
}

// TensorResponse is the 6x6 stiffness tensor of a stored material.
type TensorResponse struct {
	Name       string      `json:"name"`
	Kind       string      `json:"kind"`
	VoigtOrder []string    `json:"voigt_order"`
	Matrix     [][]float64 `json:"matrix"`
}

// ListResponse lists stored material names.
type ListResponse struct {
	Materials []string `json:"materials"`
}

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string        `json:"error"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail is one field-level validation failure.
type ErrorDetail struct {
	Field  string `json:"field,omitempty"`
	Code   string `json:"code"`
	Reason string `json:"reason,omitempty"`
}

var voigtOrder = []string{"11", "22", "33", "12", "13", "23"}

// Validate handles POST /validate.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	m, ok := s.decode(w, r)
	if !ok {
		return
	}
	resp, err := s.describe(r.Context(), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// CreateMaterial handles POST /materials.
func (s *Server) CreateMaterial(w http.ResponseWriter, r *http.Request) {
	m, ok := s.decode(w, r)
	if !ok {
		return
	}
	resp, err := s.describe(r.Context(), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if err := s.Store.Save(r.Context(), m); err != nil {
		s.writeError(w, r, fmt.Errorf("save: %w", err))
		return
	}
	w.Header().Set("Location", "/materials/"+url.PathEscape(m.Common().Name))
	writeJSON(w, http.StatusCreated, resp)
}

// ListMaterials handles GET /materials.
func (s *Server) ListMaterials(w http.ResponseWriter, r *http.Request) {
	names, err := s.Store.List(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, ListResponse{Materials: names})
}

// GetMaterial handles GET /materials/{name}.
func (s *Server) GetMaterial(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r)
	if !ok {
		return
	}
	resp, err := s.describe(r.Context(), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// DeleteMaterial handles DELETE /materials/{name}.
func (s *Server) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	name, err := nameParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid material name"})
		return
	}
	if err := s.Store.Delete(r.Context(), name); err != nil {
		s.writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// GetTensor handles GET /materials/{name}/tensor.
func (s *Server) GetTensor(w http.ResponseWriter, r *http.Request) {
	m, ok := s.load(w, r)
	if !ok {
		return
	}
	t, err := s.Workbench.Tensor(r.Context(), m)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, TensorResponse{
		Name:       m.Common().Name,
		Kind:       m.Kind().String(),
		VoigtOrder: voigtOrder,
		Matrix:     t.C.Rows(),
	})
}

func (s *Server) decode(w http.ResponseWriter, r *http.Request) (domain.Material, bool) {
	var record material.Fields
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBody)).Decode(&record); err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "Invalid request body: " + err.Error()})
		return nil, false
	}
	m, err := s.Workbench.Decode(r.Context(), record)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return m, true
}

// nameParam returns the decoded {name} segment. chi routes on RawPath when
// it is set, leaving the segment escaped; otherwise it is already decoded.
func nameParam(r *http.Request) (string, error) {
	name := chi.URLParam(r, "name")
	if r.URL.RawPath == "" {
		return name, nil
	}
	return url.PathUnescape(name)
}

func (s *Server) load(w http.ResponseWriter, r *http.Request) (domain.Material, bool) {
	name, err := nameParam(r)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid material name"})
		return nil, false
	}
	m, err := s.Store.Load(r.Context(), name)
	if err != nil {
		s.writeError(w, r, err)
		return nil, false
	}
	return m, true
}

// describe builds the response for m, including its tensor when it has one.
func (s *Server) describe(ctx context.Context, m domain.Material) (MaterialResponse, error) {
	resp := MaterialResponse{
		Record:  material.Encode(m),
		Summary: m.Summary(),
		Flags:   m.Common().Flags.Strings(),
	}
	t, err := s.Workbench.Tensor(ctx, m)
	switch {
	case errors.Is(err, domain.ErrNoTensor):
	case err != nil:
		return MaterialResponse{}, err
	default:
		resp.Tensor = t.C.Rows()
	}
	return resp, nil
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	if status >= http.StatusInternalServerError {
		s.Logger.Error("request failed", "method", r.Method, "path", r.URL.Path,
			"request_id", middleware.GetReqID(r.Context()), "err", err)
	}

	resp := ErrorResponse{Error: err.Error()}
	if status == http.StatusUnprocessableEntity {
		for _, e := range domain.ValidationErrors(err) {
			var verr *domain.ValidationError
			if errors.As(e, &verr) {
				resp.Details = append(resp.Details, ErrorDetail{Field: verr.Field, Code: verr.Code.Error(), Reason: verr.Reason})
			}
		}
	}
	writeJSON(w, status, resp)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, domain.ErrMaterialNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrNoTensor):
		return http.StatusConflict
	case errors.Is(err, domain.ErrUnknownKind),
		errors.Is(err, domain.ErrMissingField),
		errors.Is(err, domain.ErrMalformedField),
		errors.Is(err, domain.ErrOutOfRange),
		errors.Is(err, domain.ErrAsymmetricMatrix),
		errors.Is(err, domain.ErrNonPhysical),
		errors.Is(err, domain.ErrReciprocityViolation),
		errors.Is(err, domain.ErrSingularMatrix):
		return http.StatusUnprocessableEntity
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
