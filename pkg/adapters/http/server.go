package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/singleflight"

	"github.com/bots-against-war/moduli/internal/presentation/graph"
	"github.com/bots-against-war/moduli/internal/validator"
	"github.com/bots-against-war/moduli/pkg/defaults"
	"github.com/bots-against-war/moduli/pkg/display"
	"github.com/bots-against-war/moduli/pkg/domain"
	"github.com/bots-against-war/moduli/pkg/i18n"
	"github.com/bots-against-war/moduli/pkg/ports"
)

// Server serves the editor-support API: node defaults, display metadata and validation.
type Server struct {
	prefilledSource ports.PrefilledSource
	flows           ports.FlowLoader
	logger          *slog.Logger
	registry        *prometheus.Registry
	metrics         *metrics

	fetches   singleflight.Group
	mu        sync.Mutex
	prefilled domain.PrefilledMessages
}

// Option configures a Server.
type Option func(*Server)

// WithPrefilledSource fetches the prefilled message catalog used by node factories.
// The catalog is fetched on first use and kept once fetched successfully.
func WithPrefilledSource(src ports.PrefilledSource) Option {
	return func(s *Server) {
		s.prefilledSource = src
	}
}

// WithFlowLoader enables the /flows/{name} endpoints.
func WithFlowLoader(flows ports.FlowLoader) Option {
	return func(s *Server) {
		s.flows = flows
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRegistry registers the server's metrics in reg and serves reg on /metrics.
func WithRegistry(reg *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = reg
	}
}

type metrics struct {
	requests    *prometheus.CounterVec
	issues      *prometheus.CounterVec
	nodesIssued *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	m := &metrics{
		requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_http_requests_total",
				Help: "Total number of API requests",
			},
			[]string{"route", "code"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_validation_issues_total",
				Help: "Total number of flow validation issues reported",
			},
			[]string{"severity"},
		),
		nodesIssued: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "studio_default_nodes_total",
				Help: "Total number of default node configs built",
			},
			[]string{"node_type"},
		),
	}
	reg.MustRegister(m.requests, m.issues, m.nodesIssued)
	return m
}

// NewServer creates a server. Without WithRegistry it uses a private registry.
func NewServer(opts ...Option) *Server {
	s := &Server{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}
	s.metrics = newMetrics(s.registry)
	return s
}

// NewHandler creates the HTTP handler for the editor-support API.
func NewHandler(opts ...Option) http.Handler {
	return NewServer(opts...).Handler()
}

// Handler builds the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(s.instrument)

	r.Get("/health", s.GetHealth)
	r.Get("/node-types", s.GetNodeTypes)
	r.Post("/nodes/{nodeType}", s.CreateNode)
	r.Post("/validate", s.Validate)
	r.Get("/typography/{role}", s.GetTypography)
	if s.flows != nil {
		r.Get("/flows/{name}/report", s.GetFlowReport)
		r.Get("/flows/{name}/mermaid", s.GetFlowMermaid)
	}
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))

	return enableCORS(r)
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == "OPTIONS" {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// instrument counts requests by route pattern and status code, and logs them.
func (s *Server) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.requests.WithLabelValues(route, strconv.Itoa(status)).Inc()
		s.logger.Debug("request served", "method", r.Method, "route", route, "status", status)
	})
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, s.logger, map[string]string{"status": "ok"})
}

// NodeTypeInfo is the display metadata of a canvas node type.
type NodeTypeInfo struct {
	Key      display.NodeTypeKey `json:"key"`
	Title    string              `json:"title"`
	Hue      display.Hue         `json:"hue"`
	Color    string              `json:"color"`
	ColorHex string              `json:"color_hex"`
	Icon     string              `json:"icon"`
}

// GetNodeTypes handles the GET /node-types request. Titles follow the ?locale= parameter.
func (s *Server) GetNodeTypes(w http.ResponseWriter, r *http.Request) {
	locale := queryLocale(r)
	t := i18n.Default().Translator(locale)

	infos := make([]NodeTypeInfo, 0, len(display.NodeTypeKeys))
	for _, key := range display.NodeTypeKeys {
		hue := display.NodeHue[key]
		infos = append(infos, NodeTypeInfo{
			Key:      key,
			Title:    t(display.NodeTitleKey[key]),
			Hue:      hue,
			Color:    display.HeaderColor(hue),
			ColorHex: display.HeaderColorHex(hue),
			Icon:     display.NodeIcon[key],
		})
	}
	writeJSON(w, s.logger, infos)
}

// CreateNodeRequest is the body of POST /nodes/{nodeType}.
type CreateNodeRequest struct {
	ID            string                   `json:"id,omitempty"`
	Locale        string                   `json:"locale,omitempty"`
	CurrentConfig *domain.UserFlowConfig   `json:"current_config"`
	LangConfig    *defaults.LanguageConfig `json:"lang_config,omitempty"`
}

// CreateNode handles the POST /nodes/{nodeType} request.
func (s *Server) CreateNode(w http.ResponseWriter, r *http.Request) {
	nodeType := chi.URLParam(r, "nodeType")
	factory, ok := defaults.Lookup(nodeType)
	if !ok {
		http.Error(w, "Unknown node type: "+nodeType, http.StatusNotFound)
		return
	}

	var body CreateNodeRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		s.logger.Warn("CreateNode: Invalid request body", "error", err)
		return
	}

	locale, ok := i18n.ParseLocale(body.Locale)
	if !ok {
		locale = i18n.DefaultLocale
	}
	if body.ID == "" {
		body.ID = defaults.NewNodeID(nodeType)
	}
	if body.LangConfig == nil {
		body.LangConfig = defaults.LanguageConfigFromFlow(body.CurrentConfig)
	}

	node, err := factory(defaults.Context{
		ID:         body.ID,
		T:          i18n.Default().Translator(locale),
		LangConfig: body.LangConfig,
		Current:    body.CurrentConfig,
		Locale:     locale,
		Prefilled:  s.prefilledMessages(r),
	})
	if err != nil {
		http.Error(w, "Create node error: "+err.Error(), http.StatusBadRequest)
		return
	}
	s.metrics.nodesIssued.WithLabelValues(nodeType).Inc()
	writeJSON(w, s.logger, node)
}

// prefilledMessages returns the cached catalog, fetching it when a source is configured.
// Concurrent callers share one fetch. A failed fetch yields an empty catalog and is
// retried on the next call.
func (s *Server) prefilledMessages(r *http.Request) domain.PrefilledMessages {
	if s.prefilledSource == nil {
		return nil
	}
	s.mu.Lock()
	cached := s.prefilled
	s.mu.Unlock()
	if cached != nil {
		return cached
	}

	v, _, _ := s.fetches.Do("prefilled", func() (any, error) {
		res, err := s.prefilledSource.PrefilledMessages(r.Context())
		if err != nil {
			s.logger.Warn("Prefilled messages unavailable", "error", err)
			return domain.PrefilledMessages(nil), nil
		}
		msgs, ok := res.Value()
		if !ok {
			s.logger.Warn("Prefilled messages rejected by backend", "error", res.ErrorOr("unknown error"))
			return domain.PrefilledMessages(nil), nil
		}
		s.mu.Lock()
		s.prefilled = msgs
		s.mu.Unlock()
		return msgs, nil
	})
	return v.(domain.PrefilledMessages)
}

// ValidateResponse is the body of a validation report.
type ValidateResponse struct {
	OK     bool              `json:"ok"`
	Issues []validator.Issue `json:"issues"`
}

// Validate handles the POST /validate request.
func (s *Server) Validate(w http.ResponseWriter, r *http.Request) {
	var flow domain.UserFlowConfig
	if err := json.NewDecoder(r.Body).Decode(&flow); err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, domain.ErrNestingTooDeep) {
			status = http.StatusUnprocessableEntity
		}
		http.Error(w, "Invalid flow: "+err.Error(), status)
		return
	}
	s.writeReport(w, validator.Validate(&flow))
}

func (s *Server) writeReport(w http.ResponseWriter, report validator.Report) {
	for _, issue := range report.Issues {
		s.metrics.issues.WithLabelValues(string(issue.Severity)).Inc()
	}
	issues := report.Issues
	if issues == nil {
		issues = []validator.Issue{}
	}
	writeJSON(w, s.logger, ValidateResponse{OK: report.OK(), Issues: issues})
}

// GetFlowReport handles the GET /flows/{name}/report request.
func (s *Server) GetFlowReport(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}
	s.writeReport(w, validator.Validate(flow))
}

// GetFlowMermaid handles the GET /flows/{name}/mermaid request. Invalid nodes are highlighted.
func (s *Server) GetFlowMermaid(w http.ResponseWriter, r *http.Request) {
	flow, ok := s.loadFlow(w, r)
	if !ok {
		return
	}
	overlay := &graph.GraphOverlay{}
	for _, issue := range validator.Validate(flow).Errors() {
		overlay.InvalidNodes = append(overlay.InvalidNodes, issue.NodeID)
	}
	t := i18n.Default().Translator(queryLocale(r))

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Write([]byte(graph.GenerateMermaid(flow, t, overlay)))
}

func (s *Server) loadFlow(w http.ResponseWriter, r *http.Request) (*domain.UserFlowConfig, bool) {
	name := chi.URLParam(r, "name")
	flow, err := s.flows.LoadFlow(r.Context(), name)
	switch {
	case errors.Is(err, domain.ErrFlowNotFound):
		http.Error(w, "Flow not found: "+name, http.StatusNotFound)
		return nil, false
	case err != nil:
		http.Error(w, "Load flow error: "+err.Error(), http.StatusInternalServerError)
		s.logger.Error("LoadFlow failed", "flow", name, "error", err)
		return nil, false
	}
	return flow, true
}

// TypographyResponse lists the class tokens of a typography role.
type TypographyResponse struct {
	Role    display.TypographyRole `json:"role"`
	Tokens  []string               `json:"tokens"`
	Classes string                 `json:"classes"`
}

// GetTypography handles the GET /typography/{role} request.
func (s *Server) GetTypography(w http.ResponseWriter, r *http.Request) {
	role := display.TypographyRole(chi.URLParam(r, "role"))
	writeJSON(w, s.logger, TypographyResponse{
		Role:    role,
		Tokens:  display.Typography(role),
		Classes: display.TypographyClass(role),
	})
}

func queryLocale(r *http.Request) i18n.Locale {
	if locale, ok := i18n.ParseLocale(r.URL.Query().Get("locale")); ok {
		return locale
	}
	return i18n.DefaultLocale
}

func writeJSON(w http.ResponseWriter, logger *slog.Logger, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Response encode failed", "error", err)
	}
}
