package server

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humago"

	"github.com/joeblew999/qgis2wegue/internal/api"
	"github.com/joeblew999/qgis2wegue/internal/capabilities"
	"github.com/joeblew999/qgis2wegue/internal/service"
)

// Config holds the server configuration.
type Config struct {
	Host                string
	Port                string
	CapabilitiesTimeout time.Duration // 0 means capabilities.DefaultTimeout
	Logger              *slog.Logger
}

// Server is the qgis2wegue HTTP server.
type Server struct {
	config   Config
	mux      *http.ServeMux
	humaAPI  huma.API
	services *api.Services
}

// New creates a new server.
func New(cfg Config) *Server {
	if cfg.CapabilitiesTimeout <= 0 {
		cfg.CapabilitiesTimeout = capabilities.DefaultTimeout
	}
	if cfg.Logger == nil {
		cfg.Logger = slog.Default()
	}

	mux := http.NewServeMux()

	// Create Huma API with humago (pure stdlib) adapter
	humaConfig := huma.DefaultConfig("qgis2wegue API", api.Version)
	humaConfig.Info.Description = "Turns QGIS project layers into Wegue WebGIS configurations."
	humaConfig.Servers = []*huma.Server{
		{URL: fmt.Sprintf("http://%s:%s", cfg.Host, cfg.Port), Description: "Local server"},
	}
	// Disable $schema property in responses (cleaner JSON)
	humaConfig.CreateHooks = []func(huma.Config) huma.Config{}
	humaConfig.Transformers = append(humaConfig.Transformers, api.LinkTransformer())

	humaAPI := humago.New(mux, humaConfig)

	services := &api.Services{
		Export: NewExportService(cfg, nil),
	}

	s := &Server{
		config:   cfg,
		mux:      mux,
		humaAPI:  humaAPI,
		services: services,
	}
	s.routes()
	return s
}

// NewExportService wires an export service with a capabilities client using
// the configured timeout. events may be nil.
func NewExportService(cfg Config, events *service.EventBus) *service.ExportService {
	timeout := cfg.CapabilitiesTimeout
	if timeout <= 0 {
		timeout = capabilities.DefaultTimeout
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return service.NewExportService(service.ExportConfig{
		Resolver: capabilities.New(
			capabilities.WithTimeout(timeout),
			capabilities.WithLogger(logger),
		),
		Events: events,
		Logger: logger,
	})
}

// ServeHTTP implements http.Handler. Every request is logged once it
// completes.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	s.mux.ServeHTTP(w, r)
	s.config.Logger.Info("request completed",
		"method", r.Method,
		"path", r.URL.Path,
		"duration_ms", time.Since(start).Milliseconds(),
	)
}

// OpenAPI returns the OpenAPI document of the registered operations.
func (s *Server) OpenAPI() *huma.OpenAPI {
	return s.humaAPI.OpenAPI()
}

func (s *Server) routes() {
	// Register Huma REST API routes (OpenAPI-documented JSON endpoints)
	api.RegisterRoutes(s.humaAPI, s.services, api.NewInfoHandler(s.config.CapabilitiesTimeout))

	s.mux.HandleFunc("/", s.handleRoot)
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	http.Redirect(w, r, "/docs", http.StatusFound)
}
