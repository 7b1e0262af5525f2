// Package preview serves the widget bootstrap page, the per-widget
// config endpoint, and the websocket channel that implements the
// host-page embedding protocol.
package preview

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/widget"
)

// Config holds preview server configuration.
type Config struct {
	Port     int
	AllowAll bool // allow all CORS origins (dev mode)
}

// Server hosts one widget configuration for previewing.
type Server struct {
	cfg        Config
	widgetCfg  *config.WidgetConfig
	opts       widget.Options
	router     chi.Router
	httpServer *http.Server
}

// New creates a preview server for the given widget configuration.
// opts are passed to every runtime instance the server creates, so the
// preview can share a persistent session store with the CLI.
func New(cfg Config, widgetCfg *config.WidgetConfig, opts widget.Options) *Server {
	s := &Server{cfg: cfg, widgetCfg: widgetCfg, opts: opts}
	s.router = s.buildRouter()
	return s
}

// buildRouter creates and configures the chi router with all routes.
func (s *Server) buildRouter() chi.Router {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	// CORS: the widget is embedded on third-party origins by design.
	corsOpts := cors.Options{
		AllowedOrigins:   []string{"http://localhost:*", "http://127.0.0.1:*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}
	if s.cfg.AllowAll {
		corsOpts.AllowedOrigins = []string{"*"}
	}
	r.Use(cors.Handler(corsOpts))

	// Health check
	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Get("/", s.handleBootstrap)
	r.Get("/api/widgets/{id}/config", s.handleConfig)
	r.Get("/ws", s.handleWebSocket)

	return r
}

// Router returns the chi router (used by tests).
func (s *Server) Router() chi.Router { return s.router }

// handleConfig serves the WidgetConfig JSON consumed by embedded
// runtimes.
func (s *Server) handleConfig(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if id != s.widgetCfg.Connection.WidgetID {
		http.Error(w, `{"error":"unknown widget"}`, http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(s.widgetCfg); err != nil {
		log.Printf("preview: encoding config: %v", err)
	}
}

// Start begins listening on the configured port.
func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.cfg.Port)
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	log.Printf("preview server listening on %s", addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer != nil {
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
