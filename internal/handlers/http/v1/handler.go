// Package v1 serves the reference engine over HTTP
package v1

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KirkDiggler/rpg-lore/internal/batch"
	"github.com/KirkDiggler/rpg-lore/internal/errors"
	"github.com/KirkDiggler/rpg-lore/internal/markup"
	"github.com/KirkDiggler/rpg-lore/internal/services/dice"
	"github.com/KirkDiggler/rpg-lore/internal/services/session"
	"github.com/KirkDiggler/rpg-lore/internal/tooltip"
)

// maxBodyBytes bounds request bodies
const maxBodyBytes = 1 << 20

// HandlerConfig holds dependencies for the HTTP handler
type HandlerConfig struct {
	Markup    *markup.Renderer
	Resolver  tooltip.Resolver
	Renderer  tooltip.Renderer
	Processor *batch.Processor
	Dice      dice.Service
	// Sessions is optional; session routes answer 501 without it
	Sessions *session.Service
	Logger   *slog.Logger
}

// Validate ensures all required dependencies are present
func (c *HandlerConfig) Validate() error {
	vb := errors.NewValidationBuilder()
	if c.Markup == nil {
		vb.RequiredField("Markup")
	}
	if c.Resolver == nil {
		vb.RequiredField("Resolver")
	}
	if c.Renderer == nil {
		vb.RequiredField("Renderer")
	}
	if c.Processor == nil {
		vb.RequiredField("Processor")
	}
	if c.Dice == nil {
		vb.RequiredField("Dice")
	}
	return vb.Build()
}

// Handler implements the v1 HTTP API
type Handler struct {
	markup    *markup.Renderer
	resolver  tooltip.Resolver
	renderer  tooltip.Renderer
	processor *batch.Processor
	dice      dice.Service
	sessions  *session.Service
	logger    *slog.Logger
}

// NewHandler creates a new handler with the given configuration
func NewHandler(cfg *HandlerConfig) (*Handler, error) {
	if cfg == nil {
		return nil, errors.InvalidArgument("config is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid config")
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		markup:    cfg.Markup,
		resolver:  cfg.Resolver,
		renderer:  cfg.Renderer,
		processor: cfg.Processor,
		dice:      cfg.Dice,
		sessions:  cfg.Sessions,
		logger:    logger,
	}, nil
}

// Routes builds the router
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(h.requestLogger)

	r.Get("/healthz", h.healthz)

	r.Route("/v1", func(r chi.Router) {
		r.Post("/render", h.render)
		r.Get("/references/{type}/{name}", h.resolveReference)
		r.Post("/documents/process", h.processDocument)
		r.Post("/dice/roll", h.rollDice)

		r.Route("/sessions", func(r chi.Router) {
			r.Use(h.requireSessions)
			r.Post("/", h.createSession)
			r.Get("/{id}", h.getSession)
			r.Delete("/{id}", h.deleteSession)
			r.Post("/{id}/events", h.dispatchEvent)
			r.Get("/{id}/document", h.getDocument)
			r.Put("/{id}/document", h.setDocument)
			r.Post("/{id}/document/fragments", h.insertFragment)
			r.Post("/{id}/document/flush", h.flushDocument)
		})
	})

	return r
}

func (h *Handler) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) requireSessions(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h.sessions == nil {
			h.writeError(w, r, errors.Unimplemented("tooltip sessions are disabled"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (h *Handler) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		h.logger.Debug("http request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
