package web

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/dmitrymomot/omnicontacts/pkg/contacts"
	"github.com/dmitrymomot/omnicontacts/pkg/importer"
)

// Config holds the gateway tunables.
type Config struct {
	BasePath string        `env:"CONTACTS_BASE_PATH" envDefault:"/contacts"`
	StateTTL time.Duration `env:"CONTACTS_STATE_TTL" envDefault:"10m"`
}

// ImportHandler receives the import result. Persistence is the caller's
// business, the gateway hands the records over and forgets them.
type ImportHandler func(w http.ResponseWriter, r *http.Request, user *contacts.User, list []contacts.Contact)

// ErrorHandler receives any failure along the flow.
type ErrorHandler func(w http.ResponseWriter, r *http.Request, err error)

type registration struct {
	adapter importer.ProviderAdapter
	flowCfg importer.FlowConfig
}

type pendingFlow struct {
	flow      *importer.Flow
	expiresAt time.Time
}

// Gateway hosts the contacts import flow over HTTP. It mounts two routes
// per registered provider under BasePath:
//
//	GET {base}/{provider}           starts a run, redirecting to the provider
//	GET {base}/{provider}/callback  finishes the run and invokes the handlers
//
// It is the request-routing shell around importer.Flow; everything between
// redirect and callback is protected by a one-time CSRF state token.
type Gateway struct {
	cfg      Config
	states   StateStore
	pipeline *importer.Pipeline
	logger   *slog.Logger
	onImport ImportHandler
	onError  ErrorHandler
	router   chi.Router

	mu        sync.Mutex
	providers map[string]registration
	pending   map[string]pendingFlow
}

// Option configures a Gateway during construction.
type Option func(*Gateway)

// WithLogger sets the gateway logger. Logging is discarded by default.
func WithLogger(l *slog.Logger) Option {
	return func(g *Gateway) { g.logger = l }
}

// WithPipeline replaces the default import pipeline.
func WithPipeline(p *importer.Pipeline) Option {
	return func(g *Gateway) { g.pipeline = p }
}

// WithErrorHandler replaces the default error responder.
func WithErrorHandler(fn ErrorHandler) Option {
	return func(g *Gateway) { g.onError = fn }
}

// New constructs a Gateway. The import handler is required; a nil state
// store falls back to the in-memory implementation.
func New(cfg Config, states StateStore, onImport ImportHandler, opts ...Option) *Gateway {
	if cfg.BasePath == "" {
		cfg.BasePath = "/contacts"
	}
	if cfg.StateTTL <= 0 {
		cfg.StateTTL = 10 * time.Minute
	}
	if states == nil {
		states = NewMemoryStateStore()
	}

	g := &Gateway{
		cfg:       cfg,
		states:    states,
		pipeline:  importer.NewPipeline(),
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		onImport:  onImport,
		providers: make(map[string]registration),
		pending:   make(map[string]pendingFlow),
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.onError == nil {
		g.onError = defaultErrorHandler
	}

	r := chi.NewRouter()
	r.Route(cfg.BasePath, func(r chi.Router) {
		r.Get("/{provider}", g.begin)
		r.Get("/{provider}/callback", g.callback)
	})
	g.router = r
	return g
}

// Register binds a provider adapter and its OAuth2 client registration.
func (g *Gateway) Register(adapter importer.ProviderAdapter, flowCfg importer.FlowConfig) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.providers[adapter.ProviderID()] = registration{adapter: adapter, flowCfg: flowCfg}
}

// ServeHTTP satisfies http.Handler.
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.router.ServeHTTP(w, r)
}

func (g *Gateway) begin(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	reg, ok := g.provider(name)
	if !ok {
		g.onError(w, r, fmt.Errorf("%w: %s", ErrUnknownProvider, name))
		return
	}

	state, err := newStateToken()
	if err != nil {
		g.onError(w, r, fmt.Errorf("generate state: %w", err))
		return
	}
	if err := g.states.Store(r.Context(), state, g.cfg.StateTTL); err != nil {
		g.onError(w, r, err)
		return
	}

	flow := importer.NewFlow(reg.adapter, reg.flowCfg)
	redirect, err := flow.AuthCodeURL(state)
	if err != nil {
		g.onError(w, r, err)
		return
	}
	g.holdFlow(state, flow)

	g.logger.InfoContext(r.Context(), "authorization requested", slog.String("provider", name))
	http.Redirect(w, r, redirect, http.StatusFound)
}

func (g *Gateway) callback(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "provider")
	if _, ok := g.provider(name); !ok {
		g.onError(w, r, fmt.Errorf("%w: %s", ErrUnknownProvider, name))
		return
	}

	q := r.URL.Query()
	state := q.Get("state")
	if state == "" {
		g.onError(w, r, ErrStateNotFound)
		return
	}
	if err := g.states.Consume(r.Context(), state); err != nil {
		g.onError(w, r, err)
		return
	}
	flow, ok := g.takeFlow(state)
	if !ok {
		g.onError(w, r, ErrStateNotFound)
		return
	}

	if err := flow.Callback(q.Get("code"), q.Get("error")); err != nil {
		g.logger.WarnContext(r.Context(), "authorization callback failed",
			slog.String("provider", name), slog.String("error", err.Error()))
		g.onError(w, r, err)
		return
	}
	if _, err := flow.Exchange(r.Context()); err != nil {
		g.onError(w, r, err)
		return
	}

	user, list, err := flow.Import(r.Context(), g.pipeline)
	if err != nil {
		g.onError(w, r, err)
		return
	}
	g.onImport(w, r, user, list)
}

func (g *Gateway) provider(name string) (registration, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	reg, ok := g.providers[name]
	return reg, ok
}

func (g *Gateway) holdFlow(state string, flow *importer.Flow) {
	now := time.Now()
	g.mu.Lock()
	defer g.mu.Unlock()
	for k, p := range g.pending {
		if now.After(p.expiresAt) {
			delete(g.pending, k)
		}
	}
	g.pending[state] = pendingFlow{flow: flow, expiresAt: now.Add(g.cfg.StateTTL)}
}

func (g *Gateway) takeFlow(state string) (*importer.Flow, bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	p, ok := g.pending[state]
	if !ok {
		return nil, false
	}
	delete(g.pending, state)
	if time.Now().After(p.expiresAt) {
		return nil, false
	}
	return p.flow, true
}

func newStateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.URLEncoding.EncodeToString(b), nil
}

func defaultErrorHandler(w http.ResponseWriter, _ *http.Request, err error) {
	status := http.StatusBadGateway
	switch {
	case errors.Is(err, ErrUnknownProvider):
		status = http.StatusNotFound
	case errors.Is(err, ErrStateNotFound):
		status = http.StatusBadRequest
	case errors.Is(err, importer.ErrAuthorizationDenied):
		status = http.StatusForbidden
	case errors.Is(err, importer.ErrTokenExchangeFailed):
		status = http.StatusUnauthorized
	}
	http.Error(w, err.Error(), status)
}
