// Package widget assembles the runtime: configuration in, themed HTML
// fragments out. One Runtime per embedded widget instance.
package widget

import (
	"context"
	"log"
	"net/http"
	"sync"

	"github.com/embedchat/widget-runtime/internal/config"
	"github.com/embedchat/widget-runtime/internal/lazyload"
	"github.com/embedchat/widget-runtime/internal/relay"
	"github.com/embedchat/widget-runtime/internal/rendercache"
	"github.com/embedchat/widget-runtime/internal/renderer"
	"github.com/embedchat/widget-runtime/internal/session"
	"github.com/embedchat/widget-runtime/internal/state"
	"github.com/embedchat/widget-runtime/internal/theme"
)

// RenderFunc receives a component's fragment whenever it re-renders.
type RenderFunc func(component, html string)

// Options configures a Runtime beyond its WidgetConfig.
type Options struct {
	// Storage backs session persistence. Defaults to in-memory.
	Storage session.Storage
	// HTTPClient is used for relay sends. Defaults to a 30s-timeout client.
	HTTPClient *http.Client
	// CacheConfig bounds the render cache. Zero values use defaults.
	CacheConfig rendercache.Config
}

// Runtime owns every engine of one widget instance and keeps the
// rendered fragments in sync with the state.
type Runtime struct {
	mu     sync.Mutex
	cfg    *config.WidgetConfig
	tokens theme.TokenSet

	states   *state.Manager
	sessions *session.Manager
	client   *relay.Client
	cache    *rendercache.Cache
	loader   *lazyload.Loader

	components  []Component
	fragments   map[string]string
	onRender    RenderFunc
	unsubscribe func()
}

// New builds a runtime from a widget configuration: computes the design
// tokens, restores the session, registers the lazy renderer, and mounts
// the UI components.
func New(cfg *config.WidgetConfig, opts Options) *Runtime {
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	store := opts.Storage
	if store == nil {
		store = session.NewMemoryStorage()
	}

	tokens := theme.ComputeTokens(cfg)

	states := state.New(tokens["--theme"])
	sessions := session.NewManager(store, cfg.Connection.LicenseKey)
	client := relay.NewClient(cfg, sessions, states, opts.HTTPClient)
	cache := rendercache.New(opts.CacheConfig)

	loader := lazyload.New()
	renderer.Register(loader)

	r := &Runtime{
		cfg:       cfg,
		tokens:    tokens,
		states:    states,
		sessions:  sessions,
		client:    client,
		cache:     cache,
		loader:    loader,
		fragments: make(map[string]string),
	}

	r.components = buildComponents(cfg, cache, loader)

	r.unsubscribe = states.Subscribe(r.onStateChange)
	r.renderAll()

	return r
}

func buildComponents(cfg *config.WidgetConfig, cache *rendercache.Cache, loader *lazyload.Loader) []Component {
	return []Component{
		NewLauncher(),
		NewHeader(cfg.Branding),
		NewChatContainer(cfg.Branding.WelcomeMessage, cache, loader),
		NewFileUpload(),
		NewFooter(),
		NewPdfLightbox(),
	}
}

// State exposes the state manager for components and embedders.
func (r *Runtime) State() *state.Manager { return r.states }

// Sessions exposes the session manager.
func (r *Runtime) Sessions() *session.Manager { return r.sessions }

// Relay exposes the relay client (for attaching files and page context).
func (r *Runtime) Relay() *relay.Client { return r.client }

// Cache exposes the render cache (for stats endpoints and tests).
func (r *Runtime) Cache() *rendercache.Cache { return r.cache }

// Loader exposes the lazy module loader.
func (r *Runtime) Loader() *lazyload.Loader { return r.loader }

// Tokens returns the current design-token set.
func (r *Runtime) Tokens() theme.TokenSet {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens.Clone()
}

// TokensCSS renders the current tokens as a CSS block for the bootstrap
// page.
func (r *Runtime) TokensCSS() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.tokens.CSS(".embedchat-widget")
}

// OnRender registers the fragment sink. The sink immediately receives
// every current fragment so late subscribers start in sync.
func (r *Runtime) OnRender(fn RenderFunc) {
	r.mu.Lock()
	r.onRender = fn
	current := make(map[string]string, len(r.fragments))
	for k, v := range r.fragments {
		current[k] = v
	}
	r.mu.Unlock()

	for name, html := range current {
		fn(name, html)
	}
}

// Fragments returns a snapshot of the current component markup.
func (r *Runtime) Fragments() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make(map[string]string, len(r.fragments))
	for k, v := range r.fragments {
		out[k] = v
	}
	return out
}

// Open shows the widget panel.
func (r *Runtime) Open() {
	r.states.Apply(state.Patch{IsOpen: state.Bool(true)})
}

// Close hides the widget panel.
func (r *Runtime) Close() {
	r.states.Apply(state.Patch{IsOpen: state.Bool(false)})
}

// Send submits a user turn through the relay client.
func (r *Runtime) Send(ctx context.Context, text string) error {
	return r.client.Send(ctx, text)
}

// ClearHistory removes the whole conversation and the cached renders
// that backed it.
func (r *Runtime) ClearHistory() {
	r.states.ClearMessages()
	r.cache.Clear()
}

// ApplyConfig swaps in a new configuration snapshot: tokens are
// recomputed, components pick up the new branding, and everything
// re-renders. The conversation and session are preserved.
func (r *Runtime) ApplyConfig(cfg *config.WidgetConfig) {
	if cfg == nil {
		return
	}
	tokens := theme.ComputeTokens(cfg)

	r.mu.Lock()
	r.cfg = cfg
	r.tokens = tokens
	r.components = buildComponents(cfg, r.cache, r.loader)
	r.mu.Unlock()

	r.states.Apply(state.Patch{CurrentTheme: state.Str(tokens["--theme"])})
	r.renderAll()
}

// Shutdown detaches the runtime from its state manager.
func (r *Runtime) Shutdown() {
	if r.unsubscribe != nil {
		r.unsubscribe()
		r.unsubscribe = nil
	}
}

// onStateChange re-renders only the components whose declared fields
// intersect the changed set.
func (r *Runtime) onStateChange(s state.WidgetState, changed []string) {
	changedSet := make(map[string]bool, len(changed))
	for _, f := range changed {
		changedSet[f] = true
	}

	for _, comp := range r.components {
		hit := false
		for _, f := range comp.Fields() {
			if changedSet[f] {
				hit = true
				break
			}
		}
		if hit {
			r.renderComponent(comp, s)
		}
	}
}

// renderAll renders every component from the current state.
func (r *Runtime) renderAll() {
	s := r.states.State()
	for _, comp := range r.components {
		r.renderComponent(comp, s)
	}
}

func (r *Runtime) renderComponent(comp Component, s state.WidgetState) {
	r.mu.Lock()
	tokens := r.tokens
	r.mu.Unlock()

	html, err := comp.Render(s, tokens)
	if err != nil {
		log.Printf("widget: rendering %s: %v", comp.Name(), err)
		return
	}

	r.mu.Lock()
	unchanged := r.fragments[comp.Name()] == html
	if !unchanged {
		r.fragments[comp.Name()] = html
	}
	sink := r.onRender
	r.mu.Unlock()

	if !unchanged && sink != nil {
		sink(comp.Name(), html)
	}
}
