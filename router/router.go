// Package router dispatches parsed interactions to handlers registered per
// command path.
package router

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/reoring/cmdskema"
)

// ErrNoHandler is returned when a payload parses but no handler is
// registered for its command path.
var ErrNoHandler = errors.New("router: no handler registered")

// Invocation is what a handler receives.
type Invocation struct {
	ID          string
	Route       string // Space separated command path, for example "admin roles add".
	Interaction *cmdskema.Interaction
	Value       *cmdskema.Value
	Logger      zerolog.Logger
}

// Handler handles one parsed interaction.
type Handler func(ctx context.Context, inv *Invocation) error

// Option configures a Router.
type Option func(*Router)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l zerolog.Logger) Option {
	return func(r *Router) { r.logger = l }
}

// WithMetrics enables Prometheus metrics.
func WithMetrics(m *Metrics) Option {
	return func(r *Router) { r.metrics = m }
}

// WithIDGenerator replaces the generator used for interactions without an ID.
func WithIDGenerator(fn func() string) Option {
	return func(r *Router) { r.newID = fn }
}

// Router maps leaf command paths to handlers.
type Router struct {
	mu      sync.RWMutex
	set     *cmdskema.Set
	routes  map[string]Handler
	logger  zerolog.Logger
	metrics *Metrics
	newID   func() string
}

// New creates a router over a compiled command set.
func New(set *cmdskema.Set, opts ...Option) *Router {
	r := &Router{
		set:    set,
		routes: make(map[string]Handler),
		logger: zerolog.Nop(),
		newID:  func() string { return uuid.New().String() },
	}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Handle registers h for a leaf command path such as "ping" or
// "admin roles add".
func (r *Router) Handle(path string, h Handler) error {
	if h == nil {
		return fmt.Errorf("router: nil handler for %q", path)
	}
	parts := strings.Fields(path)
	r.mu.Lock()
	defer r.mu.Unlock()
	if err := resolveLeaf(r.set, parts); err != nil {
		return err
	}
	route := strings.Join(parts, " ")
	if _, dup := r.routes[route]; dup {
		return fmt.Errorf("router: handler for %q already registered", route)
	}
	r.routes[route] = h
	return nil
}

// MustHandle is like Handle but panics on error.
func (r *Router) MustHandle(path string, h Handler) {
	if err := r.Handle(path, h); err != nil {
		panic(err)
	}
}

// Swap replaces the command set, for example after a declaration reload.
// Registered handlers are kept; routes missing from the new set stop
// matching.
func (r *Router) Swap(set *cmdskema.Set) {
	r.mu.Lock()
	r.set = set
	r.mu.Unlock()
	r.logger.Info().Int("commands", len(set.Commands())).Msg("command set swapped")
}

// Set returns the current command set.
func (r *Router) Set() *cmdskema.Set {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.set
}

// Dispatch parses the interaction and invokes the matching handler. Parse
// failures are returned unchanged so errors.Is works on the cmdskema
// sentinels.
func (r *Router) Dispatch(ctx context.Context, in *cmdskema.Interaction) error {
	r.mu.RLock()
	set := r.set
	r.mu.RUnlock()

	id := in.ID
	if id == "" {
		id = r.newID()
	}
	log := r.logger.With().Str("interaction_id", id).Str("command", in.Name).Logger()

	v, err := set.Parse(in)
	if err != nil {
		code := r.metrics.ObserveParseError(set, in.Name, err)
		log.Warn().Err(err).Str("code", code).Msg("interaction rejected")
		return err
	}

	route := strings.Join(v.Path(), " ")
	r.mu.RLock()
	h, ok := r.routes[route]
	r.mu.RUnlock()
	if !ok {
		log.Warn().Str("route", route).Msg("no handler registered")
		r.metrics.Count(route, OutcomeNoHandler)
		return fmt.Errorf("%w for %q", ErrNoHandler, route)
	}

	log = log.With().Str("route", route).Logger()
	start := time.Now()
	err = h(ctx, &Invocation{ID: id, Route: route, Interaction: in, Value: v, Logger: log})
	elapsed := time.Since(start)
	if r.metrics != nil {
		r.metrics.HandlerDuration.WithLabelValues(route).Observe(elapsed.Seconds())
	}
	if err != nil {
		log.Error().Err(err).Dur("duration", elapsed).Msg("handler failed")
		r.metrics.Count(route, OutcomeHandlerError)
		return err
	}
	log.Debug().Dur("duration", elapsed).Msg("interaction handled")
	r.metrics.Count(route, OutcomeOK)
	return nil
}

// DispatchJSON decodes a payload in either wire form and dispatches it.
func (r *Router) DispatchJSON(ctx context.Context, data []byte) error {
	in, err := cmdskema.DecodeInteraction(data)
	if err != nil {
		r.logger.Warn().Err(err).Msg("undecodable interaction")
		return err
	}
	return r.Dispatch(ctx, in)
}

func resolveLeaf(set *cmdskema.Set, parts []string) error {
	if len(parts) == 0 {
		return fmt.Errorf("router: empty command path")
	}
	path := strings.Join(parts, " ")
	cmd, ok := set.Lookup(parts[0])
	if !ok {
		return fmt.Errorf("router: %q: unknown command %q", path, parts[0])
	}
	rest := parts[1:]
	for cmd.IsContainer() {
		if len(rest) == 0 {
			return fmt.Errorf("router: %q resolves to a container, not a leaf command", path)
		}
		ch, ok := cmd.Child(rest[0])
		if !ok {
			return fmt.Errorf("router: %q: unknown sub-command %q", path, rest[0])
		}
		rest = rest[1:]
		switch n := ch.(type) {
		case *cmdskema.Command:
			cmd = n
		case *cmdskema.Group:
			if len(rest) == 0 {
				return fmt.Errorf("router: %q resolves to a group, not a leaf command", path)
			}
			sc, ok := n.SubCommand(rest[0])
			if !ok {
				return fmt.Errorf("router: %q: unknown sub-command %q", path, rest[0])
			}
			cmd, rest = sc, rest[1:]
		}
	}
	if len(rest) > 0 {
		return fmt.Errorf("router: %q: %q has no sub-commands", path, cmd.Name())
	}
	return nil
}
