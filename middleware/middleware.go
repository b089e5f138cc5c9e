// Package middleware parses interaction payloads at an HTTP boundary and
// hands the parsed value to the next handler through the request context.
package middleware

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"

	json "github.com/goccy/go-json"

	"github.com/reoring/cmdskema"
	"github.com/reoring/cmdskema/router"
)

// DefaultMaxBodyBytes caps the request body read by Interactions.
const DefaultMaxBodyBytes = 1 << 20

// SetSource yields the command set to parse against. *declfile.Holder
// satisfies it, so a reloaded declaration applies to the next request.
type SetSource interface {
	Get() *cmdskema.Set
}

// StaticSet is a SetSource over a fixed set.
type StaticSet struct{ Set *cmdskema.Set }

func (s StaticSet) Get() *cmdskema.Set { return s.Set }

type ctxKeyValue struct{}
type ctxKeyInteraction struct{}

// ContextWithValue attaches a parsed value to the context.
func ContextWithValue(ctx context.Context, v *cmdskema.Value) context.Context {
	return context.WithValue(ctx, ctxKeyValue{}, v)
}

// ValueFromContext retrieves the parsed value stored by Interactions.
func ValueFromContext(ctx context.Context) (*cmdskema.Value, bool) {
	v, ok := ctx.Value(ctxKeyValue{}).(*cmdskema.Value)
	return v, ok
}

// ContextWithInteraction attaches the decoded payload to the context.
func ContextWithInteraction(ctx context.Context, in *cmdskema.Interaction) context.Context {
	return context.WithValue(ctx, ctxKeyInteraction{}, in)
}

// InteractionFromContext retrieves the decoded payload stored by Interactions.
func InteractionFromContext(ctx context.Context) (*cmdskema.Interaction, bool) {
	in, ok := ctx.Value(ctxKeyInteraction{}).(*cmdskema.Interaction)
	return in, ok
}

// ErrorPayload shapes an error for a JSON response. Parse errors carry their
// code so clients can branch on it.
func ErrorPayload(err error) map[string]any {
	pe, ok := cmdskema.AsParseError(err)
	if !ok {
		return map[string]any{"error": err.Error()}
	}
	out := map[string]any{"code": pe.Code, "message": pe.Error(), "path": pe.Path}
	if pe.Name != "" {
		out["name"] = pe.Name
	}
	if pe.Hint != "" {
		out["hint"] = pe.Hint
	}
	return out
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Option configures Interactions.
type Option func(*config)

type config struct {
	metrics *router.Metrics
}

// WithMetrics counts parsed payloads as outcome "ok" under their command
// path, and rejected ones by error code.
func WithMetrics(m *router.Metrics) Option {
	return func(c *config) { c.metrics = m }
}

// Interactions decodes the request body in either payload form, parses it
// against the current set and stores both in the request context. A payload
// that fails to decode or parse gets a 400 with ErrorPayload; next is not
// called.
func Interactions(src SetSource, next http.Handler, opts ...Option) http.Handler {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.Header().Set("Allow", http.MethodPost)
			WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"error": "method not allowed"})
			return
		}
		body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, DefaultMaxBodyBytes))
		if err != nil {
			status := http.StatusBadRequest
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				status = http.StatusRequestEntityTooLarge
			}
			WriteJSON(w, status, ErrorPayload(err))
			return
		}
		in, err := cmdskema.DecodeInteraction(body)
		if err != nil {
			WriteJSON(w, http.StatusBadRequest, ErrorPayload(err))
			return
		}
		set := src.Get()
		v, err := set.Parse(in)
		if err != nil {
			cfg.metrics.ObserveParseError(set, in.Name, err)
			WriteJSON(w, http.StatusBadRequest, ErrorPayload(err))
			return
		}
		cfg.metrics.Count(strings.Join(v.Path(), " "), router.OutcomeOK)
		ctx := ContextWithInteraction(ContextWithValue(r.Context(), v), in)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
