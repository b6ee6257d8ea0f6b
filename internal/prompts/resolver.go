package prompts

import (
	"fmt"
	"log/slog"
	"maps"
	"slices"
	"strings"
	"sync"
)

// Resolver maps prompt keys to text. Overrides from config shadow the
// embedded defaults and can be swapped at runtime.
type Resolver struct {
	logger *slog.Logger

	mu        sync.RWMutex
	defaults  map[string]EmbeddedPrompt
	overrides map[string]string
}

// NewResolver returns an empty Resolver. A nil logger uses slog.Default.
func NewResolver(logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		logger:    logger,
		defaults:  map[string]EmbeddedPrompt{},
		overrides: map[string]string{},
	}
}

// Register adds or replaces the default for p.Key.
func (r *Resolver) Register(p EmbeddedPrompt) {
	if p.Hash == "" {
		p.Hash = HashText(p.Text)
	}
	if p.Variables == nil {
		p.Variables = ExtractVariables(p.Text)
	}

	r.mu.Lock()
	r.defaults[p.Key] = p
	r.mu.Unlock()
	r.logger.Debug("registered embedded prompt", "key", p.Key, "vars", p.Variables)
}

// SetOverrides replaces the whole override set. Whitespace-only texts are
// dropped so they cannot blank out a default.
func (r *Resolver) SetOverrides(overrides map[string]string) {
	kept := maps.Clone(overrides)
	if kept == nil {
		kept = map[string]string{}
	}
	maps.DeleteFunc(kept, func(_, text string) bool { return strings.TrimSpace(text) == "" })

	r.mu.Lock()
	r.overrides = kept
	r.mu.Unlock()

	if n := len(kept); n > 0 {
		r.logger.Info("prompt overrides applied", "count", n)
	}
}

// Resolve returns the effective prompt for key.
func (r *Resolver) Resolve(key string) (*ResolvedPrompt, error) {
	r.mu.RLock()
	text, overridden := r.overrides[key]
	def, known := r.defaults[key]
	r.mu.RUnlock()

	switch {
	case overridden:
		return &ResolvedPrompt{
			Key:        key,
			Text:       text,
			Variables:  ExtractVariables(text),
			Hash:       HashText(text),
			IsOverride: true,
		}, nil
	case known:
		return &ResolvedPrompt{Key: key, Text: def.Text, Variables: def.Variables, Hash: def.Hash}, nil
	default:
		return nil, fmt.Errorf("prompt not found: %s", key)
	}
}

// Text is Resolve reduced to the text, with fallback for unknown keys.
func (r *Resolver) Text(key, fallback string) string {
	p, err := r.Resolve(key)
	if err != nil {
		r.logger.Warn("prompt not registered, using fallback", "key", key)
		return fallback
	}
	return p.Text
}

// AllResolved resolves every registered key, in key order.
func (r *Resolver) AllResolved() []ResolvedPrompt {
	r.mu.RLock()
	keys := slices.Sorted(maps.Keys(r.defaults))
	r.mu.RUnlock()

	out := make([]ResolvedPrompt, 0, len(keys))
	for _, k := range keys {
		if p, err := r.Resolve(k); err == nil {
			out = append(out, *p)
		}
	}
	return out
}
