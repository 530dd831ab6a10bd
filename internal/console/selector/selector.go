// Package selector implements dependent option selectors: a child selector
// whose option list is derived from the currently selected value of a parent.
// Resolutions carry a generation number so a slow fetch can never overwrite
// the options of a newer parent choice.
package selector

import (
	"context"
	"sync"

	"partner-console/internal/common/logger"
	"partner-console/internal/common/metrics"
)

// Option is a single selectable entry.
type Option struct {
	Value string `json:"value"`
	Label string `json:"label"`
}

// Loader resolves the option list for a given parent value. It is called
// outside the selector's lock and may block on the network.
type Loader func(ctx context.Context, parentValue string) ([]Option, error)

// Selector holds the state of one dependent selector.
type Selector struct {
	name     string
	loader   Loader
	sentinel string
	log      logger.Logger

	mu         sync.Mutex
	generation uint64
	options    []Option
	value      string
	loading    bool
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithSentinel marks a value that survives option resolution even when it is
// absent from the loaded list, such as the "all branches" placeholder.
func WithSentinel(value string) SelectorOption {
	return func(s *Selector) { s.sentinel = value }
}

func New(name string, loader Loader, log logger.Logger, opts ...SelectorOption) *Selector {
	s := &Selector{
		name:   name,
		loader: loader,
		log:    log.Named("selector." + name),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Selector) Name() string { return s.name }

// Value returns the currently selected value, which may be empty.
func (s *Selector) Value() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// Options returns a copy of the current option list.
func (s *Selector) Options() []Option {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Option, len(s.options))
	copy(out, s.options)
	return out
}

// Loading reports whether a fetch issued by SetParent is still unresolved.
func (s *Selector) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loading
}

// SetValue records the user's choice. The value is kept as-is; validity
// against the option list is only enforced when the list next resolves.
func (s *Selector) SetValue(value string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.value = value
}

// SetParent reacts to a parent value change. An empty parent clears the
// options and the value without issuing a fetch. A non-empty parent loads the
// new option list while keeping the current value visible; once the list
// resolves, a value that no longer appears in it is cleared, except for the
// configured sentinel. A resolution that arrives after a newer SetParent call
// is discarded.
func (s *Selector) SetParent(ctx context.Context, parentValue string) {
	s.mu.Lock()
	s.generation++
	gen := s.generation

	if parentValue == "" {
		s.options = nil
		s.value = ""
		s.loading = false
		s.mu.Unlock()
		return
	}

	s.loading = true
	s.mu.Unlock()

	options, err := s.loader(ctx, parentValue)
	if err != nil {
		s.log.Warn("Option fetch failed", map[string]interface{}{
			"parent": parentValue,
			"error":  err.Error(),
		})
		metrics.SelectorFetchesTotal.WithLabelValues(s.name, "error").Inc()
		s.apply(gen, nil)
		return
	}

	metrics.SelectorFetchesTotal.WithLabelValues(s.name, "success").Inc()
	s.apply(gen, options)
}

// apply installs a resolved option list, unless a newer generation has been
// issued in the meantime.
func (s *Selector) apply(gen uint64, options []Option) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if gen != s.generation {
		metrics.SelectorStaleDiscards.WithLabelValues(s.name).Inc()
		s.log.Debug("Discarding stale option resolution", map[string]interface{}{
			"resolved_generation": gen,
			"current_generation":  s.generation,
		})
		return
	}

	s.options = options
	s.loading = false

	if s.value != "" && s.value != s.sentinel && !containsValue(options, s.value) {
		s.value = ""
	}
}

func containsValue(options []Option, value string) bool {
	for _, opt := range options {
		if opt.Value == value {
			return true
		}
	}
	return false
}
