// Package ranges owns the healthy-range configuration: loading it from a
// durable backend, applying edits, and persisting every change before it
// becomes visible.
package ranges

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	vitalserrors "github.com/rileyhilliard/vitals/internal/errors"
	"github.com/rileyhilliard/vitals/internal/logger"
	"github.com/rileyhilliard/vitals/internal/vitals"
)

// DefaultKey is the storage key the range configuration lives under.
const DefaultKey = "rangos"

// Store holds the single in-process RangeConfig. Mutations are serialized.
type Store struct {
	mu      sync.Mutex
	backend Backend
	key     string
	current vitals.RangeConfig
	log     logger.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger used for storage warnings.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.log = l
	}
}

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// NewStore creates a store that starts with the default ranges. Call Load
// to pick up the persisted configuration.
func NewStore(backend Backend, opts ...Option) *Store {
	s := &Store{
		backend: backend,
		key:     DefaultKey,
		current: vitals.DefaultRanges(),
		log:     logger.Noop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load reads the persisted config. Anything absent, unreadable, malformed or
// partial yields the defaults; Load never fails.
func (s *Store) Load(ctx context.Context) vitals.RangeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()

	cfg := vitals.DefaultRanges()
	data, err := s.backend.Get(ctx, s.key)
	switch {
	case errors.Is(err, ErrNotFound):
		s.log.Debug("no stored ranges under %q, using defaults", s.key)
	case err != nil:
		s.log.Warn("read stored ranges: %v; using defaults", err)
	default:
		parsed, perr := vitals.ParseRanges(data)
		if perr != nil {
			s.log.Warn("stored ranges unusable: %v; using defaults", perr)
		} else {
			cfg = parsed
		}
	}

	s.current = cfg
	return cfg.Clone()
}

// Current returns a copy of the in-memory config.
func (s *Store) Current() vitals.RangeConfig {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current.Clone()
}

// SetField applies user input to one side of one metric. The input is
// converted with vitals.ParseNumber, so blank input is 0 and junk is NaN.
func (s *Store) SetField(ctx context.Context, metric, bound, input string) (vitals.RangeConfig, error) {
	m, ok := vitals.ParseMetric(metric)
	if !ok {
		return s.Current(), vitalserrors.New(vitalserrors.ErrConfig,
			fmt.Sprintf("Unknown metric '%s'", metric),
			"Use one of: bpm, o2InBlood, sistolica, diastolica, temperature")
	}
	kind, ok := vitals.ParseBoundKind(bound)
	if !ok {
		return s.Current(), vitalserrors.New(vitalserrors.ErrConfig,
			fmt.Sprintf("Unknown bound '%s'", bound),
			"Use 'min' or 'max'")
	}
	return s.SetValue(ctx, m, kind, vitals.ParseNumber(input))
}

// SetValue sets one side of one metric and persists the result before it
// replaces the in-memory config.
func (s *Store) SetValue(ctx context.Context, m vitals.Metric, kind vitals.BoundKind, v float64) (vitals.RangeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.current.With(m, kind, v)
	if err := s.persist(ctx, next); err != nil {
		return s.current.Clone(), err
	}
	s.current = next
	return next.Clone(), nil
}

// Reset restores and persists the defaults.
func (s *Store) Reset(ctx context.Context) (vitals.RangeConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := vitals.DefaultRanges()
	if err := s.persist(ctx, next); err != nil {
		return s.current.Clone(), err
	}
	s.current = next
	return next.Clone(), nil
}

// Close releases the backend.
func (s *Store) Close() error {
	return s.backend.Close()
}

func (s *Store) persist(ctx context.Context, cfg vitals.RangeConfig) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return vitalserrors.WrapWithCode(err, vitalserrors.ErrStorage,
			"Couldn't encode ranges",
			"This is unexpected - please report it.")
	}
	if err := s.backend.Put(ctx, s.key, data); err != nil {
		s.log.Error("persist ranges: %v", err)
		return vitalserrors.WrapWithCode(err, vitalserrors.ErrStorage,
			"Couldn't save ranges",
			"Check the storage backend in your .vitals.yaml and try again.")
	}
	return nil
}
