package config

import (
	"fmt"
	"sync/atomic"
)

// Source supplies Config values for initial load and reloads.
type Source interface {
	Load() (*Config, error)
}

// FileSource loads from a YAML file path; an empty path means embedded
// defaults only.
type FileSource string

func (f FileSource) Load() (*Config, error) { return Load(string(f)) }

// Store holds the active Config and supports atomic hot-swapping while the
// engine ticks. Readers get an immutable snapshot: a tick that calls
// Current once observes exactly one Config for its whole duration, never a
// mix of old and new fields.
type Store struct {
	src Source
	cur atomic.Pointer[Config]
}

// NewStore loads the initial Config from src. The initial load must
// succeed; there is no previous value to fall back to yet.
func NewStore(src Source) (*Store, error) {
	cfg, err := src.Load()
	if err != nil {
		return nil, fmt.Errorf("initial config load: %w", err)
	}
	s := &Store{src: src}
	s.cur.Store(cfg)
	return s, nil
}

// Current returns the active Config snapshot. The returned value must be
// treated as read-only.
func (s *Store) Current() *Config {
	return s.cur.Load()
}

// Reload loads a fresh Config from the source and swaps it in. On any
// load or validation failure the previous valid Config stays active and
// the error is returned for diagnostics.
func (s *Store) Reload() error {
	cfg, err := s.src.Load()
	if err != nil {
		return err
	}
	s.cur.Store(cfg)
	return nil
}

// Replace validates cfg and swaps it in wholesale. The caller must not
// modify cfg afterwards.
func (s *Store) Replace(cfg *Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	cfg.computeDerived()
	s.cur.Store(cfg)
	return nil
}
