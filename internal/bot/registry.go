package bot

import (
	"fmt"
	"sort"
	"strings"
	"sync"
)

// Factory builds a fresh bot. Tournaments spawn one instance per game so
// concurrent games never share bot state.
type Factory func(seed int64) Bot

type Registry struct {
	mu        sync.RWMutex
	factories map[string]Factory
}

func NewRegistry() *Registry {
	return &Registry{factories: make(map[string]Factory)}
}

// DefaultRegistry holds the built-in bots.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	_ = r.Register("FirstMover", func(int64) Bot { return FirstMover{} })
	_ = r.Register("RandomBot", func(seed int64) Bot { return NewRandomBot(seed) })
	_ = r.Register("GreedyCapture", func(int64) Bot { return GreedyCapture{} })
	return r
}

func (r *Registry) Register(name string, f Factory) error {
	name = strings.TrimSpace(name)
	if name == "" || f == nil {
		return fmt.Errorf("register bot: empty name or nil factory")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.factories[name]; ok {
		return fmt.Errorf("register bot: %q already registered", name)
	}
	r.factories[name] = f
	return nil
}

// Factory returns the factory for name.
func (r *Registry) Factory(name string) (Factory, error) {
	r.mu.RLock()
	f, ok := r.factories[strings.TrimSpace(name)]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownBot, name)
	}
	return f, nil
}

func (r *Registry) New(name string, seed int64) (Bot, error) {
	f, err := r.Factory(name)
	if err != nil {
		return nil, err
	}
	return f(seed), nil
}

// Names returns the registered names sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	out := make([]string, 0, len(r.factories))
	for n := range r.factories {
		out = append(out, n)
	}
	r.mu.RUnlock()
	sort.Strings(out)
	return out
}
