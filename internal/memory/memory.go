// Package memory provides an in-process Gateway. It backs ephemeral
// sessions (backend "memory") and tests, and can be told to fail reads,
// writes or deletes to exercise best-effort persistence.
package memory

import (
	"errors"
	"sync"

	"github.com/mesh-intelligence/tally/pkg/types"
)

// ErrInjected is returned by operations a test has asked to fail.
var ErrInjected = errors.New("memory: injected failure")

// Gateway is a map-backed types.Store.
type Gateway struct {
	mu       sync.RWMutex
	attached bool
	values   map[string]string
	writes   int

	// FailGet, FailSet and FailDelete make the matching operation return
	// ErrInjected while true.
	FailGet    bool
	FailSet    bool
	FailDelete bool
}

// New returns an attached, empty Gateway.
func New() *Gateway {
	return &Gateway{attached: true, values: map[string]string{}}
}

// Seed returns an attached Gateway holding a copy of values.
func Seed(values map[string]string) *Gateway {
	g := New()
	for k, v := range values {
		g.values[k] = v
	}
	return g
}

// Attach re-attaches a detached Gateway. Stored values survive detach.
func (g *Gateway) Attach(config types.Config) error {
	if err := config.Validate(); err != nil {
		return err
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.attached {
		return types.ErrAlreadyAttached
	}
	g.attached = true
	return nil
}

// Detach marks the Gateway detached. Idempotent.
func (g *Gateway) Detach() error {
	g.mu.Lock()
	g.attached = false
	g.mu.Unlock()
	return nil
}

func (g *Gateway) Get(key string) (string, bool, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if !g.attached {
		return "", false, types.ErrGatewayDetached
	}
	if g.FailGet {
		return "", false, ErrInjected
	}
	v, ok := g.values[key]
	return v, ok, nil
}

func (g *Gateway) Set(key, value string) error {
	if key == "" {
		return types.ErrInvalidKey
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.attached {
		return types.ErrGatewayDetached
	}
	if g.FailSet {
		return ErrInjected
	}
	g.values[key] = value
	g.writes++
	return nil
}

func (g *Gateway) Delete(key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if !g.attached {
		return types.ErrGatewayDetached
	}
	if g.FailDelete {
		return ErrInjected
	}
	delete(g.values, key)
	return nil
}

// Writes counts successful Set calls.
func (g *Gateway) Writes() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.writes
}

// Keys returns the number of stored keys.
func (g *Gateway) Keys() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.values)
}
