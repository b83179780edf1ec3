package config

import (
	"sync/atomic"
)

// Provider gives concurrent readers a consistent snapshot of the active
// configuration and lets a reload swap it atomically.
type Provider struct {
	current atomic.Pointer[Config]
}

func NewProvider(cfg *Config) *Provider {
	p := &Provider{}
	p.current.Store(cfg)
	return p
}

// Get returns the active configuration snapshot. Callers must not mutate it.
func (p *Provider) Get() *Config {
	return p.current.Load()
}

// Update atomically replaces the active configuration. In-flight requests
// keep the snapshot they already read.
func (p *Provider) Update(cfg *Config) {
	p.current.Store(cfg)
}
