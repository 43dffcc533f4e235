package service

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/feedbackhub/portal/internal/core/ports"
	"github.com/feedbackhub/portal/internal/pkg/metrics"
)

// DefaultIdleTTL is how long an untouched session stays in memory.
const DefaultIdleTTL = 30 * time.Minute

// Registry holds one Session per browser id. Evicting a session only drops
// the in-memory state; the token stays in the store and the next request
// resolves it again.
type Registry struct {
	connector ports.Connector
	tokens    ports.TokenStore
	log       zerolog.Logger
	opts      RegistryOptions

	mu       sync.Mutex
	sessions map[string]*Session
}

// RegistryOptions configures NewRegistry.
type RegistryOptions struct {
	IdleTTL        time.Duration
	ResolveTimeout time.Duration
	// Now defaults to time.Now.
	Now func() time.Time
}

func NewRegistry(connector ports.Connector, tokens ports.TokenStore, log zerolog.Logger, opts RegistryOptions) *Registry {
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = DefaultIdleTTL
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Registry{
		connector: connector,
		tokens:    tokens,
		log:       log.With().Str("component", "sessions").Logger(),
		opts:      opts,
		sessions:  make(map[string]*Session),
	}
}

// Session returns the session for browserID, creating a Loading one if
// none is held.
func (r *Registry) Session(browserID string) *Session {
	now := r.opts.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[browserID]
	if !ok {
		s = NewSession(browserID, r.connector, r.tokens, r.log, SessionOptions{ResolveTimeout: r.opts.ResolveTimeout})
		r.sessions[browserID] = s
		metrics.ActiveSessions.Set(float64(len(r.sessions)))
	}
	s.touch(now)
	return s
}

// Len returns the number of held sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep drops sessions idle for longer than the TTL and returns how many
// were removed.
func (r *Registry) Sweep() int {
	cutoff := r.opts.Now().Add(-r.opts.IdleTTL)

	r.mu.Lock()
	defer r.mu.Unlock()
	removed := 0
	for id, s := range r.sessions {
		if s.idleSince().Before(cutoff) {
			delete(r.sessions, id)
			removed++
		}
	}
	metrics.ActiveSessions.Set(float64(len(r.sessions)))
	return removed
}

// Run sweeps periodically until ctx is cancelled.
func (r *Registry) Run(ctx context.Context) {
	interval := r.opts.IdleTTL / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	r.log.Info().Dur("idle_ttl", r.opts.IdleTTL).Msg("session sweeper started")
	for {
		select {
		case <-ctx.Done():
			r.log.Info().Msg("session sweeper stopped")
			return
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.log.Debug().Int("evicted", n).Int("active", r.Len()).Msg("idle sessions evicted")
			}
		}
	}
}
