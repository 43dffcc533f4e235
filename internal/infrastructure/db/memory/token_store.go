// Package memory holds the in-process token store used in development and
// tests. Tokens do not survive a restart.
package memory

import (
	"context"
	"sync"

	"github.com/feedbackhub/portal/internal/core/ports"
)

type TokenStore struct {
	mu     sync.RWMutex
	tokens map[string]string
}

var _ ports.TokenStore = (*TokenStore)(nil)

func NewTokenStore() *TokenStore {
	return &TokenStore{tokens: make(map[string]string)}
}

func (s *TokenStore) Get(_ context.Context, browserID string) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	token, ok := s.tokens[browserID]
	if !ok || token == "" {
		return "", false, nil
	}
	return token, true, nil
}

func (s *TokenStore) Set(_ context.Context, browserID, token string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tokens[browserID] = token
	return nil
}

func (s *TokenStore) Clear(_ context.Context, browserID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tokens, browserID)
	return nil
}

func (s *TokenStore) Ping(context.Context) error { return nil }
