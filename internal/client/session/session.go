// Package session tracks whether the client is anonymous or
// authenticated and keeps the token durable across restarts.
//
// The stored token is never validated eagerly: Restore trusts it and
// the first gated server call that rejects it drops the session back
// to anonymous.
package session

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/librarium/internal/client/repositories/metadata"
)

const (
	keyToken    = "session.token"
	keyUsername = "session.username"
)

// Manager owns the current session state. All methods are safe for
// concurrent use.
type Manager struct {
	meta metadata.Repository

	mu       sync.RWMutex
	token    string
	username string

	hookMu       sync.Mutex
	onInvalidate []func()
}

func NewManager(meta metadata.Repository) *Manager {
	return &Manager{meta: meta}
}

// OnInvalidate registers a hook fired whenever the session ends, by
// logout or by server-side rejection. Used to reset caches so nothing
// personalized leaks across sessions.
func (m *Manager) OnInvalidate(fn func()) {
	m.hookMu.Lock()
	defer m.hookMu.Unlock()
	m.onInvalidate = append(m.onInvalidate, fn)
}

func (m *Manager) fireInvalidate() {
	m.hookMu.Lock()
	hooks := append([]func(){}, m.onInvalidate...)
	m.hookMu.Unlock()
	for _, fn := range hooks {
		fn()
	}
}

// Restore loads a previously stored session. A present token means
// authenticated; whether it still works is discovered lazily.
func (m *Manager) Restore(ctx context.Context) error {
	token, err := m.meta.Get(ctx, keyToken)
	if err != nil {
		return err
	}
	username, err := m.meta.Get(ctx, keyUsername)
	if err != nil {
		return err
	}

	m.mu.Lock()
	m.token = string(token)
	m.username = string(username)
	m.mu.Unlock()
	return nil
}

// Login stores the issued token and enters the authenticated state.
func (m *Manager) Login(ctx context.Context, token, username string) error {
	if err := m.meta.Set(ctx, keyToken, []byte(token)); err != nil {
		return err
	}
	if err := m.meta.Set(ctx, keyUsername, []byte(username)); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = token
	m.username = username
	m.mu.Unlock()
	return nil
}

// Logout wipes the stored session and fires the invalidation hooks.
func (m *Manager) Logout(ctx context.Context) error {
	if err := m.meta.Delete(ctx, keyToken); err != nil {
		return err
	}
	if err := m.meta.Delete(ctx, keyUsername); err != nil {
		return err
	}

	m.mu.Lock()
	m.token = ""
	m.username = ""
	m.mu.Unlock()

	m.fireInvalidate()
	return nil
}

// Invalidate is Logout triggered by the server rejecting the token.
func (m *Manager) Invalidate(ctx context.Context) error {
	return m.Logout(ctx)
}

func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Manager) Username() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.username
}

func (m *Manager) Authenticated() bool {
	return m.Token() != ""
}
