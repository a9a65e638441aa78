// Package session ends a signed-in session: it wipes the stored credentials
// and sends the user back to the sign-in route.
package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/osp/internal/logging"
)

// Route names understood by a Navigator.
type Route string

const (
	RouteSignIn  Route = "signin"
	RouteAccount Route = "account"
	RouteMedia   Route = "media"
)

// Navigator drops in-memory view state and moves to route.
type Navigator interface {
	Reset(route Route)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(route Route)

func (f NavigatorFunc) Reset(route Route) { f(route) }

type credentialStore interface {
	Clear(ctx context.Context) error
	HasToken(ctx context.Context) bool
}

// Manager is safe for concurrent use.
type Manager struct {
	store credentialStore
	log   logging.Logger

	mu  sync.RWMutex
	nav Navigator
}

func NewManager(store credentialStore, nav Navigator, log logging.Logger) *Manager {
	if log == nil {
		log = logging.Discard()
	}
	return &Manager{store: store, nav: nav, log: log}
}

// SetNavigator replaces the navigator. The CLI calls it once its REPL exists.
func (m *Manager) SetNavigator(nav Navigator) {
	m.mu.Lock()
	m.nav = nav
	m.mu.Unlock()
}

// Logout clears every stored credential and navigates to sign-in. Navigation
// happens even when clearing fails so the user never stays on a guarded view
// with a half-cleared session.
func (m *Manager) Logout(ctx context.Context) error {
	err := m.store.Clear(ctx)
	if err != nil {
		m.log.Error(ctx, "clear credentials failed", "err", err)
		err = fmt.Errorf("logout: %w", err)
	} else {
		m.log.Info(ctx, "signed out")
	}

	m.mu.RLock()
	nav := m.nav
	m.mu.RUnlock()
	if nav != nil {
		nav.Reset(RouteSignIn)
	}
	return err
}

// SignedIn reports whether an access token is stored.
func (m *Manager) SignedIn(ctx context.Context) bool {
	return m.store.HasToken(ctx)
}
