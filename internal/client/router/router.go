// Package router turns session outcomes into navigation and guards the
// views that need a signed-in user.
package router

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/recipebook/internal/client/services"
	"github.com/dmitrijs2005/recipebook/internal/logging"
)

const (
	RouteAuth    = "/auth"
	RouteRecipes = "/recipes"
)

// Navigator tracks the current route. It moves to RouteRecipes when a
// session is established and back to RouteAuth on logout or expiry. A failed
// attempt leaves the route alone.
type Navigator struct {
	mu       sync.RWMutex
	current  string
	onChange func(from, to string)
	logger   logging.Logger
}

// NewNavigator starts on RouteAuth. onChange, if not nil, is called after
// every route change from the goroutine running Follow.
func NewNavigator(logger logging.Logger, onChange func(from, to string)) *Navigator {
	return &Navigator{
		current:  RouteAuth,
		onChange: onChange,
		logger:   logger.With("component", "router"),
	}
}

// Current returns the active route.
func (n *Navigator) Current() string {
	n.mu.RLock()
	defer n.mu.RUnlock()
	return n.current
}

// Navigate switches to route.
func (n *Navigator) Navigate(ctx context.Context, route string) {
	n.mu.Lock()
	from := n.current
	n.current = route
	n.mu.Unlock()

	if from == route {
		return
	}
	n.logger.Debug(ctx, "navigate", "from", from, "to", route)
	if n.onChange != nil {
		n.onChange(from, route)
	}
}

// Handle applies one outcome.
func (n *Navigator) Handle(ctx context.Context, o services.Outcome) {
	switch o.Kind {
	case services.OutcomeAuthenticated:
		n.Navigate(ctx, RouteRecipes)
	case services.OutcomeLoggedOut:
		n.Navigate(ctx, RouteAuth)
	case services.OutcomeFailed:
		if o.SessionEnded {
			n.Navigate(ctx, RouteAuth)
		}
	}
}

// Follow applies outcomes from stream until it closes or ctx is done.
func (n *Navigator) Follow(ctx context.Context, stream <-chan services.Outcome) {
	for {
		select {
		case <-ctx.Done():
			return
		case o, ok := <-stream:
			if !ok {
				return
			}
			n.Handle(ctx, o)
		}
	}
}

// SessionChecker is the part of services.AuthService the guard needs.
type SessionChecker interface {
	IsAuthenticated() bool
}

// Guard admits protected routes only while a valid session exists.
type Guard struct {
	sessions SessionChecker
}

func NewGuard(sessions SessionChecker) *Guard {
	return &Guard{sessions: sessions}
}

// CanActivate returns the route to show for a request to open route:
// route itself, or RouteAuth when it is protected and nobody is signed in.
func (g *Guard) CanActivate(route string) (string, bool) {
	if route == RouteAuth || g.sessions.IsAuthenticated() {
		return route, true
	}
	return RouteAuth, false
}
