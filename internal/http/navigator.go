package httpx

import (
	"context"
	"sync"

	"github.com/campuskit/fyp-portal/internal/ports"
)

// NavigationRecorder captures the navigation target the backend client's
// transport requests for one HTTP request. Only the first target sticks;
// a 401 that clears the session must produce exactly one redirect no
// matter how many backend calls the handler made.
type NavigationRecorder struct {
	mu     sync.Mutex
	target string
}

func (n *NavigationRecorder) Navigate(_ context.Context, target string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.target == "" {
		n.target = target
	}
}

// Target returns the recorded navigation target, or empty when none was
// requested.
func (n *NavigationRecorder) Target() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.target
}

type navigationKey struct{}

// WithNavigationRecorder returns a child context carrying a fresh
// recorder, plus the recorder itself for the handler to inspect after
// its backend calls.
func WithNavigationRecorder(ctx context.Context) (context.Context, *NavigationRecorder) {
	rec := &NavigationRecorder{}
	return context.WithValue(ctx, navigationKey{}, rec), rec
}

// RecorderFromContext returns the request's navigation recorder, if any.
func RecorderFromContext(ctx context.Context) *NavigationRecorder {
	rec, _ := ctx.Value(navigationKey{}).(*NavigationRecorder)
	return rec
}

// ContextNavigator is the ports.Navigator given to the backend client.
// The client is built once at startup but navigation is a per-request
// concern, so this implementation finds the current request's recorder
// in the context. Calls outside a request (no recorder) are dropped.
type ContextNavigator struct{}

var _ ports.Navigator = ContextNavigator{}

func (ContextNavigator) Navigate(ctx context.Context, target string) {
	if rec := RecorderFromContext(ctx); rec != nil {
		rec.Navigate(ctx, target)
	}
}
