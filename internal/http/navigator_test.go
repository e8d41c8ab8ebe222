package httpx

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuskit/fyp-portal/internal/routes"
)

func TestNavigationRecorder_FirstTargetWins(t *testing.T) {
	rec := &NavigationRecorder{}

	rec.Navigate(context.Background(), routes.Login)
	rec.Navigate(context.Background(), "/somewhere-else")

	assert.Equal(t, routes.Login, rec.Target())
}

func TestNavigationRecorder_EmptyByDefault(t *testing.T) {
	rec := &NavigationRecorder{}
	assert.Empty(t, rec.Target())
}

func TestNavigationRecorder_ConcurrentNavigate(t *testing.T) {
	rec := &NavigationRecorder{}

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			rec.Navigate(context.Background(), routes.Login)
		}()
	}
	wg.Wait()

	assert.Equal(t, routes.Login, rec.Target())
}

func TestWithNavigationRecorder_RoundTrip(t *testing.T) {
	ctx, rec := WithNavigationRecorder(context.Background())
	require.NotNil(t, rec)

	got := RecorderFromContext(ctx)
	assert.Same(t, rec, got)
}

func TestRecorderFromContext_Missing(t *testing.T) {
	assert.Nil(t, RecorderFromContext(context.Background()))
}

func TestContextNavigator_RecordsIntoContextRecorder(t *testing.T) {
	ctx, rec := WithNavigationRecorder(context.Background())

	nav := ContextNavigator{}
	nav.Navigate(ctx, routes.Login)

	assert.Equal(t, routes.Login, rec.Target())
}

func TestContextNavigator_NoRecorderIsNoOp(t *testing.T) {
	nav := ContextNavigator{}
	// Must not panic when no recorder was installed.
	nav.Navigate(context.Background(), routes.Login)
}
