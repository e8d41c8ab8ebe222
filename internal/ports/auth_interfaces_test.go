package ports_test

import (
	"testing"

	mocks "github.com/campuskit/fyp-portal/internal/mocks/auth"
	"github.com/campuskit/fyp-portal/internal/ports"
)

// This test only verifies that our mocks conform to the ports at compile time.
func TestMocksImplementPorts(t *testing.T) {
	t.Helper()

	var _ ports.SessionStore = (*mocks.MemorySessionStore)(nil)
	var _ ports.DisabledNoticeStore = (*mocks.MemoryDisabledNoticeStore)(nil)
	var _ ports.Navigator = (*mocks.RecordingNavigator)(nil)
	var _ ports.IdentityProvider = (*mocks.MockIdentityProvider)(nil)
}
