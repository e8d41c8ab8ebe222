// Package mocks provides mock implementations for testing the portal's auth plumbing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// port interfaces. The mocks are generated using go:generate directives and provide
// a fluent API for setting up test expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	sessions := mocks.NewMockSessionStore(ctrl)
//	sessions.EXPECT().Get(gomock.Any(), "sess-1").Return(sess, nil)
//
// Hand-written in-memory doubles for the same ports live in mocks/auth; prefer
// those when a test cares about stored state rather than call expectations.
package mocks

// Generate mocks for the auth port interfaces from internal/ports.
// This creates MockSessionStore, MockDisabledNoticeStore, MockNavigator and
// MockIdentityProvider.
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=auth_ports_mock.go github.com/campuskit/fyp-portal/internal/ports SessionStore,DisabledNoticeStore,Navigator,IdentityProvider
