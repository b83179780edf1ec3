package core

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/mock"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify"
)

// MockValidator implements the Validator interface for testing.
type MockValidator struct {
	ContentTypeFunc func(r *http.Request, allowedType string) (jsonResponse, error)
}

func (m *MockValidator) ContentType(r *http.Request, allowedType string) (jsonResponse, error) {
	if m.ContentTypeFunc != nil {
		return m.ContentTypeFunc(r, allowedType)
	}
	return jsonResponse{}, nil
}

// MockAuth implements the Authenticator interface for testing.
type MockAuth struct {
	AuthenticateFunc func(r *http.Request) (*db.User, jsonResponse, error)
}

func (m *MockAuth) Authenticate(r *http.Request) (*db.User, jsonResponse, error) {
	if m.AuthenticateFunc != nil {
		return m.AuthenticateFunc(r)
	}
	return nil, jsonResponse{}, nil
}

// mailerMock implements mail.MailerInterface with overridable behavior per
// test.
type mailerMock struct {
	sendTwoFactorCodeFunc     func(ctx context.Context, email, name, code string) error
	sendPasswordResetFunc     func(ctx context.Context, email, token string) error
	sendVerificationEmailFunc func(ctx context.Context, email, token string) error
}

var _ mail.MailerInterface = (*mailerMock)(nil)

func (m *mailerMock) SendTwoFactorCode(ctx context.Context, email, name, code string) error {
	if m.sendTwoFactorCodeFunc != nil {
		return m.sendTwoFactorCodeFunc(ctx, email, name, code)
	}
	return nil
}

func (m *mailerMock) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	if m.sendPasswordResetFunc != nil {
		return m.sendPasswordResetFunc(ctx, email, token)
	}
	return nil
}

func (m *mailerMock) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.sendVerificationEmailFunc != nil {
		return m.sendVerificationEmailFunc(ctx, email, token)
	}
	return nil
}

// smsMock implements SmsSender with overridable behavior per test.
type smsMock struct {
	sendCodeFunc func(ctx context.Context, phone, code string) error
}

func (m *smsMock) SendCode(ctx context.Context, phone, code string) error {
	if m.sendCodeFunc != nil {
		return m.sendCodeFunc(ctx, phone, code)
	}
	return nil
}

// notifierMock records sent notifications.
type notifierMock struct {
	mu   sync.Mutex
	sent []notify.Notification
}

func (m *notifierMock) Send(_ context.Context, n notify.Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, n)
	return nil
}

func (m *notifierMock) notifications() []notify.Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]notify.Notification(nil), m.sent...)
}

// mapCache is a trivial unbounded Cache backed by a map, enough for the rate
// limiter tests where eviction behavior does not matter.
type mapCache struct {
	mu sync.Mutex
	m  map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{m: make(map[string]any)}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	v, ok := c.m[key]
	return v, ok
}

func (c *mapCache) Set(key string, value any, _ int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[key] = value
	return true
}

func (c *mapCache) SetWithTTL(key string, value any, _ int64, _ time.Duration) bool {
	return c.Set(key, value, 0)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// newTestApp wires a fully functional App around the mock store. Extra
// options are applied after the defaults and may override them.
func newTestApp(t *testing.T, mockDb *mock.Db, cfg *config.Config, opts ...Option) *App {
	t.Helper()

	baseOpts := []Option{
		WithDbApp(mockDb),
		WithConfigProvider(config.NewProvider(cfg)),
		WithLogger(testLogger()),
		WithMailer(&mailerMock{}),
	}
	app, err := NewApp(append(baseOpts, opts...)...)
	if err != nil {
		t.Fatalf("NewApp() error = %v", err)
	}
	return app
}

func newTestConfig() *config.Config {
	return &config.Config{
		Jwt: config.Jwt{
			AuthSecret:              "test_secret_32_bytes_long_xxxxxx",
			AuthTokenDuration:       config.Duration{Duration: 45 * time.Minute},
			VerificationEmailSecret: "test_verification_32_bytes_xxxxx",
		},
		Auth: config.Auth{
			PasswordResetTokenDuration: config.Duration{Duration: time.Hour},
			TwoFactorCodeDuration:      config.Duration{Duration: 10 * time.Minute},
			TempSessionDuration:        config.Duration{Duration: 15 * time.Minute},
			VerifiedSessionDuration:    config.Duration{Duration: 5 * time.Minute},
			MinPasswordLength:          6,
		},
		RateLimits: config.RateLimits{
			PasswordResetCooldown:     config.Duration{Duration: 2 * time.Hour},
			EmailVerificationCooldown: config.Duration{Duration: time.Hour},
			LoginWindow:               config.Duration{Duration: time.Minute},
			LoginMaxAttempts:          10,
			TwoFactorSendWindow:       config.Duration{Duration: time.Minute},
			TwoFactorSendMax:          3,
		},
	}
}
