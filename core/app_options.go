package core

import (
	"fmt"
	"log/slog"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/cache"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router"
)

// Option configures an App during construction.
type Option func(*App)

func WithDbApp(dbApp db.DbApp) Option {
	return func(a *App) {
		a.SetDb(dbApp)
	}
}

func WithRouter(r router.Router) Option {
	return func(a *App) {
		a.router = r
	}
}

func WithCache(c cache.Cache[string, any]) Option {
	return func(a *App) {
		a.cache = c
	}
}

func WithConfigProvider(p *config.Provider) Option {
	return func(a *App) {
		a.configProvider = p
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(a *App) {
		a.logger = l
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(a *App) {
		a.notifier = n
	}
}

func WithMailer(m mail.MailerInterface) Option {
	return func(a *App) {
		a.mailer = m
	}
}

func WithSmsSender(s SmsSender) Option {
	return func(a *App) {
		a.smsSender = s
	}
}

// NewApp creates the application context and wires the auth components from
// the provided dependencies. The store, config provider and logger are
// required; everything else has a working default.
func NewApp(opts ...Option) (*App, error) {
	a := &App{}
	for _, opt := range opts {
		opt(a)
	}

	if a.dbAuth == nil || a.dbTokens == nil || a.dbQueue == nil {
		return nil, fmt.Errorf("store is required but was not provided (use WithDbApp)")
	}
	if a.configProvider == nil {
		return nil, fmt.Errorf("config provider is required but was not provided (use WithConfigProvider)")
	}
	if a.logger == nil {
		return nil, fmt.Errorf("logger is required but was not provided (use WithLogger)")
	}

	if a.notifier == nil {
		a.notifier = &notify.Nop{}
	}
	if a.validator == nil {
		a.validator = NewValidator()
	}
	if a.authenticator == nil {
		a.authenticator = NewDefaultAuthenticator(a.dbAuth, a.logger, a.configProvider)
	}

	a.verifier = NewCredentialVerifier(a.dbAuth, a.logger)
	a.bridge = NewSessionBridge(a.dbTokens, a.configProvider, a.logger)
	a.twoFactor = NewTwoFactorManager(a.dbTokens, a.configProvider, a.bridge, a.mailer, a.smsSender, a.logger)

	return a, nil
}
