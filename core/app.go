package core

import (
	"log/slog"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/cache"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/topk"
)

// App is the application wide context.
//
// All handlers and middleware have App as receiver; the heavy long-lived
// objects (store pools, caches, the mailer) live here and are shared across
// requests.
type App struct {
	dbAuth         db.DbAuth
	dbTokens       db.DbTokens
	dbQueue        db.DbQueue
	router         router.Router
	cache          cache.Cache[string, any]
	configProvider *config.Provider
	logger         *slog.Logger
	notifier       notify.Notifier
	authenticator  Authenticator
	validator      Validator
	mailer         mail.MailerInterface
	smsSender      SmsSender
	verifier       *CredentialVerifier
	twoFactor      *TwoFactorManager
	bridge         *SessionBridge
	failureSketch  *topk.Sketch
}

func (a *App) Router() router.Router {
	return a.router
}

func (a *App) SetRouter(r router.Router) {
	a.router = r
}

func (a *App) DbAuth() db.DbAuth {
	return a.dbAuth
}

func (a *App) DbTokens() db.DbTokens {
	return a.dbTokens
}

func (a *App) DbQueue() db.DbQueue {
	return a.dbQueue
}

// SetDb sets all store role interfaces from one implementation.
func (a *App) SetDb(dbApp db.DbApp) {
	if dbApp == nil {
		panic("DbApp cannot be nil")
	}
	a.dbAuth = dbApp
	a.dbTokens = dbApp
	a.dbQueue = dbApp
}

func (a *App) Logger() *slog.Logger {
	return a.logger
}

func (a *App) SetLogger(l *slog.Logger) {
	a.logger = l
}

func (a *App) Cache() cache.Cache[string, any] {
	return a.cache
}

func (a *App) SetCache(c cache.Cache[string, any]) {
	a.cache = c
}

func (a *App) Config() *config.Config {
	return a.configProvider.Get()
}

func (a *App) ConfigProvider() *config.Provider {
	return a.configProvider
}

func (a *App) SetConfigProvider(provider *config.Provider) {
	a.configProvider = provider
}

func (a *App) Notifier() notify.Notifier {
	return a.notifier
}

func (a *App) SetNotifier(n notify.Notifier) {
	a.notifier = n
}

func (a *App) Auth() Authenticator {
	return a.authenticator
}

func (a *App) SetAuthenticator(auth Authenticator) {
	a.authenticator = auth
}

func (a *App) Validator() Validator {
	return a.validator
}

func (a *App) SetValidator(v Validator) {
	a.validator = v
}

func (a *App) Mailer() mail.MailerInterface {
	return a.mailer
}

// SetMailer swaps the mailer and rewires the two-factor manager so codes
// minted after the swap go through the new transport.
func (a *App) SetMailer(m mail.MailerInterface) {
	a.mailer = m
	if a.twoFactor != nil {
		a.twoFactor.mailer = m
	}
}

func (a *App) SmsSender() SmsSender {
	return a.smsSender
}

func (a *App) SetSmsSender(s SmsSender) {
	a.smsSender = s
	if a.twoFactor != nil {
		a.twoFactor.sms = s
	}
}

func (a *App) Verifier() *CredentialVerifier {
	return a.verifier
}

func (a *App) TwoFactor() *TwoFactorManager {
	return a.twoFactor
}

func (a *App) Bridge() *SessionBridge {
	return a.bridge
}

func (a *App) FailureSketch() *topk.Sketch {
	return a.failureSketch
}

func (a *App) SetFailureSketch(s *topk.Sketch) {
	a.failureSketch = s
}
