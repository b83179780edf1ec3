package stpconnect

import (
	"log/slog"

	"golang.org/x/time/rate"

	"github.com/keilerkonzept/topk/sliding"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/core"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify/discord"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue/executor"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue/handlers"
	scl "github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/queue/scheduler"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/server"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/sms"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/topk"
)

// New assembles the application from a config file and options: store, router,
// cache, auth handlers, delivery channels, background scheduler and the HTTP
// server. An empty configPath boots with generated defaults, which is only
// useful for local experiments since no other instance can verify its tokens.
//
// The store must be supplied via an option (e.g. WithZombiezenPool). Router,
// cache and logger have working defaults that user options override.
func New(configPath string, opts ...core.Option) (*core.App, *server.Server, error) {
	cfg, err := loadConfig(configPath)
	if err != nil {
		slog.Error("failed to load initial config", "error", err)
		return nil, nil, err
	}

	configProvider := config.NewProvider(cfg)

	// Defaults first so user options win.
	allOpts := []core.Option{
		core.WithConfigProvider(configProvider),
		WithPhusLogger(nil),
		WithRouterHttprouter(),
		WithCacheRistretto(),
	}
	allOpts = append(allOpts, opts...)

	app, err := core.NewApp(allOpts...)
	if err != nil {
		slog.Error("failed to initialize core app", "error", err)
		return nil, nil, err
	}

	if err := setupDelivery(app, configProvider); err != nil {
		return nil, nil, err
	}
	setupNotifier(app, cfg)

	if app.FailureSketch() == nil {
		sketch := sliding.New(10, 60, sliding.WithWidth(1024), sliding.WithDepth(3))
		app.SetFailureSketch(topk.New(sketch, 1000))
	}

	route(app)

	handler := router.NewChain(app.Router()).
		WithMiddleware(app.RequestLog).
		Handler()

	scheduler := SetupScheduler(configProvider, app)
	srv := server.NewServer(configProvider, handler, scheduler, app.Logger())

	return app, srv, nil
}

func loadConfig(configPath string) (*config.Config, error) {
	var cfg *config.Config
	if configPath == "" {
		cfg = config.NewDefaultConfig()
	} else {
		loaded, err := config.LoadFromFile(configPath, slog.Default())
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.FillEnvOverrides()

	if err := config.Validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// setupDelivery wires the out-of-band code transports that are enabled in the
// config and not already supplied by an option.
func setupDelivery(app *core.App, configProvider *config.Provider) error {
	cfg := configProvider.Get()

	if cfg.Smtp.Enabled && app.Mailer() == nil {
		mailer, err := mail.New(configProvider, app.Logger())
		if err != nil {
			app.Logger().Error("failed to create mailer", "error", err)
			return err
		}
		app.SetMailer(mailer)
	}

	if cfg.SmsGateway.Enabled && app.SmsSender() == nil {
		gateway, err := sms.New(configProvider, app.Logger())
		if err != nil {
			app.Logger().Error("failed to create sms gateway", "error", err)
			return err
		}
		app.SetSmsSender(gateway)
	}

	return nil
}

// setupNotifier attaches the Discord alarm channel when activated. A broken
// webhook never blocks startup; operational alerts are best effort.
func setupNotifier(app *core.App, cfg *config.Config) {
	dc := cfg.Notifier.Discord
	if !dc.Activated {
		return
	}

	var limit rate.Limit
	if dc.APIRateLimit.Duration > 0 {
		limit = rate.Every(dc.APIRateLimit.Duration)
	}

	notifier, err := discord.New(discord.Options{
		WebhookURL:   dc.WebhookURL,
		APIRateLimit: limit,
		APIBurst:     dc.APIBurst,
		SendTimeout:  dc.SendTimeout.Duration,
	}, app.Logger())
	if err != nil {
		app.Logger().Warn("discord notifier disabled", "error", err)
		return
	}
	app.SetNotifier(notifier)
}

// SetupScheduler builds the background job scheduler with the handlers the
// current config supports. The token sweep always runs; email-backed jobs
// need SMTP, ledger backups need a backup directory.
func SetupScheduler(configProvider *config.Provider, app *core.App) *scl.Scheduler {
	cfg := configProvider.Get()
	logger := app.Logger()

	hdls := make(map[string]executor.JobHandler)
	hdls[queue.JobTypeTokenSweep] = handlers.NewTokenSweepHandler(app.DbTokens(), logger)

	if cfg.Backup.Enabled {
		hdls[queue.JobTypeLedgerBackup] = handlers.NewLedgerBackupHandler(configProvider, logger)
	}

	if app.Mailer() != nil {
		hdls[queue.JobTypePasswordReset] = handlers.NewPasswordResetHandler(app.DbAuth(), app.DbTokens(), configProvider, app.Mailer())
		hdls[queue.JobTypeEmailVerification] = handlers.NewEmailVerificationHandler(app.DbAuth(), configProvider, app.Mailer())
	} else {
		logger.Warn("no mailer configured: password reset and email verification jobs stay queued")
	}

	return scl.NewScheduler(configProvider, app.DbQueue(), executor.NewExecutor(hdls), logger)
}
