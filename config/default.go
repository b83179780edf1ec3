package config

import (
	"log/slog"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
)

// NewDefaultConfig creates a new Config with sensible defaults.
// All secret values are randomly generated, so a default config boots but
// mints tokens no other instance can verify.
func NewDefaultConfig() *Config {
	return &Config{
		DBFile: "stpconnect.db",
		Jwt: Jwt{
			AuthSecret:                     crypto.NewSecureToken(),
			AuthTokenDuration:              Duration{Duration: 45 * time.Minute},
			VerificationEmailSecret:        crypto.NewSecureToken(),
			VerificationEmailTokenDuration: Duration{Duration: 24 * time.Hour},
		},
		Auth: Auth{
			PasswordResetTokenDuration: Duration{Duration: 1 * time.Hour},
			TwoFactorCodeDuration:      Duration{Duration: 10 * time.Minute},
			TempSessionDuration:        Duration{Duration: 15 * time.Minute},
			VerifiedSessionDuration:    Duration{Duration: 5 * time.Minute},
			MinPasswordLength:          6,
		},
		Server: Server{
			Addr:                    ":8080",
			BaseURL:                 "http://localhost:8080",
			ShutdownGracefulTimeout: Duration{Duration: 15 * time.Second},
			ReadTimeout:             Duration{Duration: 2 * time.Second},
			ReadHeaderTimeout:       Duration{Duration: 2 * time.Second},
			WriteTimeout:            Duration{Duration: 3 * time.Second},
			IdleTimeout:             Duration{Duration: 1 * time.Minute},
		},
		Scheduler: Scheduler{
			Interval:              Duration{Duration: 60 * time.Second},
			MaxJobsPerTick:        10,
			ConcurrencyMultiplier: 2,
		},
		Smtp: Smtp{
			Enabled:     false,
			Host:        "smtp.gmail.com",
			Port:        587,
			FromName:    "ELIDZ STP Connect",
			FromAddress: "",
			AuthMethod:  "plain",
			UseStartTLS: true,
		},
		SmsGateway: SmsGateway{
			Enabled:     false,
			SendTimeout: Duration{Duration: 10 * time.Second},
		},
		RateLimits: RateLimits{
			PasswordResetCooldown:     Duration{Duration: 2 * time.Hour},
			EmailVerificationCooldown: Duration{Duration: 1 * time.Hour},
			LoginWindow:               Duration{Duration: 1 * time.Minute},
			LoginMaxAttempts:          10,
			TwoFactorSendWindow:       Duration{Duration: 1 * time.Minute},
			TwoFactorSendMax:          3,
		},
		OAuth2Providers: map[string]OAuth2Provider{
			OAuth2ProviderGoogle: {
				Name:            OAuth2ProviderGoogle,
				DisplayName:     "Google",
				RedirectURLPath: "/oauth2/google/callback",
				AuthURL:         "https://accounts.google.com/o/oauth2/v2/auth",
				TokenURL:        "https://oauth2.googleapis.com/token",
				UserInfoURL:     "https://www.googleapis.com/oauth2/v3/userinfo",
				Scopes:          []string{"https://www.googleapis.com/auth/userinfo.profile", "https://www.googleapis.com/auth/userinfo.email"},
				PKCE:            true,
			},
			OAuth2ProviderGitHub: {
				Name:            OAuth2ProviderGitHub,
				DisplayName:     "GitHub",
				RedirectURLPath: "/oauth2/github/callback",
				AuthURL:         "https://github.com/login/oauth/authorize",
				TokenURL:        "https://github.com/login/oauth/access_token",
				UserInfoURL:     "https://api.github.com/user",
				Scopes:          []string{"read:user", "user:email"},
				PKCE:            true,
			},
		},
		Notifier: Notifier{
			Discord: Discord{
				Activated:    false,
				APIRateLimit: Duration{Duration: 2 * time.Second},
				APIBurst:     1,
				SendTimeout:  Duration{Duration: 10 * time.Second},
			},
		},
		Log: Log{
			Level: LogLevel{Level: slog.LevelInfo},
		},
		Backup: Backup{
			Enabled: false,
			Dir:     "backups",
		},
	}
}
