package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"
)

const (
	EnvJwtAuthSecret      = "STPCONNECT_JWT_AUTH_SECRET"
	EnvSmtpPassword       = "STPCONNECT_SMTP_PASSWORD"
	EnvGoogleClientID     = "OAUTH2_GOOGLE_CLIENT_ID"
	EnvGoogleClientSecret = "OAUTH2_GOOGLE_CLIENT_SECRET"
	EnvGithubClientID     = "OAUTH2_GITHUB_CLIENT_ID"
	EnvGithubClientSecret = "OAUTH2_GITHUB_CLIENT_SECRET"
)

const (
	OAuth2ProviderGoogle = "google"
	OAuth2ProviderGitHub = "github"
)

// Duration wraps time.Duration for TOML text (un)marshalling, e.g. "45m".
type Duration struct {
	time.Duration
}

func (d *Duration) UnmarshalText(text []byte) error {
	parsed, err := time.ParseDuration(string(text))
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", string(text), err)
	}
	d.Duration = parsed
	return nil
}

func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.Duration.String()), nil
}

// LogLevel wraps slog.Level for TOML text (un)marshalling, e.g. "INFO".
type LogLevel struct {
	slog.Level
}

func (l *LogLevel) UnmarshalText(text []byte) error {
	return l.Level.UnmarshalText(text)
}

func (l LogLevel) MarshalText() ([]byte, error) {
	return l.Level.MarshalText()
}

type Jwt struct {
	AuthSecret                     string   `toml:"auth_secret"`
	AuthTokenDuration              Duration `toml:"auth_token_duration"`
	VerificationEmailSecret        string   `toml:"verification_email_secret"`
	VerificationEmailTokenDuration Duration `toml:"verification_email_token_duration"`
}

// Auth holds the lifetimes of the short-lived verification artifacts and the
// local password policy.
type Auth struct {
	PasswordResetTokenDuration Duration `toml:"password_reset_token_duration"`
	TwoFactorCodeDuration      Duration `toml:"two_factor_code_duration"`
	TempSessionDuration        Duration `toml:"temp_session_duration"`
	VerifiedSessionDuration    Duration `toml:"verified_session_duration"`
	MinPasswordLength          int      `toml:"min_password_length"`
}

type Server struct {
	Addr                    string   `toml:"addr"`
	BaseURL                 string   `toml:"base_url"`
	ShutdownGracefulTimeout Duration `toml:"shutdown_graceful_timeout"`
	ReadTimeout             Duration `toml:"read_timeout"`
	ReadHeaderTimeout       Duration `toml:"read_header_timeout"`
	WriteTimeout            Duration `toml:"write_timeout"`
	IdleTimeout             Duration `toml:"idle_timeout"`
	ClientIpProxyHeader     string   `toml:"client_ip_proxy_header"`
	EnableTLS               bool     `toml:"enable_tls"`
	CertFile                string   `toml:"cert_file"`
	KeyFile                 string   `toml:"key_file"`
}

type Scheduler struct {
	Interval              Duration `toml:"interval"`
	MaxJobsPerTick        int      `toml:"max_jobs_per_tick"`
	ConcurrencyMultiplier int      `toml:"concurrency_multiplier"`
}

type Smtp struct {
	Enabled     bool   `toml:"enabled"`
	Host        string `toml:"host"`
	Port        int    `toml:"port"`
	FromName    string `toml:"from_name"`
	FromAddress string `toml:"from_address"`
	LocalName   string `toml:"local_name"`
	AuthMethod  string `toml:"auth_method"`
	UseTLS      bool   `toml:"use_tls"`
	UseStartTLS bool   `toml:"use_start_tls"`
	Username    string `toml:"username"`
	Password    string `toml:"password"`
}

// SmsGateway posts verification codes to an HTTP webhook. The park's SMS
// provider exposes a JSON endpoint, so no vendor SDK is involved.
type SmsGateway struct {
	Enabled     bool     `toml:"enabled"`
	WebhookURL  string   `toml:"webhook_url"`
	From        string   `toml:"from"`
	SendTimeout Duration `toml:"send_timeout"`
}

type RateLimits struct {
	PasswordResetCooldown     Duration `toml:"password_reset_cooldown"`
	EmailVerificationCooldown Duration `toml:"email_verification_cooldown"`
	LoginWindow               Duration `toml:"login_window"`
	LoginMaxAttempts          int      `toml:"login_max_attempts"`
	TwoFactorSendWindow       Duration `toml:"two_factor_send_window"`
	TwoFactorSendMax          int      `toml:"two_factor_send_max"`
}

type OAuth2Provider struct {
	Name            string   `toml:"name"`
	DisplayName     string   `toml:"display_name"`
	RedirectURL     string   `toml:"redirect_url"`
	RedirectURLPath string   `toml:"redirect_url_path"`
	AuthURL         string   `toml:"auth_url"`
	TokenURL        string   `toml:"token_url"`
	UserInfoURL     string   `toml:"user_info_url"`
	Scopes          []string `toml:"scopes"`
	PKCE            bool     `toml:"pkce"`
	ClientID        string   `toml:"client_id"`
	ClientSecret    string   `toml:"client_secret"`
}

type Discord struct {
	Activated    bool     `toml:"activated"`
	WebhookURL   string   `toml:"webhook_url"`
	APIRateLimit Duration `toml:"api_rate_limit"`
	APIBurst     int      `toml:"api_burst"`
	SendTimeout  Duration `toml:"send_timeout"`
}

type Notifier struct {
	Discord Discord `toml:"discord"`
}

type Log struct {
	Level LogLevel `toml:"level"`
}

// Backup configures the periodic ledger database backup job.
type Backup struct {
	Enabled bool   `toml:"enabled"`
	Dir     string `toml:"dir"`
}

type Config struct {
	// Source records where the config was loaded from; empty for defaults.
	Source string `toml:"-"`

	DBFile          string                    `toml:"db_file"`
	Jwt             Jwt                       `toml:"jwt"`
	Auth            Auth                      `toml:"auth"`
	Server          Server                    `toml:"server"`
	Scheduler       Scheduler                 `toml:"scheduler"`
	Smtp            Smtp                      `toml:"smtp"`
	SmsGateway      SmsGateway                `toml:"sms_gateway"`
	RateLimits      RateLimits                `toml:"rate_limits"`
	OAuth2Providers map[string]OAuth2Provider `toml:"oauth2_providers"`
	Notifier        Notifier                  `toml:"notifier"`
	Log             Log                       `toml:"log"`
	Backup          Backup                    `toml:"backup"`
}

// FillEnvOverrides resolves secrets from the environment where set. File and
// default values stay in place when the variable is absent.
func (c *Config) FillEnvOverrides() {
	if v := os.Getenv(EnvJwtAuthSecret); v != "" {
		c.Jwt.AuthSecret = v
	}
	if v := os.Getenv(EnvSmtpPassword); v != "" {
		c.Smtp.Password = v
	}
	if p, ok := c.OAuth2Providers[OAuth2ProviderGoogle]; ok {
		if v := os.Getenv(EnvGoogleClientID); v != "" {
			p.ClientID = v
		}
		if v := os.Getenv(EnvGoogleClientSecret); v != "" {
			p.ClientSecret = v
		}
		c.OAuth2Providers[OAuth2ProviderGoogle] = p
	}
	if p, ok := c.OAuth2Providers[OAuth2ProviderGitHub]; ok {
		if v := os.Getenv(EnvGithubClientID); v != "" {
			p.ClientID = v
		}
		if v := os.Getenv(EnvGithubClientSecret); v != "" {
			p.ClientSecret = v
		}
		c.OAuth2Providers[OAuth2ProviderGitHub] = p
	}
}
