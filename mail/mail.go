package mail

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/smtp"

	"github.com/domodwyer/mailyak/v3"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
)

// MailerInterface abstracts the SMTP mailer so job handlers and the auth
// core can swap in a mock under test.
type MailerInterface interface {
	SendTwoFactorCode(ctx context.Context, email, name, code string) error
	SendPasswordResetEmail(ctx context.Context, email, token string) error
	SendVerificationEmail(ctx context.Context, email, token string) error
}

// Mailer sends the transactional emails of the authentication flows.
type Mailer struct {
	configProvider *config.Provider
	logger         *slog.Logger
}

var _ MailerInterface = (*Mailer)(nil)

func New(configProvider *config.Provider, logger *slog.Logger) (*Mailer, error) {
	cfg := configProvider.Get().Smtp
	if cfg.Host == "" || cfg.Port == 0 {
		return nil, fmt.Errorf("mail: smtp host and port are required")
	}
	if cfg.FromAddress == "" {
		return nil, fmt.Errorf("mail: from address is required")
	}
	return &Mailer{configProvider: configProvider, logger: logger}, nil
}

func (m *Mailer) newMail() (*mailyak.MailYak, error) {
	cfg := m.configProvider.Get().Smtp
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)

	var auth smtp.Auth
	switch cfg.AuthMethod {
	case "", "plain":
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	case "cram-md5":
		auth = smtp.CRAMMD5Auth(cfg.Username, cfg.Password)
	default:
		return nil, fmt.Errorf("mail: unsupported auth method %q", cfg.AuthMethod)
	}

	if cfg.UseTLS {
		return mailyak.NewWithTLS(addr, auth, &tls.Config{ServerName: cfg.Host})
	}
	return mailyak.New(addr, auth), nil
}

// send dispatches the mail while honoring the caller's context. mailyak has
// no context support, so the send runs in a goroutine and the select below
// abandons it on cancellation.
func (m *Mailer) send(ctx context.Context, mail *mailyak.MailYak) error {
	done := make(chan error, 1)
	go func() {
		done <- mail.Send()
	}()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case err := <-done:
		return err
	}
}

// SendTwoFactorCode emails a short-lived login verification code.
func (m *Mailer) SendTwoFactorCode(ctx context.Context, email, name, code string) error {
	cfg := m.configProvider.Get()

	mail, err := m.newMail()
	if err != nil {
		return err
	}
	mail.To(email)
	mail.From(cfg.Smtp.FromAddress)
	mail.FromName(cfg.Smtp.FromName)
	mail.Subject("Your verification code")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Login verification</h1>
		<p>Hello %s,</p>
		<p>Your verification code is:</p>
		<h2>%s</h2>
		<p>The code expires in %s. If you did not try to sign in, you can ignore this email.</p>
	`, name, code, cfg.Auth.TwoFactorCodeDuration.Duration))

	if err := m.send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send two-factor code email: %w", err)
	}
	m.logger.Info("sent two-factor code email", "email", email)
	return nil
}

// SendPasswordResetEmail emails a single-use password reset link.
func (m *Mailer) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	cfg := m.configProvider.Get()

	mail, err := m.newMail()
	if err != nil {
		return err
	}
	mail.To(email)
	mail.From(cfg.Smtp.FromAddress)
	mail.FromName(cfg.Smtp.FromName)
	mail.Subject("Reset your password")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Password reset</h1>
		<p>Click the link below to choose a new password:</p>
		<p><a href="%s/api/password/reset?token=%s">Reset password</a></p>
		<p>The link expires in %s and can be used once. If you did not request a reset, you can ignore this email.</p>
	`, cfg.Server.BaseURL, token, cfg.Auth.PasswordResetTokenDuration.Duration))

	if err := m.send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send password reset email: %w", err)
	}
	m.logger.Info("sent password reset email", "email", email)
	return nil
}

// SendVerificationEmail emails the address-ownership confirmation link.
func (m *Mailer) SendVerificationEmail(ctx context.Context, email, token string) error {
	cfg := m.configProvider.Get()

	mail, err := m.newMail()
	if err != nil {
		return err
	}
	mail.To(email)
	mail.From(cfg.Smtp.FromAddress)
	mail.FromName(cfg.Smtp.FromName)
	mail.Subject("Verify your email address")
	mail.HTML().Set(fmt.Sprintf(`
		<h1>Email verification</h1>
		<p>Please click the link below to verify your email address:</p>
		<p><a href="%s/api/auth/verify-email?token=%s">Verify email</a></p>
	`, cfg.Server.BaseURL, token))

	if err := m.send(ctx, mail); err != nil {
		return fmt.Errorf("failed to send verification email: %w", err)
	}
	m.logger.Info("sent verification email", "email", email)
	return nil
}
