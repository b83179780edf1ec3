package handlers

import (
	"context"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/mail"
)

// mailerMock is a mock implementation of mail.MailerInterface for testing.
type mailerMock struct {
	SendTwoFactorCodeFunc      func(ctx context.Context, email, name, code string) error
	SendPasswordResetEmailFunc func(ctx context.Context, email, token string) error
	SendVerificationEmailFunc  func(ctx context.Context, email, token string) error
}

func (m *mailerMock) SendTwoFactorCode(ctx context.Context, email, name, code string) error {
	if m.SendTwoFactorCodeFunc != nil {
		return m.SendTwoFactorCodeFunc(ctx, email, name, code)
	}
	return nil
}

func (m *mailerMock) SendPasswordResetEmail(ctx context.Context, email, token string) error {
	if m.SendPasswordResetEmailFunc != nil {
		return m.SendPasswordResetEmailFunc(ctx, email, token)
	}
	return nil
}

func (m *mailerMock) SendVerificationEmail(ctx context.Context, email, token string) error {
	if m.SendVerificationEmailFunc != nil {
		return m.SendVerificationEmailFunc(ctx, email, token)
	}
	return nil
}

var _ mail.MailerInterface = (*mailerMock)(nil)
