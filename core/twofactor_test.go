package core

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/mock"
)

func newTestTwoFactorManager(mockDb *mock.Db, cfg *config.Config, mailer *mailerMock, sms *smsMock) *TwoFactorManager {
	provider := config.NewProvider(cfg)
	bridge := NewSessionBridge(mockDb, provider, testLogger())
	var smsSender SmsSender
	if sms != nil {
		smsSender = sms
	}
	m := NewTwoFactorManager(mockDb, provider, bridge, mailer, smsSender, testLogger())
	m.SetCodeSource(func() string { return "ABC123" })
	return m
}

func TestIssueCodePersistsBeforeDelivery(t *testing.T) {
	var persistedCode string
	var persistedExpiry time.Time
	delivered := false

	mockDb := &mock.Db{
		InsertTwoFactorCodeFunc: func(userID, code string, expiresAt time.Time) error {
			persistedCode, persistedExpiry = code, expiresAt
			return nil
		},
	}
	mailer := &mailerMock{
		sendTwoFactorCodeFunc: func(ctx context.Context, email, name, code string) error {
			if persistedCode == "" {
				t.Error("delivery attempted before the code was persisted")
			}
			if code != "ABC123" {
				t.Errorf("delivered code %q, want ABC123", code)
			}
			delivered = true
			return nil
		},
	}

	m := newTestTwoFactorManager(mockDb, newTestConfig(), mailer, nil)
	code, err := m.IssueCode(context.Background(), &db.User{ID: "user1", Email: "member@example.com"})
	if err != nil {
		t.Fatalf("IssueCode() error = %v", err)
	}
	if code != "ABC123" {
		t.Errorf("IssueCode() = %q, want ABC123", code)
	}
	if !delivered {
		t.Error("code was never delivered")
	}

	wantExpiry := time.Now().UTC().Add(10 * time.Minute)
	if persistedExpiry.Before(wantExpiry.Add(-time.Minute)) || persistedExpiry.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v not within expected window around %v", persistedExpiry, wantExpiry)
	}
}

func TestIssueCodePrefersSms(t *testing.T) {
	smsSent := false
	mailSent := false

	sms := &smsMock{
		sendCodeFunc: func(ctx context.Context, phone, code string) error {
			if phone != "+27831234567" {
				t.Errorf("sms sent to %q", phone)
			}
			smsSent = true
			return nil
		},
	}
	mailer := &mailerMock{
		sendTwoFactorCodeFunc: func(ctx context.Context, email, name, code string) error {
			mailSent = true
			return nil
		},
	}

	cfg := newTestConfig()
	cfg.SmsGateway.Enabled = true

	m := newTestTwoFactorManager(&mock.Db{}, cfg, mailer, sms)
	user := &db.User{ID: "user1", Email: "member@example.com", Phone: "+27831234567"}
	if _, err := m.IssueCode(context.Background(), user); err != nil {
		t.Fatalf("IssueCode() error = %v", err)
	}
	if !smsSent {
		t.Error("sms channel was not used")
	}
	if mailSent {
		t.Error("email sent although sms succeeded")
	}
}

func TestIssueCodeFallsBackToEmail(t *testing.T) {
	mailSent := false

	sms := &smsMock{
		sendCodeFunc: func(ctx context.Context, phone, code string) error {
			return errors.New("gateway timeout")
		},
	}
	mailer := &mailerMock{
		sendTwoFactorCodeFunc: func(ctx context.Context, email, name, code string) error {
			mailSent = true
			return nil
		},
	}

	cfg := newTestConfig()
	cfg.SmsGateway.Enabled = true

	m := newTestTwoFactorManager(&mock.Db{}, cfg, mailer, sms)
	user := &db.User{ID: "user1", Email: "member@example.com", Phone: "+27831234567"}
	if _, err := m.IssueCode(context.Background(), user); err != nil {
		t.Fatalf("IssueCode() error = %v, want fallback to succeed", err)
	}
	if !mailSent {
		t.Error("email fallback was not used")
	}
}

func TestIssueCodeSkipsSmsWithoutPhone(t *testing.T) {
	sms := &smsMock{
		sendCodeFunc: func(ctx context.Context, phone, code string) error {
			t.Error("sms attempted for a user without a phone number")
			return nil
		},
	}
	mailer := &mailerMock{}

	cfg := newTestConfig()
	cfg.SmsGateway.Enabled = true

	m := newTestTwoFactorManager(&mock.Db{}, cfg, mailer, sms)
	if _, err := m.IssueCode(context.Background(), &db.User{ID: "user1", Email: "member@example.com"}); err != nil {
		t.Fatalf("IssueCode() error = %v", err)
	}
}

func TestIssueCodeAllChannelsFail(t *testing.T) {
	sms := &smsMock{
		sendCodeFunc: func(ctx context.Context, phone, code string) error {
			return errors.New("gateway down")
		},
	}
	mailer := &mailerMock{
		sendTwoFactorCodeFunc: func(ctx context.Context, email, name, code string) error {
			return errors.New("smtp down")
		},
	}

	cfg := newTestConfig()
	cfg.SmsGateway.Enabled = true

	m := newTestTwoFactorManager(&mock.Db{}, cfg, mailer, sms)
	user := &db.User{ID: "user1", Email: "member@example.com", Phone: "+27831234567"}
	_, err := m.IssueCode(context.Background(), user)
	if !errors.Is(err, ErrDeliveryFailed) {
		t.Fatalf("IssueCode() error = %v, want ErrDeliveryFailed", err)
	}
}

func TestResendCodeInvalidatesPriorCodes(t *testing.T) {
	invalidated := false
	inserted := false

	mockDb := &mock.Db{
		InvalidateTwoFactorCodesFunc: func(userID string) (int64, error) {
			invalidated = true
			return 1, nil
		},
		InsertTwoFactorCodeFunc: func(userID, code string, expiresAt time.Time) error {
			if !invalidated {
				t.Error("new code inserted before old codes were invalidated")
			}
			inserted = true
			return nil
		},
	}

	m := newTestTwoFactorManager(mockDb, newTestConfig(), &mailerMock{}, nil)
	if _, err := m.ResendCode(context.Background(), &db.User{ID: "user1", Email: "member@example.com"}); err != nil {
		t.Fatalf("ResendCode() error = %v", err)
	}
	if !inserted {
		t.Error("no new code was persisted")
	}
}

func TestVerifyCode(t *testing.T) {
	testCases := []struct {
		name     string
		code     string
		dbSetup  func(*mock.Db)
		wantErr  error
		wantMint bool
	}{
		{
			name: "valid code mints verified session",
			code: "abc123", // lowercase input must match the uppercase stored form
			dbSetup: func(m *mock.Db) {
				m.ConsumeTwoFactorCodeFunc = func(userID, code string) (*db.TwoFactorCode, error) {
					if code != "ABC123" {
						t.Errorf("consume got code %q, want normalized ABC123", code)
					}
					return &db.TwoFactorCode{UserID: userID, Code: code}, nil
				}
			},
			wantMint: true,
		},
		{
			name:    "unknown or expired code",
			code:    "WRONG1",
			dbSetup: func(m *mock.Db) {}, // default consume: ErrTokenNotFound
			wantErr: ErrInvalidOrExpiredCode,
		},
		{
			name:    "empty code after trimming",
			code:    "   ",
			dbSetup: func(m *mock.Db) {},
			wantErr: ErrInvalidOrExpiredCode,
		},
		{
			name: "store failure surfaces as internal error",
			code: "ABC123",
			dbSetup: func(m *mock.Db) {
				m.ConsumeTwoFactorCodeFunc = func(userID, code string) (*db.TwoFactorCode, error) {
					return nil, errors.New("connection lost")
				}
			},
			wantErr: nil, // checked separately: must NOT be ErrInvalidOrExpiredCode
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			minted := false
			mockDb := &mock.Db{
				InsertVerifiedSessionFunc: func(token, userID, email string, expiresAt time.Time) error {
					minted = true
					return nil
				},
			}
			tc.dbSetup(mockDb)

			m := newTestTwoFactorManager(mockDb, newTestConfig(), &mailerMock{}, nil)
			token, err := m.VerifyCode("user1", "member@example.com", tc.code)

			if tc.wantMint {
				if err != nil {
					t.Fatalf("VerifyCode() error = %v", err)
				}
				if token == "" {
					t.Error("VerifyCode() returned empty session token")
				}
				if !minted {
					t.Error("verified session was not persisted")
				}
				return
			}

			if err == nil {
				t.Fatal("VerifyCode() succeeded, want error")
			}
			if tc.wantErr != nil && !errors.Is(err, tc.wantErr) {
				t.Fatalf("VerifyCode() error = %v, want %v", err, tc.wantErr)
			}
			if tc.wantErr == nil && errors.Is(err, ErrInvalidOrExpiredCode) {
				t.Fatal("store failure collapsed into ErrInvalidOrExpiredCode")
			}
			if minted {
				t.Error("verified session minted despite failed verification")
			}
		})
	}
}
