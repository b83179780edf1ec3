package core

import (
	"errors"
	"testing"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/mock"
)

func newTestBridge(mockDb *mock.Db) *SessionBridge {
	return NewSessionBridge(mockDb, config.NewProvider(newTestConfig()), testLogger())
}

func TestMintTempSession(t *testing.T) {
	user := &db.User{ID: "user1", Email: "member@example.com"}

	var gotToken, gotUserID, gotEmail string
	var gotExpiry time.Time
	mockDb := &mock.Db{
		InsertTempLoginSessionFunc: func(token, userID, email string, expiresAt time.Time) error {
			gotToken, gotUserID, gotEmail, gotExpiry = token, userID, email, expiresAt
			return nil
		},
	}

	token, err := newTestBridge(mockDb).MintTempSession(user)
	if err != nil {
		t.Fatalf("MintTempSession() error = %v", err)
	}
	if token == "" || token != gotToken {
		t.Errorf("returned token %q does not match persisted token %q", token, gotToken)
	}
	if gotUserID != user.ID || gotEmail != user.Email {
		t.Errorf("persisted session for %q/%q, want %q/%q", gotUserID, gotEmail, user.ID, user.Email)
	}

	wantExpiry := time.Now().UTC().Add(15 * time.Minute)
	if gotExpiry.Before(wantExpiry.Add(-time.Minute)) || gotExpiry.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v not within expected window around %v", gotExpiry, wantExpiry)
	}
}

func TestMintTempSessionStoreFailure(t *testing.T) {
	mockDb := &mock.Db{
		InsertTempLoginSessionFunc: func(token, userID, email string, expiresAt time.Time) error {
			return errors.New("disk full")
		},
	}

	if _, err := newTestBridge(mockDb).MintTempSession(&db.User{ID: "u", Email: "e@example.com"}); err == nil {
		t.Fatal("expected error on store failure")
	}
}

func TestMintVerifiedSessionIsShortLived(t *testing.T) {
	var gotExpiry time.Time
	mockDb := &mock.Db{
		InsertVerifiedSessionFunc: func(token, userID, email string, expiresAt time.Time) error {
			gotExpiry = expiresAt
			return nil
		},
	}

	if _, err := newTestBridge(mockDb).MintVerifiedSession("user1", "member@example.com"); err != nil {
		t.Fatalf("MintVerifiedSession() error = %v", err)
	}

	wantExpiry := time.Now().UTC().Add(5 * time.Minute)
	if gotExpiry.Before(wantExpiry.Add(-time.Minute)) || gotExpiry.After(wantExpiry.Add(time.Minute)) {
		t.Errorf("expiry %v not within expected window around %v", gotExpiry, wantExpiry)
	}
}

func TestConsumeVerifiedSessionPassesThroughNotFound(t *testing.T) {
	mockDb := &mock.Db{} // default: ErrTokenNotFound

	_, err := newTestBridge(mockDb).ConsumeVerifiedSession("unknown")
	if !errors.Is(err, db.ErrTokenNotFound) {
		t.Fatalf("ConsumeVerifiedSession() error = %v, want ErrTokenNotFound", err)
	}
}

func TestMintedTokensAreUnique(t *testing.T) {
	seen := make(map[string]bool)
	mockDb := &mock.Db{
		InsertTempLoginSessionFunc: func(token, userID, email string, expiresAt time.Time) error {
			if seen[token] {
				t.Fatalf("token %q minted twice", token)
			}
			seen[token] = true
			return nil
		},
	}

	b := newTestBridge(mockDb)
	user := &db.User{ID: "user1", Email: "member@example.com"}
	for i := 0; i < 50; i++ {
		if _, err := b.MintTempSession(user); err != nil {
			t.Fatalf("MintTempSession() error = %v", err)
		}
	}
}
