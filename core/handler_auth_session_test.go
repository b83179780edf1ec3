package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/mock"
)

func TestSessionHandlerExchangesVerifiedSession(t *testing.T) {
	hash, _ := crypto.GenerateHash("password123")
	user := &db.User{ID: "user1", Email: "member@example.com", Password: hash, Verified: true}

	consumed := false
	mockDb := &mock.Db{
		ConsumeVerifiedSessionFunc: func(token string) (*db.VerifiedTwoFactorSession, error) {
			if token != "verified-1" {
				return nil, db.ErrTokenNotFound
			}
			if consumed {
				// Single-use: the second redemption must fail.
				return nil, db.ErrTokenNotFound
			}
			consumed = true
			return &db.VerifiedTwoFactorSession{UserID: user.ID, Email: user.Email, Token: token}, nil
		},
		GetUserByIdFunc: func(id string) (*db.User, error) {
			return user, nil
		},
	}
	app := newTestApp(t, mockDb, newTestConfig())

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/auth/session", strings.NewReader(`{"sessionToken":"verified-1"}`))
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()
		app.SessionHandler(rr, req)
		return rr
	}

	rr := send()
	if rr.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
	}
	body := decodeResponse(t, rr)
	if body["code"] != CodeOkAuthentication {
		t.Errorf("expected code %q, got %q", CodeOkAuthentication, body["code"])
	}
	data := body["data"].(map[string]any)
	if token, _ := data["access_token"].(string); token == "" {
		t.Error("response missing access_token")
	}

	// Replaying the same token must fail.
	rr = send()
	if rr.Code != errorInvalidOrExpiredSession.status {
		t.Fatalf("replay: expected status %d, got %d", errorInvalidOrExpiredSession.status, rr.Code)
	}
}

func TestSessionHandlerFailures(t *testing.T) {
	testCases := []struct {
		name        string
		requestBody string
		dbSetup     func(*mock.Db)
		wantError   jsonResponse
	}{
		{
			name:        "unknown token",
			requestBody: `{"sessionToken":"unknown"}`,
			dbSetup:     func(m *mock.Db) {},
			wantError:   errorInvalidOrExpiredSession,
		},
		{
			name:        "missing token",
			requestBody: `{}`,
			dbSetup:     func(m *mock.Db) {},
			wantError:   errorInvalidRequest,
		},
		{
			name:        "banned account after verification",
			requestBody: `{"sessionToken":"verified-1"}`,
			dbSetup: func(m *mock.Db) {
				m.ConsumeVerifiedSessionFunc = func(token string) (*db.VerifiedTwoFactorSession, error) {
					return &db.VerifiedTwoFactorSession{UserID: "user1", Email: "member@example.com"}, nil
				}
				m.GetUserByIdFunc = func(id string) (*db.User, error) {
					return &db.User{ID: id, Email: "member@example.com", Banned: true}, nil
				}
			},
			wantError: errorInvalidOrExpiredSession,
		},
		{
			name:        "account vanished after verification",
			requestBody: `{"sessionToken":"verified-1"}`,
			dbSetup: func(m *mock.Db) {
				m.ConsumeVerifiedSessionFunc = func(token string) (*db.VerifiedTwoFactorSession, error) {
					return &db.VerifiedTwoFactorSession{UserID: "user1", Email: "member@example.com"}, nil
				}
			},
			wantError: errorInvalidOrExpiredSession,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			mockDb := &mock.Db{}
			tc.dbSetup(mockDb)
			app := newTestApp(t, mockDb, newTestConfig())

			req := httptest.NewRequest("POST", "/api/auth/session", strings.NewReader(tc.requestBody))
			req.Header.Set("Content-Type", "application/json")
			rr := httptest.NewRecorder()

			app.SessionHandler(rr, req)

			if rr.Code != tc.wantError.status {
				t.Errorf("expected status %d, got %d", tc.wantError.status, rr.Code)
			}
		})
	}
}

func TestRefreshAuthHandler(t *testing.T) {
	hash, _ := crypto.GenerateHash("password123")
	user := &db.User{ID: "user1", Email: "member@example.com", Password: hash, Verified: true}

	t.Run("authenticated request gets a fresh token", func(t *testing.T) {
		app := newTestApp(t, &mock.Db{}, newTestConfig())
		app.SetAuthenticator(&MockAuth{
			AuthenticateFunc: func(r *http.Request) (*db.User, jsonResponse, error) {
				return user, jsonResponse{}, nil
			},
		})

		req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		app.RefreshAuthHandler(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rr.Code, rr.Body.String())
		}
		body := decodeResponse(t, rr)
		if body["code"] != CodeOkAuthentication {
			t.Errorf("expected code %q, got %q", CodeOkAuthentication, body["code"])
		}
	})

	t.Run("authentication failure is passed through", func(t *testing.T) {
		app := newTestApp(t, &mock.Db{}, newTestConfig())
		app.SetAuthenticator(&MockAuth{
			AuthenticateFunc: func(r *http.Request) (*db.User, jsonResponse, error) {
				return nil, errorJwtTokenExpired, errors.New("expired")
			},
		})

		req := httptest.NewRequest("POST", "/api/auth/refresh", nil)
		req.Header.Set("Content-Type", "application/json")
		rr := httptest.NewRecorder()

		app.RefreshAuthHandler(rr, req)

		if rr.Code != errorJwtTokenExpired.status {
			t.Fatalf("expected status %d, got %d", errorJwtTokenExpired.status, rr.Code)
		}
	})
}
