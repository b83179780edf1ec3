package core

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/db/mock"
)

func TestJwtValidateMiddleware(t *testing.T) {
	user := &db.User{ID: "user1", Email: "member@example.com"}

	t.Run("authenticated user reaches the handler", func(t *testing.T) {
		app := newTestApp(t, &mock.Db{}, newTestConfig())
		app.SetAuthenticator(&MockAuth{
			AuthenticateFunc: func(r *http.Request) (*db.User, jsonResponse, error) {
				return user, jsonResponse{}, nil
			},
		})

		var gotUser *db.User
		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotUser = UserFromContext(r.Context())
			w.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		rr := httptest.NewRecorder()
		app.JwtValidate(next).ServeHTTP(rr, req)

		if rr.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d", rr.Code)
		}
		if gotUser == nil || gotUser.ID != user.ID {
			t.Errorf("handler saw user %v, want %q", gotUser, user.ID)
		}
	})

	t.Run("authentication failure short-circuits", func(t *testing.T) {
		app := newTestApp(t, &mock.Db{}, newTestConfig())
		app.SetAuthenticator(&MockAuth{
			AuthenticateFunc: func(r *http.Request) (*db.User, jsonResponse, error) {
				return nil, errorJwtInvalidToken, errors.New("bad token")
			},
		})

		next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			t.Error("handler reached despite failed authentication")
		})

		req := httptest.NewRequest("GET", "/protected", nil)
		rr := httptest.NewRecorder()
		app.JwtValidate(next).ServeHTTP(rr, req)

		if rr.Code != errorJwtInvalidToken.status {
			t.Fatalf("expected status %d, got %d", errorJwtInvalidToken.status, rr.Code)
		}
	})
}

func TestLoginRateLimit(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimits.LoginMaxAttempts = 3

	app := newTestApp(t, &mock.Db{}, cfg, WithCache(newMapCache()))

	handled := 0
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		handled++
		w.WriteHeader(http.StatusOK)
	})
	limited := app.LoginRateLimit(next)

	send := func() *httptest.ResponseRecorder {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4711"
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		return rr
	}

	for i := 0; i < 3; i++ {
		if rr := send(); rr.Code != http.StatusOK {
			t.Fatalf("attempt %d: expected status 200, got %d", i+1, rr.Code)
		}
	}

	rr := send()
	if rr.Code != errorTooManyRequests.status {
		t.Fatalf("expected status %d after limit, got %d", errorTooManyRequests.status, rr.Code)
	}
	if handled != 3 {
		t.Errorf("handler ran %d times, want 3", handled)
	}
}

func TestLoginRateLimitIsPerClient(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimits.LoginMaxAttempts = 1

	app := newTestApp(t, &mock.Db{}, cfg, WithCache(newMapCache()))
	limited := app.LoginRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	send := func(addr string) int {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = addr
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		return rr.Code
	}

	if code := send("203.0.113.7:1000"); code != http.StatusOK {
		t.Fatalf("first client blocked immediately: %d", code)
	}
	if code := send("203.0.113.7:1001"); code != errorTooManyRequests.status {
		t.Fatalf("first client not limited: %d", code)
	}
	// A different client is unaffected.
	if code := send("198.51.100.9:1000"); code != http.StatusOK {
		t.Fatalf("second client blocked by first client's counter: %d", code)
	}
}

func TestRateLimitDisabledWhenMaxIsZero(t *testing.T) {
	cfg := newTestConfig()
	cfg.RateLimits.LoginMaxAttempts = 0

	app := newTestApp(t, &mock.Db{}, cfg, WithCache(newMapCache()))
	limited := app.LoginRateLimit(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 20; i++ {
		req := httptest.NewRequest("POST", "/api/auth/login", nil)
		req.RemoteAddr = "203.0.113.7:4711"
		rr := httptest.NewRecorder()
		limited.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Fatalf("limiter active although disabled: %d", rr.Code)
		}
	}
}
