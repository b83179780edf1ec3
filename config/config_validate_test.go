package config

import (
	"strings"
	"testing"
)

func TestValidateServer(t *testing.T) {
	testCases := []struct {
		name     string
		addr     string
		wantAddr string
		wantErr  bool
	}{
		{"port only", ":8080", "localhost:8080", false},
		{"host and port", "example.com:8080", "example.com:8080", false},
		{"ipv6", "[::1]:8080", "[::1]:8080", false},
		{"empty", "", "", true},
		{"no port", "example.com", "", true},
		{"bad port", ":notaport", "", true},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := NewDefaultConfig()
			cfg.Server.Addr = tc.addr
			err := Validate(cfg)
			if tc.wantErr {
				if err == nil {
					t.Fatalf("expected error for addr %q", tc.addr)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if cfg.Server.Addr != tc.wantAddr {
				t.Errorf("expected addr %q, got %q", tc.wantAddr, cfg.Server.Addr)
			}
		})
	}
}

func TestValidateJwtSecrets(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Jwt.AuthSecret = "too-short"
	err := Validate(cfg)
	if err == nil || !strings.Contains(err.Error(), "auth secret") {
		t.Fatalf("expected auth secret error, got %v", err)
	}
}

func TestValidateAuthDurations(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Auth.VerifiedSessionDuration = Duration{}
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero verified session duration")
	}

	cfg = NewDefaultConfig()
	cfg.Auth.MinPasswordLength = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero min password length")
	}
}

func TestValidateScheduler(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Scheduler.MaxJobsPerTick = 0
	if err := Validate(cfg); err == nil {
		t.Fatal("expected error for zero max jobs per tick")
	}
}
