package config

import (
	"fmt"
	"net"
	"strings"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/crypto"
)

func Validate(cfg *Config) error {
	if err := validateServer(&cfg.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}
	if err := validateJwt(&cfg.Jwt); err != nil {
		return fmt.Errorf("jwt config validation failed: %w", err)
	}
	if err := validateAuth(&cfg.Auth); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}
	if err := validateScheduler(&cfg.Scheduler); err != nil {
		return fmt.Errorf("scheduler config validation failed: %w", err)
	}
	return nil
}

// validateServer checks the Server configuration section.
// It ensures the Addr field is not empty and contains a valid host:port or
// :port format. If only a port is provided (e.g., ":8080"), it defaults the
// host to "localhost". The port part is mandatory.
func validateServer(server *Server) error {
	if server.Addr == "" {
		return fmt.Errorf("server address (Addr) cannot be empty")
	}

	host, port, err := net.SplitHostPort(server.Addr)
	if err != nil {
		if strings.HasPrefix(server.Addr, ":") {
			port = strings.TrimPrefix(server.Addr, ":")
			host = "localhost"
		} else {
			return fmt.Errorf("invalid server address format '%s': %w", server.Addr, err)
		}
	}

	if port == "" {
		return fmt.Errorf("server address '%s' must include a port", server.Addr)
	}

	server.Addr = net.JoinHostPort(host, port)

	if _, err := net.LookupPort("tcp", port); err != nil {
		return fmt.Errorf("invalid port '%s' in server address '%s': %w", port, server.Addr, err)
	}

	// Host validation (is it a valid domain/IP?) is left to the net.Listen
	// call during server startup.

	return nil
}

func validateJwt(jwt *Jwt) error {
	if len(jwt.AuthSecret) < crypto.MinKeyLength {
		return fmt.Errorf("auth secret must be at least %d bytes", crypto.MinKeyLength)
	}
	if len(jwt.VerificationEmailSecret) < crypto.MinKeyLength {
		return fmt.Errorf("verification email secret must be at least %d bytes", crypto.MinKeyLength)
	}
	if jwt.AuthTokenDuration.Duration <= 0 {
		return fmt.Errorf("auth token duration must be positive")
	}
	if jwt.VerificationEmailTokenDuration.Duration <= 0 {
		return fmt.Errorf("verification email token duration must be positive")
	}
	return nil
}

func validateAuth(auth *Auth) error {
	for name, d := range map[string]Duration{
		"password_reset_token_duration": auth.PasswordResetTokenDuration,
		"two_factor_code_duration":      auth.TwoFactorCodeDuration,
		"temp_session_duration":         auth.TempSessionDuration,
		"verified_session_duration":     auth.VerifiedSessionDuration,
	} {
		if d.Duration <= 0 {
			return fmt.Errorf("%s must be positive", name)
		}
	}
	if auth.MinPasswordLength < 1 {
		return fmt.Errorf("min_password_length must be at least 1")
	}
	return nil
}

func validateScheduler(s *Scheduler) error {
	if s.Interval.Duration <= 0 {
		return fmt.Errorf("scheduler interval must be positive")
	}
	if s.MaxJobsPerTick < 1 {
		return fmt.Errorf("max_jobs_per_tick must be at least 1")
	}
	if s.ConcurrencyMultiplier < 1 {
		return fmt.Errorf("concurrency_multiplier must be at least 1")
	}
	return nil
}
