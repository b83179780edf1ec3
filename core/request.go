package core

import (
	"fmt"
	"net"
	"net/http"
	"net/mail"
	"strings"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/config"
)

// ValidateEmail checks if an email address is valid according to RFC 5322.
func ValidateEmail(email string) error {
	if _, err := mail.ParseAddress(email); err != nil {
		return fmt.Errorf("invalid email format: %w", err)
	}
	return nil
}

// normalizeEmail produces the lookup key for the credential store: trimmed
// and lower-cased. Addresses are stored normalized, so lookups match
// regardless of how the user typed the address.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// getClientIP extracts the client IP address from the request, honoring the
// configured proxy header when the service runs behind one.
func getClientIP(r *http.Request, cfg *config.Config) string {
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}

	if cfg != nil && cfg.Server.ClientIpProxyHeader != "" {
		if forwarded := r.Header.Get(cfg.Server.ClientIpProxyHeader); forwarded != "" {
			// Use the first IP in the list if the header contains multiple.
			parts := strings.Split(forwarded, ",")
			ip = strings.TrimSpace(parts[0])
		}
	}
	return ip
}
