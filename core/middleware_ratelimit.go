package core

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/notify"
)

// Cache key prefixes for the per-client attempt counters.
const (
	rateKeyLogin         = "rl:login:"
	rateKeyTwoFactorSend = "rl:2fa-send:"
)

// LoginRateLimit caps credential-guessing attempts per client IP within the
// configured window.
func (a *App) LoginRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := a.Config()
		window := rateWindow{
			max:    cfg.RateLimits.LoginMaxAttempts,
			period: cfg.RateLimits.LoginWindow.Duration,
		}
		a.serveLimited(w, r, rateKeyLogin, window, next)
	})
}

// TwoFactorSendRateLimit caps code-send requests per client IP. Every send
// costs an SMS or an email, so the window is tighter than the login one.
func (a *App) TwoFactorSendRateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cfg := a.Config()
		window := rateWindow{
			max:    cfg.RateLimits.TwoFactorSendMax,
			period: cfg.RateLimits.TwoFactorSendWindow.Duration,
		}
		a.serveLimited(w, r, rateKeyTwoFactorSend, window, next)
	})
}

type rateWindow struct {
	max    int
	period time.Duration
}

// serveLimited runs the counting and sketch bookkeeping for one request.
//
// Fail-open: the counter lives in a lossy admission cache, so an evicted or
// rejected entry just restarts the count. Losing an increment under memory
// pressure is cheaper than turning the limiter into an availability risk.
func (a *App) serveLimited(w http.ResponseWriter, r *http.Request, prefix string, window rateWindow, next http.Handler) {
	// Fail open: limiting is protection, not a dependency.
	if window.max <= 0 || a.Cache() == nil {
		next.ServeHTTP(w, r)
		return
	}

	ip := getClientIP(r, a.Config())
	key := prefix + ip

	count := 0
	if v, ok := a.Cache().Get(key); ok {
		if n, ok := v.(int); ok {
			count = n
		}
	}

	if count >= window.max {
		a.Logger().Info("rate limit exceeded", "key", key)
		WriteJsonError(w, errorTooManyRequests)
		return
	}

	// The TTL restarts on every attempt, so the window is quiet-period based:
	// a client hammering the endpoint never ages out of it.
	a.Cache().SetWithTTL(key, count+1, 1, window.period)

	if sketch := a.FailureSketch(); sketch != nil {
		offenders := sketch.Observe(ip)
		for _, offender := range offenders {
			a.Notifier().Send(r.Context(), notify.Notification{
				Timestamp: time.Now().UTC(),
				Type:      notify.AlarmNotification,
				Level:     slog.LevelWarn,
				Source:    "ratelimit",
				Message:   "client dominating auth traffic",
				Fields:    map[string]any{"ip": offender, "endpoint": prefix},
			})
		}
	}

	next.ServeHTTP(w, r)
}
