package stpconnect

import (
	"log/slog"
	"os"

	phuslog "github.com/phuslu/log"

	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/cache/ristretto"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/core"
	"github.com/luthandomaqondo-95/ELIDZ-STP-Connect-sub000/router/httprouter"
)

// WithRouterHttprouter selects the httprouter-backed request router.
func WithRouterHttprouter() core.Option {
	return core.WithRouter(httprouter.New())
}

// WithCacheRistretto selects the ristretto in-memory cache, used for the
// per-client rate limit counters.
func WithCacheRistretto() core.Option {
	c, err := ristretto.New[any]()
	if err != nil {
		// Only reachable with a broken hardcoded config.
		panic(err)
	}
	return core.WithCache(c)
}

// DefaultLoggerOptions provides default settings for slog handlers.
// Level: Debug, removes the time attribute from output.
var DefaultLoggerOptions = &slog.HandlerOptions{
	Level: slog.LevelDebug,
	ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
		if a.Key == slog.TimeKey {
			return slog.Attr{}
		}
		return a
	},
}

// WithPhusLogger configures slog with phuslu/log's JSON handler.
// Uses DefaultLoggerOptions if opts is nil.
func WithPhusLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(phuslog.SlogNewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
	return core.WithLogger(logger)
}

// WithTextLogger configures slog with the standard library's text handler.
func WithTextLogger(opts *slog.HandlerOptions) core.Option {
	if opts == nil {
		opts = DefaultLoggerOptions
	}
	logger := slog.New(slog.NewTextHandler(os.Stdout, opts))
	return core.WithLogger(logger)
}
