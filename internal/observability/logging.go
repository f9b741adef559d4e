// Package observability provides structured logging utilities for the
// combat engine and its tooling.
package observability

import (
	"fmt"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/S-Hari-B/TBG-sub000/internal/config"
)

// Option customizes a logger at build time.
type Option func(*zap.Logger) *zap.Logger

// WithBattle scopes every entry to one battle run, carrying the battle
// id and seed.
func WithBattle(battleID string, seed int64) Option {
	return func(l *zap.Logger) *zap.Logger {
		return l.With(zap.String("battle_id", battleID), zap.Int64("seed", seed))
	}
}

// NewLogger creates a structured logger from the given logging
// configuration, writing to stderr so simulator output on stdout stays
// machine-readable.
//
// Precondition: cfg.Level must be one of "debug", "info", "warn", "error".
// Precondition: cfg.Format must be "json" or "console".
// Postcondition: Returns a configured zap.Logger or a non-nil error.
func NewLogger(cfg config.LoggingConfig, opts ...Option) (*zap.Logger, error) {
	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("parsing log level %q: %w", cfg.Level, err)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	var enc zapcore.Encoder
	switch cfg.Format {
	case "json":
		enc = zapcore.NewJSONEncoder(encCfg)
	case "console":
		encCfg.EncodeLevel = zapcore.CapitalLevelEncoder
		enc = zapcore.NewConsoleEncoder(encCfg)
	default:
		return nil, fmt.Errorf("unknown log format %q", cfg.Format)
	}

	logger := zap.New(zapcore.NewCore(enc, zapcore.Lock(os.Stderr), level))
	for _, opt := range opts {
		logger = opt(logger)
	}
	return logger, nil
}

// BattleLogger returns a child logger scoped to a single battle.
//
// Precondition: logger must be non-nil.
func BattleLogger(logger *zap.Logger, battleID string, seed int64) *zap.Logger {
	return WithBattle(battleID, seed)(logger)
}
