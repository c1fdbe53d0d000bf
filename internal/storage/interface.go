package storage

import (
	"context"

	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
)

// SignalSink persists evaluated signals. Implementations own at-least-once
// durability; callers may retry on error.
type SignalSink interface {
	Store(ctx context.Context, output *signals.Output) error
	Latest(ctx context.Context, symbol string) (*signals.Output, error)
	Close() error
}

// NoopSink discards everything. Used when persistence is disabled.
type NoopSink struct{}

// Store discards the signal.
func (NoopSink) Store(context.Context, *signals.Output) error { return nil }

// Latest always reports no signal.
func (NoopSink) Latest(context.Context, string) (*signals.Output, error) { return nil, nil }

// Close is a no-op.
func (NoopSink) Close() error { return nil }
