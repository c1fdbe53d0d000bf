package exchange

import (
	"context"
	"errors"
	"fmt"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// MarketDataProvider supplies candle history, most recent last.
type MarketDataProvider interface {
	GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error)
}

// PerpMetricsProvider supplies the exogenous perp series, oldest first.
type PerpMetricsProvider interface {
	FundingHistory(ctx context.Context, symbol string, window int) ([]float64, error)
	OpenInterestHistory(ctx context.Context, symbol string, window int) ([]float64, error)
}

// ProviderError classifies a provider failure as transient (retryable) or
// permanent.
type ProviderError struct {
	Op        string
	Transient bool
	Err       error
}

func (e *ProviderError) Error() string {
	kind := "permanent"
	if e.Transient {
		kind = "transient"
	}
	return fmt.Sprintf("%s: %s error: %v", e.Op, kind, e.Err)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Transient wraps err as a retryable provider error.
func Transient(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Transient: true, Err: err}
}

// Permanent wraps err as a non-retryable provider error.
func Permanent(op string, err error) *ProviderError {
	return &ProviderError{Op: op, Transient: false, Err: err}
}

// IsTransient reports whether err is a retryable provider error.
func IsTransient(err error) bool {
	var pe *ProviderError
	return errors.As(err, &pe) && pe.Transient
}
