package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"github.com/ducminhle1904/perp-signal-bot/internal/cache"
	"github.com/ducminhle1904/perp-signal-bot/internal/exchange"
	"github.com/ducminhle1904/perp-signal-bot/internal/monitoring"
	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
	"github.com/ducminhle1904/perp-signal-bot/internal/storage"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Config holds the run parameters of the evaluation loop.
type Config struct {
	Symbols     []string
	Interval    string
	CandleLimit int
	CronSpec    string
	CacheTTL    time.Duration
	PerpWindow  int
}

// Scheduler periodically evaluates every configured symbol: fetch candles
// (through the cache), fetch perp metrics, run the engine, persist and
// publish the result.
type Scheduler struct {
	cron    *cron.Cron
	cfg     Config
	engine  *signals.Engine
	market  exchange.MarketDataProvider
	perp    exchange.PerpMetricsProvider
	candles cache.CandleCache
	sink    storage.SignalSink
	log     zerolog.Logger
	ctx     context.Context
}

// New creates a scheduler. The perp provider may be nil, in which case the
// Perp category stays silent.
func New(
	ctx context.Context,
	cfg Config,
	engine *signals.Engine,
	market exchange.MarketDataProvider,
	perp exchange.PerpMetricsProvider,
	candles cache.CandleCache,
	sink storage.SignalSink,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:    cron.New(cron.WithSeconds()),
		cfg:     cfg,
		engine:  engine,
		market:  market,
		perp:    perp,
		candles: candles,
		sink:    sink,
		log:     log,
		ctx:     ctx,
	}
}

// Register installs the evaluation job.
func (s *Scheduler) Register() error {
	if _, err := s.cron.AddFunc(s.cfg.CronSpec, s.runAll); err != nil {
		return fmt.Errorf("register evaluation job: %w", err)
	}
	return nil
}

// Start starts the cron loop.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info().Str("cron", s.cfg.CronSpec).Strs("symbols", s.cfg.Symbols).Msg("scheduler started")
}

// Stop stops the cron loop and waits for running jobs.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.log.Info().Msg("scheduler stopped")
}

// RunAllNow evaluates every symbol immediately (manual trigger / -run-on-start).
func (s *Scheduler) RunAllNow() {
	s.runAll()
}

// OnKlineClosed is the push path: the live stream reports a confirmed bar,
// the stale cached window is dropped and the symbol is re-evaluated
// without waiting for the next cron tick.
func (s *Scheduler) OnKlineClosed(symbol string, candle types.Candle) {
	if !s.hasSymbol(symbol) {
		return
	}

	ctx, cancel := context.WithTimeout(s.ctx, 10*time.Second)
	key := cache.Key(symbol, s.cfg.Interval, s.cfg.CandleLimit)
	if err := s.candles.Delete(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("cache invalidation failed")
	}
	cancel()

	s.log.Debug().
		Str("symbol", symbol).
		Time("bar", candle.Timestamp).
		Float64("close", candle.Close).
		Msg("bar closed, re-evaluating")

	if err := s.runOne(symbol); err != nil {
		s.log.Error().Err(err).Str("symbol", symbol).Msg("stream-triggered evaluation failed")
	}
}

func (s *Scheduler) hasSymbol(symbol string) bool {
	for _, sym := range s.cfg.Symbols {
		if sym == symbol {
			return true
		}
	}
	return false
}

func (s *Scheduler) runAll() {
	for _, symbol := range s.cfg.Symbols {
		if err := s.runOne(symbol); err != nil {
			s.log.Error().Err(err).Str("symbol", symbol).Msg("evaluation failed")
		}
	}
}

func (s *Scheduler) runOne(symbol string) error {
	ctx, cancel := context.WithTimeout(s.ctx, 30*time.Second)
	defer cancel()

	candles, err := s.fetchCandles(ctx, symbol)
	if err != nil {
		monitoring.RecordProviderError("klines")
		return err
	}

	perp := s.fetchPerpMetrics(ctx, symbol)

	started := time.Now()
	output, err := s.engine.EvaluateWithPerp(candles, perp, symbol)
	if err != nil {
		return fmt.Errorf("evaluate %s: %w", symbol, err)
	}
	if output == nil {
		s.log.Warn().Str("symbol", symbol).Int("candles", len(candles)).Msg("insufficient data")
		return nil
	}

	monitoring.RecordEvaluation(output, time.Since(started).Seconds())
	s.log.Info().
		Str("symbol", symbol).
		Str("direction", output.Direction.String()).
		Str("bias", output.MarketBias.String()).
		Float64("confidence", output.Confidence).
		Int("total_score", output.TotalScore).
		Str("risk", output.RiskLevel.String()).
		Msg("signal evaluated")

	if err := s.sink.Store(ctx, output); err != nil {
		return fmt.Errorf("store signal %s: %w", symbol, err)
	}
	return nil
}

func (s *Scheduler) fetchCandles(ctx context.Context, symbol string) ([]types.Candle, error) {
	key := cache.Key(symbol, s.cfg.Interval, s.cfg.CandleLimit)
	if cached, ok, err := s.candles.Get(ctx, key); err == nil && ok {
		return cached, nil
	}

	var candles []types.Candle
	err := exchange.Retry(ctx, exchange.DefaultRetryConfig(), func() error {
		var fetchErr error
		candles, fetchErr = s.market.GetKlines(ctx, symbol, s.cfg.Interval, s.cfg.CandleLimit)
		return fetchErr
	})
	if err != nil {
		return nil, fmt.Errorf("fetch candles %s: %w", symbol, err)
	}

	if err := s.candles.Set(ctx, key, candles, s.cfg.CacheTTL); err != nil {
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("cache write failed")
	}
	return candles, nil
}

// fetchPerpMetrics is best-effort: a missing perp series degrades the Perp
// category to silence rather than failing the evaluation.
func (s *Scheduler) fetchPerpMetrics(ctx context.Context, symbol string) types.PerpMetrics {
	var perp types.PerpMetrics
	if s.perp == nil {
		return perp
	}

	funding, err := s.perp.FundingHistory(ctx, symbol, s.cfg.PerpWindow)
	if err != nil {
		monitoring.RecordProviderError("funding")
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("funding history unavailable")
	} else {
		perp.FundingRates = funding
	}

	oi, err := s.perp.OpenInterestHistory(ctx, symbol, s.cfg.PerpWindow)
	if err != nil {
		monitoring.RecordProviderError("open_interest")
		s.log.Warn().Err(err).Str("symbol", symbol).Msg("open interest history unavailable")
	} else {
		perp.OpenInterest = oi
	}
	return perp
}
