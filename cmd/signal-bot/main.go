package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/ducminhle1904/perp-signal-bot/internal/cache"
	"github.com/ducminhle1904/perp-signal-bot/internal/config"
	"github.com/ducminhle1904/perp-signal-bot/internal/exchange"
	"github.com/ducminhle1904/perp-signal-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/perp-signal-bot/internal/logger"
	"github.com/ducminhle1904/perp-signal-bot/internal/monitoring"
	"github.com/ducminhle1904/perp-signal-bot/internal/scheduler"
	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
	"github.com/ducminhle1904/perp-signal-bot/internal/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "Path to config file")
	runOnStart := flag.Bool("run-on-start", false, "Evaluate all symbols immediately on startup")
	flag.Parse()

	// .env is optional; missing files are fine.
	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger: %v\n", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	engine := signals.NewEngine(cfg.SignalParams())

	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.Secret,
		Testnet:   cfg.Exchange.Testnet,
	})

	candleCache, err := buildCache(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init cache")
	}
	defer candleCache.Close()

	sink, err := buildSink(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init storage")
	}
	defer sink.Close()

	sched := scheduler.New(ctx, scheduler.Config{
		Symbols:     cfg.Symbols,
		Interval:    cfg.Interval,
		CandleLimit: cfg.CandleLimit,
		CronSpec:    cfg.Cron,
		CacheTTL:    time.Duration(cfg.Cache.TTLSeconds) * time.Second,
		PerpWindow:  24,
	}, engine, client, client, candleCache, sink, log)

	if err := sched.Register(); err != nil {
		log.Fatal().Err(err).Msg("register jobs")
	}

	server := monitoring.NewServer(cfg.Server.Port, sink, log)
	go func() {
		if err := server.Start(); err != nil {
			log.Warn().Err(err).Msg("http server stopped")
		}
	}()

	sched.Start()
	log.Info().
		Str("environment", cfg.Environment).
		Str("exchange", cfg.Exchange.Name).
		Int("port", cfg.Server.Port).
		Bool("stream", cfg.Stream.Enabled).
		Msg("signal bot started")

	if cfg.Stream.Enabled {
		go runStream(ctx, cfg, sched, log)
	}

	if *runOnStart {
		go sched.RunAllNow()
	}

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	log.Info().Msg("shutting down")
	cancel()
	sched.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
}

// runStream keeps a live kline subscription open, feeding confirmed bars
// into the scheduler's push path. Reconnects with a flat delay until the
// context is cancelled.
func runStream(ctx context.Context, cfg *config.Config, sched *scheduler.Scheduler, log zerolog.Logger) {
	url := cfg.Stream.URL
	if url == "" {
		url = exchange.WSLinearMainnet
		if cfg.Exchange.Testnet {
			url = exchange.WSLinearTestnet
		}
	}

	for {
		if ctx.Err() != nil {
			return
		}

		stream, err := exchange.NewKlineStream(url)
		if err != nil {
			log.Warn().Err(err).Str("url", url).Msg("stream dial failed")
		} else {
			subscribed := true
			for _, symbol := range cfg.Symbols {
				if err := stream.Subscribe(symbol, cfg.Interval); err != nil {
					log.Warn().Err(err).Str("symbol", symbol).Msg("stream subscribe failed")
					subscribed = false
					break
				}
			}
			if subscribed {
				log.Info().Strs("symbols", cfg.Symbols).Msg("kline stream connected")
				if err := stream.Run(ctx, sched.OnKlineClosed); err != nil && ctx.Err() == nil {
					log.Warn().Err(err).Msg("stream disconnected")
				}
			}
			stream.Close()
		}

		select {
		case <-ctx.Done():
			return
		case <-time.After(5 * time.Second):
		}
	}
}

func buildCache(cfg *config.Config) (cache.CandleCache, error) {
	switch cfg.Cache.Backend {
	case "redis":
		return cache.NewRedisCache(cfg.Cache.RedisAddr, cfg.Cache.RedisDB)
	default:
		return cache.NewMemoryCache(), nil
	}
}

func buildSink(cfg *config.Config) (storage.SignalSink, error) {
	switch cfg.Storage.Backend {
	case "noop":
		return storage.NoopSink{}, nil
	default:
		return storage.NewSQLiteSink(cfg.Storage.Path)
	}
}

var _ exchange.MarketDataProvider = (*bybit.Client)(nil)
var _ exchange.PerpMetricsProvider = (*bybit.Client)(nil)
