package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/ducminhle1904/perp-signal-bot/internal/config"
	"github.com/ducminhle1904/perp-signal-bot/internal/exchange/bybit"
	"github.com/ducminhle1904/perp-signal-bot/internal/signals"
	"github.com/ducminhle1904/perp-signal-bot/pkg/reporting"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// evaluate runs the signal pipeline once for the requested symbols and
// prints the result, optionally exporting to CSV or Excel.
func main() {
	configPath := flag.String("config", "", "Path to config file (optional)")
	symbolsFlag := flag.String("symbols", "BTCUSDT", "Comma-separated symbols")
	interval := flag.String("interval", "1", "Kline interval")
	limit := flag.Int("limit", 200, "Candles to fetch")
	output := flag.String("output", "", "Export path (.csv or .xlsx)")
	showReasons := flag.Bool("reasons", true, "Print per-signal reasons")
	withPerp := flag.Bool("perp", true, "Fetch funding/open-interest history")
	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}

	engine := signals.NewEngine(cfg.SignalParams())
	client := bybit.NewClient(bybit.Config{
		APIKey:    cfg.Exchange.APIKey,
		APISecret: cfg.Exchange.Secret,
		Testnet:   cfg.Exchange.Testnet,
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var outputs []*signals.Output
	for _, symbol := range strings.Split(*symbolsFlag, ",") {
		symbol = strings.TrimSpace(symbol)
		if symbol == "" {
			continue
		}
		out, err := evaluateSymbol(ctx, engine, client, symbol, *interval, *limit, *withPerp)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: %v\n", symbol, err)
			continue
		}
		if out == nil {
			fmt.Fprintf(os.Stderr, "%s: insufficient data (need %d candles)\n", symbol, signals.MinCandles)
			continue
		}
		outputs = append(outputs, out)
	}

	if len(outputs) == 0 {
		os.Exit(1)
	}

	if err := reporting.NewConsoleReporter(*showReasons).Write(outputs); err != nil {
		fmt.Fprintf(os.Stderr, "render table: %v\n", err)
	}

	if *output != "" {
		if err := reporting.NewCSVReporter(*output).Write(outputs); err != nil {
			fmt.Fprintf(os.Stderr, "export: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nExported %d signal(s) to %s\n", len(outputs), *output)
	}
}

func evaluateSymbol(
	ctx context.Context,
	engine *signals.Engine,
	client *bybit.Client,
	symbol, interval string,
	limit int,
	withPerp bool,
) (*signals.Output, error) {
	candles, err := client.GetKlines(ctx, symbol, interval, limit)
	if err != nil {
		return nil, fmt.Errorf("fetch candles: %w", err)
	}

	if !withPerp {
		return engine.Evaluate(candles, symbol)
	}
	return engine.EvaluateWithPerp(candles, fetchPerp(ctx, client, symbol), symbol)
}

// fetchPerp is best-effort: a missing series leaves its indicator silent.
func fetchPerp(ctx context.Context, client *bybit.Client, symbol string) types.PerpMetrics {
	var perp types.PerpMetrics
	if funding, err := client.FundingHistory(ctx, symbol, 24); err == nil {
		perp.FundingRates = funding
	} else {
		fmt.Fprintf(os.Stderr, "%s: funding history: %v\n", symbol, err)
	}
	if oi, err := client.OpenInterestHistory(ctx, symbol, 24); err == nil {
		perp.OpenInterest = oi
	} else {
		fmt.Fprintf(os.Stderr, "%s: open interest history: %v\n", symbol, err)
	}
	return perp
}
