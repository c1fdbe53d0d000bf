package bybit

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	bybit_api "github.com/bybit-exchange/bybit.go.api"

	"github.com/ducminhle1904/perp-signal-bot/internal/exchange"
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// perpCategory is the Bybit v5 product category for USDT perpetuals.
const perpCategory = "linear"

// GetKlines fetches up to limit candles for a linear perpetual, returned
// oldest first.
func (c *Client) GetKlines(ctx context.Context, symbol, interval string, limit int) ([]types.Candle, error) {
	if limit <= 0 {
		limit = 200
	}
	if limit > 1000 {
		limit = 1000
	}

	params := map[string]interface{}{
		"category": perpCategory,
		"symbol":   symbol,
		"interval": interval,
		"limit":    limit,
	}
	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetMarketKline(ctx)
	if err != nil {
		return nil, exchange.Transient("bybit.GetKlines", err)
	}

	var klineResult struct {
		List [][]string `json:"list"`
	}
	if err := decodeResult(result, "bybit.GetKlines", &klineResult); err != nil {
		return nil, err
	}

	candles := make([]types.Candle, 0, len(klineResult.List))
	for _, item := range klineResult.List {
		if len(item) < 6 {
			continue
		}
		// Kline row: [startTime, open, high, low, close, volume, turnover]
		candles = append(candles, types.Candle{
			Timestamp: time.UnixMilli(parseInt64(item[0])).UTC(),
			Open:      parseFloat64(item[1]),
			High:      parseFloat64(item[2]),
			Low:       parseFloat64(item[3]),
			Close:     parseFloat64(item[4]),
			Volume:    parseFloat64(item[5]),
		})
	}

	// Bybit returns newest first; the engine consumes ascending time.
	sort.Slice(candles, func(i, j int) bool {
		return candles[i].Timestamp.Before(candles[j].Timestamp)
	})
	return candles, nil
}

// FundingHistory fetches the last window funding rates, oldest first.
func (c *Client) FundingHistory(ctx context.Context, symbol string, window int) ([]float64, error) {
	params := map[string]interface{}{
		"category": perpCategory,
		"symbol":   symbol,
		"limit":    window,
	}
	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetFundingRateHistory(ctx)
	if err != nil {
		return nil, exchange.Transient("bybit.FundingHistory", err)
	}

	var fundingResult struct {
		List []struct {
			FundingRate          string `json:"fundingRate"`
			FundingRateTimestamp string `json:"fundingRateTimestamp"`
		} `json:"list"`
	}
	if err := decodeResult(result, "bybit.FundingHistory", &fundingResult); err != nil {
		return nil, err
	}

	rates := make([]float64, 0, len(fundingResult.List))
	for i := len(fundingResult.List) - 1; i >= 0; i-- {
		rates = append(rates, parseFloat64(fundingResult.List[i].FundingRate))
	}
	return rates, nil
}

// OpenInterestHistory fetches the last window hourly open-interest samples,
// oldest first.
func (c *Client) OpenInterestHistory(ctx context.Context, symbol string, window int) ([]float64, error) {
	params := map[string]interface{}{
		"category":     perpCategory,
		"symbol":       symbol,
		"intervalTime": "1h",
		"limit":        window,
	}
	result, err := c.httpClient.NewUtaBybitServiceWithParams(params).GetOpenInterests(ctx)
	if err != nil {
		return nil, exchange.Transient("bybit.OpenInterestHistory", err)
	}

	var oiResult struct {
		List []struct {
			OpenInterest string `json:"openInterest"`
			Timestamp    string `json:"timestamp"`
		} `json:"list"`
	}
	if err := decodeResult(result, "bybit.OpenInterestHistory", &oiResult); err != nil {
		return nil, err
	}

	values := make([]float64, 0, len(oiResult.List))
	for i := len(oiResult.List) - 1; i >= 0; i-- {
		values = append(values, parseFloat64(oiResult.List[i].OpenInterest))
	}
	return values, nil
}

// decodeResult checks the Bybit envelope and unmarshals its result field.
func decodeResult(response interface{}, op string, out interface{}) error {
	serverResp, ok := response.(*bybit_api.ServerResponse)
	if !ok {
		return exchange.Permanent(op, fmt.Errorf("unexpected response type %T", response))
	}
	if serverResp.RetCode != 0 {
		err := fmt.Errorf("API error %d: %s", serverResp.RetCode, serverResp.RetMsg)
		if isRetryableCode(serverResp.RetCode) {
			return exchange.Transient(op, err)
		}
		return exchange.Permanent(op, err)
	}

	raw, err := json.Marshal(serverResp.Result)
	if err != nil {
		return exchange.Permanent(op, fmt.Errorf("marshal result: %w", err))
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return exchange.Permanent(op, fmt.Errorf("unmarshal result: %w", err))
	}
	return nil
}

// isRetryableCode classifies Bybit retCodes worth retrying.
func isRetryableCode(code int) bool {
	switch code {
	case 10006, 10016, 10018: // rate limit, server error, IP rate limit
		return true
	default:
		return false
	}
}

func parseFloat64(s string) float64 {
	v, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return v
}

func parseInt64(s string) int64 {
	v, _ := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	return v
}
