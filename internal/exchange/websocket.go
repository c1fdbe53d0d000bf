package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Bybit public linear websocket endpoints.
const (
	WSLinearMainnet = "wss://stream.bybit.com/v5/public/linear"
	WSLinearTestnet = "wss://stream-testnet.bybit.com/v5/public/linear"

	wsPingInterval = 20 * time.Second
)

// KlineHandler receives confirmed (closed) candles from the stream.
type KlineHandler func(symbol string, candle types.Candle)

// KlineStream subscribes to live kline updates over a websocket and
// delivers closed bars to a handler. The daemon uses it as a push path:
// each confirmed bar invalidates the cached window and triggers an
// immediate re-evaluation, with the cron schedule as fallback cadence.
type KlineStream struct {
	url     string
	conn    *websocket.Conn
	mu      sync.Mutex
	running bool
}

// NewKlineStream dials the websocket endpoint.
func NewKlineStream(url string) (*KlineStream, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, Transient("ws.dial", err)
	}
	return &KlineStream{url: url, conn: conn, running: true}, nil
}

// Subscribe registers a kline topic for the symbol and interval.
func (s *KlineStream) Subscribe(symbol, interval string) error {
	msg := map[string]interface{}{
		"op":   "subscribe",
		"args": []string{fmt.Sprintf("kline.%s.%s", interval, symbol)},
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.conn.WriteJSON(msg); err != nil {
		return Transient("ws.subscribe", err)
	}
	return nil
}

// Run reads the stream until the context is cancelled, invoking the
// handler for every confirmed bar.
func (s *KlineStream) Run(ctx context.Context, handler KlineHandler) error {
	go s.pingLoop(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		_, data, err := s.conn.ReadMessage()
		if err != nil {
			return Transient("ws.read", err)
		}

		var msg struct {
			Topic string `json:"topic"`
			Data  []struct {
				Start   int64  `json:"start"`
				Open    string `json:"open"`
				High    string `json:"high"`
				Low     string `json:"low"`
				Close   string `json:"close"`
				Volume  string `json:"volume"`
				Confirm bool   `json:"confirm"`
			} `json:"data"`
		}
		if err := json.Unmarshal(data, &msg); err != nil || len(msg.Data) == 0 {
			continue
		}

		symbol := symbolFromTopic(msg.Topic)
		if symbol == "" {
			continue
		}
		for _, bar := range msg.Data {
			if !bar.Confirm {
				continue
			}
			handler(symbol, types.Candle{
				Timestamp: time.UnixMilli(bar.Start).UTC(),
				Open:      wsParseFloat(bar.Open),
				High:      wsParseFloat(bar.High),
				Low:       wsParseFloat(bar.Low),
				Close:     wsParseFloat(bar.Close),
				Volume:    wsParseFloat(bar.Volume),
			})
		}
	}
}

func (s *KlineStream) pingLoop(ctx context.Context) {
	ticker := time.NewTicker(wsPingInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.mu.Lock()
			if !s.running {
				s.mu.Unlock()
				return
			}
			_ = s.conn.WriteJSON(map[string]string{"op": "ping"})
			s.mu.Unlock()
		}
	}
}

// Close shuts the stream down.
func (s *KlineStream) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.running = false
	return s.conn.Close()
}

// symbolFromTopic extracts the symbol from "kline.<interval>.<symbol>".
func symbolFromTopic(topic string) string {
	for i := len(topic) - 1; i >= 0; i-- {
		if topic[i] == '.' {
			return topic[i+1:]
		}
	}
	return ""
}

func wsParseFloat(s string) float64 {
	v, _ := strconv.ParseFloat(s, 64)
	return v
}
