package indicators

import (
	"github.com/ducminhle1904/perp-signal-bot/pkg/types"
)

// Category groups indicators for aggregation.
type Category int

const (
	CategoryMomentum Category = iota
	CategoryTrend
	CategoryVolatility
	CategoryVolume
	CategoryPerp
)

// Categories lists all categories in their declared aggregation order.
var Categories = []Category{
	CategoryMomentum,
	CategoryTrend,
	CategoryVolatility,
	CategoryVolume,
	CategoryPerp,
}

func (c Category) String() string {
	switch c {
	case CategoryMomentum:
		return "momentum"
	case CategoryTrend:
		return "trend"
	case CategoryVolatility:
		return "volatility"
	case CategoryVolume:
		return "volume"
	case CategoryPerp:
		return "perp"
	default:
		return "unknown"
	}
}

// MaxScore returns the clamp bound for the category's aggregated score.
func (c Category) MaxScore() int {
	switch c {
	case CategoryMomentum, CategoryTrend:
		return 3
	default:
		return 2
	}
}

// SignalKind classifies one indicator observation.
type SignalKind int

const (
	KindNeutral SignalKind = iota
	KindBullish
	KindBearish
	KindInformational
)

func (k SignalKind) String() string {
	switch k {
	case KindBullish:
		return "bullish"
	case KindBearish:
		return "bearish"
	case KindInformational:
		return "informational"
	default:
		return "neutral"
	}
}

// Signal is one observation emitted by an indicator. Strength lies in
// [-3, +3] with the sign matching Kind; informational and neutral signals
// carry strength 0.
type Signal struct {
	Indicator string     `json:"indicator_name"`
	Category  Category   `json:"-"`
	Kind      SignalKind `json:"kind"`
	Strength  int        `json:"strength"`
	Reason    string     `json:"reason"`
}

func bullish(name string, cat Category, strength int, reason string) *Signal {
	return &Signal{Indicator: name, Category: cat, Kind: KindBullish, Strength: strength, Reason: reason}
}

func bearish(name string, cat Category, strength int, reason string) *Signal {
	return &Signal{Indicator: name, Category: cat, Kind: KindBearish, Strength: -strength, Reason: reason}
}

func neutral(name string, cat Category) *Signal {
	return &Signal{Indicator: name, Category: cat, Kind: KindNeutral}
}

func informational(name string, cat Category, reason string) *Signal {
	return &Signal{Indicator: name, Category: cat, Kind: KindInformational, Reason: reason}
}

// Indicator is a stateful transformer of candles into typed signals.
// Update must be fed candles in ascending timestamp order; it returns the
// indicator's current signal for the tick, or nil while the warmup window
// has not filled. CurrentValue exposes the latest scalar for observability.
type Indicator interface {
	Update(candle types.Candle) *Signal
	CurrentValue() float64
	WarmupPeriod() int
	Name() string
	Category() Category
}

// trendConfirmBars is the number of bars a crossover regime or trend side
// must persist before its signal is re-asserted as a standing signal.
const trendConfirmBars = 20
