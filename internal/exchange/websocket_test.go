package exchange

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSymbolFromTopic(t *testing.T) {
	assert.Equal(t, "BTCUSDT", symbolFromTopic("kline.1.BTCUSDT"))
	assert.Equal(t, "ETHUSDT", symbolFromTopic("kline.15.ETHUSDT"))
	assert.Equal(t, "", symbolFromTopic("nodots"))
}

func TestWSParseFloat(t *testing.T) {
	assert.InDelta(t, 104.25, wsParseFloat("104.25"), 1e-9)
	assert.InDelta(t, 0.0, wsParseFloat("garbage"), 1e-9)
}
