package bybit

import (
	bybit_api "github.com/bybit-exchange/bybit.go.api"
)

// Client wraps the Bybit v5 API client for market-data reads. Trading
// endpoints are deliberately not exposed.
type Client struct {
	httpClient *bybit_api.Client
	testnet    bool
}

// Config holds the client configuration. Public market data needs no
// credentials; the key/secret are optional.
type Config struct {
	APIKey    string
	APISecret string
	Testnet   bool
}

// NewClient creates a Bybit client.
func NewClient(config Config) *Client {
	baseURL := bybit_api.MAINNET
	if config.Testnet {
		baseURL = bybit_api.TESTNET
	}

	httpClient := bybit_api.NewBybitHttpClient(
		config.APIKey,
		config.APISecret,
		bybit_api.WithBaseURL(baseURL),
	)

	return &Client{
		httpClient: httpClient,
		testnet:    config.Testnet,
	}
}

// IsTestnet reports whether the client targets testnet.
func (c *Client) IsTestnet() bool {
	return c.testnet
}
