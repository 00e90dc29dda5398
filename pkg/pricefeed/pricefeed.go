// Package pricefeed quotes token prices in fiat from the CoinGecko simple
// price API. Rates are cached to stay inside the public rate limit.
package pricefeed

import (
	"context"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"nexushub_back/pkg/cache"
)

const (
	DefaultBaseURL = "https://api.coingecko.com/api/v3"
	DefaultTTL     = 10 * time.Minute
)

type Quoter interface {
	Price(ctx context.Context, symbol, currency string) (decimal.Decimal, error)
}

type Client struct {
	http   *resty.Client
	apiKey string
	rates  *cache.Store[decimal.Decimal]
}

func NewClient(baseURL, apiKey string, ttl time.Duration) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetTimeout(10*time.Second).
			SetHeader("Accept", "application/json"),
		apiKey: apiKey,
		rates:  cache.New[decimal.Decimal](ttl),
	}
}

// Price returns the value of one whole symbol unit in currency.
func (c *Client) Price(ctx context.Context, symbol, currency string) (decimal.Decimal, error) {
	id := currencyID(symbol)
	vs := strings.ToLower(currency)
	key := id + "_" + vs

	if rate, ok := c.rates.Get(key); ok {
		return rate, nil
	}

	var data map[string]map[string]decimal.Decimal
	req := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{"ids": id, "vs_currencies": vs}).
		SetResult(&data)
	if c.apiKey != "" {
		req.SetHeader("x-cg-demo-api-key", c.apiKey)
	}

	resp, err := req.Get("/simple/price")
	if err != nil {
		return decimal.Zero, errors.Wrapf(err, "coingecko %s", key)
	}
	if resp.IsError() {
		return decimal.Zero, errors.Errorf("coingecko %s: status %d", key, resp.StatusCode())
	}

	rate, ok := data[id][vs]
	if !ok || !rate.IsPositive() {
		return decimal.Zero, errors.Errorf("coingecko %s: no rate", key)
	}
	logrus.WithFields(logrus.Fields{"pair": key, "rate": rate.String()}).Debug("price fetched")
	c.rates.Set(key, rate)
	return rate, nil
}

func currencyID(symbol string) string {
	switch strings.ToLower(symbol) {
	case "usdt":
		return "tether"
	case "usdc":
		return "usd-coin"
	case "btc":
		return "bitcoin"
	case "eth":
		return "ethereum"
	case "trx":
		return "tron"
	case "pol", "matic":
		return "polygon-ecosystem-token"
	default:
		return strings.ToLower(symbol)
	}
}
