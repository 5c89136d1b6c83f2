// Package chart fetches recent OHLC candles for a single symbol from the
// klines REST endpoint and renders them as plain text for the modal view.
// The rest of the program treats the payload as opaque.
package chart

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

// Candle is one OHLCV bar.
type Candle struct {
	OpenTime int64
	Open     float64
	High     float64
	Low      float64
	Close    float64
	Volume   float64
}

// Client fetches candles from a klines-style REST API.
type Client struct {
	baseURL string
	http    *http.Client
}

// NewClient creates a chart client for the given API base URL
// (e.g. "https://api.binance.com").
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// FetchCandles requests up to limit recent candles for symbol at the
// given interval. This is a one-shot, best-effort call: any failure is
// returned to be shown in the modal, never escalated.
func (c *Client) FetchCandles(ctx context.Context, symbol, interval string, limit int) ([]Candle, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	q.Set("interval", interval)
	q.Set("limit", strconv.Itoa(limit))
	u := c.baseURL + "/api/v3/klines?" + q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, err
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching klines: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("klines request: unexpected status %s", resp.Status)
	}

	// Each kline is a mixed-type JSON array:
	// [openTime, "open", "high", "low", "close", "volume", closeTime, ...].
	var raw [][]json.RawMessage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decoding klines: %w", err)
	}

	candles := make([]Candle, 0, len(raw))
	for i, k := range raw {
		candle, err := parseKline(k)
		if err != nil {
			return nil, fmt.Errorf("kline %d: %w", i, err)
		}
		candles = append(candles, candle)
	}
	if len(candles) == 0 {
		return nil, fmt.Errorf("no candles returned for %s", symbol)
	}
	return candles, nil
}

func parseKline(k []json.RawMessage) (Candle, error) {
	if len(k) < 6 {
		return Candle{}, fmt.Errorf("short kline array (%d elements)", len(k))
	}

	var c Candle
	if err := json.Unmarshal(k[0], &c.OpenTime); err != nil {
		return Candle{}, fmt.Errorf("open time: %w", err)
	}

	fields := []struct {
		name string
		dst  *float64
		raw  json.RawMessage
	}{
		{"open", &c.Open, k[1]},
		{"high", &c.High, k[2]},
		{"low", &c.Low, k[3]},
		{"close", &c.Close, k[4]},
		{"volume", &c.Volume, k[5]},
	}
	for _, f := range fields {
		var s string
		if err := json.Unmarshal(f.raw, &s); err != nil {
			return Candle{}, fmt.Errorf("%s: %w", f.name, err)
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return Candle{}, fmt.Errorf("%s %q: %w", f.name, s, err)
		}
		*f.dst = v
	}
	return c, nil
}
