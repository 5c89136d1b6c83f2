package chart

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

const klinesPayload = `[
  [1700000000000,"40000.00","41000.00","39500.00","40500.00","123.45",1700003599999,"5000000.00",321,"60.0","2400000.00","0"],
  [1700003600000,"40500.00","40800.00","40100.00","40200.00","98.76",1700007199999,"3900000.00",250,"40.0","1600000.00","0"]
]`

func TestFetchCandles(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/v3/klines" {
			t.Errorf("path = %q, want /api/v3/klines", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("symbol") != "CHZUSDT" || q.Get("interval") != "1h" || q.Get("limit") != "96" {
			t.Errorf("query = %v, want symbol=CHZUSDT interval=1h limit=96", q)
		}
		w.Write([]byte(klinesPayload))
	}))
	defer srv.Close()

	c := NewClient(srv.URL)
	candles, err := c.FetchCandles(context.Background(), "CHZUSDT", "1h", 96)
	if err != nil {
		t.Fatalf("FetchCandles: %v", err)
	}
	if len(candles) != 2 {
		t.Fatalf("got %d candles, want 2", len(candles))
	}
	if candles[0].Open != 40000 || candles[0].Close != 40500 {
		t.Errorf("first candle O/C = %v/%v, want 40000/40500", candles[0].Open, candles[0].Close)
	}
	if candles[1].High != 40800 || candles[1].Low != 40100 {
		t.Errorf("second candle H/L = %v/%v, want 40800/40100", candles[1].High, candles[1].Low)
	}
	if candles[0].OpenTime != 1700000000000 {
		t.Errorf("OpenTime = %d, want 1700000000000", candles[0].OpenTime)
	}
}

func TestFetchCandlesHTTPError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).FetchCandles(context.Background(), "X", "1h", 10); err == nil {
		t.Error("expected error on non-200 status")
	}
}

func TestFetchCandlesBadPayload(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[1700000000000,"not-a-price","1","1","1","1"]]`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).FetchCandles(context.Background(), "X", "1h", 10); err == nil {
		t.Error("expected error on unparseable price")
	}
}

func TestFetchCandlesEmpty(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[]`))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL).FetchCandles(context.Background(), "X", "1h", 10); err == nil {
		t.Error("expected error on empty candle set")
	}
}

func TestRender(t *testing.T) {
	candles := []Candle{
		{OpenTime: 1700000000000, Open: 10, High: 14, Low: 9, Close: 13, Volume: 5},
		{OpenTime: 1700003600000, Open: 13, High: 13.5, Low: 11, Close: 11.5, Volume: 3},
		{OpenTime: 1700007200000, Open: 11.5, High: 15, Low: 11, Close: 14.5, Volume: 8},
	}

	out := Render("CHZUSDT", "1h", candles, 80, 24)
	if !strings.Contains(out, "CHZUSDT") {
		t.Error("render should include the symbol")
	}
	if !strings.Contains(out, "1h") {
		t.Error("render should include the interval")
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 6 {
		t.Errorf("render produced %d lines, want a drawable chart", len(lines))
	}
}

func TestRenderTooSmall(t *testing.T) {
	out := Render("X", "1h", []Candle{{Open: 1, High: 2, Low: 0.5, Close: 1.5}}, 10, 3)
	if !strings.Contains(out, "too small") {
		t.Errorf("tiny terminal should degrade gracefully, got %q", out)
	}
}
