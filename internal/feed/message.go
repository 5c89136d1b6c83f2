package feed

import (
	"encoding/json"
	"fmt"
	"strconv"

	"tickerdeck/internal/ticker"
)

// wireTicker mirrors one element of the all-market ticker stream payload.
// The feed sends numeric fields as JSON strings under single-letter keys;
// they are parsed to float64 here, at the boundary.
type wireTicker struct {
	EventType          string `json:"e"`
	EventTime          int64  `json:"E"`
	Symbol             string `json:"s"`
	PriceChange        string `json:"p"`
	PriceChangePercent string `json:"P"`
	WeightedAvgPrice   string `json:"w"`
	LastPrice          string `json:"c"`
	LastQty            string `json:"Q"`
	OpenPrice          string `json:"o"`
	HighPrice          string `json:"h"`
	LowPrice           string `json:"l"`
	BaseVolume         string `json:"v"`
	QuoteVolume        string `json:"q"`
	StatsOpenTime      int64  `json:"O"`
	StatsCloseTime     int64  `json:"C"`
	FirstTradeID       int64  `json:"F"`
	LastTradeID        int64  `json:"L"`
	TradeCount         int64  `json:"n"`
}

// toRecord converts a wire ticker into a domain record, parsing the
// numeric-as-string price fields. Volumes stay as display text.
func (w *wireTicker) toRecord() (ticker.Record, error) {
	if w.Symbol == "" {
		return ticker.Record{}, fmt.Errorf("ticker without symbol")
	}

	var r ticker.Record
	var err error
	parse := func(name, s string) float64 {
		if err != nil {
			return 0
		}
		var v float64
		if v, err = strconv.ParseFloat(s, 64); err != nil {
			err = fmt.Errorf("parsing %s %q for %s: %w", name, s, w.Symbol, err)
		}
		return v
	}

	r.Symbol = w.Symbol
	r.LastPrice = parse("last price", w.LastPrice)
	r.PriceChange = parse("price change", w.PriceChange)
	r.PriceChangePercent = parse("price change percent", w.PriceChangePercent)
	r.WeightedAvgPrice = parse("weighted avg price", w.WeightedAvgPrice)
	r.LastQty = parse("last qty", w.LastQty)
	r.OpenPrice = parse("open price", w.OpenPrice)
	r.HighPrice = parse("high price", w.HighPrice)
	r.LowPrice = parse("low price", w.LowPrice)
	if err != nil {
		return ticker.Record{}, err
	}

	r.BaseVolume = w.BaseVolume
	r.QuoteVolume = w.QuoteVolume
	r.StatsOpenTime = w.StatsOpenTime
	r.StatsCloseTime = w.StatsCloseTime
	r.FirstTradeID = w.FirstTradeID
	r.LastTradeID = w.LastTradeID
	r.TradeCount = w.TradeCount
	return r, nil
}

// decodeBatch parses one inbound message (a JSON array of tickers) into
// records. Individual tickers that fail to parse are skipped and reported
// via the returned count; an unparseable envelope returns an error.
func decodeBatch(data []byte) (records []ticker.Record, skipped int, err error) {
	var wires []wireTicker
	if err := json.Unmarshal(data, &wires); err != nil {
		return nil, 0, fmt.Errorf("decoding ticker array: %w", err)
	}

	records = make([]ticker.Record, 0, len(wires))
	for i := range wires {
		r, err := wires[i].toRecord()
		if err != nil {
			skipped++
			continue
		}
		records = append(records, r)
	}
	return records, skipped, nil
}
