// Package ticker holds the latest known 24h market statistics per
// instrument: the record value type, the merge rule applied on every
// update, the shared in-memory store, and the ingestion loop that is
// the store's single writer.
package ticker

// Record is one instrument's latest known 24h statistics. Base and quote
// volumes are kept as display text and never used for arithmetic.
type Record struct {
	Symbol             string
	LastPrice          float64
	PreviousPrice      float64 // last price just before the latest update
	PriceChange        float64
	PriceChangePercent float64
	WeightedAvgPrice   float64
	LastQty            float64
	OpenPrice          float64
	HighPrice          float64
	LowPrice           float64
	BaseVolume         string
	QuoteVolume        string
	StatsOpenTime      int64
	StatsCloseTime     int64
	FirstTradeID       int64
	LastTradeID        int64
	TradeCount         int64
}

// Merge produces the record stored after an update arrives for an existing
// symbol: the new record replaces the old one wholesale, except
// PreviousPrice, which carries the pre-update last price so one frame of
// up/down comparison is always available. Symbol never changes.
func Merge(old, new Record) Record {
	merged := new
	merged.Symbol = old.Symbol
	merged.PreviousPrice = old.LastPrice
	return merged
}
