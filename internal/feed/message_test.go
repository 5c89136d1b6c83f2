package feed

import "testing"

const sampleMessage = `[
  {"e":"24hrTicker","E":1700000000000,"s":"BTCUSDT","p":"500.10","P":"1.25",
   "w":"40200.55","c":"40500.00","Q":"0.012","o":"40000.00","h":"41000.00",
   "l":"39500.00","v":"12345.678","q":"498000000.12","O":1699913600000,
   "C":1700000000000,"F":100,"L":200,"n":101},
  {"e":"24hrTicker","E":1700000000000,"s":"ETHUSDT","p":"-20.00","P":"-0.95",
   "w":"2105.00","c":"2100.00","Q":"1.5","o":"2120.00","h":"2150.00",
   "l":"2080.00","v":"98765.4","q":"207000000.00","O":1699913600000,
   "C":1700000000000,"F":300,"L":400,"n":102}
]`

func TestDecodeBatch(t *testing.T) {
	records, skipped, err := decodeBatch([]byte(sampleMessage))
	if err != nil {
		t.Fatalf("decodeBatch: %v", err)
	}
	if skipped != 0 {
		t.Errorf("skipped = %d, want 0", skipped)
	}
	if len(records) != 2 {
		t.Fatalf("decoded %d records, want 2", len(records))
	}

	btc := records[0]
	if btc.Symbol != "BTCUSDT" {
		t.Errorf("Symbol = %q, want BTCUSDT", btc.Symbol)
	}
	if btc.LastPrice != 40500.00 {
		t.Errorf("LastPrice = %v, want 40500", btc.LastPrice)
	}
	if btc.PriceChangePercent != 1.25 {
		t.Errorf("PriceChangePercent = %v, want 1.25", btc.PriceChangePercent)
	}
	if btc.BaseVolume != "12345.678" {
		t.Errorf("BaseVolume = %q, want display string preserved", btc.BaseVolume)
	}
	if btc.StatsCloseTime != 1700000000000 {
		t.Errorf("StatsCloseTime = %d, want 1700000000000", btc.StatsCloseTime)
	}
	if btc.TradeCount != 101 {
		t.Errorf("TradeCount = %d, want 101", btc.TradeCount)
	}

	eth := records[1]
	if eth.PriceChange != -20.00 {
		t.Errorf("ETH PriceChange = %v, want -20", eth.PriceChange)
	}
}

func TestDecodeBatchMalformedEnvelope(t *testing.T) {
	if _, _, err := decodeBatch([]byte(`{"not":"an array"}`)); err == nil {
		t.Error("expected error for non-array message")
	}
	if _, _, err := decodeBatch([]byte(`garbage`)); err == nil {
		t.Error("expected error for non-JSON message")
	}
}

func TestDecodeBatchSkipsBadTickers(t *testing.T) {
	// One ticker has an unparseable price, one has no symbol; the
	// remaining good ticker must survive.
	msg := `[
	  {"s":"GOOD","c":"10.5","p":"0.1","P":"1.0","w":"10.2","Q":"1","o":"10","h":"11","l":"9","v":"1","q":"10"},
	  {"s":"BADPRICE","c":"not-a-number","p":"0","P":"0","w":"0","Q":"0","o":"0","h":"0","l":"0","v":"0","q":"0"},
	  {"c":"5.0","p":"0","P":"0","w":"0","Q":"0","o":"0","h":"0","l":"0","v":"0","q":"0"}
	]`
	records, skipped, err := decodeBatch([]byte(msg))
	if err != nil {
		t.Fatalf("decodeBatch: %v", err)
	}
	if skipped != 2 {
		t.Errorf("skipped = %d, want 2", skipped)
	}
	if len(records) != 1 || records[0].Symbol != "GOOD" {
		t.Errorf("records = %v, want just GOOD", records)
	}
}
