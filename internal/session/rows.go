package session

import (
	"math"
	"sort"

	"tickerdeck/internal/ticker"
)

// Trend is the last-price direction relative to the previous update,
// used for cell coloring.
type Trend int

const (
	TrendFlat Trend = iota
	TrendUp
	TrendDown
)

// Row is one render-ready table row.
type Row struct {
	Record ticker.Record
	Trend  Trend
}

// trendOf compares the latest price against the one before it.
func trendOf(r *ticker.Record) Trend {
	switch {
	case r.LastPrice > r.PreviousPrice:
		return TrendUp
	case r.LastPrice < r.PreviousPrice:
		return TrendDown
	default:
		return TrendFlat
	}
}

// lessFloat orders float64 keys ascending with NaN greater than any
// number. Two NaNs compare equal, keeping the sort comparator valid.
func lessFloat(a, b float64) bool {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return false
	case aNaN:
		return false // NaN is greatest
	case bNaN:
		return true
	default:
		return a < b
	}
}

// sortKeyLess returns the ascending comparator for the given column.
func sortKeyLess(col Column, a, b *ticker.Record) bool {
	switch col {
	case ColLast:
		return lessFloat(a.LastPrice, b.LastPrice)
	case ColPercentChange:
		return lessFloat(a.PriceChangePercent, b.PriceChangePercent)
	case ColOpen:
		return lessFloat(a.OpenPrice, b.OpenPrice)
	case ColHigh:
		return lessFloat(a.HighPrice, b.HighPrice)
	case ColLow:
		return lessFloat(a.LowPrice, b.LowPrice)
	case ColVolume:
		return a.BaseVolume < b.BaseVolume
	default: // ColSymbol
		return a.Symbol < b.Symbol
	}
}

// Rows derives the ordered row sequence for one frame from a store
// snapshot. The snapshot is sorted ascending by the active column, then
// reversed wholesale for descending order — a deliberate
// sort-then-reverse rather than a flipped comparator, so tied rows keep
// their ascending relative order mirrored exactly. The selection is
// clamped to the new row count.
func (s *Session) Rows(snapshot []ticker.Record) []Row {
	records := make([]ticker.Record, len(snapshot))
	copy(records, snapshot)

	col := s.sortColumn
	sort.SliceStable(records, func(i, j int) bool {
		return sortKeyLess(col, &records[i], &records[j])
	})
	if s.sortOrder == Descending {
		for i, j := 0, len(records)-1; i < j; i, j = i+1, j-1 {
			records[i], records[j] = records[j], records[i]
		}
	}

	rows := make([]Row, len(records))
	for i := range records {
		rows[i] = Row{Record: records[i], Trend: trendOf(&records[i])}
	}

	s.rowCount = len(rows)
	if s.rowCount == 0 {
		s.selected = -1
	} else if s.selected >= s.rowCount {
		s.selected = s.rowCount - 1
	}
	return rows
}

// SelectedSymbol returns the symbol of the selected row within the given
// frame, or "" when nothing is selected.
func (s *Session) SelectedSymbol(rows []Row) string {
	if s.selected < 0 || s.selected >= len(rows) {
		return ""
	}
	return rows[s.selected].Record.Symbol
}
