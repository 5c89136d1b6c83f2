// Package session holds per-process presentation state for the dashboard:
// sort column and order, row selection, palette choice, and the table /
// chart-modal mode machine. It derives render-ready rows from a store
// snapshot and is mutated only by input handling, never by ingestion.
package session

// Column is the active sort column. The set is closed; Tab cycles it in
// declaration order and wraps.
type Column int

const (
	ColSymbol Column = iota
	ColLast
	ColPercentChange
	ColOpen
	ColHigh
	ColLow
	// ColVolume orders rows by the base-volume display string, not its
	// numeric value. Inherited behavior, kept on purpose; revisit at the
	// product level before changing.
	ColVolume

	columnCount
)

// Label returns the table header text for the column.
func (c Column) Label() string {
	switch c {
	case ColSymbol:
		return "Symbol"
	case ColLast:
		return "Last"
	case ColPercentChange:
		return "Percent Change"
	case ColOpen:
		return "Open"
	case ColHigh:
		return "High"
	case ColLow:
		return "Low"
	case ColVolume:
		return "Volume"
	default:
		return "?"
	}
}

// Order is the sort direction.
type Order int

const (
	Ascending Order = iota
	Descending
)

// Mode is the top-level view mode.
type Mode int

const (
	ModeTable Mode = iota
	ModeChartModal
)

// Session is the ephemeral UI state. The zero value is not usable; use
// NewSession.
type Session struct {
	sortColumn   Column
	sortOrder    Order
	selected     int // index into the current row order, -1 = none
	paletteCount int
	paletteIdx   int

	mode     Mode
	chartGen int    // fetch generation; bumped on open and close
	chartTxt string // rendered chart payload, "" until delivered
	chartErr error

	rowCount int // rows in the last derived frame
}

// NewSession creates a session with the startup defaults: sort by Symbol
// ascending, no selection, palette 0, table mode. paletteCount fixes the
// modulus for palette cycling.
func NewSession(paletteCount int) *Session {
	if paletteCount < 1 {
		paletteCount = 1
	}
	return &Session{selected: -1, paletteCount: paletteCount}
}

func (s *Session) SortColumn() Column { return s.sortColumn }
func (s *Session) SortOrder() Order   { return s.sortOrder }
func (s *Session) PaletteIndex() int  { return s.paletteIdx }
func (s *Session) Mode() Mode         { return s.mode }

// Selected returns the selected row index, or -1 when nothing is selected.
func (s *Session) Selected() int { return s.selected }

// NextSortColumn advances the sort column through the fixed cycle and
// wraps after Volume.
func (s *Session) NextSortColumn() {
	s.sortColumn = (s.sortColumn + 1) % columnCount
}

// ToggleSortOrder flips between ascending and descending.
func (s *Session) ToggleSortOrder() {
	if s.sortOrder == Ascending {
		s.sortOrder = Descending
	} else {
		s.sortOrder = Ascending
	}
}

// Next moves the selection down one row, wrapping to the top. With no
// rows the selection stays cleared; with no prior selection it lands on
// the first row.
func (s *Session) Next() {
	if s.rowCount == 0 {
		s.selected = -1
		return
	}
	if s.selected < 0 || s.selected >= s.rowCount-1 {
		s.selected = 0
		return
	}
	s.selected++
}

// Prev moves the selection up one row, wrapping to the bottom.
func (s *Session) Prev() {
	if s.rowCount == 0 {
		s.selected = -1
		return
	}
	if s.selected < 0 {
		s.selected = 0
		return
	}
	if s.selected == 0 {
		s.selected = s.rowCount - 1
		return
	}
	s.selected--
}

// NextPalette cycles the palette forward.
func (s *Session) NextPalette() {
	s.paletteIdx = (s.paletteIdx + 1) % s.paletteCount
}

// PrevPalette cycles the palette backward.
func (s *Session) PrevPalette() {
	s.paletteIdx = (s.paletteIdx + s.paletteCount - 1) % s.paletteCount
}

// OpenChart transitions Table -> ChartModal and returns the fetch
// generation the caller must pass back to DeliverChart. A second open
// while the modal is already up keeps the in-flight fetch (at most one).
func (s *Session) OpenChart() (gen int, opened bool) {
	if s.mode == ModeChartModal {
		return s.chartGen, false
	}
	s.mode = ModeChartModal
	s.chartGen++
	s.chartTxt = ""
	s.chartErr = nil
	return s.chartGen, true
}

// CloseModal returns to the table and discards any fetched or in-flight
// chart payload: the generation is bumped so a late DeliverChart for the
// old fetch is ignored.
func (s *Session) CloseModal() {
	if s.mode != ModeChartModal {
		return
	}
	s.mode = ModeTable
	s.chartGen++
	s.chartTxt = ""
	s.chartErr = nil
}

// DeliverChart applies a completed fetch. Results from a superseded
// generation, or arriving after the modal closed, are dropped. Reports
// whether the payload was accepted.
func (s *Session) DeliverChart(gen int, body string, err error) bool {
	if s.mode != ModeChartModal || gen != s.chartGen {
		return false
	}
	s.chartTxt = body
	s.chartErr = err
	return true
}

// Chart returns the delivered chart payload and error. Both are zero
// while the fetch is still in flight.
func (s *Session) Chart() (string, error) { return s.chartTxt, s.chartErr }
