package main

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"tickerdeck/internal/chart"
	"tickerdeck/internal/config"
	"tickerdeck/internal/session"
	"tickerdeck/internal/ticker"
)

// palette is one selectable table color theme.
type palette struct {
	name       string
	headerBG   lipgloss.Color
	headerFG   lipgloss.Color
	rowFG      lipgloss.Color
	altRowBG   lipgloss.Color
	selectedFG lipgloss.Color
	footerFG   lipgloss.Color
}

// Four themes, cycled with h/l (blue, emerald, indigo, red).
var palettes = []palette{
	{"blue", lipgloss.Color("24"), lipgloss.Color("153"), lipgloss.Color("252"), lipgloss.Color("236"), lipgloss.Color("75"), lipgloss.Color("75")},
	{"emerald", lipgloss.Color("22"), lipgloss.Color("158"), lipgloss.Color("252"), lipgloss.Color("236"), lipgloss.Color("42"), lipgloss.Color("42")},
	{"indigo", lipgloss.Color("54"), lipgloss.Color("189"), lipgloss.Color("252"), lipgloss.Color("236"), lipgloss.Color("105"), lipgloss.Color("105")},
	{"red", lipgloss.Color("52"), lipgloss.Color("217"), lipgloss.Color("252"), lipgloss.Color("236"), lipgloss.Color("203"), lipgloss.Color("203")},
}

// Trend coloring for the last-price cell.
var (
	upStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	downStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

const footerHelp = " q quit  j/k select  tab sort column  r sort order  h/l palette  enter chart"

// Messages.
type tickMsg time.Time

type feedErrMsg struct{ err error }

type chartFetchedMsg struct {
	gen  int
	body string
	err  error
}

func tickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// model is the render-loop state: it wraps the shared store (read-only
// here), the view session, and the viewport the table scrolls in.
type model struct {
	cfg    *config.Config
	store  *ticker.Store
	sess   *session.Session
	charts *chart.Client
	logger *slog.Logger

	rows     []session.Row
	lastTick time.Time
	refresh  time.Duration

	viewport      viewport.Model
	ready         bool
	width, height int

	feedCancel context.CancelFunc
	fatalErr   error
}

func initialModel(cfg *config.Config, store *ticker.Store, charts *chart.Client, cancel context.CancelFunc, logger *slog.Logger) model {
	return model{
		cfg:        cfg,
		store:      store,
		sess:       session.NewSession(len(palettes)),
		charts:     charts,
		logger:     logger,
		refresh:    time.Duration(cfg.UI.RefreshMillis) * time.Millisecond,
		feedCancel: cancel,
	}
}

func (m model) Init() tea.Cmd {
	return tickCmd(m.refresh)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		// An open modal swallows every key and closes.
		if m.sess.Mode() == session.ModeChartModal {
			m.sess.CloseModal()
			return m, nil
		}

		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.feedCancel()
			return m, tea.Quit
		case "j", "down":
			m.sess.Next()
			m.syncViewport()
			return m, nil
		case "k", "up":
			m.sess.Prev()
			m.syncViewport()
			return m, nil
		case "l", "right":
			m.sess.NextPalette()
			m.syncViewport()
			return m, nil
		case "h", "left":
			m.sess.PrevPalette()
			m.syncViewport()
			return m, nil
		case "tab":
			m.sess.NextSortColumn()
			m.refreshFrame()
			return m, nil
		case "r":
			m.sess.ToggleSortOrder()
			m.refreshFrame()
			return m, nil
		case "enter":
			gen, opened := m.sess.OpenChart()
			if !opened {
				return m, nil
			}
			symbol := m.sess.SelectedSymbol(m.rows)
			if symbol == "" {
				symbol = m.cfg.Chart.Symbol
			}
			return m, m.fetchChartCmd(gen, symbol)
		}

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		vpHeight := m.height - 2 // header + footer bars
		if vpHeight < 1 {
			vpHeight = 1
		}
		if !m.ready {
			m.viewport = viewport.New(m.width, vpHeight)
			m.viewport.MouseWheelEnabled = true
			m.ready = true
			m.refreshFrame()
		} else {
			m.viewport.Width = m.width
			m.viewport.Height = vpHeight
		}
		return m, nil

	case tickMsg:
		m.lastTick = time.Time(msg)
		if m.sess.Mode() == session.ModeTable {
			m.refreshFrame()
		}
		return m, tickCmd(m.refresh)

	case chartFetchedMsg:
		if !m.sess.DeliverChart(msg.gen, msg.body, msg.err) {
			m.logger.Info("discarded stale chart result", "gen", msg.gen)
		}
		return m, nil

	case feedErrMsg:
		m.fatalErr = msg.err
		m.logger.Error("feed bridge failed", "error", msg.err)
		return m, tea.Quit
	}

	if m.ready {
		m.viewport, cmd = m.viewport.Update(msg)
	}
	return m, cmd
}

// fetchChartCmd issues the one-shot candle fetch for the modal. The
// result carries the fetch generation so a close-then-complete race is
// resolved by the session, not here.
func (m model) fetchChartCmd(gen int, symbol string) tea.Cmd {
	charts := m.charts
	interval := m.cfg.Chart.Interval
	limit := m.cfg.Chart.Limit
	width, height := m.width, m.height

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		candles, err := charts.FetchCandles(ctx, symbol, interval, limit)
		if err != nil {
			return chartFetchedMsg{gen: gen, err: err}
		}
		body := chart.Render(symbol, interval, candles, width, height)
		return chartFetchedMsg{gen: gen, body: body}
	}
}

// refreshFrame takes a store snapshot, derives the sorted rows, and
// repaints the viewport. Ingestion is never blocked by this path.
func (m *model) refreshFrame() {
	m.rows = m.sess.Rows(m.store.Snapshot())
	m.syncViewport()
}

// syncViewport repaints the table into the viewport and keeps the
// selected row visible.
func (m *model) syncViewport() {
	if !m.ready {
		return
	}
	m.viewport.SetContent(m.renderTable())
	if sel := m.sess.Selected(); sel >= 0 {
		line := sel + 1 // one header line above the rows
		yOff := m.viewport.YOffset
		if line < yOff+1 {
			m.viewport.SetYOffset(line - 1)
		} else if line >= yOff+m.viewport.Height {
			m.viewport.SetYOffset(line - m.viewport.Height + 1)
		}
	}
}

func (m model) View() string {
	if !m.ready {
		return "Loading..."
	}

	if m.sess.Mode() == session.ModeChartModal {
		return m.renderModal()
	}

	pal := palettes[m.sess.PaletteIndex()]

	order := "asc"
	if m.sess.SortOrder() == session.Descending {
		order = "desc"
	}
	updated := "--:--:--"
	if !m.lastTick.IsZero() {
		updated = m.lastTick.Format("15:04:05")
	}
	headerText := fmt.Sprintf(" Crypto Tickers    symbols: %d    sort: %s %s    palette: %s    %s ",
		len(m.rows), m.sess.SortColumn().Label(), order, pal.name, updated)
	headerBar := lipgloss.NewStyle().
		Bold(true).
		Foreground(pal.headerFG).
		Background(pal.headerBG).
		Render(padOrTrunc(headerText, m.width))

	pct := m.viewport.ScrollPercent() * 100
	footerRight := fmt.Sprintf("%.0f%% ", pct)
	gap := m.width - len(footerHelp) - len(footerRight)
	if gap < 0 {
		gap = 0
	}
	footerBar := lipgloss.NewStyle().
		Foreground(pal.footerFG).
		Background(lipgloss.Color("235")).
		Render(padOrTrunc(footerHelp+strings.Repeat(" ", gap)+footerRight, m.width))

	return headerBar + "\n" + m.viewport.View() + "\n" + footerBar
}

func (m model) renderModal() string {
	body, err := m.sess.Chart()
	var content string
	switch {
	case err != nil:
		content = downStyle.Render(fmt.Sprintf("  chart unavailable: %v", err)) +
			"\n\n" + dimStyle.Render("  press any key to close")
	case body == "":
		content = dimStyle.Render("  loading chart...")
	default:
		content = body + "\n" + dimStyle.Render("  press any key to close")
	}
	return content
}

// columnWidths for the table cells, indexed by session.Column order.
var columnWidths = [...]int{10, 14, 10, 12, 12, 12, 18}

func (m model) renderTable() string {
	pal := palettes[m.sess.PaletteIndex()]
	var b strings.Builder

	headerStyle := lipgloss.NewStyle().Foreground(pal.headerFG).Background(pal.headerBG)
	marker := func(col session.Column) string {
		if col != m.sess.SortColumn() {
			return " "
		}
		if m.sess.SortOrder() == session.Ascending {
			return "▲"
		}
		return "▼"
	}
	var head strings.Builder
	for col := session.ColSymbol; col <= session.ColVolume; col++ {
		head.WriteString(fmt.Sprintf(" %-*s", columnWidths[col], col.Label()+marker(col)))
	}
	b.WriteString(headerStyle.Render(padOrTrunc(head.String(), m.width)))
	b.WriteString("\n")

	if len(m.rows) == 0 {
		b.WriteString(dimStyle.Render("  waiting for ticker data..."))
		b.WriteString("\n")
		return b.String()
	}

	selected := m.sess.Selected()
	for i := range m.rows {
		r := &m.rows[i].Record

		rowStyle := lipgloss.NewStyle().Foreground(pal.rowFG)
		if i%2 == 1 {
			rowStyle = rowStyle.Background(pal.altRowBG)
		}
		lastStyle := rowStyle
		switch m.rows[i].Trend {
		case session.TrendUp:
			lastStyle = upStyle.Background(rowStyle.GetBackground())
		case session.TrendDown:
			lastStyle = downStyle.Background(rowStyle.GetBackground())
		}
		if i == selected {
			rowStyle = rowStyle.Reverse(true).Foreground(pal.selectedFG)
			lastStyle = lastStyle.Reverse(true)
		}

		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColSymbol], r.Symbol)))
		b.WriteString(lastStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColLast], fmtFloat(r.LastPrice))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColPercentChange], fmtFloat(r.PriceChangePercent))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColOpen], fmtFloat(r.OpenPrice))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColHigh], fmtFloat(r.HighPrice))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColLow], fmtFloat(r.LowPrice))))
		b.WriteString(rowStyle.Render(fmt.Sprintf(" %-*s", columnWidths[session.ColVolume], r.BaseVolume)))
		b.WriteString("\n")
	}
	return b.String()
}

func fmtFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// padOrTrunc pads s with spaces to width, or truncates if longer.
func padOrTrunc(s string, width int) string {
	n := len([]rune(s))
	if n >= width {
		return string([]rune(s)[:width])
	}
	return s + strings.Repeat(" ", width-n)
}
