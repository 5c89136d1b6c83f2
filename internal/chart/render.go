package chart

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

var (
	bullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("45"))  // cyan-blue
	bearStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")) // pink
	axisStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
)

// Render draws candles as a fixed-size text chart: one column per
// candle, a full-height body between open and close, and single-line
// wicks out to high/low. Bull candles (close >= open) and bear candles
// get distinct colors. The latest candles win when there are more than
// fit the width.
func Render(symbol, interval string, candles []Candle, width, height int) string {
	const axisWidth = 11 // "  12345.67 ┤"

	if width < axisWidth+4 || height < 6 {
		return "terminal too small for chart"
	}
	plotW := width - axisWidth
	plotH := height - 3 // title + time axis + padding

	if len(candles) > plotW {
		candles = candles[len(candles)-plotW:]
	}

	lo, hi := math.MaxFloat64, -math.MaxFloat64
	for i := range candles {
		if candles[i].Low < lo {
			lo = candles[i].Low
		}
		if candles[i].High > hi {
			hi = candles[i].High
		}
	}
	if hi <= lo {
		hi = lo + 1
	}

	// toRow maps a price onto a plot row, row 0 at the top.
	toRow := func(p float64) int {
		r := int(math.Round((hi - p) / (hi - lo) * float64(plotH-1)))
		if r < 0 {
			r = 0
		}
		if r > plotH-1 {
			r = plotH - 1
		}
		return r
	}

	grid := make([][]string, plotH)
	for r := range grid {
		grid[r] = make([]string, len(candles))
		for c := range grid[r] {
			grid[r][c] = " "
		}
	}

	for i := range candles {
		c := &candles[i]
		style := bullStyle
		if c.Close < c.Open {
			style = bearStyle
		}
		top, bot := toRow(c.Close), toRow(c.Open)
		if top > bot {
			top, bot = bot, top
		}
		for r := toRow(c.High); r < top; r++ {
			grid[r][i] = style.Render("│")
		}
		for r := top; r <= bot; r++ {
			grid[r][i] = style.Render("┃")
		}
		for r := bot + 1; r <= toRow(c.Low); r++ {
			grid[r][i] = style.Render("│")
		}
	}

	last := candles[len(candles)-1]
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf(" %s  %s  last %.8g", symbol, interval, last.Close)))
	b.WriteString("\n")

	for r := 0; r < plotH; r++ {
		label := "           "
		// Price labels on the top, middle, and bottom rows.
		if r == 0 {
			label = fmt.Sprintf("%10.8g ", hi)
		} else if r == plotH-1 {
			label = fmt.Sprintf("%10.8g ", lo)
		} else if r == plotH/2 {
			label = fmt.Sprintf("%10.8g ", (hi+lo)/2)
		}
		b.WriteString(axisStyle.Render(label + "┤"))
		b.WriteString(strings.Join(grid[r], ""))
		b.WriteString("\n")
	}

	start := time.UnixMilli(candles[0].OpenTime).UTC().Format("01-02 15:04")
	end := time.UnixMilli(last.OpenTime).UTC().Format("01-02 15:04")
	gap := plotW - len(start) - len(end)
	if gap < 1 {
		gap = 1
	}
	b.WriteString(axisStyle.Render(strings.Repeat(" ", axisWidth) + start + strings.Repeat(" ", gap) + end))
	return b.String()
}
