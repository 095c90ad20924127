package pages

import (
	"image"
	"image/color"
	"math"
	"strconv"
	"time"

	"transitboard/board/fonts/frf"
	"transitboard/board/services/transit"
	"transitboard/hal"
	"transitboard/kernel"
)

const (
	DefaultTransitPlaceholder = "No departures"
	defaultColumnGap          = 2
)

// Row is one laid out departure line.
type Row struct {
	Label       string // heading arrow and route
	Destination string
	Minutes     string
}

// Transit lists the soonest departures of the latest snapshot, one per row,
// in snapshot order.
type Transit struct {
	Font       *frf.Font
	Data       *kernel.Latest[transit.Snapshot]
	StaleAfter time.Duration

	// RowHeight defaults to the font height.
	RowHeight   int
	ColumnGap   int
	Placeholder string
	Color       color.RGBA
	// Offset moves the top-left corner of the first row. Minutes stay
	// right-aligned to the panel edge.
	Offset image.Point

	seq        uint64
	labelWidth int
}

func (p *Transit) Kind() Kind   { return KindTransit }
func (p *Transit) Name() string { return "transit" }

func (p *Transit) rowHeight() int {
	if p.RowHeight > 0 {
		return p.RowHeight
	}
	return p.Font.Height()
}

func (p *Transit) columnGap() int {
	if p.ColumnGap > 0 {
		return p.ColumnGap
	}
	return defaultColumnGap
}

func (p *Transit) placeholder() string {
	if p.Placeholder != "" {
		return p.Placeholder
	}
	return DefaultTransitPlaceholder
}

// Rows lays out the departures visible in a panel of the given height. It
// returns nil when the placeholder must be shown instead.
func (p *Transit) Rows(now time.Time, height int) []Row {
	snap, seq := p.Data.LoadSeq()
	if !snap.FreshAt(now, p.StaleAfter) || len(snap.Arrivals) == 0 {
		return nil
	}
	n := height / p.rowHeight()
	if n <= 0 {
		return nil
	}
	arrivals := snap.Arrivals
	if len(arrivals) > n {
		arrivals = arrivals[:n]
	}

	rows := make([]Row, len(arrivals))
	for i, a := range arrivals {
		rows[i] = Row{
			Label:       label(a),
			Destination: a.Destination,
			Minutes:     minutesText(a.Departure(), now),
		}
	}
	if seq != p.seq {
		p.seq = seq
		p.labelWidth = 0
		for _, r := range rows {
			if w := p.Font.Measure(r.Label); w > p.labelWidth {
				p.labelWidth = w
			}
		}
	}
	return rows
}

func (p *Transit) Render(buf *hal.PixelBuffer, now time.Time) {
	c := colorOr(p.Color, White)
	off := p.Offset
	rows := p.Rows(now, buf.Height()-off.Y)
	if rows == nil {
		p.Font.DrawClipped(buf, off.X, off.Y, buf.Width()-off.X, p.placeholder(), c)
		return
	}

	gap := p.columnGap()
	destX := off.X + p.labelWidth + gap
	for i, r := range rows {
		y := off.Y + i*p.rowHeight()
		p.Font.DrawClipped(buf, off.X, y, p.labelWidth, r.Label, c)

		minX := buf.Width() - p.Font.Measure(r.Minutes)
		p.Font.Draw(buf, minX, y, r.Minutes, c)

		if room := minX - gap - destX; room > 0 {
			p.Font.DrawClipped(buf, destX, y, room, r.Destination, c)
		}
	}
}

func label(a transit.Arrival) string {
	if arrow := a.Heading.Arrow(); arrow != 0 {
		return string(arrow) + a.Route
	}
	return a.Route
}

// minutesText renders max(0, round(minutes until departure)) as "<m>m".
func minutesText(departure, now time.Time) string {
	m := int(math.Round(departure.Sub(now).Minutes()))
	if m < 0 {
		m = 0
	}
	return strconv.Itoa(m) + "m"
}
