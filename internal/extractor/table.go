package extractor

import (
	"math"
	"regexp"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/tracknest/ingest/internal/models"
)

// glyph is one positioned piece of text from a page's content stream.
// Depending on the producer it may be a single character or a whole word.
type glyph struct {
	X, Y, W float64
	Size    float64
	S       string
}

// segment is a run of glyphs on one line that belongs to the same cell.
type segment struct {
	x0, x1 float64
	text   string
}

func (s segment) center() float64 { return (s.x0 + s.x1) / 2 }

type line struct {
	y, size  float64
	segments []segment
}

// Header words that mark the top of a transaction table.
var (
	headerDateWord    = "date"
	headerColumnWords = []string{"withdrawal", "deposit", "debit", "credit", "narration", "particulars"}
)

var amountCellPattern = regexp.MustCompile(`^-?[\d,]+(?:\.\d+)?$`)

// tableBuilder reconstructs tables page by page. Column anchors found on one
// page carry over to later pages that do not repeat the header.
type tableBuilder struct {
	anchors []segment
}

// build returns the page's table, or nil when the page has no header and no
// anchors are known yet. The header row is included as the first row when
// the page has one.
func (b *tableBuilder) build(glyphs []glyph) models.Table {
	lines := groupLines(glyphs)

	start := 0
	for i, ln := range lines {
		if isHeaderLine(ln) {
			b.anchors = ln.segments
			start = i
			break
		}
	}
	if b.anchors == nil {
		return nil
	}

	var (
		table    models.Table
		prevData = -1
		prevY    float64
	)
	for _, ln := range lines[start:] {
		row := b.assign(ln)
		// Wrapped narration: no date, no amounts, directly below the last row.
		if row[0] == "" && prevData >= 0 && !hasAmountCell(row) && prevY-ln.y <= ln.size*2 {
			mergeContinuation(table[prevData], row)
			prevY = ln.y
			continue
		}
		table = append(table, row)
		prevData = -1
		if row[0] != "" && !isHeaderLine(ln) {
			prevData = len(table) - 1
			prevY = ln.y
		}
	}
	return table
}

// assign buckets the line's segments into the anchored columns.
func (b *tableBuilder) assign(ln line) []string {
	row := make([]string, len(b.anchors))
	for _, seg := range ln.segments {
		col := b.column(seg)
		if row[col] == "" {
			row[col] = seg.text
		} else {
			row[col] += " " + seg.text
		}
	}
	return row
}

// column picks the anchor with the widest horizontal overlap, falling back to
// the nearest anchor center.
func (b *tableBuilder) column(seg segment) int {
	best, bestOverlap := -1, 0.0
	for i, a := range b.anchors {
		overlap := math.Min(seg.x1, a.x1) - math.Max(seg.x0, a.x0)
		if overlap > bestOverlap {
			best, bestOverlap = i, overlap
		}
	}
	if best >= 0 {
		return best
	}

	best, bestDist := 0, math.Inf(1)
	for i, a := range b.anchors {
		if d := math.Abs(seg.center() - a.center()); d < bestDist {
			best, bestDist = i, d
		}
	}
	return best
}

func mergeContinuation(prev, cont []string) {
	for i, cell := range cont {
		if cell == "" || i >= len(prev) {
			continue
		}
		if prev[i] == "" {
			prev[i] = cell
		} else {
			prev[i] += "\n" + cell
		}
	}
}

func hasAmountCell(row []string) bool {
	for _, cell := range row {
		if amountCellPattern.MatchString(cell) {
			return true
		}
	}
	return false
}

func isHeaderLine(ln line) bool {
	hasDate, hasColumn := false, false
	for _, seg := range ln.segments {
		t := strings.ToLower(seg.text)
		if strings.Contains(t, headerDateWord) {
			hasDate = true
		}
		for _, w := range headerColumnWords {
			if strings.Contains(t, w) {
				hasColumn = true
			}
		}
	}
	return hasDate && hasColumn
}

// groupLines clusters glyphs into lines top to bottom (PDF Y grows upwards)
// and splits each line into cell segments by horizontal gaps.
func groupLines(glyphs []glyph) []line {
	items := make([]glyph, len(glyphs))
	copy(items, glyphs)
	sort.SliceStable(items, func(i, j int) bool {
		if items[i].Y != items[j].Y {
			return items[i].Y > items[j].Y
		}
		return items[i].X < items[j].X
	})

	var lines []line
	var current []glyph
	flush := func() {
		if segs := segmentLine(current); len(segs) > 0 {
			lines = append(lines, line{y: current[0].Y, size: fontSize(current[0]), segments: segs})
		}
		current = nil
	}
	for _, g := range items {
		if len(current) > 0 && current[0].Y-g.Y > lineTolerance(g) {
			flush()
		}
		current = append(current, g)
	}
	flush()
	return lines
}

func segmentLine(glyphs []glyph) []segment {
	sort.SliceStable(glyphs, func(i, j int) bool { return glyphs[i].X < glyphs[j].X })

	// Space glyphs are kept inside a segment: fonts without a Widths array
	// draw a whole string at one X, so the space is the only word separator.
	var segs []segment
	for _, g := range glyphs {
		x1 := g.X + glyphWidth(g)
		if n := len(segs); n > 0 {
			last := &segs[n-1]
			gap := g.X - last.x1
			if gap <= cellGap(g) {
				if gap > wordGap(g) {
					last.text += " "
				}
				last.text += g.S
				last.x1 = math.Max(last.x1, x1)
				continue
			}
		}
		if strings.TrimSpace(g.S) == "" {
			continue
		}
		segs = append(segs, segment{x0: g.X, x1: x1, text: g.S})
	}
	for i := range segs {
		segs[i].text = strings.Join(strings.Fields(segs[i].text), " ")
	}
	return segs
}

func fontSize(g glyph) float64 {
	if g.Size <= 0 {
		return 10
	}
	return g.Size
}

func glyphWidth(g glyph) float64 {
	if g.W > 0 {
		return g.W
	}
	return float64(utf8.RuneCountInString(g.S)) * fontSize(g) * 0.5
}

func lineTolerance(g glyph) float64 { return fontSize(g) * 0.4 }
func wordGap(g glyph) float64       { return fontSize(g) * 0.15 }
func cellGap(g glyph) float64       { return fontSize(g) * 0.8 }
