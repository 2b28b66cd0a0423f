// Package pdftest builds small uncompressed PDF documents for tests. Every
// page uses one Helvetica font with a fixed advance of 500/1000 em, so a
// character set at size 9 is 4.5 points wide.
package pdftest

import (
	"bytes"
	"fmt"
	"strings"
)

// FontSize is the size every Text is drawn at.
const FontSize = 9

// Text is a string drawn with its baseline starting at (X, Y).
type Text struct {
	X, Y float64
	S    string
}

// Page is the text content of one page.
type Page []Text

// Row lays out cells left to right at xs on baseline y. Empty cells are skipped.
func Row(y float64, xs []float64, cells ...string) []Text {
	var out []Text
	for i, cell := range cells {
		if cell == "" || i >= len(xs) {
			continue
		}
		out = append(out, Text{X: xs[i], Y: y, S: cell})
	}
	return out
}

// Build returns a complete PDF with one landscape page per entry.
func Build(pages ...Page) []byte {
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) int {
		offsets = append(offsets, buf.Len())
		id := len(offsets)
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", id, body)
		return id
	}

	buf.WriteString("%PDF-1.4\n")

	// Object ids are fixed up front: 1 catalog, 2 page tree, 3 font, then a
	// page and its content stream per page.
	var kids []string
	for i := range pages {
		kids = append(kids, fmt.Sprintf("%d 0 R", 4+2*i))
	}

	obj("<< /Type /Catalog /Pages 2 0 R >>")
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", strings.Join(kids, " "), len(pages)))
	obj("<< /Type /Font /Subtype /Type1 /BaseFont /Helvetica /Encoding /WinAnsiEncoding" +
		" /FirstChar 32 /LastChar 126 /Widths [" + strings.TrimSpace(strings.Repeat("500 ", 95)) + "] >>")

	for i, page := range pages {
		content := pageContent(page)
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 792 612]"+
			" /Resources << /Font << /F1 3 0 R >> >> /Contents %d 0 R >>", 5+2*i))
		obj(fmt.Sprintf("<< /Length %d >>\nstream\n%s\nendstream", len(content), content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)
	return buf.Bytes()
}

func pageContent(page Page) string {
	var b strings.Builder
	b.WriteString("BT\n")
	fmt.Fprintf(&b, "/F1 %d Tf\n", FontSize)
	for _, t := range page {
		fmt.Fprintf(&b, "1 0 0 1 %.2f %.2f Tm (%s) Tj\n", t.X, t.Y, escape(t.S))
	}
	b.WriteString("ET")
	return b.String()
}

var escaper = strings.NewReplacer(`\`, `\\`, `(`, `\(`, `)`, `\)`)

func escape(s string) string { return escaper.Replace(s) }
