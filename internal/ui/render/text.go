package render

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// drawText draws text from startX, stopping before maxX, and returns the
// column after the last drawn cell. Grapheme clusters are kept whole so
// combining marks and emoji sequences occupy a single cell run.
func (r *Renderer) drawText(startX, y, maxX int, text string, style tcell.Style) int {
	x := startX
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		runes := g.Runes()
		w := runewidth.StringWidth(g.Str())
		if w <= 0 {
			continue
		}
		if x+w > maxX {
			break
		}
		r.screen.SetContent(x, y, runes[0], runes[1:], style)
		for i := 1; i < w; i++ {
			r.screen.SetContent(x+i, y, ' ', nil, style)
		}
		x += w
	}
	return x
}

// fillRow paints cells [startX, maxX) of row y with style.
func (r *Renderer) fillRow(startX, y, maxX int, style tcell.Style) {
	for x := startX; x < maxX; x++ {
		r.screen.SetContent(x, y, ' ', nil, style)
	}
}

// textSegment is a run of text drawn with one style.
type textSegment struct {
	text  string
	style tcell.Style
}

// drawSegments draws segments one after another, truncating the whole line
// with an ellipsis when it does not fit.
func (r *Renderer) drawSegments(startX, y, maxX int, segments []textSegment) int {
	total := 0
	for _, s := range segments {
		total += runewidth.StringWidth(s.text)
	}
	if startX+total <= maxX {
		x := startX
		for _, s := range segments {
			x = r.drawText(x, y, maxX, s.text, s.style)
		}
		return x
	}

	limit := maxX - 1 // room for the ellipsis
	x := startX
	style := tcell.StyleDefault
	for _, s := range segments {
		style = s.style
		fits := x+runewidth.StringWidth(s.text) <= limit
		x = r.drawText(x, y, limit, s.text, s.style)
		if !fits {
			break
		}
	}
	if x < maxX {
		r.screen.SetContent(x, y, '…', nil, style)
		x++
	}
	return x
}
