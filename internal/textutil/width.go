package textutil

import (
	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

const ellipsis = "…"

// DisplayWidth reports how many terminal cells text occupies.
func DisplayWidth(text string) int {
	return runewidth.StringWidth(text)
}

// TruncateToWidth shortens text to at most width cells, marking the cut with
// an ellipsis at the end.
func TruncateToWidth(text string, width int) string {
	if width <= 0 || text == "" {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return ellipsis
	}
	return runewidth.Truncate(text, width, ellipsis)
}

// TruncateLeft shortens text to at most width cells by dropping its
// beginning. Paths keep their most specific part this way.
func TruncateLeft(text string, width int) string {
	if width <= 0 || text == "" {
		return ""
	}
	if DisplayWidth(text) <= width {
		return text
	}
	if width <= 1 {
		return ellipsis
	}

	var clusters []string
	g := uniseg.NewGraphemes(text)
	for g.Next() {
		clusters = append(clusters, g.Str())
	}

	available := width - DisplayWidth(ellipsis)
	used := 0
	start := len(clusters)
	for start > 0 {
		w := DisplayWidth(clusters[start-1])
		if used+w > available {
			break
		}
		used += w
		start--
	}

	out := ellipsis
	for _, c := range clusters[start:] {
		out += c
	}
	return out
}
