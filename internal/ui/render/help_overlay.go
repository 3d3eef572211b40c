package render

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	"github.com/kk-code-lab/rbrowse/internal/textutil"
)

type helpOverlayEntry struct {
	keys string
	desc string
}

type helpOverlaySection struct {
	title   string
	entries []helpOverlayEntry
}

func buildHelpOverlayLines(snap statepkg.Snapshot) []string {
	hiddenDesc := "Hide hidden files"
	if snap.HideHidden {
		hiddenDesc = "Show hidden files"
	}
	caseDesc := "Search is case-sensitive"
	if snap.CaseInsensitive {
		caseDesc = "Search ignores case"
	}

	sections := []helpOverlaySection{
		{
			title: "Navigation",
			entries: []helpOverlayEntry{
				{keys: "↑/↓ or k/j", desc: "Move selection"},
				{keys: "PgUp/PgDn", desc: "Move by a page"},
				{keys: "↵, → or l", desc: "Enter directory / open file"},
				{keys: "←, h or ⌫", desc: "Go to parent directory"},
				{keys: "~", desc: "Go to home directory"},
				{keys: "g/G", desc: "Jump to first/last entry"},
			},
		},
		{
			title: "Search",
			entries: []helpOverlayEntry{
				{keys: "/", desc: "Search file names below this directory"},
				{keys: "↵", desc: "Run the search"},
				{keys: "Esc", desc: "Cancel query or leave results"},
				{keys: "", desc: caseDesc},
			},
		},
		{
			title: "Actions",
			entries: []helpOverlayEntry{
				{keys: ".", desc: hiddenDesc},
				{keys: "r", desc: "Refresh directory"},
				{keys: "y", desc: "Yank path to clipboard"},
			},
		},
		{
			title: "Exit",
			entries: []helpOverlayEntry{
				{keys: "q", desc: "Quit"},
				{keys: "Ctrl+C", desc: "Quit immediately"},
				{keys: "?", desc: "Close this help"},
			},
		},
	}

	lines := make([]string, 0, 24)
	for i, section := range sections {
		if i > 0 {
			lines = append(lines, "")
		}
		lines = append(lines, section.title)
		for _, entry := range section.entries {
			lines = append(lines, formatHelpOverlayEntry(entry))
		}
	}
	return lines
}

func formatHelpOverlayEntry(entry helpOverlayEntry) string {
	key := textutil.SanitizeTerminalText(entry.keys)
	desc := textutil.SanitizeTerminalText(entry.desc)
	return fmt.Sprintf("  %-14s %s", key, desc)
}

func (r *Renderer) drawHelpOverlay(snap statepkg.Snapshot, w, h int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	for y := 0; y < h; y++ {
		r.fillRow(0, y, w, baseStyle)
	}

	title := " Help "
	headerStyle := baseStyle.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg).Bold(true)
	titleStart := 0
	if titleWidth := textutil.DisplayWidth(title); w > titleWidth {
		titleStart = (w - titleWidth) / 2
	}
	r.drawText(titleStart, 0, w, title, headerStyle)

	row := 2
	for _, line := range buildHelpOverlayLines(snap) {
		if row >= h-1 {
			break
		}
		text := textutil.TruncateToWidth(strings.TrimRight(line, " "), w-4)
		r.drawText(2, row, w-2, text, baseStyle)
		row++
	}

	if h > 0 {
		footer := textutil.TruncateToWidth("? toggle · Esc/q close", w)
		r.drawText(0, h-1, w, footer, headerStyle)
	}
}
