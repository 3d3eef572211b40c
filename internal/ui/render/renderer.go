package render

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	"github.com/kk-code-lab/rbrowse/internal/search"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	"github.com/kk-code-lab/rbrowse/internal/textutil"
)

const appTitle = "rbrowse"

// Renderer handles all UI rendering
type Renderer struct {
	screen tcell.Screen
	theme  ColorTheme
}

// NewRenderer creates a new renderer
func NewRenderer(screen tcell.Screen) *Renderer {
	return &Renderer{
		screen: screen,
		theme:  GetColorTheme(),
	}
}

// Render draws the whole screen from the navigation snapshot and view state.
func (r *Renderer) Render(snap statepkg.Snapshot, view *statepkg.View) {
	if view == nil {
		view = &statepkg.View{}
	}
	r.screen.Clear()
	w, h := r.screen.Size()
	if w <= 0 || h <= 0 {
		r.screen.Show()
		return
	}

	if view.HelpVisible {
		r.screen.HideCursor()
		r.drawHelpOverlay(snap, w, h)
		r.screen.Show()
		return
	}

	r.drawHeader(snap, w)
	listStart := 1
	if view.Editing {
		r.drawPrompt(view, w)
		listStart = 2
	} else {
		r.screen.HideCursor()
	}
	r.drawList(snap, view, listStart, w, h-1)
	r.drawStatusLine(snap, view, w, h)

	r.screen.Show()
}

// drawHeader renders the title and the current path, trimmed from the left.
func (r *Renderer) drawHeader(snap statepkg.Snapshot, w int) {
	style := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	x := r.drawText(0, 0, w, appTitle+" ", style.Bold(true))
	path := textutil.SanitizeTerminalText(snap.CurrentPath)
	path = textutil.TruncateLeft(path, w-x)
	x = r.drawText(x, 0, w, path, style)
	r.fillRow(x, 0, w, style)
}

// drawPrompt renders the query being typed and places the cursor.
func (r *Renderer) drawPrompt(view *statepkg.View, w int) {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	x := r.drawText(0, 1, w, "/", style.Bold(true))

	before := textutil.SanitizeTerminalText(string(view.Input[:clampIndex(view.Cursor, len(view.Input))]))
	after := textutil.SanitizeTerminalText(string(view.Input[clampIndex(view.Cursor, len(view.Input)):]))

	// Keep the cursor on screen by dropping the start of long queries.
	room := w - x - 1
	if room < 1 {
		room = 1
	}
	before = textutil.TruncateLeft(before, room)
	x = r.drawText(x, 1, w, before, style)
	cursorX := x
	x = r.drawText(x, 1, w, after, style)
	r.fillRow(x, 1, w, style)

	if cursorX >= w {
		cursorX = w - 1
	}
	r.screen.ShowCursor(cursorX, 1)
}

func clampIndex(i, n int) int {
	if i < 0 {
		return 0
	}
	if i > n {
		return n
	}
	return i
}

// drawList renders the entries of the current mode between rows top and
// bottom (exclusive).
func (r *Renderer) drawList(snap statepkg.Snapshot, view *statepkg.View, top, w, bottom int) {
	baseStyle := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.Foreground)
	entries := snap.Entries()

	if len(entries) == 0 {
		if top < bottom {
			r.drawText(1, top, w, emptyListMessage(snap), baseStyle.Foreground(r.theme.MutedFg))
		}
		return
	}

	var matcher search.Matcher
	if snap.Mode == statepkg.ModeSearching {
		matcher = search.NewMatcher(snap.SearchQuery, snap.CaseInsensitive)
	}

	y := top
	for idx := view.Scroll; idx < len(entries) && y < bottom; idx++ {
		selected := idx == view.Selected
		r.drawEntry(snap, entries[idx], matcher, selected, y, w)
		y++
	}
}

func emptyListMessage(snap statepkg.Snapshot) string {
	if snap.Mode == statepkg.ModeSearching {
		if snap.SearchInProgress {
			return "searching…"
		}
		return "no matches"
	}
	if len(snap.ListingSkipped) > 0 && snap.ListingSkipped[0].Path == snap.CurrentPath {
		return textutil.SanitizeTerminalText("cannot read directory: " + snap.ListingSkipped[0].Err.Error())
	}
	return "empty directory"
}

func (r *Renderer) drawEntry(snap statepkg.Snapshot, entry fsutil.Entry, matcher search.Matcher, selected bool, y, w int) {
	style := r.entryStyle(entry)
	if selected {
		style = tcell.StyleDefault.Background(r.theme.SelectionBg).Foreground(r.theme.SelectionFg)
	}
	matchStyle := style.Foreground(r.theme.MatchFg).Bold(true)
	if selected {
		matchStyle = style.Bold(true).Underline(true)
	}

	icon := " "
	switch {
	case entry.IsSymlink:
		icon = "@"
	case entry.IsDir:
		icon = "/"
	}

	segments := []textSegment{{text: " " + icon + " ", style: style}}
	if snap.Mode == statepkg.ModeSearching {
		if dir := relativeDir(snap.CurrentPath, entry.FullPath); dir != "" {
			segments = append(segments, textSegment{
				text:  textutil.SanitizeTerminalText(dir),
				style: style.Foreground(r.theme.MutedFg),
			})
		}
	}
	segments = append(segments, nameSegments(entry.Name, matcher, style, matchStyle)...)

	x := r.drawSegments(0, y, w, segments)
	r.fillRow(x, y, w, style)
}

func (r *Renderer) entryStyle(entry fsutil.Entry) tcell.Style {
	style := tcell.StyleDefault.Background(r.theme.Background).Foreground(r.theme.FileFg)
	switch {
	case entry.IsSymlink:
		style = style.Foreground(r.theme.SymlinkFg)
	case entry.IsDir:
		style = style.Foreground(r.theme.DirectoryFg).Bold(true)
	}
	if entry.IsHidden() {
		style = style.Foreground(r.theme.HiddenFg)
	}
	return style
}

// relativeDir returns the directory part of path relative to root, with a
// trailing separator, or "" when path is directly inside root.
func relativeDir(root, path string) string {
	rel, err := filepath.Rel(root, filepath.Dir(path))
	if err != nil || rel == "." {
		return ""
	}
	return rel + string(filepath.Separator)
}

// nameSegments splits name around the first match of matcher.
func nameSegments(name string, matcher search.Matcher, style, matchStyle tcell.Style) []textSegment {
	start, end, ok := matcher.Span(name)
	if !ok {
		return []textSegment{{text: textutil.SanitizeTerminalText(name), style: style}}
	}
	segments := make([]textSegment, 0, 3)
	if start > 0 {
		segments = append(segments, textSegment{text: textutil.SanitizeTerminalText(name[:start]), style: style})
	}
	segments = append(segments, textSegment{text: textutil.SanitizeTerminalText(name[start:end]), style: matchStyle})
	if end < len(name) {
		segments = append(segments, textSegment{text: textutil.SanitizeTerminalText(name[end:]), style: style})
	}
	return segments
}

// drawStatusLine renders mode, counts and notices on the left and key hints
// on the right of the last row.
func (r *Renderer) drawStatusLine(snap statepkg.Snapshot, view *statepkg.View, w, h int) {
	y := h - 1
	if y < 1 {
		return
	}
	normalStyle := tcell.StyleDefault.Background(r.theme.FooterBg).Foreground(r.theme.FooterFg)

	status := textutil.SanitizeTerminalText(formatStatus(snap, view))
	x := r.drawText(0, y, w, status, normalStyle.Bold(true))

	if view.Notice != "" {
		noticeStyle := normalStyle
		if view.NoticeIsErr {
			noticeStyle = noticeStyle.Foreground(r.theme.ErrorFg)
		}
		notice := textutil.TruncateToWidth(" "+textutil.SanitizeTerminalText(view.Notice), w-x)
		x = r.drawText(x, y, w, notice, noticeStyle)
	}
	r.fillRow(x, y, w, normalStyle)

	help := buildFooterHelpText(snap, view)
	if helpWidth := textutil.DisplayWidth(help); x+helpWidth <= w {
		r.drawText(w-helpWidth, y, w, help, normalStyle.Foreground(r.theme.MutedFg))
	}
}

// formatStatus summarises the current mode, e.g. "[search] 3 matches".
func formatStatus(snap statepkg.Snapshot, view *statepkg.View) string {
	var parts []string
	entries := snap.Entries()

	if snap.Mode == statepkg.ModeSearching {
		parts = append(parts, fmt.Sprintf("[search %q]", strings.TrimSpace(snap.SearchQuery)))
		switch {
		case snap.SearchInProgress:
			parts = append(parts, "searching…")
		case len(entries) == 1:
			parts = append(parts, "1 match")
		default:
			parts = append(parts, fmt.Sprintf("%d matches", len(entries)))
		}
		if snap.SearchTruncated {
			parts = append(parts, "(limit reached)")
		}
	} else {
		parts = append(parts, "[browse]")
		if len(entries) == 1 {
			parts = append(parts, "1 entry")
		} else {
			parts = append(parts, fmt.Sprintf("%d entries", len(entries)))
		}
	}

	if n := len(snap.Skipped()); n > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", n))
	}
	if len(entries) > 0 && view != nil {
		parts = append(parts, fmt.Sprintf("%d/%d", clampIndex(view.Selected, len(entries)-1)+1, len(entries)))
	}
	return " " + strings.Join(parts, " ")
}
