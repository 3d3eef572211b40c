package render

import (
	"strings"

	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
)

// buildFooterHelpText returns the contextual key hints with padding.
func buildFooterHelpText(snap statepkg.Snapshot, view *statepkg.View) string {
	parts := buildFooterHelpSegments(snap, view)
	if len(parts) == 0 {
		return ""
	}
	return " " + strings.Join(parts, "  ") + " "
}

// buildFooterHelpSegments assembles key hints for the current mode.
func buildFooterHelpSegments(snap statepkg.Snapshot, view *statepkg.View) []string {
	switch {
	case view != nil && view.Editing:
		return []string{
			"type: query",
			"↵: search",
			"Esc: cancel",
		}
	case snap.Mode == statepkg.ModeSearching:
		return []string{
			"↑↓: select",
			"↵: open",
			"/: new search",
			"Esc: back",
			"y: yank",
		}
	default:
		hidden := ".: hide dotfiles"
		if snap.HideHidden {
			hidden = ".: show dotfiles"
		}
		return []string{
			"↵/→: open",
			"←: up",
			"/: search",
			"r: refresh",
			hidden,
			"y: yank",
			"?: help",
			"q: quit",
		}
	}
}
