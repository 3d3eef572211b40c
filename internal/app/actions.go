package app

import (
	"errors"
	"fmt"
	"path"
	"path/filepath"
	"runtime"
	"strings"

	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
)

// selectedEntry returns the highlighted entry of the current mode.
func (app *Application) selectedEntry(snap statepkg.Snapshot) (fsutil.Entry, bool) {
	entries := snap.Entries()
	if len(entries) == 0 {
		return fsutil.Entry{}, false
	}
	idx := app.view.Selected
	if idx < 0 || idx >= len(entries) {
		return fsutil.Entry{}, false
	}
	return entries[idx], true
}

// selectPath highlights the entry with the given full path, or clamps the
// selection when it is gone.
func (app *Application) selectPath(fullPath string) {
	entries := app.controller.Snapshot().Entries()
	for idx, entry := range entries {
		if entry.FullPath == fullPath {
			app.view.Select(idx, len(entries))
			return
		}
	}
	app.view.Clamp(len(entries))
}

func (app *Application) startQuery() {
	query := ""
	if snap := app.controller.Snapshot(); snap.Mode == statepkg.ModeSearching {
		query = snap.SearchQuery
	}
	app.view.StartEditing(query)
}

func (app *Application) activateSelected() {
	entry, ok := app.selectedEntry(app.controller.Snapshot())
	if !ok {
		return
	}

	if entry.IsDir {
		app.enterDirectory(entry.FullPath)
		return
	}

	err := app.controller.Open(entry)
	switch {
	case err == nil:
		app.view.SetNotice("opened "+entry.Name, false)
	case errors.Is(err, statepkg.ErrIsDirectory):
		// The entry became a directory since it was listed.
		app.enterDirectory(entry.FullPath)
	default:
		app.view.SetNotice(err.Error(), true)
	}
}

func (app *Application) enterDirectory(target string) {
	if err := app.controller.Enter(target); err != nil {
		app.view.SetNotice(err.Error(), true)
		return
	}
	app.view.ResetSelection()
}

func (app *Application) navigate(action statepkg.Action) {
	if err := app.controller.Reduce(action); err != nil {
		app.view.SetNotice(err.Error(), true)
		return
	}
	app.view.ResetSelection()
}

// goUp moves to the parent and highlights the directory we came from.
func (app *Application) goUp() {
	from := app.controller.CurrentPath()
	moved, err := app.controller.Up()
	if err != nil {
		app.view.SetNotice(err.Error(), true)
		return
	}
	if !moved {
		return
	}
	app.selectPath(from)
}

func (app *Application) submitQuery() {
	query := app.view.StopEditing()
	if app.controller.Mode() == statepkg.ModeBrowsing {
		app.browseSelected = app.view.Selected
	}

	app.controller.SetSearchQuery(query)
	if app.controller.StartSearch(app.notifySearchDone) {
		app.view.ResetSelection()
		return
	}
	app.restoreBrowseSelection()
}

func (app *Application) leaveSearch() {
	if app.controller.Mode() != statepkg.ModeSearching {
		return
	}
	app.controller.ClearSearch()
	app.restoreBrowseSelection()
}

func (app *Application) restoreBrowseSelection() {
	app.view.Select(app.browseSelected, len(app.controller.Snapshot().Entries()))
}

// keepSelection applies a re-listing action and keeps the same entry
// highlighted when it survives.
func (app *Application) keepSelection(action statepkg.Action) {
	entry, ok := app.selectedEntry(app.controller.Snapshot())
	if err := app.controller.Reduce(action); err != nil {
		app.view.SetNotice(err.Error(), true)
	}
	if ok {
		app.selectPath(entry.FullPath)
	}
}

// yankSelected copies the highlighted entry's path, or the current
// directory when nothing is highlighted.
func (app *Application) yankSelected() {
	snap := app.controller.Snapshot()
	target := snap.CurrentPath
	if entry, ok := app.selectedEntry(snap); ok {
		target = entry.FullPath
	}

	text := normalizeClipboardPath(target, runtime.GOOS)
	if err := clipboardWrite(text); err != nil {
		app.log.WithError(err).Warn("clipboard write failed")
		app.view.SetNotice(fmt.Sprintf("clipboard unavailable: %v", err), true)
		return
	}
	app.view.SetNotice("copied "+text, false)
}

func normalizeClipboardPath(inputPath string, goos string) string {
	if strings.EqualFold(goos, "windows") {
		cleaned := filepath.Clean(inputPath)
		return strings.ReplaceAll(cleaned, "/", `\`)
	}
	return path.Clean(filepath.ToSlash(inputPath))
}
