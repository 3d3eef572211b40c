package app

import (
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
)

const doubleClickThreshold = 300 * time.Millisecond

// Run processes events until the user quits.
func (app *Application) Run() {
	app.render()
	renderPending := false

	eventChan := make(chan tcell.Event)
	go func() {
		defer close(eventChan)
		for {
			ev := app.screen.PollEvent()
			if ev == nil {
				return
			}
			eventChan <- ev
		}
	}()

	var sigContCh chan os.Signal
	if sigs := contSignals(); len(sigs) > 0 {
		sigContCh = make(chan os.Signal, 1)
		signal.Notify(sigContCh, sigs...)
		defer signal.Stop(sigContCh)
	}

	for !app.shouldQuit {
		if renderPending {
			app.render()
			renderPending = false
		}

		select {
		case ev, ok := <-eventChan:
			if !ok {
				return
			}
			if app.handleEvent(ev) {
				renderPending = true
			}
		case action := <-app.actionCh:
			if app.handleAction(action) {
				renderPending = true
			}
		case <-app.searchDone:
			renderPending = true
		case <-app.watcherEvents():
			if app.handleAction(statepkg.RefreshAction{}) {
				renderPending = true
			}
		case <-sigContCh:
			if app.resumeAfterStop() {
				renderPending = true
			}
		}

		if app.processActions() {
			renderPending = true
		}
	}
}

func (app *Application) handleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		app.view.ClearNotice()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventResize:
		app.screen.Sync()
		if !app.input.ProcessEvent(ev) {
			app.shouldQuit = true
		}
	case *tcell.EventMouse:
		return app.handleMouse(ev)
	case *tcell.EventInterrupt:
		return true
	default:
		return false
	}
	return true
}

// handleMouse maps primary clicks to selection and double clicks to
// activation. The wheel scrolls the selection.
func (app *Application) handleMouse(ev *tcell.EventMouse) bool {
	buttons := ev.Buttons()
	switch {
	case buttons&tcell.WheelUp != 0:
		app.actionCh <- statepkg.MoveSelectionAction{Delta: -1}
		return true
	case buttons&tcell.WheelDown != 0:
		app.actionCh <- statepkg.MoveSelectionAction{Delta: 1}
		return true
	case buttons&tcell.Button1 == 0:
		return false
	}
	if app.view.HelpVisible {
		return false
	}

	_, y := ev.Position()
	listStartY := 1
	if app.view.Editing {
		listStartY = 2
	}
	bottomLimit := app.view.Height - 1 // status line
	if y < listStartY || y >= bottomLimit {
		return false
	}

	idx := app.view.Scroll + (y - listStartY)
	if idx >= len(app.controller.Snapshot().Entries()) {
		return false
	}

	doubleClick := app.lastClickIdx == idx && time.Since(app.lastClickTime) <= doubleClickThreshold
	app.lastClickIdx = idx
	app.lastClickTime = time.Now()

	app.actionCh <- statepkg.SelectIndexAction{Index: idx}
	if doubleClick {
		app.lastClickIdx = -1
		app.actionCh <- statepkg.ActivateAction{}
	}
	return true
}

func (app *Application) processActions() bool {
	changed := false
	for {
		select {
		case action := <-app.actionCh:
			if app.handleAction(action) {
				changed = true
			}
		default:
			return changed
		}
	}
}

// handleAction applies one action and reports whether a redraw is needed.
func (app *Application) handleAction(action statepkg.Action) bool {
	if action == nil {
		return false
	}

	switch action.(type) {
	case statepkg.QuitAction:
		app.shouldQuit = true
		return false
	case statepkg.SuspendAction:
		app.suspendToShell()
		app.resumeAfterStop()
		return true
	}

	if app.handleViewAction(action) {
		return true
	}
	return app.handleAppAction(action)
}

// handleViewAction applies actions that only touch the View.
func (app *Application) handleViewAction(action statepkg.Action) bool {
	count := len(app.controller.Snapshot().Entries())

	switch a := action.(type) {
	case statepkg.ResizeAction:
		app.view.Width = a.Width
		app.view.Height = a.Height
		app.view.Clamp(count)
	case statepkg.MoveSelectionAction:
		app.view.Move(a.Delta, count)
	case statepkg.PageAction:
		app.view.Page(a.Direction, count)
	case statepkg.SelectFirstAction:
		app.view.Select(0, count)
	case statepkg.SelectLastAction:
		app.view.Select(count-1, count)
	case statepkg.SelectIndexAction:
		app.view.Select(a.Index, count)
	case statepkg.QueryStartAction:
		app.startQuery()
	case statepkg.QueryCharAction:
		app.view.InsertRune(a.Char)
	case statepkg.QueryBackspaceAction:
		app.view.Backspace()
	case statepkg.QueryDeleteWordAction:
		app.view.DeleteWord()
	case statepkg.QueryMoveCursorAction:
		app.view.MoveCursor(a.Direction)
	case statepkg.QueryCancelAction:
		app.view.StopEditing()
	case statepkg.HelpToggleAction:
		app.view.HelpVisible = !app.view.HelpVisible
	case statepkg.HelpHideAction:
		app.view.HelpVisible = false
	default:
		return false
	}
	return true
}

// handleAppAction applies actions that go through the controller.
func (app *Application) handleAppAction(action statepkg.Action) bool {
	switch a := action.(type) {
	case statepkg.ActivateAction:
		app.activateSelected()
	case statepkg.GoUpAction:
		app.goUp()
	case statepkg.GoHomeAction, statepkg.EnterAction:
		app.navigate(a)
	case statepkg.QuerySubmitAction:
		app.submitQuery()
	case statepkg.ClearSearchAction:
		app.leaveSearch()
	case statepkg.RefreshAction:
		app.keepSelection(a)
	case statepkg.ToggleHiddenAction:
		app.keepSelection(a)
		if app.controller.Snapshot().HideHidden {
			app.view.SetNotice("hidden files hidden", false)
		} else {
			app.view.SetNotice("hidden files shown", false)
		}
	case statepkg.YankPathAction:
		app.yankSelected()
	default:
		if err := app.controller.Reduce(action); err != nil {
			app.view.SetNotice(err.Error(), true)
		}
	}
	app.syncWatcher()
	return true
}
