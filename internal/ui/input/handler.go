package input

import (
	"github.com/gdamore/tcell/v2"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
)

// ModeReader reports the navigation mode.
type ModeReader interface {
	Mode() statepkg.Mode
}

// InputHandler converts tcell events to Actions
type InputHandler struct {
	actionChan chan statepkg.Action
	view       *statepkg.View // Reference to view state for mode checking
	modes      ModeReader
}

// NewInputHandler creates a new input handler
func NewInputHandler(actionChan chan statepkg.Action) *InputHandler {
	return &InputHandler{
		actionChan: actionChan,
	}
}

// SetState sets the view and mode source used to interpret keys.
func (ih *InputHandler) SetState(view *statepkg.View, modes ModeReader) {
	ih.view = view
	ih.modes = modes
}

// ProcessEvent converts a tcell event into an Action. It returns false when
// the event asks the application to quit.
func (ih *InputHandler) ProcessEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		return ih.processKeyEvent(ev)
	case *tcell.EventResize:
		w, h := ev.Size()
		ih.actionChan <- statepkg.ResizeAction{Width: w, Height: h}
		return true
	default:
		return true
	}
}

func (ih *InputHandler) processKeyEvent(ev *tcell.EventKey) bool {
	if ev.Key() == tcell.KeyCtrlC {
		ih.actionChan <- statepkg.QuitAction{}
		return false
	}
	if ev.Key() == tcell.KeyCtrlZ {
		ih.actionChan <- statepkg.SuspendAction{}
		return true
	}

	switch {
	case ih.view != nil && ih.view.HelpVisible:
		ih.processHelpKey(ev)
		return true
	case ih.view != nil && ih.view.Editing:
		ih.processQueryKey(ev)
		return true
	}
	return ih.processListKey(ev)
}

func (ih *InputHandler) processHelpKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.HelpHideAction{}
	case tcell.KeyRune:
		switch ev.Rune() {
		case '?', 'q', 'Q':
			ih.actionChan <- statepkg.HelpHideAction{}
		}
	}
}

func (ih *InputHandler) processQueryKey(ev *tcell.EventKey) {
	switch ev.Key() {
	case tcell.KeyEscape:
		ih.actionChan <- statepkg.QueryCancelAction{}
	case tcell.KeyEnter:
		ih.actionChan <- statepkg.QuerySubmitAction{}
	case tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.actionChan <- statepkg.QueryBackspaceAction{}
	case tcell.KeyCtrlW:
		ih.actionChan <- statepkg.QueryDeleteWordAction{}
	case tcell.KeyLeft:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "left"}
	case tcell.KeyRight:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "right"}
	case tcell.KeyHome, tcell.KeyCtrlA:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "home"}
	case tcell.KeyEnd, tcell.KeyCtrlE:
		ih.actionChan <- statepkg.QueryMoveCursorAction{Direction: "end"}
	case tcell.KeyRune:
		if ev.Modifiers()&(tcell.ModCtrl|tcell.ModAlt) != 0 {
			return
		}
		// Every printable rune is query text, including 'q' and '/'.
		ih.actionChan <- statepkg.QueryCharAction{Char: ev.Rune()}
	}
}

func (ih *InputHandler) processListKey(ev *tcell.EventKey) bool {
	searching := ih.modes != nil && ih.modes.Mode() == statepkg.ModeSearching

	switch ev.Key() {
	case tcell.KeyEscape:
		if searching {
			ih.actionChan <- statepkg.ClearSearchAction{}
		}
	case tcell.KeyUp:
		ih.actionChan <- statepkg.MoveSelectionAction{Delta: -1}
	case tcell.KeyDown:
		ih.actionChan <- statepkg.MoveSelectionAction{Delta: 1}
	case tcell.KeyPgUp:
		ih.actionChan <- statepkg.PageAction{Direction: "up"}
	case tcell.KeyPgDn:
		ih.actionChan <- statepkg.PageAction{Direction: "down"}
	case tcell.KeyHome:
		ih.actionChan <- statepkg.SelectFirstAction{}
	case tcell.KeyEnd:
		ih.actionChan <- statepkg.SelectLastAction{}
	case tcell.KeyEnter, tcell.KeyRight:
		ih.actionChan <- statepkg.ActivateAction{}
	case tcell.KeyLeft, tcell.KeyBackspace, tcell.KeyBackspace2:
		ih.leave(searching)
	case tcell.KeyRune:
		return ih.processListRune(ev.Rune(), searching)
	}
	return true
}

// leave goes back one level: out of search results, or up a directory.
func (ih *InputHandler) leave(searching bool) {
	if searching {
		ih.actionChan <- statepkg.ClearSearchAction{}
		return
	}
	ih.actionChan <- statepkg.GoUpAction{}
}

func (ih *InputHandler) processListRune(r rune, searching bool) bool {
	switch r {
	case 'q':
		ih.actionChan <- statepkg.QuitAction{}
		return false
	case 'k':
		ih.actionChan <- statepkg.MoveSelectionAction{Delta: -1}
	case 'j':
		ih.actionChan <- statepkg.MoveSelectionAction{Delta: 1}
	case 'g':
		ih.actionChan <- statepkg.SelectFirstAction{}
	case 'G':
		ih.actionChan <- statepkg.SelectLastAction{}
	case 'l':
		ih.actionChan <- statepkg.ActivateAction{}
	case 'h':
		ih.leave(searching)
	case '/':
		ih.actionChan <- statepkg.QueryStartAction{}
	case 'r', 'R':
		ih.actionChan <- statepkg.RefreshAction{}
	case 'y':
		ih.actionChan <- statepkg.YankPathAction{}
	case '.':
		ih.actionChan <- statepkg.ToggleHiddenAction{}
	case '~':
		ih.actionChan <- statepkg.GoHomeAction{}
	case '?':
		ih.actionChan <- statepkg.HelpToggleAction{}
	}
	return true
}
