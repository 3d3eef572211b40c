package state

import fsutil "github.com/kk-code-lab/rbrowse/internal/fs"

// Action is the base interface for all state mutations
type Action interface{}

// ===== CONTROLLER ACTIONS =====

type EnterAction struct {
	Path string
}
type GoUpAction struct{}
type GoHomeAction struct{}
type SetSearchQueryAction struct {
	Query string
}
type RunSearchAction struct{}
type StartSearchAction struct {
	OnDone func()
}
type ClearSearchAction struct{}
type RefreshAction struct{}
type OpenAction struct {
	Entry fsutil.Entry
}
type ToggleHiddenAction struct{}

// ===== SELECTION ACTIONS =====

type MoveSelectionAction struct {
	Delta int
}
type PageAction struct {
	Direction string // "up" or "down"
}
type SelectFirstAction struct{}
type SelectLastAction struct{}
type SelectIndexAction struct {
	Index int
}

// ActivateAction enters the selected directory or opens the selected file.
type ActivateAction struct{}

// ===== QUERY ACTIONS =====

type QueryStartAction struct{}
type QueryCharAction struct {
	Char rune
}
type QueryBackspaceAction struct{}
type QueryDeleteWordAction struct{}
type QueryMoveCursorAction struct {
	Direction string // "left", "right", "home", "end"
}
type QuerySubmitAction struct{}
type QueryCancelAction struct{}

// ===== VIEW ACTIONS =====

type ResizeAction struct {
	Width  int
	Height int
}
type YankPathAction struct{}
type HelpToggleAction struct{}
type HelpHideAction struct{}

// ===== APPLICATION ACTIONS =====

type QuitAction struct{}
type SuspendAction struct{}
