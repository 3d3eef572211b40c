package state

import (
	"unicode"
)

// View holds front-end state that the Controller does not own: selection,
// scrolling, the query being typed and the last notice.
type View struct {
	Selected int
	Scroll   int
	Width    int
	Height   int

	Editing bool
	Input   []rune
	Cursor  int

	Notice      string
	NoticeIsErr bool

	HelpVisible bool
}

// listHeaderRows and listFooterRows are the screen rows not used by the list.
const (
	listHeaderRows = 1
	listFooterRows = 1
)

// VisibleRows returns how many list rows fit on screen.
func (v *View) VisibleRows() int {
	rows := v.Height - listHeaderRows - listFooterRows
	if v.Editing {
		rows--
	}
	if rows < 1 {
		rows = 1
	}
	return rows
}

// Move shifts the selection by delta within count entries.
func (v *View) Move(delta, count int) {
	v.Select(v.Selected+delta, count)
}

// Page moves the selection by one screen.
func (v *View) Page(direction string, count int) {
	step := v.VisibleRows()
	if direction == "up" {
		step = -step
	}
	v.Move(step, count)
}

// Select sets the selection to idx, clamped to [0, count).
func (v *View) Select(idx, count int) {
	if count <= 0 {
		v.Selected = 0
		v.Scroll = 0
		return
	}
	if idx < 0 {
		idx = 0
	}
	if idx >= count {
		idx = count - 1
	}
	v.Selected = idx
	v.ensureVisible(count)
}

// Clamp keeps selection and scroll valid after the entry set changed.
func (v *View) Clamp(count int) {
	v.Select(v.Selected, count)
}

// ResetSelection moves back to the top of the list.
func (v *View) ResetSelection() {
	v.Selected = 0
	v.Scroll = 0
}

func (v *View) ensureVisible(count int) {
	rows := v.VisibleRows()
	if v.Selected < v.Scroll {
		v.Scroll = v.Selected
	}
	if v.Selected >= v.Scroll+rows {
		v.Scroll = v.Selected - rows + 1
	}
	if maxScroll := count - rows; v.Scroll > maxScroll {
		v.Scroll = maxScroll
	}
	if v.Scroll < 0 {
		v.Scroll = 0
	}
}

// StartEditing opens the query prompt prefilled with query.
func (v *View) StartEditing(query string) {
	v.Editing = true
	v.Input = []rune(query)
	v.Cursor = len(v.Input)
}

// StopEditing closes the query prompt and returns the typed text.
func (v *View) StopEditing() string {
	text := string(v.Input)
	v.Editing = false
	return text
}

// InsertRune types r at the cursor.
func (v *View) InsertRune(r rune) {
	v.clampCursor()
	v.Input = append(v.Input, 0)
	copy(v.Input[v.Cursor+1:], v.Input[v.Cursor:])
	v.Input[v.Cursor] = r
	v.Cursor++
}

// Backspace deletes the rune before the cursor.
func (v *View) Backspace() {
	v.clampCursor()
	if v.Cursor == 0 {
		return
	}
	v.Input = append(v.Input[:v.Cursor-1], v.Input[v.Cursor:]...)
	v.Cursor--
}

// DeleteWord deletes back to the start of the previous word.
func (v *View) DeleteWord() {
	v.clampCursor()
	start := v.Cursor
	for start > 0 && unicode.IsSpace(v.Input[start-1]) {
		start--
	}
	for start > 0 && !unicode.IsSpace(v.Input[start-1]) {
		start--
	}
	v.Input = append(v.Input[:start], v.Input[v.Cursor:]...)
	v.Cursor = start
}

// MoveCursor moves the prompt cursor.
func (v *View) MoveCursor(direction string) {
	switch direction {
	case "left":
		v.Cursor--
	case "right":
		v.Cursor++
	case "home":
		v.Cursor = 0
	case "end":
		v.Cursor = len(v.Input)
	}
	v.clampCursor()
}

func (v *View) clampCursor() {
	if v.Cursor < 0 {
		v.Cursor = 0
	}
	if v.Cursor > len(v.Input) {
		v.Cursor = len(v.Input)
	}
}

// SetNotice shows msg in the status line.
func (v *View) SetNotice(msg string, isErr bool) {
	v.Notice = msg
	v.NoticeIsErr = isErr
}

// ClearNotice removes the status line notice.
func (v *View) ClearNotice() {
	v.Notice = ""
	v.NoticeIsErr = false
}
