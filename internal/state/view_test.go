package state

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestViewSelectionClampsAndScrolls(t *testing.T) {
	v := &View{Height: 7} // five list rows

	v.Move(-3, 20)
	assert.Equal(t, 0, v.Selected)

	v.Move(6, 20)
	assert.Equal(t, 6, v.Selected)
	assert.Equal(t, 2, v.Scroll)

	v.Page("down", 20)
	assert.Equal(t, 11, v.Selected)
	assert.Equal(t, 7, v.Scroll)

	v.Select(100, 20)
	assert.Equal(t, 19, v.Selected)
	assert.Equal(t, 15, v.Scroll)

	v.Page("up", 20)
	assert.Equal(t, 14, v.Selected)
	assert.Equal(t, 14, v.Scroll)

	v.Clamp(3)
	assert.Equal(t, 2, v.Selected)
	assert.Equal(t, 0, v.Scroll)

	v.Clamp(0)
	assert.Equal(t, 0, v.Selected)
	assert.Equal(t, 0, v.Scroll)
}

func TestViewVisibleRowsAccountsForPrompt(t *testing.T) {
	v := &View{Height: 10}
	assert.Equal(t, 8, v.VisibleRows())
	v.StartEditing("")
	assert.Equal(t, 7, v.VisibleRows())

	v.Height = 1
	assert.Equal(t, 1, v.VisibleRows())
}

func TestViewQueryEditing(t *testing.T) {
	v := &View{}
	v.StartEditing("rep")
	assert.True(t, v.Editing)
	assert.Equal(t, 3, v.Cursor)

	v.InsertRune('o')
	v.MoveCursor("home")
	v.InsertRune('_')
	assert.Equal(t, "_repo", string(v.Input))

	v.MoveCursor("end")
	v.Backspace()
	assert.Equal(t, "_rep", string(v.Input))

	v.MoveCursor("left")
	v.MoveCursor("left")
	v.InsertRune('ż')
	assert.Equal(t, "_rżep", string(v.Input))
	assert.Equal(t, 3, v.Cursor)

	v.MoveCursor("home")
	v.Backspace()
	assert.Equal(t, "_rżep", string(v.Input))

	v.MoveCursor("right")
	v.MoveCursor("right")
	v.MoveCursor("right")
	v.MoveCursor("right")
	v.MoveCursor("right")
	v.MoveCursor("right")
	assert.Equal(t, 5, v.Cursor)

	assert.Equal(t, "_rżep", v.StopEditing())
	assert.False(t, v.Editing)
}

func TestViewDeleteWord(t *testing.T) {
	tests := []struct {
		input  string
		cursor int
		want   string
	}{
		{"foo bar", 7, "foo "},
		{"foo bar  ", 9, "foo "},
		{"foo bar", 3, " bar"},
		{"foo", 0, "foo"},
	}

	for _, tt := range tests {
		v := &View{Input: []rune(tt.input), Cursor: tt.cursor}
		v.DeleteWord()
		assert.Equal(t, tt.want, string(v.Input), "input %q cursor %d", tt.input, tt.cursor)
	}
}

func TestViewNotice(t *testing.T) {
	v := &View{}
	v.SetNotice("cannot open", true)
	assert.Equal(t, "cannot open", v.Notice)
	assert.True(t, v.NoticeIsErr)

	v.ClearNotice()
	assert.Empty(t, v.Notice)
	assert.False(t, v.NoticeIsErr)
}
