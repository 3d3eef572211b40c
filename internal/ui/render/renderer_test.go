package render

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"
	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	"github.com/kk-code-lab/rbrowse/internal/search"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	screen := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, screen.Init())
	screen.SetSize(w, h)
	t.Cleanup(screen.Fini)
	return screen
}

func rowText(screen tcell.SimulationScreen, y int) string {
	cells, w, _ := screen.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		cell := cells[y*w+x]
		if len(cell.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteString(string(cell.Runes))
	}
	return strings.TrimRight(b.String(), " ")
}

func cellStyle(screen tcell.SimulationScreen, x, y int) tcell.Style {
	cells, w, _ := screen.GetContents()
	return cells[y*w+x].Style
}

func sampleRoot() string {
	return filepath.Join(string(filepath.Separator), "home", "me")
}

func sampleListing() statepkg.Snapshot {
	root := sampleRoot()
	return statepkg.Snapshot{
		CurrentPath: root,
		Mode:        statepkg.ModeBrowsing,
		Listing: []fsutil.Entry{
			{Name: "docs", FullPath: filepath.Join(root, "docs"), IsDir: true},
			{Name: "a.txt", FullPath: filepath.Join(root, "a.txt")},
			{Name: "link", FullPath: filepath.Join(root, "link"), IsSymlink: true},
		},
	}
}

func TestRenderBrowsingListing(t *testing.T) {
	screen := newSimScreen(t, 60, 8)
	r := NewRenderer(screen)
	view := &statepkg.View{Selected: 1, Height: 8}

	r.Render(sampleListing(), view)

	assert.Equal(t, "rbrowse "+sampleRoot(), rowText(screen, 0))
	assert.Equal(t, " / docs", rowText(screen, 1))
	assert.Equal(t, "   a.txt", rowText(screen, 2))
	assert.Equal(t, " @ link", rowText(screen, 3))
	assert.True(t, strings.HasPrefix(rowText(screen, 7), " [browse] 3 entries 2/3"))

	_, bg, _ := cellStyle(screen, 3, 2).Decompose()
	assert.Equal(t, GetColorTheme().SelectionBg, bg)
}

func TestRenderHeaderTrimsLongPathFromLeft(t *testing.T) {
	screen := newSimScreen(t, 20, 4)
	r := NewRenderer(screen)
	snap := sampleListing()
	snap.CurrentPath = filepath.Join(string(filepath.Separator), "very", "long", "path", "to", "project")

	r.Render(snap, &statepkg.View{Height: 4})

	header := rowText(screen, 0)
	assert.True(t, strings.HasPrefix(header, "rbrowse …"), header)
	assert.True(t, strings.HasSuffix(header, "project"), header)
}

func TestRenderSearchResultsShowRelativeDirAndHighlight(t *testing.T) {
	screen := newSimScreen(t, 60, 6)
	r := NewRenderer(screen)
	root := sampleRoot()
	snap := statepkg.Snapshot{
		CurrentPath: root,
		Mode:        statepkg.ModeSearching,
		SearchQuery: "rep",
		SearchResults: []fsutil.Entry{
			{Name: "report.csv", FullPath: filepath.Join(root, "sub", "report.csv")},
			{Name: "rep.txt", FullPath: filepath.Join(root, "rep.txt")},
		},
		SearchSkipped: []fsutil.Skipped{{Path: filepath.Join(root, "locked"), Err: os.ErrPermission}},
	}

	r.Render(snap, &statepkg.View{Selected: 1, Height: 6})

	assert.Equal(t, "   sub"+string(filepath.Separator)+"report.csv", rowText(screen, 1))
	assert.Equal(t, "   rep.txt", rowText(screen, 2))
	assert.True(t, strings.HasPrefix(rowText(screen, 5), ` [search "rep"] 2 matches 1 skipped 2/2`))

	// "rep" in row 1 starts after " " + icon + " " + "sub/".
	fg, _, attrs := cellStyle(screen, 7, 1).Decompose()
	assert.Equal(t, GetColorTheme().MatchFg, fg)
	assert.NotZero(t, attrs&tcell.AttrBold)
}

func TestRenderEmptyStates(t *testing.T) {
	tests := []struct {
		name string
		snap statepkg.Snapshot
		want string
	}{
		{
			name: "empty directory",
			snap: statepkg.Snapshot{CurrentPath: "/x"},
			want: " empty directory",
		},
		{
			name: "unreadable directory",
			snap: statepkg.Snapshot{
				CurrentPath:    "/x",
				ListingSkipped: []fsutil.Skipped{{Path: "/x", Err: errors.New("permission denied")}},
			},
			want: " cannot read directory: permission denied",
		},
		{
			name: "search running",
			snap: statepkg.Snapshot{CurrentPath: "/x", Mode: statepkg.ModeSearching, SearchQuery: "q", SearchInProgress: true},
			want: " searching…",
		},
		{
			name: "no matches",
			snap: statepkg.Snapshot{CurrentPath: "/x", Mode: statepkg.ModeSearching, SearchQuery: "q"},
			want: " no matches",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			screen := newSimScreen(t, 60, 5)
			NewRenderer(screen).Render(tt.snap, &statepkg.View{Height: 5})
			assert.Equal(t, tt.want, rowText(screen, 1))
		})
	}
}

func TestRenderPromptPlacesCursor(t *testing.T) {
	screen := newSimScreen(t, 40, 6)
	r := NewRenderer(screen)
	view := &statepkg.View{Height: 6}
	view.StartEditing("abc")
	view.MoveCursor("left")

	r.Render(sampleListing(), view)

	assert.Equal(t, "/abc", rowText(screen, 1))
	assert.Equal(t, " / docs", rowText(screen, 2))
	x, y, visible := screen.GetCursor()
	assert.True(t, visible)
	assert.Equal(t, 3, x)
	assert.Equal(t, 1, y)
}

func TestRenderStatusNotice(t *testing.T) {
	screen := newSimScreen(t, 80, 5)
	r := NewRenderer(screen)
	view := &statepkg.View{Height: 5}
	view.SetNotice("cannot launch xdg-open", true)

	r.Render(sampleListing(), view)

	status := rowText(screen, 4)
	assert.Contains(t, status, "cannot launch xdg-open")
	idx := strings.Index(status, "cannot")
	fg, _, _ := cellStyle(screen, idx, 4).Decompose()
	assert.Equal(t, GetColorTheme().ErrorFg, fg)
}

func TestRenderSanitizesNames(t *testing.T) {
	screen := newSimScreen(t, 40, 4)
	snap := statepkg.Snapshot{
		CurrentPath: "/x",
		Listing:     []fsutil.Entry{{Name: "evil\x1b[2J.txt", FullPath: "/x/evil"}},
	}

	NewRenderer(screen).Render(snap, &statepkg.View{Height: 4})
	assert.Equal(t, "   evil?[2J.txt", rowText(screen, 1))
}

func TestRenderTruncatesLongNames(t *testing.T) {
	screen := newSimScreen(t, 12, 4)
	snap := statepkg.Snapshot{
		CurrentPath: "/x",
		Listing:     []fsutil.Entry{{Name: "a-very-long-file-name.txt", FullPath: "/x/a"}},
	}

	NewRenderer(screen).Render(snap, &statepkg.View{Height: 4})
	assert.Equal(t, "   a-very-l…", rowText(screen, 1))
}

func TestRenderHelpOverlay(t *testing.T) {
	screen := newSimScreen(t, 60, 30)
	view := &statepkg.View{Height: 30, HelpVisible: true}

	NewRenderer(screen).Render(sampleListing(), view)

	assert.Contains(t, rowText(screen, 0), "Help")
	assert.Equal(t, "  Navigation", rowText(screen, 2))
}

func TestBuildHelpOverlayLinesReflectsSettings(t *testing.T) {
	joined := strings.Join(buildHelpOverlayLines(statepkg.Snapshot{HideHidden: true, CaseInsensitive: true}), "\n")
	assert.Contains(t, joined, "Show hidden files")
	assert.Contains(t, joined, "Search ignores case")

	joined = strings.Join(buildHelpOverlayLines(statepkg.Snapshot{}), "\n")
	assert.Contains(t, joined, "Hide hidden files")
	assert.Contains(t, joined, "Search is case-sensitive")
}

func TestNameSegmentsSplitsAroundMatch(t *testing.T) {
	style := tcell.StyleDefault
	match := style.Bold(true)

	segments := nameSegments("My Report.txt", search.NewMatcher("report", true), style, match)
	require.Len(t, segments, 3)
	assert.Equal(t, "My ", segments[0].text)
	assert.Equal(t, "Report", segments[1].text)
	assert.Equal(t, match, segments[1].style)
	assert.Equal(t, ".txt", segments[2].text)

	segments = nameSegments("plain.txt", search.Matcher{}, style, match)
	require.Len(t, segments, 1)
	assert.Equal(t, "plain.txt", segments[0].text)
}

func TestNameSegmentsHighlightsQueryWithSpaces(t *testing.T) {
	style := tcell.StyleDefault
	match := style.Bold(true)

	segments := nameSegments("old rep.txt", search.NewMatcher(" rep", false), style, match)
	require.Len(t, segments, 3)
	assert.Equal(t, "old", segments[0].text)
	assert.Equal(t, " rep", segments[1].text)
	assert.Equal(t, match, segments[1].style)
	assert.Equal(t, ".txt", segments[2].text)
}
