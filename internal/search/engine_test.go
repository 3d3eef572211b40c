package search

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"testing"

	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
}

func newEngine(t *testing.T, opts Options) *Engine {
	t.Helper()
	engine, err := NewEngine(opts, nil)
	require.NoError(t, err)
	return engine
}

// relPaths returns result paths relative to root, sorted.
func relPaths(t *testing.T, root string, entries []fsutil.Entry) []string {
	t.Helper()
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		rel, err := filepath.Rel(root, e.FullPath)
		require.NoError(t, err)
		out = append(out, filepath.ToSlash(rel))
	}
	sort.Strings(out)
	return out
}

// lockDir makes reads of the named directories fail regardless of the
// privileges the test runs with.
func lockDir(engine *Engine, locked ...string) {
	engine.read = func(path string, opts fsutil.ListOptions) ([]fsutil.Entry, []fsutil.Skipped, error) {
		for _, l := range locked {
			if filepath.Clean(path) == filepath.Clean(l) {
				return nil, nil, os.ErrPermission
			}
		}
		return fsutil.ReadDir(path, opts)
	}
}

func TestSearchSkipsUnreadableSubtree(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "sub", "report_a.csv"))
	writeFile(t, filepath.Join(root, "locked", "hidden_a.txt"))

	engine := newEngine(t, Options{})
	lockDir(engine, filepath.Join(root, "locked"))

	result, err := engine.Search(context.Background(), root, "a")
	require.NoError(t, err)

	assert.Equal(t, []string{"a.txt", "sub/report_a.csv"}, relPaths(t, root, result.Entries))
	require.Len(t, result.Skipped, 1)
	assert.Equal(t, filepath.Join(root, "locked"), result.Skipped[0].Path)
	assert.ErrorIs(t, result.Skipped[0], os.ErrPermission)
}

func TestSearchUnreadableOnDisk(t *testing.T) {
	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("permission bits are not enforced here")
	}
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	locked := filepath.Join(root, "locked")
	writeFile(t, filepath.Join(locked, "a_inside.txt"))
	require.NoError(t, os.Chmod(locked, 0o000))
	t.Cleanup(func() {
		_ = os.Chmod(locked, 0o755)
	})

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "a")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(t, root, result.Entries))
	assert.Len(t, result.Skipped, 1)
}

func TestSearchReturnsOnlyMatchingFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "notes.md"))
	writeFile(t, filepath.Join(root, "notes", "todo.txt"))
	writeFile(t, filepath.Join(root, "deep", "er", "more_notes.txt"))
	writeFile(t, filepath.Join(root, "other.bin"))

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "notes")
	require.NoError(t, err)

	assert.Equal(t, []string{"deep/er/more_notes.txt", "notes.md"}, relPaths(t, root, result.Entries))
	for _, e := range result.Entries {
		assert.False(t, e.IsDir, "directory %s returned as result", e.FullPath)
		assert.Contains(t, e.Name, "notes")
		assert.True(t, strings.HasPrefix(e.FullPath, root))
	}
}

func TestSearchMatchesNameNotPath(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "alpha", "file.txt"))

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "alpha")
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
}

func TestSearchIsDepthFirstPreOrder(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "x1"))
	writeFile(t, filepath.Join(root, "a", "b", "x2"))
	writeFile(t, filepath.Join(root, "c", "x3"))
	writeFile(t, filepath.Join(root, "x0"))

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "x")
	require.NoError(t, err)

	var order []string
	for _, e := range result.Entries {
		rel, _ := filepath.Rel(root, e.FullPath)
		order = append(order, filepath.ToSlash(rel))
	}
	// os.ReadDir yields names in order, so a/ is fully explored before c/.
	assert.Equal(t, []string{"a/b/x2", "a/x1", "c/x3", "x0"}, order)
}

func TestSearchEmptyQueryDoesNotTraverse(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))

	engine := newEngine(t, Options{})
	calls := 0
	engine.read = func(path string, opts fsutil.ListOptions) ([]fsutil.Entry, []fsutil.Skipped, error) {
		calls++
		return fsutil.ReadDir(path, opts)
	}

	for _, q := range []string{"", "   ", "\t\n"} {
		result, err := engine.Search(context.Background(), root, q)
		require.NoError(t, err)
		assert.Empty(t, result.Entries)
	}
	assert.Zero(t, calls)
}

func TestSearchKeepsSurroundingSpacesInQuery(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))
	writeFile(t, filepath.Join(root, "x a.txt"))

	result, err := newEngine(t, Options{}).Search(context.Background(), root, " a")
	require.NoError(t, err)
	assert.Equal(t, []string{"x a.txt"}, relPaths(t, root, result.Entries))
	assert.Equal(t, " a", result.Query)
}

func TestSearchCaseSensitivity(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a.txt"))

	sensitive, err := newEngine(t, Options{}).Search(context.Background(), root, "A")
	require.NoError(t, err)
	assert.Empty(t, sensitive.Entries)

	insensitive, err := newEngine(t, Options{CaseInsensitive: true}).Search(context.Background(), root, "A")
	require.NoError(t, err)
	assert.Equal(t, []string{"a.txt"}, relPaths(t, root, insensitive.Entries))
}

func TestSearchSurvivesSymlinkCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "dir", "target.txt"))
	if err := os.Symlink(root, filepath.Join(root, "dir", "loop")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "target")
	require.NoError(t, err)
	assert.Equal(t, []string{"dir/target.txt"}, relPaths(t, root, result.Entries))
}

func TestSearchFollowsSymlinkedDirectoryOnce(t *testing.T) {
	root := t.TempDir()
	outside := t.TempDir()
	writeFile(t, filepath.Join(outside, "linked_file.txt"))
	if err := os.Symlink(outside, filepath.Join(root, "link")); err != nil {
		t.Skipf("symlinks unavailable: %v", err)
	}

	result, err := newEngine(t, Options{}).Search(context.Background(), root, "linked")
	require.NoError(t, err)
	assert.Equal(t, []string{"link/linked_file.txt"}, relPaths(t, root, result.Entries))
}

func TestSearchHonorsCancellation(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "a", "match.txt"))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result, err := newEngine(t, Options{}).Search(ctx, root, "match")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, result.Entries)
}

func TestSearchLimits(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "m1"))
	writeFile(t, filepath.Join(root, "one", "m2"))
	writeFile(t, filepath.Join(root, "one", "two", "m3"))

	t.Run("max depth", func(t *testing.T) {
		result, err := newEngine(t, Options{MaxDepth: 1}).Search(context.Background(), root, "m")
		require.NoError(t, err)
		assert.Equal(t, []string{"m1", "one/m2"}, relPaths(t, root, result.Entries))
	})

	t.Run("max results", func(t *testing.T) {
		result, err := newEngine(t, Options{MaxResults: 2}).Search(context.Background(), root, "m")
		require.NoError(t, err)
		assert.Len(t, result.Entries, 2)
		assert.True(t, result.Truncated)
	})
}

func TestSearchExcludeAndHidden(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, ".git", "config_x"))
	writeFile(t, filepath.Join(root, "node_modules", "pkg_x"))
	writeFile(t, filepath.Join(root, "src", "main_x"))
	writeFile(t, filepath.Join(root, ".env_x"))

	result, err := newEngine(t, Options{Exclude: []string{".git", "node_*"}}).Search(context.Background(), root, "_x")
	require.NoError(t, err)
	assert.Equal(t, []string{".env_x", "src/main_x"}, relPaths(t, root, result.Entries))

	if runtime.GOOS != "windows" {
		result, err = newEngine(t, Options{HideHidden: true}).Search(context.Background(), root, "_x")
		require.NoError(t, err)
		assert.Equal(t, []string{"node_modules/pkg_x", "src/main_x"}, relPaths(t, root, result.Entries))
	}
}

func TestNewEngineRejectsBadPattern(t *testing.T) {
	_, err := NewEngine(Options{Exclude: []string{"[unclosed"}}, nil)
	assert.Error(t, err)
	assert.Error(t, CompileExcludes([]string{"[unclosed"}))
	assert.NoError(t, CompileExcludes([]string{"*.tmp", ""}))
}

func TestSearchUnreadableRoot(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "missing")

	result, err := newEngine(t, Options{}).Search(context.Background(), missing, "a")
	require.NoError(t, err)
	assert.Empty(t, result.Entries)
	assert.Len(t, result.Skipped, 1)
}
