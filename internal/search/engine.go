package search

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gobwas/glob"
	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	"github.com/kk-code-lab/rbrowse/internal/logging"
	"github.com/sirupsen/logrus"
)

// DirReader enumerates and classifies the immediate children of a directory.
type DirReader func(path string, opts fsutil.ListOptions) ([]fsutil.Entry, []fsutil.Skipped, error)

// Options tunes a search. The zero value searches the whole subtree,
// case-sensitively, with no exclusions.
type Options struct {
	CaseInsensitive bool
	HideHidden      bool
	// MaxDepth limits how many directory levels below the root are
	// descended into. Zero means no limit.
	MaxDepth int
	// MaxResults stops the walk once this many matches were found. Zero
	// means no limit.
	MaxResults int
	// Exclude holds glob patterns; directories whose name matches one are
	// not descended into.
	Exclude []string
}

// Result is the outcome of one search.
type Result struct {
	Root      string
	Query     string
	Entries   []fsutil.Entry
	Skipped   []fsutil.Skipped
	Truncated bool
	DirsRead  int
	Elapsed   time.Duration
}

// Engine walks a directory tree looking for file names containing a query.
type Engine struct {
	opts    Options
	exclude []glob.Glob
	read    DirReader
	resolve func(string) (string, error)
	log     logrus.FieldLogger
}

// NewEngine compiles the exclusion patterns and returns a ready engine.
func NewEngine(opts Options, logger logrus.FieldLogger) (*Engine, error) {
	exclude, err := compileExcludes(opts.Exclude)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = logging.Discard()
	}
	return &Engine{
		opts:    opts,
		exclude: exclude,
		read:    fsutil.ReadDir,
		resolve: filepath.EvalSymlinks,
		log:     logger,
	}, nil
}

// CompileExcludes validates glob patterns the way NewEngine will use them.
func CompileExcludes(patterns []string) error {
	_, err := compileExcludes(patterns)
	return err
}

func compileExcludes(patterns []string) ([]glob.Glob, error) {
	compiled := make([]glob.Glob, 0, len(patterns))
	for _, pattern := range patterns {
		if strings.TrimSpace(pattern) == "" {
			continue
		}
		g, err := glob.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		compiled = append(compiled, g)
	}
	return compiled, nil
}

// Options returns the options the engine was built with.
func (e *Engine) Options() Options {
	return e.opts
}

// Search walks root depth-first and collects every file whose name contains
// query. The query is matched as given, surrounding spaces included; a blank
// query matches nothing. Unreadable directories are recorded in Result.Skipped and the walk
// carries on. Directories reached twice (symlink loops, bind mounts) are
// entered only once. A cancelled ctx stops the walk; the partial result is
// returned together with ctx.Err().
func (e *Engine) Search(ctx context.Context, root, query string) (Result, error) {
	if ctx == nil {
		ctx = context.Background()
	}

	root = filepath.Clean(root)
	result := Result{Root: root, Query: query, Entries: []fsutil.Entry{}}

	if strings.TrimSpace(query) == "" {
		return result, nil
	}

	start := time.Now()
	w := &walker{
		engine:  e,
		ctx:     ctx,
		matcher: NewMatcher(query, e.opts.CaseInsensitive),
		visited: make(map[string]struct{}),
		result:  &result,
	}
	err := w.walk(root, 0)
	result.Elapsed = time.Since(start)

	e.log.WithFields(logrus.Fields{
		"root":      root,
		"query":     query,
		"results":   len(result.Entries),
		"skipped":   len(result.Skipped),
		"dirs":      result.DirsRead,
		"truncated": result.Truncated,
		"elapsed":   result.Elapsed,
	}).Debug("search finished")

	if errors.Is(err, errLimitReached) {
		err = nil
	}
	return result, err
}

type walker struct {
	engine  *Engine
	ctx     context.Context
	matcher Matcher
	visited map[string]struct{}
	result  *Result
}

var errLimitReached = errors.New("result limit reached")

func (w *walker) walk(dir string, depth int) error {
	if err := w.ctx.Err(); err != nil {
		return err
	}

	key := w.identity(dir)
	if _, seen := w.visited[key]; seen {
		w.engine.log.WithField("path", dir).Debug("directory already visited")
		return nil
	}
	w.visited[key] = struct{}{}

	entries, skipped, err := w.engine.read(dir, fsutil.ListOptions{HideHidden: w.engine.opts.HideHidden})
	if err != nil {
		w.skip(fsutil.Skipped{Path: dir, Err: err})
		return nil
	}
	w.result.DirsRead++
	for _, s := range skipped {
		w.skip(s)
	}

	for _, entry := range entries {
		if err := w.ctx.Err(); err != nil {
			return err
		}

		if entry.IsDir {
			if w.excluded(entry.Name) {
				continue
			}
			if limit := w.engine.opts.MaxDepth; limit > 0 && depth+1 > limit {
				continue
			}
			if err := w.walk(entry.FullPath, depth+1); err != nil {
				return err
			}
			continue
		}

		if !w.matcher.Match(entry.Name) {
			continue
		}
		w.result.Entries = append(w.result.Entries, entry)
		if limit := w.engine.opts.MaxResults; limit > 0 && len(w.result.Entries) >= limit {
			w.result.Truncated = true
			return errLimitReached
		}
	}
	return nil
}

func (w *walker) skip(s fsutil.Skipped) {
	w.result.Skipped = append(w.result.Skipped, s)
	w.engine.log.WithFields(logrus.Fields{"path": s.Path, "error": s.Err}).Debug("skipping unreadable node")
}

func (w *walker) excluded(name string) bool {
	for _, g := range w.engine.exclude {
		if g.Match(name) {
			return true
		}
	}
	return false
}

// identity resolves symlinks so the same directory reached through different
// paths maps to one key.
func (w *walker) identity(dir string) string {
	if resolved, err := w.engine.resolve(dir); err == nil {
		return filepath.Clean(resolved)
	}
	return filepath.Clean(dir)
}
