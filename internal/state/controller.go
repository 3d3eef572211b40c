package state

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"

	fsutil "github.com/kk-code-lab/rbrowse/internal/fs"
	"github.com/kk-code-lab/rbrowse/internal/logging"
	"github.com/kk-code-lab/rbrowse/internal/search"
	"github.com/sirupsen/logrus"
)

var (
	getwdFn       = os.Getwd
	userHomeDirFn = os.UserHomeDir
)

// Mode selects which entry set the front end renders.
type Mode int

const (
	ModeBrowsing Mode = iota
	ModeSearching
)

func (m Mode) String() string {
	switch m {
	case ModeSearching:
		return "search"
	default:
		return "browse"
	}
}

// Snapshot is a copy of the navigation state. It shares nothing with the
// Controller and may be read freely.
type Snapshot struct {
	CurrentPath    string
	Listing        []fsutil.Entry
	ListingSkipped []fsutil.Skipped

	SearchQuery      string
	SearchResults    []fsutil.Entry
	SearchSkipped    []fsutil.Skipped
	SearchTruncated  bool
	SearchInProgress bool

	Mode            Mode
	HideHidden      bool
	CaseInsensitive bool
}

// Entries returns the entries the current mode displays.
func (s Snapshot) Entries() []fsutil.Entry {
	if s.Mode == ModeSearching {
		return s.SearchResults
	}
	return s.Listing
}

// Skipped returns the diagnostics belonging to Entries.
func (s Snapshot) Skipped() []fsutil.Skipped {
	if s.Mode == ModeSearching {
		return s.SearchSkipped
	}
	return s.ListingSkipped
}

// FileOpener launches a file with its default application.
type FileOpener interface {
	Open(path string) error
}

// Options configures a Controller.
type Options struct {
	// StartPath is the initial directory. Empty falls back to the working
	// directory, then the home directory, then the filesystem root.
	StartPath  string
	HideHidden bool
	Search     search.Options
	Opener     FileOpener
	Logger     logrus.FieldLogger
}

// Controller owns the navigation state: the current directory, its listing,
// and the last search. All methods are safe for concurrent use.
type Controller struct {
	mu    sync.RWMutex
	state Snapshot

	searchOpts search.Options
	engine     *search.Engine
	runner     *search.Runner
	// generation is bumped by every operation that invalidates in-flight
	// search results.
	generation int

	opener FileOpener
	log    logrus.FieldLogger

	list func(path string, opts fsutil.ListOptions) fsutil.Listing
	stat func(path string) (os.FileInfo, error)
}

// NewController resolves the start directory and loads its listing.
func NewController(opts Options) (*Controller, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	searchOpts := opts.Search
	searchOpts.HideHidden = opts.HideHidden
	engine, err := search.NewEngine(searchOpts, logger)
	if err != nil {
		return nil, err
	}

	c := &Controller{
		searchOpts: searchOpts,
		engine:     engine,
		runner:     search.NewRunner(engine),
		opener:     opts.Opener,
		log:        logger,
		list:       fsutil.List,
		stat:       os.Stat,
	}
	c.state.HideHidden = opts.HideHidden
	c.state.CaseInsensitive = searchOpts.CaseInsensitive

	start, err := c.resolveStart(opts.StartPath)
	if err != nil {
		return nil, err
	}
	c.state.CurrentPath = start
	c.applyListing(c.list(start, fsutil.ListOptions{HideHidden: opts.HideHidden}))
	c.log.WithField("path", start).Info("browser started")
	return c, nil
}

func (c *Controller) resolveStart(configured string) (string, error) {
	if configured != "" {
		path, err := filepath.Abs(configured)
		if err != nil {
			return "", &NavigationError{Op: "start", Path: configured, Err: err}
		}
		if err := c.checkDir("start", path); err != nil {
			return "", err
		}
		return path, nil
	}

	var candidates []string
	if cwd, err := getwdFn(); err == nil {
		candidates = append(candidates, cwd)
	}
	if home, err := userHomeDirFn(); err == nil {
		candidates = append(candidates, home)
	}
	for _, candidate := range candidates {
		path := filepath.Clean(candidate)
		if c.checkDir("start", path) == nil {
			return path, nil
		}
	}
	return filesystemRoot(), nil
}

func filesystemRoot() string {
	if cwd, err := getwdFn(); err == nil {
		if vol := filepath.VolumeName(cwd); vol != "" {
			return vol + string(filepath.Separator)
		}
	}
	return string(filepath.Separator)
}

func (c *Controller) checkDir(op, path string) error {
	info, err := c.stat(path)
	if err != nil {
		return &NavigationError{Op: op, Path: path, Err: err}
	}
	if !info.IsDir() {
		return &NavigationError{Op: op, Path: path, Err: ErrNotDirectory}
	}
	return nil
}

// Snapshot returns a copy of the current state.
func (c *Controller) Snapshot() Snapshot {
	c.mu.RLock()
	defer c.mu.RUnlock()

	snap := c.state
	snap.Listing = append([]fsutil.Entry(nil), c.state.Listing...)
	snap.ListingSkipped = append([]fsutil.Skipped(nil), c.state.ListingSkipped...)
	snap.SearchResults = append([]fsutil.Entry(nil), c.state.SearchResults...)
	snap.SearchSkipped = append([]fsutil.Skipped(nil), c.state.SearchSkipped...)
	return snap
}

// Mode reports the current mode.
func (c *Controller) Mode() Mode {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.Mode
}

// CurrentPath reports the current directory.
func (c *Controller) CurrentPath() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state.CurrentPath
}

// Enter makes target the current directory. Relative targets are resolved
// against the current directory. If target is not an existing directory the
// state is left untouched and a *NavigationError is returned.
func (c *Controller) Enter(target string) error {
	return c.enter("enter", target)
}

func (c *Controller) enter(op, target string) error {
	c.mu.RLock()
	current := c.state.CurrentPath
	hide := c.state.HideHidden
	c.mu.RUnlock()

	if !filepath.IsAbs(target) {
		target = filepath.Join(current, target)
	}
	target = filepath.Clean(target)
	if err := c.checkDir(op, target); err != nil {
		c.log.WithFields(logrus.Fields{"path": target, "error": err}).Info("navigation rejected")
		return err
	}

	listing := c.list(target, fsutil.ListOptions{HideHidden: hide})

	c.mu.Lock()
	c.invalidateSearchLocked()
	c.state.CurrentPath = target
	c.applyListing(listing)
	c.state.Mode = ModeBrowsing
	c.state.SearchQuery = ""
	c.state.SearchResults = nil
	c.state.SearchSkipped = nil
	c.state.SearchTruncated = false
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"path":    target,
		"entries": len(listing.Entries),
		"skipped": len(listing.Skipped),
	}).Info("entered directory")
	return nil
}

// Up moves to the parent directory. At a filesystem root it returns false
// and changes nothing.
func (c *Controller) Up() (bool, error) {
	current := c.CurrentPath()
	parent := filepath.Dir(current)
	if parent == current {
		return false, nil
	}
	if err := c.enter("up", parent); err != nil {
		return false, err
	}
	return true, nil
}

// GoHome enters the user's home directory.
func (c *Controller) GoHome() error {
	home, err := userHomeDirFn()
	if err != nil {
		return &NavigationError{Op: "home", Path: "~", Err: err}
	}
	return c.enter("home", home)
}

// SetSearchQuery stores q for the next RunSearch or StartSearch. A blank
// query returns to browsing at once.
func (c *Controller) SetSearchQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(q) == "" {
		c.clearSearchLocked()
		return
	}
	c.state.SearchQuery = q
}

// RunSearch searches the current directory's subtree for the stored query
// and blocks until the walk ends. An empty query returns to browsing. If the
// context is cancelled the previous state is kept and ctx.Err() returned.
func (c *Controller) RunSearch(ctx context.Context) error {
	c.mu.Lock()
	query := c.state.SearchQuery
	if strings.TrimSpace(query) == "" {
		c.clearSearchLocked()
		c.mu.Unlock()
		return nil
	}
	gen := c.generation
	root := c.state.CurrentPath
	engine := c.engine
	c.mu.Unlock()

	result, err := engine.Search(ctx, root, query)
	if err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if gen != c.generation {
		return nil
	}
	c.invalidateSearchLocked()
	c.applySearchLocked(result)
	return nil
}

// StartSearch is RunSearch on a background goroutine. The state switches to
// searching right away with SearchInProgress set. onDone runs after the
// results are applied; results superseded by a newer search or a navigation
// are dropped and onDone is not called. It returns false when the query is
// empty and no search was started.
func (c *Controller) StartSearch(onDone func()) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	query := c.state.SearchQuery
	if strings.TrimSpace(query) == "" {
		c.clearSearchLocked()
		return false
	}

	c.invalidateSearchLocked()
	gen := c.generation
	c.state.Mode = ModeSearching
	c.state.SearchInProgress = true
	c.state.SearchResults = []fsutil.Entry{}
	c.state.SearchSkipped = nil
	c.state.SearchTruncated = false

	c.runner.Start(c.state.CurrentPath, query, func(result search.Result, err error) {
		c.mu.Lock()
		if gen != c.generation {
			c.mu.Unlock()
			return
		}
		if err != nil {
			c.log.WithFields(logrus.Fields{"query": query, "error": err}).Warn("search failed")
		}
		c.applySearchLocked(result)
		c.mu.Unlock()

		if onDone != nil {
			onDone()
		}
	})
	return true
}

// ClearSearch returns to browsing and drops the query and results.
func (c *Controller) ClearSearch() {
	c.mu.Lock()
	c.clearSearchLocked()
	c.mu.Unlock()
}

// Refresh re-lists the current directory. The mode is kept.
func (c *Controller) Refresh() {
	c.mu.RLock()
	path := c.state.CurrentPath
	hide := c.state.HideHidden
	c.mu.RUnlock()

	listing := c.list(path, fsutil.ListOptions{HideHidden: hide})

	c.mu.Lock()
	// A navigation that raced with the read wins.
	if c.state.CurrentPath == path {
		c.applyListing(listing)
	}
	c.mu.Unlock()

	c.log.WithFields(logrus.Fields{
		"path":    path,
		"entries": len(listing.Entries),
		"skipped": len(listing.Skipped),
	}).Debug("refreshed listing")
}

// Open hands a file to the default application. Directories are rejected
// with ErrIsDirectory; use Enter for them.
func (c *Controller) Open(entry fsutil.Entry) error {
	path := entry.FullPath
	info, err := c.stat(path)
	if err != nil {
		return &NavigationError{Op: "open", Path: path, Err: err}
	}
	if info.IsDir() {
		return &NavigationError{Op: "open", Path: path, Err: ErrIsDirectory}
	}
	if c.opener == nil {
		return &NavigationError{Op: "open", Path: path, Err: errNoOpener}
	}
	if err := c.opener.Open(path); err != nil {
		c.log.WithFields(logrus.Fields{"path": path, "error": err}).Warn("open failed")
		return &NavigationError{Op: "open", Path: path, Err: err}
	}
	c.log.WithField("path", path).Info("opened file")
	return nil
}

// SetHideHidden toggles hidden-entry filtering for listings and searches.
// The current directory is re-listed and any search is cleared.
func (c *Controller) SetHideHidden(hide bool) error {
	c.mu.Lock()
	opts := c.searchOpts
	opts.HideHidden = hide
	engine, err := search.NewEngine(opts, c.log)
	if err != nil {
		c.mu.Unlock()
		return err
	}
	c.clearSearchLocked()
	c.searchOpts = opts
	c.engine = engine
	c.runner = search.NewRunner(engine)
	c.state.HideHidden = hide
	c.mu.Unlock()

	c.Refresh()
	return nil
}

// Reduce applies a controller action.
func (c *Controller) Reduce(action Action) error {
	switch a := action.(type) {
	case EnterAction:
		return c.Enter(a.Path)
	case GoUpAction:
		_, err := c.Up()
		return err
	case GoHomeAction:
		return c.GoHome()
	case SetSearchQueryAction:
		c.SetSearchQuery(a.Query)
	case RunSearchAction:
		return c.RunSearch(context.Background())
	case StartSearchAction:
		c.StartSearch(a.OnDone)
	case ClearSearchAction:
		c.ClearSearch()
	case RefreshAction:
		c.Refresh()
	case OpenAction:
		return c.Open(a.Entry)
	case ToggleHiddenAction:
		c.mu.RLock()
		hide := !c.state.HideHidden
		c.mu.RUnlock()
		return c.SetHideHidden(hide)
	}
	return nil
}

func (c *Controller) applyListing(listing fsutil.Listing) {
	entries := append([]fsutil.Entry(nil), listing.Entries...)
	fsutil.SortEntries(entries)
	c.state.Listing = entries
	c.state.ListingSkipped = listing.Skipped
}

func (c *Controller) applySearchLocked(result search.Result) {
	c.state.Mode = ModeSearching
	c.state.SearchInProgress = false
	c.state.SearchResults = result.Entries
	c.state.SearchSkipped = result.Skipped
	c.state.SearchTruncated = result.Truncated
}

func (c *Controller) clearSearchLocked() {
	c.invalidateSearchLocked()
	c.state.Mode = ModeBrowsing
	c.state.SearchQuery = ""
	c.state.SearchResults = nil
	c.state.SearchSkipped = nil
	c.state.SearchTruncated = false
}

func (c *Controller) invalidateSearchLocked() {
	c.generation++
	c.runner.Cancel()
	c.state.SearchInProgress = false
}
