package app

import (
	"time"

	"github.com/atotto/clipboard"
	"github.com/gdamore/tcell/v2"
	"github.com/kk-code-lab/rbrowse/internal/logging"
	statepkg "github.com/kk-code-lab/rbrowse/internal/state"
	inputui "github.com/kk-code-lab/rbrowse/internal/ui/input"
	renderui "github.com/kk-code-lab/rbrowse/internal/ui/render"
	"github.com/kk-code-lab/rbrowse/internal/watch"
	"github.com/sirupsen/logrus"
)

var clipboardWrite = clipboard.WriteAll

// Options configures an Application.
type Options struct {
	// Screen is the terminal to draw on. Nil opens the real terminal.
	Screen     tcell.Screen
	Controller *statepkg.Controller
	// Watch re-lists the current directory when it changes on disk.
	Watch  bool
	Logger logrus.FieldLogger
}

// Application represents the running app.
type Application struct {
	screen     tcell.Screen
	controller *statepkg.Controller
	view       *statepkg.View
	renderer   *renderui.Renderer
	input      *inputui.InputHandler
	actionCh   chan statepkg.Action
	searchDone chan struct{}
	watcher    *watch.Watcher
	log        logrus.FieldLogger
	shouldQuit bool

	// browseSelected is the listing selection to restore when a search is
	// left.
	browseSelected int

	lastClickIdx  int
	lastClickTime time.Time
}

// NewApplication initialises the screen and wires the front end to the
// controller.
func NewApplication(opts Options) (*Application, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	screen := opts.Screen
	if screen == nil {
		var err error
		screen, err = tcell.NewScreen()
		if err != nil {
			return nil, err
		}
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	// Parse mouse sequences so clicks don't leak as key events.
	screen.EnableMouse()

	w, h := screen.Size()
	view := &statepkg.View{Width: w, Height: h}

	actionCh := make(chan statepkg.Action, 10)
	inputHandler := inputui.NewInputHandler(actionCh)
	inputHandler.SetState(view, opts.Controller)

	app := &Application{
		screen:       screen,
		controller:   opts.Controller,
		view:         view,
		renderer:     renderui.NewRenderer(screen),
		input:        inputHandler,
		actionCh:     actionCh,
		searchDone:   make(chan struct{}, 1),
		log:          logger,
		lastClickIdx: -1,
	}

	if opts.Watch {
		watcher, err := watch.New(opts.Controller.CurrentPath(), logger)
		if err != nil {
			logger.WithError(err).Warn("directory watching disabled")
		} else {
			app.watcher = watcher
		}
	}
	return app, nil
}

// Close cleans up resources.
func (app *Application) Close() error {
	var err error
	if app.watcher != nil {
		err = app.watcher.Close()
	}
	app.screen.Fini()
	return err
}

// GetCurrentPath returns the directory the browser ended in.
func (app *Application) GetCurrentPath() string {
	return app.controller.CurrentPath()
}

// notifySearchDone wakes the event loop after a background search finished.
func (app *Application) notifySearchDone() {
	select {
	case app.searchDone <- struct{}{}:
	default:
	}
}

func (app *Application) watcherEvents() <-chan struct{} {
	if app.watcher == nil {
		return nil
	}
	return app.watcher.Events()
}

// syncWatcher points the watcher at the current directory.
func (app *Application) syncWatcher() {
	if app.watcher == nil {
		return
	}
	current := app.controller.CurrentPath()
	if app.watcher.Path() == current {
		return
	}
	_ = app.watcher.SetPath(current)
}

func (app *Application) render() {
	snap := app.controller.Snapshot()
	app.view.Clamp(len(snap.Entries()))
	app.renderer.Render(snap, app.view)
}
