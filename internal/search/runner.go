package search

import (
	"context"
	"errors"
	"sync"
)

// Runner executes searches on a background goroutine, keeping at most one in
// flight. Starting a search cancels the previous one, and a cancelled or
// superseded search never reports back.
type Runner struct {
	engine *Engine

	mu     sync.Mutex
	cancel context.CancelFunc
	token  int
}

// NewRunner wraps engine.
func NewRunner(engine *Engine) *Runner {
	return &Runner{engine: engine}
}

// Engine returns the wrapped engine.
func (r *Runner) Engine() *Engine {
	return r.engine
}

// Start cancels any ongoing search and launches a new one. callback runs on
// the search goroutine once the walk completes, unless the search was
// cancelled or superseded first. The returned token identifies the search.
func (r *Runner) Start(root, query string, callback func(Result, error)) int {
	r.Cancel()

	ctx, cancel := context.WithCancel(context.Background())
	token := r.setCancel(cancel)

	go func() {
		defer r.clearCancel(token)
		defer cancel()

		result, err := r.engine.Search(ctx, root, query)
		if errors.Is(err, context.Canceled) || ctx.Err() != nil {
			return
		}
		if !r.isTokenCurrent(token) {
			return
		}
		if callback != nil {
			callback(result, err)
		}
	}()

	return token
}

// Cancel stops the in-flight search, if any.
func (r *Runner) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.cancel != nil {
		r.cancel()
		r.cancel = nil
		r.token++
	}
}

// Busy reports whether a search is currently running.
func (r *Runner) Busy() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.cancel != nil
}

func (r *Runner) setCancel(cancel context.CancelFunc) int {
	r.mu.Lock()
	r.token++
	token := r.token
	r.cancel = cancel
	r.mu.Unlock()
	return token
}

func (r *Runner) clearCancel(token int) {
	r.mu.Lock()
	if r.token == token {
		r.cancel = nil
	}
	r.mu.Unlock()
}

func (r *Runner) isTokenCurrent(token int) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.token == token
}
