// Package worker replays independent games in parallel. Each item gets its
// own engine.Game, so workers share no game state.
package worker

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/lgbarn/chessrules-go/internal/engine"
)

// Item is one game to replay.
type Item struct {
	Index int    // Submission index, preserved in the result
	Name  string // Source label, e.g. a file name
	FEN   string // Start position; empty is the standard one
	Moves []string

	// Err is a failure loading the item. Replay reports it unplayed.
	Err error
}

// Result is the outcome of replaying an item.
type Result struct {
	Index int
	Name  string
	Game  *engine.Game // Final game; nil if the start position was invalid

	// Played counts the moves applied before any failure.
	Played int

	// Code is the rejection code of the failing move, Legal otherwise.
	Code engine.Code
	Err  error
}

// OK reports whether every move was played.
func (r Result) OK() bool {
	return r.Err == nil
}

// ProcessFunc processes one item.
type ProcessFunc func(item Item) Result

// Pool manages a pool of workers for parallel replay.
type Pool struct {
	numWorkers  int
	bufferSize  int
	workChan    chan Item
	resultChan  chan Result
	processFunc ProcessFunc
	wg          sync.WaitGroup
	stopped     atomic.Bool
}

// PoolOption configures a Pool.
type PoolOption func(*Pool)

// WithWorkers sets the number of worker goroutines.
func WithWorkers(n int) PoolOption {
	return func(p *Pool) {
		if n >= 1 {
			p.numWorkers = n
		}
	}
}

// WithBufferSize sets the channel buffer size.
func WithBufferSize(size int) PoolOption {
	return func(p *Pool) {
		if size >= 1 {
			p.bufferSize = size
		}
	}
}

// NewPool creates a pool running processFunc. Default: 1 worker, buffer
// size of 10.
func NewPool(processFunc ProcessFunc, opts ...PoolOption) *Pool {
	p := &Pool{
		numWorkers:  1,
		bufferSize:  10,
		processFunc: processFunc,
	}
	for _, opt := range opts {
		opt(p)
	}
	p.workChan = make(chan Item, p.bufferSize)
	p.resultChan = make(chan Result, p.bufferSize)
	return p
}

// Start starts the worker goroutines.
func (p *Pool) Start() {
	for i := 0; i < p.numWorkers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for item := range p.workChan {
		if p.IsStopped() {
			continue // drain
		}
		p.resultChan <- p.processFunc(item)
	}
}

// Submit submits an item. It blocks while the work buffer is full.
func (p *Pool) Submit(item Item) {
	p.workChan <- item
}

// TrySubmit submits without blocking. It returns false if the buffer is
// full or the pool is stopped.
func (p *Pool) TrySubmit(item Item) bool {
	if p.IsStopped() {
		return false
	}
	select {
	case p.workChan <- item:
		return true
	default:
		return false
	}
}

// Stop makes workers skip the items still queued.
func (p *Pool) Stop() {
	p.stopped.Store(true)
}

// IsStopped returns true if the pool has been stopped.
func (p *Pool) IsStopped() bool {
	return p.stopped.Load()
}

// Close closes the work channel, waits for the workers and then closes the
// result channel.
func (p *Pool) Close() {
	close(p.workChan)
	p.wg.Wait()
	close(p.resultChan)
}

// Results returns the result channel.
func (p *Pool) Results() <-chan Result {
	return p.resultChan
}

// NumWorkers returns the number of workers in the pool.
func (p *Pool) NumWorkers() int {
	return p.numWorkers
}

// Run replays items on a fresh pool and returns the results in submission
// order, overriding each item's Index with its position. Cancelling ctx
// stops the pool; items it never processed come back with a nil Game and
// ctx's error.
func Run(ctx context.Context, items []Item, opts ...PoolOption) []Result {
	p := NewPool(Replay, opts...)
	p.Start()

	go func() {
		defer p.Close()
		for i, item := range items {
			if ctx.Err() != nil {
				p.Stop()
				return
			}
			item.Index = i
			select {
			case <-ctx.Done():
				p.Stop()
				return
			case p.workChan <- item:
			}
		}
	}()

	results := make([]Result, len(items))
	done := make([]bool, len(items))
	for r := range p.Results() {
		results[r.Index] = r
		done[r.Index] = true
	}
	for i := range results {
		if !done[i] {
			results[i] = Result{Index: i, Name: items[i].Name, Code: engine.GameNotActive, Err: ctx.Err()}
		}
	}
	return results
}
