package worker

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/lgbarn/chessrules-go/internal/engine"
	"github.com/lgbarn/chessrules-go/internal/errors"
	"github.com/lgbarn/chessrules-go/internal/testutil"
)

// noopProcessFunc returns a process function that does nothing.
func noopProcessFunc() ProcessFunc {
	return func(item Item) Result {
		return Result{Index: item.Index}
	}
}

// countingProcessFunc returns a process function that increments a counter.
func countingProcessFunc(counter *int32) ProcessFunc {
	return func(item Item) Result {
		atomic.AddInt32(counter, 1)
		return Result{Index: item.Index}
	}
}

// collectResults drains the result channel and returns the count.
func collectResults(pool *Pool) int {
	count := 0
	for range pool.Results() {
		count++
	}
	return count
}

// TestPoolBasic tests basic worker pool functionality.
func TestPoolBasic(t *testing.T) {
	var processed int32
	pool := NewPool(countingProcessFunc(&processed), WithWorkers(4))
	pool.Start()

	const numItems = 10
	go func() {
		for i := 0; i < numItems; i++ {
			pool.Submit(Item{Index: i})
		}
		pool.Close()
	}()

	if got := collectResults(pool); got != numItems {
		t.Errorf("results = %d; want %d", got, numItems)
	}
	if got := atomic.LoadInt32(&processed); got != numItems {
		t.Errorf("processed = %d; want %d", got, numItems)
	}
}

// TestPoolStop tests that a stopped pool drains without processing.
func TestPoolStop(t *testing.T) {
	var processed int32
	pool := NewPool(countingProcessFunc(&processed), WithBufferSize(20))
	pool.Stop()
	for i := 0; i < 5; i++ {
		pool.Submit(Item{Index: i})
	}
	pool.Start()
	go pool.Close()

	if got := collectResults(pool); got != 0 {
		t.Errorf("results = %d; want 0", got)
	}
	if pool.TrySubmit(Item{}) {
		t.Error("TrySubmit after Stop should return false")
	}
}

// TestPoolTrySubmit tests non-blocking submission.
func TestPoolTrySubmit(t *testing.T) {
	pool := NewPool(noopProcessFunc(), WithBufferSize(2))
	if !pool.TrySubmit(Item{Index: 0}) || !pool.TrySubmit(Item{Index: 1}) {
		t.Fatal("TrySubmit should succeed while buffer has room")
	}
	if pool.TrySubmit(Item{Index: 2}) {
		t.Error("TrySubmit should fail with no workers and a full buffer")
	}
	pool.Start()
	go pool.Close()
	collectResults(pool)
}

// TestNewPoolOptions tests the functional options.
func TestNewPoolOptions(t *testing.T) {
	tests := []struct {
		name        string
		opts        []PoolOption
		wantWorkers int
		wantBuffer  int
	}{
		{"defaults", nil, 1, 10},
		{"with workers", []PoolOption{WithWorkers(4)}, 4, 10},
		{"with buffer size", []PoolOption{WithBufferSize(50)}, 1, 50},
		{"invalid values ignored", []PoolOption{WithWorkers(0), WithBufferSize(-1)}, 1, 10},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pool := NewPool(noopProcessFunc(), tt.opts...)
			testutil.AssertEqual(t, pool.NumWorkers(), tt.wantWorkers)
			testutil.AssertEqual(t, pool.bufferSize, tt.wantBuffer)
		})
	}
}

func TestReplay(t *testing.T) {
	tests := []struct {
		name    string
		item    Item
		played  int
		code    engine.Code
		errIs   error
		status  engine.Status
		gameNil bool
	}{
		{
			name:   "scholar's mate",
			item:   Item{Moves: []string{"e4", "e5", "Bc4", "Nc6", "Qh5", "Nf6", "Qxf7#"}},
			played: 7,
			code:   engine.Legal,
			status: engine.WhiteWinsCheckmate,
		},
		{
			name:   "coordinate moves from FEN",
			item:   Item{FEN: "r3k2r/8/8/8/8/8/8/R3K2R w KQkq - 0 1", Moves: []string{"e1g1", "O-O-O"}},
			played: 2,
			code:   engine.Legal,
			status: engine.WhiteToMove,
		},
		{
			name:   "illegal move",
			item:   Item{Moves: []string{"e4", "e5", "Ke3"}},
			played: 2,
			code:   engine.MoveIllegal,
			errIs:  errors.ErrIllegalMove,
			status: engine.WhiteToMove,
		},
		{
			name:   "parse failure",
			item:   Item{Moves: []string{"e4", "??"}},
			played: 1,
			code:   engine.MoveIllegal,
			errIs:  errors.ErrParseFailure,
			status: engine.BlackToMove,
		},
		{
			name:    "bad FEN",
			item:    Item{FEN: "8/8/8 w - - 0 1"},
			code:    engine.Legal,
			errIs:   errors.ErrInvalidFEN,
			gameNil: true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := Replay(tt.item)
			testutil.AssertEqual(t, res.Played, tt.played, "played")
			testutil.AssertEqual(t, res.Code, tt.code, "code")
			if tt.errIs == nil {
				testutil.AssertNoError(t, res.Err)
			} else {
				testutil.AssertErrorIs(t, res.Err, tt.errIs)
			}
			testutil.AssertEqual(t, res.Game == nil, tt.gameNil, "game nil")
			if !tt.gameNil {
				testutil.AssertEqual(t, res.Game.Status(), tt.status, "status")
			}
		})
	}
}

func TestRunKeepsSubmissionOrder(t *testing.T) {
	var items []Item
	for i := 0; i < 20; i++ {
		moves := []string{"e4"}
		if i%2 == 0 {
			moves = append(moves, "e5", "Nf3", "Nc6", "Bb5", "a6")
		}
		items = append(items, Item{Index: 99, Name: string(rune('a' + i)), Moves: moves})
	}

	results := Run(context.Background(), items, WithWorkers(4), WithBufferSize(3))
	testutil.AssertEqual(t, len(results), len(items))
	for i, r := range results {
		testutil.AssertEqual(t, r.Index, i)
		testutil.AssertEqual(t, r.Name, items[i].Name)
		testutil.AssertNoError(t, r.Err)
		testutil.AssertEqual(t, r.Played, len(items[i].Moves))
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	items := make([]Item, 30)
	results := Run(ctx, items, WithBufferSize(1))
	testutil.AssertEqual(t, len(results), 30)

	for i, r := range results {
		testutil.AssertEqual(t, r.Index, i)
		testutil.AssertTrue(t, r.Game == nil, "item %d replayed after cancel", i)
		testutil.AssertErrorIs(t, r.Err, context.Canceled)
	}
}

func TestRunNoRace(t *testing.T) {
	items := make([]Item, 100)
	for i := range items {
		items[i].Moves = []string{"d4", "d5", "c4"}
	}
	start := time.Now()
	results := Run(context.Background(), items, WithWorkers(8))
	for _, r := range results {
		testutil.AssertEqual(t, r.Game.Ply(), 3)
	}
	if time.Since(start) > 30*time.Second {
		t.Errorf("replay took %v", time.Since(start))
	}
}

func TestReplayLoadError(t *testing.T) {
	res := Replay(Item{Name: "missing.txt", Err: context.DeadlineExceeded})
	testutil.AssertErrorIs(t, res.Err, context.DeadlineExceeded)
	testutil.AssertTrue(t, res.Game == nil)
	testutil.AssertContains(t, res.Err.Error(), "missing.txt")
}
