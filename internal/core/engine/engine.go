// Package engine owns the N shards of a payments run: it constructs the
// ShardStates and their bounded queues, spawns one worker per shard
// under an errgroup (the same one-goroutine-per-loop pattern the teacher
// uses in its peer overlay's Run method), and exposes Submit/Finalize/
// Snapshot (spec §4.6).
package engine

import (
	"context"
	"errors"
	"log"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/LeJamon/goPayproc/internal/core/router"
	"github.com/LeJamon/goPayproc/internal/core/shard"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// ErrNotFinalized is returned by Snapshot when called before Finalize.
var ErrNotFinalized = errors.New("engine: snapshot called before finalize")

// DefaultQueueCapacity is the default bounded capacity of each shard's
// inbound queue (spec §4.6).
const DefaultQueueCapacity = 1024

// Config tunes an Engine's shard count and per-shard queue capacity.
type Config struct {
	NumShards     int
	QueueCapacity int
	Logger        *log.Logger
}

// Engine owns every shard's state and worker goroutine for one
// processing run.
type Engine struct {
	shards []*shard.State
	router *router.Router
	group  *errgroup.Group

	finalizeOnce sync.Once
	finalizeErr  error
	finalized    bool
}

// New constructs numShards ShardStates, numShards bounded queues, and
// spawns one worker goroutine per shard. NumShards below 1 is treated as
// 1.
func New(cfg Config) *Engine {
	n := cfg.NumShards
	if n < 1 {
		n = 1
	}
	capacity := cfg.QueueCapacity
	if capacity <= 0 {
		capacity = DefaultQueueCapacity
	}
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}

	queues := make([]chan txtypes.Transaction, n)
	states := make([]*shard.State, n)
	for i := 0; i < n; i++ {
		queues[i] = make(chan txtypes.Transaction, capacity)
		states[i] = shard.NewState()
	}

	g, _ := errgroup.WithContext(context.Background())
	e := &Engine{shards: states, router: router.New(queues), group: g}

	for i := 0; i < n; i++ {
		w := shard.NewWorker(states[i], queues[i], logger)
		g.Go(w.Run)
	}

	return e
}

// Submit routes tx to its shard's queue via the Router. It blocks for
// queue capacity and returns ErrEngineClosed once Finalize has begun.
func (e *Engine) Submit(ctx context.Context, tx txtypes.Transaction) error {
	return e.router.Submit(ctx, tx)
}

// Finalize closes every shard queue and awaits worker completion. It is
// idempotent: subsequent calls return the first call's result.
func (e *Engine) Finalize() error {
	e.finalizeOnce.Do(func() {
		e.router.Close()
		for _, q := range e.router.Queues() {
			close(q)
		}
		e.finalizeErr = e.group.Wait()
		e.finalized = true
	})
	return e.finalizeErr
}

// Snapshot returns the final per-client account view, iterating shards
// in index order then client id ascending within each shard. It is only
// valid to call after Finalize has returned.
func (e *Engine) Snapshot() ([]shard.Snapshot, error) {
	if !e.finalized {
		return nil, ErrNotFinalized
	}
	var out []shard.Snapshot
	for _, s := range e.shards {
		out = append(out, s.Snapshots()...)
	}
	return out, nil
}
