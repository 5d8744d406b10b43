// Package router hashes a client id to a shard index and forwards
// transactions onto that shard's bounded queue, providing the
// per-client ordering guarantee the dispute state machine depends on
// (spec §4.5, §9).
package router

import (
	"context"

	"github.com/LeJamon/goPayproc/internal/core/errs"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// Router owns the bounded per-shard queues and performs the
// client-to-shard partitioning. Partitioning is `client mod N`, which is
// stable and pure in the client id, so a given client is always handled
// by exactly one worker (spec §4.4, §9).
type Router struct {
	queues []chan txtypes.Transaction
	closed chan struct{}
}

// New returns a Router fanning out over len(queues) shard queues. The
// caller (Engine) owns queue lifetime; Router only ever sends.
func New(queues []chan txtypes.Transaction) *Router {
	return &Router{queues: queues, closed: make(chan struct{})}
}

// Queues returns the underlying shard queues, for the Engine to close
// once every producer has stopped submitting.
func (r *Router) Queues() []chan txtypes.Transaction {
	return r.queues
}

// ShardIndex returns the shard a client is routed to.
func (r *Router) ShardIndex(client txtypes.ClientId) int {
	return int(client) % len(r.queues)
}

// Submit enqueues tx onto its shard's queue, blocking for capacity if the
// queue is full (backpressure). It returns ErrEngineClosed immediately,
// without enqueuing, once Close has been called.
func (r *Router) Submit(ctx context.Context, tx txtypes.Transaction) error {
	select {
	case <-r.closed:
		return errs.ErrEngineClosed
	default:
	}

	queue := r.queues[r.ShardIndex(tx.Client)]
	select {
	case queue <- tx:
		return nil
	case <-r.closed:
		return errs.ErrEngineClosed
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close signals that no further Submit calls will be honored. It does
// not close the underlying shard queues; that is the Engine's job once
// every producer has stopped submitting.
func (r *Router) Close() {
	select {
	case <-r.closed:
	default:
		close(r.closed)
	}
}
