// Package shard implements the single-writer ShardState worker: one
// worker owns one ShardState (an account map plus a transaction ledger)
// and applies transactions to it sequentially, in arrival order, with no
// locking of the state itself (spec §4.4, §5).
package shard

import (
	"log"
	"sort"

	"github.com/LeJamon/goPayproc/internal/core/account"
	"github.com/LeJamon/goPayproc/internal/core/errs"
	"github.com/LeJamon/goPayproc/internal/core/ledger"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// State is one shard's account map and transaction ledger. It is owned
// exclusively by a single Worker goroutine; nothing else may touch it
// while the worker is running.
type State struct {
	accounts map[txtypes.ClientId]*account.Account
	ledger   *ledger.Ledger
}

// NewState returns an empty shard state.
func NewState() *State {
	return &State{
		accounts: make(map[txtypes.ClientId]*account.Account),
		ledger:   ledger.New(),
	}
}

// Snapshot is the final per-client view emitted after Engine.Finalize.
type Snapshot struct {
	Client    txtypes.ClientId
	Available int64 // Money.Units()
	Held      int64
	Total     int64
	Locked    bool
}

// Snapshots returns every account this shard ever mutated, in ascending
// client-id order (spec §4.6).
func (s *State) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(s.accounts))
	for client, a := range s.accounts {
		total, err := a.Total()
		if err != nil {
			// Total overflow is not reachable in practice (Available and
			// Held are each checked on every mutation); fall back to
			// Available rather than drop the row.
			total = a.Available
		}
		out = append(out, Snapshot{
			Client:    client,
			Available: a.Available.Units(),
			Held:      a.Held.Units(),
			Total:     total.Units(),
			Locked:    a.Locked,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Client < out[j].Client })
	return out
}

// Apply dispatches a single transaction against the shard state,
// following the per-kind rules of spec §4.4. It never returns an error
// that should abort the stream: every returned error is one of the
// recovered kinds in errs, meant for the caller to log and continue.
func (s *State) Apply(t txtypes.Transaction) error {
	switch t.Kind {
	case txtypes.Deposit:
		return s.applyDeposit(t)
	case txtypes.Withdrawal:
		return s.applyWithdrawal(t)
	case txtypes.Dispute:
		return s.applyDispute(t)
	case txtypes.Resolve:
		return s.applyResolve(t)
	case txtypes.Chargeback:
		return s.applyChargeback(t)
	default:
		return errs.ErrParse
	}
}

func (s *State) applyDeposit(t txtypes.Transaction) error {
	a, ok := s.accounts[t.Client]
	if !ok {
		a = &account.Account{}
	}
	if a.Locked {
		return errs.ErrAccountLocked
	}
	if err := s.ledger.Record(t.Tx, t.Client, txtypes.Deposit, t.Amount); err != nil {
		return err
	}
	if err := a.Deposit(t.Amount); err != nil {
		s.ledger.Unrecord(t.Tx)
		return err
	}
	// The account is created only once its first deposit has succeeded.
	s.accounts[t.Client] = a
	return nil
}

func (s *State) applyWithdrawal(t txtypes.Transaction) error {
	a, ok := s.accounts[t.Client]
	if !ok || a.Locked {
		return errs.ErrAccountLocked
	}
	if err := a.Withdraw(t.Amount); err != nil {
		return err
	}
	if err := s.ledger.Record(t.Tx, t.Client, txtypes.Withdrawal, t.Amount); err != nil {
		// Roll back the withdrawal; the duplicate tx never happened.
		if restored, restoreErr := a.Available.Add(t.Amount); restoreErr == nil {
			a.Available = restored
		}
		return err
	}
	return nil
}

func (s *State) applyDispute(t txtypes.Transaction) error {
	a, ok := s.accounts[t.Client]
	if !ok {
		return errs.ErrNotFound
	}
	entry, err := s.ledger.Lookup(t.Tx)
	if err != nil {
		return err
	}
	if entry.Client != t.Client {
		return errs.ErrClientMismatch
	}
	if a.Locked {
		return errs.ErrAccountLocked
	}
	if err := s.ledger.SetDisputeState(t.Tx, txtypes.Disputed); err != nil {
		return err
	}
	if err := a.Dispute(*entry); err != nil {
		return err
	}
	return nil
}

func (s *State) applyResolve(t txtypes.Transaction) error {
	a, ok := s.accounts[t.Client]
	if !ok {
		return errs.ErrNotFound
	}
	entry, err := s.ledger.Lookup(t.Tx)
	if err != nil {
		return err
	}
	if entry.Client != t.Client {
		return errs.ErrClientMismatch
	}
	if entry.DisputeState != txtypes.Disputed {
		return errs.ErrInvalidDisputeState
	}
	if a.Locked {
		return errs.ErrAccountLocked
	}
	if err := s.ledger.SetDisputeState(t.Tx, txtypes.None); err != nil {
		return err
	}
	return a.Resolve(*entry)
}

func (s *State) applyChargeback(t txtypes.Transaction) error {
	a, ok := s.accounts[t.Client]
	if !ok {
		return errs.ErrNotFound
	}
	entry, err := s.ledger.Lookup(t.Tx)
	if err != nil {
		return err
	}
	if entry.Client != t.Client {
		return errs.ErrClientMismatch
	}
	if entry.DisputeState != txtypes.Disputed {
		return errs.ErrInvalidDisputeState
	}
	if a.Locked {
		return errs.ErrAccountLocked
	}
	if err := s.ledger.SetDisputeState(t.Tx, txtypes.ChargedBack); err != nil {
		return err
	}
	return a.Chargeback(*entry)
}

// Worker drains a single shard's inbound queue in arrival order,
// applying each transaction to its State. It never blocks on another
// shard (spec §4.4, §5).
type Worker struct {
	State  *State
	Queue  <-chan txtypes.Transaction
	Logger *log.Logger
}

// NewWorker returns a Worker over state, reading from queue. A nil
// logger falls back to log.Default(), matching the teacher's injectable
// *log.Logger convention.
func NewWorker(state *State, queue <-chan txtypes.Transaction, logger *log.Logger) *Worker {
	if logger == nil {
		logger = log.Default()
	}
	return &Worker{State: state, Queue: queue, Logger: logger}
}

// Run drains the queue until it is closed, applying every transaction in
// order. Per-transaction errors are recovered: logged and skipped, never
// propagated. Run itself only returns an error if the goroutine running
// it needs to report a genuine failure to its errgroup; in the streaming
// core that never happens, so Run always returns nil.
func (w *Worker) Run() error {
	for t := range w.Queue {
		if err := w.State.Apply(t); err != nil {
			w.Logger.Printf("skip: client=%d tx=%d kind=%s: %v", t.Client, t.Tx, t.Kind, err)
		}
	}
	return nil
}
