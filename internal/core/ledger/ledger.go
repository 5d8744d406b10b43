// Package ledger implements the per-shard transaction ledger: the
// mapping from TxId to a recorded Deposit/Withdrawal entry and its
// dispute lifecycle state.
package ledger

import (
	"github.com/LeJamon/goPayproc/internal/core/errs"
	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// Entry is a recorded Deposit or Withdrawal. Only these two kinds are
// ever recorded; Dispute/Resolve/Chargeback reference an existing Entry
// rather than creating one.
type Entry struct {
	Client       txtypes.ClientId
	Kind         txtypes.TxKind
	Amount       money.Money
	DisputeState txtypes.DisputeState
}

// Ledger maps TxId to its recorded Entry, scoped to a single shard.
type Ledger struct {
	entries map[txtypes.TxId]*Entry
}

// New returns an empty Ledger.
func New() *Ledger {
	return &Ledger{entries: make(map[txtypes.TxId]*Entry)}
}

// Record inserts a fresh entry with DisputeState = None. It fails with
// ErrDuplicateTx if txID is already recorded; callers must discard the
// transaction on that error rather than mutate the account (spec §4.4).
func (l *Ledger) Record(txID txtypes.TxId, client txtypes.ClientId, kind txtypes.TxKind, amount money.Money) error {
	if _, exists := l.entries[txID]; exists {
		return errs.ErrDuplicateTx
	}
	l.entries[txID] = &Entry{Client: client, Kind: kind, Amount: amount, DisputeState: txtypes.None}
	return nil
}

// Unrecord removes a just-inserted entry. Used to roll back a Record
// call when the account-side mutation that should immediately follow it
// fails (spec §4.4: "on failure rollback the ledger insertion").
func (l *Ledger) Unrecord(txID txtypes.TxId) {
	delete(l.entries, txID)
}

// Lookup returns the entry for txID, or ErrNotFound.
func (l *Ledger) Lookup(txID txtypes.TxId) (*Entry, error) {
	e, ok := l.entries[txID]
	if !ok {
		return nil, errs.ErrNotFound
	}
	return e, nil
}

// legalTransitions enumerates the only allowed DisputeState transitions
// (spec §4.3). Any transition not listed here is rejected.
var legalTransitions = map[txtypes.DisputeState]map[txtypes.DisputeState]bool{
	txtypes.None:     {txtypes.Disputed: true},
	txtypes.Disputed: {txtypes.None: true, txtypes.ChargedBack: true},
}

// SetDisputeState transitions entry's dispute state, enforcing the legal
// transition table. It rejects any transition not reachable from the
// entry's current state.
func (l *Ledger) SetDisputeState(txID txtypes.TxId, next txtypes.DisputeState) error {
	e, ok := l.entries[txID]
	if !ok {
		return errs.ErrNotFound
	}
	if !legalTransitions[e.DisputeState][next] {
		return errs.ErrInvalidDisputeState
	}
	e.DisputeState = next
	return nil
}
