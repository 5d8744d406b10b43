// Package txtypes defines the shared wire-level vocabulary of the
// payments core: client and transaction identifiers, transaction kinds,
// and the dispute-state enum threaded through the ledger and account
// state machines.
package txtypes

import "github.com/LeJamon/goPayproc/internal/core/money"

// ClientId identifies an account holder.
type ClientId uint16

// TxId identifies a transaction. It is expected, not required, to be
// globally unique across the input; the ledger enforces uniqueness on
// insertion (see ledger.Ledger.Record).
type TxId uint32

// TxKind tags the variant of a Transaction.
type TxKind int

const (
	Deposit TxKind = iota
	Withdrawal
	Dispute
	Resolve
	Chargeback
)

func (k TxKind) String() string {
	switch k {
	case Deposit:
		return "deposit"
	case Withdrawal:
		return "withdrawal"
	case Dispute:
		return "dispute"
	case Resolve:
		return "resolve"
	case Chargeback:
		return "chargeback"
	default:
		return "unknown"
	}
}

// Transaction is a single validated input record. Amount is only
// meaningful for Deposit/Withdrawal and is the zero value otherwise.
type Transaction struct {
	Kind   TxKind
	Client ClientId
	Tx     TxId
	Amount money.Money
}

// DisputeState is the lifecycle state of a recorded ledger entry.
type DisputeState int

const (
	// None is the initial state of every recorded entry.
	None DisputeState = iota
	// Disputed means funds have been moved to held pending resolution.
	Disputed
	// ChargedBack is terminal: the dispute resolved against the client.
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case None:
		return "none"
	case Disputed:
		return "disputed"
	case ChargedBack:
		return "charged_back"
	default:
		return "unknown"
	}
}
