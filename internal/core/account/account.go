// Package account implements the per-client account state machine:
// deposit, withdraw, and the dispute/resolve/chargeback transitions that
// move funds between available and held balances.
package account

import (
	"github.com/LeJamon/goPayproc/internal/core/errs"
	"github.com/LeJamon/goPayproc/internal/core/ledger"
	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// Account holds a single client's balances. Available may go negative
// as a consequence of a chargeback reversing funds already spent
// elsewhere (spec §4.2), and Held is negative while a withdrawal is
// under dispute — both are expected, not invariant violations.
type Account struct {
	Available money.Money
	Held      money.Money
	Locked    bool
}

// Total is the externally reported sum of Available and Held.
func (a Account) Total() (money.Money, error) {
	return a.Available.Add(a.Held)
}

// Deposit credits amount to Available. Precondition: amount must be
// strictly positive (enforced by callers at the input-validation layer).
func (a *Account) Deposit(amount money.Money) error {
	if a.Locked {
		return errs.ErrAccountLocked
	}
	sum, err := a.Available.Add(amount)
	if err != nil {
		return err
	}
	a.Available = sum
	return nil
}

// Withdraw debits amount from Available, failing if funds are
// insufficient.
func (a *Account) Withdraw(amount money.Money) error {
	if a.Locked {
		return errs.ErrAccountLocked
	}
	if a.Available < amount {
		return errs.ErrInsufficientFunds
	}
	diff, err := a.Available.Sub(amount)
	if err != nil {
		return err
	}
	a.Available = diff
	return nil
}

// Dispute moves entry.Amount between Available and Held according to the
// entry's recorded kind: a disputed deposit moves funds out of Available
// into Held; a disputed withdrawal tentatively restores funds to
// Available out of Held (spec §4.2 policy: disputing a withdrawal is
// permitted, not rejected).
func (a *Account) Dispute(entry ledger.Entry) error {
	if a.Locked {
		return errs.ErrAccountLocked
	}
	switch entry.Kind {
	case txtypes.Deposit:
		avail, err := a.Available.Sub(entry.Amount)
		if err != nil {
			return err
		}
		held, err := a.Held.Add(entry.Amount)
		if err != nil {
			return err
		}
		a.Available, a.Held = avail, held
	case txtypes.Withdrawal:
		avail, err := a.Available.Add(entry.Amount)
		if err != nil {
			return err
		}
		held, err := a.Held.Sub(entry.Amount)
		if err != nil {
			return err
		}
		a.Available, a.Held = avail, held
	}
	return nil
}

// Resolve is the inverse of Dispute: it returns entry.Amount to its
// pre-dispute side.
func (a *Account) Resolve(entry ledger.Entry) error {
	if a.Locked {
		return errs.ErrAccountLocked
	}
	switch entry.Kind {
	case txtypes.Deposit:
		avail, err := a.Available.Add(entry.Amount)
		if err != nil {
			return err
		}
		held, err := a.Held.Sub(entry.Amount)
		if err != nil {
			return err
		}
		a.Available, a.Held = avail, held
	case txtypes.Withdrawal:
		avail, err := a.Available.Sub(entry.Amount)
		if err != nil {
			return err
		}
		held, err := a.Held.Add(entry.Amount)
		if err != nil {
			return err
		}
		a.Available, a.Held = avail, held
	}
	return nil
}

// Chargeback discharges Held for entry and locks the account
// permanently. A deposit chargeback removes the held deposit funds; a
// withdrawal chargeback makes the tentative reversal permanent.
func (a *Account) Chargeback(entry ledger.Entry) error {
	if a.Locked {
		return errs.ErrAccountLocked
	}
	switch entry.Kind {
	case txtypes.Deposit:
		held, err := a.Held.Sub(entry.Amount)
		if err != nil {
			return err
		}
		a.Held = held
	case txtypes.Withdrawal:
		held, err := a.Held.Add(entry.Amount)
		if err != nil {
			return err
		}
		a.Held = held
	}
	a.Locked = true
	return nil
}
