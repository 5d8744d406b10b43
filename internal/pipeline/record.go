// Package pipeline drives the streaming CSV-in, CSV-out batch run: read
// validated records, submit them to the Engine's Router, then finalize
// and emit the snapshot. CSV parsing/emission is treated as trivial glue
// around the core contract (spec §1, §6) — it lives here rather than in
// internal/core so that the core packages stay free of I/O concerns.
package pipeline

import (
	"strconv"
	"strings"

	"github.com/LeJamon/goPayproc/internal/core/errs"
	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

// ParseRecord validates one CSV data row (after the header) into a
// Transaction, per spec §6's row-parsing contract.
func ParseRecord(fields []string) (txtypes.Transaction, error) {
	if len(fields) != 4 {
		return txtypes.Transaction{}, errs.ErrParse
	}

	kind, err := parseKind(fields[0])
	if err != nil {
		return txtypes.Transaction{}, err
	}

	clientVal, err := strconv.ParseUint(strings.TrimSpace(fields[1]), 10, 16)
	if err != nil {
		return txtypes.Transaction{}, errs.ErrParse
	}

	txVal, err := strconv.ParseUint(strings.TrimSpace(fields[2]), 10, 32)
	if err != nil {
		return txtypes.Transaction{}, errs.ErrParse
	}

	tx := txtypes.Transaction{
		Kind:   kind,
		Client: txtypes.ClientId(clientVal),
		Tx:     txtypes.TxId(txVal),
	}

	amountField := strings.TrimSpace(fields[3])
	switch kind {
	case txtypes.Deposit, txtypes.Withdrawal:
		if amountField == "" {
			return txtypes.Transaction{}, errs.ErrParse
		}
		amount, err := money.Parse(amountField)
		if err != nil {
			return txtypes.Transaction{}, err
		}
		if !amount.IsPositive() {
			return txtypes.Transaction{}, errs.ErrParse
		}
		tx.Amount = amount
	default:
		// Amount is ignored for dispute/resolve/chargeback, present or not.
	}

	return tx, nil
}

func parseKind(field string) (txtypes.TxKind, error) {
	switch strings.ToLower(strings.TrimSpace(field)) {
	case "deposit":
		return txtypes.Deposit, nil
	case "withdrawal":
		return txtypes.Withdrawal, nil
	case "dispute":
		return txtypes.Dispute, nil
	case "resolve":
		return txtypes.Resolve, nil
	case "chargeback":
		return txtypes.Chargeback, nil
	default:
		return 0, errs.ErrParse
	}
}
