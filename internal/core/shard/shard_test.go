package shard_test

import (
	"testing"

	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/shard"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

func dep(client txtypes.ClientId, tx txtypes.TxId, amt string) txtypes.Transaction {
	m, err := money.Parse(amt)
	if err != nil {
		panic(err)
	}
	return txtypes.Transaction{Kind: txtypes.Deposit, Client: client, Tx: tx, Amount: m}
}

func withdraw(client txtypes.ClientId, tx txtypes.TxId, amt string) txtypes.Transaction {
	m, err := money.Parse(amt)
	if err != nil {
		panic(err)
	}
	return txtypes.Transaction{Kind: txtypes.Withdrawal, Client: client, Tx: tx, Amount: m}
}

func dispute(client txtypes.ClientId, tx txtypes.TxId) txtypes.Transaction {
	return txtypes.Transaction{Kind: txtypes.Dispute, Client: client, Tx: tx}
}

func resolve(client txtypes.ClientId, tx txtypes.TxId) txtypes.Transaction {
	return txtypes.Transaction{Kind: txtypes.Resolve, Client: client, Tx: tx}
}

func chargeback(client txtypes.ClientId, tx txtypes.TxId) txtypes.Transaction {
	return txtypes.Transaction{Kind: txtypes.Chargeback, Client: client, Tx: tx}
}

func snapshotFor(t *testing.T, s *shard.State, client txtypes.ClientId) shard.Snapshot {
	t.Helper()
	for _, snap := range s.Snapshots() {
		if snap.Client == client {
			return snap
		}
	}
	t.Fatalf("no snapshot for client %d", client)
	return shard.Snapshot{}
}

func units(t *testing.T, s string) int64 {
	t.Helper()
	m, err := money.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return m.Units()
}

func TestScenario1SimpleDeposits(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "1.0"))
	_ = s.Apply(dep(1, 2, "2.0"))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "3.0"), Held: 0, Total: units(t, "3.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario2WithdrawalInsufficientFunds(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "1.0"))
	_ = s.Apply(withdraw(1, 2, "5.0"))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "1.0"), Held: 0, Total: units(t, "1.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario3DisputeThenResolve(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(dispute(1, 1))
	_ = s.Apply(resolve(1, 1))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "10.0"), Held: 0, Total: units(t, "10.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario4DisputeThenChargeback(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(dep(1, 2, "5.0"))
	_ = s.Apply(dispute(1, 1))
	_ = s.Apply(chargeback(1, 1))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "5.0"), Held: 0, Total: units(t, "5.0"), Locked: true}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	// Any further transaction on client 1 is ignored.
	if err := s.Apply(dep(1, 3, "100.0")); err == nil {
		t.Fatal("expected locked account to reject further deposits")
	}
	got = snapshotFor(t, s, 1)
	if got != want {
		t.Fatalf("locked account mutated: got %+v want %+v", got, want)
	}
}

func TestScenario5ChargebackProducesNegativeAvailable(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(withdraw(1, 2, "8.0"))
	_ = s.Apply(dispute(1, 1))
	_ = s.Apply(chargeback(1, 1))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "-8.0"), Held: 0, Total: units(t, "-8.0"), Locked: true}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario6ResolveWithoutPriorDispute(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(resolve(1, 1))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "10.0"), Held: 0, Total: units(t, "10.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario7DuplicateTxId(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(dep(1, 1, "50.0"))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "10.0"), Held: 0, Total: units(t, "10.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestScenario8TruncationOfAmount(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "1.23456"))

	got := snapshotFor(t, s, 1)
	if got.Available != units(t, "1.2345") {
		t.Fatalf("got available %d want %d", got.Available, units(t, "1.2345"))
	}
}

func TestScenario9CrossClientDispute(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(dispute(2, 1))

	got := snapshotFor(t, s, 1)
	want := shard.Snapshot{Client: 1, Available: units(t, "10.0"), Held: 0, Total: units(t, "10.0"), Locked: false}
	if got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}

	for _, snap := range s.Snapshots() {
		if snap.Client == 2 {
			t.Fatalf("client 2 should not have been created: %+v", snap)
		}
	}
}

func TestDisputeReplayIdempotent(t *testing.T) {
	s1 := shard.NewState()
	_ = s1.Apply(dep(1, 1, "10.0"))
	_ = s1.Apply(dispute(1, 1))

	s2 := shard.NewState()
	_ = s2.Apply(dep(1, 1, "10.0"))
	_ = s2.Apply(dispute(1, 1))
	_ = s2.Apply(dispute(1, 1)) // replayed, must be a no-op

	if snapshotFor(t, s1, 1) != snapshotFor(t, s2, 1) {
		t.Fatalf("replayed dispute changed end state: %+v vs %+v", snapshotFor(t, s1, 1), snapshotFor(t, s2, 1))
	}
}

func TestResolveThenDisputeReholdsOriginalAmount(t *testing.T) {
	s := shard.NewState()
	_ = s.Apply(dep(1, 1, "10.0"))
	_ = s.Apply(dispute(1, 1))
	_ = s.Apply(resolve(1, 1))
	_ = s.Apply(dispute(1, 1))

	got := snapshotFor(t, s, 1)
	if got.Held != units(t, "10.0") {
		t.Fatalf("got held %d want %d", got.Held, units(t, "10.0"))
	}
}
