package engine_test

import (
	"context"
	"sync"
	"testing"

	"github.com/LeJamon/goPayproc/internal/core/engine"
	"github.com/LeJamon/goPayproc/internal/core/money"
	"github.com/LeJamon/goPayproc/internal/core/shard"
	"github.com/LeJamon/goPayproc/internal/core/txtypes"
)

func amt(t *testing.T, s string) money.Money {
	t.Helper()
	m, err := money.Parse(s)
	if err != nil {
		t.Fatal(err)
	}
	return m
}

func snapshotMap(snaps []shard.Snapshot) map[txtypes.ClientId]shard.Snapshot {
	out := make(map[txtypes.ClientId]shard.Snapshot, len(snaps))
	for _, s := range snaps {
		out[s.Client] = s
	}
	return out
}

// buildTransactions returns, for numClients clients, a fixed per-client
// sequence: deposit, deposit, dispute, resolve, withdrawal.
func buildTransactions(numClients int) map[txtypes.ClientId][]txtypes.Transaction {
	out := make(map[txtypes.ClientId][]txtypes.Transaction, numClients)
	txID := txtypes.TxId(1)
	for c := 0; c < numClients; c++ {
		client := txtypes.ClientId(c)
		d1 := txID
		txID++
		d2 := txID
		txID++
		w := txID
		txID++
		out[client] = []txtypes.Transaction{
			{Kind: txtypes.Deposit, Client: client, Tx: d1, Amount: mustParse("10.0")},
			{Kind: txtypes.Deposit, Client: client, Tx: d2, Amount: mustParse("5.0")},
			{Kind: txtypes.Dispute, Client: client, Tx: d1},
			{Kind: txtypes.Resolve, Client: client, Tx: d1},
			{Kind: txtypes.Withdrawal, Client: client, Tx: w, Amount: mustParse("3.0")},
		}
	}
	return out
}

func mustParse(s string) money.Money {
	m, err := money.Parse(s)
	if err != nil {
		panic(err)
	}
	return m
}

// runAll submits every client's transaction sequence through its own
// goroutine (preserving per-client order, the only ordering guarantee
// the spec requires) and returns the final snapshot map.
func runAll(t *testing.T, numShards, numClients int) map[txtypes.ClientId]shard.Snapshot {
	t.Helper()
	eng := engine.New(engine.Config{NumShards: numShards, QueueCapacity: 4})
	perClient := buildTransactions(numClients)

	var wg sync.WaitGroup
	for _, txs := range perClient {
		txs := txs
		wg.Add(1)
		go func() {
			defer wg.Done()
			for _, tx := range txs {
				if err := eng.Submit(context.Background(), tx); err != nil {
					t.Errorf("submit failed: %v", err)
				}
			}
		}()
	}
	wg.Wait()

	if err := eng.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	snaps, err := eng.Snapshot()
	if err != nil {
		t.Fatalf("snapshot failed: %v", err)
	}
	return snapshotMap(snaps)
}

func TestShardedDeterminism(t *testing.T) {
	const numClients = 40
	baseline := runAll(t, 1, numClients)

	for _, n := range []int{2, 3, 8, 16} {
		got := runAll(t, n, numClients)
		if len(got) != len(baseline) {
			t.Fatalf("shards=%d: got %d clients want %d", n, len(got), len(baseline))
		}
		for client, want := range baseline {
			gotSnap, ok := got[client]
			if !ok {
				t.Fatalf("shards=%d: missing client %d", n, client)
			}
			if gotSnap != want {
				t.Fatalf("shards=%d client=%d: got %+v want %+v", n, client, gotSnap, want)
			}
		}
	}
}

func TestFinalizeIsIdempotent(t *testing.T) {
	eng := engine.New(engine.Config{NumShards: 2, QueueCapacity: 4})
	if err := eng.Submit(context.Background(), txtypes.Transaction{Kind: txtypes.Deposit, Client: 1, Tx: 1, Amount: amt(t, "1.0")}); err != nil {
		t.Fatalf("submit failed: %v", err)
	}
	if err := eng.Finalize(); err != nil {
		t.Fatalf("first finalize failed: %v", err)
	}
	if err := eng.Finalize(); err != nil {
		t.Fatalf("second finalize failed: %v", err)
	}
}

func TestSnapshotBeforeFinalizeFails(t *testing.T) {
	eng := engine.New(engine.Config{NumShards: 1, QueueCapacity: 4})
	if _, err := eng.Snapshot(); err != engine.ErrNotFinalized {
		t.Fatalf("got %v want ErrNotFinalized", err)
	}
	_ = eng.Finalize()
}

func TestSubmitAfterFinalizeRejected(t *testing.T) {
	eng := engine.New(engine.Config{NumShards: 1, QueueCapacity: 4})
	if err := eng.Finalize(); err != nil {
		t.Fatalf("finalize failed: %v", err)
	}
	err := eng.Submit(context.Background(), txtypes.Transaction{Kind: txtypes.Deposit, Client: 1, Tx: 1, Amount: amt(t, "1.0")})
	if err == nil {
		t.Fatal("expected submit after finalize to fail")
	}
}
