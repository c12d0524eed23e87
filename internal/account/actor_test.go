package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
	"github.com/kivu-bank/kivu_bank/internal/logging"
)

func startActor(t *testing.T, id string, store eventstore.Store) *Actor {
	t.Helper()
	a, err := newActor(context.Background(), id, store, logging.Discard())
	if err != nil {
		t.Fatalf("start actor %s: %v", id, err)
	}
	return a
}

func TestActorCreateThenQuery(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	resp, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created := resp.(CreatedResult); created.AccountID != "acc-1" {
		t.Fatalf("unexpected create reply %#v", resp)
	}

	resp, err = a.Submit(ctx, GetAccount{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	query := resp.(QueryResult)
	if query.State == nil || query.State.Owner != "alice" || !query.State.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("unexpected state %#v", query.State)
	}
}

func TestActorAppendsBeforeReply(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "50")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	if _, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, "25")}); err != nil {
		t.Fatalf("update: %v", err)
	}

	records, err := store.ReadAll(ctx, "acc-1")
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 persisted events, got %d", len(records))
	}
}

func TestActorRejectionWritesNothing(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	resp, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, "-150.00")})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if resp.(UpdateResult).State != nil {
		t.Fatalf("expected rejection")
	}

	records, _ := store.ReadAll(ctx, "acc-1")
	if len(records) != 1 {
		t.Fatalf("rejected update persisted an event: %d records", len(records))
	}
}

func TestActorDurabilityFailureLeavesStateUnchanged(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	eventstore.FailNextAppend(store, errors.New("disk full"))

	_, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, "-40.00")})
	if err == nil {
		t.Fatalf("expected a failure outcome, not a normal reply")
	}
	if !errors.Is(err, eventstore.ErrAppendFailed) {
		t.Fatalf("expected ErrAppendFailed, got %v", err)
	}

	resp, err := a.Submit(ctx, GetAccount{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("query after failure: %v", err)
	}
	query := resp.(QueryResult)
	if query.State == nil || !query.State.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("balance changed after failed append: %#v", query.State)
	}
}

func TestActorReplayConvergesAfterRestart(t *testing.T) {
	store := eventstore.NewMemory()
	ctx := context.Background()

	a := startActor(t, "acc-1", store)
	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")}); err != nil {
		t.Fatalf("create: %v", err)
	}
	for _, delta := range []string{"-40.00", "10.00", "-0.25"} {
		if _, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, delta)}); err != nil {
			t.Fatalf("update %s: %v", delta, err)
		}
	}

	// A second actor over the same log simulates a process restart.
	replayed := startActor(t, "acc-1", store)
	resp, err := replayed.Submit(ctx, GetAccount{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("query replayed actor: %v", err)
	}
	query := resp.(QueryResult)
	if query.State == nil || !query.State.Balance.Equal(dec(t, "69.75")) {
		t.Fatalf("replay diverged: %#v", query.State)
	}
	if query.State.Owner != "alice" || query.State.Currency != "USD" {
		t.Fatalf("replay lost snapshot fields: %#v", query.State)
	}
}

func TestActorReplayFailureKeepsUnitOffline(t *testing.T) {
	store := eventstore.NewMemory()
	ctx := context.Background()

	if err := store.Append(ctx, "acc-bad", eventstore.Record{Kind: "garbage", Data: []byte("{}")}); err != nil {
		t.Fatalf("seed: %v", err)
	}

	if _, err := newActor(ctx, "acc-bad", store, logging.Discard()); err == nil {
		t.Fatalf("expected replay failure for corrupt log")
	}

	// Other accounts are unaffected.
	startActor(t, "acc-good", store)
}

func TestActorSerializesConcurrentUpdates(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "1000")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	const workers = 20
	deltas := make([]decimal.Decimal, workers)
	for i := range deltas {
		deltas[i] = dec(t, fmt.Sprintf("%d", i%2*2-1)) // alternate -1 / +1
	}

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			if _, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: deltas[i]}); err != nil {
				t.Errorf("update %d: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	resp, err := a.Submit(ctx, GetAccount{AccountID: "acc-1"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	// Ten -1 deltas and ten +1 deltas cancel out regardless of order.
	if bal := resp.(QueryResult).State.Balance; !bal.Equal(dec(t, "1000")) {
		t.Fatalf("lost update: balance %s", bal)
	}

	records, _ := store.ReadAll(ctx, "acc-1")
	if len(records) != workers+1 {
		t.Fatalf("expected %d events, got %d", workers+1, len(records))
	}
}

func TestActorOrderingAfterAcknowledgedReply(t *testing.T) {
	store := eventstore.NewMemory()
	a := startActor(t, "acc-1", store)
	ctx := context.Background()

	if _, err := a.Submit(ctx, CreateAccount{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "10")}); err != nil {
		t.Fatalf("create: %v", err)
	}

	// C1 acknowledged before C2 is submitted: C2 must observe C1's effect.
	resp, err := a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, "-10")})
	if err != nil || resp.(UpdateResult).State == nil {
		t.Fatalf("C1 should succeed: %v %#v", err, resp)
	}
	resp, err = a.Submit(ctx, UpdateBalance{AccountID: "acc-1", Currency: "USD", Delta: dec(t, "-1")})
	if err != nil {
		t.Fatalf("C2: %v", err)
	}
	if resp.(UpdateResult).State != nil {
		t.Fatalf("C2 did not observe C1's effect")
	}
}
