package account

import (
	"context"
	"testing"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
	"github.com/kivu-bank/kivu_bank/internal/logging"
)

func TestRegistryReturnsSameUnitPerID(t *testing.T) {
	reg := NewRegistry(eventstore.NewMemory(), logging.Discard())
	ctx := context.Background()

	a1, err := reg.Lookup(ctx, "acc-1")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	a2, err := reg.Lookup(ctx, "acc-1")
	if err != nil {
		t.Fatalf("second lookup: %v", err)
	}
	if a1 != a2 {
		t.Fatalf("expected one live unit per identifier")
	}

	other, err := reg.Lookup(ctx, "acc-2")
	if err != nil {
		t.Fatalf("lookup acc-2: %v", err)
	}
	if other == a1 {
		t.Fatalf("distinct accounts share a unit")
	}
}

func TestRegistryQueryOnUnknownAccount(t *testing.T) {
	reg := NewRegistry(eventstore.NewMemory(), logging.Discard())
	ctx := context.Background()

	a, err := reg.Lookup(ctx, "never-created-id")
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}

	resp, err := a.Submit(ctx, GetAccount{AccountID: "never-created-id"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if resp.(QueryResult).State != nil {
		t.Fatalf("expected absent result for unknown account")
	}
}
