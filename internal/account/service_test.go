package account

import (
	"context"
	"testing"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
	"github.com/kivu-bank/kivu_bank/internal/logging"
	"github.com/kivu-bank/kivu_bank/internal/notification"
)

func newTestService() *Service {
	reg := NewRegistry(eventstore.NewMemory(), logging.Discard())
	return NewService(reg, notification.NewLoggerNotifier(logging.Discard()))
}

func TestServiceCreateAndGet(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")})
	if err != nil {
		t.Fatalf("create account: %v", err)
	}
	if id == "" {
		t.Fatalf("expected assigned account id")
	}

	state, err := svc.Get(ctx, id)
	if err != nil {
		t.Fatalf("get account: %v", err)
	}
	if state == nil {
		t.Fatalf("expected account state")
	}
	if state.ID != id || state.Owner != "alice" || state.Currency != "USD" || !state.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("unexpected state %#v", state)
	}
}

func TestServiceCreateValidation(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	if _, err := svc.Create(ctx, CreateInput{Currency: "USD", InitialBalance: dec(t, "10")}); err == nil {
		t.Fatalf("expected error for missing owner")
	}
	if _, err := svc.Create(ctx, CreateInput{Owner: "alice", InitialBalance: dec(t, "-1")}); err == nil {
		t.Fatalf("expected error for negative initial balance")
	}

	id, err := svc.Create(ctx, CreateInput{Owner: "alice", InitialBalance: dec(t, "10")})
	if err != nil {
		t.Fatalf("create with default currency: %v", err)
	}
	state, err := svc.Get(ctx, id)
	if err != nil || state == nil {
		t.Fatalf("get: %v %#v", err, state)
	}
	if state.Currency != "CDF" {
		t.Fatalf("expected default currency CDF, got %s", state.Currency)
	}
}

func TestServiceUpdateBalanceFlow(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	id, err := svc.Create(ctx, CreateInput{Owner: "alice", Currency: "USD", InitialBalance: dec(t, "100.00")})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	// Overdraft is rejected and leaves the balance untouched.
	state, err := svc.UpdateBalance(ctx, id, "USD", dec(t, "-150.00"))
	if err != nil {
		t.Fatalf("rejected update errored: %v", err)
	}
	if state != nil {
		t.Fatalf("expected rejection, got %#v", state)
	}
	if got, _ := svc.Get(ctx, id); !got.Balance.Equal(dec(t, "100.00")) {
		t.Fatalf("balance changed after rejection: %s", got.Balance)
	}

	state, err = svc.UpdateBalance(ctx, id, "USD", dec(t, "-40.00"))
	if err != nil || state == nil {
		t.Fatalf("update: %v %#v", err, state)
	}
	if !state.Balance.Equal(dec(t, "60.00")) {
		t.Fatalf("expected 60.00, got %s", state.Balance)
	}

	state, err = svc.UpdateBalance(ctx, id, "USD", dec(t, "10.00"))
	if err != nil || state == nil {
		t.Fatalf("update: %v %#v", err, state)
	}
	if !state.Balance.Equal(dec(t, "70.00")) {
		t.Fatalf("expected 70.00, got %s", state.Balance)
	}
}

func TestServiceUnknownAccount(t *testing.T) {
	svc := newTestService()
	ctx := context.Background()

	state, err := svc.Get(ctx, "never-created-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if state != nil {
		t.Fatalf("expected absent state, got %#v", state)
	}

	state, err = svc.UpdateBalance(ctx, "never-created-id", "USD", dec(t, "10"))
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if state != nil {
		t.Fatalf("expected rejection for unknown account")
	}
}
