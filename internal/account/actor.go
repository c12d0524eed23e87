package account

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
)

const inboxSize = 64

type envelope struct {
	cmd   Command
	reply chan outcome
}

type outcome struct {
	resp Response
	err  error
}

// Actor is the serial execution unit for one account: a single goroutine
// owning the account's in-memory state and its slice of the event log.
// Commands are processed strictly in arrival order, and an event is
// durably appended before the in-memory state changes or the caller sees a
// reply. That single-threaded loop is the only serialization mechanism the
// account needs.
type Actor struct {
	id     string
	store  eventstore.Store
	inbox  chan envelope
	logger *slog.Logger
}

// newActor rebuilds the account's state by folding its full event log and
// starts the command loop. A log that cannot be read or decoded keeps this
// one account offline without affecting any other.
func newActor(ctx context.Context, id string, store eventstore.Store, logger *slog.Logger) (*Actor, error) {
	records, err := store.ReadAll(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("replay account %s: %w", id, err)
	}

	st := emptyState(id)
	for i, rec := range records {
		ev, err := decodeEvent(rec)
		if err != nil {
			return nil, fmt.Errorf("replay account %s event %d: %w", id, i, err)
		}
		st = st.apply(ev)
	}

	a := &Actor{
		id:     id,
		store:  store,
		inbox:  make(chan envelope, inboxSize),
		logger: logger,
	}
	go a.run(st)
	return a, nil
}

// Submit enqueues a command and waits for its single terminal outcome. The
// context bounds only the caller's wait; a command that already entered
// the loop runs to completion, so a timed-out caller must treat the result
// as unknown rather than undone.
func (a *Actor) Submit(ctx context.Context, cmd Command) (Response, error) {
	reply := make(chan outcome, 1)

	select {
	case a.inbox <- envelope{cmd: cmd, reply: reply}:
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	select {
	case out := <-reply:
		return out.resp, out.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (a *Actor) run(st state) {
	for env := range a.inbox {
		ev, resp := st.handle(env.cmd)
		if ev == nil && resp == nil {
			env.reply <- outcome{err: fmt.Errorf("account %s: unsupported command %T", a.id, env.cmd)}
			continue
		}

		if ev != nil {
			rec, err := encodeEvent(ev)
			if err == nil {
				// The append is the only blocking step; commands for this
				// account queue behind it, which bounds read staleness to
				// the last confirmed write.
				err = a.store.Append(context.Background(), a.id, rec)
			}
			if err != nil {
				// The event never happened: memory stays untouched and the
				// caller gets a failure, not a rejection.
				a.logger.Error("append event", "account_id", a.id, "error", err)
				env.reply <- outcome{err: err}
				continue
			}
			st = st.apply(ev)
		}

		env.reply <- outcome{resp: resp}
	}
}
