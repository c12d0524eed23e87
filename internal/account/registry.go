package account

import (
	"context"
	"log/slog"
	"sync"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
)

// Registry routes account identifiers to their serial execution unit,
// creating units lazily on first reference. It guarantees at most one live
// actor per identifier within the process; actors stay resident once
// created.
type Registry struct {
	mu     sync.Mutex
	store  eventstore.Store
	logger *slog.Logger
	actors map[string]*Actor
}

// NewRegistry builds a registry over the given event store.
func NewRegistry(store eventstore.Store, logger *slog.Logger) *Registry {
	return &Registry{
		store:  store,
		logger: logger,
		actors: make(map[string]*Actor),
	}
}

// Lookup returns the actor for the identifier, starting one (with full log
// replay) if none is live. A replay failure surfaces here and leaves every
// other account's unit untouched.
func (r *Registry) Lookup(ctx context.Context, id string) (*Actor, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if a, ok := r.actors[id]; ok {
		return a, nil
	}

	a, err := newActor(ctx, id, r.store, r.logger)
	if err != nil {
		return nil, err
	}
	r.actors[id] = a
	return a, nil
}
