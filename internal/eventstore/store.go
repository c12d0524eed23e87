package eventstore

import (
	"context"
	"errors"
)

var (
	// ErrAppendFailed occurs when the store cannot confirm a durable write.
	// Callers must treat the in-flight event as never having happened.
	ErrAppendFailed = errors.New("event append failed")

	// ErrInvalidAccountID indicates the identifier cannot be used as a
	// partition key by this backend.
	ErrInvalidAccountID = errors.New("invalid account id")
)

// Record is an opaque event envelope persisted for a single account. The
// store orders records per account and knows nothing about the payload
// beyond the kind tag.
type Record struct {
	Kind string `json:"kind"`
	Data []byte `json:"data"`
}

// Store defines the contract implemented by event log backends
// (e.g. Postgres, Redis, file, memory). Append is crash-atomic per record:
// it either confirms a durable write or fails without a partial one.
// ReadAll returns every record for the account in append order, empty if
// the account has no history.
type Store interface {
	Append(ctx context.Context, accountID string, rec Record) error
	ReadAll(ctx context.Context, accountID string) ([]Record, error)
}
