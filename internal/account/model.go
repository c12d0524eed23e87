package account

import "github.com/shopspring/decimal"

// Account is the derived state of one bank account. It is never stored
// directly; it is always the fold of the account's event log.
type Account struct {
	ID       string
	Owner    string
	Currency string
	Balance  decimal.Decimal
}

// Command is a request to read or mutate a single account. Commands are
// never persisted; only their approved effects (events) are.
type Command interface{ isCommand() }

// CreateAccount initializes an account slot. The identifier is assigned by
// the registry before the state machine ever sees the command.
type CreateAccount struct {
	Owner          string
	Currency       string
	InitialBalance decimal.Decimal
}

// UpdateBalance applies a signed delta to the account balance.
type UpdateBalance struct {
	AccountID string
	Currency  string
	Delta     decimal.Decimal
}

// GetAccount reads the current account state without side effects.
type GetAccount struct {
	AccountID string
}

func (CreateAccount) isCommand() {}
func (UpdateBalance) isCommand() {}
func (GetAccount) isCommand()    {}

// Event is an immutable, append-only record of a state transition.
type Event interface{ isEvent() }

// AccountCreated carries the full initial snapshot and is the first and
// only creation event for an account.
type AccountCreated struct {
	Account Account
}

// BalanceUpdated records a signed delta against the current balance.
type BalanceUpdated struct {
	Delta decimal.Decimal
}

func (AccountCreated) isEvent() {}
func (BalanceUpdated) isEvent() {}

// Response is the single terminal outcome of a submitted command.
type Response interface{ isResponse() }

// CreatedResult acknowledges account creation.
type CreatedResult struct {
	AccountID string
}

// UpdateResult carries the post-update state, or nil when the update was
// rejected or the account does not exist.
type UpdateResult struct {
	State *Account
}

// QueryResult carries the current state, or nil when the account does not
// exist.
type QueryResult struct {
	State *Account
}

func (CreatedResult) isResponse() {}
func (UpdateResult) isResponse()  {}
func (QueryResult) isResponse()   {}
