package account

// state is the in-memory view of one account inside its executor. The zero
// value (with ID set) represents an account slot that has no creation event
// yet.
type state struct {
	account Account
	created bool
}

func emptyState(id string) state {
	return state{account: Account{ID: id}}
}

// handle is the pure decision half of the state machine: given the current
// state and a command it returns the event to persist (nil for queries and
// rejections) and the reply to issue. It never mutates state and never
// touches storage.
func (s state) handle(cmd Command) (Event, Response) {
	switch c := cmd.(type) {
	case CreateAccount:
		if s.created {
			// The slot is already initialized; never emit a second
			// creation event.
			return nil, CreatedResult{AccountID: s.account.ID}
		}
		ev := AccountCreated{Account: Account{
			ID:       s.account.ID,
			Owner:    c.Owner,
			Currency: c.Currency,
			Balance:  c.InitialBalance,
		}}
		return ev, CreatedResult{AccountID: s.account.ID}

	case UpdateBalance:
		if !s.created {
			return nil, UpdateResult{}
		}
		if c.Currency != "" && c.Currency != s.account.Currency {
			return nil, UpdateResult{}
		}
		candidate := s.account.Balance.Add(c.Delta)
		if candidate.IsNegative() {
			return nil, UpdateResult{}
		}
		ev := BalanceUpdated{Delta: c.Delta}
		next := s.apply(ev).account
		return ev, UpdateResult{State: &next}

	case GetAccount:
		if !s.created {
			return nil, QueryResult{}
		}
		snap := s.account
		return nil, QueryResult{State: &snap}
	}

	return nil, nil
}

// apply is the pure fold half: replaying the full event sequence from the
// empty state must always reproduce the exact current state, including the
// decimal balance bit-for-bit.
func (s state) apply(ev Event) state {
	switch e := ev.(type) {
	case AccountCreated:
		return state{account: e.Account, created: true}
	case BalanceUpdated:
		s.account.Balance = s.account.Balance.Add(e.Delta)
		return s
	}
	return s
}
