package account

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/kivu-bank/kivu_bank/internal/eventstore"
)

const (
	kindAccountCreated = "account_created"
	kindBalanceUpdated = "balance_updated"
)

// Decimals marshal as quoted strings, so encode→decode→encode round-trips
// exactly and replay stays deterministic.
type createdPayload struct {
	ID       string          `json:"id"`
	Owner    string          `json:"owner"`
	Currency string          `json:"currency"`
	Balance  decimal.Decimal `json:"balance"`
}

type updatedPayload struct {
	Delta decimal.Decimal `json:"delta"`
}

func encodeEvent(ev Event) (eventstore.Record, error) {
	switch e := ev.(type) {
	case AccountCreated:
		data, err := json.Marshal(createdPayload{
			ID:       e.Account.ID,
			Owner:    e.Account.Owner,
			Currency: e.Account.Currency,
			Balance:  e.Account.Balance,
		})
		if err != nil {
			return eventstore.Record{}, fmt.Errorf("encode %s: %w", kindAccountCreated, err)
		}
		return eventstore.Record{Kind: kindAccountCreated, Data: data}, nil

	case BalanceUpdated:
		data, err := json.Marshal(updatedPayload{Delta: e.Delta})
		if err != nil {
			return eventstore.Record{}, fmt.Errorf("encode %s: %w", kindBalanceUpdated, err)
		}
		return eventstore.Record{Kind: kindBalanceUpdated, Data: data}, nil
	}

	return eventstore.Record{}, fmt.Errorf("unknown event type %T", ev)
}

func decodeEvent(rec eventstore.Record) (Event, error) {
	switch rec.Kind {
	case kindAccountCreated:
		var p createdPayload
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", rec.Kind, err)
		}
		return AccountCreated{Account: Account{
			ID:       p.ID,
			Owner:    p.Owner,
			Currency: p.Currency,
			Balance:  p.Balance,
		}}, nil

	case kindBalanceUpdated:
		var p updatedPayload
		if err := json.Unmarshal(rec.Data, &p); err != nil {
			return nil, fmt.Errorf("decode %s: %w", rec.Kind, err)
		}
		return BalanceUpdated{Delta: p.Delta}, nil
	}

	return nil, fmt.Errorf("unknown event kind %q", rec.Kind)
}
