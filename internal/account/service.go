package account

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/kivu-bank/kivu_bank/internal/notification"
)

const defaultCurrency = "CDF"

// Service is the application boundary over the registry: it mints account
// identifiers, routes commands to the owning actor and emits notifications
// for committed balance changes.
type Service struct {
	registry *Registry
	notifier notification.Notifier
}

// NewService builds an account service instance.
func NewService(registry *Registry, notifier notification.Notifier) *Service {
	return &Service{registry: registry, notifier: notifier}
}

// CreateInput captures data required to open an account.
type CreateInput struct {
	Owner          string
	Currency       string
	InitialBalance decimal.Decimal
}

// Create assigns a fresh identifier and initializes the account slot.
func (s *Service) Create(ctx context.Context, input CreateInput) (string, error) {
	if input.Owner == "" {
		return "", fmt.Errorf("owner is required")
	}
	if input.InitialBalance.IsNegative() {
		return "", fmt.Errorf("initial balance must not be negative")
	}

	currency := input.Currency
	if currency == "" {
		currency = defaultCurrency
	}

	id := uuid.New().String()
	actor, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return "", err
	}

	resp, err := actor.Submit(ctx, CreateAccount{
		Owner:          input.Owner,
		Currency:       currency,
		InitialBalance: input.InitialBalance,
	})
	if err != nil {
		return "", err
	}

	created, ok := resp.(CreatedResult)
	if !ok {
		return "", fmt.Errorf("unexpected reply %T to create", resp)
	}
	return created.AccountID, nil
}

// Get returns the current account state, or nil when the account has never
// been created.
func (s *Service) Get(ctx context.Context, id string) (*Account, error) {
	actor, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := actor.Submit(ctx, GetAccount{AccountID: id})
	if err != nil {
		return nil, err
	}

	query, ok := resp.(QueryResult)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T to query", resp)
	}
	return query.State, nil
}

// UpdateBalance applies a signed delta. A nil state in the result means
// the update was rejected (insufficient funds, currency mismatch or
// unknown account); an error means the event could not be made durable.
func (s *Service) UpdateBalance(ctx context.Context, id, currency string, delta decimal.Decimal) (*Account, error) {
	actor, err := s.registry.Lookup(ctx, id)
	if err != nil {
		return nil, err
	}

	resp, err := actor.Submit(ctx, UpdateBalance{AccountID: id, Currency: currency, Delta: delta})
	if err != nil {
		return nil, err
	}

	update, ok := resp.(UpdateResult)
	if !ok {
		return nil, fmt.Errorf("unexpected reply %T to update", resp)
	}

	if update.State != nil && s.notifier != nil {
		_ = s.notifier.Send(ctx, notification.Message{
			Kind:        notification.KindBalanceUpdated,
			Destination: update.State.Owner,
			Body:        fmt.Sprintf("Balance on account %s is now %s %s", id, update.State.Balance.String(), update.State.Currency),
		})
	}

	return update.State, nil
}
