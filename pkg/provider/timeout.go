package provider

import (
	"context"
	"time"

	"github.com/felixgeelhaar/fortify/timeout"

	"boardkit/pkg/domain/board"
	domainProvider "boardkit/pkg/domain/provider"
)

// Call budgets for plugin providers. Field updates are attempted exactly
// once, so the only protection against a wedged plugin is the deadline.
const (
	InitTimeout = 30 * time.Second
	OpTimeout   = 60 * time.Second
)

// TimedProvider wraps a plugin provider with per-call deadlines. No
// retries: a timed-out call surfaces as that call's failure.
type TimedProvider struct {
	inner domainProvider.Provider
}

func NewTimedProvider(inner domainProvider.Provider) *TimedProvider {
	return &TimedProvider{inner: inner}
}

func (p *TimedProvider) Init(config map[string]string) error {
	t := timeout.New[struct{}](timeout.Config{DefaultTimeout: InitTimeout})
	_, err := t.Execute(context.Background(), InitTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.inner.Init(config)
	})
	return err
}

func (p *TimedProvider) ListIterations(fieldName string) ([]board.Iteration, error) {
	t := timeout.New[[]board.Iteration](timeout.Config{DefaultTimeout: OpTimeout})
	return t.Execute(context.Background(), OpTimeout, func(ctx context.Context) ([]board.Iteration, error) {
		return p.inner.ListIterations(fieldName)
	})
}

func (p *TimedProvider) ListItems() ([]board.Item, error) {
	t := timeout.New[[]board.Item](timeout.Config{DefaultTimeout: OpTimeout})
	return t.Execute(context.Background(), OpTimeout, func(ctx context.Context) ([]board.Item, error) {
		return p.inner.ListItems()
	})
}

func (p *TimedProvider) SetItemIteration(itemID, fieldID, iterationID string) error {
	t := timeout.New[struct{}](timeout.Config{DefaultTimeout: OpTimeout})
	_, err := t.Execute(context.Background(), OpTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.inner.SetItemIteration(itemID, fieldID, iterationID)
	})
	return err
}

func (p *TimedProvider) SetItemDueDate(itemID, fieldID string, date board.Date) error {
	t := timeout.New[struct{}](timeout.Config{DefaultTimeout: OpTimeout})
	_, err := t.Execute(context.Background(), OpTimeout, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, p.inner.SetItemDueDate(itemID, fieldID, date)
	})
	return err
}
