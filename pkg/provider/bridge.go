package provider

import (
	"context"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	domainProvider "boardkit/pkg/domain/provider"
)

// Synthetic field IDs handed to providers. Providers resolve updates by
// item and iteration, so the field handle only needs to be stable.
const (
	BridgeIterationFieldID = "provider:iteration"
	BridgeDueDateFieldID   = "provider:due-date"
)

// Bridge adapts a plugin provider to board.Gateway so the assignment
// engine can drive external trackers unchanged.
type Bridge struct {
	provider domainProvider.Provider
	project  board.Project
}

// NewBridge binds a provider to the project identity from the workspace
// configuration.
func NewBridge(p domainProvider.Provider, cfg *domain.Config) *Bridge {
	return &Bridge{
		provider: p,
		project: board.Project{
			ID:     "provider",
			Number: cfg.ProjectNumber,
			Title:  cfg.Owner,
			Owner:  cfg.Owner,
		},
	}
}

func (b *Bridge) ResolveProject(ctx context.Context) (board.Project, error) {
	return b.project, nil
}

func (b *Bridge) ListIterations(ctx context.Context, fieldName string) (board.Field, []board.Iteration, error) {
	iterations, err := b.provider.ListIterations(fieldName)
	if err != nil {
		return board.Field{}, nil, err
	}
	field := board.Field{ID: BridgeIterationFieldID, Name: fieldName, Type: board.FieldTypeIteration}
	return field, iterations, nil
}

func (b *Bridge) FindDateField(ctx context.Context, name string) (board.Field, error) {
	return board.Field{ID: BridgeDueDateFieldID, Name: name, Type: board.FieldTypeDate}, nil
}

func (b *Bridge) ListItems(ctx context.Context) ([]board.Item, error) {
	return b.provider.ListItems()
}

func (b *Bridge) SetItemIteration(ctx context.Context, itemID, fieldID, iterationID string) error {
	return b.provider.SetItemIteration(itemID, fieldID, iterationID)
}

func (b *Bridge) SetItemDueDate(ctx context.Context, itemID, fieldID string, date board.Date) error {
	return b.provider.SetItemDueDate(itemID, fieldID, date)
}
