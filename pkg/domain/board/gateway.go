package board

import "context"

// Gateway is the board API collaborator the assignment engine drives.
// Implementations talk GraphQL to the hosted board or bridge to a
// provider plugin; the engine only sees these operations.
type Gateway interface {
	// ResolveProject maps the configured owner/number to a board.
	ResolveProject(ctx context.Context) (Project, error)

	// ListIterations reads the configured iteration sequence of a named
	// iteration-type field, active and completed alike, in configured order.
	ListIterations(ctx context.Context, fieldName string) (Field, []Iteration, error)

	// FindDateField locates the due-date field by name, falling back to
	// the accepted aliases. Returns a FieldNotFoundError when no DATE
	// field matches.
	FindDateField(ctx context.Context, name string) (Field, error)

	// ListItems reads all project items with their current values for the
	// tracked fields.
	ListItems(ctx context.Context) ([]Item, error)

	// SetItemIteration assigns an iteration to one item. Attempted exactly
	// once; failures are reported, never retried.
	SetItemIteration(ctx context.Context, itemID, fieldID, iterationID string) error

	// SetItemDueDate assigns a due date to one item. Attempted exactly
	// once; failures are reported, never retried.
	SetItemDueDate(ctx context.Context, itemID, fieldID string, date Date) error
}

// FieldAdmin extends Gateway with the setup operation used by field
// provisioning. Iteration fields cannot be created this way: their
// schedule requires the board UI, so a missing iteration field stays a
// fatal precondition.
type FieldAdmin interface {
	Gateway

	// CreateDateField creates a DATE field with the given name.
	CreateDateField(ctx context.Context, name string) (Field, error)

	// AddItem puts existing content (an issue) onto the board and returns
	// the new item ID.
	AddItem(ctx context.Context, contentNodeID string) (string, error)
}
