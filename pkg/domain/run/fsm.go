package run

import (
	"fmt"

	"github.com/felixgeelhaar/statekit"
)

// State constants for statekit integration. Kept as untyped strings for
// statekit.StateID compatibility; values mirror the ItemStatus constants.
const (
	statePending = "pending"
	statePlanned = "planned"
	stateApplied = "applied"
	stateSkipped = "skipped"
	stateFailed  = "failed"
)

// ItemContext carries per-item data through the machine.
type ItemContext struct {
	ItemID string
}

// ItemStateMachine enforces the item lifecycle during a run: an item must
// be decided before updates are applied, and it lands in exactly one
// terminal state. The engine drives it; the report records the result.
type ItemStateMachine struct {
	interpreter *statekit.Interpreter[ItemContext]
}

// NewItemStateMachine builds and starts a machine for one item.
func NewItemStateMachine(itemID string) (*ItemStateMachine, error) {
	builder := statekit.NewMachine[ItemContext]("board-item").
		WithInitial(statekit.StateID(statePending)).
		WithContext(ItemContext{ItemID: itemID})

	builder.State(statePending).
		On(EventDecide).Target(statePlanned).
		Done()

	builder.State(statePlanned).
		On(EventApply).Target(stateApplied).
		On(EventSkip).Target(stateSkipped).
		On(EventFail).Target(stateFailed).
		Done()

	builder.State(stateApplied).Done()
	builder.State(stateSkipped).Done()
	builder.State(stateFailed).Done()

	machine, err := builder.Build()
	if err != nil {
		return nil, fmt.Errorf("building item state machine: %w", err)
	}

	interpreter := statekit.NewInterpreter(machine)
	interpreter.Start()

	return &ItemStateMachine{interpreter: interpreter}, nil
}

// Transition sends an event and reports whether it was accepted. statekit
// leaves the state unchanged on an invalid event, so a same-state result
// means the event was not allowed.
func (sm *ItemStateMachine) Transition(event string) error {
	before := sm.Current()
	sm.interpreter.Send(statekit.Event{Type: statekit.EventType(event)})
	after := sm.Current()

	if before == after {
		return fmt.Errorf("event %q not allowed from status %q", event, before)
	}
	return nil
}

// Current returns the current state value.
func (sm *ItemStateMachine) Current() string {
	return string(sm.interpreter.State().Value)
}

// Status returns the current state as an ItemStatus value object.
func (sm *ItemStateMachine) Status() ItemStatus {
	return ItemStatus(sm.Current())
}

// Done reports whether the item reached a terminal state.
func (sm *ItemStateMachine) Done() bool {
	return sm.Status().IsTerminal()
}
