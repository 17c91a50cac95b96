// Package run models a single assignment run: the lifecycle of each
// processed item and the report the run leaves behind.
package run

import (
	"encoding/json"
	"fmt"
)

// ItemStatus is the processing state of one project item within a run.
type ItemStatus string

// Item lifecycle: every item starts pending, moves to planned once its
// decision is computed, and ends in exactly one of the terminal states.
const (
	StatusPending ItemStatus = "pending"
	StatusPlanned ItemStatus = "planned"
	StatusApplied ItemStatus = "applied"
	StatusSkipped ItemStatus = "skipped"
	StatusFailed  ItemStatus = "failed"
)

// itemTransitions defines the allowed transitions and their events.
// Map: currentStatus -> event -> targetStatus
var itemTransitions = map[ItemStatus]map[string]ItemStatus{
	StatusPending: {
		EventDecide: StatusPlanned,
	},
	StatusPlanned: {
		EventApply: StatusApplied,
		EventSkip:  StatusSkipped,
		EventFail:  StatusFailed,
	},
}

// Events driving the item lifecycle.
const (
	EventDecide = "decide"
	EventApply  = "apply"
	EventSkip   = "skip"
	EventFail   = "fail"
)

// IsValid returns true if the status is a known item status.
func (s ItemStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusPlanned, StatusApplied, StatusSkipped, StatusFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the status.
func (s ItemStatus) String() string {
	return string(s)
}

// IsTerminal returns true once no further processing happens for the item.
func (s ItemStatus) IsTerminal() bool {
	return s == StatusApplied || s == StatusSkipped || s == StatusFailed
}

// CanTransitionWith returns true if the event is valid from this status.
func (s ItemStatus) CanTransitionWith(event string) bool {
	transitions, ok := itemTransitions[s]
	if !ok {
		return false
	}
	_, ok = transitions[event]
	return ok
}

// TransitionWith returns the target status for an event, or an error when
// the event is not allowed from this status.
func (s ItemStatus) TransitionWith(event string) (ItemStatus, error) {
	transitions, ok := itemTransitions[s]
	if !ok {
		return s, fmt.Errorf("no transitions defined for status %s", s)
	}
	target, ok := transitions[event]
	if !ok {
		return s, fmt.Errorf("event %q not allowed from status %q", event, s)
	}
	return target, nil
}

// MarshalJSON implements json.Marshaler.
func (s ItemStatus) MarshalJSON() ([]byte, error) {
	return json.Marshal(string(s))
}

// UnmarshalJSON implements json.Unmarshaler.
func (s *ItemStatus) UnmarshalJSON(data []byte) error {
	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	status := ItemStatus(str)
	if !status.IsValid() {
		return fmt.Errorf("invalid item status: %s", str)
	}
	*s = status
	return nil
}
