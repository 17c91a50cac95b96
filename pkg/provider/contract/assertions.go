// Package contract provides contract test assertions for board provider
// plugins: the behaviors every provider binary must exhibit before the
// assignment engine will drive it.
package contract

import (
	"fmt"

	domainProvider "boardkit/pkg/domain/provider"
)

// Result captures the outcome of a single contract assertion.
type Result struct {
	Name    string
	Passed  bool
	Message string
}

// AssertInitSuccess verifies that Init succeeds with valid config.
func AssertInitSuccess(p domainProvider.Provider) Result {
	err := p.Init(map[string]string{"project": "test"})
	if err != nil {
		return Result{Name: "InitSuccess", Passed: false, Message: fmt.Sprintf("Init failed: %v", err)}
	}
	return Result{Name: "InitSuccess", Passed: true, Message: "Init succeeded"}
}

// AssertInitWithBadConfig verifies that Init returns an error for bad config.
func AssertInitWithBadConfig(p domainProvider.Provider) Result {
	err := p.Init(map[string]string{"fail": "true"})
	if err == nil {
		return Result{Name: "InitWithBadConfig", Passed: false, Message: "expected Init to fail with fail=true config"}
	}
	return Result{Name: "InitWithBadConfig", Passed: true, Message: fmt.Sprintf("Init correctly failed: %v", err)}
}

// AssertListIterationsOrdered verifies iterations come back in configured
// order with usable schedules.
func AssertListIterationsOrdered(p domainProvider.Provider) Result {
	iterations, err := p.ListIterations("Iteration")
	if err != nil {
		return Result{Name: "ListIterationsOrdered", Passed: false, Message: fmt.Sprintf("ListIterations failed: %v", err)}
	}
	for i, it := range iterations {
		if it.ID == "" || it.Title == "" {
			return Result{Name: "ListIterationsOrdered", Passed: false, Message: fmt.Sprintf("iteration %d missing identity: %+v", i, it)}
		}
		if it.DurationDays < 1 {
			return Result{Name: "ListIterationsOrdered", Passed: false, Message: fmt.Sprintf("iteration %q has duration %d", it.Title, it.DurationDays)}
		}
	}
	return Result{Name: "ListIterationsOrdered", Passed: true, Message: fmt.Sprintf("%d iterations listed", len(iterations))}
}

// AssertListItems verifies items come back with identities.
func AssertListItems(p domainProvider.Provider) Result {
	items, err := p.ListItems()
	if err != nil {
		return Result{Name: "ListItems", Passed: false, Message: fmt.Sprintf("ListItems failed: %v", err)}
	}
	for i, item := range items {
		if item.ID == "" {
			return Result{Name: "ListItems", Passed: false, Message: fmt.Sprintf("item %d missing ID", i)}
		}
	}
	return Result{Name: "ListItems", Passed: true, Message: fmt.Sprintf("%d items listed", len(items))}
}

// AssertSetIterationUnknownItem verifies updates against unknown items fail
// instead of silently succeeding.
func AssertSetIterationUnknownItem(p domainProvider.Provider) Result {
	err := p.SetItemIteration("no-such-item", "field-1", "it-1")
	if err == nil {
		return Result{Name: "SetIterationUnknownItem", Passed: false, Message: "expected update on unknown item to fail"}
	}
	return Result{Name: "SetIterationUnknownItem", Passed: true, Message: fmt.Sprintf("update correctly failed: %v", err)}
}
