package schedule

import "boardkit/pkg/domain/board"

// Decision is the per-item assignment plan: the resolved target and the
// two idempotence flags that gate field-update calls. At most one call is
// issued per true flag, so at most two calls per item per run.
type Decision struct {
	Sprint               int
	TargetIterationID    string
	TargetIterationTitle string
	TargetDueDate        board.Date
	NeedsIteration       bool
	NeedsDueDate         bool
	Ambiguous            bool
	FellBack             bool
}

// EffectiveDueDate is the date the summary reports for an item: the
// existing due date when one is set, otherwise the resolved target.
func (d Decision) EffectiveDueDate(item board.Item) board.Date {
	if item.HasDueDate() {
		return item.DueDate
	}
	return d.TargetDueDate
}

// Plan applies the idempotence rules for one item against a resolution.
// The iteration field is always reconciled by title equality, regardless
// of whether the underlying identifier changed. The due date is set only
// when absent: an existing due date is never overwritten, even when it
// disagrees with the resolved end date (manual overrides stay).
func Plan(item board.Item, res Resolution) Decision {
	return Decision{
		TargetIterationID:    res.Iteration.ID,
		TargetIterationTitle: res.Iteration.Title,
		TargetDueDate:        res.EndDate,
		NeedsIteration:       item.IterationTitle != res.Iteration.Title,
		NeedsDueDate:         !item.HasDueDate(),
		FellBack:             res.FellBack,
	}
}

// Engine runs classify → resolve → plan for project items. State is
// captured once per run; Decide itself is pure.
type Engine struct {
	rules         RuleSet
	resolver      *Resolver
	defaultSprint int
}

// NewEngine builds the per-run decision engine. defaultSprint is the
// assignment for ambiguous titles; values outside the sprint range fall
// back to MinSprint.
func NewEngine(rules RuleSet, resolver *Resolver, defaultSprint int) *Engine {
	if defaultSprint < MinSprint || defaultSprint > MaxSprint {
		defaultSprint = MinSprint
	}
	return &Engine{rules: rules, resolver: resolver, defaultSprint: defaultSprint}
}

// Decide classifies the item's title and plans its updates. Ambiguous
// titles take the default sprint and are flagged for the separate
// ambiguous-assignment report, then run through the same idempotence
// rules as everything else.
func (e *Engine) Decide(item board.Item) Decision {
	sprint := e.rules.Classify(item.Title)
	ambiguous := sprint == Ambiguous
	if ambiguous {
		sprint = e.defaultSprint
	}
	res := e.resolver.Resolve(sprint)
	d := Plan(item, res)
	d.Sprint = sprint
	d.Ambiguous = ambiguous
	return d
}

// Resolver exposes the engine's resolver for callers that need titles.
func (e *Engine) Resolver() *Resolver {
	return e.resolver
}
