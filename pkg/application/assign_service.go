// Package application wires the scheduling core to the board gateway and
// the workspace: one service per command surface.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
)

// AssignOptions are the per-run knobs of the assignment command.
type AssignOptions struct {
	// DefaultSprint replaces the configured ambiguous-title default when
	// positive.
	DefaultSprint int

	// StartOverride, when set, replaces the resolved iteration's start
	// date for due-date computation.
	StartOverride board.Date

	// DryRun computes and records decisions without issuing updates.
	DryRun bool
}

// AssignService runs the classify → resolve → plan → apply loop over all
// project items.
type AssignService struct {
	repo    domain.WorkspaceRepository
	gateway board.Gateway
	logger  *slog.Logger
}

func NewAssignService(repo domain.WorkspaceRepository, gateway board.Gateway, logger *slog.Logger) *AssignService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssignService{repo: repo, gateway: gateway, logger: logger}
}

// LoadRuleSet returns the workspace rule override when one exists, the
// built-in table otherwise.
func LoadRuleSet(repo domain.WorkspaceRepository) (schedule.RuleSet, error) {
	specs, err := repo.LoadRules()
	if err != nil {
		if errors.Is(err, domain.ErrNoRules) {
			return schedule.DefaultRuleSet(), nil
		}
		return schedule.RuleSet{}, err
	}
	return schedule.NewRuleSet(specs)
}

// Run executes one assignment pass. Precondition failures (unresolvable
// project, missing fields, zero iterations) abort with an error; item
// update failures are recorded in the report and never fail the run.
func (s *AssignService) Run(ctx context.Context, opts AssignOptions) (*run.Report, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	rules, err := LoadRuleSet(s.repo)
	if err != nil {
		return nil, fmt.Errorf("loading rules: %w", err)
	}

	project, err := s.gateway.ResolveProject(ctx)
	if err != nil {
		return nil, fmt.Errorf("resolving project: %w", err)
	}

	iterField, iterations, err := s.gateway.ListIterations(ctx, cfg.IterationFieldName())
	if err != nil {
		return nil, fmt.Errorf("reading iteration field %q: %w", cfg.IterationFieldName(), err)
	}

	dateField, err := s.gateway.FindDateField(ctx, cfg.DueDateFieldName())
	if err != nil {
		return nil, fmt.Errorf("locating due-date field: %w", err)
	}

	resolver, err := schedule.NewResolver(cfg.SprintPrefix(), iterations)
	if err != nil {
		return nil, fmt.Errorf("iteration field %q: %w", cfg.IterationFieldName(), err)
	}
	if !opts.StartOverride.IsZero() {
		resolver.WithStartDate(opts.StartOverride)
		s.logger.Info("using start date override", "start", opts.StartOverride.String())
	}

	defaultSprint := cfg.AmbiguousDefault()
	if opts.DefaultSprint > 0 {
		defaultSprint = opts.DefaultSprint
	}
	engine := schedule.NewEngine(rules, resolver, defaultSprint)

	items, err := s.gateway.ListItems(ctx)
	if err != nil {
		return nil, fmt.Errorf("listing project items: %w", err)
	}

	report := run.NewReport(fmt.Sprintf("%s/%d", cfg.Owner, cfg.ProjectNumber))
	report.DryRun = opts.DryRun
	report.DefaultSprint = defaultSprint
	report.StartOverride = opts.StartOverride

	s.logger.Info("starting assignment run",
		"project", project.Title,
		"items", len(items),
		"iterations", len(iterations),
		"dry_run", opts.DryRun)

	for _, item := range items {
		report.Add(s.processItem(ctx, engine, iterField, dateField, item, opts.DryRun))
	}

	report.Finish()
	if err := s.repo.SaveReport(report); err != nil {
		s.logger.Error("failed to save run report", "report_id", report.ID, "error", err)
	}

	return report, nil
}

// processItem takes one item through its lifecycle and returns the row to
// record. A failed update abandons the item's remaining updates; the
// caller moves on to the next item.
func (s *AssignService) processItem(
	ctx context.Context,
	engine *schedule.Engine,
	iterField, dateField board.Field,
	item board.Item,
	dryRun bool,
) run.Row {
	sm, err := run.NewItemStateMachine(item.ID)
	if err != nil {
		return run.Row{ItemID: item.ID, IssueNumber: item.Number, Title: item.Title,
			Status: run.StatusFailed, Error: err.Error()}
	}

	decision := engine.Decide(item)
	_ = sm.Transition(run.EventDecide)

	if decision.Ambiguous {
		s.logger.Warn("no rule matched title, using default sprint",
			"item", item.Number, "title", item.Title, "sprint", decision.Sprint)
	}
	if decision.FellBack {
		s.logger.Warn("sprint not configured on board, falling back to last iteration",
			"item", item.Number, "title", item.Title,
			"sprint", decision.Sprint, "iteration", decision.TargetIterationTitle)
	}

	row := run.Row{
		ItemID:         item.ID,
		IssueNumber:    item.Number,
		Title:          item.Title,
		Sprint:         decision.Sprint,
		IterationTitle: decision.TargetIterationTitle,
		DueDate:        decision.EffectiveDueDate(item),
		Ambiguous:      decision.Ambiguous,
		FellBack:       decision.FellBack,
	}

	if dryRun {
		row.IterationSet = decision.NeedsIteration
		row.DueDateSet = decision.NeedsDueDate
		row.Status = sm.Status()
		return row
	}

	if !decision.NeedsIteration && !decision.NeedsDueDate {
		_ = sm.Transition(run.EventSkip)
		row.Status = sm.Status()
		return row
	}

	if decision.NeedsIteration {
		if err := s.gateway.SetItemIteration(ctx, item.ID, iterField.ID, decision.TargetIterationID); err != nil {
			s.logger.Error("iteration update failed, skipping remaining updates for item",
				"item", item.Number, "title", item.Title, "error", err)
			_ = sm.Transition(run.EventFail)
			row.Status = sm.Status()
			row.Error = err.Error()
			return row
		}
		row.IterationSet = true
		s.logger.Info("iteration assigned",
			"item", item.Number, "iteration", decision.TargetIterationTitle)
	}

	if decision.NeedsDueDate {
		if err := s.gateway.SetItemDueDate(ctx, item.ID, dateField.ID, decision.TargetDueDate); err != nil {
			s.logger.Error("due date update failed",
				"item", item.Number, "title", item.Title, "error", err)
			_ = sm.Transition(run.EventFail)
			row.Status = sm.Status()
			row.Error = err.Error()
			return row
		}
		row.DueDateSet = true
		s.logger.Info("due date assigned",
			"item", item.Number, "due", decision.TargetDueDate.String())
	}

	_ = sm.Transition(run.EventApply)
	row.Status = sm.Status()
	return row
}
