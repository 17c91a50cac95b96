package application

import (
	"context"
	"errors"
	"fmt"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
)

// SprintCount pairs a sprint with the number of items the rule table
// routes to it under the current configuration.
type SprintCount struct {
	Sprint int    `json:"sprint"`
	Title  string `json:"title"`
	Items  int    `json:"items"`
}

// ItemView is one row of the read-only board view: the item as it sits
// on the board plus the decision the rule table would make for it.
type ItemView struct {
	ItemID          string     `json:"item_id"`
	IssueNumber     int        `json:"issue_number,omitempty"`
	Title           string     `json:"title"`
	Sprint          int        `json:"sprint"`
	IterationTitle  string     `json:"iteration_title,omitempty"`
	TargetIteration string     `json:"target_iteration"`
	DueDate         board.Date `json:"due_date,omitempty"`
	Ambiguous       bool       `json:"ambiguous,omitempty"`
	Settled         bool       `json:"settled"`
}

// BoardStatus is the read-only snapshot the status command prints.
type BoardStatus struct {
	Project        string        `json:"project"`
	TotalItems     int           `json:"total_items"`
	Unassigned     int           `json:"unassigned"`
	MissingDueDate int           `json:"missing_due_date"`
	Ambiguous      []string      `json:"ambiguous,omitempty"`
	PerSprint      []SprintCount `json:"per_sprint"`
	RulesSource    string        `json:"rules_source"`
	LastRunID      string        `json:"last_run_id,omitempty"`
	LastRun        *run.Counts   `json:"last_run,omitempty"`
}

// Rule table provenance shown in status output.
const (
	RulesBuiltin   = "builtin"
	RulesWorkspace = "workspace"
)

// StatusService computes board snapshots without mutating anything.
type StatusService struct {
	repo    domain.WorkspaceRepository
	gateway board.Gateway
}

func NewStatusService(repo domain.WorkspaceRepository, gateway board.Gateway) *StatusService {
	return &StatusService{repo: repo, gateway: gateway}
}

// Snapshot classifies every item under the active rule table and reports
// where the board stands: assignment coverage, due-date coverage, and
// which titles the rules cannot place.
func (s *StatusService) Snapshot(ctx context.Context) (*BoardStatus, error) {
	status, _, err := s.Overview(ctx)
	return status, err
}

// Overview is Snapshot plus the per-item rows the dashboard renders. An
// item is settled when a run would issue no update calls for it.
func (s *StatusService) Overview(ctx context.Context) (*BoardStatus, []ItemView, error) {
	cfg, err := s.repo.LoadConfig()
	if err != nil {
		return nil, nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, err
	}

	rules, err := LoadRuleSet(s.repo)
	if err != nil {
		return nil, nil, fmt.Errorf("loading rules: %w", err)
	}

	_, iterations, err := s.gateway.ListIterations(ctx, cfg.IterationFieldName())
	if err != nil {
		return nil, nil, fmt.Errorf("reading iteration field %q: %w", cfg.IterationFieldName(), err)
	}
	resolver, err := schedule.NewResolver(cfg.SprintPrefix(), iterations)
	if err != nil {
		return nil, nil, fmt.Errorf("iteration field %q: %w", cfg.IterationFieldName(), err)
	}
	engine := schedule.NewEngine(rules, resolver, cfg.AmbiguousDefault())

	items, err := s.gateway.ListItems(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("listing project items: %w", err)
	}

	status := &BoardStatus{
		Project:     fmt.Sprintf("%s/%d", cfg.Owner, cfg.ProjectNumber),
		TotalItems:  len(items),
		RulesSource: RulesBuiltin,
	}
	if s.repo.HasRules() {
		status.RulesSource = RulesWorkspace
	}

	views := make([]ItemView, 0, len(items))
	perSprint := map[int]*SprintCount{}
	for _, item := range items {
		if item.IterationTitle == "" {
			status.Unassigned++
		}
		if !item.HasDueDate() {
			status.MissingDueDate++
		}

		d := engine.Decide(item)
		if d.Ambiguous {
			status.Ambiguous = append(status.Ambiguous, item.Title)
		}
		sc, ok := perSprint[d.Sprint]
		if !ok {
			sc = &SprintCount{Sprint: d.Sprint, Title: d.TargetIterationTitle}
			perSprint[d.Sprint] = sc
		}
		sc.Items++

		views = append(views, ItemView{
			ItemID:          item.ID,
			IssueNumber:     item.Number,
			Title:           item.Title,
			Sprint:          d.Sprint,
			IterationTitle:  item.IterationTitle,
			TargetIteration: d.TargetIterationTitle,
			DueDate:         d.EffectiveDueDate(item),
			Ambiguous:       d.Ambiguous,
			Settled:         !d.NeedsIteration && !d.NeedsDueDate,
		})
	}
	for n := schedule.MinSprint; n <= schedule.MaxSprint; n++ {
		if sc, ok := perSprint[n]; ok {
			status.PerSprint = append(status.PerSprint, *sc)
		}
	}

	if latest, err := s.repo.LatestReport(); err == nil {
		status.LastRunID = latest.ID
		counts := latest.Counts
		status.LastRun = &counts
	} else if !errors.Is(err, domain.ErrNoReports) {
		return nil, nil, err
	}

	return status, views, nil
}
