package application

import (
	"context"
	"fmt"
	"log/slog"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/seed"
)

// CreatedIssue identifies an issue created (or found) in the repository.
type CreatedIssue struct {
	Number int
	NodeID string
	Title  string
}

// IssueHost is the repository-side API the seeder drives. The GitHub
// implementation sits on the REST client; tests use a hand mock.
type IssueHost interface {
	// EnsureMilestone finds or creates a milestone, returning its number
	// and whether it was created by this call.
	EnsureMilestone(ctx context.Context, owner, repo string, m seed.Milestone) (int, bool, error)

	// FindIssue looks an open-or-closed issue up by exact title. Returns
	// nil when no issue carries the title.
	FindIssue(ctx context.Context, owner, repo, title string) (*CreatedIssue, error)

	// CreateIssue creates an issue, optionally bound to a milestone
	// (milestoneNumber 0 means none).
	CreateIssue(ctx context.Context, owner, repo string, is seed.Issue, milestoneNumber int) (*CreatedIssue, error)
}

// ProjectAdder puts created issues onto the board.
type ProjectAdder interface {
	AddItem(ctx context.Context, contentNodeID string) (string, error)
}

// SeedAction says what happened to one planned issue.
type SeedAction string

const (
	SeedCreated SeedAction = "created"
	SeedSkipped SeedAction = "skipped"
	SeedPlanned SeedAction = "planned"
	SeedFailed  SeedAction = "failed"
)

// SeedOutcome is the per-issue result of a seeding pass.
type SeedOutcome struct {
	Title  string
	Number int
	Action SeedAction
	Added  bool
	Error  string
}

// SeedResult aggregates a seeding pass.
type SeedResult struct {
	Repository string
	Milestones []string
	Outcomes   []SeedOutcome
	Created    int
	Skipped    int
	Failed     int
}

// SeedOptions are the per-run knobs of the seed command.
type SeedOptions struct {
	DryRun       bool
	AddToProject bool
}

// SeedService creates the plan's milestones and issues, idempotently:
// an issue whose title already exists is skipped, so re-running a plan
// is safe.
type SeedService struct {
	repo   domain.WorkspaceRepository
	host   IssueHost
	adder  ProjectAdder
	logger *slog.Logger
}

func NewSeedService(repo domain.WorkspaceRepository, host IssueHost, adder ProjectAdder, logger *slog.Logger) *SeedService {
	if logger == nil {
		logger = slog.Default()
	}
	return &SeedService{repo: repo, host: host, adder: adder, logger: logger}
}

// Seed validates and applies the workspace seed plan. An invalid plan is
// a fatal precondition: no API call is made. Per-issue failures are
// recorded and do not abort the pass.
func (s *SeedService) Seed(ctx context.Context, opts SeedOptions) (*SeedResult, error) {
	plan, err := s.repo.LoadSeedPlan()
	if err != nil {
		return nil, err
	}
	if err := plan.Validate(); err != nil {
		return nil, err
	}

	owner, repo, err := plan.OwnerAndRepo()
	if err != nil {
		return nil, err
	}

	result := &SeedResult{Repository: plan.Repository}

	if opts.DryRun {
		for _, m := range plan.Milestones {
			result.Milestones = append(result.Milestones, m.Title)
		}
		for _, is := range plan.Issues {
			result.Outcomes = append(result.Outcomes, SeedOutcome{Title: is.Title, Action: SeedPlanned})
		}
		return result, nil
	}

	milestoneNumbers := make(map[string]int, len(plan.Milestones))
	for _, m := range plan.Milestones {
		number, created, err := s.host.EnsureMilestone(ctx, owner, repo, m)
		if err != nil {
			return nil, fmt.Errorf("milestone %q: %w", m.Title, err)
		}
		milestoneNumbers[m.Title] = number
		if created {
			s.logger.Info("milestone created", "milestone", m.Title, "number", number)
		}
		result.Milestones = append(result.Milestones, m.Title)
	}

	for _, is := range plan.Issues {
		outcome := s.seedIssue(ctx, owner, repo, is, milestoneNumbers[is.Milestone], opts.AddToProject)
		result.Outcomes = append(result.Outcomes, outcome)
		switch outcome.Action {
		case SeedCreated:
			result.Created++
		case SeedSkipped:
			result.Skipped++
		case SeedFailed:
			result.Failed++
		}
	}

	return result, nil
}

func (s *SeedService) seedIssue(ctx context.Context, owner, repo string, is seed.Issue, milestoneNumber int, addToProject bool) SeedOutcome {
	existing, err := s.host.FindIssue(ctx, owner, repo, is.Title)
	if err != nil {
		s.logger.Error("issue lookup failed", "title", is.Title, "error", err)
		return SeedOutcome{Title: is.Title, Action: SeedFailed, Error: err.Error()}
	}
	if existing != nil {
		s.logger.Info("issue already exists, skipping", "title", is.Title, "number", existing.Number)
		return SeedOutcome{Title: is.Title, Number: existing.Number, Action: SeedSkipped}
	}

	created, err := s.host.CreateIssue(ctx, owner, repo, is, milestoneNumber)
	if err != nil {
		s.logger.Error("issue creation failed", "title", is.Title, "error", err)
		return SeedOutcome{Title: is.Title, Action: SeedFailed, Error: err.Error()}
	}
	s.logger.Info("issue created", "title", is.Title, "number", created.Number)

	outcome := SeedOutcome{Title: is.Title, Number: created.Number, Action: SeedCreated}
	if addToProject && s.adder != nil {
		if _, err := s.adder.AddItem(ctx, created.NodeID); err != nil {
			s.logger.Error("adding issue to project failed", "title", is.Title, "error", err)
			outcome.Error = err.Error()
			return outcome
		}
		outcome.Added = true
	}
	return outcome
}
