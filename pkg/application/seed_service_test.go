package application_test

import (
	"context"
	"errors"
	"testing"

	"boardkit/pkg/application"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/seed"
)

func testSeedPlan() *seed.Plan {
	return &seed.Plan{
		Repository: "acme/thermostat-savings",
		Milestones: []seed.Milestone{
			{Title: "Data ready", DueOn: board.MustParseDate("2026-02-15")},
		},
		Issues: []seed.Issue{
			{Title: "Finalize repository structure", Milestone: "Data ready"},
			{Title: "Draft data dictionary", Milestone: "Data ready", Labels: []string{"data"}},
			{Title: "Build occupancy preprocessing pipeline"},
		},
	}
}

func TestSeedService_Seed_CreatesPlannedIssues(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{}
	svc := application.NewSeedService(repo, host, nil, nil)

	result, err := svc.Seed(context.Background(), application.SeedOptions{})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if result.Created != 3 || result.Skipped != 0 || result.Failed != 0 {
		t.Errorf("result = %+v, want 3 created", result)
	}
	if len(host.CreatedTitles) != 3 {
		t.Errorf("created titles = %v, want 3", host.CreatedTitles)
	}
	if len(result.Milestones) != 1 || result.Milestones[0] != "Data ready" {
		t.Errorf("milestones = %v, want [Data ready]", result.Milestones)
	}
}

func TestSeedService_Seed_SkipsExistingTitles(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{
		Existing: map[string]*application.CreatedIssue{
			"Draft data dictionary": {Number: 42, Title: "Draft data dictionary"},
		},
	}
	svc := application.NewSeedService(repo, host, nil, nil)

	result, err := svc.Seed(context.Background(), application.SeedOptions{})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if result.Created != 2 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 2 created, 1 skipped", result)
	}
	for _, title := range host.CreatedTitles {
		if title == "Draft data dictionary" {
			t.Error("existing issue was created again")
		}
	}
	for _, o := range result.Outcomes {
		if o.Title == "Draft data dictionary" {
			if o.Action != application.SeedSkipped || o.Number != 42 {
				t.Errorf("outcome = %+v, want skipped with number 42", o)
			}
		}
	}
}

func TestSeedService_Seed_PerIssueFailureDoesNotAbort(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{
		CreateErr: map[string]error{"Draft data dictionary": errors.New("validation failed")},
	}
	svc := application.NewSeedService(repo, host, nil, nil)

	result, err := svc.Seed(context.Background(), application.SeedOptions{})
	if err != nil {
		t.Fatalf("Seed() error = %v, issue failures must not abort the pass", err)
	}

	if result.Created != 2 || result.Failed != 1 {
		t.Errorf("result = %+v, want 2 created, 1 failed", result)
	}
}

func TestSeedService_Seed_MilestoneFailureIsFatal(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{MilestoneErr: errors.New("forbidden")}
	svc := application.NewSeedService(repo, host, nil, nil)

	if _, err := svc.Seed(context.Background(), application.SeedOptions{}); err == nil {
		t.Fatal("Seed() expected an error when milestone setup fails")
	}
	if len(host.CreatedTitles) != 0 {
		t.Errorf("issues created despite milestone failure: %v", host.CreatedTitles)
	}
}

func TestSeedService_Seed_InvalidPlanMakesNoCalls(t *testing.T) {
	plan := testSeedPlan()
	plan.Issues = append(plan.Issues, seed.Issue{Title: "Draft data dictionary"})
	repo := &MockRepo{SeedPlan: plan}
	host := &MockIssueHost{}
	svc := application.NewSeedService(repo, host, nil, nil)

	_, err := svc.Seed(context.Background(), application.SeedOptions{})
	if !errors.Is(err, seed.ErrInvalidPlan) {
		t.Fatalf("Seed() error = %v, want %v", err, seed.ErrInvalidPlan)
	}
	if len(host.CreatedTitles) != 0 || len(host.MilestoneNums) != 0 {
		t.Error("API calls made for an invalid plan")
	}
}

func TestSeedService_Seed_DryRunPlansWithoutCalls(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{}
	svc := application.NewSeedService(repo, host, nil, nil)

	result, err := svc.Seed(context.Background(), application.SeedOptions{DryRun: true})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if len(host.CreatedTitles) != 0 || len(host.MilestoneNums) != 0 {
		t.Error("dry run reached the API")
	}
	if len(result.Outcomes) != 3 {
		t.Fatalf("outcomes = %d, want 3", len(result.Outcomes))
	}
	for _, o := range result.Outcomes {
		if o.Action != application.SeedPlanned {
			t.Errorf("outcome action = %s, want %s", o.Action, application.SeedPlanned)
		}
	}
}

func TestSeedService_Seed_AddsCreatedIssuesToProject(t *testing.T) {
	repo := &MockRepo{SeedPlan: testSeedPlan()}
	host := &MockIssueHost{}
	gw := testGateway()
	svc := application.NewSeedService(repo, host, gw, nil)

	result, err := svc.Seed(context.Background(), application.SeedOptions{AddToProject: true})
	if err != nil {
		t.Fatalf("Seed() error = %v", err)
	}

	if len(gw.AddedContent) != 3 {
		t.Errorf("items added to project = %d, want 3", len(gw.AddedContent))
	}
	for _, o := range result.Outcomes {
		if !o.Added {
			t.Errorf("outcome %q not marked added", o.Title)
		}
	}
}

func TestSeedService_Seed_NoPlanIsFatal(t *testing.T) {
	svc := application.NewSeedService(&MockRepo{}, &MockIssueHost{}, nil, nil)
	if _, err := svc.Seed(context.Background(), application.SeedOptions{}); err == nil {
		t.Fatal("Seed() expected an error without a seed plan")
	}
}
