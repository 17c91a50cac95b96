package githubapi

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v69/github"

	"boardkit/pkg/application"
	"boardkit/pkg/domain/seed"
)

// NewGitHubClient builds the REST client used by the issue host.
func NewGitHubClient(token string) *github.Client {
	return github.NewClient(nil).WithAuthToken(token)
}

// RepoHost implements application.IssueHost against the REST API.
type RepoHost struct {
	client *github.Client
	logger *slog.Logger
}

func NewRepoHost(client *github.Client, logger *slog.Logger) *RepoHost {
	if logger == nil {
		logger = slog.Default()
	}
	return &RepoHost{client: client, logger: logger}
}

// EnsureMilestone finds a milestone by title or creates it.
func (h *RepoHost) EnsureMilestone(ctx context.Context, owner, repo string, m seed.Milestone) (int, bool, error) {
	opts := &github.MilestoneListOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		milestones, resp, err := h.client.Issues.ListMilestones(ctx, owner, repo, opts)
		if err != nil {
			return 0, false, fmt.Errorf("failed to list milestones: %w", err)
		}
		for _, existing := range milestones {
			if existing.GetTitle() == m.Title {
				return existing.GetNumber(), false, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	request := &github.Milestone{Title: github.Ptr(m.Title)}
	if m.Description != "" {
		request.Description = github.Ptr(m.Description)
	}
	if !m.DueOn.IsZero() {
		request.DueOn = &github.Timestamp{Time: m.DueOn.Time()}
	}

	created, _, err := h.client.Issues.CreateMilestone(ctx, owner, repo, request)
	if err != nil {
		return 0, false, fmt.Errorf("failed to create milestone %q: %w", m.Title, err)
	}
	return created.GetNumber(), true, nil
}

// FindIssue scans the repository for an issue with the exact title.
// Pull requests are excluded even though the issues API returns them.
func (h *RepoHost) FindIssue(ctx context.Context, owner, repo, title string) (*application.CreatedIssue, error) {
	opts := &github.IssueListByRepoOptions{
		State:       "all",
		ListOptions: github.ListOptions{PerPage: 100},
	}
	for {
		issues, resp, err := h.client.Issues.ListByRepo(ctx, owner, repo, opts)
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		for _, issue := range issues {
			if issue.IsPullRequest() {
				continue
			}
			if issue.GetTitle() == title {
				return &application.CreatedIssue{
					Number: issue.GetNumber(),
					NodeID: issue.GetNodeID(),
					Title:  issue.GetTitle(),
				}, nil
			}
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return nil, nil
}

// CreateIssue opens an issue from the seed plan entry.
func (h *RepoHost) CreateIssue(ctx context.Context, owner, repo string, is seed.Issue, milestoneNumber int) (*application.CreatedIssue, error) {
	request := &github.IssueRequest{Title: github.Ptr(is.Title)}
	if is.Body != "" {
		request.Body = github.Ptr(is.Body)
	}
	if len(is.Labels) > 0 {
		labels := append([]string(nil), is.Labels...)
		request.Labels = &labels
	}
	if milestoneNumber > 0 {
		request.Milestone = github.Ptr(milestoneNumber)
	}

	created, _, err := h.client.Issues.Create(ctx, owner, repo, request)
	if err != nil {
		return nil, fmt.Errorf("failed to create issue %q: %w", is.Title, err)
	}
	return &application.CreatedIssue{
		Number: created.GetNumber(),
		NodeID: created.GetNodeID(),
		Title:  created.GetTitle(),
	}, nil
}
