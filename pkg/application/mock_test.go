package application_test

import (
	"context"
	"fmt"

	"boardkit/pkg/application"
	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/domain/seed"
)

type MockRepo struct {
	Config      *domain.Config
	Rules       []schedule.RuleSpec
	SeedPlan    *seed.Plan
	Reports     []*run.Report
	Initialized bool
	SaveError   error
	LoadError   error
}

func (m *MockRepo) Root() string        { return "/tmp/boardkit-test" }
func (m *MockRepo) Initialize() error   { m.Initialized = true; return nil }
func (m *MockRepo) IsInitialized() bool { return m.Initialized }

func (m *MockRepo) SaveConfig(cfg *domain.Config) error { m.Config = cfg; return m.SaveError }
func (m *MockRepo) LoadConfig() (*domain.Config, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Config == nil {
		return nil, domain.ErrNoConfig
	}
	return m.Config, nil
}

func (m *MockRepo) SaveRules(specs []schedule.RuleSpec) error { m.Rules = specs; return m.SaveError }
func (m *MockRepo) LoadRules() ([]schedule.RuleSpec, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.Rules == nil {
		return nil, domain.ErrNoRules
	}
	return m.Rules, nil
}
func (m *MockRepo) HasRules() bool    { return m.Rules != nil }
func (m *MockRepo) RulesPath() string { return "/tmp/boardkit-test/.boardkit/rules.yaml" }

func (m *MockRepo) SaveSeedPlan(plan *seed.Plan) error { m.SeedPlan = plan; return m.SaveError }
func (m *MockRepo) LoadSeedPlan() (*seed.Plan, error) {
	if m.LoadError != nil {
		return nil, m.LoadError
	}
	if m.SeedPlan == nil {
		return nil, domain.ErrNoSeedPlan
	}
	return m.SeedPlan, nil
}

func (m *MockRepo) SaveReport(report *run.Report) error {
	if m.SaveError != nil {
		return m.SaveError
	}
	m.Reports = append(m.Reports, report)
	return nil
}
func (m *MockRepo) LoadReport(id string) (*run.Report, error) {
	for _, r := range m.Reports {
		if r.ID == id {
			return r, nil
		}
	}
	return nil, domain.ErrNoReports
}
func (m *MockRepo) LatestReport() (*run.Report, error) {
	if len(m.Reports) == 0 {
		return nil, domain.ErrNoReports
	}
	return m.Reports[len(m.Reports)-1], nil
}
func (m *MockRepo) ListReportIDs() ([]string, error) {
	ids := make([]string, 0, len(m.Reports))
	for _, r := range m.Reports {
		ids = append(ids, r.ID)
	}
	return ids, nil
}

// MockGateway records every mutation so tests can assert exact call
// sequences. Failures are injected per item ID.
type MockGateway struct {
	Project    board.Project
	ProjectErr error

	IterField     board.Field
	Iterations    []board.Iteration
	IterationsErr error

	DateField    board.Field
	DateFieldErr error

	Items    []board.Item
	ItemsErr error

	IterationCalls []string
	DueDateCalls   []string
	FailIteration  map[string]error
	FailDueDate    map[string]error

	CreatedFields []board.Field
	CreateErr     error
	AddedContent  []string
	AddErr        error
}

func (m *MockGateway) ResolveProject(ctx context.Context) (board.Project, error) {
	return m.Project, m.ProjectErr
}

func (m *MockGateway) ListIterations(ctx context.Context, fieldName string) (board.Field, []board.Iteration, error) {
	return m.IterField, m.Iterations, m.IterationsErr
}

func (m *MockGateway) FindDateField(ctx context.Context, name string) (board.Field, error) {
	return m.DateField, m.DateFieldErr
}

func (m *MockGateway) ListItems(ctx context.Context) ([]board.Item, error) {
	return m.Items, m.ItemsErr
}

func (m *MockGateway) SetItemIteration(ctx context.Context, itemID, fieldID, iterationID string) error {
	if err := m.FailIteration[itemID]; err != nil {
		return err
	}
	m.IterationCalls = append(m.IterationCalls, fmt.Sprintf("%s:%s:%s", itemID, fieldID, iterationID))
	return nil
}

func (m *MockGateway) SetItemDueDate(ctx context.Context, itemID, fieldID string, date board.Date) error {
	if err := m.FailDueDate[itemID]; err != nil {
		return err
	}
	m.DueDateCalls = append(m.DueDateCalls, fmt.Sprintf("%s:%s:%s", itemID, fieldID, date.String()))
	return nil
}

func (m *MockGateway) CreateDateField(ctx context.Context, name string) (board.Field, error) {
	if m.CreateErr != nil {
		return board.Field{}, m.CreateErr
	}
	f := board.Field{ID: "field-created", Name: name, Type: board.FieldTypeDate}
	m.CreatedFields = append(m.CreatedFields, f)
	return f, nil
}

func (m *MockGateway) AddItem(ctx context.Context, contentNodeID string) (string, error) {
	if m.AddErr != nil {
		return "", m.AddErr
	}
	m.AddedContent = append(m.AddedContent, contentNodeID)
	return "item-" + contentNodeID, nil
}

type MockIssueHost struct {
	Existing      map[string]*application.CreatedIssue
	MilestoneNums map[string]int
	CreatedTitles []string
	FindErr       error
	CreateErr     map[string]error
	MilestoneErr  error
	nextNumber    int
}

func (m *MockIssueHost) EnsureMilestone(ctx context.Context, owner, repo string, ms seed.Milestone) (int, bool, error) {
	if m.MilestoneErr != nil {
		return 0, false, m.MilestoneErr
	}
	if n, ok := m.MilestoneNums[ms.Title]; ok {
		return n, false, nil
	}
	if m.MilestoneNums == nil {
		m.MilestoneNums = map[string]int{}
	}
	n := len(m.MilestoneNums) + 1
	m.MilestoneNums[ms.Title] = n
	return n, true, nil
}

func (m *MockIssueHost) FindIssue(ctx context.Context, owner, repo, title string) (*application.CreatedIssue, error) {
	if m.FindErr != nil {
		return nil, m.FindErr
	}
	return m.Existing[title], nil
}

func (m *MockIssueHost) CreateIssue(ctx context.Context, owner, repo string, is seed.Issue, milestoneNumber int) (*application.CreatedIssue, error) {
	if err := m.CreateErr[is.Title]; err != nil {
		return nil, err
	}
	m.nextNumber++
	m.CreatedTitles = append(m.CreatedTitles, is.Title)
	return &application.CreatedIssue{
		Number: 100 + m.nextNumber,
		NodeID: fmt.Sprintf("node-%d", m.nextNumber),
		Title:  is.Title,
	}, nil
}
