// Package domain holds the workspace-level contracts shared by the
// application services: the configuration file shape and the repository
// port the storage layer implements.
package domain

import (
	"errors"
	"fmt"

	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/domain/seed"
)

// Workspace-level errors.
var (
	// ErrNotInitialized indicates no workspace directory exists here.
	ErrNotInitialized = errors.New("workspace not initialized (run 'boardkit init')")

	// ErrNoConfig indicates the workspace has no configuration file.
	ErrNoConfig = errors.New("no workspace configuration found")

	// ErrNoRules indicates no rules override file exists (built-ins apply).
	ErrNoRules = errors.New("no rules file found")

	// ErrNoSeedPlan indicates no seed plan file exists.
	ErrNoSeedPlan = errors.New("no seed plan found")

	// ErrNoReports indicates no run report has been written yet.
	ErrNoReports = errors.New("no run reports found")
)

// Config is the workspace configuration: which board to drive and how its
// managed fields are named.
type Config struct {
	Owner          string `yaml:"owner"`
	OwnerType      string `yaml:"owner_type,omitempty"`
	ProjectNumber  int    `yaml:"project_number"`
	Repository     string `yaml:"repository,omitempty"`
	IterationField string `yaml:"iteration_field"`
	DueDateField   string `yaml:"due_date_field"`
	TitlePrefix    string `yaml:"title_prefix"`
	DefaultSprint  int    `yaml:"default_sprint"`
}

// Owner types accepted in config.
const (
	OwnerTypeOrganization = "organization"
	OwnerTypeUser         = "user"
)

// DefaultConfig returns the configuration written by 'boardkit init'.
func DefaultConfig() *Config {
	return &Config{
		OwnerType:      OwnerTypeOrganization,
		IterationField: "Iteration",
		DueDateField:   "Due Date",
		TitlePrefix:    schedule.DefaultTitlePrefix,
		DefaultSprint:  schedule.MinSprint,
	}
}

// Validate checks the configuration is usable for a run.
func (c *Config) Validate() error {
	if c.Owner == "" {
		return fmt.Errorf("%w: owner is required", ErrNoConfig)
	}
	if c.ProjectNumber <= 0 {
		return fmt.Errorf("%w: project_number must be positive", ErrNoConfig)
	}
	if c.OwnerType != "" && c.OwnerType != OwnerTypeOrganization && c.OwnerType != OwnerTypeUser {
		return fmt.Errorf("%w: owner_type must be %q or %q", ErrNoConfig, OwnerTypeOrganization, OwnerTypeUser)
	}
	if c.DefaultSprint != 0 && (c.DefaultSprint < schedule.MinSprint || c.DefaultSprint > schedule.MaxSprint) {
		return fmt.Errorf("%w: default_sprint %d out of range", ErrNoConfig, c.DefaultSprint)
	}
	return nil
}

// IterationFieldName returns the configured iteration field name or the
// conventional default.
func (c *Config) IterationFieldName() string {
	if c.IterationField == "" {
		return "Iteration"
	}
	return c.IterationField
}

// DueDateFieldName returns the configured due-date field name or the
// conventional default.
func (c *Config) DueDateFieldName() string {
	if c.DueDateField == "" {
		return "Due Date"
	}
	return c.DueDateField
}

// SprintPrefix returns the configured iteration title prefix or the
// conventional default.
func (c *Config) SprintPrefix() string {
	if c.TitlePrefix == "" {
		return schedule.DefaultTitlePrefix
	}
	return c.TitlePrefix
}

// AmbiguousDefault returns the configured default sprint for ambiguous
// titles, bounded to the valid range.
func (c *Config) AmbiguousDefault() int {
	if c.DefaultSprint < schedule.MinSprint || c.DefaultSprint > schedule.MaxSprint {
		return schedule.MinSprint
	}
	return c.DefaultSprint
}

// WorkspaceRepository handles persistence of boardkit artifacts in the
// .boardkit/ directory.
type WorkspaceRepository interface {
	Root() string
	Initialize() error
	IsInitialized() bool
	SaveConfig(cfg *Config) error
	LoadConfig() (*Config, error)
	SaveRules(specs []schedule.RuleSpec) error
	LoadRules() ([]schedule.RuleSpec, error)
	HasRules() bool
	RulesPath() string
	SaveSeedPlan(plan *seed.Plan) error
	LoadSeedPlan() (*seed.Plan, error)
	SaveReport(report *run.Report) error
	LoadReport(id string) (*run.Report, error)
	LatestReport() (*run.Report, error)
	ListReportIDs() ([]string, error)
}
