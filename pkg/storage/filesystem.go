// Package storage implements the workspace repository on the local
// filesystem: everything boardkit persists lives under .boardkit/.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"gopkg.in/yaml.v3"

	"boardkit/pkg/domain"
	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/domain/seed"
)

const BoardkitDir = ".boardkit"
const ConfigFile = "config.yaml"
const RulesFile = "rules.yaml"
const SeedPlanFile = "seedplan.yaml"
const ReportsDir = "reports"

// rulesFile is the serialized shape of rules.yaml.
type rulesFile struct {
	Rules []schedule.RuleSpec `yaml:"rules"`
}

type FilesystemRepository struct {
	root        string
	retryConfig retry.Config
}

func NewFilesystemRepository(root string) *FilesystemRepository {
	return &FilesystemRepository{
		root: root,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
	}
}

// Root returns the workspace root directory.
func (r *FilesystemRepository) Root() string {
	return r.root
}

// ResolvePath ensures the path is a direct child of the .boardkit
// directory and prevents traversal.
func (r *FilesystemRepository) ResolvePath(filename string) (string, error) {
	if filename == "" {
		return "", fmt.Errorf("filename cannot be empty")
	}

	baseDir := filepath.Join(r.root, BoardkitDir)
	fullPath := filepath.Join(baseDir, filename)
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid file path: %s", filename)
	}

	return cleanPath, nil
}

// resolveReportPath guards paths inside the reports subdirectory.
func (r *FilesystemRepository) resolveReportPath(id string) (string, error) {
	if id == "" {
		return "", fmt.Errorf("report id cannot be empty")
	}

	baseDir := filepath.Join(r.root, BoardkitDir, ReportsDir)
	fullPath := filepath.Join(baseDir, id+".json")
	cleanPath := filepath.Clean(fullPath)

	if !strings.HasPrefix(cleanPath, baseDir) || filepath.Dir(cleanPath) != baseDir {
		return "", fmt.Errorf("invalid report id: %s", id)
	}

	return cleanPath, nil
}

func (r *FilesystemRepository) Initialize() error {
	path := filepath.Join(r.root, BoardkitDir, ReportsDir)
	// G301: Use 0700 for directories
	if err := os.MkdirAll(path, 0700); err != nil {
		return fmt.Errorf("failed to create .boardkit directory: %w", err)
	}
	return nil
}

func (r *FilesystemRepository) IsInitialized() bool {
	_, err := os.Stat(filepath.Join(r.root, BoardkitDir))
	return err == nil
}

func (r *FilesystemRepository) SaveConfig(cfg *domain.Config) error {
	path, err := r.ResolvePath(ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	// G306: Use 0600 for files
	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadConfig() (*domain.Config, error) {
	retryer := retry.New[*domain.Config](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*domain.Config, error) {
		path, err := r.ResolvePath(ConfigFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.ErrNoConfig
			}
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}

		var cfg domain.Config
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to unmarshal config: %w", err)
		}

		return &cfg, nil
	})
}

func (r *FilesystemRepository) SaveRules(specs []schedule.RuleSpec) error {
	path, err := r.ResolvePath(RulesFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(rulesFile{Rules: specs})
	if err != nil {
		return fmt.Errorf("failed to marshal rules: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadRules() ([]schedule.RuleSpec, error) {
	retryer := retry.New[[]schedule.RuleSpec](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) ([]schedule.RuleSpec, error) {
		path, err := r.ResolvePath(RulesFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.ErrNoRules
			}
			return nil, fmt.Errorf("failed to read rules file: %w", err)
		}

		var rf rulesFile
		if err := yaml.Unmarshal(data, &rf); err != nil {
			return nil, fmt.Errorf("failed to unmarshal rules: %w", err)
		}

		return rf.Rules, nil
	})
}

func (r *FilesystemRepository) HasRules() bool {
	path, err := r.ResolvePath(RulesFile)
	if err != nil {
		return false
	}
	_, err = os.Stat(path)
	return err == nil
}

// RulesPath returns the location of the rules override file, whether or
// not it exists. The watch mode monitors this path.
func (r *FilesystemRepository) RulesPath() string {
	return filepath.Join(r.root, BoardkitDir, RulesFile)
}

func (r *FilesystemRepository) SaveSeedPlan(plan *seed.Plan) error {
	path, err := r.ResolvePath(SeedPlanFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(plan)
	if err != nil {
		return fmt.Errorf("failed to marshal seed plan: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadSeedPlan() (*seed.Plan, error) {
	retryer := retry.New[*seed.Plan](r.retryConfig)

	return retryer.Do(context.Background(), func(ctx context.Context) (*seed.Plan, error) {
		path, err := r.ResolvePath(SeedPlanFile)
		if err != nil {
			return nil, err
		}

		// #nosec G304 -- Path is resolved and validated via ResolvePath
		data, err := os.ReadFile(path)
		if err != nil {
			if os.IsNotExist(err) {
				return nil, domain.ErrNoSeedPlan
			}
			return nil, fmt.Errorf("failed to read seed plan: %w", err)
		}

		var plan seed.Plan
		if err := yaml.Unmarshal(data, &plan); err != nil {
			return nil, fmt.Errorf("failed to unmarshal seed plan: %w", err)
		}

		return &plan, nil
	})
}

func (r *FilesystemRepository) SaveReport(report *run.Report) error {
	if err := r.Initialize(); err != nil {
		return err
	}

	path, err := r.resolveReportPath(report.ID)
	if err != nil {
		return err
	}

	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal report: %w", err)
	}

	return os.WriteFile(path, data, 0600)
}

func (r *FilesystemRepository) LoadReport(id string) (*run.Report, error) {
	path, err := r.resolveReportPath(id)
	if err != nil {
		return nil, err
	}

	// #nosec G304 -- Path is resolved and validated via resolveReportPath
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNoReports
		}
		return nil, fmt.Errorf("failed to read report: %w", err)
	}

	var report run.Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("failed to unmarshal report %s: %w", id, err)
	}

	return &report, nil
}

// LatestReport returns the most recently finished report.
func (r *FilesystemRepository) LatestReport() (*run.Report, error) {
	ids, err := r.ListReportIDs()
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, domain.ErrNoReports
	}

	var latest *run.Report
	for _, id := range ids {
		report, err := r.LoadReport(id)
		if err != nil {
			continue // skip unreadable reports, surface the rest
		}
		if latest == nil || report.StartedAt.After(latest.StartedAt) {
			latest = report
		}
	}
	if latest == nil {
		return nil, domain.ErrNoReports
	}
	return latest, nil
}

func (r *FilesystemRepository) ListReportIDs() ([]string, error) {
	dir := filepath.Join(r.root, BoardkitDir, ReportsDir)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	var ids []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !strings.HasSuffix(name, ".json") {
			continue
		}
		ids = append(ids, strings.TrimSuffix(name, ".json"))
	}
	sort.Strings(ids)
	return ids, nil
}
