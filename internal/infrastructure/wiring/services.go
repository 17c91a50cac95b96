package wiring

import (
	"fmt"
	"os"
	"strconv"

	"boardkit/internal/infrastructure/config"
	"boardkit/internal/infrastructure/githubapi"
	"boardkit/pkg/application"
	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/provider"
)

// GatewayOptions selects the board backend for a run.
type GatewayOptions struct {
	// ProviderPath names a plugin binary to drive instead of the hosted
	// GraphQL API.
	ProviderPath string
}

// AppServices exposes the application services wired to a workspace and
// a board backend.
type AppServices struct {
	Workspace *Workspace
	Config    *domain.Config
	Gateway   board.Gateway

	Assign *application.AssignService
	Status *application.StatusService

	// Fields and Seed require the hosted API; both are nil when a plugin
	// provider is driving the board.
	Fields *application.FieldService
	Seed   *application.SeedService

	cleanup func()
}

// BuildAppServices loads the workspace, resolves a board backend, and
// wires the services for a repo root.
func BuildAppServices(root string, opts GatewayOptions) (*AppServices, error) {
	workspace := NewWorkspace(root)
	if !workspace.Repo.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	cfg, err := workspace.Repo.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	services := &AppServices{Workspace: workspace, Config: cfg, cleanup: func() {}}

	if opts.ProviderPath != "" {
		loader := provider.NewLoader()
		p, err := loader.Load(opts.ProviderPath)
		if err != nil {
			return nil, fmt.Errorf("loading provider: %w", err)
		}
		timed := provider.NewTimedProvider(p)
		if err := timed.Init(providerConfig(cfg)); err != nil {
			loader.Cleanup()
			return nil, fmt.Errorf("initializing provider: %w", err)
		}
		services.Gateway = provider.NewBridge(timed, cfg)
		services.cleanup = loader.Cleanup
	} else {
		token, err := config.Credential()
		if err != nil {
			return nil, err
		}
		gw := githubapi.NewGateway(githubapi.NewClient(config.APIEndpoint(), token), cfg, workspace.Logger)
		services.Gateway = gw
		services.Fields = application.NewFieldService(gw, workspace.Logger)
		if cfg.Repository != "" {
			host := githubapi.NewRepoHost(githubapi.NewGitHubClient(token), workspace.Logger)
			services.Seed = application.NewSeedService(workspace.Repo, host, gw, workspace.Logger)
		}
	}

	services.Assign = application.NewAssignService(workspace.Repo, services.Gateway, workspace.Logger)
	services.Status = application.NewStatusService(workspace.Repo, services.Gateway)
	return services, nil
}

// BuildAppServicesWithGateway wires the services around a caller-supplied
// gateway. Used by tests and embedded callers.
func BuildAppServicesWithGateway(root string, gateway board.Gateway) (*AppServices, error) {
	workspace := NewWorkspace(root)
	if !workspace.Repo.IsInitialized() {
		return nil, domain.ErrNotInitialized
	}
	cfg, err := workspace.Repo.LoadConfig()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	services := &AppServices{
		Workspace: workspace,
		Config:    cfg,
		Gateway:   gateway,
		Assign:    application.NewAssignService(workspace.Repo, gateway, workspace.Logger),
		Status:    application.NewStatusService(workspace.Repo, gateway),
		cleanup:   func() {},
	}
	if admin, ok := gateway.(board.FieldAdmin); ok {
		services.Fields = application.NewFieldService(admin, workspace.Logger)
	}
	return services, nil
}

// Close releases the provider subprocess when one is running.
func (s *AppServices) Close() {
	if s.cleanup != nil {
		s.cleanup()
	}
}

// providerConfig flattens the workspace configuration for a plugin's
// Init call. BOARDKIT_PROVIDER_BOARD points file-backed providers at
// their fixture.
func providerConfig(cfg *domain.Config) map[string]string {
	m := map[string]string{
		"owner":           cfg.Owner,
		"project_number":  strconv.Itoa(cfg.ProjectNumber),
		"iteration_field": cfg.IterationFieldName(),
		"due_date_field":  cfg.DueDateFieldName(),
	}
	if boardFile := os.Getenv("BOARDKIT_PROVIDER_BOARD"); boardFile != "" {
		m["board"] = boardFile
	}
	return m
}
