package cli

import (
	"fmt"
	"os"

	"boardkit/pkg/domain"
	"boardkit/pkg/storage"
	"github.com/spf13/cobra"
)

var (
	initOwner     string
	initOwnerType string
	initNumber    int
	initRepo      string
)

// exampleSeedPlan is written next to the real seed plan location so a new
// workspace documents the expected shape. Rename it to seedplan.yaml to use.
const exampleSeedPlan = `# Example seed plan for 'boardkit seed'.
# Rename this file to seedplan.yaml and edit it. Issues whose titles
# already exist in the repository are skipped on re-runs.
repository: octo-org/thermostat-pilot
milestones:
  - title: Data ready
    due_on: 2026-03-01
    description: All source datasets collected and documented.
issues:
  - title: Collect TOU pricing data
    body: Pull time-of-use tariffs for the pilot region.
    milestone: Data ready
    labels: [data]
  - title: Set up conda environment
  - title: Draft data dictionary
    milestone: Data ready
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a boardkit workspace in the current directory",
	RunE: func(cmd *cobra.Command, args []string) error {
		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)

		if repo.IsInitialized() {
			return fmt.Errorf("workspace already initialized at %s", root)
		}
		if err := repo.Initialize(); err != nil {
			return fmt.Errorf("failed to initialize workspace: %w", err)
		}

		cfg := domain.DefaultConfig()
		cfg.Owner = initOwner
		cfg.ProjectNumber = initNumber
		cfg.Repository = initRepo
		if initOwnerType != "" {
			cfg.OwnerType = initOwnerType
		}
		if err := repo.SaveConfig(cfg); err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}

		examplePath, err := repo.ResolvePath("seedplan.example.yaml")
		if err != nil {
			return err
		}
		// G306: Use 0600 for files
		if err := os.WriteFile(examplePath, []byte(exampleSeedPlan), 0600); err != nil {
			return fmt.Errorf("failed to write example seed plan: %w", err)
		}

		fmt.Println("Initialized boardkit workspace in .boardkit/")
		if cfg.Owner == "" || cfg.ProjectNumber == 0 {
			fmt.Println("Edit .boardkit/config.yaml to point at your project (owner, project_number).")
		} else {
			fmt.Printf("Board: %s/%d (%s)\n", cfg.Owner, cfg.ProjectNumber, cfg.OwnerType)
		}
		return nil
	},
}

func init() {
	initCmd.Flags().StringVar(&initOwner, "owner", "", "Project owner login (organization or user)")
	initCmd.Flags().StringVar(&initOwnerType, "type", "", "Owner type: organization or user")
	initCmd.Flags().IntVar(&initNumber, "number", 0, "Project number")
	initCmd.Flags().StringVar(&initRepo, "repo", "", "owner/name repository for issue seeding")
	RootCmd.AddCommand(initCmd)
}
