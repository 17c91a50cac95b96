package cli

import (
	"fmt"

	"boardkit/pkg/application"
	"github.com/spf13/cobra"
)

var (
	seedDryRun       bool
	seedAddToProject bool
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Create the seed plan's milestones and issues",
	Long: `Seed reads .boardkit/seedplan.yaml and creates its milestones and
issues in the configured repository. Issues whose titles already exist
(open or closed) are skipped, so re-running a plan is safe. Per-issue
failures are reported and do not abort the pass.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices("")
		if err != nil {
			return err
		}
		defer services.Close()

		if services.Seed == nil {
			return NewCLIError("seeding is not configured",
				"Set 'repository: owner/name' in .boardkit/config.yaml", nil)
		}

		result, err := services.Seed.Seed(cmd.Context(), application.SeedOptions{
			DryRun:       seedDryRun,
			AddToProject: seedAddToProject,
		})
		if err != nil {
			return MapError(err)
		}

		renderSeedResult(result)
		return nil
	},
}

func renderSeedResult(result *application.SeedResult) {
	if len(result.Milestones) > 0 {
		fmt.Println("Milestones created:")
		for _, title := range result.Milestones {
			fmt.Printf("  + %s\n", title)
		}
	}

	for _, outcome := range result.Outcomes {
		switch outcome.Action {
		case application.SeedCreated:
			marker := fmt.Sprintf("#%d", outcome.Number)
			if outcome.Added {
				marker += " +project"
			}
			fmt.Printf("  created  %s (%s)\n", outcome.Title, marker)
		case application.SeedSkipped:
			fmt.Printf("  skipped  %s (#%d exists)\n", outcome.Title, outcome.Number)
		case application.SeedPlanned:
			fmt.Printf("  planned  %s\n", outcome.Title)
		case application.SeedFailed:
			fmt.Printf("  FAILED   %s: %s\n", outcome.Title, outcome.Error)
		}
	}

	fmt.Printf("\n%s: %d created, %d skipped, %d failed\n",
		result.Repository, result.Created, result.Skipped, result.Failed)
}

func init() {
	seedCmd.Flags().BoolVar(&seedDryRun, "dry-run", false,
		"Print the creation plan without calling the API")
	seedCmd.Flags().BoolVar(&seedAddToProject, "add-to-project", false,
		"Add each created issue to the configured project")
	RootCmd.AddCommand(seedCmd)
}
