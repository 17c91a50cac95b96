package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"boardkit/pkg/application"
	"github.com/spf13/cobra"
)

var (
	statusJSON     bool
	statusProvider string
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a read-only snapshot of the board",
	Long: `Status reads the board and reports where it stands under the active
rule table: items per sprint, unassigned items, items without a due
date, and the titles no rule can place. Nothing is modified.

Use --json for machine output.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices(statusProvider)
		if err != nil {
			return err
		}
		defer services.Close()

		status, err := services.Status.Snapshot(cmd.Context())
		if err != nil {
			return MapError(err)
		}

		if statusJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(status)
		}

		renderStatus(status)
		return nil
	},
}

func renderStatus(status *application.BoardStatus) {
	fmt.Printf("Project: %s\n", status.Project)
	fmt.Printf("Rules: %s\n", status.RulesSource)
	fmt.Printf("Items: %d\n", status.TotalItems)
	fmt.Printf("- Unassigned:       %d\n", status.Unassigned)
	fmt.Printf("- Missing due date: %d\n", status.MissingDueDate)

	if len(status.PerSprint) > 0 {
		fmt.Println("\nItems per sprint (under current rules):")
		for _, sc := range status.PerSprint {
			fmt.Printf("  %-10s %d\n", sc.Title, sc.Items)
		}
	}

	if len(status.Ambiguous) > 0 {
		fmt.Printf("\nAmbiguous titles (%d):\n", len(status.Ambiguous))
		for _, title := range status.Ambiguous {
			fmt.Printf("  - %s\n", title)
		}
	}

	if status.LastRun != nil {
		c := status.LastRun
		fmt.Printf("\nLast run %s: %d items, %d applied, %d skipped, %d failed\n",
			status.LastRunID, c.Total, c.Applied, c.Skipped, c.Failed)
	} else {
		fmt.Println("\nNo runs recorded yet. Try 'boardkit sprint preview'.")
	}
}

func init() {
	statusCmd.Flags().BoolVar(&statusJSON, "json", false, "Output in JSON format")
	statusCmd.Flags().StringVar(&statusProvider, "provider", "",
		"Path to a board provider plugin binary")
	RootCmd.AddCommand(statusCmd)
}
