package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"boardkit/internal/infrastructure/watch"
	"boardkit/pkg/application"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/run"
	"boardkit/pkg/domain/schedule"
	"github.com/spf13/cobra"
)

var sprintCmd = &cobra.Command{
	Use:   "sprint",
	Short: "Assign items to sprint iterations",
}

var (
	assignDryRun   bool
	sprintProvider string
	previewWatch   bool
)

var sprintAssignCmd = &cobra.Command{
	Use:   "assign [default-iteration] [start-date]",
	Short: "Classify every item and reconcile iteration and due date",
	Long: `Assign runs one pass over all project items: classify the title,
resolve the target iteration, and update the iteration field and the
due-date field where they are missing or wrong. Existing due dates are
never overwritten.

Optional positional arguments:
  default-iteration  sprint number for titles no rule matches (default 1)
  start-date         YYYY-MM-DD, overrides the resolved iteration's start
                     date when computing due dates

Item update failures are reported but do not fail the run.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseAssignArgs(args)
		if err != nil {
			return err
		}
		opts.DryRun = assignDryRun

		services, err := loadServices(sprintProvider)
		if err != nil {
			return err
		}
		defer services.Close()

		report, err := services.Assign.Run(cmd.Context(), opts)
		if err != nil {
			return MapError(err)
		}

		renderReport(report)
		return nil
	},
}

var sprintPreviewCmd = &cobra.Command{
	Use:   "preview [default-iteration] [start-date]",
	Short: "Show what assign would do without touching the board",
	Long: `Preview runs the same classify and resolve pass as assign but issues
no updates. With --watch the preview re-runs whenever the workspace
rules file changes, which is the loop for tuning rule patterns.`,
	Args: cobra.MaximumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		opts, err := parseAssignArgs(args)
		if err != nil {
			return err
		}
		opts.DryRun = true

		services, err := loadServices(sprintProvider)
		if err != nil {
			return err
		}
		defer services.Close()

		runPreview := func(ctx context.Context) {
			report, err := services.Assign.Run(ctx, opts)
			if err != nil {
				fmt.Printf("preview failed: %v\n", MapError(err))
				return
			}
			renderReport(report)
		}

		runPreview(cmd.Context())
		if !previewWatch {
			return nil
		}

		rulesPath := services.Workspace.Repo.RulesPath()
		watcher, err := watch.NewFileWatcher(0, func(path string) {
			fmt.Printf("\n%s changed, re-running preview\n", path)
			runPreview(cmd.Context())
		})
		if err != nil {
			return fmt.Errorf("starting rules watcher: %w", err)
		}
		if err := watcher.WatchFile(rulesPath); err != nil {
			return fmt.Errorf("watching %s: %w", rulesPath, err)
		}

		fmt.Printf("\nWatching %s for changes (Ctrl+C to stop)...\n", rulesPath)
		if err := watcher.Run(cmd.Context()); err != nil && err != context.Canceled {
			return err
		}
		return nil
	},
}

// parseAssignArgs reads the optional positional overrides shared by
// assign and preview.
func parseAssignArgs(args []string) (application.AssignOptions, error) {
	var opts application.AssignOptions
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			return opts, fmt.Errorf("default-iteration %q is not a sprint number", args[0])
		}
		if n < schedule.MinSprint || n > schedule.MaxSprint {
			return opts, fmt.Errorf("default-iteration %d outside sprint range %d..%d",
				n, schedule.MinSprint, schedule.MaxSprint)
		}
		opts.DefaultSprint = n
	}
	if len(args) > 1 {
		d, err := board.ParseDate(args[1])
		if err != nil {
			return opts, fmt.Errorf("start-date %q: %w", args[1], err)
		}
		opts.StartOverride = d
	}
	return opts, nil
}

// titleWidth is the column budget for issue titles in run tables.
const titleWidth = 43

// truncateTitle fits a title into the table column, marking the cut with
// a trailing ellipsis.
func truncateTitle(title string) string {
	runes := []rune(title)
	if len(runes) <= titleWidth {
		return title
	}
	return string(runes[:titleWidth-3]) + "..."
}

// outcomeLabel renders one row's result, naming the fields a live run
// updated or a dry run would update.
func outcomeLabel(row run.Row) string {
	var updates []string
	if row.IterationSet {
		updates = append(updates, "iteration")
	}
	if row.DueDateSet {
		updates = append(updates, "due date")
	}
	label := string(row.Status)
	if len(updates) > 0 && row.Status != run.StatusFailed {
		label += " (" + strings.Join(updates, ", ") + ")"
	}
	return label
}

func renderReport(report *run.Report) {
	mode := "Assignment run"
	if report.DryRun {
		mode = "Dry run"
	}
	fmt.Printf("%s against %s\n\n", mode, report.Project)

	fmt.Printf("%5s  %-*s  %-10s  %-10s  %s\n", "#", titleWidth, "TITLE", "ITERATION", "DUE", "OUTCOME")
	for _, row := range report.Rows {
		number := "-"
		if row.IssueNumber > 0 {
			number = strconv.Itoa(row.IssueNumber)
		}
		due := "-"
		if !row.DueDate.IsZero() {
			due = row.DueDate.String()
		}
		fmt.Printf("%5s  %-*s  %-10s  %-10s  %s\n",
			number, titleWidth, truncateTitle(row.Title), row.IterationTitle, due, outcomeLabel(row))
	}

	if ambiguous := report.AmbiguousRows(); len(ambiguous) > 0 {
		fmt.Printf("\nAmbiguous titles (assigned to the default sprint):\n")
		for _, row := range ambiguous {
			fmt.Printf("  - %s -> %s\n", row.Title, row.IterationTitle)
		}
	}

	if failed := report.FailedRows(); len(failed) > 0 {
		fmt.Printf("\nFailed updates:\n")
		for _, row := range failed {
			fmt.Printf("  - %s: %s\n", truncateTitle(row.Title), row.Error)
		}
	}

	c := report.Counts
	fmt.Printf("\n%d items: %d applied, %d skipped, %d failed",
		c.Total, c.Applied, c.Skipped, c.Failed)
	if c.Ambiguous > 0 || c.FellBack > 0 {
		fmt.Printf(" (%d ambiguous, %d fell back)", c.Ambiguous, c.FellBack)
	}
	fmt.Printf("\nReport: .boardkit/reports/%s.json\n", report.ID)
}

func init() {
	sprintAssignCmd.Flags().BoolVar(&assignDryRun, "dry-run", false,
		"Compute and record decisions without updating the board")
	sprintAssignCmd.Flags().StringVar(&sprintProvider, "provider", "",
		"Path to a board provider plugin binary")
	sprintPreviewCmd.Flags().StringVar(&sprintProvider, "provider", "",
		"Path to a board provider plugin binary")
	sprintPreviewCmd.Flags().BoolVar(&previewWatch, "watch", false,
		"Re-run the preview when the rules file changes")

	sprintCmd.AddCommand(sprintAssignCmd)
	sprintCmd.AddCommand(sprintPreviewCmd)
	RootCmd.AddCommand(sprintCmd)
}
