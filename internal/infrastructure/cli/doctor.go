package cli

import (
	"fmt"
	"log/slog"

	"boardkit/internal/infrastructure/config"
	"boardkit/internal/infrastructure/githubapi"
	"boardkit/pkg/domain"
	"boardkit/pkg/domain/board"
	"boardkit/pkg/domain/schedule"
	"boardkit/pkg/storage"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check the health of the boardkit environment",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Running boardkit doctor...")

		root, err := getWorkspaceRoot()
		if err != nil {
			return err
		}
		repo := storage.NewFilesystemRepository(root)

		hasIssues := false
		check := func(name string, fn func() error) {
			fmt.Printf("Checking %s... ", name)
			if err := fn(); err != nil {
				fmt.Printf("FAIL\n  Error: %v\n", err)
				hasIssues = true
			} else {
				fmt.Printf("PASS\n")
			}
		}

		check("Workspace", func() error {
			if !repo.IsInitialized() {
				return domain.ErrNotInitialized
			}
			return nil
		})

		var cfg *domain.Config
		check("Config", func() error {
			c, err := repo.LoadConfig()
			if err != nil {
				return err
			}
			if err := c.Validate(); err != nil {
				return err
			}
			cfg = c
			return nil
		})

		check("Rules", func() error {
			if !repo.HasRules() {
				fmt.Printf("(built-in) ")
				return nil
			}
			specs, err := repo.LoadRules()
			if err != nil {
				return err
			}
			_, err = schedule.NewRuleSet(specs)
			return err
		})

		var token string
		check("Credential", func() error {
			t, err := config.Credential()
			token = t
			return err
		})

		var gateway *githubapi.Gateway
		check("Project", func() error {
			if cfg == nil || token == "" {
				return fmt.Errorf("config or credential missing, cannot reach the board")
			}
			client := githubapi.NewClient(config.APIEndpoint(), token)
			gateway = githubapi.NewGateway(client, cfg, slog.Default())
			project, err := gateway.ResolveProject(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Printf("(%s) ", project.Title)
			return nil
		})

		check("Iteration field", func() error {
			if gateway == nil {
				return fmt.Errorf("board unreachable, check skipped")
			}
			_, iterations, err := gateway.ListIterations(cmd.Context(), cfg.IterationFieldName())
			if err != nil {
				return err
			}
			if len(iterations) == 0 {
				return board.ErrNoIterations
			}
			fmt.Printf("(%d iterations) ", len(iterations))
			return nil
		})

		check("Due-date field", func() error {
			if gateway == nil {
				return fmt.Errorf("board unreachable, check skipped")
			}
			field, err := gateway.FindDateField(cmd.Context(), cfg.DueDateFieldName())
			if err != nil {
				return err
			}
			fmt.Printf("(%s) ", field.Name)
			return nil
		})

		if hasIssues {
			fmt.Println("\nIssues found! Fix them before running 'boardkit sprint assign'.")
			return fmt.Errorf("doctor found issues")
		}
		fmt.Println("\nEverything looks good!")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(doctorCmd)
}
