package cli

import (
	"github.com/spf13/cobra"
)

var (
	Version = "dev"
	Commit  = "none"
	Date    = "unknown"
)

// workspacePath is the --workspace override; empty means the current
// directory.
var workspacePath string

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "boardkit",
	Version: Version,
	Short:   "Project-board bookkeeping on autopilot",
	Long: `Boardkit automates the bookkeeping of a GitHub Projects v2 board.
It classifies issue titles against an ordered keyword rule table,
assigns every item to its sprint iteration, and fills in missing
due dates from the iteration schedule. Re-runs are idempotent:
anything already right is left untouched.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the RootCmd.
func Execute() error {
	return RootCmd.Execute()
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&workspacePath, "workspace", "w", "",
		"Workspace directory (defaults to the current directory)")
}
