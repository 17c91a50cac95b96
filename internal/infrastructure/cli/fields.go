package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var fieldsCmd = &cobra.Command{
	Use:   "fields",
	Short: "Manage the project fields the engine depends on",
}

var fieldsEnsureCmd = &cobra.Command{
	Use:   "ensure",
	Short: "Verify the iteration field and create the due-date field if missing",
	Long: `Ensure checks that the configured iteration field exists and carries at
least one iteration, and that a due-date field is present, creating a
DATE field with the configured name when none matches. The iteration
field cannot be created here: its schedule needs the project settings.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		services, err := loadServices("")
		if err != nil {
			return err
		}
		defer services.Close()

		if services.Fields == nil {
			return NewCLIError("field management needs the hosted board",
				"Run without --provider; plugin providers manage their own fields", nil)
		}

		result, err := services.Fields.Ensure(cmd.Context(), services.Config)
		if err != nil {
			return MapError(err)
		}

		fmt.Printf("Iteration field %q: found (%d iterations)\n",
			result.IterationField.Name, result.IterationCount)
		if result.DateFieldCreated {
			fmt.Printf("Due-date field %q: created\n", result.DateField.Name)
		} else {
			fmt.Printf("Due-date field %q: found\n", result.DateField.Name)
		}
		return nil
	},
}

func init() {
	fieldsCmd.AddCommand(fieldsEnsureCmd)
	RootCmd.AddCommand(fieldsCmd)
}
