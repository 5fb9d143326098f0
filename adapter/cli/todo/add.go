package todo

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

func newAddCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "add <description>",
		Short: "Create a todo",
		Long: `Fill the draft and submit it as a new todo. Fields without a flag keep
their draft values (HIGH, TO DO, LEARNING by default).

Examples:
  todos add "Read the Go memory model"
  todos add "Fix the sink" -p low -c home`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			description := strings.Join(args, " ")
			patch.Description = &description

			saved, err := c.Add(cmd.Context(), patch)
			if err != nil {
				return fmt.Errorf("failed to create todo: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created #%s\n\n", saved.ID)
			return printView(cmd, c.View(), false)
		},
	}

	flags.bind(cmd, false)
	return cmd
}
