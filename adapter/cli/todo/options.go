package todo

import (
	"fmt"
	"strings"

	"github.com/felixgeelhaar/todos/adapter/cli"
	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/spf13/cobra"
)

func jsonOutput() bool { return cli.JSONOutput() }

func newOptionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "options",
		Short: "Print the accepted priority, status and category values",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			opts := services.Options(c.Config().WithCategory)
			w := cmd.OutOrStdout()
			if jsonOutput() {
				return printJSON(w, opts)
			}
			fmt.Fprintf(w, "priorities: %s\n", strings.Join(opts.Priorities, ", "))
			fmt.Fprintf(w, "statuses:   %s\n", strings.Join(opts.Statuses, ", "))
			if len(opts.Categories) > 0 {
				fmt.Fprintf(w, "categories: %s\n", strings.Join(opts.Categories, ", "))
			}
			return nil
		},
	}
}
