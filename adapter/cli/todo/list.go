package todo

import (
	"fmt"

	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	var (
		priority string
		all      bool
		show     bool
	)

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List todos",
		Long: `Fetch the todos from the store and print the visible ones.

Examples:
  todos list                   # Apply the saved filter
  todos list --priority high   # Only HIGH todos (saved as the filter)
  todos list --all             # Clear the filter
  todos list --show            # Show the list even while editing`,
		Aliases: []string{"ls"},
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			switch {
			case all:
				if err := c.SetFilter(ctx, value_objects.PriorityNone); err != nil {
					return err
				}
			case priority != "":
				p, err := value_objects.ParsePriority(priority)
				if err != nil {
					return fmt.Errorf("--priority %q: %w", priority, err)
				}
				if err := c.SetFilter(ctx, p); err != nil {
					return err
				}
			}

			if err := c.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to list todos: %w", err)
			}
			return printView(cmd, c.View(), show)
		},
	}

	cmd.Flags().StringVarP(&priority, "priority", "p", "", "only show this priority (high, medium, low)")
	cmd.Flags().BoolVarP(&all, "all", "a", false, "clear the priority filter")
	cmd.Flags().BoolVar(&show, "show", false, "show the list while editing")
	cmd.MarkFlagsMutuallyExclusive("priority", "all")
	return cmd
}

func newFilterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "filter <high|medium|low|all>",
		Short: "Set or clear the priority filter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			p, err := value_objects.ParsePriorityFilter(args[0])
			if err != nil {
				return fmt.Errorf("filter %q: %w", args[0], err)
			}
			ctx := cmd.Context()
			if err := c.SetFilter(ctx, p); err != nil {
				return err
			}
			if err := c.Refresh(ctx); err != nil {
				return fmt.Errorf("failed to list todos: %w", err)
			}
			return printView(cmd, c.View(), false)
		},
	}
}
