package todo

import (
	"fmt"

	"github.com/felixgeelhaar/todos/internal/todos/domain/todo"
	"github.com/spf13/cobra"
)

func newEditCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Start editing a todo",
		Long: `Copy a todo into the draft and mark it as being edited. Change the draft
with "todos draft set" (or flags here) and finish with "todos submit".`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}

			ctx := cmd.Context()
			if _, err := c.BeginEdit(ctx, todo.ID(args[0])); err != nil {
				return fmt.Errorf("failed to edit #%s: %w", args[0], err)
			}
			if !patch.IsEmpty() {
				if _, err := c.UpdateDraft(ctx, patch); err != nil {
					return err
				}
			}
			return printView(cmd, c.View(), false)
		},
	}

	flags.bind(cmd, true)
	return cmd
}

func newSubmitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "submit",
		Short: "Save the draft (update when editing, create otherwise)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			editing := c.Snapshot().EditingID

			saved, err := c.SubmitDraft(cmd.Context())
			if err != nil {
				return fmt.Errorf("failed to submit: %w", err)
			}

			verb := "Created"
			if !editing.IsZero() {
				verb = "Updated"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s #%s\n\n", verb, saved.ID)
			return printView(cmd, c.View(), false)
		},
	}
}

func newCancelCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cancel",
		Short: "Abandon the current edit and reset the draft",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			if err := c.CancelEdit(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Draft reset.")
			return nil
		},
	}
}

func newDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "delete <id>",
		Short:   "Delete a todo",
		Aliases: []string{"rm"},
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			if err := c.Remove(cmd.Context(), todo.ID(args[0])); err != nil {
				return fmt.Errorf("failed to delete #%s: %w", args[0], err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted #%s\n\n", args[0])
			return printView(cmd, c.View(), false)
		},
	}
}
