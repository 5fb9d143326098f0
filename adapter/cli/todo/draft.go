package todo

import (
	"github.com/spf13/cobra"
)

func newDraftCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "draft",
		Short: "Show or change the draft",
	}
	cmd.AddCommand(newDraftShowCmd(), newDraftSetCmd())
	return cmd
}

func newDraftShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the draft and the todo being edited",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			v := c.View()
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), v.Draft)
			}
			printDraft(cmd.OutOrStdout(), v)
			return nil
		},
	}
}

func newDraftSetCmd() *cobra.Command {
	var flags draftFlags

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Change draft fields",
		Long: `Change draft fields without submitting.

Examples:
  todos draft set --todo "Call the plumber" -p medium
  todos draft set -s done`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c, err := controller()
			if err != nil {
				return err
			}
			patch, err := flags.patch(cmd)
			if err != nil {
				return err
			}
			if _, err := c.UpdateDraft(cmd.Context(), patch); err != nil {
				return err
			}
			v := c.View()
			if jsonOutput() {
				return printJSON(cmd.OutOrStdout(), v.Draft)
			}
			printDraft(cmd.OutOrStdout(), v)
			return nil
		},
	}

	flags.bind(cmd, true)
	return cmd
}
