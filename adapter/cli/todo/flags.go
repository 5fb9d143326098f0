package todo

import (
	"fmt"

	"github.com/felixgeelhaar/todos/internal/todos/application/services"
	"github.com/felixgeelhaar/todos/internal/todos/domain/value_objects"
	"github.com/spf13/cobra"
)

// draftFlags binds the form fields. Only flags the user set end up in the patch.
type draftFlags struct {
	description string
	priority    string
	status      string
	category    string
}

func (f *draftFlags) bind(cmd *cobra.Command, withDescription bool) {
	if withDescription {
		cmd.Flags().StringVarP(&f.description, "todo", "t", "", "description")
	}
	cmd.Flags().StringVarP(&f.priority, "priority", "p", "", "priority (high, medium, low)")
	cmd.Flags().StringVarP(&f.status, "status", "s", "", "status (todo, in_progress, done)")
	cmd.Flags().StringVarP(&f.category, "category", "c", "", "category (learning, work, home)")
}

func (f *draftFlags) patch(cmd *cobra.Command) (services.DraftPatch, error) {
	var patch services.DraftPatch
	flags := cmd.Flags()

	if flags.Changed("todo") {
		d := f.description
		patch.Description = &d
	}
	if flags.Changed("priority") {
		p, err := value_objects.ParsePriority(f.priority)
		if err != nil {
			return patch, fmt.Errorf("--priority %q: %w", f.priority, err)
		}
		patch.Priority = &p
	}
	if flags.Changed("status") {
		s, err := value_objects.ParseStatus(f.status)
		if err != nil {
			return patch, fmt.Errorf("--status %q: %w", f.status, err)
		}
		patch.Status = &s
	}
	if flags.Changed("category") {
		c, err := value_objects.ParseCategory(f.category)
		if err != nil {
			return patch, fmt.Errorf("--category %q: %w", f.category, err)
		}
		patch.Category = &c
	}
	return patch, nil
}
